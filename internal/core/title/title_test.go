package title

import (
	"strings"
	"testing"
)

func TestDerive(t *testing.T) {
	const sessionID = "0ccfddc4-00e7-443a-bb82-58ede5936619"

	tests := []struct {
		name string
		text string
		want string
	}{
		{
			name: "plain request",
			text: "Fix login bug",
			want: "Fix login bug",
		},
		{
			name: "first sentence only",
			text: "Fix login bug. Then add tests for it.",
			want: "Fix login bug",
		},
		{
			name: "first line only",
			text: "Refactor the parser\nhere is the full context...",
			want: "Refactor the parser",
		},
		{
			name: "github url",
			text: "https://github.com/acme/invoicer please review this",
			want: "GitHub repo invoicer",
		},
		{
			name: "gitlab url",
			text: "https://gitlab.com/acme/widgets.git",
			want: "GitLab repo widgets",
		},
		{
			name: "file path",
			text: "/Users/dev/scripts/backup.py",
			want: "backup",
		},
		{
			name: "illegal filename chars stripped",
			text: `what does foo<T>::bar do?`,
			want: "what does foo T bar do",
		},
		{
			name: "shell command falls back to session id",
			text: "ls -la",
			want: "0ccfddc4",
		},
		{
			name: "slash command falls back",
			text: "/compact",
			want: "0ccfddc4",
		},
		{
			name: "injected tag falls back",
			text: "<system-reminder>stuff</system-reminder>",
			want: "0ccfddc4",
		},
		{
			name: "punctuation only falls back",
			text: "???",
			want: "0ccfddc4",
		},
		{
			name: "empty falls back",
			text: "",
			want: "0ccfddc4",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Derive(tt.text, sessionID); got != tt.want {
				t.Errorf("Derive(%q) = %q, want %q", tt.text, got, tt.want)
			}
		})
	}
}

func TestDerive_TrimsAtWordBoundary(t *testing.T) {
	text := "please refactor the session importer so that it handles gigantic files without loading them into memory"
	got := Derive(text, "abc12345-rest")

	if len([]rune(got)) > MaxLength {
		t.Errorf("Derive() = %q, longer than %d runes", got, MaxLength)
	}
	if strings.HasSuffix(got, " ") || strings.Contains(got, "  ") {
		t.Errorf("Derive() = %q, has stray whitespace", got)
	}
	// Must end on a whole word from the input
	lastWord := got[strings.LastIndex(got, " ")+1:]
	if !strings.Contains(text, lastWord) {
		t.Errorf("Derive() = %q, cut mid-word", got)
	}
}

func TestDerive_Deterministic(t *testing.T) {
	for i := 0; i < 3; i++ {
		if got := Derive("Fix login bug", "abc"); got != "Fix login bug" {
			t.Fatalf("Derive not deterministic: %q", got)
		}
	}
}
