package convo

import (
	"strings"
	"testing"
	"time"

	"ccback/internal/core/models"
	"ccback/pkg/ccsessions"
)

func ts(min int) time.Time {
	return time.Date(2025, 6, 1, 9, min, 0, 0, time.UTC)
}

func TestNormalize_MergesConsecutiveAssistantRecords(t *testing.T) {
	records := []ccsessions.Record{
		{Kind: ccsessions.KindUser, Text: "Fix login bug", Timestamp: ts(0)},
		{Kind: ccsessions.KindAssistant, Text: "Looking at it.", Timestamp: ts(1)},
		{Kind: ccsessions.KindAssistant, Text: "Found the cause.", Timestamp: ts(2)},
		{Kind: ccsessions.KindAssistant, Text: "Fixed it.", Timestamp: ts(3)},
	}

	turns := Normalize(records)
	if len(turns) != 2 {
		t.Fatalf("turns = %d, want 2 (user + merged assistant)", len(turns))
	}

	want := "Looking at it.\n\nFound the cause.\n\nFixed it."
	if turns[1].Text != want {
		t.Errorf("merged text = %q, want %q", turns[1].Text, want)
	}
	if !turns[1].Timestamp.Equal(ts(1)) {
		t.Errorf("assistant turn timestamp = %v, want first record's", turns[1].Timestamp)
	}
}

func TestNormalize_UserFlushesOpenTurn(t *testing.T) {
	records := []ccsessions.Record{
		{Kind: ccsessions.KindAssistant, Text: "First answer"},
		{Kind: ccsessions.KindUser, Text: "thanks"},
		{Kind: ccsessions.KindAssistant, Text: "Second answer"},
	}

	turns := Normalize(records)
	if len(turns) != 3 {
		t.Fatalf("turns = %d, want 3", len(turns))
	}
	wantRoles := []models.Role{models.RoleAssistant, models.RoleUser, models.RoleAssistant}
	for i, want := range wantRoles {
		if turns[i].Role != want {
			t.Errorf("turns[%d].Role = %v, want %v", i, turns[i].Role, want)
		}
	}
}

func TestNormalize_PureToolTurnEmitted(t *testing.T) {
	// assistant with empty text, then tool call + result, then new user turn
	records := []ccsessions.Record{
		{Kind: ccsessions.KindUser, Text: "check a.py"},
		{Kind: ccsessions.KindAssistant, Text: ""},
		{Kind: ccsessions.KindToolCall, ToolName: "Read", ToolText: "a.py"},
		{Kind: ccsessions.KindToolResult, ToolText: "contents..."},
		{Kind: ccsessions.KindUser, Text: "thanks"},
	}

	turns := Normalize(records)
	if len(turns) != 3 {
		t.Fatalf("turns = %d, want 3", len(turns))
	}

	tool := turns[1]
	if tool.Role != models.RoleAssistant || tool.Text != "" {
		t.Fatalf("middle turn = %+v, want empty assistant turn", tool)
	}
	if len(tool.Notes) != 1 {
		t.Fatalf("notes = %d, want 1 (result folded into call)", len(tool.Notes))
	}
	note := tool.Notes[0]
	if note.Category != models.CategoryFileOp || note.Label != "Read" || note.Preview != "a.py" {
		t.Errorf("note = %+v, want file-op Read a.py", note)
	}
}

func TestNormalize_StrayResultGetsOwnNote(t *testing.T) {
	records := []ccsessions.Record{
		{Kind: ccsessions.KindToolResult, ToolText: "orphan output"},
	}

	turns := Normalize(records)
	if len(turns) != 1 || len(turns[0].Notes) != 1 {
		t.Fatalf("turns = %+v, want one assistant turn with one note", turns)
	}
	if turns[0].Notes[0].Label != "Result" {
		t.Errorf("label = %v, want 'Result'", turns[0].Notes[0].Label)
	}
}

func TestNormalize_OtherRecordsBecomeNotes(t *testing.T) {
	records := []ccsessions.Record{
		{Kind: ccsessions.KindAssistant, Text: "done"},
		{Kind: ccsessions.KindOther, ToolName: "file-history-snapshot"},
	}

	turns := Normalize(records)
	if len(turns) != 1 {
		t.Fatalf("turns = %d, want 1", len(turns))
	}
	if len(turns[0].Notes) != 1 || turns[0].Notes[0].Category != models.CategoryOther {
		t.Errorf("notes = %+v, want one other-category note", turns[0].Notes)
	}
}

func TestNormalize_SkipsMetaAndInternal(t *testing.T) {
	records := []ccsessions.Record{
		{Kind: ccsessions.KindUser, Text: "<command-name>clear</command-name>"},
		{Kind: ccsessions.KindUser, Text: "real question", IsMeta: false},
		{Kind: ccsessions.KindUser, Text: "hidden", IsMeta: true},
	}

	turns := Normalize(records)
	if len(turns) != 1 || turns[0].Text != "real question" {
		t.Errorf("turns = %+v, want only the real question", turns)
	}
}

func TestPreview(t *testing.T) {
	long := strings.Repeat("x", 150)
	got := Preview(long)
	if len([]rune(got)) != PreviewLimit+3 || !strings.HasSuffix(got, "...") {
		t.Errorf("Preview(long) = %q, want %d runes plus ellipsis", got, PreviewLimit)
	}

	if got := Preview("line one\nline two"); got != "line one line two" {
		t.Errorf("Preview should collapse newlines, got %q", got)
	}

	if got := Preview("short"); got != "short" {
		t.Errorf("Preview(short) = %q", got)
	}
}

func TestCategorize(t *testing.T) {
	tests := []struct {
		tool string
		want models.ToolCategory
	}{
		{"Read", models.CategoryFileOp},
		{"Grep", models.CategoryFileOp},
		{"Bash", models.CategoryShell},
		{"WebFetch", models.CategoryWeb},
		{"TodoWrite", models.CategoryTodo},
		{"Task", models.CategoryTaskNote},
		{"SomethingNew", models.CategoryOther},
	}

	for _, tt := range tests {
		t.Run(tt.tool, func(t *testing.T) {
			if got := Categorize(tt.tool); got != tt.want {
				t.Errorf("Categorize(%q) = %v, want %v", tt.tool, got, tt.want)
			}
		})
	}
}
