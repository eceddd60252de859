package render

import (
	"strings"
	"testing"
	"time"

	"ccback/internal/core/models"
)

func sampleDoc(lang string) Document {
	start := time.Date(2025, 6, 1, 9, 0, 0, 0, time.Local)
	return Document{
		Session: models.Session{
			SessionID: "0ccfddc4-00e7-443a-bb82-58ede5936619",
			Project:   "017 - invoice",
			StartTime: start,
		},
		Language: lang,
		Turns: []models.Turn{
			{
				Role:      models.RoleUser,
				Timestamp: start,
				Text:      "Fix login bug",
			},
			{
				Role:      models.RoleAssistant,
				Timestamp: start.Add(time.Minute),
				Text:      "Fixed it",
				Notes: []models.ToolNote{
					{Category: models.CategoryFileOp, Label: "Read", Preview: "a.py"},
				},
			},
		},
	}
}

func TestRender_English(t *testing.T) {
	out, err := Render(sampleDoc("en"))
	if err != nil {
		t.Fatalf("Render() error = %v", err)
	}

	firstLine := strings.SplitN(out, "\n", 2)[0]
	id, ok := ExtractSessionID(firstLine)
	if !ok || id != "0ccfddc4-00e7-443a-bb82-58ede5936619" {
		t.Errorf("first line = %q, want session marker", firstLine)
	}

	for _, want := range []string{
		"# 017 - invoice",
		"> Session: `0ccfddc4...`",
		"> Started: 2025-06-01 09:00",
		"## 🧑 User (09:00)",
		"> Fix login bug",
		"## 🤖 Claude (09:01)",
		"Fixed it",
		"`📁 Read: a.py`",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q\n%s", want, out)
		}
	}

	// Separator between header and first turn, and between turns
	if got := strings.Count(out, "\n---\n"); got != 3 {
		t.Errorf("separator count = %d, want 3", got)
	}
}

func TestRender_Korean(t *testing.T) {
	out, err := Render(sampleDoc("ko"))
	if err != nil {
		t.Fatalf("Render() error = %v", err)
	}

	for _, want := range []string{
		"> 세션: `0ccfddc4...`",
		"> 시작: 2025-06-01 09:00",
		"## 🧑 사용자 (09:00)",
		"## 🤖 클로드 (09:01)",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q\n%s", want, out)
		}
	}
}

func TestRender_Deterministic(t *testing.T) {
	doc := sampleDoc("en")
	first, err := Render(doc)
	if err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	for i := 0; i < 3; i++ {
		again, err := Render(doc)
		if err != nil {
			t.Fatalf("Render() error = %v", err)
		}
		if again != first {
			t.Fatal("Render() output differs across runs")
		}
	}
}

func TestRender_PureToolTurn(t *testing.T) {
	doc := Document{
		Session:  models.Session{SessionID: "abc12345-xyz", Project: "p"},
		Language: "en",
		Turns: []models.Turn{
			{
				Role: models.RoleAssistant,
				Notes: []models.ToolNote{
					{Category: models.CategoryShell, Label: "Bash", Preview: "ls -la"},
				},
			},
		},
	}

	out, err := Render(doc)
	if err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	if !strings.Contains(out, "`🔧 Bash: ls -la`") {
		t.Errorf("output missing tool note line\n%s", out)
	}
	// No time suffix for a zero timestamp
	if !strings.Contains(out, "## 🤖 Claude\n") {
		t.Errorf("zero-timestamp heading wrong\n%s", out)
	}
}

func TestRender_TruncatesLongBodies(t *testing.T) {
	doc := Document{
		Session:  models.Session{SessionID: "abc", Project: "p"},
		Language: "en",
		Turns: []models.Turn{
			{Role: models.RoleAssistant, Text: strings.Repeat("x", 20000)},
		},
	}

	out, err := Render(doc)
	if err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	if !strings.Contains(out, "[Truncated due to length]") {
		t.Error("long body not truncated")
	}
}

func TestIcons_Complete(t *testing.T) {
	categories := []models.ToolCategory{
		models.CategoryFileOp, models.CategoryShell, models.CategoryWeb,
		models.CategoryTodo, models.CategoryTaskNote, models.CategoryOther,
	}
	for _, cat := range categories {
		if Icons[cat] == "" {
			t.Errorf("no icon for category %v", cat)
		}
	}
}

func TestExtractSessionID_NonMarker(t *testing.T) {
	if _, ok := ExtractSessionID("# just a heading"); ok {
		t.Error("ExtractSessionID matched a non-marker line")
	}
}
