package tui

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"ccback/internal/core/config"
)

func key(t tea.KeyType) tea.KeyMsg {
	return tea.KeyMsg{Type: t}
}

func TestSetupModel_SubmitKeepsDefaults(t *testing.T) {
	m := newSetupModel(config.Config{OutputPath: "/backups", Language: "en"})

	updated, _ := m.Update(key(tea.KeyEnter))
	final := updated.(setupModel)

	if !final.submitted {
		t.Fatal("enter should submit the form")
	}
	if got := final.pathInput.Value(); got != "/backups" {
		t.Errorf("path = %q, want preserved default", got)
	}
	if languages[final.lang] != "en" {
		t.Errorf("lang = %q, want en", languages[final.lang])
	}
}

func TestSetupModel_LanguageToggle(t *testing.T) {
	m := newSetupModel(config.Config{OutputPath: "/backups", Language: "en"})

	// tab to the language field, arrow to ko
	updated, _ := m.Update(key(tea.KeyTab))
	updated, _ = updated.(setupModel).Update(key(tea.KeyRight))
	final := updated.(setupModel)

	if final.focus != fieldLang {
		t.Fatalf("focus = %d, want language field", final.focus)
	}
	if languages[final.lang] != "ko" {
		t.Errorf("lang = %q, want ko after right arrow", languages[final.lang])
	}
}

func TestSetupModel_EscapeCancels(t *testing.T) {
	m := newSetupModel(config.Default())

	updated, _ := m.Update(key(tea.KeyEsc))
	final := updated.(setupModel)

	if final.submitted {
		t.Error("esc must not submit")
	}
	if !final.quitting {
		t.Error("esc should quit")
	}
}

func TestSetupModel_View(t *testing.T) {
	m := newSetupModel(config.Default())
	view := m.View()

	for _, want := range []string{"ccback setup", "Output directory", "Language"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q", want)
		}
	}
}
