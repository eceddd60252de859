// Package tui holds the interactive setup form. The backup engine never
// prompts; this form just writes the config the CLI resolves on later runs.
package tui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"ccback/internal/core/config"
)

// setup field indices
const (
	fieldPath = iota
	fieldLang
	fieldCount
)

var languages = []string{"en", "ko"}

type setupModel struct {
	pathInput textinput.Model
	lang      int
	focus     int
	submitted bool
	quitting  bool
}

func newSetupModel(cfg config.Config) setupModel {
	pi := textinput.New()
	pi.Placeholder = "~/claude-backup"
	pi.CharLimit = 300
	pi.SetValue(cfg.OutputPath)
	pi.CursorEnd()
	pi.Focus()

	lang := 0
	for i, l := range languages {
		if l == cfg.Language {
			lang = i
		}
	}

	return setupModel{
		pathInput: pi,
		lang:      lang,
		focus:     fieldPath,
	}
}

func (m setupModel) Init() tea.Cmd {
	return textinput.Blink
}

func (m setupModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		var cmd tea.Cmd
		m.pathInput, cmd = m.pathInput.Update(msg)
		return m, cmd
	}

	switch keyMsg.String() {
	case "esc", "ctrl+c":
		m.quitting = true
		return m, tea.Quit

	case "tab", "down", "shift+tab", "up":
		if m.focus == fieldPath {
			m.pathInput.Blur()
		}
		m.focus = (m.focus + 1) % fieldCount
		if m.focus == fieldPath {
			m.pathInput.Focus()
		}
		return m, nil

	case "enter":
		m.submitted = true
		m.quitting = true
		return m, tea.Quit
	}

	switch m.focus {
	case fieldLang:
		switch keyMsg.String() {
		case "left", "h":
			m.lang = 0
		case "right", "l":
			m.lang = 1
		}
	case fieldPath:
		var cmd tea.Cmd
		m.pathInput, cmd = m.pathInput.Update(msg)
		return m, cmd
	}

	return m, nil
}

func (m setupModel) View() string {
	if m.quitting {
		return ""
	}

	var langChoices string
	for i, l := range languages {
		label := " " + l + " "
		if i == m.lang {
			label = selectedStyle.Render(label)
		} else {
			label = choiceStyle.Render(label)
		}
		langChoices += label
	}

	return titleStyle.Render("ccback setup") + "\n\n" +
		labelStyle.Render("Output directory") + "\n" +
		m.pathInput.View() + "\n\n" +
		labelStyle.Render("Language") + "\n" +
		langChoices + "\n\n" +
		helpStyle.Render("tab: next field • enter: save • esc: cancel") + "\n"
}

// RunSetup shows the form and returns the chosen config. ok is false when
// the user cancelled.
func RunSetup(cfg config.Config) (result config.Config, ok bool, err error) {
	final, err := tea.NewProgram(newSetupModel(cfg)).Run()
	if err != nil {
		return cfg, false, fmt.Errorf("setup form failed: %w", err)
	}

	m, isSetup := final.(setupModel)
	if !isSetup || !m.submitted {
		return cfg, false, nil
	}

	cfg.Language = languages[m.lang]
	if v := m.pathInput.Value(); v != "" {
		cfg.OutputPath = v
	}
	return cfg, true, nil
}
