// Package render turns a normalized turn sequence into the final markdown
// document. Rendering is pure: identical inputs produce byte-identical
// output, which is what makes incremental re-runs idempotent.
package render

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/cbroglie/mustache"

	"ccback/internal/core/models"
)

// maxBodyRunes bounds one turn's rendered body.
const maxBodyRunes = 10000

// markerRe matches the machine-readable session marker embedded as the
// first line of every document.
var markerRe = regexp.MustCompile(`^<!-- ccback:session:([^ ]+) -->`)

const headerTemplate = `<!-- ccback:session:{{{session_id}}} -->
# {{{project}}}

> {{{session_label}}}: ` + "`{{{short_id}}}...`" + `
> {{{started_label}}}: {{{started}}}
`

const turnTemplate = `## {{{icon}}} {{{label}}}{{{time}}}

{{{body}}}
`

// Document is everything the renderer needs for one session.
type Document struct {
	Session  models.Session
	Turns    []models.Turn
	Language string // "en" or "ko"
}

type labels struct {
	user      string
	assistant string
	session   string
	started   string
	truncated string
}

var labelSets = map[string]labels{
	"en": {
		user:      "User",
		assistant: "Claude",
		session:   "Session",
		started:   "Started",
		truncated: "[Truncated due to length]",
	},
	"ko": {
		user:      "사용자",
		assistant: "클로드",
		session:   "세션",
		started:   "시작",
		truncated: "[길이 제한으로 잘림]",
	},
}

// Icons maps tool categories to their fixed glyphs.
var Icons = map[models.ToolCategory]string{
	models.CategoryFileOp:   "📁",
	models.CategoryShell:    "🔧",
	models.CategoryWeb:      "🌐",
	models.CategoryTodo:     "📝",
	models.CategoryTaskNote: "🤖",
	models.CategoryOther:    "⚙️",
}

// SessionMarker returns the marker line identifying a backed-up session.
func SessionMarker(sessionID string) string {
	return fmt.Sprintf("<!-- ccback:session:%s -->", sessionID)
}

// ExtractSessionID pulls the session id out of a document's first line.
func ExtractSessionID(firstLine string) (string, bool) {
	m := markerRe.FindStringSubmatch(strings.TrimSpace(firstLine))
	if m == nil {
		return "", false
	}
	return m[1], true
}

// Render produces the complete document text for one session.
func Render(doc Document) (string, error) {
	lang, ok := labelSets[doc.Language]
	if !ok {
		lang = labelSets["en"]
	}

	header, err := mustache.Render(headerTemplate, map[string]interface{}{
		"session_id":    doc.Session.SessionID,
		"project":       doc.Session.Project,
		"session_label": lang.session,
		"short_id":      doc.Session.ShortID(),
		"started_label": lang.started,
		"started":       doc.Session.StartTime.Local().Format("2006-01-02 15:04"),
	})
	if err != nil {
		return "", fmt.Errorf("failed to render header: %w", err)
	}

	var b strings.Builder
	b.WriteString(header)
	b.WriteString("\n---\n\n")

	for _, turn := range doc.Turns {
		block, err := renderTurn(turn, lang)
		if err != nil {
			return "", err
		}
		b.WriteString(block)
		b.WriteString("\n---\n\n")
	}

	return b.String(), nil
}

func renderTurn(turn models.Turn, lang labels) (string, error) {
	var icon, label, body string

	switch turn.Role {
	case models.RoleUser:
		icon = "🧑"
		label = lang.user
		body = quote(truncateBody(turn.Text, lang))
	default:
		icon = "🤖"
		label = lang.assistant
		body = assistantBody(turn, lang)
	}

	timeStr := ""
	if !turn.Timestamp.IsZero() {
		timeStr = " (" + turn.Timestamp.Local().Format("15:04") + ")"
	}

	block, err := mustache.Render(turnTemplate, map[string]interface{}{
		"icon":  icon,
		"label": label,
		"time":  timeStr,
		"body":  body,
	})
	if err != nil {
		return "", fmt.Errorf("failed to render turn: %w", err)
	}
	return block, nil
}

func assistantBody(turn models.Turn, lang labels) string {
	parts := make([]string, 0, 1+len(turn.Notes))
	if turn.Text != "" {
		parts = append(parts, truncateBody(turn.Text, lang))
	}
	for _, note := range turn.Notes {
		parts = append(parts, noteLine(note))
	}
	return strings.Join(parts, "\n")
}

// noteLine renders one tool note as an inline-code line, e.g.
// `📁 Read: a.py`.
func noteLine(note models.ToolNote) string {
	icon := Icons[note.Category]
	if icon == "" {
		icon = Icons[models.CategoryOther]
	}
	line := icon + " " + note.Label
	if note.Preview != "" {
		line += ": " + note.Preview
	}
	return "`" + line + "`"
}

func quote(text string) string {
	lines := strings.Split(text, "\n")
	for i, line := range lines {
		lines[i] = "> " + line
	}
	return strings.Join(lines, "\n")
}

func truncateBody(text string, lang labels) string {
	runes := []rune(text)
	if len(runes) <= maxBodyRunes {
		return text
	}
	return string(runes[:maxBodyRunes]) + "\n\n> " + lang.truncated
}
