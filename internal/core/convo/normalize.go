// Package convo turns the ordered records of one session into the
// display-ready turn sequence: consecutive assistant records merge into a
// single turn, tool activity becomes notes attached to that turn.
package convo

import (
	"strings"

	"ccback/internal/core/models"
	"ccback/pkg/ccsessions"
)

// PreviewLimit bounds tool argument/result previews, in runes.
const PreviewLimit = 100

// Normalize converts parsed records into ordered turns. Records are trusted
// to be in file order; timestamps are display metadata only.
func Normalize(records []ccsessions.Record) []models.Turn {
	var turns []models.Turn
	var open *models.Turn // accumulating assistant turn
	var lastCallName string

	flush := func() {
		if open != nil {
			turns = append(turns, *open)
			open = nil
		}
		lastCallName = ""
	}

	ensureOpen := func(rec ccsessions.Record) {
		if open == nil {
			open = &models.Turn{Role: models.RoleAssistant, Timestamp: rec.Timestamp}
		}
	}

	for _, rec := range records {
		if rec.IsMeta || isInternal(rec.Text) {
			continue
		}

		switch rec.Kind {
		case ccsessions.KindUser:
			text := strings.TrimSpace(rec.Text)
			if text == "" {
				continue
			}
			flush()
			turns = append(turns, models.Turn{
				Role:      models.RoleUser,
				Timestamp: rec.Timestamp,
				Text:      text,
			})

		case ccsessions.KindAssistant:
			text := strings.TrimSpace(rec.Text)
			if text == "" {
				continue
			}
			ensureOpen(rec)
			if open.Text != "" {
				open.Text += "\n\n"
			}
			open.Text += text
			lastCallName = ""

		case ccsessions.KindToolCall:
			ensureOpen(rec)
			open.Notes = append(open.Notes, models.ToolNote{
				Category: Categorize(rec.ToolName),
				Label:    noteLabel(rec.ToolName),
				Preview:  Preview(rec.ToolText),
			})
			lastCallName = rec.ToolName

		case ccsessions.KindToolResult:
			// Results that answer the preceding call fold into its note;
			// a stray result still gets its own line.
			if open != nil && len(open.Notes) > 0 &&
				(rec.ToolName == "" || rec.ToolName == lastCallName) {
				continue
			}
			ensureOpen(rec)
			open.Notes = append(open.Notes, models.ToolNote{
				Category: Categorize(rec.ToolName),
				Label:    noteLabel(rec.ToolName),
				Preview:  Preview(rec.ToolText),
			})

		default:
			ensureOpen(rec)
			open.Notes = append(open.Notes, models.ToolNote{
				Category: models.CategoryOther,
				Label:    noteLabel(rec.ToolName),
			})
			lastCallName = ""
		}
	}
	flush()

	return turns
}

// Categorize maps a tool name to its icon category.
func Categorize(tool string) models.ToolCategory {
	switch tool {
	case "Read", "Write", "Edit", "Glob", "Grep":
		return models.CategoryFileOp
	case "Bash":
		return models.CategoryShell
	case "WebSearch", "WebFetch":
		return models.CategoryWeb
	case "TodoWrite":
		return models.CategoryTodo
	case "Task":
		return models.CategoryTaskNote
	default:
		return models.CategoryOther
	}
}

// Preview flattens a value to a single bounded line with an ellipsis marker.
func Preview(s string) string {
	s = strings.Join(strings.Fields(s), " ")
	runes := []rune(s)
	if len(runes) <= PreviewLimit {
		return s
	}
	return string(runes[:PreviewLimit]) + "..."
}

func noteLabel(name string) string {
	if name == "" {
		return "Result"
	}
	return name
}

// isInternal reports command plumbing that should never show up in a backup.
func isInternal(text string) bool {
	return strings.HasPrefix(text, "<local-command") ||
		strings.HasPrefix(text, "<command-name>")
}
