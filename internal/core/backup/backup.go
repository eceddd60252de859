// Package backup is the conversion and incremental-sync engine: it decides
// which source sessions need (re)processing, runs each one through
// normalize/title/render, and maintains the per-project indexes and the
// global summary.
package backup

import (
	"fmt"
	"os"
	"path/filepath"

	"ccback/internal/core/convo"
	"ccback/internal/core/models"
	"ccback/internal/core/render"
	"ccback/internal/core/source"
	"ccback/internal/core/title"
	"ccback/pkg/ccsessions"
)

// Mode selects how existing output is treated.
type Mode int

const (
	// Incremental processes only sessions with no existing output file.
	Incremental Mode = iota
	// Full reprocesses every session and overwrites existing output.
	Full
)

func (m Mode) String() string {
	if m == Full {
		return "full"
	}
	return "incremental"
}

// Options is the resolved configuration for one run. The engine never
// prompts or reads config files itself.
type Options struct {
	SourceDir string
	OutputDir string
	Mode      Mode
	Language  string // "en" or "ko"
	Silent    bool
}

// Result summarizes one run for the caller to report.
type Result struct {
	Processed      int
	Skipped        int
	Failed         int
	MalformedLines int
	Projects       int
	OutputDir      string
}

// Run executes one backup over every session in the source tree. Only a
// missing source tree (or an unwritable destination root) is fatal;
// individual session failures are counted and the run continues.
func Run(opts Options) (*Result, error) {
	files, err := source.Scan(opts.SourceDir)
	if err != nil {
		return nil, err
	}

	if err := os.MkdirAll(opts.OutputDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}

	known := KnownSessions(opts.OutputDir)
	result := &Result{OutputDir: opts.OutputDir}

	// Filenames written this run, per project, for collision suffixes and
	// index generation.
	written := make(map[string][]string)

	for _, file := range files {
		status := processSession(opts, file, known, written, result)
		switch status {
		case statusWritten:
			result.Processed++
		case statusSkipped:
			result.Skipped++
		case statusFailed:
			result.Failed++
		}
	}

	for project, names := range written {
		if err := writeIndex(opts, project, names); err != nil {
			warnf(opts.Silent, "Warning: failed to write index for %s: %v\n", project, err)
		}
	}
	result.Projects = len(written)

	if err := writeSummary(opts.OutputDir); err != nil {
		warnf(opts.Silent, "Warning: failed to write summary: %v\n", err)
	}

	return result, nil
}

type status int

const (
	statusWritten status = iota
	statusSkipped
	statusFailed
)

func processSession(opts Options, file source.SessionFile, known map[string]bool, written map[string][]string, result *Result) status {
	parsed, err := ccsessions.ParseFile(file.Path)
	if err != nil {
		warnf(opts.Silent, "Warning: failed to parse %s: %v\n", file.Path, err)
		return statusFailed
	}
	if parsed.MalformedLines > 0 {
		result.MalformedLines += parsed.MalformedLines
		warnf(opts.Silent, "Warning: %s: skipped %d malformed lines\n", file.Path, parsed.MalformedLines)
	}

	// Sessions without a single timestamp cannot be dated or filed.
	if parsed.StartTime.IsZero() {
		return statusSkipped
	}

	if opts.Mode == Incremental && isKnown(known, parsed.SessionID) {
		return statusSkipped
	}

	turns := convo.Normalize(parsed.Records)
	if len(turns) == 0 {
		return statusSkipped
	}

	session := models.Session{
		SessionID:   parsed.SessionID,
		Project:     source.ProjectName(parsed.Records),
		ProjectPath: file.ProjectPath,
		StartTime:   parsed.StartTime,
		FileMtime:   file.Mtime,
		RecordCount: len(parsed.Records),
	}

	doc, err := render.Render(render.Document{
		Session:  session,
		Turns:    turns,
		Language: opts.Language,
	})
	if err != nil {
		warnf(opts.Silent, "Warning: failed to render %s: %v\n", session.SessionID, err)
		return statusFailed
	}

	projectOut := filepath.Join(opts.OutputDir, session.Project)
	if err := os.MkdirAll(projectOut, 0755); err != nil {
		warnf(opts.Silent, "Warning: failed to create %s: %v\n", projectOut, err)
		return statusFailed
	}

	name := outputName(projectOut, &session, turns, written[session.Project])
	if err := os.WriteFile(filepath.Join(projectOut, name), []byte(doc), 0644); err != nil {
		warnf(opts.Silent, "Warning: failed to write %s: %v\n", name, err)
		return statusFailed
	}

	written[session.Project] = append(written[session.Project], name)
	return statusWritten
}

// outputName builds the YYYY-MM-DD_<title>.md filename, appending a numeric
// suffix when another session already claimed the name.
func outputName(projectOut string, session *models.Session, turns []models.Turn, usedThisRun []string) string {
	base := session.StartTime.Local().Format("2006-01-02") + "_" +
		title.Derive(firstUserText(turns), session.SessionID)

	used := make(map[string]bool, len(usedThisRun))
	for _, n := range usedThisRun {
		used[n] = true
	}

	name := base + ".md"
	for n := 2; taken(projectOut, name, session.SessionID, used); n++ {
		name = fmt.Sprintf("%s %d.md", base, n)
	}
	return name
}

// taken reports whether name is claimed by a different session, either
// earlier in this run or by an existing file on disk.
func taken(projectOut, name, sessionID string, usedThisRun map[string]bool) bool {
	if usedThisRun[name] {
		return true
	}
	existing, ok := readMarker(filepath.Join(projectOut, name))
	if !ok {
		return false
	}
	return existing != sessionID
}

func firstUserText(turns []models.Turn) string {
	for _, turn := range turns {
		if turn.Role == models.RoleUser {
			return turn.Text
		}
	}
	return ""
}

func isKnown(known map[string]bool, sessionID string) bool {
	if known[sessionID] {
		return true
	}
	if len(sessionID) > 8 {
		return known[sessionID[:8]]
	}
	return false
}

func warnf(silent bool, format string, args ...interface{}) {
	if !silent {
		fmt.Fprintf(os.Stderr, format, args...)
	}
}
