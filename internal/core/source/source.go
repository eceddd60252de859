// Package source enumerates session files in a Claude Code projects tree
// and derives per-session project names from working directories.
package source

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"ccback/pkg/ccsessions"
)

// MinSessionSize filters out near-empty session files; anything smaller
// has no conversation worth backing up.
const MinSessionSize = 1000

// DefaultProject is used when no working directory yields a usable name.
const DefaultProject = "00-misc"

var (
	numberedDirRe = regexp.MustCompile(`^\d{2,3}\s*-`)
	illegalNameRe = regexp.MustCompile(`[<>:"/\\|?*]`)
)

// SessionFile is one enumerable session in the source tree.
type SessionFile struct {
	Path        string
	ProjectDir  string // encoded directory name, e.g. -Users-dev-app
	ProjectPath string // decoded working directory path
	Size        int64
	Mtime       time.Time
}

// DefaultDir returns the standard Claude Code projects directory.
func DefaultDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join("~", ".claude", "projects")
	}
	return filepath.Join(home, ".claude", "projects")
}

// Scan lists the top-level .jsonl session files of every project directory
// under root. Subdirectories (subagent trees) are skipped, as are files too
// small to hold a conversation. A missing root is the one fatal condition.
func Scan(root string) ([]SessionFile, error) {
	if _, err := os.Stat(root); err != nil {
		return nil, fmt.Errorf("source directory unavailable: %w", err)
	}

	entries, err := os.ReadDir(root)
	if err != nil {
		return nil, fmt.Errorf("failed to read source directory: %w", err)
	}

	var files []SessionFile
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		projDir := filepath.Join(root, entry.Name())
		sessions, err := os.ReadDir(projDir)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Warning: failed to read %s: %v\n", projDir, err)
			continue
		}

		for _, s := range sessions {
			if s.IsDir() || filepath.Ext(s.Name()) != ".jsonl" {
				continue
			}
			info, err := s.Info()
			if err != nil || info.Size() < MinSessionSize {
				continue
			}
			files = append(files, SessionFile{
				Path:        filepath.Join(projDir, s.Name()),
				ProjectDir:  entry.Name(),
				ProjectPath: DecodeProjectPath(entry.Name()),
				Size:        info.Size(),
				Mtime:       info.ModTime(),
			})
		}
	}

	return files, nil
}

// DecodeProjectPath reconstructs a working directory from an encoded
// project directory name: -Users-neil-xuku-invoice -> /Users/neil/xuku/invoice.
func DecodeProjectPath(name string) string {
	if len(name) > 0 && name[0] == '-' {
		return "/" + strings.ReplaceAll(name[1:], "-", "/")
	}
	return name
}

// ProjectName derives a display name for the project a session belongs to,
// preferring numbered workspace folders ("017 - invoice") from the
// session's working directories and skipping generic system folders.
func ProjectName(records []ccsessions.Record) string {
	homeName := ""
	if home, err := os.UserHomeDir(); err == nil {
		homeName = filepath.Base(home)
	}

	for _, rec := range records {
		if rec.CWD == "" {
			continue
		}
		if name := nameFromCWD(rec.CWD, homeName); name != "" {
			return SanitizeName(name)
		}
	}
	return DefaultProject
}

func nameFromCWD(cwd, homeName string) string {
	parts := strings.Split(filepath.ToSlash(cwd), "/")

	for i := len(parts) - 1; i >= 0; i-- {
		if numberedDirRe.MatchString(parts[i]) {
			return parts[i]
		}
	}

	skip := map[string]bool{
		"": true, "Users": true, "home": true, homeName: true,
		"Documents": true, "Desktop": true,
	}
	for i := len(parts) - 1; i >= 0; i-- {
		if !skip[parts[i]] {
			return parts[i]
		}
	}
	return ""
}

// SanitizeName strips filesystem-hostile characters and bounds the length.
func SanitizeName(name string) string {
	name = strings.TrimSpace(illegalNameRe.ReplaceAllString(name, ""))
	runes := []rune(name)
	if len(runes) > 60 {
		name = strings.TrimSpace(string(runes[:60]))
	}
	if name == "" {
		return DefaultProject
	}
	return name
}
