package backup

import (
	"bufio"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"ccback/internal/core/render"
)

// Fallback titles are the first 8 hex chars of a session UUID.
var idPrefixRe = regexp.MustCompile(`^[0-9a-f]{8}$`)

// KnownSessions rebuilds the already-backed-up set by listing the
// destination tree. There is no separate manifest: whatever documents exist
// on disk are the sync state, which makes an interrupted run self-healing.
// The returned set holds full session ids from document markers plus
// 8-char id prefixes recovered from fallback-titled filenames.
func KnownSessions(root string) map[string]bool {
	known := make(map[string]bool)

	projects, err := os.ReadDir(root)
	if err != nil {
		return known
	}

	for _, project := range projects {
		if !project.IsDir() || strings.HasPrefix(project.Name(), "_") {
			continue
		}
		projDir := filepath.Join(root, project.Name())
		docs, err := os.ReadDir(projDir)
		if err != nil {
			continue
		}

		for _, doc := range docs {
			name := doc.Name()
			if doc.IsDir() || filepath.Ext(name) != ".md" || strings.HasPrefix(name, "_") {
				continue
			}
			if id, ok := readMarker(filepath.Join(projDir, name)); ok {
				known[id] = true
				continue
			}
			// Pre-marker documents: a fallback title is the id's first
			// 8 chars after the date prefix.
			stem := strings.TrimSuffix(name, ".md")
			if i := strings.LastIndexByte(stem, '_'); i >= 0 {
				if tail := stem[i+1:]; idPrefixRe.MatchString(tail) {
					known[tail] = true
				}
			}
		}
	}

	return known
}

// readMarker extracts the session id from a document's first line.
func readMarker(path string) (string, bool) {
	f, err := os.Open(path)
	if err != nil {
		return "", false
	}
	defer func() { _ = f.Close() }()

	scanner := bufio.NewScanner(f)
	if !scanner.Scan() {
		return "", false
	}
	return render.ExtractSessionID(scanner.Text())
}
