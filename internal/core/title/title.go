// Package title derives filesystem-safe session titles from the first user
// message, with deterministic fallbacks.
package title

import (
	"path"
	"regexp"
	"strings"
)

const (
	// MaxLength bounds derived titles, in runes.
	MaxLength = 50
	minLength = 3
)

var (
	repoURLRe   = regexp.MustCompile(`https?://(?:www\.)?(github\.com|gitlab\.com|bitbucket\.org)/[\w.-]+/([\w.-]+)`)
	illegalRe   = regexp.MustCompile(`[<>:"/\\|?*\n\r\t]`)
	spacesRe    = regexp.MustCompile(`\s+`)
	punctOnlyRe = regexp.MustCompile(`^[\p{P}\p{S}\s]*$`)
)

var hostLabels = map[string]string{
	"github.com":    "GitHub repo",
	"gitlab.com":    "GitLab repo",
	"bitbucket.org": "Bitbucket repo",
}

// Shell commands that make a useless title on their own.
var shellCommands = map[string]bool{
	"ls": true, "cd": true, "cat": true, "rm": true, "mv": true, "cp": true,
	"mkdir": true, "pwd": true, "echo": true, "grep": true, "find": true,
	"git": true, "go": true, "npm": true, "pip": true, "python": true,
	"make": true, "curl": true, "docker": true,
}

// Derive computes a short title for a session from the first user turn's
// text. It is pure: the same input always yields the same title.
func Derive(firstUserText, sessionID string) string {
	text := strings.TrimSpace(firstUserText)

	if title, ok := fromRepoURL(text); ok {
		return title
	}
	if title, ok := fromPath(text); ok {
		return title
	}
	if title, ok := fromText(text); ok {
		return title
	}

	return fallback(sessionID)
}

func fromRepoURL(text string) (string, bool) {
	m := repoURLRe.FindStringSubmatch(text)
	if m == nil {
		return "", false
	}
	repo := strings.TrimSuffix(m[2], ".git")
	return hostLabels[m[1]] + " " + repo, true
}

// fromPath treats a lone path-looking token as a filename reference.
func fromPath(text string) (string, bool) {
	if text == "" || strings.ContainsAny(text, " \t\n") || !strings.Contains(text, "/") {
		return "", false
	}
	base := path.Base(text)
	name := strings.TrimSuffix(base, path.Ext(base))
	if len(name) < minLength {
		return "", false
	}
	return sanitize(name), true
}

func fromText(text string) (string, bool) {
	// Slash commands and injected tags never make titles
	if text == "" || strings.HasPrefix(text, "/") || strings.HasPrefix(text, "<") {
		return "", false
	}

	// First line, first sentence
	if i := strings.IndexByte(text, '\n'); i >= 0 {
		text = text[:i]
	}
	if i := strings.IndexAny(text, ".?!"); i > 0 {
		text = text[:i]
	}

	text = sanitize(text)
	text = trimAtWordBoundary(text, MaxLength)

	if len([]rune(text)) < minLength || punctOnlyRe.MatchString(text) || isShellCommand(text) {
		return "", false
	}
	return text, true
}

func sanitize(s string) string {
	s = illegalRe.ReplaceAllString(s, " ")
	return strings.TrimSpace(spacesRe.ReplaceAllString(s, " "))
}

func trimAtWordBoundary(s string, limit int) string {
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	cut := string(runes[:limit])
	if i := strings.LastIndexByte(cut, ' '); i >= 10 {
		cut = cut[:i]
	}
	return strings.TrimSpace(cut)
}

func isShellCommand(s string) bool {
	first := strings.Fields(s)
	if len(first) == 0 {
		return true
	}
	return shellCommands[first[0]] || strings.HasPrefix(first[0], "./")
}

func fallback(sessionID string) string {
	if len(sessionID) > 8 {
		return sessionID[:8]
	}
	return sessionID
}
