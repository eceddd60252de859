package backup

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
	"time"
)

var wikilinkRe = regexp.MustCompile(`\[\[(.+?)\]\]`)

// writeIndex rewrites a project's _INDEX.md. Incremental runs merge the
// newly written entries with whatever the current index already lists;
// full runs regenerate from the processed set alone.
func writeIndex(opts Options, project string, newNames []string) error {
	indexPath := filepath.Join(opts.OutputDir, project, "_INDEX.md")

	seen := make(map[string]bool)
	var entries []string
	add := func(entry string) {
		if entry != "" && !seen[entry] {
			seen[entry] = true
			entries = append(entries, entry)
		}
	}

	for _, name := range newNames {
		add(strings.TrimSuffix(name, ".md"))
	}

	if opts.Mode == Incremental {
		if data, err := os.ReadFile(indexPath); err == nil {
			for _, m := range wikilinkRe.FindAllStringSubmatch(string(data), -1) {
				add(m[1])
			}
		}
	}

	// Newest first; the date prefix makes lexicographic order chronological
	sort.Sort(sort.Reverse(sort.StringSlice(entries)))

	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n\n", project)
	fmt.Fprintf(&b, "**Sessions:** %d\n\n", len(entries))
	b.WriteString("## Session List\n\n")
	for _, entry := range entries {
		fmt.Fprintf(&b, "- [[%s]]\n", entry)
	}

	return os.WriteFile(indexPath, []byte(b.String()), 0644)
}

type projectStat struct {
	name       string
	sessions   int
	lastBackup string
}

// writeSummary regenerates the global _SUMMARY.md from the destination
// tree, enumerating every project with its session count and the date of
// its most recent backed-up session.
func writeSummary(root string) error {
	stats, err := collectProjectStats(root)
	if err != nil {
		return err
	}

	total := 0
	for _, s := range stats {
		total += s.sessions
	}

	// Busiest projects first, name as tie-break for stable output
	sort.Slice(stats, func(i, j int) bool {
		if stats[i].sessions != stats[j].sessions {
			return stats[i].sessions > stats[j].sessions
		}
		return stats[i].name < stats[j].name
	})

	var b strings.Builder
	b.WriteString("# Claude Code Backup\n\n")
	fmt.Fprintf(&b, "**Generated:** %s\n", time.Now().Format("2006-01-02 15:04"))
	fmt.Fprintf(&b, "**Projects:** %d | **Sessions:** %d\n\n", len(stats), total)
	b.WriteString("| Project | Sessions | Last backup |\n|---|---|---|\n")
	for _, s := range stats {
		fmt.Fprintf(&b, "| [[%s/_INDEX\\|%s]] | %d | %s |\n", s.name, s.name, s.sessions, s.lastBackup)
	}

	return os.WriteFile(filepath.Join(root, "_SUMMARY.md"), []byte(b.String()), 0644)
}

func collectProjectStats(root string) ([]projectStat, error) {
	entries, err := os.ReadDir(root)
	if err != nil {
		return nil, fmt.Errorf("failed to list output directory: %w", err)
	}

	var stats []projectStat
	for _, entry := range entries {
		if !entry.IsDir() || strings.HasPrefix(entry.Name(), "_") {
			continue
		}
		docs, err := os.ReadDir(filepath.Join(root, entry.Name()))
		if err != nil {
			continue
		}

		stat := projectStat{name: entry.Name(), lastBackup: "-"}
		for _, doc := range docs {
			name := doc.Name()
			if doc.IsDir() || filepath.Ext(name) != ".md" || strings.HasPrefix(name, "_") {
				continue
			}
			stat.sessions++
			if date := datePrefix(name); date > stat.lastBackup || stat.lastBackup == "-" {
				stat.lastBackup = date
			}
		}
		if stat.sessions > 0 {
			stats = append(stats, stat)
		}
	}
	return stats, nil
}

var datePrefixRe = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}`)

func datePrefix(name string) string {
	if m := datePrefixRe.FindString(name); m != "" {
		return m
	}
	return "-"
}
