package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var versionInfo string

// SetVersion sets the version information from build-time ldflags
func SetVersion(version, commit, date string) {
	versionInfo = fmt.Sprintf("%s (commit: %s, built: %s)", version, commit, date)
	rootCmd.Version = versionInfo
}

// Execute runs the CLI
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "ccback",
	Short: "Back up Claude Code conversations to markdown",
	Long: `ccback - convert Claude Code session history into readable markdown

Reads session files from ~/.claude/projects/ and writes one document per
conversation, grouped by project, with per-project indexes and a global
summary. Incremental runs only back up sessions that are new since the
last run.`,
	RunE: runBackup,
}
