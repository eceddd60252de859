package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"ccback/internal/core/backup"
	"ccback/internal/core/config"
	"ccback/internal/core/source"
)

var (
	flagIncremental bool
	flagFull        bool
	flagOutput      string
	flagProjects    string
	flagLang        string
	flagSilent      bool
)

var (
	headingStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("42"))
	failedStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	mutedStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("243"))
)

var backupCmd = &cobra.Command{
	Use:   "backup",
	Short: "Run a backup of all Claude Code sessions",
	Long: `Convert Claude Code session history to markdown documents.

Incremental mode (the default) skips sessions that already have an output
document; --full reprocesses and overwrites everything.

Examples:
  ccback backup
  ccback backup --full
  ccback backup --output ~/backup --lang ko`,
	RunE: runBackup,
}

func init() {
	rootCmd.AddCommand(backupCmd)

	pf := rootCmd.PersistentFlags()
	pf.BoolVarP(&flagIncremental, "incremental", "i", true, "Only back up new sessions")
	pf.BoolVar(&flagFull, "full", false, "Reprocess and overwrite all sessions")
	pf.StringVar(&flagOutput, "output", "", "Output directory (default: from config)")
	pf.StringVar(&flagProjects, "projects", "", "Claude projects directory (default: ~/.claude/projects)")
	pf.StringVar(&flagLang, "lang", "", "Display language: en or ko (default: from config)")
	pf.BoolVarP(&flagSilent, "silent", "s", false, "Suppress output messages")
}

// resolveOptions folds config-file values and flags into engine options.
// Flags win over the config file.
func resolveOptions() backup.Options {
	cfg := config.Load()

	opts := backup.Options{
		SourceDir: source.DefaultDir(),
		OutputDir: cfg.OutputPath,
		Language:  cfg.Language,
		Mode:      resolveMode(flagFull, flagIncremental),
		Silent:    flagSilent,
	}
	if flagOutput != "" {
		opts.OutputDir = flagOutput
	}
	if flagProjects != "" {
		opts.SourceDir = flagProjects
	}
	if flagLang != "" {
		opts.Language = flagLang
	}
	return opts
}

// resolveMode maps the mode flags to an engine mode: --full wins, and
// --incremental=false is another way of asking for a full run.
func resolveMode(full, incremental bool) backup.Mode {
	if full || !incremental {
		return backup.Full
	}
	return backup.Incremental
}

func runBackup(cmd *cobra.Command, args []string) error {
	opts := resolveOptions()

	if !opts.Silent {
		fmt.Printf("Starting %s backup...\n", opts.Mode)
		fmt.Printf("  Source: %s\n", opts.SourceDir)
		fmt.Printf("  Output: %s\n", opts.OutputDir)
		printLastBackup(opts.OutputDir)
	}

	result, err := backup.Run(opts)
	if err != nil {
		return fmt.Errorf("backup failed: %w", err)
	}

	if !opts.Silent {
		printReport(result)
	}
	return nil
}

// printLastBackup shows how long ago the destination was last written,
// inferred from the summary document.
func printLastBackup(outputDir string) {
	info, err := os.Stat(filepath.Join(outputDir, "_SUMMARY.md"))
	if err != nil {
		return
	}
	fmt.Println(mutedStyle.Render(fmt.Sprintf("  Last backup: %s", humanize.Time(info.ModTime()))))
}

func printReport(result *backup.Result) {
	fmt.Println()
	fmt.Println(headingStyle.Render("Done!"))
	fmt.Printf("  Processed: %d sessions\n", result.Processed)
	if result.Skipped > 0 {
		fmt.Printf("  Skipped: %d (already exist)\n", result.Skipped)
	}
	if result.Failed > 0 {
		fmt.Println(failedStyle.Render(fmt.Sprintf("  Failed: %d sessions", result.Failed)))
	}
	if result.MalformedLines > 0 {
		fmt.Println(mutedStyle.Render(fmt.Sprintf("  Malformed lines skipped: %d", result.MalformedLines)))
	}
	fmt.Printf("  Projects: %d\n", result.Projects)
	fmt.Printf("  Output: %s\n", result.OutputDir)
}
