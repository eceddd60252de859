package cli

import (
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"sync"
	"syscall"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"ccback/internal/core/backup"
)

// debounceDelay coalesces the burst of writes Claude Code makes while a
// session is active into one backup run.
const debounceDelay = 5 * time.Second

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Watch the projects tree and back up new sessions as they appear",
	Long: `Watch ~/.claude/projects/ for session file changes and run an
incremental backup whenever activity settles. Runs until interrupted.`,
	RunE: runWatch,
}

func init() {
	rootCmd.AddCommand(watchCmd)
}

func runWatch(cmd *cobra.Command, args []string) error {
	opts := resolveOptions()
	opts.Mode = backup.Incremental

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	defer func() { _ = watcher.Close() }()

	if err := watcher.Add(opts.SourceDir); err != nil {
		return fmt.Errorf("failed to watch %s: %w", opts.SourceDir, err)
	}
	// Session files live one level down, per project directory
	entries, err := os.ReadDir(opts.SourceDir)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", opts.SourceDir, err)
	}
	for _, entry := range entries {
		if entry.IsDir() {
			if err := watcher.Add(filepath.Join(opts.SourceDir, entry.Name())); err != nil {
				fmt.Fprintf(os.Stderr, "Warning: failed to watch %s: %v\n", entry.Name(), err)
			}
		}
	}

	if !opts.Silent {
		fmt.Printf("Watching %s (Ctrl+C to stop)\n", opts.SourceDir)
	}

	var mu sync.Mutex
	var timer *time.Timer
	schedule := func() {
		mu.Lock()
		defer mu.Unlock()
		if timer != nil {
			timer.Stop()
		}
		timer = time.AfterFunc(debounceDelay, func() {
			result, err := backup.Run(opts)
			if err != nil {
				fmt.Fprintf(os.Stderr, "Warning: backup failed: %v\n", err)
				return
			}
			if !opts.Silent && result.Processed > 0 {
				printReport(result)
			}
		})
	}

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt, syscall.SIGTERM)

	for {
		select {
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if event.Op&fsnotify.Create != 0 {
				// New project directories need their own watch
				if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
					if err := watcher.Add(event.Name); err != nil {
						fmt.Fprintf(os.Stderr, "Warning: failed to watch %s: %v\n", event.Name, err)
					}
					continue
				}
			}
			if event.Op&(fsnotify.Create|fsnotify.Write) != 0 && filepath.Ext(event.Name) == ".jsonl" {
				schedule()
			}

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			fmt.Fprintf(os.Stderr, "Warning: watch error: %v\n", err)

		case <-sig:
			mu.Lock()
			if timer != nil {
				timer.Stop()
			}
			mu.Unlock()
			if !opts.Silent {
				fmt.Println("\nStopped watching")
			}
			return nil
		}
	}
}
