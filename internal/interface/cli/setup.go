package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"ccback/internal/core/config"
	"ccback/internal/interface/tui"
)

var setupCmd = &cobra.Command{
	Use:   "setup",
	Short: "Interactively choose the output directory and language",
	RunE:  runSetup,
}

func init() {
	rootCmd.AddCommand(setupCmd)
}

func runSetup(cmd *cobra.Command, args []string) error {
	cfg, ok, err := tui.RunSetup(config.Load())
	if err != nil {
		return fmt.Errorf("setup failed: %w", err)
	}
	if !ok {
		fmt.Println("Setup cancelled")
		return nil
	}

	if err := cfg.Save(); err != nil {
		return fmt.Errorf("failed to save config: %w", err)
	}
	fmt.Printf("Saved %s\n", config.Path())
	return nil
}
