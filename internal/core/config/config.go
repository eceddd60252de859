package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// Config holds the user's backup preferences. The engine itself never reads
// this; the CLI resolves it into engine options.
type Config struct {
	OutputPath string `toml:"output_path"`
	Language   string `toml:"language"`
}

// Default returns the configuration used before any setup has run.
func Default() Config {
	home, err := os.UserHomeDir()
	if err != nil {
		home = "."
	}
	return Config{
		OutputPath: filepath.Join(home, "claude-backup"),
		Language:   "en",
	}
}

// Path returns the config file location, ~/.config/ccback/config.toml.
func Path() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".config", "ccback", "config.toml")
	}
	return filepath.Join(home, ".config", "ccback", "config.toml")
}

// Load reads the config file, falling back to defaults when it is missing
// or unreadable.
func Load() Config {
	return loadFrom(Path())
}

func loadFrom(path string) Config {
	cfg := Default()

	if _, err := os.Stat(path); err != nil {
		return cfg
	}
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: failed to read %s: %v\n", path, err)
		return Default()
	}

	if cfg.Language != "en" && cfg.Language != "ko" {
		cfg.Language = "en"
	}
	if cfg.OutputPath == "" {
		cfg.OutputPath = Default().OutputPath
	}
	return cfg
}

// Save writes the config file, creating its directory if needed.
func (c Config) Save() error {
	return c.saveTo(Path())
}

func (c Config) saveTo(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create config file: %w", err)
	}
	defer func() { _ = f.Close() }()

	if err := toml.NewEncoder(f).Encode(c); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}
