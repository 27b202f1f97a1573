// Package config provides configuration helpers and TOML parsing.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"
)

// Defaults for the configuration surface. The session core applies its own
// fallbacks, so these only shape flags and the starter config file.
const (
	DefaultTarget          = 750
	DefaultIntervalSeconds = 1
)

// FileConfig represents the TOML configuration file.
type FileConfig struct {
	Pages PagesConfig `toml:"pages"`
}

// PagesConfig maps daily-page settings. Pointer fields distinguish unset
// values from explicit zeroes.
type PagesConfig struct {
	Dir             *string `toml:"dir"`
	Target          *int    `toml:"target"`
	IntervalSeconds *int    `toml:"interval-seconds"`
}

// Settings are the resolved runtime options for a writing run.
type Settings struct {
	Dir             string
	Target          int
	IntervalSeconds int
}

// Interval returns the status refresh interval as a duration.
func (s Settings) Interval() time.Duration {
	return time.Duration(s.IntervalSeconds) * time.Second
}

// LoadConfig reads a TOML config from the given path. Missing file is not an error.
func LoadConfig(path string) (FileConfig, error) {
	if path == "" {
		return FileConfig{}, fmt.Errorf("config path is empty")
	}
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return FileConfig{}, nil
		}
		return FileConfig{}, fmt.Errorf("failed to stat config: %w", err)
	}
	var cfg FileConfig
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return FileConfig{}, fmt.Errorf("failed to decode config: %w", err)
	}
	return cfg, nil
}

// Render returns config file content for cfg. Unset values appear as
// commented-out defaults so the file documents itself.
func Render(cfg FileConfig) string {
	dirLine := `# dir = "~/daypage"`
	if cfg.Pages.Dir != nil {
		dirLine = fmt.Sprintf("dir = %q", *cfg.Pages.Dir)
	}
	targetLine := fmt.Sprintf("# target = %d", DefaultTarget)
	if cfg.Pages.Target != nil {
		targetLine = fmt.Sprintf("target = %d", *cfg.Pages.Target)
	}
	intervalLine := fmt.Sprintf("# interval-seconds = %d", DefaultIntervalSeconds)
	if cfg.Pages.IntervalSeconds != nil {
		intervalLine = fmt.Sprintf("interval-seconds = %d", *cfg.Pages.IntervalSeconds)
	}

	return fmt.Sprintf(`# daypage configuration
# Uncomment a value to enable it. CLI flags override config values.

[pages]
# Directory where daily pages live.
%s
# Daily word target.
%s
# Status refresh interval in seconds.
%s
`, dirLine, targetLine, intervalLine)
}

// SaveDir persists the pages directory into the config file at path,
// creating the file from the starter template if it does not exist yet.
// Other configured values are carried over.
func SaveDir(path, dir string) error {
	if path == "" {
		return fmt.Errorf("config path is empty")
	}
	cfg, err := LoadConfig(path)
	if err != nil {
		return err
	}
	cfg.Pages.Dir = &dir

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	if err := os.WriteFile(path, []byte(Render(cfg)), 0o644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}
