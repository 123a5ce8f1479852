// Package config provides YAML-based configuration for the level tools:
// where the container and scratch tree live, and which patch profile
// applies to the container's build.
package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/vovakirdan/pophale/internal/patch"
)

// Config is the complete tool configuration.
type Config struct {
	Workspace WorkspaceConfig `yaml:"workspace"`
	Patch     patch.Profile   `yaml:"patch"`
	Watch     WatchConfig     `yaml:"watch"`
}

// WorkspaceConfig locates the container, its scratch tree and the history.
type WorkspaceConfig struct {
	ContainerDir string `yaml:"container_dir"` // searched for the first .jar
	Container    string `yaml:"container"`     // explicit container path, skips the search
	ScratchDir   string `yaml:"scratch_dir"`
	Backup       string `yaml:"backup"`
	BuildFile    string `yaml:"build_file"` // file only the supported build contains
	MaxLevel     int    `yaml:"max_level"`
	History      string `yaml:"history"` // SQLite database path, empty disables history
	RepackOnSave bool   `yaml:"repack_on_save"`
}

// WatchConfig tunes the scratch tree watcher.
type WatchConfig struct {
	Debounce time.Duration `yaml:"debounce"`
	Patterns []string      `yaml:"patterns"`
}

// Validate checks the configuration for values the tools cannot work with.
func (c Config) Validate() error {
	w := c.Workspace
	if w.ContainerDir == "" && w.Container == "" {
		return errors.New("config: workspace needs container_dir or container")
	}
	if w.ScratchDir == "" {
		return errors.New("config: workspace.scratch_dir is empty")
	}
	if w.MaxLevel < 0 || w.MaxLevel > 99 {
		return fmt.Errorf("config: workspace.max_level %d out of range", w.MaxLevel)
	}
	if c.Watch.Debounce < 0 {
		return fmt.Errorf("config: watch.debounce %s is negative", c.Watch.Debounce)
	}
	if err := c.Patch.Validate(); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	return nil
}
