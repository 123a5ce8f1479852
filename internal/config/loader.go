package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Load loads the tool configuration. Values missing from a file keep
// their defaults.
// Search order: customPath -> ~/.pophale/config.yaml -> ./configs/pophale.yaml -> embedded default
func Load(customPath string) (Config, error) {
	// Try custom path first
	if customPath != "" {
		data, err := os.ReadFile(customPath)
		if err != nil {
			return Config{}, fmt.Errorf("failed to read config %s: %w", customPath, err)
		}
		cfg, err := parse(data)
		if err != nil {
			return Config{}, fmt.Errorf("failed to parse config %s: %w", customPath, err)
		}
		return cfg, nil
	}

	// Try user config directory
	if userCfgPath := userConfigPath("config.yaml"); userCfgPath != "" {
		if data, err := os.ReadFile(userCfgPath); err == nil {
			if cfg, err := parse(data); err == nil {
				return cfg, nil
			}
		}
	}

	// Try local configs directory
	if data, err := os.ReadFile("configs/pophale.yaml"); err == nil {
		if cfg, err := parse(data); err == nil {
			return cfg, nil
		}
	}

	// Use embedded default YAML
	cfg, err := parse(defaultYAML)
	if err != nil {
		cfg = Default() // Fallback to hardcoded if embed fails
		if err := cfg.expandPaths(); err != nil {
			return Config{}, err
		}
	}
	return cfg, nil
}

// parse decodes data over the defaults, validates the result and expands
// ~ in the workspace paths. A patch section replaces the default profile as
// a whole.
func parse(data []byte) (Config, error) {
	cfg := Default()
	cfg.Patch.Settings = nil
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, err
	}
	if len(cfg.Patch.Settings) == 0 {
		cfg.Patch = Default().Patch
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	if err := cfg.expandPaths(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// expandPaths replaces a leading ~ in every workspace path.
func (c *Config) expandPaths() error {
	w := &c.Workspace
	for _, p := range []*string{&w.ContainerDir, &w.Container, &w.ScratchDir, &w.Backup, &w.History} {
		expanded, err := ExpandPath(*p)
		if err != nil {
			return err
		}
		*p = expanded
	}
	return nil
}

// userConfigPath returns the path to user config file, or empty if home is unavailable.
func userConfigPath(filename string) string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".pophale", filename)
}

// ExpandPath replaces a leading ~ with the user's home directory.
func ExpandPath(path string) (string, error) {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("config: cannot expand home directory: %w", err)
	}
	return filepath.Join(home, path[1:]), nil
}
