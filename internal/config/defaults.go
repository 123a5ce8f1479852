package config

import (
	_ "embed"
	"time"

	"github.com/vovakirdan/pophale/internal/patch"
)

//go:embed defaults/pophale.yaml
var defaultYAML []byte

// Default returns the built-in configuration: a jar/ directory next to an
// uncomp/ scratch tree, seven levels and the 176x208 patch profile.
func Default() Config {
	return Config{
		Workspace: WorkspaceConfig{
			ContainerDir: "jar",
			ScratchDir:   "uncomp",
			Backup:       "jar/backup.bak",
			BuildFile:    "0.lvl",
			MaxLevel:     6,
			History:      "~/.pophale/history.db",
			RepackOnSave: true,
		},
		Patch: patch.DefaultProfile(),
		Watch: WatchConfig{
			Debounce: 100 * time.Millisecond,
			Patterns: []string{"*.lvl", "*.class"},
		},
	}
}
