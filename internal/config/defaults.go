package config

import (
	"os"
	"path/filepath"
)

// FileName is the user configuration file inside the config directory.
const FileName = "config.toml"

// DefaultPath returns $XDG_CONFIG_HOME/cellgl/config.toml, falling back to
// ~/.config. It returns "" when neither can be determined.
func DefaultPath() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "cellgl", FileName)
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "cellgl", FileName)
}

func defaultConfig() map[string]any {
	return map[string]any{
		"font": map[string]any{
			"size":  14.0,
			"path":  "",
			"scale": 0.0,
		},
		"grid": map[string]any{
			"rows": int64(30),
			"cols": int64(100),
		},
		"gpu": map[string]any{
			"backgrounds": true,
		},
		"theme": map[string]any{
			"foreground": "#d4d4d4",
			"background": "#1e1e1e",
			"highlights": map[string]any{
				"gutter":   "#6e7681",
				"gutterNr": map[string]any{"fg": "#c6c6c6", "bold": true},
				"status":   map[string]any{"fg": "#1e1e1e", "bg": "#9cdcfe"},
			},
			"notifications": map[string]any{
				"text":    "#ffffff",
				"error":   "#c4423f",
				"warning": "#d19a2e",
				"info":    "#3f78c4",
				"success": "#4a9c5b",
			},
		},
		"notifications": map[string]any{
			"width":  int64(40),
			"margin": int64(1),
			"timeouts": map[string]any{
				"error":   "0s",
				"warning": "8s",
				"info":    "5s",
				"success": "3s",
			},
		},
		"logging": map[string]any{
			"level": "info",
			"file":  "",
		},
		"scripts": map[string]any{
			"enabled": true,
			"paths":   []any{},
		},
	}
}
