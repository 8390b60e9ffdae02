package config

import (
	"os"
	"path/filepath"
	"runtime"
)

// Dir returns the global gitlet configuration directory.
//
// Resolution:
//   - $GITLET_CONFIG_HOME if set (explicit override)
//   - $XDG_CONFIG_HOME/gitlet if set (respects XDG on any platform)
//   - %AppData%/gitlet on Windows
//   - ~/.config/gitlet on macOS and Linux
func Dir() string {
	if dir := os.Getenv("GITLET_CONFIG_HOME"); dir != "" {
		return dir
	}

	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "gitlet")
	}

	if runtime.GOOS == "windows" {
		if appData := os.Getenv("APPDATA"); appData != "" {
			return filepath.Join(appData, "gitlet")
		}
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "gitlet")
}
