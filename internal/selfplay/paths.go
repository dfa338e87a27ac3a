package selfplay

import (
	"os"
	"path/filepath"
	"runtime"
)

const appName = "mtcore"

// DefaultDataDir returns the platform-specific data directory for
// self-play output, mirroring the convention used by desktop apps in
// this ecosystem:
//   - macOS: ~/Library/Application Support/mtcore/
//   - Windows: %APPDATA%/mtcore/
//   - everything else: $XDG_DATA_HOME/mtcore/ or ~/.local/share/mtcore/
func DefaultDataDir() (string, error) {
	var baseDir string

	switch runtime.GOOS {
	case "darwin":
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		baseDir = filepath.Join(homeDir, "Library", "Application Support")

	case "windows":
		baseDir = os.Getenv("APPDATA")
		if baseDir == "" {
			homeDir, err := os.UserHomeDir()
			if err != nil {
				return "", err
			}
			baseDir = filepath.Join(homeDir, "AppData", "Roaming")
		}

	default:
		baseDir = os.Getenv("XDG_DATA_HOME")
		if baseDir == "" {
			homeDir, err := os.UserHomeDir()
			if err != nil {
				return "", err
			}
			baseDir = filepath.Join(homeDir, ".local", "share")
		}
	}

	dataDir := filepath.Join(baseDir, appName, "selfplay")
	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return "", err
	}
	return dataDir, nil
}
