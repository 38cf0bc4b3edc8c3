package paths

import (
	"fmt"
	"os"
	"path/filepath"
)

const appName = "pomodoro_tui"

// DefaultStateDir returns where the session database and log live.
func DefaultStateDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("get home directory: %w", err)
	}

	return filepath.Join(home, ".local", "state", appName), nil
}

// DefaultConfigDir returns the directory holding config.toml.
func DefaultConfigDir() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("get config directory: %w", err)
	}

	return filepath.Join(dir, appName), nil
}
