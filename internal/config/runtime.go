package config

import (
	"os"
	"path/filepath"
)

// GetRuntimePath resolves the runtime directory before any config struct is
// parsed; relative paths are anchored at the user's home directory.
func GetRuntimePath() string {
	path := os.Getenv("GROQEE_RUNTIME_PATH")
	if path == "" {
		path = ".groqee"
	}

	if !filepath.IsAbs(path) {
		home, _ := os.UserHomeDir()
		path = filepath.Join(home, path)
	}
	return path
}
