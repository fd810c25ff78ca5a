// Package config loads and validates moodmap configuration.
package config

import (
	"os"
	"path/filepath"
	"strings"
)

// DefaultDir is where the config file is looked up first.
func DefaultDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	return filepath.Join(home, ".config", "moodmap")
}

// ExpandPath expands a leading ~ and $VAR references in a file path.
func ExpandPath(path string) string {
	switch {
	case path == "":
		return path
	case path == "~", strings.HasPrefix(path, "~/"):
		if home, err := os.UserHomeDir(); err == nil {
			path = filepath.Join(home, strings.TrimPrefix(path[1:], "/"))
		}
	}
	return os.ExpandEnv(path)
}

// OutputPath joins dir and name after expanding dir.
func OutputPath(dir, name string) string {
	return filepath.Join(ExpandPath(dir), name)
}
