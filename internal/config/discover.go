// internal/config/discover.go
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// DefaultPath returns the XDG-compliant default config path.
func DefaultPath() string {
	configHome := os.Getenv("XDG_CONFIG_HOME")
	if configHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "./config.toml"
		}
		configHome = filepath.Join(home, ".config")
	}
	return filepath.Join(configHome, "arrsync", "config.toml")
}

// Discover finds the config file using the standard search order.
// Search order:
//  1. ARRSYNC_CONFIG environment variable
//  2. ./config.toml (current directory)
//  3. $XDG_CONFIG_HOME/arrsync/config.toml
//  4. /etc/arrsync/config.toml
func Discover() (string, error) {
	// 1. Check ARRSYNC_CONFIG env var
	if envPath := os.Getenv("ARRSYNC_CONFIG"); envPath != "" {
		if _, err := os.Stat(envPath); err != nil {
			return "", fmt.Errorf("ARRSYNC_CONFIG=%s: %w", envPath, err)
		}
		return envPath, nil
	}

	// Build search paths
	paths := []string{
		"./config.toml",
		DefaultPath(),
		"/etc/arrsync/config.toml",
	}

	// 2-4. Check each path
	for _, p := range paths {
		if _, err := os.Stat(p); err == nil {
			return p, nil
		}
	}

	return "", fmt.Errorf("config not found, checked: %s", formatPaths(paths))
}

func formatPaths(paths []string) string {
	return strings.Join(paths, ", ")
}
