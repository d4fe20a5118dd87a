// ABOUTME: XDG-based data directory resolution for the wishweaver CLI.
// ABOUTME: Checks XDG_DATA_HOME, falls back to ~/.local/share/wishweaver.
package main

import (
	"fmt"
	"os"
	"path/filepath"
)

// defaultDataDir returns the default data directory for wishweaver persistent
// state: the client identity file and the local board cache. It checks
// XDG_DATA_HOME first, then falls back to ~/.local/share/wishweaver.
func defaultDataDir() (string, error) {
	if xdg := os.Getenv("XDG_DATA_HOME"); xdg != "" {
		return filepath.Join(xdg, "wishweaver"), nil
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home directory: %w", err)
	}

	return filepath.Join(home, ".local", "share", "wishweaver"), nil
}

// resolveDataDir returns the explicit dir if given, otherwise the default,
// and ensures the directory exists.
func resolveDataDir(explicit string) (string, error) {
	dir := explicit
	if dir == "" {
		var err error
		dir, err = defaultDataDir()
		if err != nil {
			return "", err
		}
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create data directory: %w", err)
	}
	return dir, nil
}
