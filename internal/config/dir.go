// Package config provides the global configuration directory for specforge.
package config

import (
	"os"
	"path/filepath"
	"runtime"
)

// Dir returns the specforge configuration directory. Registry overlays
// (agents.yaml, flavors.yaml) and user template overlays live under it.
//
// Resolution:
//   - $SPECFORGE_CONFIG_HOME if set (explicit override)
//   - $XDG_CONFIG_HOME/specforge if set (respects XDG on any platform)
//   - %AppData%/specforge on Windows
//   - ~/.config/specforge on macOS and Linux
func Dir() string {
	// Explicit override
	if dir := os.Getenv("SPECFORGE_CONFIG_HOME"); dir != "" {
		return dir
	}

	// XDG override (works on any platform)
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "specforge")
	}

	// Windows: use AppData
	if runtime.GOOS == "windows" {
		if appData := os.Getenv("APPDATA"); appData != "" {
			return filepath.Join(appData, "specforge")
		}
	}

	// macOS and Linux: ~/.config/specforge
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "specforge")
}

// TemplatesDir returns the user template overlay directory.
func TemplatesDir() string {
	dir := Dir()
	if dir == "" {
		return ""
	}
	return filepath.Join(dir, "templates")
}

// RegistryDir returns the user registry overlay directory.
func RegistryDir() string {
	dir := Dir()
	if dir == "" {
		return ""
	}
	return filepath.Join(dir, "registry")
}
