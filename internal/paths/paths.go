// Package paths provides path resolution utilities.
package paths

import (
	"os"
	"path/filepath"
	"strings"
)

// DirName is the per-project state directory.
const DirName = ".tincture"

// File names inside the state directory.
const (
	SettingsFile = "settings.json"
	ConfigFile   = "config.yaml"
	HistoryFile  = "history.db"
	TracesFile   = "traces.jsonl"
	LogFile      = "debug.log"
)

// ResolveDir resolves the .tincture directory from user input.
//
//   - "/path/to/project" -> "/path/to/project/.tincture"
//   - "/path/to/project/.tincture" -> unchanged
//   - "/path/to/state" (containing settings.json) -> unchanged
//   - "" -> "./.tincture"
//
// A redirect file inside the directory is followed, so several checkouts
// can share one set of settings.
func ResolveDir(path string) string {
	if path == "" {
		path = "."
	}
	path = filepath.Clean(path)

	if filepath.Base(path) == DirName {
		return followRedirect(path)
	}
	if _, err := os.Stat(filepath.Join(path, SettingsFile)); err == nil {
		return followRedirect(path)
	}
	return followRedirect(filepath.Join(path, DirName))
}

func followRedirect(dir string) string {
	content, err := os.ReadFile(filepath.Join(dir, "redirect")) //nolint:gosec // redirect path is within the state dir
	if err != nil {
		return dir
	}
	target := strings.TrimSpace(string(content))
	if target == "" {
		return dir
	}
	if filepath.IsAbs(target) {
		return filepath.Clean(target)
	}
	return filepath.Clean(filepath.Join(dir, target))
}

// SettingsPath returns the settings document inside dir.
func SettingsPath(dir string) string { return filepath.Join(dir, SettingsFile) }

// HistoryPath returns the snapshot database inside dir.
func HistoryPath(dir string) string { return filepath.Join(dir, HistoryFile) }

// TracesPath returns the trace output file inside dir.
func TracesPath(dir string) string { return filepath.Join(dir, TracesFile) }

// LogPath returns the debug log inside dir.
func LogPath(dir string) string { return filepath.Join(dir, LogFile) }

// UserConfigDir returns ~/.config/tincture, or "" when the home directory
// is unknown.
func UserConfigDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "tincture")
}
