// Package config provides configuration types and defaults for tincture.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/zjrosen/tincture/internal/defaults"
	"github.com/zjrosen/tincture/internal/flags"
	"github.com/zjrosen/tincture/internal/log"
	"github.com/zjrosen/tincture/internal/paths"
	"github.com/zjrosen/tincture/internal/settings"
	"github.com/zjrosen/tincture/internal/style"
	"github.com/zjrosen/tincture/internal/tracing"
)

// Config holds all configuration options for tincture.
type Config struct {
	// Dir is the state directory; empty means ./.tincture.
	Dir          string          `mapstructure:"dir"`
	SettingsPath string          `mapstructure:"settings_path"` // default: <dir>/settings.json
	CatalogPath  string          `mapstructure:"catalog_path"`  // empty uses the embedded catalog
	Ambient      AmbientConfig   `mapstructure:"ambient"`
	Presets      []string        `mapstructure:"presets"` // chroma style names offered as built-in presets
	History      HistoryConfig   `mapstructure:"history"`
	Watch        WatchConfig     `mapstructure:"watch"`
	Tracing      tracing.Config  `mapstructure:"tracing"`
	Flags        map[string]bool `mapstructure:"flags"`
}

// AmbientConfig is the default text formatting every unpinned attribute
// falls back to.
type AmbientConfig struct {
	Foreground  string   `mapstructure:"foreground" yaml:"foreground"`
	Background  string   `mapstructure:"background" yaml:"background,omitempty"` // empty = transparent
	FontSize    float64  `mapstructure:"font_size" yaml:"font_size,omitempty"`   // 0 = host default
	Bold        bool     `mapstructure:"bold" yaml:"bold,omitempty"`
	Italic      bool     `mapstructure:"italic" yaml:"italic,omitempty"`
	Decorations []string `mapstructure:"decorations" yaml:"decorations,omitempty"`
}

// HistoryConfig controls the settings snapshot database.
type HistoryConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Path    string `mapstructure:"path"` // default: <dir>/history.db
	Keep    int    `mapstructure:"keep"` // snapshots kept per settings file
}

// WatchConfig controls the settings file watcher.
type WatchConfig struct {
	Debounce time.Duration `mapstructure:"debounce"`
}

// Ambient converts the configured ambient formatting.
func (a AmbientConfig) Ambient() (style.Ambient, error) {
	var out style.Ambient
	fg, err := style.ParseHex(a.Foreground)
	if err != nil {
		return out, fmt.Errorf("ambient.foreground: %w", err)
	}
	out.Foreground = fg
	if a.Background != "" {
		bg, err := style.ParseHex(a.Background)
		if err != nil {
			return out, fmt.Errorf("ambient.background: %w", err)
		}
		out.Background, out.HasBackground = bg, true
	}
	if a.FontSize != 0 {
		if a.FontSize < 1 || a.FontSize >= settings.MaxFontRenderingSize {
			return out, fmt.Errorf("ambient.font_size must be between 1 and %d (got %v)", settings.MaxFontRenderingSize-1, a.FontSize)
		}
		out.FontSize, out.HasFontSize = a.FontSize, true
	}
	out.Bold = a.Bold
	out.Italic = a.Italic
	for _, name := range a.Decorations {
		d, ok := style.ParseDecoration(name)
		if !ok {
			return out, fmt.Errorf("ambient.decorations: unknown decoration %q", name)
		}
		out.Decorations = out.Decorations.With(d)
	}
	return out, nil
}

// Resolved returns a copy with every derived path filled in.
func (c Config) Resolved() Config {
	c.Dir = paths.ResolveDir(c.Dir)
	if c.SettingsPath == "" {
		c.SettingsPath = paths.SettingsPath(c.Dir)
	}
	if c.History.Path == "" {
		c.History.Path = paths.HistoryPath(c.Dir)
	}
	if c.Tracing.FilePath == "" {
		c.Tracing.FilePath = paths.TracesPath(c.Dir)
	}
	return c
}

// Validate checks every section and returns the first problem found.
func Validate(c Config) error {
	if _, err := c.Ambient.Ambient(); err != nil {
		return err
	}
	if err := ValidatePresets(c.Presets); err != nil {
		return err
	}
	if c.History.Keep < 0 {
		return fmt.Errorf("history.keep must not be negative (got %d)", c.History.Keep)
	}
	if c.Watch.Debounce < 0 {
		return fmt.Errorf("watch.debounce must not be negative (got %s)", c.Watch.Debounce)
	}
	return c.Tracing.Validate()
}

// ValidatePresets checks that every preset names a registered chroma style.
func ValidatePresets(presets []string) error {
	seen := make(map[string]struct{}, len(presets))
	for i, name := range presets {
		if name == "" {
			return fmt.Errorf("preset %d: name is required", i)
		}
		if name == settings.CurrentKey {
			return fmt.Errorf("preset %d: %q is reserved", i, name)
		}
		if _, dup := seen[name]; dup {
			return fmt.Errorf("preset %d: duplicate %q", i, name)
		}
		seen[name] = struct{}{}
		if !defaults.StyleExists(name) {
			return fmt.Errorf("preset %d: unknown style %q", i, name)
		}
	}
	return nil
}

// Defaults returns a Config with sensible default values.
func Defaults() Config {
	tc := tracing.DefaultConfig()
	return Config{
		Ambient: AmbientConfig{
			Foreground: "#dcdcdc",
			FontSize:   12,
		},
		Presets: []string{defaults.TinctureStyle.Name, "monokai", "github"},
		History: HistoryConfig{
			Enabled: true,
			Keep:    50,
		},
		Watch: WatchConfig{
			Debounce: 250 * time.Millisecond,
		},
		Tracing: tc,
		Flags:   flags.Defaults(),
	}
}

// DefaultConfigTemplate returns the default config as a YAML string with comments.
func DefaultConfigTemplate() string {
	return `# Tincture Configuration

# State directory holding settings.json, history.db and traces (default: ./.tincture)
# dir: /path/to/.tincture

# Classification settings document (default: <dir>/settings.json)
# settings_path: /path/to/settings.json

# Classification catalog (default: built-in catalog)
# catalog_path: /path/to/catalog.yaml

# Ambient default formatting; every attribute a classification does not pin
# follows these values.
ambient:
  foreground: "#dcdcdc"
  # background: "#1e1e1e"   # omit for a transparent background
  font_size: 12
  # bold: false
  # italic: false
  # decorations: [underline] # overline, underline, strikethrough, baseline

# Chroma styles offered as read-only built-in presets for every language.
# A user preset with the same name is ignored.
presets:
  - tincture
  - monokai
  - github

# Settings history: the previous document is kept before every save.
history:
  enabled: true
  # path: /path/to/history.db
  keep: 50

# File watcher used by 'tincture watch'
watch:
  debounce: 250ms

# Feature flags
flags:
  defer-apply: false    # push formatting once per watched change instead of on every rebuild
  quiet-events: false   # leave the model copy out of resolved and saved events

# Tracing of load, resolve, apply and save
# tracing:
#   enabled: false                 # Enable/disable tracing (default: false)
#   exporter: file                 # Export backend: none, file, stdout, otlp (default: file)
#   file_path: .tincture/traces.jsonl
#   otlp_endpoint: localhost:4317  # OTLP collector endpoint (for otlp exporter)
#   sample_rate: 1.0               # Trace sampling rate 0.0-1.0 (default: 1.0)
`
}

// WriteDefaultConfig creates a config file at the given path with default settings and comments.
// Creates the parent directory if it doesn't exist.
func WriteDefaultConfig(configPath string) error {
	log.Debug(log.CatConfig, "Writing default config", "path", configPath)

	dir := filepath.Dir(configPath)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		log.ErrorErr(log.CatConfig, "Failed to create config directory", err, "dir", dir)
		return fmt.Errorf("creating config directory: %w", err)
	}

	if err := os.WriteFile(configPath, []byte(DefaultConfigTemplate()), 0o600); err != nil {
		log.ErrorErr(log.CatConfig, "Failed to write config file", err, "path", configPath)
		return fmt.Errorf("writing config file: %w", err)
	}

	log.Info(log.CatConfig, "Created default config", "path", configPath)
	return nil
}
