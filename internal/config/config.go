package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"
)

// Config holds all configuration options
type Config struct {
	DefaultTheme    string        `toml:"default_theme"`
	DefaultLanguage string        `toml:"default_language"`
	TimeoutMS       int           `toml:"timeout_ms"`
	CacheSize       int           `toml:"cache_size"`
	HTML            HTMLConfig    `toml:"html"`
	Logging         LoggingConfig `toml:"logging"`
}

// HTMLConfig controls the chroma HTML formatter
type HTMLConfig struct {
	WithClasses bool `toml:"with_classes"`
	LineNumbers bool `toml:"line_numbers"`
	TabWidth    int  `toml:"tab_width"`
}

// LoggingConfig holds logging settings
type LoggingConfig struct {
	Debug bool   `toml:"debug"`
	Path  string `toml:"path"`
}

// DefaultConfig returns a config with default values
func DefaultConfig() *Config {
	return &Config{
		DefaultTheme:    "gruvbox-dark-soft",
		DefaultLanguage: "text",
		TimeoutMS:       0,
		CacheSize:       100,
		HTML: HTMLConfig{
			TabWidth: 4,
		},
		Logging: LoggingConfig{
			Path: filepath.Join(os.TempDir(), "codehl.log"),
		},
	}
}

// Timeout returns the engine timeout, zero meaning none.
func (c *Config) Timeout() time.Duration {
	if c.TimeoutMS <= 0 {
		return 0
	}
	return time.Duration(c.TimeoutMS) * time.Millisecond
}

// Load loads configuration from path, or from the default location when
// path is empty. A missing file yields the defaults.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	if path == "" {
		path = Path()
		if path == "" {
			return cfg, nil
		}
	}

	if _, err := os.Stat(path); os.IsNotExist(err) {
		return cfg, nil
	}

	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return cfg, fmt.Errorf("failed to parse config %s: %w", path, err)
	}

	if cfg.DefaultLanguage == "" {
		cfg.DefaultLanguage = "text"
	}
	if cfg.CacheSize <= 0 {
		cfg.CacheSize = DefaultConfig().CacheSize
	}
	if cfg.HTML.TabWidth <= 0 {
		cfg.HTML.TabWidth = DefaultConfig().HTML.TabWidth
	}

	return cfg, nil
}

// Path returns the path to the config file
func Path() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "codehl", "config.toml")
}

// EnsureDir creates the directory holding path if it doesn't exist
func EnsureDir(path string) error {
	return os.MkdirAll(filepath.Dir(path), 0755)
}

// WriteDefault writes a default config file with comments to path, or to
// the default location when path is empty.
func WriteDefault(path string) (string, error) {
	if path == "" {
		path = Path()
		if path == "" {
			return "", fmt.Errorf("cannot determine home directory")
		}
	}
	if err := EnsureDir(path); err != nil {
		return "", fmt.Errorf("failed to create config dir: %w", err)
	}

	defaultConfig := `# codehl configuration
# Location: ~/.config/codehl/config.toml

# Theme used when a request carries none. Accepts chroma style names
# (run "codehl --list-themes") and shiki names such as gruvbox-dark-soft.
default_theme = "gruvbox-dark-soft"

# Language used when a request's lang is missing or empty
default_language = "text"

# Engine timeout in milliseconds, 0 waits forever
timeout_ms = 0

# Highlighted blocks kept in memory while rendering a document
cache_size = 100

[html]
# Emit CSS classes instead of inline styles (see "codehl css")
with_classes = false
line_numbers = false
tab_width = 4

[logging]
# Failures are always absorbed into the fallback HTML; enable this to
# record why
debug = false
path = "/tmp/codehl.log"
`

	if err := os.WriteFile(path, []byte(defaultConfig), 0644); err != nil {
		return "", err
	}
	return path, nil
}
