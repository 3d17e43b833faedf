// Package config handles configuration loading and validation for mort.
package config

import (
	"fmt"
	"net/url"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/colonyops/mort/internal/core/styles"
)

// Config holds the application configuration.
type Config struct {
	Catalog CatalogConfig `yaml:"catalog"`
	Remote  RemoteConfig  `yaml:"remote"`
	Search  SearchConfig  `yaml:"search"`
	List    ListConfig    `yaml:"list"`
	Export  ExportConfig  `yaml:"export"`
	TUI     TUIConfig     `yaml:"tui"`
	Server  ServerConfig  `yaml:"server"`
	DataDir string        `yaml:"-"` // set by caller, not from config file
}

// CatalogConfig locates the directory of converted table documents.
type CatalogConfig struct {
	Dir     string `yaml:"dir"`
	Pattern string `yaml:"pattern"` // doublestar glob relative to Dir
	Locale  string `yaml:"locale"`  // BCP 47 tag used to collate identities
}

// RemoteConfig points at a catalog served over HTTP. When URL is set it
// takes the place of the local directory.
type RemoteConfig struct {
	URL     string        `yaml:"url"`
	Timeout time.Duration `yaml:"timeout"` // 0 disables the client timeout
}

// SearchConfig tunes fuzzy matching.
type SearchConfig struct {
	Threshold float64 `yaml:"threshold"` // 0 exact, 1 anything
}

// ListConfig controls incremental reveal of the table list.
type ListConfig struct {
	BatchSize       int `yaml:"batch_size"`
	ScrollThreshold int `yaml:"scroll_threshold"` // rows from the end that trigger a reveal
}

// ExportConfig controls where downloads land and how bulk exports fetch.
type ExportConfig struct {
	Dir         string `yaml:"dir"`
	Concurrency int    `yaml:"concurrency"`
}

// TUIConfig holds terminal UI settings.
type TUIConfig struct {
	Theme string `yaml:"theme"`
}

// ServerConfig holds settings for `mort serve`.
type ServerConfig struct {
	Addr  string `yaml:"addr"`
	Pprof bool   `yaml:"pprof"`
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		Catalog: CatalogConfig{
			Pattern: "**/*.json{,.gz,.xz}",
		},
		Search: SearchConfig{
			Threshold: 0.32,
		},
		List: ListConfig{
			BatchSize:       40,
			ScrollThreshold: 3,
		},
		Export: ExportConfig{
			Dir:         ".",
			Concurrency: 4,
		},
		TUI: TUIConfig{
			Theme: styles.DefaultTheme,
		},
		Server: ServerConfig{
			Addr: ":8080",
		},
	}
}

// Load reads configuration from the given path and sets the data directory.
// If configPath is empty or doesn't exist, returns defaults with the provided dataDir.
func Load(configPath, dataDir string) (*Config, error) {
	cfg := DefaultConfig()
	cfg.DataDir = dataDir

	if configPath != "" {
		if _, err := os.Stat(configPath); err == nil {
			data, err := os.ReadFile(configPath)
			if err != nil {
				return nil, fmt.Errorf("read config file: %w", err)
			}

			if err := yaml.Unmarshal(data, &cfg); err != nil {
				return nil, fmt.Errorf("parse config file: %w", err)
			}

			// Re-set dataDir since Unmarshal may have cleared it
			cfg.DataDir = dataDir
		}
	}

	cfg.applyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &cfg, nil
}

// applyDefaults sets default values for any unset configuration options.
func (c *Config) applyDefaults() {
	defaults := DefaultConfig()
	if c.Catalog.Pattern == "" {
		c.Catalog.Pattern = defaults.Catalog.Pattern
	}
	if c.Search.Threshold == 0 {
		c.Search.Threshold = defaults.Search.Threshold
	}
	if c.List.BatchSize == 0 {
		c.List.BatchSize = defaults.List.BatchSize
	}
	if c.Export.Dir == "" {
		c.Export.Dir = defaults.Export.Dir
	}
	if c.Export.Concurrency == 0 {
		c.Export.Concurrency = defaults.Export.Concurrency
	}
	if c.TUI.Theme == "" {
		c.TUI.Theme = defaults.TUI.Theme
	}
	if c.Server.Addr == "" {
		c.Server.Addr = defaults.Server.Addr
	}
}

// Validate checks that the configuration is valid.
func (c *Config) Validate() error {
	if c.DataDir == "" {
		return fmt.Errorf("data directory cannot be empty")
	}

	if c.Search.Threshold < 0 || c.Search.Threshold > 1 {
		return fmt.Errorf("search.threshold must be between 0 and 1")
	}

	if c.List.BatchSize < 1 {
		return fmt.Errorf("list.batch_size must be at least 1")
	}

	if c.List.ScrollThreshold < 0 {
		return fmt.Errorf("list.scroll_threshold cannot be negative")
	}

	if c.Export.Concurrency < 1 {
		return fmt.Errorf("export.concurrency must be at least 1")
	}

	if c.Remote.Timeout < 0 {
		return fmt.Errorf("remote.timeout cannot be negative")
	}

	if c.Catalog.Dir != "" && c.Remote.URL != "" {
		return fmt.Errorf("catalog.dir and remote.url cannot both be set")
	}

	if _, ok := styles.GetPalette(c.TUI.Theme); !ok {
		return fmt.Errorf("tui.theme %q is not a known theme (available: %v)", c.TUI.Theme, styles.ThemeNames())
	}

	return nil
}

// UsesRemote reports whether the catalog is read over HTTP.
func (c *Config) UsesRemote() bool {
	return c.Remote.URL != ""
}

func parseRemoteURL(raw string) error {
	if raw == "" {
		return nil
	}
	u, err := url.Parse(raw)
	if err != nil {
		return err
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("scheme must be http or https, got %q", u.Scheme)
	}
	if u.Host == "" {
		return fmt.Errorf("missing host")
	}
	return nil
}
