// Package config holds the YAML application configuration: HTTP listen
// address, display timezone, the event data source, subscribed ICS feeds, and
// the refresh schedule.
package config

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// SourceConfig points at the raw event payload. Path wins over URL when both
// are set.
type SourceConfig struct {
	// Path is a local events JSON file.
	Path string `yaml:"path,omitempty" json:"path,omitempty"`
	// URL is a remote events JSON endpoint.
	URL string `yaml:"url,omitempty" json:"url,omitempty"`
}

// FeedConfig describes a single subscribed ICS feed.
type FeedConfig struct {
	URL string `yaml:"url" json:"url"`
	// ID is an internal identifier used for logging; defaults to Name or URL.
	ID string `yaml:"id,omitempty" json:"id,omitempty"`
	// Name is a human-friendly label.
	Name string `yaml:"name,omitempty" json:"name,omitempty"`
}

// Config is the top-level application configuration.
type Config struct {
	// Listen is the HTTP listen address for the API.
	Listen string `yaml:"listen" json:"listen"`

	// Timezone is the IANA timezone used for past/future cutoffs and export
	// wall-clock conversion (e.g. "America/Chicago"). Empty means the
	// process-local zone.
	Timezone string `yaml:"timezone,omitempty" json:"timezone,omitempty"`

	// LogLevel is the minimum log level: debug, info, warn, error.
	LogLevel string `yaml:"log_level" json:"log_level"`

	// Source is the primary event payload location.
	Source SourceConfig `yaml:"source" json:"source"`

	// Feeds lists subscribed ICS sources merged into the event list.
	Feeds []FeedConfig `yaml:"feeds,omitempty" json:"feeds,omitempty"`

	// Refresh is a cron-style schedule for reloading source and feeds.
	Refresh string `yaml:"refresh" json:"refresh"`

	// CacheDir backs the conditional-GET payload cache.
	CacheDir string `yaml:"cache_dir" json:"cache_dir"`
}

// DefaultConfig returns an in-memory default configuration.
func DefaultConfig() *Config {
	return &Config{
		Listen:   "127.0.0.1:8080",
		LogLevel: "info",
		Source:   SourceConfig{Path: "./assets/events.json"},
		Feeds:    []FeedConfig{},
		Refresh:  "*/15 * * * *",
		CacheDir: "./var/payload-cache",
	}
}

// Normalize fills missing values with defaults so partially-filled configs
// still behave correctly.
func (c *Config) Normalize() {
	if c.Listen == "" {
		c.Listen = "127.0.0.1:8080"
	}
	if c.LogLevel == "" {
		c.LogLevel = "info"
	}
	if c.Source.Path == "" && c.Source.URL == "" {
		c.Source.Path = "./assets/events.json"
	}
	if c.Refresh == "" {
		c.Refresh = "*/15 * * * *"
	}
	if c.CacheDir == "" {
		c.CacheDir = "./var/payload-cache"
	}
	if c.Feeds == nil {
		c.Feeds = []FeedConfig{}
	}
	for i := range c.Feeds {
		if c.Feeds[i].ID == "" {
			if c.Feeds[i].Name != "" {
				c.Feeds[i].ID = c.Feeds[i].Name
			} else {
				c.Feeds[i].ID = c.Feeds[i].URL
			}
		}
	}
}

// Load reads configuration from the given YAML path. A missing file is a
// first run: the default config is written there (0600) and returned.
func Load(path string) (*Config, error) {
	if path == "" {
		return nil, errors.New("config path is empty")
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			cfg := DefaultConfig()
			if err := Save(path, cfg); err != nil {
				return cfg, err
			}
			return cfg, nil
		}
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	cfg.Normalize()
	return &cfg, nil
}

// Save writes cfg to path atomically (temp file + rename) with 0600 perms,
// creating the parent directory when needed.
func Save(path string, cfg *Config) error {
	if path == "" {
		return errors.New("config path is empty")
	}
	if cfg == nil {
		return errors.New("config is nil")
	}
	cfg.Normalize()

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return err
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}

	tmp, err := os.CreateTemp(dir, ".eventcal-config-*.tmp")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Chmod(tmpName, 0o600); err != nil {
		return err
	}
	return os.Rename(tmpName, path)
}
