// Package config holds the YAML application configuration for a host
// embedding the scheduling core: expansion limits, the dispatch cadence, and
// cache tuning. Fields left out of the file keep their defaults.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/listora/postqueue/recurrence"
)

// CacheConfig tunes the recurrence expansion cache.
type CacheConfig struct {
	// Disabled turns memoization off entirely; every call expands fresh.
	Disabled bool `yaml:"disabled"`
	// TTLMinutes is how long cached expansions stay valid.
	TTLMinutes int `yaml:"ttl_minutes"`
	// MaxEntries bounds the cache before least-recently-used eviction.
	MaxEntries int `yaml:"max_entries"`
}

// Config is the top-level application configuration.
type Config struct {
	// PreviewLimit is how many occurrences the "upcoming" views expand.
	PreviewLimit int `yaml:"preview_limit"`

	// CalendarLimit is how many occurrences calendar-range queries expand.
	CalendarLimit int `yaml:"calendar_limit"`

	// Timezone is the IANA zone the dispatch cron spec is evaluated in
	// (e.g. "America/Denver").
	Timezone string `yaml:"timezone"`

	// DispatchCron is the cron-style tick cadence of the dispatcher.
	DispatchCron string `yaml:"dispatch_cron"`

	// Cache tunes expansion memoization.
	Cache CacheConfig `yaml:"cache"`
}

// Default returns the in-memory default configuration.
func Default() *Config {
	return &Config{
		PreviewLimit:  recurrence.DefaultPreviewLimit,
		CalendarLimit: recurrence.DefaultCalendarLimit,
		Timezone:      "UTC",
		DispatchCron:  "* * * * *",
		Cache: CacheConfig{
			TTLMinutes: 15,
			MaxEntries: 1000,
		},
	}
}

// Load reads the YAML file at path over the defaults. A missing file yields
// the defaults unchanged.
func Load(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	cfg.Normalize()
	return cfg, nil
}

// Normalize fills zero values with defaults so partially-filled configs
// still behave correctly.
func (c *Config) Normalize() {
	def := Default()
	if c.PreviewLimit <= 0 {
		c.PreviewLimit = def.PreviewLimit
	}
	if c.CalendarLimit <= 0 {
		c.CalendarLimit = def.CalendarLimit
	}
	if c.Timezone == "" {
		c.Timezone = def.Timezone
	}
	if c.DispatchCron == "" {
		c.DispatchCron = def.DispatchCron
	}
	if c.Cache.TTLMinutes <= 0 {
		c.Cache.TTLMinutes = def.Cache.TTLMinutes
	}
	if c.Cache.MaxEntries <= 0 {
		c.Cache.MaxEntries = def.Cache.MaxEntries
	}
}

// Location resolves the configured timezone.
func (c *Config) Location() (*time.Location, error) {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return nil, fmt.Errorf("load timezone %q: %w", c.Timezone, err)
	}
	return loc, nil
}

// EngineConfig bridges the file configuration to the recurrence engine.
func (c *Config) EngineConfig() recurrence.EngineConfig {
	if c.Cache.Disabled {
		engine := recurrence.NoCacheEngineConfig
		engine.MaxRangeOccurrences = c.CalendarLimit
		return engine
	}
	return recurrence.EngineConfig{
		CacheEnabled: true,
		CacheConfig: recurrence.CacheConfig{
			TTL:             time.Duration(c.Cache.TTLMinutes) * time.Minute,
			MaxEntries:      c.Cache.MaxEntries,
			CleanupInterval: recurrence.DefaultCacheConfig.CleanupInterval,
		},
		MaxRangeOccurrences: c.CalendarLimit,
	}
}
