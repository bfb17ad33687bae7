// Package config loads heapviz configuration from TOML files.
//
// Configuration is optional: every field has a working default, and the CLI
// flags override whatever the file provides. The loader looks for
// heapviz.toml in the working directory, then config.toml under the user
// config directory.
package config

import (
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"
)

// Config is the top-level heapviz configuration.
type Config struct {
	Cache  CacheConfig  `toml:"cache"`
	Server ServerConfig `toml:"server"`
	Render RenderConfig `toml:"render"`
}

// CacheConfig configures the artifact cache.
type CacheConfig struct {
	// Disabled turns caching off entirely.
	Disabled bool `toml:"disabled"`

	// Dir is the file cache directory. Empty means ~/.cache/heapviz.
	Dir string `toml:"dir"`

	// RedisURL selects the Redis backend when set, e.g.
	// redis://localhost:6379/0. The file cache is used otherwise.
	RedisURL string `toml:"redis_url"`

	// TTL bounds entry lifetime. Zero keeps the per-class defaults.
	TTL duration `toml:"ttl"`
}

// ServerConfig configures the HTTP server.
type ServerConfig struct {
	// Addr is the listen address, default ":8080".
	Addr string `toml:"addr"`

	// MongoURI selects the MongoDB report store when set. Reports are held
	// in memory otherwise.
	MongoURI string `toml:"mongo_uri"`

	// MongoDatabase is the database name for the report store.
	MongoDatabase string `toml:"mongo_database"`
}

// RenderConfig configures render defaults.
type RenderConfig struct {
	// Formats are the default output formats.
	Formats []string `toml:"formats"`

	// Banner adds section header nodes by default.
	Banner bool `toml:"banner"`
}

// duration wraps time.Duration for TOML strings like "24h".
type duration time.Duration

func (d *duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	*d = duration(v)
	return nil
}

// TTLDuration returns the configured cache TTL as a time.Duration.
func (c CacheConfig) TTLDuration() time.Duration {
	return time.Duration(c.TTL)
}

// Default returns the configuration used when no file exists.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Addr:          ":8080",
			MongoDatabase: "heapviz",
		},
		Render: RenderConfig{
			Formats: []string{"dot"},
		},
	}
}

// Load reads a TOML config file, layered over the defaults.
func Load(path string) (*Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Discover finds and loads the nearest config file. Search order:
//
//  1. heapviz.toml in the working directory
//  2. config.toml under os.UserConfigDir()/heapviz
//
// When no file exists, the defaults are returned with no error.
func Discover() (*Config, error) {
	if _, err := os.Stat("heapviz.toml"); err == nil {
		return Load("heapviz.toml")
	}
	if dir, err := os.UserConfigDir(); err == nil {
		path := filepath.Join(dir, "heapviz", "config.toml")
		if _, err := os.Stat(path); err == nil {
			return Load(path)
		}
	}
	return Default(), nil
}

// CacheDir returns the file cache directory, resolving the default.
func (c CacheConfig) CacheDir() (string, error) {
	if c.Dir != "" {
		return c.Dir, nil
	}
	base, err := os.UserCacheDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(base, "heapviz"), nil
}
