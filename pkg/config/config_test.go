package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestDefault(t *testing.T) {
	cfg := Default()
	if cfg.Server.Addr != ":8080" {
		t.Errorf("Addr = %q, want :8080", cfg.Server.Addr)
	}
	if len(cfg.Render.Formats) != 1 || cfg.Render.Formats[0] != "dot" {
		t.Errorf("Formats = %v, want [dot]", cfg.Render.Formats)
	}
	if cfg.Cache.Disabled {
		t.Error("cache should be enabled by default")
	}
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "heapviz.toml")
	content := `
[cache]
redis_url = "redis://localhost:6379/1"
ttl = "48h"

[server]
addr = ":9090"
mongo_uri = "mongodb://localhost:27017"

[render]
formats = ["dot", "svg"]
banner = true
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.Cache.RedisURL != "redis://localhost:6379/1" {
		t.Errorf("RedisURL = %q", cfg.Cache.RedisURL)
	}
	if cfg.Cache.TTLDuration() != 48*time.Hour {
		t.Errorf("TTL = %v, want 48h", cfg.Cache.TTLDuration())
	}
	if cfg.Server.Addr != ":9090" {
		t.Errorf("Addr = %q, want :9090", cfg.Server.Addr)
	}
	if len(cfg.Render.Formats) != 2 {
		t.Errorf("Formats = %v, want two entries", cfg.Render.Formats)
	}
	if !cfg.Render.Banner {
		t.Error("Banner should be true")
	}

	// Unset fields keep their defaults
	if cfg.Server.MongoDatabase != "heapviz" {
		t.Errorf("MongoDatabase = %q, want default", cfg.Server.MongoDatabase)
	}
}

func TestLoadPartial(t *testing.T) {
	path := filepath.Join(t.TempDir(), "heapviz.toml")
	if err := os.WriteFile(path, []byte("[cache]\ndisabled = true\n"), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if !cfg.Cache.Disabled {
		t.Error("Disabled should be true")
	}
	if cfg.Server.Addr != ":8080" {
		t.Errorf("Addr = %q, want default", cfg.Server.Addr)
	}
}

func TestLoadMissing(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "absent.toml")); err == nil {
		t.Error("Load of a missing file should fail")
	}
}

func TestLoadInvalidTTL(t *testing.T) {
	path := filepath.Join(t.TempDir(), "heapviz.toml")
	if err := os.WriteFile(path, []byte("[cache]\nttl = \"soon\"\n"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil {
		t.Error("invalid duration should fail")
	}
}

func TestCacheDir(t *testing.T) {
	c := CacheConfig{Dir: "/tmp/custom"}
	dir, err := c.CacheDir()
	if err != nil || dir != "/tmp/custom" {
		t.Errorf("CacheDir = %q, %v", dir, err)
	}

	dir, err = CacheConfig{}.CacheDir()
	if err != nil {
		t.Fatalf("CacheDir default: %v", err)
	}
	if filepath.Base(dir) != "heapviz" {
		t.Errorf("default dir = %q, want heapviz leaf", dir)
	}
}
