package cli

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/heapviz/heapviz/pkg/config"
)

// cacheRoundTrips reports whether a Set is visible to a later Get. The null
// backend always misses, the file backend hits.
func cacheRoundTrips(t *testing.T, c *CLI, noCache bool) bool {
	t.Helper()
	ctx := context.Background()

	backend := c.newCache(noCache)
	defer backend.Close()

	if err := backend.Set(ctx, "k", []byte("v"), 0); err != nil {
		t.Fatalf("Set: %v", err)
	}
	_, ok, err := backend.Get(ctx, "k")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	return ok
}

func TestNewCacheFileBackend(t *testing.T) {
	c := New(io.Discard, LogInfo)
	c.Config = config.Default()
	c.Config.Cache.Dir = t.TempDir()

	if !cacheRoundTrips(t, c, false) {
		t.Error("file backend should serve cached entries")
	}
}

func TestNewCacheDisabled(t *testing.T) {
	c := New(io.Discard, LogInfo)
	c.Config = config.Default()
	c.Config.Cache.Disabled = true
	c.Config.Cache.Dir = t.TempDir()

	if cacheRoundTrips(t, c, false) {
		t.Error("disabled cache should never hit")
	}
}

func TestNewCacheNoCacheFlag(t *testing.T) {
	c := New(io.Discard, LogInfo)
	c.Config = config.Default()
	c.Config.Cache.Dir = t.TempDir()

	if cacheRoundTrips(t, c, true) {
		t.Error("--no-cache should never hit")
	}
}

func TestNewRunnerConfiguredTTL(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "heapviz.toml")
	conf := "[cache]\ndir = \"" + filepath.ToSlash(dir) + "\"\nttl = \"2h\"\n"
	if err := os.WriteFile(path, []byte(conf), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	c := New(io.Discard, LogInfo)
	c.Config = cfg

	r := c.newRunner(false)
	defer r.Close()
	if r.TTL != 2*time.Hour {
		t.Errorf("runner TTL = %v, want %v", r.TTL, 2*time.Hour)
	}

	// Without a configured ttl the pipeline default stays in effect.
	c.Config = config.Default()
	c.Config.Cache.Disabled = true
	r2 := c.newRunner(false)
	defer r2.Close()
	if r2.TTL != 0 {
		t.Errorf("runner TTL = %v, want the zero default", r2.TTL)
	}
}
