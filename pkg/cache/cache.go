// Package cache provides caching for rendered heap artifacts.
//
// Two backends are included: [FileCache] for CLI usage and [RedisCache] for
// the server. [NullCache] disables caching entirely. Keys are produced by a
// [Keyer] so the pipeline never builds key strings by hand; every input that
// shapes an artifact (the proposition, the render options, the diff
// counterpart) is content-hashed into the key, so a changed input can never
// serve a stale artifact, and entries are never explicitly invalidated.
package cache

import (
	"context"
	"time"
)

// keyVersion is bumped whenever the render output format changes in a way
// that makes older cached artifacts wrong.
const keyVersion = "v1"

// Default TTLs per entry class. Keys are content-hashed, so expiry only
// bounds disk and memory growth; stale reads cannot happen.
const (
	TTLRender   = 24 * time.Hour
	TTLArtifact = 7 * 24 * time.Hour
)

// Cache is a byte-oriented cache with TTL support.
type Cache interface {
	// Get retrieves a value. The second return is false on a miss.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores a value. A zero ttl means no expiration.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes a value. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases backend resources.
	Close() error
}

// RenderKeyOpts are the options that affect a rendered graph and therefore
// participate in its cache key.
//
// DiffHash is set for diff renders: the coloring of one side depends on the
// proposition it was compared against, so the counterpart's content hash
// (tagged with the side) must reach the key. Empty means a plain render.
type RenderKeyOpts struct {
	Format   string // dot, xml, svg, png
	Banner   bool   // section header node included
	DiffHash string // side-tagged content hash of the diff counterpart
}

// Keyer generates cache keys for the render pipeline.
type Keyer interface {
	// RenderKey generates a key for a serialized render of one proposition.
	// propHash is the content hash of the proposition JSON.
	RenderKey(propHash string, opts RenderKeyOpts) string

	// ArtifactKey generates a key for a rasterized artifact derived from
	// DOT text. dotHash is the content hash of the DOT bytes.
	ArtifactKey(dotHash string, format string) string
}

// DefaultKeyer is the standard key generator.
type DefaultKeyer struct{}

// NewDefaultKeyer creates the standard key generator.
func NewDefaultKeyer() Keyer {
	return &DefaultKeyer{}
}

// RenderKey generates a key for a serialized render of one proposition.
func (k *DefaultKeyer) RenderKey(propHash string, opts RenderKeyOpts) string {
	return hashKey("render:"+keyVersion, propHash, opts.Format, opts.Banner, opts.DiffHash)
}

// ArtifactKey generates a key for a rasterized artifact.
func (k *DefaultKeyer) ArtifactKey(dotHash string, format string) string {
	return hashKey("artifact:"+keyVersion, dotHash, format)
}
