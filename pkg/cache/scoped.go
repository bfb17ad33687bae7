package cache

// ScopedKeyer wraps a Keyer with a prefix for namespace isolation. The
// server uses it to keep per-deployment caches separate when several
// instances share one Redis.
//
// Example usage:
//
//	keyer := NewScopedKeyer(NewDefaultKeyer(), "staging:")
type ScopedKeyer struct {
	inner  Keyer
	prefix string
}

// NewScopedKeyer creates a keyer with a prefix.
// The prefix is prepended to all generated keys.
func NewScopedKeyer(inner Keyer, prefix string) Keyer {
	if inner == nil {
		inner = NewDefaultKeyer()
	}
	return &ScopedKeyer{
		inner:  inner,
		prefix: prefix,
	}
}

// RenderKey generates a prefixed key for a serialized render.
func (k *ScopedKeyer) RenderKey(propHash string, opts RenderKeyOpts) string {
	return k.prefix + k.inner.RenderKey(propHash, opts)
}

// ArtifactKey generates a prefixed key for a rasterized artifact.
func (k *ScopedKeyer) ArtifactKey(dotHash string, format string) string {
	return k.prefix + k.inner.ArtifactKey(dotHash, format)
}
