package cache

// ScopedKeyer wraps a Keyer with a prefix for multi-tenant isolation.
// This is useful when one Redis instance serves several deployments that
// must not share style-transfer results.
//
// Example usage:
//
//	keyer := NewScopedKeyer(NewDefaultKeyer(), "board:abc123:")
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

// UploadKey generates a prefixed key for upload result caching.
func (k *ScopedKeyer) UploadKey(opts UploadKeyOpts) string {
	return k.prefix + k.inner.UploadKey(opts)
}
