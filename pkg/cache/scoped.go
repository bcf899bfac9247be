package cache

// ScopedKeyer wraps a Keyer with a prefix so that several hosts or
// tenants can share one backend without seeing each other's entries.
//
// Example usage:
//
//	// Per-workspace keys on a shared Redis
//	keyer := NewScopedKeyer(NewDefaultKeyer(), "workspace:acme:")
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

// PayloadKey generates a prefixed payload key.
func (k *ScopedKeyer) PayloadKey(inputHash string, opts PayloadKeyOpts) string {
	return k.prefix + k.inner.PayloadKey(inputHash, opts)
}
