// Package cache stores computed remap payloads.
//
// The engine itself is stateless and recomputes on every call. Hosts that
// see the same request repeatedly (a CLI re-run, several HTTP clients
// polling one pairing) can skip the work by caching the encoded payload
// under a key derived from the request content.
//
// Three backends are provided:
//   - [FileCache]: one JSON file per entry, for the CLI
//   - [RedisCache]: shared cache for multi-instance servers
//   - [NullCache]: caching disabled
//
// Keys are produced by a [Keyer] so that multi-tenant hosts can namespace
// them with [NewScopedKeyer].
package cache

import (
	"context"
	"time"
)

// Cache is a byte-oriented key/value store with per-entry expiry.
type Cache interface {
	// Get returns the value for key. A miss is reported as hit=false with
	// a nil error.
	Get(ctx context.Context, key string) (data []byte, hit bool, err error)

	// Set stores data under key. A ttl of zero means no expiry.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases backend resources.
	Close() error
}

// TTLPayload is how long a computed payload stays cached. Payloads are a
// pure function of their key, so the TTL only bounds storage growth.
const TTLPayload = 7 * 24 * time.Hour

// Keyer builds cache keys.
type Keyer interface {
	// PayloadKey returns the key for the payload computed from a request
	// whose canonical encoding hashes to inputHash.
	PayloadKey(inputHash string, opts PayloadKeyOpts) string
}

// PayloadKeyOpts holds everything besides the request that changes the
// computed payload.
type PayloadKeyOpts struct {
	FlowMargin       float64 `json:"flow_margin"`
	CollisionPadding float64 `json:"collision_padding"`
	EngineVersion    string  `json:"engine_version"`
}

// DefaultKeyer produces unscoped keys.
type DefaultKeyer struct{}

// NewDefaultKeyer creates a keyer without a namespace.
func NewDefaultKeyer() Keyer {
	return DefaultKeyer{}
}

// PayloadKey implements Keyer.
func (DefaultKeyer) PayloadKey(inputHash string, opts PayloadKeyOpts) string {
	return hashKey("payload", inputHash, opts)
}
