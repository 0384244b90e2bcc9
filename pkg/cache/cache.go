// Package cache stores probed image metrics between runs.
//
// Layouts are never cached: they depend on the live container width and are
// cheap to recompute. What is expensive is opening every image to read its
// dimensions, so the [Prober] in pkg/metrics keys those results by file
// identity and keeps them here.
//
// Three backends are provided:
//   - [FileCache]: JSON files under a directory, for the CLI
//   - [RedisCache]: a shared Redis instance, for multi-instance servers
//   - [NullCache]: stores nothing, for tests and --no-cache
//
// [Prober]: https://pkg.go.dev/github.com/matzehuels/photogrid/pkg/metrics#Prober
package cache

import (
	"context"
	"time"
)

// Cache is a byte-oriented key/value store with per-entry expiry.
type Cache interface {
	// Get returns the value for key. A miss is (nil, false, nil).
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores data under key. A ttl of zero never expires.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases backend resources.
	Close() error
}

// Default entry lifetimes.
const (
	// TTLMetrics bounds how long probed dimensions are trusted. Keys already
	// include size and modification time, so this only limits growth.
	TTLMetrics = 30 * 24 * time.Hour
)

// Keyer builds cache keys.
type Keyer interface {
	// MetricsKey returns the key for one image's probed dimensions.
	MetricsKey(path string, opts MetricsKeyOpts) string
}

// MetricsKeyOpts identifies the version of a file that was probed.
type MetricsKeyOpts struct {
	Size    int64     `json:"size"`
	ModTime time.Time `json:"mod_time"`
}

// DefaultKeyer hashes key components with SHA-256.
type DefaultKeyer struct{}

// NewDefaultKeyer returns the default keyer.
func NewDefaultKeyer() Keyer {
	return DefaultKeyer{}
}

// MetricsKey implements [Keyer].
func (DefaultKeyer) MetricsKey(path string, opts MetricsKeyOpts) string {
	return hashKey("metrics", path, opts.Size, opts.ModTime.UTC().UnixNano())
}

// ScopedKeyer prefixes every key, so several galleries can share one
// backend without colliding.
type ScopedKeyer struct {
	inner  Keyer
	prefix string
}

// NewScopedKeyer wraps inner with prefix. A nil inner uses [DefaultKeyer].
func NewScopedKeyer(inner Keyer, prefix string) Keyer {
	if inner == nil {
		inner = NewDefaultKeyer()
	}
	return &ScopedKeyer{inner: inner, prefix: prefix}
}

// MetricsKey implements [Keyer].
func (k *ScopedKeyer) MetricsKey(path string, opts MetricsKeyOpts) string {
	return k.prefix + k.inner.MetricsKey(path, opts)
}
