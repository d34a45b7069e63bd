// Package cache provides the artifact cache used by the render pipeline.
//
// Rendering a DOT document through Graphviz is deterministic, so artifacts
// are cached under a content hash of the document plus the output format.
// Three backends are provided:
//   - FileCache: sharded JSON files on disk, for CLI usage
//   - RedisCache: shared cache for server deployments
//   - NullCache: disables caching without branching at call sites
package cache

import (
	"context"
	"time"
)

// Cache stores rendered artifacts keyed by content hash.
// Implementations must treat a missing key as a miss, not an error.
type Cache interface {
	// Get retrieves a value. The second return value reports a hit.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores a value with the given TTL. A TTL of 0 never expires.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes a value. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases any backend resources.
	Close() error
}

// ArtifactKey builds the cache key for one rendered artifact: the SHA-256
// of the DOT text, qualified by the output format.
func ArtifactKey(dot, format string) string {
	return "artifact:" + format + ":" + Hash([]byte(dot))
}
