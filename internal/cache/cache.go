// Package cache provides the caching layer for ranked search results and
// fetched listing pages. Keys are derived from the full intent, so any
// refinement naturally misses and recomputes.
package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"time"

	"github.com/motormatch/motormatch/internal/model"
)

// Cache defines the interface for caching
type Cache interface {
	Get(key string) ([]byte, bool)
	Set(key string, value []byte, ttl time.Duration) error
	Delete(key string) error
	Clear() error
}

// SearchKey generates a cache key for a scoring pass over the given intent.
// Two intents with identical preference fields share a key even when the raw
// query text differs.
func SearchKey(intent model.UserIntent) string {
	normalized := intent
	normalized.RawQuery = ""

	body, err := json.Marshal(normalized)
	if err != nil {
		// Marshal of a plain struct cannot fail; fall back to the raw query
		body = []byte(intent.RawQuery)
	}

	hash := sha256.Sum256(body)
	return "motormatch:search:v1:" + hex.EncodeToString(hash[:])
}

// PageKey generates a cache key for a fetched listings page
func PageKey(url string) string {
	hash := sha256.Sum256([]byte(url))
	return "motormatch:page:v1:" + hex.EncodeToString(hash[:])
}
