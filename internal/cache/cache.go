package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
	"time"
)

// Cache stores fetched document bodies by key.
type Cache interface {
	Get(key string) ([]byte, bool)
	Set(key string, value []byte, ttl time.Duration) error
	Delete(key string) error
}

// CacheKey derives a cache key from a source URL. Scheme and host are
// case-insensitive, so they are lowercased before hashing.
func CacheKey(rawURL string) string {
	normalized := rawURL
	if i := strings.Index(rawURL, "://"); i > 0 {
		rest := rawURL[i+3:]
		host, path := rest, ""
		if j := strings.IndexByte(rest, '/'); j >= 0 {
			host, path = rest[:j], rest[j:]
		}
		normalized = strings.ToLower(rawURL[:i+3]+host) + path
	}

	hash := sha256.Sum256([]byte(normalized))
	return "keyphrase:doc:v1:" + hex.EncodeToString(hash[:])
}
