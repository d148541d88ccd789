package cache

import "time"

// CacheService abstracts the short-lived cache used to back off from the
// search API after a rate limit response
type CacheService interface {
	// Get retrieves a value by key
	Get(key string) ([]byte, error)

	// Set stores a value with an expiration time
	Set(key string, value []byte, expiration time.Duration) error

	// Delete removes a value by key
	Delete(key string) error
}
