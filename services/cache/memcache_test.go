package cache

import (
	"testing"
	"time"

	"github.com/bradfitz/gomemcache/memcache"
	"github.com/stretchr/testify/assert"
)

// This test requires a running memcached instance
// If memcached is not available, the test will be skipped
func TestMemcacheService(t *testing.T) {
	mc := NewMemcacheService("localhost:11211")

	_, err := mc.client.Get("ping")
	if err != nil && err != memcache.ErrCacheMiss {
		t.Skip("Memcached is not available, skipping test")
	}

	err = mc.Set("rate_limit_test", []byte("blocked"), 1*time.Second)
	assert.NoError(t, err)

	value, err := mc.Get("rate_limit_test")
	assert.NoError(t, err)
	assert.Equal(t, "blocked", string(value))

	err = mc.Delete("rate_limit_test")
	assert.NoError(t, err)

	_, err = mc.Get("rate_limit_test")
	assert.Error(t, err)
}
