package history

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"

	"discountfinder/logger"
)

// RedisStore keeps post records in Redis: a SET of published product IDs
// plus a HASH of publish timestamps. Useful when several hosts take turns
// running the batch and a shared ledger is needed.
type RedisStore struct {
	client *redis.Client
	ctx    context.Context
	prefix string
	now    func() time.Time
}

// NewRedisStore creates a Redis-backed store
func NewRedisStore(ctx context.Context, addr string, db int, prefix string) *RedisStore {
	client := redis.NewClient(&redis.Options{
		Addr: addr,
		DB:   db,
	})

	return &RedisStore{
		client: client,
		ctx:    ctx,
		prefix: prefix,
		now:    time.Now,
	}
}

func (s *RedisStore) postedKey() string {
	return s.prefix + ":posted"
}

func (s *RedisStore) postedAtKey() string {
	return s.prefix + ":posted_at"
}

// Contains reports whether the product was already published.
// Lookup failures count as "not posted" so a Redis outage degrades to
// duplicate posts rather than lost ones.
func (s *RedisStore) Contains(productID string) bool {
	ok, err := s.client.SIsMember(s.ctx, s.postedKey(), productID).Result()
	if err != nil {
		logger.ForHistory().Warn().Err(err).Str("product_id", productID).Msg("History lookup failed")
		return false
	}
	return ok
}

// Record marks a product as published
func (s *RedisStore) Record(productID string) {
	if err := s.client.SAdd(s.ctx, s.postedKey(), productID).Err(); err != nil {
		logger.ForHistory().Error().Err(err).Str("product_id", productID).Msg("Failed to record product")
		return
	}
	ts := s.now().Format(time.RFC3339)
	if err := s.client.HSet(s.ctx, s.postedAtKey(), productID, ts).Err(); err != nil {
		logger.ForHistory().Warn().Err(err).Str("product_id", productID).Msg("Failed to record post time")
	}
}

// Save implements Store; Redis writes are immediate
func (s *RedisStore) Save() error {
	return nil
}

// Close closes the Redis connection
func (s *RedisStore) Close() error {
	return s.client.Close()
}
