package storage

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
)

const cacheKeyPrefix = "lifesim:save:"

// CachedStore puts a Redis read-through cache in front of another store.
// The wrapped store stays the source of truth: Redis failures are logged and
// the call falls through to it.
type CachedStore struct {
	next   Store
	rdb    redis.UniversalClient
	ttl    time.Duration
	logger *slog.Logger
}

func NewCachedStore(next Store, rdb redis.UniversalClient, ttl time.Duration, logger *slog.Logger) *CachedStore {
	return &CachedStore{
		next:   next,
		rdb:    rdb,
		ttl:    ttl,
		logger: logger.With("component", "cached_store"),
	}
}

func (s *CachedStore) Load(ctx context.Context, key string) ([]byte, error) {
	cacheKey := cacheKeyPrefix + key

	data, err := s.rdb.Get(ctx, cacheKey).Bytes()
	switch {
	case err == nil:
		return data, nil
	case errors.Is(err, redis.Nil):
	default:
		s.logger.Warn("Redis read failed, falling back", "key", key, "error", err)
	}

	data, err = s.next.Load(ctx, key)
	if err != nil || data == nil {
		return data, err
	}

	if err := s.rdb.Set(ctx, cacheKey, data, s.ttl).Err(); err != nil {
		s.logger.Warn("Failed to populate cache", "key", key, "error", err)
	}
	return data, nil
}

func (s *CachedStore) Save(ctx context.Context, key string, data []byte) error {
	cacheKey := cacheKeyPrefix + key

	if err := s.next.Save(ctx, key, data); err != nil {
		// Drop the cached copy so a later load does not serve data the
		// backing store never accepted.
		if delErr := s.rdb.Del(ctx, cacheKey).Err(); delErr != nil {
			s.logger.Warn("Failed to invalidate cache", "key", key, "error", delErr)
		}
		return err
	}

	if err := s.rdb.Set(ctx, cacheKey, data, s.ttl).Err(); err != nil {
		s.logger.Warn("Failed to update cache", "key", key, "error", err)
	}
	return nil
}
