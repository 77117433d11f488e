// Package dedup remembers which image assets have already been fetched into
// the local cache, so the prefetch worker does not re-download on every
// sweep.
package dedup

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/jonesrussell/tickerd/internal/logger"
)

// DefaultFetchedTTL is how long a fetched image URL stays deduplicated
// before the prefetch worker downloads it again.
const DefaultFetchedTTL = 24 * time.Hour

type Tracker struct {
	client *redis.Client
	ttl    time.Duration
	logger logger.Logger
}

func NewTracker(client *redis.Client, ttl time.Duration, log logger.Logger) *Tracker {
	return &Tracker{
		client: client,
		ttl:    ttl,
		logger: log,
	}
}

func (t *Tracker) key(url string) string {
	return fmt.Sprintf("fetched:image:%s", url)
}

// HasFetched reports whether the URL was fetched within the TTL window.
// Redis errors are treated as not fetched: re-downloading is cheaper than a
// missing asset on air.
func (t *Tracker) HasFetched(ctx context.Context, url string) bool {
	key := t.key(url)

	exists, err := t.client.Exists(ctx, key).Result()
	if err != nil {
		t.logger.Error("Redis error checking image",
			logger.String("url", url),
			logger.String("redis_key", key),
			logger.Error(err),
		)
		return false
	}

	return exists == 1
}

func (t *Tracker) MarkFetched(ctx context.Context, url string) error {
	key := t.key(url)

	err := t.client.Set(ctx, key, "1", t.ttl).Err()
	if err != nil {
		t.logger.Error("Redis error marking image as fetched",
			logger.String("url", url),
			logger.String("redis_key", key),
			logger.Duration("ttl", t.ttl),
			logger.Error(err),
		)
		return err
	}

	return nil
}

// Clear removes a URL from the fetched cache, forcing a re-download on the
// next sweep.
func (t *Tracker) Clear(ctx context.Context, url string) error {
	key := t.key(url)

	err := t.client.Del(ctx, key).Err()
	if err != nil {
		t.logger.Error("Redis error clearing image",
			logger.String("url", url),
			logger.String("redis_key", key),
			logger.Error(err),
		)
		return err
	}

	return nil
}
