package metrics

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/jonesrussell/tickerd/internal/logger"
)

// Tracker implements RenderTracker using Redis
type Tracker struct {
	client redis.UniversalClient
	keys   *RedisKeys
	logger logger.Logger
}

// NewTracker creates a new render tracker
func NewTracker(client redis.UniversalClient, log logger.Logger) *Tracker {
	return &Tracker{
		client: client,
		keys:   NewRedisKeys(KeyPrefixMetrics),
		logger: log,
	}
}

// RecordRender records a successful render of a channel's feed
func (t *Tracker) RecordRender(ctx context.Context, channel string, elements int) error {
	key := t.keys.Renders(channel)
	ttl := MetricsTTLDays * HoursPerDay * time.Hour

	// Use pipeline for atomic operation with TTL
	pipe := t.client.Pipeline()
	pipe.SAdd(ctx, KeyChannels, channel)
	pipe.Incr(ctx, key)
	pipe.Expire(ctx, key, ttl)
	pipe.Set(ctx, t.keys.LastRender(channel), time.Now().UTC().Format(time.RFC3339), ttl)
	pipe.Set(ctx, t.keys.LastElements(channel), elements, ttl)

	_, err := pipe.Exec(ctx)
	if err != nil {
		t.logger.Warn("Failed to record render",
			logger.String("channel", channel),
			logger.String("redis_key", key),
			logger.Error(err),
		)
		return fmt.Errorf("record render: %w", err)
	}

	return nil
}

// RecordError increments the render error counter for a channel
func (t *Tracker) RecordError(ctx context.Context, channel string) error {
	key := t.keys.Errors(channel)
	ttl := MetricsTTLDays * HoursPerDay * time.Hour

	pipe := t.client.Pipeline()
	pipe.SAdd(ctx, KeyChannels, channel)
	pipe.Incr(ctx, key)
	pipe.Expire(ctx, key, ttl)

	_, err := pipe.Exec(ctx)
	if err != nil {
		t.logger.Warn("Failed to record render error",
			logger.String("channel", channel),
			logger.String("redis_key", key),
			logger.Error(err),
		)
		return fmt.Errorf("record render error: %w", err)
	}

	return nil
}

// Stats returns aggregated render statistics using a Redis pipeline for
// atomic reads
func (t *Tracker) Stats(ctx context.Context) (*Stats, error) {
	channels, err := t.client.SMembers(ctx, KeyChannels).Result()
	if err != nil && !errors.Is(err, redis.Nil) {
		return nil, fmt.Errorf("list channels: %w", err)
	}
	sort.Strings(channels)

	pipe := t.client.Pipeline()

	renderCmds := make(map[string]*redis.StringCmd)
	errorCmds := make(map[string]*redis.StringCmd)
	lastRenderCmds := make(map[string]*redis.StringCmd)
	lastElementCmds := make(map[string]*redis.StringCmd)

	for _, channel := range channels {
		renderCmds[channel] = pipe.Get(ctx, t.keys.Renders(channel))
		errorCmds[channel] = pipe.Get(ctx, t.keys.Errors(channel))
		lastRenderCmds[channel] = pipe.Get(ctx, t.keys.LastRender(channel))
		lastElementCmds[channel] = pipe.Get(ctx, t.keys.LastElements(channel))
	}

	_, execErr := pipe.Exec(ctx)
	if execErr != nil && !errors.Is(execErr, redis.Nil) {
		return nil, fmt.Errorf("execute pipeline: %w", execErr)
	}

	stats := &Stats{
		Channels: make([]ChannelStats, 0, len(channels)),
	}

	for _, channel := range channels {
		channelStats := ChannelStats{Name: channel}

		// Counters default to 0 when the key has expired
		if renders, rErr := renderCmds[channel].Int64(); rErr == nil {
			channelStats.Renders = renders
			stats.TotalRenders += renders
		}
		if errCount, eErr := errorCmds[channel].Int64(); eErr == nil {
			channelStats.Errors = errCount
			stats.TotalErrors += errCount
		}
		if lastStr, lErr := lastRenderCmds[channel].Result(); lErr == nil && lastStr != "" {
			if last, parseErr := time.Parse(time.RFC3339, lastStr); parseErr == nil {
				channelStats.LastRender = last
			}
		}
		if elemStr, elErr := lastElementCmds[channel].Result(); elErr == nil {
			if elements, parseErr := strconv.ParseInt(elemStr, 10, 64); parseErr == nil {
				channelStats.LastElements = elements
			}
		}

		stats.Channels = append(stats.Channels, channelStats)
	}

	return stats, nil
}
