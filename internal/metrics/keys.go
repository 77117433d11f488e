package metrics

import "fmt"

const (
	// KeyPrefixMetrics is the prefix for all metrics keys
	KeyPrefixMetrics = "ticker"
	// KeyPrefixRenders is the prefix for render counters
	KeyPrefixRenders = "renders"
	// KeyPrefixErrors is the prefix for render error counters
	KeyPrefixErrors = "render_errors"
	// KeyPrefixLastRender is the prefix for last render timestamps
	KeyPrefixLastRender = "last_render"
	// KeyPrefixLastElements is the prefix for last render element counts
	KeyPrefixLastElements = "last_elements"
	// KeyChannels is the Redis key for the set of seen channels
	KeyChannels = "ticker:channels"
	// MetricsTTLDays is the TTL in days for per-channel counters
	MetricsTTLDays = 30
	// HoursPerDay converts the day TTLs above into time.Duration hours
	HoursPerDay = 24
)

// RedisKeys provides methods to build Redis keys consistently
type RedisKeys struct {
	prefix string
}

// NewRedisKeys creates a new RedisKeys instance
func NewRedisKeys(prefix string) *RedisKeys {
	return &RedisKeys{prefix: prefix}
}

// Renders returns the Redis key for the render counter for a channel
func (k *RedisKeys) Renders(channel string) string {
	return fmt.Sprintf("%s:%s:%s", k.prefix, KeyPrefixRenders, channel)
}

// Errors returns the Redis key for the render error counter for a channel
func (k *RedisKeys) Errors(channel string) string {
	return fmt.Sprintf("%s:%s:%s", k.prefix, KeyPrefixErrors, channel)
}

// LastRender returns the Redis key for the last render timestamp for a channel
func (k *RedisKeys) LastRender(channel string) string {
	return fmt.Sprintf("%s:%s:%s", k.prefix, KeyPrefixLastRender, channel)
}

// LastElements returns the Redis key for the last render element count for a channel
func (k *RedisKeys) LastElements(channel string) string {
	return fmt.Sprintf("%s:%s:%s", k.prefix, KeyPrefixLastElements, channel)
}
