package metrics

import "time"

// Stats represents aggregated render statistics
type Stats struct {
	TotalRenders int64          `json:"total_renders"`
	TotalErrors  int64          `json:"total_errors"`
	Channels     []ChannelStats `json:"channels"`
}

// ChannelStats represents render statistics for a specific channel
type ChannelStats struct {
	Name         string    `json:"name"`
	Renders      int64     `json:"renders"`
	Errors       int64     `json:"errors"`
	LastRender   time.Time `json:"last_render"`
	LastElements int64     `json:"last_elements"`
}
