package metrics

import (
	"context"
)

// RenderTracker records feed render activity per channel.
// The interface allows for easy testing and potential future implementations.
type RenderTracker interface {
	// RecordRender records a successful render of a channel's feed along
	// with how many elements it produced.
	RecordRender(ctx context.Context, channel string, elements int) error
	// RecordError increments the render error counter for a channel.
	RecordError(ctx context.Context, channel string) error
	// Stats returns aggregated render statistics across all seen channels.
	Stats(ctx context.Context) (*Stats, error)
}
