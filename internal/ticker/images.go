package ticker

import (
	"time"

	"github.com/jonesrussell/tickerd/internal/models"
)

// imageCollector is the visitor behind CollectImages: it accumulates a
// deduplicated, traversal-ordered list of image URLs referenced by item
// fields, used to pre-cache assets on the consuming hardware.
type imageCollector struct {
	seen map[string]struct{}
	urls []string
}

func newImageCollector() *imageCollector {
	return &imageCollector{seen: make(map[string]struct{})}
}

func (c *imageCollector) begin(*models.ContentNode, time.Time, *time.Location) error {
	return nil
}

func (c *imageCollector) enterPlaylist(*models.ContentNode) error { return nil }

func (c *imageCollector) enterBucket(_, _ *models.ContentNode) error { return nil }

func (c *imageCollector) visitItem(_ *models.ContentNode, fields []models.ItemField) error {
	for _, field := range fields {
		if field.IsMetadata() || !IsImageURL(field.Value) {
			continue
		}
		if _, dup := c.seen[field.Value]; dup {
			continue
		}
		c.seen[field.Value] = struct{}{}
		c.urls = append(c.urls, field.Value)
	}
	return nil
}

func (c *imageCollector) leaveBucket(_, _ *models.ContentNode) error { return nil }

func (c *imageCollector) leavePlaylist(*models.ContentNode) error { return nil }
