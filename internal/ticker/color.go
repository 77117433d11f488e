package ticker

import (
	"hash/fnv"

	"github.com/google/uuid"

	"github.com/jonesrussell/tickerd/internal/models"
)

// guiPalette is the fixed set of colors buckets are assigned in the
// dashboard UI of the consuming hardware. The assignment must be stable
// across renders, so it is derived from a hash, never randomized.
var guiPalette = []string{
	"#e6194b", "#3cb44b", "#ffe119", "#4363d8", "#f58231",
	"#911eb4", "#46f0f0", "#f032e6", "#bcf60c", "#fabebe",
	"#008080", "#e6beff", "#9a6324", "#fffac8", "#800000",
	"#aaffc3", "#808000", "#ffd8b1", "#000075", "#808080",
}

// bucketColor returns the deterministic palette color for a bucket, keyed
// on its ID with the name as fallback.
func bucketColor(bucket *models.ContentNode) string {
	key := bucket.ID.String()
	if bucket.ID == uuid.Nil {
		key = bucket.Name
	}

	h := fnv.New32a()
	_, _ = h.Write([]byte(key))
	return guiPalette[h.Sum32()%uint32(len(guiPalette))]
}
