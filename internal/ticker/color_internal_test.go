package ticker

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/jonesrussell/tickerd/internal/models"
)

func TestBucketColor_StableAcrossRenders(t *testing.T) {
	bucket := &models.ContentNode{ID: uuid.MustParse("0b49d9d9-7a2e-4a54-9c30-000000000001"), Name: "sports"}

	first := bucketColor(bucket)
	for range 5 {
		assert.Equal(t, first, bucketColor(bucket))
	}
	assert.Contains(t, guiPalette, first)
}

func TestBucketColor_FallsBackToName(t *testing.T) {
	a := &models.ContentNode{Name: "weather"}
	b := &models.ContentNode{Name: "weather"}

	assert.Equal(t, bucketColor(a), bucketColor(b))
}
