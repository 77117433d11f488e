package database

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/jonesrussell/tickerd/internal/models"
)

// ClosingsRepository provides read-only access to school closing records
type ClosingsRepository struct {
	db *sqlx.DB
}

// NewClosingsRepository creates a new closings repository instance
func NewClosingsRepository(db *sqlx.DB) *ClosingsRepository {
	return &ClosingsRepository{db: db}
}

// Closings retrieves closings filtered by region and zone. A nil filter
// matches everything at that level.
func (r *ClosingsRepository) Closings(ctx context.Context, regionID, zoneID *int64) ([]models.SchoolClosing, error) {
	closings := []models.SchoolClosing{}
	query := `
		SELECT id, region_id, zone_id, organization, region, zone,
			status, status_day, city, county, state
		FROM school_closings
		WHERE ($1::bigint IS NULL OR region_id = $1)
		  AND ($2::bigint IS NULL OR zone_id = $2)
		ORDER BY organization ASC
	`

	if err := r.db.SelectContext(ctx, &closings, query, regionID, zoneID); err != nil {
		return nil, fmt.Errorf("failed to list school closings: %w", err)
	}

	return closings, nil
}
