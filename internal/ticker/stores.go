package ticker

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/jonesrussell/tickerd/internal/models"
)

// ContentStore is the read-only view of the content tree the engine
// traverses. Implemented by database.ContentRepository.
type ContentStore interface {
	NodeByNameAndType(ctx context.Context, name string, nodeType models.NodeType) (*models.ContentNode, error)
	NodeByID(ctx context.Context, id uuid.UUID) (*models.ContentNode, error)
	Children(ctx context.Context, parentID uuid.UUID, nodeType models.NodeType, activeOnly bool) ([]models.ContentNode, error)
	Fields(ctx context.Context, itemID uuid.UUID) ([]models.ItemField, error)
	Template(ctx context.Context, id uuid.UUID) (*models.Template, error)
}

// WeatherStore provides the live weather readings consumed by the weather
// processors. Implemented by database.WeatherRepository.
type WeatherStore interface {
	Location(ctx context.Context, id int64) (*models.WeatherLocation, error)
	LatestObservation(ctx context.Context, locationID int64) (*models.WeatherObservation, error)
	DailyForecasts(ctx context.Context, locationID int64, from time.Time, limit int) ([]models.WeatherForecastDay, error)
}

// ElectionStore provides election results. Implemented by
// database.ElectionRepository.
type ElectionStore interface {
	Races(ctx context.Context, electionID int64, regionID *int64) ([]models.ElectionRace, error)
	BallotMeasures(ctx context.Context, electionID int64, regionID *int64) ([]models.BallotMeasure, error)
}

// ClosingsStore provides school closing records. Implemented by
// database.ClosingsRepository.
type ClosingsStore interface {
	Closings(ctx context.Context, regionID, zoneID *int64) ([]models.SchoolClosing, error)
}
