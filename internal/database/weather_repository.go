package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/jonesrussell/tickerd/internal/models"
)

// WeatherRepository provides read-only access to the weather tables
type WeatherRepository struct {
	db *sqlx.DB
}

// NewWeatherRepository creates a new weather repository instance
func NewWeatherRepository(db *sqlx.DB) *WeatherRepository {
	return &WeatherRepository{db: db}
}

// Location retrieves a weather location by ID
func (r *WeatherRepository) Location(ctx context.Context, id int64) (*models.WeatherLocation, error) {
	location := &models.WeatherLocation{}
	query := `
		SELECT id, name, country, admin1
		FROM weather_locations
		WHERE id = $1
	`

	err := r.db.GetContext(ctx, location, query, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, models.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get weather location: %w", err)
	}

	return location, nil
}

// LatestObservation retrieves the most recent current-conditions reading
// for a location.
func (r *WeatherRepository) LatestObservation(ctx context.Context, locationID int64) (*models.WeatherObservation, error) {
	obs := &models.WeatherObservation{}
	query := `
		SELECT id, location_id, temperature, unit, conditions, observed_at
		FROM weather_observations
		WHERE location_id = $1
		ORDER BY observed_at DESC
		LIMIT 1
	`

	err := r.db.GetContext(ctx, obs, query, locationID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, models.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get weather observation: %w", err)
	}

	return obs, nil
}

// DailyForecasts retrieves up to limit daily forecasts for a location with
// forecast dates on or after from, ordered by date.
func (r *WeatherRepository) DailyForecasts(ctx context.Context, locationID int64, from time.Time, limit int) ([]models.WeatherForecastDay, error) {
	forecasts := []models.WeatherForecastDay{}
	query := `
		SELECT location_id, forecast_date, high_c, low_c, high_f, low_f, conditions
		FROM weather_forecasts
		WHERE location_id = $1 AND forecast_date >= $2
		ORDER BY forecast_date ASC
		LIMIT $3
	`

	if err := r.db.SelectContext(ctx, &forecasts, query, locationID, from, limit); err != nil {
		return nil, fmt.Errorf("failed to list weather forecasts: %w", err)
	}

	return forecasts, nil
}
