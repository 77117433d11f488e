package ticker

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/jonesrussell/tickerd/internal/logger"
	"github.com/jonesrussell/tickerd/internal/models"
)

// maxWeatherSlots is the number of fixed location slots a cities component
// renders into.
const maxWeatherSlots = 3

// defaultForecastDays is the forecast horizon when the component config
// does not set one.
const defaultForecastDays = 5

// weatherCitiesConfig is the template-form configuration for the
// weatherCities / weatherLocations component types.
type weatherCitiesConfig struct {
	Format     string `json:"format,omitempty"`
	SlotPrefix string `json:"slotPrefix,omitempty"`
	Template   string `json:"template,omitempty"`
}

// weatherCitiesProcessor renders current conditions for up to three
// locations into fixed slot fields.
type weatherCitiesProcessor struct {
	weather WeatherStore
	log     logger.Logger
}

func (p *weatherCitiesProcessor) Augment(ctx context.Context, in AugmentInput) (Augmentation, error) {
	cfg := weatherCitiesConfig{
		Format:     "{{name}} {{temperature}}° {{conditions}}",
		SlotPrefix: "location",
	}
	in.Component.ComponentConfig(&cfg)

	ids := parseLocationIDs(in.Field.Value)
	if len(ids) > maxWeatherSlots {
		ids = ids[:maxWeatherSlots]
	}

	aug := Augmentation{Template: cfg.Template}
	for slot, id := range ids {
		location, err := p.weather.Location(ctx, id)
		if err != nil {
			p.log.Warn("failed to fetch weather location, omitting slot",
				logger.Int64("location_id", id),
				logger.Error(err),
			)
			continue
		}
		obs, err := p.weather.LatestObservation(ctx, id)
		if err != nil {
			p.log.Warn("failed to fetch weather observation, omitting slot",
				logger.Int64("location_id", id),
				logger.Error(err),
			)
			continue
		}

		temperature := obs.Temperature
		if strings.EqualFold(obs.Unit, "C") {
			temperature = celsiusToFahrenheit(temperature)
		}

		value := interpolate(cfg.Format, map[string]string{
			"name":        location.Name,
			"country":     location.Country,
			"admin1":      location.Admin1,
			"temperature": formatDegrees(temperature),
			"conditions":  obs.Conditions,
		})
		aug.Fields = append(aug.Fields, models.ElementField{
			Name:  fmt.Sprintf("%s%d", cfg.SlotPrefix, slot+1),
			Value: value,
		})
	}

	return aug, nil
}

// weatherForecastConfig is the template-form configuration for the
// weatherForecast component type.
type weatherForecastConfig struct {
	Days       int    `json:"days,omitempty"`
	DayPrefix  string `json:"dayPrefix,omitempty"`
	HighPrefix string `json:"highPrefix,omitempty"`
	LowPrefix  string `json:"lowPrefix,omitempty"`
	Template   string `json:"template,omitempty"`
}

// weatherForecastProcessor renders per-day forecast triplets for one
// location, starting from tomorrow. Today is excluded on purpose: the
// current day is covered by the current-conditions slots.
type weatherForecastProcessor struct {
	weather WeatherStore
	log     logger.Logger
}

func (p *weatherForecastProcessor) Augment(ctx context.Context, in AugmentInput) (Augmentation, error) {
	cfg := weatherForecastConfig{
		Days:       defaultForecastDays,
		DayPrefix:  "day",
		HighPrefix: "high",
		LowPrefix:  "low",
	}
	in.Component.ComponentConfig(&cfg)

	locationID, err := strconv.ParseInt(strings.TrimSpace(in.Field.Value), 10, 64)
	if err != nil {
		// Unparseable location reference renders nothing, not an error.
		return Augmentation{Template: cfg.Template}, nil
	}

	local := in.Now.In(in.Location)
	tomorrow := dateOnly(local.AddDate(0, 0, 1))

	forecasts, err := p.weather.DailyForecasts(ctx, locationID, tomorrow, cfg.Days)
	if err != nil {
		return Augmentation{}, fmt.Errorf("fetch daily forecasts: %w", err)
	}

	aug := Augmentation{Template: cfg.Template}
	for i, day := range forecasts {
		n := i + 1
		aug.Fields = append(aug.Fields,
			models.ElementField{
				Name:  fmt.Sprintf("%s%d", cfg.DayPrefix, n),
				Value: day.ForecastDate.Weekday().String()[:3],
			},
			models.ElementField{
				Name:  fmt.Sprintf("%s%d", cfg.HighPrefix, n),
				Value: formatForecastTemp(day.HighF, day.HighC),
			},
			models.ElementField{
				Name:  fmt.Sprintf("%s%d", cfg.LowPrefix, n),
				Value: formatForecastTemp(day.LowF, day.LowC),
			},
		)
	}

	return aug, nil
}

// parseLocationIDs decodes a field value holding a JSON array of location
// IDs, accepting both numbers and numeric strings. Malformed input yields
// no IDs.
func parseLocationIDs(value string) []int64 {
	var raw []json.Number
	if err := json.Unmarshal([]byte(value), &raw); err != nil {
		var strs []string
		if err := json.Unmarshal([]byte(value), &strs); err != nil {
			return nil
		}
		for _, s := range strs {
			raw = append(raw, json.Number(s))
		}
	}

	ids := make([]int64, 0, len(raw))
	for _, n := range raw {
		if id, err := n.Int64(); err == nil {
			ids = append(ids, id)
		}
	}
	return ids
}

// formatForecastTemp prefers the stored Fahrenheit column, converting from
// Celsius otherwise. With neither populated it renders empty.
func formatForecastTemp(f, c *float64) string {
	switch {
	case f != nil:
		return formatDegrees(*f)
	case c != nil:
		return formatDegrees(celsiusToFahrenheit(*c))
	default:
		return ""
	}
}

func celsiusToFahrenheit(c float64) float64 {
	return c*9/5 + 32
}

func formatDegrees(v float64) string {
	return strconv.Itoa(int(math.Round(v)))
}

// dateOnly strips the time of day, keeping the date in UTC for the
// forecast-date comparison.
func dateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// interpolate substitutes {{placeholder}} tokens in a user-defined format
// string.
func interpolate(format string, values map[string]string) string {
	out := format
	for key, val := range values {
		out = strings.ReplaceAll(out, "{{"+key+"}}", val)
	}
	return out
}
