package ticker

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonesrussell/tickerd/internal/logger"
	"github.com/jonesrussell/tickerd/internal/models"
)

type fakeWeather struct {
	locations    map[int64]*models.WeatherLocation
	observations map[int64]*models.WeatherObservation
	forecasts    []models.WeatherForecastDay
	forecastFrom time.Time
}

func (f *fakeWeather) Location(_ context.Context, id int64) (*models.WeatherLocation, error) {
	if loc, ok := f.locations[id]; ok {
		return loc, nil
	}
	return nil, models.ErrNotFound
}

func (f *fakeWeather) LatestObservation(_ context.Context, id int64) (*models.WeatherObservation, error) {
	if obs, ok := f.observations[id]; ok {
		return obs, nil
	}
	return nil, models.ErrNotFound
}

func (f *fakeWeather) DailyForecasts(_ context.Context, _ int64, from time.Time, limit int) ([]models.WeatherForecastDay, error) {
	f.forecastFrom = from
	if len(f.forecasts) > limit {
		return f.forecasts[:limit], nil
	}
	return f.forecasts, nil
}

func weatherComponent(config string) *models.FormComponent {
	c := &models.FormComponent{Name: "weather", Type: models.ComponentWeatherCities}
	if config != "" {
		c.Config = []byte(config)
	}
	return c
}

func TestWeatherCities_CelsiusConversionAndFormat(t *testing.T) {
	store := &fakeWeather{
		locations: map[int64]*models.WeatherLocation{
			10: {ID: 10, Name: "Sudbury", Country: "Canada", Admin1: "Ontario"},
		},
		observations: map[int64]*models.WeatherObservation{
			10: {LocationID: 10, Temperature: 20, Unit: "C", Conditions: "Cloudy"},
		},
	}
	proc := &weatherCitiesProcessor{weather: store, log: logger.NewNop()}

	aug, err := proc.Augment(context.Background(), AugmentInput{
		Field:     models.ItemField{Name: "weather", Value: "[10]"},
		Component: weatherComponent(`{"format":"{{name}}, {{admin1}}: {{temperature}}F {{conditions}}"}`),
	})

	require.NoError(t, err)
	require.Len(t, aug.Fields, 1)
	assert.Equal(t, "location1", aug.Fields[0].Name)
	assert.Equal(t, "Sudbury, Ontario: 68F Cloudy", aug.Fields[0].Value)
}

func TestWeatherCities_CapsAtThreeSlots(t *testing.T) {
	store := &fakeWeather{
		locations:    map[int64]*models.WeatherLocation{},
		observations: map[int64]*models.WeatherObservation{},
	}
	for id := int64(1); id <= 5; id++ {
		store.locations[id] = &models.WeatherLocation{ID: id, Name: "Town"}
		store.observations[id] = &models.WeatherObservation{LocationID: id, Temperature: 70, Unit: "F"}
	}
	proc := &weatherCitiesProcessor{weather: store, log: logger.NewNop()}

	aug, err := proc.Augment(context.Background(), AugmentInput{
		Field:     models.ItemField{Name: "weather", Value: "[1,2,3,4,5]"},
		Component: weatherComponent(""),
	})

	require.NoError(t, err)
	require.Len(t, aug.Fields, 3)
	assert.Equal(t, "location1", aug.Fields[0].Name)
	assert.Equal(t, "location3", aug.Fields[2].Name)
}

func TestWeatherCities_MissingLocationOmitsSlot(t *testing.T) {
	store := &fakeWeather{
		locations: map[int64]*models.WeatherLocation{
			2: {ID: 2, Name: "Here"},
		},
		observations: map[int64]*models.WeatherObservation{
			2: {LocationID: 2, Temperature: 50, Unit: "F", Conditions: "Clear"},
		},
	}
	proc := &weatherCitiesProcessor{weather: store, log: logger.NewNop()}

	aug, err := proc.Augment(context.Background(), AugmentInput{
		Field:     models.ItemField{Name: "weather", Value: "[1,2]"},
		Component: weatherComponent(""),
	})

	// Slot numbering is positional: the missing first location leaves
	// slot 1 empty rather than shifting slot 2 down.
	require.NoError(t, err)
	require.Len(t, aug.Fields, 1)
	assert.Equal(t, "location2", aug.Fields[0].Name)
}

func TestWeatherCities_TemplateOverride(t *testing.T) {
	proc := &weatherCitiesProcessor{weather: &fakeWeather{}, log: logger.NewNop()}

	aug, err := proc.Augment(context.Background(), AugmentInput{
		Field:     models.ItemField{Name: "weather", Value: "[]"},
		Component: weatherComponent(`{"template":"weather_bar"}`),
	})

	require.NoError(t, err)
	assert.Equal(t, "weather_bar", aug.Template)
}

func TestWeatherForecast_StartsTomorrow(t *testing.T) {
	now := time.Date(2026, time.March, 10, 23, 30, 0, 0, time.UTC)
	high := 57.0
	low := 39.0
	store := &fakeWeather{forecasts: []models.WeatherForecastDay{
		{ForecastDate: time.Date(2026, time.March, 11, 0, 0, 0, 0, time.UTC), HighF: &high, LowF: &low},
	}}
	proc := &weatherForecastProcessor{weather: store, log: logger.NewNop()}

	aug, err := proc.Augment(context.Background(), AugmentInput{
		ProcessorContext: ProcessorContext{Now: now, Location: time.UTC},
		Field:            models.ItemField{Name: "forecast", Value: "10"},
		Component:        &models.FormComponent{Name: "forecast", Type: models.ComponentWeatherForecast},
	})

	require.NoError(t, err)
	assert.Equal(t, time.Date(2026, time.March, 11, 0, 0, 0, 0, time.UTC), store.forecastFrom)

	// 2026-03-11 is a Wednesday.
	require.Len(t, aug.Fields, 3)
	assert.Equal(t, "day1", aug.Fields[0].Name)
	assert.Equal(t, "Wed", aug.Fields[0].Value)
	assert.Equal(t, "57", aug.Fields[1].Value)
	assert.Equal(t, "39", aug.Fields[2].Value)
}

func TestWeatherForecast_CelsiusFallback(t *testing.T) {
	now := time.Date(2026, time.March, 10, 12, 0, 0, 0, time.UTC)
	highC := 20.0
	store := &fakeWeather{forecasts: []models.WeatherForecastDay{
		{ForecastDate: time.Date(2026, time.March, 11, 0, 0, 0, 0, time.UTC), HighC: &highC},
	}}
	proc := &weatherForecastProcessor{weather: store, log: logger.NewNop()}

	aug, err := proc.Augment(context.Background(), AugmentInput{
		ProcessorContext: ProcessorContext{Now: now, Location: time.UTC},
		Field:            models.ItemField{Name: "forecast", Value: "10"},
		Component:        &models.FormComponent{Name: "forecast", Type: models.ComponentWeatherForecast},
	})

	require.NoError(t, err)
	assert.Equal(t, "68", aug.Fields[1].Value)
	// No Celsius or Fahrenheit low stored: renders empty.
	assert.Equal(t, "", aug.Fields[2].Value)
}

func TestWeatherForecast_UnparseableLocationRendersNothing(t *testing.T) {
	proc := &weatherForecastProcessor{weather: &fakeWeather{}, log: logger.NewNop()}

	aug, err := proc.Augment(context.Background(), AugmentInput{
		ProcessorContext: ProcessorContext{Now: time.Now(), Location: time.UTC},
		Field:            models.ItemField{Name: "forecast", Value: "not a number"},
		Component:        &models.FormComponent{Name: "forecast", Type: models.ComponentWeatherForecast},
	})

	require.NoError(t, err)
	assert.Empty(t, aug.Fields)
}

func TestParseLocationIDs(t *testing.T) {
	tests := []struct {
		name  string
		value string
		want  []int64
	}{
		{name: "numbers", value: "[1,2,3]", want: []int64{1, 2, 3}},
		{name: "numeric strings", value: `["4","5"]`, want: []int64{4, 5}},
		{name: "malformed", value: "oops", want: nil},
		{name: "empty array", value: "[]", want: []int64{}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := parseLocationIDs(tc.value)
			assert.Equal(t, len(tc.want), len(got))
			for i := range tc.want {
				assert.Equal(t, tc.want[i], got[i])
			}
		})
	}
}
