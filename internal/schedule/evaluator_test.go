package schedule_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonesrussell/tickerd/internal/models"
	"github.com/jonesrussell/tickerd/internal/schedule"
)

// at builds a UTC instant for tests.
func at(year int, month time.Month, day, hour, minute int) time.Time {
	return time.Date(year, month, day, hour, minute, 0, 0, time.UTC)
}

func TestIsActive_NilScheduleAlwaysActive(t *testing.T) {
	assert.True(t, schedule.IsActive(time.Now(), time.UTC, nil))
}

func TestIsActiveRaw_MalformedScheduleFailsOpen(t *testing.T) {
	assert.True(t, schedule.IsActiveRaw(time.Now(), time.UTC, []byte("not json{")))
}

func TestIsActive_DateRange(t *testing.T) {
	tests := []struct {
		name   string
		sched  *models.Schedule
		now    time.Time
		active bool
	}{
		{
			name:   "inside range",
			sched:  &models.Schedule{StartDate: "2026-01-01", EndDate: "2026-01-31"},
			now:    at(2026, time.January, 15, 12, 0),
			active: true,
		},
		{
			name:   "before start",
			sched:  &models.Schedule{StartDate: "2026-01-10"},
			now:    at(2026, time.January, 9, 23, 59),
			active: false,
		},
		{
			name:   "on start date",
			sched:  &models.Schedule{StartDate: "2026-01-10"},
			now:    at(2026, time.January, 10, 0, 0),
			active: true,
		},
		{
			name:   "after end",
			sched:  &models.Schedule{EndDate: "2026-01-10"},
			now:    at(2026, time.January, 11, 0, 0),
			active: false,
		},
		{
			name:   "on end date",
			sched:  &models.Schedule{EndDate: "2026-01-10"},
			now:    at(2026, time.January, 10, 23, 0),
			active: true,
		},
		{
			name:   "unparseable start passes",
			sched:  &models.Schedule{StartDate: "whenever"},
			now:    at(2026, time.January, 1, 0, 0),
			active: true,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.active, schedule.IsActive(tc.now, time.UTC, tc.sched))
		})
	}
}

func TestIsActive_DaysOfWeek(t *testing.T) {
	// 2026-01-05 is a Monday.
	monday := at(2026, time.January, 5, 12, 0)
	tuesday := at(2026, time.January, 6, 12, 0)

	sched := &models.Schedule{DaysOfWeek: map[string]bool{"monday": true}}
	assert.True(t, schedule.IsActive(monday, time.UTC, sched))
	assert.False(t, schedule.IsActive(tuesday, time.UTC, sched))
}

func TestIsActive_NoDaysSelectedMeansAllDays(t *testing.T) {
	sched := &models.Schedule{DaysOfWeek: map[string]bool{
		"monday": false, "tuesday": false, "wednesday": false,
		"thursday": false, "friday": false, "saturday": false, "sunday": false,
	}}

	for day := 5; day <= 11; day++ {
		assert.True(t, schedule.IsActive(at(2026, time.January, day, 12, 0), time.UTC, sched))
	}
}

func TestIsActive_TimeRanges(t *testing.T) {
	tests := []struct {
		name   string
		ranges []models.TimeRange
		now    time.Time
		active bool
	}{
		{
			name:   "inside simple range",
			ranges: []models.TimeRange{{Start: "09:00", End: "17:00"}},
			now:    at(2026, time.January, 5, 12, 30),
			active: true,
		},
		{
			name:   "outside simple range",
			ranges: []models.TimeRange{{Start: "09:00", End: "17:00"}},
			now:    at(2026, time.January, 5, 18, 0),
			active: false,
		},
		{
			name:   "midnight span late evening",
			ranges: []models.TimeRange{{Start: "22:00", End: "06:00"}},
			now:    at(2026, time.January, 5, 23, 30),
			active: true,
		},
		{
			name:   "midnight span early morning",
			ranges: []models.TimeRange{{Start: "22:00", End: "06:00"}},
			now:    at(2026, time.January, 5, 1, 15),
			active: true,
		},
		{
			name:   "midnight span midday inactive",
			ranges: []models.TimeRange{{Start: "22:00", End: "06:00"}},
			now:    at(2026, time.January, 5, 12, 0),
			active: false,
		},
		{
			name:   "invalid ranges fail open",
			ranges: []models.TimeRange{{Start: "soon", End: "later"}},
			now:    at(2026, time.January, 5, 12, 0),
			active: true,
		},
		{
			name: "second range matches",
			ranges: []models.TimeRange{
				{Start: "06:00", End: "09:00"},
				{Start: "16:00", End: "19:00"},
			},
			now:    at(2026, time.January, 5, 17, 0),
			active: true,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			sched := &models.Schedule{TimeRanges: tc.ranges}
			assert.Equal(t, tc.active, schedule.IsActive(tc.now, time.UTC, sched))
		})
	}
}

func TestIsActive_TimezoneConversion(t *testing.T) {
	loc, err := time.LoadLocation("America/New_York")
	require.NoError(t, err)

	// 14:00 UTC is 09:00 in New York (EST, January).
	now := at(2026, time.January, 5, 14, 0)
	sched := &models.Schedule{TimeRanges: []models.TimeRange{{Start: "08:00", End: "10:00"}}}

	assert.True(t, schedule.IsActive(now, loc, sched))
	assert.False(t, schedule.IsActive(now, time.UTC, sched))
}

func TestIsActive_Deterministic(t *testing.T) {
	now := at(2026, time.January, 5, 12, 0)
	sched := &models.Schedule{
		StartDate:  "2026-01-01",
		DaysOfWeek: map[string]bool{"monday": true},
		TimeRanges: []models.TimeRange{{Start: "09:00", End: "17:00"}},
	}

	first := schedule.IsActive(now, time.UTC, sched)
	for range 10 {
		assert.Equal(t, first, schedule.IsActive(now, time.UTC, sched))
	}
}
