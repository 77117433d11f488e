// Package schedule evaluates the optional visibility windows stored on
// content nodes. Evaluation is fail-open throughout: a schedule that is
// absent, malformed, or only partially parseable never hides content.
package schedule

import (
	"encoding/json"
	"strconv"
	"strings"
	"time"

	"github.com/jonesrussell/tickerd/internal/models"
)

const dateLayout = "2006-01-02"

// minutesPerHour is used for minutes-since-midnight comparisons.
const minutesPerHour = 60

// Parse decodes a raw schedule value. Empty or malformed input yields nil,
// which IsActive treats as always active.
func Parse(raw []byte) *models.Schedule {
	if len(raw) == 0 {
		return nil
	}
	var s models.Schedule
	if err := json.Unmarshal(raw, &s); err != nil {
		return nil
	}
	return &s
}

// IsActive reports whether the schedule admits the given instant, evaluated
// in the given time zone. A nil schedule is always active. Three gates must
// all pass: date range, day of week, and time of day.
func IsActive(now time.Time, loc *time.Location, s *models.Schedule) bool {
	if s == nil {
		return true
	}
	if loc == nil {
		loc = time.UTC
	}
	local := now.In(loc)

	return dateGate(local, s) && dayGate(local, s) && timeGate(local, s)
}

// IsActiveRaw parses and evaluates a stored schedule value in one step.
func IsActiveRaw(now time.Time, loc *time.Location, raw []byte) bool {
	return IsActive(now, loc, Parse(raw))
}

// dateGate checks the start/end date bounds. Unparseable bounds pass.
func dateGate(local time.Time, s *models.Schedule) bool {
	localDay := time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, time.UTC)

	if s.StartDate != "" {
		if start, err := time.Parse(dateLayout, s.StartDate); err == nil && localDay.Before(start) {
			return false
		}
	}
	if s.EndDate != "" {
		if end, err := time.Parse(dateLayout, s.EndDate); err == nil && localDay.After(end) {
			return false
		}
	}
	return true
}

// dayGate checks the weekday flags. No day selected means all days active;
// this is deliberate policy, not an omission.
func dayGate(local time.Time, s *models.Schedule) bool {
	anySelected := false
	for _, on := range s.DaysOfWeek {
		if on {
			anySelected = true
			break
		}
	}
	if !anySelected {
		return true
	}
	day := strings.ToLower(local.Weekday().String())
	return s.DaysOfWeek[day]
}

// timeGate checks the daily time ranges. Ranges that fail to parse are
// ignored; if no valid range remains, the gate passes.
func timeGate(local time.Time, s *models.Schedule) bool {
	current := local.Hour()*minutesPerHour + local.Minute()

	anyValid := false
	for _, r := range s.TimeRanges {
		start, okStart := parseClock(r.Start)
		end, okEnd := parseClock(r.End)
		if !okStart || !okEnd {
			continue
		}
		anyValid = true
		if start > end {
			// Range spans midnight, e.g. 22:00-06:00.
			if current >= start || current <= end {
				return true
			}
			continue
		}
		if current >= start && current <= end {
			return true
		}
	}
	return !anyValid
}

// parseClock converts an HH:MM string to minutes since midnight.
func parseClock(v string) (int, bool) {
	parts := strings.SplitN(strings.TrimSpace(v), ":", 2)
	if len(parts) != 2 {
		return 0, false
	}
	hour, err := strconv.Atoi(parts[0])
	if err != nil {
		return 0, false
	}
	minute, err := strconv.Atoi(parts[1])
	if err != nil {
		return 0, false
	}
	if hour < 0 || hour > 23 || minute < 0 || minute > 59 {
		return 0, false
	}
	return hour*minutesPerHour + minute, true
}
