package models

// Schedule is the optional visibility window stored on a content node.
// Every part is optional; an empty schedule means always active.
type Schedule struct {
	StartDate  string          `json:"startDate,omitempty"` // YYYY-MM-DD
	EndDate    string          `json:"endDate,omitempty"`   // YYYY-MM-DD
	DaysOfWeek map[string]bool `json:"daysOfWeek,omitempty"`
	TimeRanges []TimeRange     `json:"timeRanges,omitempty"`
}

// TimeRange is a daily HH:MM window. A range whose start is later than its
// end spans midnight (22:00-06:00).
type TimeRange struct {
	Start string `json:"start"`
	End   string `json:"end"`
}
