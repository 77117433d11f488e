package models

// SchoolClosing is one organization's closing or delay announcement.
type SchoolClosing struct {
	ID           int64  `db:"id"           json:"id"`
	RegionID     *int64 `db:"region_id"    json:"region_id,omitempty"`
	ZoneID       *int64 `db:"zone_id"      json:"zone_id,omitempty"`
	Organization string `db:"organization" json:"organization"`
	Region       string `db:"region"       json:"region"`
	Zone         string `db:"zone"         json:"zone"`
	Status       string `db:"status"       json:"status"`     // e.g. Closed, Delayed
	StatusDay    string `db:"status_day"   json:"status_day"` // e.g. Monday
	City         string `db:"city"         json:"city"`
	County       string `db:"county"       json:"county"`
	State        string `db:"state"        json:"state"`
}
