package models

// PresidentialPriority is the race priority level reserved for the
// presidential race; it always sorts first and uses a dedicated template.
const PresidentialPriority = 10

// Party abbreviations with fixed display positions in presidential races.
const (
	PartyDemocrat   = "DEM"
	PartyRepublican = "GOP"
)

// ElectionRace is one race with its candidate results.
type ElectionRace struct {
	ID            int64             `db:"id"             json:"id"`
	ElectionID    int64             `db:"election_id"    json:"election_id"`
	RegionID      *int64            `db:"region_id"      json:"region_id,omitempty"`
	DisplayName   string            `db:"display_name"   json:"display_name"`
	PriorityLevel int               `db:"priority_level" json:"priority_level"`
	PercentIn     float64           `db:"percent_in"     json:"percent_in"`
	Candidates    []CandidateResult `db:"-"              json:"candidates"`
}

// Presidential reports whether the race uses the presidential layout.
func (r *ElectionRace) Presidential() bool {
	return r.PriorityLevel == PresidentialPriority
}

// CandidateResult is one candidate's result within a race.
type CandidateResult struct {
	ID        int64  `db:"id"         json:"id"`
	RaceID    int64  `db:"race_id"    json:"race_id"`
	FirstName string `db:"first_name" json:"first_name"`
	LastName  string `db:"last_name"  json:"last_name"`
	Party     string `db:"party"      json:"party"` // abbreviation, e.g. DEM
	Votes     int64  `db:"votes"      json:"votes"`
	Incumbent bool   `db:"incumbent"  json:"incumbent"`
	Withdrawn bool   `db:"withdrawn"  json:"withdrawn"`
	Winner    bool   `db:"winner"     json:"winner"`
}

// BallotMeasure is one yes/no ballot question with its vote counts.
type BallotMeasure struct {
	ID         int64  `db:"id"          json:"id"`
	ElectionID int64  `db:"election_id" json:"election_id"`
	RegionID   *int64 `db:"region_id"   json:"region_id,omitempty"`
	Title      string `db:"title"       json:"title"`
	YesVotes   int64  `db:"yes_votes"   json:"yes_votes"`
	NoVotes    int64  `db:"no_votes"    json:"no_votes"`
}
