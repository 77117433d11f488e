package database

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/jonesrussell/tickerd/internal/models"
)

// ElectionRepository provides read-only access to election results
type ElectionRepository struct {
	db *sqlx.DB
}

// NewElectionRepository creates a new election repository instance
func NewElectionRepository(db *sqlx.DB) *ElectionRepository {
	return &ElectionRepository{db: db}
}

// Races retrieves the races for an election, with candidate results
// attached. A nil regionID matches races without a region restriction only;
// a non-nil regionID also includes that region's races.
func (r *ElectionRepository) Races(ctx context.Context, electionID int64, regionID *int64) ([]models.ElectionRace, error) {
	races := []models.ElectionRace{}
	query := `
		SELECT id, election_id, region_id, display_name, priority_level, percent_in
		FROM election_races
		WHERE election_id = $1 AND (region_id IS NULL OR region_id = $2)
	`

	if err := r.db.SelectContext(ctx, &races, query, electionID, regionID); err != nil {
		return nil, fmt.Errorf("failed to list races: %w", err)
	}
	if len(races) == 0 {
		return races, nil
	}

	raceIDs := make([]int64, 0, len(races))
	for _, race := range races {
		raceIDs = append(raceIDs, race.ID)
	}

	candidates := []models.CandidateResult{}
	candidateQuery := `
		SELECT id, race_id, first_name, last_name, party, votes, incumbent, withdrawn, winner
		FROM election_candidates
		WHERE race_id = ANY($1)
	`
	if err := r.db.SelectContext(ctx, &candidates, candidateQuery, pq.Array(raceIDs)); err != nil {
		return nil, fmt.Errorf("failed to list candidates: %w", err)
	}

	byRace := make(map[int64][]models.CandidateResult, len(races))
	for _, c := range candidates {
		byRace[c.RaceID] = append(byRace[c.RaceID], c)
	}
	for i := range races {
		races[i].Candidates = byRace[races[i].ID]
	}

	return races, nil
}

// BallotMeasures retrieves the ballot measures for an election in source
// order. The consuming hardware depends on measures staying unsorted.
func (r *ElectionRepository) BallotMeasures(ctx context.Context, electionID int64, regionID *int64) ([]models.BallotMeasure, error) {
	measures := []models.BallotMeasure{}
	query := `
		SELECT id, election_id, region_id, title, yes_votes, no_votes
		FROM ballot_measures
		WHERE election_id = $1 AND (region_id IS NULL OR region_id = $2)
		ORDER BY id ASC
	`

	if err := r.db.SelectContext(ctx, &measures, query, electionID, regionID); err != nil {
		return nil, fmt.Errorf("failed to list ballot measures: %w", err)
	}

	return measures, nil
}
