package ticker

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/jonesrussell/tickerd/internal/logger"
	"github.com/jonesrussell/tickerd/internal/models"
)

// maxRaceCandidates caps the candidates rendered for a non-presidential
// race.
const maxRaceCandidates = 9

// presidentialCandidates is the fixed candidate count of the presidential
// layout: Democrat and Republican.
const presidentialCandidates = 2

// numCandidatesToken is the placeholder substituted into the race template
// name with the displayed candidate count.
const numCandidatesToken = "{numCandidates}"

// electionConfig is the JSON payload of a field bound to the election
// component.
type electionConfig struct {
	ElectionID           int64    `json:"electionId"`
	RegionID             *int64   `json:"regionId,omitempty"`
	ShowParty            bool     `json:"showParty"`
	ShowIncumbentStar    bool     `json:"showIncumbentStar"`
	ShowZeroVotes        bool     `json:"showZeroVotes"`
	ShowEstimatedIn      bool     `json:"showEstimatedIn"`
	HeaderItems          []string `json:"headerItems,omitempty"`
	FooterItems          []string `json:"footerItems,omitempty"`
	PresidentialTemplate string   `json:"presidentialTemplate,omitempty"`
	RaceTemplate         string   `json:"raceTemplate,omitempty"`
	ProposalTemplate     string   `json:"proposalTemplate,omitempty"`
	PartyMaterialPrefix  string   `json:"partyMaterialPrefix,omitempty"`
}

// electionProcessor is the item-replacing processor that explodes one
// election item into header, race, ballot-measure, and footer elements.
type electionProcessor struct {
	elections ElectionStore
	log       logger.Logger
}

func (p *electionProcessor) Expand(ctx context.Context, in ReplaceInput) ([]models.Element, error) {
	var cfg electionConfig
	if err := json.Unmarshal([]byte(in.Field.Value), &cfg); err != nil {
		// Malformed config renders nothing rather than erroring the item.
		p.log.Warn("malformed election config, omitting item",
			logger.String("item", in.Item.Name),
			logger.Error(err),
		)
		return nil, nil
	}

	// Sub-element IDs are numbered off the parent item to stay unique
	// across the whole document.
	seq := 0
	nextID := func() string {
		id := fmt.Sprintf("%s_%d", in.Item.ID, seq)
		seq++
		return id
	}

	var elements []models.Element
	for _, header := range cfg.HeaderItems {
		if header == "" {
			continue
		}
		elements = append(elements, models.Element{ID: nextID(), Template: header})
	}

	elements = append(elements, p.raceElements(ctx, &cfg, nextID)...)
	elements = append(elements, p.measureElements(ctx, &cfg, nextID)...)

	for _, footer := range cfg.FooterItems {
		if footer == "" {
			continue
		}
		elements = append(elements, models.Element{ID: nextID(), Template: footer})
	}

	return elements, nil
}

// raceElements fetches and renders the election's races, ordered by
// descending priority then ascending display name. The presidential race
// (priority 10) therefore always leads.
func (p *electionProcessor) raceElements(ctx context.Context, cfg *electionConfig, nextID func() string) []models.Element {
	races, err := p.elections.Races(ctx, cfg.ElectionID, cfg.RegionID)
	if err != nil {
		p.log.Warn("failed to fetch races, omitting",
			logger.Int64("election_id", cfg.ElectionID),
			logger.Error(err),
		)
		return nil
	}

	sort.SliceStable(races, func(i, j int) bool {
		if races[i].PriorityLevel != races[j].PriorityLevel {
			return races[i].PriorityLevel > races[j].PriorityLevel
		}
		return races[i].DisplayName < races[j].DisplayName
	})

	var elements []models.Element
	for i := range races {
		if el := p.buildRaceElement(&races[i], cfg, nextID); el != nil {
			elements = append(elements, *el)
		}
	}
	return elements
}

// rankedCandidate pairs a candidate with its vote rank, assigned before any
// presidential reordering so ranks reflect votes, not display position.
type rankedCandidate struct {
	models.CandidateResult
	Rank int
}

func (p *electionProcessor) buildRaceElement(race *models.ElectionRace, cfg *electionConfig, nextID func() string) *models.Element {
	presidential := race.Presidential() && cfg.PresidentialTemplate != ""

	counted := filterCandidates(race, cfg)
	if len(counted) == 0 {
		return nil
	}

	var totalVotes int64
	for _, c := range counted {
		totalVotes += c.Votes
	}

	shown := make([]rankedCandidate, 0, len(counted))
	for i, c := range counted {
		shown = append(shown, rankedCandidate{CandidateResult: c, Rank: i + 1})
	}

	var template string
	if presidential {
		shown = presidentialOrder(shown)
		if len(shown) > presidentialCandidates {
			shown = shown[:presidentialCandidates]
		}
		template = cfg.PresidentialTemplate
	} else {
		if len(shown) > maxRaceCandidates {
			shown = shown[:maxRaceCandidates]
		}
		if cfg.RaceTemplate == "" {
			return nil
		}
		template = interpolateNumCandidates(cfg.RaceTemplate, len(shown))
	}

	element := &models.Element{ID: nextID(), Template: template}
	element.Fields = append(element.Fields, models.ElementField{Name: "raceName", Value: race.DisplayName})
	if cfg.ShowEstimatedIn {
		element.Fields = append(element.Fields, models.ElementField{
			Name:  "estimatedIn",
			Value: strconv.FormatFloat(race.PercentIn, 'f', -1, 64),
		})
	}

	for i, c := range shown {
		element.Fields = append(element.Fields, candidateFields(i+1, c, totalVotes, cfg)...)
	}

	return element
}

// filterCandidates drops withdrawn candidates, and zero-vote candidates
// unless configuration or a presidential race keeps them, then sorts by
// votes descending.
func filterCandidates(race *models.ElectionRace, cfg *electionConfig) []models.CandidateResult {
	keepZero := cfg.ShowZeroVotes || race.Presidential()

	counted := make([]models.CandidateResult, 0, len(race.Candidates))
	for _, c := range race.Candidates {
		if c.Withdrawn {
			continue
		}
		if c.Votes == 0 && !keepZero {
			continue
		}
		counted = append(counted, c)
	}

	sort.SliceStable(counted, func(i, j int) bool {
		return counted[i].Votes > counted[j].Votes
	})
	return counted
}

// presidentialOrder rearranges candidates into the fixed presidential
// layout order: Democrat, Republican, then the rest in vote order.
func presidentialOrder(candidates []rankedCandidate) []rankedCandidate {
	ordered := make([]rankedCandidate, 0, len(candidates))
	for _, party := range []string{models.PartyDemocrat, models.PartyRepublican} {
		for _, c := range candidates {
			if c.Party == party {
				ordered = append(ordered, c)
				break
			}
		}
	}
	for _, c := range candidates {
		if c.Party != models.PartyDemocrat && c.Party != models.PartyRepublican {
			ordered = append(ordered, c)
		}
	}
	return ordered
}

// candidateFields emits the fixed numbered field set for one display slot.
func candidateFields(n int, c rankedCandidate, totalVotes int64, cfg *electionConfig) []models.ElementField {
	lastName := c.LastName
	if c.Incumbent && cfg.ShowIncumbentStar {
		lastName += "*"
	}

	partyText := ""
	if cfg.ShowParty {
		partyText = c.Party
	}

	winner := "0"
	if c.Winner {
		winner = "1"
	}

	return []models.ElementField{
		{Name: fmt.Sprintf("partyColor%d.material", n), Value: cfg.PartyMaterialPrefix + c.Party},
		{Name: fmt.Sprintf("partyTxt%d", n), Value: partyText},
		{Name: fmt.Sprintf("firstName%d", n), Value: c.FirstName},
		{Name: fmt.Sprintf("lastName%d", n), Value: lastName},
		{Name: fmt.Sprintf("percent%d", n), Value: votePercent(c.Votes, totalVotes)},
		{Name: fmt.Sprintf("votes%d", n), Value: strconv.FormatInt(c.Votes, 10)},
		{Name: fmt.Sprintf("rank%d", n), Value: strconv.Itoa(c.Rank)},
		{Name: fmt.Sprintf("winner%d", n), Value: winner},
	}
}

// measureElements renders ballot measures in source order. The layout on
// the consuming hardware depends on measures staying unsorted, unlike
// races.
func (p *electionProcessor) measureElements(ctx context.Context, cfg *electionConfig, nextID func() string) []models.Element {
	if cfg.ProposalTemplate == "" {
		return nil
	}

	measures, err := p.elections.BallotMeasures(ctx, cfg.ElectionID, cfg.RegionID)
	if err != nil {
		p.log.Warn("failed to fetch ballot measures, omitting",
			logger.Int64("election_id", cfg.ElectionID),
			logger.Error(err),
		)
		return nil
	}

	elements := make([]models.Element, 0, len(measures))
	for _, m := range measures {
		total := m.YesVotes + m.NoVotes
		leading := "NO"
		if m.YesVotes > m.NoVotes {
			leading = "YES"
		}

		elements = append(elements, models.Element{
			ID:       nextID(),
			Template: cfg.ProposalTemplate,
			Fields: []models.ElementField{
				{Name: "title", Value: m.Title},
				{Name: "yesVotes", Value: strconv.FormatInt(m.YesVotes, 10)},
				{Name: "noVotes", Value: strconv.FormatInt(m.NoVotes, 10)},
				{Name: "yesPercent", Value: votePercent(m.YesVotes, total)},
				{Name: "noPercent", Value: votePercent(m.NoVotes, total)},
				{Name: "leading", Value: leading},
			},
		})
	}
	return elements
}

// votePercent formats a vote share with one decimal. A zero total renders
// 0.0 rather than dividing by zero.
func votePercent(votes, total int64) string {
	if total == 0 {
		return "0.0"
	}
	return strconv.FormatFloat(float64(votes)/float64(total)*100, 'f', 1, 64)
}

// interpolateNumCandidates substitutes the displayed candidate count into a
// race template name.
func interpolateNumCandidates(template string, count int) string {
	return strings.ReplaceAll(template, numCandidatesToken, strconv.Itoa(count))
}
