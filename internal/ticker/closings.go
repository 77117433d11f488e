package ticker

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jonesrussell/tickerd/internal/logger"
	"github.com/jonesrussell/tickerd/internal/models"
)

// closingsConfig is the JSON payload of a field bound to the
// schoolClosings component. With passthrough set, the request's region and
// zone parameters override the stored ones, letting one authored item serve
// many regional variants of the same channel feed.
type closingsConfig struct {
	Passthrough bool   `json:"passthrough"`
	RegionID    *int64 `json:"regionId,omitempty"`
	ZoneID      *int64 `json:"zoneId,omitempty"`
	Line1Field  string `json:"line1Field,omitempty"`
	Line1Format string `json:"line1Format,omitempty"`
	Line2Field  string `json:"line2Field,omitempty"`
	Line2Format string `json:"line2Format,omitempty"`
	Template    string `json:"template,omitempty"`
}

// closingsProcessor is the item-replacing processor that explodes one
// school-closings item into one element per matching closing.
type closingsProcessor struct {
	closings ClosingsStore
	log      logger.Logger
}

func (p *closingsProcessor) Expand(ctx context.Context, in ReplaceInput) ([]models.Element, error) {
	cfg := closingsConfig{
		Line1Field:  "line1",
		Line1Format: "{{organization}}",
		Line2Field:  "line2",
		Line2Format: "{{status}} {{statusDay}}",
	}
	if in.Field.Value != "" {
		if err := json.Unmarshal([]byte(in.Field.Value), &cfg); err != nil {
			p.log.Warn("malformed school closings config, using defaults",
				logger.String("item", in.Item.Name),
				logger.Error(err),
			)
		}
	}

	regionID, zoneID := cfg.RegionID, cfg.ZoneID
	if cfg.Passthrough {
		if in.Request.RegionID != nil {
			regionID = in.Request.RegionID
		}
		if in.Request.ZoneID != nil {
			zoneID = in.Request.ZoneID
		}
	}

	closings, err := p.closings.Closings(ctx, regionID, zoneID)
	if err != nil {
		return nil, fmt.Errorf("fetch school closings: %w", err)
	}

	template := cfg.Template
	if template == "" {
		template = in.TemplateName
	}

	elements := make([]models.Element, 0, len(closings))
	for i, closing := range closings {
		values := map[string]string{
			"organization": closing.Organization,
			"region":       closing.Region,
			"zone":         closing.Zone,
			"status":       closing.Status,
			"statusDay":    closing.StatusDay,
			"city":         closing.City,
			"county":       closing.County,
			"state":        closing.State,
		}

		elements = append(elements, models.Element{
			ID:       fmt.Sprintf("%s_%d", in.Item.ID, i),
			Template: template,
			Fields: []models.ElementField{
				{Name: cfg.Line1Field, Value: interpolate(cfg.Line1Format, values)},
				{Name: cfg.Line2Field, Value: interpolate(cfg.Line2Format, values)},
			},
		})
	}

	return elements, nil
}
