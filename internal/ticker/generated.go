package ticker

import (
	"context"
	"fmt"

	"github.com/jonesrussell/tickerd/internal/logger"
	"github.com/jonesrussell/tickerd/internal/models"
)

// generatedElement builds the synthetic element a bucket's content root is
// configured to prepend. The instance index counts per content root within
// one render, so a root shared by several playlists yields _0, _1, ...
// rather than duplicate IDs.
func (e *Engine) generatedElement(ctx context.Context, contentRoot *models.ContentNode, rc *renderContext) *models.Element {
	cfg := contentRoot.Config().GenerateItem
	if cfg == nil || !cfg.Enabled || cfg.TemplateID == nil {
		return nil
	}

	tmpl, err := e.content.Template(ctx, *cfg.TemplateID)
	if err != nil {
		e.log.Warn("failed to resolve generated item template, skipping",
			logger.String("bucket_content", contentRoot.Name),
			logger.Error(err),
		)
		return nil
	}

	instance := rc.nextInstance(contentRoot.ID)
	element := &models.Element{
		ID:       fmt.Sprintf("%s_%d", contentRoot.ID, instance),
		Template: tmpl.Name,
	}
	if cfg.Duration > 0 {
		element.Duration = cfg.Duration
	}
	if cfg.FieldName != "" {
		element.Fields = append(element.Fields, models.ElementField{
			Name:  cfg.FieldName,
			Value: cfg.FieldValue,
		})
	}

	return element
}
