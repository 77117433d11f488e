package ticker

import (
	"context"
	"strings"

	"github.com/jonesrussell/tickerd/internal/logger"
	"github.com/jonesrussell/tickerd/internal/models"
)

// ttlSeconds is how long time-sensitive elements live on the consuming
// hardware before it expires them.
const ttlSeconds = "3600"

// timeSensitiveKeywords mark an item whose content goes stale quickly.
var timeSensitiveKeywords = []string{"breaking", "urgent", "live", "now", "alert"}

// buildItemElements expands one item into its output elements. A field
// bound to an item-replacing component (election, school closings)
// determines the entire item's output by itself; otherwise the item's
// fields fold into a single element.
func (e *Engine) buildItemElements(ctx context.Context, pctx ProcessorContext, item *models.ContentNode, fields []models.ItemField) []models.Element {
	var tmpl *models.Template
	form := &models.TemplateForm{}
	if item.TemplateID != nil {
		t, err := e.content.Template(ctx, *item.TemplateID)
		if err != nil {
			e.log.Warn("failed to fetch item template",
				logger.String("item", item.Name),
				logger.Error(err),
			)
		} else {
			tmpl = t
			form = t.Form()
		}
	}

	if elements, replaced := e.expandReplacingField(ctx, pctx, item, fields, form, tmpl); replaced {
		return elements
	}

	return e.buildSingleElement(ctx, pctx, item, fields, form, tmpl)
}

// expandReplacingField scans for a field bound to an item-replacing
// component and delegates to its processor. The first such field wins.
func (e *Engine) expandReplacingField(ctx context.Context, pctx ProcessorContext, item *models.ContentNode, fields []models.ItemField, form *models.TemplateForm, tmpl *models.Template) ([]models.Element, bool) {
	for _, field := range fields {
		if field.IsMetadata() {
			continue
		}
		component := form.Component(field.Name)
		if component == nil {
			continue
		}
		proc, ok := e.registry.Replacing(component.Type)
		if !ok {
			continue
		}

		in := ReplaceInput{
			ProcessorContext: pctx,
			Item:             item,
			Field:            field,
			Component:        component,
		}
		if tmpl != nil {
			in.TemplateName = tmpl.Name
		}

		elements, err := proc.Expand(ctx, in)
		if err != nil {
			e.log.Warn("item-replacing processor failed, omitting item",
				logger.String("item", item.Name),
				logger.String("component", component.Type),
				logger.Error(err),
			)
			return nil, true
		}
		return elements, true
	}
	return nil, false
}

// buildSingleElement folds an item's fields into one element, consulting
// field-augmenting processors per declared component type.
func (e *Engine) buildSingleElement(ctx context.Context, pctx ProcessorContext, item *models.ContentNode, fields []models.ItemField, form *models.TemplateForm, tmpl *models.Template) []models.Element {
	element := models.Element{ID: item.ID.String()}
	if tmpl != nil {
		element.Template = tmpl.Name
	}
	if item.Duration != nil && *item.Duration > 0 {
		element.Duration = *item.Duration
	}

	for _, field := range fields {
		if field.IsMetadata() {
			continue
		}

		component := form.Component(field.Name)
		if component != nil {
			if proc, ok := e.registry.Augmenting(component.Type); ok {
				aug, err := proc.Augment(ctx, AugmentInput{
					ProcessorContext: pctx,
					Item:             item,
					Field:            field,
					Component:        component,
				})
				if err != nil {
					// Omit the field, keep the element: a data glitch must
					// not take the whole item off air.
					e.log.Warn("field processor failed, omitting field",
						logger.String("item", item.Name),
						logger.String("field", field.Name),
						logger.Error(err),
					)
					continue
				}
				element.Fields = append(element.Fields, aug.Fields...)
				if aug.Template != "" {
					element.Template = aug.Template
				}
				continue
			}
		}

		// Undeclared fields may still hold image URLs; the same local-cache
		// rewrite applies.
		element.Fields = append(element.Fields, models.ElementField{
			Name:  field.Name,
			Value: e.images.Rewrite(field.Value),
		})
	}

	if ttl := timeSensitiveTTL(fields); ttl != nil {
		element.TTL = ttl
	}

	return []models.Element{element}
}

// timeSensitiveTTL returns a one-hour expiry when any field name or value
// carries a time-sensitivity keyword.
func timeSensitiveTTL(fields []models.ItemField) *models.ElementTTL {
	for _, field := range fields {
		name := strings.ToLower(field.Name)
		value := strings.ToLower(field.Value)
		for _, keyword := range timeSensitiveKeywords {
			if strings.Contains(name, keyword) || strings.Contains(value, keyword) {
				return &models.ElementTTL{Action: "remove", Value: ttlSeconds}
			}
		}
	}
	return nil
}
