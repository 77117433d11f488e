package ticker

import (
	"context"
	"time"

	"github.com/jonesrussell/tickerd/internal/models"
)

// ProcessorContext carries the per-render facts every processor may need:
// the inbound request and the channel-local clock.
type ProcessorContext struct {
	Request  Request
	Now      time.Time
	Location *time.Location
}

// ReplaceInput is the input to an item-replacing processor: the single
// field that determines the whole item's output.
type ReplaceInput struct {
	ProcessorContext
	Item         *models.ContentNode
	Field        models.ItemField
	Component    *models.FormComponent
	TemplateName string
}

// AugmentInput is the input to a field-augmenting processor.
type AugmentInput struct {
	ProcessorContext
	Item      *models.ContentNode
	Field     models.ItemField
	Component *models.FormComponent
}

// Augmentation is a field-augmenting processor's contribution to the
// element under construction.
type Augmentation struct {
	Fields   []models.ElementField
	Template string // non-empty overrides the element template
}

// ItemProcessor expands one field into the item's entire output, replacing
// normal field processing.
type ItemProcessor interface {
	Expand(ctx context.Context, in ReplaceInput) ([]models.Element, error)
}

// FieldProcessor turns one field into zero or more element fields.
type FieldProcessor interface {
	Augment(ctx context.Context, in AugmentInput) (Augmentation, error)
}

// Registry maps template-form component types to processors. The two
// processor shapes are kept in separate maps so a component type's behavior
// (item-replacing vs field-augmenting) is explicit rather than inferred.
type Registry struct {
	replacing  map[string]ItemProcessor
	augmenting map[string]FieldProcessor
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		replacing:  make(map[string]ItemProcessor),
		augmenting: make(map[string]FieldProcessor),
	}
}

// RegisterItem binds a component type to an item-replacing processor.
func (r *Registry) RegisterItem(componentType string, p ItemProcessor) {
	r.replacing[componentType] = p
}

// RegisterField binds a component type to a field-augmenting processor.
func (r *Registry) RegisterField(componentType string, p FieldProcessor) {
	r.augmenting[componentType] = p
}

// Replacing returns the item-replacing processor for a component type.
func (r *Registry) Replacing(componentType string) (ItemProcessor, bool) {
	p, ok := r.replacing[componentType]
	return p, ok
}

// Augmenting returns the field-augmenting processor for a component type.
func (r *Registry) Augmenting(componentType string) (FieldProcessor, bool) {
	p, ok := r.augmenting[componentType]
	return p, ok
}
