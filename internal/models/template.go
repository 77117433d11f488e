package models

import (
	"encoding/json"

	"github.com/google/uuid"
)

// Component types recognized by the processor registry. Any other type is
// rendered as a plain name/value field.
const (
	ComponentWeatherCities    = "weatherCities"
	ComponentWeatherLocations = "weatherLocations"
	ComponentWeatherForecast  = "weatherForecast"
	ComponentElection         = "election"
	ComponentSchoolClosings   = "schoolClosings"
	ComponentImage            = "image"
)

// Template is a named render target with a nested form schema.
type Template struct {
	ID       uuid.UUID `db:"id"   json:"id"`
	Name     string    `db:"name" json:"name"`
	FormJSON []byte    `db:"form" json:"-"`
}

// Form parses the template's form schema. A malformed schema yields an
// empty form (fail-open): fields then render as plain name/value pairs.
func (t *Template) Form() *TemplateForm {
	var form TemplateForm
	if len(t.FormJSON) == 0 {
		return &form
	}
	if err := json.Unmarshal(t.FormJSON, &form); err != nil {
		return &TemplateForm{}
	}
	return &form
}

// TemplateForm is the nested form schema authored against a template.
// Components may nest through components, columns, or tabs.
type TemplateForm struct {
	Components []FormComponent `json:"components,omitempty"`
}

// FormComponent is one entry of a template form. Name binds it to an item
// field; Type selects the component processor.
type FormComponent struct {
	Name       string          `json:"name,omitempty"`
	Type       string          `json:"type,omitempty"`
	Config     json.RawMessage `json:"config,omitempty"`
	Components []FormComponent `json:"components,omitempty"`
	Columns    []FormColumn    `json:"columns,omitempty"`
	Tabs       []FormComponent `json:"tabs,omitempty"`
}

// FormColumn groups components into a layout column.
type FormColumn struct {
	Components []FormComponent `json:"components,omitempty"`
}

// Component returns the form component bound to the given field name,
// searching nested components, columns, and tabs. Returns nil when the
// field has no declared component.
func (f *TemplateForm) Component(fieldName string) *FormComponent {
	if f == nil {
		return nil
	}
	return findComponent(f.Components, fieldName)
}

func findComponent(components []FormComponent, fieldName string) *FormComponent {
	for i := range components {
		c := &components[i]
		if c.Name == fieldName && c.Type != "" {
			return c
		}
		if found := findComponent(c.Components, fieldName); found != nil {
			return found
		}
		for j := range c.Columns {
			if found := findComponent(c.Columns[j].Components, fieldName); found != nil {
				return found
			}
		}
		if found := findComponent(c.Tabs, fieldName); found != nil {
			return found
		}
	}
	return nil
}

// ComponentConfig unmarshals the component's config object into dst.
// Missing or malformed config leaves dst untouched, so callers keep their
// defaults.
func (c *FormComponent) ComponentConfig(dst any) {
	if c == nil || len(c.Config) == 0 {
		return
	}
	_ = json.Unmarshal(c.Config, dst)
}
