// Package preset provides named bundles of style settings, such as a
// highlighter or a chalk brush, that can be applied to a session in one
// step.
package preset

import (
	"embed"
	"fmt"
	"strings"

	"github.com/example/scribble/internal/paint"
)

// EmbeddedPresets carries the built-in presets.
//
//go:embed defaults/*.preset
var EmbeddedPresets embed.FS

// Setting is one style field override.
type Setting struct {
	Field string
	Value string
}

// Preset is an ordered list of style overrides. Fields it does not name
// keep their current value when applied.
type Preset struct {
	Name     string
	Settings []Setting
}

// Set records an override, replacing any earlier one for the same field.
// The value is checked against the field's rules straight away.
func (p *Preset) Set(field, value string) error {
	if !paint.IsField(field) {
		return fmt.Errorf("preset %s: unknown field %q", p.Name, field)
	}
	if _, err := paint.DefaultStyle().Set(field, value); err != nil {
		return fmt.Errorf("preset %s: %w", p.Name, err)
	}
	for i, s := range p.Settings {
		if strings.EqualFold(s.Field, field) {
			p.Settings[i].Value = value
			return nil
		}
	}
	p.Settings = append(p.Settings, Setting{Field: field, Value: value})
	return nil
}

// Apply returns s with the preset's overrides applied in order.
func (p *Preset) Apply(s paint.Style) (paint.Style, error) {
	for _, set := range p.Settings {
		var err error
		if s, err = s.Set(set.Field, set.Value); err != nil {
			return s, fmt.Errorf("preset %s: %w", p.Name, err)
		}
	}
	return s, nil
}

// String renders the preset in the format Parse reads.
func (p *Preset) String() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Name: %s\n", p.Name)
	for _, s := range p.Settings {
		fmt.Fprintf(&sb, "%s: %s\n", s.Field, s.Value)
	}
	return sb.String()
}
