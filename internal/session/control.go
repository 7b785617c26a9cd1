package session

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/example/scribble/internal/paint"
)

// FieldCanvasSize is the control that resizes the canvas. Values take the
// form "WxH" or a single width.
const FieldCanvasSize = "canvasSize"

// Controls lists every field Control accepts.
func Controls() []string {
	return append(paint.Fields(), FieldCanvasSize)
}

// SetTool selects the tool for the next stroke. A stroke in progress keeps
// the tool it started with. An invalid tool is logged and rejected.
func (c *Controller) SetTool(t paint.Tool) error {
	if !t.Valid() {
		err := fmt.Errorf("%w: %v", paint.ErrInvalidToolName, t)
		c.logger.Printf("warning: %v", err)
		return err
	}
	return c.apply(func() (Change, error) {
		if c.style.Tool == t {
			return 0, nil
		}
		c.style.Tool = t
		return StyleChanged, nil
	})
}

// SetStyle updates one style field from its textual value. Invalid values
// are rejected and leave the style untouched. An unknown tool name is
// also logged as a warning.
func (c *Controller) SetStyle(field, value string) error {
	return c.apply(func() (Change, error) {
		s, err := c.style.Set(field, value)
		if err != nil {
			if errors.Is(err, paint.ErrInvalidToolName) {
				c.logger.Printf("warning: %v; keeping %s", err, c.style.Tool)
			}
			return 0, err
		}
		if s == c.style {
			return 0, nil
		}
		c.style = s
		return StyleChanged, nil
	})
}

// UpdateStyle replaces the style with the result of fn, atomically with
// respect to other operations. The new style must validate.
func (c *Controller) UpdateStyle(fn func(paint.Style) (paint.Style, error)) error {
	return c.apply(func() (Change, error) {
		s, err := fn(c.style)
		if err != nil {
			return 0, err
		}
		if err := s.Validate(); err != nil {
			return 0, err
		}
		c.style = s
		return StyleChanged, nil
	})
}

// Preset is a named set of style overrides.
type Preset interface {
	Apply(paint.Style) (paint.Style, error)
}

// ApplyPreset applies p to the current style.
func (c *Controller) ApplyPreset(p Preset) error {
	return c.UpdateStyle(p.Apply)
}

// Control applies a control change from an input surface. tool and the
// style fields only change state; canvasSize resizes the canvas.
func (c *Controller) Control(field, value string) error {
	name := strings.TrimSpace(field)
	switch {
	case strings.EqualFold(name, FieldCanvasSize) || strings.EqualFold(name, "canvas_size"):
		w, h, err := ParseCanvasSize(value)
		if err != nil {
			return err
		}
		return c.Resize(w, h)
	case paint.IsField(name):
		return c.SetStyle(name, value)
	}
	return fmt.Errorf("%w: %q", ErrUnknownField, field)
}

// canvasAspect is the height/width ratio used when canvasSize is given a
// single number.
const canvasAspect = 0.66

// ParseCanvasSize parses "WxH", "W,H" or "W H". A single number sets the
// width and derives the height at a 0.66 aspect ratio.
func ParseCanvasSize(v string) (width, height int, err error) {
	parts := strings.FieldsFunc(strings.ToLower(v), func(r rune) bool {
		return r == 'x' || r == ',' || r == ' ' || r == '\t'
	})
	if len(parts) == 1 {
		w, err := strconv.Atoi(parts[0])
		if err != nil || w <= 0 {
			return 0, 0, &paint.ParameterError{Field: FieldCanvasSize, Value: v, Reason: "not a positive size"}
		}
		return w, max(1, int(math.Round(float64(w)*canvasAspect))), nil
	}
	if len(parts) != 2 {
		return 0, 0, &paint.ParameterError{Field: FieldCanvasSize, Value: v, Reason: "want WIDTHxHEIGHT"}
	}
	width, err1 := strconv.Atoi(parts[0])
	height, err2 := strconv.Atoi(parts[1])
	if err1 != nil || err2 != nil {
		return 0, 0, &paint.ParameterError{Field: FieldCanvasSize, Value: v, Reason: "not an integer size"}
	}
	if width <= 0 || height <= 0 {
		return 0, 0, &paint.ParameterError{Field: FieldCanvasSize, Value: v, Reason: "must be positive"}
	}
	return width, height, nil
}
