package paint

import (
	"image/color"
	"math"
	"strconv"
	"strings"
)

// Control field names understood by Style.Set.
const (
	FieldTool            = "tool"
	FieldColor           = "color"
	FieldSize            = "size"
	FieldOpacity         = "opacity"
	FieldHardness        = "hardness"
	FieldLineThickness   = "lineThickness"
	FieldTextSize        = "textSize"
	FieldTextOpacity     = "textOpacity"
	FieldText            = "text"
	FieldSides           = "sides"
	FieldRotation        = "rotation"
	FieldZoom            = "zoom"
	FieldBackgroundColor = "backgroundColor"
)

// MaxZoom is the largest accepted zoom factor.
const MaxZoom = 16

// MaxSize bounds brush size, line thickness and text size in pixels.
const MaxSize = 1024

// MaxSides is the most sides a polygon may have.
const MaxSides = 360

// Style is the tool and style state of a drawing session.
type Style struct {
	Tool          Tool
	Color         color.RGBA
	Size          float64
	Opacity       float64
	Hardness      float64
	LineThickness float64
	TextSize      float64
	TextOpacity   float64
	Text          string
	Sides         int
	Background    color.RGBA
	Rotation      float64 // degrees, [0,360)
	Zoom          float64
}

// DefaultStyle returns the initial style of a fresh session.
func DefaultStyle() Style {
	return Style{
		Tool:          ToolBrush,
		Color:         color.RGBA{0, 0, 0, 255},
		Size:          5,
		Opacity:       1,
		Hardness:      0.5,
		LineThickness: 2,
		TextSize:      30,
		TextOpacity:   1,
		Text:          "Sample Text",
		Sides:         6,
		Background:    color.RGBA{255, 255, 255, 255},
		Zoom:          1,
	}
}

// Transform returns the view transform carried by the style.
func (s Style) Transform() Transform {
	return Transform{Rotation: s.Rotation, Zoom: s.Zoom}
}

// Validate checks every field against its accepted range.
func (s Style) Validate() error {
	if !s.Tool.Valid() {
		return invalid(FieldTool, s.Tool, "unknown tool")
	}
	if err := extent(FieldSize, s.Size); err != nil {
		return err
	}
	if err := unit(FieldOpacity, s.Opacity); err != nil {
		return err
	}
	if err := unit(FieldHardness, s.Hardness); err != nil {
		return err
	}
	if err := extent(FieldLineThickness, s.LineThickness); err != nil {
		return err
	}
	if err := extent(FieldTextSize, s.TextSize); err != nil {
		return err
	}
	if err := unit(FieldTextOpacity, s.TextOpacity); err != nil {
		return err
	}
	if s.Sides < 3 {
		return invalid(FieldSides, s.Sides, "need at least 3 sides")
	}
	if s.Sides > MaxSides {
		return invalid(FieldSides, s.Sides, "too many sides")
	}
	if math.IsNaN(s.Rotation) || math.IsInf(s.Rotation, 0) {
		return invalid(FieldRotation, s.Rotation, "must be finite")
	}
	if err := positive(FieldZoom, s.Zoom); err != nil {
		return err
	}
	if s.Zoom > MaxZoom {
		return invalid(FieldZoom, s.Zoom, "too large")
	}
	return nil
}

// Set returns a copy of s with one field replaced by a value parsed from
// its control representation. Fractions accept either 0..1 or a percentage
// ("40%"). The receiver is never modified, and the result has been
// validated.
func (s Style) Set(field, value string) (Style, error) {
	orig := s
	v := strings.TrimSpace(value)
	var err error
	switch canonicalField(field) {
	case FieldTool:
		var t Tool
		t, err = ParseTool(v)
		s.Tool = t
	case FieldColor:
		s.Color, err = parseColorField(FieldColor, v)
	case FieldBackgroundColor:
		s.Background, err = parseColorField(FieldBackgroundColor, v)
	case FieldSize:
		s.Size, err = parseNumber(FieldSize, v)
	case FieldOpacity:
		s.Opacity, err = parseFraction(FieldOpacity, v)
	case FieldHardness:
		s.Hardness, err = parseFraction(FieldHardness, v)
	case FieldLineThickness:
		s.LineThickness, err = parseNumber(FieldLineThickness, v)
	case FieldTextSize:
		s.TextSize, err = parseNumber(FieldTextSize, v)
	case FieldTextOpacity:
		s.TextOpacity, err = parseFraction(FieldTextOpacity, v)
	case FieldText:
		s.Text = value
	case FieldSides:
		var n int
		n, err = strconv.Atoi(v)
		if err != nil {
			err = invalid(FieldSides, v, "not an integer")
		}
		s.Sides = n
	case FieldRotation:
		var deg float64
		deg, err = parseNumber(FieldRotation, strings.TrimSuffix(v, "deg"))
		s.Rotation = NormalizeDegrees(deg)
	case FieldZoom:
		s.Zoom, err = parseFraction(FieldZoom, v)
	default:
		return orig, invalid("field", field, "unknown")
	}
	if err == nil {
		err = s.Validate()
	}
	if err != nil {
		return orig, err
	}
	return s, nil
}

// Fields lists the control names Set understands.
func Fields() []string {
	return []string{
		FieldTool, FieldColor, FieldSize, FieldOpacity, FieldHardness,
		FieldLineThickness, FieldTextSize, FieldTextOpacity, FieldText,
		FieldSides, FieldRotation, FieldZoom, FieldBackgroundColor,
	}
}

// IsField reports whether name is a Style control field.
func IsField(name string) bool {
	c := canonicalField(name)
	for _, f := range Fields() {
		if f == c {
			return true
		}
	}
	return false
}

func canonicalField(name string) string {
	n := strings.TrimSpace(name)
	for _, f := range Fields() {
		if strings.EqualFold(f, n) {
			return f
		}
	}
	switch strings.ToLower(n) {
	case "background", "bg":
		return FieldBackgroundColor
	case "thickness", "line_thickness":
		return FieldLineThickness
	case "text_size":
		return FieldTextSize
	case "text_opacity":
		return FieldTextOpacity
	}
	return n
}

// NormalizeDegrees maps deg onto [0,360).
func NormalizeDegrees(deg float64) float64 {
	d := math.Mod(deg, 360)
	if d < 0 {
		d += 360
	}
	return d
}

func parseColorField(field, v string) (color.RGBA, error) {
	c, err := ParseColor(v)
	if err != nil {
		return c, invalid(field, v, err.Error())
	}
	return c, nil
}

func parseNumber(field, v string) (float64, error) {
	f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
	if err != nil {
		return 0, invalid(field, v, "not a number")
	}
	return f, nil
}

func parseFraction(field, v string) (float64, error) {
	if p, ok := strings.CutSuffix(v, "%"); ok {
		f, err := parseNumber(field, p)
		return f / 100, err
	}
	return parseNumber(field, v)
}

func positive(field string, v float64) error {
	if math.IsNaN(v) || math.IsInf(v, 0) || v <= 0 {
		return invalid(field, v, "must be greater than zero")
	}
	return nil
}

func extent(field string, v float64) error {
	if err := positive(field, v); err != nil {
		return err
	}
	if v > MaxSize {
		return invalid(field, v, "too large")
	}
	return nil
}

func unit(field string, v float64) error {
	if math.IsNaN(v) || v < 0 || v > 1 {
		return invalid(field, v, "must be between 0 and 1")
	}
	return nil
}
