package config

import (
	"fmt"
	"image/color"
	"sort"
	"strings"

	"github.com/example/scribble/internal/history"
	"github.com/example/scribble/internal/paint"
	"github.com/example/scribble/internal/preset"
	"github.com/example/scribble/internal/theme"
)

// Canvas holds the initial canvas settings.
type Canvas struct {
	Width      int
	Height     int
	Background color.RGBA
}

// Brush holds freehand tool defaults.
type Brush struct {
	Tool     string
	Color    color.RGBA
	Size     float64
	Opacity  float64
	Hardness float64
}

// Shape holds line and shape tool defaults.
type Shape struct {
	LineThickness float64
	Sides         int
}

// Text holds text tool defaults.
type Text struct {
	Size    float64
	Opacity float64
	Value   string
}

// Notify holds notification settings.
type Notify struct {
	Save bool
	Copy bool
}

// Serve holds remote control settings.
type Serve struct {
	Addr      string
	Advertise bool
	Instance  string
}

// Config holds the application configuration.
type Config struct {
	Output       string
	HistoryLimit int
	Preset       string
	Theme        string
	Canvas       Canvas
	Brush        Brush
	Shape        Shape
	Text         Text
	Notify       Notify
	Serve        Serve
	Presets      map[string]*preset.Preset
	Themes       map[string]*theme.Theme
}

// New creates a new Config with defaults.
func New() *Config {
	s := paint.DefaultStyle()
	return &Config{
		Output:       "drawing.png",
		HistoryLimit: history.DefaultLimit,
		Canvas: Canvas{
			Width:      1200,
			Height:     800,
			Background: s.Background,
		},
		Brush: Brush{
			Tool:     s.Tool.String(),
			Color:    s.Color,
			Size:     s.Size,
			Opacity:  s.Opacity,
			Hardness: s.Hardness,
		},
		Shape:   Shape{LineThickness: s.LineThickness, Sides: s.Sides},
		Text:    Text{Size: s.TextSize, Opacity: s.TextOpacity, Value: s.Text},
		Serve:   Serve{Addr: "127.0.0.1:8077", Instance: "scribble"},
		Presets: make(map[string]*preset.Preset),
		Themes:  make(map[string]*theme.Theme),
	}
}

// Style returns the starting style described by the configuration.
func (c *Config) Style() (paint.Style, error) {
	s := paint.DefaultStyle()
	tool, err := paint.ParseTool(c.Brush.Tool)
	if err != nil {
		return s, fmt.Errorf("[brush] tool: %w", err)
	}
	s.Tool = tool
	s.Color = c.Brush.Color
	s.Size = c.Brush.Size
	s.Opacity = c.Brush.Opacity
	s.Hardness = c.Brush.Hardness
	s.LineThickness = c.Shape.LineThickness
	s.Sides = c.Shape.Sides
	s.TextSize = c.Text.Size
	s.TextOpacity = c.Text.Opacity
	s.Text = c.Text.Value
	s.Background = c.Canvas.Background
	if err := s.Validate(); err != nil {
		return paint.DefaultStyle(), err
	}
	return s, nil
}

// String implements fmt.Stringer and returns the configuration in RC format.
func (c *Config) String() string {
	var sb strings.Builder

	if c.Output != "" {
		fmt.Fprintf(&sb, "output = %s\n", c.Output)
	}
	fmt.Fprintf(&sb, "history_limit = %d\n", c.HistoryLimit)
	if c.Preset != "" {
		fmt.Fprintf(&sb, "preset = %s\n", c.Preset)
	}
	if c.Theme != "" {
		fmt.Fprintf(&sb, "theme = %s\n", c.Theme)
	}
	sb.WriteString("\n")

	sb.WriteString("[canvas]\n")
	fmt.Fprintf(&sb, "width = %d\n", c.Canvas.Width)
	fmt.Fprintf(&sb, "height = %d\n", c.Canvas.Height)
	fmt.Fprintf(&sb, "background = %s\n", paint.FormatColor(c.Canvas.Background))
	sb.WriteString("\n")

	sb.WriteString("[brush]\n")
	fmt.Fprintf(&sb, "tool = %s\n", c.Brush.Tool)
	fmt.Fprintf(&sb, "color = %s\n", paint.FormatColor(c.Brush.Color))
	fmt.Fprintf(&sb, "size = %v\n", c.Brush.Size)
	fmt.Fprintf(&sb, "opacity = %v\n", c.Brush.Opacity)
	fmt.Fprintf(&sb, "hardness = %v\n", c.Brush.Hardness)
	sb.WriteString("\n")

	sb.WriteString("[shape]\n")
	fmt.Fprintf(&sb, "line_thickness = %v\n", c.Shape.LineThickness)
	fmt.Fprintf(&sb, "sides = %d\n", c.Shape.Sides)
	sb.WriteString("\n")

	sb.WriteString("[text]\n")
	fmt.Fprintf(&sb, "size = %v\n", c.Text.Size)
	fmt.Fprintf(&sb, "opacity = %v\n", c.Text.Opacity)
	fmt.Fprintf(&sb, "value = %q\n", c.Text.Value)
	sb.WriteString("\n")

	sb.WriteString("[notify]\n")
	fmt.Fprintf(&sb, "save = %v\n", c.Notify.Save)
	fmt.Fprintf(&sb, "copy = %v\n", c.Notify.Copy)
	sb.WriteString("\n")

	sb.WriteString("[serve]\n")
	fmt.Fprintf(&sb, "addr = %s\n", c.Serve.Addr)
	fmt.Fprintf(&sb, "advertise = %v\n", c.Serve.Advertise)
	fmt.Fprintf(&sb, "instance = %s\n", c.Serve.Instance)
	sb.WriteString("\n")

	// Sort keys for deterministic output
	for _, name := range sortedKeys(c.Presets) {
		p := c.Presets[name]
		fmt.Fprintf(&sb, "[preset.%s]\n", name)
		for _, s := range p.Settings {
			fmt.Fprintf(&sb, "%s: %s\n", s.Field, s.Value)
		}
		sb.WriteString("\n")
	}
	for _, name := range sortedKeys(c.Themes) {
		fmt.Fprintf(&sb, "[theme.%s]\n", name)
		sb.WriteString(c.Themes[name].String())
		sb.WriteString("\n")
	}

	return sb.String()
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
