package paint

import (
	"fmt"
	"strings"
)

// Tool is the active interpretation of pointer movement.
type Tool int

const (
	ToolBrush Tool = iota
	ToolEraser
	ToolLine
	ToolRectangle
	ToolCircle
	ToolPolygon
	ToolText
)

var toolNames = [...]string{
	ToolBrush:     "brush",
	ToolEraser:    "eraser",
	ToolLine:      "line",
	ToolRectangle: "rectangle",
	ToolCircle:    "circle",
	ToolPolygon:   "polygon",
	ToolText:      "text",
}

// Tools lists every tool in toolbar order.
func Tools() []Tool {
	out := make([]Tool, len(toolNames))
	for i := range out {
		out[i] = Tool(i)
	}
	return out
}

func (t Tool) String() string {
	if t < 0 || int(t) >= len(toolNames) {
		return fmt.Sprintf("Tool(%d)", int(t))
	}
	return toolNames[t]
}

// Valid reports whether t is one of the known tools.
func (t Tool) Valid() bool { return t >= 0 && int(t) < len(toolNames) }

// Freehand reports whether the tool paints incrementally as the pointer
// moves rather than previewing a shape from the anchor.
func (t Tool) Freehand() bool { return t == ToolBrush || t == ToolEraser }

// ParseTool accepts a tool name case-insensitively. The toolbar titles of
// the form "Line Tool" and the short alias "rect" are accepted too.
func ParseTool(name string) (Tool, error) {
	n := strings.ToLower(strings.TrimSpace(name))
	n = strings.TrimSpace(strings.TrimSuffix(n, " tool"))
	if n == "rect" {
		n = "rectangle"
	}
	for i, s := range toolNames {
		if s == n {
			return Tool(i), nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrInvalidToolName, name)
}

// Paint applies one paint operation for the tool. For freehand tools from
// is the previous pointer position and to the current one; for the others
// from is the stroke anchor.
func (t Tool) Paint(r Rasterizer, s Style, from, to Point) error {
	shape := Pen{Color: s.Color, Width: s.LineThickness, Cap: CapButt, Opacity: s.Opacity, Hardness: 1}
	switch t {
	case ToolBrush:
		r.StrokeSegment(from, to, Pen{Color: s.Color, Width: s.Size, Cap: CapRound, Opacity: s.Opacity, Hardness: s.Hardness})
	case ToolEraser:
		r.ClearRect(RectAround(to, s.Size))
	case ToolLine:
		r.StrokeSegment(from, to, shape)
	case ToolRectangle:
		r.StrokePath(RectPath(NormalizeRect(from, to)), true, shape)
	case ToolCircle:
		r.StrokePath(CirclePath(from, from.Dist(to)), true, shape)
	case ToolPolygon:
		r.StrokePath(PolygonPath(from, from.Dist(to), s.Sides), true, shape)
	case ToolText:
		if s.Text == "" {
			return nil
		}
		return r.DrawText(s.Text, to, Font{Size: s.TextSize}, s.Color, s.TextOpacity)
	default:
		return fmt.Errorf("%w: %v", ErrInvalidToolName, t)
	}
	return nil
}
