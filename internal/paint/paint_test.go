package paint

import (
	"errors"
	"image"
	"image/color"
	"io"
	"math"
	"testing"
)

func TestNormalizeRectNegativeExtent(t *testing.T) {
	r := NormalizeRect(Pt(0, 0), Pt(20, -20))
	if r.Min != Pt(0, -20) || r.Max != Pt(20, 0) {
		t.Fatalf("unexpected rect %+v", r)
	}
	clamped := r.Clamp(image.Rect(0, 0, 400, 300))
	if clamped.Min != Pt(0, 0) || clamped.Max != Pt(20, 0) {
		t.Fatalf("unexpected clamp %+v", clamped)
	}
	if clamped.Dy() != 0 {
		t.Fatalf("expected empty height, got %v", clamped.Dy())
	}
}

func TestRectPixels(t *testing.T) {
	r := RectAround(Pt(10, 10), 5)
	if got, want := r.Pixels(), image.Rect(7, 7, 13, 13); got != want {
		t.Fatalf("pixels %v, want %v", got, want)
	}
}

func TestPolygonPathStartsAtAngleZero(t *testing.T) {
	pts := PolygonPath(Pt(50, 50), 10, 4)
	if len(pts) != 4 {
		t.Fatalf("expected 4 vertices, got %d", len(pts))
	}
	want := []Point{{60, 50}, {50, 60}, {40, 50}, {50, 40}}
	for i, p := range pts {
		if math.Abs(p.X-want[i].X) > 1e-9 || math.Abs(p.Y-want[i].Y) > 1e-9 {
			t.Fatalf("vertex %d = %+v, want %+v", i, p, want[i])
		}
	}
	if PolygonPath(Pt(0, 0), 10, 2) != nil {
		t.Fatal("expected no path for fewer than 3 sides")
	}
}

func TestCirclePathRadius(t *testing.T) {
	c := Pt(20, 30)
	for _, p := range CirclePath(c, 12) {
		if d := c.Dist(p); math.Abs(d-12) > 1e-9 {
			t.Fatalf("point %+v at distance %v", p, d)
		}
	}
}

func TestCirclePathStepsBounded(t *testing.T) {
	if n := len(CirclePath(Pt(0, 0), 1e13)); n != maxCircleSteps {
		t.Fatalf("huge circle has %d points", n)
	}
	if n := len(CirclePath(Pt(0, 0), math.Inf(1))); n != maxCircleSteps {
		t.Fatalf("infinite circle has %d points", n)
	}
	if n := len(CirclePath(Pt(0, 0), 0)); n != 16 {
		t.Fatalf("empty circle has %d points", n)
	}
}

func TestParseTool(t *testing.T) {
	cases := map[string]Tool{
		"brush":        ToolBrush,
		"Eraser":       ToolEraser,
		"Line Tool":    ToolLine,
		"rect":         ToolRectangle,
		" RECTANGLE ":  ToolRectangle,
		"circle":       ToolCircle,
		"Polygon Tool": ToolPolygon,
		"text":         ToolText,
	}
	for in, want := range cases {
		got, err := ParseTool(in)
		if err != nil {
			t.Fatalf("ParseTool(%q): %v", in, err)
		}
		if got != want {
			t.Errorf("ParseTool(%q) = %v, want %v", in, got, want)
		}
	}
	if _, err := ParseTool("gradient"); !errors.Is(err, ErrInvalidToolName) {
		t.Fatalf("expected ErrInvalidToolName, got %v", err)
	}
}

func TestParseColor(t *testing.T) {
	c, err := ParseColor("#FF000080")
	if err != nil {
		t.Fatal(err)
	}
	if c != (color.RGBA{255, 0, 0, 128}) {
		t.Fatalf("unexpected color %+v", c)
	}
	c, err = ParseColor("navy")
	if err != nil {
		t.Fatal(err)
	}
	if c != (color.RGBA{0, 0, 128, 255}) {
		t.Fatalf("unexpected navy %+v", c)
	}
	for _, bad := range []string{"", "#12", "#GGGGGG", "nope"} {
		if _, err := ParseColor(bad); err == nil {
			t.Errorf("expected error for %q", bad)
		}
	}
	if got := FormatColor(color.RGBA{1, 2, 3, 255}); got != "#010203" {
		t.Fatalf("FormatColor = %s", got)
	}
}

func TestStyleSet(t *testing.T) {
	s := DefaultStyle()
	s, err := s.Set("opacity", "40%")
	if err != nil {
		t.Fatal(err)
	}
	if s.Opacity != 0.4 {
		t.Fatalf("opacity %v", s.Opacity)
	}
	s, err = s.Set("rotation", "-90")
	if err != nil {
		t.Fatal(err)
	}
	if s.Rotation != 270 {
		t.Fatalf("rotation %v", s.Rotation)
	}
	s, err = s.Set("zoom", "150%")
	if err != nil {
		t.Fatal(err)
	}
	if s.Zoom != 1.5 {
		t.Fatalf("zoom %v", s.Zoom)
	}
	s, err = s.Set("BackgroundColor", "#000000")
	if err != nil {
		t.Fatal(err)
	}
	if s.Background != (color.RGBA{0, 0, 0, 255}) {
		t.Fatalf("background %+v", s.Background)
	}
}

func TestStyleSetRejects(t *testing.T) {
	base := DefaultStyle()
	cases := [][2]string{
		{"size", "-1"},
		{"size", "0"},
		{"size", "abc"},
		{"opacity", "1.5"},
		{"hardness", "-0.1"},
		{"lineThickness", "NaN"},
		{"sides", "2"},
		{"zoom", "0"},
		{"zoom", "100"},
		{"size", "1e12"},
		{"lineThickness", "5000"},
		{"textSize", "1e9"},
		{"sides", "100000"},
		{"color", "not-a-color"},
	}
	for _, c := range cases {
		got, err := base.Set(c[0], c[1])
		if !errors.Is(err, ErrInvalidParameter) {
			t.Errorf("Set(%s, %s): expected ErrInvalidParameter, got %v", c[0], c[1], err)
		}
		var perr *ParameterError
		if !errors.As(err, &perr) {
			t.Errorf("Set(%s, %s): expected *ParameterError", c[0], c[1])
		}
		if got != base {
			t.Errorf("Set(%s, %s) changed the style on error", c[0], c[1])
		}
	}
	if _, err := base.Set("tool", "spray"); !errors.Is(err, ErrInvalidToolName) {
		t.Fatalf("expected ErrInvalidToolName, got %v", err)
	}
}

func TestTransformRoundTrip(t *testing.T) {
	canvas := image.Pt(400, 300)
	tr := Transform{Rotation: 30, Zoom: 1.75}
	for _, p := range []Point{{0, 0}, {400, 300}, {123.5, 42}} {
		back := tr.ToCanvas(tr.ToView(p, canvas), canvas)
		if math.Abs(back.X-p.X) > 1e-6 || math.Abs(back.Y-p.Y) > 1e-6 {
			t.Fatalf("round trip %+v -> %+v", p, back)
		}
	}
}

func TestTransformViewSize(t *testing.T) {
	canvas := image.Pt(400, 300)
	if got := (Transform{Zoom: 2}).ViewSize(canvas); got != image.Pt(800, 600) {
		t.Fatalf("zoom view %v", got)
	}
	if got := (Transform{Rotation: 90, Zoom: 1}).ViewSize(canvas); got != image.Pt(300, 400) {
		t.Fatalf("rotated view %v", got)
	}
}

type recorder struct {
	calls []string
}

func (r *recorder) Bounds() image.Rectangle { return image.Rect(0, 0, 100, 100) }
func (r *recorder) StrokeSegment(from, to Point, pen Pen) {
	r.calls = append(r.calls, "segment")
}
func (r *recorder) StrokePath(pts []Point, closed bool, pen Pen) {
	r.calls = append(r.calls, "path")
}
func (r *recorder) ClearRect(Rect)                 { r.calls = append(r.calls, "clear") }
func (r *recorder) FillRect(Rect, color.RGBA)      { r.calls = append(r.calls, "fill") }
func (r *recorder) CaptureSnapshot() Snapshot      { return nil }
func (r *recorder) RestoreSnapshot(Snapshot) error { return nil }
func (r *recorder) Encode(io.Writer) error         { return nil }
func (r *recorder) DrawText(string, Point, Font, color.RGBA, float64) error {
	r.calls = append(r.calls, "text")
	return nil
}

func TestToolPaintDispatch(t *testing.T) {
	want := map[Tool]string{
		ToolBrush:     "segment",
		ToolEraser:    "clear",
		ToolLine:      "segment",
		ToolRectangle: "path",
		ToolCircle:    "path",
		ToolPolygon:   "path",
		ToolText:      "text",
	}
	for _, tool := range Tools() {
		r := &recorder{}
		if err := tool.Paint(r, DefaultStyle(), Pt(1, 1), Pt(10, 10)); err != nil {
			t.Fatalf("%v: %v", tool, err)
		}
		if len(r.calls) != 1 || r.calls[0] != want[tool] {
			t.Errorf("%v painted %v, want %s", tool, r.calls, want[tool])
		}
	}
}
