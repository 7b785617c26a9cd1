package paint

import (
	"image"
	"image/color"
	"io"
)

// LineCap selects how open stroke ends are finished.
type LineCap int

const (
	CapButt LineCap = iota
	CapRound
	CapSquare
)

// Pen describes how a stroke is laid down.
type Pen struct {
	Color color.RGBA
	Width float64
	Cap   LineCap
	// Opacity scales the color alpha, 0..1.
	Opacity float64
	// Hardness of the stroke edge, 0 (fully feathered) to 1 (crisp).
	Hardness float64
}

// Font selects the face used for text.
type Font struct {
	Size float64
}

// Snapshot is an opaque, immutable capture of the full canvas.
type Snapshot interface {
	ID() string
	Bounds() image.Rectangle
}

// Rasterizer is the 2D paint surface a drawing session draws through.
// Coordinates are canvas-local and drawing is clipped to Bounds.
type Rasterizer interface {
	Bounds() image.Rectangle
	StrokeSegment(from, to Point, pen Pen)
	StrokePath(pts []Point, closed bool, pen Pen)
	ClearRect(r Rect)
	FillRect(r Rect, col color.RGBA)
	DrawText(text string, at Point, font Font, col color.RGBA, opacity float64) error
	CaptureSnapshot() Snapshot
	RestoreSnapshot(s Snapshot) error
	// Encode writes the canvas as PNG.
	Encode(w io.Writer) error
}

// Resizer is implemented by rasterizers whose canvas can change size.
// Existing pixels stay anchored at the top-left; new area takes fill.
type Resizer interface {
	Resize(width, height int, fill color.RGBA) error
}

// Imager is implemented by rasterizers that can hand out a copy of their
// pixels.
type Imager interface {
	Image() *image.RGBA
}

// Flipper is implemented by rasterizers that can mirror their canvas in
// place.
type Flipper interface {
	Flip(horizontal bool)
}
