package paint

import (
	"image"
	"math"
)

// Point is a position in canvas-local coordinates.
type Point struct {
	X, Y float64
}

// Pt is shorthand for Point{X: x, Y: y}.
func Pt(x, y float64) Point { return Point{X: x, Y: y} }

// Add returns p+q.
func (p Point) Add(q Point) Point { return Point{p.X + q.X, p.Y + q.Y} }

// Sub returns p-q.
func (p Point) Sub(q Point) Point { return Point{p.X - q.X, p.Y - q.Y} }

// Dist returns the Euclidean distance between p and q.
func (p Point) Dist(q Point) float64 { return math.Hypot(q.X-p.X, q.Y-p.Y) }

// Rect is an axis-aligned rectangle. Min is always the top-left corner once
// built through NormalizeRect or RectAround.
type Rect struct {
	Min, Max Point
}

// NormalizeRect returns the box with opposite corners a and b, whichever way
// round they were given.
func NormalizeRect(a, b Point) Rect {
	return Rect{
		Min: Point{math.Min(a.X, b.X), math.Min(a.Y, b.Y)},
		Max: Point{math.Max(a.X, b.X), math.Max(a.Y, b.Y)},
	}
}

// RectAround returns the size×size square centred on c.
func RectAround(c Point, size float64) Rect {
	h := size / 2
	return Rect{Min: Point{c.X - h, c.Y - h}, Max: Point{c.X + h, c.Y + h}}
}

// Dx returns the width of r.
func (r Rect) Dx() float64 { return r.Max.X - r.Min.X }

// Dy returns the height of r.
func (r Rect) Dy() float64 { return r.Max.Y - r.Min.Y }

// Clamp limits r to bounds. An r that lies outside bounds collapses onto its
// nearest edge rather than becoming inverted.
func (r Rect) Clamp(bounds image.Rectangle) Rect {
	clamp := func(v, lo, hi float64) float64 { return math.Max(lo, math.Min(hi, v)) }
	minX, minY := float64(bounds.Min.X), float64(bounds.Min.Y)
	maxX, maxY := float64(bounds.Max.X), float64(bounds.Max.Y)
	return Rect{
		Min: Point{clamp(r.Min.X, minX, maxX), clamp(r.Min.Y, minY, maxY)},
		Max: Point{clamp(r.Max.X, minX, maxX), clamp(r.Max.Y, minY, maxY)},
	}
}

// Pixels returns the smallest integer rectangle covering r.
func (r Rect) Pixels() image.Rectangle {
	return image.Rect(
		int(math.Floor(r.Min.X)), int(math.Floor(r.Min.Y)),
		int(math.Ceil(r.Max.X)), int(math.Ceil(r.Max.Y)),
	)
}

// RectFromImage converts an integer rectangle.
func RectFromImage(r image.Rectangle) Rect {
	return Rect{
		Min: Point{float64(r.Min.X), float64(r.Min.Y)},
		Max: Point{float64(r.Max.X), float64(r.Max.Y)},
	}
}

// RectPath returns the four corners of r in clockwise order starting at Min.
func RectPath(r Rect) []Point {
	return []Point{
		r.Min,
		{r.Max.X, r.Min.Y},
		r.Max,
		{r.Min.X, r.Max.Y},
	}
}

// maxCircleSteps caps the vertex count of CirclePath; larger circles get
// longer chords.
const maxCircleSteps = 4096

// CirclePath approximates the circle of radius r around c with a closed
// polyline fine enough that each chord is about two pixels long, up to
// maxCircleSteps vertices.
func CirclePath(c Point, r float64) []Point {
	n := math.Ceil(math.Pi * r)
	steps := 16
	switch {
	case math.IsNaN(n):
	case n > maxCircleSteps:
		steps = maxCircleSteps
	case n > 16:
		steps = int(n)
	}
	pts := make([]Point, steps)
	for i := range pts {
		a := 2 * math.Pi * float64(i) / float64(steps)
		pts[i] = Point{c.X + r*math.Cos(a), c.Y + r*math.Sin(a)}
	}
	return pts
}

// PolygonPath returns the vertices of the regular polygon with the given
// number of sides centred at c. Vertex i sits at angle i·2π/sides.
func PolygonPath(c Point, r float64, sides int) []Point {
	if sides < 3 {
		return nil
	}
	step := 2 * math.Pi / float64(sides)
	pts := make([]Point, sides)
	for i := range pts {
		a := float64(i) * step
		pts[i] = Point{c.X + r*math.Cos(a), c.Y + r*math.Sin(a)}
	}
	return pts
}

// Bounds returns the bounding box of pts. It is the zero Rect for no points.
func Bounds(pts []Point) Rect {
	if len(pts) == 0 {
		return Rect{}
	}
	r := Rect{Min: pts[0], Max: pts[0]}
	for _, p := range pts[1:] {
		r.Min.X = math.Min(r.Min.X, p.X)
		r.Min.Y = math.Min(r.Min.Y, p.Y)
		r.Max.X = math.Max(r.Max.X, p.X)
		r.Max.Y = math.Max(r.Max.Y, p.Y)
	}
	return r
}
