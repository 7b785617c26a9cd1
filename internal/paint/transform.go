package paint

import (
	"image"
	"math"

	"golang.org/x/image/math/f64"
)

// Transform is the view transform of the canvas: a rotation in degrees
// about the canvas centre followed by a uniform zoom.
type Transform struct {
	Rotation float64
	Zoom     float64
}

func (t Transform) zoom() float64 {
	if t.Zoom <= 0 {
		return 1
	}
	return t.Zoom
}

// ViewSize returns the size of the smallest view that holds a canvas of the
// given size after the transform.
func (t Transform) ViewSize(canvas image.Point) image.Point {
	rad := t.Rotation * math.Pi / 180
	sin, cos := math.Abs(math.Sin(rad)), math.Abs(math.Cos(rad))
	z := t.zoom()
	w := float64(canvas.X) * z
	h := float64(canvas.Y) * z
	return image.Pt(
		int(math.Ceil(w*cos+h*sin-1e-9)),
		int(math.Ceil(w*sin+h*cos-1e-9)),
	)
}

// Matrix returns the affine map from canvas coordinates to view
// coordinates for a canvas of the given size.
func (t Transform) Matrix(canvas image.Point) f64.Aff3 {
	rad := t.Rotation * math.Pi / 180
	z := t.zoom()
	sin, cos := math.Sin(rad), math.Cos(rad)
	view := t.ViewSize(canvas)
	cx, cy := float64(canvas.X)/2, float64(canvas.Y)/2
	vx, vy := float64(view.X)/2, float64(view.Y)/2
	a, b := z*cos, -z*sin
	d, e := z*sin, z*cos
	return f64.Aff3{
		a, b, vx - (a*cx + b*cy),
		d, e, vy - (d*cx + e*cy),
	}
}

// ToView maps a canvas point into view coordinates.
func (t Transform) ToView(p Point, canvas image.Point) Point {
	m := t.Matrix(canvas)
	return Point{
		X: m[0]*p.X + m[1]*p.Y + m[2],
		Y: m[3]*p.X + m[4]*p.Y + m[5],
	}
}

// ToCanvas maps a view point back into canvas-local coordinates.
func (t Transform) ToCanvas(p Point, canvas image.Point) Point {
	m := t.Matrix(canvas)
	x := p.X - m[2]
	y := p.Y - m[5]
	det := m[0]*m[4] - m[1]*m[3]
	return Point{
		X: (m[4]*x - m[1]*y) / det,
		Y: (-m[3]*x + m[0]*y) / det,
	}
}
