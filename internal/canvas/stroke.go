package canvas

import (
	"image"
	"image/draw"
	"math"

	"golang.org/x/image/vector"

	"github.com/example/scribble/internal/paint"
	"github.com/example/scribble/internal/render"
)

// StrokeSegment strokes the straight segment from→to.
func (c *Canvas) StrokeSegment(from, to paint.Point, pen paint.Pen) {
	c.stroke([]paint.Point{from, to}, false, pen)
}

// StrokePath strokes the polyline through pts, closing it back to the
// first point when closed is set. Vertices get round joins.
func (c *Canvas) StrokePath(pts []paint.Point, closed bool, pen paint.Pen) {
	c.stroke(pts, closed, pen)
}

func (c *Canvas) stroke(pts []paint.Point, closed bool, pen paint.Pen) {
	if len(pts) == 0 {
		return
	}
	half := math.Max(pen.Width, 1) / 2
	feather := featherRadius(pen, half)
	pad := half + float64(feather) + 1
	b := paint.Bounds(pts)
	box := image.Rect(
		int(math.Floor(b.Min.X-pad)), int(math.Floor(b.Min.Y-pad)),
		int(math.Ceil(b.Max.X+pad)), int(math.Ceil(b.Max.Y+pad)),
	).Intersect(c.img.Bounds())
	if box.Empty() {
		return
	}
	mask := image.NewAlpha(box)

	closed = closed && len(pts) > 2
	segs := len(pts) - 1
	if closed {
		segs = len(pts)
	}
	for i := 0; i < segs; i++ {
		a, z := pts[i], pts[(i+1)%len(pts)]
		var extendA, extendZ float64
		if !closed && pen.Cap == paint.CapSquare {
			if i == 0 {
				extendA = half
			}
			if i == segs-1 {
				extendZ = half
			}
		}
		fillPolygon(mask, segmentQuad(a, z, half, extendA, extendZ))
	}
	for i, p := range pts {
		end := i == 0 || i == len(pts)-1
		if end && !closed {
			continue
		}
		fillPolygon(mask, paint.CirclePath(p, half))
	}
	if !closed {
		first, last := pts[0], pts[len(pts)-1]
		switch pen.Cap {
		case paint.CapRound:
			fillPolygon(mask, paint.CirclePath(first, half))
			if last != first {
				fillPolygon(mask, paint.CirclePath(last, half))
			}
		case paint.CapSquare:
			if degenerate(pts) {
				fillPolygon(mask, paint.RectPath(paint.RectAround(first, 2*half)))
			}
		}
	}

	if feather > 0 {
		mask = render.Feather(mask, feather)
	}
	draw.DrawMask(c.img, mask.Bounds(), image.NewUniform(straight(pen.Color, pen.Opacity)), image.Point{}, mask, mask.Bounds().Min, draw.Over)
}

// featherRadius turns pen hardness into a blur radius: a hardness of 1 is
// a crisp edge, 0 blurs across the whole half-width.
func featherRadius(pen paint.Pen, half float64) int {
	h := max(0, min(1, pen.Hardness))
	return int(math.Round((1 - h) * half))
}

// segmentQuad returns the rectangle covering a stroke of half-width half
// along a→z, optionally pushed out past either end.
func segmentQuad(a, z paint.Point, half, extendA, extendZ float64) []paint.Point {
	dx, dy := z.X-a.X, z.Y-a.Y
	l := math.Hypot(dx, dy)
	if l == 0 {
		return nil
	}
	ux, uy := dx/l, dy/l
	a = paint.Pt(a.X-ux*extendA, a.Y-uy*extendA)
	z = paint.Pt(z.X+ux*extendZ, z.Y+uy*extendZ)
	nx, ny := -uy*half, ux*half
	return []paint.Point{
		{X: a.X + nx, Y: a.Y + ny},
		{X: z.X + nx, Y: z.Y + ny},
		{X: z.X - nx, Y: z.Y - ny},
		{X: a.X - nx, Y: a.Y - ny},
	}
}

func degenerate(pts []paint.Point) bool {
	for _, p := range pts[1:] {
		if p != pts[0] {
			return false
		}
	}
	return true
}

// fillPolygon adds the coverage of the closed polygon pts to mask. The
// rasterizer is sized to the polygon's own bounding box so small shapes
// stay cheap on large masks.
func fillPolygon(mask *image.Alpha, pts []paint.Point) {
	if len(pts) < 3 {
		return
	}
	pb := paint.Bounds(pts).Pixels().Intersect(mask.Bounds())
	if pb.Empty() {
		return
	}
	pts = clipPolygon(pts, paint.RectFromImage(pb.Inset(-1)))
	if len(pts) < 3 {
		return
	}
	r := vector.NewRasterizer(pb.Dx(), pb.Dy())
	r.DrawOp = draw.Over
	ox, oy := float64(pb.Min.X), float64(pb.Min.Y)
	r.MoveTo(float32(pts[0].X-ox), float32(pts[0].Y-oy))
	for _, p := range pts[1:] {
		r.LineTo(float32(p.X-ox), float32(p.Y-oy))
	}
	r.ClosePath()
	r.Draw(mask, pb, image.Opaque, image.Point{})
}

// clipPolygon clips pts to the rectangle r, one edge at a time. Coverage
// inside r is unchanged; vertices far outside it never reach the
// rasterizer.
func clipPolygon(pts []paint.Point, r paint.Rect) []paint.Point {
	edges := []struct {
		inside func(paint.Point) bool
		cross  func(a, z paint.Point) paint.Point
	}{
		{func(p paint.Point) bool { return p.X >= r.Min.X }, func(a, z paint.Point) paint.Point { return atX(a, z, r.Min.X) }},
		{func(p paint.Point) bool { return p.X <= r.Max.X }, func(a, z paint.Point) paint.Point { return atX(a, z, r.Max.X) }},
		{func(p paint.Point) bool { return p.Y >= r.Min.Y }, func(a, z paint.Point) paint.Point { return atY(a, z, r.Min.Y) }},
		{func(p paint.Point) bool { return p.Y <= r.Max.Y }, func(a, z paint.Point) paint.Point { return atY(a, z, r.Max.Y) }},
	}
	for _, e := range edges {
		if len(pts) == 0 {
			return nil
		}
		out := make([]paint.Point, 0, len(pts)+2)
		prev := pts[len(pts)-1]
		for _, p := range pts {
			switch in, prevIn := e.inside(p), e.inside(prev); {
			case in && prevIn:
				out = append(out, p)
			case in:
				out = append(out, e.cross(prev, p), p)
			case prevIn:
				out = append(out, e.cross(prev, p))
			}
			prev = p
		}
		pts = out
	}
	return pts
}

func atX(a, z paint.Point, x float64) paint.Point {
	t := (x - a.X) / (z.X - a.X)
	return paint.Pt(x, a.Y+t*(z.Y-a.Y))
}

func atY(a, z paint.Point, y float64) paint.Point {
	t := (y - a.Y) / (z.Y - a.Y)
	return paint.Pt(a.X+t*(z.X-a.X), y)
}
