package canvas

import (
	"image"
	"image/draw"

	xdraw "golang.org/x/image/draw"

	"github.com/example/scribble/internal/paint"
)

// Render returns src as seen through t: scaled by the zoom and rotated
// about its centre. Unrotated views use nearest-neighbour sampling so
// zoomed pixels stay sharp.
func Render(src *image.RGBA, t paint.Transform) *image.RGBA {
	size := src.Bounds().Size()
	dst := image.NewRGBA(image.Rectangle{Max: t.ViewSize(size)})
	switch {
	case paint.NormalizeDegrees(t.Rotation) == 0 && (t.Zoom == 1 || t.Zoom == 0):
		draw.Draw(dst, dst.Bounds(), src, src.Bounds().Min, draw.Src)
	case paint.NormalizeDegrees(t.Rotation) == 0:
		xdraw.NearestNeighbor.Scale(dst, dst.Bounds(), src, src.Bounds(), xdraw.Src, nil)
	default:
		xdraw.ApproxBiLinear.Transform(dst, t.Matrix(size), src, src.Bounds(), xdraw.Src, nil)
	}
	return dst
}
