// Package canvas implements paint.Rasterizer on top of an in-memory RGBA
// image.
package canvas

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"io"

	"github.com/example/scribble/internal/paint"
)

// MaxDimension bounds the width and height of a canvas.
const MaxDimension = 16384

// Canvas is a flat raster surface. All coordinates are canvas-local with
// the origin at the top-left pixel.
type Canvas struct {
	img *image.RGBA
}

var (
	_ paint.Rasterizer = (*Canvas)(nil)
	_ paint.Resizer    = (*Canvas)(nil)
	_ paint.Imager     = (*Canvas)(nil)
)

// New returns a width×height canvas filled with bg.
func New(width, height int, bg color.RGBA) (*Canvas, error) {
	if err := checkSize(width, height); err != nil {
		return nil, err
	}
	c := &Canvas{img: image.NewRGBA(image.Rect(0, 0, width, height))}
	c.FillRect(paint.RectFromImage(c.img.Bounds()), bg)
	return c, nil
}

// FromImage returns a canvas holding a copy of src, rebased so its
// top-left corner is the origin.
func FromImage(src image.Image) *Canvas {
	b := src.Bounds()
	img := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(img, img.Bounds(), src, b.Min, draw.Src)
	return &Canvas{img: img}
}

func checkSize(width, height int) error {
	if width <= 0 || height <= 0 || width > MaxDimension || height > MaxDimension {
		return fmt.Errorf("canvas size %dx%d out of range", width, height)
	}
	return nil
}

// Bounds returns the canvas rectangle.
func (c *Canvas) Bounds() image.Rectangle { return c.img.Bounds() }

// Image returns a copy of the canvas pixels.
func (c *Canvas) Image() *image.RGBA { return cloneRGBA(c.img) }

// FillRect paints r with col, replacing what was there. Color channels are
// straight alpha.
func (c *Canvas) FillRect(r paint.Rect, col color.RGBA) {
	rect := r.Pixels().Intersect(c.img.Bounds())
	if rect.Empty() {
		return
	}
	draw.Draw(c.img, rect, image.NewUniform(straight(col, 1)), image.Point{}, draw.Src)
}

// ClearRect makes r fully transparent.
func (c *Canvas) ClearRect(r paint.Rect) {
	rect := r.Pixels().Intersect(c.img.Bounds())
	if rect.Empty() {
		return
	}
	draw.Draw(c.img, rect, image.Transparent, image.Point{}, draw.Src)
}

// Resize changes the canvas size. Existing pixels keep their position
// relative to the top-left corner and uncovered area is filled with fill.
func (c *Canvas) Resize(width, height int, fill color.RGBA) error {
	if err := checkSize(width, height); err != nil {
		return err
	}
	out := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.Draw(out, out.Bounds(), image.NewUniform(straight(fill, 1)), image.Point{}, draw.Src)
	keep := c.img.Bounds().Intersect(out.Bounds())
	draw.Draw(out, keep, c.img, keep.Min, draw.Src)
	c.img = out
	return nil
}

// Encode writes the canvas as PNG.
func (c *Canvas) Encode(w io.Writer) error {
	return png.Encode(w, c.img)
}

func cloneRGBA(src *image.RGBA) *image.RGBA {
	out := image.NewRGBA(src.Bounds())
	copy(out.Pix, src.Pix)
	return out
}

// straight converts a straight-alpha color with an extra opacity factor
// into a color.NRGBA the draw package understands.
func straight(col color.RGBA, opacity float64) color.NRGBA {
	opacity = max(0, min(1, opacity))
	return color.NRGBA{R: col.R, G: col.G, B: col.B, A: uint8(float64(col.A)*opacity + 0.5)}
}
