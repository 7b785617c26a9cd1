// Package assets provides the scribble application icon, rendered on
// demand at the sizes desktop environments ask for.
package assets

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"sync"

	"github.com/example/scribble/internal/canvas"
	"github.com/example/scribble/internal/paint"
)

var sizes = []int{16, 32, 48, 64, 128, 256}

var (
	mu        sync.Mutex
	pngImages = map[int]*image.RGBA{}
	pngData   = map[int][]byte{}
)

var (
	tile  = color.RGBA{0x2b, 0x5c, 0xb8, 0xff}
	ink   = color.RGBA{0xff, 0xff, 0xff, 0xff}
	spark = color.RGBA{0xf5, 0xb8, 0x2e, 0xff}
)

func supported(size int) bool {
	for _, s := range sizes {
		if s == size {
			return true
		}
	}
	return false
}

// render draws the icon: a squiggle and a dot on a rounded tile.
func render(size int) (*image.RGBA, error) {
	c, err := canvas.New(size, size, color.RGBA{})
	if err != nil {
		return nil, err
	}
	s := float64(size)
	r := s * 0.18
	c.FillRect(paint.Rect{Min: paint.Pt(r, 0), Max: paint.Pt(s-r, s)}, tile)
	c.FillRect(paint.Rect{Min: paint.Pt(0, r), Max: paint.Pt(s, s-r)}, tile)
	for _, p := range []paint.Point{{X: r, Y: r}, {X: s - r, Y: r}, {X: r, Y: s - r}, {X: s - r, Y: s - r}} {
		c.StrokePath([]paint.Point{p}, false, paint.Pen{Color: tile, Width: 2 * r, Cap: paint.CapRound, Opacity: 1, Hardness: 1})
	}
	squiggle := []paint.Point{
		{X: s * 0.2, Y: s * 0.65},
		{X: s * 0.35, Y: s * 0.35},
		{X: s * 0.5, Y: s * 0.6},
		{X: s * 0.65, Y: s * 0.3},
	}
	c.StrokePath(squiggle, false, paint.Pen{Color: ink, Width: max(1, s*0.09), Cap: paint.CapRound, Opacity: 1, Hardness: 1})
	c.StrokePath([]paint.Point{{X: s * 0.76, Y: s * 0.72}}, false, paint.Pen{Color: spark, Width: max(2, s*0.16), Cap: paint.CapRound, Opacity: 1, Hardness: 1})
	return c.Image(), nil
}

func load(size int) (*image.RGBA, []byte, error) {
	if !supported(size) {
		return nil, nil, fmt.Errorf("icon %dpx not available", size)
	}
	mu.Lock()
	defer mu.Unlock()
	if img, ok := pngImages[size]; ok {
		return img, pngData[size], nil
	}
	img, err := render(size)
	if err != nil {
		return nil, nil, err
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, nil, err
	}
	pngImages[size] = img
	pngData[size] = buf.Bytes()
	return img, pngData[size], nil
}

// IconImage returns the icon at the requested size.
func IconImage(size int) (image.Image, error) {
	img, _, err := load(size)
	if err != nil {
		return nil, err
	}
	return img, nil
}

// IconPNG returns a copy of the PNG encoding of the icon at size.
func IconPNG(size int) ([]byte, error) {
	_, data, err := load(size)
	if err != nil {
		return nil, err
	}
	out := make([]byte, len(data))
	copy(out, data)
	return out, nil
}

// IconSizes lists the sizes IconImage accepts.
func IconSizes() []int {
	return append([]int(nil), sizes...)
}
