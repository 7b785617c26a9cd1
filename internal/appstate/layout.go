package appstate

import (
	"image"

	"github.com/example/scribble/internal/paint"
)

type region int

const (
	regionNone region = iota
	regionTool
	regionSwatch
	regionSize
	regionPreset
	regionShortcut
	regionCanvas
)

// layout holds where every element of the window is for one frame.
type layout struct {
	toolbar   image.Rectangle
	status    image.Rectangle
	tools     []image.Rectangle
	swatches  []image.Rectangle
	sizes     []image.Rectangle
	presets   []image.Rectangle
	shortcuts []image.Rectangle
	view      image.Rectangle // rendered canvas
}

// hover names the element under the pointer.
type hover struct {
	region region
	index  int
}

// computeLayout places the toolbar on the left, the status bar along the
// bottom and centres a view of viewSize in the remaining area, shifted by
// pan.
func computeLayout(win, viewSize, pan image.Point, presets int, shortcutWidths []int) layout {
	l := layout{
		toolbar: image.Rect(0, 0, toolbarWidth, win.Y-statusHeight),
		status:  image.Rect(0, win.Y-statusHeight, win.X, win.Y),
	}
	y := gap
	for range paint.Tools() {
		l.tools = append(l.tools, image.Rect(gap, y, toolbarWidth-gap, y+buttonHeight))
		y += buttonHeight + 2
	}
	y += gap
	x := gap
	for range palette {
		if x+swatchSize > toolbarWidth-gap {
			x = gap
			y += swatchStride
		}
		l.swatches = append(l.swatches, image.Rect(x, y, x+swatchSize, y+swatchSize))
		x += swatchStride
	}
	y += swatchStride + gap
	for range brushSizes {
		l.sizes = append(l.sizes, image.Rect(gap, y, toolbarWidth-gap, y+sizeRowH))
		y += sizeRowH
	}
	y += gap
	for i := 0; i < presets; i++ {
		l.presets = append(l.presets, image.Rect(gap, y, toolbarWidth-gap, y+buttonHeight))
		y += buttonHeight + 2
	}

	x = win.X - gap
	for i := len(shortcutWidths) - 1; i >= 0; i-- {
		r := image.Rect(x-shortcutWidths[i], l.status.Min.Y+2, x, l.status.Max.Y-2)
		l.shortcuts = append([]image.Rectangle{r}, l.shortcuts...)
		x = r.Min.X - gap
	}

	area := image.Rect(toolbarWidth, 0, win.X, win.Y-statusHeight)
	origin := image.Pt(
		area.Min.X+(area.Dx()-viewSize.X)/2,
		area.Min.Y+(area.Dy()-viewSize.Y)/2,
	).Add(pan)
	l.view = image.Rectangle{Min: origin, Max: origin.Add(viewSize)}
	return l
}

// hit finds the element at p. Toolbar and status bar elements win over a
// canvas view that extends beneath them.
func (l layout) hit(p image.Point) hover {
	find := func(rs []image.Rectangle) int {
		for i, r := range rs {
			if p.In(r) {
				return i
			}
		}
		return -1
	}
	switch {
	case p.In(l.toolbar):
		for _, g := range []struct {
			r  region
			rs []image.Rectangle
		}{{regionTool, l.tools}, {regionSwatch, l.swatches}, {regionSize, l.sizes}, {regionPreset, l.presets}} {
			if i := find(g.rs); i >= 0 {
				return hover{g.r, i}
			}
		}
		return hover{regionNone, -1}
	case p.In(l.status):
		if i := find(l.shortcuts); i >= 0 {
			return hover{regionShortcut, i}
		}
		return hover{regionNone, -1}
	case p.In(l.view):
		return hover{regionCanvas, 0}
	}
	return hover{regionNone, -1}
}

// toCanvas maps a window point inside the view to canvas coordinates.
func (l layout) toCanvas(p image.Point, t paint.Transform, canvasSize image.Point) paint.Point {
	local := paint.Pt(float64(p.X-l.view.Min.X)+0.5, float64(p.Y-l.view.Min.Y)+0.5)
	return t.ToCanvas(local, canvasSize)
}

// windowSize picks an initial window size that fits the view without
// growing beyond a typical screen.
func windowSize(viewSize image.Point) image.Point {
	w := min(max(viewSize.X+toolbarWidth+2*gap, 800), 1600)
	h := min(max(viewSize.Y+statusHeight+2*gap, 600), 1000)
	return image.Pt(w, h)
}
