package appstate

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"log"
	"strings"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"

	"github.com/example/scribble/internal/paint"
	"github.com/example/scribble/internal/session"
	"github.com/example/scribble/internal/theme"
)

const (
	toolbarWidth = 104
	statusHeight = 24
	buttonHeight = 22
	swatchSize   = 16
	swatchStride = 18
	sizeRowH     = 16
	gap          = 4
)

// frameDropThreshold specifies how many consecutive frames can be canceled
// before a draw is allowed to complete to keep the UI responsive.
const frameDropThreshold = 10

var (
	palette = []color.RGBA{
		{0, 0, 0, 255},
		{255, 255, 255, 255},
		{255, 0, 0, 255},
		{0, 255, 0, 255},
		{0, 0, 255, 255},
		{255, 255, 0, 255},
		{0, 255, 255, 255},
		{255, 0, 255, 255},
		{128, 0, 0, 255},
		{0, 128, 0, 255},
		{0, 0, 128, 255},
		{128, 128, 0, 255},
		{0, 128, 128, 255},
		{128, 0, 128, 255},
		{192, 192, 192, 255},
		{128, 128, 128, 255},
	}
	brushSizes = []float64{1, 2, 5, 10, 20, 40}
)

// Palette returns a copy of the swatches offered in the toolbar.
func Palette() []color.RGBA {
	out := make([]color.RGBA, len(palette))
	copy(out, palette)
	return out
}

// BrushSizes returns a copy of the size presets offered in the toolbar.
func BrushSizes() []float64 {
	out := make([]float64, len(brushSizes))
	copy(out, brushSizes)
	return out
}

var messageFace font.Face

func init() {
	f, err := opentype.Parse(goregular.TTF)
	if err != nil {
		log.Fatalf("parse font: %v", err)
	}
	messageFace, err = opentype.NewFace(f, &opentype.FaceOptions{Size: 32, DPI: 72, Hinting: font.HintingFull})
	if err != nil {
		log.Fatalf("font face: %v", err)
	}
}

// ButtonState describes the visual state of a button.
type ButtonState int

const (
	StateDefault ButtonState = iota
	StateHover
	StatePressed
)

// Button represents an interactive UI element.
// Activate performs the button's action when clicked.
type Button interface {
	Draw(dst *image.RGBA, th *theme.Theme, state ButtonState)
	Rect() image.Rectangle
	SetRect(r image.Rectangle)
	Activate()
}

// CacheButton wraps another Button and caches its rendered states.
type CacheButton struct {
	Button
	th    *theme.Theme
	cache [3]*image.RGBA
}

var _ Button = (*CacheButton)(nil)

func (cb *CacheButton) Draw(dst *image.RGBA, th *theme.Theme, state ButtonState) {
	if cb.th != th {
		cb.th = th
		cb.cache = [3]*image.RGBA{}
	}
	if cb.cache[state] == nil {
		img := image.NewRGBA(cb.Button.Rect())
		cb.Button.Draw(img, th, state)
		cb.cache[state] = img
	}
	draw.Draw(dst, cb.Button.Rect(), cb.cache[state], cb.Button.Rect().Min, draw.Src)
}

func (cb *CacheButton) SetRect(r image.Rectangle) {
	if r != cb.Button.Rect() {
		cb.Button.SetRect(r)
		cb.cache = [3]*image.RGBA{}
	}
}

// LabelButton is a toolbar or status bar button showing a text label.
type LabelButton struct {
	label    string
	rect     image.Rectangle
	onSelect func()
}

func (b *LabelButton) Draw(dst *image.RGBA, th *theme.Theme, state ButtonState) {
	c := th.ButtonBackground
	switch state {
	case StateHover:
		c = blend(th.ButtonBackground, th.ButtonActive, 0.5)
	case StatePressed:
		c = th.ButtonActive
	}
	draw.Draw(dst, b.rect, image.NewUniform(c), image.Point{}, draw.Src)
	outline(dst, b.rect, th.ButtonBorder)
	d := &font.Drawer{Dst: dst, Src: image.NewUniform(th.ButtonText), Face: basicfont.Face7x13,
		Dot: fixed.P(b.rect.Min.X+4, b.rect.Min.Y+(b.rect.Dy()+10)/2)}
	d.DrawString(b.label)
}

func (b *LabelButton) Rect() image.Rectangle     { return b.rect }
func (b *LabelButton) SetRect(r image.Rectangle) { b.rect = r }
func (b *LabelButton) Activate() {
	if b.onSelect != nil {
		b.onSelect()
	}
}

// toolLabel returns the toolbar label for t, prefixed with its key.
func toolLabel(t paint.Tool) string {
	name := t.String()
	k := toolKeys[t]
	return fmt.Sprintf("%c:%s", k, strings.ToUpper(name[:1])+name[1:])
}

func blend(a, b color.RGBA, t float64) color.RGBA {
	mix := func(x, y uint8) uint8 { return uint8(float64(x)*(1-t) + float64(y)*t + 0.5) }
	return color.RGBA{mix(a.R, b.R), mix(a.G, b.G), mix(a.B, b.B), 255}
}

func outline(dst *image.RGBA, r image.Rectangle, c color.Color) {
	u := image.NewUniform(c)
	draw.Draw(dst, image.Rect(r.Min.X, r.Min.Y, r.Max.X, r.Min.Y+1), u, image.Point{}, draw.Src)
	draw.Draw(dst, image.Rect(r.Min.X, r.Max.Y-1, r.Max.X, r.Max.Y), u, image.Point{}, draw.Src)
	draw.Draw(dst, image.Rect(r.Min.X, r.Min.Y, r.Min.X+1, r.Max.Y), u, image.Point{}, draw.Src)
	draw.Draw(dst, image.Rect(r.Max.X-1, r.Min.Y, r.Max.X, r.Max.Y), u, image.Point{}, draw.Src)
}

// drawCheckerboard fills rect of dst with a checkerboard pattern of the given
// colors. size controls the checker square size.
func drawCheckerboard(dst *image.RGBA, rect image.Rectangle, size int, light, dark color.Color) {
	for y := rect.Min.Y; y < rect.Max.Y; y++ {
		for x := rect.Min.X; x < rect.Max.X; x++ {
			if ((x/size)+(y/size))%2 == 0 {
				dst.Set(x, y, light)
			} else {
				dst.Set(x, y, dark)
			}
		}
	}
}

func drawOver(dst *image.RGBA, r image.Rectangle, src image.Image) {
	draw.Draw(dst, r, src, src.Bounds().Min, draw.Over)
}

// chrome draws everything around the canvas view.
type chrome struct {
	th        *theme.Theme
	tools     []*CacheButton
	presets   []*CacheButton
	shortcuts []*CacheButton
	checker   *image.RGBA
}

// backdrop fills dst with the window background and puts a cached
// checkerboard behind the canvas view.
func (c *chrome) backdrop(dst *image.RGBA, view image.Rectangle) {
	draw.Draw(dst, dst.Bounds(), image.NewUniform(c.th.Background), image.Point{}, draw.Src)
	if c.checker == nil || c.checker.Bounds().Dx() < view.Dx() || c.checker.Bounds().Dy() < view.Dy() {
		c.checker = image.NewRGBA(image.Rectangle{Max: view.Size()})
		drawCheckerboard(c.checker, c.checker.Bounds(), 8, c.th.CheckerLight, c.th.CheckerDark)
	}
	draw.Draw(dst, view, c.checker, image.Point{}, draw.Src)
}

func (c *chrome) toolbar(dst *image.RGBA, l layout, st session.Status, h hover, presetIdx int) {
	draw.Draw(dst, l.toolbar, image.NewUniform(c.th.ToolbarBackground), image.Point{}, draw.Src)
	for i, cb := range c.tools {
		cb.SetRect(l.tools[i])
		state := StateDefault
		if paint.Tool(i).String() == st.Tool {
			state = StatePressed
		} else if h.region == regionTool && h.index == i {
			state = StateHover
		}
		cb.Draw(dst, c.th, state)
	}

	selected, _ := paint.ParseColor(st.Color)
	for i, r := range l.swatches {
		draw.Draw(dst, r, image.NewUniform(palette[i]), image.Point{}, draw.Src)
		switch {
		case palette[i] == selected:
			outline(dst, r.Inset(-1), c.th.ButtonActive)
			outline(dst, r, c.th.Foreground)
		case h.region == regionSwatch && h.index == i:
			outline(dst, r, c.th.ButtonBorder)
		}
	}

	for i, r := range l.sizes {
		bg := c.th.ButtonBackground
		if brushSizes[i] == st.Size {
			bg = c.th.ButtonActive
		} else if h.region == regionSize && h.index == i {
			bg = blend(c.th.ButtonBackground, c.th.ButtonActive, 0.5)
		}
		draw.Draw(dst, r, image.NewUniform(bg), image.Point{}, draw.Src)
		d := &font.Drawer{Dst: dst, Src: image.NewUniform(c.th.ButtonText), Face: basicfont.Face7x13,
			Dot: fixed.P(r.Min.X+4, r.Min.Y+12)}
		d.DrawString(fmt.Sprintf("%g", brushSizes[i]))
		thick := int(min(brushSizes[i], float64(r.Dy()-2)))
		y := r.Min.Y + (r.Dy()-thick)/2
		draw.Draw(dst, image.Rect(r.Min.X+30, y, r.Max.X-4, y+max(thick, 1)), image.NewUniform(selected), image.Point{}, draw.Over)
	}

	for i, cb := range c.presets {
		cb.SetRect(l.presets[i])
		state := StateDefault
		if i == presetIdx {
			state = StatePressed
		} else if h.region == regionPreset && h.index == i {
			state = StateHover
		}
		cb.Draw(dst, c.th, state)
	}
}

func (c *chrome) status(dst *image.RGBA, l layout, st session.Status, h hover, editing *textEdit) {
	draw.Draw(dst, l.status, image.NewUniform(c.th.StatusBackground), image.Point{}, draw.Src)
	line := statusLine(st)
	if editing != nil {
		line = "text: " + editing.value + "|  (Enter to keep, Esc to cancel)"
	}
	d := &font.Drawer{Dst: dst, Src: image.NewUniform(c.th.StatusText), Face: basicfont.Face7x13,
		Dot: fixed.P(l.status.Min.X+4, l.status.Min.Y+16)}
	d.DrawString(line)
	for i, cb := range c.shortcuts {
		cb.SetRect(l.shortcuts[i])
		state := StateDefault
		if h.region == regionShortcut && h.index == i {
			state = StateHover
		}
		cb.Draw(dst, c.th, state)
	}
}

// statusLine summarizes the session for the status bar.
func statusLine(st session.Status) string {
	return fmt.Sprintf("%s  %s  size %g  opacity %.0f%%  zoom %.0f%%  %g°  %dx%d  undo %d  redo %d",
		st.Tool, st.Color, st.Size, st.Opacity*100, st.Zoom*100, st.Rotation, st.Width, st.Height, st.Undo, st.Redo)
}

func (c *chrome) message(dst *image.RGBA, msg string) {
	d := &font.Drawer{Dst: dst, Src: image.NewUniform(c.th.Foreground), Face: messageFace}
	b := dst.Bounds()
	w := d.MeasureString(msg).Ceil()
	m := messageFace.Metrics()
	ascent, descent := m.Ascent.Ceil(), m.Descent.Ceil()
	px := (b.Dx() - w) / 2
	py := (b.Dy()-ascent-descent)/2 + ascent
	rect := image.Rect(px-8, py-ascent-8, px+w+8, py+descent+8)
	bg := c.th.StatusBackground
	bg.A = 230
	draw.Draw(dst, rect, image.NewUniform(bg), image.Point{}, draw.Over)
	outline(dst, rect, c.th.ButtonBorder)
	d.Dot = fixed.P(px, py)
	d.DrawString(msg)
}
