package canvas

import (
	"fmt"
	"image"
	"image/color"
	"math"
	"sync"

	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"

	"github.com/example/scribble/internal/paint"
)

var (
	regularOnce sync.Once
	regularFont *opentype.Font
	regularErr  error

	faces sync.Map // map[float64]font.Face
)

func faceForSize(size float64) (font.Face, error) {
	if size <= 0 || math.IsNaN(size) {
		return nil, fmt.Errorf("text size %v must be positive", size)
	}
	regularOnce.Do(func() {
		regularFont, regularErr = opentype.Parse(goregular.TTF)
	})
	if regularErr != nil {
		return nil, fmt.Errorf("text font: %w", regularErr)
	}
	if face, ok := faces.Load(size); ok {
		return face.(font.Face), nil
	}
	face, err := opentype.NewFace(regularFont, &opentype.FaceOptions{Size: size, DPI: 72, Hinting: font.HintingFull})
	if err != nil {
		return nil, err
	}
	actual, _ := faces.LoadOrStore(size, face)
	return actual.(font.Face), nil
}

// DrawText renders text with its baseline starting at at.
func (c *Canvas) DrawText(text string, at paint.Point, f paint.Font, col color.RGBA, opacity float64) error {
	if text == "" {
		return nil
	}
	face, err := faceForSize(f.Size)
	if err != nil {
		return err
	}
	d := &font.Drawer{
		Dst:  c.img,
		Src:  image.NewUniform(straight(col, opacity)),
		Face: face,
		Dot:  fixed.Point26_6{X: fixed.Int26_6(math.Round(at.X * 64)), Y: fixed.Int26_6(math.Round(at.Y * 64))},
	}
	d.DrawString(text)
	return nil
}

// MeasureText returns the advance width of text and the ascent and descent
// of the face at size, in pixels.
func MeasureText(text string, size float64) (width, ascent, descent int, err error) {
	face, err := faceForSize(size)
	if err != nil {
		return 0, 0, 0, err
	}
	m := face.Metrics()
	return font.MeasureString(face, text).Ceil(), m.Ascent.Ceil(), m.Descent.Ceil(), nil
}
