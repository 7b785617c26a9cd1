package session

import (
	"bytes"
	"fmt"
	"image"
	"image/draw"
	"image/png"
	"io"

	"github.com/example/scribble/internal/paint"
)

// Undo restores the newest undo entry, moving the current canvas onto the
// redo stack. It reports false when there was nothing to undo. A stroke in
// progress is ended first.
func (c *Controller) Undo() (bool, error) {
	var did bool
	err := c.apply(func() (Change, error) {
		change := c.finishStroke()
		if !c.hist.CanUndo() {
			return change, nil
		}
		snap, _ := c.hist.Undo(c.r.CaptureSnapshot())
		if err := c.r.RestoreSnapshot(snap); err != nil {
			c.hist.Redo(snap)
			return change, fmt.Errorf("undo: %w", err)
		}
		did = true
		return change | HistoryChanged | PixelsChanged, nil
	})
	return did, err
}

// Redo reapplies the newest undone edit. It reports false when the redo
// stack is empty.
func (c *Controller) Redo() (bool, error) {
	var did bool
	err := c.apply(func() (Change, error) {
		change := c.finishStroke()
		if !c.hist.CanRedo() {
			return change, nil
		}
		snap, _ := c.hist.Redo(c.r.CaptureSnapshot())
		if err := c.r.RestoreSnapshot(snap); err != nil {
			c.hist.Undo(snap)
			return change, fmt.Errorf("redo: %w", err)
		}
		did = true
		return change | HistoryChanged | PixelsChanged, nil
	})
	return did, err
}

// Clear fills the canvas with the background color as an undoable edit.
func (c *Controller) Clear() error {
	return c.apply(func() (Change, error) {
		c.finishStroke()
		c.hist.Commit(c.r.CaptureSnapshot())
		c.r.FillRect(paint.RectFromImage(c.r.Bounds()), c.style.Background)
		return PixelsChanged | HistoryChanged, nil
	})
}

// Resize changes the canvas size as an undoable edit. Pixels stay anchored
// at the top-left and new area is filled with the background color.
func (c *Controller) Resize(width, height int) error {
	return c.apply(func() (Change, error) { return c.resize(width, height) })
}

func (c *Controller) resize(width, height int) (Change, error) {
	rs, ok := c.r.(paint.Resizer)
	if !ok {
		return 0, ErrNotResizable
	}
	if width <= 0 || height <= 0 {
		return 0, &paint.ParameterError{Field: FieldCanvasSize, Value: fmt.Sprintf("%dx%d", width, height), Reason: "must be positive"}
	}
	change := c.finishStroke()
	if c.r.Bounds().Size() == image.Pt(width, height) {
		return change, nil
	}
	before := c.r.CaptureSnapshot()
	if err := rs.Resize(width, height, c.style.Background); err != nil {
		return change, &paint.ParameterError{Field: FieldCanvasSize, Value: fmt.Sprintf("%dx%d", width, height), Reason: err.Error()}
	}
	c.hist.Commit(before)
	return change | PixelsChanged | HistoryChanged, nil
}

// Size returns the canvas size.
func (c *Controller) Size() image.Point {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.r.Bounds().Size()
}

// Export writes the canvas as PNG. It does not change the session.
func (c *Controller) Export(w io.Writer) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.r.Encode(w)
}

// Image returns a copy of the canvas pixels.
func (c *Controller) Image() (*image.RGBA, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if im, ok := c.r.(paint.Imager); ok {
		return im.Image(), nil
	}
	var buf bytes.Buffer
	if err := c.r.Encode(&buf); err != nil {
		return nil, err
	}
	src, err := png.Decode(&buf)
	if err != nil {
		return nil, fmt.Errorf("decode canvas: %w", err)
	}
	b := src.Bounds()
	out := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(out, out.Bounds(), src, b.Min, draw.Src)
	return out, nil
}

// Flip mirrors the canvas horizontally or vertically as an undoable edit.
func (c *Controller) Flip(horizontal bool) error {
	return c.apply(func() (Change, error) {
		f, ok := c.r.(paint.Flipper)
		if !ok {
			return 0, ErrNotFlippable
		}
		change := c.finishStroke()
		c.hist.Commit(c.r.CaptureSnapshot())
		f.Flip(horizontal)
		return change | PixelsChanged | HistoryChanged, nil
	})
}
