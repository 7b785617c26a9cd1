package session

import (
	"fmt"
	"strings"

	"github.com/example/scribble/internal/paint"
)

// Begin starts a stroke at p with the current tool. Freehand tools mark
// the point immediately and the text tool places its text there.
func (c *Controller) Begin(p paint.Point) error {
	return c.apply(func() (Change, error) { return c.begin(p) })
}

// Continue extends the active stroke to p. Freehand tools paint from the
// previous point; shape tools redraw their preview from the anchor over the
// pre-stroke canvas.
func (c *Controller) Continue(p paint.Point) error {
	return c.apply(func() (Change, error) { return c.continueTo(p) })
}

// End finishes the active stroke, keeping what was drawn and recording one
// undo entry.
func (c *Controller) End() error {
	return c.apply(func() (Change, error) {
		if c.state != Active {
			return 0, ErrNoStroke
		}
		return c.end(), nil
	})
}

func (c *Controller) begin(p paint.Point) (Change, error) {
	if c.state == Active {
		return 0, ErrStrokeActive
	}
	c.cur = stroke{tool: c.style.Tool, anchor: p, last: p, base: c.r.CaptureSnapshot()}
	c.state = Active
	if c.cur.tool.Freehand() || c.cur.tool == paint.ToolText {
		if err := c.cur.tool.Paint(c.r, c.style, p, p); err != nil {
			return PixelsChanged, err
		}
		return PixelsChanged, nil
	}
	return 0, nil
}

func (c *Controller) continueTo(p paint.Point) (Change, error) {
	if c.state != Active {
		return 0, ErrNoStroke
	}
	t := c.cur.tool
	if t.Freehand() {
		err := t.Paint(c.r, c.style, c.cur.last, p)
		c.cur.last = p
		return PixelsChanged, err
	}
	if err := c.r.RestoreSnapshot(c.cur.base); err != nil {
		return 0, fmt.Errorf("restore preview base: %w", err)
	}
	c.cur.last = p
	from := c.cur.anchor
	if t == paint.ToolText {
		from = p
	}
	return PixelsChanged, t.Paint(c.r, c.style, from, p)
}

// end commits the active stroke. The lock must be held and the state
// Active.
func (c *Controller) end() Change {
	c.hist.Commit(c.cur.base)
	c.cur = stroke{}
	c.state = Idle
	return HistoryChanged
}

// finishStroke ends any stroke in progress before an edit that replaces
// the canvas.
func (c *Controller) finishStroke() Change {
	if c.state != Active {
		return 0
	}
	return c.end()
}

// PointerKind is the kind of a pointer event.
type PointerKind int

const (
	PointerDown PointerKind = iota
	PointerMove
	PointerUp
	PointerLeave
)

var pointerNames = [...]string{"down", "move", "up", "leave"}

func (k PointerKind) String() string {
	if k < 0 || int(k) >= len(pointerNames) {
		return fmt.Sprintf("PointerKind(%d)", int(k))
	}
	return pointerNames[k]
}

// ParsePointerKind maps "down", "move", "up" and "leave" to their kinds.
func ParsePointerKind(s string) (PointerKind, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for i, n := range pointerNames {
		if n == s {
			return PointerKind(i), nil
		}
	}
	return 0, fmt.Errorf("unknown pointer event %q", s)
}

// PointerEvent is a pointer event in canvas-local coordinates.
type PointerEvent struct {
	Kind PointerKind
	At   paint.Point
}

// HandlePointer drives the stroke state machine from raw pointer input.
// Moves while idle are hover and ignored; leave ends a stroke exactly like
// up. A down during an unfinished stroke ends it first.
func (c *Controller) HandlePointer(ev PointerEvent) error {
	return c.apply(func() (Change, error) {
		switch ev.Kind {
		case PointerDown:
			change := c.finishStroke()
			more, err := c.begin(ev.At)
			return change | more, err
		case PointerMove:
			if c.state != Active {
				return 0, nil
			}
			return c.continueTo(ev.At)
		case PointerUp, PointerLeave:
			return c.finishStroke(), nil
		}
		return 0, fmt.Errorf("unknown pointer event %v", ev.Kind)
	})
}
