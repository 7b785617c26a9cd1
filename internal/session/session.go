// Package session implements the drawing session controller: the tool and
// style state of one canvas, stroke dispatch, and snapshot-based undo/redo.
//
// A Controller owns its state exclusively. Every exported method takes the
// controller lock, so callers on different goroutines (the window loop,
// remote clients, a script runner) see each operation applied atomically.
package session

import (
	"errors"
	"log"
	"sync"

	"github.com/example/scribble/internal/history"
	"github.com/example/scribble/internal/paint"
)

var (
	// ErrUnknownField is returned by Control for a field outside the
	// recognised control set.
	ErrUnknownField = errors.New("unknown control field")
	// ErrStrokeActive is returned by Begin while a stroke is in progress.
	ErrStrokeActive = errors.New("stroke already active")
	// ErrNoStroke is returned by Continue and End while idle.
	ErrNoStroke = errors.New("no active stroke")
	// ErrNotResizable is returned by Resize when the rasterizer cannot
	// change size.
	ErrNotResizable = errors.New("canvas cannot be resized")
	// ErrNotFlippable is returned by Flip when the rasterizer cannot mirror
	// its canvas.
	ErrNotFlippable = errors.New("canvas cannot be flipped")
)

// State is the stroke state of a session.
type State int

const (
	Idle State = iota
	Active
)

func (s State) String() string {
	if s == Active {
		return "active"
	}
	return "idle"
}

// Change describes what an operation altered.
type Change uint8

const (
	PixelsChanged Change = 1 << iota
	StyleChanged
	HistoryChanged
)

// Listener is told about every change after the controller lock has been
// released, so it may call back into the controller.
type Listener func(Change)

// stroke is the in-progress interaction between Begin and End.
type stroke struct {
	tool   paint.Tool
	anchor paint.Point
	last   paint.Point
	// base is the pre-stroke capture. Shape previews are redrawn over it
	// and it becomes the undo entry when the stroke ends.
	base paint.Snapshot
}

// Controller is a drawing session bound to one rasterizer.
type Controller struct {
	mu        sync.Mutex
	r         paint.Rasterizer
	style     paint.Style
	hist      *history.History[paint.Snapshot]
	state     State
	cur       stroke
	logger    *log.Logger
	listeners []Listener
}

// Option configures a Controller.
type Option func(*options)

type options struct {
	style     paint.Style
	limit     int
	logger    *log.Logger
	listeners []Listener
}

// WithStyle sets the initial tool and style.
func WithStyle(s paint.Style) Option {
	return func(o *options) { o.style = s }
}

// WithHistoryLimit bounds the undo stack. Zero means unbounded.
func WithHistoryLimit(n int) Option {
	return func(o *options) { o.limit = n }
}

// WithLogger directs warnings to l instead of the standard logger.
func WithLogger(l *log.Logger) Option {
	return func(o *options) { o.logger = l }
}

// WithListener registers fn to be called after every change.
func WithListener(fn Listener) Option {
	return func(o *options) { o.listeners = append(o.listeners, fn) }
}

// New returns an idle controller drawing through r. The rasterizer is
// used as is; callers prepare its initial contents.
func New(r paint.Rasterizer, opts ...Option) (*Controller, error) {
	o := options{
		style:  paint.DefaultStyle(),
		limit:  history.DefaultLimit,
		logger: log.Default(),
	}
	for _, opt := range opts {
		opt(&o)
	}
	if err := o.style.Validate(); err != nil {
		return nil, err
	}
	return &Controller{
		r:         r,
		style:     o.style,
		hist:      history.New[paint.Snapshot](o.limit),
		logger:    o.logger,
		listeners: o.listeners,
	}, nil
}

// OnChange registers fn to be called after every change.
func (c *Controller) OnChange(fn Listener) {
	c.mu.Lock()
	c.listeners = append(c.listeners, fn)
	c.mu.Unlock()
}

// Style returns the current tool and style.
func (c *Controller) Style() paint.Style {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.style
}

// State reports whether a stroke is in progress.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// UndoDepth returns the number of undoable edits.
func (c *Controller) UndoDepth() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.hist.UndoLen()
}

// RedoDepth returns the number of redoable edits.
func (c *Controller) RedoDepth() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.hist.RedoLen()
}

// HistoryLimit returns the configured undo depth, zero meaning unbounded.
func (c *Controller) HistoryLimit() int { return c.hist.Limit() }

// apply runs fn under the lock and notifies listeners of the change it
// reports once the lock is released.
func (c *Controller) apply(fn func() (Change, error)) error {
	change, listeners, err := func() (Change, []Listener, error) {
		c.mu.Lock()
		defer c.mu.Unlock()
		change, err := fn()
		return change, c.listeners, err
	}()
	if change != 0 {
		for _, l := range listeners {
			l(change)
		}
	}
	return err
}
