package script

import (
	"errors"
	"fmt"
	"image"
	"io"
	"strconv"
	"strings"

	"github.com/example/scribble/internal/export"
	"github.com/example/scribble/internal/paint"
	"github.com/example/scribble/internal/preset"
	"github.com/example/scribble/internal/session"
)

// PresetSource resolves preset names.
type PresetSource interface {
	Load(name string) (*preset.Preset, error)
}

// Runner executes commands against a session.
type Runner struct {
	Session *session.Controller
	Presets PresetSource
	// Out receives status output. Nil discards it.
	Out io.Writer
	// Output is the export path used when export has no argument. Empty
	// means export.DefaultFilename.
	Output string
	// Save writes an exported image and returns the path written.
	// Nil means export.Save.
	Save func(path string, img image.Image) (string, error)
	// Saved is called after each successful export.
	Saved func(path string)
}

// Run executes cmds in order and stops at the first failure, which is
// returned as an *Error.
func (r *Runner) Run(cmds []Command) error {
	for _, cmd := range cmds {
		if err := r.Exec(cmd); err != nil {
			return &Error{Line: cmd.Line, Err: err}
		}
	}
	return nil
}

// RunReader parses and runs a whole script.
func (r *Runner) RunReader(src io.Reader) error {
	cmds, err := Parse(src)
	if err != nil {
		return err
	}
	return r.Run(cmds)
}

// ExecLine parses and executes one line. Blank and comment lines do
// nothing.
func (r *Runner) ExecLine(line string) error {
	cmd, ok, err := ParseLine(line)
	if err != nil || !ok {
		return err
	}
	return r.Exec(cmd)
}

// Exec executes one command.
func (r *Runner) Exec(cmd Command) error {
	s := r.Session
	a := cmd.Args
	switch cmd.Name {
	case "tool":
		return s.Control(paint.FieldTool, a[0])
	case "set":
		return s.Control(a[0], a[1])
	case "down", "move":
		p, err := point(a[0], a[1])
		if err != nil {
			return err
		}
		kind := session.PointerDown
		if cmd.Name == "move" {
			kind = session.PointerMove
		}
		return s.HandlePointer(session.PointerEvent{Kind: kind, At: p})
	case "up":
		return s.HandlePointer(session.PointerEvent{Kind: session.PointerUp})
	case "leave":
		return s.HandlePointer(session.PointerEvent{Kind: session.PointerLeave})
	case "line":
		from, err := point(a[0], a[1])
		if err != nil {
			return err
		}
		to, err := point(a[2], a[3])
		if err != nil {
			return err
		}
		if err := s.HandlePointer(session.PointerEvent{Kind: session.PointerDown, At: from}); err != nil {
			return err
		}
		if err := s.HandlePointer(session.PointerEvent{Kind: session.PointerMove, At: to}); err != nil {
			return err
		}
		return s.HandlePointer(session.PointerEvent{Kind: session.PointerUp, At: to})
	case "undo", "redo":
		n, err := count(a)
		if err != nil {
			return err
		}
		step := s.Undo
		if cmd.Name == "redo" {
			step = s.Redo
		}
		for i := 0; i < n; i++ {
			did, err := step()
			if err != nil {
				return err
			}
			if !did {
				break
			}
		}
		return nil
	case "clear":
		return s.Clear()
	case "resize":
		w, h, err := session.ParseCanvasSize(strings.Join(a, "x"))
		if err != nil {
			return err
		}
		return s.Resize(w, h)
	case "flip":
		switch strings.ToLower(a[0]) {
		case "h", "horizontal":
			return s.Flip(true)
		case "v", "vertical":
			return s.Flip(false)
		}
		return fmt.Errorf("flip direction %q: want horizontal or vertical", a[0])
	case "preset":
		if r.Presets == nil {
			return errors.New("no presets available")
		}
		p, err := r.Presets.Load(a[0])
		if err != nil {
			return err
		}
		return s.ApplyPreset(p)
	case "export":
		return r.export(a)
	case "status":
		if r.Out != nil {
			fmt.Fprintln(r.Out, FormatStatus(s.Status()))
		}
		return nil
	}
	return fmt.Errorf("%w %q", ErrUnknownCommand, cmd.Name)
}

func (r *Runner) export(args []string) error {
	path := r.Output
	if len(args) > 0 {
		path = args[0]
	}
	if path == "" {
		path = export.DefaultFilename
	}
	img, err := r.Session.Image()
	if err != nil {
		return err
	}
	save := r.Save
	if save == nil {
		save = export.Save
	}
	saved, err := save(path, img)
	if err != nil {
		return err
	}
	if r.Out != nil {
		fmt.Fprintf(r.Out, "saved %s\n", saved)
	}
	if r.Saved != nil {
		r.Saved(saved)
	}
	return nil
}

// FormatStatus renders a one-line session summary.
func FormatStatus(st session.Status) string {
	return fmt.Sprintf("%dx%d %s tool=%s color=%s size=%g opacity=%g hardness=%g thickness=%g sides=%d rotation=%g zoom=%g undo=%d redo=%d",
		st.Width, st.Height, st.State, st.Tool, st.Color, st.Size, st.Opacity, st.Hardness,
		st.LineThickness, st.Sides, st.Rotation, st.Zoom, st.Undo, st.Redo)
}

func point(xs, ys string) (paint.Point, error) {
	x, err := strconv.ParseFloat(xs, 64)
	if err != nil {
		return paint.Point{}, fmt.Errorf("bad x coordinate %q", xs)
	}
	y, err := strconv.ParseFloat(ys, 64)
	if err != nil {
		return paint.Point{}, fmt.Errorf("bad y coordinate %q", ys)
	}
	return paint.Pt(x, y), nil
}

func count(args []string) (int, error) {
	if len(args) == 0 {
		return 1, nil
	}
	n, err := strconv.Atoi(args[0])
	if err != nil || n < 1 {
		return 0, fmt.Errorf("bad count %q", args[0])
	}
	return n, nil
}
