package session

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"image/png"
	"io"
	"log"
	"testing"

	"github.com/example/scribble/internal/canvas"
	"github.com/example/scribble/internal/paint"
)

var white = color.RGBA{255, 255, 255, 255}

func newSession(t *testing.T, w, h int, opts ...Option) (*Controller, *canvas.Canvas) {
	t.Helper()
	cv, err := canvas.New(w, h, white)
	if err != nil {
		t.Fatal(err)
	}
	opts = append([]Option{WithLogger(log.New(io.Discard, "", 0))}, opts...)
	c, err := New(cv, opts...)
	if err != nil {
		t.Fatal(err)
	}
	return c, cv
}

func mustControl(t *testing.T, c *Controller, field, value string) {
	t.Helper()
	if err := c.Control(field, value); err != nil {
		t.Fatalf("Control(%s, %s): %v", field, value, err)
	}
}

func drag(t *testing.T, c *Controller, pts ...paint.Point) {
	t.Helper()
	if err := c.Begin(pts[0]); err != nil {
		t.Fatal(err)
	}
	for _, p := range pts[1:] {
		if err := c.Continue(p); err != nil {
			t.Fatal(err)
		}
	}
	if err := c.End(); err != nil {
		t.Fatal(err)
	}
}

func pixels(t *testing.T, c *Controller) []byte {
	t.Helper()
	img, err := c.Image()
	if err != nil {
		t.Fatal(err)
	}
	return img.Pix
}

func TestLineStrokeUndoRestoresBlank(t *testing.T) {
	c, _ := newSession(t, 400, 300)
	blank := pixels(t, c)
	mustControl(t, c, "tool", "line")
	mustControl(t, c, "color", "#000000")
	mustControl(t, c, "lineThickness", "3")
	drag(t, c, paint.Pt(10, 10), paint.Pt(50, 10), paint.Pt(50, 50))
	if bytes.Equal(blank, pixels(t, c)) {
		t.Fatal("line stroke left the canvas blank")
	}
	img, _ := c.Image()
	if got := img.RGBAAt(30, 30); got.R > 64 {
		t.Fatalf("pixel on the line %+v", got)
	}
	if got := img.RGBAAt(40, 10); got != white {
		t.Fatalf("preview from an earlier move was not erased: %+v", got)
	}
	did, err := c.Undo()
	if err != nil || !did {
		t.Fatalf("undo = %v, %v", did, err)
	}
	if !bytes.Equal(blank, pixels(t, c)) {
		t.Fatal("undo did not restore the blank canvas")
	}
}

func TestRectangleNegativeExtent(t *testing.T) {
	c, _ := newSession(t, 400, 300)
	mustControl(t, c, "tool", "rectangle")
	drag(t, c, paint.Pt(0, 0), paint.Pt(20, -20))
	if c.UndoDepth() != 1 {
		t.Fatalf("undo depth %d", c.UndoDepth())
	}
	img, _ := c.Image()
	for x := 0; x <= 20; x++ {
		if got := img.RGBAAt(x, 0); got == white {
			t.Fatalf("bottom edge missing at (%d,0)", x)
		}
	}
	if got := img.RGBAAt(25, 0); got != white {
		t.Fatalf("pixel right of the rectangle %+v", got)
	}
	for y := 3; y <= 10; y++ {
		for x := 0; x <= 30; x++ {
			if got := img.RGBAAt(x, y); got != white {
				t.Fatalf("pixel below the rectangle at (%d,%d) %+v", x, y, got)
			}
		}
	}
}

func TestEraserClearsSquare(t *testing.T) {
	c, _ := newSession(t, 200, 200)
	mustControl(t, c, "tool", "eraser")
	mustControl(t, c, "size", "10")
	drag(t, c, paint.Pt(100, 100))
	img, _ := c.Image()
	for _, p := range []image.Point{{96, 96}, {104, 104}, {100, 100}} {
		if got := img.RGBAAt(p.X, p.Y); got.A != 0 {
			t.Fatalf("pixel %v not cleared: %+v", p, got)
		}
	}
	if got := img.RGBAAt(106, 100); got != white {
		t.Fatalf("pixel outside the eraser %+v", got)
	}
}

func TestHugeCircleLeavesSessionUsable(t *testing.T) {
	c, _ := newSession(t, 400, 300)
	mustControl(t, c, "tool", "circle")
	drag(t, c, paint.Pt(100, 100), paint.Pt(1e13, 100))
	if c.UndoDepth() != 1 {
		t.Fatalf("undo depth %d", c.UndoDepth())
	}
	img, _ := c.Image()
	if got := img.RGBAAt(100, 100); got != white {
		t.Fatalf("centre pixel %+v", got)
	}
	mustControl(t, c, "size", "9")
}

func TestUndoRedoRoundTrip(t *testing.T) {
	c, _ := newSession(t, 120, 80)
	drag(t, c, paint.Pt(10, 10), paint.Pt(100, 70))
	mustControl(t, c, "tool", "circle")
	drag(t, c, paint.Pt(60, 40), paint.Pt(80, 40))
	mustControl(t, c, "tool", "eraser")
	drag(t, c, paint.Pt(55, 40), paint.Pt(65, 40))
	before := pixels(t, c)
	for i := 0; i < 3; i++ {
		undone := pixels(t, c)
		if _, err := c.Undo(); err != nil {
			t.Fatal(err)
		}
		if _, err := c.Redo(); err != nil {
			t.Fatal(err)
		}
		if !bytes.Equal(undone, pixels(t, c)) {
			t.Fatalf("round trip %d changed pixels", i)
		}
		c.Undo()
	}
	for i := 0; i < 3; i++ {
		c.Redo()
	}
	if !bytes.Equal(before, pixels(t, c)) {
		t.Fatal("redoing everything did not restore the final canvas")
	}
}

func TestEndClearsRedo(t *testing.T) {
	c, _ := newSession(t, 50, 50)
	drag(t, c, paint.Pt(1, 1), paint.Pt(40, 40))
	drag(t, c, paint.Pt(40, 1), paint.Pt(1, 40))
	c.Undo()
	if c.RedoDepth() != 1 {
		t.Fatalf("redo depth %d", c.RedoDepth())
	}
	drag(t, c, paint.Pt(5, 5), paint.Pt(6, 6))
	if c.RedoDepth() != 0 {
		t.Fatalf("redo depth %d after stroke", c.RedoDepth())
	}
}

func TestClearIsUndoable(t *testing.T) {
	c, _ := newSession(t, 60, 60)
	drag(t, c, paint.Pt(5, 5), paint.Pt(50, 50))
	drawn := pixels(t, c)
	mustControl(t, c, "backgroundColor", "#336699")
	if err := c.Clear(); err != nil {
		t.Fatal(err)
	}
	img, _ := c.Image()
	if got := img.RGBAAt(30, 30); got != (color.RGBA{0x33, 0x66, 0x99, 255}) {
		t.Fatalf("cleared pixel %+v", got)
	}
	c.Undo()
	if !bytes.Equal(drawn, pixels(t, c)) {
		t.Fatal("undo after clear did not restore the drawing")
	}
}

func TestHistoryLimit(t *testing.T) {
	c, _ := newSession(t, 40, 40, WithHistoryLimit(3))
	for i := 0; i < 6; i++ {
		drag(t, c, paint.Pt(float64(i), 1), paint.Pt(float64(i), 30))
		if c.UndoDepth() > 3 {
			t.Fatalf("undo depth %d exceeds limit", c.UndoDepth())
		}
	}
	if c.UndoDepth() != 3 {
		t.Fatalf("undo depth %d", c.UndoDepth())
	}
}

func TestUndoDepthGrowsByOnePerStroke(t *testing.T) {
	c, _ := newSession(t, 40, 40, WithHistoryLimit(0))
	for i := 1; i <= 25; i++ {
		drag(t, c, paint.Pt(1, 1), paint.Pt(2, 2), paint.Pt(3, 3), paint.Pt(30, 30))
		if c.UndoDepth() != i {
			t.Fatalf("after %d strokes undo depth is %d", i, c.UndoDepth())
		}
	}
}

func TestNStrokesNUndos(t *testing.T) {
	c, _ := newSession(t, 80, 80)
	initial := pixels(t, c)
	tools := []string{"brush", "line", "rectangle", "polygon", "text", "eraser"}
	for i, tool := range tools {
		mustControl(t, c, "tool", tool)
		p := float64(10 + i*10)
		drag(t, c, paint.Pt(p, p), paint.Pt(p+5, p+3), paint.Pt(p+9, p+7))
	}
	for range tools {
		if did, err := c.Undo(); !did || err != nil {
			t.Fatalf("undo = %v, %v", did, err)
		}
	}
	if !bytes.Equal(initial, pixels(t, c)) {
		t.Fatal("canvas did not return to its initial state")
	}
	if did, _ := c.Undo(); did {
		t.Fatal("undo past the initial state")
	}
}

func TestRedoOnEmptyStackIsNoop(t *testing.T) {
	c, _ := newSession(t, 30, 30)
	drag(t, c, paint.Pt(1, 1), paint.Pt(20, 20))
	before := pixels(t, c)
	did, err := c.Redo()
	if did || err != nil {
		t.Fatalf("redo = %v, %v", did, err)
	}
	if c.UndoDepth() != 1 || c.RedoDepth() != 0 {
		t.Fatalf("depths %d/%d", c.UndoDepth(), c.RedoDepth())
	}
	if !bytes.Equal(before, pixels(t, c)) {
		t.Fatal("redo changed the canvas")
	}
}

func TestLeaveEndsStrokeLikeUp(t *testing.T) {
	for _, kind := range []PointerKind{PointerUp, PointerLeave} {
		c, _ := newSession(t, 30, 30)
		events := []PointerEvent{
			{Kind: PointerMove, At: paint.Pt(2, 2)},
			{Kind: PointerDown, At: paint.Pt(5, 5)},
			{Kind: PointerMove, At: paint.Pt(20, 20)},
			{Kind: kind, At: paint.Pt(20, 20)},
			{Kind: kind, At: paint.Pt(20, 20)},
		}
		for _, ev := range events {
			if err := c.HandlePointer(ev); err != nil {
				t.Fatalf("%v: %v", ev.Kind, err)
			}
		}
		if c.State() != Idle || c.UndoDepth() != 1 {
			t.Fatalf("%v: state %v depth %d", kind, c.State(), c.UndoDepth())
		}
	}
}

func TestInvalidToolKeepsPrevious(t *testing.T) {
	var logs bytes.Buffer
	c, _ := newSession(t, 10, 10, WithLogger(log.New(&logs, "", 0)))
	mustControl(t, c, "tool", "circle")
	err := c.Control("tool", "gradient")
	if !errors.Is(err, paint.ErrInvalidToolName) {
		t.Fatalf("expected ErrInvalidToolName, got %v", err)
	}
	if c.Style().Tool != paint.ToolCircle {
		t.Fatalf("tool changed to %v", c.Style().Tool)
	}
	if !bytes.Contains(logs.Bytes(), []byte("warning")) {
		t.Fatalf("expected a warning, got %q", logs.String())
	}
}

func TestSetToolInvalidWarns(t *testing.T) {
	var logs bytes.Buffer
	c, _ := newSession(t, 10, 10, WithLogger(log.New(&logs, "", 0)))
	if err := c.SetTool(paint.Tool(99)); !errors.Is(err, paint.ErrInvalidToolName) {
		t.Fatalf("expected ErrInvalidToolName, got %v", err)
	}
	if c.Style().Tool != paint.ToolBrush {
		t.Fatalf("tool changed to %v", c.Style().Tool)
	}
	if !bytes.Contains(logs.Bytes(), []byte("warning")) {
		t.Fatalf("expected a warning, got %q", logs.String())
	}
}

func TestControlRejections(t *testing.T) {
	c, _ := newSession(t, 10, 10)
	before := c.Style()
	if err := c.Control("size", "-4"); !errors.Is(err, paint.ErrInvalidParameter) {
		t.Fatalf("expected ErrInvalidParameter, got %v", err)
	}
	if err := c.Control("gradientStops", "3"); !errors.Is(err, ErrUnknownField) {
		t.Fatalf("expected ErrUnknownField, got %v", err)
	}
	if err := c.Control("canvasSize", "0x10"); !errors.Is(err, paint.ErrInvalidParameter) {
		t.Fatalf("expected ErrInvalidParameter, got %v", err)
	}
	if c.Style() != before {
		t.Fatal("rejected controls changed the style")
	}
}

func TestCanvasSizeIsUndoable(t *testing.T) {
	c, _ := newSession(t, 40, 30)
	mustControl(t, c, "canvasSize", "80x20")
	if got := c.Size(); got != image.Pt(80, 20) {
		t.Fatalf("size %v", got)
	}
	c.Undo()
	if got := c.Size(); got != image.Pt(40, 30) {
		t.Fatalf("size after undo %v", got)
	}
	c.Redo()
	if got := c.Size(); got != image.Pt(80, 20) {
		t.Fatalf("size after redo %v", got)
	}
}

func TestToolLatchedForStroke(t *testing.T) {
	c, _ := newSession(t, 60, 60)
	mustControl(t, c, "tool", "line")
	if err := c.Begin(paint.Pt(5, 5)); err != nil {
		t.Fatal(err)
	}
	mustControl(t, c, "tool", "eraser")
	if err := c.Continue(paint.Pt(50, 50)); err != nil {
		t.Fatal(err)
	}
	c.End()
	img, _ := c.Image()
	if got := img.RGBAAt(27, 27); got.A != 255 || got.R > 64 {
		t.Fatalf("expected the line tool to draw, got %+v", got)
	}
	if c.Style().Tool != paint.ToolEraser {
		t.Fatal("tool change was lost")
	}
}

func TestStateMachineMisuse(t *testing.T) {
	c, _ := newSession(t, 10, 10)
	if err := c.Continue(paint.Pt(1, 1)); !errors.Is(err, ErrNoStroke) {
		t.Fatalf("continue while idle: %v", err)
	}
	if err := c.End(); !errors.Is(err, ErrNoStroke) {
		t.Fatalf("end while idle: %v", err)
	}
	c.Begin(paint.Pt(1, 1))
	if err := c.Begin(paint.Pt(2, 2)); !errors.Is(err, ErrStrokeActive) {
		t.Fatalf("begin while active: %v", err)
	}
}

func TestUndoDuringStrokeEndsIt(t *testing.T) {
	c, _ := newSession(t, 40, 40)
	blank := pixels(t, c)
	c.Begin(paint.Pt(5, 5))
	c.Continue(paint.Pt(30, 30))
	did, err := c.Undo()
	if !did || err != nil {
		t.Fatalf("undo = %v, %v", did, err)
	}
	if c.State() != Idle {
		t.Fatal("stroke still active")
	}
	if !bytes.Equal(blank, pixels(t, c)) {
		t.Fatal("undo did not remove the interrupted stroke")
	}
}

func TestExportPNG(t *testing.T) {
	c, _ := newSession(t, 33, 21)
	var buf bytes.Buffer
	if err := c.Export(&buf); err != nil {
		t.Fatal(err)
	}
	img, err := png.Decode(&buf)
	if err != nil {
		t.Fatal(err)
	}
	if img.Bounds().Size() != image.Pt(33, 21) {
		t.Fatalf("exported size %v", img.Bounds())
	}
	if c.UndoDepth() != 0 {
		t.Fatal("export touched history")
	}
}

func TestListenerSeesChanges(t *testing.T) {
	var got []Change
	c, _ := newSession(t, 20, 20, WithListener(func(ch Change) { got = append(got, ch) }))
	mustControl(t, c, "size", "9")
	drag(t, c, paint.Pt(1, 1), paint.Pt(10, 10))
	if len(got) == 0 || got[0] != StyleChanged {
		t.Fatalf("changes %v", got)
	}
	if got[len(got)-1]&HistoryChanged == 0 {
		t.Fatalf("end did not report a history change: %v", got)
	}
	// Listeners run outside the lock.
	c.OnChange(func(Change) { c.Status() })
	c.Clear()
}

type presetFunc func(paint.Style) (paint.Style, error)

func (f presetFunc) Apply(s paint.Style) (paint.Style, error) { return f(s) }

func TestApplyPreset(t *testing.T) {
	c, _ := newSession(t, 10, 10)
	marker := presetFunc(func(s paint.Style) (paint.Style, error) {
		s.Size = 18
		s.Opacity = 0.6
		return s, nil
	})
	if err := c.ApplyPreset(marker); err != nil {
		t.Fatal(err)
	}
	if s := c.Style(); s.Size != 18 || s.Opacity != 0.6 {
		t.Fatalf("style %+v", s)
	}
	broken := presetFunc(func(s paint.Style) (paint.Style, error) {
		s.Opacity = 2
		return s, nil
	})
	if err := c.ApplyPreset(broken); !errors.Is(err, paint.ErrInvalidParameter) {
		t.Fatalf("expected ErrInvalidParameter, got %v", err)
	}
	if c.Style().Opacity != 0.6 {
		t.Fatal("invalid preset changed the style")
	}
}

func TestStatus(t *testing.T) {
	c, _ := newSession(t, 64, 32)
	drag(t, c, paint.Pt(1, 1), paint.Pt(5, 5))
	st := c.Status()
	if st.Tool != "brush" || st.Width != 64 || st.Height != 32 || st.Undo != 1 || st.State != "idle" {
		t.Fatalf("status %+v", st)
	}
}

func TestFlipIsUndoable(t *testing.T) {
	c, _ := newSession(t, 40, 20)
	mustControl(t, c, "tool", "rectangle")
	drag(t, c, paint.Pt(2, 2), paint.Pt(10, 10))
	drawn := pixels(t, c)
	if err := c.Flip(true); err != nil {
		t.Fatal(err)
	}
	if bytes.Equal(drawn, pixels(t, c)) {
		t.Fatal("flip left the canvas unchanged")
	}
	c.Undo()
	if !bytes.Equal(drawn, pixels(t, c)) {
		t.Fatal("undo did not reverse the flip")
	}
}

func TestParseCanvasSize(t *testing.T) {
	cases := map[string]image.Point{
		"800x600":  image.Pt(800, 600),
		"640, 480": image.Pt(640, 480),
		"300 200":  image.Pt(300, 200),
		"1000":     image.Pt(1000, 660),
	}
	for in, want := range cases {
		w, h, err := ParseCanvasSize(in)
		if err != nil || image.Pt(w, h) != want {
			t.Errorf("ParseCanvasSize(%q) = %d, %d, %v", in, w, h, err)
		}
	}
	for _, bad := range []string{"", "axb", "0x10", "-5", "1x2x3"} {
		if _, _, err := ParseCanvasSize(bad); !errors.Is(err, paint.ErrInvalidParameter) {
			t.Errorf("ParseCanvasSize(%q): expected ErrInvalidParameter, got %v", bad, err)
		}
	}
}
