// Package appstate runs the interactive drawing window.
package appstate

import (
	"context"
	"fmt"
	"image"
	"log"
	"strconv"
	"sync"
	"time"
	"unicode/utf8"

	"golang.org/x/exp/shiny/driver"
	"golang.org/x/exp/shiny/screen"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/mobile/event/key"
	"golang.org/x/mobile/event/lifecycle"
	"golang.org/x/mobile/event/mouse"
	"golang.org/x/mobile/event/paint"
	"golang.org/x/mobile/event/size"

	"github.com/example/scribble/internal/canvas"
	"github.com/example/scribble/internal/clipboard"
	"github.com/example/scribble/internal/export"
	"github.com/example/scribble/internal/notify"
	ink "github.com/example/scribble/internal/paint"
	"github.com/example/scribble/internal/preset"
	"github.com/example/scribble/internal/session"
	"github.com/example/scribble/internal/theme"
)

const (
	messageDuration = 2 * time.Second
	zoomStep        = 1.25
	minZoom         = 0.05
	rotateStep      = 15
	panStep         = 40
)

// Replaced in tests.
var (
	writeClipboard    = clipboard.WriteImage
	readClipboardText = clipboard.ReadText
	saveImage         = export.Save
)

// AppState holds the configuration of a drawing window.
type AppState struct {
	Session  *session.Controller
	Output   string
	Title    string
	Theme    *theme.Theme
	Presets  []*preset.Preset
	Notifier *notify.Notifier

	updateCh  chan struct{}
	onClose   func()
	closeOnce sync.Once
}

// Option modifies an AppState during creation.
type Option func(*AppState)

// WithOutput sets the file Ctrl+S writes to.
func WithOutput(out string) Option { return func(a *AppState) { a.Output = out } }

// WithTitle sets the window title.
func WithTitle(title string) Option { return func(a *AppState) { a.Title = title } }

// WithTheme sets the window colors.
func WithTheme(th *theme.Theme) Option { return func(a *AppState) { a.Theme = th } }

// WithPresets adds toolbar buttons for the given presets. The first nine
// are also bound to the digit keys.
func WithPresets(p []*preset.Preset) Option { return func(a *AppState) { a.Presets = p } }

// WithNotifier sends desktop notifications for saves and copies.
func WithNotifier(n *notify.Notifier) Option { return func(a *AppState) { a.Notifier = n } }

// WithOnClose registers a callback invoked when the window closes.
func WithOnClose(fn func()) Option { return func(a *AppState) { a.onClose = fn } }

// New creates an AppState for sess. The window repaints whenever the
// session changes, including changes made by other surfaces.
func New(sess *session.Controller, opts ...Option) *AppState {
	a := &AppState{
		Session:  sess,
		Output:   export.DefaultFilename,
		Title:    "Scribble",
		Theme:    theme.Default(),
		updateCh: make(chan struct{}, 1),
	}
	for _, o := range opts {
		o(a)
	}
	sess.OnChange(func(session.Change) { a.NotifyImageChanged() })
	return a
}

// NotifyImageChanged requests a repaint.
func (a *AppState) NotifyImageChanged() {
	select {
	case a.updateCh <- struct{}{}:
	default:
	}
}

func (a *AppState) notifyClose() {
	a.closeOnce.Do(func() {
		if a.onClose != nil {
			a.onClose()
		}
	})
}

// Run executes the UI loop using shiny's driver.
func (a *AppState) Run() { driver.Main(a.Main) }

// textEdit is an in-progress edit of the text tool's string.
type textEdit struct {
	value string
}

// window is the interaction state of one open window. Everything except
// drawing happens on the event loop goroutine.
type window struct {
	a         *AppState
	keys      keymap
	size      image.Point
	pan       image.Point
	hover     hover
	presetIdx int
	editing   *textEdit
	message   string
	until     time.Time
	quit      bool
	chrome    *chrome
	shortcuts []shortcut
}

type shortcut struct {
	label  string
	action string
}

var statusShortcuts = []shortcut{
	{"^Z:undo", actionUndo},
	{"^Y:redo", actionRedo},
	{"^S:save", actionSave},
	{"^C:copy", actionCopy},
	{"Del:clear", actionClear},
	{"Q:quit", actionQuit},
}

func newWindow(a *AppState) *window {
	w := &window{
		a:         a,
		keys:      defaultKeymap(len(a.Presets)),
		presetIdx: -1,
		shortcuts: statusShortcuts,
		chrome:    &chrome{th: a.Theme},
	}
	for _, t := range ink.Tools() {
		action := actionToolPrefix + t.String()
		w.chrome.tools = append(w.chrome.tools, &CacheButton{Button: &LabelButton{
			label: toolLabel(t), onSelect: func() { w.perform(action) },
		}})
	}
	for i, p := range a.Presets {
		action := actionPresetPrefix + strconv.Itoa(i+1)
		label := p.Name
		if i < 9 {
			label = fmt.Sprintf("%d:%s", i+1, p.Name)
		}
		w.chrome.presets = append(w.chrome.presets, &CacheButton{Button: &LabelButton{
			label: label, onSelect: func() { w.perform(action) },
		}})
	}
	for _, sc := range w.shortcuts {
		action := sc.action
		w.chrome.shortcuts = append(w.chrome.shortcuts, &CacheButton{Button: &LabelButton{
			label: sc.label, onSelect: func() { w.perform(action) },
		}})
	}
	return w
}

func (w *window) shortcutWidths() []int {
	d := &font.Drawer{Face: basicfont.Face7x13}
	out := make([]int, len(w.shortcuts))
	for i, sc := range w.shortcuts {
		out[i] = d.MeasureString(sc.label).Ceil() + 8
	}
	return out
}

func (w *window) transform(st session.Status) ink.Transform {
	return ink.Transform{Rotation: st.Rotation, Zoom: st.Zoom}
}

func (w *window) layout(st session.Status) layout {
	canvasSize := image.Pt(st.Width, st.Height)
	view := w.transform(st).ViewSize(canvasSize)
	return computeLayout(w.size, view, w.pan, len(w.a.Presets), w.shortcutWidths())
}

func (w *window) flash(msg string) {
	log.Print(msg)
	w.message = msg
	w.until = time.Now().Add(messageDuration)
}

func (w *window) fail(what string, err error) {
	w.flash(fmt.Sprintf("%s: %v", what, err))
}

// perform runs a named window action against the session.
func (w *window) perform(action string) {
	sess := w.a.Session
	st := sess.Style()
	switch action {
	case actionUndo:
		ok, err := sess.Undo()
		if err != nil {
			w.fail("undo", err)
		} else if !ok {
			w.flash("nothing to undo")
		}
	case actionRedo:
		ok, err := sess.Redo()
		if err != nil {
			w.fail("redo", err)
		} else if !ok {
			w.flash("nothing to redo")
		}
	case actionSave:
		img, err := sess.Image()
		if err != nil {
			w.fail("save", err)
			return
		}
		path, err := saveImage(w.a.Output, img)
		if err != nil {
			w.fail("save", err)
			return
		}
		w.flash("saved " + path)
		w.a.Notifier.Save(path)
	case actionCopy:
		img, err := sess.Image()
		if err == nil {
			err = writeClipboard(img)
		}
		if err != nil {
			w.fail("copy", err)
			return
		}
		w.flash("image copied to clipboard")
		w.a.Notifier.Copy(img)
	case actionPasteText:
		text, err := readClipboardText()
		if err == nil {
			err = sess.SetStyle(ink.FieldText, text)
		}
		if err != nil {
			w.fail("paste", err)
			return
		}
		w.flash("text set from clipboard")
	case actionClear:
		if err := sess.Clear(); err != nil {
			w.fail("clear", err)
		}
	case actionSizeDown, actionSizeUp:
		dir := 1
		if action == actionSizeDown {
			dir = -1
		}
		w.set(ink.FieldSize, stepSize(st.Size, dir))
	case actionZoomIn:
		w.set(ink.FieldZoom, min(st.Zoom*zoomStep, ink.MaxZoom))
	case actionZoomOut:
		w.set(ink.FieldZoom, max(st.Zoom/zoomStep, minZoom))
	case actionZoomReset:
		w.pan = image.Point{}
		err := sess.UpdateStyle(func(s ink.Style) (ink.Style, error) {
			s.Zoom, s.Rotation = 1, 0
			return s, nil
		})
		if err != nil {
			w.fail("reset view", err)
		}
	case actionRotateLeft:
		w.set(ink.FieldRotation, st.Rotation-rotateStep)
	case actionRotateRight:
		w.set(ink.FieldRotation, st.Rotation+rotateStep)
	case actionFlipH, actionFlipV:
		if err := sess.Flip(action == actionFlipH); err != nil {
			w.fail("flip", err)
		}
	case actionEditText:
		if st.Tool == ink.ToolText {
			w.editing = &textEdit{value: st.Text}
		}
	case actionQuit:
		w.quit = true
	case actionPanLeft:
		w.pan.X += panStep
	case actionPanRight:
		w.pan.X -= panStep
	case actionPanUp:
		w.pan.Y += panStep
	case actionPanDown:
		w.pan.Y -= panStep
	default:
		w.performIndexed(action)
	}
}

func (w *window) performIndexed(action string) {
	switch {
	case len(action) > len(actionToolPrefix) && action[:len(actionToolPrefix)] == actionToolPrefix:
		t, err := ink.ParseTool(action[len(actionToolPrefix):])
		if err == nil {
			err = w.a.Session.SetTool(t)
		}
		if err != nil {
			w.fail("tool", err)
		}
	case len(action) > len(actionPresetPrefix) && action[:len(actionPresetPrefix)] == actionPresetPrefix:
		n, err := strconv.Atoi(action[len(actionPresetPrefix):])
		if err != nil || n < 1 || n > len(w.a.Presets) {
			return
		}
		p := w.a.Presets[n-1]
		if err := w.a.Session.ApplyPreset(p); err != nil {
			w.fail("preset "+p.Name, err)
			return
		}
		w.presetIdx = n - 1
		w.flash("preset " + p.Name)
	default:
		log.Printf("unknown window action %q", action)
	}
}

func (w *window) set(field string, v float64) {
	if err := w.a.Session.SetStyle(field, strconv.FormatFloat(v, 'g', 6, 64)); err != nil {
		w.fail(field, err)
	}
}

// stepSize moves to the next brush size preset in dir, stepping from a
// custom size to its nearest neighbour.
func stepSize(cur float64, dir int) float64 {
	if dir > 0 {
		for _, s := range brushSizes {
			if s > cur {
				return s
			}
		}
		return brushSizes[len(brushSizes)-1]
	}
	for i := len(brushSizes) - 1; i >= 0; i-- {
		if brushSizes[i] < cur {
			return brushSizes[i]
		}
	}
	return brushSizes[0]
}

// handleKey handles a key press, reporting whether the window needs a repaint.
func (w *window) handleKey(e key.Event) bool {
	if e.Direction != key.DirPress {
		return false
	}
	if w.editing != nil {
		return w.editKey(e)
	}
	action, ok := w.keys.lookup(e)
	if !ok {
		return false
	}
	w.perform(action)
	return true
}

func (w *window) editKey(e key.Event) bool {
	switch e.Code {
	case key.CodeReturnEnter:
		value := w.editing.value
		w.editing = nil
		if err := w.a.Session.SetStyle(ink.FieldText, value); err != nil {
			w.fail("text", err)
		}
		return true
	case key.CodeEscape:
		w.editing = nil
		return true
	case key.CodeDeleteBackspace:
		if v := w.editing.value; v != "" {
			_, n := utf8.DecodeLastRuneInString(v)
			w.editing.value = v[:len(v)-n]
		}
		return true
	}
	if e.Rune > 0 && e.Modifiers&key.ModControl == 0 {
		w.editing.value += string(e.Rune)
		return true
	}
	return false
}

// handleMouse handles a pointer event, reporting whether the window needs a
// repaint. A drag that leaves the canvas view ends the stroke.
func (w *window) handleMouse(e mouse.Event, l layout, st session.Status) bool {
	p := image.Pt(int(e.X), int(e.Y))
	h := l.hit(p)
	repaint := h != w.hover
	w.hover = h
	sess := w.a.Session
	at := func() ink.Point {
		return l.toCanvas(p, w.transform(st), image.Pt(st.Width, st.Height))
	}
	pointer := func(kind session.PointerKind) {
		if err := sess.HandlePointer(session.PointerEvent{Kind: kind, At: at()}); err != nil {
			w.fail("draw", err)
		}
	}

	switch {
	case e.Button == mouse.ButtonLeft && e.Direction == mouse.DirPress:
		if w.message != "" && time.Now().Before(w.until) {
			w.until = time.Time{}
		}
		switch h.region {
		case regionTool:
			w.chrome.tools[h.index].Activate()
		case regionSwatch:
			if err := sess.SetStyle(ink.FieldColor, ink.FormatColor(palette[h.index])); err != nil {
				w.fail("color", err)
			}
		case regionSize:
			w.set(ink.FieldSize, brushSizes[h.index])
		case regionPreset:
			w.chrome.presets[h.index].Activate()
		case regionShortcut:
			w.chrome.shortcuts[h.index].Activate()
		case regionCanvas:
			pointer(session.PointerDown)
		}
		return true
	case e.Button == mouse.ButtonLeft && e.Direction == mouse.DirRelease:
		if sess.State() == session.Active {
			pointer(session.PointerUp)
			return true
		}
	case e.Direction == mouse.DirNone:
		if sess.State() != session.Active {
			break
		}
		if h.region == regionCanvas {
			pointer(session.PointerMove)
		} else {
			pointer(session.PointerLeave)
		}
		return true
	}
	return repaint
}

// frame is everything the paint goroutine needs to draw one frame.
type frame struct {
	img       *image.RGBA
	layout    layout
	status    session.Status
	hover     hover
	presetIdx int
	editing   *textEdit
	message   string
}

func (w *window) snapshot() (frame, error) {
	st := w.a.Session.Status()
	img, err := w.a.Session.Image()
	if err != nil {
		return frame{}, err
	}
	f := frame{
		img:       img,
		layout:    w.layout(st),
		status:    st,
		hover:     w.hover,
		presetIdx: w.presetIdx,
	}
	if w.editing != nil {
		e := *w.editing
		f.editing = &e
	}
	if time.Now().Before(w.until) {
		f.message = w.message
	}
	return f, nil
}

func (c *chrome) draw(ctx context.Context, dst *image.RGBA, f frame) {
	c.backdrop(dst, f.layout.view)
	if ctx.Err() != nil {
		return
	}
	view := canvas.Render(f.img, ink.Transform{Rotation: f.status.Rotation, Zoom: f.status.Zoom})
	if ctx.Err() != nil {
		return
	}
	drawOver(dst, f.layout.view, view)
	c.toolbar(dst, f.layout, f.status, f.hover, f.presetIdx)
	c.status(dst, f.layout, f.status, f.hover, f.editing)
	if f.message != "" {
		c.message(dst, f.message)
	}
}

func drawFrame(ctx context.Context, s screen.Screen, win screen.Window, c *chrome, size image.Point, f frame) {
	b, err := s.NewBuffer(size)
	if err != nil {
		log.Printf("new buffer: %v", err)
		return
	}
	defer b.Release()
	c.draw(ctx, b.RGBA(), f)
	if ctx.Err() != nil {
		return
	}
	win.Upload(image.Point{}, b, b.Bounds())
	win.Publish()
}

// Main runs the window on s until it is closed.
func (a *AppState) Main(s screen.Screen) {
	defer a.notifyClose()
	w := newWindow(a)
	st := a.Session.Status()
	w.size = windowSize(w.transform(st).ViewSize(image.Pt(st.Width, st.Height)))

	win, err := s.NewWindow(&screen.NewWindowOptions{Width: w.size.X, Height: w.size.Y, Title: a.Title})
	if err != nil {
		log.Printf("new window: %v", err)
		return
	}
	defer win.Release()

	done := make(chan struct{})
	defer close(done)
	go func() {
		for {
			select {
			case <-a.updateCh:
				win.Send(paint.Event{})
			case <-done:
				return
			}
		}
	}()

	var paintMu sync.Mutex
	var paintCancel context.CancelFunc
	var dropCount int
	type job struct {
		size image.Point
		f    frame
	}
	paintCh := make(chan job, 1)
	defer close(paintCh)
	go func() {
		for j := range paintCh {
			ctx, cancel := context.WithCancel(context.Background())
			paintMu.Lock()
			paintCancel = cancel
			paintMu.Unlock()
			drawFrame(ctx, s, win, w.chrome, j.size, j.f)
			paintMu.Lock()
			paintCancel = nil
			if ctx.Err() == nil {
				dropCount = 0
			}
			paintMu.Unlock()
			cancel()
		}
	}()
	stopPainting := func() {
		paintMu.Lock()
		if paintCancel != nil {
			paintCancel()
		}
		paintMu.Unlock()
	}

	for {
		switch e := win.NextEvent().(type) {
		case lifecycle.Event:
			if e.To == lifecycle.StageDead {
				stopPainting()
				return
			}
		case size.Event:
			w.size = image.Pt(e.WidthPx, e.HeightPx)
			win.Send(paint.Event{})
		case paint.Event:
			if w.size.X <= 0 || w.size.Y <= 0 {
				continue
			}
			paintMu.Lock()
			if paintCancel != nil && dropCount < frameDropThreshold {
				paintCancel()
				dropCount++
			}
			paintMu.Unlock()
			f, err := w.snapshot()
			if err != nil {
				log.Printf("paint: %v", err)
				continue
			}
			j := job{size: w.size, f: f}
			select {
			case paintCh <- j:
			default:
				select {
				case <-paintCh:
				default:
				}
				paintCh <- j
			}
		case mouse.Event:
			st := a.Session.Status()
			if w.handleMouse(e, w.layout(st), st) {
				win.Send(paint.Event{})
			}
		case key.Event:
			if w.handleKey(e) {
				win.Send(paint.Event{})
			}
		}
		if w.quit {
			stopPainting()
			return
		}
	}
}
