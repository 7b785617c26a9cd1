// Package notify tells the desktop about saved and copied drawings.
package notify

import (
	"fmt"
	"image"
	"image/png"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/example/scribble/assets"
	"github.com/example/scribble/internal/platform"
)

// iconSize is the application icon size attached to serve notifications.
const iconSize = 64

// Event identifies a notification trigger.
type Event string

const (
	// EventSave fires when a drawing is written to disk.
	EventSave Event = "save"
	// EventCopy fires when a drawing is copied to the clipboard.
	EventCopy Event = "copy"
	// EventServe fires when a drawing starts being shared over the network.
	EventServe Event = "serve"
)

// Events lists every event in display order.
func Events() []Event { return []Event{EventSave, EventCopy, EventServe} }

// Preferences holds the notification title and a message template per
// event. Templates take the event detail as their only %s verb.
type Preferences struct {
	Title     string
	Templates map[Event]string
	Timeout   time.Duration
}

// DefaultPreferences returns the built-in wording.
func DefaultPreferences() Preferences {
	return Preferences{
		Title: "Scribble",
		Templates: map[Event]string{
			EventSave:  "Saved %s",
			EventCopy:  "Copied %s to clipboard",
			EventServe: "Sharing drawing at %s",
		},
		Timeout: 5 * time.Second,
	}
}

// LoadPreferences applies SCRIBBLE_NOTIFY_TITLE and
// SCRIBBLE_NOTIFY_<EVENT>_TEXT over the defaults.
func LoadPreferences() Preferences {
	prefs := DefaultPreferences()
	if v := strings.TrimSpace(os.Getenv("SCRIBBLE_NOTIFY_TITLE")); v != "" {
		prefs.Title = v
	}
	for _, ev := range Events() {
		key := "SCRIBBLE_NOTIFY_" + strings.ToUpper(string(ev)) + "_TEXT"
		if v := strings.TrimSpace(os.Getenv(key)); v != "" {
			prefs.Templates[ev] = v
		}
	}
	return prefs
}

// send is swapped out by tests.
var send = platform.Notify

// Notifier sends notifications for the events that have been enabled.
// A nil Notifier is valid and sends nothing.
type Notifier struct {
	prefs   Preferences
	enabled map[Event]bool
}

// New creates a Notifier with every event disabled.
func New(prefs Preferences) *Notifier {
	cloned := prefs
	cloned.Templates = make(map[Event]string, len(prefs.Templates))
	for k, v := range prefs.Templates {
		cloned.Templates[k] = v
	}
	return &Notifier{prefs: cloned, enabled: make(map[Event]bool)}
}

// Enable toggles notifications for event.
func (n *Notifier) Enable(event Event, enabled bool) {
	if n == nil {
		return
	}
	n.enabled[event] = enabled
}

// Enabled reports whether event will notify.
func (n *Notifier) Enabled(event Event) bool {
	return n != nil && n.enabled[event]
}

// Save announces a file written to path, using it as the icon.
func (n *Notifier) Save(path string) {
	if !n.Enabled(EventSave) {
		return
	}
	detail := strings.TrimSpace(path)
	opts := n.options()
	if abs, err := filepath.Abs(path); err == nil {
		detail = abs
		if _, err := os.Stat(abs); err == nil {
			opts.IconPath = abs
		}
	}
	n.dispatch(EventSave, detail, opts)
}

// Copy announces a clipboard copy. img, when set, is shown as a preview.
func (n *Notifier) Copy(img image.Image) {
	if !n.Enabled(EventCopy) {
		return
	}
	opts := n.options()
	detail := "drawing"
	if img != nil {
		b := img.Bounds()
		detail = fmt.Sprintf("%dx%d drawing", b.Dx(), b.Dy())
		path, cleanup, err := writePreview(img)
		if err != nil {
			log.Printf("notification preview: %v", err)
		} else {
			defer cleanup()
			opts.IconPath = path
		}
	}
	n.dispatch(EventCopy, detail, opts)
}

// Serve announces the address a drawing is shared on.
func (n *Notifier) Serve(addr string) {
	if !n.Enabled(EventServe) {
		return
	}
	opts := n.options()
	if icon, err := assets.IconImage(iconSize); err == nil {
		if path, cleanup, err := writePreview(icon); err == nil {
			defer cleanup()
			opts.IconPath = path
		}
	}
	n.dispatch(EventServe, addr, opts)
}

func (n *Notifier) options() platform.Options {
	return platform.Options{Timeout: n.prefs.Timeout}
}

func (n *Notifier) dispatch(event Event, detail string, opts platform.Options) {
	tmpl := strings.TrimSpace(n.prefs.Templates[event])
	if tmpl == "" {
		return
	}
	body := strings.TrimSpace(fmt.Sprintf(tmpl, strings.TrimSpace(detail)))
	if body == "" {
		return
	}
	if err := send(n.prefs.Title, body, opts); err != nil {
		log.Printf("notification %s: %v", event, err)
	}
}

func writePreview(img image.Image) (string, func(), error) {
	f, err := os.CreateTemp("", "scribble-preview-*.png")
	if err != nil {
		return "", nil, err
	}
	path := f.Name()
	if err := png.Encode(f, img); err != nil {
		_ = f.Close()
		_ = os.Remove(path)
		return "", nil, err
	}
	if err := f.Close(); err != nil {
		_ = os.Remove(path)
		return "", nil, err
	}
	cleanup := func() {
		if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
			log.Printf("remove preview: %v", err)
		}
	}
	return path, cleanup, nil
}
