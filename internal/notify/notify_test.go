package notify

import (
	"image"
	"os"
	"path/filepath"
	"testing"

	"github.com/example/scribble/internal/platform"
)

type sent struct {
	title, body string
	opts        platform.Options
}

func capture(t *testing.T) *[]sent {
	t.Helper()
	var got []sent
	old := send
	send = func(title, body string, opts platform.Options) error {
		// The preview file only lives for the duration of the call.
		if opts.IconPath != "" {
			if _, err := os.Stat(opts.IconPath); err != nil {
				t.Errorf("icon %s: %v", opts.IconPath, err)
			}
		}
		got = append(got, sent{title, body, opts})
		return nil
	}
	t.Cleanup(func() { send = old })
	return &got
}

func TestDisabledEventsAreSilent(t *testing.T) {
	got := capture(t)
	n := New(DefaultPreferences())
	n.Save("drawing.png")
	n.Copy(nil)
	n.Serve("127.0.0.1:8077")
	var nilNotifier *Notifier
	nilNotifier.Save("x.png")
	if len(*got) != 0 {
		t.Fatalf("unexpected notifications %+v", *got)
	}
}

func TestSaveUsesAbsolutePathAndIcon(t *testing.T) {
	got := capture(t)
	dir := t.TempDir()
	path := filepath.Join(dir, "out.png")
	if err := os.WriteFile(path, []byte("png"), 0o644); err != nil {
		t.Fatal(err)
	}
	n := New(DefaultPreferences())
	n.Enable(EventSave, true)
	n.Save(path)
	if len(*got) != 1 {
		t.Fatalf("got %d notifications", len(*got))
	}
	s := (*got)[0]
	if s.title != "Scribble" || s.body != "Saved "+path || s.opts.IconPath != path {
		t.Fatalf("unexpected notification %+v", s)
	}
}

func TestCopyPreview(t *testing.T) {
	got := capture(t)
	n := New(DefaultPreferences())
	n.Enable(EventCopy, true)
	n.Copy(image.NewRGBA(image.Rect(0, 0, 4, 3)))
	if len(*got) != 1 {
		t.Fatalf("got %d notifications", len(*got))
	}
	s := (*got)[0]
	if s.body != "Copied 4x3 drawing to clipboard" {
		t.Fatalf("body %q", s.body)
	}
	if s.opts.IconPath == "" {
		t.Fatal("expected preview icon")
	}
	if _, err := os.Stat(s.opts.IconPath); !os.IsNotExist(err) {
		t.Fatalf("preview not removed: %v", err)
	}
}

func TestLoadPreferencesFromEnv(t *testing.T) {
	t.Setenv("SCRIBBLE_NOTIFY_TITLE", "Sketch")
	t.Setenv("SCRIBBLE_NOTIFY_SAVE_TEXT", "Wrote %s")
	prefs := LoadPreferences()
	if prefs.Title != "Sketch" || prefs.Templates[EventSave] != "Wrote %s" {
		t.Fatalf("prefs %+v", prefs)
	}
	if prefs.Templates[EventCopy] != DefaultPreferences().Templates[EventCopy] {
		t.Fatal("copy template should keep its default")
	}
}

func TestServeAttachesAppIcon(t *testing.T) {
	got := capture(t)
	n := New(DefaultPreferences())
	n.Enable(EventServe, true)
	n.Serve("127.0.0.1:8077")
	if len(*got) != 1 {
		t.Fatalf("got %d notifications", len(*got))
	}
	s := (*got)[0]
	if s.body != "Sharing drawing at 127.0.0.1:8077" || s.opts.IconPath == "" {
		t.Fatalf("unexpected notification %+v", s)
	}
}
