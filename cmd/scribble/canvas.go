package main

import (
	"errors"
	"flag"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"os"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"

	"github.com/example/scribble/internal/canvas"
	"github.com/example/scribble/internal/clipboard"
	"github.com/example/scribble/internal/session"
)

// readClipboardImage is replaced in tests.
var readClipboardImage = clipboard.ReadImage

// canvasFlags are shared by every command that starts a session.
type canvasFlags struct {
	open  string
	paste bool
	size  string
}

func (c *canvasFlags) register(fs *flag.FlagSet) {
	fs.StringVar(&c.open, "open", "", "start from an existing image (png, jpeg, gif, webp, bmp, tiff)")
	fs.BoolVar(&c.paste, "paste", false, "start from the image on the clipboard")
	fs.StringVar(&c.size, "size", "", "canvas size as WIDTHxHEIGHT or a single width (default from config)")
}

func (c *canvasFlags) validate() error {
	if c.open != "" && c.paste {
		return errors.New("-open and -paste cannot be combined")
	}
	if c.size != "" && (c.open != "" || c.paste) {
		return errors.New("-size cannot be used with -open or -paste")
	}
	if c.size != "" {
		if _, _, err := session.ParseCanvasSize(c.size); err != nil {
			return err
		}
	}
	return nil
}

// openSession builds a session from the configuration, the canvas flags
// and the selected preset.
func (r *root) openSession(c canvasFlags) (*session.Controller, error) {
	style, err := r.config.Style()
	if err != nil {
		return nil, fmt.Errorf("invalid style in config: %w", err)
	}
	var cv *canvas.Canvas
	switch {
	case c.open != "":
		img, err := decodeFile(c.open)
		if err != nil {
			return nil, err
		}
		cv = canvas.FromImage(img)
	case c.paste:
		img, err := readClipboardImage()
		if err != nil {
			return nil, fmt.Errorf("failed to read clipboard: %w", err)
		}
		cv = canvas.FromImage(img)
	default:
		w, h := r.config.Canvas.Width, r.config.Canvas.Height
		if c.size != "" {
			if w, h, err = session.ParseCanvasSize(c.size); err != nil {
				return nil, err
			}
		}
		if cv, err = canvas.New(w, h, style.Background); err != nil {
			return nil, err
		}
	}
	sess, err := session.New(cv, session.WithStyle(style), session.WithHistoryLimit(r.historyLimit))
	if err != nil {
		return nil, err
	}
	if r.presetName != "" {
		p, err := r.presets.Load(r.presetName)
		if err != nil {
			return nil, fmt.Errorf("failed to load preset %q: %w", r.presetName, err)
		}
		if err := sess.ApplyPreset(p); err != nil {
			return nil, fmt.Errorf("failed to apply preset %q: %w", r.presetName, err)
		}
	}
	return sess, nil
}

func decodeFile(path string) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()
	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", path, err)
	}
	return img, nil
}
