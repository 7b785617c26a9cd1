// Package clipboard copies drawings to and from the system clipboard.
// Images travel as PNG.
package clipboard

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/png"
	"os"
	"strings"
)

var (
	ErrNoDisplay   = errors.New("clipboard requires DISPLAY or WAYLAND_DISPLAY")
	ErrNoImage     = errors.New("clipboard does not contain image data")
	ErrNoText      = errors.New("clipboard does not contain text")
	ErrUnsupported = errors.New("clipboard is not supported on this platform")
)

func hasDisplay() bool {
	return os.Getenv("DISPLAY") != "" || os.Getenv("WAYLAND_DISPLAY") != ""
}

func encodeImage(img image.Image) ([]byte, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("encode clipboard image: %w", err)
	}
	return buf.Bytes(), nil
}

func decodeImage(data []byte) (image.Image, error) {
	if len(data) == 0 {
		return nil, ErrNoImage
	}
	img, err := png.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decode clipboard image: %w", err)
	}
	return img, nil
}

// decodeText trims the NUL some applications append to STRING replies
// and any trailing line break.
func decodeText(data []byte) (string, error) {
	s := strings.TrimRight(string(bytes.TrimRight(data, "\x00")), "\r\n")
	if s == "" {
		return "", ErrNoText
	}
	return s, nil
}
