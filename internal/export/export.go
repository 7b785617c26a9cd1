// Package export writes canvas images to files.
package export

import (
	"errors"
	"fmt"
	"image"
	"image/png"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/image/bmp"
	"golang.org/x/image/tiff"
)

// DefaultFilename is the export target when none is given.
const DefaultFilename = "drawing.png"

// ErrUnknownFormat is returned for an unsupported file type.
var ErrUnknownFormat = errors.New("unknown image format")

// Format is an output file type.
type Format int

const (
	PNG Format = iota
	BMP
	TIFF
	PDF
)

var formatNames = [...]string{PNG: "png", BMP: "bmp", TIFF: "tiff", PDF: "pdf"}

func (f Format) String() string {
	if f < 0 || int(f) >= len(formatNames) {
		return fmt.Sprintf("Format(%d)", int(f))
	}
	return formatNames[f]
}

// Formats lists the supported formats.
func Formats() []Format { return []Format{PNG, BMP, TIFF, PDF} }

// ParseFormat maps a format name or file extension ("png", ".tif") to its
// Format.
func ParseFormat(name string) (Format, error) {
	n := strings.ToLower(strings.TrimPrefix(strings.TrimSpace(name), "."))
	switch n {
	case "png":
		return PNG, nil
	case "bmp":
		return BMP, nil
	case "tif", "tiff":
		return TIFF, nil
	case "pdf":
		return PDF, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownFormat, name)
}

// FormatFor picks the format from the extension of path.
func FormatFor(path string) (Format, error) {
	ext := filepath.Ext(path)
	if ext == "" {
		return 0, fmt.Errorf("%w: %q has no extension", ErrUnknownFormat, path)
	}
	return ParseFormat(ext)
}

// Encode writes img to w in format f.
func Encode(w io.Writer, img image.Image, f Format) error {
	switch f {
	case PNG:
		return png.Encode(w, img)
	case BMP:
		return bmp.Encode(w, img)
	case TIFF:
		return tiff.Encode(w, img, &tiff.Options{Compression: tiff.Deflate, Predictor: true})
	case PDF:
		return encodePDF(w, img)
	}
	return fmt.Errorf("%w: %v", ErrUnknownFormat, f)
}

// Save writes img to path in the format named by its extension. An empty
// path means DefaultFilename. It returns the path written.
func Save(path string, img image.Image) (string, error) {
	if path == "" {
		path = DefaultFilename
	}
	f, err := FormatFor(path)
	if err != nil {
		return "", err
	}
	out, err := os.Create(path)
	if err != nil {
		return "", err
	}
	defer func(out *os.File) {
		if err := out.Close(); err != nil {
			log.Printf("error closing %q: %v", out.Name(), err)
		}
	}(out)
	if err := Encode(out, img, f); err != nil {
		return "", fmt.Errorf("encode %s: %w", f, err)
	}
	return path, nil
}
