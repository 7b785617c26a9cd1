package canvas

import (
	"errors"
	"image"

	"github.com/google/uuid"

	"github.com/example/scribble/internal/paint"
)

// ErrForeignSnapshot is returned when restoring a snapshot that was not
// captured by a Canvas.
var ErrForeignSnapshot = errors.New("snapshot not captured by a canvas")

// Snapshot is a full copy of the canvas pixels at capture time.
type Snapshot struct {
	id  uuid.UUID
	img *image.RGBA
}

// ID identifies the capture.
func (s *Snapshot) ID() string { return s.id.String() }

// Bounds returns the captured canvas rectangle.
func (s *Snapshot) Bounds() image.Rectangle { return s.img.Bounds() }

// CaptureSnapshot copies the current pixels.
func (c *Canvas) CaptureSnapshot() paint.Snapshot {
	return &Snapshot{id: uuid.New(), img: cloneRGBA(c.img)}
}

// RestoreSnapshot replaces the canvas with the captured pixels, taking on
// the captured size if it differs. The snapshot stays usable afterwards.
func (c *Canvas) RestoreSnapshot(s paint.Snapshot) error {
	snap, ok := s.(*Snapshot)
	if !ok || snap == nil || snap.img == nil {
		return ErrForeignSnapshot
	}
	if c.img.Bounds() != snap.img.Bounds() {
		c.img = cloneRGBA(snap.img)
		return nil
	}
	copy(c.img.Pix, snap.img.Pix)
	return nil
}
