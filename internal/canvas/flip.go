package canvas

import "github.com/example/scribble/internal/paint"

var _ paint.Flipper = (*Canvas)(nil)

// Flip mirrors the canvas left-to-right when horizontal is set and
// top-to-bottom otherwise.
func (c *Canvas) Flip(horizontal bool) {
	b := c.img.Bounds()
	w, h := b.Dx(), b.Dy()
	pix, stride := c.img.Pix, c.img.Stride
	if horizontal {
		for y := 0; y < h; y++ {
			row := pix[y*stride : y*stride+w*4]
			for l, r := 0, w-1; l < r; l, r = l+1, r-1 {
				for k := 0; k < 4; k++ {
					row[l*4+k], row[r*4+k] = row[r*4+k], row[l*4+k]
				}
			}
		}
		return
	}
	tmp := make([]byte, w*4)
	for t, u := 0, h-1; t < u; t, u = t+1, u-1 {
		top := pix[t*stride : t*stride+w*4]
		bottom := pix[u*stride : u*stride+w*4]
		copy(tmp, top)
		copy(top, bottom)
		copy(bottom, tmp)
	}
}
