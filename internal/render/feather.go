// Package render holds pixel-level helpers shared by the rasterizer.
package render

import (
	"image"
)

// Feather softens the edges of a coverage mask with a separable box blur of
// the given radius. The result has the same bounds as mask; coverage that
// would spill past them is lost, so callers pad the mask by radius first.
func Feather(mask *image.Alpha, radius int) *image.Alpha {
	if mask == nil {
		return nil
	}
	out := image.NewAlpha(mask.Bounds())
	if radius <= 0 || mask.Bounds().Empty() {
		copy(out.Pix, mask.Pix)
		return out
	}
	tmp := image.NewAlpha(mask.Bounds())
	w := mask.Bounds().Dx()
	h := mask.Bounds().Dy()

	prefix := make([]int, max(w, h)+1)
	for y := 0; y < h; y++ {
		row := mask.Pix[y*mask.Stride : y*mask.Stride+w]
		for x, v := range row {
			prefix[x+1] = prefix[x] + int(v)
		}
		dst := tmp.Pix[y*tmp.Stride : y*tmp.Stride+w]
		boxPass(dst, prefix, w, radius)
	}
	column := make([]uint8, h)
	for x := 0; x < w; x++ {
		for y := 0; y < h; y++ {
			prefix[y+1] = prefix[y] + int(tmp.Pix[y*tmp.Stride+x])
		}
		boxPass(column, prefix, h, radius)
		for y, v := range column {
			out.Pix[y*out.Stride+x] = v
		}
	}
	return out
}

// boxPass writes the mean of each radius window of a line, given its
// running prefix sums. Windows are truncated at the ends of the line but
// still divided by the full window width so edges fade out.
func boxPass(dst []uint8, prefix []int, n, radius int) {
	span := 2*radius + 1
	for i := 0; i < n; i++ {
		lo := max(i-radius, 0)
		hi := min(i+radius, n-1)
		sum := prefix[hi+1] - prefix[lo]
		dst[i] = uint8(sum / span)
	}
}
