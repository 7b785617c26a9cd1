package render

import (
	"image"
	"image/color"
	"testing"
)

func TestFeatherZeroRadiusCopies(t *testing.T) {
	mask := image.NewAlpha(image.Rect(2, 3, 6, 7))
	mask.SetAlpha(3, 4, color.Alpha{A: 200})
	out := Feather(mask, 0)
	if out == mask {
		t.Fatal("expected a copy")
	}
	if !out.Bounds().Eq(mask.Bounds()) {
		t.Fatalf("bounds %v, want %v", out.Bounds(), mask.Bounds())
	}
	if got := out.AlphaAt(3, 4).A; got != 200 {
		t.Fatalf("alpha %d, want 200", got)
	}
}

func TestFeatherSpreadsCoverage(t *testing.T) {
	mask := image.NewAlpha(image.Rect(0, 0, 9, 9))
	for y := 3; y < 6; y++ {
		for x := 3; x < 6; x++ {
			mask.SetAlpha(x, y, color.Alpha{A: 255})
		}
	}
	out := Feather(mask, 2)
	centre := out.AlphaAt(4, 4).A
	if centre == 0 {
		t.Fatal("expected coverage at centre")
	}
	edge := out.AlphaAt(1, 4).A
	if edge == 0 {
		t.Fatal("expected blur to reach two pixels out")
	}
	if edge >= centre {
		t.Fatalf("edge %d should be softer than centre %d", edge, centre)
	}
	if out.AlphaAt(0, 0).A != 0 {
		t.Fatal("expected far corner to stay clear")
	}
}

func TestFeatherKeepsSolidInterior(t *testing.T) {
	mask := image.NewAlpha(image.Rect(0, 0, 20, 20))
	for i := range mask.Pix {
		mask.Pix[i] = 255
	}
	out := Feather(mask, 3)
	if got := out.AlphaAt(10, 10).A; got != 255 {
		t.Fatalf("interior alpha %d, want 255", got)
	}
	if got := out.AlphaAt(0, 0).A; got >= 255 {
		t.Fatalf("corner alpha %d should fade", got)
	}
}
