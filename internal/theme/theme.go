// Package theme holds the color palette of the drawing window.
package theme

import (
	"embed"
	"image/color"
)

// EmbeddedThemes carries the built-in themes.
//
//go:embed defaults/*.theme
var EmbeddedThemes embed.FS

// Theme defines the colors of the window chrome.
type Theme struct {
	Name string

	Background color.RGBA // behind the canvas
	Foreground color.RGBA

	ToolbarBackground color.RGBA
	ButtonBackground  color.RGBA
	ButtonActive      color.RGBA // selected tool
	ButtonText        color.RGBA
	ButtonBorder      color.RGBA

	StatusBackground color.RGBA
	StatusText       color.RGBA

	// Transparent canvas pixels are shown over a checkerboard.
	CheckerLight color.RGBA
	CheckerDark  color.RGBA
}

// Default returns the built-in light palette.
func Default() *Theme {
	return &Theme{
		Name:              "light",
		Background:        color.RGBA{200, 200, 200, 255},
		Foreground:        color.RGBA{0, 0, 0, 255},
		ToolbarBackground: color.RGBA{225, 225, 225, 255},
		ButtonBackground:  color.RGBA{240, 240, 240, 255},
		ButtonActive:      color.RGBA{170, 200, 240, 255},
		ButtonText:        color.RGBA{0, 0, 0, 255},
		ButtonBorder:      color.RGBA{120, 120, 120, 255},
		StatusBackground:  color.RGBA{225, 225, 225, 255},
		StatusText:        color.RGBA{40, 40, 40, 255},
		CheckerLight:      color.RGBA{220, 220, 220, 255},
		CheckerDark:       color.RGBA{192, 192, 192, 255},
	}
}
