// Package theme defines the editor's color palette and loads palettes from
// simple key-value theme files.
package theme

import (
	"fmt"
	"image/color"
	"reflect"
	"strings"
)

// Theme is the color palette for the editor chrome. The canvas content itself
// is never themed, only the surfaces around it.
type Theme struct {
	Name string

	// Window
	Background   color.RGBA // behind the canvas
	CanvasBorder color.RGBA

	// Toolbar
	ToolbarBackground color.RGBA
	ToolbarText       color.RGBA

	// Tool and action buttons
	ButtonBackground      color.RGBA
	ButtonBackgroundHover color.RGBA
	ButtonBackgroundPress color.RGBA
	ButtonBackgroundArmed color.RGBA // the active tool stays highlighted
	ButtonText            color.RGBA
	ButtonBorder          color.RGBA

	// Status bar
	StatusBackground color.RGBA
	StatusText       color.RGBA

	// Transparency backdrop under images with alpha
	CheckerLight color.RGBA
	CheckerDark  color.RGBA

	// Selection marquee dash pair
	SelectionPrimary   color.RGBA
	SelectionSecondary color.RGBA
}

// String renders the palette in the theme file format, Parse's inverse.
func (t *Theme) String() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Name: %s\n", t.Name)
	val := reflect.ValueOf(t).Elem()
	typ := val.Type()
	for i := 0; i < typ.NumField(); i++ {
		f := typ.Field(i)
		if f.Type != reflect.TypeOf(color.RGBA{}) {
			continue
		}
		fmt.Fprintf(&sb, "%s: %s\n", f.Name, FormatColor(val.Field(i).Interface().(color.RGBA)))
	}
	return sb.String()
}

// Default returns the built-in light palette, the fallback when no theme file
// loads.
func Default() *Theme {
	return &Theme{
		Name:                  "Light",
		Background:            color.RGBA{225, 225, 225, 255},
		CanvasBorder:          color.RGBA{120, 120, 120, 255},
		ToolbarBackground:     color.RGBA{240, 240, 240, 255},
		ToolbarText:           color.RGBA{20, 20, 20, 255},
		ButtonBackground:      color.RGBA{225, 225, 225, 255},
		ButtonBackgroundHover: color.RGBA{205, 205, 205, 255},
		ButtonBackgroundPress: color.RGBA{170, 170, 170, 255},
		ButtonBackgroundArmed: color.RGBA{185, 205, 235, 255},
		ButtonText:            color.RGBA{20, 20, 20, 255},
		ButtonBorder:          color.RGBA{130, 130, 130, 255},
		StatusBackground:      color.RGBA{240, 240, 240, 255},
		StatusText:            color.RGBA{40, 40, 40, 255},
		CheckerLight:          color.RGBA{220, 220, 220, 255},
		CheckerDark:           color.RGBA{192, 192, 192, 255},
		SelectionPrimary:      color.RGBA{0, 0, 0, 255},
		SelectionSecondary:    color.RGBA{255, 255, 255, 255},
	}
}
