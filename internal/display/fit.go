// Package display sizes the editor window against the desktop it opens on.
package display

import "image"

// DefaultWorkArea is the fallback when no display server answers.
func DefaultWorkArea() image.Rectangle {
	return image.Rect(0, 0, 1280, 800)
}

// FitWindow computes the initial window size for an image of the given size.
// chrome is the fixed width and height the editor adds around the canvas
// (toolbar, status bar, padding). The result always fits inside work with a
// small margin and never collapses below a usable minimum.
func FitWindow(imgSize image.Point, work image.Rectangle, chrome image.Point) image.Point {
	const margin = 32
	const minW, minH = 480, 320

	want := image.Pt(imgSize.X+chrome.X, imgSize.Y+chrome.Y)

	maxW := work.Dx() - margin
	maxH := work.Dy() - margin
	if maxW < minW {
		maxW = minW
	}
	if maxH < minH {
		maxH = minH
	}

	if want.X > maxW {
		want.X = maxW
	}
	if want.Y > maxH {
		want.Y = maxH
	}
	if want.X < minW {
		want.X = minW
	}
	if want.Y < minH {
		want.Y = minH
	}
	return want
}
