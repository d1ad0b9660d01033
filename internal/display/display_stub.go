//go:build !(linux || freebsd || openbsd || netbsd || dragonfly)

package display

import "image"

// WorkArea returns the conservative default on platforms without an X server
// to ask.
func WorkArea() (image.Rectangle, error) {
	return DefaultWorkArea(), nil
}
