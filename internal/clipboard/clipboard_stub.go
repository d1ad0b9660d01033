//go:build !(linux || freebsd || openbsd || netbsd || dragonfly)

// Package clipboard publishes the flattened image to the system clipboard.
package clipboard

import (
	"fmt"
	"image"
)

func WriteImage(image.Image) error {
	return fmt.Errorf("clipboard image operations are not supported on this platform")
}
