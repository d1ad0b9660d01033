package render

import (
	"fmt"
	"image"
	"image/color"
	"math"
	"sync"

	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"
)

var textSizes = []int{12, 16, 20, 24, 32}

var (
	fontOnce    sync.Once
	fontErr     error
	regularFont *opentype.Font
	fixedFaces  map[int]font.Face
	extraFaces  sync.Map // map[int]font.Face
)

func loadFont() {
	f, err := opentype.Parse(goregular.TTF)
	if err != nil {
		fontErr = fmt.Errorf("parse embedded font: %w", err)
		return
	}
	regularFont = f
	fixedFaces = make(map[int]font.Face, len(textSizes))
	for _, sz := range textSizes {
		face, err := opentype.NewFace(f, &opentype.FaceOptions{Size: float64(sz), DPI: 72, Hinting: font.HintingFull})
		if err != nil {
			fontErr = fmt.Errorf("font face %dpt: %w", sz, err)
			return
		}
		fixedFaces[sz] = face
	}
}

// TextSizes returns the point sizes offered in the editor.
func TextSizes() []int {
	out := make([]int, len(textSizes))
	copy(out, textSizes)
	return out
}

// DefaultTextSize is the size new text annotations start with.
func DefaultTextSize() int {
	return 20
}

// ClosestTextSize snaps an arbitrary size to the nearest offered one.
func ClosestTextSize(size int) int {
	best := textSizes[0]
	for _, sz := range textSizes {
		if math.Abs(float64(sz-size)) < math.Abs(float64(best-size)) {
			best = sz
		}
	}
	return best
}

func faceForSize(size int) (font.Face, error) {
	fontOnce.Do(loadFont)
	if fontErr != nil {
		return nil, fontErr
	}
	if size <= 0 {
		size = DefaultTextSize()
	}
	if face, ok := fixedFaces[size]; ok {
		return face, nil
	}
	if face, ok := extraFaces.Load(size); ok {
		return face.(font.Face), nil
	}
	face, err := opentype.NewFace(regularFont, &opentype.FaceOptions{Size: float64(size), DPI: 72, Hinting: font.HintingFull})
	if err != nil {
		return nil, err
	}
	extraFaces.Store(size, face)
	return face, nil
}

// MeasureText reports the bounding box of text at size, and the offset from
// the box top to the baseline.
func MeasureText(text string, size int) (width, height, baseline int, err error) {
	face, err := faceForSize(size)
	if err != nil {
		return 0, 0, 0, err
	}
	drawer := &font.Drawer{Face: face}
	width = drawer.MeasureString(text).Ceil()
	metrics := face.Metrics()
	baseline = metrics.Ascent.Ceil()
	height = baseline + metrics.Descent.Ceil()
	return width, height, baseline, nil
}

// DrawText renders text with its top-left corner at (x, y).
func DrawText(img *image.RGBA, x, y int, text string, col color.RGBA, size int) error {
	face, err := faceForSize(size)
	if err != nil {
		return err
	}
	drawer := &font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(col),
		Face: face,
		Dot:  fixed.P(x, y+face.Metrics().Ascent.Ceil()),
	}
	drawer.DrawString(text)
	return nil
}
