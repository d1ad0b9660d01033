package render

import (
	"image"
	"image/color"
	"testing"
)

func opaqueImage(w, h int, c color.RGBA) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetRGBA(x, y, c)
		}
	}
	return img
}

func TestApplyShadowCanvasGeometry(t *testing.T) {
	img := opaqueImage(10, 10, color.RGBA{200, 200, 200, 255})
	opts := ShadowOptions{Radius: 4, Offset: image.Pt(8, 6), Opacity: 0.5}

	out := ApplyShadow(img, opts)
	if out == nil {
		t.Fatal("no output image")
	}
	// Canvas covers the source plus the blurred silhouette shifted by the
	// offset, rebased to a zero origin.
	want := image.Rect(0, 0, 22, 20)
	if !out.Bounds().Eq(want) {
		t.Fatalf("bounds = %v, want %v", out.Bounds(), want)
	}
	// Source content lands at its original coordinates.
	if got := out.RGBAAt(0, 0); got != img.RGBAAt(0, 0) {
		t.Fatalf("source pixel at origin = %+v, want %+v", got, img.RGBAAt(0, 0))
	}
	// Past the source, inside the offset region, only shadow alpha remains.
	if a := out.RGBAAt(15, 12).A; a == 0 {
		t.Error("no shadow alpha in the offset region")
	}
}

func TestApplyShadowZeroOpacityIsIdentity(t *testing.T) {
	img := opaqueImage(4, 4, color.RGBA{200, 100, 50, 255})

	out := ApplyShadow(img, ShadowOptions{Radius: 12, Offset: image.Pt(20, 10)})
	if out != img {
		t.Fatal("zero opacity should return the input unchanged")
	}
}

func TestApplyShadowBlurSpreadsAlpha(t *testing.T) {
	img := opaqueImage(4, 4, color.RGBA{0, 0, 0, 255})
	opts := ShadowOptions{Radius: 3, Offset: image.Pt(10, 0), Opacity: 1}

	out := ApplyShadow(img, opts)
	// The hard silhouette covers x in [10,14); blur must leak past its edge.
	edge := out.RGBAAt(14, 5).A
	beyond := out.RGBAAt(16, 5).A
	if edge == 0 {
		t.Fatal("no shadow alpha at the silhouette edge")
	}
	if beyond == 0 {
		t.Error("blur did not spread beyond the silhouette")
	}
	if beyond >= edge {
		t.Errorf("alpha should fall off with distance: edge=%d beyond=%d", edge, beyond)
	}
}

func TestApplyShadowBackgroundFill(t *testing.T) {
	img := opaqueImage(6, 6, color.RGBA{10, 20, 30, 255})
	bg := color.RGBA{240, 240, 240, 255}

	out := ApplyShadow(img, ShadowOptions{
		Radius: 2, Offset: image.Pt(4, 4), Opacity: 0.5, Background: bg,
	})
	for y := out.Bounds().Min.Y; y < out.Bounds().Max.Y; y++ {
		for x := out.Bounds().Min.X; x < out.Bounds().Max.X; x++ {
			if out.RGBAAt(x, y).A != 255 {
				t.Fatalf("translucent pixel at (%d,%d) despite background fill", x, y)
			}
		}
	}
	// A corner outside both source and shadow keeps the plain background.
	if got := out.RGBAAt(out.Bounds().Max.X-1, 0); got != bg {
		t.Errorf("corner = %+v, want background %+v", got, bg)
	}
}
