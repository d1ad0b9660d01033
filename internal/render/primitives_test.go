package render

import (
	"image"
	"image/color"
	"testing"
)

var (
	testRed  = color.RGBA{220, 40, 40, 255}
	testGray = color.RGBA{100, 100, 100, 255}
)

func TestStrokeLineCoverage(t *testing.T) {
	img := opaqueImage(20, 10, testGray)
	StrokeLine(img, image.Pt(2, 5), image.Pt(17, 5), testRed, 3)

	for _, p := range []image.Point{{2, 5}, {10, 5}, {17, 5}} {
		if got := img.RGBAAt(p.X, p.Y); got != testRed {
			t.Errorf("spine pixel %v = %+v, want %+v", p, got, testRed)
		}
	}
	if got := img.RGBAAt(10, 8); got != testGray {
		t.Errorf("pixel far from the stroke changed: %+v", got)
	}
}

func TestStrokeLineRoundCap(t *testing.T) {
	img := opaqueImage(24, 10, testGray)
	StrokeLine(img, image.Pt(5, 5), image.Pt(15, 5), testRed, 4)

	// The cap extends past the endpoint by the half width.
	if got := img.RGBAAt(16, 5); got != testRed {
		t.Errorf("cap pixel = %+v, want %+v", got, testRed)
	}
	if got := img.RGBAAt(18, 5); got != testGray {
		t.Errorf("pixel beyond the cap changed: %+v", got)
	}
}

func TestStrokeLineZeroLengthDrawsDot(t *testing.T) {
	img := opaqueImage(20, 20, testGray)
	StrokeLine(img, image.Pt(10, 10), image.Pt(10, 10), testRed, 4)

	if got := img.RGBAAt(10, 10); got != testRed {
		t.Errorf("dot center = %+v, want %+v", got, testRed)
	}
	if got := img.RGBAAt(14, 10); got != testGray {
		t.Errorf("pixel outside the dot changed: %+v", got)
	}
}

func TestFillRectBlendsTranslucentColor(t *testing.T) {
	img := opaqueImage(20, 20, testGray)
	FillRect(img, image.Rect(4, 4, 16, 16), color.RGBA{255, 230, 0, 128})

	want := color.RGBA{177, 165, 49, 255}
	if got := img.RGBAAt(10, 10); got != want {
		t.Errorf("blended pixel = %+v, want %+v", got, want)
	}
	if got := img.RGBAAt(1, 1); got != testGray {
		t.Errorf("pixel outside the rect changed: %+v", got)
	}
}

func TestDrawArrowHeadAndShaft(t *testing.T) {
	img := opaqueImage(40, 20, testGray)
	DrawArrow(img, image.Pt(2, 10), image.Pt(37, 10), testRed, 2)

	if got := img.RGBAAt(10, 10); got != testRed {
		t.Errorf("shaft pixel = %+v, want %+v", got, testRed)
	}
	// The triangular head is wider than the shaft near its base.
	if got := img.RGBAAt(28, 14); got != testRed {
		t.Errorf("head pixel off the spine = %+v, want %+v", got, testRed)
	}
	if got := img.RGBAAt(36, 10); got != testRed {
		t.Errorf("pixel near the tip = %+v, want %+v", got, testRed)
	}
	if got := img.RGBAAt(10, 16); got != testGray {
		t.Errorf("pixel far from the arrow changed: %+v", got)
	}
}

func TestStrokeEllipseLeavesInteriorUntouched(t *testing.T) {
	img := opaqueImage(40, 30, testGray)
	StrokeEllipse(img, image.Rect(5, 5, 35, 25), testRed, 2)

	// Extreme points sit exactly on the outline.
	if got := img.RGBAAt(5, 15); got != testRed {
		t.Errorf("left extreme = %+v, want %+v", got, testRed)
	}
	if got := img.RGBAAt(35, 15); got != testRed {
		t.Errorf("right extreme = %+v, want %+v", got, testRed)
	}
	if got := img.RGBAAt(20, 15); got != testGray {
		t.Errorf("ellipse center changed: %+v", got)
	}
}

func TestFillEllipseCoversCenterNotCorners(t *testing.T) {
	img := opaqueImage(20, 20, testGray)
	FillEllipse(img, image.Rect(0, 0, 20, 20), testRed)

	if got := img.RGBAAt(10, 10); got != testRed {
		t.Errorf("center = %+v, want %+v", got, testRed)
	}
	if got := img.RGBAAt(1, 1); got != testGray {
		t.Errorf("corner outside the ellipse changed: %+v", got)
	}
}

func TestDashedRectAlternatesColors(t *testing.T) {
	img := opaqueImage(12, 12, testGray)
	black := color.RGBA{0, 0, 0, 255}
	white := color.RGBA{255, 255, 255, 255}
	DashedRect(img, image.Rect(0, 0, 12, 12), 3, black, white)

	if got := img.RGBAAt(1, 0); got != black {
		t.Errorf("first dash = %+v, want black", got)
	}
	if got := img.RGBAAt(4, 0); got != white {
		t.Errorf("second dash = %+v, want white", got)
	}
	if got := img.RGBAAt(7, 0); got != black {
		t.Errorf("third dash = %+v, want black", got)
	}
	if got := img.RGBAAt(6, 6); got != testGray {
		t.Errorf("marquee interior changed: %+v", got)
	}
}

func TestCheckerboard(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 8, 8))
	light := color.RGBA{200, 200, 200, 255}
	dark := color.RGBA{120, 120, 120, 255}
	Checkerboard(img, img.Bounds(), 4, light, dark)

	if got := img.RGBAAt(1, 1); got != light {
		t.Errorf("first cell = %+v, want light", got)
	}
	if got := img.RGBAAt(5, 1); got != dark {
		t.Errorf("second cell = %+v, want dark", got)
	}
	if got := img.RGBAAt(5, 5); got != light {
		t.Errorf("diagonal cell = %+v, want light", got)
	}
}
