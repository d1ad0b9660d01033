package render

import (
	"image"
	"image/color"
	"image/draw"
)

// ShadowOptions configure the presentation-style export: the flattened image
// is placed on an expanded canvas with a blurred drop shadow behind it.
type ShadowOptions struct {
	Radius  int
	Offset  image.Point
	Opacity float64
	// Background fills the expanded canvas when its alpha is non-zero.
	// Opaque targets like JPEG need this; PNG can stay transparent.
	Background color.RGBA
}

// DefaultShadowOptions work well for screenshots.
func DefaultShadowOptions() ShadowOptions {
	return ShadowOptions{
		Radius:  24,
		Offset:  image.Pt(16, 16),
		Opacity: 0.55,
	}
}

// ApplyShadow returns img composited over a blurred drop shadow on an
// expanded canvas with a zero-based origin. Zero opacity or an empty image
// returns img unchanged.
func ApplyShadow(img *image.RGBA, opts ShadowOptions) *image.RGBA {
	if img == nil || img.Bounds().Empty() || opts.Opacity <= 0 {
		return img
	}
	opacity := opts.Opacity
	if opacity > 1 {
		opacity = 1
	}
	radius := opts.Radius
	if radius < 0 {
		radius = 0
	}

	srcBounds := img.Bounds()
	padded := srcBounds
	if radius > 0 {
		padded = padded.Inset(-radius)
	}
	shadowBounds := padded.Add(opts.Offset)
	composite := srcBounds.Union(shadowBounds)
	dst := image.NewRGBA(composite.Sub(composite.Min))
	if dst.Bounds().Empty() {
		return img
	}

	if opts.Background.A > 0 {
		draw.Draw(dst, dst.Bounds(), image.NewUniform(opts.Background), image.Point{}, draw.Src)
	}

	// The shadow silhouette is the source alpha channel, blurred.
	mask := image.NewGray(padded.Sub(padded.Min))
	for y := srcBounds.Min.Y; y < srcBounds.Max.Y; y++ {
		for x := srcBounds.Min.X; x < srcBounds.Max.X; x++ {
			if a := img.RGBAAt(x, y).A; a > 0 {
				mask.SetGray(x-padded.Min.X, y-padded.Min.Y, color.Gray{Y: a})
			}
		}
	}
	blurred := boxBlur(mask, radius)

	shadowOrigin := shadowBounds.Min.Sub(composite.Min)
	alpha := uint8(opacity*255 + 0.5)
	if alpha > 0 {
		draw.DrawMask(dst, blurred.Bounds().Add(shadowOrigin),
			image.NewUniform(color.RGBA{0, 0, 0, alpha}), image.Point{},
			blurred, blurred.Bounds().Min, draw.Over)
	}
	draw.Draw(dst, srcBounds.Sub(composite.Min), img, srcBounds.Min, draw.Over)
	return dst
}

// boxBlur runs a two-pass box blur over a gray image using prefix sums, so
// the cost stays linear in the pixel count regardless of radius.
func boxBlur(src *image.Gray, radius int) *image.Gray {
	if radius <= 0 {
		out := image.NewGray(src.Bounds())
		copy(out.Pix, src.Pix)
		return out
	}
	bounds := src.Bounds()
	w := bounds.Dx()
	h := bounds.Dy()
	tmp := image.NewGray(bounds)
	dst := image.NewGray(bounds)

	for y := 0; y < h; y++ {
		rowStart := y * src.Stride
		tmpStart := y * tmp.Stride
		prefix := make([]int, w+1)
		for x := 0; x < w; x++ {
			prefix[x+1] = prefix[x] + int(src.Pix[rowStart+x])
		}
		for x := 0; x < w; x++ {
			x0 := max(x-radius, 0)
			x1 := min(x+radius, w-1)
			tmp.Pix[tmpStart+x] = uint8((prefix[x1+1] - prefix[x0]) / (x1 - x0 + 1))
		}
	}

	for x := 0; x < w; x++ {
		prefix := make([]int, h+1)
		for y := 0; y < h; y++ {
			prefix[y+1] = prefix[y] + int(tmp.Pix[y*tmp.Stride+x])
		}
		for y := 0; y < h; y++ {
			y0 := max(y-radius, 0)
			y1 := min(y+radius, h-1)
			dst.Pix[y*dst.Stride+x] = uint8((prefix[y1+1] - prefix[y0]) / (y1 - y0 + 1))
		}
	}
	return dst
}
