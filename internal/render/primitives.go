// Package render rasterizes annotations onto RGBA buffers in pure Go. All
// primitives blend source-over, so translucent colors (highlights) composite
// correctly, and stroke edges are antialiased by pixel coverage.
package render

import (
	"image"
	"image/color"
	"math"
)

// blendPixel writes c over the pixel at (x, y), honoring the alpha channel.
// Writes outside the buffer are clipped.
func blendPixel(img *image.RGBA, x, y int, c color.RGBA) {
	bounds := img.Bounds()
	if x < bounds.Min.X || x >= bounds.Max.X || y < bounds.Min.Y || y >= bounds.Max.Y {
		return
	}
	off := (y-bounds.Min.Y)*img.Stride + (x-bounds.Min.X)*4
	if c.A == 255 {
		img.Pix[off+0] = c.R
		img.Pix[off+1] = c.G
		img.Pix[off+2] = c.B
		img.Pix[off+3] = 255
		return
	}
	if c.A == 0 {
		return
	}
	srcA := uint32(c.A)
	invA := 255 - srcA
	img.Pix[off+0] = uint8((uint32(c.R)*srcA + uint32(img.Pix[off+0])*invA) / 255)
	img.Pix[off+1] = uint8((uint32(c.G)*srcA + uint32(img.Pix[off+1])*invA) / 255)
	img.Pix[off+2] = uint8((uint32(c.B)*srcA + uint32(img.Pix[off+2])*invA) / 255)
	img.Pix[off+3] = uint8(srcA + uint32(img.Pix[off+3])*invA/255)
}

// coverPixel blends c scaled by the coverage implied by dist, the pixel's
// distance from the stroke spine, against halfW, the stroke half width.
func coverPixel(img *image.RGBA, x, y int, c color.RGBA, dist, halfW float64) {
	if dist > halfW+0.5 {
		return
	}
	if dist <= halfW-0.5 {
		blendPixel(img, x, y, c)
		return
	}
	frac := halfW + 0.5 - dist
	ac := color.RGBA{c.R, c.G, c.B, uint8(float64(c.A) * frac)}
	blendPixel(img, x, y, ac)
}

func halfWidth(width int) float64 {
	hw := float64(width) / 2
	if hw < 0.75 {
		hw = 0.75
	}
	return hw
}

// StrokeLine draws a thick antialiased segment with round caps.
func StrokeLine(img *image.RGBA, a, b image.Point, c color.RGBA, width int) {
	hw := halfWidth(width)
	dx := float64(b.X - a.X)
	dy := float64(b.Y - a.Y)
	length := math.Hypot(dx, dy)
	if length < 0.5 {
		fillDot(img, float64(a.X), float64(a.Y), hw, c)
		return
	}
	ux, uy := dx/length, dy/length
	nx, ny := -uy, ux

	margin := int(hw) + 2
	x0, x1 := a.X, b.X
	if x0 > x1 {
		x0, x1 = x1, x0
	}
	y0, y1 := a.Y, b.Y
	if y0 > y1 {
		y0, y1 = y1, y0
	}
	ax, ay := float64(a.X), float64(a.Y)
	bx, by := float64(b.X), float64(b.Y)
	for py := y0 - margin; py <= y1+margin; py++ {
		for px := x0 - margin; px <= x1+margin; px++ {
			vx := float64(px) - ax
			vy := float64(py) - ay
			along := vx*ux + vy*uy
			var dist float64
			switch {
			case along <= 0:
				dist = math.Hypot(vx, vy)
			case along >= length:
				dist = math.Hypot(float64(px)-bx, float64(py)-by)
			default:
				dist = math.Abs(vx*nx + vy*ny)
			}
			coverPixel(img, px, py, c, dist, hw)
		}
	}
}

// fillDot draws an antialiased disc, the degenerate case of StrokeLine.
func fillDot(img *image.RGBA, cx, cy, r float64, c color.RGBA) {
	reach := int(r) + 2
	xi, yi := int(cx), int(cy)
	for py := yi - reach; py <= yi+reach; py++ {
		for px := xi - reach; px <= xi+reach; px++ {
			dist := math.Hypot(float64(px)-cx, float64(py)-cy)
			coverPixel(img, px, py, c, dist, r)
		}
	}
}

// StrokeRect outlines r, with the stroke centered on the border.
func StrokeRect(img *image.RGBA, r image.Rectangle, c color.RGBA, width int) {
	r = r.Canon()
	StrokeLine(img, r.Min, image.Pt(r.Max.X, r.Min.Y), c, width)
	StrokeLine(img, image.Pt(r.Max.X, r.Min.Y), r.Max, c, width)
	StrokeLine(img, r.Max, image.Pt(r.Min.X, r.Max.Y), c, width)
	StrokeLine(img, image.Pt(r.Min.X, r.Max.Y), r.Min, c, width)
}

// FillRect floods r with c, blending when translucent. Highlights are filled
// rectangles with a low-alpha color.
func FillRect(img *image.RGBA, r image.Rectangle, c color.RGBA) {
	r = r.Canon()
	for y := r.Min.Y; y < r.Max.Y; y++ {
		for x := r.Min.X; x < r.Max.X; x++ {
			blendPixel(img, x, y, c)
		}
	}
}

// DrawArrow draws a shaft from tail to tip and a filled triangular head. Head
// length scales with the stroke width but never drops below 12 pixels, so
// thin arrows stay legible.
func DrawArrow(img *image.RGBA, tail, tip image.Point, c color.RGBA, width int) {
	dx := float64(tip.X - tail.X)
	dy := float64(tip.Y - tail.Y)
	length := math.Hypot(dx, dy)
	if length < 1 {
		StrokeLine(img, tail, tip, c, width)
		return
	}
	headLen := float64(width) * 5
	if headLen < 12 {
		headLen = 12
	}
	if headLen > length {
		headLen = length
	}
	headHalf := headLen * 0.5

	ux, uy := dx/length, dy/length
	nx, ny := -uy, ux
	baseX := float64(tip.X) - ux*headLen
	baseY := float64(tip.Y) - uy*headLen

	// Stop the shaft at the head base so translucent colors do not double
	// blend under the triangle.
	shaftEnd := image.Pt(int(math.Round(baseX)), int(math.Round(baseY)))
	StrokeLine(img, tail, shaftEnd, c, width)

	left := image.Pt(int(math.Round(baseX+nx*headHalf)), int(math.Round(baseY+ny*headHalf)))
	right := image.Pt(int(math.Round(baseX-nx*headHalf)), int(math.Round(baseY-ny*headHalf)))
	fillTriangle(img, tip, left, right, c)
}

func fillTriangle(img *image.RGBA, p1, p2, p3 image.Point, c color.RGBA) {
	minY := min3(p1.Y, p2.Y, p3.Y)
	maxY := max3(p1.Y, p2.Y, p3.Y)
	for y := minY; y <= maxY; y++ {
		var xs []int
		xs = edgeCross(xs, y, p1, p2)
		xs = edgeCross(xs, y, p2, p3)
		xs = edgeCross(xs, y, p3, p1)
		if len(xs) < 2 {
			continue
		}
		lo, hi := xs[0], xs[0]
		for _, x := range xs[1:] {
			if x < lo {
				lo = x
			}
			if x > hi {
				hi = x
			}
		}
		for x := lo; x <= hi; x++ {
			blendPixel(img, x, y, c)
		}
	}
}

// edgeCross appends the x crossing of scanline y with edge ab, if any.
func edgeCross(xs []int, y int, a, b image.Point) []int {
	if a.Y > b.Y {
		a, b = b, a
	}
	if y < a.Y || y > b.Y || a.Y == b.Y {
		return xs
	}
	t := float64(y-a.Y) / float64(b.Y-a.Y)
	return append(xs, int(math.Round(float64(a.X)+t*float64(b.X-a.X))))
}

// StrokeEllipse outlines the ellipse inscribed in r using a distance field
// for smooth edges.
func StrokeEllipse(img *image.RGBA, r image.Rectangle, c color.RGBA, width int) {
	r = r.Canon()
	rx := float64(r.Dx()) / 2
	ry := float64(r.Dy()) / 2
	if rx <= 0 || ry <= 0 {
		StrokeLine(img, r.Min, r.Max, c, width)
		return
	}
	cx := float64(r.Min.X) + rx
	cy := float64(r.Min.Y) + ry
	hw := halfWidth(width)

	outerRx := rx + hw + 1.5
	outerRy := ry + hw + 1.5
	innerRx := rx - hw - 1.5
	innerRy := ry - hw - 1.5

	for py := int(cy-outerRy) - 1; py <= int(cy+outerRy)+1; py++ {
		dy := float64(py) - cy
		for px := int(cx-outerRx) - 1; px <= int(cx+outerRx)+1; px++ {
			dx := float64(px) - cx
			if outerRx > 0 && outerRy > 0 {
				if (dx*dx)/(outerRx*outerRx)+(dy*dy)/(outerRy*outerRy) > 1 {
					continue
				}
			}
			if innerRx > 0 && innerRy > 0 {
				if (dx*dx)/(innerRx*innerRx)+(dy*dy)/(innerRy*innerRy) < 1 {
					continue
				}
			}
			coverPixel(img, px, py, c, ellipseDist(float64(px), float64(py), cx, cy, rx, ry), hw)
		}
	}
}

// FillEllipse fills the inscribed ellipse with antialiased scanline edges.
func FillEllipse(img *image.RGBA, r image.Rectangle, c color.RGBA) {
	r = r.Canon()
	rx := float64(r.Dx()) / 2
	ry := float64(r.Dy()) / 2
	if rx <= 0 || ry <= 0 {
		return
	}
	cx := float64(r.Min.X) + rx
	cy := float64(r.Min.Y) + ry

	for dy := -int(ry) - 1; dy <= int(ry)+1; dy++ {
		t := 1 - float64(dy)*float64(dy)/(ry*ry)
		if t < -0.02 {
			continue
		}
		if t < 0 {
			t = 0
		}
		span := rx * math.Sqrt(t)
		xLeft := cx - span
		xRight := cx + span
		y := int(cy) + dy
		for x := int(math.Ceil(xLeft)); x <= int(math.Floor(xRight)); x++ {
			blendPixel(img, x, y, c)
		}
		lx := int(math.Floor(xLeft))
		if frac := xLeft - float64(lx); frac < 1 {
			blendPixel(img, lx, y, color.RGBA{c.R, c.G, c.B, uint8(float64(c.A) * (1 - frac))})
		}
		rxEdge := int(math.Ceil(xRight))
		if frac := float64(rxEdge) - xRight; frac < 1 {
			blendPixel(img, rxEdge, y, color.RGBA{c.R, c.G, c.B, uint8(float64(c.A) * (1 - frac))})
		}
	}
}

// ellipseDist approximates the distance from a point to the ellipse outline.
func ellipseDist(px, py, cx, cy, rx, ry float64) float64 {
	dx := (px - cx) / rx
	dy := (py - cy) / ry
	r := math.Hypot(dx, dy)
	if r < 0.001 {
		return math.Min(rx, ry)
	}
	t := 1 / r
	ex := cx + rx*dx*t
	ey := cy + ry*dy*t
	return math.Hypot(px-ex, py-ey)
}

// DashedRect outlines r with alternating dash colors, the selection marquee.
func DashedRect(img *image.RGBA, r image.Rectangle, dash int, c1, c2 color.RGBA) {
	r = r.Canon()
	dashedHLine(img, r.Min.X, r.Max.X, r.Min.Y, dash, c1, c2)
	dashedHLine(img, r.Min.X, r.Max.X, r.Max.Y-1, dash, c1, c2)
	dashedVLine(img, r.Min.Y, r.Max.Y, r.Min.X, dash, c1, c2)
	dashedVLine(img, r.Min.Y, r.Max.Y, r.Max.X-1, dash, c1, c2)
}

func dashedHLine(img *image.RGBA, x0, x1, y, dash int, c1, c2 color.RGBA) {
	for x := x0; x < x1; x++ {
		c := c1
		if (x/dash)%2 == 1 {
			c = c2
		}
		blendPixel(img, x, y, c)
	}
}

func dashedVLine(img *image.RGBA, y0, y1, x, dash int, c1, c2 color.RGBA) {
	for y := y0; y < y1; y++ {
		c := c1
		if (y/dash)%2 == 1 {
			c = c2
		}
		blendPixel(img, x, y, c)
	}
}

// Checkerboard fills rect with the classic transparency backdrop pattern.
func Checkerboard(dst *image.RGBA, rect image.Rectangle, size int, light, dark color.RGBA) {
	for y := rect.Min.Y; y < rect.Max.Y; y += size {
		for x := rect.Min.X; x < rect.Max.X; x += size {
			c := light
			if ((x/size)+(y/size))%2 == 1 {
				c = dark
			}
			cell := image.Rect(x, y, x+size, y+size).Intersect(rect)
			for cy := cell.Min.Y; cy < cell.Max.Y; cy++ {
				for cx := cell.Min.X; cx < cell.Max.X; cx++ {
					blendPixel(dst, cx, cy, c)
				}
			}
		}
	}
}

func min3(a, b, c int) int {
	m := a
	if b < m {
		m = b
	}
	if c < m {
		m = c
	}
	return m
}

func max3(a, b, c int) int {
	m := a
	if b > m {
		m = b
	}
	if c > m {
		m = c
	}
	return m
}
