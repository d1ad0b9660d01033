// Package anno holds the annotation data model: the annotation variants, the
// document that owns them, and the undo history. Geometry is always in image
// pixels, never screen pixels, so the model is independent of zoom and pan.
package anno

import (
	"image"
	"image/color"
	"math"
	"strings"
)

// Kind discriminates the annotation variants.
type Kind uint8

const (
	KindArrow Kind = iota
	KindRect
	KindEllipse
	KindStroke
	KindText
)

func (k Kind) String() string {
	switch k {
	case KindArrow:
		return "arrow"
	case KindRect:
		return "rect"
	case KindEllipse:
		return "ellipse"
	case KindStroke:
		return "stroke"
	case KindText:
		return "text"
	}
	return "unknown"
}

// Annotation is one drawn element. Which fields are meaningful depends on
// Kind: Start/End span arrows, rectangles and ellipses, Points carries
// freehand strokes, Text/FontSize apply to text. Start doubles as the text
// anchor. A color with alpha below 255 renders translucent, which is how
// highlights are expressed. Values are treated as immutable once committed;
// edits replace the whole value.
type Annotation struct {
	Kind     Kind
	Start    image.Point
	End      image.Point
	Points   []image.Point
	Color    color.RGBA
	Width    int
	Fill     bool
	Text     string
	FontSize int
}

// Clone returns a copy that shares no memory with a.
func (a Annotation) Clone() Annotation {
	c := a
	if a.Points != nil {
		c.Points = make([]image.Point, len(a.Points))
		copy(c.Points, a.Points)
	}
	return c
}

// Translated returns a copy moved by d. Moves replace the annotation
// wholesale rather than mutating it in place.
func (a Annotation) Translated(d image.Point) Annotation {
	c := a.Clone()
	c.Start = c.Start.Add(d)
	c.End = c.End.Add(d)
	for i := range c.Points {
		c.Points[i] = c.Points[i].Add(d)
	}
	return c
}

// Degenerate reports whether the annotation carries no drawable content:
// zero-extent shapes, strokes with fewer than two distinct points, or blank
// text. Degenerate annotations are discarded instead of committed.
func (a Annotation) Degenerate() bool {
	switch a.Kind {
	case KindArrow, KindRect, KindEllipse:
		return a.Start == a.End
	case KindStroke:
		if len(a.Points) < 2 {
			return true
		}
		first := a.Points[0]
		for _, p := range a.Points[1:] {
			if p != first {
				return false
			}
		}
		return true
	case KindText:
		return strings.TrimSpace(a.Text) == ""
	}
	return true
}

// Bounds returns the occupied image rectangle, inflated to cover the stroke
// width and, for arrows, the head.
func (a Annotation) Bounds() image.Rectangle {
	pad := a.Width/2 + 1
	switch a.Kind {
	case KindArrow:
		head := 5 * a.Width
		if head < 12 {
			head = 12
		}
		return canonRect(a.Start, a.End).Inset(-head)
	case KindRect, KindEllipse:
		return canonRect(a.Start, a.End).Inset(-pad)
	case KindStroke:
		if len(a.Points) == 0 {
			return image.Rectangle{}
		}
		r := image.Rectangle{Min: a.Points[0], Max: a.Points[0].Add(image.Point{1, 1})}
		for _, p := range a.Points[1:] {
			r = r.Union(image.Rectangle{Min: p, Max: p.Add(image.Point{1, 1})})
		}
		return r.Inset(-pad)
	case KindText:
		return a.textBox().Inset(-pad)
	}
	return image.Rectangle{}
}

// textBox approximates the rendered text extent from the glyph count. The
// renderer measures precisely; for hit testing the approximation is enough.
func (a Annotation) textBox() image.Rectangle {
	w := int(float64(len([]rune(a.Text))) * float64(a.FontSize) * 0.6)
	h := int(float64(a.FontSize) * 1.2)
	return image.Rect(a.Start.X, a.Start.Y, a.Start.X+w, a.Start.Y+h)
}

// Hit reports whether p lands on the annotation, with slack easing selection
// of thin strokes. Filled shapes accept interior hits, outlined shapes only
// the border ring.
func (a Annotation) Hit(p image.Point, slack int) bool {
	reach := float64(a.Width) + float64(slack)
	switch a.Kind {
	case KindArrow:
		return segmentDist(p, a.Start, a.End) <= reach
	case KindRect:
		r := canonRect(a.Start, a.End)
		if a.Fill {
			return p.In(r.Inset(-slack))
		}
		return onRectRing(p, r, reach)
	case KindEllipse:
		return onEllipse(p, canonRect(a.Start, a.End), reach, a.Fill)
	case KindStroke:
		for i := 1; i < len(a.Points); i++ {
			if segmentDist(p, a.Points[i-1], a.Points[i]) <= reach {
				return true
			}
		}
		return false
	case KindText:
		return p.In(a.textBox().Inset(-4))
	}
	return false
}

func canonRect(a, b image.Point) image.Rectangle {
	return image.Rect(a.X, a.Y, b.X, b.Y)
}

// segmentDist is the distance from p to the segment ab.
func segmentDist(p, a, b image.Point) float64 {
	ax, ay := float64(a.X), float64(a.Y)
	bx, by := float64(b.X), float64(b.Y)
	px, py := float64(p.X), float64(p.Y)
	dx, dy := bx-ax, by-ay
	lenSq := dx*dx + dy*dy
	if lenSq == 0 {
		return math.Hypot(px-ax, py-ay)
	}
	t := ((px-ax)*dx + (py-ay)*dy) / lenSq
	if t < 0 {
		t = 0
	} else if t > 1 {
		t = 1
	}
	return math.Hypot(px-(ax+t*dx), py-(ay+t*dy))
}

// onRectRing tests p against the border band of r.
func onRectRing(p image.Point, r image.Rectangle, reach float64) bool {
	band := int(math.Ceil(reach))
	outer := r.Inset(-band)
	inner := r.Inset(band)
	if !p.In(outer) {
		return false
	}
	if inner.Empty() {
		return true
	}
	return !p.In(inner)
}

func onEllipse(p image.Point, r image.Rectangle, reach float64, fill bool) bool {
	rx := float64(r.Dx()) / 2
	ry := float64(r.Dy()) / 2
	if rx <= 0 || ry <= 0 {
		return false
	}
	cx := float64(r.Min.X) + rx
	cy := float64(r.Min.Y) + ry
	nx := (float64(p.X) - cx) / rx
	ny := (float64(p.Y) - cy) / ry
	d := math.Sqrt(nx*nx + ny*ny)
	if fill {
		return d <= 1+reach/math.Min(rx, ry)
	}
	return math.Abs(d-1)*math.Min(rx, ry) <= reach
}
