package render

import (
	"image"
	"image/draw"

	"github.com/example/annotate-edit/internal/anno"
)

// Draw rasterizes a single annotation onto img. Degenerate annotations are
// skipped, matching the commit rules, so a stale in-progress value can be
// passed safely.
func Draw(img *image.RGBA, a anno.Annotation) {
	if a.Degenerate() {
		return
	}
	switch a.Kind {
	case anno.KindArrow:
		DrawArrow(img, a.Start, a.End, a.Color, a.Width)
	case anno.KindRect:
		r := image.Rect(a.Start.X, a.Start.Y, a.End.X, a.End.Y)
		if a.Fill {
			FillRect(img, r, a.Color)
		} else {
			StrokeRect(img, r, a.Color, a.Width)
		}
	case anno.KindEllipse:
		r := image.Rect(a.Start.X, a.Start.Y, a.End.X, a.End.Y)
		if a.Fill {
			FillEllipse(img, r, a.Color)
		} else {
			StrokeEllipse(img, r, a.Color, a.Width)
		}
	case anno.KindStroke:
		for i := 1; i < len(a.Points); i++ {
			StrokeLine(img, a.Points[i-1], a.Points[i], a.Color, a.Width)
		}
	case anno.KindText:
		// The embedded face cannot fail to parse at runtime; a nil error
		// path here would mean the binary itself is broken.
		_ = DrawText(img, a.Start.X, a.Start.Y, a.Text, a.Color, a.FontSize)
	}
}

// Flatten composites the document's annotations over a copy of its base image
// in paint order. With no annotations the result is a pixel-exact copy, which
// save relies on for round-trip fidelity.
func Flatten(doc *anno.Document) *image.RGBA {
	base := doc.Base()
	out := image.NewRGBA(base.Bounds())
	draw.Draw(out, out.Bounds(), base, base.Bounds().Min, draw.Src)
	for _, a := range doc.Annotations() {
		Draw(out, a)
	}
	return out
}
