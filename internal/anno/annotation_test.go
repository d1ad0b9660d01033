package anno

import (
	"image"
	"image/color"
	"testing"
)

var red = color.RGBA{255, 0, 0, 255}

func TestDegenerate(t *testing.T) {
	cases := []struct {
		name string
		a    Annotation
		want bool
	}{
		{"zero arrow", Annotation{Kind: KindArrow, Start: image.Pt(5, 5), End: image.Pt(5, 5)}, true},
		{"real arrow", Annotation{Kind: KindArrow, Start: image.Pt(5, 5), End: image.Pt(40, 20)}, false},
		{"zero rect", Annotation{Kind: KindRect, Start: image.Pt(3, 3), End: image.Pt(3, 3)}, true},
		{"real rect", Annotation{Kind: KindRect, Start: image.Pt(3, 3), End: image.Pt(30, 18)}, false},
		{"zero ellipse", Annotation{Kind: KindEllipse, Start: image.Pt(0, 0), End: image.Pt(0, 0)}, true},
		{"empty stroke", Annotation{Kind: KindStroke}, true},
		{"single point stroke", Annotation{Kind: KindStroke, Points: []image.Point{{4, 4}}}, true},
		{"stationary stroke", Annotation{Kind: KindStroke, Points: []image.Point{{4, 4}, {4, 4}, {4, 4}}}, true},
		{"real stroke", Annotation{Kind: KindStroke, Points: []image.Point{{4, 4}, {9, 12}}}, false},
		{"empty text", Annotation{Kind: KindText, Text: ""}, true},
		{"whitespace text", Annotation{Kind: KindText, Text: "   \t"}, true},
		{"real text", Annotation{Kind: KindText, Text: "hello", FontSize: 16}, false},
	}
	for _, c := range cases {
		if got := c.a.Degenerate(); got != c.want {
			t.Errorf("%s: Degenerate() = %v, want %v", c.name, got, c.want)
		}
	}
}

func TestTranslated(t *testing.T) {
	a := Annotation{
		Kind:   KindStroke,
		Start:  image.Pt(1, 2),
		End:    image.Pt(3, 4),
		Points: []image.Point{{1, 2}, {3, 4}},
		Color:  red,
		Width:  2,
	}
	moved := a.Translated(image.Pt(10, -5))
	if moved.Start != image.Pt(11, -3) || moved.End != image.Pt(13, -1) {
		t.Errorf("endpoints not moved: %v %v", moved.Start, moved.End)
	}
	if moved.Points[0] != image.Pt(11, -3) || moved.Points[1] != image.Pt(13, -1) {
		t.Errorf("points not moved: %v", moved.Points)
	}
	if a.Points[0] != image.Pt(1, 2) {
		t.Error("original mutated by Translated")
	}
}

func TestCloneIndependence(t *testing.T) {
	a := Annotation{Kind: KindStroke, Points: []image.Point{{1, 1}, {2, 2}}}
	c := a.Clone()
	c.Points[0] = image.Pt(99, 99)
	if a.Points[0] != image.Pt(1, 1) {
		t.Error("Clone shares Points storage with the original")
	}
}

func TestBoundsCoversGeometry(t *testing.T) {
	a := Annotation{Kind: KindRect, Start: image.Pt(30, 40), End: image.Pt(10, 20), Width: 4}
	b := a.Bounds()
	if !image.Rect(10, 20, 30, 40).In(b) {
		t.Errorf("bounds %v does not cover the canonical rect", b)
	}

	arrow := Annotation{Kind: KindArrow, Start: image.Pt(0, 0), End: image.Pt(50, 0), Width: 2}
	ab := arrow.Bounds()
	if ab.Min.Y > -10 {
		t.Errorf("arrow bounds %v leaves no room for the head", ab)
	}

	stroke := Annotation{Kind: KindStroke, Points: []image.Point{{5, 5}, {20, 8}, {11, 30}}, Width: 3}
	sb := stroke.Bounds()
	for _, p := range stroke.Points {
		if !p.In(sb) {
			t.Errorf("stroke point %v outside bounds %v", p, sb)
		}
	}
}

func TestHit(t *testing.T) {
	arrow := Annotation{Kind: KindArrow, Start: image.Pt(0, 10), End: image.Pt(100, 10), Width: 2}
	if !arrow.Hit(image.Pt(50, 11), 4) {
		t.Error("point on the shaft missed")
	}
	if arrow.Hit(image.Pt(50, 40), 4) {
		t.Error("point far from the shaft hit")
	}

	rect := Annotation{Kind: KindRect, Start: image.Pt(10, 10), End: image.Pt(60, 40), Width: 2}
	if !rect.Hit(image.Pt(10, 25), 4) {
		t.Error("left border missed")
	}
	if rect.Hit(image.Pt(35, 25), 4) {
		t.Error("interior of an outlined rect should not hit")
	}

	filled := rect
	filled.Fill = true
	if !filled.Hit(image.Pt(35, 25), 4) {
		t.Error("interior of a filled rect missed")
	}

	ellipse := Annotation{Kind: KindEllipse, Start: image.Pt(0, 0), End: image.Pt(40, 20), Width: 2}
	if !ellipse.Hit(image.Pt(20, 0), 4) {
		t.Error("top of the ellipse ring missed")
	}
	if ellipse.Hit(image.Pt(20, 10), 2) {
		t.Error("ellipse center should not hit the ring")
	}

	text := Annotation{Kind: KindText, Start: image.Pt(10, 10), Text: "note", FontSize: 16}
	if !text.Hit(image.Pt(20, 18), 0) {
		t.Error("inside the text box missed")
	}
	if text.Hit(image.Pt(200, 200), 0) {
		t.Error("far point hit the text box")
	}
}

func TestHitTopmostOrder(t *testing.T) {
	d := NewDocument(image.NewRGBA(image.Rect(0, 0, 100, 100)))
	bottom := Annotation{Kind: KindRect, Start: image.Pt(10, 10), End: image.Pt(60, 60), Fill: true, Width: 2}
	top := Annotation{Kind: KindRect, Start: image.Pt(10, 10), End: image.Pt(60, 60), Fill: true, Width: 2}
	d.Append(bottom)
	d.Append(top)
	idx, ok := d.Hit(image.Pt(30, 30), 2)
	if !ok {
		t.Fatal("overlapping rects not hit")
	}
	if idx != 1 {
		t.Errorf("hit index = %d, want the topmost (1)", idx)
	}
}
