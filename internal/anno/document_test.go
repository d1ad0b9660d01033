package anno

import (
	"image"
	"testing"
)

func TestDocumentMutators(t *testing.T) {
	d := NewDocument(image.NewRGBA(image.Rect(0, 0, 80, 60)))
	if d.Modified() {
		t.Error("fresh document reports modified")
	}
	if d.Size() != image.Pt(80, 60) {
		t.Errorf("Size = %v", d.Size())
	}

	a := Annotation{Kind: KindArrow, Start: image.Pt(1, 1), End: image.Pt(9, 9), Width: 2}
	b := Annotation{Kind: KindText, Start: image.Pt(5, 5), Text: "x", FontSize: 16}
	d.Append(a)
	d.Append(b)

	if got, ok := d.At(1); !ok || got.Kind != KindText {
		t.Errorf("At(1) = %v %v", got, ok)
	}
	if _, ok := d.At(2); ok {
		t.Error("At out of range succeeded")
	}

	moved := a.Translated(image.Pt(3, 3))
	if !d.ReplaceAt(0, moved) {
		t.Fatal("ReplaceAt failed")
	}
	if got, _ := d.At(0); got.Start != image.Pt(4, 4) {
		t.Errorf("replace not visible: %v", got.Start)
	}

	if !d.RemoveAt(0) {
		t.Fatal("RemoveAt failed")
	}
	if d.Len() != 1 {
		t.Errorf("Len = %d after removal", d.Len())
	}
	if got, _ := d.At(0); got.Kind != KindText {
		t.Error("removal disturbed order")
	}
	if d.RemoveAt(5) {
		t.Error("RemoveAt out of range succeeded")
	}
}

func TestAnnotationsReturnsFreshSlice(t *testing.T) {
	d := NewDocument(image.NewRGBA(image.Rect(0, 0, 10, 10)))
	d.Append(Annotation{Kind: KindRect, Start: image.Pt(0, 0), End: image.Pt(5, 5)})
	list := d.Annotations()
	list[0] = Annotation{Kind: KindText, Text: "clobber"}
	if got, _ := d.At(0); got.Kind != KindRect {
		t.Error("caller slice writes leaked into the document")
	}
}
