package anno

import "image"

// Document owns the base image and the ordered annotations layered over it.
// Order is paint order: later entries draw on top. The document has exactly
// one owner, the editor session, and is only mutated on the event loop.
type Document struct {
	base        *image.RGBA
	annotations []Annotation
}

// NewDocument wraps a decoded base image. The base is not copied; the caller
// hands over ownership.
func NewDocument(base *image.RGBA) *Document {
	return &Document{base: base}
}

// Base returns the owned base image.
func (d *Document) Base() *image.RGBA {
	return d.base
}

// Size is the base image extent in pixels.
func (d *Document) Size() image.Point {
	return d.base.Bounds().Size()
}

// Len is the number of annotations.
func (d *Document) Len() int {
	return len(d.annotations)
}

// Modified reports whether any annotations are present. An unmodified
// document saves as an untouched copy of the source.
func (d *Document) Modified() bool {
	return len(d.annotations) > 0
}

// Annotations returns the sequence in paint order. The slice is fresh but the
// entries share Points storage; annotations are immutable by convention, so
// callers read, never write.
func (d *Document) Annotations() []Annotation {
	return append([]Annotation(nil), d.annotations...)
}

// At returns the annotation at index i.
func (d *Document) At(i int) (Annotation, bool) {
	if i < 0 || i >= len(d.annotations) {
		return Annotation{}, false
	}
	return d.annotations[i], true
}

// Append adds a committed annotation on top.
func (d *Document) Append(a Annotation) {
	d.annotations = append(d.annotations, a)
}

// ReplaceAt swaps the annotation at i for a wholesale.
func (d *Document) ReplaceAt(i int, a Annotation) bool {
	if i < 0 || i >= len(d.annotations) {
		return false
	}
	d.annotations[i] = a
	return true
}

// RemoveAt deletes the annotation at i, preserving order.
func (d *Document) RemoveAt(i int) bool {
	if i < 0 || i >= len(d.annotations) {
		return false
	}
	d.annotations = append(d.annotations[:i], d.annotations[i+1:]...)
	return true
}

// SetAnnotations replaces the whole sequence. Undo and redo restore
// snapshots through here.
func (d *Document) SetAnnotations(list []Annotation) {
	d.annotations = list
}

// Hit returns the index of the topmost annotation containing p, scanning in
// reverse paint order so the visually top element wins.
func (d *Document) Hit(p image.Point, slack int) (int, bool) {
	for i := len(d.annotations) - 1; i >= 0; i-- {
		if d.annotations[i].Hit(p, slack) {
			return i, true
		}
	}
	return -1, false
}
