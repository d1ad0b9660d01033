package anno

// DefaultHistoryDepth bounds how many undo steps are kept.
const DefaultHistoryDepth = 50

// History keeps undo and redo stacks of annotation-sequence snapshots. The
// session pushes the current sequence before every committed mutation (add,
// move, delete); pushing invalidates the redo stack. Snapshots are deep
// copies, so later edits never leak into history.
type History struct {
	undo  [][]Annotation
	redo  [][]Annotation
	depth int
}

// NewHistory returns a history bounded to depth snapshots. Non-positive
// depths fall back to DefaultHistoryDepth.
func NewHistory(depth int) *History {
	if depth <= 0 {
		depth = DefaultHistoryDepth
	}
	return &History{depth: depth}
}

func snapshot(list []Annotation) []Annotation {
	s := make([]Annotation, len(list))
	for i, a := range list {
		s[i] = a.Clone()
	}
	return s
}

// Push records current as an undo point and clears the redo stack.
func (h *History) Push(current []Annotation) {
	h.undo = append(h.undo, snapshot(current))
	if len(h.undo) > h.depth {
		h.undo = h.undo[1:]
	}
	h.redo = h.redo[:0]
}

// Undo trades current for the most recent undo snapshot. The second return
// is false when there is nothing to undo.
func (h *History) Undo(current []Annotation) ([]Annotation, bool) {
	if len(h.undo) == 0 {
		return nil, false
	}
	h.redo = append(h.redo, snapshot(current))
	top := h.undo[len(h.undo)-1]
	h.undo = h.undo[:len(h.undo)-1]
	return top, true
}

// Redo reverses the most recent Undo, provided no Push interleaved.
func (h *History) Redo(current []Annotation) ([]Annotation, bool) {
	if len(h.redo) == 0 {
		return nil, false
	}
	h.undo = append(h.undo, snapshot(current))
	top := h.redo[len(h.redo)-1]
	h.redo = h.redo[:len(h.redo)-1]
	return top, true
}

// CanUndo reports whether an undo snapshot exists.
func (h *History) CanUndo() bool {
	return len(h.undo) > 0
}

// CanRedo reports whether a redo snapshot exists.
func (h *History) CanRedo() bool {
	return len(h.redo) > 0
}

// Clear drops both stacks.
func (h *History) Clear() {
	h.undo = h.undo[:0]
	h.redo = h.redo[:0]
}
