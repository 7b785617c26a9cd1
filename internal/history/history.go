// Package history keeps the undo and redo stacks of a drawing session.
//
// Entries move between the two stacks rather than being copied, so a
// snapshot is only ever held by one of them.
package history

// DefaultLimit is the undo depth used when no limit is configured.
const DefaultLimit = 20

// History is a bounded pair of undo/redo stacks, most recent entry last.
type History[S any] struct {
	undo  []S
	redo  []S
	limit int
}

// New creates a History whose undo stack holds at most limit entries.
// A limit of zero or less leaves it unbounded.
func New[S any](limit int) *History[S] {
	if limit < 0 {
		limit = 0
	}
	return &History[S]{limit: limit}
}

// Limit returns the configured undo depth, zero meaning unbounded.
func (h *History[S]) Limit() int { return h.limit }

// Commit records s as the newest undo entry and discards the redo stack.
func (h *History[S]) Commit(s S) {
	h.pushUndo(s)
	clear(h.redo)
	h.redo = h.redo[:0]
}

// Undo pops the newest undo entry and pushes current onto the redo stack.
// It reports false, leaving both stacks untouched, when there is nothing to
// undo.
func (h *History[S]) Undo(current S) (S, bool) {
	if len(h.undo) == 0 {
		var zero S
		return zero, false
	}
	s := h.undo[len(h.undo)-1]
	var zero S
	h.undo[len(h.undo)-1] = zero
	h.undo = h.undo[:len(h.undo)-1]
	h.redo = append(h.redo, current)
	return s, true
}

// Redo pops the newest redo entry and pushes current onto the undo stack.
func (h *History[S]) Redo(current S) (S, bool) {
	if len(h.redo) == 0 {
		var zero S
		return zero, false
	}
	s := h.redo[len(h.redo)-1]
	var zero S
	h.redo[len(h.redo)-1] = zero
	h.redo = h.redo[:len(h.redo)-1]
	h.pushUndo(current)
	return s, true
}

// CanUndo reports whether Undo would do anything.
func (h *History[S]) CanUndo() bool { return len(h.undo) > 0 }

// CanRedo reports whether Redo would do anything.
func (h *History[S]) CanRedo() bool { return len(h.redo) > 0 }

// UndoLen returns the undo depth.
func (h *History[S]) UndoLen() int { return len(h.undo) }

// RedoLen returns the redo depth.
func (h *History[S]) RedoLen() int { return len(h.redo) }

// Reset drops every entry.
func (h *History[S]) Reset() {
	h.undo = nil
	h.redo = nil
}

func (h *History[S]) pushUndo(s S) {
	h.undo = append(h.undo, s)
	if h.limit > 0 && len(h.undo) > h.limit {
		n := len(h.undo) - h.limit
		clear(h.undo[:n])
		h.undo = append(h.undo[:0], h.undo[n:]...)
	}
}
