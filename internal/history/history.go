// Package history keeps the linear undo/redo record of full image snapshots.
package history

import (
	"image"

	"github.com/disintegration/imaging"
)

// History is a pair of snapshot stacks for one image.
//
// The bottom of the undo stack is the baseline recorded by Reset and is never
// popped. The top of the undo stack is the current image. Snapshots are copied
// on the way in and on the way out, so callers never share pixels with the
// history.
//
// The zero value is an empty history; Undo and Redo on it are no-ops.
type History struct {
	undo []*image.NRGBA
	redo []*image.NRGBA
}

// New returns a history whose baseline is a copy of img.
func New(img image.Image) *History {
	h := &History{}
	h.Reset(img)
	return h
}

// Reset discards both stacks and records a copy of img as the baseline.
func (h *History) Reset(img image.Image) {
	h.undo = []*image.NRGBA{imaging.Clone(img)}
	h.redo = nil
}

// Push records an edit. Any redo branch is discarded.
func (h *History) Push(img image.Image) {
	h.undo = append(h.undo, imaging.Clone(img))
	h.redo = nil
}

// Undo steps back one edit and returns a copy of the image that becomes
// current. It reports false, changing nothing, when only the baseline remains.
func (h *History) Undo() (*image.NRGBA, bool) {
	if len(h.undo) <= 1 {
		return nil, false
	}
	top := h.undo[len(h.undo)-1]
	h.undo[len(h.undo)-1] = nil
	h.undo = h.undo[:len(h.undo)-1]
	h.redo = append(h.redo, top)
	return imaging.Clone(h.undo[len(h.undo)-1]), true
}

// Redo reapplies the most recently undone edit and returns a copy of it. It
// reports false when there is nothing to redo.
func (h *History) Redo() (*image.NRGBA, bool) {
	if len(h.redo) == 0 {
		return nil, false
	}
	img := h.redo[len(h.redo)-1]
	h.redo[len(h.redo)-1] = nil
	h.redo = h.redo[:len(h.redo)-1]
	h.undo = append(h.undo, img)
	return imaging.Clone(img), true
}

// Current returns a copy of the top snapshot, or nil for an empty history.
func (h *History) Current() *image.NRGBA {
	if len(h.undo) == 0 {
		return nil
	}
	return imaging.Clone(h.undo[len(h.undo)-1])
}

// CanUndo reports whether Undo would change anything.
func (h *History) CanUndo() bool { return len(h.undo) > 1 }

// CanRedo reports whether Redo would change anything.
func (h *History) CanRedo() bool { return len(h.redo) > 0 }

// UndoDepth is the number of snapshots on the undo stack, baseline included.
func (h *History) UndoDepth() int { return len(h.undo) }

// RedoDepth is the number of snapshots on the redo stack.
func (h *History) RedoDepth() int { return len(h.redo) }
