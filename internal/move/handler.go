// Package move turns a drag-and-drop gesture into a folder reassignment.
package move

import "github.com/starford/edgelog/internal/grouping"

// Reassigner is the record store mutation a drop performs.
type Reassigner interface {
	ReassignFolder(id, folderID string) bool
}

// Handler remembers the record being dragged until it is dropped.
type Handler struct {
	store   Reassigner
	dragged string
}

// NewHandler returns a handler that reassigns through store.
func NewHandler(store Reassigner) *Handler {
	return &Handler{store: store}
}

// Start captures the id of the dragged record.
func (h *Handler) Start(id string) {
	h.dragged = id
}

// Dragging returns the captured id.
func (h *Handler) Dragging() (string, bool) {
	return h.dragged, h.dragged != ""
}

// Cancel forgets the dragged record.
func (h *Handler) Cancel() {
	h.dragged = ""
}

// Drop reassigns the dragged record to target, a folder id or the
// uncategorized bucket key. It is a no-op, reporting false, when nothing is
// being dragged or the record no longer exists. The drag ends either way.
func (h *Handler) Drop(target string) bool {
	id := h.dragged
	h.dragged = ""
	if id == "" {
		return false
	}
	if target == grouping.Uncategorized {
		target = ""
	}
	return h.store.ReassignFolder(id, target)
}
