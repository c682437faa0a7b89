package api

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/starford/edgelog/internal/archive"
	"github.com/starford/edgelog/internal/media"
)

// MediaHandler serves record attachments decoded from their data-URIs.
type MediaHandler struct {
	svc *archive.Service
}

// NewMediaHandler creates a handler reading from svc.
func NewMediaHandler(svc *archive.Service) *MediaHandler {
	return &MediaHandler{svc: svc}
}

// Image handles GET /api/records/{id}/images/{n}.
func (h *MediaHandler) Image(w http.ResponseWriter, r *http.Request) {
	rec, err := h.svc.GetRecord(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, "get image", err)
		return
	}
	n, err := strconv.Atoi(chi.URLParam(r, "n"))
	if err != nil || n < 0 || n >= len(rec.Images) {
		writeJSON(w, http.StatusNotFound, errorBody("not found"))
		return
	}
	h.serve(w, rec.Images[n])
}

// Audio handles GET /api/records/{id}/audio.
func (h *MediaHandler) Audio(w http.ResponseWriter, r *http.Request) {
	rec, err := h.svc.GetRecord(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, "get audio", err)
		return
	}
	if rec.Audio == "" {
		writeJSON(w, http.StatusNotFound, errorBody("not found"))
		return
	}
	h.serve(w, rec.Audio)
}

func (h *MediaHandler) serve(w http.ResponseWriter, uri string) {
	blob, err := media.Decode(uri)
	if err != nil {
		writeJSON(w, http.StatusUnprocessableEntity, errorBody(err.Error()))
		return
	}
	w.Header().Set("Content-Type", blob.MIME)
	w.Header().Set("Content-Length", strconv.Itoa(len(blob.Data)))
	// records are immutable apart from their folder
	w.Header().Set("Cache-Control", "private, max-age=86400")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(blob.Data)
}
