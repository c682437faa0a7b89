package api

import (
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/starford/edgelog/internal/apperr"
	"github.com/starford/edgelog/internal/archive"
	"github.com/starford/edgelog/internal/chart"
	"github.com/starford/edgelog/internal/checksum"
	"github.com/starford/edgelog/internal/export"
	"github.com/starford/edgelog/internal/models"
	"github.com/starford/edgelog/internal/transcribe"
)

// Handler holds API route handlers.
type Handler struct {
	svc         *archive.Service
	transcriber transcribe.Transcriber
	chart       *chart.Debouncer
	logger      *slog.Logger
}

// NewHandler creates a new Handler. transcriber and chart may be nil.
func NewHandler(svc *archive.Service, transcriber transcribe.Transcriber, debouncer *chart.Debouncer) *Handler {
	return &Handler{svc: svc, transcriber: transcriber, chart: debouncer, logger: slog.Default()}
}

// writeTagged writes v with a content digest ETag and answers a matching
// If-None-Match with 304.
func writeTagged(w http.ResponseWriter, r *http.Request, v any) {
	tag, err := checksum.JSON(v)
	if err != nil {
		writeError(w, "etag", err)
		return
	}
	etag := `"` + tag + `"`
	w.Header().Set("ETag", etag)
	if r.Header.Get("If-None-Match") == etag {
		w.WriteHeader(http.StatusNotModified)
		return
	}
	writeJSON(w, http.StatusOK, v)
}

// ListRecords handles GET /api/records.
//
//	@Summary		List every record, newest first, optionally filtered
//	@Tags			records
//	@Produce		json
//	@Param			q	query		string	false	"Case-insensitive term matched against title and body"
//	@Success		200	{object}	RecordListResponse
//	@Security		BearerAuth
//	@Router			/records [get]
func (h *Handler) ListRecords(w http.ResponseWriter, r *http.Request) {
	recs := h.svc.Records(r.URL.Query().Get("q"))
	writeTagged(w, r, RecordListResponse{Records: recs, Total: len(recs)})
}

// CreateRecord handles POST /api/records.
//
//	@Summary		Archive a new analysis
//	@Tags			records
//	@Accept			json
//	@Produce		json
//	@Param			body	body		CreateRecordRequest	true	"Draft"
//	@Success		201		{object}	models.Record
//	@Failure		400		{object}	errResponse
//	@Security		BearerAuth
//	@Router			/records [post]
func (h *Handler) CreateRecord(w http.ResponseWriter, r *http.Request) {
	var req CreateRecordRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, "create record", err)
		return
	}
	rec, err := h.svc.CreateRecord(req)
	if err != nil {
		writeError(w, "create record", err)
		return
	}
	if h.chart != nil {
		h.chart.Stop()
	}
	writeJSON(w, http.StatusCreated, rec)
}

// GetRecord handles GET /api/records/{id}. With ?format=md the record is
// rendered as Markdown.
//
//	@Summary		Get a single record
//	@Tags			records
//	@Produce		json,text/markdown
//	@Param			id		path		string	true	"Record id"
//	@Param			format	query		string	false	"md for Markdown"
//	@Success		200		{object}	models.Record
//	@Failure		404		{object}	errResponse
//	@Security		BearerAuth
//	@Router			/records/{id} [get]
func (h *Handler) GetRecord(w http.ResponseWriter, r *http.Request) {
	rec, err := h.svc.GetRecord(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, "get record", err)
		return
	}
	if r.URL.Query().Get("format") != "md" {
		writeTagged(w, r, rec)
		return
	}
	out, err := export.Render(rec, h.svc.FolderName(rec.CustomFolderID))
	if err != nil {
		writeError(w, "render record", err)
		return
	}
	w.Header().Set("Content-Type", "text/markdown; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(out)
}

// DeleteRecord handles DELETE /api/records/{id}.
//
//	@Summary		Delete a record
//	@Tags			records
//	@Param			id	path	string	true	"Record id"
//	@Success		204	"Record deleted"
//	@Failure		404	{object}	errResponse
//	@Security		BearerAuth
//	@Router			/records/{id} [delete]
func (h *Handler) DeleteRecord(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.DeleteRecord(chi.URLParam(r, "id")); err != nil {
		writeError(w, "delete record", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// MoveRecord handles PUT /api/records/{id}/folder, the drop end of a drag.
//
//	@Summary		Move a record to another folder
//	@Tags			records
//	@Accept			json
//	@Param			id		path	string		true	"Record id"
//	@Param			body	body	MoveRequest	true	"Target folder"
//	@Success		204		"Record moved"
//	@Failure		404		{object}	errResponse
//	@Failure		409		{object}	errResponse
//	@Security		BearerAuth
//	@Router			/records/{id}/folder [put]
func (h *Handler) MoveRecord(w http.ResponseWriter, r *http.Request) {
	var req MoveRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, "move record", err)
		return
	}
	if err := h.svc.MoveRecord(chi.URLParam(r, "id"), req.FolderID); err != nil {
		writeError(w, "move record", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ListFolders handles GET /api/folders.
func (h *Handler) ListFolders(w http.ResponseWriter, r *http.Request) {
	writeTagged(w, r, FolderListResponse{Folders: h.svc.Folders()})
}

// CreateFolder handles POST /api/folders. A blank name is ignored with 204.
//
//	@Summary		Create a folder
//	@Tags			folders
//	@Accept			json
//	@Produce		json
//	@Param			body	body		FolderRequest	true	"Folder name"
//	@Success		201		{object}	models.Folder
//	@Success		204		"Blank name ignored"
//	@Security		BearerAuth
//	@Router			/folders [post]
func (h *Handler) CreateFolder(w http.ResponseWriter, r *http.Request) {
	var req FolderRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, "create folder", err)
		return
	}
	f, ok, err := h.svc.CreateFolder(req.Name)
	if err != nil {
		writeError(w, "create folder", err)
		return
	}
	if !ok {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	writeJSON(w, http.StatusCreated, f)
}

// DeleteFolder handles DELETE /api/folders/{id}. Records in the folder
// become uncategorized.
//
//	@Summary		Delete a folder
//	@Tags			folders
//	@Produce		json
//	@Param			id	path		string	true	"Folder id"
//	@Success		200	{object}	FolderDeleteResponse
//	@Failure		404	{object}	errResponse
//	@Security		BearerAuth
//	@Router			/folders/{id} [delete]
func (h *Handler) DeleteFolder(w http.ResponseWriter, r *http.Request) {
	cleared, err := h.svc.DeleteFolder(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, "delete folder", err)
		return
	}
	writeJSON(w, http.StatusOK, FolderDeleteResponse{Cleared: cleared})
}

// View handles GET /api/view.
//
//	@Summary		Current browser position
//	@Tags			view
//	@Produce		json
//	@Param			q	query		string	false	"Search term applied to the scoped entries"
//	@Success		200	{object}	archive.ViewResult
//	@Security		BearerAuth
//	@Router			/view [get]
func (h *Handler) View(w http.ResponseWriter, r *http.Request) {
	writeTagged(w, r, h.svc.View(r.URL.Query().Get("q")))
}

// SetTaxonomy handles PUT /api/view/taxonomy.
func (h *Handler) SetTaxonomy(w http.ResponseWriter, r *http.Request) {
	var req TaxonomyRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, "set taxonomy", err)
		return
	}
	t, err := models.ParseTaxonomy(req.Taxonomy)
	if err != nil {
		writeError(w, "set taxonomy", fmt.Errorf("%w: %v", apperr.ErrInvalid, err))
		return
	}
	if err := h.svc.SetTaxonomy(t); err != nil {
		writeError(w, "set taxonomy", err)
		return
	}
	writeJSON(w, http.StatusOK, h.svc.View(""))
}

// Enter handles POST /api/view/enter.
func (h *Handler) Enter(w http.ResponseWriter, r *http.Request) {
	var req EnterRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, "enter", err)
		return
	}
	v, err := h.svc.Enter(req.Key)
	if err != nil {
		writeError(w, "enter", err)
		return
	}
	writeJSON(w, http.StatusOK, v)
}

// Jump handles POST /api/view/jump.
func (h *Handler) Jump(w http.ResponseWriter, r *http.Request) {
	var req JumpRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, "jump", err)
		return
	}
	v, err := h.svc.JumpTo(req.ID)
	if err != nil {
		writeError(w, "jump", err)
		return
	}
	writeJSON(w, http.StatusOK, v)
}

// Root handles POST /api/view/root.
func (h *Handler) Root(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, h.svc.GoToRoot())
}

// Transcribe handles POST /api/transcribe. Transcription failures are
// logged and the text is returned unchanged.
//
//	@Summary		Append an audio transcript to the draft body
//	@Tags			draft
//	@Accept			json
//	@Produce		json
//	@Param			body	body		TranscribeRequest	true	"Audio and current text"
//	@Success		200		{object}	TranscribeResponse
//	@Security		BearerAuth
//	@Router			/transcribe [post]
func (h *Handler) Transcribe(w http.ResponseWriter, r *http.Request) {
	var req TranscribeRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, "transcribe", err)
		return
	}
	text := transcribe.Into(r.Context(), h.transcriber, h.logger, req.Audio, req.Text)
	writeJSON(w, http.StatusOK, TranscribeResponse{Text: text})
}

// DraftTitle handles PUT /api/draft/title. The chart symbol follows once
// the title has been quiet for the debounce delay.
func (h *Handler) DraftTitle(w http.ResponseWriter, r *http.Request) {
	if h.chart == nil {
		writeError(w, "draft title", apperr.ErrUnavailable)
		return
	}
	var req TitleRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, "draft title", err)
		return
	}
	h.chart.Update(req.Title)
	writeJSON(w, http.StatusAccepted, SymbolResponse{Symbol: h.chart.Symbol()})
}

// ChartSymbol handles GET /api/chart/symbol.
func (h *Handler) ChartSymbol(w http.ResponseWriter, _ *http.Request) {
	if h.chart == nil {
		writeError(w, "chart symbol", apperr.ErrUnavailable)
		return
	}
	writeJSON(w, http.StatusOK, SymbolResponse{Symbol: h.chart.Symbol()})
}
