package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/starford/edgelog/internal/archive"
	"github.com/starford/edgelog/internal/chart"
	"github.com/starford/edgelog/internal/transcribe"
)

// RouterOptions carries the optional collaborators of the API.
type RouterOptions struct {
	AuthEnabled bool
	Token       string
	// Events, if non-nil, is mounted at GET /events inside the auth group.
	Events      http.Handler
	Transcriber transcribe.Transcriber
	Chart       *chart.Debouncer
}

// NewRouter creates a chi router with all API routes mounted.
func NewRouter(svc *archive.Service, opts RouterOptions) chi.Router {
	h := NewHandler(svc, opts.Transcriber, opts.Chart)
	mh := NewMediaHandler(svc)

	r := chi.NewRouter()
	r.Use(AuthMiddleware(opts.AuthEnabled, opts.Token))

	r.Route("/records", func(r chi.Router) {
		r.Get("/", h.ListRecords)
		r.Post("/", h.CreateRecord)
		r.Get("/{id}", h.GetRecord)
		r.Delete("/{id}", h.DeleteRecord)
		r.Put("/{id}/folder", h.MoveRecord)
		r.Get("/{id}/images/{n}", mh.Image)
		r.Get("/{id}/audio", mh.Audio)
	})

	r.Get("/folders", h.ListFolders)
	r.Post("/folders", h.CreateFolder)
	r.Delete("/folders/{id}", h.DeleteFolder)

	r.Get("/view", h.View)
	r.Put("/view/taxonomy", h.SetTaxonomy)
	r.Post("/view/enter", h.Enter)
	r.Post("/view/jump", h.Jump)
	r.Post("/view/root", h.Root)

	r.Post("/transcribe", h.Transcribe)
	r.Put("/draft/title", h.DraftTitle)
	r.Get("/chart/symbol", h.ChartSymbol)

	if opts.Events != nil {
		r.Get("/events", opts.Events.ServeHTTP)
	}

	return r
}
