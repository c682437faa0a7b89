package internal

import (
	"github.com/starford/edgelog/internal/storage"
	"github.com/starford/edgelog/internal/transcribe"
)

// Option is a functional option for configuring the application.
type Option func(*application)

type application struct {
	config      *Config
	store       *storage.Store
	transcriber transcribe.Transcriber
}

// WithConfig sets the application configuration.
func WithConfig(cfg *Config) Option {
	return func(a *application) {
		a.config = cfg
	}
}

// WithStore replaces the configured storage backend.
func WithStore(s *storage.Store) Option {
	return func(a *application) {
		a.store = s
	}
}

// WithTranscriber replaces the Gemini transcriber.
func WithTranscriber(t transcribe.Transcriber) Option {
	return func(a *application) {
		a.transcriber = t
	}
}
