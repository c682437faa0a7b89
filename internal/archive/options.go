package archive

import (
	"log/slog"
	"time"
)

// Change kinds passed to Publisher.
const (
	RecordCreated   = "record.created"
	RecordDeleted   = "record.deleted"
	RecordMoved     = "record.moved"
	FolderCreated   = "folder.created"
	FolderDeleted   = "folder.deleted"
	TaxonomyChanged = "taxonomy.changed"
	Reloaded        = "archive.reloaded"
)

// Publisher is notified after every committed change.
type Publisher interface {
	PublishChange(kind string, data any)
}

type nopPublisher struct{}

func (nopPublisher) PublishChange(string, any) {}

// Option configures a Service.
type Option func(*Service)

// WithPublisher sets the change publisher.
func WithPublisher(p Publisher) Option {
	return func(s *Service) {
		if p != nil {
			s.pub = p
		}
	}
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithRetention drops records older than d when the archive is loaded.
// Zero keeps everything.
func WithRetention(d time.Duration) Option {
	return func(s *Service) {
		s.retention = d
	}
}

// WithSeedFolders seeds the default folders when no folder collection has
// ever been saved.
func WithSeedFolders(seed bool) Option {
	return func(s *Service) {
		s.seed = seed
	}
}

// WithClock overrides the time source used for record stamps and retention.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		s.now = now
	}
}

// WithIDs overrides the record id generator.
func WithIDs(newID func() string) Option {
	return func(s *Service) {
		s.newID = newID
	}
}
