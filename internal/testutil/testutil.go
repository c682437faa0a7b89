// Package testutil provides shared test helpers for archive stores and records.
package testutil

import (
	"testing"
	"time"

	"github.com/starford/edgelog/internal/models"
	"github.com/starford/edgelog/internal/storage"
)

// MemoryStore returns an in-memory persistence provider.
func MemoryStore(t *testing.T) *storage.Store {
	t.Helper()
	s := storage.NewStore(storage.NewMemory())
	t.Cleanup(func() { s.Close() })
	return s
}

// DataDir creates a temporary data directory with a file-backed provider.
func DataDir(t *testing.T) (string, *storage.Store) {
	t.Helper()
	dir := t.TempDir()
	fs, err := storage.NewFS(dir)
	if err != nil {
		t.Fatal(err)
	}
	return dir, storage.NewStore(fs)
}

// Record builds a record stamped at the given RFC 3339 instant.
func Record(t *testing.T, id, at, title string) models.Record {
	t.Helper()
	ts, err := time.Parse(time.RFC3339, at)
	if err != nil {
		t.Fatal(err)
	}
	return models.Record{ID: id, Date: models.Stamp(ts), Title: title, Images: []string{}}
}
