// Package storage is the persistence port of the archive: three independent
// JSON collections loaded at start and saved whenever they change.
package storage

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/starford/edgelog/internal/models"
)

// Collection names a persisted collection.
type Collection string

const (
	Records  Collection = "analyses"
	Folders  Collection = "custom_folders"
	Taxonomy Collection = "analysis_group_by"
)

// Collections lists every persisted collection.
var Collections = []Collection{Records, Folders, Taxonomy}

// Provider is the load/save contract the archive depends on.
type Provider interface {
	LoadRecords() ([]models.Record, error)
	SaveRecords(records []models.Record) error
	// LoadFolders reports ok=false when no folder collection was ever saved.
	LoadFolders() (folders []models.Folder, ok bool, err error)
	SaveFolders(folders []models.Folder) error
	// LoadTaxonomy reports ok=false when no selection was ever saved.
	LoadTaxonomy() (t models.Taxonomy, ok bool, err error)
	SaveTaxonomy(t models.Taxonomy) error
	Close() error
}

// Backend stores raw collection payloads.
type Backend interface {
	Get(c Collection) (data []byte, ok bool, err error)
	Put(c Collection, data []byte) error
	Close() error
}

// Store implements Provider on top of a Backend by JSON-encoding each collection.
type Store struct {
	backend Backend
}

// NewStore wraps b.
func NewStore(b Backend) *Store {
	return &Store{backend: b}
}

// Backend returns the wrapped backend.
func (s *Store) Backend() Backend {
	return s.backend
}

// LoadRecords decodes the record collection; a missing collection is empty.
func (s *Store) LoadRecords() ([]models.Record, error) {
	var out []models.Record
	if _, err := s.load(Records, &out); err != nil {
		return nil, err
	}
	for i := range out {
		if out[i].Images == nil {
			out[i].Images = []string{}
		}
	}
	return out, nil
}

func (s *Store) SaveRecords(records []models.Record) error {
	if records == nil {
		records = []models.Record{}
	}
	return s.save(Records, records)
}

func (s *Store) LoadFolders() ([]models.Folder, bool, error) {
	var out []models.Folder
	ok, err := s.load(Folders, &out)
	if err != nil {
		return nil, false, err
	}
	return out, ok, nil
}

func (s *Store) SaveFolders(folders []models.Folder) error {
	if folders == nil {
		folders = []models.Folder{}
	}
	return s.save(Folders, folders)
}

// LoadTaxonomy accepts both a JSON string and the bare value.
func (s *Store) LoadTaxonomy() (models.Taxonomy, bool, error) {
	data, ok, err := s.backend.Get(Taxonomy)
	if err != nil || !ok {
		return "", false, err
	}
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		raw = strings.TrimSpace(string(data))
	}
	t, err := models.ParseTaxonomy(raw)
	if err != nil {
		return "", false, fmt.Errorf("storage: load %s: %w", Taxonomy, err)
	}
	return t, true, nil
}

func (s *Store) SaveTaxonomy(t models.Taxonomy) error {
	return s.save(Taxonomy, string(t))
}

func (s *Store) Close() error {
	return s.backend.Close()
}

func (s *Store) load(c Collection, v any) (bool, error) {
	data, ok, err := s.backend.Get(c)
	if err != nil || !ok {
		return false, err
	}
	if err := json.Unmarshal(data, v); err != nil {
		return false, fmt.Errorf("storage: decode %s: %w", c, err)
	}
	return true, nil
}

func (s *Store) save(c Collection, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("storage: encode %s: %w", c, err)
	}
	return s.backend.Put(c, data)
}

// Open builds the Provider for a configured driver.
func Open(driver, path string) (*Store, error) {
	switch driver {
	case "fs", "":
		b, err := NewFS(path)
		if err != nil {
			return nil, err
		}
		return NewStore(b), nil
	case "sqlite":
		b, err := OpenSQLite(path)
		if err != nil {
			return nil, err
		}
		return NewStore(b), nil
	case "memory":
		return NewStore(NewMemory()), nil
	}
	return nil, fmt.Errorf("storage: unknown driver %q", driver)
}
