// Package records owns the flat collection of archived analysis records.
package records

import (
	"slices"

	"github.com/starford/edgelog/internal/models"
)

// Store holds records newest-first. Every mutation replaces the backing
// slice, so a slice returned by All is never modified afterwards.
type Store struct {
	records []models.Record
}

// NewStore creates a store seeded with initial, keeping its order.
func NewStore(initial []models.Record) *Store {
	return &Store{records: slices.Clone(initial)}
}

// All returns the current collection.
func (s *Store) All() []models.Record {
	return s.records
}

// Len returns the number of records.
func (s *Store) Len() int {
	return len(s.records)
}

// Get returns the record with the given id.
func (s *Store) Get(id string) (models.Record, bool) {
	i := s.index(id)
	if i < 0 {
		return models.Record{}, false
	}
	return s.records[i], true
}

// Add prepends r.
func (s *Store) Add(r models.Record) {
	next := make([]models.Record, 0, len(s.records)+1)
	next = append(next, r)
	s.records = append(next, s.records...)
}

// Remove deletes the record with the given id and reports whether it existed.
func (s *Store) Remove(id string) bool {
	i := s.index(id)
	if i < 0 {
		return false
	}
	s.records = slices.Delete(slices.Clone(s.records), i, i+1)
	return true
}

// ReassignFolder sets the folder reference of a record; an empty folderID
// clears it. It reports whether the record exists.
func (s *Store) ReassignFolder(id, folderID string) bool {
	i := s.index(id)
	if i < 0 {
		return false
	}
	next := slices.Clone(s.records)
	next[i].CustomFolderID = folderID
	s.records = next
	return true
}

// ReferencingFolder returns the ids of records whose folder reference is folderID.
func (s *Store) ReferencingFolder(folderID string) []string {
	var out []string
	for _, r := range s.records {
		if folderID != "" && r.CustomFolderID == folderID {
			out = append(out, r.ID)
		}
	}
	return out
}

// Replace swaps the whole collection, used when storage is reloaded.
func (s *Store) Replace(all []models.Record) {
	s.records = slices.Clone(all)
}

func (s *Store) index(id string) int {
	if id == "" {
		return -1
	}
	return slices.IndexFunc(s.records, func(r models.Record) bool { return r.ID == id })
}
