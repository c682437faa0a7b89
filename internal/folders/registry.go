// Package folders owns the flat namespace of user-created folders.
package folders

import (
	"slices"
	"strings"

	"github.com/google/uuid"

	"github.com/starford/edgelog/internal/models"
)

// Reassigner is the part of the record store a folder deletion cascades into.
type Reassigner interface {
	ReferencingFolder(folderID string) []string
	ReassignFolder(id, folderID string) bool
}

// Defaults are seeded when no folder collection has ever been saved.
var Defaults = []models.Folder{
	{ID: "f_default_1", Name: "Strategy A"},
	{ID: "f_default_2", Name: "Case Studies"},
}

// Registry holds folders in creation order.
type Registry struct {
	folders []models.Folder
	newID   func() string
}

// NewRegistry creates a registry seeded with initial.
func NewRegistry(initial []models.Folder) *Registry {
	return &Registry{
		folders: slices.Clone(initial),
		newID:   func() string { return "f_" + uuid.NewString() },
	}
}

// All returns the folders in creation order.
func (r *Registry) All() []models.Folder {
	return r.folders
}

// IDs returns folder identifiers in creation order.
func (r *Registry) IDs() []string {
	out := make([]string, len(r.folders))
	for i, f := range r.folders {
		out[i] = f.ID
	}
	return out
}

// Exists reports whether a folder with id is registered.
func (r *Registry) Exists(id string) bool {
	_, ok := r.Get(id)
	return ok
}

// Get returns the folder with id.
func (r *Registry) Get(id string) (models.Folder, bool) {
	for _, f := range r.folders {
		if f.ID == id {
			return f, true
		}
	}
	return models.Folder{}, false
}

// Name returns the display name of the folder with id.
func (r *Registry) Name(id string) (string, bool) {
	f, ok := r.Get(id)
	return f.Name, ok
}

// Create appends a folder named name. Blank names are ignored and reported
// with ok=false.
func (r *Registry) Create(name string) (models.Folder, bool) {
	name = strings.TrimSpace(name)
	if name == "" {
		return models.Folder{}, false
	}
	f := models.Folder{ID: r.newID(), Name: name}
	r.folders = append(slices.Clip(r.folders), f)
	return f, true
}

// Delete removes the folder with id after clearing the folder reference of
// every record that points at it. It returns the number of records cleared
// and whether the folder existed.
func (r *Registry) Delete(id string, records Reassigner) (int, bool) {
	i := slices.IndexFunc(r.folders, func(f models.Folder) bool { return f.ID == id })
	if i < 0 {
		return 0, false
	}
	cleared := 0
	for _, rid := range records.ReferencingFolder(id) {
		if records.ReassignFolder(rid, "") {
			cleared++
		}
	}
	r.folders = slices.Delete(slices.Clone(r.folders), i, i+1)
	return cleared, true
}

// Replace swaps the whole collection, used when storage is reloaded.
func (r *Registry) Replace(all []models.Folder) {
	r.folders = slices.Clone(all)
}
