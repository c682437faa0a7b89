// Package search narrows a record list by a free-text term.
package search

import (
	"strings"

	"github.com/starford/edgelog/internal/models"
)

// Filter returns the records whose title or body contains term,
// ignoring case. An empty term returns records unchanged.
func Filter(records []models.Record, term string) []models.Record {
	if term == "" {
		return records
	}
	needle := strings.ToLower(term)
	out := []models.Record{}
	for _, r := range records {
		if strings.Contains(strings.ToLower(r.Title), needle) || strings.Contains(strings.ToLower(r.Text), needle) {
			out = append(out, r)
		}
	}
	return out
}
