// Package navigator tracks the active taxonomy and how deep the user has
// drilled into it, and derives breadcrumb labels from that position.
package navigator

import (
	"slices"
	"strings"

	"github.com/starford/edgelog/internal/grouping"
	"github.com/starford/edgelog/internal/models"
)

// Crumb is one breadcrumb segment. ID is the path prefix up to and
// including the segment, so jumping to it restores that depth.
type Crumb struct {
	ID    string `json:"id"`
	Label string `json:"label"`
}

// FolderNamer resolves folder display names.
type FolderNamer interface {
	Name(id string) (string, bool)
}

// Navigator holds (taxonomy, path).
type Navigator struct {
	taxonomy models.Taxonomy
	path     []string
}

// New returns a navigator at the root of t.
func New(t models.Taxonomy) *Navigator {
	return &Navigator{taxonomy: t}
}

func (n *Navigator) Taxonomy() models.Taxonomy { return n.taxonomy }

// Path returns a copy of the current path segments.
func (n *Navigator) Path() []string { return slices.Clone(n.path) }

// Depth is the number of path segments.
func (n *Navigator) Depth() int { return len(n.path) }

// PathID joins the path the way bucket keys and breadcrumb ids are written.
func (n *Navigator) PathID() string { return strings.Join(n.path, "/") }

// SetTaxonomy switches taxonomy and returns to the root.
func (n *Navigator) SetTaxonomy(t models.Taxonomy) {
	n.taxonomy = t
	n.path = nil
}

// GoToRoot clears the path.
func (n *Navigator) GoToRoot() {
	n.path = nil
}

// Enter opens a bucket. Under the manual and symbol taxonomies key replaces
// the single segment. Under the date taxonomy key is either a bucket key
// one level below the current path ("2024/03" inside "2024") or a bare
// segment ("03") appended to it. Enter reports false and leaves the path
// untouched when the key cannot be opened from here.
func (n *Navigator) Enter(key string) bool {
	if key == "" {
		return false
	}
	if n.taxonomy != models.TaxonomyDate {
		n.path = []string{key}
		return true
	}
	if len(n.path) >= n.taxonomy.MaxDepth() {
		return false
	}
	parts := strings.Split(key, "/")
	if len(parts) == 1 {
		n.path = append(slices.Clip(n.path), key)
		return true
	}
	if len(parts) != len(n.path)+1 || !slices.Equal(parts[:len(n.path)], n.path) || slices.Contains(parts, "") {
		return false
	}
	n.path = parts
	return true
}

// JumpTo sets the path to a breadcrumb id. An empty id goes to the root.
func (n *Navigator) JumpTo(id string) bool {
	if id == "" {
		n.path = nil
		return true
	}
	if n.taxonomy != models.TaxonomyDate {
		n.path = []string{id}
		return true
	}
	parts := strings.Split(id, "/")
	if len(parts) > n.taxonomy.MaxDepth() || slices.Contains(parts, "") {
		return false
	}
	n.path = parts
	return true
}

// LeaveFolder returns to the root when the manual folder id is open.
func (n *Navigator) LeaveFolder(id string) bool {
	if n.taxonomy == models.TaxonomyManual && len(n.path) == 1 && n.path[0] == id {
		n.path = nil
		return true
	}
	return false
}

// OpenFolder returns the folder id open under the manual taxonomy, if any.
// The uncategorized sentinel is not a folder.
func (n *Navigator) OpenFolder() (string, bool) {
	if n.taxonomy != models.TaxonomyManual || len(n.path) != 1 || n.path[0] == grouping.Uncategorized {
		return "", false
	}
	return n.path[0], true
}

// Breadcrumb labels each path segment. folders is only consulted under the
// manual taxonomy and may be nil otherwise.
func (n *Navigator) Breadcrumb(folders FolderNamer) []Crumb {
	if len(n.path) == 0 {
		return []Crumb{}
	}
	switch n.taxonomy {
	case models.TaxonomyDate:
		return dateCrumbs(n.path)
	case models.TaxonomyManual:
		id := n.path[0]
		return []Crumb{{ID: id, Label: folderLabel(id, folders)}}
	default:
		return []Crumb{{ID: n.path[0], Label: n.path[0]}}
	}
}

func folderLabel(id string, folders FolderNamer) string {
	if id == grouping.Uncategorized {
		return "Uncategorized"
	}
	if folders != nil {
		if name, ok := folders.Name(id); ok {
			return name
		}
	}
	return id
}

func dateCrumbs(path []string) []Crumb {
	out := make([]Crumb, 0, len(path))
	for i, seg := range path {
		if i >= 3 {
			break
		}
		out = append(out, Crumb{ID: strings.Join(path[:i+1], "/"), Label: dateLabel(i, seg)})
	}
	return out
}

// dateLabel renders the segment at depth i (0 year, 1 month, 2 day).
func dateLabel(i int, seg string) string {
	switch i {
	case 1:
		return MonthName(seg)
	case 2:
		return DayLabel(seg)
	}
	return seg
}

// BucketLabel is the display name of a bucket key under taxonomy t. Date
// keys are labelled by their last segment at that key's depth.
func BucketLabel(t models.Taxonomy, key string, folders FolderNamer) string {
	switch t {
	case models.TaxonomyManual:
		return folderLabel(key, folders)
	case models.TaxonomyDate:
		segs := strings.Split(key, "/")
		return dateLabel(len(segs)-1, segs[len(segs)-1])
	}
	return key
}
