package archive

import (
	"fmt"
	"slices"
	"strings"

	"github.com/starford/edgelog/internal/apperr"
	"github.com/starford/edgelog/internal/grouping"
	"github.com/starford/edgelog/internal/models"
	"github.com/starford/edgelog/internal/navigator"
	"github.com/starford/edgelog/internal/search"
)

// BucketSummary describes one bucket of the current view.
type BucketSummary struct {
	Key   string `json:"key"`
	Label string `json:"label"`
	Count int    `json:"count"`
}

// ViewResult is everything needed to render the browser at one position.
type ViewResult struct {
	Taxonomy   models.Taxonomy   `json:"taxonomy"`
	Path       []string          `json:"path"`
	Breadcrumb []navigator.Crumb `json:"breadcrumb"`
	Buckets    []BucketSummary   `json:"buckets"`
	Entries    []models.Record   `json:"entries"`
	IsLeaf     bool              `json:"isLeaf"`
	Term       string            `json:"term,omitempty"`
}

// View composes the current position: buckets from the grouping engine,
// then the scoped entry list, then the search filter on top.
func (s *Service) View(term string) ViewResult {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.viewOf(s.nav, term)
}

// Browse computes the view at path under taxonomy t without moving the
// shared navigator. Each segment is entered as if clicked.
func (s *Service) Browse(t models.Taxonomy, path []string, term string) (ViewResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := navigator.New(t)
	for _, seg := range path {
		if err := s.enter(n, seg); err != nil {
			return ViewResult{}, err
		}
	}
	return s.viewOf(n, term), nil
}

// Enter opens the bucket key of the current view.
func (s *Service) Enter(key string) (ViewResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.enter(s.nav, key); err != nil {
		return ViewResult{}, err
	}
	return s.viewOf(s.nav, ""), nil
}

// JumpTo moves to a breadcrumb of the current path. An empty id is the root.
func (s *Service) JumpTo(id string) (ViewResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if id != "" && !slices.ContainsFunc(s.nav.Breadcrumb(s.folders), func(c navigator.Crumb) bool { return c.ID == id }) {
		return ViewResult{}, fmt.Errorf("%w: %q is not on the current path", apperr.ErrInvalidPath, id)
	}
	if !s.nav.JumpTo(id) {
		return ViewResult{}, fmt.Errorf("%w: %q", apperr.ErrInvalidPath, id)
	}
	return s.viewOf(s.nav, ""), nil
}

// GoToRoot clears the navigation path.
func (s *Service) GoToRoot() ViewResult {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nav.GoToRoot()
	return s.viewOf(s.nav, "")
}

// enter checks key against the buckets reachable from n before entering.
// Manual and symbol buckets are always chosen from the root.
func (s *Service) enter(n *navigator.Navigator, key string) error {
	t := n.Taxonomy()
	path := n.Path()
	if t != models.TaxonomyDate {
		path = nil
	} else if len(path) >= t.MaxDepth() {
		return fmt.Errorf("%w: no buckets below %q", apperr.ErrInvalidPath, n.PathID())
	}

	full := key
	if t == models.TaxonomyDate && len(path) > 0 && !strings.Contains(key, "/") {
		full = strings.Join(path, "/") + "/" + key
	}
	v := grouping.Group(s.records.All(), t, s.folders, path)
	if _, ok := v.Lookup(full); !ok {
		return fmt.Errorf("%w: no bucket %q", apperr.ErrInvalidPath, key)
	}
	if !n.Enter(key) {
		return fmt.Errorf("%w: cannot enter %q", apperr.ErrInvalidPath, key)
	}
	return nil
}

func (s *Service) viewOf(n *navigator.Navigator, term string) ViewResult {
	all := s.records.All()
	t := n.Taxonomy()
	path := n.Path()

	v := grouping.Group(all, t, s.folders, path)
	entries := search.Filter(grouping.Entries(v, all, t, path), term)
	if entries == nil {
		entries = []models.Record{}
	}

	buckets := []BucketSummary{}
	if t == models.TaxonomyDate || len(path) == 0 {
		for _, b := range v.Buckets {
			buckets = append(buckets, BucketSummary{
				Key:   b.Key,
				Label: navigator.BucketLabel(t, b.Key, s.folders),
				Count: len(b.Records),
			})
		}
	}

	if path == nil {
		path = []string{}
	}
	return ViewResult{
		Taxonomy:   t,
		Path:       path,
		Breadcrumb: n.Breadcrumb(s.folders),
		Buckets:    buckets,
		Entries:    slices.Clone(entries),
		IsLeaf:     v.IsLeaf,
		Term:       term,
	}
}
