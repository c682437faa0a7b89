// Package grouping partitions the record collection into buckets for the
// active taxonomy and navigation path.
//
// Group is a pure function of its inputs: calling it twice on the same
// state yields the same View. Nothing is cached between calls.
package grouping

import (
	"github.com/starford/edgelog/internal/models"
)

const (
	// Uncategorized is the manual bucket for records without a live folder.
	Uncategorized = "uncategorized"
	// General is the symbol bucket for titles without a symbol.
	General = "General"
)

// FolderSet is the view of the folder registry the manual taxonomy needs.
type FolderSet interface {
	IDs() []string
	Exists(id string) bool
}

// Bucket is a named group of records.
type Bucket struct {
	Key     string
	Records []models.Record
}

// View is the result of grouping. At the deepest date level there are no
// buckets; Leaf holds the matching records instead.
type View struct {
	Buckets []Bucket
	Leaf    []models.Record
	IsLeaf  bool
}

// Keys returns bucket keys in order.
func (v View) Keys() []string {
	out := make([]string, len(v.Buckets))
	for i, b := range v.Buckets {
		out[i] = b.Key
	}
	return out
}

// Lookup returns the records of the bucket named key.
func (v View) Lookup(key string) ([]models.Record, bool) {
	for _, b := range v.Buckets {
		if b.Key == key {
			return b.Records, true
		}
	}
	return nil, false
}

// Total counts the records in scope.
func (v View) Total() int {
	if v.IsLeaf {
		return len(v.Leaf)
	}
	n := 0
	for _, b := range v.Buckets {
		n += len(b.Records)
	}
	return n
}

// Group partitions all for taxonomy t. folders is only consulted for the
// manual taxonomy and path only for the date taxonomy.
func Group(all []models.Record, t models.Taxonomy, folders FolderSet, path []string) View {
	switch t {
	case models.TaxonomySymbol:
		return groupBySymbol(all)
	case models.TaxonomyDate:
		return groupByDate(all, path)
	default:
		return groupByFolder(all, folders)
	}
}

func groupByFolder(all []models.Record, folders FolderSet) View {
	var p partition
	if folders != nil {
		for _, id := range folders.IDs() {
			p.ensure(id)
		}
	}
	p.ensure(Uncategorized)
	for _, r := range all {
		key := Uncategorized
		if r.CustomFolderID != "" && folders != nil && folders.Exists(r.CustomFolderID) {
			key = r.CustomFolderID
		}
		p.add(key, r)
	}
	return View{Buckets: p.buckets}
}

func groupBySymbol(all []models.Record) View {
	var p partition
	for _, r := range all {
		p.add(SymbolKey(r.Title), r)
	}
	return View{Buckets: p.buckets}
}

func groupByDate(all []models.Record, path []string) View {
	state := DateStateOf(path)
	var p partition
	var leaf []models.Record
	for _, r := range all {
		d, ok := datePartsOf(r)
		if !ok || !state.admits(d, path) {
			continue
		}
		if state == InDay {
			leaf = append(leaf, r)
			continue
		}
		p.add(state.key(d), r)
	}
	if state == InDay {
		return View{Leaf: leaf, IsLeaf: true}
	}
	return View{Buckets: p.buckets}
}

// Entries returns the records listed at the current scope, before any
// search filtering: the open bucket under the manual and symbol taxonomies
// (every record at their root), and the leaf under the date taxonomy, which
// lists nothing above its deepest level.
func Entries(v View, all []models.Record, t models.Taxonomy, path []string) []models.Record {
	if t == models.TaxonomyDate {
		if v.IsLeaf {
			return v.Leaf
		}
		return nil
	}
	if len(path) == 0 {
		return all
	}
	list, _ := v.Lookup(path[0])
	return list
}

// partition is an insertion-ordered bucket map.
type partition struct {
	index   map[string]int
	buckets []Bucket
}

func (p *partition) ensure(key string) int {
	if p.index == nil {
		p.index = make(map[string]int)
	}
	if i, ok := p.index[key]; ok {
		return i
	}
	p.index[key] = len(p.buckets)
	p.buckets = append(p.buckets, Bucket{Key: key, Records: []models.Record{}})
	return len(p.buckets) - 1
}

func (p *partition) add(key string, r models.Record) {
	i := p.ensure(key)
	p.buckets[i].Records = append(p.buckets[i].Records, r)
}
