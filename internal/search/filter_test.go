package search

import (
	"testing"

	"github.com/starford/edgelog/internal/grouping"
	"github.com/starford/edgelog/internal/models"
)

func TestFilter_EmptyTermReturnsInput(t *testing.T) {
	in := []models.Record{{ID: "a"}, {ID: "b"}}
	if got := Filter(in, ""); len(got) != 2 {
		t.Errorf("len = %d, want 2", len(got))
	}
}

func TestFilter_CaseInsensitive(t *testing.T) {
	in := []models.Record{
		{ID: "a", Title: "EURUSD", Text: "entered on FOMO again"},
		{ID: "b", Title: "GBPJPY", Text: "clean setup"},
	}
	got := Filter(in, "fomo")
	if len(got) != 1 || got[0].ID != "a" {
		t.Errorf("Filter(fomo) = %+v", got)
	}
	got = Filter(in, "gbp")
	if len(got) != 1 || got[0].ID != "b" {
		t.Errorf("Filter(gbp) = %+v", got)
	}
}

func TestFilter_NoMatchIsEmpty(t *testing.T) {
	got := Filter([]models.Record{{ID: "a", Title: "x"}}, "zzz")
	if got == nil || len(got) != 0 {
		t.Errorf("Filter = %#v, want empty non-nil", got)
	}
}

func TestFilter_AppliedAfterScoping(t *testing.T) {
	all := []models.Record{
		{ID: "a", Date: "2024-03-15T10:00:00.000Z", Title: "EURUSD", Text: "fomo trade", CustomFolderID: "f1"},
		{ID: "b", Date: "2024-03-15T10:00:00.000Z", Title: "EURUSD", Text: "FOMO again"},
		{ID: "c", Date: "2024-03-15T10:00:00.000Z", Title: "EURUSD", Text: "patient", CustomFolderID: "f1"},
	}
	folders := oneFolder("f1")
	path := []string{"f1"}
	v := grouping.Group(all, models.TaxonomyManual, folders, path)
	got := Filter(grouping.Entries(v, all, models.TaxonomyManual, path), "fomo")
	if len(got) != 1 || got[0].ID != "a" {
		t.Errorf("scoped search = %+v, want only a", got)
	}
}

type oneFolder string

func (f oneFolder) IDs() []string          { return []string{string(f)} }
func (f oneFolder) Exists(id string) bool { return id == string(f) }
