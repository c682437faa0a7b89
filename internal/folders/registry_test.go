package folders

import (
	"strings"
	"testing"

	"github.com/starford/edgelog/internal/models"
	"github.com/starford/edgelog/internal/records"
)

func TestCreate(t *testing.T) {
	r := NewRegistry(nil)
	f, ok := r.Create("  Breakouts ")
	if !ok {
		t.Fatal("Create returned ok=false")
	}
	if f.Name != "Breakouts" {
		t.Errorf("name = %q", f.Name)
	}
	if !strings.HasPrefix(f.ID, "f_") {
		t.Errorf("id = %q, want f_ prefix", f.ID)
	}
	g, _ := r.Create("Breakouts")
	if g.ID == f.ID {
		t.Error("ids must be unique")
	}
	if len(r.All()) != 2 {
		t.Errorf("len = %d, want 2", len(r.All()))
	}
}

func TestCreate_BlankIgnored(t *testing.T) {
	r := NewRegistry(nil)
	for _, name := range []string{"", "   ", "\t\n"} {
		if _, ok := r.Create(name); ok {
			t.Errorf("Create(%q) should be a no-op", name)
		}
	}
	if len(r.All()) != 0 {
		t.Errorf("registry not empty: %+v", r.All())
	}
}

func TestDeleteCascades(t *testing.T) {
	reg := NewRegistry([]models.Folder{{ID: "f1", Name: "A"}, {ID: "f2", Name: "B"}})
	store := records.NewStore([]models.Record{
		{ID: "r1", CustomFolderID: "f1"},
		{ID: "r2", CustomFolderID: "f2"},
		{ID: "r3", CustomFolderID: "f1"},
		{ID: "r4"},
	})

	n, ok := reg.Delete("f1", store)
	if !ok || n != 2 {
		t.Fatalf("Delete = %d, %v; want 2, true", n, ok)
	}
	if reg.Exists("f1") {
		t.Error("f1 still registered")
	}
	if got := store.ReferencingFolder("f1"); len(got) != 0 {
		t.Errorf("records still referencing f1: %v", got)
	}
	if store.Len() != 4 {
		t.Errorf("records deleted by cascade: len = %d", store.Len())
	}
	r2, _ := store.Get("r2")
	if r2.CustomFolderID != "f2" {
		t.Errorf("unrelated record changed: %+v", r2)
	}
}

func TestDelete_Missing(t *testing.T) {
	reg := NewRegistry(nil)
	if _, ok := reg.Delete("nope", records.NewStore(nil)); ok {
		t.Error("deleting a missing folder should report false")
	}
}

func TestName(t *testing.T) {
	reg := NewRegistry(Defaults)
	name, ok := reg.Name("f_default_2")
	if !ok || name != "Case Studies" {
		t.Errorf("Name = %q, %v", name, ok)
	}
	if ids := reg.IDs(); len(ids) != 2 || ids[0] != "f_default_1" {
		t.Errorf("IDs = %v", ids)
	}
}
