package archive

import (
	"errors"
	"strconv"
	"testing"
	"time"

	"github.com/starford/edgelog/internal/apperr"
	"github.com/starford/edgelog/internal/folders"
	"github.com/starford/edgelog/internal/grouping"
	"github.com/starford/edgelog/internal/models"
	"github.com/starford/edgelog/internal/storage"
	"github.com/starford/edgelog/internal/testutil"
)

var clock = time.Date(2024, 3, 15, 10, 30, 0, 0, time.UTC)

type recorder struct {
	kinds []string
}

func (r *recorder) PublishChange(kind string, _ any) {
	r.kinds = append(r.kinds, kind)
}

func newService(t *testing.T, p storage.Provider, opts ...Option) *Service {
	t.Helper()
	n := 0
	base := []Option{
		WithClock(func() time.Time { return clock }),
		WithIDs(func() string { n++; return "r" + strconv.Itoa(n) }),
	}
	s, err := New(p, append(base, opts...)...)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return s
}

func seed(t *testing.T, p storage.Provider, recs ...models.Record) {
	t.Helper()
	if err := p.SaveRecords(recs); err != nil {
		t.Fatal(err)
	}
}

func TestNew_SeedsDefaultFolders(t *testing.T) {
	p := testutil.MemoryStore(t)
	s := newService(t, p, WithSeedFolders(true))

	got := s.Folders()
	if len(got) != 2 || got[0] != folders.Defaults[0] || got[1] != folders.Defaults[1] {
		t.Fatalf("folders = %+v", got)
	}
	saved, ok, _ := p.LoadFolders()
	if !ok || len(saved) != 2 {
		t.Errorf("seeded folders not saved: %+v", saved)
	}
	if s.Taxonomy() != models.DefaultTaxonomy {
		t.Errorf("taxonomy = %s", s.Taxonomy())
	}
}

func TestNew_DoesNotReseedEmptyCollection(t *testing.T) {
	p := testutil.MemoryStore(t)
	if err := p.SaveFolders([]models.Folder{}); err != nil {
		t.Fatal(err)
	}
	s := newService(t, p, WithSeedFolders(true))
	if len(s.Folders()) != 0 {
		t.Errorf("folders = %+v", s.Folders())
	}
}

func TestNew_Retention(t *testing.T) {
	p := testutil.MemoryStore(t)
	seed(t, p,
		testutil.Record(t, "fresh", "2024-03-15T09:00:00Z", "FRESH"),
		testutil.Record(t, "old", "2024-03-13T09:00:00Z", "OLD"),
		models.Record{ID: "bad", Date: "yesterday", Title: "BAD"},
	)
	s := newService(t, p, WithRetention(24*time.Hour))

	var ids []string
	for _, r := range s.Records("") {
		ids = append(ids, r.ID)
	}
	if len(ids) != 2 || ids[0] != "fresh" || ids[1] != "bad" {
		t.Errorf("kept = %v", ids)
	}
	saved, _ := p.LoadRecords()
	if len(saved) != 2 {
		t.Errorf("pruned collection not saved: %d records", len(saved))
	}
}

func TestCreateRecord(t *testing.T) {
	p := testutil.MemoryStore(t)
	pub := &recorder{}
	s := newService(t, p, WithPublisher(pub))

	r, err := s.CreateRecord(Draft{Title: "  long eurusd setup ", Text: "body", Bias: models.BiasBullish})
	if err != nil {
		t.Fatalf("CreateRecord: %v", err)
	}
	if r.Title != "LONG EURUSD SETUP" {
		t.Errorf("title = %q", r.Title)
	}
	if r.Date != "2024-03-15T10:30:00.000Z" {
		t.Errorf("date = %q", r.Date)
	}
	if r.Images == nil || r.CustomFolderID != "" {
		t.Errorf("record = %+v", r)
	}
	saved, _ := p.LoadRecords()
	if len(saved) != 1 || saved[0].ID != r.ID {
		t.Errorf("saved = %+v", saved)
	}
	if len(pub.kinds) != 1 || pub.kinds[0] != RecordCreated {
		t.Errorf("published = %v", pub.kinds)
	}
}

func TestCreateRecord_PrependsNewest(t *testing.T) {
	s := newService(t, testutil.MemoryStore(t))
	s.CreateRecord(Draft{Title: "first"})
	s.CreateRecord(Draft{Title: "second"})
	all := s.Records("")
	if all[0].Title != "SECOND" || all[1].Title != "FIRST" {
		t.Errorf("order = %q, %q", all[0].Title, all[1].Title)
	}
}

func TestCreateRecord_EmptyTitle(t *testing.T) {
	p := testutil.MemoryStore(t)
	s := newService(t, p)
	_, err := s.CreateRecord(Draft{Title: "   ", Text: "body"})
	if !errors.Is(err, apperr.ErrEmptyTitle) {
		t.Fatalf("err = %v", err)
	}
	if len(s.Records("")) != 0 {
		t.Error("rejected draft mutated the store")
	}
}

func TestCreateRecord_InvalidFields(t *testing.T) {
	s := newService(t, testutil.MemoryStore(t))
	drafts := []Draft{
		{Title: "x", Bias: "Sideways"},
		{Title: "x", Quality: "Great"},
		{Title: "x", Images: []string{"not-a-uri"}},
		{Title: "x", Audio: "data:image/png;base64,aGVsbG8="},
	}
	for _, d := range drafts {
		if _, err := s.CreateRecord(d); !errors.Is(err, apperr.ErrInvalid) {
			t.Errorf("CreateRecord(%+v) err = %v", d, err)
		}
	}
}

func TestCreateRecord_InheritsOpenFolder(t *testing.T) {
	s := newService(t, testutil.MemoryStore(t), WithSeedFolders(true))
	if _, err := s.Enter("f_default_1"); err != nil {
		t.Fatal(err)
	}
	r, _ := s.CreateRecord(Draft{Title: "inside"})
	if r.CustomFolderID != "f_default_1" {
		t.Errorf("folder = %q", r.CustomFolderID)
	}

	s.Enter(grouping.Uncategorized)
	r, _ = s.CreateRecord(Draft{Title: "loose"})
	if r.CustomFolderID != "" {
		t.Errorf("uncategorized folder = %q", r.CustomFolderID)
	}

	s.SetTaxonomy(models.TaxonomySymbol)
	r, _ = s.CreateRecord(Draft{Title: "EURUSD"})
	if r.CustomFolderID != "" {
		t.Errorf("symbol taxonomy folder = %q", r.CustomFolderID)
	}
}

func TestDeleteRecord(t *testing.T) {
	s := newService(t, testutil.MemoryStore(t))
	r, _ := s.CreateRecord(Draft{Title: "gone"})
	if err := s.DeleteRecord(r.ID); err != nil {
		t.Fatal(err)
	}
	if _, err := s.GetRecord(r.ID); !errors.Is(err, apperr.ErrNotFound) {
		t.Errorf("GetRecord err = %v", err)
	}
	if err := s.DeleteRecord(r.ID); !errors.Is(err, apperr.ErrNotFound) {
		t.Errorf("second delete err = %v", err)
	}
}

func TestDeleteFolder_Cascade(t *testing.T) {
	p := testutil.MemoryStore(t)
	s := newService(t, p, WithSeedFolders(true))
	for i := 0; i < 3; i++ {
		s.CreateRecord(Draft{Title: "in", FolderID: "f_default_1"})
	}
	s.CreateRecord(Draft{Title: "other", FolderID: "f_default_2"})
	s.Enter("f_default_1")

	cleared, err := s.DeleteFolder("f_default_1")
	if err != nil {
		t.Fatal(err)
	}
	if cleared != 3 {
		t.Errorf("cleared = %d", cleared)
	}
	uncategorized := 0
	for _, r := range s.Records("") {
		if r.CustomFolderID == "f_default_1" {
			t.Errorf("record %s still references deleted folder", r.ID)
		}
		if r.CustomFolderID == "" {
			uncategorized++
		}
	}
	if uncategorized != 3 {
		t.Errorf("uncategorized = %d", uncategorized)
	}
	if v := s.View(""); len(v.Path) != 0 {
		t.Errorf("navigator still inside deleted folder: %v", v.Path)
	}
	saved, _ := p.LoadRecords()
	for _, r := range saved {
		if r.CustomFolderID == "f_default_1" {
			t.Error("cascade not persisted")
		}
	}
	if _, err := s.DeleteFolder("f_default_1"); !errors.Is(err, apperr.ErrNotFound) {
		t.Errorf("second delete err = %v", err)
	}
}

func TestCreateFolder_BlankIsNoop(t *testing.T) {
	pub := &recorder{}
	s := newService(t, testutil.MemoryStore(t), WithPublisher(pub))
	if _, ok, err := s.CreateFolder("  "); ok || err != nil {
		t.Fatalf("ok=%v err=%v", ok, err)
	}
	if len(s.Folders()) != 0 || len(pub.kinds) != 0 {
		t.Error("blank folder name mutated state")
	}
	f, ok, err := s.CreateFolder(" Scalps ")
	if !ok || err != nil || f.Name != "Scalps" {
		t.Errorf("CreateFolder = %+v, %v, %v", f, ok, err)
	}
}

func TestMoveRecord(t *testing.T) {
	s := newService(t, testutil.MemoryStore(t), WithSeedFolders(true))
	r, _ := s.CreateRecord(Draft{Title: "mover", FolderID: "f_default_1"})
	s.CreateRecord(Draft{Title: "stay", FolderID: "f_default_1"})

	count := func(key string) int {
		for _, b := range s.View("").Buckets {
			if b.Key == key {
				return b.Count
			}
		}
		return -1
	}
	a, b := count("f_default_1"), count("f_default_2")

	if err := s.MoveRecord(r.ID, "f_default_2"); err != nil {
		t.Fatal(err)
	}
	if count("f_default_1") != a-1 || count("f_default_2") != b+1 {
		t.Errorf("counts = %d, %d", count("f_default_1"), count("f_default_2"))
	}
	got, _ := s.GetRecord(r.ID)
	if got.CustomFolderID != "f_default_2" {
		t.Errorf("folder = %q", got.CustomFolderID)
	}

	if err := s.MoveRecord(r.ID, grouping.Uncategorized); err != nil {
		t.Fatal(err)
	}
	got, _ = s.GetRecord(r.ID)
	if got.CustomFolderID != "" {
		t.Errorf("uncategorized move left %q", got.CustomFolderID)
	}
}

func TestMoveRecord_Errors(t *testing.T) {
	s := newService(t, testutil.MemoryStore(t))
	r, _ := s.CreateRecord(Draft{Title: "x"})
	if err := s.MoveRecord("missing", "f1"); !errors.Is(err, apperr.ErrNotFound) {
		t.Errorf("missing err = %v", err)
	}
	s.SetTaxonomy(models.TaxonomyDate)
	if err := s.MoveRecord(r.ID, "f1"); !errors.Is(err, apperr.ErrWrongTaxonomy) {
		t.Errorf("date taxonomy err = %v", err)
	}
}

func TestSetTaxonomy_PersistsAndResets(t *testing.T) {
	p := testutil.MemoryStore(t)
	s := newService(t, p, WithSeedFolders(true))
	s.Enter("f_default_1")
	if err := s.SetTaxonomy(models.TaxonomyDate); err != nil {
		t.Fatal(err)
	}
	if v := s.View(""); v.Taxonomy != models.TaxonomyDate || len(v.Path) != 0 {
		t.Errorf("view = %+v", v)
	}
	if got, ok, _ := p.LoadTaxonomy(); !ok || got != models.TaxonomyDate {
		t.Errorf("saved taxonomy = %q, %v", got, ok)
	}

	again := newService(t, p)
	if again.Taxonomy() != models.TaxonomyDate {
		t.Errorf("reloaded taxonomy = %s", again.Taxonomy())
	}
}

func TestReload(t *testing.T) {
	p := testutil.MemoryStore(t)
	s := newService(t, p, WithSeedFolders(true))
	s.Enter("f_default_2")

	seed(t, p, testutil.Record(t, "ext", "2024-01-01T00:00:00Z", "EXTERNAL"))
	if err := p.SaveFolders(folders.Defaults[:1]); err != nil {
		t.Fatal(err)
	}
	if err := s.Reload(storage.Records); err != nil {
		t.Fatal(err)
	}
	if err := s.Reload(storage.Folders); err != nil {
		t.Fatal(err)
	}
	if _, err := s.GetRecord("ext"); err != nil {
		t.Errorf("external record not loaded: %v", err)
	}
	if v := s.View(""); len(v.Path) != 0 {
		t.Errorf("navigator kept removed folder open: %v", v.Path)
	}
	if err := s.Reload("nope"); err == nil {
		t.Error("unknown collection should fail")
	}
}

func TestService_SurvivesRestart(t *testing.T) {
	_, p := testutil.DataDir(t)
	s := newService(t, p, WithSeedFolders(true))

	f, _, err := s.CreateFolder("Scalps")
	if err != nil {
		t.Fatal(err)
	}
	rec, err := s.CreateRecord(Draft{Title: "gbpjpy fade", FolderID: f.ID})
	if err != nil {
		t.Fatal(err)
	}
	if err := s.SetTaxonomy(models.TaxonomyDate); err != nil {
		t.Fatal(err)
	}

	again := newService(t, p, WithSeedFolders(true))
	got, err := again.GetRecord(rec.ID)
	if err != nil {
		t.Fatalf("record lost: %v", err)
	}
	if got.CustomFolderID != f.ID || got.Title != "GBPJPY FADE" {
		t.Errorf("got %+v", got)
	}
	if n := len(again.Folders()); n != len(folders.Defaults)+1 {
		t.Errorf("folders = %d, want %d", n, len(folders.Defaults)+1)
	}
	if again.Taxonomy() != models.TaxonomyDate {
		t.Errorf("taxonomy = %q", again.Taxonomy())
	}
}
