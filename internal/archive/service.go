// Package archive coordinates the record store, folder registry, navigator
// and persistence port behind one serialised API.
package archive

import (
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/starford/edgelog/internal/apperr"
	"github.com/starford/edgelog/internal/folders"
	"github.com/starford/edgelog/internal/models"
	"github.com/starford/edgelog/internal/move"
	"github.com/starford/edgelog/internal/navigator"
	"github.com/starford/edgelog/internal/records"
	"github.com/starford/edgelog/internal/search"
	"github.com/starford/edgelog/internal/storage"
)

// Service owns the archive state. The core collections are not safe for
// concurrent use, so every method holds mu.
type Service struct {
	mu      sync.Mutex
	store   storage.Provider
	records *records.Store
	folders *folders.Registry
	nav     *navigator.Navigator
	mover   *move.Handler

	pub       Publisher
	logger    *slog.Logger
	retention time.Duration
	seed      bool
	now       func() time.Time
	newID     func() string
}

// New loads the three collections from p and returns a ready service.
func New(p storage.Provider, opts ...Option) (*Service, error) {
	s := &Service{
		store:  p,
		pub:    nopPublisher{},
		logger: slog.Default(),
		now:    time.Now,
		newID:  uuid.NewString,
	}
	for _, opt := range opts {
		opt(s)
	}

	recs, err := s.loadRecords()
	if err != nil {
		return nil, err
	}
	s.records = records.NewStore(recs)
	s.mover = move.NewHandler(s.records)

	fs, err := s.loadFolders()
	if err != nil {
		return nil, err
	}
	s.folders = folders.NewRegistry(fs)

	t, ok, err := p.LoadTaxonomy()
	if err != nil {
		return nil, fmt.Errorf("archive: load taxonomy: %w", err)
	}
	if !ok {
		t = models.DefaultTaxonomy
	}
	s.nav = navigator.New(t)

	s.logger.Info("archive loaded",
		slog.Int("records", s.records.Len()),
		slog.Int("folders", len(fs)),
		slog.String("taxonomy", string(t)))
	return s, nil
}

func (s *Service) loadRecords() ([]models.Record, error) {
	recs, err := s.store.LoadRecords()
	if err != nil {
		return nil, fmt.Errorf("archive: load records: %w", err)
	}
	if s.retention <= 0 {
		return recs, nil
	}
	kept := s.prune(recs)
	if len(kept) == len(recs) {
		return recs, nil
	}
	s.logger.Info("pruned expired records", slog.Int("count", len(recs)-len(kept)))
	if err := s.store.SaveRecords(kept); err != nil {
		return nil, fmt.Errorf("archive: save records: %w", err)
	}
	return kept, nil
}

// prune drops records stamped before the retention cutoff. Records whose
// date cannot be read are kept.
func (s *Service) prune(recs []models.Record) []models.Record {
	cutoff := s.now().Add(-s.retention)
	out := make([]models.Record, 0, len(recs))
	for _, r := range recs {
		if ts, err := r.Timestamp(); err == nil && ts.Before(cutoff) {
			continue
		}
		out = append(out, r)
	}
	return out
}

func (s *Service) loadFolders() ([]models.Folder, error) {
	fs, ok, err := s.store.LoadFolders()
	if err != nil {
		return nil, fmt.Errorf("archive: load folders: %w", err)
	}
	if ok || !s.seed {
		return fs, nil
	}
	fs = slices.Clone(folders.Defaults)
	if err := s.store.SaveFolders(fs); err != nil {
		return nil, fmt.Errorf("archive: save folders: %w", err)
	}
	return fs, nil
}

// Records returns every record, newest first, narrowed by term.
func (s *Service) Records(term string) []models.Record {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(search.Filter(s.records.All(), term))
}

// GetRecord returns the record with id.
func (s *Service) GetRecord(id string) (models.Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.records.Get(id)
	if !ok {
		return models.Record{}, apperr.ErrNotFound
	}
	return r, nil
}

// CreateRecord validates d and prepends the resulting record. A draft
// without a folder inherits the folder open under the manual taxonomy.
func (s *Service) CreateRecord(d Draft) (models.Record, error) {
	if err := d.Validate(); err != nil {
		return models.Record{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	folderID := d.FolderID
	if folderID == "" {
		folderID, _ = s.nav.OpenFolder()
	}
	images := d.Images
	if images == nil {
		images = []string{}
	}
	r := models.Record{
		ID:             s.newID(),
		Date:           models.Stamp(s.now()),
		Title:          strings.ToUpper(strings.TrimSpace(d.Title)),
		Text:           d.Text,
		Images:         images,
		Audio:          d.Audio,
		Bias:           d.Bias,
		Quality:        d.Quality,
		CustomFolderID: folderID,
	}
	prev := s.records.All()
	s.records.Add(r)
	if err := s.saveRecords(); err != nil {
		s.records.Replace(prev)
		return models.Record{}, err
	}
	s.pub.PublishChange(RecordCreated, map[string]string{"id": r.ID})
	return r, nil
}

// DeleteRecord removes the record with id.
func (s *Service) DeleteRecord(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	prev := s.records.All()
	if !s.records.Remove(id) {
		return apperr.ErrNotFound
	}
	if err := s.saveRecords(); err != nil {
		s.records.Replace(prev)
		return err
	}
	s.pub.PublishChange(RecordDeleted, map[string]string{"id": id})
	return nil
}

// MoveRecord reassigns record id to target, a folder id or the
// uncategorized bucket key. Only the manual taxonomy supports moves.
// Unknown targets are accepted; grouping shows such records as uncategorized.
func (s *Service) MoveRecord(id, target string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.nav.Taxonomy() != models.TaxonomyManual {
		return apperr.ErrWrongTaxonomy
	}
	if _, ok := s.records.Get(id); !ok {
		return apperr.ErrNotFound
	}
	prev := s.records.All()
	s.mover.Start(id)
	if !s.mover.Drop(target) {
		return apperr.ErrNotFound
	}
	if err := s.saveRecords(); err != nil {
		s.records.Replace(prev)
		return err
	}
	s.pub.PublishChange(RecordMoved, map[string]string{"id": id, "folderId": target})
	return nil
}

// Folders returns the folders in creation order.
func (s *Service) Folders() []models.Folder {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.folders.All())
}

// FolderName returns the display name of folder id, or "" when it does
// not exist.
func (s *Service) FolderName(id string) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	name, _ := s.folders.Name(id)
	return name
}

// CreateFolder registers a folder named name. A blank name is ignored and
// reported with ok=false.
func (s *Service) CreateFolder(name string) (f models.Folder, ok bool, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	prev := s.folders.All()
	f, ok = s.folders.Create(name)
	if !ok {
		return models.Folder{}, false, nil
	}
	if err := s.saveFolders(); err != nil {
		s.folders.Replace(prev)
		return models.Folder{}, false, err
	}
	s.pub.PublishChange(FolderCreated, f)
	return f, true, nil
}

// DeleteFolder removes folder id, clears the folder reference of every
// record pointing at it and leaves the folder if it is open. It returns the
// number of records that became uncategorized.
//
// Folders are saved before records: if only the first save lands, the
// stored records still point at a missing folder, which groups them as
// uncategorized exactly like a completed cascade.
func (s *Service) DeleteFolder(id string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	prevRecs, prevFolders := s.records.All(), s.folders.All()
	cleared, ok := s.folders.Delete(id, s.records)
	if !ok {
		return 0, apperr.ErrNotFound
	}
	if err := s.saveFolders(); err != nil {
		s.records.Replace(prevRecs)
		s.folders.Replace(prevFolders)
		return 0, err
	}
	if cleared > 0 {
		if err := s.saveRecords(); err != nil {
			s.records.Replace(prevRecs)
			s.folders.Replace(prevFolders)
			if rerr := s.saveFolders(); rerr != nil {
				s.logger.Error("folder restore failed", slog.String("id", id), slog.String("error", rerr.Error()))
			}
			return 0, err
		}
	}
	s.nav.LeaveFolder(id)
	s.logger.Info("folder deleted", slog.String("id", id), slog.Int("cleared", cleared))
	s.pub.PublishChange(FolderDeleted, map[string]any{"id": id, "cleared": cleared})
	return cleared, nil
}

// Taxonomy returns the active taxonomy.
func (s *Service) Taxonomy() models.Taxonomy {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.nav.Taxonomy()
}

// SetTaxonomy switches taxonomy, returns to the root and saves the choice.
func (s *Service) SetTaxonomy(t models.Taxonomy) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.store.SaveTaxonomy(t); err != nil {
		return fmt.Errorf("archive: save taxonomy: %w", err)
	}
	s.nav.SetTaxonomy(t)
	s.mover.Cancel()
	s.pub.PublishChange(TaxonomyChanged, map[string]string{"taxonomy": string(t)})
	return nil
}

// Reload re-reads collection c from the persistence port after an external
// edit.
func (s *Service) Reload(c storage.Collection) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	switch c {
	case storage.Records:
		recs, err := s.loadRecords()
		if err != nil {
			return err
		}
		s.records.Replace(recs)
		s.mover.Cancel()
	case storage.Folders:
		fs, _, err := s.store.LoadFolders()
		if err != nil {
			return fmt.Errorf("archive: reload folders: %w", err)
		}
		s.folders.Replace(fs)
		if id, ok := s.nav.OpenFolder(); ok && !s.folders.Exists(id) {
			s.nav.LeaveFolder(id)
		}
	case storage.Taxonomy:
		t, ok, err := s.store.LoadTaxonomy()
		if err != nil {
			return fmt.Errorf("archive: reload taxonomy: %w", err)
		}
		if !ok {
			t = models.DefaultTaxonomy
		}
		if t != s.nav.Taxonomy() {
			s.nav.SetTaxonomy(t)
		}
	default:
		return fmt.Errorf("archive: reload: unknown collection %q", c)
	}
	s.logger.Info("collection reloaded", slog.String("collection", string(c)))
	s.pub.PublishChange(Reloaded, map[string]string{"collection": string(c)})
	return nil
}

func (s *Service) saveRecords() error {
	if err := s.store.SaveRecords(s.records.All()); err != nil {
		return fmt.Errorf("archive: save records: %w", err)
	}
	return nil
}

func (s *Service) saveFolders() error {
	if err := s.store.SaveFolders(s.folders.All()); err != nil {
		return fmt.Errorf("archive: save folders: %w", err)
	}
	return nil
}
