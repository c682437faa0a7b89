package internal

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/starford/edgelog/internal/storage"
	"github.com/starford/edgelog/internal/testutil"
)

func discard() *slog.Logger {
	return slog.New(slog.NewJSONHandler(io.Discard, nil))
}

func TestOpenStore_CreatesDataDir(t *testing.T) {
	cfg := NewDefaultConfig()
	cfg.Storage.Path = filepath.Join(t.TempDir(), "nested", "data")
	app := &application{config: cfg}

	store, err := app.openStore()
	if err != nil {
		t.Fatalf("openStore: %v", err)
	}
	defer store.Close()

	if _, ok := store.Backend().(*storage.FS); !ok {
		t.Errorf("backend = %T, want *storage.FS", store.Backend())
	}
	if info, err := os.Stat(cfg.Storage.Path); err != nil || !info.IsDir() {
		t.Errorf("data dir not created: %v", err)
	}
}

func TestOpenStore_SQLite(t *testing.T) {
	cfg := NewDefaultConfig()
	cfg.Storage.Driver = StorageSQLite
	cfg.Storage.Path = filepath.Join(t.TempDir(), "edgelog.db")
	app := &application{config: cfg}

	store, err := app.openStore()
	if err != nil {
		t.Fatalf("openStore: %v", err)
	}
	defer store.Close()
	if _, ok := store.Backend().(*storage.SQLite); !ok {
		t.Errorf("backend = %T, want *storage.SQLite", store.Backend())
	}
}

func TestOpenStore_Injected(t *testing.T) {
	injected := testutil.MemoryStore(t)
	app := &application{config: NewDefaultConfig()}
	WithStore(injected)(app)

	store, err := app.openStore()
	if err != nil {
		t.Fatal(err)
	}
	if store != injected {
		t.Error("injected store not used")
	}
}

func TestNewTranscriber_DisabledWithoutKey(t *testing.T) {
	app := &application{config: NewDefaultConfig()}
	tr, err := app.newTranscriber(context.Background(), discard())
	if err != nil {
		t.Fatal(err)
	}
	if tr != nil {
		t.Errorf("transcriber = %T, want nil", tr)
	}
}

func TestNewArchive_AppliesConfig(t *testing.T) {
	cfg := NewDefaultConfig()
	svc, err := newArchive(testutil.MemoryStore(t), cfg, discard())
	if err != nil {
		t.Fatal(err)
	}
	if len(svc.Folders()) != 2 {
		t.Errorf("seed folders = %d, want 2", len(svc.Folders()))
	}

	cfg.Archive.SeedFolders = false
	svc, err = newArchive(testutil.MemoryStore(t), cfg, discard())
	if err != nil {
		t.Fatal(err)
	}
	if len(svc.Folders()) != 0 {
		t.Errorf("folders = %d, want 0 without seeding", len(svc.Folders()))
	}
}

func TestRun_RequiresConfig(t *testing.T) {
	if err := Run(context.Background()); err == nil {
		t.Fatal("expected error without config")
	}
	if err := RunMCP(context.Background()); err == nil {
		t.Fatal("expected error without config")
	}
}
