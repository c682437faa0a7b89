package storage

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/starford/edgelog/internal/checksum"
)

// FS stores each collection as <root>/<collection>.json.
type FS struct {
	root string // absolute path to the data directory

	mu      sync.Mutex
	written map[Collection]string // checksum of the last payload this process wrote
}

// NewFS creates an FS backend rooted at the given directory.
// The directory must already exist.
func NewFS(root string) (*FS, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("storage: resolve root: %w", err)
	}
	info, err := os.Stat(abs)
	if err != nil {
		return nil, fmt.Errorf("storage: stat root: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("storage: root is not a directory: %s", abs)
	}
	return &FS{root: abs, written: make(map[Collection]string)}, nil
}

// Root returns the absolute data directory.
func (f *FS) Root() string {
	return f.root
}

func (f *FS) path(c Collection) string {
	return filepath.Join(f.root, string(c)+".json")
}

// collectionAt maps a file path back to its collection.
func (f *FS) collectionAt(p string) (Collection, bool) {
	for _, c := range Collections {
		if filepath.Clean(p) == f.path(c) {
			return c, true
		}
	}
	return "", false
}

// Get reads a collection file; a missing file reports ok=false.
func (f *FS) Get(c Collection) ([]byte, bool, error) {
	data, err := os.ReadFile(f.path(c))
	if errors.Is(err, os.ErrNotExist) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("storage: read %s: %w", c, err)
	}
	return data, true, nil
}

// Put atomically writes content: tmp file → fsync → rename.
func (f *FS) Put(c Collection, content []byte) error {
	tmp, err := os.CreateTemp(f.root, ".edgelog-tmp-*")
	if err != nil {
		return fmt.Errorf("storage: create temp: %w", err)
	}
	tmpName := tmp.Name()

	// Clean up on any failure path.
	success := false
	defer func() {
		if !success {
			_ = tmp.Close()
			_ = os.Remove(tmpName)
		}
	}()

	if _, err := tmp.Write(content); err != nil {
		return fmt.Errorf("storage: write temp: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		return fmt.Errorf("storage: fsync: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("storage: close temp: %w", err)
	}

	f.mu.Lock()
	f.written[c] = checksum.Sum(content)
	f.mu.Unlock()

	if err := os.Rename(tmpName, f.path(c)); err != nil {
		return fmt.Errorf("storage: rename: %w", err)
	}
	success = true
	return nil
}

// Changed reports whether data differs from what this process last wrote
// to c, i.e. whether the file was edited by someone else.
func (f *FS) Changed(c Collection, data []byte) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.written[c] != checksum.Sum(data)
}

func (f *FS) Close() error { return nil }
