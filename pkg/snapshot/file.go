package snapshot

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/mnemonic-no/act-utils/pkg/datamodel"
	errs "github.com/mnemonic-no/act-utils/pkg/errors"
)

// DefaultFile is the snapshot path used when none is configured.
const DefaultFile = "cache.json"

// FileStore keeps the snapshot in a single JSON file.
type FileStore struct {
	path string
	now  func() time.Time
}

// NewFileStore creates a store at path, or DefaultFile when empty.
// The file and its directory are created on first Save.
func NewFileStore(path string) *FileStore {
	if path == "" {
		path = DefaultFile
	}
	return &FileStore{path: path, now: time.Now}
}

// Load reads the snapshot file.
func (s *FileStore) Load(ctx context.Context) (*Record, error) {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, errs.Wrap(errs.ErrCodeSnapshot, err, "read %s", s.path)
	}
	return Decode(data)
}

// Save writes the snapshot through a temporary file and a rename, so a crash
// never leaves a truncated file behind.
func (s *FileStore) Save(ctx context.Context, snap datamodel.Snapshot) error {
	data, err := Encode(snap, s.now())
	if err != nil {
		return err
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return errs.Wrap(errs.ErrCodeSnapshot, err, "create %s", dir)
	}
	tmp, err := os.CreateTemp(dir, ".snapshot-*")
	if err != nil {
		return errs.Wrap(errs.ErrCodeSnapshot, err, "create temp file")
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return errs.Wrap(errs.ErrCodeSnapshot, err, "write snapshot")
	}
	if err := tmp.Close(); err != nil {
		return errs.Wrap(errs.ErrCodeSnapshot, err, "write snapshot")
	}
	if err := os.Rename(tmp.Name(), s.path); err != nil {
		return errs.Wrap(errs.ErrCodeSnapshot, err, "replace %s", s.path)
	}
	return nil
}

// Clear deletes the snapshot file.
func (s *FileStore) Clear(ctx context.Context) error {
	err := os.Remove(s.path)
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return errs.Wrap(errs.ErrCodeSnapshot, err, "remove %s", s.path)
	}
	return nil
}

// Location returns the file path.
func (s *FileStore) Location() string { return s.path }

// Close does nothing for file stores.
func (s *FileStore) Close() error { return nil }

var _ Store = (*FileStore)(nil)
