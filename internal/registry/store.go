package registry

//go:generate mockgen -source=store.go -destination=mocks/mock_store.go -package=mocks

import (
	"context"
	"encoding/json"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/anstrom/lanwatch/internal/device"
	lwerrors "github.com/anstrom/lanwatch/internal/errors"
)

// Snapshot is the persisted form of the registry.
type Snapshot struct {
	LastUpdated time.Time       `json:"lastUpdated"`
	Devices     []device.Device `json:"devices"`
}

// Store persists snapshots.
type Store interface {
	// Load returns the last saved snapshot, or nil when none exists.
	Load(ctx context.Context) (*Snapshot, error)
	// Save replaces the stored snapshot.
	Save(ctx context.Context, snap *Snapshot) error
	// Name identifies the backend in logs and metrics.
	Name() string
}

const (
	snapshotFileMode = 0o600
	snapshotDirMode  = 0o750
)

// FileStore keeps the snapshot as a JSON document on disk.
type FileStore struct {
	path string
}

// NewFileStore returns a store writing to path.
func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

var _ Store = (*FileStore)(nil)

// Name implements Store.
func (s *FileStore) Name() string { return "file" }

// Path returns the snapshot location.
func (s *FileStore) Path() string { return s.path }

// Load implements Store.
func (s *FileStore) Load(_ context.Context) (*Snapshot, error) {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, lwerrors.WrapPersistenceError(lwerrors.CodePersistenceFailed, "load", err).WithLocation(s.path)
	}

	var snap Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, lwerrors.WrapPersistenceError(lwerrors.CodeSnapshotCorrupt, "decode", err).WithLocation(s.path)
	}
	return &snap, nil
}

// Save implements Store. The document is written to a temporary file in the
// same directory and renamed over the old one.
func (s *FileStore) Save(_ context.Context, snap *Snapshot) error {
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, snapshotDirMode); err != nil {
		return s.saveError(err)
	}

	data, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return s.saveError(err)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(s.path)+".*.tmp")
	if err != nil {
		return s.saveError(err)
	}
	tmpName := tmp.Name()
	defer func() { _ = os.Remove(tmpName) }()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return s.saveError(err)
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		return s.saveError(err)
	}
	if err := tmp.Close(); err != nil {
		return s.saveError(err)
	}
	if err := os.Chmod(tmpName, snapshotFileMode); err != nil {
		return s.saveError(err)
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		return s.saveError(err)
	}
	return nil
}

// Quarantine renames the snapshot to <path>.corrupt-<timestamp> so a later
// save cannot overwrite it, and returns the new location.
func (s *FileStore) Quarantine(now time.Time) (string, error) {
	dest := s.path + ".corrupt-" + now.UTC().Format("20060102T150405Z")
	if err := os.Rename(s.path, dest); err != nil {
		return "", lwerrors.WrapPersistenceError(lwerrors.CodePersistenceFailed, "quarantine", err).WithLocation(s.path)
	}
	return dest, nil
}

func (s *FileStore) saveError(err error) error {
	return lwerrors.WrapPersistenceError(lwerrors.CodePersistenceFailed, "save", err).WithLocation(s.path)
}
