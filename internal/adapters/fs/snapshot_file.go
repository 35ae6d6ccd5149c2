package fs

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/bft-labs/practicepicker/internal/domain"
	"github.com/bft-labs/practicepicker/internal/ports"
)

// DefaultFileName is the snapshot file used when none is configured.
const DefaultFileName = "routines.json"

// SnapshotFileRepository implements ports.SnapshotRepository using a JSON file.
type SnapshotFileRepository struct {
	path string
}

// NewSnapshotFileRepository creates a repository backed by the file at path.
func NewSnapshotFileRepository(path string) *SnapshotFileRepository {
	if path == "" {
		path = DefaultFileName
	}
	return &SnapshotFileRepository{path: path}
}

// Name identifies the backend.
func (r *SnapshotFileRepository) Name() string { return "file" }

// Load reads the snapshot from disk. A missing file is reported as absent.
func (r *SnapshotFileRepository) Load(ctx context.Context) ports.LoadResult {
	data, err := os.ReadFile(r.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return ports.Absent()
		}
		return ports.Failed(fmt.Errorf("read %s: %w", r.path, err))
	}

	s, err := domain.DecodeSnapshot(data)
	if err != nil {
		return ports.Malformed(fmt.Errorf("parse %s: %w", r.path, err))
	}
	return ports.Found(s)
}

// Save overwrites the file with the indented snapshot.
// Uses atomic write (write to temp file, then rename) to prevent corruption.
func (r *SnapshotFileRepository) Save(ctx context.Context, s domain.Snapshot) error {
	if dir := filepath.Dir(r.path); dir != "." {
		if err := os.MkdirAll(dir, 0o700); err != nil {
			return err
		}
	}
	if s.Routines == nil {
		s.Routines = []domain.Routine{}
	}

	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return err
	}

	tmp := r.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return err
	}

	// Atomic rename
	return os.Rename(tmp, r.path)
}

// Path returns the full path to the snapshot file.
func (r *SnapshotFileRepository) Path() string {
	return r.path
}
