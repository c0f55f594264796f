// Package cas implements build record storage inside engine cache directories.
package cas

import (
	"encoding/json"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"github.com/opencontainers/go-digest"
	"go.trai.ch/qeb/internal/core/domain"
	"go.trai.ch/qeb/internal/core/ports"
	"go.trai.ch/zerr"
)

var _ ports.BuildInfoStore = (*Store)(nil)

// Store implements ports.BuildInfoStore with one JSON file per record,
// named after the sha256 digest of the bundle name.
type Store struct {
	mu sync.RWMutex
}

// NewStore creates a new Store.
func NewStore() *Store {
	return &Store{}
}

// RecordPath returns the file holding the record for name inside dir.
func RecordPath(dir, name string) string {
	return filepath.Join(filepath.Clean(dir), digest.FromString(name).Encoded()+".json")
}

// Get retrieves the build record for name. A missing or corrupted record is a miss.
func (s *Store) Get(dir, name string) (*domain.BuildInfo, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	path := RecordPath(dir, name)
	data, err := os.ReadFile(path) //nolint:gosec // Path is derived from the cache directory
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, zerr.With(zerr.Wrap(err, "failed to read build record"), "path", path)
	}

	var info domain.BuildInfo
	if err := json.Unmarshal(data, &info); err != nil || info.Name != name {
		return nil, nil
	}
	return &info, nil
}

// Put stores the build record, replacing the previous one atomically.
func (s *Store) Put(dir string, info domain.BuildInfo) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := json.MarshalIndent(info, "", "  ")
	if err != nil {
		return zerr.Wrap(err, "failed to marshal build record")
	}

	if err := os.MkdirAll(dir, domain.DirPerm); err != nil {
		return zerr.With(zerr.Wrap(err, "failed to create cache directory"), "dir", dir)
	}

	path := RecordPath(dir, info.Name)
	tmp, err := os.CreateTemp(filepath.Dir(path), ".record-*")
	if err != nil {
		return zerr.Wrap(err, "failed to create temporary build record")
	}
	defer os.Remove(tmp.Name()) //nolint:errcheck // Already renamed on success

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return zerr.Wrap(err, "failed to write build record")
	}
	if err := tmp.Close(); err != nil {
		return zerr.Wrap(err, "failed to write build record")
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return zerr.With(zerr.Wrap(err, "failed to store build record"), "path", path)
	}

	return nil
}
