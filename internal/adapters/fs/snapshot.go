package fs

import (
	"context"
	"errors"
	"os"
	"unicode/utf8"

	"go.trai.ch/qeb/internal/core/domain"
	"go.trai.ch/qeb/internal/core/ports"
	"go.trai.ch/zerr"
)

var _ ports.SnapshotReader = (*SnapshotReader)(nil)

// SnapshotReader reads the schema snapshot from disk.
type SnapshotReader struct{}

// NewSnapshotReader creates a new SnapshotReader.
func NewSnapshotReader() *SnapshotReader {
	return &SnapshotReader{}
}

// Read returns the snapshot text. Any read failure is a precondition failure.
func (r *SnapshotReader) Read(_ context.Context, path string) (string, error) {
	data, err := os.ReadFile(path) //nolint:gosec // Path is derived from the project root
	if err != nil {
		return "", errors.Join(
			domain.ErrSnapshotUnreadable,
			zerr.With(zerr.Wrap(err, "failed to read schema snapshot"), "path", path),
		)
	}
	if !utf8.Valid(data) {
		return "", errors.Join(
			domain.ErrSnapshotUnreadable,
			zerr.With(zerr.New("schema snapshot is not valid UTF-8"), "path", path),
		)
	}
	return string(data), nil
}
