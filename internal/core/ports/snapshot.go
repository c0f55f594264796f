package ports

import "context"

// SnapshotReader reads the schema snapshot text injected into the entry module.
//
//go:generate go run go.uber.org/mock/mockgen -source=snapshot.go -destination=mocks/mock_snapshot.go -package=mocks
type SnapshotReader interface {
	// Read returns the UTF-8 snapshot text stored at path.
	// It returns domain.ErrSnapshotUnreadable when the file cannot be read.
	Read(ctx context.Context, path string) (string, error)
}
