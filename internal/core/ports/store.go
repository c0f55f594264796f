package ports

import "go.trai.ch/qeb/internal/core/domain"

// BuildInfoStore defines the interface for storing and retrieving build records
// inside an engine cache directory.
//
//go:generate go run go.uber.org/mock/mockgen -source=store.go -destination=mocks/mock_store.go -package=mocks
type BuildInfoStore interface {
	// Get retrieves the build record for a given bundle name.
	// Returns nil, nil if not found or unreadable.
	Get(dir, name string) (*domain.BuildInfo, error)

	// Put stores the build record.
	Put(dir string, info domain.BuildInfo) error
}
