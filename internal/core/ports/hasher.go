package ports

import "go.trai.ch/qeb/internal/core/domain"

// Hasher defines the interface for computing cache hashes.
//
//go:generate go run go.uber.org/mock/mockgen -source=hasher.go -destination=mocks/mock_hasher.go -package=mocks
type Hasher interface {
	// ComputeFileHash computes the hash of a single file's content.
	ComputeFileHash(path string) (uint64, error)

	// ComputeFingerprint computes the cache version of an engine configuration.
	// It covers the configuration itself and the content of every build dependency.
	ComputeFingerprint(cfg *domain.EngineConfig) (string, error)

	// ComputeInputHash computes a single hash over the given input files, relative to root.
	ComputeInputHash(inputs []string, root string) (string, error)

	// ComputeOutputHash computes the hash of the output files, relative to root.
	ComputeOutputHash(outputs []string, root string) (string, error)
}
