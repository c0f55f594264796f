// Package ports defines the core interfaces for the application.
package ports

import (
	"context"

	"go.trai.ch/qeb/internal/core/domain"
)

// Engine is a bundling backend. The orchestrator selects exactly one engine per build
// and drives it only through this contract.
//
//go:generate go run go.uber.org/mock/mockgen -source=engine.go -destination=mocks/mock_engine.go -package=mocks
type Engine interface {
	// Kind returns the identity the engine is selected by.
	Kind() domain.EngineKind

	// Open prepares an engine session for the given configuration.
	// The configuration must not be mutated.
	Open(ctx context.Context, cfg *domain.EngineConfig) (Session, error)
}

// Session is a single opened engine run.
// Close must be called exactly once after a successful Open, whatever Run returned.
type Session interface {
	// Run performs the bundling and returns the produced artifact.
	// Structured build errors are reported as a *domain.BuildFailure.
	Run(ctx context.Context) (*domain.Artifact, error)

	// Close releases the engine resources.
	Close() error
}
