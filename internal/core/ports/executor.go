package ports

import (
	"context"

	"go.trai.ch/qeb/internal/core/domain"
)

// Executor runs external processes on behalf of subprocess engines.
//
//go:generate go run go.uber.org/mock/mockgen -source=executor.go -destination=mocks/mock_executor.go -package=mocks
type Executor interface {
	// Execute runs the command and streams its output to the active vertex,
	// or to the logger when none is attached to ctx.
	//
	// It returns an error if the process cannot be started or exits non-zero.
	Execute(ctx context.Context, cmd *domain.Command) error
}
