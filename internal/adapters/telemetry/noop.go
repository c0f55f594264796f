package telemetry

import (
	"context"
	"io"

	"go.trai.ch/qeb/internal/core/domain"
	"go.trai.ch/qeb/internal/core/ports"
)

var (
	_ ports.Telemetry = (*NoOpRecorder)(nil)
	_ ports.Vertex    = (*NoOpVertex)(nil)
)

// NoOpRecorder is a no-op implementation of ports.Telemetry.
type NoOpRecorder struct{}

// NewNoOpRecorder creates a new NoOpRecorder.
func NewNoOpRecorder() *NoOpRecorder {
	return &NoOpRecorder{}
}

// Record attaches a no-op vertex to ctx.
func (r *NoOpRecorder) Record(ctx context.Context, _ string) (context.Context, ports.Vertex) {
	v := &NoOpVertex{}
	return ports.ContextWithVertex(ctx, v), v
}

// Close does nothing.
func (r *NoOpRecorder) Close() error { return nil }

// NoOpVertex is a no-op implementation of ports.Vertex.
type NoOpVertex struct{}

// Stdout discards everything.
func (v *NoOpVertex) Stdout() io.Writer { return io.Discard }

// Stderr discards everything.
func (v *NoOpVertex) Stderr() io.Writer { return io.Discard }

// Log does nothing.
func (v *NoOpVertex) Log(_ domain.LogLevel, _ string) {}

// Complete does nothing.
func (v *NoOpVertex) Complete(_ error) {}

// Cached does nothing.
func (v *NoOpVertex) Cached() {}
