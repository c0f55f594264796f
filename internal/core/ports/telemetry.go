package ports

import (
	"context"
	"io"

	"go.trai.ch/qeb/internal/core/domain"
)

//go:generate go run go.uber.org/mock/mockgen -source=telemetry.go -destination=mocks/mock_telemetry.go -package=mocks

// TelemetryProvider hands out a recorder for a single build.
type TelemetryProvider interface {
	// Recorder returns a progress recorder, or a silent one when enabled is false.
	Recorder(enabled bool) Telemetry
}

// Telemetry records build progress.
type Telemetry interface {
	// Record starts a new vertex and attaches it to the returned context.
	Record(ctx context.Context, name string) (context.Context, Vertex)
	// Close flushes and closes the recording session.
	Close() error
}

// Vertex is a single unit of recorded work.
type Vertex interface {
	// Stdout returns a writer for standard output.
	Stdout() io.Writer
	// Stderr returns a writer for error output.
	Stderr() io.Writer
	// Log records a message at the given level.
	Log(level domain.LogLevel, msg string)
	// Complete marks the vertex as finished.
	Complete(err error)
	// Cached marks the vertex as a cache hit.
	Cached()
}

type vertexKey struct{}

// ContextWithVertex returns a copy of ctx carrying v.
func ContextWithVertex(ctx context.Context, v Vertex) context.Context {
	return context.WithValue(ctx, vertexKey{}, v)
}

// VertexFromContext returns the vertex attached to ctx, if any.
func VertexFromContext(ctx context.Context) (Vertex, bool) {
	v, ok := ctx.Value(vertexKey{}).(Vertex)
	return v, ok
}
