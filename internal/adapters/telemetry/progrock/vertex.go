package progrock

import (
	"fmt"
	"io"

	"github.com/vito/progrock"
	"go.trai.ch/qeb/internal/core/domain"
	"go.trai.ch/qeb/internal/core/ports"
	"go.trai.ch/zerr"
)

var _ ports.Vertex = (*Vertex)(nil)

// Vertex implements ports.Vertex wrapping *progrock.VertexRecorder.
type Vertex struct {
	vertex *progrock.VertexRecorder
	name   string
	logger ports.Logger
	stdout io.Writer
	stderr io.Writer
}

func newVertex(v *progrock.VertexRecorder, name string, logger ports.Logger) *Vertex {
	prefix := "[" + name + "] "
	return &Vertex{
		vertex: v,
		name:   name,
		logger: logger,
		stdout: io.MultiWriter(v.Stdout(), &lineWriter{prefix: prefix, emit: logger.Info}),
		stderr: io.MultiWriter(v.Stderr(), &lineWriter{prefix: prefix, emit: logger.Warn}),
	}
}

// Stdout returns a writer to capture standard output stream.
func (v *Vertex) Stdout() io.Writer {
	return v.stdout
}

// Stderr returns a writer to capture error output stream.
func (v *Vertex) Stderr() io.Writer {
	return v.stderr
}

// Log records a structured log message associated with this vertex.
func (v *Vertex) Log(level domain.LogLevel, msg string) {
	_, _ = fmt.Fprintf(v.vertex.Stdout(), "[%s] %s\n", level.String(), msg)

	line := "[" + v.name + "] " + msg
	switch {
	case level >= domain.LogLevelError:
		v.logger.Error(zerr.New(line))
	case level >= domain.LogLevelWarn:
		v.logger.Warn(line)
	default:
		v.logger.Info(line)
	}
}

// Complete marks the vertex as finished (successfully or with an error).
func (v *Vertex) Complete(err error) {
	v.vertex.Done(err)
}

// Cached marks the vertex as a cache hit.
func (v *Vertex) Cached() {
	v.vertex.Cached()
	v.logger.Info("[" + v.name + "] cached")
}
