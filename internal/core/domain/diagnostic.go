package domain

import (
	"encoding/json"
	"errors"
	"strings"
)

// Position is a 1-based line and column inside a source file.
type Position struct {
	Line   int `json:"line"`
	Column int `json:"column"`
}

// CodeHighlight marks a region of a code frame.
type CodeHighlight struct {
	Start   Position `json:"start"`
	End     Position `json:"end"`
	Message string   `json:"message,omitempty"`
}

// CodeFrame is a source excerpt attached to a diagnostic.
type CodeFrame struct {
	FilePath   string          `json:"filePath,omitempty"`
	Code       string          `json:"code,omitempty"`
	Highlights []CodeHighlight `json:"codeHighlights,omitempty"`
}

// Diagnostic is a structured build-time error record.
type Diagnostic struct {
	Origin     string
	Message    string
	Hints      []string
	CodeFrames []CodeFrame
}

// String renders the diagnostic as "<origin>: <message>" followed by one
// indented line per hint and one indented line of code frame JSON.
func (d Diagnostic) String() string {
	var b strings.Builder
	b.WriteString(d.Origin)
	b.WriteString(": ")
	b.WriteString(d.Message)
	for _, hint := range d.Hints {
		b.WriteString("\n  ")
		b.WriteString(hint)
	}
	if len(d.CodeFrames) > 0 {
		if frames, err := json.Marshal(d.CodeFrames); err == nil {
			b.WriteString("\n  ")
			b.Write(frames)
		}
	}
	return b.String()
}

// FormatDiagnostics joins the rendered diagnostics with newlines, preserving order.
func FormatDiagnostics(diags []Diagnostic) string {
	lines := make([]string, len(diags))
	for i, d := range diags {
		lines[i] = d.String()
	}
	return strings.Join(lines, "\n")
}

// BuildPhase names the build phase a failure originated in.
type BuildPhase string

const (
	// PhaseRun is the engine run phase.
	PhaseRun BuildPhase = "run"
	// PhaseTeardown is the engine teardown phase.
	PhaseTeardown BuildPhase = "teardown"
)

// BuildFailure is the normalized failure of a build, whichever engine produced it.
type BuildFailure struct {
	Phase       BuildPhase
	Diagnostics []Diagnostic
	Cause       error
}

// NewBuildFailure normalizes the failure shapes an engine can report.
// Diagnostics win over the run error, which wins over the close error.
// It returns nil when nothing failed.
func NewBuildFailure(diags []Diagnostic, runErr, closeErr error) error {
	switch {
	case len(diags) > 0:
		return &BuildFailure{Phase: PhaseRun, Diagnostics: diags, Cause: runErr}
	case runErr != nil:
		var failure *BuildFailure
		if errors.As(runErr, &failure) {
			return failure
		}
		return &BuildFailure{Phase: PhaseRun, Cause: runErr}
	case closeErr != nil:
		return NewTeardownFailure(closeErr)
	default:
		return nil
	}
}

// NewTeardownFailure reports a failure raised while releasing engine resources.
func NewTeardownFailure(closeErr error) error {
	return &BuildFailure{Phase: PhaseTeardown, Cause: closeErr}
}

// Error returns the formatted diagnostics, falling back to the cause's description.
func (f *BuildFailure) Error() string {
	if len(f.Diagnostics) > 0 {
		return FormatDiagnostics(f.Diagnostics)
	}
	if f.Cause != nil {
		return f.Cause.Error()
	}
	if f.Phase == PhaseTeardown {
		return ErrTeardownFailed.Error()
	}
	return ErrBuildFailed.Error()
}

// Unwrap exposes the phase sentinel and the underlying cause.
func (f *BuildFailure) Unwrap() []error {
	sentinel := ErrBuildFailed
	if f.Phase == PhaseTeardown {
		sentinel = ErrTeardownFailed
	}
	if f.Cause == nil {
		return []error{sentinel}
	}
	return []error{sentinel, f.Cause}
}
