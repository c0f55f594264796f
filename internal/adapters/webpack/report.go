package webpack

import (
	"encoding/json"
	"errors"
	"strconv"
	"strings"

	"go.trai.ch/qeb/internal/core/domain"
	"go.trai.ch/zerr"
)

// Origin is reported for stats errors without a module name.
const Origin = "webpack"

// report is written by the runner once the compiler has closed.
type report struct {
	RunError   string         `json:"runError,omitempty"`
	CloseError string         `json:"closeError,omitempty"`
	Errors     []statsMessage `json:"errors"`
	Warnings   []statsMessage `json:"warnings"`
	Assets     []string       `json:"assets"`
}

type statsMessage struct {
	ModuleName string `json:"moduleName"`
	Message    string `json:"message"`
	Details    string `json:"details"`
	Loc        string `json:"loc"`
}

func parseReport(data []byte) (*report, error) {
	var r report
	if err := json.Unmarshal(data, &r); err != nil {
		return nil, errors.Join(domain.ErrRunnerProtocol, zerr.Wrap(err, "malformed runner report"))
	}
	return &r, nil
}

func (r *report) runErr() error {
	if r.RunError == "" {
		return nil
	}
	return zerr.New(r.RunError)
}

func (r *report) closeErr() error {
	if r.CloseError == "" {
		return nil
	}
	return zerr.New(r.CloseError)
}

func toDiagnostics(messages []statsMessage) []domain.Diagnostic {
	if len(messages) == 0 {
		return nil
	}
	diags := make([]domain.Diagnostic, 0, len(messages))
	for _, msg := range messages {
		diags = append(diags, toDiagnostic(msg))
	}
	return diags
}

func toDiagnostic(msg statsMessage) domain.Diagnostic {
	diag := domain.Diagnostic{
		Origin:  msg.ModuleName,
		Message: msg.Message,
	}
	if diag.Origin == "" {
		diag.Origin = Origin
	}
	for line := range strings.SplitSeq(msg.Details, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			diag.Hints = append(diag.Hints, line)
		}
	}
	if highlight, ok := parseLoc(msg.Loc); ok {
		diag.CodeFrames = []domain.CodeFrame{{
			FilePath:   msg.ModuleName,
			Highlights: []domain.CodeHighlight{highlight},
		}}
	}
	return diag
}

// parseLoc reads webpack's "line:column" locations, optionally followed by
// "-column" or "-line:column". Stats columns are 0-based.
func parseLoc(loc string) (domain.CodeHighlight, bool) {
	startText, endText, hasEnd := strings.Cut(loc, "-")
	start, ok := parsePosition(startText, 0)
	if !ok {
		return domain.CodeHighlight{}, false
	}
	end := start
	if hasEnd {
		if end, ok = parsePosition(endText, start.Line); !ok {
			end = start
		}
	}
	return domain.CodeHighlight{Start: start, End: end}, true
}

func parsePosition(text string, line int) (domain.Position, bool) {
	lineText, colText, hasLine := strings.Cut(text, ":")
	if !hasLine {
		colText = lineText
	} else {
		n, err := strconv.Atoi(lineText)
		if err != nil {
			return domain.Position{}, false
		}
		line = n
	}
	col, err := strconv.Atoi(colText)
	if err != nil || line == 0 {
		return domain.Position{}, false
	}
	return domain.Position{Line: line, Column: col + 1}, true
}
