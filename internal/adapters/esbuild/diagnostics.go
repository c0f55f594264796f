package esbuild

import (
	"github.com/evanw/esbuild/pkg/api"
	"go.trai.ch/qeb/internal/core/domain"
)

// Origin is reported for messages raised by esbuild itself rather than a plugin.
const Origin = "esbuild"

// toDiagnostics converts esbuild messages, preserving their order.
func toDiagnostics(messages []api.Message) []domain.Diagnostic {
	if len(messages) == 0 {
		return nil
	}
	diags := make([]domain.Diagnostic, 0, len(messages))
	for _, msg := range messages {
		diags = append(diags, toDiagnostic(msg))
	}
	return diags
}

func toDiagnostic(msg api.Message) domain.Diagnostic {
	diag := domain.Diagnostic{
		Origin:  msg.PluginName,
		Message: msg.Text,
	}
	if diag.Origin == "" {
		diag.Origin = Origin
	}

	for _, note := range msg.Notes {
		if note.Text != "" {
			diag.Hints = append(diag.Hints, note.Text)
		}
	}

	if frame, ok := toCodeFrame(msg.Location); ok {
		diag.CodeFrames = []domain.CodeFrame{frame}
	}
	return diag
}

// toCodeFrame converts an esbuild location. esbuild columns are 0-based, code
// frame positions are 1-based.
func toCodeFrame(loc *api.Location) (domain.CodeFrame, bool) {
	if loc == nil {
		return domain.CodeFrame{}, false
	}
	start := domain.Position{Line: loc.Line, Column: loc.Column + 1}
	end := domain.Position{Line: loc.Line, Column: loc.Column + max(loc.Length, 1)}
	return domain.CodeFrame{
		FilePath:   loc.File,
		Code:       loc.LineText,
		Highlights: []domain.CodeHighlight{{Start: start, End: end}},
	}, true
}
