// Package telemetry selects the build progress recorder.
package telemetry

import (
	"go.trai.ch/qeb/internal/adapters/telemetry/progrock"
	"go.trai.ch/qeb/internal/core/ports"
)

var _ ports.TelemetryProvider = (*Provider)(nil)

// Provider hands out a progrock recorder mirrored to the logger when progress
// logging is enabled, and a no-op recorder otherwise.
type Provider struct {
	logger ports.Logger
}

// NewProvider creates a new Provider.
func NewProvider(logger ports.Logger) *Provider {
	return &Provider{logger: logger}
}

// Recorder returns the recorder for a single build.
func (p *Provider) Recorder(enabled bool) ports.Telemetry {
	if !enabled {
		return NewNoOpRecorder()
	}
	return progrock.New(p.logger)
}
