// Package wiring registers all Graft nodes for the application.
package wiring

import (
	// Register adapter nodes.
	_ "go.trai.ch/qeb/internal/adapters/cas"
	_ "go.trai.ch/qeb/internal/adapters/config"
	_ "go.trai.ch/qeb/internal/adapters/esbuild"
	_ "go.trai.ch/qeb/internal/adapters/fs"
	_ "go.trai.ch/qeb/internal/adapters/logger"
	_ "go.trai.ch/qeb/internal/adapters/plugins"
	_ "go.trai.ch/qeb/internal/adapters/shell"
	_ "go.trai.ch/qeb/internal/adapters/telemetry"
	_ "go.trai.ch/qeb/internal/adapters/webpack"
	// Register app and engine nodes.
	_ "go.trai.ch/qeb/internal/app"
	_ "go.trai.ch/qeb/internal/engine/assembler"
	_ "go.trai.ch/qeb/internal/engine/orchestrator"
)
