package ports

import "go.trai.ch/qeb/internal/core/domain"

// ConfigLoader defines the interface for loading the orchestrator settings.
//
//go:generate go run go.uber.org/mock/mockgen -source=config_loader.go -destination=mocks/mock_config_loader.go -package=mocks
type ConfigLoader interface {
	// Load reads the settings file from the given root directory.
	// A missing file yields zero settings.
	Load(root string) (domain.Settings, error)
}
