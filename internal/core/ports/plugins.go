package ports

import "context"

// PluginPrinter enumerates the configured plugins into the module required by the entry.
//
//go:generate go run go.uber.org/mock/mockgen -source=plugins.go -destination=mocks/mock_plugins.go -package=mocks
type PluginPrinter interface {
	// Print writes the plugin enumeration module below root.
	Print(ctx context.Context, root string, plugins []string) error
}
