package ports

// ModuleLocator finds installed packages.
//
//go:generate go run go.uber.org/mock/mockgen -source=locator.go -destination=mocks/mock_locator.go -package=mocks
type ModuleLocator interface {
	// Locate returns the directory of the package named name, searching the
	// node_modules directories from root upward.
	// It returns domain.ErrModuleNotFound when no copy is installed.
	Locate(root, name string) (string, error)
}
