package fs

import (
	"os"
	"path/filepath"

	"go.trai.ch/qeb/internal/core/domain"
	"go.trai.ch/qeb/internal/core/ports"
	"go.trai.ch/zerr"
)

var _ ports.ModuleLocator = (*Locator)(nil)

// Locator finds installed packages the way the Node.js resolver does, walking
// node_modules directories from a start directory up to the filesystem root.
type Locator struct{}

// NewLocator creates a new Locator.
func NewLocator() *Locator {
	return &Locator{}
}

// Locate returns the directory of the first installed copy of name.
func (l *Locator) Locate(root, name string) (string, error) {
	dir, err := filepath.Abs(root)
	if err != nil {
		return "", zerr.With(zerr.Wrap(err, "failed to resolve root"), "root", root)
	}

	for {
		candidate := filepath.Join(dir, "node_modules", filepath.FromSlash(name))
		info, err := os.Stat(filepath.Join(candidate, "package.json"))
		switch {
		case err == nil && info.Mode().IsRegular():
			return candidate, nil
		case err != nil && !os.IsNotExist(err):
			return "", zerr.With(zerr.Wrap(err, "failed to inspect package"), "path", candidate)
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return "", zerr.With(zerr.Wrap(domain.ErrModuleNotFound, "package is not installed"), "module", name)
		}
		dir = parent
	}
}
