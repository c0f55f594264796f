package assembler

import (
	"errors"
	"path/filepath"

	"go.trai.ch/qeb/internal/core/domain"
	"go.trai.ch/qeb/internal/core/ports"
	"go.trai.ch/zerr"
)

// StorageModule is the native storage engine package. Only one installed copy may be bundled.
const StorageModule = "lmdb"

// DisabledModules are replaced by an empty module: interactive UI and prompts are never used.
var DisabledModules = []string{"ink", "inquirer"}

// ResolveAliases builds the ordered alias list. It returns the directory of the
// pinned storage engine package, or an empty string when it is not installed.
func ResolveAliases(
	locator ports.ModuleLocator,
	logger ports.Logger,
	root, cwd string,
	disabled []string,
) ([]domain.Alias, string, error) {
	aliases := []domain.Alias{
		{From: domain.CacheDirName, To: filepath.Join(cwd, domain.CacheDirName) + string(filepath.Separator)},
		{From: domain.VirtualNamespace, To: filepath.Join(domain.VirtualModulesPath(root), domain.VirtualNamespace)},
	}

	seen := make(map[string]struct{})
	for _, name := range append(append([]string{}, DisabledModules...), disabled...) {
		if _, ok := seen[name]; ok {
			continue
		}
		seen[name] = struct{}{}
		aliases = append(aliases, domain.Alias{From: name, Disabled: true})
	}

	dir, err := locator.Locate(root, StorageModule)
	switch {
	case errors.Is(err, domain.ErrModuleNotFound):
		logger.Warn("storage engine " + StorageModule + " is not installed, bundle will resolve it at runtime")
		return aliases, "", nil
	case err != nil:
		return nil, "", zerr.With(zerr.Wrap(err, "failed to locate storage engine"), "module", StorageModule)
	}

	aliases = append(aliases, domain.Alias{From: StorageModule, To: dir})
	return aliases, dir, nil
}
