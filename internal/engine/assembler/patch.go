package assembler

import (
	"encoding/json"
	"os"
	"path/filepath"
	"regexp"
	"runtime"
	"slices"
	"strings"

	"go.trai.ch/qeb/internal/core/domain"
	"go.trai.ch/zerr"
)

// nodeGypBuildCall matches the dynamic binary lookup of the storage engine loader,
// e.g. require$1('node-gyp-build')(dirName).
var nodeGypBuildCall = regexp.MustCompile(`require(?:\$\d+)?\(\s*['"]node-gyp-build['"]\s*\)\(\s*[A-Za-z_$][\w$]*\s*\)`)

// PatchStorageLoader replaces the dynamic node-gyp-build lookup in source with a
// static require of binary so the relocation step can move the native module.
// It reports whether anything was replaced.
func PatchStorageLoader(source, binary string) (string, bool) {
	if binary == "" || !nodeGypBuildCall.MatchString(source) {
		return source, false
	}
	quoted, _ := json.Marshal(filepath.ToSlash(binary))
	return nodeGypBuildCall.ReplaceAllLiteralString(source, "require("+string(quoted)+")"), true
}

// LocateStorageBinary finds the prebuilt native binary of the storage engine package
// at dir, following the node-gyp-build lookup order.
func LocateStorageBinary(dir string) (string, error) {
	candidates := []string{
		filepath.Join(dir, "build", "Release"),
		filepath.Join(dir, "prebuilds", nodePlatform()+"-"+nodeArch()),
		filepath.Join(filepath.Dir(dir), "@"+StorageModule, StorageModule+"-"+nodePlatform()+"-"+nodeArch()),
	}

	for _, candidate := range candidates {
		entries, err := os.ReadDir(candidate)
		if err != nil {
			continue
		}
		names := make([]string, 0, len(entries))
		for _, entry := range entries {
			if !entry.IsDir() && strings.HasSuffix(entry.Name(), ".node") {
				names = append(names, entry.Name())
			}
		}
		if len(names) == 0 {
			continue
		}
		// N-API builds are ABI stable across runtime versions.
		slices.SortFunc(names, func(a, b string) int {
			return strings.Compare(napiRank(a)+a, napiRank(b)+b)
		})
		return filepath.Join(candidate, names[0]), nil
	}

	return "", zerr.With(zerr.Wrap(domain.ErrModuleNotFound, "no native binary found"), "dir", dir)
}

func napiRank(name string) string {
	if strings.Contains(name, "napi") {
		return "0"
	}
	return "1"
}

func nodePlatform() string {
	if runtime.GOOS == "windows" {
		return "win32"
	}
	return runtime.GOOS
}

func nodeArch() string {
	switch runtime.GOARCH {
	case "amd64":
		return "x64"
	case "386":
		return "ia32"
	default:
		return runtime.GOARCH
	}
}
