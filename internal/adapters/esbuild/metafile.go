package esbuild

import (
	"encoding/json"
	"path/filepath"
	"slices"
	"strings"

	"go.trai.ch/zerr"
)

// metafile is the subset of the esbuild metafile the cache record needs.
type metafile struct {
	Inputs  map[string]metafileInput  `json:"inputs"`
	Outputs map[string]metafileOutput `json:"outputs"`
}

type metafileInput struct {
	Bytes int `json:"bytes"`
}

type metafileOutput struct {
	Bytes int `json:"bytes"`
}

func parseMetafile(data string) (*metafile, error) {
	var meta metafile
	if err := json.Unmarshal([]byte(data), &meta); err != nil {
		return nil, zerr.Wrap(err, "failed to parse esbuild metafile")
	}
	return &meta, nil
}

// inputFiles returns the on-disk inputs relative to the working directory.
// Inputs served from plugin namespaces are skipped.
func (m *metafile) inputFiles() []string {
	files := make([]string, 0, len(m.Inputs))
	for path := range m.Inputs {
		if isNamespaced(path) {
			continue
		}
		files = append(files, filepath.FromSlash(path))
	}
	slices.Sort(files)
	return files
}

// outputFiles returns the emitted files relative to outputDir, excluding the bundle itself.
func (m *metafile) outputFiles(workDir, outputDir, bundle string) []string {
	var files []string
	for path := range m.Outputs {
		abs := filepath.Join(workDir, filepath.FromSlash(path))
		rel, err := filepath.Rel(outputDir, abs)
		if err != nil || strings.HasPrefix(rel, "..") || rel == bundle {
			continue
		}
		files = append(files, filepath.ToSlash(rel))
	}
	slices.Sort(files)
	return files
}

func isNamespaced(path string) bool {
	i := strings.Index(path, ":")
	return i > 0 && !filepath.IsAbs(path) && !strings.Contains(path[:i], "/")
}
