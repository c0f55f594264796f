package fs

import (
	"encoding/binary"
	"encoding/json"
	"fmt"
	"io"
	iofs "io/fs"
	"os"
	"path/filepath"
	"sort"

	"github.com/cespare/xxhash/v2"
	"go.trai.ch/qeb/internal/core/domain"
	"go.trai.ch/qeb/internal/core/ports"
	"go.trai.ch/zerr"
)

var _ ports.Hasher = (*Hasher)(nil)

// Hasher provides hashing functionality for engine configurations and files.
type Hasher struct {
	walker *Walker
}

// NewHasher creates a new Hasher.
func NewHasher(walker *Walker) *Hasher {
	return &Hasher{walker: walker}
}

// ComputeFileHash computes the XXHash of a file's content.
func (h *Hasher) ComputeFileHash(path string) (uint64, error) {
	f, err := os.Open(path) //nolint:gosec // Path is controlled by caller
	if err != nil {
		return 0, zerr.With(zerr.Wrap(err, "failed to open file"), "path", path)
	}
	defer f.Close() //nolint:errcheck // Best effort close in defer

	hasher := xxhash.New()
	if _, err := io.Copy(hasher, f); err != nil {
		return 0, zerr.With(zerr.Wrap(err, "failed to hash file content"), "path", path)
	}

	return hasher.Sum64(), nil
}

// ComputeFingerprint computes the cache version of an engine configuration.
// It covers the canonical JSON form of the configuration, the engine kind and
// the content of every build dependency.
func (h *Hasher) ComputeFingerprint(cfg *domain.EngineConfig) (string, error) {
	hasher := xxhash.New()

	// encoding/json sorts map keys, so the encoding is canonical.
	data, err := json.Marshal(cfg)
	if err != nil {
		return "", zerr.Wrap(err, "failed to encode engine configuration")
	}
	_, _ = hasher.Write(data)
	_, _ = hasher.Write([]byte{0})

	_, _ = hasher.WriteString(string(cfg.Engine))
	_, _ = hasher.Write([]byte{0})

	for _, dep := range cfg.Cache.BuildDependencies {
		if err := h.hashFile(dep, hasher); err != nil {
			return "", zerr.With(zerr.Wrap(err, "failed to hash build dependency"), "dependency", dep)
		}
	}

	return fmt.Sprintf("%016x", hasher.Sum64()), nil
}

// ComputeInputHash computes a single hash over the input files.
// Relative inputs are resolved against root. The order of inputs does not matter.
func (h *Hasher) ComputeInputHash(inputs []string, root string) (string, error) {
	sorted := make([]string, len(inputs))
	copy(sorted, inputs)
	sort.Strings(sorted)

	hasher := xxhash.New()
	for _, input := range sorted {
		path := input
		if !filepath.IsAbs(path) {
			path = filepath.Join(root, path)
		}
		if err := h.hashPath(path, hasher); err != nil {
			return "", err
		}
	}

	return fmt.Sprintf("%016x", hasher.Sum64()), nil
}

func (h *Hasher) hashPath(path string, mainHasher io.Writer) error {
	info, err := os.Stat(path)
	if err != nil {
		return zerr.With(zerr.Wrap(err, "failed to stat path"), "path", path)
	}

	if !info.IsDir() {
		return h.hashFile(path, mainHasher)
	}

	for filePath := range h.walker.WalkFiles(path) {
		if err := h.hashFile(filePath, mainHasher); err != nil {
			return err
		}
	}
	return nil
}

func (h *Hasher) hashFile(path string, mainHasher io.Writer) error {
	_, _ = mainHasher.Write([]byte(path))
	_, _ = mainHasher.Write([]byte{0})

	hash, err := h.ComputeFileHash(path)
	if err != nil {
		return err
	}

	if err := binary.Write(mainHasher, binary.LittleEndian, hash); err != nil {
		return zerr.Wrap(err, "failed to write hash to digest")
	}
	return nil
}

// ComputeOutputHash computes the hash of the output files and directories.
// Directories are hashed by content, relative to root, so the hash survives a move of root.
func (h *Hasher) ComputeOutputHash(outputs []string, root string) (string, error) {
	sortedOutputs := make([]string, len(outputs))
	copy(sortedOutputs, outputs)
	sort.Strings(sortedOutputs)

	hasher := xxhash.New()

	for _, output := range sortedOutputs {
		path := filepath.Join(root, output)

		info, err := os.Stat(path)
		if err != nil {
			if os.IsNotExist(err) {
				return "", zerr.With(zerr.Wrap(iofs.ErrNotExist, "output file missing"), "path", path)
			}
			return "", zerr.With(zerr.Wrap(err, "failed to stat output file"), "path", path)
		}

		files := []string{path}
		if info.IsDir() {
			files = files[:0]
			for filePath := range h.walker.WalkFiles(path) {
				files = append(files, filePath)
			}
		}

		for _, file := range files {
			rel, err := filepath.Rel(root, file)
			if err != nil {
				return "", zerr.With(zerr.Wrap(err, "failed to relativize output"), "path", file)
			}
			_, _ = hasher.WriteString(filepath.ToSlash(rel))
			_, _ = hasher.Write([]byte{0})

			hash, err := h.ComputeFileHash(file)
			if err != nil {
				return "", err
			}
			if err := binary.Write(hasher, binary.LittleEndian, hash); err != nil {
				return "", zerr.Wrap(err, "failed to write hash to digest")
			}
		}
	}

	return fmt.Sprintf("%016x", hasher.Sum64()), nil
}
