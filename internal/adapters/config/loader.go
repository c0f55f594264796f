// Package config provides the settings loader and the process toggles for qeb.
package config

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"io/fs"
	"os"
	"slices"
	"strings"

	"go.trai.ch/qeb/internal/core/domain"
	"go.trai.ch/qeb/internal/core/ports"
	"go.trai.ch/zerr"
	"gopkg.in/yaml.v3"
)

var _ ports.ConfigLoader = (*Loader)(nil)

// Loader implements ports.ConfigLoader using a YAML file in the project root.
type Loader struct {
	logger ports.Logger
}

// NewLoader creates a new Loader.
func NewLoader(logger ports.Logger) *Loader {
	return &Loader{logger: logger}
}

// Load reads qeb.yaml from root. A missing file yields zero settings.
func (l *Loader) Load(root string) (domain.Settings, error) {
	path := domain.ConfigPath(root)

	data, err := os.ReadFile(path) //nolint:gosec // path is derived from the project root
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return domain.Settings{}, nil
		}
		return domain.Settings{}, zerr.With(zerr.Wrap(err, "failed to read config file"), "path", path)
	}

	settings, err := Parse(data)
	if err != nil {
		return domain.Settings{}, zerr.With(err, "path", path)
	}
	settings.Source = path

	if settings.Node != "" {
		l.logger.Info("using node binary " + settings.Node)
	}

	return settings, nil
}

// Parse decodes and validates the configuration file content.
func Parse(data []byte) (domain.Settings, error) {
	var file Qebfile
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&file); err != nil && !errors.Is(err, io.EOF) {
		return domain.Settings{}, errors.Join(domain.ErrInvalidSettings, zerr.Wrap(err, "failed to parse config file"))
	}

	if file.Version != "" && file.Version != SupportedVersion {
		return domain.Settings{}, zerr.With(zerr.Wrap(domain.ErrInvalidSettings, "unsupported version"), "version", file.Version)
	}

	defines, err := encodeDefines(file.Defines)
	if err != nil {
		return domain.Settings{}, err
	}

	return domain.Settings{
		Entry:     strings.TrimSpace(file.Entry),
		Externals: canonicalizeStrings(file.Externals),
		Disabled:  canonicalizeStrings(file.Disabled),
		Defines:   defines,
		Plugins:   compactStable(file.Plugins),
		Node:      strings.TrimSpace(file.Node),
	}, nil
}

// encodeDefines serializes each value as a JavaScript expression: strings
// become string literals, numbers and booleans are kept as written.
func encodeDefines(values map[string]any) (map[string]string, error) {
	if len(values) == 0 {
		return nil, nil
	}
	defines := make(map[string]string, len(values))
	for key, value := range values {
		if key == domain.SchemaSnapshotSymbol {
			return nil, zerr.With(zerr.Wrap(domain.ErrInvalidSettings, "define is reserved"), "define", key)
		}
		switch value.(type) {
		case string, bool, int, float64, nil:
		default:
			return nil, zerr.With(zerr.Wrap(domain.ErrInvalidSettings, "define must be a scalar"), "define", key)
		}
		encoded, err := json.Marshal(value)
		if err != nil {
			return nil, zerr.With(zerr.Wrap(err, "failed to encode define"), "define", key)
		}
		defines[key] = string(encoded)
	}
	return defines, nil
}

func canonicalizeStrings(strs []string) []string {
	if len(strs) == 0 {
		return nil
	}

	sorted := make([]string, 0, len(strs))
	for _, s := range strs {
		if s = strings.TrimSpace(s); s != "" {
			sorted = append(sorted, s)
		}
	}
	slices.Sort(sorted)
	return slices.Compact(sorted)
}

// compactStable removes duplicates while keeping the first occurrence order.
func compactStable(strs []string) []string {
	if len(strs) == 0 {
		return nil
	}
	seen := make(map[string]struct{}, len(strs))
	out := make([]string, 0, len(strs))
	for _, s := range strs {
		s = strings.TrimSpace(s)
		if _, ok := seen[s]; ok || s == "" {
			continue
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}
	return out
}
