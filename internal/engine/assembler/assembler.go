// Package assembler builds the engine-neutral configuration for a query engine build.
package assembler

import (
	"bytes"
	"encoding/json"
	"errors"
	"maps"
	"path/filepath"
	"strings"

	"go.trai.ch/qeb/internal/core/domain"
	"go.trai.ch/qeb/internal/core/ports"
	"go.trai.ch/zerr"
)

// Extensions are tried in order when resolving extension-less specifiers.
var Extensions = []string{".mjs", ".js", ".json", ".node", ".ts", ".tsx"}

// NodeVersion is the minimum runtime the bundle targets.
const NodeVersion = ">= 14.15.0"

// FixedDefines are compile-time constants every bundle is built with.
var FixedDefines = map[string]string{
	"process.env.QEB_LMDB_STORE":                  "true",
	"process.env.QEB_SKIP_WRITING_SCHEMA_TO_FILE": "true",
	"process.env.QEB_LOGGER":                      `"yurnalist"`,
}

// Assembler produces engine configurations.
type Assembler struct {
	locator ports.ModuleLocator
	hasher  ports.Hasher
	logger  ports.Logger
}

// New creates a new Assembler.
func New(locator ports.ModuleLocator, hasher ports.Hasher, logger ports.Logger) *Assembler {
	return &Assembler{
		locator: locator,
		hasher:  hasher,
		logger:  logger,
	}
}

// Assemble builds the configuration for kind from the request and the snapshot text.
// The same request and snapshot produce the same configuration apart from the
// engine-specific externals and cache directory.
func (a *Assembler) Assemble(
	req domain.BuildRequest,
	snapshot string,
	kind domain.EngineKind,
) (*domain.EngineConfig, error) {
	root, cwd := req.RootDirectory, req.WorkingDirectory

	aliases, storageDir, err := ResolveAliases(a.locator, a.logger, root, cwd, req.Settings.Disabled)
	if err != nil {
		return nil, err
	}

	relocation, err := NewDefaultPolicy()
	if err != nil {
		return nil, err
	}

	defines, err := buildDefines(snapshot, req.Settings.Defines)
	if err != nil {
		return nil, err
	}

	cfg := &domain.EngineConfig{
		Engine:          kind,
		Name:            domain.BundleName,
		Root:            root,
		Entry:           entryPath(root, req.Settings.Entry),
		OutputDir:       domain.OutputDir(cwd),
		OutputFile:      domain.OutputFileName,
		Externals:       ResolveExternals(kind, req.Settings.Externals),
		Aliases:         aliases,
		Defines:         defines,
		Extensions:      append([]string(nil), Extensions...),
		Relocation:      relocation,
		Cache:           NewCacheSpec(cwd, kind, req.Settings),
		Target:          domain.Target{Format: "commonjs", Platform: "node", NodeVersion: NodeVersion},
		ProgressLogging: req.Toggles.ProgressLogging(),
		Verbose:         req.Verbose,
		Node:            req.Settings.Node,
	}

	if storageDir != "" {
		binary, err := LocateStorageBinary(storageDir)
		switch {
		case errors.Is(err, domain.ErrModuleNotFound):
			a.logger.Warn("no prebuilt binary found for " + StorageModule + ", loader is left unpatched")
		case err != nil:
			return nil, err
		default:
			cfg.StorageBinary = binary
		}
	}

	fingerprint, err := a.hasher.ComputeFingerprint(cfg)
	if err != nil {
		return nil, zerr.Wrap(err, "failed to compute cache fingerprint")
	}
	cfg.Cache.Fingerprint = fingerprint

	return cfg, nil
}

func entryPath(root, override string) string {
	switch {
	case override == "":
		return domain.EntryPath(root)
	case filepath.IsAbs(override):
		return override
	default:
		return filepath.Join(root, override)
	}
}

// buildDefines merges the fixed and configured defines and injects the snapshot
// as a string literal.
func buildDefines(snapshot string, extra map[string]string) (map[string]string, error) {
	literal, err := stringLiteral(snapshot)
	if err != nil {
		return nil, zerr.Wrap(err, "failed to encode schema snapshot")
	}

	defines := make(map[string]string, len(FixedDefines)+len(extra)+1)
	maps.Copy(defines, FixedDefines)
	maps.Copy(defines, extra)
	defines[domain.SchemaSnapshotSymbol] = literal
	return defines, nil
}

// stringLiteral encodes s as a JavaScript string literal.
func stringLiteral(s string) (string, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(s); err != nil {
		return "", err
	}
	return strings.TrimSuffix(buf.String(), "\n"), nil
}
