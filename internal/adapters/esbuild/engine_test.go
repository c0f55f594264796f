package esbuild_test

import (
	"context"
	"os"
	"path"
	"path/filepath"
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/qeb/internal/adapters/cas"
	"go.trai.ch/qeb/internal/adapters/esbuild"
	"go.trai.ch/qeb/internal/adapters/fs"
	"go.trai.ch/qeb/internal/core/domain"
	"go.trai.ch/qeb/internal/core/ports"
	"go.trai.ch/qeb/internal/core/ports/mocks"
	"go.trai.ch/qeb/internal/engine/assembler"
	"go.uber.org/mock/gomock"
)

const entrySource = `const fs = require("fs");
const path = require("node:path");
const dep = require("./dep");
const ink = require("ink");
const notes = require("./notes.txt");
const addon = require("./addon.node");
module.exports = { fs, path, dep, ink, notes, addon, schema: SCHEMA_SNAPSHOT };
`

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o750))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
}

func newProject(t *testing.T, entry string) *domain.EngineConfig {
	t.Helper()
	root := t.TempDir()
	writeFile(t, domain.EntryPath(root), entry)
	writeFile(t, filepath.Join(root, domain.CacheDirName, "dep.js"), `module.exports = "dep";`)
	writeFile(t, filepath.Join(root, domain.CacheDirName, "notes.txt"), "notes")
	writeFile(t, filepath.Join(root, domain.CacheDirName, "addon.node"), "\x7fELF")

	policy, err := assembler.NewDefaultPolicy()
	require.NoError(t, err)

	return &domain.EngineConfig{
		Engine:     domain.EngineESBuild,
		Name:       domain.BundleName,
		Root:       root,
		Entry:      domain.EntryPath(root),
		OutputDir:  domain.OutputDir(root),
		OutputFile: domain.OutputFileName,
		Externals:  assembler.ResolveExternals(domain.EngineESBuild, nil),
		Aliases:    []domain.Alias{{From: "ink", Disabled: true}},
		Defines:    map[string]string{domain.SchemaSnapshotSymbol: `"type Query"`},
		Extensions: assembler.Extensions,
		Relocation: policy,
		Cache: domain.CacheSpec{
			Dir:         domain.EngineCacheDir(root, domain.EngineESBuild),
			Name:        assembler.CacheName,
			Fingerprint: "fp",
		},
		Target: domain.Target{Format: "commonjs", Platform: "node", NodeVersion: assembler.NodeVersion},
	}
}

func newEngine(t *testing.T) *esbuild.Engine {
	t.Helper()
	ctrl := gomock.NewController(t)
	logger := mocks.NewMockLogger(ctrl)
	logger.EXPECT().Info(gomock.Any()).AnyTimes()
	logger.EXPECT().Warn(gomock.Any()).AnyTimes()
	return esbuild.NewEngine(cas.NewStore(), fs.NewHasher(fs.NewWalker()), fs.NewVerifier(), logger)
}

// nativeAsset returns the relocated asset whose name starts with stem.
func nativeAsset(t *testing.T, artifact *domain.Artifact, stem string) string {
	t.Helper()
	pattern := regexp.MustCompile(`^assets/` + regexp.QuoteMeta(stem) + `-[0-9a-f]{8}\.node$`)
	for _, asset := range artifact.Assets {
		if pattern.MatchString(asset) {
			return asset
		}
	}
	require.Failf(t, "native asset not relocated", "stem %q, assets %v", stem, artifact.Assets)
	return ""
}

func runOnce(t *testing.T, engine *esbuild.Engine, cfg *domain.EngineConfig) (*domain.Artifact, error) {
	t.Helper()
	session, err := engine.Open(context.Background(), cfg)
	require.NoError(t, err)
	artifact, runErr := session.Run(context.Background())
	require.NoError(t, session.Close())
	return artifact, runErr
}

func TestEngine_Kind(t *testing.T) {
	assert.Equal(t, domain.EngineESBuild, newEngine(t).Kind())
}

func TestEngine_Build(t *testing.T) {
	cfg := newProject(t, entrySource)

	artifact, err := runOnce(t, newEngine(t), cfg)
	require.NoError(t, err)
	assert.Equal(t, cfg.OutputPath(), artifact.Path)
	assert.False(t, artifact.Cached)
	addon := nativeAsset(t, artifact, "addon")
	require.Len(t, artifact.Assets, 2)
	assert.Regexp(t, `^assets/notes-.*\.txt$`, artifact.Assets[1])

	bundle, err := os.ReadFile(cfg.OutputPath())
	require.NoError(t, err)
	out := string(bundle)
	assert.Contains(t, out, "global._actualFsWrapper")
	assert.Contains(t, out, `require("path")`)
	assert.NotContains(t, out, "node:path")
	assert.Contains(t, out, `"type Query"`)
	assert.Contains(t, out, `join(__dirname, "assets", "`+path.Base(addon)+`")`)
	assert.NotContains(t, out, "SCHEMA_SNAPSHOT")

	assert.FileExists(t, filepath.Join(cfg.OutputDir, filepath.FromSlash(addon)))
	assert.FileExists(t, cas.RecordPath(cfg.Cache.Dir, cfg.Cache.Name))
}

func TestEngine_WarmCache(t *testing.T) {
	cfg := newProject(t, entrySource)
	engine := newEngine(t)

	_, err := runOnce(t, engine, cfg)
	require.NoError(t, err)

	artifact, err := runOnce(t, engine, cfg)
	require.NoError(t, err)
	assert.True(t, artifact.Cached)
	assert.Len(t, artifact.Assets, 2)
}

func TestEngine_ColdAfterChange(t *testing.T) {
	tests := []struct {
		name   string
		change func(t *testing.T, cfg *domain.EngineConfig)
	}{
		{
			name: "input changed",
			change: func(t *testing.T, cfg *domain.EngineConfig) {
				writeFile(t, filepath.Join(cfg.Root, domain.CacheDirName, "dep.js"), `module.exports = "changed";`)
			},
		},
		{
			name: "fingerprint changed",
			change: func(_ *testing.T, cfg *domain.EngineConfig) {
				cfg.Cache.Fingerprint = "other"
			},
		},
		{
			name: "output tampered",
			change: func(t *testing.T, cfg *domain.EngineConfig) {
				writeFile(t, cfg.OutputPath(), "tampered")
			},
		},
		{
			name: "asset removed",
			change: func(t *testing.T, cfg *domain.EngineConfig) {
				matches, err := filepath.Glob(filepath.Join(cfg.OutputDir, "assets", "addon-*.node"))
				require.NoError(t, err)
				require.Len(t, matches, 1)
				require.NoError(t, os.Remove(matches[0]))
			},
		},
		{
			name: "native module changed",
			change: func(t *testing.T, cfg *domain.EngineConfig) {
				writeFile(t, filepath.Join(cfg.Root, domain.CacheDirName, "addon.node"), "\x7fELF-rebuilt")
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := newProject(t, entrySource)
			engine := newEngine(t)

			_, err := runOnce(t, engine, cfg)
			require.NoError(t, err)

			tt.change(t, cfg)

			artifact, err := runOnce(t, engine, cfg)
			require.NoError(t, err)
			assert.False(t, artifact.Cached)
		})
	}
}

func TestEngine_RelocatesChangedNativeModule(t *testing.T) {
	cfg := newProject(t, entrySource)
	engine := newEngine(t)

	_, err := runOnce(t, engine, cfg)
	require.NoError(t, err)

	writeFile(t, filepath.Join(cfg.Root, domain.CacheDirName, "addon.node"), "\x7fELF-rebuilt")

	artifact, err := runOnce(t, engine, cfg)
	require.NoError(t, err)
	assert.False(t, artifact.Cached)

	content, err := os.ReadFile(filepath.Join(cfg.OutputDir, filepath.FromSlash(nativeAsset(t, artifact, "addon"))))
	require.NoError(t, err)
	assert.Equal(t, "\x7fELF-rebuilt", string(content))

	artifact, err = runOnce(t, engine, cfg)
	require.NoError(t, err)
	assert.True(t, artifact.Cached)
}

func TestEngine_NativeModulesWithSameName(t *testing.T) {
	cfg := newProject(t, `module.exports = [require("./a/binding.node"), require("./b/binding.node")];`+"\n")
	writeFile(t, filepath.Join(cfg.Root, domain.CacheDirName, "a", "binding.node"), "AAAA")
	writeFile(t, filepath.Join(cfg.Root, domain.CacheDirName, "b", "binding.node"), "BBBB")

	artifact, err := runOnce(t, newEngine(t), cfg)
	require.NoError(t, err)
	require.Len(t, artifact.Assets, 2)

	bundle, err := os.ReadFile(cfg.OutputPath())
	require.NoError(t, err)

	var contents []string
	for _, asset := range artifact.Assets {
		assert.Regexp(t, `^assets/binding-[0-9a-f]{8}\.node$`, asset)
		assert.Contains(t, string(bundle), `join(__dirname, "assets", "`+path.Base(asset)+`")`)

		content, err := os.ReadFile(filepath.Join(cfg.OutputDir, filepath.FromSlash(asset)))
		require.NoError(t, err)
		contents = append(contents, string(content))
	}
	assert.ElementsMatch(t, []string{"AAAA", "BBBB"}, contents)
}

func TestEngine_SyntaxError(t *testing.T) {
	cfg := newProject(t, "const = ;\n")

	_, err := runOnce(t, newEngine(t), cfg)
	require.ErrorIs(t, err, domain.ErrBuildFailed)

	var failure *domain.BuildFailure
	require.ErrorAs(t, err, &failure)
	require.NotEmpty(t, failure.Diagnostics)

	diag := failure.Diagnostics[0]
	assert.Equal(t, esbuild.Origin, diag.Origin)
	require.Len(t, diag.CodeFrames, 1)
	assert.Contains(t, diag.CodeFrames[0].FilePath, domain.EntryFileName)
	assert.Equal(t, "const = ;", diag.CodeFrames[0].Code)
	assert.Equal(t, 1, diag.CodeFrames[0].Highlights[0].Start.Line)
	assert.NoFileExists(t, cfg.OutputPath())
}

func TestEngine_UnresolvedModule(t *testing.T) {
	cfg := newProject(t, `require("not-installed");`)

	_, err := runOnce(t, newEngine(t), cfg)
	require.ErrorIs(t, err, domain.ErrBuildFailed)
	assert.Contains(t, err.Error(), "not-installed")
}

func TestSession_CloseTwice(t *testing.T) {
	cfg := newProject(t, entrySource)

	session, err := newEngine(t).Open(context.Background(), cfg)
	require.NoError(t, err)
	require.NoError(t, session.Close())
	require.ErrorIs(t, session.Close(), domain.ErrSessionClosed)

	_, err = session.Run(context.Background())
	require.ErrorIs(t, err, domain.ErrSessionClosed)
}

func TestEngine_ProgressLogging(t *testing.T) {
	cfg := newProject(t, entrySource)
	cfg.ProgressLogging = true

	ctrl := gomock.NewController(t)
	vertex := mocks.NewMockVertex(ctrl)
	vertex.EXPECT().Log(domain.LogLevelInfo, gomock.Any()).MinTimes(2)

	ctx := ports.ContextWithVertex(context.Background(), vertex)
	session, err := newEngine(t).Open(ctx, cfg)
	require.NoError(t, err)
	_, err = session.Run(ctx)
	require.NoError(t, err)
	require.NoError(t, session.Close())
}
