package assembler_test

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/qeb/internal/core/domain"
	"go.trai.ch/qeb/internal/core/ports/mocks"
	"go.trai.ch/qeb/internal/engine/assembler"
	"go.uber.org/mock/gomock"
)

type assemblerFixture struct {
	locator *mocks.MockModuleLocator
	hasher  *mocks.MockHasher
	logger  *mocks.MockLogger
	asm     *assembler.Assembler
}

func newAssemblerFixture(t *testing.T) *assemblerFixture {
	t.Helper()
	ctrl := gomock.NewController(t)
	f := &assemblerFixture{
		locator: mocks.NewMockModuleLocator(ctrl),
		hasher:  mocks.NewMockHasher(ctrl),
		logger:  mocks.NewMockLogger(ctrl),
	}
	f.asm = assembler.New(f.locator, f.hasher, f.logger)
	return f
}

func testRequest() domain.BuildRequest {
	return domain.BuildRequest{
		RootDirectory:    filepath.FromSlash("/site"),
		WorkingDirectory: filepath.FromSlash("/work"),
		Toggles:          domain.Toggles{BundlerLogging: "query-engine"},
	}
}

func TestAssemble(t *testing.T) {
	f := newAssemblerFixture(t)
	f.locator.EXPECT().Locate(gomock.Any(), "lmdb").Return("", domain.ErrModuleNotFound)
	f.logger.EXPECT().Warn(gomock.Any())
	f.hasher.EXPECT().ComputeFingerprint(gomock.Any()).Return("0011223344556677", nil)

	cfg, err := f.asm.Assemble(testRequest(), "type Query { a: Int }\n", domain.EngineWebpack)
	require.NoError(t, err)

	assert.Equal(t, domain.EngineWebpack, cfg.Engine)
	assert.Equal(t, filepath.FromSlash("/site/.cache/query-engine-entry.js"), cfg.Entry)
	assert.Equal(t, filepath.FromSlash("/work/.cache/query-engine/index.js"), cfg.OutputPath())
	assert.Equal(t, `"type Query { a: Int }\n"`, cfg.Defines["SCHEMA_SNAPSHOT"])
	assert.Equal(t, "true", cfg.Defines["process.env.QEB_LMDB_STORE"])
	assert.Equal(t, `"yurnalist"`, cfg.Defines["process.env.QEB_LOGGER"])
	assert.False(t, cfg.SourceMaps)
	assert.False(t, cfg.Minify)
	assert.False(t, cfg.HMR)
	assert.True(t, cfg.ProgressLogging)
	assert.Equal(t, domain.Target{Format: "commonjs", Platform: "node", NodeVersion: ">= 14.15.0"}, cfg.Target)
	assert.Equal(t, []string{".mjs", ".js", ".json", ".node", ".ts", ".tsx"}, cfg.Extensions)

	assert.Equal(t, filepath.FromSlash("/work/.cache/webpack/query-engine"), cfg.Cache.Dir)
	assert.NotEqual(t, domain.OutputDir("/work"), cfg.Cache.Dir)
	assert.Equal(t, "0011223344556677", cfg.Cache.Fingerprint)
	assert.Empty(t, cfg.Cache.BuildDependencies)

	rule, ok := cfg.Relocation.Match("/site/node_modules/lmdb/dist/index.cjs")
	require.True(t, ok)
	assert.True(t, rule.PatchStorageLoader)
}

func TestAssemble_SameSnapshotForBothEngines(t *testing.T) {
	f := newAssemblerFixture(t)
	f.locator.EXPECT().Locate(gomock.Any(), "lmdb").Return("", domain.ErrModuleNotFound).Times(2)
	f.logger.EXPECT().Warn(gomock.Any()).Times(2)
	f.hasher.EXPECT().ComputeFingerprint(gomock.Any()).Return("fp", nil).Times(2)

	snapshot := "type Query {\n  \"quoted\" <b>: String\n}"
	webpack, err := f.asm.Assemble(testRequest(), snapshot, domain.EngineWebpack)
	require.NoError(t, err)
	esbuild, err := f.asm.Assemble(testRequest(), snapshot, domain.EngineESBuild)
	require.NoError(t, err)

	assert.Equal(t, webpack.Defines[domain.SchemaSnapshotSymbol], esbuild.Defines[domain.SchemaSnapshotSymbol])
	assert.Equal(t, `"type Query {\n  \"quoted\" <b>: String\n}"`, esbuild.Defines[domain.SchemaSnapshotSymbol])

	ignore := cmp.Options{
		cmpopts.IgnoreFields(domain.EngineConfig{}, "Engine", "Externals"),
		cmpopts.IgnoreFields(domain.CacheSpec{}, "Dir"),
		cmpopts.IgnoreUnexported(domain.RelocationPolicy{}),
	}
	if diff := cmp.Diff(webpack, esbuild, ignore); diff != "" {
		t.Errorf("engine configs differ beyond externals and cache dir (-webpack +esbuild):\n%s", diff)
	}
}

func TestAssemble_Settings(t *testing.T) {
	f := newAssemblerFixture(t)
	f.locator.EXPECT().Locate(gomock.Any(), "lmdb").Return("", domain.ErrModuleNotFound)
	f.logger.EXPECT().Warn(gomock.Any())
	f.hasher.EXPECT().ComputeFingerprint(gomock.Any()).DoAndReturn(func(cfg *domain.EngineConfig) (string, error) {
		assert.Empty(t, cfg.Cache.Fingerprint)
		return "fp", nil
	})

	req := testRequest()
	req.Settings = domain.Settings{
		Source:    filepath.FromSlash("/site/qeb.yaml"),
		Entry:     "src/engine.js",
		Externals: []string{"sharp"},
		Defines:   map[string]string{"process.env.CUSTOM": `"1"`, "SCHEMA_SNAPSHOT": "overridden"},
		Node:      "/usr/bin/node18",
	}

	cfg, err := f.asm.Assemble(req, "schema", domain.EngineESBuild)
	require.NoError(t, err)

	assert.Equal(t, filepath.FromSlash("/site/src/engine.js"), cfg.Entry)
	assert.Contains(t, cfg.Externals.Bare(), "sharp")
	assert.Equal(t, `"1"`, cfg.Defines["process.env.CUSTOM"])
	assert.Equal(t, `"schema"`, cfg.Defines["SCHEMA_SNAPSHOT"], "snapshot cannot be overridden")
	assert.Equal(t, []string{filepath.FromSlash("/site/qeb.yaml")}, cfg.Cache.BuildDependencies)
	assert.Equal(t, "/usr/bin/node18", cfg.Node)
}

func TestAssemble_FingerprintError(t *testing.T) {
	f := newAssemblerFixture(t)
	f.locator.EXPECT().Locate(gomock.Any(), "lmdb").Return("", domain.ErrModuleNotFound)
	f.logger.EXPECT().Warn(gomock.Any())
	boom := errors.New("read failed")
	f.hasher.EXPECT().ComputeFingerprint(gomock.Any()).Return("", boom)

	_, err := f.asm.Assemble(testRequest(), "schema", domain.EngineWebpack)
	assert.ErrorIs(t, err, boom)
}
