package assembler_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/qeb/internal/core/domain"
	"go.trai.ch/qeb/internal/engine/assembler"
)

func TestResolveExternals_OneDirectivePerBuiltin(t *testing.T) {
	table := assembler.ResolveExternals(domain.EngineWebpack, nil)

	counts := make(map[string]int)
	for _, entry := range table {
		counts[entry.Name]++
	}

	for _, builtin := range assembler.BuiltinModules {
		assert.Equal(t, 1, counts[builtin], "builtin %s", builtin)
	}

	fsEntry, ok := table.Lookup("fs")
	require.True(t, ok)
	assert.Equal(t, "global _actualFsWrapper", fsEntry.Expression())

	pathEntry, ok := table.Lookup("path")
	require.True(t, ok)
	assert.Equal(t, "commonjs path", pathEntry.Expression())

	promises, ok := table.Lookup("fs/promises")
	require.True(t, ok)
	assert.Equal(t, domain.DirectiveCommonJS, promises.Directive)
}

func TestResolveExternals_ExcludedModules(t *testing.T) {
	webpack := assembler.ResolveExternals(domain.EngineWebpack, []string{"sharp", "electron", "os"})
	assert.Equal(t, []string{"cbor-x", "babel-runtime/helpers/asyncToGenerator", "electron", "sharp"}, webpack.Bare())

	esbuild := assembler.ResolveExternals(domain.EngineESBuild, nil)
	assert.Equal(t,
		[]string{"cbor-x", "babel-runtime/helpers/asyncToGenerator", "electron", assembler.RenderPageModule},
		esbuild.Bare(),
	)

	osEntry, ok := webpack.Lookup("os")
	require.True(t, ok)
	assert.Equal(t, domain.DirectiveCommonJS, osEntry.Directive, "builtins keep their runtime directive")
}
