package plugins_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/qeb/internal/adapters/plugins"
	"go.trai.ch/qeb/internal/core/domain"
	"go.trai.ch/qeb/internal/core/ports/mocks"
	"go.uber.org/mock/gomock"
)

func TestRender(t *testing.T) {
	source, err := plugins.Render([]string{"gatsby-source-filesystem", `odd"name`})
	require.NoError(t, err)

	assert.Equal(t, `/* eslint-disable */
// Generated by qeb. Do not edit.
module.exports = [
  { name: "gatsby-source-filesystem", module: require("gatsby-source-filesystem") },
  { name: "odd\"name", module: require("odd\"name") },
]
`, string(source))
}

func TestRender_Empty(t *testing.T) {
	source, err := plugins.Render(nil)
	require.NoError(t, err)
	assert.Contains(t, string(source), "module.exports = [\n]\n")
}

func TestPrinter_Print(t *testing.T) {
	root := t.TempDir()
	ctrl := gomock.NewController(t)
	logger := mocks.NewMockLogger(ctrl)
	logger.EXPECT().Info("enumerated query engine plugins").Times(1)

	printer := plugins.NewPrinter(logger)
	require.NoError(t, printer.Print(context.Background(), root, []string{"a"}))

	path := domain.PluginsPath(root)
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `require("a")`)

	past := time.Now().Add(-time.Hour)
	require.NoError(t, os.Chtimes(path, past, past))

	// Unchanged content is not rewritten.
	require.NoError(t, printer.Print(context.Background(), root, []string{"a"}))
	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.True(t, info.ModTime().Equal(past))
}

func TestPrinter_Print_Unwritable(t *testing.T) {
	root := t.TempDir()
	// A file where the cache directory should be.
	require.NoError(t, os.WriteFile(filepath.Join(root, ".cache"), []byte("x"), 0o600))

	ctrl := gomock.NewController(t)
	printer := plugins.NewPrinter(mocks.NewMockLogger(ctrl))

	err := printer.Print(context.Background(), root, []string{"a"})
	assert.ErrorIs(t, err, domain.ErrPluginEnumerationFailed)
}

func TestPrinter_Print_Canceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	ctrl := gomock.NewController(t)
	printer := plugins.NewPrinter(mocks.NewMockLogger(ctrl))
	assert.ErrorIs(t, printer.Print(ctx, t.TempDir(), nil), context.Canceled)
}
