package fs_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/qeb/internal/adapters/fs"
	"go.trai.ch/qeb/internal/core/domain"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o750))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
}

func TestWalker_WalkFiles(t *testing.T) {
	tmpDir := t.TempDir()
	writeFile(t, filepath.Join(tmpDir, ".git", "config"), "git config")
	writeFile(t, filepath.Join(tmpDir, ".jj", "repo", "store"), "jj store")
	writeFile(t, filepath.Join(tmpDir, "assets", "lmdb.node"), "binary")
	writeFile(t, filepath.Join(tmpDir, "index.js"), "module.exports = {}")
	writeFile(t, filepath.Join(tmpDir, "index.js.map"), "{}")

	var files []string
	for path := range fs.NewWalker().WalkFiles(tmpDir) {
		rel, err := filepath.Rel(tmpDir, path)
		require.NoError(t, err)
		files = append(files, filepath.ToSlash(rel))
	}

	assert.Equal(t, []string{"assets/lmdb.node", "index.js", "index.js.map"}, files)
}

func TestWalker_StopsEarly(t *testing.T) {
	tmpDir := t.TempDir()
	writeFile(t, filepath.Join(tmpDir, "a.js"), "a")
	writeFile(t, filepath.Join(tmpDir, "b.js"), "b")

	count := 0
	for range fs.NewWalker().WalkFiles(tmpDir) {
		count++
		break
	}
	assert.Equal(t, 1, count)
}

func TestVerifier_VerifyOutputs(t *testing.T) {
	tmpDir := t.TempDir()
	verifier := fs.NewVerifier()

	writeFile(t, filepath.Join(tmpDir, "index.js"), "content")
	require.NoError(t, os.MkdirAll(filepath.Join(tmpDir, "assets"), 0o750))

	exists, err := verifier.VerifyOutputs(tmpDir, []string{"index.js", "assets"})
	require.NoError(t, err)
	assert.True(t, exists)

	exists, err = verifier.VerifyOutputs(tmpDir, []string{"index.js", "missing.js"})
	require.NoError(t, err)
	assert.False(t, exists)

	writeFile(t, filepath.Join(tmpDir, "empty.js"), "")
	exists, err = verifier.VerifyOutputs(tmpDir, []string{"empty.js"})
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestLocator_Locate(t *testing.T) {
	tmpDir := t.TempDir()
	writeFile(t, filepath.Join(tmpDir, "node_modules", "lmdb", "package.json"), `{"name":"lmdb"}`)
	site := filepath.Join(tmpDir, "packages", "site")
	require.NoError(t, os.MkdirAll(site, 0o750))

	locator := fs.NewLocator()

	dir, err := locator.Locate(site, "lmdb")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(tmpDir, "node_modules", "lmdb"), dir)

	// The nearest copy wins.
	writeFile(t, filepath.Join(site, "node_modules", "lmdb", "package.json"), `{"name":"lmdb"}`)
	dir, err = locator.Locate(site, "lmdb")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(site, "node_modules", "lmdb"), dir)

	_, err = locator.Locate(site, "not-installed-anywhere-qeb")
	assert.ErrorIs(t, err, domain.ErrModuleNotFound)
}

func TestSnapshotReader_Read(t *testing.T) {
	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, "schema.gql")
	writeFile(t, path, "type Query { a: Int }")

	reader := fs.NewSnapshotReader()

	text, err := reader.Read(context.Background(), path)
	require.NoError(t, err)
	assert.Equal(t, "type Query { a: Int }", text)

	_, err = reader.Read(context.Background(), filepath.Join(tmpDir, "missing.gql"))
	assert.ErrorIs(t, err, domain.ErrSnapshotUnreadable)

	writeFile(t, path, "\xff\xfe")
	_, err = reader.Read(context.Background(), path)
	assert.ErrorIs(t, err, domain.ErrSnapshotUnreadable)
}
