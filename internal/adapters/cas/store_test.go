package cas_test

import (
	"crypto/sha256"
	"encoding/hex"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/qeb/internal/adapters/cas"
	"go.trai.ch/qeb/internal/core/domain"
)

func TestStore_PutAndGet(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "esbuild", "query-engine")
	store := cas.NewStore()

	info := domain.BuildInfo{
		Name:        "query-engine",
		Engine:      domain.EngineESBuild,
		Fingerprint: "fp",
		Inputs:      []string{"/site/.cache/query-engine-entry.js"},
		InputHash:   "abc",
		OutputHash:  "def",
		Timestamp:   time.Now().UTC().Truncate(time.Second),
	}
	require.NoError(t, store.Put(dir, info))

	got, err := store.Get(dir, "query-engine")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.True(t, info.Timestamp.Equal(got.Timestamp))
	got.Timestamp = info.Timestamp
	assert.Equal(t, info, *got)

	// A fresh store reads the same record back from disk.
	got, err = cas.NewStore().Get(dir, "query-engine")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "def", got.OutputHash)
}

func TestStore_RecordPath(t *testing.T) {
	sum := sha256.Sum256([]byte("query-engine"))
	expected := filepath.Join("/cache", hex.EncodeToString(sum[:])+".json")
	assert.Equal(t, expected, cas.RecordPath("/cache", "query-engine"))
}

func TestStore_Miss(t *testing.T) {
	got, err := cas.NewStore().Get(t.TempDir(), "query-engine")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestStore_CorruptedRecordIsMiss(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(cas.RecordPath(dir, "query-engine"), []byte("{not json"), 0o600))

	got, err := cas.NewStore().Get(dir, "query-engine")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestStore_PutReplaces(t *testing.T) {
	dir := t.TempDir()
	store := cas.NewStore()

	require.NoError(t, store.Put(dir, domain.BuildInfo{Name: "query-engine", OutputHash: "old"}))
	require.NoError(t, store.Put(dir, domain.BuildInfo{Name: "query-engine", OutputHash: "new"}))

	got, err := store.Get(dir, "query-engine")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "new", got.OutputHash)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1, "no temporary files are left behind")
}
