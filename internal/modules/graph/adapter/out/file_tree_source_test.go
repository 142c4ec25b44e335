package out_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	graphadapter "kgview/internal/modules/graph/adapter/out"
	apperrors "kgview/internal/platform/errors"
)

func TestFileTreeSourceSupports(t *testing.T) {
	t.Parallel()
	src := graphadapter.NewFileTreeSource(graphadapter.NewTreeCodec())
	assert.True(t, src.Supports("trees/cs.json"))
	assert.True(t, src.Supports("cs.yml"))
	assert.False(t, src.Supports("https://example.com/cs.json"))
	assert.False(t, src.Supports("sqlite:db.sqlite"))
	assert.False(t, src.Supports("cs.txt"))
}

func TestFileTreeSourceFetch(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	path := filepath.Join(dir, "cs.yaml")
	require.NoError(t, os.WriteFile(path, []byte("subject: CS\ntopics: [{title: AI}]\n"), 0o644))

	src := graphadapter.NewFileTreeSource(graphadapter.NewTreeCodec())
	raw, err := src.Fetch(context.Background(), path)
	require.NoError(t, err)
	assert.Equal(t, path, raw.Key)
	assert.Len(t, raw.Digest, 64)

	again, err := src.Fetch(context.Background(), path)
	require.NoError(t, err)
	assert.Equal(t, raw.Digest, again.Digest)

	require.NoError(t, os.WriteFile(path, []byte("subject: CS\n"), 0o644))
	changed, err := src.Fetch(context.Background(), path)
	require.NoError(t, err)
	assert.NotEqual(t, raw.Digest, changed.Digest)

	_, err = src.Fetch(context.Background(), filepath.Join(dir, "missing.json"))
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestFileArtifactStoreSave(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	store := graphadapter.NewFileArtifactStore(dir)

	path, err := store.Save(context.Background(), filepath.Join("out", "cs.svg"), []byte("<svg/>"))
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "out", "cs.svg"), path)
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "<svg/>", string(data))

	_, err = store.Save(context.Background(), " ", nil)
	assert.ErrorIs(t, err, apperrors.ErrInvalidInput)
}
