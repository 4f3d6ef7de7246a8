package file_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/lattice/pkg/adapters/file"
	"github.com/aretw0/lattice/pkg/domain"
	"github.com/aretw0/lattice/pkg/ports/tests"
)

func TestFileStore_Contract(t *testing.T) {
	tests.RunDocumentStoreContract(t, file.New(t.TempDir()))
}

func TestFileStore_WritesPrettyJSON(t *testing.T) {
	dir := t.TempDir()
	store := file.New(dir)
	ctx := context.Background()

	doc := domain.Document{{ID: "a", Type: "heading", Settings: map[string]any{"text": "hi"}}}
	require.NoError(t, store.Save(ctx, "page", doc))

	data, err := os.ReadFile(filepath.Join(dir, "page.json"))
	require.NoError(t, err)
	assert.Contains(t, string(data), "\"id\": \"a\"")
}

func TestFileStore_ListSkipsTempFiles(t *testing.T) {
	dir := t.TempDir()
	store := file.New(dir)
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, "page", domain.Document{}))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "tmp-page-123.json"), []byte("[]"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0644))

	ids, err := store.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"page"}, ids)
}

func TestFileStore_EmptyDirList(t *testing.T) {
	store := file.New(filepath.Join(t.TempDir(), "does-not-exist"))

	ids, err := store.List(context.Background())
	require.NoError(t, err)
	assert.Empty(t, ids)
}
