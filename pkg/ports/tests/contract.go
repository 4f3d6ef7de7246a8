// Package tests provides reusable contract suites that verify adapter
// compliance with the ports interfaces.
package tests

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/lattice/pkg/domain"
	"github.com/aretw0/lattice/pkg/ports"
)

// RunDocumentStoreContract verifies that a store behaves like a
// ports.DocumentStore: round-trips documents, isolates stored state
// from caller mutation, reports missing IDs with the sentinel error
// and lists what it holds.
func RunDocumentStoreContract(t *testing.T, store ports.DocumentStore) {
	t.Helper()
	ctx := context.Background()

	doc := domain.Document{
		{
			ID:       "root-1",
			Type:     domain.BlockTypeContainer,
			Settings: map[string]any{"direction": "column"},
			Children: []*domain.Node{
				{ID: "child-1", Type: domain.BlockTypeParagraph, Settings: map[string]any{"text": "hello"}},
			},
		},
	}

	t.Run("SaveAndLoad", func(t *testing.T) {
		require.NoError(t, store.Save(ctx, "page-a", doc))

		loaded, err := store.Load(ctx, "page-a")
		require.NoError(t, err)
		assert.Equal(t, doc, loaded)
	})

	t.Run("LoadIsolation", func(t *testing.T) {
		loaded, err := store.Load(ctx, "page-a")
		require.NoError(t, err)

		loaded[0].Settings["direction"] = "row"
		again, err := store.Load(ctx, "page-a")
		require.NoError(t, err)
		assert.Equal(t, "column", again[0].Settings["direction"])
	})

	t.Run("LoadNotFound", func(t *testing.T) {
		_, err := store.Load(ctx, "missing")
		assert.True(t, errors.Is(err, domain.ErrDocumentNotFound))
	})

	t.Run("Overwrite", func(t *testing.T) {
		updated := doc.Clone()
		updated[0].Settings["direction"] = "row"
		require.NoError(t, store.Save(ctx, "page-a", updated))

		loaded, err := store.Load(ctx, "page-a")
		require.NoError(t, err)
		assert.Equal(t, "row", loaded[0].Settings["direction"])
	})

	t.Run("List", func(t *testing.T) {
		require.NoError(t, store.Save(ctx, "page-b", domain.Document{}))

		ids, err := store.List(ctx)
		require.NoError(t, err)
		assert.Contains(t, ids, "page-a")
		assert.Contains(t, ids, "page-b")
	})

	t.Run("Delete", func(t *testing.T) {
		require.NoError(t, store.Delete(ctx, "page-b"))

		_, err := store.Load(ctx, "page-b")
		assert.True(t, errors.Is(err, domain.ErrDocumentNotFound))
	})
}
