package session_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/lattice/pkg/adapters/memory"
	"github.com/aretw0/lattice/pkg/domain"
	"github.com/aretw0/lattice/pkg/drop"
	"github.com/aretw0/lattice/pkg/session"
	"github.com/aretw0/lattice/pkg/tree"
)

func newTestSession(t *testing.T) (*session.Manager, *session.Session) {
	t.Helper()
	manager := session.NewManager(memory.NewStore())
	sess, err := manager.OpenOrCreate(context.Background(), "page-1")
	require.NoError(t, err)
	return manager, sess
}

func TestSession_StartsClean(t *testing.T) {
	_, sess := newTestSession(t)

	assert.Empty(t, sess.Document())
	assert.False(t, sess.Dirty())
	canUndo, canRedo := sess.History()
	assert.False(t, canUndo)
	assert.False(t, canRedo)
}

func TestSession_InsertNewUsesRegistryDefaults(t *testing.T) {
	_, sess := newTestSession(t)

	id, err := sess.InsertNew(domain.BlockTypeHeading, tree.RootParent, 0)
	require.NoError(t, err)
	require.NotEmpty(t, id)

	doc := sess.Document()
	require.Len(t, doc, 1)
	assert.Equal(t, domain.BlockTypeHeading, doc[0].Type)
	assert.Equal(t, "", doc[0].Settings["text"])
	assert.True(t, sess.Dirty())
}

func TestSession_InsertNewUnknownType(t *testing.T) {
	_, sess := newTestSession(t)

	_, err := sess.InsertNew("hologram", tree.RootParent, 0)
	assert.ErrorIs(t, err, domain.ErrUnknownBlockType)
	assert.False(t, sess.Dirty())
}

// Build a small tree, duplicate, then unwind the whole session with
// undo.
func TestSession_EditAndUndoScenario(t *testing.T) {
	_, sess := newTestSession(t)

	require.True(t, sess.Insert(&domain.Node{ID: "A", Type: "heading"}, tree.RootParent, 0))
	require.True(t, sess.Insert(&domain.Node{ID: "B", Type: "paragraph"}, "A", 0))
	require.True(t, sess.Duplicate("B"))

	a := sess.Document().Find("A")
	require.NotNil(t, a)
	require.Len(t, a.Children, 2)
	assert.Equal(t, "B", a.Children[0].ID)
	assert.NotEqual(t, "B", a.Children[1].ID)

	require.True(t, sess.Undo())
	require.Len(t, sess.Document().Find("A").Children, 1)

	require.True(t, sess.Undo())
	assert.Empty(t, sess.Document().Find("A").Children)

	require.True(t, sess.Undo())
	assert.Empty(t, sess.Document())

	assert.False(t, sess.Undo(), "undo at history start is a no-op")
}

func TestSession_FullUndoAtHistoryLimit(t *testing.T) {
	_, sess := newTestSession(t)

	// Exactly the default history bound of mutations: all of them must
	// unwind back to the empty document.
	for i := 0; i < 50; i++ {
		_, err := sess.InsertNew(domain.BlockTypeParagraph, tree.RootParent, tree.EndPosition)
		require.NoError(t, err)
	}

	undos := 0
	for sess.Undo() {
		undos++
	}
	assert.Equal(t, 50, undos)
	assert.Empty(t, sess.Document())
}

func TestSession_RedoAfterUndo(t *testing.T) {
	_, sess := newTestSession(t)

	require.True(t, sess.Insert(&domain.Node{ID: "A", Type: "heading"}, tree.RootParent, 0))
	require.True(t, sess.Undo())
	assert.Empty(t, sess.Document())

	require.True(t, sess.Redo())
	assert.NotNil(t, sess.Document().Find("A"))

	assert.False(t, sess.Redo(), "redo at history end is a no-op")
}

func TestSession_MutationAfterUndoDiscardsRedo(t *testing.T) {
	_, sess := newTestSession(t)

	require.True(t, sess.Insert(&domain.Node{ID: "A", Type: "heading"}, tree.RootParent, 0))
	require.True(t, sess.Insert(&domain.Node{ID: "B", Type: "heading"}, tree.RootParent, 1))
	require.True(t, sess.Undo())

	require.True(t, sess.Insert(&domain.Node{ID: "C", Type: "heading"}, tree.RootParent, 1))
	assert.False(t, sess.Redo())
	assert.Nil(t, sess.Document().Find("B"))
	assert.NotNil(t, sess.Document().Find("C"))
}

func TestSession_NoopMutationsPushNothing(t *testing.T) {
	_, sess := newTestSession(t)

	require.True(t, sess.Insert(&domain.Node{ID: "A", Type: "heading"}, tree.RootParent, 0))

	assert.False(t, sess.Remove("ghost"))
	assert.False(t, sess.Move("A", "A", 0))
	assert.False(t, sess.Update("ghost", tree.Patch{Settings: map[string]any{"x": 1}}))

	// One real mutation happened, so exactly one undo step exists.
	require.True(t, sess.Undo())
	assert.False(t, sess.Undo())
}

func TestSession_SelectionClearedOnRemove(t *testing.T) {
	_, sess := newTestSession(t)

	require.True(t, sess.Insert(&domain.Node{ID: "A", Type: "container",
		Children: []*domain.Node{{ID: "B", Type: "paragraph"}}}, tree.RootParent, 0))

	sess.Select("B")
	assert.Equal(t, "B", sess.Selected())

	require.True(t, sess.Remove("A"))
	assert.Empty(t, sess.Selected(), "selection must clear when the selected node is removed")
}

func TestSession_SelectionClearedOnUndoPastInsert(t *testing.T) {
	_, sess := newTestSession(t)

	require.True(t, sess.Insert(&domain.Node{ID: "A", Type: "heading"}, tree.RootParent, 0))
	sess.Select("A")

	require.True(t, sess.Undo())
	assert.Empty(t, sess.Selected())
}

func TestSession_SelectUnknownClears(t *testing.T) {
	_, sess := newTestSession(t)

	sess.Select("ghost")
	assert.Empty(t, sess.Selected())
}

func TestSession_SaveClearsDirtyUndoDoesNot(t *testing.T) {
	manager, sess := newTestSession(t)
	ctx := context.Background()

	require.True(t, sess.Insert(&domain.Node{ID: "A", Type: "heading"}, tree.RootParent, 0))
	require.True(t, sess.Dirty())

	require.NoError(t, manager.Save(ctx, "page-1"))
	assert.False(t, sess.Dirty())

	require.True(t, sess.Insert(&domain.Node{ID: "B", Type: "heading"}, tree.RootParent, 1))
	require.True(t, sess.Undo())

	// The live document now matches the persisted state again, but the
	// flag intentionally stays dirty.
	assert.True(t, sess.Dirty())
}

func TestSession_CommitDropCreate(t *testing.T) {
	_, sess := newTestSession(t)

	require.True(t, sess.Insert(&domain.Node{ID: "box", Type: domain.BlockTypeContainer}, tree.RootParent, 0))

	// Resolve a palette drag over the empty container's inside slot,
	// then commit the result.
	resolver := drop.NewResolver(
		sess.Document(),
		drop.Rect{X: 0, Y: 0, W: 100, H: 100},
		[]drop.Slot{{ParentID: "box", Index: 0, Bounds: drop.Rect{X: 0, Y: 0, W: 100, H: 100}, Inside: true, Depth: 1}},
	)
	target, ok := resolver.Resolve(drop.Payload{Kind: drop.Create, BlockType: domain.BlockTypeParagraph}, 50, 50)
	require.True(t, ok)

	changed, err := sess.CommitDrop(target)
	require.NoError(t, err)
	require.True(t, changed)

	box := sess.Document().Find("box")
	require.Len(t, box.Children, 1)
	assert.Equal(t, domain.BlockTypeParagraph, box.Children[0].Type)
}

func TestSession_CommitDropRelocateForwardInSameList(t *testing.T) {
	_, sess := newTestSession(t)

	for _, id := range []string{"A", "B", "C"} {
		require.True(t, sess.Insert(&domain.Node{ID: id, Type: domain.BlockTypeParagraph}, tree.RootParent, tree.EndPosition))
	}

	// Drag A onto the rendered slot between B and C (pre-removal index 2).
	resolver := drop.NewResolver(
		sess.Document(),
		drop.Rect{X: 0, Y: 0, W: 100, H: 300},
		[]drop.Slot{
			{ParentID: tree.RootParent, Index: 0, Bounds: drop.Rect{X: 0, Y: 0, W: 100, H: 10}},
			{ParentID: tree.RootParent, Index: 1, Bounds: drop.Rect{X: 0, Y: 90, W: 100, H: 10}},
			{ParentID: tree.RootParent, Index: 2, Bounds: drop.Rect{X: 0, Y: 190, W: 100, H: 10}},
			{ParentID: tree.RootParent, Index: 3, Bounds: drop.Rect{X: 0, Y: 290, W: 100, H: 10}},
		},
	)
	target, ok := resolver.Resolve(drop.Payload{Kind: drop.Relocate, NodeID: "A"}, 50, 195)
	require.True(t, ok)

	changed, err := sess.CommitDrop(target)
	require.NoError(t, err)
	require.True(t, changed)

	doc := sess.Document()
	require.Len(t, doc, 3)
	assert.Equal(t, "B", doc[0].ID)
	assert.Equal(t, "A", doc[1].ID)
	assert.Equal(t, "C", doc[2].ID)
}

func TestSession_CommitDropRelocate(t *testing.T) {
	_, sess := newTestSession(t)

	require.True(t, sess.Insert(&domain.Node{ID: "box", Type: domain.BlockTypeContainer}, tree.RootParent, 0))
	require.True(t, sess.Insert(&domain.Node{ID: "p", Type: domain.BlockTypeParagraph}, tree.RootParent, 1))

	changed, err := sess.CommitDrop(drop.Target{
		ParentID: "box", Index: 0, Kind: drop.Relocate, NodeID: "p",
	})
	require.NoError(t, err)
	require.True(t, changed)

	box := sess.Document().Find("box")
	require.Len(t, box.Children, 1)
	assert.Equal(t, "p", box.Children[0].ID)
}
