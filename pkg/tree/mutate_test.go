package tree_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/lattice/pkg/domain"
	"github.com/aretw0/lattice/pkg/tree"
)

func node(id, blockType string, children ...*domain.Node) *domain.Node {
	return &domain.Node{ID: id, Type: blockType, Children: children}
}

// buildDoc: a -> (b -> d), c
func buildDoc() domain.Document {
	return domain.Document{
		node("a", "container", node("b", "container", node("d", "paragraph"))),
		node("c", "paragraph"),
	}
}

func TestInsert_Root(t *testing.T) {
	doc := buildDoc()

	out, changed := tree.Insert(doc, node("x", "heading"), tree.RootParent, 1)
	require.True(t, changed)
	require.Len(t, out, 3)
	assert.Equal(t, "x", out[1].ID)

	// Input untouched
	assert.Len(t, doc, 2)
}

func TestInsert_RootEnd(t *testing.T) {
	doc := buildDoc()

	out, changed := tree.Insert(doc, node("x", "heading"), tree.RootParent, tree.EndPosition)
	require.True(t, changed)
	assert.Equal(t, "x", out[2].ID)
}

func TestInsert_UnderNestedParent(t *testing.T) {
	doc := buildDoc()

	out, changed := tree.Insert(doc, node("x", "paragraph"), "b", 0)
	require.True(t, changed)

	b := out.Find("b")
	require.NotNil(t, b)
	require.Len(t, b.Children, 2)
	assert.Equal(t, "x", b.Children[0].ID)
	assert.Equal(t, "d", b.Children[1].ID)

	// Untouched sibling subtree is shared with the input.
	assert.Same(t, doc[1], out[1])
}

func TestInsert_CreatesChildrenList(t *testing.T) {
	doc := buildDoc()

	out, changed := tree.Insert(doc, node("x", "paragraph"), "c", tree.EndPosition)
	require.True(t, changed)

	c := out.Find("c")
	require.Len(t, c.Children, 1)
	assert.Equal(t, "x", c.Children[0].ID)
}

func TestInsert_PositionClamped(t *testing.T) {
	doc := buildDoc()

	out, changed := tree.Insert(doc, node("x", "paragraph"), "b", 99)
	require.True(t, changed)

	b := out.Find("b")
	assert.Equal(t, "x", b.Children[len(b.Children)-1].ID)
}

func TestInsert_MissingParentIsNoop(t *testing.T) {
	doc := buildDoc()

	out, changed := tree.Insert(doc, node("x", "paragraph"), "ghost", 0)
	assert.False(t, changed)
	assert.Equal(t, doc, out)
}

func TestInsert_DoesNotAliasInput(t *testing.T) {
	doc := domain.Document{}
	n := node("x", "paragraph")

	out, changed := tree.Insert(doc, n, tree.RootParent, 0)
	require.True(t, changed)

	n.Type = "mutated"
	assert.Equal(t, "paragraph", out[0].Type)
}

func TestUpdate_MergesSettings(t *testing.T) {
	doc := domain.Document{
		{ID: "a", Type: "heading", Settings: map[string]any{"text": "old", "level": 2}},
	}

	out, changed := tree.Update(doc, "a", tree.Patch{Settings: map[string]any{"text": "new"}})
	require.True(t, changed)

	got := out.Find("a")
	assert.Equal(t, "new", got.Settings["text"])
	assert.Equal(t, 2, got.Settings["level"])

	// Original untouched
	assert.Equal(t, "old", doc[0].Settings["text"])
}

func TestUpdate_ChildrenUntouchedByDefault(t *testing.T) {
	doc := buildDoc()

	out, changed := tree.Update(doc, "b", tree.Patch{Settings: map[string]any{"x": 1}})
	require.True(t, changed)

	b := out.Find("b")
	require.Len(t, b.Children, 1)
	assert.Equal(t, "d", b.Children[0].ID)
}

func TestUpdate_ReplacesChildrenWhenSupplied(t *testing.T) {
	doc := buildDoc()

	out, changed := tree.Update(doc, "b", tree.Patch{Children: []*domain.Node{node("z", "paragraph")}})
	require.True(t, changed)

	b := out.Find("b")
	require.Len(t, b.Children, 1)
	assert.Equal(t, "z", b.Children[0].ID)
	assert.Nil(t, out.Find("d"))
}

func TestUpdate_Flags(t *testing.T) {
	doc := buildDoc()
	locked := true

	out, changed := tree.Update(doc, "c", tree.Patch{Locked: &locked})
	require.True(t, changed)
	assert.True(t, out.Find("c").Locked)
	assert.False(t, doc.Find("c").Locked)
}

func TestUpdate_MissingIsNoop(t *testing.T) {
	doc := buildDoc()

	out, changed := tree.Update(doc, "ghost", tree.Patch{Settings: map[string]any{"x": 1}})
	assert.False(t, changed)
	assert.Equal(t, doc, out)
}

func TestRemove_PrunesSubtree(t *testing.T) {
	doc := buildDoc()

	out, changed := tree.Remove(doc, "b")
	require.True(t, changed)
	assert.Nil(t, out.Find("b"))
	assert.Nil(t, out.Find("d"))
	assert.NotNil(t, out.Find("a"))

	// Original untouched
	assert.NotNil(t, doc.Find("d"))
}

func TestRemove_RootNode(t *testing.T) {
	doc := buildDoc()

	out, changed := tree.Remove(doc, "a")
	require.True(t, changed)
	require.Len(t, out, 1)
	assert.Equal(t, "c", out[0].ID)
}

func TestRemove_MissingIsNoop(t *testing.T) {
	doc := buildDoc()

	out, changed := tree.Remove(doc, "ghost")
	assert.False(t, changed)
	assert.Equal(t, doc, out)
}

func TestMove_ToOtherContainer(t *testing.T) {
	doc := buildDoc()

	out, changed := tree.Move(doc, "d", "a", 0)
	require.True(t, changed)

	a := out.Find("a")
	require.Len(t, a.Children, 2)
	assert.Equal(t, "d", a.Children[0].ID)
	assert.Empty(t, out.Find("b").Children)
}

func TestMove_ToRoot(t *testing.T) {
	doc := buildDoc()

	out, changed := tree.Move(doc, "d", tree.RootParent, 0)
	require.True(t, changed)
	assert.Equal(t, "d", out[0].ID)
	assert.Empty(t, out.Find("b").Children)
}

func TestMove_SelfIsRejected(t *testing.T) {
	doc := buildDoc()

	out, changed := tree.Move(doc, "a", "a", 0)
	assert.False(t, changed)
	assert.Equal(t, doc, out)
}

func TestMove_IntoOwnDescendantIsRejected(t *testing.T) {
	doc := buildDoc()

	for _, target := range []string{"b", "d"} {
		out, changed := tree.Move(doc, "a", target, 0)
		assert.False(t, changed, "move into %s must be rejected", target)
		assert.Equal(t, doc, out)
	}
}

func TestMove_MissingNodeIsNoop(t *testing.T) {
	doc := buildDoc()

	out, changed := tree.Move(doc, "ghost", tree.RootParent, 0)
	assert.False(t, changed)
	assert.Equal(t, doc, out)
}

func TestMove_MissingTargetIsNoop(t *testing.T) {
	doc := buildDoc()

	out, changed := tree.Move(doc, "d", "ghost", 0)
	assert.False(t, changed)
	assert.Equal(t, doc, out)
}

func TestMove_WithinSameList(t *testing.T) {
	doc := domain.Document{
		node("a", "paragraph"),
		node("b", "paragraph"),
		node("c", "paragraph"),
	}

	out, changed := tree.Move(doc, "a", tree.RootParent, 2)
	require.True(t, changed)
	assert.Equal(t, "b", out[0].ID)
	assert.Equal(t, "c", out[1].ID)
	assert.Equal(t, "a", out[2].ID)
}

func TestDuplicate_PlacesCloneAfterOriginal(t *testing.T) {
	doc := buildDoc()

	out, changed := tree.Duplicate(doc, "b")
	require.True(t, changed)

	a := out.Find("a")
	require.Len(t, a.Children, 2)
	assert.Equal(t, "b", a.Children[0].ID)

	clone := a.Children[1]
	assert.Equal(t, "container", clone.Type)
	assert.NotEqual(t, "b", clone.ID)
}

func TestDuplicate_RegeneratesAllIDs(t *testing.T) {
	doc := buildDoc()
	before := doc.IDs()

	out, changed := tree.Duplicate(doc, "b")
	require.True(t, changed)

	a := out.Find("a")
	clone := a.Children[1]
	clone.Walk(func(n *domain.Node) bool {
		_, exists := before[n.ID]
		assert.False(t, exists, "cloned id %s must not exist in the original document", n.ID)
		return true
	})

	// The clone keeps the original shape.
	require.Len(t, clone.Children, 1)
	assert.Equal(t, "paragraph", clone.Children[0].Type)
}

func TestDuplicate_MissingIsNoop(t *testing.T) {
	doc := buildDoc()

	out, changed := tree.Duplicate(doc, "ghost")
	assert.False(t, changed)
	assert.Equal(t, doc, out)
}

// remove(insert(T, n, p, i), n.id) == T for ids not present in T.
func TestInsertRemoveRoundTrip(t *testing.T) {
	cases := []struct {
		name     string
		parentID string
		position int
	}{
		{"root front", tree.RootParent, 0},
		{"root end", tree.RootParent, tree.EndPosition},
		{"nested", "b", 0},
		{"leaf parent", "d", tree.EndPosition},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			doc := buildDoc()

			inserted, changed := tree.Insert(doc, node("fresh", "paragraph"), tc.parentID, tc.position)
			require.True(t, changed)

			out, changed := tree.Remove(inserted, "fresh")
			require.True(t, changed)
			assert.Equal(t, doc, out)
		})
	}
}

// End-to-end edit sequence at the engine level.
func TestEditScenario(t *testing.T) {
	doc := domain.Document{}

	doc, changed := tree.Insert(doc, node("A", "heading"), tree.RootParent, 0)
	require.True(t, changed)
	require.Len(t, doc, 1)

	doc, changed = tree.Insert(doc, node("B", "paragraph"), "A", 0)
	require.True(t, changed)
	require.Len(t, doc.Find("A").Children, 1)

	doc, changed = tree.Duplicate(doc, "B")
	require.True(t, changed)

	a := doc.Find("A")
	require.Len(t, a.Children, 2)
	assert.Equal(t, "B", a.Children[0].ID)
	assert.NotEqual(t, "B", a.Children[1].ID)
	assert.Equal(t, "paragraph", a.Children[1].Type)
}
