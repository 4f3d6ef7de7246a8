package tree

import (
	"github.com/aretw0/lattice/pkg/domain"
)

// EndPosition inserts at the end of the target list.
const EndPosition = -1

// RootParent addresses the document's root list instead of a node.
const RootParent = ""

// Patch describes a partial update to a single node. Nil pointer
// fields are left untouched. Settings is shallow-merged key by key
// into the existing bag; Children, when non-nil, replaces the whole
// children list (an empty non-nil slice clears it).
type Patch struct {
	Type     *string
	Settings map[string]any
	Children []*domain.Node
	Locked   *bool
	Hidden   *bool
}

// Insert places a copy of node under parentID at the given position.
// RootParent targets the root list. Positions outside [0, len] clamp
// to the end, so EndPosition appends. If parentID names a node that
// does not exist, the input document is returned unchanged.
func Insert(doc domain.Document, node *domain.Node, parentID string, position int) (domain.Document, bool) {
	if node == nil {
		return doc, false
	}
	child := node.Clone()
	if parentID == RootParent {
		return domain.Document(insertAt(doc, child, position)), true
	}
	out, ok := insertUnder(doc, parentID, child, position)
	if !ok {
		return doc, false
	}
	return out, true
}

// Update shallow-merges a patch into the node with the given id,
// wherever it sits in the tree. Children are untouched unless the
// patch explicitly supplies a new list.
func Update(doc domain.Document, nodeID string, patch Patch) (domain.Document, bool) {
	out, ok := updateIn(doc, nodeID, patch)
	if !ok {
		return doc, false
	}
	return out, true
}

// Remove filters the node with the given id out of whichever list
// contains it. Removing a subtree root removes the whole subtree.
func Remove(doc domain.Document, nodeID string) (domain.Document, bool) {
	out, ok := removeFrom(doc, nodeID)
	if !ok {
		return doc, false
	}
	return out, true
}

// Move relocates the subtree rooted at nodeID under targetParentID at
// the given position. The subtree is captured as a deep copy before
// removal, then re-inserted at the destination.
//
// The move is rejected (input returned unchanged) when the target is
// the node itself or one of its descendants, or when the target parent
// cannot be found after removal. Cycle prevention is non-negotiable.
func Move(doc domain.Document, nodeID, targetParentID string, position int) (domain.Document, bool) {
	node := doc.Find(nodeID)
	if node == nil {
		return doc, false
	}
	if targetParentID == nodeID {
		return doc, false
	}
	if targetParentID != RootParent && subtreeContains(node, targetParentID) {
		return doc, false
	}

	captured := node.Clone()
	removed, _ := removeFrom(doc, nodeID)

	if targetParentID == RootParent {
		return domain.Document(insertAt(removed, captured, position)), true
	}
	out, ok := insertUnder(removed, targetParentID, captured, position)
	if !ok {
		return doc, false
	}
	return out, true
}

// Duplicate deep-clones the subtree at nodeID, mints a fresh id for
// the clone and every descendant, and inserts the clone immediately
// after the original as a sibling. None of the regenerated ids can
// collide with an id present anywhere in the document.
func Duplicate(doc domain.Document, nodeID string) (domain.Document, bool) {
	taken := doc.IDs()
	if _, exists := taken[nodeID]; !exists {
		return doc, false
	}
	out, ok := duplicateIn(doc, nodeID, taken)
	if !ok {
		return doc, false
	}
	return out, true
}

func insertUnder(nodes []*domain.Node, parentID string, child *domain.Node, position int) ([]*domain.Node, bool) {
	for i, n := range nodes {
		if n.ID == parentID {
			updated := shallowCopy(n)
			updated.Children = insertAt(n.Children, child, position)
			return replaceAt(nodes, i, updated), true
		}
		if newChildren, ok := insertUnder(n.Children, parentID, child, position); ok {
			updated := shallowCopy(n)
			updated.Children = newChildren
			return replaceAt(nodes, i, updated), true
		}
	}
	return nodes, false
}

func updateIn(nodes []*domain.Node, nodeID string, patch Patch) ([]*domain.Node, bool) {
	for i, n := range nodes {
		if n.ID == nodeID {
			return replaceAt(nodes, i, applyPatch(n, patch)), true
		}
		if newChildren, ok := updateIn(n.Children, nodeID, patch); ok {
			updated := shallowCopy(n)
			updated.Children = newChildren
			return replaceAt(nodes, i, updated), true
		}
	}
	return nodes, false
}

func removeFrom(nodes []*domain.Node, nodeID string) ([]*domain.Node, bool) {
	for i, n := range nodes {
		if n.ID == nodeID {
			if len(nodes) == 1 {
				// Keep "no children" canonical so remove(insert(doc))
				// round-trips to a structurally equal document.
				return nil, true
			}
			out := make([]*domain.Node, 0, len(nodes)-1)
			out = append(out, nodes[:i]...)
			out = append(out, nodes[i+1:]...)
			return out, true
		}
		if newChildren, ok := removeFrom(n.Children, nodeID); ok {
			updated := shallowCopy(n)
			updated.Children = newChildren
			return replaceAt(nodes, i, updated), true
		}
	}
	return nodes, false
}

func duplicateIn(nodes []*domain.Node, nodeID string, taken map[string]struct{}) ([]*domain.Node, bool) {
	for i, n := range nodes {
		if n.ID == nodeID {
			clone := cloneWithFreshIDs(n, taken)
			return insertAt(replaceAt(nodes, i, n), clone, i+1), true
		}
		if newChildren, ok := duplicateIn(n.Children, nodeID, taken); ok {
			updated := shallowCopy(n)
			updated.Children = newChildren
			return replaceAt(nodes, i, updated), true
		}
	}
	return nodes, false
}

func applyPatch(n *domain.Node, patch Patch) *domain.Node {
	updated := shallowCopy(n)
	if patch.Type != nil {
		updated.Type = *patch.Type
	}
	if patch.Settings != nil {
		updated.Settings = domain.MergeSettings(n.Settings, patch.Settings)
	}
	if patch.Children != nil {
		children := make([]*domain.Node, len(patch.Children))
		for i, c := range patch.Children {
			children[i] = c.Clone()
		}
		updated.Children = children
	}
	if patch.Locked != nil {
		updated.Locked = *patch.Locked
	}
	if patch.Hidden != nil {
		updated.Hidden = *patch.Hidden
	}
	return updated
}

func cloneWithFreshIDs(n *domain.Node, taken map[string]struct{}) *domain.Node {
	clone := n.Clone()
	clone.Walk(func(node *domain.Node) bool {
		node.ID = freshID(taken)
		return true
	})
	return clone
}

func freshID(taken map[string]struct{}) string {
	for {
		id := domain.NewID()
		if _, exists := taken[id]; !exists {
			taken[id] = struct{}{}
			return id
		}
	}
}

// shallowCopy copies the node struct itself, sharing settings and
// children with the original. Safe because no operation ever writes
// through a shared reference.
func shallowCopy(n *domain.Node) *domain.Node {
	copied := *n
	return &copied
}

func insertAt(nodes []*domain.Node, child *domain.Node, position int) []*domain.Node {
	if position < 0 || position > len(nodes) {
		position = len(nodes)
	}
	out := make([]*domain.Node, 0, len(nodes)+1)
	out = append(out, nodes[:position]...)
	out = append(out, child)
	out = append(out, nodes[position:]...)
	return out
}

func replaceAt(nodes []*domain.Node, index int, n *domain.Node) []*domain.Node {
	out := make([]*domain.Node, len(nodes))
	copy(out, nodes)
	out[index] = n
	return out
}

func subtreeContains(root *domain.Node, id string) bool {
	found := false
	root.Walk(func(n *domain.Node) bool {
		if n.ID == id {
			found = true
			return false
		}
		return true
	})
	return found
}
