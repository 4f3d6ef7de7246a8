package tree

import (
	"github.com/aretw0/lattice/pkg/domain"
)

// Locate returns the parent id and index of the node with the given
// id. RootParent is reported for nodes sitting in the root list.
func Locate(doc domain.Document, nodeID string) (parentID string, index int, ok bool) {
	return locateIn(doc, RootParent, nodeID)
}

func locateIn(nodes []*domain.Node, parentID, nodeID string) (string, int, bool) {
	for i, n := range nodes {
		if n.ID == nodeID {
			return parentID, i, true
		}
		if p, idx, ok := locateIn(n.Children, n.ID, nodeID); ok {
			return p, idx, ok
		}
	}
	return "", 0, false
}

// IsDescendant reports whether candidateID sits inside the subtree
// rooted at ancestorID (the ancestor itself does not count).
func IsDescendant(doc domain.Document, ancestorID, candidateID string) bool {
	root := doc.Find(ancestorID)
	if root == nil || ancestorID == candidateID {
		return false
	}
	for _, child := range root.Children {
		if subtreeContains(child, candidateID) {
			return true
		}
	}
	return false
}

// SubtreeIDs collects the id of nodeID and of every node below it.
// The drop resolver uses this to exclude a dragged subtree's own slots
// from candidate targets.
func SubtreeIDs(doc domain.Document, nodeID string) map[string]struct{} {
	ids := make(map[string]struct{})
	root := doc.Find(nodeID)
	if root == nil {
		return ids
	}
	root.Walk(func(n *domain.Node) bool {
		ids[n.ID] = struct{}{}
		return true
	})
	return ids
}
