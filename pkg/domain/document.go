package domain

// Document is the ordered forest of root-level blocks being edited.
// Mutation operations never modify a Document in place; they return a
// new value, so a Document reference handed out once stays stable.
type Document []*Node

// Clone returns a fully independent deep copy of the document.
// This is the snapshot primitive used by the history stack.
func (d Document) Clone() Document {
	if d == nil {
		return nil
	}
	out := make(Document, len(d))
	for i, n := range d {
		out[i] = n.Clone()
	}
	return out
}

// Find locates a node by id anywhere in the tree (pre-order).
// Returns nil if the id is not present.
func (d Document) Find(id string) *Node {
	var found *Node
	d.Walk(func(n *Node) bool {
		if n.ID == id {
			found = n
			return false
		}
		return true
	})
	return found
}

// Contains reports whether a node with the given id exists anywhere
// in the document.
func (d Document) Contains(id string) bool {
	return d.Find(id) != nil
}

// Walk visits every node in the forest in pre-order.
// The visitor returns false to stop the walk early.
func (d Document) Walk(fn func(*Node) bool) {
	for _, n := range d {
		if !n.Walk(fn) {
			return
		}
	}
}

// IDs collects every node id in the document. Used by duplicate to
// guarantee regenerated ids never collide with existing ones.
func (d Document) IDs() map[string]struct{} {
	ids := make(map[string]struct{})
	d.Walk(func(n *Node) bool {
		ids[n.ID] = struct{}{}
		return true
	})
	return ids
}

// Count returns the total number of nodes at all levels.
func (d Document) Count() int {
	total := 0
	d.Walk(func(*Node) bool {
		total++
		return true
	})
	return total
}
