package domain

// Common block type tags. The engine never switches on these; they are
// defined here so adapters and the default registry agree on spelling.
const (
	BlockTypeHeading   = "heading"
	BlockTypeParagraph = "paragraph"
	BlockTypeImage     = "image"
	BlockTypeContainer = "container"
	BlockTypeColumns   = "columns"
)

// Node represents a single block in the document tree.
// It can be a leaf (text, image) or a container holding child blocks;
// the distinction is not hardcoded here. Any node may gain children
// once a child is inserted into it.
type Node struct {
	ID   string `json:"id" yaml:"id"`
	Type string `json:"type" yaml:"type"` // e.g., "heading", "container"

	// Settings holds the type-specific properties of the block
	// (content, style, layout hints). The engine treats it as opaque
	// data and only ever shallow-merges it; validation belongs to the
	// block-type registry.
	Settings map[string]any `json:"settings,omitempty" yaml:"settings,omitempty"`

	// Children is the ordered list of nested blocks. A nil slice means
	// the node currently has no children.
	Children []*Node `json:"children,omitempty" yaml:"children,omitempty"`

	// Advisory flags, read by the UI but never enforced by the
	// mutation engine. A locked block is still mutable through the API.
	Locked bool `json:"locked,omitempty" yaml:"locked,omitempty"`
	Hidden bool `json:"hidden,omitempty" yaml:"hidden,omitempty"`
}

// Clone returns a fully independent deep copy of the node and its subtree.
func (n *Node) Clone() *Node {
	if n == nil {
		return nil
	}
	out := &Node{
		ID:     n.ID,
		Type:   n.Type,
		Locked: n.Locked,
		Hidden: n.Hidden,
	}
	if n.Settings != nil {
		out.Settings = cloneSettings(n.Settings)
	}
	if n.Children != nil {
		out.Children = make([]*Node, len(n.Children))
		for i, child := range n.Children {
			out.Children[i] = child.Clone()
		}
	}
	return out
}

// Walk visits the node and every descendant in pre-order.
// The visitor returns false to stop the walk early.
func (n *Node) Walk(fn func(*Node) bool) bool {
	if n == nil {
		return true
	}
	if !fn(n) {
		return false
	}
	for _, child := range n.Children {
		if !child.Walk(fn) {
			return false
		}
	}
	return true
}

// MergeSettings returns a new bag with the patch keys shallow-merged
// over the base. Neither input is modified; every value written into
// the result is deep-copied so the merged bag never aliases caller data.
func MergeSettings(base, patch map[string]any) map[string]any {
	out := make(map[string]any, len(base)+len(patch))
	for k, v := range base {
		out[k] = cloneValue(v)
	}
	for k, v := range patch {
		out[k] = cloneValue(v)
	}
	return out
}

// cloneSettings deep-copies a settings bag. Nested maps and slices are
// copied recursively so a snapshot can never alias live state; scalar
// values are copied as-is.
func cloneSettings(in map[string]any) map[string]any {
	out := make(map[string]any, len(in))
	for k, v := range in {
		out[k] = cloneValue(v)
	}
	return out
}

func cloneValue(v any) any {
	switch val := v.(type) {
	case map[string]any:
		return cloneSettings(val)
	case []any:
		out := make([]any, len(val))
		for i, item := range val {
			out[i] = cloneValue(item)
		}
		return out
	default:
		return v
	}
}
