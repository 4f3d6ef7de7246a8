// Package drop resolves drag-and-drop pointer positions to concrete
// insertion targets inside nested containers.
//
// The resolver is stateless with respect to the drag: it is rebuilt
// from the currently rendered slots whenever the layout changes and
// queried on every pointer move. Resolution cost is linear in the
// number of rendered slots, never in the size of the document.
package drop

import (
	"math"

	"github.com/aretw0/lattice/pkg/domain"
	"github.com/aretw0/lattice/pkg/tree"
)

// Rect is an axis-aligned rendered bounding box in canvas coordinates.
type Rect struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	W float64 `json:"w"`
	H float64 `json:"h"`
}

// Contains reports whether the point lies inside the rectangle.
func (r Rect) Contains(x, y float64) bool {
	return x >= r.X && x <= r.X+r.W && y >= r.Y && y <= r.Y+r.H
}

func (r Rect) centerDistance(x, y float64) float64 {
	dx := x - (r.X + r.W/2)
	dy := y - (r.Y + r.H/2)
	return math.Hypot(dx, dy)
}

// claims reports containment for a non-degenerate rect. Zero rects
// (slots delivered without container bounds) never claim a pointer.
func (r Rect) claims(x, y float64) bool {
	return r.W > 0 && r.H > 0 && r.Contains(x, y)
}

// Slot is one rendered insertion point: before the first child of a
// container, after each child, or the single "drop inside" slot of a
// container that currently has no children. The root list is an
// implicit container exposing the same pattern with ParentID ==
// tree.RootParent and Depth 0.
type Slot struct {
	ParentID string `json:"parent_id"`
	Index    int    `json:"index"`
	Bounds   Rect   `json:"bounds"`
	Inside   bool   `json:"inside,omitempty"` // sole slot of an empty container
	Depth    int    `json:"depth"`            // nesting depth of the owning container

	// Container is the rendered bounds of the owning container. A
	// pointer anywhere inside it, even over a child's body, claims the
	// container before the nearest-slot pick.
	Container Rect `json:"container"`
}

// Kind distinguishes the two drag payloads.
type Kind int

const (
	// Create drags a block-type name out of the palette.
	Create Kind = iota
	// Relocate drags an existing node to a new position.
	Relocate
)

// Payload describes what is being dragged.
type Payload struct {
	Kind      Kind
	BlockType string // Kind == Create
	NodeID    string // Kind == Relocate
}

// Target is a resolved insertion point plus the payload it was
// resolved for, ready to be committed by the session.
type Target struct {
	ParentID  string `json:"parent_id"`
	Index     int    `json:"index"`
	Kind      Kind   `json:"kind"`
	BlockType string `json:"block_type,omitempty"`
	NodeID    string `json:"node_id,omitempty"`
}

// Resolver maps pointer positions to insertion targets over a fixed
// set of rendered slots. Rebuild it when the rendered layout changes;
// querying it per pointer move is cheap.
type Resolver struct {
	doc    domain.Document
	canvas Rect
	slots  []Slot

	// Subtree exclusion set for the current relocate payload,
	// memoized so pointer moves stay O(slots).
	excludeFor string
	excluded   map[string]struct{}
	curParent  string
	curIndex   int
}

// NewResolver builds a resolver over the currently rendered slots.
// The canvas rect bounds the root list; a pointer outside it never
// resolves to a target.
func NewResolver(doc domain.Document, canvas Rect, slots []Slot) *Resolver {
	return &Resolver{doc: doc, canvas: canvas, slots: slots}
}

// Resolve maps a pointer position to an insertion target.
// It prefers the innermost container whose rendered bounds contain the
// pointer, picking the nearest slot boundary within it; when no
// container or slot claims the pointer it falls back to the nearest
// root-level slot. Returns ok == false when the pointer is outside the
// canvas or no valid slot remains.
func (r *Resolver) Resolve(p Payload, x, y float64) (Target, bool) {
	if !r.canvas.Contains(x, y) {
		return Target{}, false
	}
	if p.Kind == Relocate {
		r.prepareExclusion(p.NodeID)
		if _, ok := r.excluded[p.NodeID]; !ok {
			// Dragged node no longer in the document.
			return Target{}, false
		}
	}

	var (
		best      *Slot
		bestDist  float64
		rootBest  *Slot
		rootDist  float64
		bestDepth = -1
	)
	for i := range r.slots {
		s := &r.slots[i]
		if p.Kind == Relocate && r.slotExcluded(s) {
			continue
		}
		dist := s.Bounds.centerDistance(x, y)
		if s.ParentID == tree.RootParent && (rootBest == nil || dist < rootDist) {
			rootBest, rootDist = s, dist
		}
		if !s.Bounds.Contains(x, y) && !s.Container.claims(x, y) {
			continue
		}
		if s.Depth > bestDepth || (s.Depth == bestDepth && dist < bestDist) {
			best, bestDist, bestDepth = s, dist, s.Depth
		}
	}
	if best == nil {
		best = rootBest
	}
	if best == nil {
		return Target{}, false
	}
	index := best.Index
	if p.Kind == Relocate && best.ParentID == r.curParent && index > r.curIndex {
		// Slot indices are pre-removal coordinates. Once the dragged
		// node leaves its old position, every later slot in the same
		// list shifts left by one.
		index--
	}
	return Target{
		ParentID:  best.ParentID,
		Index:     index,
		Kind:      p.Kind,
		BlockType: p.BlockType,
		NodeID:    p.NodeID,
	}, true
}

// prepareExclusion computes, once per dragged node, the set of slots
// that can never be a valid target: every slot owned by the dragged
// subtree and the node's own boundary slots (dropping there is no net
// change).
func (r *Resolver) prepareExclusion(nodeID string) {
	if r.excludeFor == nodeID {
		return
	}
	r.excludeFor = nodeID
	r.excluded = tree.SubtreeIDs(r.doc, nodeID)
	r.curParent, r.curIndex, _ = tree.Locate(r.doc, nodeID)
}

func (r *Resolver) slotExcluded(s *Slot) bool {
	if _, inSubtree := r.excluded[s.ParentID]; inSubtree {
		return true
	}
	// The two slots hugging the node's current position resolve to the
	// same document; treat them as its current slot.
	if s.ParentID == r.curParent && (s.Index == r.curIndex || s.Index == r.curIndex+1) {
		return true
	}
	return false
}

// SlotsFor derives the slot list for a rendered container's children
// given the container id, its nesting depth and the rendered bounds of
// each child. It exposes one slot before the first child, one after
// each child, and a single "inside" slot when the container is empty.
// Renderers typically call this per visible container and concatenate
// the results.
func SlotsFor(parentID string, depth int, containerBounds Rect, childBounds []Rect) []Slot {
	if len(childBounds) == 0 {
		return []Slot{{
			ParentID:  parentID,
			Index:     0,
			Bounds:    containerBounds,
			Inside:    true,
			Depth:     depth,
			Container: containerBounds,
		}}
	}
	const gutter = 8.0
	slots := make([]Slot, 0, len(childBounds)+1)
	for i, cb := range childBounds {
		slots = append(slots, Slot{
			ParentID:  parentID,
			Index:     i,
			Bounds:    Rect{X: cb.X, Y: cb.Y - gutter, W: cb.W, H: gutter * 2},
			Depth:     depth,
			Container: containerBounds,
		})
	}
	last := childBounds[len(childBounds)-1]
	slots = append(slots, Slot{
		ParentID:  parentID,
		Index:     len(childBounds),
		Bounds:    Rect{X: last.X, Y: last.Y + last.H - gutter, W: last.W, H: gutter * 2},
		Depth:     depth,
		Container: containerBounds,
	})
	return slots
}
