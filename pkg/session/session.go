package session

import (
	"log/slog"

	"github.com/aretw0/lattice/internal/logging"
	"github.com/aretw0/lattice/pkg/domain"
	"github.com/aretw0/lattice/pkg/drop"
	"github.com/aretw0/lattice/pkg/history"
	"github.com/aretw0/lattice/pkg/observability"
	"github.com/aretw0/lattice/pkg/registry"
	"github.com/aretw0/lattice/pkg/tree"
)

// Session is one editing session over one document. It is the unit
// callers interact with: mutations, undo/redo, selection and the dirty
// flag all go through it.
//
// A session is single-threaded by design; every operation runs to
// completion before the next one starts. Cross-goroutine access is
// serialized by the Manager, not by the session itself.
type Session struct {
	docID    string
	doc      domain.Document
	hist     *history.Stack
	dirty    bool
	selected string

	registry *registry.Registry
	logger   *slog.Logger
	metrics  *observability.Metrics
}

func newSession(docID string, doc domain.Document, limit int, reg *registry.Registry, logger *slog.Logger, metrics *observability.Metrics) *Session {
	if logger == nil {
		logger = logging.NewNop()
	}
	s := &Session{
		docID:    docID,
		doc:      doc,
		hist:     history.New(limit),
		registry: reg,
		logger:   logger.With("doc_id", docID),
		metrics:  metrics,
	}
	s.hist.Seed(doc)
	return s
}

// DocID returns the id of the document this session edits.
func (s *Session) DocID() string {
	return s.docID
}

// Document returns the current live document. The returned value is
// never mutated in place by later operations, so callers may hold it.
func (s *Session) Document() domain.Document {
	return s.doc
}

// Dirty reports whether the live document diverges from the last
// persisted state.
func (s *Session) Dirty() bool {
	return s.dirty
}

// Selected returns the id of the currently selected node, or "" when
// nothing is selected.
func (s *Session) Selected() string {
	return s.selected
}

// Select sets the current selection. Selecting an id that is not in
// the document clears the selection.
func (s *Session) Select(nodeID string) {
	if nodeID != "" && !s.doc.Contains(nodeID) {
		nodeID = ""
	}
	s.selected = nodeID
}

// History exposes undo/redo availability for UI state.
func (s *Session) History() (canUndo, canRedo bool) {
	return s.hist.CanUndo(), s.hist.CanRedo()
}

// InsertNew creates a block of the given type through the block-type
// registry and inserts it under parentID at position. The new node's
// id is returned on success.
func (s *Session) InsertNew(blockType, parentID string, position int) (string, error) {
	node, err := s.registry.CreateDefault(blockType)
	if err != nil {
		return "", err
	}
	if !s.Insert(node, parentID, position) {
		return "", nil
	}
	return node.ID, nil
}

// Insert places a copy of node under parentID at position.
// Returns false when the parent cannot be found.
func (s *Session) Insert(node *domain.Node, parentID string, position int) bool {
	next, changed := tree.Insert(s.doc, node, parentID, position)
	return s.commit(next, changed, "insert")
}

// Update shallow-merges a patch into the node with the given id.
func (s *Session) Update(nodeID string, patch tree.Patch) bool {
	next, changed := tree.Update(s.doc, nodeID, patch)
	return s.commit(next, changed, "update")
}

// Remove deletes the subtree rooted at nodeID.
func (s *Session) Remove(nodeID string) bool {
	next, changed := tree.Remove(s.doc, nodeID)
	return s.commit(next, changed, "remove")
}

// Move relocates the subtree at nodeID under targetParentID at
// position. Cycle-forming moves are rejected.
func (s *Session) Move(nodeID, targetParentID string, position int) bool {
	next, changed := tree.Move(s.doc, nodeID, targetParentID, position)
	return s.commit(next, changed, "move")
}

// Duplicate clones the subtree at nodeID with fresh ids and inserts
// the clone right after the original.
func (s *Session) Duplicate(nodeID string) bool {
	next, changed := tree.Duplicate(s.doc, nodeID)
	return s.commit(next, changed, "duplicate")
}

// CommitDrop applies a resolved drop target: a Create target inserts a
// new block of the payload's type, a Relocate target moves the dragged
// node. Committing a target for a vanished node or parent is a no-op,
// as is a canceled drag (which never produces a target to commit).
func (s *Session) CommitDrop(target drop.Target) (bool, error) {
	switch target.Kind {
	case drop.Create:
		id, err := s.InsertNew(target.BlockType, target.ParentID, target.Index)
		return id != "", err
	case drop.Relocate:
		return s.Move(target.NodeID, target.ParentID, target.Index), nil
	default:
		return false, nil
	}
}

// Undo restores the previous history snapshot. No-op at the start of
// history. Undoing back onto the persisted state does not clear the
// dirty flag.
func (s *Session) Undo() bool {
	snap, ok := s.hist.Undo()
	if !ok {
		return false
	}
	s.restore(snap)
	s.metrics.CountUndo()
	return true
}

// Redo restores the next history snapshot. No-op at the end of history.
func (s *Session) Redo() bool {
	snap, ok := s.hist.Redo()
	if !ok {
		return false
	}
	s.restore(snap)
	s.metrics.CountRedo()
	return true
}

// markSaved clears the dirty flag after a successful persist.
func (s *Session) markSaved() {
	s.dirty = false
}

func (s *Session) commit(next domain.Document, changed bool, op string) bool {
	if !changed {
		return false
	}
	s.doc = next
	s.hist.Push(next)
	s.dirty = true
	s.dropStaleSelection()
	s.metrics.CountMutation(op)
	s.logger.Debug("committed mutation", "op", op, "nodes", next.Count())
	return true
}

func (s *Session) restore(snap domain.Document) {
	s.doc = snap
	s.dirty = true
	s.dropStaleSelection()
}

func (s *Session) dropStaleSelection() {
	if s.selected != "" && !s.doc.Contains(s.selected) {
		s.selected = ""
	}
}
