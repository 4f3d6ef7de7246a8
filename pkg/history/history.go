// Package history maintains the bounded undo/redo stack of document
// snapshots for one editing session.
//
// The stack retains the seed snapshot plus at most Limit mutation
// snapshots, so a session that commits exactly Limit mutations can
// still undo every one of them back to the seed. Pushing after an undo
// discards the abandoned redo branch; pushing past the bound evicts
// the oldest entry. Undo at the start and redo at the end are no-ops.
package history

import (
	"github.com/aretw0/lattice/pkg/domain"
)

// DefaultLimit is the number of mutation snapshots kept beyond the
// seed when no explicit limit is configured.
const DefaultLimit = 50

// Stack is a bounded snapshot stack with a cursor. The entry at the
// cursor always equals a document that was live at some point; the
// cursor stays within [0, Len-1] whenever the stack is non-empty.
//
// Snapshots are deep-copied on the way in and on the way out, so no
// live document can ever alias history state.
type Stack struct {
	entries []domain.Document
	cursor  int
	limit   int
}

// New creates an empty stack. A non-positive limit falls back to
// DefaultLimit.
func New(limit int) *Stack {
	if limit <= 0 {
		limit = DefaultLimit
	}
	return &Stack{limit: limit}
}

// Seed resets the stack to exactly one snapshot of the given document.
// Called when a document is loaded into a fresh session.
func (s *Stack) Seed(doc domain.Document) {
	s.entries = []domain.Document{doc.Clone()}
	s.cursor = 0
}

// Push records a snapshot of the document as the new head. Any redo
// branch beyond the cursor is discarded, never merged. When the stack
// grows past the seed plus limit entries the oldest one is evicted.
func (s *Stack) Push(doc domain.Document) {
	if len(s.entries) > 0 {
		s.entries = s.entries[:s.cursor+1]
	}
	s.entries = append(s.entries, doc.Clone())
	if max := s.limit + 1; len(s.entries) > max {
		s.entries = s.entries[len(s.entries)-max:]
	}
	s.cursor = len(s.entries) - 1
}

// Undo steps the cursor back and returns the snapshot to make live.
// Returns ok == false at the start of history.
func (s *Stack) Undo() (domain.Document, bool) {
	if s.cursor == 0 || len(s.entries) == 0 {
		return nil, false
	}
	s.cursor--
	return s.entries[s.cursor].Clone(), true
}

// Redo steps the cursor forward and returns the snapshot to make live.
// Returns ok == false at the end of history.
func (s *Stack) Redo() (domain.Document, bool) {
	if len(s.entries) == 0 || s.cursor == len(s.entries)-1 {
		return nil, false
	}
	s.cursor++
	return s.entries[s.cursor].Clone(), true
}

// CanUndo reports whether an undo step is available.
func (s *Stack) CanUndo() bool {
	return s.cursor > 0
}

// CanRedo reports whether a redo step is available.
func (s *Stack) CanRedo() bool {
	return len(s.entries) > 0 && s.cursor < len(s.entries)-1
}

// Len returns the number of stored snapshots.
func (s *Stack) Len() int {
	return len(s.entries)
}

// Cursor returns the current position within the stack.
func (s *Stack) Cursor() int {
	return s.cursor
}
