/*
Package lattice is a hierarchical document-editing engine. It maintains
an in-memory tree of structural blocks, exposes pure structural
mutations (insert, update, remove, move, duplicate), resolves
drag-and-drop insertion targets inside nested containers, and keeps a
bounded, transactional undo/redo history per editing session.

# Concept

A document is an ordered forest of nodes. Every node carries an opaque
settings bag owned by its block type; the engine never interprets it,
it only merges and clones it. Mutations never modify a document in
place: each committed operation produces a new document value, so
references handed out earlier stay stable and history snapshots are
cheap to trust.

The engine is split hexagonally: pkg/domain and pkg/tree hold the pure
core, pkg/ports defines the persistence boundary, and pkg/adapters
provides memory, file, Redis and HTTP implementations. The block-type
palette (pkg/registry) is a collaborator supplying default settings for
newly created blocks.

# Usage

	editor := lattice.New()

	ctx := context.Background()
	sess, err := editor.Open(ctx, "landing-page")
	if err != nil {
		log.Fatal(err)
	}

	id, _ := sess.InsertNew("heading", "", 0)
	sess.Update(id, tree.Patch{Settings: map[string]any{"text": "Hello"}})
	sess.Undo()

	if err := editor.Save(ctx, "landing-page"); err != nil {
		log.Fatal(err)
	}

By default documents live in an in-memory store; inject a file or
Redis store with WithStore to persist across processes.
*/
package lattice
