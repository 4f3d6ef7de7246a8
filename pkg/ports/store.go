package ports

import (
	"context"

	"github.com/aretw0/lattice/pkg/domain"
)

// DocumentStore defines the interface for persisting documents.
// Persistence is an external collaborator: the live document is never
// rolled back on a failed save, and the caller owns the dirty flag.
type DocumentStore interface {
	// Save persists the document under the given ID.
	Save(ctx context.Context, docID string, doc domain.Document) error

	// Load retrieves the document for the given ID.
	// Returns domain.ErrDocumentNotFound if the document does not exist.
	Load(ctx context.Context, docID string) (domain.Document, error)

	// Delete removes the document for the given ID.
	Delete(ctx context.Context, docID string) error

	// List returns the IDs of all stored documents.
	List(ctx context.Context) ([]string, error)
}
