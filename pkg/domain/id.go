package domain

import "github.com/google/uuid"

// NewID returns a fresh node id, unique across documents.
// Inserting and duplicating always mint ids through this function so a
// clone can never reuse an id present anywhere in the original document.
func NewID() string {
	return uuid.NewString()
}
