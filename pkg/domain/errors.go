package domain

import "errors"

// ErrDocumentNotFound is returned when a document ID cannot be found in the store.
var ErrDocumentNotFound = errors.New("document not found")

// ErrUnknownBlockType is returned when the block-type registry has no
// factory for the requested type.
var ErrUnknownBlockType = errors.New("unknown block type")
