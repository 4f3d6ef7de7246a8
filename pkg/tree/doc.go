// Package tree implements the structural mutation engine over a
// domain.Document: insert, update, remove, move and duplicate.
//
// Every operation is pure. The input document is never modified; on
// change a new document value is returned, sharing every untouched
// subtree with the input. Operations targeting an id that does not
// exist return the input document unchanged together with changed ==
// false, so callers can distinguish a no-op without error handling.
package tree
