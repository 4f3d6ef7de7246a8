// Package domain defines the core data model of the editing engine:
// the Node (a single block), the Document (an ordered forest of root
// blocks) and the sentinel errors shared by ports and adapters.
//
// Types here carry no behavior beyond cloning and traversal; the
// structural operations over a Document live in package tree.
package domain
