// Package session implements the editing session controller and the
// multi-session manager.
//
// A Session owns one live document, its undo/redo history, the dirty
// flag and the current selection. Every successful mutation commits a
// new document value, pushes exactly one history snapshot and marks
// the session dirty; undo and redo restore snapshots directly.
//
// The Manager hands out sessions keyed by document ID, serializes
// access with per-document reference-counted locks and bridges to the
// persistence store.
package session
