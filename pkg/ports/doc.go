// Package ports defines the driven-side interfaces of the editing
// engine: document persistence and distributed locking. Adapters under
// pkg/adapters implement them; the session manager consumes them.
package ports
