package lattice

import (
	"context"
	"log/slog"
	"time"

	"github.com/aretw0/lattice/internal/logging"
	"github.com/aretw0/lattice/pkg/adapters/memory"
	"github.com/aretw0/lattice/pkg/observability"
	"github.com/aretw0/lattice/pkg/ports"
	"github.com/aretw0/lattice/pkg/registry"
	"github.com/aretw0/lattice/pkg/session"
)

// Editor is the high-level entry point for the lattice library.
// It wires the session manager, the block-type registry and the
// persistence store behind a simplified API.
type Editor struct {
	manager      *session.Manager
	store        ports.DocumentStore
	registry     *registry.Registry
	locker       ports.DistributedLocker
	logger       *slog.Logger
	metrics      *observability.Metrics
	historyLimit int
}

// Option defines a functional option for configuring the Editor.
type Option func(*Editor)

// WithStore injects a persistence backend, replacing the default
// in-memory store.
func WithStore(store ports.DocumentStore) Option {
	return func(e *Editor) {
		e.store = store
	}
}

// WithRegistry replaces the default block-type registry.
func WithRegistry(reg *registry.Registry) Option {
	return func(e *Editor) {
		e.registry = reg
	}
}

// WithLocker enables distributed locking across replicas.
func WithLocker(locker ports.DistributedLocker) Option {
	return func(e *Editor) {
		e.locker = locker
	}
}

// WithLogger sets a custom structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Editor) {
		e.logger = logger
	}
}

// WithMetrics enables Prometheus instrumentation.
func WithMetrics(metrics *observability.Metrics) Option {
	return func(e *Editor) {
		e.metrics = metrics
	}
}

// WithHistoryLimit bounds the per-session undo stack (default 50).
func WithHistoryLimit(limit int) Option {
	return func(e *Editor) {
		e.historyLimit = limit
	}
}

// New initializes a new Editor. Without options it edits in-memory
// documents with the default block palette.
func New(opts ...Option) *Editor {
	e := &Editor{}
	for _, opt := range opts {
		opt(e)
	}

	if e.store == nil {
		e.store = memory.NewStore()
	}
	if e.registry == nil {
		e.registry = registry.Defaults()
	}
	if e.logger == nil {
		e.logger = logging.NewNop()
	}

	managerOpts := []session.Option{
		session.WithRegistry(e.registry),
		session.WithLogger(e.logger),
		session.WithHistoryLimit(e.historyLimit),
	}
	if e.locker != nil {
		managerOpts = append(managerOpts, session.WithLocker(e.locker))
	}
	if e.metrics != nil {
		managerOpts = append(managerOpts, session.WithMetrics(e.metrics))
	}
	e.manager = session.NewManager(e.store, managerOpts...)
	return e
}

// Open returns the editing session for a document, creating an empty
// document when none is stored yet. The session seeds its history with
// one snapshot and starts clean.
func (e *Editor) Open(ctx context.Context, docID string) (*session.Session, error) {
	return e.manager.OpenOrCreate(ctx, docID)
}

// Save persists the live document of an open session. On success the
// session's dirty flag is cleared; on failure the document and the
// flag stay untouched.
func (e *Editor) Save(ctx context.Context, docID string) error {
	return e.manager.Save(ctx, docID)
}

// Sessions exposes the underlying session manager, for adapters that
// need per-document locking or bulk operations.
func (e *Editor) Sessions() *session.Manager {
	return e.manager
}

// Registry returns the block-type registry in use.
func (e *Editor) Registry() *registry.Registry {
	return e.registry
}

// StartAutosave periodically flushes dirty sessions until the context
// is canceled. A non-positive interval disables it.
func (e *Editor) StartAutosave(ctx context.Context, interval time.Duration) {
	e.manager.StartAutosave(ctx, interval)
}
