package session

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"log/slog"

	"github.com/aretw0/lattice/internal/logging"
	"github.com/aretw0/lattice/pkg/domain"
	"github.com/aretw0/lattice/pkg/observability"
	"github.com/aretw0/lattice/pkg/ports"
	"github.com/aretw0/lattice/pkg/registry"
)

// lockEntry holds the mutex and the reference count.
type lockEntry struct {
	mu   sync.Mutex
	refs int
}

// Manager hands out editing sessions keyed by document ID and
// serializes access to each one. It uses reference counting to garbage
// collect unused locks, and an optional distributed locker to
// coordinate across replicas.
type Manager struct {
	store ports.DocumentStore

	mu       sync.Mutex            // Global lock for the maps
	locks    map[string]*lockEntry // Map of active locks
	sessions map[string]*Session   // Open sessions by document ID

	registry     *registry.Registry
	historyLimit int
	locker       ports.DistributedLocker
	logger       *slog.Logger
	metrics      *observability.Metrics
}

// Option configures the Manager.
type Option func(*Manager)

// WithLocker enables distributed locking.
func WithLocker(locker ports.DistributedLocker) Option {
	return func(m *Manager) {
		m.locker = locker
	}
}

// WithLogger configures a logger for the Manager.
func WithLogger(logger *slog.Logger) Option {
	return func(m *Manager) {
		m.logger = logger
	}
}

// WithRegistry sets the block-type registry new sessions consult.
func WithRegistry(reg *registry.Registry) Option {
	return func(m *Manager) {
		m.registry = reg
	}
}

// WithHistoryLimit bounds the undo stack of new sessions.
func WithHistoryLimit(limit int) Option {
	return func(m *Manager) {
		m.historyLimit = limit
	}
}

// WithMetrics wires session and save counters into a metrics registry.
func WithMetrics(metrics *observability.Metrics) Option {
	return func(m *Manager) {
		m.metrics = metrics
	}
}

// NewManager creates a new session manager over the given store.
func NewManager(store ports.DocumentStore, opts ...Option) *Manager {
	m := &Manager{
		store:    store,
		locks:    make(map[string]*lockEntry),
		sessions: make(map[string]*Session),
		registry: registry.Defaults(),
		logger:   logging.NewNop(),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// acquire gets or creates a lock entry and increments its reference count.
// The caller MUST Lock the entry.mu, and then call release(docID) after unlocking.
func (m *Manager) acquire(docID string) *lockEntry {
	m.mu.Lock()
	defer m.mu.Unlock()

	entry, exists := m.locks[docID]
	if !exists {
		entry = &lockEntry{}
		m.locks[docID] = entry
	}
	entry.refs++
	return entry
}

// release decrements the reference count and deletes the entry if it reaches zero.
func (m *Manager) release(docID string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	entry, exists := m.locks[docID]
	if !exists {
		return // Should not happen if paired correctly
	}

	entry.refs--
	if entry.refs <= 0 {
		delete(m.locks, docID)
	}
}

// Open returns the session for a document, loading it from the store
// if no session is active yet. Returns domain.ErrDocumentNotFound if
// the document does not exist.
func (m *Manager) Open(ctx context.Context, docID string) (*Session, error) {
	return m.open(ctx, docID, false)
}

// OpenOrCreate returns the session for a document, seeding an empty
// document (and persisting it to reserve the ID) when none exists.
func (m *Manager) OpenOrCreate(ctx context.Context, docID string) (*Session, error) {
	return m.open(ctx, docID, true)
}

func (m *Manager) open(ctx context.Context, docID string, create bool) (*Session, error) {
	var sess *Session
	err := m.WithLock(ctx, docID, func(ctx context.Context) error {
		m.mu.Lock()
		existing, ok := m.sessions[docID]
		m.mu.Unlock()
		if ok {
			sess = existing
			return nil
		}

		doc, err := m.store.Load(ctx, docID)
		if err != nil {
			if !errors.Is(err, domain.ErrDocumentNotFound) || !create {
				return err
			}
			// Not found, create new. Persist immediately to reserve the ID.
			doc = domain.Document{}
			if err := m.store.Save(ctx, docID, doc); err != nil {
				return fmt.Errorf("failed to initialize document: %w", err)
			}
		}

		sess = newSession(docID, doc, m.historyLimit, m.registry, m.logger, m.metrics)

		m.mu.Lock()
		m.sessions[docID] = sess
		m.mu.Unlock()
		return nil
	})
	return sess, err
}

// Save persists the session's live document. On success the dirty flag
// is cleared; on failure the document and the dirty flag stay
// untouched and the error is surfaced to the caller.
func (m *Manager) Save(ctx context.Context, docID string) error {
	return m.WithLock(ctx, docID, func(ctx context.Context) error {
		m.mu.Lock()
		sess, ok := m.sessions[docID]
		m.mu.Unlock()
		if !ok {
			return domain.ErrDocumentNotFound
		}

		if err := m.store.Save(ctx, docID, sess.Document()); err != nil {
			m.metrics.CountSave("failure")
			return fmt.Errorf("failed to save document: %w", err)
		}
		sess.markSaved()
		m.metrics.CountSave("success")
		return nil
	})
}

// Close discards the in-memory session for a document. Unsaved changes
// are lost; the stored document is untouched.
func (m *Manager) Close(docID string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, docID)
}

// Delete removes the document from the store and discards any open
// session for it.
func (m *Manager) Delete(ctx context.Context, docID string) error {
	return m.WithLock(ctx, docID, func(ctx context.Context) error {
		m.mu.Lock()
		delete(m.sessions, docID)
		m.mu.Unlock()
		return m.store.Delete(ctx, docID)
	})
}

// List delegates to the store.
func (m *Manager) List(ctx context.Context) ([]string, error) {
	return m.store.List(ctx)
}

// Store returns the underlying document store.
func (m *Manager) Store() ports.DocumentStore {
	return m.store
}

// WithLock executes a function while holding the lock for the document.
func (m *Manager) WithLock(ctx context.Context, docID string, fn func(context.Context) error) error {
	entry := m.acquire(docID)
	entry.mu.Lock()
	defer func() {
		entry.mu.Unlock()
		m.release(docID)
	}()

	// Distributed Locking
	if m.locker != nil {
		unlock, err := m.locker.Lock(ctx, docID, 30*time.Second)
		if err != nil {
			return fmt.Errorf("failed to acquire distributed lock: %w", err)
		}
		defer func() {
			if err := unlock(ctx); err != nil {
				m.logger.Warn("Failed to release distributed lock (will expire via TTL)",
					"doc_id", docID,
					"err", err,
				)
			}
		}()
	}

	return fn(ctx)
}

// StartAutosave flushes every dirty session to the store at the given
// interval until the context is canceled. Failures are logged and the
// affected session stays dirty; the live document is never touched.
func (m *Manager) StartAutosave(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		return
	}
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				m.flushDirty(ctx)
			}
		}
	}()
}

func (m *Manager) flushDirty(ctx context.Context) {
	m.mu.Lock()
	dirty := make([]string, 0, len(m.sessions))
	for id, sess := range m.sessions {
		if sess.Dirty() {
			dirty = append(dirty, id)
		}
	}
	m.mu.Unlock()

	for _, id := range dirty {
		if err := m.Save(ctx, id); err != nil {
			m.logger.Warn("autosave failed", "doc_id", id, "err", err)
		}
	}
}
