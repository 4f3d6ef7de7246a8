// Package http exposes the editing engine over a JSON HTTP API.
package http

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/aretw0/lattice/pkg/domain"
	"github.com/aretw0/lattice/pkg/drop"
	"github.com/aretw0/lattice/pkg/observability"
	"github.com/aretw0/lattice/pkg/session"
	"github.com/aretw0/lattice/pkg/tree"
)

// Server bridges HTTP requests to the session manager.
type Server struct {
	Manager *session.Manager
	Metrics *observability.Metrics
}

// NewHandler creates the HTTP handler for the editor API.
func NewHandler(manager *session.Manager, metrics *observability.Metrics) http.Handler {
	s := &Server{Manager: manager, Metrics: metrics}

	r := chi.NewRouter()
	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	if metrics != nil {
		r.Method(http.MethodGet, "/metrics", metrics.Handler())
	}

	r.Route("/documents", func(r chi.Router) {
		r.Get("/", s.listDocuments)
		r.Route("/{docID}", func(r chi.Router) {
			r.Get("/", s.getDocument)
			r.Post("/blocks", s.insertBlock)
			r.Patch("/blocks/{nodeID}", s.updateBlock)
			r.Delete("/blocks/{nodeID}", s.removeBlock)
			r.Post("/blocks/{nodeID}/move", s.moveBlock)
			r.Post("/blocks/{nodeID}/duplicate", s.duplicateBlock)
			r.Post("/drop", s.commitDrop)
			r.Post("/undo", s.undo)
			r.Post("/redo", s.redo)
			r.Post("/save", s.save)
			r.Put("/selection", s.setSelection)
		})
	})

	return enableCORS(r)
}

func enableCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, PATCH, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// SessionState is the response envelope carrying everything the editor
// UI renders after an operation.
type SessionState struct {
	Document domain.Document `json:"document"`
	Dirty    bool            `json:"dirty"`
	Selected string          `json:"selected,omitempty"`
	CanUndo  bool            `json:"can_undo"`
	CanRedo  bool            `json:"can_redo"`
	Changed  bool            `json:"changed"`
}

type insertRequest struct {
	Type     string       `json:"type,omitempty"`
	Node     *domain.Node `json:"node,omitempty"`
	ParentID string       `json:"parent_id,omitempty"`
	Position *int         `json:"position,omitempty"`
}

type patchRequest struct {
	Type     *string        `json:"type,omitempty"`
	Settings map[string]any `json:"settings,omitempty"`
	Children []*domain.Node `json:"children,omitempty"`
	Locked   *bool          `json:"locked,omitempty"`
	Hidden   *bool          `json:"hidden,omitempty"`
}

type moveRequest struct {
	ParentID string `json:"parent_id,omitempty"`
	Position *int   `json:"position,omitempty"`
}

type dropRequest struct {
	Payload struct {
		Kind      string `json:"kind"` // "create" | "relocate"
		BlockType string `json:"block_type,omitempty"`
		NodeID    string `json:"node_id,omitempty"`
	} `json:"payload"`
	X      float64     `json:"x"`
	Y      float64     `json:"y"`
	Canvas drop.Rect   `json:"canvas"`
	Slots  []drop.Slot `json:"slots"`
}

type selectionRequest struct {
	NodeID string `json:"node_id"`
}

func (s *Server) listDocuments(w http.ResponseWriter, r *http.Request) {
	ids, err := s.Manager.List(r.Context())
	if err != nil {
		http.Error(w, fmt.Sprintf("List error: %v", err), http.StatusInternalServerError)
		slog.Error("List failed", "error", err)
		return
	}
	writeJSON(w, map[string]any{"documents": ids})
}

func (s *Server) getDocument(w http.ResponseWriter, r *http.Request) {
	docID := chi.URLParam(r, "docID")
	sess, err := s.Manager.OpenOrCreate(r.Context(), docID)
	if err != nil {
		http.Error(w, fmt.Sprintf("Open error: %v", err), http.StatusInternalServerError)
		slog.Error("Open failed", "doc_id", docID, "error", err)
		return
	}
	writeJSON(w, snapshotState(sess, false))
}

func (s *Server) insertBlock(w http.ResponseWriter, r *http.Request) {
	var body insertRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	s.withSession(w, r, func(sess *session.Session) (bool, error) {
		pos := position(body.Position)
		if body.Node != nil {
			return sess.Insert(body.Node, body.ParentID, pos), nil
		}
		id, err := sess.InsertNew(body.Type, body.ParentID, pos)
		return id != "", err
	})
}

func (s *Server) updateBlock(w http.ResponseWriter, r *http.Request) {
	var body patchRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	nodeID := chi.URLParam(r, "nodeID")
	s.withSession(w, r, func(sess *session.Session) (bool, error) {
		return sess.Update(nodeID, tree.Patch{
			Type:     body.Type,
			Settings: body.Settings,
			Children: body.Children,
			Locked:   body.Locked,
			Hidden:   body.Hidden,
		}), nil
	})
}

func (s *Server) removeBlock(w http.ResponseWriter, r *http.Request) {
	nodeID := chi.URLParam(r, "nodeID")
	s.withSession(w, r, func(sess *session.Session) (bool, error) {
		return sess.Remove(nodeID), nil
	})
}

func (s *Server) moveBlock(w http.ResponseWriter, r *http.Request) {
	var body moveRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	nodeID := chi.URLParam(r, "nodeID")
	s.withSession(w, r, func(sess *session.Session) (bool, error) {
		return sess.Move(nodeID, body.ParentID, position(body.Position)), nil
	})
}

func (s *Server) duplicateBlock(w http.ResponseWriter, r *http.Request) {
	nodeID := chi.URLParam(r, "nodeID")
	s.withSession(w, r, func(sess *session.Session) (bool, error) {
		return sess.Duplicate(nodeID), nil
	})
}

func (s *Server) commitDrop(w http.ResponseWriter, r *http.Request) {
	var body dropRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	payload := drop.Payload{
		BlockType: body.Payload.BlockType,
		NodeID:    body.Payload.NodeID,
	}
	switch body.Payload.Kind {
	case "create":
		payload.Kind = drop.Create
	case "relocate":
		payload.Kind = drop.Relocate
	default:
		http.Error(w, "Invalid payload kind", http.StatusBadRequest)
		return
	}

	s.withSession(w, r, func(sess *session.Session) (bool, error) {
		resolver := drop.NewResolver(sess.Document(), body.Canvas, body.Slots)
		start := time.Now()
		target, ok := resolver.Resolve(payload, body.X, body.Y)
		s.Metrics.ObserveResolve(time.Since(start))
		if !ok {
			// Canceled or outside any valid slot: clean no-op.
			return false, nil
		}
		return sess.CommitDrop(target)
	})
}

func (s *Server) undo(w http.ResponseWriter, r *http.Request) {
	s.withSession(w, r, func(sess *session.Session) (bool, error) {
		return sess.Undo(), nil
	})
}

func (s *Server) redo(w http.ResponseWriter, r *http.Request) {
	s.withSession(w, r, func(sess *session.Session) (bool, error) {
		return sess.Redo(), nil
	})
}

func (s *Server) save(w http.ResponseWriter, r *http.Request) {
	docID := chi.URLParam(r, "docID")
	if err := s.Manager.Save(r.Context(), docID); err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, domain.ErrDocumentNotFound) {
			status = http.StatusNotFound
		}
		http.Error(w, fmt.Sprintf("Save error: %v", err), status)
		slog.Error("Save failed", "doc_id", docID, "error", err)
		return
	}
	sess, err := s.Manager.Open(r.Context(), docID)
	if err != nil {
		http.Error(w, fmt.Sprintf("Open error: %v", err), http.StatusInternalServerError)
		return
	}
	writeJSON(w, snapshotState(sess, true))
}

func (s *Server) setSelection(w http.ResponseWriter, r *http.Request) {
	var body selectionRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	s.withSession(w, r, func(sess *session.Session) (bool, error) {
		sess.Select(body.NodeID)
		return true, nil
	})
}

// withSession opens the session for the request's document, runs fn
// under the per-document lock and writes the resulting session state.
func (s *Server) withSession(w http.ResponseWriter, r *http.Request, fn func(*session.Session) (bool, error)) {
	docID := chi.URLParam(r, "docID")
	sess, err := s.Manager.OpenOrCreate(r.Context(), docID)
	if err != nil {
		http.Error(w, fmt.Sprintf("Open error: %v", err), http.StatusInternalServerError)
		slog.Error("Open failed", "doc_id", docID, "error", err)
		return
	}

	var changed bool
	err = s.Manager.WithLock(r.Context(), docID, func(context.Context) error {
		var opErr error
		changed, opErr = fn(sess)
		return opErr
	})
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, domain.ErrUnknownBlockType) {
			status = http.StatusBadRequest
		}
		http.Error(w, fmt.Sprintf("Operation error: %v", err), status)
		slog.Error("Operation failed", "doc_id", docID, "error", err)
		return
	}

	writeJSON(w, snapshotState(sess, changed))
}

func snapshotState(sess *session.Session, changed bool) SessionState {
	canUndo, canRedo := sess.History()
	return SessionState{
		Document: sess.Document(),
		Dirty:    sess.Dirty(),
		Selected: sess.Selected(),
		CanUndo:  canUndo,
		CanRedo:  canRedo,
		Changed:  changed,
	}
}

func position(p *int) int {
	if p == nil {
		return tree.EndPosition
	}
	return *p
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("Response encode failed", "error", err)
	}
}
