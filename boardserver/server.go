// ABOUTME: HTTP board server: the document-store contract the sync engine consumes,
// ABOUTME: with JSON CRUD per board and an SSE stream of full-board snapshots.
package boardserver

import (
	"crypto/subtle"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/2389-research/wishweaver/board"
	"github.com/2389-research/wishweaver/repo"
	"github.com/2389-research/wishweaver/sse"
	"github.com/2389-research/wishweaver/store"
)

const heartbeatInterval = 25 * time.Second

// Server serves board documents over HTTP. Every mutation broadcasts the
// board's full card list to its SSE subscribers, so clients in push mode
// always converge on server state.
type Server struct {
	docs   *DocStore
	router chi.Router

	mu     sync.Mutex
	boards map[string]*repo.Broadcaster[[]board.Card]
}

// NewServer builds a Server over the given document store. A non-empty
// authToken gates every /api route behind bearer auth.
func NewServer(docs *DocStore, authToken string) *Server {
	s := &Server{
		docs:   docs,
		boards: make(map[string]*repo.Broadcaster[[]board.Card]),
	}

	r := chi.NewRouter()
	r.Use(requestLogger)
	r.Use(middleware.Recoverer)
	if authToken != "" {
		r.Use(authMiddleware(authToken))
	}

	r.Get("/health", s.handleHealth)
	r.Route("/api/boards/{boardID}", func(r chi.Router) {
		r.Get("/cards", s.handleList)
		r.Post("/cards", s.handleCreate)
		r.Patch("/cards/{cardID}", s.handleUpdate)
		r.Delete("/cards/{cardID}", s.handleDelete)
		r.Get("/events", s.handleEvents)
	})
	s.router = r
	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleList(w http.ResponseWriter, r *http.Request) {
	boardID := chi.URLParam(r, "boardID")
	cards, err := s.docs.List(boardID)
	if err != nil {
		log.Printf("list cards board=%s: %v", boardID, err)
		writeError(w, http.StatusInternalServerError, "could not list cards")
		return
	}
	writeJSON(w, http.StatusOK, cards)
}

func (s *Server) handleCreate(w http.ResponseWriter, r *http.Request) {
	boardID := chi.URLParam(r, "boardID")
	fields, ok := decodeFields(w, r)
	if !ok {
		return
	}

	card, err := s.docs.Create(boardID, fields)
	if errors.Is(err, store.ErrServerOwnedField) {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err != nil {
		log.Printf("create card board=%s: %v", boardID, err)
		writeError(w, http.StatusInternalServerError, "could not create card")
		return
	}

	s.broadcastBoard(boardID)
	writeJSON(w, http.StatusCreated, store.Created{ID: card.ID, CreatedAt: card.CreatedAt})
}

func (s *Server) handleUpdate(w http.ResponseWriter, r *http.Request) {
	boardID := chi.URLParam(r, "boardID")
	cardID := chi.URLParam(r, "cardID")
	fields, ok := decodeFields(w, r)
	if !ok {
		return
	}

	err := s.docs.Update(boardID, cardID, fields)
	switch {
	case errors.Is(err, store.ErrServerOwnedField):
		writeError(w, http.StatusBadRequest, err.Error())
		return
	case errors.Is(err, ErrCardNotFound):
		writeError(w, http.StatusNotFound, "card not found")
		return
	case err != nil:
		log.Printf("update card board=%s card=%s: %v", boardID, cardID, err)
		writeError(w, http.StatusInternalServerError, "could not update card")
		return
	}

	s.broadcastBoard(boardID)
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleDelete(w http.ResponseWriter, r *http.Request) {
	boardID := chi.URLParam(r, "boardID")
	cardID := chi.URLParam(r, "cardID")

	err := s.docs.Delete(boardID, cardID)
	switch {
	case errors.Is(err, ErrCardNotFound):
		writeError(w, http.StatusNotFound, "card not found")
		return
	case err != nil:
		log.Printf("delete card board=%s card=%s: %v", boardID, cardID, err)
		writeError(w, http.StatusInternalServerError, "could not delete card")
		return
	}

	s.broadcastBoard(boardID)
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// handleEvents streams full-board snapshots. The initial snapshot is sent
// immediately so late subscribers converge without waiting for a mutation.
func (s *Server) handleEvents(w http.ResponseWriter, r *http.Request) {
	boardID := chi.URLParam(r, "boardID")

	sw, err := sse.NewWriter(w)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "streaming unsupported")
		return
	}

	ch := s.broadcaster(boardID).Subscribe()
	defer s.broadcaster(boardID).Unsubscribe(ch)

	cards, err := s.docs.List(boardID)
	if err != nil {
		log.Printf("events initial snapshot board=%s: %v", boardID, err)
		return
	}
	if err := sendSnapshot(sw, cards); err != nil {
		return
	}

	ticker := time.NewTicker(heartbeatInterval)
	defer ticker.Stop()
	for {
		select {
		case <-r.Context().Done():
			return
		case snapshot, ok := <-ch:
			if !ok {
				return
			}
			if err := sendSnapshot(sw, snapshot); err != nil {
				return
			}
		case <-ticker.C:
			if err := sw.Heartbeat(); err != nil {
				return
			}
		}
	}
}

func (s *Server) broadcaster(boardID string) *repo.Broadcaster[[]board.Card] {
	s.mu.Lock()
	defer s.mu.Unlock()
	b, ok := s.boards[boardID]
	if !ok {
		b = repo.NewBroadcaster[[]board.Card]()
		s.boards[boardID] = b
	}
	return b
}

func (s *Server) broadcastBoard(boardID string) {
	cards, err := s.docs.List(boardID)
	if err != nil {
		log.Printf("broadcast snapshot board=%s: %v", boardID, err)
		return
	}
	s.broadcaster(boardID).Broadcast(cards)
}

func sendSnapshot(sw *sse.Writer, cards []board.Card) error {
	data, err := json.Marshal(cards)
	if err != nil {
		return err
	}
	return sw.Send(sse.Event{Type: "snapshot", Data: string(data)})
}

func decodeFields(w http.ResponseWriter, r *http.Request) (map[string]any, bool) {
	var fields map[string]any
	if err := json.NewDecoder(r.Body).Decode(&fields); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return nil, false
	}
	return fields, true
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// authMiddleware validates bearer tokens on /api routes. Health checks pass
// through unprotected.
func authMiddleware(token string) func(http.Handler) http.Handler {
	expected := "Bearer " + token
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !strings.HasPrefix(r.URL.Path, "/api/") {
				next.ServeHTTP(w, r)
				return
			}
			auth := r.Header.Get("Authorization")
			if subtle.ConstantTimeCompare([]byte(auth), []byte(expected)) == 1 {
				next.ServeHTTP(w, r)
				return
			}
			writeError(w, http.StatusUnauthorized, "unauthorized")
		})
	}
}
