// ABOUTME: Tests for the REST document-store client against an httptest server.
// ABOUTME: Covers CRUD round trips, bearer auth, error statuses, and the SSE subscription.
package store_test

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/2389-research/wishweaver/board"
	"github.com/2389-research/wishweaver/store"
)

func TestRESTStoreList(t *testing.T) {
	cards := []board.Card{{ID: "abc", Text: "peace"}}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet || r.URL.Path != "/api/boards/main/cards" {
			t.Errorf("unexpected request: %s %s", r.Method, r.URL.Path)
		}
		_ = json.NewEncoder(w).Encode(cards)
	}))
	defer srv.Close()

	got, err := store.NewRESTStore(srv.URL, "main").List(context.Background())
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(got) != 1 || got[0].ID != "abc" {
		t.Errorf("got %v", got)
	}
}

func TestRESTStoreCreate(t *testing.T) {
	t0 := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("method: got %s", r.Method)
		}
		var payload map[string]any
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
			t.Errorf("decode payload: %v", err)
		}
		if _, ok := payload["id"]; ok {
			t.Error("create payload should not carry id")
		}
		if _, ok := payload["createdAt"]; ok {
			t.Error("create payload should not carry createdAt")
		}
		if payload["wish"] != "peace" {
			t.Errorf("wish: got %v", payload["wish"])
		}
		w.WriteHeader(http.StatusCreated)
		_ = json.NewEncoder(w).Encode(store.Created{ID: "abc123", CreatedAt: t0})
	}))
	defer srv.Close()

	created, err := store.NewRESTStore(srv.URL, "main").Create(context.Background(), board.Card{
		ID:   board.NewPlaceholderID(),
		Name: "Ada",
		Text: "peace",
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if created.ID != "abc123" {
		t.Errorf("id: got %q", created.ID)
	}
	if !created.CreatedAt.Equal(t0) {
		t.Errorf("createdAt: got %v", created.CreatedAt)
	}
}

func TestRESTStoreUpdateSendsBearerToken(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPatch {
			t.Errorf("method: got %s", r.Method)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer sekrit" {
			t.Errorf("authorization: got %q", got)
		}
		if r.URL.Path != "/api/boards/main/cards/abc123" {
			t.Errorf("path: got %s", r.URL.Path)
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	s := store.NewRESTStore(srv.URL, "main", store.WithToken("sekrit"))
	if err := s.Update(context.Background(), "abc123", map[string]any{"wish": "joy"}); err != nil {
		t.Fatalf("Update: %v", err)
	}
}

func TestRESTStoreErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "card not found", http.StatusNotFound)
	}))
	defer srv.Close()

	err := store.NewRESTStore(srv.URL, "main").Update(context.Background(), "nope", map[string]any{"wish": "x"})
	if err == nil {
		t.Fatal("expected error for 404 response")
	}
}

func TestRESTStoreSubscribe(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/boards/main/events" {
			t.Errorf("path: got %s", r.URL.Path)
		}
		flusher := w.(http.Flusher)
		w.Header().Set("Content-Type", "text/event-stream")
		fmt.Fprint(w, "event: snapshot\ndata: []\n\n")
		flusher.Flush()
		fmt.Fprint(w, "event: snapshot\ndata: [{\"id\":\"abc\",\"wish\":\"peace\"}]\n\n")
		flusher.Flush()
	}))
	defer srv.Close()

	snapshots := make(chan []board.Card, 4)
	cancel, err := store.NewRESTStore(srv.URL, "main").Subscribe(context.Background(),
		func(cards []board.Card) { snapshots <- cards },
		func(err error) { t.Errorf("stream error: %v", err) },
	)
	if err != nil {
		t.Fatalf("Subscribe: %v", err)
	}
	defer cancel()

	first := waitSnapshot(t, snapshots)
	if len(first) != 0 {
		t.Errorf("first snapshot: got %d cards", len(first))
	}
	second := waitSnapshot(t, snapshots)
	if len(second) != 1 || second[0].ID != "abc" {
		t.Errorf("second snapshot: got %v", second)
	}
}

func waitSnapshot(t *testing.T, ch chan []board.Card) []board.Card {
	t.Helper()
	select {
	case cards := <-ch:
		return cards
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for snapshot")
		return nil
	}
}
