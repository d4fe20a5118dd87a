// ABOUTME: In-memory Remote implementation with failure injection and push fan-out.
// ABOUTME: Serves tests and the TUI's offline mode; mirrors the real store's contract exactly.
package store

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/2389-research/wishweaver/board"
)

// MemoryStore is a thread-safe in-process document store. Every mutation
// pushes a full snapshot to subscribers, like the real store's live mode.
type MemoryStore struct {
	mu      sync.Mutex
	cards   map[string]board.Card
	subs    map[int]func([]board.Card)
	nextSub int
	now     func() time.Time

	// Failure injection for tests. When set, the matching operation returns
	// the error instead of mutating state.
	FailList   error
	FailCreate error
	FailUpdate error
}

// NewMemoryStore creates an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		cards: make(map[string]board.Card),
		subs:  make(map[int]func([]board.Card)),
		now:   func() time.Time { return time.Now().UTC() },
	}
}

// SetClock replaces the timestamp source. Tests use this to pin createdAt.
func (s *MemoryStore) SetClock(now func() time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.now = now
}

// List returns all cards newest-first by creation time.
func (s *MemoryStore) List(ctx context.Context) ([]board.Card, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.FailList != nil {
		return nil, s.FailList
	}
	return s.snapshotLocked(), nil
}

// Create stores the card under a fresh server id with a server timestamp.
func (s *MemoryStore) Create(ctx context.Context, card board.Card) (Created, error) {
	s.mu.Lock()
	if s.FailCreate != nil {
		err := s.FailCreate
		s.mu.Unlock()
		return Created{}, err
	}
	stored := card.Clone()
	stored.ID = uuid.NewString()
	stored.CreatedAt = s.now()
	s.cards[stored.ID] = stored
	created := Created{ID: stored.ID, CreatedAt: stored.CreatedAt}
	s.fanOutLocked()
	s.mu.Unlock()
	return created, nil
}

// Update applies a partial field update. Unknown ids and server-owned
// fields are rejected.
func (s *MemoryStore) Update(ctx context.Context, id string, fields map[string]any) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.FailUpdate != nil {
		return s.FailUpdate
	}
	if err := RejectServerOwned(fields); err != nil {
		return err
	}
	card, ok := s.cards[id]
	if !ok {
		return fmt.Errorf("card %q not found", id)
	}
	merged, err := mergeFields(card, fields)
	if err != nil {
		return err
	}
	s.cards[id] = merged
	s.fanOutLocked()
	return nil
}

// Delete removes a card. Deleting an unknown id is a no-op.
func (s *MemoryStore) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.cards, id)
	s.fanOutLocked()
	return nil
}

// Subscribe registers a snapshot callback and immediately delivers the
// current state. Push delivery runs on the caller's mutating goroutine.
func (s *MemoryStore) Subscribe(ctx context.Context, onSnapshot func([]board.Card), onError func(error)) (func(), error) {
	s.mu.Lock()
	key := s.nextSub
	s.nextSub++
	s.subs[key] = onSnapshot
	initial := s.snapshotLocked()
	s.mu.Unlock()

	onSnapshot(initial)

	cancel := func() {
		s.mu.Lock()
		delete(s.subs, key)
		s.mu.Unlock()
	}
	return cancel, nil
}

// Get returns a stored card by id. Test helper.
func (s *MemoryStore) Get(id string) (board.Card, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.cards[id]
	return c.Clone(), ok
}

// Len returns the number of stored cards. Test helper.
func (s *MemoryStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.cards)
}

func (s *MemoryStore) snapshotLocked() []board.Card {
	out := make([]board.Card, 0, len(s.cards))
	for _, c := range s.cards {
		out = append(out, c.Clone())
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].ID > out[j].ID
	})
	return out
}

func (s *MemoryStore) fanOutLocked() {
	snap := s.snapshotLocked()
	for _, fn := range s.subs {
		fn(snap)
	}
}

// mergeFields overlays a partial wire-format payload onto an existing card.
func mergeFields(card board.Card, fields map[string]any) (board.Card, error) {
	raw, err := json.Marshal(card)
	if err != nil {
		return board.Card{}, fmt.Errorf("marshal existing card: %w", err)
	}
	var merged map[string]any
	if err := json.Unmarshal(raw, &merged); err != nil {
		return board.Card{}, fmt.Errorf("unmarshal existing card: %w", err)
	}
	for k, v := range fields {
		merged[k] = v
	}
	raw, err = json.Marshal(merged)
	if err != nil {
		return board.Card{}, fmt.Errorf("marshal merged card: %w", err)
	}
	var out board.Card
	if err := json.Unmarshal(raw, &out); err != nil {
		return board.Card{}, fmt.Errorf("unmarshal merged card: %w", err)
	}
	return out, nil
}
