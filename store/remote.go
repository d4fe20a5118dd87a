// ABOUTME: Consumed contract for the remote document store holding board cards.
// ABOUTME: Defines pull (List) and optional push (Subscribe) delivery plus the partial-update payload helper.
package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/2389-research/wishweaver/board"
)

// Created is the store's answer to a create request: the server-issued id
// and the server-assigned creation timestamp.
type Created struct {
	ID        string    `json:"id"`
	CreatedAt time.Time `json:"createdAt"`
}

// Remote is the document-store contract the sync engine consumes.
// Implementations must return List results newest-first by creation time and
// must assign ids and creation timestamps server-side.
type Remote interface {
	// List fetches the full card set, newest-first.
	List(ctx context.Context) ([]board.Card, error)

	// Create stores a new card. The id and createdAt carried by the card are
	// ignored; the server assigns both and returns them.
	Create(ctx context.Context, card board.Card) (Created, error)

	// Update applies a partial field update to an existing card. Attempts to
	// set id or createdAt are rejected.
	Update(ctx context.Context, id string, fields map[string]any) error
}

// Deleter is an optional extension for stores that support card removal.
type Deleter interface {
	Delete(ctx context.Context, id string) error
}

// Subscriber is the optional push-mode extension: implementations stream
// full-state snapshots until the returned cancel function is called.
type Subscriber interface {
	Subscribe(ctx context.Context, onSnapshot func([]board.Card), onError func(error)) (cancel func(), err error)
}

// ErrServerOwnedField is returned when an update payload tries to set a
// field only the server may assign.
var ErrServerOwnedField = errors.New("id and createdAt are server-owned fields")

// serverOwnedFields may never appear in an update payload.
var serverOwnedFields = []string{"id", "createdAt"}

// Partial builds an update payload from a full card value, stripping the
// server-owned fields. The remainder is keyed by wire field names.
func Partial(card board.Card) (map[string]any, error) {
	raw, err := json.Marshal(card)
	if err != nil {
		return nil, fmt.Errorf("marshal card: %w", err)
	}
	var fields map[string]any
	if err := json.Unmarshal(raw, &fields); err != nil {
		return nil, fmt.Errorf("unmarshal card fields: %w", err)
	}
	for _, f := range serverOwnedFields {
		delete(fields, f)
	}
	return fields, nil
}

// PositionPatch builds the minimal payload for a debounced reposition write.
func PositionPatch(pos board.Position) map[string]any {
	return map[string]any{
		"position": map[string]any{"x": pos.X, "y": pos.Y},
	}
}

// RejectServerOwned validates an update payload against the server-owned
// field rule. Store implementations share this check.
func RejectServerOwned(fields map[string]any) error {
	for _, f := range serverOwnedFields {
		if _, ok := fields[f]; ok {
			return fmt.Errorf("field %q: %w", f, ErrServerOwnedField)
		}
	}
	return nil
}
