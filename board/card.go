// ABOUTME: Card is a single wish/memory entry with text, author, position, style, and reactions.
// ABOUTME: Cards are the primary content units on a wishweaver board.
package board

import (
	"errors"
	"time"
)

// ReactionKind identifies one of the supported reactions on a card.
type ReactionKind string

const (
	ReactionLove        ReactionKind = "love"
	ReactionCelebration ReactionKind = "celebration"
)

// ReactionKinds returns all supported reaction kinds in display order.
func ReactionKinds() []ReactionKind {
	return []ReactionKind{ReactionLove, ReactionCelebration}
}

// Position is a card's location in free-form canvas coordinates.
type Position struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Style holds presentation attributes for a card. The sync engine passes
// these through unchanged.
type Style struct {
	Background string `json:"background,omitempty"`
	TextColor  string `json:"textColor,omitempty"`
	FontFamily string `json:"fontFamily,omitempty"`
}

// Card is a wish/memory entry on the board. JSON field names match the
// document-store wire format.
type Card struct {
	ID        string                    `json:"id"`
	Name      string                    `json:"name"`
	Text      string                    `json:"wish"`
	OwnerID   string                    `json:"userId,omitempty"`
	ImageURL  string                    `json:"imageUrl,omitempty"`
	Poem      string                    `json:"poem,omitempty"`
	CreatedAt time.Time                 `json:"createdAt"`
	Position  Position                  `json:"position"`
	Style     Style                     `json:"style"`
	Reactions map[ReactionKind]int      `json:"reactions"`
	ReactedBy map[ReactionKind][]string `json:"reactedUserIds,omitempty"`
}

// NewReactions returns a reaction count map with every kind at zero.
func NewReactions() map[ReactionKind]int {
	m := make(map[ReactionKind]int, len(ReactionKinds()))
	for _, k := range ReactionKinds() {
		m[k] = 0
	}
	return m
}

// Clone returns a deep copy of the card. Snapshots taken for optimistic
// rollback must be value copies, never live references, or a rollback would
// restore post-mutation state.
func (c Card) Clone() Card {
	out := c
	if c.Reactions != nil {
		out.Reactions = make(map[ReactionKind]int, len(c.Reactions))
		for k, v := range c.Reactions {
			out.Reactions[k] = v
		}
	}
	if c.ReactedBy != nil {
		out.ReactedBy = make(map[ReactionKind][]string, len(c.ReactedBy))
		for k, ids := range c.ReactedBy {
			cp := make([]string, len(ids))
			copy(cp, ids)
			out.ReactedBy[k] = cp
		}
	}
	return out
}

// HasReacted reports whether actorID already holds a reaction of the given
// kind on the card.
func (c Card) HasReacted(kind ReactionKind, actorID string) bool {
	for _, id := range c.ReactedBy[kind] {
		if id == actorID {
			return true
		}
	}
	return false
}

// Draft is the user-supplied portion of a new card. The repository fills in
// id, timestamp, position, and reaction state.
type Draft struct {
	Name     string
	Text     string
	ImageURL string
	Style    Style
	OwnerID  string
}

var (
	ErrEmptyText = errors.New("card text is required")
	ErrEmptyName = errors.New("card author name is required")
)

// Validate checks that the draft carries the fields a card cannot be created
// without. Rejecting here happens before any state is mutated.
func (d Draft) Validate() error {
	if d.Text == "" {
		return ErrEmptyText
	}
	if d.Name == "" {
		return ErrEmptyName
	}
	return nil
}
