// ABOUTME: Reaction ledger enforcing at-most-one reaction per actor per kind per card.
// ABOUTME: Counts stay equal to the size of the corresponding reacted-by set.
package repo

import (
	"context"

	"github.com/2389-research/wishweaver/board"
)

// React registers a reaction of the given kind on behalf of the repository's
// identity. See ReactAs.
func (r *Repository) React(ctx context.Context, id string, kind board.ReactionKind) error {
	return r.ReactAs(ctx, id, kind, r.actorID)
}

// ReactAs registers a reaction for an explicit actor. If the actor already
// holds this reaction on the card, the call is a no-op reported as
// ErrDuplicateReaction: nothing was mutated, so nothing rolls back. A
// missing actor id is rejected before any mutation.
func (r *Repository) ReactAs(ctx context.Context, id string, kind board.ReactionKind, actorID string) error {
	if actorID == "" {
		r.notify(NoticeError, "Cannot react without a client identity.")
		return ErrNoIdentity
	}

	r.mu.Lock()
	slot, ok := r.slotLocked(id)
	if !ok {
		r.mu.Unlock()
		return ErrNotFound
	}
	card := r.cards[slot].Clone()
	r.mu.Unlock()

	if card.HasReacted(kind, actorID) {
		r.notify(NoticeInfo, "You already reacted to this card.")
		return ErrDuplicateReaction
	}

	if card.Reactions == nil {
		card.Reactions = board.NewReactions()
	}
	if card.ReactedBy == nil {
		card.ReactedBy = make(map[board.ReactionKind][]string)
	}
	card.Reactions[kind]++
	card.ReactedBy[kind] = append(card.ReactedBy[kind], actorID)

	return r.Update(ctx, card)
}
