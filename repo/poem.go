// ABOUTME: Poem attachment flow: generate text for a card's wish and merge it in.
// ABOUTME: The merge re-reads current card state so in-flight edits are never clobbered.
package repo

import (
	"context"
	"fmt"
)

// RequestPoem reads the card's current text, asks the generation service for
// a poem in a single round trip, and attaches the result. No retry loop:
// transient failure is surfaced once and the user may re-invoke the flow.
func (r *Repository) RequestPoem(ctx context.Context, id string) error {
	if r.gen == nil {
		return ErrNoGenerator
	}

	r.mu.Lock()
	slot, ok := r.slotLocked(id)
	if !ok {
		r.mu.Unlock()
		return ErrNotFound
	}
	text := r.cards[slot].Text
	r.mu.Unlock()

	generated, err := r.gen.Generate(ctx, text)
	if err != nil {
		r.notify(NoticeError, "Could not generate a poem at this time. Please try again later.")
		return fmt.Errorf("generate poem: %w", err)
	}

	return r.AttachPoem(ctx, id, generated)
}

// AttachPoem sets the card's poem and persists it. The current card state is
// re-read here, not the state captured when the request began: an edit made
// while generation was in flight survives the merge. If the card was
// deleted while the request was outstanding, the merge is a no-op.
func (r *Repository) AttachPoem(ctx context.Context, id string, text string) error {
	r.mu.Lock()
	slot, ok := r.slotLocked(id)
	if !ok {
		r.mu.Unlock()
		return nil
	}
	card := r.cards[slot].Clone()
	r.mu.Unlock()

	card.Poem = text
	return r.Update(ctx, card)
}
