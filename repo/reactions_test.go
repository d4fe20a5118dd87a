// ABOUTME: Tests for the reaction ledger's at-most-once invariant and its edge cases.
// ABOUTME: Counts must always equal the size of the corresponding reacted-by set.
package repo_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/2389-research/wishweaver/board"
	"github.com/2389-research/wishweaver/repo"
)

func TestReactIdempotence(t *testing.T) {
	remote := &stubRemote{}
	r := loadOneCard(t, remote)

	if err := r.ReactAs(context.Background(), "abc", board.ReactionLove, "actorA"); err != nil {
		t.Fatalf("first react: %v", err)
	}
	err := r.ReactAs(context.Background(), "abc", board.ReactionLove, "actorA")
	if !errors.Is(err, repo.ErrDuplicateReaction) {
		t.Fatalf("second react: got %v, want ErrDuplicateReaction", err)
	}

	card := findCard(t, r, "abc")
	if card.Reactions[board.ReactionLove] != 1 {
		t.Errorf("reactions.love: got %d, want 1", card.Reactions[board.ReactionLove])
	}
	reacted := card.ReactedBy[board.ReactionLove]
	if len(reacted) != 1 || reacted[0] != "actorA" {
		t.Errorf("reactedBy.love: got %v, want [actorA]", reacted)
	}
	// The duplicate was a no-op, so only one remote write happened.
	if calls := remote.updateCalls(); len(calls) != 1 {
		t.Errorf("remote writes: got %d, want 1", len(calls))
	}
}

func TestReactDistinctActorsAndKinds(t *testing.T) {
	remote := &stubRemote{}
	r := loadOneCard(t, remote)
	ctx := context.Background()

	if err := r.ReactAs(ctx, "abc", board.ReactionLove, "actorA"); err != nil {
		t.Fatalf("react A: %v", err)
	}
	if err := r.ReactAs(ctx, "abc", board.ReactionLove, "actorB"); err != nil {
		t.Fatalf("react B: %v", err)
	}
	if err := r.ReactAs(ctx, "abc", board.ReactionCelebration, "actorA"); err != nil {
		t.Fatalf("react A celebration: %v", err)
	}

	card := findCard(t, r, "abc")
	if card.Reactions[board.ReactionLove] != 2 {
		t.Errorf("love: got %d, want 2", card.Reactions[board.ReactionLove])
	}
	if card.Reactions[board.ReactionCelebration] != 1 {
		t.Errorf("celebration: got %d, want 1", card.Reactions[board.ReactionCelebration])
	}
	for _, kind := range board.ReactionKinds() {
		if card.Reactions[kind] != len(card.ReactedBy[kind]) {
			t.Errorf("%s: count %d != set size %d", kind, card.Reactions[kind], len(card.ReactedBy[kind]))
		}
	}
}

func TestReactWithoutIdentityRejectedBeforeMutation(t *testing.T) {
	remote := &stubRemote{}
	r := loadOneCard(t, remote)

	err := r.ReactAs(context.Background(), "abc", board.ReactionLove, "")
	if !errors.Is(err, repo.ErrNoIdentity) {
		t.Fatalf("got %v, want ErrNoIdentity", err)
	}
	card := findCard(t, r, "abc")
	if card.Reactions[board.ReactionLove] != 0 {
		t.Errorf("state mutated without identity: %v", card.Reactions)
	}
	if calls := remote.updateCalls(); len(calls) != 0 {
		t.Errorf("remote write attempted without identity")
	}
}

func TestReactUnknownCard(t *testing.T) {
	r := newTestRepo(t, &stubRemote{})
	err := r.ReactAs(context.Background(), "ghost", board.ReactionLove, "actorA")
	if !errors.Is(err, repo.ErrNotFound) {
		t.Errorf("got %v, want ErrNotFound", err)
	}
}

func TestReactUsesRepositoryIdentity(t *testing.T) {
	remote := &stubRemote{}
	r := loadOneCard(t, remote) // newTestRepo sets identity "actor-1"

	if err := r.React(context.Background(), "abc", board.ReactionLove); err != nil {
		t.Fatalf("React: %v", err)
	}
	card := findCard(t, r, "abc")
	reacted := card.ReactedBy[board.ReactionLove]
	if len(reacted) != 1 || reacted[0] != "actor-1" {
		t.Errorf("reactedBy: got %v, want [actor-1]", reacted)
	}
}

func TestReactRollbackOnRemoteFailure(t *testing.T) {
	remote := &stubRemote{
		updateFn: func(ctx context.Context, id string, fields map[string]any) error {
			return errors.New("write rejected")
		},
	}
	r := loadOneCard(t, remote)

	err := r.ReactAs(context.Background(), "abc", board.ReactionLove, "actorA")
	if err == nil || errors.Is(err, repo.ErrDuplicateReaction) {
		t.Fatalf("got %v, want remote failure", err)
	}

	card := findCard(t, r, "abc")
	if card.Reactions[board.ReactionLove] != 0 {
		t.Errorf("reaction survived rollback: %v", card.Reactions)
	}
	if card.HasReacted(board.ReactionLove, "actorA") {
		t.Error("reactedBy survived rollback")
	}

	// After the rollback the actor can react again.
	remote.updateFn = nil
	if err := r.ReactAs(context.Background(), "abc", board.ReactionLove, "actorA"); err != nil {
		t.Errorf("retry after rollback: %v", err)
	}
}

func TestReactCardWithLegacyNilSets(t *testing.T) {
	remote := &stubRemote{
		listFn: func(ctx context.Context) ([]board.Card, error) {
			// A card written by an older client: bare counters, no sets.
			return []board.Card{{ID: "abc", Text: "x", CreatedAt: time.Now()}}, nil
		},
	}
	r := newTestRepo(t, remote)
	if err := r.Load(context.Background()); err != nil {
		t.Fatalf("Load: %v", err)
	}

	if err := r.ReactAs(context.Background(), "abc", board.ReactionLove, "actorA"); err != nil {
		t.Fatalf("react: %v", err)
	}
	card := findCard(t, r, "abc")
	if card.Reactions[board.ReactionLove] != 1 {
		t.Errorf("love: got %d", card.Reactions[board.ReactionLove])
	}
	if !card.HasReacted(board.ReactionLove, "actorA") {
		t.Error("actor missing from reactedBy")
	}
}
