// ABOUTME: Tests for the Card domain type: deep cloning, reaction membership, draft validation.
// ABOUTME: Clone independence matters because clones serve as rollback snapshots.
package board_test

import (
	"testing"

	"github.com/2389-research/wishweaver/board"
)

func TestCloneIsIndependent(t *testing.T) {
	orig := board.Card{
		ID:        "abc",
		Name:      "Ada",
		Text:      "peace",
		Reactions: board.NewReactions(),
		ReactedBy: map[board.ReactionKind][]string{
			board.ReactionLove: {"user-1"},
		},
	}

	clone := orig.Clone()
	clone.Reactions[board.ReactionLove] = 9
	clone.ReactedBy[board.ReactionLove][0] = "user-2"
	clone.ReactedBy[board.ReactionCelebration] = []string{"user-3"}

	if orig.Reactions[board.ReactionLove] != 0 {
		t.Errorf("reactions.love: got %d, want 0", orig.Reactions[board.ReactionLove])
	}
	if orig.ReactedBy[board.ReactionLove][0] != "user-1" {
		t.Errorf("reactedBy.love[0]: got %q, want %q", orig.ReactedBy[board.ReactionLove][0], "user-1")
	}
	if _, ok := orig.ReactedBy[board.ReactionCelebration]; ok {
		t.Error("celebration set should not appear on the original")
	}
}

func TestCloneNilMaps(t *testing.T) {
	clone := board.Card{ID: "x"}.Clone()
	if clone.Reactions != nil {
		t.Error("nil reactions should stay nil")
	}
	if clone.ReactedBy != nil {
		t.Error("nil reactedBy should stay nil")
	}
}

func TestHasReacted(t *testing.T) {
	card := board.Card{
		ReactedBy: map[board.ReactionKind][]string{
			board.ReactionLove: {"a", "b"},
		},
	}
	if !card.HasReacted(board.ReactionLove, "a") {
		t.Error("a should have reacted with love")
	}
	if card.HasReacted(board.ReactionLove, "c") {
		t.Error("c should not have reacted")
	}
	if card.HasReacted(board.ReactionCelebration, "a") {
		t.Error("a should not have reacted with celebration")
	}
}

func TestNewReactionsCoversAllKinds(t *testing.T) {
	m := board.NewReactions()
	for _, k := range board.ReactionKinds() {
		count, ok := m[k]
		if !ok {
			t.Errorf("missing kind %q", k)
		}
		if count != 0 {
			t.Errorf("kind %q: got %d, want 0", k, count)
		}
	}
}

func TestDraftValidate(t *testing.T) {
	tests := []struct {
		name    string
		draft   board.Draft
		wantErr error
	}{
		{"valid", board.Draft{Name: "Ada", Text: "peace"}, nil},
		{"missing text", board.Draft{Name: "Ada"}, board.ErrEmptyText},
		{"missing name", board.Draft{Text: "peace"}, board.ErrEmptyName},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.draft.Validate(); err != tt.wantErr {
				t.Errorf("got %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestPlaceholderIDs(t *testing.T) {
	a := board.NewPlaceholderID()
	b := board.NewPlaceholderID()
	if a == b {
		t.Errorf("placeholder ids should be unique, got %q twice", a)
	}
	if !board.IsPlaceholderID(a) {
		t.Errorf("%q should be a placeholder id", a)
	}
	if board.IsPlaceholderID("abc123") {
		t.Error("server ids should not read as placeholders")
	}
}
