// ABOUTME: Tests for the initial placement algorithm's bounds guarantees.
// ABOUTME: Positions must stay within the visible viewport at the moment of creation.
package board_test

import (
	"math/rand"
	"testing"

	"github.com/2389-research/wishweaver/board"
)

func TestPlacePositionWithinBounds(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	vp := board.Viewport{Width: 1280, Height: 800}

	for i := 0; i < 1000; i++ {
		pos := board.PlacePosition(rng, vp)
		if pos.X < 0 || pos.X > vp.Width-board.CardWidth {
			t.Fatalf("x out of bounds: %f", pos.X)
		}
		if pos.Y < board.TopMargin || pos.Y > vp.Height-board.CardHeight {
			t.Fatalf("y out of bounds: %f", pos.Y)
		}
	}
}

func TestPlacePositionSpreadsCards(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	first := board.PlacePosition(rng, board.DefaultViewport)
	second := board.PlacePosition(rng, board.DefaultViewport)
	if first == second {
		t.Errorf("consecutive placements coincide at %+v", first)
	}
}

func TestPlacePositionTinyViewport(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	pos := board.PlacePosition(rng, board.Viewport{Width: 100, Height: 100})
	if pos.X != 0 {
		t.Errorf("x: got %f, want 0 for degenerate width", pos.X)
	}
	if pos.Y != board.TopMargin {
		t.Errorf("y: got %f, want top margin for degenerate height", pos.Y)
	}
}
