// ABOUTME: Tests for the poem attachment flow, centered on the lost-update safeguard.
// ABOUTME: An edit made while generation is in flight must survive the poem merge.
package repo_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/2389-research/wishweaver/poem"
	"github.com/2389-research/wishweaver/repo"
)

func TestRequestPoemAttachesResult(t *testing.T) {
	remote := &stubRemote{}
	gen := &poem.MockGenerator{Response: "a verse of peace"}
	r := loadOneCard(t, remote, repo.WithPoemGenerator(gen))

	if err := r.RequestPoem(context.Background(), "abc"); err != nil {
		t.Fatalf("RequestPoem: %v", err)
	}

	card := findCard(t, r, "abc")
	if card.Poem != "a verse of peace" {
		t.Errorf("poem: got %q", card.Poem)
	}
	calls := gen.Calls()
	if len(calls) != 1 || calls[0] != "x" {
		t.Errorf("generator received %v, want the card's text", calls)
	}
}

func TestRequestPoemLostUpdateSafeguard(t *testing.T) {
	enterGen := make(chan struct{})
	releaseGen := make(chan struct{})
	gen := &poem.MockGenerator{
		Fn: func(ctx context.Context, wishText string) (string, error) {
			close(enterGen)
			<-releaseGen
			return "late poem", nil
		},
	}
	remote := &stubRemote{}
	r := loadOneCard(t, remote, repo.WithPoemGenerator(gen))

	done := make(chan error, 1)
	go func() { done <- r.RequestPoem(context.Background(), "abc") }()
	<-enterGen

	// Edit the card while generation is in flight.
	edited := findCard(t, r, "abc")
	edited.Name = "Renamed"
	if err := r.Update(context.Background(), edited); err != nil {
		t.Fatalf("Update: %v", err)
	}

	close(releaseGen)
	if err := <-done; err != nil {
		t.Fatalf("RequestPoem: %v", err)
	}

	card := findCard(t, r, "abc")
	if card.Name != "Renamed" {
		t.Errorf("name: got %q, want the in-flight edit to survive", card.Name)
	}
	if card.Poem != "late poem" {
		t.Errorf("poem: got %q", card.Poem)
	}
}

func TestRequestPoemCardDeletedMidFlight(t *testing.T) {
	enterGen := make(chan struct{})
	releaseGen := make(chan struct{})
	gen := &poem.MockGenerator{
		Fn: func(ctx context.Context, wishText string) (string, error) {
			close(enterGen)
			<-releaseGen
			return "orphan poem", nil
		},
	}
	remote := &stubRemote{}
	r := loadOneCard(t, remote, repo.WithPoemGenerator(gen))

	done := make(chan error, 1)
	go func() { done <- r.RequestPoem(context.Background(), "abc") }()
	<-enterGen

	if err := r.Delete(context.Background(), "abc"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	close(releaseGen)

	// Merge onto a deleted card is a no-op, not an error.
	if err := <-done; err != nil {
		t.Errorf("RequestPoem: got %v, want nil", err)
	}
	if got := len(r.Cards()); got != 0 {
		t.Errorf("deleted card came back: %d cards", got)
	}
}

func TestRequestPoemGenerationFailure(t *testing.T) {
	gen := &poem.MockGenerator{Err: errors.New("provider down")}
	remote := &stubRemote{}
	r := loadOneCard(t, remote, repo.WithPoemGenerator(gen))
	notices := r.Notices()

	if err := r.RequestPoem(context.Background(), "abc"); err == nil {
		t.Fatal("expected generation error")
	}

	card := findCard(t, r, "abc")
	if card.Poem != "" {
		t.Errorf("card gained a poem despite failure: %q", card.Poem)
	}
	select {
	case n := <-notices:
		if n.Level != repo.NoticeError {
			t.Errorf("notice level: got %q", n.Level)
		}
	case <-time.After(time.Second):
		t.Error("no notice surfaced")
	}

	// The flow may be re-invoked manually.
	gen.Err = nil
	gen.Response = "second try"
	if err := r.RequestPoem(context.Background(), "abc"); err != nil {
		t.Fatalf("retry: %v", err)
	}
	if got := findCard(t, r, "abc").Poem; got != "second try" {
		t.Errorf("poem after retry: got %q", got)
	}
}

func TestRequestPoemWithoutGenerator(t *testing.T) {
	r := loadOneCard(t, &stubRemote{})
	if err := r.RequestPoem(context.Background(), "abc"); !errors.Is(err, repo.ErrNoGenerator) {
		t.Errorf("got %v, want ErrNoGenerator", err)
	}
}

func TestRequestPoemUnknownCard(t *testing.T) {
	r := newTestRepo(t, &stubRemote{}, repo.WithPoemGenerator(&poem.MockGenerator{Response: "x"}))
	if err := r.RequestPoem(context.Background(), "ghost"); !errors.Is(err, repo.ErrNotFound) {
		t.Errorf("got %v, want ErrNotFound", err)
	}
}
