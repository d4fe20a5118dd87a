// ABOUTME: Bridge connecting the sync repository to the Bubble Tea message loop.
// ABOUTME: Provides tea.Cmd factories for snapshots, notices, and repository mutations.
package tui

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/2389-research/wishweaver/board"
	"github.com/2389-research/wishweaver/repo"
)

// opTimeout bounds each repository round trip started from a key press.
const opTimeout = 30 * time.Second

// WaitForSnapshotCmd returns a tea.Cmd that blocks on the repository's
// snapshot channel and re-arms after each message via the Update loop.
func WaitForSnapshotCmd(ch chan []board.Card) tea.Cmd {
	return func() tea.Msg {
		cards, ok := <-ch
		if !ok {
			return nil // repository closed
		}
		return SnapshotMsg{Cards: cards}
	}
}

// WaitForNoticeCmd returns a tea.Cmd that blocks on the repository's notice
// channel.
func WaitForNoticeCmd(ch chan repo.Notice) tea.Cmd {
	return func() tea.Msg {
		n, ok := <-ch
		if !ok {
			return nil
		}
		return NoticeMsg{Notice: n}
	}
}

// CreateCardCmd submits a new card draft.
func CreateCardCmd(r *repo.Repository, draft board.Draft) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
		defer cancel()
		_, err := r.Create(ctx, draft)
		return OpResultMsg{Op: "create", Err: err}
	}
}

// ReactCmd records a reaction on a card.
func ReactCmd(r *repo.Repository, cardID string, kind board.ReactionKind) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
		defer cancel()
		return OpResultMsg{Op: "react", Err: r.React(ctx, cardID, kind)}
	}
}

// DeleteCardCmd removes a card.
func DeleteCardCmd(r *repo.Repository, cardID string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
		defer cancel()
		return OpResultMsg{Op: "delete", Err: r.Delete(ctx, cardID)}
	}
}

// RequestPoemCmd runs the poem generation flow for a card.
func RequestPoemCmd(r *repo.Repository, cardID string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
		defer cancel()
		return PoemResultMsg{CardID: cardID, Err: r.RequestPoem(ctx, cardID)}
	}
}
