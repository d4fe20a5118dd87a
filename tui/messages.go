// ABOUTME: Bubble Tea message types used in the TUI message loop.
// ABOUTME: Each type wraps repository events for the tea.Msg interface (which is interface{}).
package tui

import (
	"github.com/2389-research/wishweaver/board"
	"github.com/2389-research/wishweaver/repo"
)

// SnapshotMsg carries the repository's current card list after any mutation
// or remote push.
type SnapshotMsg struct {
	Cards []board.Card
}

// NoticeMsg wraps a user-facing repository notice for display in the footer.
type NoticeMsg struct {
	Notice repo.Notice
}

// OpResultMsg signals that a repository operation started from the TUI has
// finished. Err is nil on success; failures are also surfaced as notices, so
// the model mostly ignores this beyond clearing busy state.
type OpResultMsg struct {
	Op  string
	Err error
}

// PoemResultMsg signals that a poem generation round trip has finished.
type PoemResultMsg struct {
	CardID string
	Err    error
}
