// ABOUTME: Top-level Bubble Tea AppModel for the wish board: card list, detail panel,
// ABOUTME: compose form, reaction and move keys. Implements tea.Model (Init, Update, View).
package tui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/2389-research/wishweaver/board"
	"github.com/2389-research/wishweaver/repo"
)

// moveStep is how far one key press nudges a card, in board pixels.
const moveStep = 20

// AppModel is the top-level Bubble Tea model for the board browser.
type AppModel struct {
	repo      *repo.Repository
	snapshots chan []board.Card
	notices   chan repo.Notice

	cards     []board.Card
	cursor    int
	composing bool
	compose   ComposeModel

	notice      string
	noticeLevel repo.NoticeLevel

	width  int
	height int
}

// NewAppModel creates an AppModel subscribed to the repository's snapshot and
// notice streams. The caller owns the repository's lifecycle.
func NewAppModel(r *repo.Repository) AppModel {
	return AppModel{
		repo:      r,
		snapshots: r.Subscribe(),
		notices:   r.Notices(),
		cards:     r.Cards(),
		compose:   NewComposeModel(),
	}
}

// Init implements tea.Model.
func (m AppModel) Init() tea.Cmd {
	return tea.Batch(
		WaitForSnapshotCmd(m.snapshots),
		WaitForNoticeCmd(m.notices),
	)
}

// Update implements tea.Model.
func (m AppModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case SnapshotMsg:
		m.cards = msg.Cards
		if m.cursor >= len(m.cards) {
			m.cursor = len(m.cards) - 1
		}
		if m.cursor < 0 {
			m.cursor = 0
		}
		return m, WaitForSnapshotCmd(m.snapshots)

	case NoticeMsg:
		m.notice = msg.Notice.Message
		m.noticeLevel = msg.Notice.Level
		return m, WaitForNoticeCmd(m.notices)

	case OpResultMsg, PoemResultMsg:
		// Failures already arrive as notices; nothing further to do.
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	return m, nil
}

func (m AppModel) handleKey(key tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.composing {
		return m.handleComposeKey(key)
	}

	switch key.String() {
	case "q", "ctrl+c":
		m.repo.FlushMoves()
		return m, tea.Quit

	case "j", "down":
		if m.cursor < len(m.cards)-1 {
			m.cursor++
		}
		return m, nil
	case "k", "up":
		if m.cursor > 0 {
			m.cursor--
		}
		return m, nil

	case "n":
		m.composing = true
		m.compose = m.compose.Reset()
		return m, nil

	case "l":
		if card, ok := m.selected(); ok {
			return m, ReactCmd(m.repo, card.ID, board.ReactionLove)
		}
	case "c":
		if card, ok := m.selected(); ok {
			return m, ReactCmd(m.repo, card.ID, board.ReactionCelebration)
		}
	case "p":
		if card, ok := m.selected(); ok {
			return m, RequestPoemCmd(m.repo, card.ID)
		}
	case "x":
		if card, ok := m.selected(); ok {
			return m, DeleteCardCmd(m.repo, card.ID)
		}

	case "shift+up", "shift+down", "shift+left", "shift+right":
		if card, ok := m.selected(); ok {
			m.nudge(card, key.String())
		}
		return m, nil
	}

	return m, nil
}

func (m AppModel) handleComposeKey(key tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch key.String() {
	case "esc":
		m.composing = false
		return m, nil
	case "enter":
		var ok bool
		m.compose, ok = m.compose.Validate()
		if !ok {
			return m, nil
		}
		draft := m.compose.Draft()
		m.composing = false
		m.compose = m.compose.Reset()
		return m, CreateCardCmd(m.repo, draft)
	}

	var cmd tea.Cmd
	m.compose, cmd = m.compose.Update(key)
	return m, cmd
}

// nudge schedules a debounced move for the card; the local position updates
// immediately via the snapshot stream.
func (m AppModel) nudge(card board.Card, key string) {
	pos := card.Position
	switch key {
	case "shift+up":
		pos.Y -= moveStep
	case "shift+down":
		pos.Y += moveStep
	case "shift+left":
		pos.X -= moveStep
	case "shift+right":
		pos.X += moveStep
	}
	m.repo.Move(card.ID, pos)
}

func (m AppModel) selected() (board.Card, bool) {
	if m.cursor < 0 || m.cursor >= len(m.cards) {
		return board.Card{}, false
	}
	return m.cards[m.cursor], true
}

// View implements tea.Model.
func (m AppModel) View() string {
	if m.width == 0 || m.height == 0 {
		return "Initializing..."
	}
	if m.width < 40 || m.height < 10 {
		return fmt.Sprintf("Terminal too small (%dx%d). Minimum: 40x10.", m.width, m.height)
	}

	if m.composing {
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, m.compose.View())
	}

	footerHeight := 2
	bodyHeight := m.height - footerHeight
	listWidth := m.width * 40 / 100
	if listWidth < 20 {
		listWidth = 20
	}
	detailWidth := m.width - listWidth

	list := m.renderList(listWidth-2, bodyHeight-2)
	detail := m.renderDetail(detailWidth-2, bodyHeight-2)

	body := lipgloss.JoinHorizontal(lipgloss.Top,
		BorderStyle.Width(listWidth-2).Height(bodyHeight-2).Render(list),
		BorderStyle.Width(detailWidth-2).Height(bodyHeight-2).Render(detail),
	)
	return lipgloss.JoinVertical(lipgloss.Left, body, m.renderFooter())
}

func (m AppModel) renderList(width, height int) string {
	var b strings.Builder
	b.WriteString(TitleStyle.Render("Wishes"))
	b.WriteString("\n")

	if len(m.cards) == 0 {
		b.WriteString(HelpStyle.Render("No wishes yet. Press n to make one."))
		return b.String()
	}

	visible := height - 2
	if visible < 1 {
		visible = 1
	}
	start := 0
	if m.cursor >= visible {
		start = m.cursor - visible + 1
	}

	for i := start; i < len(m.cards) && i < start+visible; i++ {
		card := m.cards[i]
		line := card.Text
		if card.Name != "" {
			line = card.Name + ": " + line
		}
		line = truncate(line, width-2)

		style := CardStyle
		if board.IsPlaceholderID(card.ID) {
			style = PendingCardStyle
		}
		if i == m.cursor {
			b.WriteString(SelectedCardStyle.Render("▸ " + line))
		} else {
			b.WriteString(style.Render("  " + line))
		}
		b.WriteString("\n")
	}
	return b.String()
}

func (m AppModel) renderDetail(width, _ int) string {
	card, ok := m.selected()
	if !ok {
		return ""
	}

	var b strings.Builder
	b.WriteString(TitleStyle.Render("Wish"))
	b.WriteString("\n\n")
	b.WriteString(ValueStyle.Render(wrap(card.Text, width)))
	b.WriteString("\n\n")

	if card.Name != "" {
		b.WriteString(LabelStyle.Render("From"))
		b.WriteString(ValueStyle.Render(card.Name))
		b.WriteString("\n")
	}
	if !card.CreatedAt.IsZero() {
		b.WriteString(LabelStyle.Render("When"))
		b.WriteString(ValueStyle.Render(card.CreatedAt.Local().Format("Jan 2 15:04")))
		b.WriteString("\n")
	}
	b.WriteString(LabelStyle.Render("At"))
	b.WriteString(ValueStyle.Render(fmt.Sprintf("%.0f, %.0f", card.Position.X, card.Position.Y)))
	b.WriteString("\n")

	if n := card.Reactions[board.ReactionLove] + card.Reactions[board.ReactionCelebration]; n > 0 {
		b.WriteString(LabelStyle.Render("Hearts"))
		b.WriteString(ReactionStyle.Render(reactionSummary(card)))
		b.WriteString("\n")
	}

	if card.Poem != "" {
		b.WriteString("\n")
		b.WriteString(PoemStyle.Render(card.Poem))
		b.WriteString("\n")
	}

	if board.IsPlaceholderID(card.ID) {
		b.WriteString("\n")
		b.WriteString(PendingCardStyle.Render("saving..."))
	}
	return b.String()
}

func (m AppModel) renderFooter() string {
	help := HelpStyle.Render("n new · l love · c celebrate · p poem · x delete · shift+arrows move · q quit")
	if m.notice == "" {
		return help
	}
	style := NoticeInfoStyle
	if m.noticeLevel == repo.NoticeError {
		style = NoticeErrorStyle
	}
	return lipgloss.JoinVertical(lipgloss.Left, style.Render(m.notice), help)
}

func reactionSummary(card board.Card) string {
	var parts []string
	if n := card.Reactions[board.ReactionLove]; n > 0 {
		parts = append(parts, fmt.Sprintf("❤ %d", n))
	}
	if n := card.Reactions[board.ReactionCelebration]; n > 0 {
		parts = append(parts, fmt.Sprintf("🎉 %d", n))
	}
	return strings.Join(parts, "  ")
}

func truncate(s string, max int) string {
	if max < 1 {
		return ""
	}
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	if max == 1 {
		return "…"
	}
	return string(r[:max-1]) + "…"
}

func wrap(s string, width int) string {
	if width < 1 {
		return s
	}
	words := strings.Fields(s)
	var b strings.Builder
	line := 0
	for i, w := range words {
		if line > 0 && line+1+len([]rune(w)) > width {
			b.WriteString("\n")
			line = 0
		} else if i > 0 {
			b.WriteString(" ")
			line++
		}
		b.WriteString(w)
		line += len([]rune(w))
	}
	return b.String()
}
