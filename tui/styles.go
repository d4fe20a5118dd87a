// ABOUTME: Defines lipgloss style constants for the board TUI panels and footer.
package tui

import "github.com/charmbracelet/lipgloss"

var (
	// Panel borders
	BorderStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("62"))

	// Title styling
	TitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("170"))

	// Card list
	SelectedCardStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("214")).
				Bold(true)
	CardStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("252"))
	PendingCardStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("241")).
				Italic(true)

	// Detail panel labels
	LabelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241")).
			Width(10)
	ValueStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("252"))

	// Poem block
	PoemStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("75")).
			Italic(true).
			PaddingLeft(2)

	// Reactions
	ReactionStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("205"))

	// Footer notices
	NoticeInfoStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("42"))
	NoticeErrorStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("196")).
				Bold(true)
	HelpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241"))

	// Compose form
	FormStyle = lipgloss.NewStyle().
			Border(lipgloss.DoubleBorder()).
			BorderForeground(lipgloss.Color("214")).
			Padding(1, 2)
)
