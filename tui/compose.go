// ABOUTME: ComposeModel renders the new-card form: name, wish, and image URL inputs.
// ABOUTME: Tab cycles fields, Enter submits a validated draft, Esc cancels.
package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/2389-research/wishweaver/board"
)

const (
	fieldName = iota
	fieldWish
	fieldImageURL
	fieldCount
)

// ComposeModel is the new-card form shown over the board.
type ComposeModel struct {
	inputs  [fieldCount]textinput.Model
	focused int
	errMsg  string
}

// NewComposeModel creates a ComposeModel with the name field focused.
func NewComposeModel() ComposeModel {
	var m ComposeModel

	name := textinput.New()
	name.Prompt = "> "
	name.Placeholder = "Your name"
	name.CharLimit = 64
	name.Focus()
	m.inputs[fieldName] = name

	wish := textinput.New()
	wish.Prompt = "> "
	wish.Placeholder = "Your wish..."
	wish.CharLimit = 280
	m.inputs[fieldWish] = wish

	img := textinput.New()
	img.Prompt = "> "
	img.Placeholder = "Image URL (optional)"
	img.CharLimit = 512
	m.inputs[fieldImageURL] = img

	return m
}

// Draft builds a board.Draft from the current field values.
func (m ComposeModel) Draft() board.Draft {
	return board.Draft{
		Name:     strings.TrimSpace(m.inputs[fieldName].Value()),
		Text:     strings.TrimSpace(m.inputs[fieldWish].Value()),
		ImageURL: strings.TrimSpace(m.inputs[fieldImageURL].Value()),
	}
}

// Reset clears the form and refocuses the first field.
func (m ComposeModel) Reset() ComposeModel {
	fresh := NewComposeModel()
	return fresh
}

// Update handles key input while the form is active. The second return value
// reports whether the form consumed the key.
func (m ComposeModel) Update(msg tea.Msg) (ComposeModel, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch key.String() {
	case "tab", "down":
		return m.focusField((m.focused + 1) % fieldCount), nil
	case "shift+tab", "up":
		return m.focusField((m.focused + fieldCount - 1) % fieldCount), nil
	}

	var cmd tea.Cmd
	m.inputs[m.focused], cmd = m.inputs[m.focused].Update(msg)
	return m, cmd
}

// Validate checks the draft and stores a user-facing message on failure.
func (m ComposeModel) Validate() (ComposeModel, bool) {
	if err := m.Draft().Validate(); err != nil {
		m.errMsg = err.Error()
		return m, false
	}
	m.errMsg = ""
	return m, true
}

func (m ComposeModel) focusField(idx int) ComposeModel {
	m.inputs[m.focused].Blur()
	m.focused = idx
	m.inputs[m.focused].Focus()
	return m
}

// View renders the form.
func (m ComposeModel) View() string {
	var b strings.Builder
	b.WriteString(TitleStyle.Render("Make a wish"))
	b.WriteString("\n\n")
	labels := [fieldCount]string{"Name", "Wish", "Image"}
	for i := 0; i < fieldCount; i++ {
		b.WriteString(LabelStyle.Render(labels[i]))
		b.WriteString(m.inputs[i].View())
		b.WriteString("\n")
	}
	if m.errMsg != "" {
		b.WriteString("\n")
		b.WriteString(NoticeErrorStyle.Render(m.errMsg))
	}
	b.WriteString("\n")
	b.WriteString(HelpStyle.Render("enter save · esc cancel · tab next field"))
	return FormStyle.Render(b.String())
}
