// ABOUTME: Exports a board's cards as a Markdown document, newest-first.
// ABOUTME: Poems render as blockquotes; reactions as a compact count line.
package export

import (
	"fmt"
	"strings"

	"github.com/2389-research/wishweaver/board"
)

// ExportMarkdown renders the board as a Markdown document. Cards are emitted
// in the order given, which the repository keeps newest-first.
func ExportMarkdown(title string, cards []board.Card) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n", title)

	for _, card := range cards {
		b.WriteString("\n")
		name := card.Name
		if name == "" {
			name = "Anonymous"
		}
		fmt.Fprintf(&b, "## %s\n\n", name)
		fmt.Fprintf(&b, "%s\n", card.Text)

		if card.ImageURL != "" {
			fmt.Fprintf(&b, "\n![wish image](%s)\n", card.ImageURL)
		}
		if card.Poem != "" {
			b.WriteString("\n")
			for _, line := range strings.Split(card.Poem, "\n") {
				fmt.Fprintf(&b, "> %s\n", line)
			}
		}
		if line := reactionLine(card); line != "" {
			fmt.Fprintf(&b, "\n%s\n", line)
		}
		if !card.CreatedAt.IsZero() {
			fmt.Fprintf(&b, "\n*%s*\n", card.CreatedAt.Format("Jan 2, 2006"))
		}
	}
	return b.String()
}

func reactionLine(card board.Card) string {
	var parts []string
	if n := card.Reactions[board.ReactionLove]; n > 0 {
		parts = append(parts, fmt.Sprintf("%d love", n))
	}
	if n := card.Reactions[board.ReactionCelebration]; n > 0 {
		parts = append(parts, fmt.Sprintf("%d celebration", n))
	}
	return strings.Join(parts, ", ")
}
