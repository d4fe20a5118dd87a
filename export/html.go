// ABOUTME: Renders the board's Markdown export to HTML using goldmark.
package export

import (
	"bytes"
	"fmt"

	"github.com/yuin/goldmark"

	"github.com/2389-research/wishweaver/board"
)

// ExportHTML renders the board to an HTML fragment. Raw HTML inside card text
// is not rendered by goldmark's defaults, which keeps user content inert.
func ExportHTML(title string, cards []board.Card) (string, error) {
	md := goldmark.New()
	var buf bytes.Buffer
	if err := md.Convert([]byte(ExportMarkdown(title, cards)), &buf); err != nil {
		return "", fmt.Errorf("render board html: %w", err)
	}
	return buf.String(), nil
}
