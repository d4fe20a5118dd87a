// ABOUTME: Exports a board as a structured YAML document.
// ABOUTME: Uses gopkg.in/yaml.v3 with deterministic card ordering (as given, newest-first).
package export

import (
	"fmt"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/2389-research/wishweaver/board"
)

// YamlCard is a serializable YAML representation of a single card.
type YamlCard struct {
	ID        string         `yaml:"id"`
	Wish      string         `yaml:"wish"`
	Name      string         `yaml:"name,omitempty"`
	ImageURL  string         `yaml:"image_url,omitempty"`
	Poem      string         `yaml:"poem,omitempty"`
	X         float64        `yaml:"x"`
	Y         float64        `yaml:"y"`
	Reactions map[string]int `yaml:"reactions,omitempty"`
	CreatedAt string         `yaml:"created_at,omitempty"`
}

// YamlBoard is the top-level serializable YAML representation of a board.
type YamlBoard struct {
	Title string     `yaml:"title"`
	Cards []YamlCard `yaml:"cards"`
}

// ExportYAML exports the board as a YAML document. Card order is preserved
// from the input.
func ExportYAML(title string, cards []board.Card) (string, error) {
	doc := YamlBoard{Title: title, Cards: make([]YamlCard, 0, len(cards))}
	for _, card := range cards {
		yc := YamlCard{
			ID:       card.ID,
			Wish:     card.Text,
			Name:     card.Name,
			ImageURL: card.ImageURL,
			Poem:     card.Poem,
			X:        card.Position.X,
			Y:        card.Position.Y,
		}
		if len(card.Reactions) > 0 {
			yc.Reactions = make(map[string]int, len(card.Reactions))
			for kind, n := range card.Reactions {
				if n > 0 {
					yc.Reactions[string(kind)] = n
				}
			}
			if len(yc.Reactions) == 0 {
				yc.Reactions = nil
			}
		}
		if !card.CreatedAt.IsZero() {
			yc.CreatedAt = card.CreatedAt.UTC().Format(time.RFC3339)
		}
		doc.Cards = append(doc.Cards, yc)
	}

	out, err := yaml.Marshal(doc)
	if err != nil {
		return "", fmt.Errorf("marshal board yaml: %w", err)
	}
	return string(out), nil
}
