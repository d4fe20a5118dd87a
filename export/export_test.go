// ABOUTME: Tests for board exports: markdown shape, HTML rendering, YAML structure,
// ABOUTME: and share-string round trips.
package export

import (
	"reflect"
	"strings"
	"testing"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/2389-research/wishweaver/board"
)

func sampleCards() []board.Card {
	return []board.Card{
		{
			ID:        "c2",
			Text:      "learn to sail",
			Name:      "Grace",
			Poem:      "wind in canvas\nsalt on skin",
			Position:  board.Position{X: 120, Y: 340},
			CreatedAt: time.Date(2026, 6, 2, 10, 0, 0, 0, time.UTC),
			Reactions: map[board.ReactionKind]int{board.ReactionLove: 2},
			ReactedBy: map[board.ReactionKind][]string{board.ReactionLove: {"u1", "u2"}},
		},
		{
			ID:        "c1",
			Text:      "plant a garden",
			CreatedAt: time.Date(2026, 6, 1, 10, 0, 0, 0, time.UTC),
		},
	}
}

func TestExportMarkdown(t *testing.T) {
	md := ExportMarkdown("Our Wishes", sampleCards())

	for _, want := range []string{
		"# Our Wishes",
		"## Grace",
		"learn to sail",
		"> wind in canvas",
		"> salt on skin",
		"2 love",
		"## Anonymous", // nameless card
		"plant a garden",
	} {
		if !strings.Contains(md, want) {
			t.Errorf("markdown missing %q:\n%s", want, md)
		}
	}

	// Preserves the given newest-first order.
	if strings.Index(md, "learn to sail") > strings.Index(md, "plant a garden") {
		t.Error("cards reordered")
	}
}

func TestExportHTML(t *testing.T) {
	html, err := ExportHTML("Our Wishes", sampleCards())
	if err != nil {
		t.Fatalf("ExportHTML: %v", err)
	}
	for _, want := range []string{"<h1>Our Wishes</h1>", "<h2>Grace</h2>", "<blockquote>"} {
		if !strings.Contains(html, want) {
			t.Errorf("html missing %q:\n%s", want, html)
		}
	}
}

func TestExportHTMLKeepsRawHTMLInert(t *testing.T) {
	cards := []board.Card{{Text: "<script>alert(1)</script>", Name: "x"}}
	html, err := ExportHTML("t", cards)
	if err != nil {
		t.Fatalf("ExportHTML: %v", err)
	}
	if strings.Contains(html, "<script>") {
		t.Errorf("raw HTML rendered live:\n%s", html)
	}
}

func TestExportYAML(t *testing.T) {
	out, err := ExportYAML("Our Wishes", sampleCards())
	if err != nil {
		t.Fatalf("ExportYAML: %v", err)
	}

	var doc YamlBoard
	if err := yaml.Unmarshal([]byte(out), &doc); err != nil {
		t.Fatalf("re-parse: %v", err)
	}
	if doc.Title != "Our Wishes" {
		t.Errorf("title: got %q", doc.Title)
	}
	if len(doc.Cards) != 2 {
		t.Fatalf("got %d cards, want 2", len(doc.Cards))
	}
	first := doc.Cards[0]
	if first.ID != "c2" || first.Wish != "learn to sail" || first.X != 120 {
		t.Errorf("first card: %+v", first)
	}
	if first.Reactions["love"] != 2 {
		t.Errorf("reactions: %+v", first.Reactions)
	}
}

func TestShareRoundTrip(t *testing.T) {
	cards := sampleCards()
	s, err := EncodeShare(cards)
	if err != nil {
		t.Fatalf("EncodeShare: %v", err)
	}
	if strings.ContainsAny(s, "+/=") {
		t.Errorf("share string is not URL-safe: %q", s)
	}

	got, err := DecodeShare(s)
	if err != nil {
		t.Fatalf("DecodeShare: %v", err)
	}
	if !reflect.DeepEqual(got, cards) {
		t.Errorf("round trip mismatch:\ngot  %+v\nwant %+v", got, cards)
	}
}

func TestDecodeShareRejectsGarbage(t *testing.T) {
	if _, err := DecodeShare("not base64!!"); err == nil {
		t.Error("accepted invalid base64")
	}
	if _, err := DecodeShare("bm90IGpzb24"); err == nil {
		t.Error("accepted non-JSON payload")
	}
}
