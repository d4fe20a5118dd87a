// ABOUTME: Share-string codec: the full card collection as base64-encoded JSON.
// ABOUTME: A transport-safe snapshot for pasting a board between installations.
package export

import (
	"encoding/base64"
	"encoding/json"
	"fmt"

	"github.com/2389-research/wishweaver/board"
)

// EncodeShare packs the card collection into a URL-safe share string.
func EncodeShare(cards []board.Card) (string, error) {
	raw, err := json.Marshal(cards)
	if err != nil {
		return "", fmt.Errorf("encode share: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(raw), nil
}

// DecodeShare unpacks a share string produced by EncodeShare.
func DecodeShare(s string) ([]board.Card, error) {
	raw, err := base64.RawURLEncoding.DecodeString(s)
	if err != nil {
		return nil, fmt.Errorf("decode share: %w", err)
	}
	var cards []board.Card
	if err := json.Unmarshal(raw, &cards); err != nil {
		return nil, fmt.Errorf("decode share: %w", err)
	}
	return cards, nil
}
