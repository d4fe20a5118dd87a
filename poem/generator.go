// ABOUTME: Generation service contract for turning a wish into a short poem.
// ABOUTME: Single round trip, no streaming; failure returns an error, never a partial string.
package poem

import (
	"context"
	"errors"
)

// systemPrompt frames the model as a poet composing short, heartfelt verse.
const systemPrompt = `You are a poet laureate specializing in composing short, heartfelt poems.

Based on the wish provided, write a short poem (4-8 lines) that captures the essence of the wish.
The poem should be creative, thoughtful, and emotionally resonant.

Respond with the poem only, no preamble.`

var (
	// ErrEmptyWish means there is no text to write a poem about.
	ErrEmptyWish = errors.New("wish text is required")

	// ErrEmptyPoem means the model returned no usable text.
	ErrEmptyPoem = errors.New("generation returned an empty poem")
)

// Generator produces a poem for a wish in a single round trip. Transient
// failures are surfaced once; callers decide whether to re-invoke.
type Generator interface {
	Generate(ctx context.Context, wishText string) (string, error)
}
