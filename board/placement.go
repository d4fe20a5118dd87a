// ABOUTME: Initial placement algorithm for new cards on the canvas.
// ABOUTME: Scatters cards uniformly within visible bounds so they don't stack at one point.
package board

import "math/rand"

// Layout constants for card placement. These mirror the rendered card size:
// a new card must fit inside the viewport at the moment of creation.
const (
	CardWidth  = 350.0
	CardHeight = 350.0
	TopMargin  = 100.0
)

// Viewport is the visible canvas area used to bound initial placement.
type Viewport struct {
	Width  float64
	Height float64
}

// DefaultViewport matches a common desktop window. Deployments that know
// their real canvas size should pass their own.
var DefaultViewport = Viewport{Width: 1280, Height: 800}

// PlacePosition chooses an initial position for a new card: x uniform in
// [0, width-CardWidth], y uniform in [TopMargin, height-CardHeight].
// This is a placement heuristic, not a packing guarantee; overlaps are
// acceptable. Degenerate viewports collapse the span to zero rather than
// producing negative coordinates.
func PlacePosition(rng *rand.Rand, vp Viewport) Position {
	xSpan := vp.Width - CardWidth
	if xSpan < 0 {
		xSpan = 0
	}
	ySpan := vp.Height - TopMargin - CardHeight
	if ySpan < 0 {
		ySpan = 0
	}
	return Position{
		X: rng.Float64() * xSpan,
		Y: TopMargin + rng.Float64()*ySpan,
	}
}
