// ABOUTME: Scriptable Generator for tests: fixed responses, injected errors, call recording.
// ABOUTME: Lets repository tests drive the poem flow without a network round trip.
package poem

import (
	"context"
	"sync"
)

// MockGenerator implements Generator with a scriptable response. Safe for
// concurrent use.
type MockGenerator struct {
	mu sync.Mutex

	// Response is returned when Fn and Err are unset.
	Response string
	// Err, when set, is returned instead of a poem.
	Err error
	// Fn, when set, handles the call entirely.
	Fn func(ctx context.Context, wishText string) (string, error)

	calls []string
}

// Generate records the call and returns the scripted result.
func (m *MockGenerator) Generate(ctx context.Context, wishText string) (string, error) {
	m.mu.Lock()
	m.calls = append(m.calls, wishText)
	fn, err, resp := m.Fn, m.Err, m.Response
	m.mu.Unlock()

	if fn != nil {
		return fn(ctx, wishText)
	}
	if err != nil {
		return "", err
	}
	return resp, nil
}

// Calls returns the wish texts passed to Generate, in order.
func (m *MockGenerator) Calls() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]string, len(m.calls))
	copy(out, m.calls)
	return out
}
