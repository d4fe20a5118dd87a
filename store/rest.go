// ABOUTME: HTTP JSON client for the wishweaver board server's document-store API.
// ABOUTME: Implements Remote, Deleter, and Subscriber (SSE snapshot stream) over one base URL.
package store

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/2389-research/wishweaver/board"
	"github.com/2389-research/wishweaver/sse"
)

// RESTStore talks to a board server over HTTP. One RESTStore is scoped to a
// single named board (the collection).
type RESTStore struct {
	baseURL string
	boardID string
	token   string
	client  *http.Client
}

// RESTOption configures a RESTStore.
type RESTOption func(*RESTStore)

// WithHTTPClient replaces the default HTTP client.
func WithHTTPClient(c *http.Client) RESTOption {
	return func(s *RESTStore) { s.client = c }
}

// WithToken sets a bearer token sent with every request.
func WithToken(token string) RESTOption {
	return func(s *RESTStore) { s.token = token }
}

// NewRESTStore creates a client for the board named boardID at baseURL.
func NewRESTStore(baseURL, boardID string, opts ...RESTOption) *RESTStore {
	s := &RESTStore{
		baseURL: baseURL,
		boardID: boardID,
		client:  &http.Client{Timeout: 30 * time.Second},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *RESTStore) cardsURL() string {
	return fmt.Sprintf("%s/api/boards/%s/cards", s.baseURL, url.PathEscape(s.boardID))
}

// List fetches the full card set, newest-first.
func (s *RESTStore) List(ctx context.Context) ([]board.Card, error) {
	var cards []board.Card
	if err := s.do(ctx, http.MethodGet, s.cardsURL(), nil, &cards); err != nil {
		return nil, fmt.Errorf("list cards: %w", err)
	}
	return cards, nil
}

// Create posts a new card and returns the server-assigned id and timestamp.
func (s *RESTStore) Create(ctx context.Context, card board.Card) (Created, error) {
	payload, err := Partial(card)
	if err != nil {
		return Created{}, fmt.Errorf("create payload: %w", err)
	}
	var created Created
	if err := s.do(ctx, http.MethodPost, s.cardsURL(), payload, &created); err != nil {
		return Created{}, fmt.Errorf("create card: %w", err)
	}
	return created, nil
}

// Update patches a card with partial fields.
func (s *RESTStore) Update(ctx context.Context, id string, fields map[string]any) error {
	u := fmt.Sprintf("%s/%s", s.cardsURL(), url.PathEscape(id))
	if err := s.do(ctx, http.MethodPatch, u, fields, nil); err != nil {
		return fmt.Errorf("update card %s: %w", id, err)
	}
	return nil
}

// Delete removes a card.
func (s *RESTStore) Delete(ctx context.Context, id string) error {
	u := fmt.Sprintf("%s/%s", s.cardsURL(), url.PathEscape(id))
	if err := s.do(ctx, http.MethodDelete, u, nil, nil); err != nil {
		return fmt.Errorf("delete card %s: %w", id, err)
	}
	return nil
}

// Subscribe opens the server's SSE snapshot stream and delivers each
// full-state snapshot to onSnapshot. Stream errors other than cancellation
// go to onError, and the stream is not re-opened automatically.
func (s *RESTStore) Subscribe(ctx context.Context, onSnapshot func([]board.Card), onError func(error)) (func(), error) {
	streamCtx, cancel := context.WithCancel(ctx)

	u := fmt.Sprintf("%s/api/boards/%s/events", s.baseURL, url.PathEscape(s.boardID))
	req, err := http.NewRequestWithContext(streamCtx, http.MethodGet, u, nil)
	if err != nil {
		cancel()
		return nil, fmt.Errorf("build subscribe request: %w", err)
	}
	s.authorize(req)

	// The request client's timeout would sever a long-lived stream, so the
	// stream uses a copy with no deadline; lifetime is governed by streamCtx.
	streamClient := *s.client
	streamClient.Timeout = 0

	resp, err := streamClient.Do(req)
	if err != nil {
		cancel()
		return nil, fmt.Errorf("open event stream: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		_ = resp.Body.Close()
		cancel()
		return nil, fmt.Errorf("open event stream: status %d: %s", resp.StatusCode, bytes.TrimSpace(body))
	}

	go func() {
		defer func() { _ = resp.Body.Close() }()
		reader := sse.NewReader(resp.Body)
		for {
			evt, err := reader.Next()
			if err != nil {
				if streamCtx.Err() == nil && err != io.EOF {
					onError(fmt.Errorf("event stream: %w", err))
				}
				return
			}
			if evt.Type != "snapshot" {
				continue
			}
			var cards []board.Card
			if err := json.Unmarshal([]byte(evt.Data), &cards); err != nil {
				onError(fmt.Errorf("decode snapshot: %w", err))
				continue
			}
			onSnapshot(cards)
		}
	}()

	return cancel, nil
}

// do runs one JSON request/response round trip. A nil out discards the body.
func (s *RESTStore) do(ctx context.Context, method, u string, in, out any) error {
	var body io.Reader
	if in != nil {
		raw, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
		body = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, u, body)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	s.authorize(req)

	resp, err := s.client.Do(req)
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return fmt.Errorf("status %d: %s", resp.StatusCode, bytes.TrimSpace(raw))
	}

	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func (s *RESTStore) authorize(req *http.Request) {
	if s.token != "" {
		req.Header.Set("Authorization", "Bearer "+s.token)
	}
}
