// ABOUTME: SQLite persistence for board documents, keyed by board and card id.
// ABOUTME: The server owns id and createdAt; card bodies are stored as JSON payloads.
package boardserver

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"

	"github.com/2389-research/wishweaver/board"
	"github.com/2389-research/wishweaver/store"
)

// ErrCardNotFound is returned for mutations against an unknown card id.
var ErrCardNotFound = errors.New("card not found")

// DocStore is the SQLite-backed document store behind the board server. Cards
// are stored as opaque JSON payloads so the card schema can grow without
// migrations; only the server-owned columns are queryable.
type DocStore struct {
	db  *sql.DB
	now func() time.Time
}

// OpenDocStore opens or creates the document database at the given path.
func OpenDocStore(path string) (*DocStore, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("set WAL mode: %w", err)
	}

	schema := `
		CREATE TABLE IF NOT EXISTS board_cards (
			board_id TEXT NOT NULL,
			card_id TEXT NOT NULL,
			created_at TEXT NOT NULL,
			payload TEXT NOT NULL,
			PRIMARY KEY (board_id, card_id)
		);`
	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}

	return &DocStore{db: db, now: time.Now}, nil
}

// SetClock overrides the server clock. Test hook.
func (s *DocStore) SetClock(now func() time.Time) { s.now = now }

// Close closes the underlying database.
func (s *DocStore) Close() error { return s.db.Close() }

// List returns a board's cards newest-first.
func (s *DocStore) List(boardID string) ([]board.Card, error) {
	rows, err := s.db.Query(
		`SELECT payload FROM board_cards WHERE board_id = ? ORDER BY created_at DESC, card_id DESC`,
		boardID,
	)
	if err != nil {
		return nil, fmt.Errorf("query cards: %w", err)
	}
	defer rows.Close()

	cards := []board.Card{}
	for rows.Next() {
		var payload string
		if err := rows.Scan(&payload); err != nil {
			return nil, fmt.Errorf("scan card: %w", err)
		}
		var c board.Card
		if err := json.Unmarshal([]byte(payload), &c); err != nil {
			return nil, fmt.Errorf("decode card payload: %w", err)
		}
		cards = append(cards, c)
	}
	return cards, rows.Err()
}

// Create stores a new card from client-supplied fields, assigning the
// server-owned id and creation timestamp. Client attempts to set either are
// rejected.
func (s *DocStore) Create(boardID string, fields map[string]any) (board.Card, error) {
	if err := store.RejectServerOwned(fields); err != nil {
		return board.Card{}, err
	}

	doc := make(map[string]any, len(fields)+2)
	for k, v := range fields {
		doc[k] = v
	}
	id := uuid.NewString()
	createdAt := s.now().UTC()
	doc["id"] = id
	doc["createdAt"] = createdAt.Format(time.RFC3339Nano)

	payload, err := json.Marshal(doc)
	if err != nil {
		return board.Card{}, fmt.Errorf("encode card payload: %w", err)
	}
	var c board.Card
	if err := json.Unmarshal(payload, &c); err != nil {
		return board.Card{}, fmt.Errorf("invalid card fields: %w", err)
	}

	_, err = s.db.Exec(
		`INSERT INTO board_cards (board_id, card_id, created_at, payload) VALUES (?, ?, ?, ?)`,
		boardID, id, createdAt.Format(time.RFC3339Nano), string(payload),
	)
	if err != nil {
		return board.Card{}, fmt.Errorf("insert card: %w", err)
	}
	return c, nil
}

// Update merges client fields into the stored payload. Server-owned fields
// are rejected, never merged.
func (s *DocStore) Update(boardID, cardID string, fields map[string]any) error {
	if err := store.RejectServerOwned(fields); err != nil {
		return err
	}

	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("begin update: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	var payload string
	err = tx.QueryRow(
		`SELECT payload FROM board_cards WHERE board_id = ? AND card_id = ?`,
		boardID, cardID,
	).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrCardNotFound
	}
	if err != nil {
		return fmt.Errorf("load card: %w", err)
	}

	doc := map[string]any{}
	if err := json.Unmarshal([]byte(payload), &doc); err != nil {
		return fmt.Errorf("decode card payload: %w", err)
	}
	for k, v := range fields {
		doc[k] = v
	}
	merged, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("encode card payload: %w", err)
	}

	if _, err := tx.Exec(
		`UPDATE board_cards SET payload = ? WHERE board_id = ? AND card_id = ?`,
		string(merged), boardID, cardID,
	); err != nil {
		return fmt.Errorf("update card: %w", err)
	}
	return tx.Commit()
}

// Delete removes a card. Deleting an unknown card is ErrCardNotFound.
func (s *DocStore) Delete(boardID, cardID string) error {
	res, err := s.db.Exec(
		`DELETE FROM board_cards WHERE board_id = ? AND card_id = ?`,
		boardID, cardID,
	)
	if err != nil {
		return fmt.Errorf("delete card: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete card: %w", err)
	}
	if n == 0 {
		return ErrCardNotFound
	}
	return nil
}
