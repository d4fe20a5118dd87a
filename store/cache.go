// ABOUTME: SQLite-backed local mirror of the board for warm starts before the first remote load.
// ABOUTME: Always rebuildable from the remote store; a queryable cache, never the source of truth.
package store

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/2389-research/wishweaver/board"
)

// Cache mirrors the card set in a local SQLite database. The repository
// reads it once at startup and rewrites it after every confirmed snapshot.
type Cache struct {
	db *sql.DB
}

// OpenCache opens or creates the cache database at the given path.
func OpenCache(path string) (*Cache, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("set WAL mode: %w", err)
	}

	schema := `
		CREATE TABLE IF NOT EXISTS cards (
			card_id TEXT PRIMARY KEY,
			created_at TEXT NOT NULL,
			payload TEXT NOT NULL
		);`

	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}

	return &Cache{db: db}, nil
}

// Close closes the underlying database.
func (c *Cache) Close() error {
	return c.db.Close()
}

// List returns cached cards newest-first by creation time.
func (c *Cache) List() ([]board.Card, error) {
	rows, err := c.db.Query(
		"SELECT payload FROM cards ORDER BY created_at DESC, card_id DESC")
	if err != nil {
		return nil, fmt.Errorf("query cards: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var cards []board.Card
	for rows.Next() {
		var payload string
		if err := rows.Scan(&payload); err != nil {
			return nil, fmt.Errorf("scan card row: %w", err)
		}
		var card board.Card
		if err := json.Unmarshal([]byte(payload), &card); err != nil {
			return nil, fmt.Errorf("unmarshal cached card: %w", err)
		}
		cards = append(cards, card)
	}
	return cards, rows.Err()
}

// Replace wipes the cache and stores the given snapshot. Placeholder cards
// are skipped: unconfirmed entries must never be persisted.
func (c *Cache) Replace(cards []board.Card) error {
	tx, err := c.db.Begin()
	if err != nil {
		return fmt.Errorf("begin replace: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.Exec("DELETE FROM cards"); err != nil {
		return fmt.Errorf("clear cards: %w", err)
	}
	for _, card := range cards {
		if board.IsPlaceholderID(card.ID) {
			continue
		}
		payload, err := json.Marshal(card)
		if err != nil {
			return fmt.Errorf("marshal card %q: %w", card.ID, err)
		}
		if _, err := tx.Exec(
			"INSERT INTO cards (card_id, created_at, payload) VALUES (?, ?, ?)",
			card.ID,
			card.CreatedAt.UTC().Format(time.RFC3339Nano),
			string(payload),
		); err != nil {
			return fmt.Errorf("insert card %q: %w", card.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit replace: %w", err)
	}
	return nil
}
