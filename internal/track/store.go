// Package track keeps a local log of every message the UI has observed,
// so a session's traffic stays inspectable after the emulators reset.
package track

import (
	"context"
	"database/sql"
	_ "embed"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"github.com/epalmerini/busmon/internal/xdg"
)

//go:embed schema.sql
var schemaSQL string

// Observation is one observed message state. Re-observing a message id
// updates its disposition and receiver rather than adding a row.
type Observation struct {
	ID          int64
	MessageID   string
	Provider    string
	Destination string
	SenderID    string
	Receiver    string
	Disposition string
	Body        string
	SentAt      time.Time
	ObservedAt  time.Time
}

// Store defines the interface for observation persistence.
type Store interface {
	InsertObservation(ctx context.Context, obs *Observation) error
	ListRecent(ctx context.Context, limit int64) ([]Observation, error)
	Search(ctx context.Context, query string, limit int64) ([]Observation, error)
	Count(ctx context.Context) (int64, error)
	Close() error
}

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db *sql.DB
}

// NewStore creates a SQLite store at the default or custom path.
func NewStore(customPath string) (*SQLiteStore, error) {
	dbPath := customPath
	if dbPath == "" {
		dataDir, err := xdg.Dir("XDG_DATA_HOME", ".local/share")
		if err != nil {
			return nil, fmt.Errorf("failed to get data directory: %w", err)
		}
		if err := os.MkdirAll(dataDir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create data directory: %w", err)
		}
		dbPath = filepath.Join(dataDir, "busmon.db")
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if _, err := db.Exec("PRAGMA foreign_keys = ON; PRAGMA journal_mode = WAL;"); err != nil {
		return nil, errors.Join(fmt.Errorf("failed to set pragmas: %w", err), db.Close())
	}

	if _, err := db.Exec(schemaSQL); err != nil {
		return nil, errors.Join(fmt.Errorf("failed to initialize schema: %w", err), db.Close())
	}

	return &SQLiteStore{db: db}, nil
}

const insertQuery = `
INSERT INTO observations (message_id, provider, destination, sender_id, receiver, disposition, body, sent_at, observed_at)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
ON CONFLICT(message_id) DO UPDATE SET
    receiver = excluded.receiver,
    disposition = excluded.disposition,
    observed_at = excluded.observed_at
`

func (s *SQLiteStore) InsertObservation(ctx context.Context, obs *Observation) error {
	observedAt := obs.ObservedAt
	if observedAt.IsZero() {
		observedAt = time.Now()
	}
	_, err := s.db.ExecContext(ctx, insertQuery,
		obs.MessageID, obs.Provider, obs.Destination, obs.SenderID,
		toNullString(obs.Receiver), toNullString(obs.Disposition),
		toNullString(obs.Body), toNullTime(obs.SentAt), observedAt,
	)
	return err
}

const selectColumns = `
SELECT id, message_id, provider, destination, sender_id,
       COALESCE(receiver, ''), COALESCE(disposition, ''), COALESCE(body, ''),
       sent_at, observed_at
FROM observations
`

func (s *SQLiteStore) ListRecent(ctx context.Context, limit int64) ([]Observation, error) {
	query := selectColumns + " ORDER BY observed_at DESC, id DESC LIMIT ?"
	return s.scanObservations(ctx, query, limit)
}

// Search matches sender id, destination, or body by substring.
func (s *SQLiteStore) Search(ctx context.Context, query string, limit int64) ([]Observation, error) {
	pattern := "%" + query + "%"
	q := selectColumns + `
WHERE sender_id LIKE ? OR destination LIKE ? OR body LIKE ?
ORDER BY observed_at DESC, id DESC LIMIT ?`
	return s.scanObservations(ctx, q, pattern, pattern, pattern, limit)
}

func (s *SQLiteStore) Count(ctx context.Context) (int64, error) {
	var n int64
	err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM observations").Scan(&n)
	return n, err
}

func (s *SQLiteStore) scanObservations(ctx context.Context, query string, args ...any) (_ []Observation, err error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer func() { err = errors.Join(err, rows.Close()) }()

	var observations []Observation
	for rows.Next() {
		var o Observation
		var sentAt sql.NullTime
		if err := rows.Scan(
			&o.ID, &o.MessageID, &o.Provider, &o.Destination, &o.SenderID,
			&o.Receiver, &o.Disposition, &o.Body, &sentAt, &o.ObservedAt,
		); err != nil {
			return nil, err
		}
		o.SentAt = sentAt.Time
		observations = append(observations, o)
	}
	return observations, rows.Err()
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func toNullString(s string) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}

func toNullTime(t time.Time) sql.NullTime {
	if t.IsZero() {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: t, Valid: true}
}
