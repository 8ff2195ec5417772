// Package sqlite provides a SQLite-backed participant and message store.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"vighnaharta-backend/internal/repository"
)

const schema = `
CREATE TABLE IF NOT EXISTS participants (
	seq INTEGER PRIMARY KEY AUTOINCREMENT,
	id TEXT NOT NULL UNIQUE,
	name TEXT NOT NULL,
	flat_number TEXT NOT NULL,
	image_url TEXT NOT NULL DEFAULT '',
	is_approved INTEGER NOT NULL DEFAULT 0,
	created_at INTEGER NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_participants_identity
	ON participants (lower(name), lower(flat_number));

CREATE TABLE IF NOT EXISTS messages (
	seq INTEGER PRIMARY KEY AUTOINCREMENT,
	id TEXT NOT NULL UNIQUE,
	text TEXT NOT NULL,
	organizer TEXT NOT NULL,
	organizer_role TEXT NOT NULL DEFAULT '',
	created_at INTEGER NOT NULL
);
`

// Store persists festival state in SQLite.
type Store struct {
	sqlDB        *sql.DB
	participants *participantRepository
	messages     *messageRepository
}

func toMillis(value time.Time) int64 {
	return value.UTC().UnixMilli()
}

func fromMillis(value int64) time.Time {
	return time.UnixMilli(value).UTC()
}

// Open opens a SQLite store at path and creates the schema if needed.
func Open(path string) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("storage path is required")
	}
	cleanPath := filepath.Clean(path)
	dsn := "file:" + cleanPath + "?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)&_pragma=synchronous(NORMAL)"
	sqlDB, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	// A single connection serializes writers and avoids "database is locked".
	sqlDB.SetMaxOpenConns(1)
	if err := sqlDB.Ping(); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}
	if _, err := sqlDB.Exec(schema); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("init schema: %w", err)
	}
	return &Store{
		sqlDB:        sqlDB,
		participants: &participantRepository{db: sqlDB},
		messages:     &messageRepository{db: sqlDB},
	}, nil
}

// Participants returns the participant repository.
func (s *Store) Participants() repository.ParticipantRepository {
	return s.participants
}

// Messages returns the message repository.
func (s *Store) Messages() repository.MessageRepository {
	return s.messages
}

// Ping checks the database handle.
func (s *Store) Ping(ctx context.Context) error {
	if s == nil || s.sqlDB == nil {
		return fmt.Errorf("storage is not configured")
	}
	return s.sqlDB.PingContext(ctx)
}

// Close closes the SQLite handle.
func (s *Store) Close() error {
	if s == nil || s.sqlDB == nil {
		return nil
	}
	return s.sqlDB.Close()
}
