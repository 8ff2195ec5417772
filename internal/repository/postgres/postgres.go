package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"vighnaharta-backend/internal/repository"

	_ "github.com/lib/pq"
)

const schema = `
CREATE TABLE IF NOT EXISTS participants (
	seq BIGSERIAL PRIMARY KEY,
	id TEXT NOT NULL UNIQUE,
	name TEXT NOT NULL,
	flat_number TEXT NOT NULL,
	image_url TEXT NOT NULL DEFAULT '',
	is_approved BOOLEAN NOT NULL DEFAULT FALSE,
	created_on TIMESTAMPTZ NOT NULL DEFAULT now()
);
CREATE INDEX IF NOT EXISTS idx_participants_identity ON participants (lower(name), lower(flat_number));
CREATE TABLE IF NOT EXISTS messages (
	seq BIGSERIAL PRIMARY KEY,
	id TEXT NOT NULL UNIQUE,
	text TEXT NOT NULL,
	organizer TEXT NOT NULL,
	organizer_role TEXT NOT NULL DEFAULT '',
	created_on TIMESTAMPTZ NOT NULL DEFAULT now()
);`

type Store struct {
	db           *sql.DB
	participants repository.ParticipantRepository
	messages     repository.MessageRepository
}

func NewStore(db *sql.DB) *Store {
	return &Store{
		db:           db,
		participants: NewParticipantRepository(db),
		messages:     NewMessageRepository(db),
	}
}

// Open connects to PostgreSQL and makes sure the tables exist.
func Open(ctx context.Context, dsn string) (*Store, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("open postgres db: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping postgres db: %w", err)
	}
	store := NewStore(db)
	if err := store.EnsureSchema(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	return store, nil
}

// EnsureSchema creates the participant and message tables if missing.
func (s *Store) EnsureSchema(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("init schema: %w", err)
	}
	return nil
}

func (s *Store) Participants() repository.ParticipantRepository {
	return s.participants
}

func (s *Store) Messages() repository.MessageRepository {
	return s.messages
}

func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *Store) Close() error {
	return s.db.Close()
}
