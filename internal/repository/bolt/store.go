// Package bolt provides the embedded BoltDB-backed participant and message
// store. Records are JSON payloads keyed by a monotonically increasing
// sequence so cursors walk them in insertion order; a secondary bucket maps
// ids to sequence keys.
package bolt

import (
	"context"
	"encoding/binary"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"go.etcd.io/bbolt"
	berrors "go.etcd.io/bbolt/errors"

	"vighnaharta-backend/internal/logger"
	"vighnaharta-backend/internal/repository"
)

const (
	participantBucket   = "participants"
	participantIDBucket = "participant_ids"
	messageBucket       = "messages"
)

// ErrLocked is returned by Open when another process holds the database
// file. BoltDB allows a single writer process per file.
var ErrLocked = errors.New("bolt store is locked by another process")

// Store provides a BoltDB-backed festival store.
type Store struct {
	db           *bbolt.DB
	participants *participantRepository
	messages     *messageRepository
}

// Open opens a BoltDB-backed store at the provided path, creating the
// buckets on first use.
func Open(path string) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("storage path is required")
	}

	cleanPath := filepath.Clean(path)
	db, err := bbolt.Open(cleanPath, 0o600, &bbolt.Options{Timeout: time.Second})
	if err != nil {
		if errors.Is(err, berrors.ErrTimeout) {
			return nil, fmt.Errorf("%w: %s", ErrLocked, cleanPath)
		}
		return nil, fmt.Errorf("open storage db: %w", err)
	}

	store := &Store{db: db}
	if err := store.ensureBuckets(); err != nil {
		_ = db.Close()
		return nil, err
	}
	store.participants = &participantRepository{db: db}
	store.messages = &messageRepository{db: db}

	logger.Info("Bolt store opened", "path", cleanPath)
	return store, nil
}

// Participants returns the participant repository.
func (s *Store) Participants() repository.ParticipantRepository {
	return s.participants
}

// Messages returns the message repository.
func (s *Store) Messages() repository.MessageRepository {
	return s.messages
}

// Ping verifies the database is open and its buckets exist.
func (s *Store) Ping(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if s == nil || s.db == nil {
		return fmt.Errorf("storage is not configured")
	}
	return s.db.View(func(tx *bbolt.Tx) error {
		for _, name := range []string{participantBucket, participantIDBucket, messageBucket} {
			if tx.Bucket([]byte(name)) == nil {
				return fmt.Errorf("%s bucket is missing", name)
			}
		}
		return nil
	})
}

// Close closes the underlying BoltDB database.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

func (s *Store) ensureBuckets() error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		for _, name := range []string{participantBucket, participantIDBucket, messageBucket} {
			if _, err := tx.CreateBucketIfNotExists([]byte(name)); err != nil {
				return fmt.Errorf("create %s bucket: %w", name, err)
			}
		}
		return nil
	})
}

func seqKey(seq uint64) []byte {
	key := make([]byte, 8)
	binary.BigEndian.PutUint64(key, seq)
	return key
}

func bucket(tx *bbolt.Tx, name string) (*bbolt.Bucket, error) {
	b := tx.Bucket([]byte(name))
	if b == nil {
		return nil, fmt.Errorf("%s bucket is missing", name)
	}
	return b, nil
}
