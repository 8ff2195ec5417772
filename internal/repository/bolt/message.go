package bolt

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.etcd.io/bbolt"

	"vighnaharta-backend/internal/domain"
	"vighnaharta-backend/internal/logger"
)

type messageRepository struct {
	db *bbolt.DB
}

func (r *messageRepository) List(ctx context.Context) ([]domain.Message, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	logger.StoreCall("messages.list", messageBucket)

	messages := []domain.Message{}
	err := r.db.View(func(tx *bbolt.Tx) error {
		b, err := bucket(tx, messageBucket)
		if err != nil {
			return err
		}
		return b.ForEach(func(_, v []byte) error {
			var m domain.Message
			if err := json.Unmarshal(v, &m); err != nil {
				return fmt.Errorf("unmarshal message: %w", err)
			}
			messages = append(messages, m)
			return nil
		})
	})
	logger.StoreResult("messages.list", int64(len(messages)), err)
	if err != nil {
		return nil, err
	}
	return messages, nil
}

func (r *messageRepository) Create(ctx context.Context, m *domain.Message) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.ID = uuid.New().String()
	m.Timestamp = time.Now().UTC()

	payload, err := json.Marshal(m)
	if err != nil {
		return fmt.Errorf("marshal message: %w", err)
	}

	logger.StoreCall("messages.create", messageBucket, "id", m.ID)
	err = r.db.Update(func(tx *bbolt.Tx) error {
		b, err := bucket(tx, messageBucket)
		if err != nil {
			return err
		}
		seq, err := b.NextSequence()
		if err != nil {
			return fmt.Errorf("next message sequence: %w", err)
		}
		return b.Put(seqKey(seq), payload)
	})
	logger.StoreResult("messages.create", 1, err)
	return err
}
