package bolt

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.etcd.io/bbolt"

	"vighnaharta-backend/internal/domain"
	"vighnaharta-backend/internal/logger"
)

type participantRepository struct {
	db *bbolt.DB
}

func (r *participantRepository) List(ctx context.Context) ([]domain.Participant, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	logger.StoreCall("participants.list", participantBucket)

	participants := []domain.Participant{}
	err := r.db.View(func(tx *bbolt.Tx) error {
		b, err := bucket(tx, participantBucket)
		if err != nil {
			return err
		}
		return b.ForEach(func(_, v []byte) error {
			var p domain.Participant
			if err := json.Unmarshal(v, &p); err != nil {
				return fmt.Errorf("unmarshal participant: %w", err)
			}
			participants = append(participants, p)
			return nil
		})
	})
	logger.StoreResult("participants.list", int64(len(participants)), err)
	if err != nil {
		return nil, err
	}
	return participants, nil
}

func (r *participantRepository) Create(ctx context.Context, p *domain.Participant) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	p.ID = uuid.New().String()
	p.IsApproved = false
	if p.CreatedAt.IsZero() {
		p.CreatedAt = time.Now().UTC()
	}

	payload, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("marshal participant: %w", err)
	}

	logger.StoreCall("participants.create", participantBucket, "id", p.ID)
	err = r.db.Update(func(tx *bbolt.Tx) error {
		records, err := bucket(tx, participantBucket)
		if err != nil {
			return err
		}
		ids, err := bucket(tx, participantIDBucket)
		if err != nil {
			return err
		}
		seq, err := records.NextSequence()
		if err != nil {
			return fmt.Errorf("next participant sequence: %w", err)
		}
		key := seqKey(seq)
		if err := records.Put(key, payload); err != nil {
			return err
		}
		return ids.Put([]byte(p.ID), key)
	})
	logger.StoreResult("participants.create", 1, err)
	return err
}

func (r *participantRepository) Update(ctx context.Context, id string, fields domain.ParticipantUpdate) (*domain.Participant, error) {
	return r.mutate(ctx, "participants.update", id, func(p *domain.Participant) {
		fields.Apply(p)
	})
}

func (r *participantRepository) SetApproval(ctx context.Context, id string, approved bool) (*domain.Participant, error) {
	return r.mutate(ctx, "participants.set_approval", id, func(p *domain.Participant) {
		p.IsApproved = approved
	})
}

func (r *participantRepository) Delete(ctx context.Context, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	logger.StoreCall("participants.delete", participantBucket, "id", id)
	err := r.db.Update(func(tx *bbolt.Tx) error {
		records, err := bucket(tx, participantBucket)
		if err != nil {
			return err
		}
		ids, err := bucket(tx, participantIDBucket)
		if err != nil {
			return err
		}
		key := ids.Get([]byte(id))
		if key == nil {
			return domain.ErrNotFound
		}
		// key aliases mmap'd memory that is invalid once deleted
		key = append([]byte(nil), key...)
		if err := ids.Delete([]byte(id)); err != nil {
			return err
		}
		return records.Delete(key)
	})
	logger.StoreResult("participants.delete", 1, err)
	return err
}

func (r *participantRepository) FindByIdentity(ctx context.Context, name, flatNumber string) (*domain.Participant, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	name = strings.TrimSpace(name)
	flatNumber = strings.TrimSpace(flatNumber)

	var found *domain.Participant
	err := r.db.View(func(tx *bbolt.Tx) error {
		b, err := bucket(tx, participantBucket)
		if err != nil {
			return err
		}
		c := b.Cursor()
		for k, v := c.First(); k != nil; k, v = c.Next() {
			var p domain.Participant
			if err := json.Unmarshal(v, &p); err != nil {
				return fmt.Errorf("unmarshal participant: %w", err)
			}
			if p.Matches(name, flatNumber) {
				found = &p
				return nil
			}
		}
		return domain.ErrNotFound
	})
	if err != nil {
		return nil, err
	}
	return found, nil
}

// mutate loads the record for id, applies fn and writes it back in one
// transaction.
func (r *participantRepository) mutate(ctx context.Context, op, id string, fn func(*domain.Participant)) (*domain.Participant, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	logger.StoreCall(op, participantBucket, "id", id)

	var updated domain.Participant
	err := r.db.Update(func(tx *bbolt.Tx) error {
		records, err := bucket(tx, participantBucket)
		if err != nil {
			return err
		}
		ids, err := bucket(tx, participantIDBucket)
		if err != nil {
			return err
		}
		key := ids.Get([]byte(id))
		if key == nil {
			return domain.ErrNotFound
		}
		payload := records.Get(key)
		if payload == nil {
			return domain.ErrNotFound
		}
		if err := json.Unmarshal(payload, &updated); err != nil {
			return fmt.Errorf("unmarshal participant: %w", err)
		}
		fn(&updated)
		updated.ID = id
		next, err := json.Marshal(updated)
		if err != nil {
			return fmt.Errorf("marshal participant: %w", err)
		}
		return records.Put(key, next)
	})
	logger.StoreResult(op, 1, err)
	if err != nil {
		return nil, err
	}
	return &updated, nil
}
