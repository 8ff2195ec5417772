package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"vighnaharta-backend/internal/domain"
	"vighnaharta-backend/internal/logger"
)

type messageRepository struct {
	db *sql.DB
}

func (r *messageRepository) List(ctx context.Context) ([]domain.Message, error) {
	query := `SELECT id, text, organizer, organizer_role, created_at FROM messages ORDER BY seq`
	logger.StoreCall("messages.list", query)
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	messages := []domain.Message{}
	for rows.Next() {
		var (
			m         domain.Message
			createdAt int64
		)
		if err := rows.Scan(&m.ID, &m.Text, &m.Organizer, &m.OrganizerRole, &createdAt); err != nil {
			return nil, err
		}
		m.Timestamp = fromMillis(createdAt)
		messages = append(messages, m)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	logger.StoreResult("messages.list", int64(len(messages)), nil)
	return messages, nil
}

func (r *messageRepository) Create(ctx context.Context, m *domain.Message) error {
	m.ID = uuid.New().String()
	m.Timestamp = time.Now().UTC().Truncate(time.Millisecond)
	query := `INSERT INTO messages (id, text, organizer, organizer_role, created_at) VALUES (?, ?, ?, ?, ?)`
	logger.StoreCall("messages.create", query, "id", m.ID)
	if _, err := r.db.ExecContext(ctx, query, m.ID, m.Text, m.Organizer, m.OrganizerRole, toMillis(m.Timestamp)); err != nil {
		logger.StoreResult("messages.create", 0, err)
		return fmt.Errorf("create message: %w", err)
	}
	logger.StoreResult("messages.create", 1, nil)
	return nil
}
