package postgres

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"

	"vighnaharta-backend/internal/domain"
	"vighnaharta-backend/internal/logger"
	"vighnaharta-backend/internal/repository"
)

type messageRepository struct {
	db *sql.DB
}

func NewMessageRepository(db *sql.DB) repository.MessageRepository {
	return &messageRepository{db: db}
}

func (r *messageRepository) List(ctx context.Context) ([]domain.Message, error) {
	query := `SELECT id, text, organizer, organizer_role, created_on FROM messages ORDER BY seq`
	logger.StoreCall("messages.list", query)
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	messages := []domain.Message{}
	for rows.Next() {
		var m domain.Message
		if err := rows.Scan(&m.ID, &m.Text, &m.Organizer, &m.OrganizerRole, &m.Timestamp); err != nil {
			return nil, err
		}
		messages = append(messages, m)
	}
	return messages, rows.Err()
}

func (r *messageRepository) Create(ctx context.Context, m *domain.Message) error {
	m.ID = uuid.New().String()
	m.Timestamp = time.Now().UTC()
	query := `INSERT INTO messages (id, text, organizer, organizer_role, created_on) VALUES ($1, $2, $3, $4, $5)`
	logger.StoreCall("messages.create", query, "id", m.ID)
	_, err := r.db.ExecContext(ctx, query, m.ID, m.Text, m.Organizer, m.OrganizerRole, m.Timestamp)
	logger.StoreResult("messages.create", 1, err)
	return err
}
