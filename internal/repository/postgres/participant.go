package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"

	"vighnaharta-backend/internal/domain"
	"vighnaharta-backend/internal/logger"
	"vighnaharta-backend/internal/repository"
)

type participantRepository struct {
	db *sql.DB
}

func NewParticipantRepository(db *sql.DB) repository.ParticipantRepository {
	return &participantRepository{db: db}
}

func scanParticipant(row interface{ Scan(...any) error }) (*domain.Participant, error) {
	p := &domain.Participant{}
	if err := row.Scan(&p.ID, &p.Name, &p.FlatNumber, &p.ImageURL, &p.IsApproved, &p.CreatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return p, nil
}

func (r *participantRepository) List(ctx context.Context) ([]domain.Participant, error) {
	query := `SELECT id, name, flat_number, image_url, is_approved, created_on FROM participants ORDER BY seq`
	logger.StoreCall("participants.list", query)
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	participants := []domain.Participant{}
	for rows.Next() {
		p, err := scanParticipant(rows)
		if err != nil {
			return nil, err
		}
		participants = append(participants, *p)
	}
	return participants, rows.Err()
}

func (r *participantRepository) Create(ctx context.Context, p *domain.Participant) error {
	p.ID = uuid.New().String()
	p.IsApproved = false
	if p.CreatedAt.IsZero() {
		p.CreatedAt = time.Now().UTC()
	}
	query := `INSERT INTO participants (id, name, flat_number, image_url, is_approved, created_on)
	          VALUES ($1, $2, $3, $4, FALSE, $5)`
	logger.StoreCall("participants.create", query, "id", p.ID)
	_, err := r.db.ExecContext(ctx, query, p.ID, p.Name, p.FlatNumber, p.ImageURL, p.CreatedAt)
	logger.StoreResult("participants.create", 1, err)
	return err
}

func (r *participantRepository) Update(ctx context.Context, id string, fields domain.ParticipantUpdate) (*domain.Participant, error) {
	// COALESCE keeps the stored value for fields the caller left nil.
	query := `UPDATE participants
	          SET name = COALESCE($2, name), flat_number = COALESCE($3, flat_number), image_url = COALESCE($4, image_url)
	          WHERE id = $1
	          RETURNING id, name, flat_number, image_url, is_approved, created_on`
	logger.StoreCall("participants.update", query, "id", id)
	p, err := scanParticipant(r.db.QueryRowContext(ctx, query, id, nullable(fields.Name), nullable(fields.FlatNumber), nullable(fields.ImageURL)))
	logger.StoreResult("participants.update", 1, err)
	return p, err
}

func (r *participantRepository) SetApproval(ctx context.Context, id string, approved bool) (*domain.Participant, error) {
	query := `UPDATE participants SET is_approved = $2 WHERE id = $1
	          RETURNING id, name, flat_number, image_url, is_approved, created_on`
	logger.StoreCall("participants.set_approval", query, "id", id)
	p, err := scanParticipant(r.db.QueryRowContext(ctx, query, id, approved))
	logger.StoreResult("participants.set_approval", 1, err)
	return p, err
}

func (r *participantRepository) Delete(ctx context.Context, id string) error {
	query := `DELETE FROM participants WHERE id = $1`
	logger.StoreCall("participants.delete", query, "id", id)
	res, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	logger.StoreResult("participants.delete", n, nil)
	if n == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *participantRepository) FindByIdentity(ctx context.Context, name, flatNumber string) (*domain.Participant, error) {
	query := `SELECT id, name, flat_number, image_url, is_approved, created_on FROM participants
	          WHERE lower(name) = lower($1) AND lower(flat_number) = lower($2)
	          ORDER BY seq LIMIT 1`
	return scanParticipant(r.db.QueryRowContext(ctx, query, name, flatNumber))
}

func nullable(s *string) sql.NullString {
	if s == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *s, Valid: true}
}
