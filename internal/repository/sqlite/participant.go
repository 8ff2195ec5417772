package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"vighnaharta-backend/internal/domain"
	"vighnaharta-backend/internal/logger"
)

const participantColumns = `id, name, flat_number, image_url, is_approved, created_at`

type participantRepository struct {
	db *sql.DB
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanParticipant(row rowScanner) (domain.Participant, error) {
	var (
		p         domain.Participant
		approved  int64
		createdAt int64
	)
	if err := row.Scan(&p.ID, &p.Name, &p.FlatNumber, &p.ImageURL, &approved, &createdAt); err != nil {
		return domain.Participant{}, err
	}
	p.IsApproved = approved != 0
	p.CreatedAt = fromMillis(createdAt)
	return p, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

func (r *participantRepository) List(ctx context.Context) ([]domain.Participant, error) {
	query := `SELECT ` + participantColumns + ` FROM participants ORDER BY seq`
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
		participants = append(participants, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	logger.StoreResult("participants.list", int64(len(participants)), nil)
	return participants, nil
}

func (r *participantRepository) Create(ctx context.Context, p *domain.Participant) error {
	p.ID = uuid.New().String()
	p.IsApproved = false
	if p.CreatedAt.IsZero() {
		p.CreatedAt = time.Now().UTC().Truncate(time.Millisecond)
	}
	query := `INSERT INTO participants (` + participantColumns + `) VALUES (?, ?, ?, ?, ?, ?)`
	logger.StoreCall("participants.create", query, "id", p.ID)
	res, err := r.db.ExecContext(ctx, query, p.ID, p.Name, p.FlatNumber, p.ImageURL, 0, toMillis(p.CreatedAt))
	if err != nil {
		logger.StoreResult("participants.create", 0, err)
		return fmt.Errorf("create participant: %w", err)
	}
	n, _ := res.RowsAffected()
	logger.StoreResult("participants.create", n, nil)
	return nil
}

func (r *participantRepository) Update(ctx context.Context, id string, fields domain.ParticipantUpdate) (*domain.Participant, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	p, err := scanParticipant(tx.QueryRowContext(ctx, `SELECT `+participantColumns+` FROM participants WHERE id = ?`, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	fields.Apply(&p)

	query := `UPDATE participants SET name = ?, flat_number = ?, image_url = ? WHERE id = ?`
	logger.StoreCall("participants.update", query, "id", id)
	if _, err := tx.ExecContext(ctx, query, p.Name, p.FlatNumber, p.ImageURL, id); err != nil {
		return nil, fmt.Errorf("update participant: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit tx: %w", err)
	}
	logger.StoreResult("participants.update", 1, nil)
	return &p, nil
}

func (r *participantRepository) SetApproval(ctx context.Context, id string, approved bool) (*domain.Participant, error) {
	query := `UPDATE participants SET is_approved = ? WHERE id = ?`
	logger.StoreCall("participants.set_approval", query, "id", id)
	res, err := r.db.ExecContext(ctx, query, boolToInt(approved), id)
	if err != nil {
		return nil, fmt.Errorf("set approval: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return nil, err
	}
	logger.StoreResult("participants.set_approval", n, nil)
	if n == 0 {
		return nil, domain.ErrNotFound
	}

	p, err := scanParticipant(r.db.QueryRowContext(ctx, `SELECT `+participantColumns+` FROM participants WHERE id = ?`, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &p, nil
}

func (r *participantRepository) Delete(ctx context.Context, id string) error {
	query := `DELETE FROM participants WHERE id = ?`
	logger.StoreCall("participants.delete", query, "id", id)
	res, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("delete participant: %w", err)
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

// FindByIdentity matches in Go because SQLite's lower() only folds ASCII.
func (r *participantRepository) FindByIdentity(ctx context.Context, name, flatNumber string) (*domain.Participant, error) {
	name = strings.TrimSpace(name)
	flatNumber = strings.TrimSpace(flatNumber)

	query := `SELECT ` + participantColumns + ` FROM participants ORDER BY seq`
	logger.StoreCall("participants.find_by_identity", query)
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		p, err := scanParticipant(rows)
		if err != nil {
			return nil, err
		}
		if p.Matches(name, flatNumber) {
			logger.StoreResult("participants.find_by_identity", 1, nil)
			return &p, nil
		}
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return nil, domain.ErrNotFound
}
