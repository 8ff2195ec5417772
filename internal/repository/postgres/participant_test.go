package postgres

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"

	"vighnaharta-backend/internal/domain"
)

var participantCols = []string{"id", "name", "flat_number", "image_url", "is_approved", "created_on"}

func TestParticipantRepository_List(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("an error '%s' was not expected when opening a stub database connection", err)
	}
	defer db.Close()

	repo := NewParticipantRepository(db)
	ctx := context.Background()

	t.Run("Ordered", func(t *testing.T) {
		rows := sqlmock.NewRows(participantCols).
			AddRow("p1", "Asha", "12B", "/passes/a.png", false, time.Now()).
			AddRow("p2", "Neev", "3A", "/passes/n.png", true, time.Now())
		mock.ExpectQuery("SELECT (.+) FROM participants ORDER BY seq").WillReturnRows(rows)

		list, err := repo.List(ctx)
		assert.NoError(t, err)
		assert.Len(t, list, 2)
		assert.Equal(t, "p1", list[0].ID)
		assert.True(t, list[1].IsApproved)
	})

	t.Run("Empty", func(t *testing.T) {
		mock.ExpectQuery("SELECT (.+) FROM participants ORDER BY seq").WillReturnRows(sqlmock.NewRows(participantCols))

		list, err := repo.List(ctx)
		assert.NoError(t, err)
		assert.NotNil(t, list)
		assert.Empty(t, list)
	})

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestParticipantRepository_Create(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("an error '%s' was not expected when opening a stub database connection", err)
	}
	defer db.Close()

	repo := NewParticipantRepository(db)
	p := &domain.Participant{Name: "Asha", FlatNumber: "12B", ImageURL: "/passes/a.png", IsApproved: true}

	mock.ExpectExec("INSERT INTO participants").
		WithArgs(sqlmock.AnyArg(), "Asha", "12B", "/passes/a.png", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))

	err = repo.Create(context.Background(), p)
	assert.NoError(t, err)
	assert.NotEmpty(t, p.ID)
	assert.False(t, p.IsApproved)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestParticipantRepository_SetApproval(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("an error '%s' was not expected when opening a stub database connection", err)
	}
	defer db.Close()

	repo := NewParticipantRepository(db)
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		mock.ExpectQuery("UPDATE participants SET is_approved = \\$2 WHERE id = \\$1").
			WithArgs("p1", true).
			WillReturnRows(sqlmock.NewRows(participantCols).AddRow("p1", "Asha", "12B", "", true, time.Now()))

		p, err := repo.SetApproval(ctx, "p1", true)
		assert.NoError(t, err)
		assert.True(t, p.IsApproved)
	})

	t.Run("NotFound", func(t *testing.T) {
		mock.ExpectQuery("UPDATE participants SET is_approved = \\$2 WHERE id = \\$1").
			WithArgs("missing", true).
			WillReturnError(sql.ErrNoRows)

		p, err := repo.SetApproval(ctx, "missing", true)
		assert.Nil(t, p)
		assert.True(t, errors.Is(err, domain.ErrNotFound))
	})

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestParticipantRepository_Update(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("an error '%s' was not expected when opening a stub database connection", err)
	}
	defer db.Close()

	repo := NewParticipantRepository(db)
	img := "/passes/new.png"

	mock.ExpectQuery("UPDATE participants").
		WithArgs("p1", sql.NullString{}, sql.NullString{}, sql.NullString{String: img, Valid: true}).
		WillReturnRows(sqlmock.NewRows(participantCols).AddRow("p1", "Asha", "12B", img, false, time.Now()))

	p, err := repo.Update(context.Background(), "p1", domain.ParticipantUpdate{ImageURL: &img})
	assert.NoError(t, err)
	assert.Equal(t, img, p.ImageURL)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestParticipantRepository_Delete(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("an error '%s' was not expected when opening a stub database connection", err)
	}
	defer db.Close()

	repo := NewParticipantRepository(db)
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		mock.ExpectExec("DELETE FROM participants WHERE id = \\$1").
			WithArgs("p1").
			WillReturnResult(sqlmock.NewResult(0, 1))
		assert.NoError(t, repo.Delete(ctx, "p1"))
	})

	t.Run("NotFound", func(t *testing.T) {
		mock.ExpectExec("DELETE FROM participants WHERE id = \\$1").
			WithArgs("missing").
			WillReturnResult(sqlmock.NewResult(0, 0))
		assert.True(t, errors.Is(repo.Delete(ctx, "missing"), domain.ErrNotFound))
	})

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestParticipantRepository_FindByIdentity(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("an error '%s' was not expected when opening a stub database connection", err)
	}
	defer db.Close()

	repo := NewParticipantRepository(db)

	mock.ExpectQuery("SELECT (.+) FROM participants\\s+WHERE lower\\(name\\) = lower\\(\\$1\\)").
		WithArgs("asha", "12b").
		WillReturnRows(sqlmock.NewRows(participantCols).AddRow("p1", "Asha", "12B", "", false, time.Now()))

	p, err := repo.FindByIdentity(context.Background(), "asha", "12b")
	assert.NoError(t, err)
	assert.Equal(t, "p1", p.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMessageRepository_CreateAndList(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("an error '%s' was not expected when opening a stub database connection", err)
	}
	defer db.Close()

	repo := NewMessageRepository(db)
	ctx := context.Background()

	mock.ExpectExec("INSERT INTO messages").
		WithArgs(sqlmock.AnyArg(), "hi", "Neev", "", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))

	m := &domain.Message{Text: "hi", Organizer: "Neev"}
	assert.NoError(t, repo.Create(ctx, m))
	assert.NotEmpty(t, m.ID)
	assert.False(t, m.Timestamp.IsZero())

	now := time.Now()
	mock.ExpectQuery("SELECT (.+) FROM messages ORDER BY seq").
		WillReturnRows(sqlmock.NewRows([]string{"id", "text", "organizer", "organizer_role", "created_on"}).
			AddRow(m.ID, "hi", "Neev", "", now))

	list, err := repo.List(ctx)
	assert.NoError(t, err)
	assert.Len(t, list, 1)
	assert.Equal(t, "Neev", list[0].Organizer)
	assert.NoError(t, mock.ExpectationsWereMet())
}
