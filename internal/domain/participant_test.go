package domain

import (
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParticipant_Matches(t *testing.T) {
	p := Participant{Name: "Asha Rao", FlatNumber: "12B"}

	assert.True(t, p.Matches("asha rao", "12b"))
	assert.True(t, p.Matches("ASHA RAO", "12B"))
	assert.False(t, p.Matches("Asha", "12B"))
	assert.False(t, p.Matches("Asha Rao", "12C"))
}

func TestParticipant_Validate(t *testing.T) {
	t.Run("Valid", func(t *testing.T) {
		assert.NoError(t, Participant{Name: "Asha", FlatNumber: "12B"}.Validate())
	})

	t.Run("Missing name", func(t *testing.T) {
		err := Participant{Name: "  ", FlatNumber: "12B"}.Validate()
		assert.True(t, errors.Is(err, ErrValidation))
		assert.Contains(t, err.Error(), "name")
	})

	t.Run("Missing flat", func(t *testing.T) {
		err := Participant{Name: "Asha"}.Validate()
		assert.True(t, errors.Is(err, ErrValidation))
		assert.Contains(t, err.Error(), "flatNumber")
	})
}

func TestParticipantUpdate_Apply(t *testing.T) {
	p := Participant{ID: "1", Name: "Asha", FlatNumber: "12B", ImageURL: "/passes/old.png", IsApproved: true}
	img := "/passes/new.png"

	ParticipantUpdate{ImageURL: &img}.Apply(&p)

	assert.Equal(t, "Asha", p.Name)
	assert.Equal(t, "12B", p.FlatNumber)
	assert.Equal(t, img, p.ImageURL)
	assert.True(t, p.IsApproved)
}

func TestPartitionByApproval(t *testing.T) {
	all := []Participant{
		{ID: "a", IsApproved: true},
		{ID: "b"},
		{ID: "c", IsApproved: true},
		{ID: "d"},
	}

	approved, pending := PartitionByApproval(all)

	assert.Len(t, approved, 2)
	assert.Len(t, pending, 2)
	assert.Equal(t, len(all), len(approved)+len(pending))
	assert.Equal(t, "a", approved[0].ID)
	assert.Equal(t, "c", approved[1].ID)
	assert.Equal(t, "b", pending[0].ID)
	assert.Equal(t, "d", pending[1].ID)

	seen := map[string]bool{}
	for _, p := range append(approved, pending...) {
		assert.False(t, seen[p.ID], "participant %s appears twice", p.ID)
		seen[p.ID] = true
	}
}

func TestGroupMessages(t *testing.T) {
	msgs := []Message{
		{ID: "1", Organizer: "Neev", Text: "hi"},
		{ID: "2", Organizer: "Smit", Text: "hey"},
		{ID: "3", Organizer: "Neev", Text: "again"},
		{ID: "4", Organizer: "Neev", OrganizerRole: "Lead", Text: "role differs"},
	}

	groups := GroupMessages(msgs)

	if assert.Len(t, groups, 3) {
		assert.Equal(t, "Neev", groups[0].Organizer)
		assert.Len(t, groups[0].Messages, 2)
		assert.Equal(t, "Smit", groups[1].Organizer)
		assert.Equal(t, "Lead", groups[2].OrganizerRole)
	}
}

func TestUnavailable(t *testing.T) {
	assert.Nil(t, Unavailable("list", nil))
	assert.True(t, errors.Is(Unavailable("list", errors.New("disk")), ErrStoreUnavailable))
	assert.Equal(t, ErrNotFound, Unavailable("get", ErrNotFound))
}

func TestParticipant_CreatedAtOmittedUntilSet(t *testing.T) {
	body, err := json.Marshal(Participant{Name: "Asha", FlatNumber: "12B"})
	require.NoError(t, err)
	assert.NotContains(t, string(body), "createdAt")

	at := time.Date(2025, 8, 27, 10, 0, 0, 0, time.UTC)
	body, err = json.Marshal(Participant{Name: "Asha", FlatNumber: "12B", CreatedAt: at})
	require.NoError(t, err)
	assert.Contains(t, string(body), `"createdAt":"2025-08-27T10:00:00Z"`)
}
