package domain

import (
	"strings"
	"time"
)

// Participant is a registered festival visitor whose pass appears in the
// gallery once approved.
type Participant struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	FlatNumber string    `json:"flatNumber"`
	ImageURL   string    `json:"imageUrl"`
	IsApproved bool      `json:"isApproved"`
	CreatedAt  time.Time `json:"createdAt,omitzero"`
}

// ParticipantUpdate carries the fields merged by a resubmission. Nil fields
// are left untouched.
type ParticipantUpdate struct {
	Name       *string
	FlatNumber *string
	ImageURL   *string
}

// Apply merges the non-nil fields into p.
func (u ParticipantUpdate) Apply(p *Participant) {
	if u.Name != nil {
		p.Name = *u.Name
	}
	if u.FlatNumber != nil {
		p.FlatNumber = *u.FlatNumber
	}
	if u.ImageURL != nil {
		p.ImageURL = *u.ImageURL
	}
}

// SameIdentity reports whether two name/flat pairs refer to the same person.
// Comparison is case-insensitive.
func SameIdentity(nameA, flatA, nameB, flatB string) bool {
	return strings.EqualFold(nameA, nameB) && strings.EqualFold(flatA, flatB)
}

// Matches reports whether p has the given identity.
func (p Participant) Matches(name, flatNumber string) bool {
	return SameIdentity(p.Name, p.FlatNumber, name, flatNumber)
}

// Validate checks the required registration fields.
func (p Participant) Validate() error {
	if strings.TrimSpace(p.Name) == "" {
		return NewValidationError("name is required")
	}
	if strings.TrimSpace(p.FlatNumber) == "" {
		return NewValidationError("flatNumber is required")
	}
	return nil
}

// PartitionByApproval splits participants into approved and pending while
// keeping their relative order.
func PartitionByApproval(all []Participant) (approved, pending []Participant) {
	approved = make([]Participant, 0, len(all))
	pending = make([]Participant, 0, len(all))
	for _, p := range all {
		if p.IsApproved {
			approved = append(approved, p)
		} else {
			pending = append(pending, p)
		}
	}
	return approved, pending
}
