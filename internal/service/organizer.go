package service

import (
	"strings"

	"vighnaharta-backend/internal/domain"
)

// OrganizerDirectory is the configured list of festival organizers.
type OrganizerDirectory struct {
	organizers []domain.Organizer
}

func NewOrganizerDirectory(organizers []domain.Organizer) *OrganizerDirectory {
	return &OrganizerDirectory{organizers: append([]domain.Organizer(nil), organizers...)}
}

// List returns the directory in configuration order.
func (d *OrganizerDirectory) List() []domain.Organizer {
	if d == nil {
		return []domain.Organizer{}
	}
	return append([]domain.Organizer{}, d.organizers...)
}

// EmailFor finds the address of an organizer by name, preferring an entry
// with the same role.
func (d *OrganizerDirectory) EmailFor(name, role string) string {
	if d == nil {
		return ""
	}
	fallback := ""
	for _, o := range d.organizers {
		if !strings.EqualFold(o.Name, name) {
			continue
		}
		if strings.EqualFold(o.Role, role) && o.Email != "" {
			return o.Email
		}
		if fallback == "" {
			fallback = o.Email
		}
	}
	return fallback
}
