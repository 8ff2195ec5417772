package client

import (
	"context"
	"strings"
	"sync"

	"vighnaharta-backend/internal/domain"
	"vighnaharta-backend/internal/utils"
)

// Command is a local change that can be undone if the matching remote call
// fails. Both phases run with the view locked.
type Command interface {
	Apply(list []domain.Participant) []domain.Participant
	Revert(list []domain.Participant) []domain.Participant
}

// View is the client's local copy of the participant list.
type View struct {
	mu           sync.RWMutex
	participants []domain.Participant
}

func NewView(initial []domain.Participant) *View {
	return &View{participants: append([]domain.Participant{}, initial...)}
}

// Snapshot returns a copy of the current list.
func (v *View) Snapshot() []domain.Participant {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return append([]domain.Participant{}, v.participants...)
}

// Replace swaps in a freshly fetched list.
func (v *View) Replace(list []domain.Participant) {
	v.mu.Lock()
	v.participants = append([]domain.Participant{}, list...)
	v.mu.Unlock()
}

// FindByIdentity looks up a participant by case-insensitive name and flat.
func (v *View) FindByIdentity(name, flatNumber string) (domain.Participant, bool) {
	name, flatNumber = strings.TrimSpace(name), strings.TrimSpace(flatNumber)
	v.mu.RLock()
	defer v.mu.RUnlock()
	for _, p := range v.participants {
		if p.Matches(name, flatNumber) {
			return p, true
		}
	}
	return domain.Participant{}, false
}

// Upsert replaces the participant with the same id or appends it.
func (v *View) Upsert(p domain.Participant) {
	v.mu.Lock()
	defer v.mu.Unlock()
	for i := range v.participants {
		if v.participants[i].ID == p.ID {
			v.participants[i] = p
			return
		}
	}
	v.participants = append(v.participants, p)
}

func (v *View) Pending() []domain.Participant {
	_, pending := domain.PartitionByApproval(v.Snapshot())
	return pending
}

func (v *View) Gallery(page int) utils.Page[domain.Participant] {
	approved, _ := domain.PartitionByApproval(v.Snapshot())
	return utils.Paginate(approved, page, utils.GalleryPageSize)
}

// Reconcile applies cmd locally, runs remote, and reverts cmd if remote
// fails. The remote error is returned unchanged.
func (v *View) Reconcile(ctx context.Context, cmd Command, remote func(context.Context) error) error {
	v.mu.Lock()
	v.participants = cmd.Apply(v.participants)
	v.mu.Unlock()

	err := remote(ctx)
	if err != nil {
		v.mu.Lock()
		v.participants = cmd.Revert(v.participants)
		v.mu.Unlock()
	}
	return err
}

// setApproval flips the approval flag of one participant.
type setApproval struct {
	id       string
	approved bool

	applied  bool
	previous bool
}

func (c *setApproval) Apply(list []domain.Participant) []domain.Participant {
	for i := range list {
		if list[i].ID == c.id {
			c.applied = true
			c.previous = list[i].IsApproved
			list[i].IsApproved = c.approved
			break
		}
	}
	return list
}

func (c *setApproval) Revert(list []domain.Participant) []domain.Participant {
	if !c.applied {
		return list
	}
	for i := range list {
		if list[i].ID == c.id {
			list[i].IsApproved = c.previous
			break
		}
	}
	return list
}

// removeParticipant drops one participant and restores it at its former
// position on revert.
type removeParticipant struct {
	id string

	removed *domain.Participant
	index   int
}

func (c *removeParticipant) Apply(list []domain.Participant) []domain.Participant {
	for i := range list {
		if list[i].ID == c.id {
			p := list[i]
			c.removed, c.index = &p, i
			return append(list[:i:i], list[i+1:]...)
		}
	}
	return list
}

func (c *removeParticipant) Revert(list []domain.Participant) []domain.Participant {
	if c.removed == nil {
		return list
	}
	for _, p := range list {
		if p.ID == c.id {
			return list
		}
	}
	i := min(c.index, len(list))
	out := make([]domain.Participant, 0, len(list)+1)
	out = append(out, list[:i]...)
	out = append(out, *c.removed)
	return append(out, list[i:]...)
}
