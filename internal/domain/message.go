package domain

import (
	"strings"
	"time"
)

// Message is a secret note left by a visitor for an organizer. Messages are
// append-only.
type Message struct {
	ID            string    `json:"id"`
	Text          string    `json:"text"`
	Organizer     string    `json:"organizer"`
	OrganizerRole string    `json:"organizerRole"`
	Timestamp     time.Time `json:"timestamp"`
}

// GroupKey identifies the organizer a message is addressed to.
func (m Message) GroupKey() string {
	return m.Organizer + "-" + m.OrganizerRole
}

// Validate checks the required message fields.
func (m Message) Validate() error {
	if strings.TrimSpace(m.Text) == "" {
		return NewValidationError("text is required")
	}
	if strings.TrimSpace(m.Organizer) == "" {
		return NewValidationError("organizer is required")
	}
	return nil
}

// MessageGroup collects the messages addressed to one organizer.
type MessageGroup struct {
	Organizer     string    `json:"organizer"`
	OrganizerRole string    `json:"organizerRole"`
	Messages      []Message `json:"messages"`
}

// GroupMessages buckets messages per organizer. Groups appear in the order
// their first message was written.
func GroupMessages(messages []Message) []MessageGroup {
	index := make(map[string]int)
	var groups []MessageGroup
	for _, m := range messages {
		key := m.GroupKey()
		i, ok := index[key]
		if !ok {
			i = len(groups)
			index[key] = i
			groups = append(groups, MessageGroup{Organizer: m.Organizer, OrganizerRole: m.OrganizerRole})
		}
		groups[i].Messages = append(groups[i].Messages, m)
	}
	return groups
}
