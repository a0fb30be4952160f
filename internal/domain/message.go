package domain

import (
	"time"

	"github.com/google/uuid"
)

type MessageType string

const (
	MessageText   MessageType = "text"
	MessageSystem MessageType = "system"
)

// Message is an append-only chat record scoped to a meeting.
type Message struct {
	ID         uuid.UUID
	MeetingID  string
	Sender     uuid.UUID
	SenderName string
	Content    string
	Type       MessageType
	CreatedAt  time.Time
}

func NewMessage(meetingID string, sender uuid.UUID, content string, kind MessageType) *Message {
	if kind == "" {
		kind = MessageText
	}
	return &Message{
		ID:        uuid.New(),
		MeetingID: meetingID,
		Sender:    sender,
		Content:   content,
		Type:      kind,
		CreatedAt: time.Now().UTC(),
	}
}
