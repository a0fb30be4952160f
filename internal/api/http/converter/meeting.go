package converter

import (
	"time"

	"github.com/google/uuid"
	"github.com/immxrtalbeast/gatherly/internal/domain"
)

type MeetingResponse struct {
	MeetingID   string                 `json:"meeting_id"`
	Title       string                 `json:"title"`
	Description string                 `json:"description,omitempty"`
	Creator     uuid.UUID              `json:"creator"`
	ScheduledAt *time.Time             `json:"scheduled_at,omitempty"`
	Duration    int                    `json:"duration"`
	IsActive    bool                   `json:"is_active"`
	IsScheduled bool                   `json:"is_scheduled"`
	Reminder    bool                   `json:"reminder"`
	Settings    domain.MeetingSettings `json:"settings"`
	EndedAt     *time.Time             `json:"ended_at,omitempty"`
	CreatedAt   time.Time              `json:"created_at"`
}

type ParticipantResponse struct {
	MeetingID   string                   `json:"meeting_id"`
	UserID      uuid.UUID                `json:"user_id"`
	Role        domain.ParticipantRole   `json:"role"`
	Status      domain.ParticipantStatus `json:"status"`
	Permissions domain.Permissions       `json:"permissions"`
	JoinedAt    time.Time                `json:"joined_at"`
	LeftAt      *time.Time               `json:"left_at,omitempty"`
}

type MessageResponse struct {
	ID        uuid.UUID `json:"id"`
	MeetingID string    `json:"meeting_id"`
	Sender    uuid.UUID `json:"sender"`
	Content   string    `json:"content"`
	Type      string    `json:"type"`
	CreatedAt time.Time `json:"created_at"`
}

func MeetingToAPI(m *domain.Meeting) *MeetingResponse {
	return &MeetingResponse{
		MeetingID:   m.MeetingID,
		Title:       m.Title,
		Description: m.Description,
		Creator:     m.Creator,
		ScheduledAt: m.ScheduledAt,
		Duration:    m.Duration,
		IsActive:    m.IsActive,
		IsScheduled: m.IsScheduled,
		Reminder:    m.Reminder,
		Settings:    m.Settings,
		EndedAt:     m.EndedAt,
		CreatedAt:   m.CreatedAt,
	}
}

func MeetingsToAPI(meetings []*domain.Meeting) []*MeetingResponse {
	result := make([]*MeetingResponse, 0, len(meetings))
	for _, meeting := range meetings {
		result = append(result, MeetingToAPI(meeting))
	}
	return result
}

func ParticipantToAPI(p *domain.Participant) *ParticipantResponse {
	return &ParticipantResponse{
		MeetingID:   p.MeetingID,
		UserID:      p.UserID,
		Role:        p.Role,
		Status:      p.Status,
		Permissions: p.Permissions,
		JoinedAt:    p.JoinedAt,
		LeftAt:      p.LeftAt,
	}
}

func ParticipantsToAPI(participants []*domain.Participant) []*ParticipantResponse {
	result := make([]*ParticipantResponse, 0, len(participants))
	for _, participant := range participants {
		result = append(result, ParticipantToAPI(participant))
	}
	return result
}

func MessageToAPI(m *domain.Message) *MessageResponse {
	return &MessageResponse{
		ID:        m.ID,
		MeetingID: m.MeetingID,
		Sender:    m.Sender,
		Content:   m.Content,
		Type:      string(m.Type),
		CreatedAt: m.CreatedAt,
	}
}

func MessagesToAPI(messages []*domain.Message) []*MessageResponse {
	result := make([]*MessageResponse, 0, len(messages))
	for _, message := range messages {
		result = append(result, MessageToAPI(message))
	}
	return result
}
