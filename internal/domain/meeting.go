package domain

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

const DefaultMeetingDuration = 60 // minutes

// MeetingSettings are the per-meeting feature toggles the creator picks at
// creation time.
type MeetingSettings struct {
	AllowChat               bool `json:"allow_chat"`
	AllowScreenShare        bool `json:"allow_screen_share"`
	RequirePermissionToJoin bool `json:"require_permission_to_join"`
	RequirePermissionToTalk bool `json:"require_permission_to_talk"`
}

func DefaultMeetingSettings() MeetingSettings {
	return MeetingSettings{
		AllowChat:        true,
		AllowScreenShare: true,
	}
}

// Meeting is either an instant meeting (active from the moment it is created)
// or a scheduled one (inactive until its scheduled time, activated by the
// creator or by the scheduler sweep).
type Meeting struct {
	MeetingID   string
	Title       string
	Description string
	Creator     uuid.UUID
	Invited     []uuid.UUID
	ScheduledAt *time.Time
	Duration    int // minutes
	IsActive    bool
	IsScheduled bool
	Reminder    bool
	Settings    MeetingSettings
	EndedAt     *time.Time
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func NewInstantMeeting(title, description string, creator uuid.UUID, settings MeetingSettings) *Meeting {
	now := time.Now().UTC()
	return &Meeting{
		MeetingID:   generateMeetingID(),
		Title:       strings.TrimSpace(title),
		Description: description,
		Creator:     creator,
		Duration:    DefaultMeetingDuration,
		IsActive:    true,
		Settings:    settings,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

func NewScheduledMeeting(title, description string, creator uuid.UUID, scheduledAt time.Time, duration int, reminder bool, settings MeetingSettings) *Meeting {
	if duration <= 0 {
		duration = DefaultMeetingDuration
	}
	now := time.Now().UTC()
	at := scheduledAt.UTC()
	return &Meeting{
		MeetingID:   generateMeetingID(),
		Title:       strings.TrimSpace(title),
		Description: description,
		Creator:     creator,
		ScheduledAt: &at,
		Duration:    duration,
		IsScheduled: true,
		Reminder:    reminder,
		Settings:    settings,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

// ScheduledEnd returns the moment a scheduled meeting runs out of its planned
// duration. The zero time is returned for instant meetings.
func (m *Meeting) ScheduledEnd() time.Time {
	if m.ScheduledAt == nil {
		return time.Time{}
	}
	return m.ScheduledAt.Add(time.Duration(m.Duration) * time.Minute)
}

func (m *Meeting) End(at time.Time) {
	at = at.UTC()
	m.IsActive = false
	m.EndedAt = &at
	m.UpdatedAt = at
}

func generateMeetingID() string {
	return uuid.New().String()
}
