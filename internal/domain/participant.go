package domain

import (
	"time"

	"github.com/google/uuid"
)

type ParticipantRole string

const (
	RoleAdmin       ParticipantRole = "admin"
	RoleParticipant ParticipantRole = "participant"
)

type ParticipantStatus string

const (
	StatusWaiting ParticipantStatus = "waiting"
	StatusJoined  ParticipantStatus = "joined"
	StatusLeft    ParticipantStatus = "left"
	StatusDenied  ParticipantStatus = "denied"
	StatusKicked  ParticipantStatus = "kicked"
)

type PermissionType string

const (
	PermissionVideo PermissionType = "canVideo"
	PermissionAudio PermissionType = "canAudio"
	PermissionShare PermissionType = "canShare"
	PermissionChat  PermissionType = "canChat"
)

// Permissions are independently togglable per participant by the meeting admin.
type Permissions struct {
	CanVideo bool `json:"canVideo"`
	CanAudio bool `json:"canAudio"`
	CanShare bool `json:"canShare"`
	CanChat  bool `json:"canChat"`
}

func DefaultPermissions() Permissions {
	return Permissions{CanVideo: true, CanAudio: true, CanShare: true, CanChat: true}
}

func (p *Permissions) Set(kind PermissionType, granted bool) bool {
	switch kind {
	case PermissionVideo:
		p.CanVideo = granted
	case PermissionAudio:
		p.CanAudio = granted
	case PermissionShare:
		p.CanShare = granted
	case PermissionChat:
		p.CanChat = granted
	default:
		return false
	}
	return true
}

// Participant is the durable record of a user's membership in a meeting.
// There is at most one record per (meeting, user) pair; a rejoin reuses the
// record and refreshes JoinedAt.
type Participant struct {
	MeetingID   string
	UserID      uuid.UUID
	Role        ParticipantRole
	Permissions Permissions
	Status      ParticipantStatus
	JoinedAt    time.Time
	LeftAt      *time.Time
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func NewParticipant(meetingID string, userID uuid.UUID, role ParticipantRole) *Participant {
	now := time.Now().UTC()
	return &Participant{
		MeetingID:   meetingID,
		UserID:      userID,
		Role:        role,
		Permissions: DefaultPermissions(),
		Status:      StatusJoined,
		JoinedAt:    now,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

// Rejoin marks a previously departed participant as joined again.
func (p *Participant) Rejoin() {
	now := time.Now().UTC()
	p.Status = StatusJoined
	p.JoinedAt = now
	p.LeftAt = nil
	p.UpdatedAt = now
}

// Depart transitions the participant out of the meeting, either voluntarily
// or by a kick.
func (p *Participant) Depart(kicked bool) {
	now := time.Now().UTC()
	if kicked {
		p.Status = StatusKicked
	} else {
		p.Status = StatusLeft
	}
	p.LeftAt = &now
	p.UpdatedAt = now
}
