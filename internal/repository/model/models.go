package model

import (
	"time"

	"github.com/google/uuid"
)

type Meeting struct {
	MeetingID   string     `gorm:"size:64;primaryKey"`
	Title       string     `gorm:"size:255;not null"`
	Description string     `gorm:"type:text"`
	Creator     uuid.UUID  `gorm:"type:uuid;index;not null"`
	ScheduledAt *time.Time `gorm:"index"`
	Duration    int        `gorm:"not null"`
	IsActive    bool       `gorm:"not null;index"`
	IsScheduled bool       `gorm:"not null"`
	Reminder    bool       `gorm:"not null"`
	Invited     string     `gorm:"type:text"`

	AllowChat               bool `gorm:"not null"`
	AllowScreenShare        bool `gorm:"not null"`
	RequirePermissionToJoin bool `gorm:"not null"`
	RequirePermissionToTalk bool `gorm:"not null"`

	EndedAt   *time.Time
	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`

	Participants []Participant `gorm:"foreignKey:MeetingID;references:MeetingID;constraint:OnDelete:CASCADE"`
	Messages     []Message     `gorm:"foreignKey:MeetingID;references:MeetingID;constraint:OnDelete:CASCADE"`
}

type Participant struct {
	ID        uint      `gorm:"primaryKey"`
	MeetingID string    `gorm:"size:64;uniqueIndex:idx_participants_meeting_user;not null"`
	UserID    uuid.UUID `gorm:"type:uuid;uniqueIndex:idx_participants_meeting_user;index;not null"`
	Role      string    `gorm:"size:32;not null"`
	Status    string    `gorm:"size:32;not null;index"`

	CanVideo bool `gorm:"not null"`
	CanAudio bool `gorm:"not null"`
	CanShare bool `gorm:"not null"`
	CanChat  bool `gorm:"not null"`

	JoinedAt  time.Time `gorm:"not null"`
	LeftAt    *time.Time
	CreatedAt time.Time
	UpdatedAt time.Time
}

type Message struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	MeetingID string    `gorm:"size:64;index:idx_messages_meeting_created;not null"`
	Sender    uuid.UUID `gorm:"type:uuid;not null"`
	Content   string    `gorm:"type:text;not null"`
	Type      string    `gorm:"size:16;not null"`
	CreatedAt time.Time `gorm:"index:idx_messages_meeting_created;not null"`
}

type User struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey"`
	FullName   string    `gorm:"size:255;not null"`
	Email      *string   `gorm:"size:255;uniqueIndex:idx_users_email,where:email IS NOT NULL"`
	ProfilePic string    `gorm:"size:512"`
	CreatedAt  time.Time `gorm:"not null"`
	UpdatedAt  time.Time `gorm:"not null"`
}
