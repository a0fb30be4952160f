package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/immxrtalbeast/gatherly/internal/domain"
)

var (
	ErrMeetingNotFound     = errors.New("meeting not found")
	ErrMeetingIDExists     = errors.New("meeting id already exists")
	ErrParticipantNotFound = errors.New("participant not found")
	ErrParticipantExists   = errors.New("participant already exists")
	ErrUserNotFound        = errors.New("user not found")
	ErrUserEmailExists     = errors.New("user with email already exists")
)

type MeetingRepository interface {
	Create(ctx context.Context, meeting *domain.Meeting) error
	GetByID(ctx context.Context, meetingID string) (*domain.Meeting, error)
	Update(ctx context.Context, meeting *domain.Meeting) error
	Delete(ctx context.Context, meetingID string) error
	UpcomingByCreator(ctx context.Context, creator uuid.UUID, after time.Time) ([]*domain.Meeting, error)
	DueForActivation(ctx context.Context, now time.Time) ([]*domain.Meeting, error)
	DueForReminder(ctx context.Context, from, to time.Time) ([]*domain.Meeting, error)
	ActiveScheduled(ctx context.Context) ([]*domain.Meeting, error)
}

type ParticipantRepository interface {
	Create(ctx context.Context, participant *domain.Participant) error
	Get(ctx context.Context, meetingID string, userID uuid.UUID) (*domain.Participant, error)
	Update(ctx context.Context, participant *domain.Participant) error
	ListByMeeting(ctx context.Context, meetingID string) ([]*domain.Participant, error)
	ListByStatus(ctx context.Context, meetingID string, status domain.ParticipantStatus) ([]*domain.Participant, error)
	ListByUser(ctx context.Context, userID uuid.UUID, limit int) ([]*domain.Participant, error)
	MarkAllLeft(ctx context.Context, meetingID string, at time.Time) error
	DeleteByMeeting(ctx context.Context, meetingID string) error
}

type MessageRepository interface {
	Create(ctx context.Context, message *domain.Message) error
	RecentByMeeting(ctx context.Context, meetingID string, limit int) ([]*domain.Message, error)
	DeleteByMeeting(ctx context.Context, meetingID string) error
}

type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	Update(ctx context.Context, user *domain.User) error
}
