package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/immxrtalbeast/gatherly/internal/domain"
)

type MeetingInteractor interface {
	CreateInstant(ctx context.Context, creator uuid.UUID, title, description string, settings *domain.MeetingSettings) (*domain.Meeting, error)
	Schedule(ctx context.Context, creator uuid.UUID, title, description string, scheduledAt time.Time, duration int, reminder bool, invitedEmails []string, settings *domain.MeetingSettings) (*domain.Meeting, error)
	Get(ctx context.Context, meetingID string) (*domain.Meeting, []*domain.Participant, error)
	Join(ctx context.Context, meetingID string, userID uuid.UUID) (*domain.Meeting, *domain.Participant, error)
	Upcoming(ctx context.Context, creator uuid.UUID) ([]*domain.Meeting, error)
	History(ctx context.Context, userID uuid.UUID) ([]*domain.Participant, error)
	End(ctx context.Context, meetingID string, userID uuid.UUID) error
	Activate(ctx context.Context, meetingID string, userID uuid.UUID) (*domain.Meeting, error)
	Delete(ctx context.Context, meetingID string, userID uuid.UUID) error
	UpdatePermissions(ctx context.Context, meetingID string, adminID, targetID uuid.UUID, permissions domain.Permissions) (*domain.Participant, error)
	ChatHistory(ctx context.Context, meetingID string) ([]*domain.Message, error)
}

type UserInteractor interface {
	CreateUser(ctx context.Context, fullName string, email string) (*domain.User, error)
	GetUser(ctx context.Context, id uuid.UUID) (*domain.User, error)
	GetOrCreateByEmail(ctx context.Context, fullName, email, profilePic string) (*domain.User, error)
	UpdateUser(ctx context.Context, user *domain.User) error
}
