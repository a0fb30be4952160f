package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/immxrtalbeast/gatherly/internal/domain"
	"github.com/immxrtalbeast/gatherly/internal/mailer"
	"github.com/immxrtalbeast/gatherly/internal/repository"
	"github.com/immxrtalbeast/gatherly/lib/logger/sl"
)

var (
	ErrOnlyCreator      = errors.New("only meeting creator can perform this action")
	ErrMeetingNotActive = errors.New("meeting is not active yet")
	ErrMeetingActive    = errors.New("cannot delete an active meeting, end it first")
	ErrNotScheduled     = errors.New("this is not a scheduled meeting")
	ErrScheduledInPast  = errors.New("scheduled time must be in the future")
)

const (
	maxHistoryEntries = 20
	chatHistoryLimit  = 100
)

type MeetingService struct {
	meetings     repository.MeetingRepository
	participants repository.ParticipantRepository
	messages     repository.MessageRepository
	users        repository.UserRepository
	mail         *mailer.Mailer
	log          *slog.Logger
}

func NewMeetingService(
	meetings repository.MeetingRepository,
	participants repository.ParticipantRepository,
	messages repository.MessageRepository,
	users repository.UserRepository,
	mail *mailer.Mailer,
	log *slog.Logger,
) *MeetingService {
	if log == nil {
		log = slog.Default()
	}
	return &MeetingService{
		meetings:     meetings,
		participants: participants,
		messages:     messages,
		users:        users,
		mail:         mail,
		log:          log,
	}
}

// CreateInstant creates a meeting that is live immediately and records the
// creator as its admin participant.
func (s *MeetingService) CreateInstant(ctx context.Context, creator uuid.UUID, title, description string, settings *domain.MeetingSettings) (*domain.Meeting, error) {
	const op = "service.meeting.createInstant"

	if strings.TrimSpace(title) == "" {
		return nil, errors.New("title is required")
	}
	if creator == uuid.Nil {
		return nil, errors.New("creator is required")
	}

	meeting := domain.NewInstantMeeting(title, description, creator, settingsOrDefault(settings))
	if err := s.meetings.Create(ctx, meeting); err != nil {
		return nil, err
	}

	admin := domain.NewParticipant(meeting.MeetingID, creator, domain.RoleAdmin)
	if err := s.participants.Create(ctx, admin); err != nil {
		s.log.Error("failed to create admin participant", "op", op, sl.Err(err))
		return nil, err
	}

	s.log.Info("meeting created",
		"op", op,
		"meeting_id", meeting.MeetingID,
		"creator", creator.String(),
	)
	return meeting, nil
}

// Schedule creates an inactive meeting that the scheduler sweep or the
// creator activates later. The scheduled time must lie in the future.
// Registered invitees are recorded on the meeting; every invited address gets
// an invite email when SMTP is configured.
func (s *MeetingService) Schedule(ctx context.Context, creator uuid.UUID, title, description string, scheduledAt time.Time, duration int, reminder bool, invitedEmails []string, settings *domain.MeetingSettings) (*domain.Meeting, error) {
	const op = "service.meeting.schedule"

	if strings.TrimSpace(title) == "" {
		return nil, errors.New("title is required")
	}
	if creator == uuid.Nil {
		return nil, errors.New("creator is required")
	}
	if !scheduledAt.After(time.Now()) {
		return nil, ErrScheduledInPast
	}

	meeting := domain.NewScheduledMeeting(title, description, creator, scheduledAt, duration, reminder, settingsOrDefault(settings))
	for _, email := range invitedEmails {
		user, err := s.users.GetByEmail(ctx, email)
		if err != nil {
			continue
		}
		meeting.Invited = append(meeting.Invited, user.ID)
	}

	if err := s.meetings.Create(ctx, meeting); err != nil {
		return nil, err
	}

	s.sendInvites(ctx, meeting, invitedEmails)

	s.log.Info("meeting scheduled",
		"op", op,
		"meeting_id", meeting.MeetingID,
		"scheduled_at", meeting.ScheduledAt,
		"invited", len(invitedEmails),
	)
	return meeting, nil
}

// sendInvites mails every invited address. Failures are logged and never fail
// the scheduling itself.
func (s *MeetingService) sendInvites(ctx context.Context, meeting *domain.Meeting, emails []string) {
	if !s.mail.Enabled() || len(emails) == 0 {
		return
	}

	creatorName := ""
	if creator, err := s.users.GetByID(ctx, meeting.Creator); err == nil {
		creatorName = creator.FullName
	}
	details := mailer.MeetingDetails{
		Title:       meeting.Title,
		MeetingID:   meeting.MeetingID,
		ScheduledAt: meeting.ScheduledAt,
		Creator:     creatorName,
	}
	for _, email := range emails {
		if err := s.mail.SendInvite(email, details); err != nil {
			s.log.Error("failed to send invite", "email", email, sl.Err(err))
		}
	}
}

func (s *MeetingService) Get(ctx context.Context, meetingID string) (*domain.Meeting, []*domain.Participant, error) {
	meeting, err := s.meetings.GetByID(ctx, meetingID)
	if err != nil {
		return nil, nil, err
	}

	participants, err := s.participants.ListByMeeting(ctx, meetingID)
	if err != nil {
		return nil, nil, err
	}

	return meeting, participants, nil
}

// Join is the HTTP-side precheck: it upserts the participant record the same
// way the realtime join does, so the client learns its role and permissions
// before opening the channel.
func (s *MeetingService) Join(ctx context.Context, meetingID string, userID uuid.UUID) (*domain.Meeting, *domain.Participant, error) {
	meeting, err := s.meetings.GetByID(ctx, meetingID)
	if err != nil {
		return nil, nil, err
	}
	if !meeting.IsActive {
		return nil, nil, ErrMeetingNotActive
	}

	participant, err := s.participants.Get(ctx, meetingID, userID)
	switch {
	case errors.Is(err, repository.ErrParticipantNotFound):
		role := domain.RoleParticipant
		if meeting.Creator == userID {
			role = domain.RoleAdmin
		}
		participant = domain.NewParticipant(meetingID, userID, role)
		if err := s.participants.Create(ctx, participant); err != nil {
			return nil, nil, err
		}
	case err != nil:
		return nil, nil, err
	default:
		if participant.Status == domain.StatusLeft {
			participant.Rejoin()
			if err := s.participants.Update(ctx, participant); err != nil {
				return nil, nil, err
			}
		}
	}

	return meeting, participant, nil
}

func (s *MeetingService) Upcoming(ctx context.Context, creator uuid.UUID) ([]*domain.Meeting, error) {
	return s.meetings.UpcomingByCreator(ctx, creator, time.Now().UTC())
}

func (s *MeetingService) History(ctx context.Context, userID uuid.UUID) ([]*domain.Participant, error) {
	return s.participants.ListByUser(ctx, userID, maxHistoryEntries)
}

// End deactivates the meeting and marks every joined participant as left.
func (s *MeetingService) End(ctx context.Context, meetingID string, userID uuid.UUID) error {
	const op = "service.meeting.end"

	meeting, err := s.meetings.GetByID(ctx, meetingID)
	if err != nil {
		return err
	}
	if meeting.Creator != userID {
		return ErrOnlyCreator
	}

	now := time.Now().UTC()
	meeting.End(now)
	if err := s.meetings.Update(ctx, meeting); err != nil {
		return err
	}

	if err := s.participants.MarkAllLeft(ctx, meetingID, now); err != nil {
		s.log.Error("failed to mark participants as left", "op", op, sl.Err(err))
		return err
	}

	s.log.Info("meeting ended", "op", op, "meeting_id", meetingID)
	return nil
}

// Activate flips a scheduled meeting live ahead of the scheduler sweep.
func (s *MeetingService) Activate(ctx context.Context, meetingID string, userID uuid.UUID) (*domain.Meeting, error) {
	meeting, err := s.meetings.GetByID(ctx, meetingID)
	if err != nil {
		return nil, err
	}
	if meeting.Creator != userID {
		return nil, ErrOnlyCreator
	}
	if !meeting.IsScheduled {
		return nil, ErrNotScheduled
	}

	meeting.IsActive = true
	if err := s.meetings.Update(ctx, meeting); err != nil {
		return nil, err
	}
	return meeting, nil
}

// Delete removes an inactive meeting with its participants and messages.
func (s *MeetingService) Delete(ctx context.Context, meetingID string, userID uuid.UUID) error {
	const op = "service.meeting.delete"

	meeting, err := s.meetings.GetByID(ctx, meetingID)
	if err != nil {
		return err
	}
	if meeting.Creator != userID {
		return ErrOnlyCreator
	}
	if meeting.IsActive {
		return ErrMeetingActive
	}

	if err := s.participants.DeleteByMeeting(ctx, meetingID); err != nil {
		return err
	}
	if err := s.messages.DeleteByMeeting(ctx, meetingID); err != nil {
		return err
	}
	if err := s.meetings.Delete(ctx, meetingID); err != nil {
		return err
	}

	s.log.Info("meeting deleted", "op", op, "meeting_id", meetingID)
	return nil
}

// UpdatePermissions replaces the target participant's whole permission set.
func (s *MeetingService) UpdatePermissions(ctx context.Context, meetingID string, adminID, targetID uuid.UUID, permissions domain.Permissions) (*domain.Participant, error) {
	meeting, err := s.meetings.GetByID(ctx, meetingID)
	if err != nil {
		return nil, err
	}
	if meeting.Creator != adminID {
		return nil, ErrOnlyCreator
	}

	participant, err := s.participants.Get(ctx, meetingID, targetID)
	if err != nil {
		return nil, err
	}

	participant.Permissions = permissions
	if err := s.participants.Update(ctx, participant); err != nil {
		return nil, err
	}
	return participant, nil
}

func (s *MeetingService) ChatHistory(ctx context.Context, meetingID string) ([]*domain.Message, error) {
	if _, err := s.meetings.GetByID(ctx, meetingID); err != nil {
		return nil, err
	}
	return s.messages.RecentByMeeting(ctx, meetingID, chatHistoryLimit)
}

func settingsOrDefault(settings *domain.MeetingSettings) domain.MeetingSettings {
	if settings == nil {
		return domain.DefaultMeetingSettings()
	}
	return *settings
}
