package service

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/immxrtalbeast/gatherly/internal/config"
	"github.com/immxrtalbeast/gatherly/internal/domain"
	"github.com/immxrtalbeast/gatherly/internal/mailer"
	"github.com/immxrtalbeast/gatherly/internal/repository"
)

func newMeetingService() (*MeetingService, repository.ParticipantRepository, repository.MessageRepository) {
	participants := repository.NewInMemoryParticipantRepository()
	messages := repository.NewInMemoryMessageRepository()
	users := repository.NewInMemoryUserRepository()
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	svc := NewMeetingService(
		repository.NewInMemoryMeetingRepository(),
		participants,
		messages,
		users,
		mailer.New(config.SMTPConfig{}, "http://localhost:3000", log),
		log,
	)
	return svc, participants, messages
}

func TestMeetingService_CreateInstant(t *testing.T) {
	svc, participants, _ := newMeetingService()
	ctx := context.Background()
	creator := uuid.New()

	meeting, err := svc.CreateInstant(ctx, creator, "standup", "daily sync", nil)
	require.NoError(t, err)
	assert.True(t, meeting.IsActive)
	assert.False(t, meeting.IsScheduled)
	assert.NotEmpty(t, meeting.MeetingID)
	assert.Equal(t, domain.DefaultMeetingSettings(), meeting.Settings)

	// The creator is an admin participant from the start.
	record, err := participants.Get(ctx, meeting.MeetingID, creator)
	require.NoError(t, err)
	assert.Equal(t, domain.RoleAdmin, record.Role)
	assert.Equal(t, domain.StatusJoined, record.Status)
}

func TestMeetingService_CreateInstantValidation(t *testing.T) {
	svc, _, _ := newMeetingService()
	ctx := context.Background()

	_, err := svc.CreateInstant(ctx, uuid.New(), "   ", "", nil)
	assert.Error(t, err)

	_, err = svc.CreateInstant(ctx, uuid.Nil, "standup", "", nil)
	assert.Error(t, err)
}

func TestMeetingService_ScheduleInPast(t *testing.T) {
	svc, _, _ := newMeetingService()

	_, err := svc.Schedule(context.Background(), uuid.New(), "retro", "", time.Now().Add(-time.Hour), 30, false, nil, nil)
	assert.ErrorIs(t, err, ErrScheduledInPast)
}

func TestMeetingService_ScheduleStartsInactive(t *testing.T) {
	svc, _, _ := newMeetingService()
	ctx := context.Background()
	creator := uuid.New()

	at := time.Now().Add(2 * time.Hour)
	meeting, err := svc.Schedule(ctx, creator, "retro", "", at, 45, true, nil, nil)
	require.NoError(t, err)
	assert.False(t, meeting.IsActive)
	assert.True(t, meeting.IsScheduled)
	assert.True(t, meeting.Reminder)
	assert.Equal(t, 45, meeting.Duration)

	// Nobody can join until it is activated.
	_, _, err = svc.Join(ctx, meeting.MeetingID, uuid.New())
	assert.ErrorIs(t, err, ErrMeetingNotActive)

	upcoming, err := svc.Upcoming(ctx, creator)
	require.NoError(t, err)
	require.Len(t, upcoming, 1)
	assert.Equal(t, meeting.MeetingID, upcoming[0].MeetingID)
}

func TestMeetingService_ScheduleRecordsRegisteredInvitees(t *testing.T) {
	ctx := context.Background()
	users := repository.NewInMemoryUserRepository()
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	svc := NewMeetingService(
		repository.NewInMemoryMeetingRepository(),
		repository.NewInMemoryParticipantRepository(),
		repository.NewInMemoryMessageRepository(),
		users,
		mailer.New(config.SMTPConfig{}, "http://localhost:3000", log),
		log,
	)

	alice := domain.NewUser("Alice", "alice@example.com")
	require.NoError(t, users.Create(ctx, alice))

	invited := []string{"alice@example.com", "stranger@example.com"}
	meeting, err := svc.Schedule(ctx, uuid.New(), "planning", "", time.Now().Add(time.Hour), 30, false, invited, nil)
	require.NoError(t, err)

	// Only registered invitees land on the meeting record.
	assert.Equal(t, []uuid.UUID{alice.ID}, meeting.Invited)
}

func TestMeetingService_JoinUpsertsParticipant(t *testing.T) {
	svc, participants, _ := newMeetingService()
	ctx := context.Background()
	creator := uuid.New()

	meeting, err := svc.CreateInstant(ctx, creator, "standup", "", nil)
	require.NoError(t, err)

	userID := uuid.New()
	_, record, err := svc.Join(ctx, meeting.MeetingID, userID)
	require.NoError(t, err)
	assert.Equal(t, domain.RoleParticipant, record.Role)
	assert.Equal(t, domain.StatusJoined, record.Status)

	// A second join keeps the single record.
	_, _, err = svc.Join(ctx, meeting.MeetingID, userID)
	require.NoError(t, err)
	all, err := participants.ListByMeeting(ctx, meeting.MeetingID)
	require.NoError(t, err)
	assert.Len(t, all, 2) // creator + guest

	// A departed participant is rejoined, not duplicated.
	record.Depart(false)
	require.NoError(t, participants.Update(ctx, record))

	_, rejoined, err := svc.Join(ctx, meeting.MeetingID, userID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusJoined, rejoined.Status)
	assert.Nil(t, rejoined.LeftAt)
}

func TestMeetingService_EndMarksEveryoneLeft(t *testing.T) {
	svc, participants, _ := newMeetingService()
	ctx := context.Background()
	creator := uuid.New()

	meeting, err := svc.CreateInstant(ctx, creator, "standup", "", nil)
	require.NoError(t, err)

	guest := uuid.New()
	_, _, err = svc.Join(ctx, meeting.MeetingID, guest)
	require.NoError(t, err)

	require.ErrorIs(t, svc.End(ctx, meeting.MeetingID, uuid.New()), ErrOnlyCreator)

	require.NoError(t, svc.End(ctx, meeting.MeetingID, creator))

	ended, _, err := svc.Get(ctx, meeting.MeetingID)
	require.NoError(t, err)
	assert.False(t, ended.IsActive)
	require.NotNil(t, ended.EndedAt)

	for _, userID := range []uuid.UUID{creator, guest} {
		record, err := participants.Get(ctx, meeting.MeetingID, userID)
		require.NoError(t, err)
		assert.Equal(t, domain.StatusLeft, record.Status)
		assert.NotNil(t, record.LeftAt)
	}
}

func TestMeetingService_ActivateScheduledOnly(t *testing.T) {
	svc, _, _ := newMeetingService()
	ctx := context.Background()
	creator := uuid.New()

	instant, err := svc.CreateInstant(ctx, creator, "standup", "", nil)
	require.NoError(t, err)
	_, err = svc.Activate(ctx, instant.MeetingID, creator)
	assert.ErrorIs(t, err, ErrNotScheduled)

	scheduled, err := svc.Schedule(ctx, creator, "retro", "", time.Now().Add(time.Hour), 30, false, nil, nil)
	require.NoError(t, err)

	_, err = svc.Activate(ctx, scheduled.MeetingID, uuid.New())
	assert.ErrorIs(t, err, ErrOnlyCreator)

	activated, err := svc.Activate(ctx, scheduled.MeetingID, creator)
	require.NoError(t, err)
	assert.True(t, activated.IsActive)

	// Now joinable.
	_, _, err = svc.Join(ctx, scheduled.MeetingID, uuid.New())
	assert.NoError(t, err)
}

func TestMeetingService_DeleteRefusesActiveMeeting(t *testing.T) {
	svc, _, _ := newMeetingService()
	ctx := context.Background()
	creator := uuid.New()

	meeting, err := svc.CreateInstant(ctx, creator, "standup", "", nil)
	require.NoError(t, err)

	assert.ErrorIs(t, svc.Delete(ctx, meeting.MeetingID, creator), ErrMeetingActive)
	assert.ErrorIs(t, svc.Delete(ctx, meeting.MeetingID, uuid.New()), ErrOnlyCreator)
}

func TestMeetingService_DeleteCascades(t *testing.T) {
	svc, participants, messages := newMeetingService()
	ctx := context.Background()
	creator := uuid.New()

	meeting, err := svc.CreateInstant(ctx, creator, "standup", "", nil)
	require.NoError(t, err)

	msg := domain.NewMessage(meeting.MeetingID, creator, "bye", domain.MessageText)
	require.NoError(t, messages.Create(ctx, msg))

	require.NoError(t, svc.End(ctx, meeting.MeetingID, creator))
	require.NoError(t, svc.Delete(ctx, meeting.MeetingID, creator))

	_, _, err = svc.Get(ctx, meeting.MeetingID)
	assert.ErrorIs(t, err, repository.ErrMeetingNotFound)

	remaining, err := participants.ListByMeeting(ctx, meeting.MeetingID)
	require.NoError(t, err)
	assert.Empty(t, remaining)

	stored, err := messages.RecentByMeeting(ctx, meeting.MeetingID, 10)
	require.NoError(t, err)
	assert.Empty(t, stored)
}

func TestMeetingService_UpdatePermissions(t *testing.T) {
	svc, _, _ := newMeetingService()
	ctx := context.Background()
	creator := uuid.New()

	meeting, err := svc.CreateInstant(ctx, creator, "standup", "", nil)
	require.NoError(t, err)

	guest := uuid.New()
	_, _, err = svc.Join(ctx, meeting.MeetingID, guest)
	require.NoError(t, err)

	muted := domain.Permissions{CanVideo: true, CanAudio: false, CanShare: false, CanChat: true}

	_, err = svc.UpdatePermissions(ctx, meeting.MeetingID, guest, guest, muted)
	assert.ErrorIs(t, err, ErrOnlyCreator)

	updated, err := svc.UpdatePermissions(ctx, meeting.MeetingID, creator, guest, muted)
	require.NoError(t, err)
	assert.Equal(t, muted, updated.Permissions)
}

func TestMeetingService_ChatHistory(t *testing.T) {
	svc, _, messages := newMeetingService()
	ctx := context.Background()
	creator := uuid.New()

	meeting, err := svc.CreateInstant(ctx, creator, "standup", "", nil)
	require.NoError(t, err)

	for _, text := range []string{"first", "second", "third"} {
		require.NoError(t, messages.Create(ctx, domain.NewMessage(meeting.MeetingID, creator, text, domain.MessageText)))
	}

	history, err := svc.ChatHistory(ctx, meeting.MeetingID)
	require.NoError(t, err)
	require.Len(t, history, 3)
	assert.Equal(t, "first", history[0].Content)
	assert.Equal(t, "third", history[2].Content)

	_, err = svc.ChatHistory(ctx, uuid.New().String())
	assert.ErrorIs(t, err, repository.ErrMeetingNotFound)
}
