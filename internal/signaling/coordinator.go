package signaling

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/immxrtalbeast/gatherly/internal/domain"
	"github.com/immxrtalbeast/gatherly/internal/repository"
	"github.com/immxrtalbeast/gatherly/lib/logger/sl"
)

var (
	ErrMeetingNotActive    = errors.New("meeting is not active")
	ErrKickedFromMeeting   = errors.New("you have been removed from this meeting")
	ErrOnlyCreatorCanKick  = errors.New("only meeting creator can kick participants")
	ErrOnlyCreatorCanGrant = errors.New("only meeting creator can update permissions")
	ErrNotConnected        = errors.New("participant not connected")
	ErrChatDisabled        = errors.New("chat is disabled in this meeting")
	ErrScreenShareDisabled = errors.New("screen sharing is disabled in this meeting")
	ErrNoChatPermission    = errors.New("you are not allowed to send messages")
)

const kickedMessage = "You have been removed from the meeting by the host"

type Options struct {
	// AllowRejoinAfterKick makes a kick soft: removal
	// from the current call without a ban.
	AllowRejoinAfterKick bool
}

// Coordinator orchestrates the session lifecycle: join, leave, disconnect and
// kick, plus the per-message relays that ride on an established session. All
// state it owns is injected so tests run against isolated instances.
type Coordinator struct {
	registry *Registry
	tracker  *Tracker

	meetings     repository.MeetingRepository
	participants repository.ParticipantRepository
	messages     repository.MessageRepository
	users        repository.UserRepository

	opts Options
	log  *slog.Logger
}

func NewCoordinator(
	registry *Registry,
	tracker *Tracker,
	meetings repository.MeetingRepository,
	participants repository.ParticipantRepository,
	messages repository.MessageRepository,
	users repository.UserRepository,
	opts Options,
	log *slog.Logger,
) *Coordinator {
	if log == nil {
		log = slog.Default()
	}
	return &Coordinator{
		registry:     registry,
		tracker:      tracker,
		meetings:     meetings,
		participants: participants,
		messages:     messages,
		users:        users,
		opts:         opts,
		log:          log,
	}
}

// HandleEvent is the entry point for every inbound frame of a connection.
// Validation errors are reported back on the same channel as an error event
// and never take the handler down.
func (c *Coordinator) HandleEvent(ctx context.Context, ch Channel, raw []byte) {
	event, err := DecodeEvent(raw)
	if err != nil {
		ch.Send(errorEvent("malformed event"))
		return
	}

	if err := c.dispatch(ctx, ch, event); err != nil {
		c.log.Info("event failed",
			"type", event.Type,
			"user_id", ch.UserID().String(),
			sl.Err(err),
		)
		ch.Send(errorEvent(clientMessage(err)))
	}
}

// clientMessage decides what a failed event looks like on the wire. Sentinel
// errors are policy outcomes and travel as-is; anything else stays in the log
// and the client gets a generic reply.
func clientMessage(err error) string {
	safe := []error{
		ErrMalformedEvent,
		ErrMeetingNotActive,
		ErrKickedFromMeeting,
		ErrOnlyCreatorCanGrant,
		ErrChatDisabled,
		ErrScreenShareDisabled,
		ErrNoChatPermission,
		repository.ErrMeetingNotFound,
		repository.ErrParticipantNotFound,
	}
	for _, sentinel := range safe {
		if errors.Is(err, sentinel) {
			return err.Error()
		}
	}
	return "something went wrong"
}

func (c *Coordinator) dispatch(ctx context.Context, ch Channel, event Event) error {
	switch event.Type {
	case EventJoinMeeting:
		payload, err := decodePayload[JoinMeetingPayload](event)
		if err != nil {
			return err
		}
		return c.Join(ctx, ch, payload)
	case EventOffer, EventAnswer, EventICECandidate:
		payload, err := decodePayload[SignalPayload](event)
		if err != nil {
			return err
		}
		c.Relay(event.Type, ch, payload)
		return nil
	case EventChatMessage:
		payload, err := decodePayload[ChatMessagePayload](event)
		if err != nil {
			return err
		}
		return c.Chat(ctx, ch, payload)
	case EventToggleAudio:
		payload, err := decodePayload[ToggleAudioPayload](event)
		if err != nil {
			return err
		}
		c.tracker.Broadcast(payload.MeetingID, NewEvent(EventUserAudioToggled, AudioToggledPayload{
			UserID:    ch.UserID(),
			IsAudioOn: payload.IsAudioOn,
		}), ch)
		return nil
	case EventToggleVideo:
		payload, err := decodePayload[ToggleVideoPayload](event)
		if err != nil {
			return err
		}
		c.tracker.Broadcast(payload.MeetingID, NewEvent(EventUserVideoToggled, VideoToggledPayload{
			UserID:    ch.UserID(),
			IsVideoOn: payload.IsVideoOn,
		}), ch)
		return nil
	case EventScreenShareStart:
		payload, err := decodePayload[ScreenSharePayload](event)
		if err != nil {
			return err
		}
		return c.ScreenShare(ctx, ch, payload.MeetingID, true)
	case EventScreenShareStop:
		payload, err := decodePayload[ScreenSharePayload](event)
		if err != nil {
			return err
		}
		return c.ScreenShare(ctx, ch, payload.MeetingID, false)
	case EventRequestPermission:
		payload, err := decodePayload[RequestPermissionPayload](event)
		if err != nil {
			return err
		}
		return c.RequestPermission(ctx, ch, payload)
	case EventGrantPermission:
		payload, err := decodePayload[GrantPermissionPayload](event)
		if err != nil {
			return err
		}
		return c.GrantPermission(ctx, ch, payload)
	case EventLeaveMeeting:
		payload, err := decodePayload[LeaveMeetingPayload](event)
		if err != nil {
			return err
		}
		c.leave(ctx, ch, payload.MeetingID, false)
		return nil
	default:
		return fmt.Errorf("%w: unsupported event type %q", ErrMalformedEvent, event.Type)
	}
}

// Join validates the meeting, upserts the durable participant record and
// registers the channel in both ephemeral indexes. The joining channel gets
// the current member list back; everyone else gets a user-joined notice.
func (c *Coordinator) Join(ctx context.Context, ch Channel, payload JoinMeetingPayload) error {
	const op = "signaling.join"
	userID := ch.UserID()
	log := c.log.With(
		slog.String("op", op),
		slog.String("meeting_id", payload.MeetingID),
		slog.String("user_id", userID.String()),
	)

	meeting, err := c.meetings.GetByID(ctx, payload.MeetingID)
	if err != nil {
		return err
	}
	if !meeting.IsActive {
		return ErrMeetingNotActive
	}

	ch.SetName(payload.UserName)

	participant, err := c.participants.Get(ctx, payload.MeetingID, userID)
	switch {
	case errors.Is(err, repository.ErrParticipantNotFound):
		role := domain.RoleParticipant
		if meeting.Creator == userID {
			role = domain.RoleAdmin
		}
		participant = domain.NewParticipant(payload.MeetingID, userID, role)
		if err := c.participants.Create(ctx, participant); err != nil {
			if !errors.Is(err, repository.ErrParticipantExists) {
				return err
			}
			// Lost a create race against another connection of the same
			// user; fall back to the stored record.
			participant, err = c.participants.Get(ctx, payload.MeetingID, userID)
			if err != nil {
				return err
			}
		}
	case err != nil:
		return err
	}

	if participant.Status == domain.StatusKicked && !c.opts.AllowRejoinAfterKick {
		return ErrKickedFromMeeting
	}
	if participant.Status != domain.StatusJoined {
		participant.Rejoin()
		if err := c.participants.Update(ctx, participant); err != nil {
			return err
		}
	}

	if previous := c.registry.Register(userID, ch); previous != nil {
		// A second tab took over; the old one is told and cut loose.
		previous.Send(NewEvent(EventConnectionSuperseded, ErrorPayload{
			Message: "this session was opened from another tab",
		}))
		for _, previousMeetingID := range c.tracker.MeetingsOf(previous) {
			if previousMeetingID == payload.MeetingID {
				// Same meeting: the user stays joined on the new channel,
				// only the old one is dropped from the room.
				c.tracker.Leave(previousMeetingID, previous)
				continue
			}
			c.leave(ctx, previous, previousMeetingID, false)
		}
		previous.Close()
	}
	c.tracker.Join(payload.MeetingID, ch)

	c.tracker.Broadcast(payload.MeetingID, NewEvent(EventUserJoined, UserJoinedPayload{
		UserID:      userID,
		UserName:    ch.Name(),
		Permissions: participant.Permissions,
	}), ch)

	infos, err := c.joinedParticipants(ctx, payload.MeetingID, userID)
	if err != nil {
		log.Error("failed to list participants", sl.Err(err))
		return err
	}
	ch.Send(NewEvent(EventMeetingParticipants, MeetingParticipantsPayload{Participants: infos}))

	log.Info("user joined meeting", "user_name", ch.Name())
	return nil
}

// Relay forwards one signaling message to the target's current channel. An
// unreachable target is a normal negotiation race and is dropped silently.
func (c *Coordinator) Relay(kind string, from Channel, payload SignalPayload) {
	payload.FromUserID = from.UserID()

	target, ok := c.registry.Lookup(payload.TargetUserID)
	if !ok {
		c.log.Debug("relay target not connected",
			"kind", kind,
			"target_user_id", payload.TargetUserID.String(),
			"from_user_id", payload.FromUserID.String(),
		)
		return
	}
	target.Send(NewEvent(kind, payload))
}

// Chat persists the message and broadcasts the stored record, sender
// included, to everyone in the meeting.
func (c *Coordinator) Chat(ctx context.Context, ch Channel, payload ChatMessagePayload) error {
	const op = "signaling.chat"

	meeting, err := c.meetings.GetByID(ctx, payload.MeetingID)
	if err != nil {
		return err
	}
	if !meeting.Settings.AllowChat {
		return ErrChatDisabled
	}

	participant, err := c.participants.Get(ctx, payload.MeetingID, ch.UserID())
	if err != nil {
		return err
	}
	if !participant.Permissions.CanChat {
		return ErrNoChatPermission
	}

	message := domain.NewMessage(payload.MeetingID, ch.UserID(), payload.Content, domain.MessageText)
	if err := c.messages.Create(ctx, message); err != nil {
		c.log.Error("failed to save chat message", "op", op, sl.Err(err))
		return err
	}

	broadcast := ChatBroadcastPayload{
		ID:         message.ID,
		MeetingID:  message.MeetingID,
		Sender:     message.Sender,
		Content:    message.Content,
		Type:       string(message.Type),
		CreatedAt:  message.CreatedAt.Format(time.RFC3339Nano),
		SenderName: ch.Name(),
	}
	if user, err := c.users.GetByID(ctx, ch.UserID()); err == nil {
		broadcast.SenderName = user.FullName
		broadcast.SenderPic = user.ProfilePic
	}

	c.tracker.Broadcast(payload.MeetingID, NewEvent(EventChatMessage, broadcast))
	return nil
}

func (c *Coordinator) ScreenShare(ctx context.Context, ch Channel, meetingID string, start bool) error {
	if start {
		meeting, err := c.meetings.GetByID(ctx, meetingID)
		if err != nil {
			return err
		}
		if !meeting.Settings.AllowScreenShare {
			return ErrScreenShareDisabled
		}
		c.tracker.Broadcast(meetingID, NewEvent(EventScreenShareStarted, ScreenSharePeerPayload{UserID: ch.UserID()}), ch)
		return nil
	}
	c.tracker.Broadcast(meetingID, NewEvent(EventScreenShareStopped, ScreenSharePeerPayload{UserID: ch.UserID()}), ch)
	return nil
}

// RequestPermission forwards a participant's ask to the creator's channel, if
// the creator is connected.
func (c *Coordinator) RequestPermission(ctx context.Context, ch Channel, payload RequestPermissionPayload) error {
	meeting, err := c.meetings.GetByID(ctx, payload.MeetingID)
	if err != nil {
		return err
	}

	creator, ok := c.registry.Lookup(meeting.Creator)
	if !ok {
		// Nobody to ask; the requester gets no reply either way.
		return nil
	}
	creator.Send(NewEvent(EventPermissionRequested, PermissionRequestedPayload{
		UserID:         ch.UserID(),
		UserName:       ch.Name(),
		PermissionType: payload.PermissionType,
	}))
	return nil
}

// GrantPermission flips one permission on the target participant and notifies
// only the target's channel.
func (c *Coordinator) GrantPermission(ctx context.Context, ch Channel, payload GrantPermissionPayload) error {
	meeting, err := c.meetings.GetByID(ctx, payload.MeetingID)
	if err != nil {
		return err
	}
	if meeting.Creator != ch.UserID() {
		return ErrOnlyCreatorCanGrant
	}

	participant, err := c.participants.Get(ctx, payload.MeetingID, payload.UserID)
	if err != nil {
		return err
	}
	if !participant.Permissions.Set(payload.PermissionType, payload.Granted) {
		return fmt.Errorf("%w: unknown permission type %q", ErrMalformedEvent, payload.PermissionType)
	}
	if err := c.participants.Update(ctx, participant); err != nil {
		return err
	}

	if target, ok := c.registry.Lookup(payload.UserID); ok {
		target.Send(NewEvent(EventPermissionUpdated, PermissionUpdatedPayload{
			PermissionType: payload.PermissionType,
			Granted:        payload.Granted,
		}))
	}
	return nil
}

// Kick removes a participant on the creator's behalf. It runs the common
// leave path with the kicked flag plus a direct notice to the target so the
// client can force-exit its UI.
func (c *Coordinator) Kick(ctx context.Context, meetingID string, targetUserID, adminID uuid.UUID) error {
	const op = "signaling.kick"
	log := c.log.With(
		slog.String("op", op),
		slog.String("meeting_id", meetingID),
		slog.String("target_user_id", targetUserID.String()),
	)

	meeting, err := c.meetings.GetByID(ctx, meetingID)
	if err != nil {
		return err
	}
	if meeting.Creator != adminID {
		return ErrOnlyCreatorCanKick
	}

	target, ok := c.registry.Lookup(targetUserID)
	if !ok {
		return ErrNotConnected
	}
	if _, err := c.participants.Get(ctx, meetingID, targetUserID); err != nil {
		return err
	}

	target.Send(NewEvent(EventKickedFromMeeting, KickedPayload{Message: kickedMessage}))
	c.leave(ctx, target, meetingID, true)

	log.Info("participant kicked", "admin_id", adminID.String())
	return nil
}

// Disconnect runs the leave path for every meeting the dropped channel was
// joined to. Explicit leave and transport drop converge here on identical
// downstream effects.
func (c *Coordinator) Disconnect(ctx context.Context, ch Channel) {
	for _, meetingID := range c.tracker.MeetingsOf(ch) {
		c.leave(ctx, ch, meetingID, false)
	}
	c.registry.Unregister(ch.UserID(), ch)
	ch.Close()
}

// leave is the single lifecycle path for voluntary leave, disconnect and
// kick. The durable status update may fail; ephemeral state is cleaned up
// regardless so the room never leaks phantom members.
func (c *Coordinator) leave(ctx context.Context, ch Channel, meetingID string, kicked bool) {
	const op = "signaling.leave"
	userID := ch.UserID()
	log := c.log.With(
		slog.String("op", op),
		slog.String("meeting_id", meetingID),
		slog.String("user_id", userID.String()),
	)

	userName := ch.Name()
	participant, err := c.participants.Get(ctx, meetingID, userID)
	if err != nil {
		log.Debug("no participant record on leave", sl.Err(err))
	} else {
		participant.Depart(kicked)
		if err := c.participants.Update(ctx, participant); err != nil {
			log.Error("failed to update participant status", sl.Err(err))
		}
	}
	if user, err := c.users.GetByID(ctx, userID); err == nil {
		userName = user.FullName
	}

	c.tracker.Leave(meetingID, ch)
	c.registry.Unregister(userID, ch)

	c.tracker.Broadcast(meetingID, NewEvent(EventUserLeft, UserLeftPayload{
		UserID:   userID,
		UserName: userName,
	}))

	log.Info("user left meeting", "kicked", kicked)
}

func (c *Coordinator) joinedParticipants(ctx context.Context, meetingID string, exclude uuid.UUID) ([]ParticipantInfo, error) {
	joined, err := c.participants.ListByStatus(ctx, meetingID, domain.StatusJoined)
	if err != nil {
		return nil, err
	}

	infos := make([]ParticipantInfo, 0, len(joined))
	for _, participant := range joined {
		if participant.UserID == exclude {
			continue
		}
		info := ParticipantInfo{
			UserID:      participant.UserID,
			Role:        participant.Role,
			Permissions: participant.Permissions,
			JoinedAt:    participant.JoinedAt.Format(time.RFC3339Nano),
		}
		if user, err := c.users.GetByID(ctx, participant.UserID); err == nil {
			info.UserName = user.FullName
			info.ProfilePic = user.ProfilePic
		} else if ch, ok := c.registry.Lookup(participant.UserID); ok {
			info.UserName = ch.Name()
		}
		infos = append(infos, info)
	}
	return infos, nil
}
