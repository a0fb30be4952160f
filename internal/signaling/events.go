package signaling

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/immxrtalbeast/gatherly/internal/domain"
	"github.com/pion/webrtc/v3"
)

// Client -> server event types.
const (
	EventJoinMeeting       = "join-meeting"
	EventOffer             = "offer"
	EventAnswer            = "answer"
	EventICECandidate      = "ice-candidate"
	EventChatMessage       = "chat-message"
	EventToggleAudio       = "toggle-audio"
	EventToggleVideo       = "toggle-video"
	EventScreenShareStart  = "screen-share-start"
	EventScreenShareStop   = "screen-share-stop"
	EventRequestPermission = "request-permission"
	EventGrantPermission   = "grant-permission"
	EventLeaveMeeting      = "leave-meeting"
)

// Server -> client event types.
const (
	EventUserJoined           = "user-joined"
	EventMeetingParticipants  = "meeting-participants"
	EventUserLeft             = "user-left"
	EventKickedFromMeeting    = "kicked-from-meeting"
	EventUserAudioToggled     = "user-audio-toggled"
	EventUserVideoToggled     = "user-video-toggled"
	EventScreenShareStarted   = "screen-share-started"
	EventScreenShareStopped   = "screen-share-stopped"
	EventPermissionRequested  = "permission-requested"
	EventPermissionUpdated    = "permission-updated"
	EventConnectionSuperseded = "connection-superseded"
	EventError                = "error"
)

// Event is the envelope every realtime message travels in, both directions.
type Event struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

var ErrMalformedEvent = errors.New("malformed event")

func NewEvent(kind string, payload any) Event {
	raw, err := json.Marshal(payload)
	if err != nil {
		// Payload types are our own structs; a marshal failure is a
		// programming error, not runtime input.
		panic(fmt.Sprintf("signaling: marshal %s payload: %v", kind, err))
	}
	return Event{Type: kind, Payload: raw}
}

func DecodeEvent(raw []byte) (Event, error) {
	var event Event
	if err := json.Unmarshal(raw, &event); err != nil {
		return Event{}, fmt.Errorf("%w: %v", ErrMalformedEvent, err)
	}
	if event.Type == "" {
		return Event{}, fmt.Errorf("%w: missing type", ErrMalformedEvent)
	}
	return event, nil
}

func decodePayload[T interface{ validate() error }](event Event) (T, error) {
	var payload T
	if len(event.Payload) == 0 {
		return payload, fmt.Errorf("%w: %s: missing payload", ErrMalformedEvent, event.Type)
	}
	if err := json.Unmarshal(event.Payload, &payload); err != nil {
		return payload, fmt.Errorf("%w: %s: %v", ErrMalformedEvent, event.Type, err)
	}
	if err := payload.validate(); err != nil {
		return payload, fmt.Errorf("%w: %s: %v", ErrMalformedEvent, event.Type, err)
	}
	return payload, nil
}

type JoinMeetingPayload struct {
	MeetingID string `json:"meetingId"`
	UserName  string `json:"userName"`
}

func (p JoinMeetingPayload) validate() error {
	if p.MeetingID == "" {
		return errors.New("meetingId is required")
	}
	return nil
}

// SignalPayload carries one leg of a WebRTC negotiation. Exactly one of
// Offer/Answer/Candidate is set depending on the event type; the contents are
// forwarded verbatim and never interpreted here.
type SignalPayload struct {
	MeetingID    string                     `json:"meetingId"`
	TargetUserID uuid.UUID                  `json:"targetUserId"`
	FromUserID   uuid.UUID                  `json:"fromUserId"`
	Offer        *webrtc.SessionDescription `json:"offer,omitempty"`
	Answer       *webrtc.SessionDescription `json:"answer,omitempty"`
	Candidate    *webrtc.ICECandidateInit   `json:"candidate,omitempty"`
}

func (p SignalPayload) validate() error {
	if p.MeetingID == "" {
		return errors.New("meetingId is required")
	}
	if p.TargetUserID == uuid.Nil {
		return errors.New("targetUserId is required")
	}
	return nil
}

const maxChatMessageLength = 4000

type ChatMessagePayload struct {
	MeetingID string `json:"meetingId"`
	Content   string `json:"content"`
}

func (p ChatMessagePayload) validate() error {
	if p.MeetingID == "" {
		return errors.New("meetingId is required")
	}
	if strings.TrimSpace(p.Content) == "" {
		return errors.New("content is required")
	}
	if utf8.RuneCountInString(p.Content) > maxChatMessageLength {
		return errors.New("content is too long")
	}
	return nil
}

type ToggleAudioPayload struct {
	MeetingID string `json:"meetingId"`
	IsAudioOn bool   `json:"isAudioOn"`
}

func (p ToggleAudioPayload) validate() error {
	if p.MeetingID == "" {
		return errors.New("meetingId is required")
	}
	return nil
}

type ToggleVideoPayload struct {
	MeetingID string `json:"meetingId"`
	IsVideoOn bool   `json:"isVideoOn"`
}

func (p ToggleVideoPayload) validate() error {
	if p.MeetingID == "" {
		return errors.New("meetingId is required")
	}
	return nil
}

type ScreenSharePayload struct {
	MeetingID string `json:"meetingId"`
}

func (p ScreenSharePayload) validate() error {
	if p.MeetingID == "" {
		return errors.New("meetingId is required")
	}
	return nil
}

type RequestPermissionPayload struct {
	MeetingID      string                `json:"meetingId"`
	PermissionType domain.PermissionType `json:"permissionType"`
}

func (p RequestPermissionPayload) validate() error {
	if p.MeetingID == "" {
		return errors.New("meetingId is required")
	}
	if p.PermissionType == "" {
		return errors.New("permissionType is required")
	}
	return nil
}

type GrantPermissionPayload struct {
	MeetingID      string                `json:"meetingId"`
	UserID         uuid.UUID             `json:"userId"`
	PermissionType domain.PermissionType `json:"permissionType"`
	Granted        bool                  `json:"granted"`
}

func (p GrantPermissionPayload) validate() error {
	if p.MeetingID == "" {
		return errors.New("meetingId is required")
	}
	if p.UserID == uuid.Nil {
		return errors.New("userId is required")
	}
	if p.PermissionType == "" {
		return errors.New("permissionType is required")
	}
	return nil
}

type LeaveMeetingPayload struct {
	MeetingID string `json:"meetingId"`
}

func (p LeaveMeetingPayload) validate() error {
	if p.MeetingID == "" {
		return errors.New("meetingId is required")
	}
	return nil
}

// Outbound payloads.

type UserJoinedPayload struct {
	UserID      uuid.UUID          `json:"userId"`
	UserName    string             `json:"userName"`
	Permissions domain.Permissions `json:"permissions"`
}

type ParticipantInfo struct {
	UserID      uuid.UUID              `json:"userId"`
	UserName    string                 `json:"userName"`
	ProfilePic  string                 `json:"profilePic,omitempty"`
	Role        domain.ParticipantRole `json:"role"`
	Permissions domain.Permissions     `json:"permissions"`
	JoinedAt    string                 `json:"joinedAt"`
}

type MeetingParticipantsPayload struct {
	Participants []ParticipantInfo `json:"participants"`
}

type UserLeftPayload struct {
	UserID   uuid.UUID `json:"userId"`
	UserName string    `json:"userName,omitempty"`
}

type KickedPayload struct {
	Message string `json:"message"`
}

type ChatBroadcastPayload struct {
	ID        uuid.UUID `json:"id"`
	MeetingID string    `json:"meetingId"`
	Sender    uuid.UUID `json:"sender"`
	Content   string    `json:"content"`
	Type      string    `json:"type"`
	CreatedAt string    `json:"createdAt"`

	SenderName string `json:"senderName,omitempty"`
	SenderPic  string `json:"senderPic,omitempty"`
}

type AudioToggledPayload struct {
	UserID    uuid.UUID `json:"userId"`
	IsAudioOn bool      `json:"isAudioOn"`
}

type VideoToggledPayload struct {
	UserID    uuid.UUID `json:"userId"`
	IsVideoOn bool      `json:"isVideoOn"`
}

type ScreenSharePeerPayload struct {
	UserID uuid.UUID `json:"userId"`
}

type PermissionRequestedPayload struct {
	UserID         uuid.UUID             `json:"userId"`
	UserName       string                `json:"userName,omitempty"`
	PermissionType domain.PermissionType `json:"permissionType"`
}

type PermissionUpdatedPayload struct {
	PermissionType domain.PermissionType `json:"permissionType"`
	Granted        bool                  `json:"granted"`
}

type ErrorPayload struct {
	Message string `json:"message"`
}

func errorEvent(message string) Event {
	return NewEvent(EventError, ErrorPayload{Message: message})
}
