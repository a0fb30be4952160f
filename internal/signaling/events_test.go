package signaling

import (
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeEvent(t *testing.T) {
	event, err := DecodeEvent([]byte(`{"type":"join-meeting","payload":{"meetingId":"abc"}}`))
	require.NoError(t, err)
	assert.Equal(t, EventJoinMeeting, event.Type)
	assert.JSONEq(t, `{"meetingId":"abc"}`, string(event.Payload))
}

func TestDecodeEvent_Malformed(t *testing.T) {
	cases := []struct {
		name string
		raw  string
	}{
		{"not json", "not json at all"},
		{"missing type", `{"payload":{}}`},
		{"empty type", `{"type":"","payload":{}}`},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := DecodeEvent([]byte(tc.raw))
			assert.ErrorIs(t, err, ErrMalformedEvent)
		})
	}
}

func TestDecodePayload_Validation(t *testing.T) {
	t.Run("join requires meeting id", func(t *testing.T) {
		_, err := decodePayload[JoinMeetingPayload](NewEvent(EventJoinMeeting, JoinMeetingPayload{}))
		assert.ErrorIs(t, err, ErrMalformedEvent)
	})

	t.Run("signal requires target", func(t *testing.T) {
		_, err := decodePayload[SignalPayload](NewEvent(EventOffer, SignalPayload{MeetingID: "m1"}))
		assert.ErrorIs(t, err, ErrMalformedEvent)
	})

	t.Run("missing payload", func(t *testing.T) {
		_, err := decodePayload[LeaveMeetingPayload](Event{Type: EventLeaveMeeting})
		assert.ErrorIs(t, err, ErrMalformedEvent)
	})

	t.Run("valid signal", func(t *testing.T) {
		payload, err := decodePayload[SignalPayload](NewEvent(EventOffer, SignalPayload{
			MeetingID:    "m1",
			TargetUserID: uuid.New(),
		}))
		require.NoError(t, err)
		assert.Equal(t, "m1", payload.MeetingID)
	})
}

func TestChatMessagePayload_Validate(t *testing.T) {
	meetingID := uuid.New().String()

	t.Run("blank content rejected", func(t *testing.T) {
		payload := ChatMessagePayload{MeetingID: meetingID, Content: "   \t "}
		assert.Error(t, payload.validate())
	})

	t.Run("too long content rejected", func(t *testing.T) {
		payload := ChatMessagePayload{MeetingID: meetingID, Content: strings.Repeat("x", maxChatMessageLength+1)}
		assert.Error(t, payload.validate())
	})

	t.Run("at limit accepted", func(t *testing.T) {
		payload := ChatMessagePayload{MeetingID: meetingID, Content: strings.Repeat("x", maxChatMessageLength)}
		assert.NoError(t, payload.validate())
	})
}
