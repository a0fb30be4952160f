package signaling

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTracker_JoinAndLeave(t *testing.T) {
	tracker := NewTracker()
	meetingID := uuid.New().String()

	a := newFakeChannel(uuid.New(), "a")
	b := newFakeChannel(uuid.New(), "b")

	tracker.Join(meetingID, a)
	tracker.Join(meetingID, b)
	assert.Equal(t, 2, tracker.Count(meetingID))

	// Joining twice must not duplicate the entry.
	tracker.Join(meetingID, a)
	assert.Equal(t, 2, tracker.Count(meetingID))

	tracker.Leave(meetingID, a)
	assert.Equal(t, 1, tracker.Count(meetingID))
	assert.True(t, tracker.Has(meetingID))
}

func TestTracker_PrunesEmptyMeeting(t *testing.T) {
	tracker := NewTracker()
	meetingID := uuid.New().String()
	ch := newFakeChannel(uuid.New(), "solo")

	tracker.Join(meetingID, ch)
	tracker.Leave(meetingID, ch)

	assert.False(t, tracker.Has(meetingID), "empty meeting set must be pruned")
	assert.Zero(t, tracker.Count(meetingID))

	// Leaving a meeting that was never joined is a no-op.
	tracker.Leave(uuid.New().String(), ch)
}

func TestTracker_MeetingsOf(t *testing.T) {
	tracker := NewTracker()
	ch := newFakeChannel(uuid.New(), "multi")
	other := newFakeChannel(uuid.New(), "other")

	m1 := uuid.New().String()
	m2 := uuid.New().String()
	tracker.Join(m1, ch)
	tracker.Join(m2, ch)
	tracker.Join(m1, other)

	meetings := tracker.MeetingsOf(ch)
	require.Len(t, meetings, 2)
	assert.ElementsMatch(t, []string{m1, m2}, meetings)

	assert.Empty(t, tracker.MeetingsOf(newFakeChannel(uuid.New(), "stranger")))
}

func TestTracker_BroadcastExcludesSender(t *testing.T) {
	tracker := NewTracker()
	meetingID := uuid.New().String()

	sender := newFakeChannel(uuid.New(), "sender")
	peer1 := newFakeChannel(uuid.New(), "peer1")
	peer2 := newFakeChannel(uuid.New(), "peer2")

	tracker.Join(meetingID, sender)
	tracker.Join(meetingID, peer1)
	tracker.Join(meetingID, peer2)

	tracker.Broadcast(meetingID, NewEvent(EventUserJoined, UserJoinedPayload{UserID: sender.UserID()}), sender)

	assert.Empty(t, sender.sent())
	require.Len(t, peer1.sent(), 1)
	require.Len(t, peer2.sent(), 1)
	assert.Equal(t, EventUserJoined, peer1.sent()[0].Type)
}
