package domain

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewInstantMeeting(t *testing.T) {
	creator := uuid.New()
	m := NewInstantMeeting("  standup  ", "daily", creator, DefaultMeetingSettings())

	assert.Equal(t, "standup", m.Title)
	assert.True(t, m.IsActive)
	assert.False(t, m.IsScheduled)
	assert.Nil(t, m.ScheduledAt)
	assert.Equal(t, DefaultMeetingDuration, m.Duration)
	assert.True(t, m.ScheduledEnd().IsZero())
}

func TestNewScheduledMeeting(t *testing.T) {
	at := time.Date(2026, 9, 1, 15, 0, 0, 0, time.UTC)
	m := NewScheduledMeeting("retro", "", uuid.New(), at, 90, true, DefaultMeetingSettings())

	assert.False(t, m.IsActive)
	assert.True(t, m.IsScheduled)
	require.NotNil(t, m.ScheduledAt)
	assert.Equal(t, at, *m.ScheduledAt)
	assert.Equal(t, at.Add(90*time.Minute), m.ScheduledEnd())

	// Non-positive duration falls back to the default.
	m = NewScheduledMeeting("retro", "", uuid.New(), at, 0, false, DefaultMeetingSettings())
	assert.Equal(t, DefaultMeetingDuration, m.Duration)
}

func TestMeeting_End(t *testing.T) {
	m := NewInstantMeeting("standup", "", uuid.New(), DefaultMeetingSettings())
	at := time.Now()

	m.End(at)
	assert.False(t, m.IsActive)
	require.NotNil(t, m.EndedAt)
	assert.Equal(t, at.UTC(), *m.EndedAt)
}
