package domain

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPermissions_Set(t *testing.T) {
	p := DefaultPermissions()

	require.True(t, p.Set(PermissionAudio, false))
	assert.False(t, p.CanAudio)

	require.True(t, p.Set(PermissionChat, false))
	assert.False(t, p.CanChat)
	assert.True(t, p.CanVideo)
	assert.True(t, p.CanShare)

	assert.False(t, p.Set("canTeleport", true))
}

func TestParticipant_Lifecycle(t *testing.T) {
	p := NewParticipant(uuid.New().String(), uuid.New(), RoleParticipant)
	require.Equal(t, StatusJoined, p.Status)
	require.Nil(t, p.LeftAt)
	firstJoin := p.JoinedAt

	p.Depart(false)
	assert.Equal(t, StatusLeft, p.Status)
	require.NotNil(t, p.LeftAt)

	p.Rejoin()
	assert.Equal(t, StatusJoined, p.Status)
	assert.Nil(t, p.LeftAt)
	assert.False(t, p.JoinedAt.Before(firstJoin))

	p.Depart(true)
	assert.Equal(t, StatusKicked, p.Status)
	assert.NotNil(t, p.LeftAt)
}
