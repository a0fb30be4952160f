package signaling

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistry_RegisterReturnsSuperseded(t *testing.T) {
	registry := NewRegistry()
	userID := uuid.New()

	first := newFakeChannel(userID, "first")
	second := newFakeChannel(userID, "second")

	require.Nil(t, registry.Register(userID, first))

	previous := registry.Register(userID, second)
	require.Equal(t, first, previous)

	current, ok := registry.Lookup(userID)
	require.True(t, ok)
	assert.Equal(t, second, current)
	assert.Equal(t, 1, registry.Len())
}

func TestRegistry_RegisterSameChannelTwice(t *testing.T) {
	registry := NewRegistry()
	userID := uuid.New()
	ch := newFakeChannel(userID, "only")

	require.Nil(t, registry.Register(userID, ch))
	assert.Nil(t, registry.Register(userID, ch), "re-registering the same channel must not report it as superseded")
}

func TestRegistry_UnregisterOnlyRemovesOwnEntry(t *testing.T) {
	registry := NewRegistry()
	userID := uuid.New()

	stale := newFakeChannel(userID, "stale")
	fresh := newFakeChannel(userID, "fresh")

	registry.Register(userID, stale)
	registry.Register(userID, fresh)

	// The stale connection's teardown must not evict the reconnect.
	assert.False(t, registry.Unregister(userID, stale))

	current, ok := registry.Lookup(userID)
	require.True(t, ok)
	assert.Equal(t, fresh, current)

	assert.True(t, registry.Unregister(userID, fresh))
	_, ok = registry.Lookup(userID)
	assert.False(t, ok)
	assert.Zero(t, registry.Len())
}

func TestRegistry_LookupUnknownUser(t *testing.T) {
	registry := NewRegistry()

	_, ok := registry.Lookup(uuid.New())
	assert.False(t, ok)
}
