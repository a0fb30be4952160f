package signaling

import (
	"sync"

	"github.com/google/uuid"
)

// Registry maps a user identity to its current realtime channel. It is the
// single source of truth for "is this user currently reachable".
type Registry struct {
	mu       sync.RWMutex
	channels map[uuid.UUID]Channel
}

func NewRegistry() *Registry {
	return &Registry{channels: make(map[uuid.UUID]Channel)}
}

// Register installs ch as the user's current channel, unconditionally
// superseding any previous one (last writer wins). The superseded channel, if
// any, is returned so the caller can notify and close it.
func (r *Registry) Register(userID uuid.UUID, ch Channel) Channel {
	r.mu.Lock()
	defer r.mu.Unlock()

	previous := r.channels[userID]
	r.channels[userID] = ch
	if previous == ch {
		return nil
	}
	return previous
}

func (r *Registry) Lookup(userID uuid.UUID) (Channel, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	ch, ok := r.channels[userID]
	return ch, ok
}

// Unregister removes the entry only if it still holds ch. A reconnect may
// already have overwritten the entry; that newer registration must survive.
func (r *Registry) Unregister(userID uuid.UUID, ch Channel) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	current, ok := r.channels[userID]
	if !ok || current != ch {
		return false
	}
	delete(r.channels, userID)
	return true
}

func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.channels)
}
