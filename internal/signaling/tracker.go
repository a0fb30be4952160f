package signaling

import "sync"

// Tracker maps a meeting to the set of channels currently joined to it. This
// is a broadcast and cleanup index only; the participant store stays
// authoritative for membership.
type Tracker struct {
	mu       sync.RWMutex
	meetings map[string]map[Channel]struct{}
}

func NewTracker() *Tracker {
	return &Tracker{meetings: make(map[string]map[Channel]struct{})}
}

func (t *Tracker) Join(meetingID string, ch Channel) {
	t.mu.Lock()
	defer t.mu.Unlock()

	set, ok := t.meetings[meetingID]
	if !ok {
		set = make(map[Channel]struct{})
		t.meetings[meetingID] = set
	}
	set[ch] = struct{}{}
}

// Leave removes ch from the meeting's set and prunes the set once empty, so
// finished meetings do not accumulate over the process lifetime.
func (t *Tracker) Leave(meetingID string, ch Channel) {
	t.mu.Lock()
	defer t.mu.Unlock()

	set, ok := t.meetings[meetingID]
	if !ok {
		return
	}
	delete(set, ch)
	if len(set) == 0 {
		delete(t.meetings, meetingID)
	}
}

func (t *Tracker) Channels(meetingID string) []Channel {
	t.mu.RLock()
	defer t.mu.RUnlock()

	set := t.meetings[meetingID]
	channels := make([]Channel, 0, len(set))
	for ch := range set {
		channels = append(channels, ch)
	}
	return channels
}

// MeetingsOf reports every meeting ch is currently joined to. Used on
// transport drop to discover which rooms need a leave.
func (t *Tracker) MeetingsOf(ch Channel) []string {
	t.mu.RLock()
	defer t.mu.RUnlock()

	var meetings []string
	for meetingID, set := range t.meetings {
		if _, ok := set[ch]; ok {
			meetings = append(meetings, meetingID)
		}
	}
	return meetings
}

// Broadcast sends event to every channel in the meeting except the excluded
// ones (typically the sender).
func (t *Tracker) Broadcast(meetingID string, event Event, exclude ...Channel) {
	for _, ch := range t.Channels(meetingID) {
		if contains(exclude, ch) {
			continue
		}
		ch.Send(event)
	}
}

func (t *Tracker) Count(meetingID string) int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.meetings[meetingID])
}

func (t *Tracker) Has(meetingID string) bool {
	t.mu.RLock()
	defer t.mu.RUnlock()
	_, ok := t.meetings[meetingID]
	return ok
}

func contains(channels []Channel, ch Channel) bool {
	for _, c := range channels {
		if c == ch {
			return true
		}
	}
	return false
}
