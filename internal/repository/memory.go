package repository

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/immxrtalbeast/gatherly/internal/domain"
)

type InMemoryMeetingRepository struct {
	mu       sync.RWMutex
	meetings map[string]*domain.Meeting
}

func NewInMemoryMeetingRepository() *InMemoryMeetingRepository {
	return &InMemoryMeetingRepository{meetings: make(map[string]*domain.Meeting)}
}

func (r *InMemoryMeetingRepository) Create(ctx context.Context, meeting *domain.Meeting) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.meetings[meeting.MeetingID]; ok {
		return ErrMeetingIDExists
	}
	r.meetings[meeting.MeetingID] = cloneMeeting(meeting)
	return nil
}

func (r *InMemoryMeetingRepository) GetByID(ctx context.Context, meetingID string) (*domain.Meeting, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	meeting, ok := r.meetings[meetingID]
	if !ok {
		return nil, ErrMeetingNotFound
	}
	return cloneMeeting(meeting), nil
}

func (r *InMemoryMeetingRepository) Update(ctx context.Context, meeting *domain.Meeting) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.meetings[meeting.MeetingID]; !ok {
		return ErrMeetingNotFound
	}
	r.meetings[meeting.MeetingID] = cloneMeeting(meeting)
	return nil
}

func (r *InMemoryMeetingRepository) Delete(ctx context.Context, meetingID string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.meetings[meetingID]; !ok {
		return ErrMeetingNotFound
	}
	delete(r.meetings, meetingID)
	return nil
}

func (r *InMemoryMeetingRepository) UpcomingByCreator(ctx context.Context, creator uuid.UUID, after time.Time) ([]*domain.Meeting, error) {
	return r.filter(ctx, func(m *domain.Meeting) bool {
		return m.Creator == creator && m.IsScheduled && m.EndedAt == nil &&
			m.ScheduledAt != nil && !m.ScheduledAt.Before(after)
	})
}

func (r *InMemoryMeetingRepository) DueForActivation(ctx context.Context, now time.Time) ([]*domain.Meeting, error) {
	return r.filter(ctx, func(m *domain.Meeting) bool {
		return m.IsScheduled && !m.IsActive && m.EndedAt == nil &&
			m.ScheduledAt != nil && !m.ScheduledAt.After(now)
	})
}

func (r *InMemoryMeetingRepository) DueForReminder(ctx context.Context, from, to time.Time) ([]*domain.Meeting, error) {
	return r.filter(ctx, func(m *domain.Meeting) bool {
		return m.IsScheduled && !m.IsActive && m.Reminder &&
			m.ScheduledAt != nil && !m.ScheduledAt.Before(from) && !m.ScheduledAt.After(to)
	})
}

func (r *InMemoryMeetingRepository) ActiveScheduled(ctx context.Context) ([]*domain.Meeting, error) {
	return r.filter(ctx, func(m *domain.Meeting) bool {
		return m.IsActive && m.ScheduledAt != nil && m.EndedAt == nil
	})
}

func (r *InMemoryMeetingRepository) filter(ctx context.Context, keep func(*domain.Meeting) bool) ([]*domain.Meeting, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	var result []*domain.Meeting
	for _, meeting := range r.meetings {
		if keep(meeting) {
			result = append(result, cloneMeeting(meeting))
		}
	}
	sort.Slice(result, func(i, j int) bool {
		si, sj := result[i].ScheduledAt, result[j].ScheduledAt
		if si == nil || sj == nil {
			return result[i].CreatedAt.Before(result[j].CreatedAt)
		}
		return si.Before(*sj)
	})
	return result, nil
}

type participantKey struct {
	meetingID string
	userID    uuid.UUID
}

type InMemoryParticipantRepository struct {
	mu           sync.RWMutex
	participants map[participantKey]*domain.Participant
}

func NewInMemoryParticipantRepository() *InMemoryParticipantRepository {
	return &InMemoryParticipantRepository{participants: make(map[participantKey]*domain.Participant)}
}

func (r *InMemoryParticipantRepository) Create(ctx context.Context, participant *domain.Participant) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	key := participantKey{participant.MeetingID, participant.UserID}
	if _, ok := r.participants[key]; ok {
		return ErrParticipantExists
	}
	r.participants[key] = cloneParticipant(participant)
	return nil
}

func (r *InMemoryParticipantRepository) Get(ctx context.Context, meetingID string, userID uuid.UUID) (*domain.Participant, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	participant, ok := r.participants[participantKey{meetingID, userID}]
	if !ok {
		return nil, ErrParticipantNotFound
	}
	return cloneParticipant(participant), nil
}

func (r *InMemoryParticipantRepository) Update(ctx context.Context, participant *domain.Participant) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	key := participantKey{participant.MeetingID, participant.UserID}
	if _, ok := r.participants[key]; !ok {
		return ErrParticipantNotFound
	}
	r.participants[key] = cloneParticipant(participant)
	return nil
}

func (r *InMemoryParticipantRepository) ListByMeeting(ctx context.Context, meetingID string) ([]*domain.Participant, error) {
	return r.list(ctx, func(p *domain.Participant) bool {
		return p.MeetingID == meetingID
	})
}

func (r *InMemoryParticipantRepository) ListByStatus(ctx context.Context, meetingID string, status domain.ParticipantStatus) ([]*domain.Participant, error) {
	return r.list(ctx, func(p *domain.Participant) bool {
		return p.MeetingID == meetingID && p.Status == status
	})
}

func (r *InMemoryParticipantRepository) ListByUser(ctx context.Context, userID uuid.UUID, limit int) ([]*domain.Participant, error) {
	result, err := r.list(ctx, func(p *domain.Participant) bool {
		return p.UserID == userID
	})
	if err != nil {
		return nil, err
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].CreatedAt.After(result[j].CreatedAt)
	})
	if limit > 0 && len(result) > limit {
		result = result[:limit]
	}
	return result, nil
}

func (r *InMemoryParticipantRepository) MarkAllLeft(ctx context.Context, meetingID string, at time.Time) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	for key, participant := range r.participants {
		if key.meetingID != meetingID || participant.Status != domain.StatusJoined {
			continue
		}
		left := at
		participant.Status = domain.StatusLeft
		participant.LeftAt = &left
		participant.UpdatedAt = at
	}
	return nil
}

func (r *InMemoryParticipantRepository) DeleteByMeeting(ctx context.Context, meetingID string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	for key := range r.participants {
		if key.meetingID == meetingID {
			delete(r.participants, key)
		}
	}
	return nil
}

func (r *InMemoryParticipantRepository) list(ctx context.Context, keep func(*domain.Participant) bool) ([]*domain.Participant, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	var result []*domain.Participant
	for _, participant := range r.participants {
		if keep(participant) {
			result = append(result, cloneParticipant(participant))
		}
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].JoinedAt.Before(result[j].JoinedAt)
	})
	return result, nil
}

type InMemoryMessageRepository struct {
	mu       sync.RWMutex
	messages map[string][]*domain.Message
}

func NewInMemoryMessageRepository() *InMemoryMessageRepository {
	return &InMemoryMessageRepository{messages: make(map[string][]*domain.Message)}
}

func (r *InMemoryMessageRepository) Create(ctx context.Context, message *domain.Message) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	copied := *message
	r.messages[message.MeetingID] = append(r.messages[message.MeetingID], &copied)
	return nil
}

func (r *InMemoryMessageRepository) RecentByMeeting(ctx context.Context, meetingID string, limit int) ([]*domain.Message, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	messages := r.messages[meetingID]
	if limit > 0 && len(messages) > limit {
		messages = messages[len(messages)-limit:]
	}

	result := make([]*domain.Message, 0, len(messages))
	for _, message := range messages {
		copied := *message
		result = append(result, &copied)
	}
	return result, nil
}

func (r *InMemoryMessageRepository) DeleteByMeeting(ctx context.Context, meetingID string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.messages, meetingID)
	return nil
}

type InMemoryUserRepository struct {
	mu     sync.RWMutex
	users  map[uuid.UUID]*domain.User
	emails map[string]uuid.UUID
}

func NewInMemoryUserRepository() *InMemoryUserRepository {
	return &InMemoryUserRepository{
		users:  make(map[uuid.UUID]*domain.User),
		emails: make(map[string]uuid.UUID),
	}
}

func (r *InMemoryUserRepository) Create(ctx context.Context, user *domain.User) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if user.Email != "" {
		if _, ok := r.emails[user.Email]; ok {
			return ErrUserEmailExists
		}
		r.emails[user.Email] = user.ID
	}

	copied := *user
	r.users[user.ID] = &copied
	return nil
}

func (r *InMemoryUserRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	user, ok := r.users[id]
	if !ok {
		return nil, ErrUserNotFound
	}
	copied := *user
	return &copied, nil
}

func (r *InMemoryUserRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	id, ok := r.emails[email]
	if !ok {
		return nil, ErrUserNotFound
	}
	user, ok := r.users[id]
	if !ok {
		return nil, ErrUserNotFound
	}
	copied := *user
	return &copied, nil
}

func (r *InMemoryUserRepository) Update(ctx context.Context, user *domain.User) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.users[user.ID]; !ok {
		return ErrUserNotFound
	}
	copied := *user
	r.users[user.ID] = &copied
	if user.Email != "" {
		r.emails[user.Email] = user.ID
	}
	return nil
}

func cloneMeeting(m *domain.Meeting) *domain.Meeting {
	copied := *m
	if m.ScheduledAt != nil {
		at := *m.ScheduledAt
		copied.ScheduledAt = &at
	}
	if m.EndedAt != nil {
		at := *m.EndedAt
		copied.EndedAt = &at
	}
	if len(m.Invited) > 0 {
		copied.Invited = append([]uuid.UUID(nil), m.Invited...)
	}
	return &copied
}

func cloneParticipant(p *domain.Participant) *domain.Participant {
	copied := *p
	if p.LeftAt != nil {
		at := *p.LeftAt
		copied.LeftAt = &at
	}
	return &copied
}
