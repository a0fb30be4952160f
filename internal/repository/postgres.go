package repository

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/immxrtalbeast/gatherly/internal/domain"
	"github.com/immxrtalbeast/gatherly/internal/repository/model"
	"gorm.io/gorm"
)

type PostgresMeetingRepository struct {
	db *gorm.DB
}

func NewPostgresMeetingRepository(db *gorm.DB) *PostgresMeetingRepository {
	return &PostgresMeetingRepository{db: db}
}

func (r *PostgresMeetingRepository) Create(ctx context.Context, meeting *domain.Meeting) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if meeting == nil {
		return errors.New("meeting is nil")
	}

	if err := r.db.WithContext(ctx).Create(toModelMeeting(meeting)).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return ErrMeetingIDExists
		}
		return err
	}
	return nil
}

func (r *PostgresMeetingRepository) GetByID(ctx context.Context, meetingID string) (*domain.Meeting, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var meeting model.Meeting
	err := r.db.WithContext(ctx).First(&meeting, "meeting_id = ?", meetingID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrMeetingNotFound
		}
		return nil, err
	}

	return toDomainMeeting(&meeting), nil
}

func (r *PostgresMeetingRepository) Update(ctx context.Context, meeting *domain.Meeting) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if meeting == nil {
		return errors.New("meeting is nil")
	}

	meeting.UpdatedAt = time.Now().UTC()
	res := r.db.WithContext(ctx).Model(&model.Meeting{}).
		Where("meeting_id = ?", meeting.MeetingID).
		Updates(map[string]any{
			"title":                      meeting.Title,
			"description":                meeting.Description,
			"scheduled_at":               meeting.ScheduledAt,
			"duration":                   meeting.Duration,
			"is_active":                  meeting.IsActive,
			"is_scheduled":               meeting.IsScheduled,
			"reminder":                   meeting.Reminder,
			"invited":                    joinUUIDs(meeting.Invited),
			"allow_chat":                 meeting.Settings.AllowChat,
			"allow_screen_share":         meeting.Settings.AllowScreenShare,
			"require_permission_to_join": meeting.Settings.RequirePermissionToJoin,
			"require_permission_to_talk": meeting.Settings.RequirePermissionToTalk,
			"ended_at":                   meeting.EndedAt,
			"updated_at":                 meeting.UpdatedAt,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrMeetingNotFound
	}
	return nil
}

func (r *PostgresMeetingRepository) Delete(ctx context.Context, meetingID string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	res := r.db.WithContext(ctx).Delete(&model.Meeting{}, "meeting_id = ?", meetingID)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrMeetingNotFound
	}
	return nil
}

func (r *PostgresMeetingRepository) UpcomingByCreator(ctx context.Context, creator uuid.UUID, after time.Time) ([]*domain.Meeting, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var meetings []model.Meeting
	err := r.db.WithContext(ctx).
		Where("creator = ? AND is_scheduled = ? AND scheduled_at >= ? AND ended_at IS NULL", creator, true, after).
		Order("scheduled_at asc").
		Find(&meetings).Error
	if err != nil {
		return nil, err
	}

	return toDomainMeetings(meetings), nil
}

func (r *PostgresMeetingRepository) DueForActivation(ctx context.Context, now time.Time) ([]*domain.Meeting, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var meetings []model.Meeting
	err := r.db.WithContext(ctx).
		Where("is_scheduled = ? AND is_active = ? AND scheduled_at <= ? AND ended_at IS NULL", true, false, now).
		Find(&meetings).Error
	if err != nil {
		return nil, err
	}

	return toDomainMeetings(meetings), nil
}

func (r *PostgresMeetingRepository) DueForReminder(ctx context.Context, from, to time.Time) ([]*domain.Meeting, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var meetings []model.Meeting
	err := r.db.WithContext(ctx).
		Where("is_scheduled = ? AND is_active = ? AND reminder = ? AND scheduled_at >= ? AND scheduled_at <= ?",
			true, false, true, from, to).
		Find(&meetings).Error
	if err != nil {
		return nil, err
	}

	return toDomainMeetings(meetings), nil
}

func (r *PostgresMeetingRepository) ActiveScheduled(ctx context.Context) ([]*domain.Meeting, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var meetings []model.Meeting
	err := r.db.WithContext(ctx).
		Where("is_active = ? AND scheduled_at IS NOT NULL AND ended_at IS NULL", true).
		Find(&meetings).Error
	if err != nil {
		return nil, err
	}

	return toDomainMeetings(meetings), nil
}

type PostgresParticipantRepository struct {
	db *gorm.DB
}

func NewPostgresParticipantRepository(db *gorm.DB) *PostgresParticipantRepository {
	return &PostgresParticipantRepository{db: db}
}

func (r *PostgresParticipantRepository) Create(ctx context.Context, participant *domain.Participant) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if participant == nil {
		return errors.New("participant is nil")
	}

	if err := r.db.WithContext(ctx).Create(toModelParticipant(participant)).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return ErrParticipantExists
		}
		return err
	}
	return nil
}

func (r *PostgresParticipantRepository) Get(ctx context.Context, meetingID string, userID uuid.UUID) (*domain.Participant, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var participant model.Participant
	err := r.db.WithContext(ctx).
		First(&participant, "meeting_id = ? AND user_id = ?", meetingID, userID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrParticipantNotFound
		}
		return nil, err
	}

	return toDomainParticipant(&participant), nil
}

func (r *PostgresParticipantRepository) Update(ctx context.Context, participant *domain.Participant) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if participant == nil {
		return errors.New("participant is nil")
	}

	participant.UpdatedAt = time.Now().UTC()
	res := r.db.WithContext(ctx).Model(&model.Participant{}).
		Where("meeting_id = ? AND user_id = ?", participant.MeetingID, participant.UserID).
		Updates(map[string]any{
			"role":       string(participant.Role),
			"status":     string(participant.Status),
			"can_video":  participant.Permissions.CanVideo,
			"can_audio":  participant.Permissions.CanAudio,
			"can_share":  participant.Permissions.CanShare,
			"can_chat":   participant.Permissions.CanChat,
			"joined_at":  participant.JoinedAt,
			"left_at":    participant.LeftAt,
			"updated_at": participant.UpdatedAt,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrParticipantNotFound
	}
	return nil
}

func (r *PostgresParticipantRepository) ListByMeeting(ctx context.Context, meetingID string) ([]*domain.Participant, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var participants []model.Participant
	err := r.db.WithContext(ctx).
		Where("meeting_id = ?", meetingID).
		Order("joined_at asc").
		Find(&participants).Error
	if err != nil {
		return nil, err
	}

	return toDomainParticipants(participants), nil
}

func (r *PostgresParticipantRepository) ListByStatus(ctx context.Context, meetingID string, status domain.ParticipantStatus) ([]*domain.Participant, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var participants []model.Participant
	err := r.db.WithContext(ctx).
		Where("meeting_id = ? AND status = ?", meetingID, string(status)).
		Order("joined_at asc").
		Find(&participants).Error
	if err != nil {
		return nil, err
	}

	return toDomainParticipants(participants), nil
}

func (r *PostgresParticipantRepository) ListByUser(ctx context.Context, userID uuid.UUID, limit int) ([]*domain.Participant, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	query := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at desc")
	if limit > 0 {
		query = query.Limit(limit)
	}

	var participants []model.Participant
	if err := query.Find(&participants).Error; err != nil {
		return nil, err
	}

	return toDomainParticipants(participants), nil
}

func (r *PostgresParticipantRepository) MarkAllLeft(ctx context.Context, meetingID string, at time.Time) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	return r.db.WithContext(ctx).Model(&model.Participant{}).
		Where("meeting_id = ? AND status = ?", meetingID, string(domain.StatusJoined)).
		Updates(map[string]any{
			"status":     string(domain.StatusLeft),
			"left_at":    at,
			"updated_at": at,
		}).Error
}

func (r *PostgresParticipantRepository) DeleteByMeeting(ctx context.Context, meetingID string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	return r.db.WithContext(ctx).Delete(&model.Participant{}, "meeting_id = ?", meetingID).Error
}

type PostgresMessageRepository struct {
	db *gorm.DB
}

func NewPostgresMessageRepository(db *gorm.DB) *PostgresMessageRepository {
	return &PostgresMessageRepository{db: db}
}

func (r *PostgresMessageRepository) Create(ctx context.Context, message *domain.Message) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if message == nil {
		return errors.New("message is nil")
	}

	return r.db.WithContext(ctx).Create(toModelMessage(message)).Error
}

func (r *PostgresMessageRepository) RecentByMeeting(ctx context.Context, meetingID string, limit int) ([]*domain.Message, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	// Most recent window, returned in creation order.
	var messages []model.Message
	query := r.db.WithContext(ctx).
		Where("meeting_id = ?", meetingID).
		Order("created_at desc")
	if limit > 0 {
		query = query.Limit(limit)
	}
	if err := query.Find(&messages).Error; err != nil {
		return nil, err
	}

	result := make([]*domain.Message, 0, len(messages))
	for i := len(messages) - 1; i >= 0; i-- {
		result = append(result, toDomainMessage(&messages[i]))
	}
	return result, nil
}

func (r *PostgresMessageRepository) DeleteByMeeting(ctx context.Context, meetingID string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	return r.db.WithContext(ctx).Delete(&model.Message{}, "meeting_id = ?", meetingID).Error
}

type PostgresUserRepository struct {
	db *gorm.DB
}

func NewPostgresUserRepository(db *gorm.DB) *PostgresUserRepository {
	return &PostgresUserRepository{db: db}
}

func (r *PostgresUserRepository) Create(ctx context.Context, user *domain.User) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if user == nil {
		return errors.New("user is nil")
	}

	if err := r.db.WithContext(ctx).Create(toModelUser(user)).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return ErrUserEmailExists
		}
		return err
	}
	return nil
}

func (r *PostgresUserRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var user model.User
	err := r.db.WithContext(ctx).First(&user, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	return toDomainUser(&user), nil
}

func (r *PostgresUserRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var user model.User
	err := r.db.WithContext(ctx).First(&user, "email = ?", email).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	return toDomainUser(&user), nil
}

func (r *PostgresUserRepository) Update(ctx context.Context, user *domain.User) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if user == nil {
		return errors.New("user is nil")
	}

	user.UpdatedAt = time.Now().UTC()
	res := r.db.WithContext(ctx).Model(&model.User{}).
		Where("id = ?", user.ID).
		Updates(map[string]any{
			"full_name":   user.FullName,
			"email":       emailOrNil(user.Email),
			"profile_pic": user.ProfilePic,
			"updated_at":  user.UpdatedAt,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrUserNotFound
	}
	return nil
}

func toModelMeeting(m *domain.Meeting) *model.Meeting {
	return &model.Meeting{
		MeetingID:               m.MeetingID,
		Title:                   m.Title,
		Description:             m.Description,
		Creator:                 m.Creator,
		ScheduledAt:             m.ScheduledAt,
		Duration:                m.Duration,
		IsActive:                m.IsActive,
		IsScheduled:             m.IsScheduled,
		Reminder:                m.Reminder,
		Invited:                 joinUUIDs(m.Invited),
		AllowChat:               m.Settings.AllowChat,
		AllowScreenShare:        m.Settings.AllowScreenShare,
		RequirePermissionToJoin: m.Settings.RequirePermissionToJoin,
		RequirePermissionToTalk: m.Settings.RequirePermissionToTalk,
		EndedAt:                 m.EndedAt,
		CreatedAt:               m.CreatedAt,
		UpdatedAt:               m.UpdatedAt,
	}
}

func toDomainMeeting(m *model.Meeting) *domain.Meeting {
	return &domain.Meeting{
		MeetingID:   m.MeetingID,
		Title:       m.Title,
		Description: m.Description,
		Creator:     m.Creator,
		ScheduledAt: m.ScheduledAt,
		Duration:    m.Duration,
		IsActive:    m.IsActive,
		IsScheduled: m.IsScheduled,
		Reminder:    m.Reminder,
		Invited:     splitUUIDs(m.Invited),
		Settings: domain.MeetingSettings{
			AllowChat:               m.AllowChat,
			AllowScreenShare:        m.AllowScreenShare,
			RequirePermissionToJoin: m.RequirePermissionToJoin,
			RequirePermissionToTalk: m.RequirePermissionToTalk,
		},
		EndedAt:   m.EndedAt,
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}
}

// The invite list is stored as one comma-joined uuid string column.
func joinUUIDs(ids []uuid.UUID) string {
	if len(ids) == 0 {
		return ""
	}
	parts := make([]string, 0, len(ids))
	for _, id := range ids {
		parts = append(parts, id.String())
	}
	return strings.Join(parts, ",")
}

func splitUUIDs(joined string) []uuid.UUID {
	if joined == "" {
		return nil
	}
	var ids []uuid.UUID
	for _, part := range strings.Split(joined, ",") {
		if id, err := uuid.Parse(part); err == nil {
			ids = append(ids, id)
		}
	}
	return ids
}

func toDomainMeetings(meetings []model.Meeting) []*domain.Meeting {
	result := make([]*domain.Meeting, 0, len(meetings))
	for i := range meetings {
		result = append(result, toDomainMeeting(&meetings[i]))
	}
	return result
}

func toModelParticipant(p *domain.Participant) *model.Participant {
	return &model.Participant{
		MeetingID: p.MeetingID,
		UserID:    p.UserID,
		Role:      string(p.Role),
		Status:    string(p.Status),
		CanVideo:  p.Permissions.CanVideo,
		CanAudio:  p.Permissions.CanAudio,
		CanShare:  p.Permissions.CanShare,
		CanChat:   p.Permissions.CanChat,
		JoinedAt:  p.JoinedAt,
		LeftAt:    p.LeftAt,
		CreatedAt: p.CreatedAt,
		UpdatedAt: p.UpdatedAt,
	}
}

func toDomainParticipant(p *model.Participant) *domain.Participant {
	return &domain.Participant{
		MeetingID: p.MeetingID,
		UserID:    p.UserID,
		Role:      domain.ParticipantRole(p.Role),
		Status:    domain.ParticipantStatus(p.Status),
		Permissions: domain.Permissions{
			CanVideo: p.CanVideo,
			CanAudio: p.CanAudio,
			CanShare: p.CanShare,
			CanChat:  p.CanChat,
		},
		JoinedAt:  p.JoinedAt,
		LeftAt:    p.LeftAt,
		CreatedAt: p.CreatedAt,
		UpdatedAt: p.UpdatedAt,
	}
}

func toDomainParticipants(participants []model.Participant) []*domain.Participant {
	result := make([]*domain.Participant, 0, len(participants))
	for i := range participants {
		result = append(result, toDomainParticipant(&participants[i]))
	}
	return result
}

func toModelMessage(m *domain.Message) *model.Message {
	return &model.Message{
		ID:        m.ID,
		MeetingID: m.MeetingID,
		Sender:    m.Sender,
		Content:   m.Content,
		Type:      string(m.Type),
		CreatedAt: m.CreatedAt,
	}
}

func toDomainMessage(m *model.Message) *domain.Message {
	return &domain.Message{
		ID:        m.ID,
		MeetingID: m.MeetingID,
		Sender:    m.Sender,
		Content:   m.Content,
		Type:      domain.MessageType(m.Type),
		CreatedAt: m.CreatedAt,
	}
}

func toModelUser(u *domain.User) *model.User {
	return &model.User{
		ID:         u.ID,
		FullName:   u.FullName,
		Email:      emailOrNil(u.Email),
		ProfilePic: u.ProfilePic,
		CreatedAt:  u.CreatedAt,
		UpdatedAt:  u.UpdatedAt,
	}
}

func toDomainUser(u *model.User) *domain.User {
	user := &domain.User{
		ID:         u.ID,
		FullName:   u.FullName,
		ProfilePic: u.ProfilePic,
		CreatedAt:  u.CreatedAt,
		UpdatedAt:  u.UpdatedAt,
	}
	if u.Email != nil {
		user.Email = *u.Email
	}
	return user
}

func emailOrNil(email string) *string {
	if email == "" {
		return nil
	}
	return &email
}
