package http

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/immxrtalbeast/gatherly/internal/api/http/converter"
	"github.com/immxrtalbeast/gatherly/internal/domain"
	"github.com/immxrtalbeast/gatherly/internal/repository"
	"github.com/immxrtalbeast/gatherly/internal/service"
	"github.com/immxrtalbeast/gatherly/internal/signaling"
)

type MeetingController struct {
	meetings    service.MeetingInteractor
	coordinator *signaling.Coordinator
}

func NewMeetingController(meetings service.MeetingInteractor, coordinator *signaling.Coordinator) *MeetingController {
	return &MeetingController{meetings: meetings, coordinator: coordinator}
}

func (c *MeetingController) CreateMeeting(ctx *gin.Context) {
	type request struct {
		Title       string                  `json:"title" binding:"required"`
		Description string                  `json:"description"`
		Settings    *domain.MeetingSettings `json:"settings"`
	}

	userID, ok := currentUserID(ctx)
	if !ok {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	var req request
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body", "details": err.Error()})
		return
	}

	meeting, err := c.meetings.CreateInstant(ctx.Request.Context(), userID, req.Title, req.Description, req.Settings)
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	ctx.JSON(http.StatusCreated, gin.H{"meeting": converter.MeetingToAPI(meeting)})
}

func (c *MeetingController) ScheduleMeeting(ctx *gin.Context) {
	type request struct {
		Title       string                  `json:"title" binding:"required"`
		Description string                  `json:"description"`
		ScheduledAt time.Time               `json:"scheduled_at" binding:"required"`
		Duration    int                     `json:"duration"`
		Reminder    bool                    `json:"reminder"`
		Invited     []string                `json:"invited_emails"`
		Settings    *domain.MeetingSettings `json:"settings"`
	}

	userID, ok := currentUserID(ctx)
	if !ok {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	var req request
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body", "details": err.Error()})
		return
	}

	meeting, err := c.meetings.Schedule(ctx.Request.Context(), userID, req.Title, req.Description, req.ScheduledAt, req.Duration, req.Reminder, req.Invited, req.Settings)
	if err != nil {
		if errors.Is(err, service.ErrScheduledInPast) {
			ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	ctx.JSON(http.StatusCreated, gin.H{"meeting": converter.MeetingToAPI(meeting)})
}

func (c *MeetingController) GetMeeting(ctx *gin.Context) {
	meeting, participants, err := c.meetings.Get(ctx.Request.Context(), ctx.Param("meetingID"))
	if err != nil {
		ctx.JSON(meetingErrorStatus(err), gin.H{"error": err.Error()})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"meeting":      converter.MeetingToAPI(meeting),
		"participants": converter.ParticipantsToAPI(participants),
	})
}

func (c *MeetingController) JoinMeeting(ctx *gin.Context) {
	userID, ok := currentUserID(ctx)
	if !ok {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	meeting, participant, err := c.meetings.Join(ctx.Request.Context(), ctx.Param("meetingID"), userID)
	if err != nil {
		ctx.JSON(meetingErrorStatus(err), gin.H{"error": err.Error()})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"meeting":     converter.MeetingToAPI(meeting),
		"participant": converter.ParticipantToAPI(participant),
	})
}

func (c *MeetingController) UpcomingMeetings(ctx *gin.Context) {
	userID, ok := currentUserID(ctx)
	if !ok {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	meetings, err := c.meetings.Upcoming(ctx.Request.Context(), userID)
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"meetings": converter.MeetingsToAPI(meetings)})
}

func (c *MeetingController) MeetingHistory(ctx *gin.Context) {
	userID, ok := currentUserID(ctx)
	if !ok {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	history, err := c.meetings.History(ctx.Request.Context(), userID)
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"meetings": converter.ParticipantsToAPI(history)})
}

func (c *MeetingController) UpdatePermissions(ctx *gin.Context) {
	type request struct {
		UserID      string             `json:"user_id" binding:"required"`
		Permissions domain.Permissions `json:"permissions"`
	}

	adminID, ok := currentUserID(ctx)
	if !ok {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	var req request
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	targetID, err := uuid.Parse(req.UserID)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "invalid user id"})
		return
	}

	participant, err := c.meetings.UpdatePermissions(ctx.Request.Context(), ctx.Param("meetingID"), adminID, targetID, req.Permissions)
	if err != nil {
		ctx.JSON(meetingErrorStatus(err), gin.H{"error": err.Error()})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"participant": converter.ParticipantToAPI(participant)})
}

func (c *MeetingController) EndMeeting(ctx *gin.Context) {
	userID, ok := currentUserID(ctx)
	if !ok {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	if err := c.meetings.End(ctx.Request.Context(), ctx.Param("meetingID"), userID); err != nil {
		ctx.JSON(meetingErrorStatus(err), gin.H{"error": err.Error()})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"success": true, "message": "meeting ended successfully"})
}

func (c *MeetingController) ActivateMeeting(ctx *gin.Context) {
	userID, ok := currentUserID(ctx)
	if !ok {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	meeting, err := c.meetings.Activate(ctx.Request.Context(), ctx.Param("meetingID"), userID)
	if err != nil {
		ctx.JSON(meetingErrorStatus(err), gin.H{"error": err.Error()})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"meeting": converter.MeetingToAPI(meeting)})
}

func (c *MeetingController) DeleteMeeting(ctx *gin.Context) {
	userID, ok := currentUserID(ctx)
	if !ok {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	if err := c.meetings.Delete(ctx.Request.Context(), ctx.Param("meetingID"), userID); err != nil {
		ctx.JSON(meetingErrorStatus(err), gin.H{"error": err.Error()})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"success": true, "message": "meeting deleted successfully"})
}

func (c *MeetingController) ChatHistory(ctx *gin.Context) {
	messages, err := c.meetings.ChatHistory(ctx.Request.Context(), ctx.Param("meetingID"))
	if err != nil {
		ctx.JSON(meetingErrorStatus(err), gin.H{"error": err.Error()})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"messages": converter.MessagesToAPI(messages)})
}

// KickParticipant is the HTTP entry to the realtime kick: the coordinator
// validates the admin, notifies the target and runs the leave path.
func (c *MeetingController) KickParticipant(ctx *gin.Context) {
	type request struct {
		UserID string `json:"user_id" binding:"required"`
	}

	adminID, ok := currentUserID(ctx)
	if !ok {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	var req request
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	targetID, err := uuid.Parse(req.UserID)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "invalid user id"})
		return
	}

	if err := c.coordinator.Kick(ctx.Request.Context(), ctx.Param("meetingID"), targetID, adminID); err != nil {
		status := http.StatusInternalServerError
		switch {
		case errors.Is(err, repository.ErrMeetingNotFound), errors.Is(err, repository.ErrParticipantNotFound):
			status = http.StatusNotFound
		case errors.Is(err, signaling.ErrOnlyCreatorCanKick):
			status = http.StatusForbidden
		case errors.Is(err, signaling.ErrNotConnected):
			status = http.StatusBadRequest
		}
		ctx.JSON(status, gin.H{"error": err.Error()})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"success": true, "message": "participant kicked successfully"})
}

func meetingErrorStatus(err error) int {
	switch {
	case errors.Is(err, repository.ErrMeetingNotFound), errors.Is(err, repository.ErrParticipantNotFound):
		return http.StatusNotFound
	case errors.Is(err, service.ErrOnlyCreator):
		return http.StatusForbidden
	case errors.Is(err, service.ErrMeetingNotActive),
		errors.Is(err, service.ErrMeetingActive),
		errors.Is(err, service.ErrNotScheduled),
		errors.Is(err, service.ErrScheduledInPast):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
