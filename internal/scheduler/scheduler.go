package scheduler

import (
	"context"
	"log/slog"
	"time"

	"github.com/immxrtalbeast/gatherly/internal/mailer"
	"github.com/immxrtalbeast/gatherly/internal/repository"
	"github.com/immxrtalbeast/gatherly/lib/logger/sl"
	"github.com/robfig/cron/v3"
)

const (
	reminderLeadTime = 15 * time.Minute
	reminderWindow   = 5 * time.Minute
	sweepTimeout     = 30 * time.Second
	activateSpec     = "*/5 * * * *"
	autoEndSpec      = "*/10 * * * *"
)

// Scheduler is the periodic sweep over scheduled meetings: it activates the
// ones whose time has come, ends the ones that overran their duration and
// mails reminders shortly before start. The signaling layer treats the
// active/ended flags it flips as authoritative.
type Scheduler struct {
	meetings repository.MeetingRepository
	users    repository.UserRepository
	mail     *mailer.Mailer
	cron     *cron.Cron
	log      *slog.Logger
}

func New(meetings repository.MeetingRepository, users repository.UserRepository, mail *mailer.Mailer, log *slog.Logger) *Scheduler {
	if log == nil {
		log = slog.Default()
	}
	return &Scheduler{
		meetings: meetings,
		users:    users,
		mail:     mail,
		cron:     cron.New(),
		log:      log,
	}
}

func (s *Scheduler) Start() error {
	if _, err := s.cron.AddFunc(activateSpec, func() {
		ctx, cancel := context.WithTimeout(context.Background(), sweepTimeout)
		defer cancel()
		s.activateDue(ctx)
		s.sendReminders(ctx)
	}); err != nil {
		return err
	}
	if _, err := s.cron.AddFunc(autoEndSpec, func() {
		ctx, cancel := context.WithTimeout(context.Background(), sweepTimeout)
		defer cancel()
		s.endOverdue(ctx)
	}); err != nil {
		return err
	}

	s.cron.Start()
	s.log.Info("meeting scheduler started")
	return nil
}

func (s *Scheduler) Stop() {
	<-s.cron.Stop().Done()
}

func (s *Scheduler) activateDue(ctx context.Context) {
	now := time.Now().UTC()
	meetings, err := s.meetings.DueForActivation(ctx, now)
	if err != nil {
		s.log.Error("failed to query meetings due for activation", sl.Err(err))
		return
	}

	for _, meeting := range meetings {
		meeting.IsActive = true
		if err := s.meetings.Update(ctx, meeting); err != nil {
			s.log.Error("failed to activate meeting", "meeting_id", meeting.MeetingID, sl.Err(err))
			continue
		}
		s.log.Info("auto-activated meeting", "meeting_id", meeting.MeetingID, "title", meeting.Title)
	}
}

func (s *Scheduler) endOverdue(ctx context.Context) {
	now := time.Now().UTC()
	meetings, err := s.meetings.ActiveScheduled(ctx)
	if err != nil {
		s.log.Error("failed to query active scheduled meetings", sl.Err(err))
		return
	}

	for _, meeting := range meetings {
		if now.Before(meeting.ScheduledEnd()) {
			continue
		}
		meeting.End(now)
		if err := s.meetings.Update(ctx, meeting); err != nil {
			s.log.Error("failed to end meeting", "meeting_id", meeting.MeetingID, sl.Err(err))
			continue
		}
		s.log.Info("auto-ended meeting", "meeting_id", meeting.MeetingID, "title", meeting.Title)
	}
}

func (s *Scheduler) sendReminders(ctx context.Context) {
	if !s.mail.Enabled() {
		return
	}

	now := time.Now().UTC()
	from := now.Add(reminderLeadTime)
	to := from.Add(reminderWindow)

	meetings, err := s.meetings.DueForReminder(ctx, from, to)
	if err != nil {
		s.log.Error("failed to query meetings due for reminder", sl.Err(err))
		return
	}

	for _, meeting := range meetings {
		creator, err := s.users.GetByID(ctx, meeting.Creator)
		if err != nil || creator.Email == "" {
			continue
		}
		details := mailer.MeetingDetails{
			Title:       meeting.Title,
			MeetingID:   meeting.MeetingID,
			ScheduledAt: meeting.ScheduledAt,
			Creator:     creator.FullName,
		}
		if err := s.mail.SendReminder(creator.Email, details); err != nil {
			continue
		}
		s.log.Info("sent meeting reminder", "meeting_id", meeting.MeetingID, "email", creator.Email)
	}
}
