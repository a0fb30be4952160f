package mailer

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/immxrtalbeast/gatherly/internal/config"
	"github.com/immxrtalbeast/gatherly/lib/logger/sl"
	"gopkg.in/gomail.v2"
)

// Mailer sends meeting invites and reminders over SMTP. With no SMTP
// credentials configured it degrades to a no-op so the rest of the system
// never has to care.
type Mailer struct {
	dialer      *gomail.Dialer
	from        string
	frontendURL string
	log         *slog.Logger
}

type MeetingDetails struct {
	Title       string
	MeetingID   string
	ScheduledAt *time.Time
	Creator     string
}

func New(cfg config.SMTPConfig, frontendURL string, log *slog.Logger) *Mailer {
	if log == nil {
		log = slog.Default()
	}

	m := &Mailer{
		from:        cfg.From,
		frontendURL: frontendURL,
		log:         log,
	}
	if cfg.Host == "" || cfg.User == "" {
		log.Warn("smtp credentials not configured, email notifications disabled")
		return m
	}

	m.dialer = gomail.NewDialer(cfg.Host, cfg.Port, cfg.User, cfg.Password)
	if m.from == "" {
		m.from = cfg.User
	}
	return m
}

func (m *Mailer) Enabled() bool {
	return m != nil && m.dialer != nil
}

func (m *Mailer) SendInvite(email string, details MeetingDetails) error {
	if !m.Enabled() {
		return nil
	}

	scheduled := "Instant Meeting"
	if details.ScheduledAt != nil {
		scheduled = details.ScheduledAt.Format(time.RFC1123)
	}
	meetingURL := fmt.Sprintf("%s/meeting/%s", m.frontendURL, details.MeetingID)

	body := fmt.Sprintf(`<div style="font-family: Arial, sans-serif; max-width: 600px;">
  <h2>You're invited to a meeting!</h2>
  <h3>%s</h3>
  <p><strong>Organized by:</strong> %s</p>
  <p><strong>Scheduled for:</strong> %s</p>
  <p><strong>Meeting ID:</strong> %s</p>
  <p><a href="%s">Join Meeting</a></p>
</div>`, details.Title, details.Creator, scheduled, details.MeetingID, meetingURL)

	return m.send(email, "Meeting Invitation: "+details.Title, body)
}

func (m *Mailer) SendReminder(email string, details MeetingDetails) error {
	if !m.Enabled() {
		return nil
	}

	scheduled := ""
	if details.ScheduledAt != nil {
		scheduled = details.ScheduledAt.Format(time.RFC1123)
	}
	meetingURL := fmt.Sprintf("%s/meeting/%s", m.frontendURL, details.MeetingID)

	body := fmt.Sprintf(`<div style="font-family: Arial, sans-serif; max-width: 600px;">
  <h2>Meeting Reminder</h2>
  <h3>%s</h3>
  <p><strong>Starts at:</strong> %s</p>
  <p><strong>Organized by:</strong> %s</p>
  <p>Your meeting starts in 15 minutes!</p>
  <p><a href="%s">Join Meeting Now</a></p>
</div>`, details.Title, scheduled, details.Creator, meetingURL)

	return m.send(email, "Reminder: Meeting starts in 15 minutes - "+details.Title, body)
}

func (m *Mailer) send(to, subject, htmlBody string) error {
	msg := gomail.NewMessage()
	msg.SetHeader("From", m.from)
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/html", htmlBody)

	if err := m.dialer.DialAndSend(msg); err != nil {
		m.log.Error("failed to send email", "to", to, sl.Err(err))
		return err
	}
	return nil
}
