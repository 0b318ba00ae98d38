// Package email sends transactional mail over SMTP. When SMTP is not
// configured the mailer is a no-op, so callers never need to branch.
package email

import (
	"fmt"
	"net/smtp"
	"strings"

	"github.com/cs2stats/cs2stats/internal/config"
	"github.com/cs2stats/cs2stats/internal/logging"
	"github.com/cs2stats/cs2stats/internal/models"
)

type Mailer struct {
	host     string
	port     string
	username string
	password string
	from     string
	notify   []string
	enabled  bool
}

func NewMailer(cfg config.Config) *Mailer {
	return &Mailer{
		host:     cfg.SMTPHost,
		port:     cfg.SMTPPort,
		username: cfg.SMTPUser,
		password: cfg.SMTPPass,
		from:     cfg.SMTPFrom,
		notify:   cfg.NotifyEmails,
		enabled:  cfg.SMTPConfigured(),
	}
}

// SendRegistrationWelcome greets a newly registered user. Failures are logged
// and swallowed; mail must never fail a request.
func (m *Mailer) SendRegistrationWelcome(to, firstName string) {
	name := firstName
	if name == "" {
		name = "there"
	}
	subject := "Welcome to CS2 Stats Tracker"
	body := fmt.Sprintf("Hi %s,\n\nYour account is ready. Follow live matches, build your favorites list and join the discussion.\n", name)
	m.send([]string{to}, subject, body)
}

// SendMatchEventAlert notifies the configured recipients about a new live
// timeline event.
func (m *Mailer) SendMatchEventAlert(event *models.MatchEvent) {
	if len(m.notify) == 0 {
		return
	}
	subject := fmt.Sprintf("Match event: %s", event.EventType)
	body := fmt.Sprintf("Match %s\nType: %s\nTime: %s\n\n%s\n",
		event.MatchID, event.EventType, event.Timestamp.Format("15:04:05 MST"), event.Description)
	m.send(m.notify, subject, body)
}

func (m *Mailer) send(to []string, subject, body string) {
	if !m.enabled || len(to) == 0 {
		logging.Debug().Str("subject", subject).Msg("smtp not configured, skipping email")
		return
	}
	msg := strings.Join([]string{
		"From: " + m.from,
		"To: " + strings.Join(to, ", "),
		"Subject: " + subject,
		"MIME-Version: 1.0",
		"Content-Type: text/plain; charset=utf-8",
		"",
		body,
	}, "\r\n")

	addr := m.host + ":" + m.port
	var auth smtp.Auth
	if m.username != "" {
		auth = smtp.PlainAuth("", m.username, m.password, m.host)
	}
	if err := smtp.SendMail(addr, auth, m.from, to, []byte(msg)); err != nil {
		logging.Error().Err(err).Str("subject", subject).Msg("failed to send email")
		return
	}
	logging.Info().Str("subject", subject).Int("recipients", len(to)).Msg("email sent")
}
