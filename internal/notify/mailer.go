// Package notify sends failure alerts over SMTP. Dispatch is
// best-effort: a send failure is the caller's to log, never to
// propagate into a run's outcome.
package notify

import (
	"crypto/tls"
	"fmt"
	"log/slog"
	"net/smtp"

	"github.com/maisonnat/GauchoAPI/internal/config"
)

// Notifier delivers a subject/body pair through some outbound channel.
type Notifier interface {
	Notify(subject, body string) error
}

// Mailer sends mail over implicit-TLS SMTP (port 465 style), matching
// the credentials loaded from config.
type Mailer struct {
	cfg    config.NotifyConfig
	logger *slog.Logger
}

func NewMailer(cfg config.NotifyConfig, logger *slog.Logger) *Mailer {
	return &Mailer{
		cfg:    cfg,
		logger: logger.With("component", "notify"),
	}
}

func (m *Mailer) Notify(subject, body string) error {
	addr := fmt.Sprintf("%s:%d", m.cfg.SMTPHost, m.cfg.SMTPPort)

	conn, err := tls.Dial("tcp", addr, &tls.Config{ServerName: m.cfg.SMTPHost})
	if err != nil {
		return fmt.Errorf("failed to connect to smtp server: %w", err)
	}
	defer conn.Close()

	client, err := smtp.NewClient(conn, m.cfg.SMTPHost)
	if err != nil {
		return fmt.Errorf("failed to create smtp client: %w", err)
	}
	defer client.Quit()

	auth := smtp.PlainAuth("", m.cfg.Username, m.cfg.Password, m.cfg.SMTPHost)
	if err := client.Auth(auth); err != nil {
		return fmt.Errorf("smtp auth failed: %w", err)
	}

	if err := client.Mail(m.cfg.From); err != nil {
		return fmt.Errorf("smtp mail from failed: %w", err)
	}
	if err := client.Rcpt(m.cfg.To); err != nil {
		return fmt.Errorf("smtp rcpt to failed: %w", err)
	}

	w, err := client.Data()
	if err != nil {
		return fmt.Errorf("smtp data failed: %w", err)
	}

	msg := fmt.Sprintf("From: %s\r\nTo: %s\r\nSubject: %s\r\n\r\n%s\r\n",
		m.cfg.From, m.cfg.To, subject, body)
	if _, err := w.Write([]byte(msg)); err != nil {
		w.Close()
		return fmt.Errorf("failed to write message: %w", err)
	}

	if err := w.Close(); err != nil {
		return fmt.Errorf("failed to finish message: %w", err)
	}

	m.logger.Info("notification sent", "subject", subject)
	return nil
}
