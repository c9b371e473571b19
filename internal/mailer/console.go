package mailer

import (
	"context"
	"log/slog"
)

type consoleMailer struct {
	logger *slog.Logger
}

// NewConsoleMailer logs messages instead of sending them. Used in
// development when no SendGrid key is configured.
func NewConsoleMailer(logger *slog.Logger) Mailer {
	return &consoleMailer{logger: logger}
}

func (m *consoleMailer) Send(_ context.Context, toName, toEmail, subject, htmlBody string) error {
	m.logger.Info("email (console delivery)",
		"to_name", toName,
		"to_email", toEmail,
		"subject", subject,
		"body_bytes", len(htmlBody))
	return nil
}
