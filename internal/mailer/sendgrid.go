package mailer

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/sendgrid/sendgrid-go"
	sgmail "github.com/sendgrid/sendgrid-go/helpers/mail"

	"github.com/SAP-F-2025/attendance-service/internal/config"
)

type sendgridMailer struct {
	client *sendgrid.Client
	from   *sgmail.Email
	logger *slog.Logger
}

// NewSendgridMailer creates a SendGrid-backed mailer.
func NewSendgridMailer(cfg config.MailConfig, logger *slog.Logger) Mailer {
	return &sendgridMailer{
		client: sendgrid.NewSendClient(cfg.APIKey),
		from:   sgmail.NewEmail(cfg.FromName, cfg.FromEmail),
		logger: logger,
	}
}

func (m *sendgridMailer) Send(ctx context.Context, toName, toEmail, subject, htmlBody string) error {
	to := sgmail.NewEmail(toName, toEmail)
	msg := sgmail.NewSingleEmail(m.from, subject, to, "", htmlBody)

	resp, err := m.client.SendWithContext(ctx, msg)
	if err != nil {
		return fmt.Errorf("sendgrid send failed: %w", err)
	}
	if resp.StatusCode >= http.StatusBadRequest {
		return fmt.Errorf("sendgrid send failed with status %d: %s", resp.StatusCode, resp.Body)
	}

	m.logger.Debug("email sent", "to", toEmail, "subject", subject)
	return nil
}
