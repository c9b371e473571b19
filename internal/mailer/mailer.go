// Package mailer delivers alert emails. Delivery is best-effort; the
// alert evaluator persists notifications whether or not email succeeds.
package mailer

import "context"

// Mailer sends a single message to one recipient.
type Mailer interface {
	Send(ctx context.Context, toName, toEmail, subject, htmlBody string) error
}
