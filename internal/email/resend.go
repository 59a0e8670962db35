package email

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/resend/resend-go/v2"
)

// ResendSender sends email through the Resend API.
type ResendSender struct {
	client  *resend.Client
	from    string
	baseURL string
	logger  *slog.Logger
}

// NewResendSender creates a Resend-backed sender. baseURL is the frontend
// origin used to build the links embedded in messages.
func NewResendSender(apiKey, from, baseURL string, logger *slog.Logger) *ResendSender {
	return &ResendSender{
		client:  resend.NewClient(apiKey),
		from:    from,
		baseURL: baseURL,
		logger:  logger,
	}
}

func (s *ResendSender) SendVerification(ctx context.Context, to, token string) error {
	link := fmt.Sprintf("%s/verify-email?token=%s", s.baseURL, token)
	return s.send(ctx, to, "Verify Your Email Address", verificationBody(link))
}

func (s *ResendSender) ResendVerification(ctx context.Context, to, token string) error {
	link := fmt.Sprintf("%s/verify-email?token=%s", s.baseURL, token)
	return s.send(ctx, to, "Verify Your Email - Resent", verificationReminderBody(link))
}

func (s *ResendSender) SendPasswordReset(ctx context.Context, to, token string) error {
	link := fmt.Sprintf("%s/reset-password?token=%s", s.baseURL, token)
	return s.send(ctx, to, "Password Reset Request", passwordResetBody(link))
}

func (s *ResendSender) SendWelcome(ctx context.Context, to, name string) error {
	return s.send(ctx, to, "Welcome to Our App!", welcomeBody(name))
}

func (s *ResendSender) send(ctx context.Context, to, subject, html string) error {
	sent, err := s.client.Emails.SendWithContext(ctx, &resend.SendEmailRequest{
		From:    s.from,
		To:      []string{to},
		Subject: subject,
		Html:    html,
	})
	if err != nil {
		s.logger.Error("resend send failed", "to", to, "subject", subject, "error", err)
		return fmt.Errorf("failed to send email: %w", err)
	}
	s.logger.Info("email sent", "to", to, "subject", subject, "email_id", sent.Id)
	return nil
}
