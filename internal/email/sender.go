// Package email provides the outbound mail transport. Production sends go
// through Resend; development uses a log-only sender so the auth flows can
// run without credentials.
package email

import (
	"context"
	"log/slog"
)

// Sender is implemented by every transport. Each method sends exactly one
// message with the given token or name embedded; the templates live in
// this package.
type Sender interface {
	SendVerification(ctx context.Context, to, token string) error
	ResendVerification(ctx context.Context, to, token string) error
	SendPasswordReset(ctx context.Context, to, token string) error
	SendWelcome(ctx context.Context, to, name string) error
}

// NoOpSender logs the message instead of sending it. Used when no Resend
// API key is configured.
type NoOpSender struct {
	logger *slog.Logger
}

// NewNoOpSender creates the log-only sender.
func NewNoOpSender(logger *slog.Logger) *NoOpSender {
	return &NoOpSender{logger: logger}
}

func (s *NoOpSender) SendVerification(ctx context.Context, to, token string) error {
	s.logger.Info("verification email (no-op)", "to", to, "token", token)
	return nil
}

func (s *NoOpSender) ResendVerification(ctx context.Context, to, token string) error {
	s.logger.Info("verification reminder email (no-op)", "to", to, "token", token)
	return nil
}

func (s *NoOpSender) SendPasswordReset(ctx context.Context, to, token string) error {
	s.logger.Info("password reset email (no-op)", "to", to, "token", token)
	return nil
}

func (s *NoOpSender) SendWelcome(ctx context.Context, to, name string) error {
	s.logger.Info("welcome email (no-op)", "to", to, "name", name)
	return nil
}
