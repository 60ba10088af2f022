// Package mail implements the Mailer port. Actual delivery belongs to an
// external service; this adapter records what would have been sent.
package mail

import (
	"context"

	"go.uber.org/zap"
)

type LogMailer struct {
	logger *zap.Logger
}

func NewLogMailer(logger *zap.Logger) *LogMailer {
	return &LogMailer{logger: logger}
}

func (m *LogMailer) SendApproveCode(_ context.Context, email, approveCode, registrationID string) error {
	// The code itself stays out of the logs.
	m.logger.Info("approve code mail queued",
		zap.String("email", email),
		zap.String("registration_id", registrationID),
		zap.Int("code_len", len(approveCode)))
	return nil
}

func (m *LogMailer) SendResetPassword(_ context.Context, email, token string) error {
	m.logger.Info("reset password mail queued",
		zap.String("email", email),
		zap.Int("token_len", len(token)))
	return nil
}
