package usecase

import (
	"context"
	"errors"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"zopsm/internal/auth/token"
	"zopsm/internal/domain"
)

// AuthService owns the user-token lifecycle: issuance at login, revocation
// at logout, and the one-time reset-password flow.
type AuthService struct {
	users       UserRepository
	codec       *token.Codec
	tokens      domain.TokenStore
	resetTokens domain.ResetTokenStore
	mailer      domain.Mailer
	logger      *zap.Logger
}

func NewAuthService(
	users UserRepository,
	codec *token.Codec,
	tokens domain.TokenStore,
	resetTokens domain.ResetTokenStore,
	mailer domain.Mailer,
	logger *zap.Logger,
) *AuthService {
	return &AuthService{
		users:       users,
		codec:       codec,
		tokens:      tokens,
		resetTokens: resetTokens,
		mailer:      mailer,
		logger:      logger,
	}
}

// Login verifies credentials and issues a token, recording it in the token
// store so every device's session is individually revocable. Wrong email and
// wrong password are indistinguishable to the caller.
func (s *AuthService) Login(ctx context.Context, email, password string) (string, error) {
	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return "", domain.ErrUnauthenticated
		}
		return "", err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return "", domain.ErrUnauthenticated
	}
	authToken, err := s.codec.Encode(domain.Principal{
		Subject:   user.ID,
		Role:      user.Role,
		AccountID: user.AccountID,
		TenantID:  user.TenantID,
	})
	if err != nil {
		return "", err
	}
	if err := s.tokens.Add(ctx, user.ID, authToken); err != nil {
		return "", err
	}
	return authToken, nil
}

// Logout revokes the presented session only; other devices stay signed in.
func (s *AuthService) Logout(ctx context.Context, principal domain.Principal, rawToken string) error {
	return s.tokens.RemoveOne(ctx, principal.Subject, rawToken)
}

// LogoutEverywhere revokes every session of the principal.
func (s *AuthService) LogoutEverywhere(ctx context.Context, principal domain.Principal) error {
	return s.tokens.RemoveAll(ctx, principal.Subject)
}

// ForgotPassword issues a one-time reset token and mails it. An unknown
// email is reported to the caller as success to avoid account enumeration.
func (s *AuthService) ForgotPassword(ctx context.Context, email string) error {
	if _, err := s.users.GetByEmail(ctx, email); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			s.logger.Info("password reset for unknown email ignored")
			return nil
		}
		return err
	}
	resetToken, err := s.codec.EncodeReset(email)
	if err != nil {
		return err
	}
	if err := s.resetTokens.Add(ctx, resetToken); err != nil {
		return err
	}
	return s.mailer.SendResetPassword(ctx, email, resetToken)
}

// ResetPassword consumes a reset token, replaces the password and revokes
// every live session of the user. The token is single-use: it must still be
// present in the store and is removed on success.
func (s *AuthService) ResetPassword(ctx context.Context, resetToken, newPassword string) error {
	exists, err := s.resetTokens.Exists(ctx, resetToken)
	if err != nil {
		return err
	}
	if !exists {
		return domain.ErrUnauthenticated
	}
	email, err := s.codec.DecodeReset(resetToken)
	if err != nil {
		return domain.ErrUnauthenticated
	}
	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		return err
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	if err := s.users.UpdatePassword(ctx, user.ID, string(hash)); err != nil {
		return err
	}
	if err := s.resetTokens.Remove(ctx, resetToken); err != nil {
		return err
	}
	return s.tokens.RemoveAll(ctx, user.ID)
}
