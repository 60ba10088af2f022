package usecase

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"time"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"zopsm/internal/auth/token"
	"zopsm/internal/domain"
)

// RegistrationService handles account signup and activation. A new account
// starts inactive with a mailed approve code; approving it activates the
// account and signs the first admin in.
type RegistrationService struct {
	accounts AccountRepository
	users    UserRepository
	codec    *token.Codec
	tokens   domain.TokenStore
	mailer   domain.Mailer
	logger   *zap.Logger

	defaultProjectLimit int
}

func NewRegistrationService(
	accounts AccountRepository,
	users UserRepository,
	codec *token.Codec,
	tokens domain.TokenStore,
	mailer domain.Mailer,
	logger *zap.Logger,
	defaultProjectLimit int,
) *RegistrationService {
	return &RegistrationService{
		accounts:            accounts,
		users:               users,
		codec:               codec,
		tokens:              tokens,
		mailer:              mailer,
		logger:              logger,
		defaultProjectLimit: defaultProjectLimit,
	}
}

type RegisterInput struct {
	Email            string
	Password         string
	FirstName        string
	LastName         string
	OrganizationName string
}

type RegisterOutput struct {
	AccountID string
	AdminID   string
}

func (s *RegistrationService) Register(ctx context.Context, in RegisterInput) (RegisterOutput, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return RegisterOutput{}, fmt.Errorf("hash password: %w", err)
	}
	approveCode, err := randomHex(32)
	if err != nil {
		return RegisterOutput{}, err
	}
	now := time.Now().UTC()
	// Each registered organization gets its own tenant umbrella; all of the
	// account's users and projects hang off it. The tenant is persisted in
	// the same transaction as the account, so a rejected signup leaves
	// nothing behind.
	tenant := domain.Tenant{
		ID:        newID(),
		Name:      in.OrganizationName,
		CreatedAt: now,
	}
	account := domain.Account{
		ID:               newID(),
		TenantID:         tenant.ID,
		Email:            in.Email,
		OrganizationName: in.OrganizationName,
		ProjectLimit:     s.defaultProjectLimit,
		ApproveCode:      approveCode,
		IsActive:         false,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
	admin := domain.User{
		ID:           newID(),
		TenantID:     tenant.ID,
		AccountID:    account.ID,
		Email:        in.Email,
		FirstName:    in.FirstName,
		LastName:     in.LastName,
		PasswordHash: string(hash),
		Role:         domain.RoleAdmin,
		IsActive:     true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.accounts.CreateWithAdmin(ctx, tenant, account, admin); err != nil {
		return RegisterOutput{}, err
	}
	if err := s.mailer.SendApproveCode(ctx, in.Email, approveCode, account.ID); err != nil {
		// The account exists either way; the code can be re-sent.
		s.logger.Warn("approve code mail failed", zap.String("account_id", account.ID), zap.Error(err))
	}
	return RegisterOutput{AccountID: account.ID, AdminID: admin.ID}, nil
}

// Approve activates the account and signs its admin in, returning a fresh
// auth token already recorded in the token store.
func (s *RegistrationService) Approve(ctx context.Context, email, approveCode string) (string, error) {
	if err := s.accounts.Approve(ctx, email, approveCode); err != nil {
		return "", err
	}
	admin, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		return "", err
	}
	authToken, err := s.codec.Encode(domain.Principal{
		Subject:   admin.ID,
		Role:      admin.Role,
		AccountID: admin.AccountID,
		TenantID:  admin.TenantID,
	})
	if err != nil {
		return "", err
	}
	if err := s.tokens.Add(ctx, admin.ID, authToken); err != nil {
		return "", err
	}
	return authToken, nil
}

// ResendApproveCode rotates the pending account's approve code and mails it
// again.
func (s *RegistrationService) ResendApproveCode(ctx context.Context, email string) error {
	approveCode, err := randomHex(32)
	if err != nil {
		return err
	}
	if err := s.accounts.SetApproveCode(ctx, email, approveCode); err != nil {
		return err
	}
	account, err := s.accounts.GetByEmail(ctx, email)
	if err != nil {
		return err
	}
	return s.mailer.SendApproveCode(ctx, email, approveCode, account.ID)
}

func randomHex(n int) (string, error) {
	buf := make([]byte, n)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("random token: %w", err)
	}
	return hex.EncodeToString(buf), nil
}
