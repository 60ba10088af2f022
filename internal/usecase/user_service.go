package usecase

import (
	"context"
	"time"

	"golang.org/x/crypto/bcrypt"

	"zopsm/internal/domain"
)

// UserService manages the account-scoped staff users (admin, developer,
// billing). Deleting a user also revokes all of their sessions.
type UserService struct {
	users  UserRepository
	tokens domain.TokenStore
}

func NewUserService(users UserRepository, tokens domain.TokenStore) *UserService {
	return &UserService{users: users, tokens: tokens}
}

type CreateUserInput struct {
	Email     string
	Password  string
	FirstName string
	LastName  string
	Role      domain.Role
}

func (s *UserService) Create(ctx context.Context, accountID string, in CreateUserInput) (domain.User, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return domain.User{}, err
	}
	now := time.Now().UTC()
	user := domain.User{
		ID:           newID(),
		AccountID:    accountID,
		Email:        in.Email,
		FirstName:    in.FirstName,
		LastName:     in.LastName,
		PasswordHash: string(hash),
		Role:         in.Role,
		IsActive:     true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return domain.User{}, err
	}
	return user, nil
}

func (s *UserService) ListByRole(ctx context.Context, accountID string, role domain.Role) ([]domain.User, error) {
	return s.users.ListByRole(ctx, accountID, role)
}

func (s *UserService) Get(ctx context.Context, accountID, userID string) (domain.User, error) {
	return s.users.GetByID(ctx, accountID, userID)
}

func (s *UserService) Update(ctx context.Context, user domain.User) error {
	return s.users.Update(ctx, user)
}

// Delete removes the user and revokes every session they hold, so a deleted
// user's tokens fail gate verification immediately.
func (s *UserService) Delete(ctx context.Context, accountID, userID string) error {
	if err := s.users.Delete(ctx, accountID, userID); err != nil {
		return err
	}
	return s.tokens.RemoveAll(ctx, userID)
}
