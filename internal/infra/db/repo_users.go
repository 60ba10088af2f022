package db

import (
	"context"

	"gorm.io/gorm"

	"zopsm/internal/domain"
)

type UserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

func userModelFromEntity(u domain.User) UserModel {
	return UserModel{
		ID:        u.ID,
		TenantID:  u.TenantID,
		AccountID: u.AccountID,
		Email:     u.Email,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		Password:  u.PasswordHash,
		Role:      int(u.Role),
		IsActive:  u.IsActive,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}

func userEntityFromModel(m UserModel) domain.User {
	return domain.User{
		ID:           m.ID,
		TenantID:     m.TenantID,
		AccountID:    m.AccountID,
		Email:        m.Email,
		FirstName:    m.FirstName,
		LastName:     m.LastName,
		PasswordHash: m.Password,
		Role:         domain.Role(m.Role),
		IsActive:     m.IsActive,
		CreatedAt:    m.CreatedAt,
		UpdatedAt:    m.UpdatedAt,
	}
}

func (r *UserRepository) Create(ctx context.Context, user domain.User) error {
	model := userModelFromEntity(user)
	return convertErr(r.db.WithContext(ctx).Create(&model).Error)
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (domain.User, error) {
	var model UserModel
	err := r.db.WithContext(ctx).First(&model, "email = ? AND is_active = true", email).Error
	if err != nil {
		return domain.User{}, convertErr(err)
	}
	return userEntityFromModel(model), nil
}

// GetByID is account-scoped: asking for another account's user is
// indistinguishable from asking for a user that does not exist.
func (r *UserRepository) GetByID(ctx context.Context, accountID, id string) (domain.User, error) {
	var model UserModel
	err := r.db.WithContext(ctx).First(&model, "id = ? AND account_id = ?", id, accountID).Error
	if err != nil {
		return domain.User{}, convertErr(err)
	}
	return userEntityFromModel(model), nil
}

func (r *UserRepository) ListByRole(ctx context.Context, accountID string, role domain.Role) ([]domain.User, error) {
	var models []UserModel
	err := r.db.WithContext(ctx).
		Where("account_id = ? AND role = ?", accountID, int(role)).
		Order("created_at DESC").
		Find(&models).Error
	if err != nil {
		return nil, convertErr(err)
	}
	users := make([]domain.User, 0, len(models))
	for _, m := range models {
		users = append(users, userEntityFromModel(m))
	}
	return users, nil
}

func (r *UserRepository) Update(ctx context.Context, user domain.User) error {
	res := r.db.WithContext(ctx).Model(&UserModel{}).
		Where("id = ? AND account_id = ?", user.ID, user.AccountID).
		Updates(map[string]interface{}{
			"first_name": user.FirstName,
			"last_name":  user.LastName,
		})
	if res.Error != nil {
		return convertErr(res.Error)
	}
	if res.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *UserRepository) UpdatePassword(ctx context.Context, userID, passwordHash string) error {
	res := r.db.WithContext(ctx).Model(&UserModel{}).
		Where("id = ?", userID).
		Update("password", passwordHash)
	if res.Error != nil {
		return convertErr(res.Error)
	}
	if res.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *UserRepository) Delete(ctx context.Context, accountID, id string) error {
	res := r.db.WithContext(ctx).Delete(&UserModel{}, "id = ? AND account_id = ?", id, accountID)
	if res.Error != nil {
		return convertErr(res.Error)
	}
	if res.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}
