package db

import (
	"context"

	"gorm.io/gorm"

	"zopsm/internal/domain"
)

type AccountRepository struct {
	db *gorm.DB
}

func NewAccountRepository(db *gorm.DB) *AccountRepository {
	return &AccountRepository{db: db}
}

func accountModelFromEntity(a domain.Account) AccountModel {
	return AccountModel{
		ID:               a.ID,
		TenantID:         a.TenantID,
		Email:            a.Email,
		OrganizationName: a.OrganizationName,
		Address:          a.Address,
		Phone:            a.Phone,
		ProjectLimit:     a.ProjectLimit,
		ProjectUsed:      a.ProjectUsed,
		ApproveCode:      a.ApproveCode,
		IsActive:         a.IsActive,
		CreatedAt:        a.CreatedAt,
		UpdatedAt:        a.UpdatedAt,
	}
}

func accountEntityFromModel(m AccountModel) domain.Account {
	return domain.Account{
		ID:               m.ID,
		TenantID:         m.TenantID,
		Email:            m.Email,
		OrganizationName: m.OrganizationName,
		Address:          m.Address,
		Phone:            m.Phone,
		ProjectLimit:     m.ProjectLimit,
		ProjectUsed:      m.ProjectUsed,
		ApproveCode:      m.ApproveCode,
		IsActive:         m.IsActive,
		CreatedAt:        m.CreatedAt,
		UpdatedAt:        m.UpdatedAt,
	}
}

// CreateWithAdmin persists a new tenant together with its account and first
// admin user. Registration is all-or-nothing: a duplicate email rolls back
// every row, so no tenant is left behind.
func (r *AccountRepository) CreateWithAdmin(ctx context.Context, tenant domain.Tenant, account domain.Account, admin domain.User) error {
	return convertErr(r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		tenantModel := TenantModel{
			ID:        tenant.ID,
			Name:      tenant.Name,
			CreatedAt: tenant.CreatedAt,
		}
		if err := tx.Create(&tenantModel).Error; err != nil {
			return err
		}
		accountModel := accountModelFromEntity(account)
		if err := tx.Create(&accountModel).Error; err != nil {
			return err
		}
		adminModel := userModelFromEntity(admin)
		return tx.Create(&adminModel).Error
	}))
}

func (r *AccountRepository) GetByID(ctx context.Context, id string) (domain.Account, error) {
	var model AccountModel
	err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error
	if err != nil {
		return domain.Account{}, convertErr(err)
	}
	return accountEntityFromModel(model), nil
}

func (r *AccountRepository) GetByEmail(ctx context.Context, email string) (domain.Account, error) {
	var model AccountModel
	err := r.db.WithContext(ctx).First(&model, "email = ?", email).Error
	if err != nil {
		return domain.Account{}, convertErr(err)
	}
	return accountEntityFromModel(model), nil
}

// Approve activates the account carrying the given approve code.
func (r *AccountRepository) Approve(ctx context.Context, email, approveCode string) error {
	res := r.db.WithContext(ctx).Model(&AccountModel{}).
		Where("email = ? AND approve_code = ? AND is_active = false", email, approveCode).
		Update("is_active", true)
	if res.Error != nil {
		return convertErr(res.Error)
	}
	if res.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *AccountRepository) SetApproveCode(ctx context.Context, email, approveCode string) error {
	res := r.db.WithContext(ctx).Model(&AccountModel{}).
		Where("email = ? AND is_active = false", email).
		Update("approve_code", approveCode)
	if res.Error != nil {
		return convertErr(res.Error)
	}
	if res.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *AccountRepository) Update(ctx context.Context, account domain.Account) error {
	res := r.db.WithContext(ctx).Model(&AccountModel{}).
		Where("id = ?", account.ID).
		Updates(map[string]interface{}{
			"organization_name": account.OrganizationName,
			"address":           account.Address,
			"phone":             account.Phone,
		})
	if res.Error != nil {
		return convertErr(res.Error)
	}
	if res.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// Delete soft-deletes the account. Revoking the account users' sessions is
// the caller's job; the token store is not reachable from this transaction.
func (r *AccountRepository) Delete(ctx context.Context, id string) error {
	res := r.db.WithContext(ctx).Delete(&AccountModel{}, "id = ?", id)
	if res.Error != nil {
		return convertErr(res.Error)
	}
	if res.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}
