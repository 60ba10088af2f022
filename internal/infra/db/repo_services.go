package db

import (
	"context"

	"gorm.io/gorm"

	"zopsm/internal/domain"
)

type ServiceRepository struct {
	db *gorm.DB
}

func NewServiceRepository(db *gorm.DB) *ServiceRepository {
	return &ServiceRepository{db: db}
}

func serviceModelFromEntity(s domain.Service) ServiceModel {
	return ServiceModel{
		ID:                 s.ID,
		AccountID:          s.AccountID,
		ProjectID:          s.ProjectID,
		ServiceCatalogCode: s.ServiceCatalogCode,
		Name:               s.Name,
		Description:        s.Description,
		ItemLimit:          s.ItemLimit,
		ItemUsed:           s.ItemUsed,
		IsActive:           s.IsActive,
		CreatedAt:          s.CreatedAt,
		UpdatedAt:          s.UpdatedAt,
	}
}

func serviceEntityFromModel(m ServiceModel) domain.Service {
	return domain.Service{
		ID:                 m.ID,
		AccountID:          m.AccountID,
		ProjectID:          m.ProjectID,
		ServiceCatalogCode: m.ServiceCatalogCode,
		Name:               m.Name,
		Description:        m.Description,
		ItemLimit:          m.ItemLimit,
		ItemUsed:           m.ItemUsed,
		IsActive:           m.IsActive,
		CreatedAt:          m.CreatedAt,
		UpdatedAt:          m.UpdatedAt,
	}
}

// Create provisions a service instance. The catalog code must exist and the
// (account, project, code) triple is unique; a duplicate surfaces as a
// conflict, not an infrastructure error.
func (r *ServiceRepository) Create(ctx context.Context, service domain.Service) error {
	return convertErr(r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		err := tx.Model(&ServiceCatalogModel{}).
			Where("code_name = ? AND is_active = true", service.ServiceCatalogCode).
			Count(&count).Error
		if err != nil {
			return err
		}
		if count == 0 {
			return domain.ErrNotFound
		}
		model := serviceModelFromEntity(service)
		return tx.Create(&model).Error
	}))
}

func (r *ServiceRepository) GetByCode(ctx context.Context, accountID, projectID, code string) (domain.Service, error) {
	var model ServiceModel
	err := r.db.WithContext(ctx).
		First(&model, "account_id = ? AND project_id = ? AND service_catalog_code = ?", accountID, projectID, code).Error
	if err != nil {
		return domain.Service{}, convertErr(err)
	}
	return serviceEntityFromModel(model), nil
}

func (r *ServiceRepository) ListByProject(ctx context.Context, accountID, projectID string) ([]domain.Service, error) {
	var models []ServiceModel
	err := r.db.WithContext(ctx).
		Where("account_id = ? AND project_id = ?", accountID, projectID).
		Order("created_at DESC").
		Find(&models).Error
	if err != nil {
		return nil, convertErr(err)
	}
	services := make([]domain.Service, 0, len(models))
	for _, m := range models {
		services = append(services, serviceEntityFromModel(m))
	}
	return services, nil
}

// ConsumeItem claims one unit of the service's item quota with a guarded
// relative update. It reports whether the claim exhausted the limit so the
// caller can cascade consumer-token revocation.
func (r *ServiceRepository) ConsumeItem(ctx context.Context, accountID, projectID, code string) (exhausted bool, err error) {
	err = convertErr(r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&ServiceModel{}).
			Where("account_id = ? AND project_id = ? AND service_catalog_code = ? AND item_used < item_limit",
				accountID, projectID, code).
			UpdateColumn("item_used", gorm.Expr("item_used + 1"))
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			var count int64
			if err := tx.Model(&ServiceModel{}).
				Where("account_id = ? AND project_id = ? AND service_catalog_code = ?", accountID, projectID, code).
				Count(&count).Error; err != nil {
				return err
			}
			if count == 0 {
				return domain.ErrNotFound
			}
			return domain.ErrLimitExceeded
		}
		var model ServiceModel
		if err := tx.
			First(&model, "account_id = ? AND project_id = ? AND service_catalog_code = ?", accountID, projectID, code).
			Error; err != nil {
			return err
		}
		exhausted = model.ItemUsed >= model.ItemLimit
		return nil
	}))
	return exhausted, err
}

func (r *ServiceRepository) Delete(ctx context.Context, accountID, projectID, code string) error {
	res := r.db.WithContext(ctx).
		Delete(&ServiceModel{}, "account_id = ? AND project_id = ? AND service_catalog_code = ?", accountID, projectID, code)
	if res.Error != nil {
		return convertErr(res.Error)
	}
	if res.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

type ServiceCatalogRepository struct {
	db *gorm.DB
}

func NewServiceCatalogRepository(db *gorm.DB) *ServiceCatalogRepository {
	return &ServiceCatalogRepository{db: db}
}

func (r *ServiceCatalogRepository) List(ctx context.Context) ([]domain.ServiceCatalog, error) {
	var models []ServiceCatalogModel
	err := r.db.WithContext(ctx).Where("is_active = true").Order("code_name").Find(&models).Error
	if err != nil {
		return nil, convertErr(err)
	}
	catalogs := make([]domain.ServiceCatalog, 0, len(models))
	for _, m := range models {
		catalogs = append(catalogs, domain.ServiceCatalog{
			ID:          m.ID,
			CodeName:    m.CodeName,
			Name:        m.Name,
			Description: m.Description,
			IsActive:    m.IsActive,
			CreatedAt:   m.CreatedAt,
		})
	}
	return catalogs, nil
}
