package db

import (
	"context"

	"gorm.io/gorm"

	"zopsm/internal/domain"
)

type ProjectRepository struct {
	db *gorm.DB
}

func NewProjectRepository(db *gorm.DB) *ProjectRepository {
	return &ProjectRepository{db: db}
}

func projectModelFromEntity(p domain.Project) ProjectModel {
	return ProjectModel{
		ID:               p.ID,
		AccountID:        p.AccountID,
		Name:             p.Name,
		Description:      p.Description,
		UserLimit:        p.UserLimit,
		UserUsed:         p.UserUsed,
		FCMAPIKey:        p.FCMAPIKey,
		FCMProjectNumber: p.FCMProjectNumber,
		IsActive:         p.IsActive,
		CreatedAt:        p.CreatedAt,
		UpdatedAt:        p.UpdatedAt,
	}
}

func projectEntityFromModel(m ProjectModel) domain.Project {
	return domain.Project{
		ID:               m.ID,
		AccountID:        m.AccountID,
		Name:             m.Name,
		Description:      m.Description,
		UserLimit:        m.UserLimit,
		UserUsed:         m.UserUsed,
		FCMAPIKey:        m.FCMAPIKey,
		FCMProjectNumber: m.FCMProjectNumber,
		IsActive:         m.IsActive,
		CreatedAt:        m.CreatedAt,
		UpdatedAt:        m.UpdatedAt,
	}
}

// Create inserts the project and takes one unit of the account's project
// quota in the same transaction. The counter is claimed with a guarded
// relative update so concurrent creates on the same account serialize on
// the account row instead of racing a read-modify-write.
func (r *ProjectRepository) Create(ctx context.Context, project domain.Project) error {
	return convertErr(r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&AccountModel{}).
			Where("id = ? AND project_used < project_limit", project.AccountID).
			UpdateColumn("project_used", gorm.Expr("project_used + 1"))
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			var count int64
			if err := tx.Model(&AccountModel{}).Where("id = ?", project.AccountID).Count(&count).Error; err != nil {
				return err
			}
			if count == 0 {
				return domain.ErrNotFound
			}
			return domain.ErrLimitExceeded
		}
		model := projectModelFromEntity(project)
		return tx.Create(&model).Error
	}))
}

func (r *ProjectRepository) GetByID(ctx context.Context, accountID, id string) (domain.Project, error) {
	var model ProjectModel
	err := r.db.WithContext(ctx).First(&model, "id = ? AND account_id = ?", id, accountID).Error
	if err != nil {
		return domain.Project{}, convertErr(err)
	}
	return projectEntityFromModel(model), nil
}

func (r *ProjectRepository) List(ctx context.Context, accountID string) ([]domain.Project, error) {
	var models []ProjectModel
	err := r.db.WithContext(ctx).
		Where("account_id = ?", accountID).
		Order("created_at DESC").
		Find(&models).Error
	if err != nil {
		return nil, convertErr(err)
	}
	projects := make([]domain.Project, 0, len(models))
	for _, m := range models {
		projects = append(projects, projectEntityFromModel(m))
	}
	return projects, nil
}

func (r *ProjectRepository) Update(ctx context.Context, project domain.Project) error {
	res := r.db.WithContext(ctx).Model(&ProjectModel{}).
		Where("id = ? AND account_id = ?", project.ID, project.AccountID).
		Updates(map[string]interface{}{
			"name":        project.Name,
			"description": project.Description,
		})
	if res.Error != nil {
		return convertErr(res.Error)
	}
	if res.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// Delete removes the project and returns its quota unit to the account in
// one transaction. The project's services and attachments go with it; the
// caller revokes the consumer tokens scoped to them afterwards.
func (r *ProjectRepository) Delete(ctx context.Context, accountID, id string) error {
	return convertErr(r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Delete(&ProjectModel{}, "id = ? AND account_id = ?", id, accountID)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return domain.ErrNotFound
		}
		if err := tx.Delete(&ServiceModel{}, "project_id = ?", id).Error; err != nil {
			return err
		}
		if err := tx.Delete(&ProjectConsumerModel{}, "project_id = ?", id).Error; err != nil {
			return err
		}
		return tx.Model(&AccountModel{}).
			Where("id = ? AND project_used > 0", accountID).
			UpdateColumn("project_used", gorm.Expr("project_used - 1")).Error
	}))
}
