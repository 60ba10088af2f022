package db

import (
	"context"

	"gorm.io/gorm"

	"zopsm/internal/domain"
)

type ConsumerRepository struct {
	db *gorm.DB
}

func NewConsumerRepository(db *gorm.DB) *ConsumerRepository {
	return &ConsumerRepository{db: db}
}

func (r *ConsumerRepository) Create(ctx context.Context, consumer domain.Consumer) error {
	model := ConsumerModel{
		ID:        consumer.ID,
		AccountID: consumer.AccountID,
		IsActive:  consumer.IsActive,
		CreatedAt: consumer.CreatedAt,
		UpdatedAt: consumer.UpdatedAt,
	}
	return convertErr(r.db.WithContext(ctx).Create(&model).Error)
}

func (r *ConsumerRepository) GetByID(ctx context.Context, accountID, id string) (domain.Consumer, error) {
	var model ConsumerModel
	err := r.db.WithContext(ctx).First(&model, "id = ? AND account_id = ?", id, accountID).Error
	if err != nil {
		return domain.Consumer{}, convertErr(err)
	}
	return domain.Consumer{
		ID:        model.ID,
		AccountID: model.AccountID,
		IsActive:  model.IsActive,
		CreatedAt: model.CreatedAt,
		UpdatedAt: model.UpdatedAt,
	}, nil
}

// Attach links a consumer to a project and takes one unit of the project's
// attachment quota, all in one transaction. A zero-row guarded update means
// either a missing project or an exhausted quota; the two are separated so
// the caller can answer 404 vs 402.
func (r *ConsumerRepository) Attach(ctx context.Context, attachment domain.ProjectConsumer) error {
	return convertErr(r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&ProjectConsumerModel{}).
			Where("project_id = ? AND consumer_id = ?", attachment.ProjectID, attachment.ConsumerID).
			Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return domain.ErrConflict
		}
		res := tx.Model(&ProjectModel{}).
			Where("id = ? AND user_used < user_limit", attachment.ProjectID).
			UpdateColumn("user_used", gorm.Expr("user_used + 1"))
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			if err := tx.Model(&ProjectModel{}).Where("id = ?", attachment.ProjectID).Count(&count).Error; err != nil {
				return err
			}
			if count == 0 {
				return domain.ErrNotFound
			}
			return domain.ErrLimitExceeded
		}
		model := ProjectConsumerModel{
			ID:         attachment.ID,
			ProjectID:  attachment.ProjectID,
			ConsumerID: attachment.ConsumerID,
			CreatedAt:  attachment.CreatedAt,
		}
		return tx.Create(&model).Error
	}))
}

// Detach removes the attachment and returns the quota unit in the same
// transaction.
func (r *ConsumerRepository) Detach(ctx context.Context, projectID, consumerID string) error {
	return convertErr(r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Delete(&ProjectConsumerModel{}, "project_id = ? AND consumer_id = ?", projectID, consumerID)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return domain.ErrNotFound
		}
		return tx.Model(&ProjectModel{}).
			Where("id = ? AND user_used > 0", projectID).
			UpdateColumn("user_used", gorm.Expr("user_used - 1")).Error
	}))
}

func (r *ConsumerRepository) IsAttached(ctx context.Context, projectID, consumerID string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&ProjectConsumerModel{}).
		Where("project_id = ? AND consumer_id = ?", projectID, consumerID).
		Count(&count).Error
	if err != nil {
		return false, convertErr(err)
	}
	return count > 0, nil
}
