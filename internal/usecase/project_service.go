package usecase

import (
	"context"
	"time"

	"go.uber.org/zap"

	"zopsm/internal/domain"
)

// ProjectService manages projects under the account's project quota.
type ProjectService struct {
	projects       ProjectRepository
	services       ServiceRepository
	consumerTokens domain.ConsumerTokenStore
	logger         *zap.Logger

	defaultUserLimit int
}

func NewProjectService(
	projects ProjectRepository,
	services ServiceRepository,
	consumerTokens domain.ConsumerTokenStore,
	logger *zap.Logger,
	defaultUserLimit int,
) *ProjectService {
	return &ProjectService{
		projects:         projects,
		services:         services,
		consumerTokens:   consumerTokens,
		logger:           logger,
		defaultUserLimit: defaultUserLimit,
	}
}

func (s *ProjectService) Create(ctx context.Context, accountID, name, description string) (domain.Project, error) {
	now := time.Now().UTC()
	project := domain.Project{
		ID:          newID(),
		AccountID:   accountID,
		Name:        name,
		Description: description,
		UserLimit:   s.defaultUserLimit,
		IsActive:    true,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	// The repository claims the account's quota unit and inserts the row in
	// one transaction; on ErrLimitExceeded nothing was written.
	if err := s.projects.Create(ctx, project); err != nil {
		return domain.Project{}, err
	}
	return project, nil
}

func (s *ProjectService) List(ctx context.Context, accountID string) ([]domain.Project, error) {
	return s.projects.List(ctx, accountID)
}

func (s *ProjectService) Get(ctx context.Context, accountID, projectID string) (domain.Project, error) {
	return s.projects.GetByID(ctx, accountID, projectID)
}

func (s *ProjectService) Update(ctx context.Context, project domain.Project) error {
	return s.projects.Update(ctx, project)
}

// Delete removes the project and every consumer token scoped to its
// services. The row deletions and the quota decrement commit together;
// token revocation follows and is retried at worst by a later cascade.
func (s *ProjectService) Delete(ctx context.Context, accountID, projectID string) error {
	services, err := s.services.ListByProject(ctx, accountID, projectID)
	if err != nil {
		return err
	}
	if err := s.projects.Delete(ctx, accountID, projectID); err != nil {
		return err
	}
	for _, service := range services {
		if err := s.consumerTokens.RemoveAllFor(ctx, projectID, service.ServiceCatalogCode); err != nil {
			s.logger.Error("consumer token cascade failed",
				zap.String("project_id", projectID),
				zap.String("service", service.ServiceCatalogCode),
				zap.Error(err))
		}
	}
	return nil
}
