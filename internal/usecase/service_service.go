package usecase

import (
	"context"
	"time"

	"go.uber.org/zap"

	"zopsm/internal/domain"
)

// ServiceService provisions catalog services onto projects and meters their
// item quota.
type ServiceService struct {
	services       ServiceRepository
	catalogs       ServiceCatalogRepository
	projects       ProjectRepository
	consumerTokens domain.ConsumerTokenStore
	logger         *zap.Logger

	defaultItemLimit int
}

func NewServiceService(
	services ServiceRepository,
	catalogs ServiceCatalogRepository,
	projects ProjectRepository,
	consumerTokens domain.ConsumerTokenStore,
	logger *zap.Logger,
	defaultItemLimit int,
) *ServiceService {
	return &ServiceService{
		services:         services,
		catalogs:         catalogs,
		projects:         projects,
		consumerTokens:   consumerTokens,
		logger:           logger,
		defaultItemLimit: defaultItemLimit,
	}
}

// ListCatalog returns the active service catalog entries available for
// provisioning.
func (s *ServiceService) ListCatalog(ctx context.Context) ([]domain.ServiceCatalog, error) {
	return s.catalogs.List(ctx)
}

func (s *ServiceService) Provision(ctx context.Context, accountID, projectID, catalogCode, name, description string) (domain.Service, error) {
	if _, err := s.projects.GetByID(ctx, accountID, projectID); err != nil {
		return domain.Service{}, err
	}
	now := time.Now().UTC()
	service := domain.Service{
		ID:                 newID(),
		AccountID:          accountID,
		ProjectID:          projectID,
		ServiceCatalogCode: catalogCode,
		Name:               name,
		Description:        description,
		ItemLimit:          s.defaultItemLimit,
		IsActive:           true,
		CreatedAt:          now,
		UpdatedAt:          now,
	}
	if err := s.services.Create(ctx, service); err != nil {
		return domain.Service{}, err
	}
	return service, nil
}

func (s *ServiceService) Get(ctx context.Context, accountID, projectID, catalogCode string) (domain.Service, error) {
	return s.services.GetByCode(ctx, accountID, projectID, catalogCode)
}

func (s *ServiceService) List(ctx context.Context, accountID, projectID string) ([]domain.Service, error) {
	return s.services.ListByProject(ctx, accountID, projectID)
}

// ConsumeItem claims one unit of the service's item quota. When the claim
// exhausts the limit, every consumer token scoped to the service is revoked
// so metered consumers lose access immediately.
func (s *ServiceService) ConsumeItem(ctx context.Context, accountID, projectID, catalogCode string) error {
	exhausted, err := s.services.ConsumeItem(ctx, accountID, projectID, catalogCode)
	if err != nil {
		return err
	}
	if exhausted {
		if err := s.consumerTokens.RemoveAllFor(ctx, projectID, catalogCode); err != nil {
			s.logger.Error("consumer token cascade failed",
				zap.String("project_id", projectID),
				zap.String("service", catalogCode),
				zap.Error(err))
		}
	}
	return nil
}

// Delete removes the service and revokes every consumer token scoped to it.
func (s *ServiceService) Delete(ctx context.Context, accountID, projectID, catalogCode string) error {
	if err := s.services.Delete(ctx, accountID, projectID, catalogCode); err != nil {
		return err
	}
	if err := s.consumerTokens.RemoveAllFor(ctx, projectID, catalogCode); err != nil {
		s.logger.Error("consumer token cascade failed",
			zap.String("project_id", projectID),
			zap.String("service", catalogCode),
			zap.Error(err))
	}
	return nil
}
