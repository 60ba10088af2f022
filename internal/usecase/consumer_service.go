package usecase

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"time"

	"zopsm/internal/domain"
)

// ConsumerService manages end-user consumers, their project attachments and
// their opaque service tokens.
type ConsumerService struct {
	consumers      ConsumerRepository
	projects       ProjectRepository
	services       ServiceRepository
	consumerTokens domain.ConsumerTokenStore
}

func NewConsumerService(
	consumers ConsumerRepository,
	projects ProjectRepository,
	services ServiceRepository,
	consumerTokens domain.ConsumerTokenStore,
) *ConsumerService {
	return &ConsumerService{
		consumers:      consumers,
		projects:       projects,
		services:       services,
		consumerTokens: consumerTokens,
	}
}

func (s *ConsumerService) Create(ctx context.Context, accountID string) (domain.Consumer, error) {
	now := time.Now().UTC()
	consumer := domain.Consumer{
		ID:        newID(),
		AccountID: accountID,
		IsActive:  true,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.consumers.Create(ctx, consumer); err != nil {
		return domain.Consumer{}, err
	}
	return consumer, nil
}

// Attach links the consumer to a project under the project's attachment
// quota. The quota unit and the attachment row commit in one transaction
// inside the repository.
func (s *ConsumerService) Attach(ctx context.Context, accountID, projectID, consumerID string) error {
	if _, err := s.consumers.GetByID(ctx, accountID, consumerID); err != nil {
		return err
	}
	if _, err := s.projects.GetByID(ctx, accountID, projectID); err != nil {
		return err
	}
	now := time.Now().UTC()
	return s.consumers.Attach(ctx, domain.ProjectConsumer{
		ID:         newID(),
		ProjectID:  projectID,
		ConsumerID: consumerID,
		CreatedAt:  now,
	})
}

func (s *ConsumerService) Detach(ctx context.Context, accountID, projectID, consumerID string) error {
	if _, err := s.projects.GetByID(ctx, accountID, projectID); err != nil {
		return err
	}
	return s.consumers.Detach(ctx, projectID, consumerID)
}

// GrantToken issues an opaque token for a consumer on a provisioned
// (project, service) scope. The consumer must be attached to the project.
func (s *ConsumerService) GrantToken(ctx context.Context, accountID, projectID, serviceCode, consumerID string) (string, error) {
	if _, err := s.services.GetByCode(ctx, accountID, projectID, serviceCode); err != nil {
		return "", err
	}
	attached, err := s.consumers.IsAttached(ctx, projectID, consumerID)
	if err != nil {
		return "", err
	}
	if !attached {
		return "", domain.ErrNotFound
	}
	tokenValue, err := opaqueToken(64)
	if err != nil {
		return "", err
	}
	err = s.consumerTokens.Add(ctx, domain.ConsumerToken{
		AccountID:   accountID,
		ProjectID:   projectID,
		ServiceCode: serviceCode,
		ConsumerID:  consumerID,
	}, tokenValue)
	if err != nil {
		return "", err
	}
	return tokenValue, nil
}

func (s *ConsumerService) RevokeToken(ctx context.Context, projectID, serviceCode, tokenValue string) error {
	return s.consumerTokens.Remove(ctx, projectID, serviceCode, tokenValue)
}

func opaqueToken(n int) (string, error) {
	buf := make([]byte, n)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("random token: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(buf), nil
}
