// Package usecase holds the application services behind the HTTP handlers.
// Each service is a plain struct over narrow repository ports so tests can
// substitute memory fakes for postgres and redis.
package usecase

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"zopsm/internal/domain"
)

type AccountRepository interface {
	CreateWithAdmin(ctx context.Context, tenant domain.Tenant, account domain.Account, admin domain.User) error
	GetByID(ctx context.Context, id string) (domain.Account, error)
	GetByEmail(ctx context.Context, email string) (domain.Account, error)
	Approve(ctx context.Context, email, approveCode string) error
	SetApproveCode(ctx context.Context, email, approveCode string) error
	Update(ctx context.Context, account domain.Account) error
	Delete(ctx context.Context, id string) error
}

type UserRepository interface {
	Create(ctx context.Context, user domain.User) error
	GetByEmail(ctx context.Context, email string) (domain.User, error)
	GetByID(ctx context.Context, accountID, id string) (domain.User, error)
	ListByRole(ctx context.Context, accountID string, role domain.Role) ([]domain.User, error)
	Update(ctx context.Context, user domain.User) error
	UpdatePassword(ctx context.Context, userID, passwordHash string) error
	Delete(ctx context.Context, accountID, id string) error
}

type ProjectRepository interface {
	Create(ctx context.Context, project domain.Project) error
	GetByID(ctx context.Context, accountID, id string) (domain.Project, error)
	List(ctx context.Context, accountID string) ([]domain.Project, error)
	Update(ctx context.Context, project domain.Project) error
	Delete(ctx context.Context, accountID, id string) error
}

type ServiceRepository interface {
	Create(ctx context.Context, service domain.Service) error
	GetByCode(ctx context.Context, accountID, projectID, code string) (domain.Service, error)
	ListByProject(ctx context.Context, accountID, projectID string) ([]domain.Service, error)
	ConsumeItem(ctx context.Context, accountID, projectID, code string) (exhausted bool, err error)
	Delete(ctx context.Context, accountID, projectID, code string) error
}

type ServiceCatalogRepository interface {
	List(ctx context.Context) ([]domain.ServiceCatalog, error)
}

type ConsumerRepository interface {
	Create(ctx context.Context, consumer domain.Consumer) error
	GetByID(ctx context.Context, accountID, id string) (domain.Consumer, error)
	Attach(ctx context.Context, attachment domain.ProjectConsumer) error
	Detach(ctx context.Context, projectID, consumerID string) error
	IsAttached(ctx context.Context, projectID, consumerID string) (bool, error)
}

// newID returns the 32-char hex identifier shape used across the platform.
func newID() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")
}
