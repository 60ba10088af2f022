package domain

import "time"

type Tenant struct {
	ID        string
	Name      string
	CreatedAt time.Time
}

type Account struct {
	ID               string
	TenantID         string
	Email            string
	OrganizationName string
	Address          string
	Phone            string

	ProjectLimit int
	ProjectUsed  int

	ApproveCode string
	IsActive    bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

type User struct {
	ID        string
	TenantID  string
	AccountID string
	Email     string
	FirstName string
	LastName  string
	// PasswordHash is a bcrypt digest, never the raw credential.
	PasswordHash string
	Role         Role
	IsActive     bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

type Project struct {
	ID          string
	AccountID   string
	Name        string
	Description string

	// UserLimit/UserUsed gate consumer attachments to the project. The
	// column names predate the attachment feature; the counted resource is
	// project-consumer attachments, not users.
	UserLimit int
	UserUsed  int

	FCMAPIKey        string
	FCMProjectNumber string

	IsActive  bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

type Service struct {
	ID                 string
	AccountID          string
	ProjectID          string
	ServiceCatalogCode string
	Name               string
	Description        string

	ItemLimit int
	ItemUsed  int

	IsActive  bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

type ServiceCatalog struct {
	ID          string
	CodeName    string
	Name        string
	Description string
	IsActive    bool
	CreatedAt   time.Time
}

type Consumer struct {
	ID        string
	AccountID string
	IsActive  bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

type ProjectConsumer struct {
	ID         string
	ProjectID  string
	ConsumerID string
	CreatedAt  time.Time
}
