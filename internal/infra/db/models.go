package db

import (
	"time"

	"gorm.io/gorm"
)

type TenantModel struct {
	ID        string    `gorm:"type:varchar(32);primaryKey"`
	Name      string    `gorm:"size:70;not null"`
	CreatedAt time.Time `gorm:"not null"`
}

func (TenantModel) TableName() string { return "tenants" }

type AccountModel struct {
	ID               string `gorm:"type:varchar(32);primaryKey"`
	TenantID         string `gorm:"type:varchar(32);index"`
	Email            string `gorm:"size:70;uniqueIndex;not null"`
	OrganizationName string `gorm:"size:100"`
	Address          string `gorm:"size:200"`
	Phone            string `gorm:"size:11"`

	ProjectLimit int `gorm:"not null"`
	ProjectUsed  int `gorm:"not null;default:0"`

	ApproveCode string `gorm:"size:64"`
	IsActive    bool   `gorm:"not null;default:false"`

	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time
	DeletedAt gorm.DeletedAt `gorm:"index"`
}

func (AccountModel) TableName() string { return "accounts" }

type UserModel struct {
	ID        string `gorm:"type:varchar(32);primaryKey"`
	TenantID  string `gorm:"type:varchar(32);index"`
	AccountID string `gorm:"type:varchar(32);index"`
	Email     string `gorm:"size:70;uniqueIndex;not null"`
	FirstName string `gorm:"size:32"`
	LastName  string `gorm:"size:32"`
	Password  string `gorm:"size:128;not null"`
	Role      int    `gorm:"not null"`
	IsActive  bool   `gorm:"not null;default:true"`

	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time
	DeletedAt gorm.DeletedAt `gorm:"index"`
}

func (UserModel) TableName() string { return "users" }

type ProjectModel struct {
	ID          string `gorm:"type:varchar(32);primaryKey"`
	AccountID   string `gorm:"type:varchar(32);index;not null"`
	Name        string `gorm:"size:70"`
	Description string `gorm:"size:200"`

	// user_limit/user_used gate project-consumer attachments; the column
	// names are historical.
	UserLimit int `gorm:"not null"`
	UserUsed  int `gorm:"not null;default:0"`

	FCMAPIKey        string `gorm:"column:google_server_api_key;size:255"`
	FCMProjectNumber string `gorm:"column:google_project_number;size:255"`

	IsActive  bool      `gorm:"not null;default:true;index"`
	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time
	DeletedAt gorm.DeletedAt `gorm:"index"`
}

func (ProjectModel) TableName() string { return "projects" }

type ServiceCatalogModel struct {
	ID          string    `gorm:"type:varchar(32);primaryKey"`
	CodeName    string    `gorm:"size:32;uniqueIndex;not null"`
	Name        string    `gorm:"size:70"`
	Description string    `gorm:"size:200"`
	IsActive    bool      `gorm:"not null;default:true"`
	CreatedAt   time.Time `gorm:"not null"`
}

func (ServiceCatalogModel) TableName() string { return "service_catalogs" }

type ServiceModel struct {
	ID                 string `gorm:"type:varchar(32);primaryKey"`
	AccountID          string `gorm:"type:varchar(32);index;not null;uniqueIndex:account_project_service_uc"`
	ProjectID          string `gorm:"type:varchar(32);index;not null;uniqueIndex:account_project_service_uc"`
	ServiceCatalogCode string `gorm:"size:32;not null;uniqueIndex:account_project_service_uc"`
	Name               string `gorm:"size:70"`
	Description        string `gorm:"size:200"`

	ItemLimit int `gorm:"not null"`
	ItemUsed  int `gorm:"not null;default:0"`

	// No soft delete: a dead row would keep holding the unique triple and
	// block re-provisioning the same service on the project.
	IsActive  bool      `gorm:"not null;default:true;index"`
	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time
}

func (ServiceModel) TableName() string { return "services" }

type ConsumerModel struct {
	ID        string    `gorm:"type:varchar(32);primaryKey"`
	AccountID string    `gorm:"type:varchar(32);index;not null"`
	IsActive  bool      `gorm:"not null;default:true"`
	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time
	DeletedAt gorm.DeletedAt `gorm:"index"`
}

func (ConsumerModel) TableName() string { return "consumers" }

// ProjectConsumerModel rows are hard-deleted on detach so the same
// consumer can be attached to the project again later.
type ProjectConsumerModel struct {
	ID         string    `gorm:"type:varchar(32);primaryKey"`
	ProjectID  string    `gorm:"type:varchar(32);index;not null;uniqueIndex:project_consumer_uc"`
	ConsumerID string    `gorm:"type:varchar(32);not null;uniqueIndex:project_consumer_uc"`
	CreatedAt  time.Time `gorm:"not null"`
}

func (ProjectConsumerModel) TableName() string { return "project_consumers" }
