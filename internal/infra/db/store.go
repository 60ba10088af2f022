// Package db implements relational persistence over gorm/postgres,
// including the quota ledger protocol: every counter change rides in the
// same transaction as the row it gates.
package db

import (
	"fmt"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"zopsm/internal/config"
)

type Store struct {
	DB *gorm.DB
}

func NewStore(cfg config.Config) (*Store, error) {
	gdb, err := gorm.Open(postgres.Open(cfg.PostgresDSN), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("connect postgres: %w", err)
	}
	return &Store{DB: gdb}, nil
}

func (s *Store) Migrate() error {
	return s.DB.AutoMigrate(
		&TenantModel{},
		&AccountModel{},
		&UserModel{},
		&ProjectModel{},
		&ServiceCatalogModel{},
		&ServiceModel{},
		&ConsumerModel{},
		&ProjectConsumerModel{},
	)
}
