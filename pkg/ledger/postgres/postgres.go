package postgres

import (
	"fmt"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	gormledger "github.com/barekit/orbitai/pkg/ledger/gorm"
)

// New opens a Postgres ledger.
func New(dsn string) (*gormledger.Ledger, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{Logger: logger.Default.LogMode(logger.Warn)})
	if err != nil {
		return nil, fmt.Errorf("failed to open postgres: %w", err)
	}
	return gormledger.New(db)
}
