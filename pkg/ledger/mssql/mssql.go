package mssql

import (
	"fmt"

	"gorm.io/driver/sqlserver"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	gormledger "github.com/barekit/orbitai/pkg/ledger/gorm"
)

// New opens a MSSQL ledger.
func New(dsn string) (*gormledger.Ledger, error) {
	db, err := gorm.Open(sqlserver.Open(dsn), &gorm.Config{Logger: logger.Default.LogMode(logger.Warn)})
	if err != nil {
		return nil, fmt.Errorf("failed to open mssql: %w", err)
	}
	return gormledger.New(db)
}
