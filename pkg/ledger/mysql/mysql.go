package mysql

import (
	"fmt"

	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	gormledger "github.com/barekit/orbitai/pkg/ledger/gorm"
)

// New opens a MySQL ledger.
func New(dsn string) (*gormledger.Ledger, error) {
	db, err := gorm.Open(mysql.Open(dsn), &gorm.Config{Logger: logger.Default.LogMode(logger.Warn)})
	if err != nil {
		return nil, fmt.Errorf("failed to open mysql: %w", err)
	}
	return gormledger.New(db)
}
