package sqlite

import (
	"fmt"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	gormledger "github.com/barekit/orbitai/pkg/ledger/gorm"
)

// New opens a SQLite ledger.
func New(dsn string) (*gormledger.Ledger, error) {
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{Logger: logger.Default.LogMode(logger.Warn)})
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite: %w", err)
	}
	return gormledger.New(db)
}
