// Package dbtest opens throwaway SQLite databases with the full schema for repository tests.
package dbtest

import (
	"github.com/frahmantamala/finance-tracker/internal/core/datamodel/account"
	"github.com/frahmantamala/finance-tracker/internal/core/datamodel/category"
	"github.com/frahmantamala/finance-tracker/internal/core/datamodel/institution"
	"github.com/frahmantamala/finance-tracker/internal/core/datamodel/paycheck"
	"github.com/frahmantamala/finance-tracker/internal/core/datamodel/transaction"
	"github.com/frahmantamala/finance-tracker/internal/core/datamodel/user"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Models lists every table in dependency order.
func Models() []interface{} {
	return []interface{}{
		&user.User{},
		&institution.Institution{},
		&account.Account{},
		&category.CategoryType{},
		&category.CategoryGroup{},
		&category.Category{},
		&transaction.Transaction{},
		&paycheck.Paycheck{},
	}
}

// Open returns an in-memory database. The pool is pinned to one connection because
// every SQLite memory connection is its own database.
func Open() (*gorm.DB, error) {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, err
	}
	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(1)

	if err := db.AutoMigrate(Models()...); err != nil {
		return nil, err
	}
	return db, nil
}
