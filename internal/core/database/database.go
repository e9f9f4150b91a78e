package database

import (
	"errors"
	"fmt"
	"strings"

	"github.com/frahmantamala/finance-tracker/internal"
	"github.com/jackc/pgx/v5/pgconn"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

const pgUniqueViolation = "23505"

// Handles bundles the two views over one connection pool.
type Handles struct {
	Gorm *gorm.DB
	SQLX *sqlx.DB
}

func (h *Handles) Close() error {
	if h == nil || h.SQLX == nil {
		return nil
	}
	return h.SQLX.Close()
}

// Open connects with sqlx and hands the same *sql.DB to GORM.
func Open(cfg internal.DatabaseConfig) (*Handles, error) {
	switch cfg.DriverName() {
	case "sqlite":
		gdb, err := gorm.Open(sqlite.Open(cfg.Source), &gorm.Config{
			Logger: gormlogger.Default.LogMode(gormlogger.Silent),
		})
		if err != nil {
			return nil, fmt.Errorf("failed to open sqlite database: %w", err)
		}
		sqlDB, err := gdb.DB()
		if err != nil {
			return nil, err
		}
		return &Handles{Gorm: gdb, SQLX: sqlx.NewDb(sqlDB, "sqlite3")}, nil
	default:
		const driver = "pgx"

		dbConn, err := sqlx.Connect(driver, cfg.Source)
		if err != nil {
			return nil, fmt.Errorf("failed to open db connection: %w", err)
		}

		if cfg.MaxOpenConns > 0 {
			dbConn.SetMaxOpenConns(cfg.MaxOpenConns)
		}
		if cfg.MaxIdleConns > 0 {
			dbConn.SetMaxIdleConns(cfg.MaxIdleConns)
		}
		dbConn.SetConnMaxLifetime(cfg.ConnMaxLifetime)
		dbConn.SetConnMaxIdleTime(cfg.ConnMaxIdleTime)

		if err := dbConn.Ping(); err != nil {
			_ = dbConn.Close()
			return nil, fmt.Errorf("failed to ping database: %w", err)
		}

		gdb, err := gorm.Open(postgres.New(postgres.Config{Conn: dbConn.DB}), &gorm.Config{
			Logger: gormlogger.Default.LogMode(gormlogger.Silent),
		})
		if err != nil {
			_ = dbConn.Close()
			return nil, fmt.Errorf("failed to initialize gorm: %w", err)
		}

		return &Handles{Gorm: gdb, SQLX: dbConn}, nil
	}
}

// SQLX wraps the pool behind a GORM handle, picking the bind style from the dialect.
func SQLX(db *gorm.DB) (*sqlx.DB, error) {
	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	driver := "pgx"
	if db.Dialector.Name() == "sqlite" {
		driver = "sqlite3"
	}
	return sqlx.NewDb(sqlDB, driver), nil
}

// IsUniqueViolation reports whether err came from a unique constraint, on postgres or sqlite.
func IsUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == pgUniqueViolation
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	return strings.Contains(err.Error(), "UNIQUE constraint failed")
}

// ConstraintName returns the violated constraint when the driver reports one.
func ConstraintName(err error) string {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.ConstraintName
	}
	if err != nil {
		msg := err.Error()
		if i := strings.Index(msg, "UNIQUE constraint failed: "); i >= 0 {
			return strings.TrimSpace(msg[i+len("UNIQUE constraint failed: "):])
		}
	}
	return ""
}
