package database

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// Params describes a Postgres connection when no DATABASE_URL is given.
type Params struct {
	Host     string
	User     string
	Password string
	Name     string
	Port     string
	SSLMode  string
}

// DSN renders the key/value connection string understood by the postgres driver.
func (p Params) DSN() string {
	return fmt.Sprintf(
		"host=%s user=%s password=%s dbname=%s port=%s sslmode=%s",
		valueOrDefault(p.Host, "localhost"),
		valueOrDefault(p.User, "postgres"),
		p.Password,
		valueOrDefault(p.Name, "jobboard"),
		valueOrDefault(p.Port, "5432"),
		valueOrDefault(p.SSLMode, "disable"),
	)
}

// Connect opens the Entity Store. Driver errors are translated so that unique
// violations surface as gorm.ErrDuplicatedKey.
func Connect(dsn string) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		TranslateError: true,
		Logger:         gormlogger.Default.LogMode(gormlogger.Warn),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to access connection pool: %w", err)
	}
	sqlDB.SetMaxOpenConns(25)
	sqlDB.SetMaxIdleConns(5)
	sqlDB.SetConnMaxLifetime(30 * time.Minute)

	return db, nil
}

// Postgres unique_violation
const uniqueViolationCode = "23505"

// IsUniqueViolation reports whether err was caused by a uniqueness constraint.
func IsUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == uniqueViolationCode
	}

	// sqlite reports "UNIQUE constraint failed: users.email"
	return strings.Contains(strings.ToLower(err.Error()), "unique constraint failed")
}

// IsNotFound reports whether err is gorm's missing-row error.
func IsNotFound(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}

func valueOrDefault(val, fallback string) string {
	if val != "" {
		return val
	}
	return fallback
}
