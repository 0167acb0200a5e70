// Package v1 wires the persistence layer for the v1 API.
package v1

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/memberdir/directory-backend/shared/utils"
	"github.com/memberdir/directory-backend/v1/models"
)

// DatabaseConfig holds database connection settings
type DatabaseConfig struct {
	Driver          string
	Host            string
	Port            int
	User            string
	Password        string
	Name            string
	SSLMode         string
	SQLitePath      string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

// LoadDatabaseConfig builds a DatabaseConfig from environment variables
func LoadDatabaseConfig() DatabaseConfig {
	return DatabaseConfig{
		Driver:          utils.GetEnvOrDefault("DB_DRIVER", "postgres"),
		Host:            utils.GetEnvOrDefault("DB_HOST", "localhost"),
		Port:            parseIntOrDefault(os.Getenv("DB_PORT"), 5432),
		User:            utils.GetEnvOrDefault("DB_USER", "postgres"),
		Password:        os.Getenv("DB_PASSWORD"),
		Name:            utils.GetEnvOrDefault("DB_NAME", "directory"),
		SSLMode:         utils.GetEnvOrDefault("DB_SSLMODE", "disable"),
		SQLitePath:      utils.GetEnvOrDefault("DB_SQLITE_PATH", "directory.db"),
		MaxOpenConns:    parseIntOrDefault(os.Getenv("DB_MAX_OPEN_CONNS"), 25),
		MaxIdleConns:    parseIntOrDefault(os.Getenv("DB_MAX_IDLE_CONNS"), 5),
		ConnMaxLifetime: parseDurationOrDefault(os.Getenv("DB_CONN_MAX_LIFETIME"), 5*time.Minute),
	}
}

// DSN renders the postgres connection string
func (c DatabaseConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.Name, c.SSLMode)
}

// ConnectGormDB opens the configured database and applies pool settings
func ConnectGormDB(config DatabaseConfig) (*gorm.DB, error) {
	var dialector gorm.Dialector
	switch config.Driver {
	case "sqlite":
		dialector = sqlite.Open(config.SQLitePath)
	default:
		dialector = postgres.Open(config.DSN())
	}

	db, err := gorm.Open(dialector, &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to access database handle: %w", err)
	}
	sqlDB.SetMaxOpenConns(config.MaxOpenConns)
	sqlDB.SetMaxIdleConns(config.MaxIdleConns)
	sqlDB.SetConnMaxLifetime(config.ConnMaxLifetime)

	slog.Info("Connected to database", "driver", config.Driver, "name", config.Name)
	return db, nil
}

// Migrate runs the schema migrations for all persisted models
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(&models.Member{}, &models.User{}); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}
	return nil
}

func parseIntOrDefault(value string, fallback int) int {
	if value == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return fallback
	}
	return parsed
}

func parseDurationOrDefault(value string, fallback time.Duration) time.Duration {
	if value == "" {
		return fallback
	}
	parsed, err := time.ParseDuration(value)
	if err != nil {
		return fallback
	}
	return parsed
}
