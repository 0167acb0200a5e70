package v1

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoadDatabaseConfigDefaults(t *testing.T) {
	config := LoadDatabaseConfig()
	assert.Equal(t, "postgres", config.Driver)
	assert.Equal(t, 5432, config.Port)
	assert.Equal(t, 25, config.MaxOpenConns)
	assert.Equal(t, 5*time.Minute, config.ConnMaxLifetime)
}

func TestLoadDatabaseConfigFromEnv(t *testing.T) {
	t.Setenv("DB_DRIVER", "sqlite")
	t.Setenv("DB_PORT", "5433")
	t.Setenv("DB_CONN_MAX_LIFETIME", "90s")

	config := LoadDatabaseConfig()
	assert.Equal(t, "sqlite", config.Driver)
	assert.Equal(t, 5433, config.Port)
	assert.Equal(t, 90*time.Second, config.ConnMaxLifetime)
}

func TestLoadDatabaseConfigInvalidValuesFallBack(t *testing.T) {
	t.Setenv("DB_PORT", "not-a-number")
	t.Setenv("DB_CONN_MAX_LIFETIME", "soon")

	config := LoadDatabaseConfig()
	assert.Equal(t, 5432, config.Port)
	assert.Equal(t, 5*time.Minute, config.ConnMaxLifetime)
}

func TestDSN(t *testing.T) {
	config := DatabaseConfig{
		Host: "db.example.org", Port: 5432, User: "portal",
		Password: "pw", Name: "directory", SSLMode: "require",
	}
	assert.Equal(t,
		"host=db.example.org port=5432 user=portal password=pw dbname=directory sslmode=require",
		config.DSN())
}

func TestConnectGormDBSqlite(t *testing.T) {
	config := LoadDatabaseConfig()
	config.Driver = "sqlite"
	config.SQLitePath = "file::memory:?cache=shared"

	db, err := ConnectGormDB(config)
	assert.NoError(t, err)
	assert.NoError(t, Migrate(db))

	assert.True(t, db.Migrator().HasTable("members"))
	assert.True(t, db.Migrator().HasTable("users"))
}
