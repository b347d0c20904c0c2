package db

import (
	"database/sql"
	"embed"

	libdb "chargehub/backend/libs/db"
)

//go:embed migrations/*.sql
var migrations embed.FS

// NewPostgres connects to Postgres using the shared library helper.
func NewPostgres(dsn string, maxOpenConns int) (*sql.DB, error) {
	return libdb.Open(dsn, libdb.PoolOptions{MaxOpenConns: maxOpenConns})
}

// Migrate brings the users and charging_stations schema up to date.
func Migrate(sqlDB *sql.DB) (uint, error) {
	return libdb.Migrate(sqlDB, migrations, "migrations")
}
