package sqlite

import (
	"database/sql"
	"embed"
	"errors"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	msqlite "github.com/golang-migrate/migrate/v4/database/sqlite"
	"github.com/golang-migrate/migrate/v4/source/iofs"
)

const driverName = "sqlite"

//go:embed migrations/*.sql
var schemaFS embed.FS

// migrateSchema brings the blobs table at dbPath up to date and returns
// the resulting schema version. Migrate closes whatever handle it is
// given, so it gets its own.
func migrateSchema(dbPath string) (uint, error) {
	db, err := sql.Open(driverName, dbPath)
	if err != nil {
		return 0, fmt.Errorf("open %s for migration: %w", dbPath, err)
	}
	defer db.Close()

	target, err := msqlite.WithInstance(db, &msqlite.Config{})
	if err != nil {
		return 0, fmt.Errorf("migration target: %w", err)
	}
	source, err := iofs.New(schemaFS, "migrations")
	if err != nil {
		return 0, fmt.Errorf("migration source: %w", err)
	}

	m, err := migrate.NewWithInstance("iofs", source, driverName, target)
	if err != nil {
		return 0, fmt.Errorf("prepare migrations: %w", err)
	}
	defer m.Close()

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return 0, fmt.Errorf("apply migrations: %w", err)
	}

	version, dirty, err := m.Version()
	if err != nil {
		return 0, fmt.Errorf("read schema version: %w", err)
	}
	if dirty {
		return version, fmt.Errorf("schema version %d is dirty", version)
	}
	return version, nil
}
