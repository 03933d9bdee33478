package migrations

import (
	"database/sql"
	_ "embed"

	"github.com/goran-ethernal/OwnerScan/internal/db"
	"github.com/goran-ethernal/OwnerScan/internal/logger"
)

//go:embed 001_ownerscan.sql
var mig001 string

// All returns the ordered schema migrations.
func All() []db.Migration {
	return []db.Migration{
		{
			ID:  "001_ownerscan.sql",
			SQL: mig001,
		},
	}
}

// RunMigrations opens the database at dbPath and applies pending migrations.
func RunMigrations(dbPath string) error {
	return db.RunMigrations(dbPath, All())
}

// RunMigrationsDB applies pending migrations on an already open database.
func RunMigrationsDB(log *logger.Logger, sqlDB *sql.DB) error {
	return db.RunMigrationsDB(log, sqlDB, All())
}
