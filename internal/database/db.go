package database

import (
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"
)

// Config contains database connection options.
type Config struct {
	Driver   string
	Path     string // SQLite database path when Driver == sqlite
	DSN      string // Optional DSN override
	Host     string
	Port     int
	User     string
	Password string
	Name     string
	Options  map[string]string
}

// Open initialises a gorm.DB using the provided configuration.
func Open(cfg Config) (*gorm.DB, error) {
	driver := strings.ToLower(cfg.Driver)
	if driver == "" {
		driver = "sqlite"
	}

	switch driver {
	case "sqlite":
		return openSQLite(cfg)
	case "postgres", "postgresql":
		return openPostgres(cfg)
	case "mysql", "mariadb":
		return openMySQL(cfg)
	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.Driver)
	}
}

// Bootstrap describes the global administrator ensured at start-up.
type Bootstrap struct {
	AdminUsername string
	AdminEmail    string
	AdminPassword string
}

// AutoMigrateAndSeed convenience helper used during application start-up.
func AutoMigrateAndSeed(db *gorm.DB, bootstrap Bootstrap) error {
	if db == nil {
		return errors.New("nil database handle")
	}

	if err := AutoMigrate(db); err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}

	if err := SyncPermissionCatalog(db); err != nil {
		return fmt.Errorf("sync permission catalog: %w", err)
	}

	if err := EnsureDefaultTenant(db); err != nil {
		return fmt.Errorf("ensure default tenant: %w", err)
	}

	if err := EnsureBootstrapAdmin(db, bootstrap); err != nil {
		return fmt.Errorf("ensure bootstrap admin: %w", err)
	}

	return nil
}
