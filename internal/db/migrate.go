package db

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"

	"contribution-tracker-go/internal/config"
	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database"
	pgxmigrate "github.com/golang-migrate/migrate/v4/database/pgx/v5"
	"github.com/golang-migrate/migrate/v4/database/sqlite3"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	_ "github.com/jackc/pgx/v5/stdlib"
	"gorm.io/gorm"
)

//go:embed migrations/sqlite/*.sql migrations/postgres/*.sql
var migrationsFS embed.FS

// Migrator applies the embedded schema; running it again is a no-op.
type Migrator struct {
	db  *gorm.DB
	cfg config.DBConfig
}

func NewMigrator(gormDB *gorm.DB, cfg config.DBConfig) *Migrator {
	return &Migrator{db: gormDB, cfg: cfg}
}

func (m *Migrator) Up(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	switch m.db.Dialector.Name() {
	case "sqlite":
		return m.upSQLite()
	case "postgres":
		return m.upPostgres()
	default:
		return fmt.Errorf("migrate: unsupported dialect %q", m.db.Dialector.Name())
	}
}

// upSQLite reuses the pooled connection: an in-memory database exists only
// on that connection. The driver is not closed for the same reason.
func (m *Migrator) upSQLite() error {
	sqlDB, err := m.db.DB()
	if err != nil {
		return fmt.Errorf("db handle: %w", err)
	}
	driver, err := sqlite3.WithInstance(sqlDB, &sqlite3.Config{})
	if err != nil {
		return fmt.Errorf("create sqlite driver: %w", err)
	}
	_, err = run(driver, "sqlite3", "migrations/sqlite")
	return err
}

func (m *Migrator) upPostgres() error {
	migrateDB, err := sql.Open("pgx", m.cfg.GetDSN())
	if err != nil {
		return fmt.Errorf("open migration database: %w", err)
	}
	defer migrateDB.Close()

	driver, err := pgxmigrate.WithInstance(migrateDB, &pgxmigrate.Config{})
	if err != nil {
		return fmt.Errorf("create postgres driver: %w", err)
	}
	instance, err := run(driver, "pgx5", "migrations/postgres")
	if instance != nil {
		_, _ = instance.Close()
	}
	return err
}

func run(driver database.Driver, name, dir string) (*migrate.Migrate, error) {
	source, err := iofs.New(migrationsFS, dir)
	if err != nil {
		return nil, fmt.Errorf("create iofs source: %w", err)
	}

	instance, err := migrate.NewWithInstance("iofs", source, name, driver)
	if err != nil {
		return nil, fmt.Errorf("create migrate instance: %w", err)
	}

	if err := instance.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return instance, fmt.Errorf("run migrations: %w", err)
	}
	return instance, nil
}
