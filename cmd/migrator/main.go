package main

import (
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/database/sqlite"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	_ "github.com/jackc/pgx/v5/stdlib"
	_ "modernc.org/sqlite"

	"github.com/fastprodman/mcmmocredits/internal/config"
	"github.com/fastprodman/mcmmocredits/internal/infra/logging"
	"github.com/fastprodman/mcmmocredits/internal/storage/migrations"
	"github.com/fastprodman/mcmmocredits/pkg/envconf"
)

type migratorConfig struct {
	Logging logging.Config
	Storage config.StorageConfig
	// Down rolls every migration back instead of applying them.
	Down bool `env:"MIGRATE_DOWN"`
}

func main() {
	err := migrateAll()
	if err != nil {
		slog.Error("migration run failed", "error", err)
		os.Exit(1)
	}

	slog.Info("migration run finished successfully")
}

func migrateAll() error {
	cfg := new(migratorConfig)

	err := envconf.Load(cfg)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	logging.SetupJSON(cfg.Logging.Level)

	driverName, dbName, dsn := target(cfg.Storage)

	db, err := sql.Open(driverName, dsn)
	if err != nil {
		return fmt.Errorf("open db: %w", err)
	}
	//nolint:errcheck
	defer db.Close()

	err = db.Ping()
	if err != nil {
		return fmt.Errorf("ping db: %w", err)
	}

	var driver database.Driver
	if dbName == config.StoragePostgres {
		driver, err = postgres.WithInstance(db, &postgres.Config{})
	} else {
		driver, err = sqlite.WithInstance(db, &sqlite.Config{})
	}
	if err != nil {
		return fmt.Errorf("init %s driver: %w", dbName, err)
	}

	err = runMigrations(driver, dbName, cfg.Down)
	if err != nil {
		return fmt.Errorf("%s migrations failed: %w", dbName, err)
	}

	slog.Info("migrations applied", "storage", cfg.Storage.Describe(), "down", cfg.Down)

	return nil
}

func target(sc config.StorageConfig) (driverName, dbName, dsn string) {
	switch strings.ToLower(sc.Type) {
	case config.StoragePostgres, "postgresql":
		return "pgx", config.StoragePostgres, sc.Postgres.DSN
	default:
		return "sqlite", config.StorageSQLite, sc.SQLite.Path
	}
}

func runMigrations(driver database.Driver, dbName string, down bool) error {
	src, err := iofs.New(migrations.FS, dbName)
	if err != nil {
		return fmt.Errorf("iofs source: %w", err)
	}

	m, err := migrate.NewWithInstance("iofs", src, dbName, driver)
	if err != nil {
		return fmt.Errorf("migrate instance: %w", err)
	}

	if down {
		err = m.Down()
	} else {
		err = m.Up()
	}
	if err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("migrate: %w", err)
	}

	return nil
}
