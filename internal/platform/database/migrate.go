package database

import (
	"embed"
	"errors"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/mysql"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source/iofs"
)

//go:embed migrations
var migrations embed.FS

// Migrate brings the schema up to date and seeds the default catalog.
func Migrate(cfg Config) error {
	src, err := iofs.New(migrations, "migrations/"+cfg.Driver)
	if err != nil {
		return fmt.Errorf("loading %s migrations: %w", cfg.Driver, err)
	}

	url, err := dsn(cfg, true)
	if err != nil {
		return err
	}

	// golang-migrate selects its driver from the url scheme
	if cfg.Driver == DriverMySQL {
		url = "mysql://" + url
	}

	m, err := migrate.NewWithSourceInstance("iofs", src, url)
	if err != nil {
		return fmt.Errorf("preparing migrations: %w", err)
	}
	defer m.Close()

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("applying migrations: %w", err)
	}

	return nil
}
