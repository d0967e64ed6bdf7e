package database

import (
	"fmt"
	"net/url"
	"time"

	"github.com/go-sql-driver/mysql"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/sirupsen/logrus"
)

const (
	DriverPostgres = "postgres"
	DriverMySQL    = "mysql"
)

type Config struct {
	Driver       string
	Host         string
	Port         string
	User         string
	Password     string
	Name         string
	DisableTLS   bool
	MaxOpenConns int
	MaxIdleConns int
	MaxRetries   int
}

// DSN renders the driver specific connection string.
func DSN(cfg Config) (string, error) {
	return dsn(cfg, false)
}

func dsn(cfg Config, multiStatements bool) (string, error) {
	switch cfg.Driver {
	case DriverPostgres:
		sslMode := "require"
		if cfg.DisableTLS {
			sslMode = "disable"
		}

		q := url.Values{}
		q.Set("sslmode", sslMode)

		u := url.URL{
			Scheme:   "postgres",
			User:     url.UserPassword(cfg.User, cfg.Password),
			Host:     cfg.Host + ":" + cfg.Port,
			Path:     cfg.Name,
			RawQuery: q.Encode(),
		}
		return u.String(), nil

	case DriverMySQL:
		mc := mysql.NewConfig()
		mc.User = cfg.User
		mc.Passwd = cfg.Password
		mc.Net = "tcp"
		mc.Addr = cfg.Host + ":" + cfg.Port
		mc.DBName = cfg.Name
		mc.ParseTime = true
		// report matched rather than changed rows, so an unchanged seat
		// count still counts as found
		mc.ClientFoundRows = true
		mc.MultiStatements = multiStatements
		if !cfg.DisableTLS {
			mc.TLSConfig = "true"
		}
		return mc.FormatDSN(), nil
	}

	return "", fmt.Errorf("unsupported database driver %q", cfg.Driver)
}

// Open connects to the database, retrying while it comes up.
func Open(cfg Config, log logrus.FieldLogger) (*sqlx.DB, error) {
	dsn, err := DSN(cfg)
	if err != nil {
		return nil, err
	}

	maxRetries := cfg.MaxRetries
	if maxRetries < 1 {
		maxRetries = 1
	}

	var db *sqlx.DB
	for i := 1; i <= maxRetries; i++ {
		log.Infof("connecting to %s database (attempt %d/%d)", cfg.Driver, i, maxRetries)

		db, err = sqlx.Connect(cfg.Driver, dsn)
		if err == nil {
			db.SetMaxOpenConns(cfg.MaxOpenConns)
			db.SetMaxIdleConns(cfg.MaxIdleConns)
			db.SetConnMaxLifetime(5 * time.Minute)

			log.Info("database connected")
			return db, nil
		}

		if i < maxRetries {
			log.WithError(err).Warn("database not ready yet, waiting 2 seconds")
			time.Sleep(2 * time.Second)
		}
	}

	return nil, fmt.Errorf("connecting to database: %w", err)
}
