package config

import (
	"bufio"
	"errors"
	"os"
	"strings"
	"time"

	"github.com/ardanlabs/conf/v3"
)

const Prefix = "LESSONS"

type Config struct {
	conf.Version
	Web      Web
	Store    Store
	DB       DB
	Redis    Redis
	Checkout Checkout
	Sessions Sessions
}

type Web struct {
	Address         string        `conf:"default:0.0.0.0:8080"`
	ReadTimeout     time.Duration `conf:"default:5s"`
	WriteTimeout    time.Duration `conf:"default:30s"`
	IdleTimeout     time.Duration `conf:"default:120s"`
	ShutdownTimeout time.Duration `conf:"default:20s"`
}

// Store selects where orders and seat counts are written: "http" talks to
// the lessons REST backend, "sql" writes to the database directly.
type Store struct {
	Backend        string        `conf:"default:http"`
	BaseURL        string        `conf:"default:http://localhost:3000"`
	RequestTimeout time.Duration `conf:"default:10s"`
}

type DB struct {
	Driver       string `conf:"default:postgres"`
	Host         string `conf:"default:localhost"`
	Port         string `conf:"default:5432"`
	User         string `conf:"default:postgres"`
	Password     string `conf:"default:postgres,mask"`
	Name         string `conf:"default:lessons"`
	DisableTLS   bool   `conf:"default:true"`
	MaxOpenConns int    `conf:"default:25"`
	MaxIdleConns int    `conf:"default:25"`
	MaxRetries   int    `conf:"default:10"`
	Migrate      bool   `conf:"default:true"`
}

// Redis caching is disabled when Addr is empty.
type Redis struct {
	Addr       string
	DB         int           `conf:"default:0"`
	CatalogTTL time.Duration `conf:"default:5m"`
}

type Checkout struct {
	Timeout     time.Duration `conf:"default:15s"`
	SubmitBurst int           `conf:"default:3"`
	SubmitEvery time.Duration `conf:"default:2s"`
}

// Sessions idle for longer than IdleTimeout are dropped by a sweep that
// runs every CleanupEvery.
type Sessions struct {
	IdleTimeout  time.Duration `conf:"default:30m"`
	CleanupEvery time.Duration `conf:"default:1m"`
}

// Parse reads the configuration from flags and LESSONS_* variables. The
// returned help text is non-empty when --help or --version was requested.
func Parse(build string) (Config, string, error) {
	var cfg Config
	cfg.Version = conf.Version{Build: build, Desc: "lesson cart and checkout service"}

	help, err := conf.Parse(Prefix, &cfg)
	if err != nil {
		if errors.Is(err, conf.ErrHelpWanted) {
			return cfg, help, nil
		}
		return cfg, "", err
	}

	return cfg, "", nil
}

// LoadEnv copies KEY=VALUE lines of an env file into the process
// environment. A missing file is not an error.
func LoadEnv(path string) error {
	file, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}

	defer file.Close()

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())

		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		parts := strings.SplitN(line, "=", 2)
		if len(parts) == 2 {
			key := strings.TrimSpace(parts[0])
			value := strings.Trim(strings.TrimSpace(parts[1]), `"`)

			if _, set := os.LookupEnv(key); !set {
				os.Setenv(key, value)
			}
		}
	}

	return scanner.Err()
}
