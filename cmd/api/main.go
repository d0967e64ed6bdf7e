package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/srgjo27/lesson_booking/internal/adapter/handler"
	"github.com/srgjo27/lesson_booking/internal/adapter/remote"
	"github.com/srgjo27/lesson_booking/internal/adapter/repository/memory"
	"github.com/srgjo27/lesson_booking/internal/adapter/repository/sqlstore"
	"github.com/srgjo27/lesson_booking/internal/core/ports"
	"github.com/srgjo27/lesson_booking/internal/core/services"
	"github.com/srgjo27/lesson_booking/internal/platform/config"
	"github.com/srgjo27/lesson_booking/internal/platform/database"
	"github.com/srgjo27/lesson_booking/internal/platform/rate"
)

var build = "develop"

func main() {
	logger := logrus.New()
	logger.SetOutput(os.Stdout)
	logger.SetFormatter(&logrus.JSONFormatter{})

	if err := Run(logger); err != nil {
		logger.Error(err)
		os.Exit(1)
	}
}

type stores struct {
	catalog ports.CatalogSource
	orders  ports.OrderRepository
	lessons ports.LessonRepository
	close   func() error
}

func Run(logger *logrus.Logger) error {
	if err := config.LoadEnv(".env"); err != nil {
		return fmt.Errorf("reading .env: %w", err)
	}

	cfg, help, err := config.Parse(build)
	if err != nil {
		return fmt.Errorf("parsing config: %w", err)
	}
	if help != "" {
		fmt.Println(help)
		return nil
	}

	logger.WithField("build", build).Info("starting server")
	defer logger.Info("shutdown complete")

	st, err := openStores(cfg, logger)
	if err != nil {
		return err
	}
	defer st.close()

	var cache *redis.Client
	if cfg.Redis.Addr != "" {
		logger.Infof("connecting to redis at %s", cfg.Redis.Addr)

		cache = redis.NewClient(&redis.Options{
			Addr: cfg.Redis.Addr,
			DB:   cfg.Redis.DB,
		})
		defer cache.Close()

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		err := cache.Ping(ctx).Err()
		cancel()
		if err != nil {
			return fmt.Errorf("connecting to redis: %w", err)
		}
		logger.Info("redis connected")
	}

	bgCtx, stopBackground := context.WithCancel(context.Background())
	defer stopBackground()

	var limiter *rate.Limiter
	if cfg.Checkout.SubmitBurst > 0 {
		limiter = rate.NewLimiter(bgCtx, cfg.Checkout.SubmitBurst, cfg.Checkout.SubmitEvery, cfg.Sessions.IdleTimeout)
	}

	sessions := memory.NewSessionRepository()
	cleanup := services.NewSessionCleanup(sessions, cfg.Sessions.IdleTimeout, cfg.Sessions.CleanupEvery, logger)
	go cleanup.RunBackgroundCleanup(bgCtx)

	catalogService := services.NewCatalogService(st.catalog, cache, cfg.Redis.CatalogTTL, logger)
	checkoutService := services.NewCheckoutService(st.orders, st.lessons, cache, cfg.Checkout.Timeout, logger)

	sessionHandler := handler.NewSessionHandler(sessions, catalogService, checkoutService, limiter, logger)

	lw := logger.Writer()
	defer lw.Close()

	server := &http.Server{
		Addr:         cfg.Web.Address,
		Handler:      handler.NewRouter(sessionHandler, logger),
		ReadTimeout:  cfg.Web.ReadTimeout,
		WriteTimeout: cfg.Web.WriteTimeout,
		IdleTimeout:  cfg.Web.IdleTimeout,
		ErrorLog:     log.New(lw, "", 0),
	}

	serverErrors := make(chan error, 1)

	go func() {
		logger.Infof("server starting on %s", server.Addr)
		serverErrors <- server.ListenAndServe()
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("server error: %w", err)

	case sig := <-quit:
		logger.Infof("shutting down: signal %s", sig)

		ctx, cancel := context.WithTimeout(context.Background(), cfg.Web.ShutdownTimeout)
		defer cancel()

		if err := server.Shutdown(ctx); err != nil {
			server.Close()
			return fmt.Errorf("could not stop server gracefully: %w", err)
		}
	}

	return nil
}

// openStores builds the catalog, order and lesson adapters for the
// configured backend.
func openStores(cfg config.Config, logger logrus.FieldLogger) (stores, error) {
	switch cfg.Store.Backend {
	case "http":
		client := remote.NewClient(cfg.Store.BaseURL, cfg.Store.RequestTimeout)
		logger.Infof("using lessons backend at %s", cfg.Store.BaseURL)

		return stores{
			catalog: client,
			orders:  client,
			lessons: client,
			close:   func() error { return nil },
		}, nil

	case "sql":
		dbCfg := database.Config{
			Driver:       cfg.DB.Driver,
			Host:         cfg.DB.Host,
			Port:         cfg.DB.Port,
			User:         cfg.DB.User,
			Password:     cfg.DB.Password,
			Name:         cfg.DB.Name,
			DisableTLS:   cfg.DB.DisableTLS,
			MaxOpenConns: cfg.DB.MaxOpenConns,
			MaxIdleConns: cfg.DB.MaxIdleConns,
			MaxRetries:   cfg.DB.MaxRetries,
		}

		db, err := database.Open(dbCfg, logger)
		if err != nil {
			return stores{}, fmt.Errorf("failed to open db connection: %w", err)
		}

		if cfg.DB.Migrate {
			if err := database.Migrate(dbCfg); err != nil {
				db.Close()
				return stores{}, err
			}
			logger.Info("database migrations applied")
		}

		return sqlStores(db), nil
	}

	return stores{}, fmt.Errorf("unknown store backend %q", cfg.Store.Backend)
}

func sqlStores(db *sqlx.DB) stores {
	lessons := sqlstore.NewLessonRepository(db)

	return stores{
		catalog: lessons,
		orders:  sqlstore.NewOrderRepository(db),
		lessons: lessons,
		close:   db.Close,
	}
}
