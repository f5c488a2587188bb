// Package app provides the dependency injection container that assembles the application.
package app

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/allisson/cardauth/internal/config"
	"github.com/allisson/cardauth/internal/database"
	"github.com/allisson/cardauth/internal/http"
	"github.com/allisson/cardauth/internal/metrics"
)

// lazy holds a component built on first access. A failed build is remembered and returned
// on every later call.
type lazy[T any] struct {
	once  sync.Once
	value T
	err   error
	built bool
}

func (l *lazy[T]) get(build func() (T, error)) (T, error) {
	l.once.Do(func() {
		l.value, l.err = build()
		l.built = l.err == nil
	})
	return l.value, l.err
}

// Container holds all application dependencies. Components are created on first access.
type Container struct {
	config *config.Config

	loggerInit sync.Once
	logger     *slog.Logger

	db               lazy[*sql.DB]
	txManager        lazy[database.TxManager]
	redis            lazy[*redis.Client]
	metricsProvider  lazy[*metrics.Provider]
	businessMetrics  lazy[metrics.BusinessMetrics]
	httpServer       lazy[*http.Server]
	metricsServer    lazy[*http.MetricsServer]
	authComponents   authComponents
	cryptoComponents cryptoComponents
	auditComponents  auditComponents
	gateComponents   gateComponents
	authzComponents  authorizationComponents

	mu sync.Mutex
}

// NewContainer creates a new dependency injection container with the provided configuration.
func NewContainer(cfg *config.Config) *Container {
	return &Container{config: cfg}
}

// Config returns the application configuration.
func (c *Container) Config() *config.Config {
	return c.config
}

// Logger returns the JSON logger at the configured level.
func (c *Container) Logger() *slog.Logger {
	c.loggerInit.Do(func() {
		c.logger = c.initLogger()
	})
	return c.logger
}

// DB returns the database connection.
func (c *Container) DB() (*sql.DB, error) {
	return c.db.get(c.initDB)
}

// TxManager returns the transaction manager.
func (c *Container) TxManager() (database.TxManager, error) {
	return c.txManager.get(func() (database.TxManager, error) {
		db, err := c.DB()
		if err != nil {
			return nil, fmt.Errorf("failed to get database for tx manager: %w", err)
		}
		return database.NewTxManager(db), nil
	})
}

// Redis returns the Redis client, or nil when REDIS_URL is not set.
func (c *Container) Redis() (*redis.Client, error) {
	return c.redis.get(func() (*redis.Client, error) {
		if c.config.RedisURL == "" {
			return nil, nil
		}
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		client, err := database.OpenRedis(ctx, c.config.RedisURL)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to redis: %w", err)
		}
		return client, nil
	})
}

// MetricsProvider returns the Prometheus-backed meter provider, or nil when metrics are disabled.
func (c *Container) MetricsProvider() (*metrics.Provider, error) {
	return c.metricsProvider.get(func() (*metrics.Provider, error) {
		if !c.config.MetricsEnabled {
			return nil, nil
		}
		provider, err := metrics.NewProvider(c.config.MetricsNamespace)
		if err != nil {
			return nil, fmt.Errorf("failed to create metrics provider: %w", err)
		}
		return provider, nil
	})
}

// BusinessMetrics returns the use case metrics recorder. It is a no-op when metrics are disabled.
func (c *Container) BusinessMetrics() (metrics.BusinessMetrics, error) {
	return c.businessMetrics.get(func() (metrics.BusinessMetrics, error) {
		provider, err := c.MetricsProvider()
		if err != nil {
			return nil, err
		}
		if provider == nil {
			return metrics.NewNoOpBusinessMetrics(), nil
		}
		bm, err := metrics.NewBusinessMetrics(provider.MeterProvider(), c.config.MetricsNamespace)
		if err != nil {
			return nil, fmt.Errorf("failed to create business metrics: %w", err)
		}
		return bm, nil
	})
}

// HTTPServer returns the API server with its router mounted.
func (c *Container) HTTPServer(ctx context.Context) (*http.Server, error) {
	return c.httpServer.get(func() (*http.Server, error) {
		return c.initHTTPServer(ctx)
	})
}

// MetricsServer returns the /metrics server, or nil when metrics are disabled.
func (c *Container) MetricsServer() (*http.MetricsServer, error) {
	return c.metricsServer.get(func() (*http.MetricsServer, error) {
		provider, err := c.MetricsProvider()
		if err != nil {
			return nil, err
		}
		if provider == nil {
			return nil, nil
		}
		return http.NewMetricsServer(c.config.ServerHost, c.config.MetricsPort, c.Logger(), provider), nil
	})
}

// Shutdown releases every initialized resource. Pending notifications are drained first
// because they still write to the database.
func (c *Container) Shutdown(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	var errs []error

	if c.httpServer.built && c.httpServer.value != nil {
		if err := c.httpServer.value.Shutdown(ctx); err != nil {
			errs = append(errs, fmt.Errorf("http server shutdown: %w", err))
		}
	}
	if c.metricsServer.built && c.metricsServer.value != nil {
		if err := c.metricsServer.value.Shutdown(ctx); err != nil {
			errs = append(errs, fmt.Errorf("metrics server shutdown: %w", err))
		}
	}
	if d := &c.authzComponents.dispatcher; d.built && d.value != nil {
		if err := d.value.Shutdown(ctx); err != nil {
			errs = append(errs, fmt.Errorf("notification dispatcher shutdown: %w", err))
		}
	}
	if k := &c.cryptoComponents.keeper; k.built && k.value != nil {
		if err := k.value.Close(); err != nil {
			errs = append(errs, fmt.Errorf("kms keeper close: %w", err))
		}
	}
	if c.metricsProvider.built && c.metricsProvider.value != nil {
		if err := c.metricsProvider.value.Shutdown(ctx); err != nil {
			errs = append(errs, fmt.Errorf("metrics provider shutdown: %w", err))
		}
	}
	if c.redis.built && c.redis.value != nil {
		if err := c.redis.value.Close(); err != nil {
			errs = append(errs, fmt.Errorf("redis close: %w", err))
		}
	}
	if c.db.built && c.db.value != nil {
		if err := c.db.value.Close(); err != nil {
			errs = append(errs, fmt.Errorf("database close: %w", err))
		}
	}

	return errors.Join(errs...)
}

func (c *Container) initLogger() *slog.Logger {
	var logLevel slog.Level
	switch c.config.LogLevel {
	case "debug":
		logLevel = slog.LevelDebug
	case "warn":
		logLevel = slog.LevelWarn
	case "error":
		logLevel = slog.LevelError
	default:
		logLevel = slog.LevelInfo
	}

	handler := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: logLevel,
	})

	return slog.New(handler)
}

func (c *Container) initDB() (*sql.DB, error) {
	db, err := database.Connect(database.Config{
		Driver:             c.config.DBDriver,
		ConnectionString:   c.config.DBConnectionString,
		MaxOpenConnections: c.config.DBMaxOpenConnections,
		MaxIdleConnections: c.config.DBMaxIdleConnections,
		ConnMaxLifetime:    c.config.DBConnMaxLifetime,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	return db, nil
}

func (c *Container) initHTTPServer(ctx context.Context) (*http.Server, error) {
	logger := c.Logger()

	if c.config.UsesDefaultCCEncryptionKey() {
		logger.Warn("CC_ENCRYPTION_KEY is not set; using the development key")
	}

	db, err := c.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database for http server: %w", err)
	}
	tokenHandler, err := c.TokenHandler()
	if err != nil {
		return nil, err
	}
	tokenUseCase, err := c.TokenUseCase()
	if err != nil {
		return nil, err
	}
	authorizationHandler, err := c.AuthorizationHandler()
	if err != nil {
		return nil, err
	}
	gateHandler, err := c.GateHandler()
	if err != nil {
		return nil, err
	}
	gateUseCase, err := c.GateUseCase()
	if err != nil {
		return nil, err
	}
	accessLogHandler, err := c.AccessLogHandler()
	if err != nil {
		return nil, err
	}
	provider, err := c.MetricsProvider()
	if err != nil {
		return nil, err
	}

	server := http.NewServer(db, c.config.ServerHost, c.config.ServerPort, logger)
	server.SetupRouter(ctx, c.config, http.RouterDependencies{
		TokenHandler:         tokenHandler,
		AuthorizationHandler: authorizationHandler,
		GateHandler:          gateHandler,
		AccessLogHandler:     accessLogHandler,
		TokenUseCase:         tokenUseCase,
		GateUseCase:          gateUseCase,
		MetricsProvider:      provider,
	})

	return server, nil
}

func (c *Container) unsupportedDriver() error {
	return fmt.Errorf("unsupported database driver: %s", c.config.DBDriver)
}
