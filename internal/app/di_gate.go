package app

import (
	"fmt"

	"github.com/allisson/cardauth/internal/database"
	gateDomain "github.com/allisson/cardauth/internal/gate/domain"
	gateHTTP "github.com/allisson/cardauth/internal/gate/http"
	gateRepository "github.com/allisson/cardauth/internal/gate/repository"
	gateUseCase "github.com/allisson/cardauth/internal/gate/usecase"
)

// gateSessionPrefix namespaces gate session keys in a shared Redis.
const gateSessionPrefix = "cardauth:"

type gateComponents struct {
	repository   lazy[gateUseCase.GateRepository]
	sessionStore lazy[gateUseCase.SessionStore]
	useCase      lazy[gateUseCase.GateUseCase]
	handler      lazy[*gateHTTP.GateHandler]
}

// GatePolicy returns the lockout and session policy from configuration.
func (c *Container) GatePolicy() gateDomain.Policy {
	policy := gateDomain.DefaultPolicy()
	if c.config.GateMaxAttempts > 0 {
		policy.MaxAttempts = c.config.GateMaxAttempts
	}
	if c.config.GateLockoutDuration > 0 {
		policy.LockoutDuration = c.config.GateLockoutDuration
	}
	if c.config.GateSessionWindow > 0 {
		policy.SessionWindow = c.config.GateSessionWindow
	}
	return policy
}

// GateRepository returns the gate password repository for the configured driver.
func (c *Container) GateRepository() (gateUseCase.GateRepository, error) {
	return c.gateComponents.repository.get(func() (gateUseCase.GateRepository, error) {
		db, err := c.DB()
		if err != nil {
			return nil, fmt.Errorf("failed to get database for gate repository: %w", err)
		}
		switch c.config.DBDriver {
		case database.DriverMySQL:
			return gateRepository.NewMySQLGateRepository(db), nil
		case database.DriverPostgres:
			return gateRepository.NewPostgreSQLGateRepository(db), nil
		default:
			return nil, c.unsupportedDriver()
		}
	})
}

// GateSessionStore returns the Redis session store when REDIS_URL is set, otherwise an
// in-process store that only works with a single server instance.
func (c *Container) GateSessionStore() (gateUseCase.SessionStore, error) {
	return c.gateComponents.sessionStore.get(func() (gateUseCase.SessionStore, error) {
		client, err := c.Redis()
		if err != nil {
			return nil, err
		}
		if client == nil {
			c.Logger().Info("REDIS_URL is not set; gate sessions are kept in memory")
			return gateRepository.NewMemorySessionStore(), nil
		}
		return gateRepository.NewRedisSessionStore(client, gateSessionPrefix), nil
	})
}

// GateUseCase returns the disclosure gate use case.
func (c *Container) GateUseCase() (gateUseCase.GateUseCase, error) {
	return c.gateComponents.useCase.get(func() (gateUseCase.GateUseCase, error) {
		txManager, err := c.TxManager()
		if err != nil {
			return nil, err
		}
		repo, err := c.GateRepository()
		if err != nil {
			return nil, err
		}
		sessions, err := c.GateSessionStore()
		if err != nil {
			return nil, err
		}
		audit, err := c.AccessLogUseCase()
		if err != nil {
			return nil, err
		}
		bm, err := c.BusinessMetrics()
		if err != nil {
			return nil, err
		}
		useCase := gateUseCase.NewGateUseCase(txManager, repo, sessions, audit, c.GatePolicy(), c.Logger())
		return gateUseCase.NewGateUseCaseWithMetrics(useCase, bm), nil
	})
}

// GateHandler returns the gate verification handler.
func (c *Container) GateHandler() (*gateHTTP.GateHandler, error) {
	return c.gateComponents.handler.get(func() (*gateHTTP.GateHandler, error) {
		useCase, err := c.GateUseCase()
		if err != nil {
			return nil, err
		}
		return gateHTTP.NewGateHandler(useCase, c.Logger()), nil
	})
}
