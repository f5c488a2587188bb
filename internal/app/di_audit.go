package app

import (
	"fmt"

	auditHTTP "github.com/allisson/cardauth/internal/audit/http"
	auditRepository "github.com/allisson/cardauth/internal/audit/repository"
	auditService "github.com/allisson/cardauth/internal/audit/service"
	auditUseCase "github.com/allisson/cardauth/internal/audit/usecase"
	"github.com/allisson/cardauth/internal/database"
)

type auditComponents struct {
	signer           lazy[auditService.Signer]
	repository       lazy[auditUseCase.AccessLogRepository]
	useCase          lazy[auditUseCase.AccessLogUseCase]
	accessLogHandler lazy[*auditHTTP.AccessLogHandler]
}

// AuditSigner returns the access log signer. It signs nothing when AUDIT_SIGNING_KEY is empty.
func (c *Container) AuditSigner() (auditService.Signer, error) {
	return c.auditComponents.signer.get(func() (auditService.Signer, error) {
		signer, err := auditService.NewSigner(c.config.AuditSigningKey)
		if err != nil {
			return nil, fmt.Errorf("failed to create audit signer: %w", err)
		}
		if !signer.Enabled() {
			c.Logger().Warn("AUDIT_SIGNING_KEY is not set; access log entries will not be signed")
		}
		return signer, nil
	})
}

// AccessLogRepository returns the access log repository for the configured driver.
func (c *Container) AccessLogRepository() (auditUseCase.AccessLogRepository, error) {
	return c.auditComponents.repository.get(func() (auditUseCase.AccessLogRepository, error) {
		db, err := c.DB()
		if err != nil {
			return nil, fmt.Errorf("failed to get database for access log repository: %w", err)
		}
		switch c.config.DBDriver {
		case database.DriverMySQL:
			return auditRepository.NewMySQLAccessLogRepository(db), nil
		case database.DriverPostgres:
			return auditRepository.NewPostgreSQLAccessLogRepository(db), nil
		default:
			return nil, c.unsupportedDriver()
		}
	})
}

// AccessLogUseCase returns the access log use case.
func (c *Container) AccessLogUseCase() (auditUseCase.AccessLogUseCase, error) {
	return c.auditComponents.useCase.get(func() (auditUseCase.AccessLogUseCase, error) {
		repo, err := c.AccessLogRepository()
		if err != nil {
			return nil, err
		}
		signer, err := c.AuditSigner()
		if err != nil {
			return nil, err
		}
		bm, err := c.BusinessMetrics()
		if err != nil {
			return nil, err
		}
		return auditUseCase.NewAccessLogUseCaseWithMetrics(auditUseCase.NewAccessLogUseCase(repo, signer), bm), nil
	})
}

// AccessLogHandler returns the access log listing handler.
func (c *Container) AccessLogHandler() (*auditHTTP.AccessLogHandler, error) {
	return c.auditComponents.accessLogHandler.get(func() (*auditHTTP.AccessLogHandler, error) {
		useCase, err := c.AccessLogUseCase()
		if err != nil {
			return nil, err
		}
		return auditHTTP.NewAccessLogHandler(useCase, c.Logger()), nil
	})
}
