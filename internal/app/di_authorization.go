package app

import (
	"fmt"
	"net/http"

	authorizationHTTP "github.com/allisson/cardauth/internal/authorization/http"
	authorizationRepository "github.com/allisson/cardauth/internal/authorization/repository"
	authorizationUseCase "github.com/allisson/cardauth/internal/authorization/usecase"
	"github.com/allisson/cardauth/internal/database"
	"github.com/allisson/cardauth/internal/notification"
)

// maxNotificationsInFlight caps concurrent calls to the mail provider.
const maxNotificationsInFlight = 8

type authorizationComponents struct {
	repository lazy[authorizationUseCase.AuthorizationRepository]
	dispatcher lazy[*notification.Dispatcher]
	useCase    lazy[authorizationUseCase.AuthorizationUseCase]
	handler    lazy[*authorizationHTTP.AuthorizationHandler]
}

// AuthorizationRepository returns the authorization repository for the configured driver.
func (c *Container) AuthorizationRepository() (authorizationUseCase.AuthorizationRepository, error) {
	return c.authzComponents.repository.get(func() (authorizationUseCase.AuthorizationRepository, error) {
		db, err := c.DB()
		if err != nil {
			return nil, fmt.Errorf("failed to get database for authorization repository: %w", err)
		}
		switch c.config.DBDriver {
		case database.DriverMySQL:
			return authorizationRepository.NewMySQLAuthorizationRepository(db), nil
		case database.DriverPostgres:
			return authorizationRepository.NewPostgreSQLAuthorizationRepository(db), nil
		default:
			return nil, c.unsupportedDriver()
		}
	})
}

// NotificationDispatcher returns the submission email dispatcher, or nil when MAIL_API_URL
// is not set.
func (c *Container) NotificationDispatcher() (*notification.Dispatcher, error) {
	return c.authzComponents.dispatcher.get(func() (*notification.Dispatcher, error) {
		if c.config.MailAPIURL == "" {
			c.Logger().Info("MAIL_API_URL is not set; submission notifications are disabled")
			return nil, nil
		}
		repo, err := c.AuthorizationRepository()
		if err != nil {
			return nil, err
		}
		settings, err := c.SettingUseCase()
		if err != nil {
			return nil, err
		}
		mailer := notification.NewHTTPMailer(&http.Client{}, notification.HTTPMailerConfig{
			APIURL:         c.config.MailAPIURL,
			From:           c.config.MailFrom,
			To:             c.config.MailTo,
			CredentialName: c.config.MailCredentialSetting,
		}, settings)
		return notification.NewDispatcher(
			mailer,
			repo,
			c.config.MailTimeout,
			maxNotificationsInFlight,
			c.Logger(),
		), nil
	})
}

// AuthorizationUseCase returns the capture and disclosure use case.
func (c *Container) AuthorizationUseCase() (authorizationUseCase.AuthorizationUseCase, error) {
	return c.authzComponents.useCase.get(func() (authorizationUseCase.AuthorizationUseCase, error) {
		repo, err := c.AuthorizationRepository()
		if err != nil {
			return nil, err
		}
		cipher, err := c.FieldCipher()
		if err != nil {
			return nil, err
		}
		audit, err := c.AccessLogUseCase()
		if err != nil {
			return nil, err
		}
		dispatcher, err := c.NotificationDispatcher()
		if err != nil {
			return nil, err
		}
		bm, err := c.BusinessMetrics()
		if err != nil {
			return nil, err
		}

		// A nil *Dispatcher must stay a nil interface so Submit skips notification.
		var notifier authorizationUseCase.Notifier
		if dispatcher != nil {
			notifier = dispatcher
		}

		useCase := authorizationUseCase.NewAuthorizationUseCase(
			authorizationUseCase.Config{AuditFailClosed: c.config.AuditFailClosed},
			repo,
			cipher,
			audit,
			notifier,
			c.Logger(),
		)
		return authorizationUseCase.NewAuthorizationUseCaseWithMetrics(useCase, bm), nil
	})
}

// AuthorizationHandler returns the authorization handler.
func (c *Container) AuthorizationHandler() (*authorizationHTTP.AuthorizationHandler, error) {
	return c.authzComponents.handler.get(func() (*authorizationHTTP.AuthorizationHandler, error) {
		useCase, err := c.AuthorizationUseCase()
		if err != nil {
			return nil, err
		}
		return authorizationHTTP.NewAuthorizationHandler(useCase, c.Logger()), nil
	})
}
