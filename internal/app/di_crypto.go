package app

import (
	"context"
	"fmt"
	"time"

	cryptoDomain "github.com/allisson/cardauth/internal/crypto/domain"
	cryptoService "github.com/allisson/cardauth/internal/crypto/service"
	"github.com/allisson/cardauth/internal/database"
	settingsRepository "github.com/allisson/cardauth/internal/settings/repository"
	settingsService "github.com/allisson/cardauth/internal/settings/service"
	settingsUseCase "github.com/allisson/cardauth/internal/settings/usecase"
)

type cryptoComponents struct {
	fieldCipher       lazy[cryptoService.FieldCipher]
	keeper            lazy[settingsService.Keeper]
	settingRepository lazy[settingsUseCase.SettingRepository]
	settingUseCase    lazy[settingsUseCase.SettingUseCase]
}

// FieldCipher returns the cipher shared by card submission and disclosure.
func (c *Container) FieldCipher() (cryptoService.FieldCipher, error) {
	return c.cryptoComponents.fieldCipher.get(func() (cryptoService.FieldCipher, error) {
		alg, err := cryptoDomain.ParseAlgorithm(c.config.CCCipherAlgorithm)
		if err != nil {
			return nil, fmt.Errorf("invalid CC_CIPHER_ALGORITHM %q: %w", c.config.CCCipherAlgorithm, err)
		}
		cipher, err := cryptoService.NewFieldCipher(alg, c.config.CCEncryptionKey)
		if err != nil {
			return nil, fmt.Errorf("failed to create field cipher: %w", err)
		}
		return cipher, nil
	})
}

// KMSKeeper returns the keeper that encrypts settings, or nil when KMS_KEY_URI is not set.
func (c *Container) KMSKeeper() (settingsService.Keeper, error) {
	return c.cryptoComponents.keeper.get(func() (settingsService.Keeper, error) {
		if c.config.KMSKeyURI == "" {
			return nil, nil
		}
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return settingsService.OpenKeeper(ctx, c.config.KMSKeyURI)
	})
}

// SettingRepository returns the settings repository for the configured driver.
func (c *Container) SettingRepository() (settingsUseCase.SettingRepository, error) {
	return c.cryptoComponents.settingRepository.get(func() (settingsUseCase.SettingRepository, error) {
		db, err := c.DB()
		if err != nil {
			return nil, fmt.Errorf("failed to get database for setting repository: %w", err)
		}
		switch c.config.DBDriver {
		case database.DriverMySQL:
			return settingsRepository.NewMySQLSettingRepository(db), nil
		case database.DriverPostgres:
			return settingsRepository.NewPostgreSQLSettingRepository(db), nil
		default:
			return nil, c.unsupportedDriver()
		}
	})
}

// SettingUseCase returns the encrypted settings store.
func (c *Container) SettingUseCase() (settingsUseCase.SettingUseCase, error) {
	return c.cryptoComponents.settingUseCase.get(func() (settingsUseCase.SettingUseCase, error) {
		repo, err := c.SettingRepository()
		if err != nil {
			return nil, err
		}
		keeper, err := c.KMSKeeper()
		if err != nil {
			return nil, err
		}
		return settingsUseCase.NewSettingUseCase(repo, keeper), nil
	})
}
