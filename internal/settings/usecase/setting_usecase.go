// Package usecase reads and writes encrypted settings.
package usecase

import (
	"context"
	"time"

	validation "github.com/jellydator/validation"

	apperrors "github.com/allisson/cardauth/internal/errors"
	settingsDomain "github.com/allisson/cardauth/internal/settings/domain"
	settingsService "github.com/allisson/cardauth/internal/settings/service"
	customValidation "github.com/allisson/cardauth/internal/validation"
)

// SettingRepository persists encrypted settings.
type SettingRepository interface {
	Get(ctx context.Context, name string) (*settingsDomain.Setting, error)
	Upsert(ctx context.Context, setting *settingsDomain.Setting) error
}

// SettingUseCase reads and writes plaintext setting values, encrypting them at rest.
type SettingUseCase interface {
	Get(ctx context.Context, name string) (string, error)
	Set(ctx context.Context, name, value string) error
}

type settingUseCase struct {
	repo   SettingRepository
	keeper settingsService.Keeper
}

func (s *settingUseCase) Get(ctx context.Context, name string) (string, error) {
	if s.keeper == nil {
		return "", settingsDomain.ErrKeeperNotConfigured
	}

	setting, err := s.repo.Get(ctx, name)
	if err != nil {
		return "", err
	}

	plaintext, err := s.keeper.Decrypt(ctx, setting.Ciphertext)
	if err != nil {
		return "", apperrors.Wrapf(err, "failed to decrypt setting %q", name)
	}
	return string(plaintext), nil
}

func (s *settingUseCase) Set(ctx context.Context, name, value string) error {
	if s.keeper == nil {
		return settingsDomain.ErrKeeperNotConfigured
	}

	err := validation.Errors{
		"name":  validation.Validate(name, validation.Required, customValidation.NotBlank, validation.Length(1, 100)),
		"value": validation.Validate(value, validation.Required),
	}.Filter()
	if err != nil {
		return customValidation.WrapValidationError(err)
	}

	ciphertext, err := s.keeper.Encrypt(ctx, []byte(value))
	if err != nil {
		return apperrors.Wrapf(err, "failed to encrypt setting %q", name)
	}

	return s.repo.Upsert(ctx, &settingsDomain.Setting{
		Name:       name,
		Ciphertext: ciphertext,
		UpdatedAt:  time.Now().UTC(),
	})
}

// NewSettingUseCase creates a SettingUseCase. A nil keeper makes every call fail with
// ErrKeeperNotConfigured.
func NewSettingUseCase(repo SettingRepository, keeper settingsService.Keeper) SettingUseCase {
	return &settingUseCase{repo: repo, keeper: keeper}
}
