package commands

import (
	"context"
	"fmt"
	"log/slog"

	settingsUseCase "github.com/allisson/cardauth/internal/settings/usecase"
)

// RunSetSetting stores value under name, encrypted with the KMS keeper.
func RunSetSetting(
	ctx context.Context,
	useCase settingsUseCase.SettingUseCase,
	logger *slog.Logger,
	name, value string,
	io IOTuple,
) error {
	value, err := promptSecret(io, "value for "+name, value)
	if err != nil {
		return err
	}

	if err := useCase.Set(ctx, name, value); err != nil {
		return fmt.Errorf("failed to store setting %q: %w", name, err)
	}

	writeLine(io.Writer, fmt.Sprintf("Setting %q stored", name))
	logger.Info("setting stored", slog.String("name", name))
	return nil
}
