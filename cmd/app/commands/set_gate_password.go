package commands

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	gateUseCase "github.com/allisson/cardauth/internal/gate/usecase"
)

// RunSetGatePassword creates or replaces the disclosure gate password and clears any lockout.
// Only the SHA-256 hex of the password is stored.
func RunSetGatePassword(
	ctx context.Context,
	useCase gateUseCase.GateUseCase,
	logger *slog.Logger,
	password string,
	io IOTuple,
) error {
	password, err := promptSecret(io, "gate password", password)
	if err != nil {
		return err
	}

	if err := useCase.SetPassword(ctx, password); err != nil {
		return fmt.Errorf("failed to set gate password: %w", err)
	}

	writeLine(io.Writer, "Gate password updated; failed attempts and lockout were reset")
	logger.Info("gate password updated")
	return nil
}

func writeLine(writer io.Writer, line string) {
	_, _ = fmt.Fprintln(writer, line)
}
