package commands

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	authDomain "github.com/allisson/cardauth/internal/auth/domain"
	authUseCase "github.com/allisson/cardauth/internal/auth/usecase"
)

// RunCreateUser creates an admin panel login. The password is read from io when not
// passed as a flag. Output is text or JSON and never includes the password.
func RunCreateUser(
	ctx context.Context,
	userUseCase authUseCase.UserUseCase,
	logger *slog.Logger,
	name, email, password, role string,
	format string,
	io IOTuple,
) error {
	parsedRole, err := authDomain.ParseRole(role)
	if err != nil {
		return fmt.Errorf("invalid role %q: %w", role, err)
	}

	password, err = promptSecret(io, "password", password)
	if err != nil {
		return err
	}

	user, err := userUseCase.Create(ctx, &authDomain.CreateUserInput{
		Name:     name,
		Email:    email,
		Password: password,
		Role:     parsedRole,
	})
	if err != nil {
		return fmt.Errorf("failed to create user: %w", err)
	}

	if format == "json" {
		if err := writeJSON(io.Writer, map[string]any{
			"id":    user.ID,
			"name":  user.Name,
			"email": user.Email,
			"role":  user.Role,
		}); err != nil {
			return err
		}
	} else {
		outputUserText(io.Writer, user)
	}

	logger.Info("user created",
		slog.String("user_id", user.ID.String()),
		slog.String("role", string(user.Role)),
	)
	return nil
}

func outputUserText(writer io.Writer, user *authDomain.User) {
	_, _ = fmt.Fprintln(writer, "User created successfully")
	_, _ = fmt.Fprintf(writer, "ID:    %s\n", user.ID)
	_, _ = fmt.Fprintf(writer, "Name:  %s\n", user.Name)
	_, _ = fmt.Fprintf(writer, "Email: %s\n", user.Email)
	_, _ = fmt.Fprintf(writer, "Role:  %s\n", user.Role)
}
