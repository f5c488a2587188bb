package main

import (
	"context"

	"github.com/urfave/cli/v3"

	"github.com/allisson/cardauth/cmd/app/commands"
	"github.com/allisson/cardauth/internal/app"
	"github.com/allisson/cardauth/internal/config"
)

func getAdminCommands() []*cli.Command {
	return []*cli.Command{
		{
			Name:  "create-user",
			Usage: "Create an admin panel login",
			Flags: []cli.Flag{
				&cli.StringFlag{
					Name:     "name",
					Aliases:  []string{"n"},
					Required: true,
					Usage:    "Display name",
				},
				&cli.StringFlag{
					Name:     "email",
					Aliases:  []string{"e"},
					Required: true,
					Usage:    "Login email",
				},
				&cli.StringFlag{
					Name:    "password",
					Aliases: []string{"p"},
					Usage:   "Login password (omit to be prompted)",
				},
				&cli.StringFlag{
					Name:    "role",
					Aliases: []string{"r"},
					Value:   "staff",
					Usage:   "Role: 'admin' or 'staff'",
				},
				&cli.StringFlag{
					Name:    "format",
					Aliases: []string{"f"},
					Value:   "text",
					Usage:   "Output format: 'text' or 'json'",
				},
			},
			Action: func(ctx context.Context, cmd *cli.Command) error {
				cfg := config.Load()
				container := app.NewContainer(cfg)
				defer func() { _ = container.Shutdown(ctx) }()

				userUseCase, err := container.UserUseCase()
				if err != nil {
					return err
				}

				return commands.RunCreateUser(
					ctx,
					userUseCase,
					container.Logger(),
					cmd.String("name"),
					cmd.String("email"),
					cmd.String("password"),
					cmd.String("role"),
					cmd.String("format"),
					commands.DefaultIO(),
				)
			},
		},
		{
			Name:  "set-gate-password",
			Usage: "Create or replace the disclosure gate password",
			Flags: []cli.Flag{
				&cli.StringFlag{
					Name:    "password",
					Aliases: []string{"p"},
					Usage:   "Gate password (omit to be prompted)",
				},
			},
			Action: func(ctx context.Context, cmd *cli.Command) error {
				cfg := config.Load()
				container := app.NewContainer(cfg)
				defer func() { _ = container.Shutdown(ctx) }()

				gateUseCase, err := container.GateUseCase()
				if err != nil {
					return err
				}

				return commands.RunSetGatePassword(
					ctx,
					gateUseCase,
					container.Logger(),
					cmd.String("password"),
					commands.DefaultIO(),
				)
			},
		},
		{
			Name:  "set-setting",
			Usage: "Store an encrypted setting such as the mail provider credential",
			Flags: []cli.Flag{
				&cli.StringFlag{
					Name:     "name",
					Aliases:  []string{"n"},
					Required: true,
					Usage:    "Setting name (e.g. mail_api_key)",
				},
				&cli.StringFlag{
					Name:    "value",
					Aliases: []string{"v"},
					Usage:   "Setting value (omit to be prompted)",
				},
			},
			Action: func(ctx context.Context, cmd *cli.Command) error {
				cfg := config.Load()
				container := app.NewContainer(cfg)
				defer func() { _ = container.Shutdown(ctx) }()

				settingUseCase, err := container.SettingUseCase()
				if err != nil {
					return err
				}

				return commands.RunSetSetting(
					ctx,
					settingUseCase,
					container.Logger(),
					cmd.String("name"),
					cmd.String("value"),
					commands.DefaultIO(),
				)
			},
		},
	}
}
