package main

import (
	"context"
	"log/slog"
	"os"
	"time"

	"github.com/urfave/cli/v3"

	"github.com/allisson/cardauth/cmd/app/commands"
)

func getClientCommands() []*cli.Command {
	return []*cli.Command{
		{
			Name:  "submit-authorization",
			Usage: "Fill, sign and submit an authorization form from a JSON file",
			Flags: []cli.Flag{
				&cli.StringFlag{
					Name:     "file",
					Aliases:  []string{"i"},
					Required: true,
					Usage:    "Path to the authorization JSON file",
				},
				&cli.StringFlag{
					Name:    "server",
					Aliases: []string{"s"},
					Value:   "http://localhost:8080",
					Usage:   "Base URL of the running server",
				},
				&cli.DurationFlag{
					Name:  "timeout",
					Value: 30 * time.Second,
					Usage: "HTTP timeout for the submission",
				},
				&cli.StringFlag{
					Name:    "format",
					Aliases: []string{"f"},
					Value:   "text",
					Usage:   "Output format: 'text' or 'json'",
				},
			},
			Action: func(ctx context.Context, cmd *cli.Command) error {
				// Logs go to stderr so stdout carries only the result.
				logger := slog.New(slog.NewTextHandler(os.Stderr, nil))

				return commands.RunSubmitAuthorization(
					ctx,
					logger,
					cmd.String("file"),
					cmd.String("server"),
					cmd.Duration("timeout"),
					cmd.String("format"),
					commands.DefaultIO().Writer,
				)
			},
		},
	}
}
