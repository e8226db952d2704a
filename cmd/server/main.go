// Command kino runs the cinema listing API.
package main

import (
	"context"
	"os"

	"github.com/urfave/cli/v3"

	"github.com/iliyamo/kino/internal/config"
	"github.com/iliyamo/kino/internal/logging"
)

func main() {
	if err := config.LoadDotEnv(); err != nil {
		logging.Fatal().Err(err).Msg("load .env")
	}
	app := &cli.Command{
		Name:  "kino",
		Usage: "Cinema listings: movies, sessions and search",
		Commands: []*cli.Command{
			serveCommand(),
			migrateCommand(),
			createUserCommand(),
		},
		// serve is the default
		Action: runServe,
	}
	if err := app.Run(context.Background(), os.Args); err != nil {
		logging.Fatal().Err(err).Msg("kino")
	}
}
