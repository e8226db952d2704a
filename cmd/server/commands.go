package main

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/urfave/cli/v3"

	"github.com/iliyamo/kino/internal/config"
	"github.com/iliyamo/kino/internal/database"
	"github.com/iliyamo/kino/internal/logging"
	"github.com/iliyamo/kino/internal/model"
	"github.com/iliyamo/kino/internal/repository"
)

func serveCommand() *cli.Command {
	return &cli.Command{
		Name:   "serve",
		Usage:  "Start the HTTP server",
		Action: runServe,
	}
}

func migrateCommand() *cli.Command {
	return &cli.Command{
		Name:  "migrate",
		Usage: "Apply pending schema migrations and exit",
		Action: func(ctx context.Context, _ *cli.Command) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			db, dialect, err := openDB(cfg)
			if err != nil {
				return err
			}
			defer db.Close()
			applied, err := database.Migrate(ctx, db, dialect)
			if err != nil {
				return fmt.Errorf("migrate: %w", err)
			}
			logging.Info().Ints("applied", applied).Str("dialect", string(dialect)).Msg("migrations done")
			return nil
		},
	}
}

func createUserCommand() *cli.Command {
	return &cli.Command{
		Name:  "createuser",
		Usage: "Create an account, optionally with staff rights",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "username", Usage: "login name", Required: true},
			&cli.StringFlag{Name: "email", Usage: "email address", Required: true},
			&cli.StringFlag{Name: "password", Usage: "initial password", Required: true, Sources: cli.EnvVars("KINO_PASSWORD")},
			&cli.BoolFlag{Name: "staff", Usage: "allow catalog management"},
		},
		Action: func(ctx context.Context, c *cli.Command) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			db, _, err := openDB(cfg)
			if err != nil {
				return err
			}
			defer db.Close()

			role := model.RoleUser
			if c.Bool("staff") {
				role = model.RoleStaff
			}
			id, err := repository.NewUserRepo(db).Create(ctx, c.String("username"), c.String("email"), c.String("password"), role, cfg.BcryptCost)
			if err != nil {
				return fmt.Errorf("create user: %w", err)
			}
			logging.Info().Uint64("id", id).Str("username", c.String("username")).Str("role", role).Msg("user created")
			return nil
		},
	}
}

func loadConfig() (config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return cfg, fmt.Errorf("config: %w", err)
	}
	logging.Init(logging.Config{Level: cfg.LogLevel, Format: cfg.LogFormat})
	return cfg, nil
}

func openDB(cfg config.Config) (*sql.DB, database.Dialect, error) {
	dialect, err := database.ParseDialect(cfg.DBDriver)
	if err != nil {
		return nil, "", err
	}
	var db *sql.DB
	if dialect == database.SQLite {
		db, err = database.OpenSQLite(cfg.DBPath)
	} else {
		db, err = database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	}
	if err != nil {
		return nil, "", fmt.Errorf("open %s: %w", dialect, err)
	}
	return db, dialect, nil
}
