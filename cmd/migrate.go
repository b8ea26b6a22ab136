package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/tinoosan/hacc/internal/config"
	"github.com/tinoosan/hacc/internal/dictionary"
	pgstore "github.com/tinoosan/hacc/internal/storage/postgres"
)

var errNoDatabase = errors.New("DATABASE_URL is not set")

func loadDB() (*config.Config, *slog.Logger, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, err
	}
	logger := cfg.NewLogger()
	if cfg.DatabaseURL == "" {
		return nil, nil, errNoDatabase
	}
	return cfg, logger, nil
}

func newMigrateCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Manage the Postgres schema",
	}
	run := func(fn func(*pgstore.Migrator, *slog.Logger) error) func(*cobra.Command, []string) error {
		return func(*cobra.Command, []string) error {
			cfg, logger, err := loadDB()
			if err != nil {
				return err
			}
			m, err := pgstore.NewMigrator(cfg.DatabaseURL, logger)
			if err != nil {
				return err
			}
			defer func() {
				if err := m.Close(); err != nil {
					logger.Warn("close migrator", "err", err)
				}
			}()
			return fn(m, logger)
		}
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:   "up",
			Short: "Apply pending migrations",
			Args:  cobra.NoArgs,
			RunE:  run(func(m *pgstore.Migrator, _ *slog.Logger) error { return m.Up() }),
		},
		&cobra.Command{
			Use:   "down",
			Short: "Roll back every migration",
			Args:  cobra.NoArgs,
			RunE:  run(func(m *pgstore.Migrator, _ *slog.Logger) error { return m.Down() }),
		},
		&cobra.Command{
			Use:   "version",
			Short: "Print the applied schema version",
			Args:  cobra.NoArgs,
			RunE: run(func(m *pgstore.Migrator, _ *slog.Logger) error {
				v, dirty, err := m.Version()
				if err != nil {
					return err
				}
				fmt.Printf("version: %d dirty: %t\n", v, dirty)
				return nil
			}),
		},
	)
	return cmd
}

func newSeedCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Install the starter chart of accounts into an empty database",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, logger, err := loadDB()
			if err != nil {
				return err
			}
			pg, err := pgstore.Open(cmd.Context(), cfg.DatabaseURL)
			if err != nil {
				return fmt.Errorf("connect to postgres: %w", err)
			}
			defer pg.Close()
			return seedIfEmpty(cmd.Context(), pg, logger)
		},
	}
}

// seedIfEmpty installs the starter chart unless a journal already exists.
func seedIfEmpty(ctx context.Context, pg *pgstore.Store, logger *slog.Logger) error {
	js, err := pg.ListJournals(ctx)
	if err != nil {
		return fmt.Errorf("list journals: %w", err)
	}
	if len(js) > 0 {
		logger.Info("seed skipped: ledger already has journals", "journals", len(js))
		return nil
	}
	chart := dictionary.Build()
	if err := dictionary.Install(ctx, pg, chart); err != nil {
		return fmt.Errorf("seed: %w", err)
	}
	logger.Info("starter chart installed", "journal", chart.Journal.Name, "accounts", len(chart.Accounts))
	return nil
}
