package main

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/lib/pq"
	"github.com/spf13/cobra"

	"github.com/m04kA/SMC-SchedulingService/internal/config"
	"github.com/m04kA/SMC-SchedulingService/internal/infra/storage/migrations"
	"github.com/m04kA/SMC-SchedulingService/pkg/logger"
)

func migrateCmd(configPath *string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Миграции базы данных",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "up",
		Short: "Применить все новые миграции",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withMigrator(cmd.Context(), *configPath, func(ctx context.Context, m *migrations.Migrator) error {
				return m.Up(ctx)
			})
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "down",
		Short: "Откатить последнюю миграцию",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withMigrator(cmd.Context(), *configPath, func(ctx context.Context, m *migrations.Migrator) error {
				return m.Down(ctx)
			})
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "status",
		Short: "Показать состояние миграций",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withMigrator(cmd.Context(), *configPath, func(ctx context.Context, m *migrations.Migrator) error {
				return m.Status(ctx)
			})
		},
	})

	return cmd
}

func withMigrator(ctx context.Context, configPath string, fn func(ctx context.Context, m *migrations.Migrator) error) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	log, err := logger.New(cfg.Logs.File, cfg.Logs.Level)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer log.Close()

	db, err := sql.Open("postgres", cfg.Database.DSN())
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer db.Close()

	if err := db.PingContext(ctx); err != nil {
		return fmt.Errorf("ping database: %w", err)
	}

	migrator, err := migrations.NewMigrator(db, log)
	if err != nil {
		return err
	}

	return fn(ctx, migrator)
}
