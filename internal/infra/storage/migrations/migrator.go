package migrations

import (
	"context"
	"database/sql"
	"embed"
	"fmt"

	"github.com/pressly/goose/v3"
)

//go:embed sql/*.sql
var embedMigrations embed.FS

const migrationsDir = "sql"

// Migrator обёртка над goose с миграциями, встроенными в бинарник
type Migrator struct {
	db     *sql.DB
	logger Logger
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
}

// NewMigrator создаёт новый мигратор
func NewMigrator(db *sql.DB, logger Logger) (*Migrator, error) {
	goose.SetBaseFS(embedMigrations)
	if err := goose.SetDialect("postgres"); err != nil {
		return nil, fmt.Errorf("set goose dialect: %w", err)
	}

	return &Migrator{db: db, logger: logger}, nil
}

// Up применяет все pending миграции
func (m *Migrator) Up(ctx context.Context) error {
	m.logger.Info("Applying database migrations...")

	if err := goose.UpContext(ctx, m.db, migrationsDir); err != nil {
		return fmt.Errorf("apply migrations: %w", err)
	}

	version, err := m.Version(ctx)
	if err != nil {
		return err
	}
	m.logger.Info("Migrations applied successfully, version=%d", version)
	return nil
}

// Down откатывает последнюю миграцию
func (m *Migrator) Down(ctx context.Context) error {
	if err := goose.DownContext(ctx, m.db, migrationsDir); err != nil {
		return fmt.Errorf("rollback migration: %w", err)
	}
	return nil
}

// Status выводит состояние миграций через логгер goose
func (m *Migrator) Status(ctx context.Context) error {
	if err := goose.StatusContext(ctx, m.db, migrationsDir); err != nil {
		return fmt.Errorf("migrations status: %w", err)
	}
	return nil
}

// Version текущая версия схемы
func (m *Migrator) Version(ctx context.Context) (int64, error) {
	version, err := goose.GetDBVersionContext(ctx, m.db)
	if err != nil {
		return 0, fmt.Errorf("get version: %w", err)
	}
	return version, nil
}
