package db

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/pressly/goose/v3"

	"github.com/udisondev/dpscalc/internal/db/migrations"
)

// Migrate applies the embedded migrations of the store's dialect.
func (s *Store) Migrate(ctx context.Context) error {
	goose.SetBaseFS(migrations.FS)
	goose.SetLogger(gooseLogger{})
	if err := goose.SetDialect(s.dialect.GooseDialect()); err != nil {
		return fmt.Errorf("setting goose dialect: %w", err)
	}
	if err := goose.UpContext(ctx, s.db, s.dialect.MigrationsDir()); err != nil {
		return fmt.Errorf("running migrations: %w", err)
	}
	return nil
}

// gooseLogger routes goose output to slog at debug level.
type gooseLogger struct{}

func (gooseLogger) Printf(format string, v ...any) {
	slog.Debug(strings.TrimSpace(fmt.Sprintf(format, v...)), "component", "goose")
}

func (gooseLogger) Fatalf(format string, v ...any) {
	slog.Error(strings.TrimSpace(fmt.Sprintf(format, v...)), "component", "goose")
}
