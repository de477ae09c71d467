package db

import (
	"context"
	"embed"
	"fmt"

	"github.com/pressly/goose/v3"
	"gorm.io/gorm"

	"fintrack/internal/model"
)

//go:embed migrations/*.sql
var migrations embed.FS

// Models lists every table owned by the service, parents first.
var Models = []interface{}{
	&model.User{},
	&model.Expense{},
	&model.Income{},
}

// Migrate brings the schema up to date, either with GORM AutoMigrate ("auto")
// or with the embedded SQL migrations through goose ("goose", MySQL only).
func Migrate(ctx context.Context, db *gorm.DB, migrator string) error {
	switch migrator {
	case "auto", "":
		if err := db.WithContext(ctx).AutoMigrate(Models...); err != nil {
			return fmt.Errorf("auto-migrate: %w", err)
		}
		return nil
	case "goose":
		return gooseUp(ctx, db)
	default:
		return fmt.Errorf("unsupported migrator %q", migrator)
	}
}

func gooseUp(ctx context.Context, db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return fmt.Errorf("get sql db: %w", err)
	}

	goose.SetBaseFS(migrations)
	defer goose.SetBaseFS(nil)

	if err := goose.SetDialect("mysql"); err != nil {
		return fmt.Errorf("goose dialect: %w", err)
	}
	if err := goose.UpContext(ctx, sqlDB, "migrations"); err != nil {
		return fmt.Errorf("goose up: %w", err)
	}
	return nil
}
