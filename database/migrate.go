package database

import (
	"context"
	"database/sql"
	"fmt"

	"kandu_backend/internal/logger"
	"kandu_backend/internal/models"
	"kandu_backend/migrations"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
	"gorm.io/gorm"
)

// gooseLogger направляет вывод goose в общий логгер
type gooseLogger struct{}

func (gooseLogger) Printf(format string, v ...interface{}) { logger.GetLogger().Infof(format, v...) }
func (gooseLogger) Fatalf(format string, v ...interface{}) { logger.GetLogger().Fatalf(format, v...) }

func openGoose(dsn string) (*sql.DB, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, err
	}

	goose.SetBaseFS(migrations.FS)
	goose.SetLogger(gooseLogger{})
	if err := goose.SetDialect("postgres"); err != nil {
		_ = db.Close()
		return nil, err
	}
	return db, nil
}

// Up применяет миграции. PostgreSQL - через goose и встроенные SQL-файлы,
// SQLite (локальный запуск) - через AutoMigrate моделей.
func Up(ctx context.Context, gormDB *gorm.DB, dsn string) error {
	if !IsPostgres(dsn) {
		if err := gormDB.WithContext(ctx).AutoMigrate(models.All()...); err != nil {
			return fmt.Errorf("auto migrate: %w", err)
		}
		return nil
	}

	db, err := openGoose(dsn)
	if err != nil {
		return err
	}
	defer db.Close()

	return goose.UpContext(ctx, db, ".")
}

// Down откатывает последнюю миграцию (только PostgreSQL)
func Down(ctx context.Context, dsn string) error {
	if !IsPostgres(dsn) {
		return fmt.Errorf("down migrations are supported for PostgreSQL only")
	}
	db, err := openGoose(dsn)
	if err != nil {
		return err
	}
	defer db.Close()

	return goose.DownContext(ctx, db, ".")
}

// Status печатает состояние миграций (только PostgreSQL)
func Status(ctx context.Context, dsn string) error {
	if !IsPostgres(dsn) {
		return fmt.Errorf("migration status is supported for PostgreSQL only")
	}
	db, err := openGoose(dsn)
	if err != nil {
		return err
	}
	defer db.Close()

	return goose.StatusContext(ctx, db, ".")
}
