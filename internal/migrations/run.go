// Package migrations применяет схему журнала (users, installations,
// historical_reports) через golang-migrate.
package migrations

import (
	"database/sql"
	"errors"
	"fmt"
	"os"

	"github.com/golang-migrate/migrate/v4"
	pgxv5 "github.com/golang-migrate/migrate/v4/database/pgx/v5"
	_ "github.com/golang-migrate/migrate/v4/source/file"
)

// ErrDirty означает, что предыдущая миграция оборвалась и схему нужно чинить вручную.
var ErrDirty = errors.New("schema is dirty")

// Run доводит схему до последней версии из каталога path и возвращает её номер.
// Повторный запуск на актуальной схеме не является ошибкой.
func Run(db *sql.DB, path string) (uint, error) {
	const op = "migrations.Run"
	if _, err := os.Stat(path); err != nil {
		return 0, fmt.Errorf("%s: migrations dir: %w", op, err)
	}

	driver, err := pgxv5.WithInstance(db, &pgxv5.Config{})
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	m, err := migrate.NewWithDatabaseInstance("file://"+path, "pgx_v5", driver)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return 0, fmt.Errorf("%s: %w", op, err)
	}

	version, dirty, err := m.Version()
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	if dirty {
		return version, fmt.Errorf("%s: version %d: %w", op, version, ErrDirty)
	}
	return version, nil
}
