// Package storage opens bun database handles for the persistence layer.
package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	_ "github.com/mattn/go-sqlite3"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/dialect/sqlitedialect"
)

var (
	ErrDSNRequired   = errors.New("storage: dsn is required")
	ErrDriverUnknown = errors.New("storage: driver is unknown")
)

// Open connects to the configured database and wraps it in a bun.DB with
// the matching dialect. The sqlite3 driver is registered by this package;
// a postgres driver must be registered by the host application before
// calling Open with driver "postgres".
func Open(driver, dsn string) (*bun.DB, error) {
	if strings.TrimSpace(dsn) == "" {
		return nil, ErrDSNRequired
	}

	switch strings.ToLower(strings.TrimSpace(driver)) {
	case "", "sqlite3":
		sqldb, err := sql.Open("sqlite3", dsn)
		if err != nil {
			return nil, fmt.Errorf("storage: open sqlite: %w", err)
		}
		return bun.NewDB(sqldb, sqlitedialect.New()), nil
	case "postgres":
		sqldb, err := sql.Open("postgres", dsn)
		if err != nil {
			return nil, fmt.Errorf("storage: open postgres: %w", err)
		}
		return bun.NewDB(sqldb, pgdialect.New()), nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrDriverUnknown, driver)
	}
}

// MigrateModels creates tables for the given bun models when they do not
// exist. Hosts with their own migration tooling can skip it.
func MigrateModels(ctx context.Context, db *bun.DB, models ...any) error {
	for _, model := range models {
		if _, err := db.NewCreateTable().Model(model).IfNotExists().Exec(ctx); err != nil {
			return fmt.Errorf("storage: create table for %T: %w", model, err)
		}
	}
	return nil
}
