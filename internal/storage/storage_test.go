package storage

import (
	"context"
	"errors"
	"testing"

	"github.com/goliatone/go-content-blocks/documents"
)

func TestOpenSQLite(t *testing.T) {
	db, err := Open("sqlite3", "file:storage_open_test?mode=memory&cache=shared")
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	defer db.Close()

	if err := MigrateModels(context.Background(), db,
		(*documents.Document)(nil), (*documents.Edition)(nil)); err != nil {
		t.Fatalf("MigrateModels() error = %v", err)
	}

	var count int
	if err := db.NewSelect().Model((*documents.Document)(nil)).ColumnExpr("count(*)").Scan(context.Background(), &count); err != nil {
		t.Fatalf("count documents: %v", err)
	}
	if count != 0 {
		t.Fatalf("expected empty table, got %d rows", count)
	}
}

func TestOpenRejectsEmptyDSN(t *testing.T) {
	if _, err := Open("sqlite3", ""); !errors.Is(err, ErrDSNRequired) {
		t.Fatalf("Open() error = %v, want ErrDSNRequired", err)
	}
}

func TestOpenRejectsUnknownDriver(t *testing.T) {
	if _, err := Open("oracle", "dsn"); !errors.Is(err, ErrDriverUnknown) {
		t.Fatalf("Open() error = %v, want ErrDriverUnknown", err)
	}
}
