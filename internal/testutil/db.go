// Package testutil holds helpers shared by package tests.
package testutil

import (
	"io"
	"log/slog"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/uptrace/bun"

	"github.com/redmonkez12/bookdiary-api/internal/database"
	"github.com/redmonkez12/bookdiary-api/internal/logging"
)

// NewMockDB returns a Bun DB backed by sqlmock. Expectations are verified on
// test cleanup.
func NewMockDB(t *testing.T) (*bun.DB, sqlmock.Sqlmock) {
	t.Helper()

	sqlDB, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}

	db := database.NewBunDB(sqlDB)
	t.Cleanup(func() {
		if err := mock.ExpectationsWereMet(); err != nil {
			t.Errorf("unmet sql expectations: %v", err)
		}
		_ = db.Close()
	})

	return db, mock
}

// NoopLogger discards everything.
func NoopLogger() *logging.Logger {
	return logging.New(slog.New(slog.NewTextHandler(io.Discard, nil)))
}
