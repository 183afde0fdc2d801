package postgres

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gamecatalog/internal/domain"
)

func newMockDB(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock) {
	t.Helper()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	return sqlx.NewDb(db, "postgres"), mock
}

func TestMigrate_AppliesPendingMigrations(t *testing.T) {
	db, mock := newMockDB(t)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	mock.ExpectExec(regexp.QuoteMeta("CREATE TABLE IF NOT EXISTS schema_migrations")).
		WillReturnResult(sqlmock.NewResult(0, 0))

	mock.ExpectQuery(regexp.QuoteMeta("SELECT EXISTS")).
		WithArgs("001_create_games").
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(false))
	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("CREATE TABLE IF NOT EXISTS games")).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO schema_migrations")).
		WithArgs("001_create_games").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	mock.ExpectQuery(regexp.QuoteMeta("SELECT EXISTS")).
		WithArgs("002_create_population_runs").
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))

	mock.ExpectQuery(regexp.QuoteMeta("SELECT EXISTS")).
		WithArgs("003_check_games_platform").
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(false))
	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("ADD CONSTRAINT games_platform_check")).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO schema_migrations")).
		WithArgs("003_check_games_platform").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	err := Migrate(context.Background(), db, logger)

	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMigrate_RollsBackFailedMigration(t *testing.T) {
	db, mock := newMockDB(t)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	mock.ExpectExec(regexp.QuoteMeta("CREATE TABLE IF NOT EXISTS schema_migrations")).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT EXISTS")).
		WithArgs("001_create_games").
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(false))
	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("CREATE TABLE IF NOT EXISTS games")).
		WillReturnError(errors.New("permission denied"))
	mock.ExpectRollback()

	err := Migrate(context.Background(), db, logger)

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "apply migration 001_create_games")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRunStore_Record(t *testing.T) {
	db, mock := newMockDB(t)
	store := NewRunStore(db)
	msg := "fetch android listings: unexpected status: 500"

	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO population_runs")).
		WithArgs("failed", 0, int64(12), msg, sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(9)))

	run := &domain.PopulationRun{
		Status:     domain.RunFailed,
		DurationMs: 12,
		Error:      &msg,
		StartedAt:  time.Now(),
	}
	err := store.Record(context.Background(), run)

	assert.NoError(t, err)
	assert.Equal(t, int64(9), run.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}
