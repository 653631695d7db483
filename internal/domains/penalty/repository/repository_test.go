package repository_test

import (
	"context"
	"testing"
	"time"

	"campus/infras/otel/mocks"
	"campus/infras/postgres"
	"campus/internal/domains/penalty/model"
	"campus/internal/domains/penalty/repository"
	gModel "campus/shared/model"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRepository(t *testing.T) (repository.Strike, sqlmock.Sqlmock) {
	t.Helper()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)

	sqlxDB := sqlx.NewDb(db, "postgres")

	t.Cleanup(func() {
		assert.NoError(t, mock.ExpectationsWereMet())
		sqlxDB.Close()
	})

	return repository.New(&postgres.Connection{Read: sqlxDB, Write: sqlxDB}, mocks.NewOtel()), mock
}

func TestCountActive(t *testing.T) {
	repo, mock := newRepository(t)
	at := time.Date(2025, 3, 10, 9, 30, 0, 0, time.UTC)

	mock.ExpectPrepare(`SELECT COUNT\(strikes\.id\) FROM strikes\s+WHERE \(strikes\.user_id = \$1 AND strikes\.expires_at > \$2\)`).
		ExpectQuery().
		WithArgs("alice", at).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(2))

	count, err := repo.CountActive(context.Background(), "alice", at)
	require.NoError(t, err)
	assert.Equal(t, 2, count)
}

func TestInsert(t *testing.T) {
	repo, mock := newRepository(t)
	at := time.Date(2025, 3, 10, 9, 30, 0, 0, time.UTC)
	expires := at.AddDate(0, 0, 30)

	mock.ExpectPrepare(`INSERT INTO strikes \(user_id, reason, expires_at, created_at, modified_at, created_by, modified_by\) VALUES \(\$1, \$2, \$3, \$4, \$5, \$6, \$7\) RETURNING id`).
		ExpectQuery().
		WithArgs("alice", "no show", expires, at, at, "admin", "admin").
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(9)))

	id, err := repo.Insert(context.Background(), model.Strike{
		UserID:    "alice",
		Reason:    "no show",
		ExpiresAt: expires,
		Metadata:  gModel.NewMetadata("admin", at),
	})
	require.NoError(t, err)
	assert.Equal(t, int64(9), id)
}

func TestDelete(t *testing.T) {
	repo, mock := newRepository(t)

	mock.ExpectExec(`DELETE FROM strikes\s+WHERE \(strikes\.id = \$1\)`).
		WithArgs(int64(9)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.Delete(context.Background(), 9))
}
