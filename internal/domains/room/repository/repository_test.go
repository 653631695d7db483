package repository_test

import (
	"context"
	"testing"
	"time"

	"campus/infras/otel/mocks"
	"campus/infras/postgres"
	"campus/internal/domains/room/model"
	"campus/internal/domains/room/repository"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var roomColumns = []string{"id", "name", "type", "location", "capacity", "image", "active", "created_at", "modified_at", "created_by", "modified_by"}

func newRepository(t *testing.T) (repository.Room, *sqlx.DB, sqlmock.Sqlmock) {
	t.Helper()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)

	sqlxDB := sqlx.NewDb(db, "postgres")

	t.Cleanup(func() {
		assert.NoError(t, mock.ExpectationsWereMet())
		sqlxDB.Close()
	})

	return repository.New(&postgres.Connection{Read: sqlxDB, Write: sqlxDB}, mocks.NewOtel()), sqlxDB, mock
}

func TestGetForUpdateTx(t *testing.T) {
	repo, db, mock := newRepository(t)
	at := time.Date(2025, 3, 10, 9, 30, 0, 0, time.UTC)

	mock.ExpectBegin()
	mock.ExpectPrepare(`SELECT rooms\.id, rooms\.name, .+ FROM rooms\s+WHERE \(rooms\.id = \$1\)\s+FOR UPDATE`).
		ExpectQuery().
		WithArgs(int64(5)).
		WillReturnRows(sqlmock.NewRows(roomColumns).
			AddRow(int64(5), "Room 5", "CLASSROOM", "Building 1", 30, "", true, at, at, "admin", "admin"))
	mock.ExpectCommit()

	tx, err := db.Beginx()
	require.NoError(t, err)

	room, err := repo.GetForUpdateTx(context.Background(), tx, 5)
	require.NoError(t, err)
	require.NoError(t, tx.Commit())

	assert.Equal(t, int64(5), room.ID)
	assert.Equal(t, model.RoomTypeClassroom, room.Type)
	assert.True(t, room.Active)
}

func TestGet_Missing(t *testing.T) {
	repo, _, mock := newRepository(t)

	mock.ExpectPrepare(`SELECT .+ FROM rooms\s+WHERE \(rooms\.id = \$1\)`).
		ExpectQuery().
		WithArgs(int64(9)).
		WillReturnRows(sqlmock.NewRows(roomColumns))

	room, err := repo.Get(context.Background(), 9)
	require.NoError(t, err)
	assert.Zero(t, room.ID)
}

func TestSetActiveTx(t *testing.T) {
	repo, db, mock := newRepository(t)
	at := time.Date(2025, 3, 10, 9, 30, 0, 0, time.UTC)

	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE rooms SET active = \$1, modified_at = \$2, modified_by = \$3\s+WHERE \(rooms\.id = \$4\)`).
		WithArgs(false, at, "admin", int64(5)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	tx, err := db.Beginx()
	require.NoError(t, err)

	require.NoError(t, repo.SetActiveTx(context.Background(), tx, 5, false, "admin", at))
	require.NoError(t, tx.Commit())
}
