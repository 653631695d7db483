package repository

//go:generate go run go.uber.org/mock/mockgen -source=./repository.go -destination=../mocks/repository_mock.go -package=mocks

import (
	"context"
	"time"

	"campus/infras/otel"
	"campus/infras/postgres"
	"campus/internal/domains/room/model"
	"campus/shared"
	"campus/shared/constant"
	gDto "campus/shared/dto"
	gRepo "campus/shared/repository"

	"github.com/jmoiron/sqlx"
)

type Room interface {
	Insert(ctx context.Context, room model.Room) (int64, error)
	Get(ctx context.Context, id int64) (model.Room, error)
	GetForUpdateTx(ctx context.Context, tx *sqlx.Tx, id int64) (model.Room, error)
	GetAll(ctx context.Context, params gDto.QueryParams, filter gDto.FilterGroup) ([]model.Room, error)
	Count(ctx context.Context, filter gDto.FilterGroup) (int, error)
	SetActiveTx(ctx context.Context, tx *sqlx.Tx, id int64, active bool, user string, at time.Time) error
}

type repositoryImpl struct {
	gRepo.Repository[model.Room]
	db   *postgres.Connection
	otel otel.Otel
}

func New(db *postgres.Connection, otel otel.Otel) Room {
	return &repositoryImpl{
		Repository: gRepo.NewRepository[model.Room](model.EntityName, model.TableName, model.FieldID, db, otel),
		db:         db,
		otel:       otel,
	}
}

func (r *repositoryImpl) Insert(ctx context.Context, room model.Room) (int64, error) {
	return r.InsertReturning(ctx, room)
}

func (r *repositoryImpl) Get(ctx context.Context, id int64) (model.Room, error) {
	return r.Repository.Get(ctx, shared.FilterByID(id, model.FieldID, model.TableName))
}

// GetForUpdateTx reads the room and holds its row lock until tx ends. Every write that must
// not interleave with a reservation on the same room goes through this lock.
func (r *repositoryImpl) GetForUpdateTx(ctx context.Context, tx *sqlx.Tx, id int64) (model.Room, error) {
	return r.Repository.GetForUpdateTx(ctx, tx, shared.FilterByID(id, model.FieldID, model.TableName))
}

func (r *repositoryImpl) GetAll(ctx context.Context, params gDto.QueryParams, filter gDto.FilterGroup) ([]model.Room, error) {
	return r.Repository.GetAll(ctx, params, filter)
}

func (r *repositoryImpl) SetActiveTx(ctx context.Context, tx *sqlx.Tx, id int64, active bool, user string, at time.Time) error {
	ctx, scope := r.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".room.SetActiveTx")
	defer scope.End()

	fields := map[string]any{
		model.FieldActive:        active,
		constant.FieldModifiedAt: at,
		constant.FieldModifiedBy: user,
	}

	return r.UpdateTx(ctx, tx, fields, shared.FilterByID(id, model.FieldID, model.TableName))
}
