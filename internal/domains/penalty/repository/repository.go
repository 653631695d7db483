package repository

//go:generate go run go.uber.org/mock/mockgen -source=./repository.go -destination=../mocks/repository_mock.go -package=mocks

import (
	"context"
	"time"

	"campus/infras/otel"
	"campus/infras/postgres"
	"campus/internal/domains/penalty/model"
	"campus/shared"
	gDto "campus/shared/dto"
	gRepo "campus/shared/repository"
)

const argNow = "now"

type Strike interface {
	Insert(ctx context.Context, strike model.Strike) (int64, error)
	Get(ctx context.Context, id int64) (model.Strike, error)
	GetAll(ctx context.Context, params gDto.QueryParams, filter gDto.FilterGroup) ([]model.Strike, error)
	Count(ctx context.Context, filter gDto.FilterGroup) (int, error)
	CountActive(ctx context.Context, userID string, at time.Time) (int, error)
	Delete(ctx context.Context, id int64) error
}

type repositoryImpl struct {
	gRepo.Repository[model.Strike]
	db   *postgres.Connection
	otel otel.Otel
}

func New(db *postgres.Connection, otel otel.Otel) Strike {
	return &repositoryImpl{
		Repository: gRepo.NewRepository[model.Strike](model.EntityName, model.TableName, model.FieldID, db, otel),
		db:         db,
		otel:       otel,
	}
}

func (r *repositoryImpl) Insert(ctx context.Context, strike model.Strike) (int64, error) {
	return r.InsertReturning(ctx, strike)
}

func (r *repositoryImpl) Get(ctx context.Context, id int64) (model.Strike, error) {
	return r.Repository.Get(ctx, shared.FilterByID(id, model.FieldID, model.TableName))
}

func (r *repositoryImpl) GetAll(ctx context.Context, params gDto.QueryParams, filter gDto.FilterGroup) ([]model.Strike, error) {
	return r.Repository.GetAll(ctx, params, filter)
}

// CountActive counts the strikes of userID that have not expired at the given instant.
func (r *repositoryImpl) CountActive(ctx context.Context, userID string, at time.Time) (int, error) {
	filter := gDto.FilterGroup{
		Operator: gDto.FilterGroupOperatorAnd,
		Filters: []any{
			gDto.Filter{Field: model.FieldUserID, Value: userID, Operator: gDto.FilterOperatorEq, Table: model.TableName},
			gDto.Filter{ArgName: argNow, Field: model.FieldExpiresAt, Value: at, Operator: gDto.FilterOperatorGreater, Table: model.TableName},
		},
	}

	return r.Count(ctx, filter)
}

func (r *repositoryImpl) Delete(ctx context.Context, id int64) error {
	return r.Repository.Delete(ctx, shared.FilterByID(id, model.FieldID, model.TableName))
}
