package repository

//go:generate go run go.uber.org/mock/mockgen -source=./repository.go -destination=../mocks/repository_mock.go -package=mocks

import (
	"context"

	"campus/infras/otel"
	"campus/infras/postgres"
	"campus/internal/domains/user/model"
	"campus/shared"
	gRepo "campus/shared/repository"
)

type User interface {
	Get(ctx context.Context, id string) (model.User, error)
}

type repositoryImpl struct {
	gRepo.Repository[model.User]
	db   *postgres.Connection
	otel otel.Otel
}

func New(db *postgres.Connection, otel otel.Otel) User {
	return &repositoryImpl{
		Repository: gRepo.NewRepository[model.User](model.EntityName, model.TableName, model.FieldID, db, otel),
		db:         db,
		otel:       otel,
	}
}

func (r *repositoryImpl) Get(ctx context.Context, id string) (model.User, error) {
	return r.Repository.Get(ctx, shared.FilterByID(id, model.FieldID, model.TableName))
}
