package repository

//go:generate go run go.uber.org/mock/mockgen -source=./repository.go -destination=../mocks/repository_mock.go -package=mocks

import (
	"context"
	"fmt"
	"time"

	"campus/infras/otel"
	"campus/infras/postgres"
	"campus/internal/domains/booking/model"
	"campus/shared"
	"campus/shared/constant"
	gDto "campus/shared/dto"
	gRepo "campus/shared/repository"

	"github.com/jmoiron/sqlx"
)

const (
	argWindowStart = "window_start"
	argWindowEnd   = "window_end"
	argRangeStart  = "range_start"
	argRangeEnd    = "range_end"
	argAfter       = "after"
	argBefore      = "before"
)

// Booking is the reservation store. It never checks conflicts on insert; callers run the
// conflict queries and the insert inside one transaction.
type Booking interface {
	InsertTx(ctx context.Context, tx *sqlx.Tx, booking model.Booking) (int64, error)
	Get(ctx context.Context, id int64) (model.Booking, error)
	GetAll(ctx context.Context, params gDto.QueryParams, filter gDto.FilterGroup) ([]model.Booking, error)
	Count(ctx context.Context, filter gDto.FilterGroup) (int, error)
	FindConflicting(ctx context.Context, roomID int64, start, end time.Time) ([]model.Booking, error)
	FindConflictingTx(ctx context.Context, tx *sqlx.Tx, roomID int64, start, end time.Time) ([]model.Booking, error)
	ExistsForUserAtStart(ctx context.Context, userID string, start time.Time) (bool, error)
	ExistsForUserAtStartTx(ctx context.Context, tx *sqlx.Tx, userID string, start time.Time) (bool, error)
	FindByRoomAndDateRange(ctx context.Context, roomID int64, from, to time.Time) ([]model.Booking, error)
	ExistsFutureForRoomTx(ctx context.Context, tx *sqlx.Tx, roomID int64, after time.Time) (bool, error)
	DeleteBefore(ctx context.Context, instant time.Time) (int64, error)
	Delete(ctx context.Context, id int64) error
}

type repositoryImpl struct {
	gRepo.Repository[model.Booking]
	db   *postgres.Connection
	otel otel.Otel
}

func New(db *postgres.Connection, otel otel.Otel) Booking {
	return &repositoryImpl{
		Repository: gRepo.NewRepository[model.Booking](model.EntityName, model.TableName, model.FieldID, db, otel),
		db:         db,
		otel:       otel,
	}
}

func (r *repositoryImpl) InsertTx(ctx context.Context, tx *sqlx.Tx, booking model.Booking) (int64, error) {
	return r.InsertReturningTx(ctx, tx, booking)
}

func (r *repositoryImpl) Get(ctx context.Context, id int64) (model.Booking, error) {
	return r.Repository.Get(ctx, shared.FilterByID(id, model.FieldID, model.TableName))
}

func (r *repositoryImpl) GetAll(ctx context.Context, params gDto.QueryParams, filter gDto.FilterGroup) ([]model.Booking, error) {
	return r.Repository.GetAll(ctx, params, filter)
}

func (r *repositoryImpl) FindConflicting(ctx context.Context, roomID int64, start, end time.Time) ([]model.Booking, error) {
	ctx, scope := r.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".booking.FindConflicting")
	defer scope.End()

	return r.Repository.GetAll(ctx, gDto.QueryParams{}, conflictFilter(roomID, start, end))
}

func (r *repositoryImpl) FindConflictingTx(ctx context.Context, tx *sqlx.Tx, roomID int64, start, end time.Time) ([]model.Booking, error) {
	ctx, scope := r.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".booking.FindConflictingTx")
	defer scope.End()

	return r.GetAllTx(ctx, tx, gDto.QueryParams{}, conflictFilter(roomID, start, end))
}

func (r *repositoryImpl) ExistsForUserAtStart(ctx context.Context, userID string, start time.Time) (bool, error) {
	return r.Exist(ctx, userAtStartFilter(userID, start))
}

func (r *repositoryImpl) ExistsForUserAtStartTx(ctx context.Context, tx *sqlx.Tx, userID string, start time.Time) (bool, error) {
	return r.ExistTx(ctx, tx, userAtStartFilter(userID, start))
}

func (r *repositoryImpl) FindByRoomAndDateRange(ctx context.Context, roomID int64, from, to time.Time) ([]model.Booking, error) {
	ctx, scope := r.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".booking.FindByRoomAndDateRange")
	defer scope.End()

	filter := gDto.FilterGroup{
		Operator: gDto.FilterGroupOperatorAnd,
		Filters: []any{
			gDto.Filter{Field: model.FieldRoomID, Value: roomID, Operator: gDto.FilterOperatorEq, Table: model.TableName},
			gDto.Filter{ArgName: argRangeStart, Field: model.FieldStartAt, Value: from, Operator: gDto.FilterOperatorGreaterEq, Table: model.TableName},
			gDto.Filter{ArgName: argRangeEnd, Field: model.FieldStartAt, Value: to, Operator: gDto.FilterOperatorLess, Table: model.TableName},
		},
	}

	params := gDto.QueryParams{SortBy: fmt.Sprintf("%s.%s", model.TableName, model.FieldStartAt), SortDir: gDto.SortDirAsc}

	return r.Repository.GetAll(ctx, params, filter)
}

func (r *repositoryImpl) ExistsFutureForRoomTx(ctx context.Context, tx *sqlx.Tx, roomID int64, after time.Time) (bool, error) {
	filter := gDto.FilterGroup{
		Operator: gDto.FilterGroupOperatorAnd,
		Filters: []any{
			gDto.Filter{Field: model.FieldRoomID, Value: roomID, Operator: gDto.FilterOperatorEq, Table: model.TableName},
			gDto.Filter{ArgName: argAfter, Field: model.FieldEndAt, Value: after, Operator: gDto.FilterOperatorGreater, Table: model.TableName},
		},
	}

	return r.ExistTx(ctx, tx, filter)
}

// DeleteBefore removes every booking that ended strictly before instant.
func (r *repositoryImpl) DeleteBefore(ctx context.Context, instant time.Time) (int64, error) {
	filter := gDto.FilterGroup{
		Filters: []any{
			gDto.Filter{ArgName: argBefore, Field: model.FieldEndAt, Value: instant, Operator: gDto.FilterOperatorLess, Table: model.TableName},
		},
	}

	return r.Purge(ctx, filter)
}

func (r *repositoryImpl) Delete(ctx context.Context, id int64) error {
	return r.Repository.Delete(ctx, shared.FilterByID(id, model.FieldID, model.TableName))
}

// conflictFilter matches bookings of roomID whose [start_at, end_at) overlaps [start, end).
func conflictFilter(roomID int64, start, end time.Time) gDto.FilterGroup {
	return gDto.FilterGroup{
		Operator: gDto.FilterGroupOperatorAnd,
		Filters: []any{
			gDto.Filter{Field: model.FieldRoomID, Value: roomID, Operator: gDto.FilterOperatorEq, Table: model.TableName},
			gDto.Filter{ArgName: argWindowEnd, Field: model.FieldStartAt, Value: end, Operator: gDto.FilterOperatorLess, Table: model.TableName},
			gDto.Filter{ArgName: argWindowStart, Field: model.FieldEndAt, Value: start, Operator: gDto.FilterOperatorGreater, Table: model.TableName},
		},
	}
}

func userAtStartFilter(userID string, start time.Time) gDto.FilterGroup {
	return gDto.FilterGroup{
		Operator: gDto.FilterGroupOperatorAnd,
		Filters: []any{
			gDto.Filter{Field: model.FieldUserID, Value: userID, Operator: gDto.FilterOperatorEq, Table: model.TableName},
			gDto.Filter{Field: model.FieldStartAt, Value: start, Operator: gDto.FilterOperatorEq, Table: model.TableName},
		},
	}
}
