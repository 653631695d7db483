package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"maps"
	"reflect"
	"slices"
	"strings"

	"campus/infras/otel"
	"campus/infras/postgres"
	"campus/shared/constant"
	"campus/shared/dto"
	"campus/shared/logger"

	"github.com/jmoiron/sqlx"
)

const lockForUpdate = "FOR UPDATE"

var (
	errRequiredFilter = errors.New("required filter")
)

type column struct {
	name  string
	table string
	alias string
}

func (c column) selector() string {
	switch {
	case c.table == "":
		return c.name
	case c.alias != "":
		return fmt.Sprintf("%s.%s AS %s", c.table, c.name, c.alias)
	default:
		return c.table + "." + c.name
	}
}

type execer interface {
	NamedExecContext(ctx context.Context, query string, arg any) (sql.Result, error)
}

// preparer is satisfied by both *sqlx.DB and *sqlx.Tx.
type preparer interface {
	PrepareNamedContext(ctx context.Context, query string) (*sqlx.NamedStmt, error)
}

// Repository is the shared CRUD layer for one table. Every query uses named parameters
// and runs on the read pool unless a transaction or a write is involved.
type Repository[T any] struct {
	db            *postgres.Connection
	otel          otel.Otel
	table         string
	entitas       string
	primaryColumn string
	columns       []column
	join          string
	insertColumns []string
}

// NewRepository builds the column list from the `db` tags of T. Fields tagged
// `table:"other"` are selected from a joined table and `generated:"true"` columns are
// left to the database on insert. A GetJoinQuery method on T supplies the JOIN clause.
func NewRepository[T any](entitasName, tableName, primaryColumn string, dbConnection *postgres.Connection, otl otel.Otel) Repository[T] {
	var zero T

	columns, insertColumns := getColumns(tableName, reflect.TypeOf(zero))

	join := ""
	if joiner, ok := any(zero).(interface{ GetJoinQuery() string }); ok {
		join = joiner.GetJoinQuery()
	}

	return Repository[T]{
		db:            dbConnection,
		otel:          otl,
		table:         tableName,
		entitas:       entitasName,
		primaryColumn: primaryColumn,
		columns:       columns,
		join:          join,
		insertColumns: insertColumns,
	}
}

func (repo *Repository[T]) scope(ctx context.Context, operation string) (context.Context, otel.Scope) {
	return repo.otel.NewScope(ctx, constant.OtelRepositoryScopeName,
		fmt.Sprintf("%s.%s.%s", constant.OtelRepositoryScopeName, repo.entitas, operation))
}

// run prepares query on prep, hands the statement to fn and records any failure on scope.
func (repo *Repository[T]) run(ctx context.Context, scope otel.Scope, prep preparer, query, action string, fn func(*sqlx.NamedStmt) error) error {
	scope.SetAttribute(constant.OtelQueryAttributeKey, query)

	stmt, err := prep.PrepareNamedContext(ctx, query)
	if err != nil {
		logger.ErrorWithStack(err)
		scope.TraceError(err)

		return fmt.Errorf("failed to prepare statement (%s): %w", repo.entitas, err)
	}
	defer stmt.Close()

	if err = fn(stmt); err != nil {
		logger.ErrorWithStack(err)
		scope.TraceError(err)

		return fmt.Errorf("failed to %s (%s): %w", action, repo.entitas, err)
	}

	return nil
}

func (repo *Repository[T]) insertReturning(ctx context.Context, prep preparer, model T, operation string) (int64, error) {
	ctx, scope := repo.scope(ctx, operation)
	defer scope.End()

	placeholders := make([]string, len(repo.insertColumns))
	for i, col := range repo.insertColumns {
		placeholders[i] = ":" + col
	}

	query := fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s) RETURNING %s",
		repo.table, strings.Join(repo.insertColumns, ", "), strings.Join(placeholders, ", "), repo.primaryColumn)

	var id int64

	err := repo.run(ctx, scope, prep, query, "insert data", func(stmt *sqlx.NamedStmt) error {
		return stmt.GetContext(ctx, &id, model)
	})

	return id, err
}

// InsertReturning inserts model and returns the generated primary key.
func (repo *Repository[T]) InsertReturning(ctx context.Context, model T) (int64, error) {
	return repo.insertReturning(ctx, repo.db.Write, model, "InsertReturning")
}

func (repo *Repository[T]) InsertReturningTx(ctx context.Context, sqltx *sqlx.Tx, model T) (int64, error) {
	return repo.insertReturning(ctx, sqltx, model, "InsertReturningTx")
}

func (repo *Repository[T]) exist(ctx context.Context, prep preparer, filter dto.FilterGroup, operation string) (bool, error) {
	ctx, scope := repo.scope(ctx, operation)
	defer scope.End()

	where, args := repo.whereClause(filter)
	if where == "" {
		return false, errRequiredFilter
	}

	query := fmt.Sprintf("SELECT EXISTS(SELECT 1 FROM %s %s)", repo.table, where)

	var exist bool

	err := repo.run(ctx, scope, prep, query, "check exist data", func(stmt *sqlx.NamedStmt) error {
		return stmt.GetContext(ctx, &exist, args)
	})

	return exist, err
}

func (repo *Repository[T]) Exist(ctx context.Context, filter dto.FilterGroup) (bool, error) {
	return repo.exist(ctx, repo.db.Read, filter, "Exist")
}

// ExistTx runs the check inside sqltx so it observes rows locked or written by the transaction.
func (repo *Repository[T]) ExistTx(ctx context.Context, sqltx *sqlx.Tx, filter dto.FilterGroup) (bool, error) {
	return repo.exist(ctx, sqltx, filter, "ExistTx")
}

func (repo *Repository[T]) get(ctx context.Context, prep preparer, filter dto.FilterGroup, lock, operation string, columns ...string) (T, error) {
	ctx, scope := repo.scope(ctx, operation)
	defer scope.End()

	where, args := repo.whereClause(filter)
	query := fmt.Sprintf("SELECT %s FROM %s %s %s %s", repo.selectList(columns), repo.table, repo.join, where, lock)

	var model T

	err := repo.run(ctx, scope, prep, query, "get data", func(stmt *sqlx.NamedStmt) error {
		if err := stmt.GetContext(ctx, &model, args); !errors.Is(err, sql.ErrNoRows) {
			return err //nolint:wrapcheck
		}

		return nil
	})

	return model, err
}

// Get returns the zero value of T when no row matches.
func (repo *Repository[T]) Get(ctx context.Context, filter dto.FilterGroup, columns ...string) (T, error) {
	return repo.get(ctx, repo.db.Read, filter, "", "Get", columns...)
}

// GetForUpdateTx reads the matching row and holds a row lock on it until sqltx ends.
func (repo *Repository[T]) GetForUpdateTx(ctx context.Context, sqltx *sqlx.Tx, filter dto.FilterGroup, columns ...string) (T, error) {
	return repo.get(ctx, sqltx, filter, lockForUpdate, "GetForUpdateTx", columns...)
}

func (repo *Repository[T]) getAll(ctx context.Context, prep preparer, params dto.QueryParams, filter dto.FilterGroup, operation string, columns ...string) ([]T, error) {
	ctx, scope := repo.scope(ctx, operation)
	defer scope.End()

	where, args := repo.whereClause(filter)

	var ordering, pagination string

	switch {
	case params.Page > 0 && params.Limit > 0:
		args["limit"] = params.Limit
		args["offset"] = (params.Page - 1) * params.Limit
		pagination = "LIMIT :limit OFFSET :offset"
	case params.Limit > 0:
		args["limit"] = params.Limit
		pagination = "LIMIT :limit"
	}

	if params.SortBy != "" && params.SortDir != "" {
		ordering = fmt.Sprintf("ORDER BY %s %s", params.SortBy, params.SortDir)
	}

	query := fmt.Sprintf("SELECT %s FROM %s %s %s %s %s", repo.selectList(columns), repo.table, repo.join, where, ordering, pagination)

	var models []T

	err := repo.run(ctx, scope, prep, query, "get all data", func(stmt *sqlx.NamedStmt) error {
		return stmt.SelectContext(ctx, &models, args)
	})

	return models, err
}

func (repo *Repository[T]) GetAll(ctx context.Context, params dto.QueryParams, filter dto.FilterGroup, columns ...string) ([]T, error) {
	return repo.getAll(ctx, repo.db.Read, params, filter, "GetAll", columns...)
}

func (repo *Repository[T]) GetAllTx(ctx context.Context, sqltx *sqlx.Tx, params dto.QueryParams, filter dto.FilterGroup, columns ...string) ([]T, error) {
	return repo.getAll(ctx, sqltx, params, filter, "GetAllTx", columns...)
}

func (repo *Repository[T]) Count(ctx context.Context, filter dto.FilterGroup) (int, error) {
	ctx, scope := repo.scope(ctx, "Count")
	defer scope.End()

	where, args := repo.whereClause(filter)
	query := fmt.Sprintf("SELECT COUNT(%s.%s) FROM %s %s %s", repo.table, repo.primaryColumn, repo.table, repo.join, where)

	var count int

	err := repo.run(ctx, scope, repo.db.Read, query, "count data", func(stmt *sqlx.NamedStmt) error {
		return stmt.GetContext(ctx, &count, args)
	})

	return count, err
}

// exec runs a statement that requires a filter and returns the affected row count.
func (repo *Repository[T]) exec(ctx context.Context, exec execer, operation, action, query string, args map[string]any) (int64, error) {
	ctx, scope := repo.scope(ctx, operation)
	defer scope.End()

	scope.SetAttribute(constant.OtelQueryAttributeKey, query)

	result, err := exec.NamedExecContext(ctx, query, args)
	if err != nil {
		logger.ErrorWithStack(err)
		scope.TraceError(err)

		return 0, fmt.Errorf("failed to %s (%s): %w", action, repo.entitas, err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to read affected rows (%s): %w", repo.entitas, err)
	}

	return affected, nil
}

func (repo *Repository[T]) deleteWhere(ctx context.Context, filter dto.FilterGroup, operation string) (int64, error) {
	where, args := repo.whereClause(filter)
	if where == "" {
		return 0, errRequiredFilter
	}

	return repo.exec(ctx, repo.db.Write, operation, "delete data", fmt.Sprintf("DELETE FROM %s %s", repo.table, where), args)
}

func (repo *Repository[T]) Delete(ctx context.Context, filter dto.FilterGroup) error {
	_, err := repo.deleteWhere(ctx, filter, "Delete")

	return err
}

// Purge deletes every matching row and reports how many were removed.
func (repo *Repository[T]) Purge(ctx context.Context, filter dto.FilterGroup) (int64, error) {
	return repo.deleteWhere(ctx, filter, "Purge")
}

// UpdateTx sets the columns in fields on every row matching filter. Columns are written
// in name order.
func (repo *Repository[T]) UpdateTx(ctx context.Context, sqltx *sqlx.Tx, fields map[string]any, filter dto.FilterGroup) error {
	where, args := repo.whereClause(filter)
	if where == "" {
		return errRequiredFilter
	}

	assignments := make([]string, 0, len(fields))
	for _, col := range slices.Sorted(maps.Keys(fields)) {
		assignments = append(assignments, fmt.Sprintf("%s = :%s", col, col))
	}

	maps.Copy(args, fields)

	query := fmt.Sprintf("UPDATE %s SET %s %s", repo.table, strings.Join(assignments, ", "), where)
	_, err := repo.exec(ctx, sqltx, "UpdateTx", "update data", query, args)

	return err
}

// selectList renders the projection, restricted to wanted when given.
func (repo *Repository[T]) selectList(wanted []string) string {
	selectors := make([]string, 0, len(repo.columns))

	for _, col := range repo.columns {
		if len(wanted) > 0 && !slices.Contains(wanted, col.name) {
			continue
		}

		selectors = append(selectors, col.selector())
	}

	return strings.Join(selectors, ", ")
}

func (repo *Repository[T]) whereClause(filter dto.FilterGroup) (string, map[string]any) {
	where, args := filter.GetWhereClause()
	if where == "" {
		return "", map[string]any{}
	}

	return fmt.Sprintf(" WHERE %s ", where), args
}

func getColumns(table string, reflectType reflect.Type) (columns []column, insertColumns []string) {
	for i := range reflectType.NumField() {
		field := reflectType.Field(i)

		if field.Anonymous && field.Type.Kind() == reflect.Struct {
			embedded, embeddedInsert := getColumns(table, field.Type)
			columns = append(columns, embedded...)
			insertColumns = append(insertColumns, embeddedInsert...)
		}

		dbTag := field.Tag.Get("db")
		if dbTag == "" || dbTag == "-" {
			continue
		}

		source := field.Tag.Get("table")
		if source == "" {
			source = table
		}

		if source == table && field.Tag.Get("generated") != "true" {
			insertColumns = append(insertColumns, dbTag)
		}

		if name := field.Tag.Get("column"); name != "" {
			columns = append(columns, column{name: name, table: source, alias: dbTag})
		} else {
			columns = append(columns, column{name: dbTag, table: source})
		}
	}

	return columns, insertColumns
}
