package dto

import (
	"fmt"
	"maps"
	"reflect"
	"strings"
)

const (
	FilterOperatorEq        = "eq"
	FilterOperatorNotEq     = "not_eq"
	FilterOperatorLess      = "less"
	FilterOperatorLessEq    = "less_eq"
	FilterOperatorGreater   = "greater"
	FilterOperatorGreaterEq = "greater_eq"
	FilterOperatorLike      = "like"
	FilterOperatorIn        = "in"
)

const (
	FilterGroupOperatorAnd = "AND"
	FilterGroupOperatorOr  = "OR"
)

var comparisons = map[string]string{
	FilterOperatorEq:        "=",
	FilterOperatorNotEq:     "!=",
	FilterOperatorLess:      "<",
	FilterOperatorLessEq:    "<=",
	FilterOperatorGreater:   ">",
	FilterOperatorGreaterEq: ">=",
}

// Filter is one named-parameter predicate. ArgName defaults to Field and must be set
// when the same column appears twice in a group, as in a time window.
type Filter struct {
	ArgName  string
	Field    string
	Value    any
	Operator string `validate:"required,oneof=eq not_eq less less_eq greater greater_eq like in"`
	Table    string
}

func (f *Filter) column() string {
	if f.Table == "" {
		return f.Field
	}

	return f.Table + "." + f.Field
}

func (f *Filter) arg() string {
	if f.ArgName == "" {
		return f.Field
	}

	return f.ArgName
}

// GetWhereClause renders the predicate for sqlx.Named. Unknown operators render nothing.
func (f *Filter) GetWhereClause() (string, map[string]any) {
	column, arg := f.column(), f.arg()

	if sign, ok := comparisons[f.Operator]; ok {
		return fmt.Sprintf("%s %s :%s", column, sign, arg), map[string]any{arg: f.Value}
	}

	switch f.Operator {
	case FilterOperatorLike:
		return fmt.Sprintf("LOWER(%s) LIKE LOWER(:%s) ", column, arg), map[string]any{arg: fmt.Sprintf("%%%v%%", f.Value)}
	case FilterOperatorIn:
		return f.inClause(column, arg)
	default:
		return "", map[string]any{}
	}
}

// inClause expands a slice into one placeholder per element. An empty slice matches nothing.
func (f *Filter) inClause(column, arg string) (string, map[string]any) {
	args := map[string]any{}

	values := reflect.ValueOf(f.Value)
	if values.Kind() != reflect.Slice && values.Kind() != reflect.Array {
		args[arg] = f.Value

		return fmt.Sprintf("%s IN (:%s) ", column, arg), args
	}

	if values.Len() == 0 {
		return "FALSE", args
	}

	placeholders := make([]string, values.Len())

	for idx := range values.Len() {
		name := fmt.Sprintf("%s_%d", arg, idx)
		args[name] = values.Index(idx).Interface()
		placeholders[idx] = ":" + name
	}

	return fmt.Sprintf("%s IN (%s) ", column, strings.Join(placeholders, ", ")), args
}

// FilterGroup joins Filters and nested FilterGroups with Operator.
type FilterGroup struct {
	Filters  []any
	Operator string
}

func (f *FilterGroup) GetWhereClause() (string, map[string]any) {
	args := map[string]any{}
	clauses := make([]string, 0, len(f.Filters))

	collect := func(where string, arg map[string]any) {
		if where == "" {
			return
		}

		clauses = append(clauses, where)
		maps.Copy(args, arg)
	}

	for _, item := range f.Filters {
		switch typed := item.(type) {
		case Filter:
			collect(typed.GetWhereClause())
		case FilterGroup:
			collect(typed.GetWhereClause())
		}
	}

	if len(clauses) == 0 {
		return "", args
	}

	return "(" + strings.Join(clauses, " "+f.Operator+" ") + ")", args
}
