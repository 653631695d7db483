package dto

import (
	"net/http"
	"slices"
	"strconv"
	"strings"

	"campus/shared/constant"
)

const (
	SortDirAsc  = "ASC"
	SortDirDesc = "DESC"
)

type QueryParams struct {
	Page    int    `json:"page"     validate:"omitempty"`
	Limit   int    `json:"limit"    validate:"omitempty"`
	SortBy  string `json:"sort_by"  validate:"omitempty"`
	SortDir string `json:"sort_dir" validate:"omitempty,oneof=ASC DESC"`
}

// FromRequest reads page, limit, sort_by and sort_dir from the query string. Malformed or
// non-positive numbers are ignored. withDefaults fills page and limit when absent so the
// listing is always paginated.
func (q *QueryParams) FromRequest(r *http.Request, withDefaults bool) {
	values := r.URL.Query()

	if page, ok := positiveInt(values.Get(constant.RequestParamPage)); ok {
		q.Page = page
	}

	if limit, ok := positiveInt(values.Get(constant.RequestParamLimit)); ok {
		q.Limit = limit
	}

	if sortBy := values.Get(constant.RequestParamSortBy); sortBy != constant.Empty {
		q.SortBy = sortBy
	}

	if dir := strings.ToUpper(values.Get(constant.RequestParamSortDir)); dir == SortDirAsc || dir == SortDirDesc {
		q.SortDir = dir
	}

	if !withDefaults {
		return
	}

	if q.Page == 0 {
		q.Page = constant.DefaultValuePage
	}

	if q.Limit == 0 {
		q.Limit = constant.DefaultValueLimit
	}
}

func positiveInt(raw string) (int, bool) {
	n, err := strconv.Atoi(raw)
	if err != nil || n <= 0 {
		return 0, false
	}

	return n, true
}

// Sanitize restricts SortBy to the allowed columns and qualifies it with table so it can be
// placed in an ORDER BY clause. Anything else falls back to created_at.
func (q *QueryParams) Sanitize(table string, allowed ...string) {
	if !slices.Contains(allowed, q.SortBy) {
		q.SortBy = constant.DefaultValueSortBy
	}

	if q.SortDir == constant.Empty {
		q.SortDir = constant.DefaultValueSortDir
	}

	q.SortBy = table + "." + q.SortBy
}
