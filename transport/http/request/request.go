package request

import (
	"context"
	"net/http"

	"campus/shared"
	"campus/shared/constant"
	"campus/shared/failure"

	"github.com/go-chi/chi/v5"
)

// Int64Param reads a numeric path parameter. A malformed value is a bad request.
func Int64Param(r *http.Request, key string) (int64, error) {
	value, err := shared.ConvertStringToInt64(chi.URLParam(r, key))
	if err != nil {
		return 0, failure.BadRequestFromString("invalid " + key + " parameter")
	}

	return value, nil
}

func IntParam(r *http.Request, key string) (int, error) {
	value, err := shared.ConvertStringToInt(chi.URLParam(r, key))
	if err != nil {
		return 0, failure.BadRequestFromString("invalid " + key + " parameter")
	}

	return value, nil
}

// UserID returns the authenticated caller or an unauthorized failure.
func UserID(ctx context.Context) (string, error) {
	userID, _ := ctx.Value(constant.ContextKeyUserID).(string)
	if userID == constant.Empty {
		return constant.Empty, failure.Unauthorized("unauthorized")
	}

	return userID, nil
}

func IsAdmin(ctx context.Context) bool {
	role, _ := ctx.Value(constant.ContextKeyUserRole).(string)

	return role == constant.RoleAdmin || role == constant.RoleSuperAdmin
}
