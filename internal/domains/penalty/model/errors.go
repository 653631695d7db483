package model

import (
	"net/http"

	"campus/shared/failure"
)

var (
	ErrUserBanned     = failure.New(http.StatusForbidden, "USER_BANNED", "you are banned from making reservations")
	ErrStrikeNotFound = failure.New(http.StatusNotFound, "STRIKE_NOT_FOUND", "strike not found")
)
