package model

import (
	"net/http"

	"campus/shared/failure"
)

var ErrUserNotFound = failure.New(http.StatusNotFound, "USER_NOT_FOUND", "user not found")
