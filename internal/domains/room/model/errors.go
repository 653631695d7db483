package model

import (
	"net/http"

	"campus/shared/failure"
)

var (
	ErrRoomNotFound          = failure.New(http.StatusNotFound, "ROOM_NOT_FOUND", "room not found")
	ErrRoomInactive          = failure.New(http.StatusConflict, "ROOM_INACTIVE", "room is not accepting reservations")
	ErrRoomHasFutureBookings = failure.New(http.StatusConflict, "ROOM_HAS_FUTURE_BOOKINGS", "room still has upcoming reservations")
)
