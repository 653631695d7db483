package model

import (
	"net/http"

	"campus/shared/failure"
)

var (
	ErrInvalidSlot     = failure.New(http.StatusBadRequest, "INVALID_SLOT", "slot index is out of range")
	ErrBookingNotFound = failure.New(http.StatusNotFound, "BOOKING_NOT_FOUND", "booking not found")
	ErrDoubleBooking   = failure.New(http.StatusConflict, "DOUBLE_BOOKING", "you already hold a room at this time")
	ErrSlotTaken       = failure.New(http.StatusConflict, "SLOT_TAKEN", "this slot is already reserved")
	ErrForbidden       = failure.New(http.StatusForbidden, "FORBIDDEN", "only the owner or an administrator can cancel this booking")
)
