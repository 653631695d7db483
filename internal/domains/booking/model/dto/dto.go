package dto

import (
	"time"

	"campus/internal/domains/booking/model"
	"campus/internal/domains/booking/slot"
	roomModel "campus/internal/domains/room/model"
	"campus/shared"
	"campus/shared/constant"
	"campus/shared/timezone"
)

// CreateBookingRequest carries no slot validation tag: the slot range is configuration and is
// checked by the resolver so the caller gets INVALID_SLOT rather than a generic 400.
type CreateBookingRequest struct {
	RoomID int64 `json:"room_id" validate:"required,gt=0"`
	Slot   int   `json:"slot"`
}

func (c *CreateBookingRequest) ToModel(user string, window slot.Window, at time.Time) model.Booking {
	return model.Booking{
		RoomID:    c.RoomID,
		UserID:    user,
		StartAt:   window.Start,
		EndAt:     window.End,
		CreatedAt: at,
	}
}

type BookingResponse struct {
	ID          int64  `json:"id"`
	RoomID      int64  `json:"room_id"`
	UserID      string `json:"user_id"`
	Username    string `json:"username"`
	DisplayName string `json:"display_name"`
	Slot        int    `json:"slot"`
	StartAt     string `json:"start_at"`
	EndAt       string `json:"end_at"`
	CreatedAt   string `json:"created_at"`
}

func (r *BookingResponse) FromModel(model model.Booking, slotIndex int) {
	r.ID = model.ID
	r.RoomID = model.RoomID
	r.UserID = model.UserID
	r.Username = model.Username
	r.DisplayName = model.DisplayName
	r.Slot = slotIndex
	r.StartAt = timezone.Format(model.StartAt, constant.DateFormat)
	r.EndAt = timezone.Format(model.EndAt, constant.DateFormat)
	r.CreatedAt = timezone.Format(model.CreatedAt, constant.DateFormat)
}

type GetBookingsResponse struct {
	Bookings  []BookingResponse `json:"bookings"`
	TotalPage int               `json:"total_page"`
	TotalData int               `json:"total_data"`
}

func (r *GetBookingsResponse) FromModels(models []model.Booking, totalData, limit int, indexOf func(time.Time) int) {
	r.TotalData = totalData
	r.TotalPage = shared.CalculateTotalPage(totalData, limit)

	r.Bookings = make([]BookingResponse, len(models))
	for i, mod := range models {
		r.Bookings[i].FromModel(mod, indexOf(mod.StartAt))
	}
}

type RoomSummary struct {
	ID       int64              `json:"id"`
	Name     string             `json:"name"`
	Type     roomModel.RoomType `json:"type"`
	Location string             `json:"location"`
	Capacity int                `json:"capacity"`
	Active   bool               `json:"active"`
}

func (r *RoomSummary) FromModel(room roomModel.Room) {
	r.ID = room.ID
	r.Name = room.Name
	r.Type = room.Type
	r.Location = room.Location
	r.Capacity = room.Capacity
	r.Active = room.Active
}

// TodaySlotsResponse lists every slot of today. A slot nobody reserved maps to null.
type TodaySlotsResponse struct {
	Room  RoomSummary              `json:"room"`
	Date  string                   `json:"date"`
	Slots map[int]*BookingResponse `json:"slots"`
}

func NewTodaySlotsResponse(room roomModel.Room, day time.Time, count int) TodaySlotsResponse {
	res := TodaySlotsResponse{
		Date:  timezone.Format(day, constant.DayFormat),
		Slots: make(map[int]*BookingResponse, count),
	}
	res.Room.FromModel(room)

	for index := 1; index <= count; index++ {
		res.Slots[index] = nil
	}

	return res
}

// Place puts booking under its slot. Bookings whose start does not project into the slot
// range are ignored.
func (r *TodaySlotsResponse) Place(booking model.Booking, slotIndex int) {
	if _, ok := r.Slots[slotIndex]; !ok {
		return
	}

	res := &BookingResponse{}
	res.FromModel(booking, slotIndex)
	r.Slots[slotIndex] = res
}

type AvailabilityResponse struct {
	RoomID     int64  `json:"room_id"`
	Slot       int    `json:"slot"`
	StartAt    string `json:"start_at"`
	EndAt      string `json:"end_at"`
	RoomActive bool   `json:"room_active"`
	Available  bool   `json:"available"`
	HeldByYou  bool   `json:"held_by_you"`
	HoldingAny bool   `json:"holding_any"`
}

type CancelledEvent struct {
	BookingID   int64  `json:"booking_id"`
	RoomID      int64  `json:"room_id"`
	UserID      string `json:"user_id"`
	CancelledBy string `json:"cancelled_by"`
	StartAt     string `json:"start_at"`
}
