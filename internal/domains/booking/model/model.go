package model

import (
	"time"
)

const (
	TableName  = "room_bookings"
	EntityName = "booking"

	FieldID        = "id"
	FieldRoomID    = "room_id"
	FieldUserID    = "user_id"
	FieldStartAt   = "start_at"
	FieldEndAt     = "end_at"
	FieldCreatedAt = "created_at"

	ConstraintRoomStart = "room_bookings_room_start_key"
	ConstraintUserStart = "room_bookings_user_start_key"
)

// Booking binds one user to one room for one slot. The slot index is never stored; it is
// projected from StartAt.
type Booking struct {
	ID          int64     `db:"id"           generated:"true"`
	RoomID      int64     `db:"room_id"`
	UserID      string    `db:"user_id"`
	Username    string    `db:"username"     table:"users"`
	DisplayName string    `db:"display_name" table:"users"`
	StartAt     time.Time `db:"start_at"`
	EndAt       time.Time `db:"end_at"`
	CreatedAt   time.Time `db:"created_at"`
}

func (Booking) GetJoinQuery() string {
	return "JOIN users ON users.id = room_bookings.user_id"
}
