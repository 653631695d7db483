package model

import "campus/shared/model"

const (
	TableName  = "rooms"
	EntityName = "room"

	FieldID       = "id"
	FieldName     = "name"
	FieldType     = "type"
	FieldLocation = "location"
	FieldCapacity = "capacity"
	FieldImage    = "image"
	FieldActive   = "active"
)

type RoomType string

const (
	RoomTypeClassroom RoomType = "CLASSROOM"
	RoomTypeStudyRoom RoomType = "STUDY_ROOM"
	RoomTypeMeeting   RoomType = "MEETING"
)

func (t RoomType) IsValid() bool {
	switch t {
	case RoomTypeClassroom, RoomTypeStudyRoom, RoomTypeMeeting:
		return true
	}

	return false
}

type Room struct {
	ID       int64    `db:"id"       generated:"true"`
	Name     string   `db:"name"`
	Type     RoomType `db:"type"`
	Location string   `db:"location"`
	Capacity int      `db:"capacity"`
	Image    string   `db:"image"`
	Active   bool     `db:"active"`
	model.Metadata
}
