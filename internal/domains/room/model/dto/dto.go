package dto

import (
	"mime/multipart"
	"time"

	"campus/internal/domains/room/model"
	"campus/shared"
	gDto "campus/shared/dto"
	gModel "campus/shared/model"
)

const (
	MessageRoomActivated   = "room is now accepting reservations"
	MessageRoomDeactivated = "room no longer accepts reservations"
)

type CreateRoomRequest struct {
	Name             string                `json:"name"     validate:"required,max=100"`
	Type             model.RoomType        `json:"type"     validate:"required,enum"`
	Location         string                `json:"location" validate:"omitempty,max=100"`
	Capacity         int                   `json:"capacity" validate:"omitempty,min=0"`
	Active           *bool                 `json:"active"   validate:"omitempty"`
	Image            *multipart.FileHeader `json:"-"`
	ImageFile        multipart.File        `json:"-"`
	ImageContentType string                `json:"-"        validate:"omitempty,mimetypes=image/png image/jpg image/jpeg"`
	ImageSize        int64                 `json:"-"        validate:"omitempty,maxfilesize=1"`
}

// SetImage attaches an uploaded form file and exposes its header fields for validation.
func (c *CreateRoomRequest) SetImage(file multipart.File, header *multipart.FileHeader) {
	c.Image = header
	c.ImageFile = file
	c.ImageContentType = header.Header.Get("Content-Type")
	c.ImageSize = header.Size
}

func (c *CreateRoomRequest) ToModel(user, imageURL string, at time.Time) model.Room {
	active := true
	if c.Active != nil {
		active = *c.Active
	}

	return model.Room{
		Name:     c.Name,
		Type:     c.Type,
		Location: c.Location,
		Capacity: c.Capacity,
		Image:    imageURL,
		Active:   active,
		Metadata: gModel.NewMetadata(user, at),
	}
}

type RoomResponse struct {
	ID       int64          `json:"id"`
	Name     string         `json:"name"`
	Type     model.RoomType `json:"type"`
	Location string         `json:"location"`
	Capacity int            `json:"capacity"`
	Image    string         `json:"image"`
	Active   bool           `json:"active"`
	gDto.Metadata
}

func (r *RoomResponse) FromModel(model model.Room) {
	r.ID = model.ID
	r.Name = model.Name
	r.Type = model.Type
	r.Location = model.Location
	r.Capacity = model.Capacity
	r.Image = model.Image
	r.Active = model.Active
	r.Metadata.FromModel(model.Metadata)
}

type GetRoomsResponse struct {
	Rooms     []RoomResponse `json:"rooms"`
	TotalPage int            `json:"total_page"`
	TotalData int            `json:"total_data"`
}

func (r *GetRoomsResponse) FromModels(models []model.Room, totalData, limit int) {
	r.TotalData = totalData
	r.TotalPage = shared.CalculateTotalPage(totalData, limit)

	r.Rooms = make([]RoomResponse, len(models))
	for i, mod := range models {
		r.Rooms[i].FromModel(mod)
	}
}

type ToggleActiveResponse struct {
	RoomID  int64  `json:"room_id"`
	Active  bool   `json:"active"`
	Message string `json:"message"`
}

func NewToggleActiveResponse(roomID int64, active bool) ToggleActiveResponse {
	message := MessageRoomDeactivated
	if active {
		message = MessageRoomActivated
	}

	return ToggleActiveResponse{
		RoomID:  roomID,
		Active:  active,
		Message: message,
	}
}
