package room

import (
	"net/http"

	"campus/infras/otel"
	bookingService "campus/internal/domains/booking/service"
	"campus/internal/domains/room/model"
	"campus/internal/domains/room/model/dto"
	"campus/internal/domains/room/service"
	"campus/shared"
	"campus/shared/constant"
	gDto "campus/shared/dto"
	"campus/shared/validator"
	"campus/transport/http/request"
	"campus/transport/http/response"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"
)

const (
	formName     = "name"
	formType     = "type"
	formLocation = "location"
	formCapacity = "capacity"
	formActive   = "active"
	formImage    = "image"
)

type Handler struct {
	service service.Room
	admin   service.Admin
	booking bookingService.Booking
	otel    otel.Otel
}

func New(service service.Room, admin service.Admin, booking bookingService.Booking, otel otel.Otel) Handler {
	return Handler{
		service: service,
		admin:   admin,
		booking: booking,
		otel:    otel,
	}
}

func (handler *Handler) Router(router chi.Router) {
	router.Route("/rooms", func(routerGroup chi.Router) {
		routerGroup.Post("/", handler.CreateRoom)
		routerGroup.Get("/", handler.GetRooms)
		routerGroup.Get("/{id}", handler.GetRoomByID)
		routerGroup.Patch("/{id}/toggle", handler.ToggleActive)
		routerGroup.Get("/{id}/slots/today", handler.GetTodaySlots)
		routerGroup.Get("/{id}/slots/{slot}/availability", handler.GetAvailability)
	})
}

// CreateRoom handles the creation of a new room.
// @Summary Create a new room
// @Description Create a new room with the provided details.
// @Tags Room
// @Accept multipart/form-data
// @Produce json
// @Param name formData string true "Room name"
// @Param type formData string true "Room type (CLASSROOM, STUDY_ROOM, MEETING)"
// @Param location formData string false "Room location"
// @Param capacity formData integer false "Room capacity"
// @Param active formData boolean false "Room active status, defaults to true"
// @Param image formData file false "Room image"
// @Success 201 {object} response.Data[dto.RoomResponse] "Room created"
// @Failure 400 {object} response.Error
// @Failure 403 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/rooms [post]
// @Security BearerAuth
func (handler *Handler) CreateRoom(writer http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".CreateRoom")
	defer scope.End()

	if err := r.ParseMultipartForm(constant.RequestMaxMemory); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to parse multipart form")
		response.WithError(writer, err)

		return
	}

	req := dto.CreateRoomRequest{
		Name:     r.FormValue(formName),
		Type:     model.RoomType(r.FormValue(formType)),
		Location: r.FormValue(formLocation),
		Active:   shared.ConvertStringToBool(r.FormValue(formActive)),
	}

	if capStr := r.FormValue(formCapacity); capStr != "" {
		if c, err := shared.ConvertStringToInt(capStr); err == nil {
			req.Capacity = c
		}
	}

	file, fileHeader, err := r.FormFile(formImage)
	if err == nil {
		req.SetImage(file, fileHeader)

		defer file.Close()
	}

	if err := validator.ValidateStruct(&req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request")

		response.WithError(writer, err)

		return
	}

	room, err := handler.service.Create(ctx, req)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to create room")

		response.WithError(writer, err)

		return
	}

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)
	scope.AddEvent("Room created successfully by user " + user)

	response.WithJSON(writer, http.StatusCreated, room)
}

// GetRooms lists every room, inactive ones included.
// @Summary Get all rooms
// @Description Retrieve all rooms with optional filtering and pagination.
// @Tags Room
// @Accept json
// @Produce json
// @Param pagination query gDto.QueryParams false "Pagination parameters"
// @Param name query string false "Filter by name"
// @Param type query string false "Filter by type"
// @Param location query string false "Filter by location"
// @Param active query boolean false "Filter by active status"
// @Success 200 {object} response.Data[dto.GetRoomsResponse] "List of rooms"
// @Failure 400 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/rooms [get]
// @Security BearerAuth
func (handler *Handler) GetRooms(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetRooms")
	defer scope.End()

	queryParams := gDto.QueryParams{}
	queryParams.FromRequest(r, true)
	queryParams.Sanitize(model.TableName, model.FieldName, model.FieldType, model.FieldCapacity, constant.FieldCreatedAt)

	query := r.URL.Query()

	filterGroup := gDto.FilterGroup{
		Operator: gDto.FilterGroupOperatorAnd,
		Filters:  []any{},
	}

	for _, field := range []string{model.FieldName, model.FieldLocation} {
		if value := query.Get(field); value != "" {
			filterGroup.Filters = append(filterGroup.Filters, gDto.Filter{
				Field:    field,
				Operator: gDto.FilterOperatorLike,
				Value:    value,
				Table:    model.TableName,
			})
		}
	}

	if roomType := query.Get(model.FieldType); roomType != "" {
		filterGroup.Filters = append(filterGroup.Filters, gDto.Filter{
			Field:    model.FieldType,
			Operator: gDto.FilterOperatorEq,
			Value:    roomType,
			Table:    model.TableName,
		})
	}

	if active := shared.ConvertStringToBool(query.Get(model.FieldActive)); active != nil {
		filterGroup.Filters = append(filterGroup.Filters, gDto.Filter{
			Field:    model.FieldActive,
			Operator: gDto.FilterOperatorEq,
			Value:    *active,
			Table:    model.TableName,
		})
	}

	rooms, err := handler.service.GetAll(ctx, queryParams, filterGroup)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get rooms")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("Rooms retrieved successfully")

	response.WithJSON(w, http.StatusOK, rooms)
}

// GetRoomByID retrieves a room by its ID.
// @Summary Get a room by ID
// @Description Retrieve a room by its unique identifier.
// @Tags Room
// @Accept json
// @Produce json
// @Param id path integer true "Room ID"
// @Success 200 {object} response.Data[dto.RoomResponse] "Room details"
// @Failure 400 {object} response.Error
// @Failure 404 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/rooms/{id} [get]
// @Security BearerAuth
func (handler *Handler) GetRoomByID(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetRoomByID")
	defer scope.End()

	id, err := request.Int64Param(r, constant.RequestParamID)
	if err != nil {
		scope.TraceError(err)
		response.WithError(w, err)

		return
	}

	room, err := handler.service.Get(ctx, id)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get room by ID")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("Room retrieved successfully")

	response.WithJSON(w, http.StatusOK, room)
}

// ToggleActive flips a room between active and inactive.
// @Summary Toggle room activation
// @Description Deactivation is refused while the room has reservations that have not ended.
// @Tags Room
// @Produce json
// @Param id path integer true "Room ID"
// @Success 200 {object} response.Data[dto.ToggleActiveResponse] "New room status"
// @Failure 400 {object} response.Error
// @Failure 403 {object} response.Error
// @Failure 404 {object} response.Error
// @Failure 409 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/rooms/{id}/toggle [patch]
// @Security BearerAuth
func (handler *Handler) ToggleActive(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".ToggleActive")
	defer scope.End()

	id, err := request.Int64Param(r, constant.RequestParamID)
	if err != nil {
		scope.TraceError(err)
		response.WithError(w, err)

		return
	}

	res, err := handler.admin.ToggleActive(ctx, id)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Int64("room_id", id).Msg("failed to toggle room")

		response.WithError(w, err)

		return
	}

	response.WithJSON(w, http.StatusOK, res)
}

// GetTodaySlots shows who holds each of today's slots of a room.
// @Summary Today's slots of a room
// @Description Every configured slot is present; free slots are null.
// @Tags Room
// @Produce json
// @Param id path integer true "Room ID"
// @Success 200 {object} response.Data[any] "Slot board"
// @Failure 400 {object} response.Error
// @Failure 404 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/rooms/{id}/slots/today [get]
// @Security BearerAuth
func (handler *Handler) GetTodaySlots(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetTodaySlots")
	defer scope.End()

	id, err := request.Int64Param(r, constant.RequestParamID)
	if err != nil {
		scope.TraceError(err)
		response.WithError(w, err)

		return
	}

	slots, err := handler.booking.ListTodaySlots(ctx, id)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Int64("room_id", id).Msg("failed to list today's slots")

		response.WithError(w, err)

		return
	}

	response.WithJSON(w, http.StatusOK, slots)
}

// GetAvailability tells the caller whether a slot can still be reserved.
// @Summary Slot availability
// @Description Reports whether the slot is free, held by the caller, and whether the caller holds any room at that time.
// @Tags Room
// @Produce json
// @Param id path integer true "Room ID"
// @Param slot path integer true "Slot index"
// @Success 200 {object} response.Data[any] "Availability"
// @Failure 400 {object} response.Error
// @Failure 404 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/rooms/{id}/slots/{slot}/availability [get]
// @Security BearerAuth
func (handler *Handler) GetAvailability(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetAvailability")
	defer scope.End()

	userID, err := request.UserID(ctx)
	if err != nil {
		scope.TraceError(err)
		response.WithError(w, err)

		return
	}

	id, err := request.Int64Param(r, constant.RequestParamID)
	if err != nil {
		scope.TraceError(err)
		response.WithError(w, err)

		return
	}

	slotIndex, err := request.IntParam(r, constant.RequestParamSlot)
	if err != nil {
		scope.TraceError(err)
		response.WithError(w, err)

		return
	}

	res, err := handler.booking.CheckAvailability(ctx, userID, id, slotIndex)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Int64("room_id", id).Int("slot", slotIndex).Msg("failed to check availability")

		response.WithError(w, err)

		return
	}

	response.WithJSON(w, http.StatusOK, res)
}
