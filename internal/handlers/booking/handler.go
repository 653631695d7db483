package booking

import (
	"net/http"

	"campus/infras/otel"
	"campus/internal/domains/booking/model"
	"campus/internal/domains/booking/model/dto"
	"campus/internal/domains/booking/service"
	"campus/internal/domains/booking/sweeper"
	penaltyService "campus/internal/domains/penalty/service"
	"campus/shared/constant"
	gDto "campus/shared/dto"
	"campus/shared/validator"
	"campus/transport/http/request"
	"campus/transport/http/response"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"
)

type Handler struct {
	service service.Booking
	penalty penaltyService.Penalty
	sweeper sweeper.Sweeper
	otel    otel.Otel
}

func New(service service.Booking, penalty penaltyService.Penalty, sweeper sweeper.Sweeper, otel otel.Otel) Handler {
	return Handler{
		service: service,
		penalty: penalty,
		sweeper: sweeper,
		otel:    otel,
	}
}

func (handler *Handler) Router(router chi.Router) {
	router.Route("/bookings", func(routerGroup chi.Router) {
		routerGroup.Post("/", handler.CreateBooking)
		routerGroup.Get("/", handler.GetBookings)
		routerGroup.Get("/me", handler.GetMyBookings)
		routerGroup.Get("/{id}", handler.GetBookingByID)
		routerGroup.Delete("/{id}", handler.CancelBooking)
	})
}

// AdminRouter registers the maintenance endpoints under the admin group.
func (handler *Handler) AdminRouter(router chi.Router) {
	router.Post("/bookings/sweep", handler.Sweep)
}

// CreateBooking reserves one of today's slots for the caller.
// @Summary Reserve a slot
// @Description Reserve today's slot of a room. Banned users, inactive rooms, taken slots and
// @Description a second room at the same time are refused.
// @Tags Booking
// @Accept json
// @Produce json
// @Param request body dto.CreateBookingRequest true "Create Booking Request"
// @Success 201 {object} response.Data[dto.BookingResponse] "Booking created"
// @Failure 400 {object} response.Error
// @Failure 403 {object} response.Error
// @Failure 404 {object} response.Error
// @Failure 409 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/bookings [post]
// @Security BearerAuth
func (handler *Handler) CreateBooking(writer http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".CreateBooking")
	defer scope.End()

	userID, err := request.UserID(ctx)
	if err != nil {
		scope.TraceError(err)
		response.WithError(writer, err)

		return
	}

	req := dto.CreateBookingRequest{}
	if err := validator.Validate(r.Body, &req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request body")

		response.WithError(writer, err)

		return
	}

	if err := handler.penalty.EnsureNotBanned(ctx, userID); err != nil {
		scope.TraceError(err)
		log.Warn().Err(err).Str("user_id", userID).Msg("booking refused")

		response.WithError(writer, err)

		return
	}

	booking, err := handler.service.CreateBooking(ctx, userID, req.RoomID, req.Slot)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to create booking")

		response.WithError(writer, err)

		return
	}

	scope.AddEvent("Booking created successfully by user " + userID)

	response.WithJSON(writer, http.StatusCreated, booking)
}

// GetBookings retrieves all bookings.
// @Summary Get all bookings
// @Description Retrieve all bookings with optional filtering and pagination.
// @Tags Booking
// @Accept json
// @Produce json
// @Param pagination query gDto.QueryParams false "Pagination parameters"
// @Param room_id query integer false "Filter by room ID"
// @Param user_id query string false "Filter by user ID"
// @Success 200 {object} response.Data[dto.GetBookingsResponse] "List of bookings"
// @Failure 400 {object} response.Error
// @Failure 403 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/bookings [get]
// @Security BearerAuth
func (handler *Handler) GetBookings(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetBookings")
	defer scope.End()

	queryParams := listParams(r)

	filterGroup := gDto.FilterGroup{
		Operator: gDto.FilterGroupOperatorAnd,
		Filters:  []any{},
	}

	if roomID := r.URL.Query().Get(constant.RequestParamRoomID); roomID != "" {
		filterGroup.Filters = append(filterGroup.Filters, gDto.Filter{
			Field:    model.FieldRoomID,
			Operator: gDto.FilterOperatorEq,
			Value:    roomID,
			Table:    model.TableName,
		})
	}

	if userID := r.URL.Query().Get(constant.RequestParamUserID); userID != "" {
		filterGroup.Filters = append(filterGroup.Filters, gDto.Filter{
			Field:    model.FieldUserID,
			Operator: gDto.FilterOperatorEq,
			Value:    userID,
			Table:    model.TableName,
		})
	}

	bookings, err := handler.service.GetAll(ctx, queryParams, filterGroup)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get bookings")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("Bookings retrieved successfully")

	response.WithJSON(w, http.StatusOK, bookings)
}

// GetMyBookings retrieves the bookings of the caller.
// @Summary Get my bookings
// @Description Retrieve the bookings of the currently authenticated user.
// @Tags Booking
// @Accept json
// @Produce json
// @Param pagination query gDto.QueryParams false "Pagination parameters"
// @Success 200 {object} response.Data[dto.GetBookingsResponse] "List of user's bookings"
// @Failure 401 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/bookings/me [get]
// @Security BearerAuth
func (handler *Handler) GetMyBookings(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetMyBookings")
	defer scope.End()

	userID, err := request.UserID(ctx)
	if err != nil {
		scope.TraceError(err)
		log.Error().Msg("failed to get user ID from context")
		response.WithError(w, err)

		return
	}

	filterGroup := gDto.FilterGroup{
		Operator: gDto.FilterGroupOperatorAnd,
		Filters: []any{
			gDto.Filter{
				Field:    model.FieldUserID,
				Operator: gDto.FilterOperatorEq,
				Value:    userID,
				Table:    model.TableName,
			},
		},
	}

	bookings, err := handler.service.GetAll(ctx, listParams(r), filterGroup)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get user bookings")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("User bookings retrieved successfully for user " + userID)

	response.WithJSON(w, http.StatusOK, bookings)
}

// GetBookingByID retrieves a booking by its ID.
// @Summary Get a booking by ID
// @Description Owners and administrators can read a booking.
// @Tags Booking
// @Accept json
// @Produce json
// @Param id path integer true "Booking ID"
// @Success 200 {object} response.Data[dto.BookingResponse] "Booking details"
// @Failure 400 {object} response.Error
// @Failure 403 {object} response.Error
// @Failure 404 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/bookings/{id} [get]
// @Security BearerAuth
func (handler *Handler) GetBookingByID(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetBookingByID")
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

	booking, err := handler.service.Get(ctx, id, userID, request.IsAdmin(ctx))
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get booking by ID")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("Booking retrieved successfully")

	response.WithJSON(w, http.StatusOK, booking)
}

// CancelBooking deletes a booking.
// @Summary Cancel a booking
// @Description Owners and administrators can cancel a booking. The booking is removed.
// @Tags Booking
// @Produce json
// @Param id path integer true "Booking ID"
// @Success 200 {object} response.Message "Booking cancelled successfully"
// @Failure 400 {object} response.Error
// @Failure 403 {object} response.Error
// @Failure 404 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/bookings/{id} [delete]
// @Security BearerAuth
func (handler *Handler) CancelBooking(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".CancelBooking")
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

	if err := handler.service.CancelBooking(ctx, id, userID, request.IsAdmin(ctx)); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to cancel booking")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("Booking cancelled successfully by user " + userID)

	response.WithMessage(w, http.StatusOK, "Booking cancelled successfully")
}

// Sweep deletes every booking that ended before today.
// @Summary Run the retention sweep
// @Description Runs the daily cleanup now. Running it again on the same day deletes nothing.
// @Tags Admin
// @Produce json
// @Success 200 {object} response.Data[sweeper.Result] "Sweep result"
// @Failure 403 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/admin/bookings/sweep [post]
// @Security BearerAuth
func (handler *Handler) Sweep(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".Sweep")
	defer scope.End()

	res, err := handler.sweeper.Run(ctx)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to sweep bookings")

		response.WithError(w, err)

		return
	}

	response.WithJSON(w, http.StatusOK, res)
}

func listParams(r *http.Request) gDto.QueryParams {
	queryParams := gDto.QueryParams{}
	queryParams.FromRequest(r, true)
	queryParams.Sanitize(model.TableName, model.FieldStartAt, model.FieldRoomID, model.FieldCreatedAt)

	return queryParams
}
