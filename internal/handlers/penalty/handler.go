package penalty

import (
	"net/http"

	"campus/infras/otel"
	"campus/internal/domains/penalty/model"
	"campus/internal/domains/penalty/model/dto"
	"campus/internal/domains/penalty/service"
	"campus/shared/constant"
	gDto "campus/shared/dto"
	"campus/shared/validator"
	"campus/transport/http/request"
	"campus/transport/http/response"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"
)

type Handler struct {
	service service.Penalty
	otel    otel.Otel
}

func New(service service.Penalty, otel otel.Otel) Handler {
	return Handler{
		service: service,
		otel:    otel,
	}
}

// Router registers the strike endpoints under the admin group.
func (handler *Handler) Router(router chi.Router) {
	router.Post("/users/{id}/strikes", handler.IssueStrike)
	router.Get("/users/{id}/strikes", handler.GetStrikes)
	router.Delete("/strikes/{id}", handler.RevokeStrike)
}

// IssueStrike records a strike against a user.
// @Summary Issue a strike
// @Description Strikes expire after the configured number of days. Enough active strikes ban the user from reserving.
// @Tags Admin
// @Accept json
// @Produce json
// @Param id path string true "User ID"
// @Param request body dto.IssueStrikeRequest true "Issue Strike Request"
// @Success 201 {object} response.Data[dto.StrikeResponse] "Strike issued"
// @Failure 400 {object} response.Error
// @Failure 403 {object} response.Error
// @Failure 404 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/admin/users/{id}/strikes [post]
// @Security BearerAuth
func (handler *Handler) IssueStrike(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".IssueStrike")
	defer scope.End()

	userID := chi.URLParam(r, constant.RequestParamID)

	req := dto.IssueStrikeRequest{}
	if err := validator.Validate(r.Body, &req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request body")

		response.WithError(w, err)

		return
	}

	strike, err := handler.service.Issue(ctx, userID, req)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to issue strike")

		response.WithError(w, err)

		return
	}

	response.WithJSON(w, http.StatusCreated, strike)
}

// GetStrikes lists the strikes of a user.
// @Summary List a user's strikes
// @Description Includes expired strikes, the active count and whether the user is banned.
// @Tags Admin
// @Produce json
// @Param id path string true "User ID"
// @Param pagination query gDto.QueryParams false "Pagination parameters"
// @Success 200 {object} response.Data[dto.GetStrikesResponse] "Strikes"
// @Failure 403 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/admin/users/{id}/strikes [get]
// @Security BearerAuth
func (handler *Handler) GetStrikes(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetStrikes")
	defer scope.End()

	userID := chi.URLParam(r, constant.RequestParamID)

	queryParams := gDto.QueryParams{}
	queryParams.FromRequest(r, true)
	queryParams.Sanitize(model.TableName, model.FieldExpiresAt, constant.FieldCreatedAt)

	strikes, err := handler.service.List(ctx, userID, queryParams)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get strikes")

		response.WithError(w, err)

		return
	}

	response.WithJSON(w, http.StatusOK, strikes)
}

// RevokeStrike removes a strike.
// @Summary Revoke a strike
// @Tags Admin
// @Produce json
// @Param id path integer true "Strike ID"
// @Success 200 {object} response.Message "Strike revoked successfully"
// @Failure 400 {object} response.Error
// @Failure 403 {object} response.Error
// @Failure 404 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/admin/strikes/{id} [delete]
// @Security BearerAuth
func (handler *Handler) RevokeStrike(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".RevokeStrike")
	defer scope.End()

	id, err := request.Int64Param(r, constant.RequestParamID)
	if err != nil {
		scope.TraceError(err)
		response.WithError(w, err)

		return
	}

	if err := handler.service.Revoke(ctx, id); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to revoke strike")

		response.WithError(w, err)

		return
	}

	response.WithMessage(w, http.StatusOK, "Strike revoked successfully")
}
