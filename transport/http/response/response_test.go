package response_test

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"campus/shared/failure"
	"campus/transport/http/response"

	"github.com/stretchr/testify/assert"
)

func TestWithError(t *testing.T) {
	notFound := failure.New(http.StatusNotFound, "ROOM_NOT_FOUND", "room not found")

	tests := []struct {
		name     string
		err      error
		wantCode int
		wantBody string
	}{
		{
			name:     "domain failure carries its reason",
			err:      notFound,
			wantCode: http.StatusNotFound,
			wantBody: `{"error":"room not found","code":"ROOM_NOT_FOUND"}`,
		},
		{
			name:     "wrapped domain failure",
			err:      fmt.Errorf("lookup: %w", notFound),
			wantCode: http.StatusNotFound,
			wantBody: `{"error":"lookup: room not found","code":"ROOM_NOT_FOUND"}`,
		},
		{
			name:     "plain failure has no reason",
			err:      failure.BadRequestFromString("invalid id"),
			wantCode: http.StatusBadRequest,
			wantBody: `{"error":"invalid id"}`,
		},
		{
			name:     "unexpected errors are masked",
			err:      errors.New("pq: connection refused"),
			wantCode: http.StatusInternalServerError,
			wantBody: `{"error":"Internal Server Error"}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			response.WithError(rec, tt.err)

			assert.Equal(t, tt.wantCode, rec.Code)
			assert.JSONEq(t, tt.wantBody, rec.Body.String())
		})
	}
}

func TestWithJSON(t *testing.T) {
	rec := httptest.NewRecorder()
	response.WithJSON(rec, http.StatusCreated, map[string]int{"id": 7})

	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assert.JSONEq(t, `{"data":{"id":7}}`, rec.Body.String())
}

func TestWithPreparingShutdown(t *testing.T) {
	rec := httptest.NewRecorder()
	response.WithPreparingShutdown(rec)

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.JSONEq(t, `{"message":"SERVER PREPARING TO SHUT DOWN"}`, rec.Body.String())
}
