package room_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"campus/config"
	otelMocks "campus/infras/otel/mocks"
	txMocks "campus/infras/postgres/mocks"
	bookingMocks "campus/internal/domains/booking/mocks"
	bookingModel "campus/internal/domains/booking/model"
	bookingService "campus/internal/domains/booking/service"
	"campus/internal/domains/booking/slot"
	"campus/internal/domains/room/model"
	"campus/internal/domains/room/service"
	userModel "campus/internal/domains/user/model"
	"campus/internal/handlers/room"
	cacheMocks "campus/shared/cache/mocks"
	"campus/shared/constant"
	eventMocks "campus/shared/event/mocks"
	"campus/shared/timezone"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func at(hour int) time.Time {
	return time.Date(2025, 3, 10, hour, 0, 0, 0, timezone.GetLocation())
}

type fixture struct {
	store  *bookingMocks.Store
	router chi.Router
}

func newFixture(t *testing.T) fixture {
	t.Helper()

	ctrl := gomock.NewController(t)

	cfg := &config.Config{}
	cfg.Cache.TTL = 60
	cfg.Events.TimeoutSecs = 1
	cfg.Reservation.SlotBaseHour = 17
	cfg.Reservation.SlotCount = 4

	store := bookingMocks.NewStore()
	store.AddUser(userModel.User{ID: "alice", Username: "alice", DisplayName: "Alice"})
	store.AddRoom(model.Room{ID: 1, Name: "Lab", Type: model.RoomTypeClassroom, Active: true})

	mockCache := cacheMocks.NewMockRedisCache(ctrl)
	mockCache.EXPECT().Get(gomock.Any(), gomock.Any(), gomock.Any()).Return(errors.New("cache miss")).AnyTimes()
	mockCache.EXPECT().Save(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
	mockCache.EXPECT().Delete(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
	mockCache.EXPECT().Clear(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()

	clock := timezone.NewFixedClock(at(9))
	otl := otelMocks.NewOtel()
	publisher := eventMocks.NewRecorder()
	transactor := txMocks.NewSerialTransactor()

	rooms := service.New(store.RoomRepository(), cfg, mockCache, otl, nil, clock)
	admin := service.NewAdmin(store.RoomRepository(), store.BookingRepository(), transactor, cfg, mockCache, publisher, otl, clock)
	bookings := bookingService.New(store.BookingRepository(), store.RoomRepository(), store.UserRepository(),
		transactor, slot.NewResolver(cfg, clock), cfg, mockCache, publisher, otl)

	handler := room.New(rooms, admin, bookings, otl)

	router := chi.NewRouter()
	router.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := context.WithValue(r.Context(), constant.ContextKeyUserID, "alice")
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	})
	router.Route("/v1", handler.Router)

	return fixture{store: store, router: router}
}

func (f fixture) serve(req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, req)

	return rec
}

func reason(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()

	var body struct {
		Code string `json:"code"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))

	return body.Code
}

func multipartRequest(t *testing.T, fields map[string]string) *http.Request {
	t.Helper()

	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)

	for key, value := range fields {
		require.NoError(t, writer.WriteField(key, value))
	}
	require.NoError(t, writer.Close())

	req := httptest.NewRequest(http.MethodPost, "/v1/rooms", body)
	req.Header.Set(constant.RequestHeaderContentType, writer.FormDataContentType())

	return req
}

func TestCreateRoom(t *testing.T) {
	tests := []struct {
		name     string
		fields   map[string]string
		wantCode int
		active   bool
	}{
		{
			name:     "defaults to active",
			fields:   map[string]string{"name": "Seminar", "type": "MEETING", "capacity": "12"},
			wantCode: http.StatusCreated,
			active:   true,
		},
		{
			name:     "created inactive",
			fields:   map[string]string{"name": "Quiet", "type": "STUDY_ROOM", "active": "false"},
			wantCode: http.StatusCreated,
		},
		{
			name:     "unknown type",
			fields:   map[string]string{"name": "Hall", "type": "GYM"},
			wantCode: http.StatusBadRequest,
		},
		{
			name:     "missing name",
			fields:   map[string]string{"type": "MEETING"},
			wantCode: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)

			rec := f.serve(multipartRequest(t, tt.fields))
			require.Equal(t, tt.wantCode, rec.Code)

			if tt.wantCode != http.StatusCreated {
				return
			}

			var body struct {
				Data struct {
					ID     int64  `json:"id"`
					Name   string `json:"name"`
					Active bool   `json:"active"`
				} `json:"data"`
			}
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))

			assert.Equal(t, tt.fields["name"], body.Data.Name)
			assert.Equal(t, tt.active, body.Data.Active)
			assert.Equal(t, tt.active, f.store.Room(body.Data.ID).Active)
		})
	}
}

func TestGetRooms(t *testing.T) {
	f := newFixture(t)

	rec := f.serve(httptest.NewRequest(http.MethodGet, "/v1/rooms?page=1&limit=10&active=true", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Data struct {
			Rooms     []map[string]any `json:"rooms"`
			TotalData int              `json:"total_data"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, 1, body.Data.TotalData)

	rec = f.serve(httptest.NewRequest(http.MethodGet, "/v1/rooms/1", nil))
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = f.serve(httptest.NewRequest(http.MethodGet, "/v1/rooms/9", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "ROOM_NOT_FOUND", reason(t, rec))

	rec = f.serve(httptest.NewRequest(http.MethodGet, "/v1/rooms/nine", nil))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestToggleActive(t *testing.T) {
	f := newFixture(t)

	id := f.store.AddBooking(bookingModel.Booking{RoomID: 1, UserID: "alice", StartAt: at(19), EndAt: at(20)})

	rec := f.serve(httptest.NewRequest(http.MethodPatch, "/v1/rooms/1/toggle", nil))
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, "ROOM_HAS_FUTURE_BOOKINGS", reason(t, rec))
	assert.True(t, f.store.Room(1).Active)

	require.NoError(t, f.store.BookingRepository().Delete(context.Background(), id))

	rec = f.serve(httptest.NewRequest(http.MethodPatch, "/v1/rooms/1/toggle", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.False(t, f.store.Room(1).Active)

	var body struct {
		Data struct {
			Active  bool   `json:"active"`
			Message string `json:"message"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.False(t, body.Data.Active)
	assert.NotEmpty(t, body.Data.Message)

	rec = f.serve(httptest.NewRequest(http.MethodPatch, "/v1/rooms/7/toggle", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestGetTodaySlots(t *testing.T) {
	f := newFixture(t)

	f.store.AddBooking(bookingModel.Booking{RoomID: 1, UserID: "alice", StartAt: at(20), EndAt: at(21)})

	rec := f.serve(httptest.NewRequest(http.MethodGet, "/v1/rooms/1/slots/today", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Data struct {
			Date  string                     `json:"date"`
			Slots map[string]json.RawMessage `json:"slots"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))

	assert.Equal(t, "2025-03-10", body.Data.Date)
	require.Len(t, body.Data.Slots, 4)
	assert.JSONEq(t, "null", string(body.Data.Slots["1"]))
	assert.Contains(t, string(body.Data.Slots["3"]), `"user_id":"alice"`)
}

func TestGetAvailability(t *testing.T) {
	f := newFixture(t)

	f.store.AddBooking(bookingModel.Booking{RoomID: 1, UserID: "alice", StartAt: at(18), EndAt: at(19)})

	tests := []struct {
		name      string
		path      string
		wantCode  int
		available bool
		heldByYou bool
	}{
		{name: "held by caller", path: "/v1/rooms/1/slots/1/availability", wantCode: http.StatusOK, heldByYou: true},
		{name: "free", path: "/v1/rooms/1/slots/2/availability", wantCode: http.StatusOK, available: true},
		{name: "out of range", path: "/v1/rooms/1/slots/5/availability", wantCode: http.StatusBadRequest},
		{name: "not a number", path: "/v1/rooms/1/slots/x/availability", wantCode: http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := f.serve(httptest.NewRequest(http.MethodGet, tt.path, nil))
			require.Equal(t, tt.wantCode, rec.Code)

			if tt.wantCode != http.StatusOK {
				return
			}

			var body struct {
				Data struct {
					Available bool `json:"available"`
					HeldByYou bool `json:"held_by_you"`
				} `json:"data"`
			}
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.Equal(t, tt.available, body.Data.Available)
			assert.Equal(t, tt.heldByYou, body.Data.HeldByYou)
		})
	}
}
