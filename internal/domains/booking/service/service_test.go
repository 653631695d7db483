package service_test

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"campus/config"
	otelMocks "campus/infras/otel/mocks"
	"campus/infras/postgres"
	txMocks "campus/infras/postgres/mocks"
	bookingMocks "campus/internal/domains/booking/mocks"
	"campus/internal/domains/booking/model"
	"campus/internal/domains/booking/service"
	"campus/internal/domains/booking/slot"
	roomMocks "campus/internal/domains/room/mocks"
	roomModel "campus/internal/domains/room/model"
	roomService "campus/internal/domains/room/service"
	userMocks "campus/internal/domains/user/mocks"
	userModel "campus/internal/domains/user/model"
	cacheMocks "campus/shared/cache/mocks"
	"campus/shared/constant"
	gDto "campus/shared/dto"
	"campus/shared/event"
	eventMocks "campus/shared/event/mocks"
	"campus/shared/failure"
	"campus/shared/timezone"

	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

const (
	roomFive  int64 = 5
	roomSeven int64 = 7
	roomEight int64 = 8
)

func now() time.Time {
	return time.Date(2025, 3, 10, 9, 30, 0, 0, timezone.GetLocation())
}

func at(day, hour int) time.Time {
	return time.Date(2025, 3, day, hour, 0, 0, 0, timezone.GetLocation())
}

func newConfig() *config.Config {
	cfg := &config.Config{}
	cfg.Cache.TTL = 60
	cfg.Events.TimeoutSecs = 1
	cfg.Reservation.SlotBaseHour = 17
	cfg.Reservation.SlotCount = 4

	return cfg
}

func newCache(t *testing.T) *cacheMocks.MockRedisCache {
	t.Helper()

	ctrl := gomock.NewController(t)
	mockCache := cacheMocks.NewMockRedisCache(ctrl)
	mockCache.EXPECT().Get(gomock.Any(), gomock.Any(), gomock.Any()).Return(errors.New("cache miss")).AnyTimes()
	mockCache.EXPECT().Save(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
	mockCache.EXPECT().Delete(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
	mockCache.EXPECT().Clear(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()

	return mockCache
}

type fixture struct {
	store     *bookingMocks.Store
	svc       service.Booking
	admin     roomService.Admin
	publisher *eventMocks.Recorder
}

func newFixture(t *testing.T, transactor postgres.Transactor) fixture {
	t.Helper()

	store := bookingMocks.NewStore()
	for _, id := range []int64{roomFive, roomSeven, roomEight} {
		store.AddRoom(roomModel.Room{ID: id, Name: "Room", Type: roomModel.RoomTypeClassroom, Active: true})
	}

	for _, user := range []string{"alice", "bob", "carol"} {
		store.AddUser(userModel.User{ID: user, Username: user, DisplayName: user + " display", Role: constant.RoleUser})
	}

	cfg := newConfig()
	clock := timezone.NewFixedClock(now())
	resolver := slot.NewResolver(cfg, clock)
	publisher := eventMocks.NewRecorder()
	cache := newCache(t)

	svc := service.New(store.BookingRepository(), store.RoomRepository(), store.UserRepository(),
		transactor, resolver, cfg, cache, publisher, otelMocks.NewOtel())
	admin := roomService.NewAdmin(store.RoomRepository(), store.BookingRepository(),
		transactor, cfg, cache, publisher, otelMocks.NewOtel(), clock)

	return fixture{store: store, svc: svc, admin: admin, publisher: publisher}
}

func TestScenarios(t *testing.T) {
	f := newFixture(t, txMocks.NewSerialTransactor())
	ctx := context.Background()

	// alice books room 5 slot 2
	booking, err := f.svc.CreateBooking(ctx, "alice", roomFive, 2)
	require.NoError(t, err)
	assert.Equal(t, 2, booking.Slot)
	assert.Equal(t, "alice", booking.UserID)
	assert.Equal(t, "alice display", booking.DisplayName)
	assert.Equal(t, at(10, 19).Format(constant.DateFormat), booking.StartAt)
	assert.Equal(t, at(10, 20).Format(constant.DateFormat), booking.EndAt)

	// bob is refused the same slot
	_, err = f.svc.CreateBooking(ctx, "bob", roomFive, 2)
	assert.ErrorIs(t, err, model.ErrSlotTaken)

	stored := f.store.Bookings()
	require.Len(t, stored, 1)
	assert.Equal(t, "alice", stored[0].UserID)

	// alice cannot hold a second room at the same instant
	_, err = f.svc.CreateBooking(ctx, "alice", roomSeven, 2)
	assert.ErrorIs(t, err, model.ErrDoubleBooking)

	// the room cannot be deactivated while alice's booking is upcoming
	_, err = f.admin.ToggleActive(ctx, roomFive)
	assert.ErrorIs(t, err, roomModel.ErrRoomHasFutureBookings)
	assert.True(t, f.store.Room(roomFive).Active)

	// after alice cancels, the admin can deactivate it
	require.NoError(t, f.svc.CancelBooking(ctx, booking.ID, "alice", false))

	toggled, err := f.admin.ToggleActive(ctx, roomFive)
	require.NoError(t, err)
	assert.False(t, toggled.Active)
	assert.Equal(t, roomFive, toggled.RoomID)
	assert.False(t, f.store.Room(roomFive).Active)

	// and nobody can book the inactive room
	_, err = f.svc.CreateBooking(ctx, "bob", roomFive, 3)
	assert.ErrorIs(t, err, roomModel.ErrRoomInactive)

	assert.Eventually(t, func() bool {
		return len(f.publisher.Topics()) == 3
	}, time.Second, 10*time.Millisecond)
	assert.ElementsMatch(t, []string{event.TopicBookingCreated, event.TopicBookingCancelled, event.TopicRoomStatusChanged}, f.publisher.Topics())
}

func TestCreateBooking_SlotBoundaries(t *testing.T) {
	f := newFixture(t, txMocks.NewTransactor())

	for _, index := range []int{0, 5, -1} {
		_, err := f.svc.CreateBooking(context.Background(), "alice", roomFive, index)
		assert.ErrorIs(t, err, model.ErrInvalidSlot, "slot %d", index)
	}

	assert.Empty(t, f.store.Bookings())

	for index := 1; index <= 4; index++ {
		res, err := f.svc.CreateBooking(context.Background(), "alice", roomFive, index)
		require.NoError(t, err)
		assert.Equal(t, index, res.Slot)
	}

	for _, booking := range f.store.Bookings() {
		assert.Equal(t, time.Hour, booking.EndAt.Sub(booking.StartAt))
		assert.Equal(t, 17, booking.StartAt.Hour()-int(booking.ID))
	}
}

func TestCreateBooking_Lookups(t *testing.T) {
	f := newFixture(t, txMocks.NewTransactor())
	f.store.AddRoom(roomModel.Room{ID: 9, Name: "Closed", Active: false})

	tests := []struct {
		name    string
		user    string
		room    int64
		wantErr error
	}{
		{name: "unknown user", user: "mallory", room: roomFive, wantErr: userModel.ErrUserNotFound},
		{name: "unknown room", user: "alice", room: 404, wantErr: roomModel.ErrRoomNotFound},
		{name: "inactive room", user: "alice", room: 9, wantErr: roomModel.ErrRoomInactive},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.svc.CreateBooking(context.Background(), tt.user, tt.room, 1)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}

	assert.Empty(t, f.store.Bookings())
}

type mockedService struct {
	svc      service.Booking
	repo     *bookingMocks.MockBooking
	roomRepo *roomMocks.MockRoom
	userRepo *userMocks.MockUser
}

func newMockedService(t *testing.T) mockedService {
	t.Helper()

	ctrl := gomock.NewController(t)
	repo := bookingMocks.NewMockBooking(ctrl)
	roomRepo := roomMocks.NewMockRoom(ctrl)
	userRepo := userMocks.NewMockUser(ctrl)

	cfg := newConfig()
	resolver := slot.NewResolver(cfg, timezone.NewFixedClock(now()))

	svc := service.New(repo, roomRepo, userRepo, txMocks.NewTransactor(), resolver, cfg,
		newCache(t), event.NewNoopPublisher(), otelMocks.NewOtel())

	return mockedService{svc: svc, repo: repo, roomRepo: roomRepo, userRepo: userRepo}
}

func TestCreateBooking_Transaction(t *testing.T) {
	activeRoom := roomModel.Room{ID: roomFive, Active: true}
	alice := userModel.User{ID: "alice", Username: "alice"}

	tests := []struct {
		name      string
		setupMock func(m mockedService)
		wantErr   error
		wantCode  int
	}{
		{
			name: "room deactivated while waiting for the lock",
			setupMock: func(m mockedService) {
				m.roomRepo.EXPECT().GetForUpdateTx(gomock.Any(), gomock.Any(), roomFive).Return(roomModel.Room{ID: roomFive}, nil)
			},
			wantErr: roomModel.ErrRoomInactive,
		},
		{
			name: "user start index violation",
			setupMock: func(m mockedService) {
				m.roomRepo.EXPECT().GetForUpdateTx(gomock.Any(), gomock.Any(), roomFive).Return(activeRoom, nil)
				m.repo.EXPECT().ExistsForUserAtStartTx(gomock.Any(), gomock.Any(), "alice", at(10, 19)).Return(false, nil)
				m.repo.EXPECT().FindConflictingTx(gomock.Any(), gomock.Any(), roomFive, at(10, 19), at(10, 20)).Return(nil, nil)
				m.repo.EXPECT().InsertTx(gomock.Any(), gomock.Any(), gomock.Any()).
					Return(int64(0), &pq.Error{Code: constant.PqErrorCodeUniqueViolation, Constraint: model.ConstraintUserStart})
			},
			wantErr: model.ErrDoubleBooking,
		},
		{
			name: "room start index violation",
			setupMock: func(m mockedService) {
				m.roomRepo.EXPECT().GetForUpdateTx(gomock.Any(), gomock.Any(), roomFive).Return(activeRoom, nil)
				m.repo.EXPECT().ExistsForUserAtStartTx(gomock.Any(), gomock.Any(), "alice", gomock.Any()).Return(false, nil)
				m.repo.EXPECT().FindConflictingTx(gomock.Any(), gomock.Any(), roomFive, gomock.Any(), gomock.Any()).Return(nil, nil)
				m.repo.EXPECT().InsertTx(gomock.Any(), gomock.Any(), gomock.Any()).
					Return(int64(0), &pq.Error{Code: constant.PqErrorCodeUniqueViolation, Constraint: model.ConstraintRoomStart})
			},
			wantErr: model.ErrSlotTaken,
		},
		{
			name: "lock failure",
			setupMock: func(m mockedService) {
				m.roomRepo.EXPECT().GetForUpdateTx(gomock.Any(), gomock.Any(), roomFive).Return(roomModel.Room{}, errors.New("connection reset"))
			},
			wantCode: http.StatusInternalServerError,
		},
		{
			name: "insert failure",
			setupMock: func(m mockedService) {
				m.roomRepo.EXPECT().GetForUpdateTx(gomock.Any(), gomock.Any(), roomFive).Return(activeRoom, nil)
				m.repo.EXPECT().ExistsForUserAtStartTx(gomock.Any(), gomock.Any(), "alice", gomock.Any()).Return(false, nil)
				m.repo.EXPECT().FindConflictingTx(gomock.Any(), gomock.Any(), roomFive, gomock.Any(), gomock.Any()).Return(nil, nil)
				m.repo.EXPECT().InsertTx(gomock.Any(), gomock.Any(), gomock.Any()).Return(int64(0), errors.New("disk full"))
			},
			wantCode: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := newMockedService(t)
			m.userRepo.EXPECT().Get(gomock.Any(), "alice").Return(alice, nil)
			m.roomRepo.EXPECT().Get(gomock.Any(), roomFive).Return(activeRoom, nil)
			tt.setupMock(m)

			_, err := m.svc.CreateBooking(context.Background(), "alice", roomFive, 2)
			require.Error(t, err)

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				assert.Equal(t, tt.wantCode, failure.GetCode(err))
			}
		})
	}
}

func TestCancelBooking(t *testing.T) {
	tests := []struct {
		name    string
		actor   string
		admin   bool
		missing bool
		wantErr error
	}{
		{name: "owner", actor: "alice"},
		{name: "admin", actor: "carol", admin: true},
		{name: "someone else", actor: "bob", wantErr: model.ErrForbidden},
		{name: "unknown booking", actor: "alice", missing: true, wantErr: model.ErrBookingNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t, txMocks.NewTransactor())

			booking, err := f.svc.CreateBooking(context.Background(), "alice", roomFive, 1)
			require.NoError(t, err)

			id := booking.ID
			if tt.missing {
				id = 999
			}

			err = f.svc.CancelBooking(context.Background(), id, tt.actor, tt.admin)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Len(t, f.store.Bookings(), 1)

				return
			}

			require.NoError(t, err)
			assert.Empty(t, f.store.Bookings())
		})
	}
}

func TestListTodaySlots(t *testing.T) {
	f := newFixture(t, txMocks.NewTransactor())

	_, err := f.svc.CreateBooking(context.Background(), "alice", roomFive, 2)
	require.NoError(t, err)
	_, err = f.svc.CreateBooking(context.Background(), "bob", roomFive, 4)
	require.NoError(t, err)
	_, err = f.svc.CreateBooking(context.Background(), "carol", roomSeven, 1)
	require.NoError(t, err)
	f.store.AddBooking(model.Booking{RoomID: roomFive, UserID: "carol", StartAt: at(9, 18), EndAt: at(9, 19)})

	res, err := f.svc.ListTodaySlots(context.Background(), roomFive)
	require.NoError(t, err)

	assert.Equal(t, roomFive, res.Room.ID)
	assert.True(t, res.Room.Active)
	assert.Equal(t, "2025-03-10", res.Date)
	require.Len(t, res.Slots, 4)
	assert.Nil(t, res.Slots[1])
	assert.Nil(t, res.Slots[3])
	require.NotNil(t, res.Slots[2])
	require.NotNil(t, res.Slots[4])
	assert.Equal(t, "alice", res.Slots[2].UserID)
	assert.Equal(t, "bob", res.Slots[4].UserID)

	_, err = f.svc.ListTodaySlots(context.Background(), 404)
	assert.ErrorIs(t, err, roomModel.ErrRoomNotFound)
}

func TestCheckAvailability(t *testing.T) {
	f := newFixture(t, txMocks.NewTransactor())

	_, err := f.svc.CreateBooking(context.Background(), "alice", roomFive, 2)
	require.NoError(t, err)

	tests := []struct {
		name          string
		user          string
		room          int64
		slot          int
		wantAvailable bool
		wantHeld      bool
		wantHolding   bool
	}{
		{name: "free slot", user: "bob", room: roomFive, slot: 1, wantAvailable: true},
		{name: "taken by someone else", user: "bob", room: roomFive, slot: 2},
		{name: "held by caller", user: "alice", room: roomFive, slot: 2, wantHeld: true, wantHolding: true},
		{name: "caller busy elsewhere", user: "alice", room: roomSeven, slot: 2, wantHolding: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := f.svc.CheckAvailability(context.Background(), tt.user, tt.room, tt.slot)
			require.NoError(t, err)

			assert.Equal(t, tt.wantAvailable, res.Available)
			assert.Equal(t, tt.wantHeld, res.HeldByYou)
			assert.Equal(t, tt.wantHolding, res.HoldingAny)
			assert.True(t, res.RoomActive)
		})
	}

	_, err = f.svc.CheckAvailability(context.Background(), "bob", roomFive, 9)
	assert.ErrorIs(t, err, model.ErrInvalidSlot)
}

func TestGet(t *testing.T) {
	f := newFixture(t, txMocks.NewTransactor())

	booking, err := f.svc.CreateBooking(context.Background(), "alice", roomFive, 3)
	require.NoError(t, err)

	res, err := f.svc.Get(context.Background(), booking.ID, "alice", false)
	require.NoError(t, err)
	assert.Equal(t, 3, res.Slot)

	_, err = f.svc.Get(context.Background(), booking.ID, "bob", true)
	assert.NoError(t, err)

	_, err = f.svc.Get(context.Background(), booking.ID, "bob", false)
	assert.ErrorIs(t, err, model.ErrForbidden)

	_, err = f.svc.Get(context.Background(), 999, "alice", false)
	assert.ErrorIs(t, err, model.ErrBookingNotFound)
}

func TestGetAll(t *testing.T) {
	f := newFixture(t, txMocks.NewTransactor())

	_, err := f.svc.CreateBooking(context.Background(), "alice", roomFive, 1)
	require.NoError(t, err)
	_, err = f.svc.CreateBooking(context.Background(), "bob", roomFive, 2)
	require.NoError(t, err)

	res, err := f.svc.GetAll(context.Background(), gDto.QueryParams{Page: 1, Limit: 1}, gDto.FilterGroup{})
	require.NoError(t, err)

	assert.Equal(t, 2, res.TotalData)
	assert.Equal(t, 2, res.TotalPage)
	require.Len(t, res.Bookings, 2)
	assert.Equal(t, 1, res.Bookings[0].Slot)
	assert.Equal(t, 2, res.Bookings[1].Slot)
}
