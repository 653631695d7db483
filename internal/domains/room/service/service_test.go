package service_test

import (
	"context"
	"errors"
	"mime/multipart"
	"strings"
	"testing"
	"time"

	"campus/config"
	otelMocks "campus/infras/otel/mocks"
	txMocks "campus/infras/postgres/mocks"
	"campus/infras/s3"
	s3Mocks "campus/infras/s3/mocks"
	bookingMocks "campus/internal/domains/booking/mocks"
	bookingModel "campus/internal/domains/booking/model"
	"campus/internal/domains/room/mocks"
	"campus/internal/domains/room/model"
	"campus/internal/domains/room/model/dto"
	"campus/internal/domains/room/service"
	cacheMocks "campus/shared/cache/mocks"
	"campus/shared/constant"
	gDto "campus/shared/dto"
	"campus/shared/event"
	eventMocks "campus/shared/event/mocks"
	"campus/shared/timezone"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func now() time.Time {
	return time.Date(2025, 3, 10, 9, 30, 0, 0, timezone.GetLocation())
}

func newConfig() *config.Config {
	cfg := &config.Config{}
	cfg.Cache.TTL = 60
	cfg.Events.TimeoutSecs = 1

	return cfg
}

func newCache(t *testing.T) *cacheMocks.MockRedisCache {
	t.Helper()

	mockCache := cacheMocks.NewMockRedisCache(gomock.NewController(t))
	mockCache.EXPECT().Get(gomock.Any(), gomock.Any(), gomock.Any()).Return(errors.New("cache miss")).AnyTimes()
	mockCache.EXPECT().Save(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
	mockCache.EXPECT().Delete(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
	mockCache.EXPECT().Clear(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()

	return mockCache
}

func withUser(user string) context.Context {
	return context.WithValue(context.Background(), constant.ContextKeyUserID, user)
}

func TestCreate(t *testing.T) {
	t.Run("defaults to active without an image", func(t *testing.T) {
		store := bookingMocks.NewStore()
		svc := service.New(store.RoomRepository(), newConfig(), newCache(t), otelMocks.NewOtel(), nil, timezone.NewFixedClock(now()))

		res, err := svc.Create(withUser("admin"), dto.CreateRoomRequest{
			Name:     "Lecture Hall A",
			Type:     model.RoomTypeClassroom,
			Location: "Building 1",
			Capacity: 40,
		})
		require.NoError(t, err)

		assert.NotZero(t, res.ID)
		assert.True(t, res.Active)
		assert.Empty(t, res.Image)

		stored := store.Room(res.ID)
		assert.Equal(t, "Lecture Hall A", stored.Name)
		assert.Equal(t, "admin", stored.CreatedBy)
		assert.True(t, stored.CreatedAt.Equal(now()))
	})

	t.Run("uploads image", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		mockS3 := s3Mocks.NewMockS3(ctrl)
		store := bookingMocks.NewStore()
		inactive := false

		mockS3.EXPECT().Upload(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, object s3.Object) (string, error) {
				assert.Equal(t, model.EntityName, object.Directory)
				assert.True(t, strings.HasSuffix(object.Name, ".png"))
				assert.Equal(t, "image/png", object.ContentType)

				return "https://cdn.example.com/" + object.Key(), nil
			})

		svc := service.New(store.RoomRepository(), newConfig(), newCache(t), otelMocks.NewOtel(), mockS3, timezone.NewFixedClock(now()))

		res, err := svc.Create(withUser("admin"), dto.CreateRoomRequest{
			Name:             "Study Pod",
			Type:             model.RoomTypeStudyRoom,
			Active:           &inactive,
			Image:            &multipart.FileHeader{Filename: "pod.png"},
			ImageContentType: "image/png",
			ImageSize:        1024,
		})
		require.NoError(t, err)

		assert.False(t, res.Active)
		assert.True(t, strings.HasPrefix(res.Image, "https://cdn.example.com/room/"))
	})

	t.Run("removes uploaded image when insert fails", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		mockS3 := s3Mocks.NewMockS3(ctrl)
		repo := mocks.NewMockRoom(ctrl)

		var uploadedKey string

		mockS3.EXPECT().Upload(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, object s3.Object) (string, error) {
				uploadedKey = object.Key()

				return "https://cdn.example.com/" + uploadedKey, nil
			})
		repo.EXPECT().Insert(gomock.Any(), gomock.Any()).Return(int64(0), errors.New("connection reset"))
		mockS3.EXPECT().Delete(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, key string) error {
				assert.Equal(t, uploadedKey, key)

				return nil
			})

		svc := service.New(repo, newConfig(), newCache(t), otelMocks.NewOtel(), mockS3, timezone.NewFixedClock(now()))

		_, err := svc.Create(withUser("admin"), dto.CreateRoomRequest{
			Name:  "Meeting Room",
			Type:  model.RoomTypeMeeting,
			Image: &multipart.FileHeader{Filename: "room.jpg"},
		})
		assert.ErrorContains(t, err, "failed to create room")
	})

	t.Run("upload failure skips insert", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		mockS3 := s3Mocks.NewMockS3(ctrl)
		repo := mocks.NewMockRoom(ctrl)

		mockS3.EXPECT().Upload(gomock.Any(), gomock.Any()).Return("", errors.New("bucket unavailable"))

		svc := service.New(repo, newConfig(), newCache(t), otelMocks.NewOtel(), mockS3, timezone.NewFixedClock(now()))

		_, err := svc.Create(withUser("admin"), dto.CreateRoomRequest{
			Name:  "Meeting Room",
			Type:  model.RoomTypeMeeting,
			Image: &multipart.FileHeader{Filename: "room.jpg"},
		})
		assert.ErrorContains(t, err, "failed to upload image")
	})
}

func TestGet(t *testing.T) {
	store := bookingMocks.NewStore()
	store.AddRoom(model.Room{ID: 5, Name: "Room 5", Type: model.RoomTypeClassroom, Active: false})

	svc := service.New(store.RoomRepository(), newConfig(), newCache(t), otelMocks.NewOtel(), nil, timezone.NewFixedClock(now()))

	res, err := svc.Get(context.Background(), 5)
	require.NoError(t, err)
	assert.Equal(t, "Room 5", res.Name)
	assert.False(t, res.Active)

	_, err = svc.Get(context.Background(), 6)
	assert.ErrorIs(t, err, model.ErrRoomNotFound)
}

func TestGet_CacheHit(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := mocks.NewMockRoom(ctrl)
	mockCache := cacheMocks.NewMockRedisCache(ctrl)

	mockCache.EXPECT().Get(gomock.Any(), "room:get:5", gomock.Any()).
		DoAndReturn(func(_ context.Context, _ string, value any) error {
			*value.(*dto.RoomResponse) = dto.RoomResponse{ID: 5, Name: "cached"}

			return nil
		})

	svc := service.New(repo, newConfig(), mockCache, otelMocks.NewOtel(), nil, timezone.NewFixedClock(now()))

	res, err := svc.Get(context.Background(), 5)
	require.NoError(t, err)
	assert.Equal(t, "cached", res.Name)
}

func TestGetAll(t *testing.T) {
	store := bookingMocks.NewStore()
	store.AddRoom(model.Room{ID: 1, Name: "Active", Active: true})
	store.AddRoom(model.Room{ID: 2, Name: "Inactive", Active: false})

	svc := service.New(store.RoomRepository(), newConfig(), newCache(t), otelMocks.NewOtel(), nil, timezone.NewFixedClock(now()))

	res, err := svc.GetAll(context.Background(), gDto.QueryParams{Limit: 10, Page: 1}, gDto.FilterGroup{})
	require.NoError(t, err)

	assert.Equal(t, 2, res.TotalData)
	assert.Equal(t, 1, res.TotalPage)
	require.Len(t, res.Rooms, 2)
	assert.False(t, res.Rooms[1].Active)
}

type adminFixture struct {
	store     *bookingMocks.Store
	admin     service.Admin
	publisher *eventMocks.Recorder
}

func newAdmin(t *testing.T) adminFixture {
	t.Helper()

	store := bookingMocks.NewStore()
	store.AddRoom(model.Room{ID: 5, Name: "Room 5", Type: model.RoomTypeClassroom, Active: true})

	publisher := eventMocks.NewRecorder()
	admin := service.NewAdmin(store.RoomRepository(), store.BookingRepository(), txMocks.NewSerialTransactor(),
		newConfig(), newCache(t), publisher, otelMocks.NewOtel(), timezone.NewFixedClock(now()))

	return adminFixture{store: store, admin: admin, publisher: publisher}
}

func TestToggleActive(t *testing.T) {
	t.Run("round trip without bookings", func(t *testing.T) {
		f := newAdmin(t)

		res, err := f.admin.ToggleActive(withUser("admin"), 5)
		require.NoError(t, err)
		assert.Equal(t, dto.NewToggleActiveResponse(5, false), res)
		assert.False(t, f.store.Room(5).Active)
		assert.Equal(t, "admin", f.store.Room(5).ModifiedBy)

		res, err = f.admin.ToggleActive(withUser("admin"), 5)
		require.NoError(t, err)
		assert.True(t, res.Active)
		assert.Equal(t, dto.MessageRoomActivated, res.Message)
		assert.True(t, f.store.Room(5).Active)

		assert.Eventually(t, func() bool {
			return len(f.publisher.Topics()) == 2
		}, time.Second, 10*time.Millisecond)
		assert.Equal(t, []string{event.TopicRoomStatusChanged, event.TopicRoomStatusChanged}, f.publisher.Topics())
	})

	t.Run("refuses deactivation with upcoming booking", func(t *testing.T) {
		f := newAdmin(t)
		f.store.AddBooking(bookingModel.Booking{
			RoomID:  5,
			UserID:  "alice",
			StartAt: now().Add(9 * time.Hour),
			EndAt:   now().Add(10 * time.Hour),
		})

		_, err := f.admin.ToggleActive(withUser("admin"), 5)
		assert.ErrorIs(t, err, model.ErrRoomHasFutureBookings)
		assert.True(t, f.store.Room(5).Active)
	})

	t.Run("ignores bookings that already ended", func(t *testing.T) {
		f := newAdmin(t)
		f.store.AddBooking(bookingModel.Booking{
			RoomID:  5,
			UserID:  "alice",
			StartAt: now().Add(-2 * time.Hour),
			EndAt:   now().Add(-time.Hour),
		})

		res, err := f.admin.ToggleActive(withUser("admin"), 5)
		require.NoError(t, err)
		assert.False(t, res.Active)
	})

	t.Run("activation is not guarded", func(t *testing.T) {
		f := newAdmin(t)
		f.store.AddRoom(model.Room{ID: 6, Name: "Room 6", Active: false})
		f.store.AddBooking(bookingModel.Booking{
			RoomID:  6,
			UserID:  "alice",
			StartAt: now().Add(9 * time.Hour),
			EndAt:   now().Add(10 * time.Hour),
		})

		res, err := f.admin.ToggleActive(withUser("admin"), 6)
		require.NoError(t, err)
		assert.True(t, res.Active)
	})

	t.Run("unknown room", func(t *testing.T) {
		f := newAdmin(t)

		_, err := f.admin.ToggleActive(withUser("admin"), 99)
		assert.ErrorIs(t, err, model.ErrRoomNotFound)

		time.Sleep(20 * time.Millisecond)
		assert.Empty(t, f.publisher.Topics())
	})

	t.Run("lock failure", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		repo := mocks.NewMockRoom(ctrl)
		repo.EXPECT().GetForUpdateTx(gomock.Any(), gomock.Any(), int64(5)).Return(model.Room{}, errors.New("deadlock detected"))

		admin := service.NewAdmin(repo, bookingMocks.NewMockBooking(ctrl), txMocks.NewTransactor(),
			newConfig(), newCache(t), eventMocks.NewRecorder(), otelMocks.NewOtel(), timezone.NewFixedClock(now()))

		_, err := admin.ToggleActive(context.Background(), 5)
		assert.ErrorContains(t, err, "failed to lock room")
	})
}
