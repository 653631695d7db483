package mocks

import (
	"context"
	"slices"
	"sync"
	"time"

	"campus/internal/domains/booking/model"
	"campus/internal/domains/booking/repository"
	roomModel "campus/internal/domains/room/model"
	roomRepo "campus/internal/domains/room/repository"
	userModel "campus/internal/domains/user/model"
	userRepo "campus/internal/domains/user/repository"
	"campus/shared/constant"
	gDto "campus/shared/dto"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

// Store keeps users, rooms and bookings in memory and enforces the same unique indexes as
// the room_bookings table. Pair it with a serial transactor to model the room row lock.
// List filters are not interpreted.
type Store struct {
	mu       sync.Mutex
	nextID   int64
	bookings map[int64]model.Booking
	rooms    map[int64]roomModel.Room
	users    map[string]userModel.User
}

func NewStore() *Store {
	return &Store{
		bookings: map[int64]model.Booking{},
		rooms:    map[int64]roomModel.Room{},
		users:    map[string]userModel.User{},
	}
}

func (s *Store) AddUser(user userModel.User) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.users[user.ID] = user
}

func (s *Store) AddRoom(room roomModel.Room) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.rooms[room.ID] = room
}

func (s *Store) Room(id int64) roomModel.Room {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.rooms[id]
}

// AddBooking seeds a booking without any checks and returns its id.
func (s *Store) AddBooking(booking model.Booking) int64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.nextID++
	booking.ID = s.nextID
	s.bookings[booking.ID] = booking

	return booking.ID
}

// Bookings returns every stored booking ordered by id.
func (s *Store) Bookings() []model.Booking {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.sorted(func(model.Booking) bool { return true })
}

func (s *Store) BookingRepository() repository.Booking {
	return &bookingStore{s}
}

func (s *Store) RoomRepository() roomRepo.Room {
	return &roomStore{s}
}

func (s *Store) UserRepository() userRepo.User {
	return &userStore{s}
}

func (s *Store) sorted(keep func(model.Booking) bool) []model.Booking {
	res := []model.Booking{}

	for _, booking := range s.bookings {
		if keep(booking) {
			user := s.users[booking.UserID]
			booking.Username = user.Username
			booking.DisplayName = user.DisplayName
			res = append(res, booking)
		}
	}

	slices.SortFunc(res, func(a, b model.Booking) int {
		return int(a.ID - b.ID)
	})

	return res
}

type bookingStore struct {
	*Store
}

func (s *bookingStore) InsertTx(_ context.Context, _ *sqlx.Tx, booking model.Booking) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, existing := range s.bookings {
		if !existing.StartAt.Equal(booking.StartAt) {
			continue
		}

		if existing.RoomID == booking.RoomID {
			return 0, &pq.Error{Code: constant.PqErrorCodeUniqueViolation, Constraint: model.ConstraintRoomStart}
		}

		if existing.UserID == booking.UserID {
			return 0, &pq.Error{Code: constant.PqErrorCodeUniqueViolation, Constraint: model.ConstraintUserStart}
		}
	}

	s.nextID++
	booking.ID = s.nextID
	s.bookings[booking.ID] = booking

	return booking.ID, nil
}

func (s *bookingStore) Get(_ context.Context, id int64) (model.Booking, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	found := s.sorted(func(b model.Booking) bool { return b.ID == id })
	if len(found) == 0 {
		return model.Booking{}, nil
	}

	return found[0], nil
}

func (s *bookingStore) GetAll(_ context.Context, _ gDto.QueryParams, _ gDto.FilterGroup) ([]model.Booking, error) {
	return s.Bookings(), nil
}

func (s *bookingStore) Count(_ context.Context, _ gDto.FilterGroup) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return len(s.bookings), nil
}

func (s *bookingStore) FindConflicting(_ context.Context, roomID int64, start, end time.Time) ([]model.Booking, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.sorted(func(b model.Booking) bool {
		return b.RoomID == roomID && b.StartAt.Before(end) && b.EndAt.After(start)
	}), nil
}

func (s *bookingStore) FindConflictingTx(ctx context.Context, _ *sqlx.Tx, roomID int64, start, end time.Time) ([]model.Booking, error) {
	return s.FindConflicting(ctx, roomID, start, end)
}

func (s *bookingStore) ExistsForUserAtStart(_ context.Context, userID string, start time.Time) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return len(s.sorted(func(b model.Booking) bool {
		return b.UserID == userID && b.StartAt.Equal(start)
	})) > 0, nil
}

func (s *bookingStore) ExistsForUserAtStartTx(ctx context.Context, _ *sqlx.Tx, userID string, start time.Time) (bool, error) {
	return s.ExistsForUserAtStart(ctx, userID, start)
}

func (s *bookingStore) FindByRoomAndDateRange(_ context.Context, roomID int64, from, to time.Time) ([]model.Booking, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.sorted(func(b model.Booking) bool {
		return b.RoomID == roomID && !b.StartAt.Before(from) && b.StartAt.Before(to)
	}), nil
}

func (s *bookingStore) ExistsFutureForRoomTx(_ context.Context, _ *sqlx.Tx, roomID int64, after time.Time) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return len(s.sorted(func(b model.Booking) bool {
		return b.RoomID == roomID && b.EndAt.After(after)
	})) > 0, nil
}

func (s *bookingStore) DeleteBefore(_ context.Context, instant time.Time) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var deleted int64

	for id, booking := range s.bookings {
		if booking.EndAt.Before(instant) {
			delete(s.bookings, id)
			deleted++
		}
	}

	return deleted, nil
}

func (s *bookingStore) Delete(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.bookings, id)

	return nil
}

type roomStore struct {
	*Store
}

func (s *roomStore) Insert(_ context.Context, room roomModel.Room) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	room.ID = int64(len(s.rooms) + 1)
	s.rooms[room.ID] = room

	return room.ID, nil
}

func (s *roomStore) Get(_ context.Context, id int64) (roomModel.Room, error) {
	return s.Room(id), nil
}

func (s *roomStore) GetForUpdateTx(ctx context.Context, _ *sqlx.Tx, id int64) (roomModel.Room, error) {
	return s.Get(ctx, id)
}

func (s *roomStore) GetAll(_ context.Context, _ gDto.QueryParams, _ gDto.FilterGroup) ([]roomModel.Room, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	res := make([]roomModel.Room, 0, len(s.rooms))
	for _, room := range s.rooms {
		res = append(res, room)
	}

	slices.SortFunc(res, func(a, b roomModel.Room) int {
		return int(a.ID - b.ID)
	})

	return res, nil
}

func (s *roomStore) Count(_ context.Context, _ gDto.FilterGroup) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return len(s.rooms), nil
}

func (s *roomStore) SetActiveTx(_ context.Context, _ *sqlx.Tx, id int64, active bool, user string, at time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	room, ok := s.rooms[id]
	if !ok {
		return nil
	}

	room.Active = active
	room.ModifiedBy = user
	room.ModifiedAt = at
	s.rooms[id] = room

	return nil
}

type userStore struct {
	*Store
}

func (s *userStore) Get(_ context.Context, id string) (userModel.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.users[id], nil
}
