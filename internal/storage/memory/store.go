// Package memory is a process-local storage.Store. It mirrors the Postgres
// store's semantics (unique usernames, newest-first ordering, merge updates)
// and backs tests and STORAGE_DRIVER=memory.
package memory

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/indatwa/events-api/internal/models"
	"github.com/indatwa/events-api/internal/storage"
)

var _ storage.Store = (*Store)(nil)

type Store struct {
	mu       sync.RWMutex
	now      func() time.Time
	userSeq  int64
	users    map[int64]models.User
	bookSeq  int64
	bookings map[int64]models.Booking
}

// New returns an empty store stamping rows with the wall clock.
func New() *Store {
	return NewWithClock(time.Now)
}

// NewWithClock lets tests control created_at.
func NewWithClock(now func() time.Time) *Store {
	return &Store{
		now:      now,
		users:    map[int64]models.User{},
		bookings: map[int64]models.Booking{},
	}
}

func (s *Store) Ping(context.Context) error { return nil }

func (s *Store) Close() {}

func (s *Store) ListUsers(context.Context) ([]models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.User, 0, len(s.users))
	for _, u := range s.users {
		out = append(out, u)
	}
	sort.Slice(out, func(i, j int) bool {
		return newer(out[i].CreatedAt, out[i].ID, out[j].CreatedAt, out[j].ID)
	})
	return out, nil
}

func (s *Store) CreateUser(_ context.Context, user models.User) (models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.usernameTaken(user.Username, 0) {
		return models.User{}, storage.ErrAlreadyExists
	}
	s.userSeq++
	user.ID = s.userSeq
	user.CreatedAt = s.now()
	s.users[user.ID] = user
	return user, nil
}

func (s *Store) FindByUsername(_ context.Context, username string) (models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, u := range s.users {
		if u.Username == username {
			return u, nil
		}
	}
	return models.User{}, storage.ErrNotFound
}

func (s *Store) UpdateUser(_ context.Context, id int64, update models.UserUpdate) (models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	user, ok := s.users[id]
	if !ok {
		return models.User{}, storage.ErrNotFound
	}
	if s.usernameTaken(update.Username, id) {
		return models.User{}, storage.ErrAlreadyExists
	}
	user.Username = update.Username
	user.Role = update.Role
	if update.PasswordHash != nil {
		user.PasswordHash = *update.PasswordHash
	}
	s.users[id] = user
	return user, nil
}

func (s *Store) DeleteUser(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.users[id]; !ok {
		return storage.ErrNotFound
	}
	delete(s.users, id)
	return nil
}

func (s *Store) SeedUser(ctx context.Context, user models.User) (bool, error) {
	if _, err := s.CreateUser(ctx, user); err != nil {
		if errors.Is(err, storage.ErrAlreadyExists) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// usernameTaken must be called with the lock held.
func (s *Store) usernameTaken(username string, exceptID int64) bool {
	for id, u := range s.users {
		if id != exceptID && u.Username == username {
			return true
		}
	}
	return false
}

func (s *Store) CreateBooking(_ context.Context, f models.BookingFields) (models.Booking, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.bookSeq++
	b := models.Booking{ID: s.bookSeq, CreatedAt: s.now()}
	merge(&b, f)
	s.bookings[b.ID] = b
	return b, nil
}

func (s *Store) ListBookings(context.Context) ([]models.Booking, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.Booking, 0, len(s.bookings))
	for _, b := range s.bookings {
		out = append(out, b)
	}
	sort.Slice(out, func(i, j int) bool {
		return newer(out[i].CreatedAt, out[i].ID, out[j].CreatedAt, out[j].ID)
	})
	return out, nil
}

func (s *Store) GetBooking(_ context.Context, id int64) (models.Booking, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	b, ok := s.bookings[id]
	if !ok {
		return models.Booking{}, storage.ErrNotFound
	}
	return b, nil
}

func (s *Store) UpdateBooking(_ context.Context, id int64, f models.BookingFields) (models.Booking, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	b, ok := s.bookings[id]
	if !ok {
		return models.Booking{}, storage.ErrNotFound
	}
	merge(&b, f)
	s.bookings[id] = b
	return b, nil
}

func (s *Store) DeleteBooking(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.bookings[id]; !ok {
		return storage.ErrNotFound
	}
	delete(s.bookings, id)
	return nil
}

// merge copies every non-nil field, matching COALESCE($n, col) in SQL.
func merge(b *models.Booking, f models.BookingFields) {
	set(&b.Name, f.Name)
	set(&b.Email, f.Email)
	set(&b.Phone, f.Phone)
	set(&b.Service, f.Service)
	set(&b.EventType, f.EventType)
	set(&b.EventDate, f.EventDate)
	set(&b.EventTime, f.EventTime)
	set(&b.Location, f.Location)
	set(&b.Guests, f.Guests)
	set(&b.Duration, f.Duration)
	set(&b.Notes, f.Notes)
}

func set[T any](dst **T, src *T) {
	if src != nil {
		v := *src
		*dst = &v
	}
}

func newer(at time.Time, id int64, otherAt time.Time, otherID int64) bool {
	if !at.Equal(otherAt) {
		return at.After(otherAt)
	}
	return id > otherID
}
