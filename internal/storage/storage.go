package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/indatwa/events-api/internal/models"
)

// ErrNotFound indicates a record does not exist.
var ErrNotFound = errors.New("record not found")

// ErrAlreadyExists indicates a uniqueness conflict.
var ErrAlreadyExists = errors.New("record already exists")

// StoreError wraps a failure of the underlying database (connection loss,
// constraint or syntax errors other than the sentinels above).
type StoreError struct {
	Op  string
	Err error
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *StoreError) Unwrap() error {
	return e.Err
}

// Wrap returns err unchanged when it is nil or one of the sentinels and
// wraps it in a StoreError otherwise.
func Wrap(op string, err error) error {
	if err == nil || errors.Is(err, ErrNotFound) || errors.Is(err, ErrAlreadyExists) {
		return err
	}
	return &StoreError{Op: op, Err: err}
}

// UserStore captures persistence operations needed by the user and login handlers.
type UserStore interface {
	ListUsers(ctx context.Context) ([]models.User, error)
	CreateUser(ctx context.Context, user models.User) (models.User, error)
	FindByUsername(ctx context.Context, username string) (models.User, error)
	UpdateUser(ctx context.Context, id int64, update models.UserUpdate) (models.User, error)
	DeleteUser(ctx context.Context, id int64) error
	// SeedUser inserts the user unless the username is taken. It reports
	// whether a row was written.
	SeedUser(ctx context.Context, user models.User) (bool, error)
}

// BookingStore captures persistence operations for bookings.
type BookingStore interface {
	CreateBooking(ctx context.Context, fields models.BookingFields) (models.Booking, error)
	ListBookings(ctx context.Context) ([]models.Booking, error)
	GetBooking(ctx context.Context, id int64) (models.Booking, error)
	// UpdateBooking changes only the non-nil fields.
	UpdateBooking(ctx context.Context, id int64, fields models.BookingFields) (models.Booking, error)
	DeleteBooking(ctx context.Context, id int64) error
}

// Store is the full persistence surface with lifecycle hooks.
type Store interface {
	UserStore
	BookingStore
	Ping(ctx context.Context) error
	Close()
}
