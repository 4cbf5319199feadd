package postgres

import (
	"context"
	"errors"

	"github.com/indatwa/events-api/internal/models"
	"github.com/indatwa/events-api/internal/storage"
	"github.com/jackc/pgx/v5"
)

// Dates and times are rendered as text so they round-trip as submitted
// (YYYY-MM-DD, HH:MM:SS).
const bookingColumns = `id, name, email, phone, service, event_type,
	event_date::text, event_time::text, location, guests, duration, notes, created_at`

// CreateBooking inserts the row as given; nil fields are stored as NULL.
func (s *Store) CreateBooking(ctx context.Context, f models.BookingFields) (models.Booking, error) {
	const query = `
	INSERT INTO bookings (
		name, email, phone, service, event_type,
		event_date, event_time, location,
		guests, duration, notes
	) VALUES ($1, $2, $3, $4, $5, $6::text::date, $7::text::time, $8, $9, $10, $11)
	RETURNING ` + bookingColumns + `;`
	row := s.pool.QueryRow(ctx, query, bookingArgs(f)...)
	booking, err := scanBooking(row)
	return booking, storage.Wrap("create booking", err)
}

// ListBookings returns the whole table, newest first.
func (s *Store) ListBookings(ctx context.Context) ([]models.Booking, error) {
	const query = `SELECT ` + bookingColumns + ` FROM bookings ORDER BY created_at DESC, id DESC;`
	rows, err := s.pool.Query(ctx, query)
	if err != nil {
		return nil, storage.Wrap("list bookings", err)
	}
	defer rows.Close()

	bookings := []models.Booking{}
	for rows.Next() {
		booking, err := scanBooking(rows)
		if err != nil {
			return nil, storage.Wrap("list bookings", err)
		}
		bookings = append(bookings, booking)
	}
	if err := rows.Err(); err != nil {
		return nil, storage.Wrap("list bookings", err)
	}
	return bookings, nil
}

// GetBooking fetches a single booking.
func (s *Store) GetBooking(ctx context.Context, id int64) (models.Booking, error) {
	if outOfRange(id) {
		return models.Booking{}, storage.ErrNotFound
	}
	const query = `SELECT ` + bookingColumns + ` FROM bookings WHERE id = $1;`
	booking, err := scanBooking(s.pool.QueryRow(ctx, query, id))
	return booking, storage.Wrap("get booking", err)
}

// UpdateBooking merges the non-nil fields into the stored row in one statement.
func (s *Store) UpdateBooking(ctx context.Context, id int64, f models.BookingFields) (models.Booking, error) {
	if outOfRange(id) {
		return models.Booking{}, storage.ErrNotFound
	}
	const query = `
	UPDATE bookings SET
		name = COALESCE($1, name),
		email = COALESCE($2, email),
		phone = COALESCE($3, phone),
		service = COALESCE($4, service),
		event_type = COALESCE($5, event_type),
		event_date = COALESCE($6::text::date, event_date),
		event_time = COALESCE($7::text::time, event_time),
		location = COALESCE($8, location),
		guests = COALESCE($9, guests),
		duration = COALESCE($10, duration),
		notes = COALESCE($11, notes)
	WHERE id = $12
	RETURNING ` + bookingColumns + `;`
	args := append(bookingArgs(f), id)
	booking, err := scanBooking(s.pool.QueryRow(ctx, query, args...))
	return booking, storage.Wrap("update booking", err)
}

// DeleteBooking removes the row permanently.
func (s *Store) DeleteBooking(ctx context.Context, id int64) error {
	if outOfRange(id) {
		return storage.ErrNotFound
	}
	tag, err := s.pool.Exec(ctx, `DELETE FROM bookings WHERE id = $1;`, id)
	if err != nil {
		return storage.Wrap("delete booking", err)
	}
	if tag.RowsAffected() == 0 {
		return storage.ErrNotFound
	}
	return nil
}

func bookingArgs(f models.BookingFields) []any {
	return []any{
		f.Name, f.Email, f.Phone, f.Service, f.EventType,
		f.EventDate, f.EventTime, f.Location,
		f.Guests, f.Duration, f.Notes,
	}
}

func scanBooking(row pgx.Row) (models.Booking, error) {
	var b models.Booking
	err := row.Scan(
		&b.ID, &b.Name, &b.Email, &b.Phone, &b.Service, &b.EventType,
		&b.EventDate, &b.EventTime, &b.Location, &b.Guests, &b.Duration, &b.Notes, &b.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.Booking{}, storage.ErrNotFound
		}
		return models.Booking{}, err
	}
	return b, nil
}
