package models

import "time"

// Booking is a client's event reservation as stored. Every column except id
// and created_at is nullable.
type Booking struct {
	ID        int64     `json:"id"`
	Name      *string   `json:"name"`
	Email     *string   `json:"email"`
	Phone     *string   `json:"phone"`
	Service   *string   `json:"service"`
	EventType *string   `json:"event_type"`
	EventDate *string   `json:"event_date"`
	EventTime *string   `json:"event_time"`
	Location  *string   `json:"location"`
	Guests    *int      `json:"guests"`
	Duration  *string   `json:"duration"`
	Notes     *string   `json:"notes"`
	CreatedAt time.Time `json:"created_at"`
}

// BookingFields carries the writable booking columns. On create, nil means
// NULL. On update, nil means "leave unchanged". Only values the store would
// reject are validated.
type BookingFields struct {
	Name      *string `json:"name"`
	Email     *string `json:"email"`
	Phone     *string `json:"phone"`
	Service   *string `json:"service"`
	EventType *string `json:"event_type"`
	EventDate *string `json:"event_date" validate:"omitempty,datetime=2006-01-02"`
	EventTime *string `json:"event_time" validate:"omitempty,clock"`
	Location  *string `json:"location"`
	Guests    *int    `json:"guests" validate:"omitempty,min=0,max=1000000"`
	Duration  *string `json:"duration"`
	Notes     *string `json:"notes"`
}
