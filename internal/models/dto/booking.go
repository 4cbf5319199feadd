package dto

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/indatwa/events-api/internal/models"
)

// BookingRequest accepts both the form keys sent by the booking site
// (eventType, date, time) and the column names used in responses.
type BookingRequest struct {
	Name            *string     `json:"name"`
	Email           *string     `json:"email"`
	Phone           *string     `json:"phone"`
	Service         *string     `json:"service"`
	EventType       *string     `json:"eventType"`
	EventTypeColumn *string     `json:"event_type"`
	Date            *string     `json:"date"`
	EventDate       *string     `json:"event_date"`
	Time            *string     `json:"time"`
	EventTime       *string     `json:"event_time"`
	Location        *string     `json:"location"`
	Guests          FlexInt     `json:"guests"`
	Duration        *FlexString `json:"duration"`
	Notes           *string     `json:"notes"`
}

// Fields resolves key aliases into the store's field set for a new booking.
// Blank date and time values are treated as absent and times are stored as
// HH:MM:SS.
func (r BookingRequest) Fields() models.BookingFields {
	f := models.BookingFields{
		Name:      r.Name,
		Email:     r.Email,
		Phone:     r.Phone,
		Service:   r.Service,
		EventType: firstNonNil(r.EventType, r.EventTypeColumn),
		EventDate: nonBlank(firstNonNil(r.Date, r.EventDate)),
		EventTime: clock(nonBlank(firstNonNil(r.Time, r.EventTime))),
		Location:  r.Location,
		Notes:     r.Notes,
	}
	if r.Guests.Set {
		g := r.Guests.Value
		f.Guests = &g
	}
	if r.Duration != nil {
		d := string(*r.Duration)
		f.Duration = &d
	}
	return f
}

// UpdateFields is Fields for a merge: blank strings count as absent, so they
// keep the stored value instead of erasing it.
func (r BookingRequest) UpdateFields() models.BookingFields {
	f := r.Fields()
	for _, field := range []**string{
		&f.Name, &f.Email, &f.Phone, &f.Service, &f.EventType,
		&f.Location, &f.Duration, &f.Notes,
	} {
		if *field != nil && strings.TrimSpace(**field) == "" {
			*field = nil
		}
	}
	return f
}

func firstNonNil(values ...*string) *string {
	for _, v := range values {
		if v != nil {
			return v
		}
	}
	return nil
}

func nonBlank(v *string) *string {
	if v == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*v)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}

// clock widens HH:MM to HH:MM:SS. Anything else is left for validation.
func clock(v *string) *string {
	if v == nil {
		return nil
	}
	if t, err := time.Parse("15:04", *v); err == nil {
		formatted := t.Format("15:04:05")
		return &formatted
	}
	return v
}

// FlexString decodes from a JSON string or number.
type FlexString string

func (s *FlexString) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '"' {
		var str string
		if err := json.Unmarshal(data, &str); err != nil {
			return err
		}
		*s = FlexString(str)
		return nil
	}
	var num json.Number
	if err := json.Unmarshal(data, &num); err != nil {
		return fmt.Errorf("duration must be a string or number")
	}
	*s = FlexString(num.String())
	return nil
}

// FlexInt decodes from a JSON integer or a string holding one. Null and
// blank strings leave Set false.
type FlexInt struct {
	Value int
	Set   bool
}

func (n *FlexInt) UnmarshalJSON(data []byte) error {
	raw := string(bytes.TrimSpace(data))
	if raw == "null" {
		return nil
	}
	if strings.HasPrefix(raw, `"`) {
		if err := json.Unmarshal(data, &raw); err != nil {
			return err
		}
		raw = strings.TrimSpace(raw)
		if raw == "" {
			return nil
		}
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return fmt.Errorf("guests must be a whole number")
	}
	n.Value, n.Set = v, true
	return nil
}
