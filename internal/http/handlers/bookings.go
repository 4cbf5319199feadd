package handlers

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/indatwa/events-api/internal/http/respond"
	"github.com/indatwa/events-api/internal/models/dto"
	"github.com/indatwa/events-api/internal/storage"
)

const msgBookingNotFound = "Booking not found"

// BookingHandler serves CRUD over bookings. There is no ownership model: any
// caller may read or change any booking.
type BookingHandler struct {
	store    storage.BookingStore
	validate *requestValidator
	deps     Deps
}

func NewBookingHandler(store storage.BookingStore, deps Deps) *BookingHandler {
	return &BookingHandler{store: store, validate: newRequestValidator(), deps: deps}
}

// Routes mounts the handler under the caller's /bookings prefix.
func (h *BookingHandler) Routes(r chi.Router) {
	r.Post("/", h.handleCreate)
	r.Get("/", h.handleList)
	r.Get("/{id}", h.handleGet)
	r.Put("/{id}", h.handleUpdate)
	r.Patch("/{id}", h.handleUpdate)
	r.Delete("/{id}", h.handleDelete)
}

func (h *BookingHandler) handleCreate(w http.ResponseWriter, r *http.Request) {
	var req dto.BookingRequest
	if err := decodeJSON(w, r, &req); err != nil {
		respond.Error(w, http.StatusBadRequest, msgInvalidJSON)
		return
	}
	fields := req.Fields()
	if err := h.validate.Validate(fields); err != nil {
		respond.Error(w, http.StatusBadRequest, validationMessage(err, msgInvalidJSON))
		return
	}

	created, err := h.store.CreateBooking(r.Context(), fields)
	if err != nil {
		h.deps.storeFailure(w, r, "create booking", err, "Booking creation failed. Please try again.")
		return
	}
	h.deps.Metrics.BookingsCreatedTotal.Inc()
	respond.JSON(w, http.StatusCreated, created)
}

func (h *BookingHandler) handleList(w http.ResponseWriter, r *http.Request) {
	bookings, err := h.store.ListBookings(r.Context())
	if err != nil {
		h.deps.storeFailure(w, r, "list bookings", err, "Failed to fetch bookings.")
		return
	}
	respond.JSON(w, http.StatusOK, bookings)
}

func (h *BookingHandler) handleGet(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(r)
	if !ok {
		respond.Error(w, http.StatusNotFound, msgBookingNotFound)
		return
	}
	booking, err := h.store.GetBooking(r.Context(), id)
	switch {
	case errors.Is(err, storage.ErrNotFound):
		respond.Error(w, http.StatusNotFound, msgBookingNotFound)
	case err != nil:
		h.deps.storeFailure(w, r, "get booking", err, "Failed to fetch booking.")
	default:
		respond.JSON(w, http.StatusOK, booking)
	}
}

// handleUpdate merges the supplied fields; omitted, null or blank fields keep
// their stored values.
func (h *BookingHandler) handleUpdate(w http.ResponseWriter, r *http.Request) {
	var req dto.BookingRequest
	if err := decodeJSON(w, r, &req); err != nil {
		respond.Error(w, http.StatusBadRequest, msgInvalidJSON)
		return
	}
	fields := req.UpdateFields()
	if err := h.validate.Validate(fields); err != nil {
		respond.Error(w, http.StatusBadRequest, validationMessage(err, msgInvalidJSON))
		return
	}
	id, ok := idParam(r)
	if !ok {
		respond.Error(w, http.StatusNotFound, msgBookingNotFound)
		return
	}

	updated, err := h.store.UpdateBooking(r.Context(), id, fields)
	switch {
	case errors.Is(err, storage.ErrNotFound):
		respond.Error(w, http.StatusNotFound, msgBookingNotFound)
	case err != nil:
		h.deps.storeFailure(w, r, "update booking", err, "Failed to update booking.")
	default:
		respond.JSON(w, http.StatusOK, updated)
	}
}

func (h *BookingHandler) handleDelete(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(r)
	if !ok {
		respond.Error(w, http.StatusNotFound, msgBookingNotFound)
		return
	}
	err := h.store.DeleteBooking(r.Context(), id)
	switch {
	case errors.Is(err, storage.ErrNotFound):
		respond.Error(w, http.StatusNotFound, msgBookingNotFound)
	case err != nil:
		h.deps.storeFailure(w, r, "delete booking", err, "Failed to delete booking.")
	default:
		respond.OK(w, "Booking deleted successfully")
	}
}
