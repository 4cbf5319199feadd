package handlers

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/indatwa/events-api/internal/auth"
	"github.com/indatwa/events-api/internal/http/respond"
	"github.com/indatwa/events-api/internal/models"
	"github.com/indatwa/events-api/internal/models/dto"
	"github.com/indatwa/events-api/internal/storage"
)

const msgUserNotFound = "User not found"

// UserHandler manages accounts. Username uniqueness is enforced by the store;
// a conflict on insert or update is reported as 409.
type UserHandler struct {
	store    storage.UserStore
	hasher   *auth.PasswordHasher
	validate *requestValidator
	deps     Deps
}

func NewUserHandler(store storage.UserStore, hasher *auth.PasswordHasher, deps Deps) *UserHandler {
	return &UserHandler{store: store, hasher: hasher, validate: newRequestValidator(), deps: deps}
}

// Routes mounts the handler under the caller's /users prefix.
func (h *UserHandler) Routes(r chi.Router) {
	r.Get("/", h.handleList)
	r.Post("/", h.handleCreate)
	r.Put("/{id}", h.handleUpdate)
	r.Delete("/{id}", h.handleDelete)
}

func (h *UserHandler) handleList(w http.ResponseWriter, r *http.Request) {
	users, err := h.store.ListUsers(r.Context())
	if err != nil {
		h.deps.storeFailure(w, r, "list users", err, "Failed to fetch users.")
		return
	}
	respond.JSON(w, http.StatusOK, users)
}

func (h *UserHandler) handleCreate(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateUserRequest
	if err := decodeJSON(w, r, &req); err != nil {
		respond.Error(w, http.StatusBadRequest, msgInvalidJSON)
		return
	}
	req.Normalize()
	if err := h.validate.Validate(req); err != nil {
		respond.Error(w, http.StatusBadRequest, validationMessage(err, "Username, password, and role are required."))
		return
	}

	hash, err := h.hasher.Hash(req.Password)
	if err != nil {
		h.deps.Logger.Error().Err(err).Msg("hash password")
		respond.Error(w, http.StatusInternalServerError, "Failed to create user.")
		return
	}
	created, err := h.store.CreateUser(r.Context(), models.User{
		Username:     req.Username,
		Role:         req.Role,
		PasswordHash: hash,
	})
	switch {
	case errors.Is(err, storage.ErrAlreadyExists):
		respond.Error(w, http.StatusConflict, "Username already exists.")
	case err != nil:
		h.deps.storeFailure(w, r, "create user", err, "Failed to create user.")
	default:
		respond.JSON(w, http.StatusCreated, created)
	}
}

func (h *UserHandler) handleUpdate(w http.ResponseWriter, r *http.Request) {
	var req dto.UpdateUserRequest
	if err := decodeJSON(w, r, &req); err != nil {
		respond.Error(w, http.StatusBadRequest, msgInvalidJSON)
		return
	}
	req.Normalize()
	if err := h.validate.Validate(req); err != nil {
		respond.Error(w, http.StatusBadRequest, validationMessage(err, "Username and role are required."))
		return
	}
	id, ok := idParam(r)
	if !ok {
		respond.Error(w, http.StatusNotFound, msgUserNotFound)
		return
	}

	update := models.UserUpdate{Username: req.Username, Role: req.Role}
	if req.Password != "" {
		hash, err := h.hasher.Hash(req.Password)
		if err != nil {
			h.deps.Logger.Error().Err(err).Msg("hash password")
			respond.Error(w, http.StatusInternalServerError, "Failed to update user.")
			return
		}
		update.PasswordHash = &hash
	}

	updated, err := h.store.UpdateUser(r.Context(), id, update)
	switch {
	case errors.Is(err, storage.ErrNotFound):
		respond.Error(w, http.StatusNotFound, msgUserNotFound)
	case errors.Is(err, storage.ErrAlreadyExists):
		respond.Error(w, http.StatusConflict, "Username already taken by another user.")
	case err != nil:
		h.deps.storeFailure(w, r, "update user", err, "Failed to update user.")
	default:
		respond.JSON(w, http.StatusOK, updated)
	}
}

func (h *UserHandler) handleDelete(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(r)
	if !ok {
		respond.Error(w, http.StatusNotFound, msgUserNotFound)
		return
	}
	err := h.store.DeleteUser(r.Context(), id)
	switch {
	case errors.Is(err, storage.ErrNotFound):
		respond.Error(w, http.StatusNotFound, msgUserNotFound)
	case err != nil:
		h.deps.storeFailure(w, r, "delete user", err, "Failed to delete user.")
	default:
		respond.OK(w, "User deleted successfully")
	}
}
