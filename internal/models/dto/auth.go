package dto

import "github.com/indatwa/events-api/internal/models"

type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type LoginResponse struct {
	Token string          `json:"token,omitempty"`
	User  models.Identity `json:"user"`
}
