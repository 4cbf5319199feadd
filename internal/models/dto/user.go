package dto

import "strings"

type CreateUserRequest struct {
	Username string `json:"username" validate:"required,max=50"`
	Password string `json:"password" validate:"required,maxbytes=72"`
	Role     string `json:"role" validate:"required,max=50"`
}

// Normalize trims the identifying fields. Passwords are taken verbatim.
func (r *CreateUserRequest) Normalize() {
	r.Username = strings.TrimSpace(r.Username)
	r.Role = strings.TrimSpace(r.Role)
}

// UpdateUserRequest rewrites username and role. An empty password keeps the
// current one.
type UpdateUserRequest struct {
	Username string `json:"username" validate:"required,max=50"`
	Password string `json:"password" validate:"omitempty,maxbytes=72"`
	Role     string `json:"role" validate:"required,max=50"`
}

func (r *UpdateUserRequest) Normalize() {
	r.Username = strings.TrimSpace(r.Username)
	r.Role = strings.TrimSpace(r.Role)
}
