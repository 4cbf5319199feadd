package models

import "time"

// User captures application-facing fields for an account able to sign in.
type User struct {
	ID           int64     `json:"id"`
	Username     string    `json:"username"`
	Role         string    `json:"role"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
}

// Identity is the minimal view of a user returned after login.
type Identity struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
	Role     string `json:"role"`
}

// Identity strips everything but id, username and role.
func (u User) Identity() Identity {
	return Identity{ID: u.ID, Username: u.Username, Role: u.Role}
}

// UserUpdate describes a full user rewrite. A nil PasswordHash keeps the
// stored hash.
type UserUpdate struct {
	Username     string
	Role         string
	PasswordHash *string
}
