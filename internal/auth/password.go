package auth

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// Cost bounds for bcrypt. 10 matches the accounts already in production;
// anything above 14 pushes a login past a second on modest hardware.
const (
	MinCost     = 10
	MaxCost     = 14
	DefaultCost = 10
)

// PasswordHasher hashes and verifies passwords with bcrypt.
type PasswordHasher struct {
	cost  int
	dummy []byte
}

// NewPasswordHasher clamps cost into [MinCost, MaxCost] and prepares a dummy
// hash at the same cost for unknown-user logins.
func NewPasswordHasher(cost int) (*PasswordHasher, error) {
	cost = clampCost(cost)

	secret := make([]byte, 16)
	if _, err := rand.Read(secret); err != nil {
		return nil, fmt.Errorf("generate dummy secret: %w", err)
	}
	dummy, err := bcrypt.GenerateFromPassword([]byte(hex.EncodeToString(secret)), cost)
	if err != nil {
		return nil, fmt.Errorf("generate dummy hash: %w", err)
	}
	return &PasswordHasher{cost: cost, dummy: dummy}, nil
}

// Cost reports the effective bcrypt cost.
func (h *PasswordHasher) Cost() int {
	return h.cost
}

// Hash returns a salted bcrypt digest of password.
func (h *PasswordHasher) Hash(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), h.cost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// Verify reports whether password matches hash. Malformed hashes never match.
func (h *PasswordHasher) Verify(password, hash string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	return err == nil
}

// VerifyDummy burns the same work as Verify against a hash nobody knows the
// password for. Call it when the user does not exist.
func (h *PasswordHasher) VerifyDummy(password string) {
	_ = bcrypt.CompareHashAndPassword(h.dummy, []byte(password))
}

func clampCost(cost int) int {
	switch {
	case cost < MinCost:
		return MinCost
	case cost > MaxCost:
		return MaxCost
	default:
		return cost
	}
}
