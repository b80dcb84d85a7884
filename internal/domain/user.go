package domain

import (
	"time"
)

// User represents an internal end user allowed to submit invoices through
// the gateway. Password verification happens in the service layer; the
// stored hash is bcrypt.
type User struct {
	ID           string    `json:"id"`
	Username     string    `json:"username"`
	PasswordHash string    `json:"-"`
	IsActive     bool      `json:"is_active"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}
