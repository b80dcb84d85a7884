package repository

import (
	"context"

	"github.com/Yangluigie/Reto-Factus/internal/domain"
)

// UserRepository defines the interface for user persistence operations.
// The user store is a collaborator of the gateway; only the operations the
// gateway actually needs are exposed.
type UserRepository interface {
	// Create inserts a new user into the store.
	Create(ctx context.Context, user *domain.User) error

	// GetByUsername retrieves a user by their username.
	GetByUsername(ctx context.Context, username string) (*domain.User, error)
}

// SessionRepository defines the interface for session token persistence.
type SessionRepository interface {
	// GetOrCreate returns the existing session token for the user, creating
	// one if none exists. Repeated calls for the same user return the same
	// token.
	GetOrCreate(ctx context.Context, userID string) (string, error)

	// Get resolves a session token to the session it identifies.
	Get(ctx context.Context, token string) (*domain.Session, error)

	// Delete destroys the session identified by the token.
	Delete(ctx context.Context, token string) error
}
