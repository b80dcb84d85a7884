package redis

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/Yangluigie/Reto-Factus/internal/domain"
	apperrors "github.com/Yangluigie/Reto-Factus/pkg/errors"
)

const (
	tokenKeyPrefix = "session:token:"
	userKeyPrefix  = "session:user:"
)

// SessionRepository implements repository.SessionRepository using Redis.
// Two keys exist per session: token -> user ID for authentication lookups,
// and user ID -> token for get-or-create semantics. Sessions carry no TTL;
// they live until logout.
type SessionRepository struct {
	client *redis.Client
}

// NewSessionRepository creates a new Redis-backed session repository.
func NewSessionRepository(client *redis.Client) *SessionRepository {
	return &SessionRepository{client: client}
}

// GetOrCreate returns the user's existing session token or creates a new one.
func (r *SessionRepository) GetOrCreate(ctx context.Context, userID string) (string, error) {
	token, err := r.client.Get(ctx, userKeyPrefix+userID).Result()
	if err == nil {
		return token, nil
	}
	if !errors.Is(err, redis.Nil) {
		return "", fmt.Errorf("get session for user %s: %w", userID, err)
	}

	token, err = domain.NewSessionToken()
	if err != nil {
		return "", err
	}

	pipe := r.client.TxPipeline()
	pipe.Set(ctx, tokenKeyPrefix+token, userID, 0)
	pipe.Set(ctx, userKeyPrefix+userID, token, 0)
	if _, err := pipe.Exec(ctx); err != nil {
		return "", fmt.Errorf("store session for user %s: %w", userID, err)
	}

	return token, nil
}

// Get resolves a session token to the session it identifies.
func (r *SessionRepository) Get(ctx context.Context, token string) (*domain.Session, error) {
	userID, err := r.client.Get(ctx, tokenKeyPrefix+token).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, apperrors.Unauthorized("unknown session token")
		}
		return nil, fmt.Errorf("get session: %w", err)
	}

	return &domain.Session{Token: token, UserID: userID}, nil
}

// Delete destroys the session identified by the token, removing both the
// token mapping and the user's reverse mapping.
func (r *SessionRepository) Delete(ctx context.Context, token string) error {
	userID, err := r.client.Get(ctx, tokenKeyPrefix+token).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return apperrors.InvalidInput("session token not found")
		}
		return fmt.Errorf("lookup session for delete: %w", err)
	}

	pipe := r.client.TxPipeline()
	pipe.Del(ctx, tokenKeyPrefix+token)
	pipe.Del(ctx, userKeyPrefix+userID)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}

	return nil
}
