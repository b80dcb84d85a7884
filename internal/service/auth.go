package service

import (
	"context"
	"fmt"
	"log/slog"

	"golang.org/x/crypto/bcrypt"

	"github.com/Yangluigie/Reto-Factus/internal/domain"
	"github.com/Yangluigie/Reto-Factus/internal/event"
	"github.com/Yangluigie/Reto-Factus/internal/repository"
	apperrors "github.com/Yangluigie/Reto-Factus/pkg/errors"
)

// AuthService implements end-user session authentication.
type AuthService struct {
	userRepo    repository.UserRepository
	sessionRepo repository.SessionRepository
	producer    *event.Producer
	logger      *slog.Logger
}

// NewAuthService creates a new auth service.
func NewAuthService(
	userRepo repository.UserRepository,
	sessionRepo repository.SessionRepository,
	producer *event.Producer,
	logger *slog.Logger,
) *AuthService {
	return &AuthService{
		userRepo:    userRepo,
		sessionRepo: sessionRepo,
		producer:    producer,
		logger:      logger,
	}
}

// Login verifies the user's credentials and returns their session token,
// reusing an existing session if one is already open. Every failure mode
// collapses into the same unauthorized error so callers cannot tell whether
// the username or the password was wrong.
func (s *AuthService) Login(ctx context.Context, username, password string) (string, error) {
	if username == "" || password == "" {
		return "", apperrors.Unauthorized("invalid username or password")
	}

	user, err := s.userRepo.GetByUsername(ctx, username)
	if err != nil {
		return "", apperrors.Unauthorized("invalid username or password")
	}

	if !user.IsActive {
		return "", apperrors.Unauthorized("invalid username or password")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return "", apperrors.Unauthorized("invalid username or password")
	}

	token, err := s.sessionRepo.GetOrCreate(ctx, user.ID)
	if err != nil {
		return "", fmt.Errorf("open session: %w", err)
	}

	// Publish login event (non-blocking on failure).
	if err := s.producer.PublishLoggedIn(ctx, user.ID, user.Username); err != nil {
		s.logger.ErrorContext(ctx, "failed to publish auth.logged_in event",
			slog.String("user_id", user.ID),
			slog.String("error", err.Error()),
		)
	}

	s.logger.InfoContext(ctx, "user logged in",
		slog.String("user_id", user.ID),
		slog.String("username", user.Username),
	)

	return token, nil
}

// Logout destroys the session identified by token. The caller is already
// authenticated; a store failure is reported back as a caller-visible error.
func (s *AuthService) Logout(ctx context.Context, token, userID string) error {
	if err := s.sessionRepo.Delete(ctx, token); err != nil {
		return apperrors.InvalidInput(fmt.Sprintf("close session: %v", err))
	}

	if err := s.producer.PublishLoggedOut(ctx, userID); err != nil {
		s.logger.ErrorContext(ctx, "failed to publish auth.logged_out event",
			slog.String("user_id", userID),
			slog.String("error", err.Error()),
		)
	}

	s.logger.InfoContext(ctx, "user logged out",
		slog.String("user_id", userID),
	)

	return nil
}

// ValidateSession resolves a session token to the session it identifies.
// The auth middleware uses it to admit requests to protected operations.
func (s *AuthService) ValidateSession(ctx context.Context, token string) (*domain.Session, error) {
	return s.sessionRepo.Get(ctx, token)
}
