package factus

import (
	"context"
	"sync"
	"time"
)

// fetchFunc performs one credential exchange and returns a fresh access token.
type fetchFunc func(ctx context.Context) (string, error)

// TokenSource caches the provider bearer token in memory and refreshes it
// through fetch when it expires. The mutex is held across the refresh call,
// so concurrent callers observing an expired token trigger exactly one
// exchange and share its result.
//
// Expiry is a client-side policy: the token is considered valid for ttl
// after a successful fetch, regardless of any expiry the provider reports.
type TokenSource struct {
	mu    sync.Mutex
	fetch fetchFunc
	ttl   time.Duration
	now   func() time.Time

	accessToken string
	expiresAt   time.Time
}

// NewTokenSource creates a token source that refreshes via fetch and keeps
// each token for ttl.
func NewTokenSource(fetch fetchFunc, ttl time.Duration) *TokenSource {
	return &TokenSource{
		fetch: fetch,
		ttl:   ttl,
		now:   time.Now,
	}
}

// Token returns the cached access token if it is still valid, otherwise it
// performs a refresh. A failed refresh leaves the cached state untouched.
func (s *TokenSource) Token(ctx context.Context) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.accessToken != "" && s.now().Before(s.expiresAt) {
		return s.accessToken, nil
	}

	token, err := s.fetch(ctx)
	if err != nil {
		tokenRefreshFailures.Inc()
		return "", err
	}

	s.accessToken = token
	s.expiresAt = s.now().Add(s.ttl)
	tokenRefreshes.Inc()

	return token, nil
}
