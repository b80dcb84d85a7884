package redis

import (
	"context"
	"errors"
	"testing"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/Yangluigie/Reto-Factus/pkg/errors"
)

func newSessionTestFixture(t *testing.T) *SessionRepository {
	t.Helper()
	mr := miniredis.RunT(t)
	client := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewSessionRepository(client)
}

func TestSessionRepository_GetOrCreate_Idempotent(t *testing.T) {
	repo := newSessionTestFixture(t)
	ctx := context.Background()

	first, err := repo.GetOrCreate(ctx, "u-1")
	require.NoError(t, err)
	assert.NotEmpty(t, first)

	second, err := repo.GetOrCreate(ctx, "u-1")
	require.NoError(t, err)
	assert.Equal(t, first, second, "repeated login must reuse the existing token")
}

func TestSessionRepository_GetOrCreate_DistinctUsers(t *testing.T) {
	repo := newSessionTestFixture(t)
	ctx := context.Background()

	tok1, err := repo.GetOrCreate(ctx, "u-1")
	require.NoError(t, err)
	tok2, err := repo.GetOrCreate(ctx, "u-2")
	require.NoError(t, err)

	assert.NotEqual(t, tok1, tok2)
}

func TestSessionRepository_Get(t *testing.T) {
	repo := newSessionTestFixture(t)
	ctx := context.Background()

	token, err := repo.GetOrCreate(ctx, "u-1")
	require.NoError(t, err)

	session, err := repo.Get(ctx, token)
	require.NoError(t, err)
	assert.Equal(t, "u-1", session.UserID)
	assert.Equal(t, token, session.Token)
}

func TestSessionRepository_Get_UnknownToken(t *testing.T) {
	repo := newSessionTestFixture(t)

	_, err := repo.Get(context.Background(), "nope")
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperrors.ErrUnauthorized), "expected ErrUnauthorized, got: %v", err)
}

func TestSessionRepository_Delete(t *testing.T) {
	repo := newSessionTestFixture(t)
	ctx := context.Background()

	token, err := repo.GetOrCreate(ctx, "u-1")
	require.NoError(t, err)

	require.NoError(t, repo.Delete(ctx, token))

	_, err = repo.Get(ctx, token)
	assert.Error(t, err)

	// The reverse mapping is gone too: the next login mints a fresh token.
	newToken, err := repo.GetOrCreate(ctx, "u-1")
	require.NoError(t, err)
	assert.NotEqual(t, token, newToken)
}

func TestSessionRepository_Delete_UnknownToken(t *testing.T) {
	repo := newSessionTestFixture(t)

	err := repo.Delete(context.Background(), "nope")
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperrors.ErrInvalidInput), "expected ErrInvalidInput, got: %v", err)
}
