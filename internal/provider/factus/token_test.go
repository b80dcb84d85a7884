package factus

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenSource_CacheHitMakesNoFetch(t *testing.T) {
	calls := 0
	src := NewTokenSource(func(context.Context) (string, error) {
		calls++
		return "tok-1", nil
	}, time.Hour)

	first, err := src.Token(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "tok-1", first)
	assert.Equal(t, 1, calls)

	// A second call while the token is valid must return the identical
	// cached value with no outbound fetch.
	second, err := src.Token(context.Background())
	require.NoError(t, err)
	assert.Equal(t, first, second)
	assert.Equal(t, 1, calls)
}

func TestTokenSource_ExpiryTriggersExactlyOneFetch(t *testing.T) {
	now := time.Unix(1_000_000, 0)
	calls := 0
	src := NewTokenSource(func(context.Context) (string, error) {
		calls++
		return fmt.Sprintf("tok-%d", calls), nil
	}, 3600*time.Second)
	src.now = func() time.Time { return now }

	_, err := src.Token(context.Background())
	require.NoError(t, err)
	require.Equal(t, 1, calls)

	// Just before expiry: still cached.
	now = now.Add(3599 * time.Second)
	tok, err := src.Token(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "tok-1", tok)
	assert.Equal(t, 1, calls)

	// At expiry: the boundary instant is no longer valid.
	now = now.Add(1 * time.Second)
	tok, err = src.Token(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "tok-2", tok)
	assert.Equal(t, 2, calls)
}

func TestTokenSource_FailedFetchLeavesCacheUntouched(t *testing.T) {
	now := time.Unix(1_000_000, 0)
	fail := false
	calls := 0
	src := NewTokenSource(func(context.Context) (string, error) {
		calls++
		if fail {
			return "", errors.New("oauth endpoint down")
		}
		return "tok-ok", nil
	}, time.Hour)
	src.now = func() time.Time { return now }

	_, err := src.Token(context.Background())
	require.NoError(t, err)

	now = now.Add(2 * time.Hour)
	fail = true
	_, err = src.Token(context.Background())
	require.Error(t, err)

	// The stale entry was not overwritten: the next successful fetch
	// replaces it wholesale.
	fail = false
	tok, err := src.Token(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "tok-ok", tok)
	assert.Equal(t, 3, calls)
}

func TestTokenSource_ConcurrentCallersShareOneRefresh(t *testing.T) {
	calls := 0
	src := NewTokenSource(func(context.Context) (string, error) {
		calls++
		time.Sleep(10 * time.Millisecond)
		return "tok-shared", nil
	}, time.Hour)

	var wg sync.WaitGroup
	results := make([]string, 8)
	errs := make([]error, 8)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i], errs[i] = src.Token(context.Background())
		}(i)
	}
	wg.Wait()

	assert.Equal(t, 1, calls, "concurrent callers must share a single exchange")
	for i, tok := range results {
		require.NoError(t, errs[i])
		assert.Equal(t, "tok-shared", tok)
	}
}
