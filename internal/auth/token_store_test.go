package auth

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"teamboard/internal/cache"
)

func newRedisTokenStore(t *testing.T) (*TokenStore, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	return NewTokenStore(cache.New(mr.Addr(), "", 0, nil)), mr
}

func TestTokenStore_WithoutRedis(t *testing.T) {
	store := NewTokenStore(nil)
	ctx := context.Background()

	token, err := store.IssueRefreshToken(ctx, 42, time.Hour)
	require.NoError(t, err)
	_, err = uuid.Parse(token)
	assert.NoError(t, err)

	// Writes are best effort, so an unavailable cache never yields a user.
	_, err = store.ConsumeRefreshToken(ctx, token)
	assert.ErrorIs(t, err, ErrRefreshTokenNotFound)

	assert.NoError(t, store.RevokeRefreshToken(ctx, token))
}

func TestTokenStore_RejectsNonUUID(t *testing.T) {
	store := NewTokenStore(nil)
	_, err := store.ConsumeRefreshToken(context.Background(), "not-a-token")
	assert.ErrorIs(t, err, ErrRefreshTokenNotFound)
}

func TestTokenStore_ConsumeOnce(t *testing.T) {
	store, mr := newRedisTokenStore(t)
	ctx := context.Background()

	token, err := store.IssueRefreshToken(ctx, 42, time.Hour)
	require.NoError(t, err)
	assert.Equal(t, time.Hour, mr.TTL(refreshTokenKeyPrefix+token))

	userID, err := store.ConsumeRefreshToken(ctx, token)
	require.NoError(t, err)
	assert.Equal(t, uint(42), userID)

	_, err = store.ConsumeRefreshToken(ctx, token)
	assert.ErrorIs(t, err, ErrRefreshTokenNotFound)
}

func TestTokenStore_ConcurrentConsume(t *testing.T) {
	store, _ := newRedisTokenStore(t)
	ctx := context.Background()
	token, err := store.IssueRefreshToken(ctx, 7, time.Hour)
	require.NoError(t, err)

	const consumers = 16
	results := make(chan error, consumers)
	var wg sync.WaitGroup
	for i := 0; i < consumers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := store.ConsumeRefreshToken(ctx, token)
			results <- err
		}()
	}
	wg.Wait()
	close(results)

	var ok int
	for err := range results {
		if err == nil {
			ok++
			continue
		}
		assert.ErrorIs(t, err, ErrRefreshTokenNotFound)
	}
	assert.Equal(t, 1, ok)
}

func TestTokenStore_Revoke(t *testing.T) {
	store, mr := newRedisTokenStore(t)
	ctx := context.Background()
	token, err := store.IssueRefreshToken(ctx, 7, time.Hour)
	require.NoError(t, err)

	require.NoError(t, store.RevokeRefreshToken(ctx, token))

	assert.False(t, mr.Exists(refreshTokenKeyPrefix+token))
	_, err = store.ConsumeRefreshToken(ctx, token)
	assert.ErrorIs(t, err, ErrRefreshTokenNotFound)
}

func TestTokenStore_Expired(t *testing.T) {
	store, mr := newRedisTokenStore(t)
	ctx := context.Background()
	token, err := store.IssueRefreshToken(ctx, 7, time.Minute)
	require.NoError(t, err)

	mr.FastForward(2 * time.Minute)

	_, err = store.ConsumeRefreshToken(ctx, token)
	assert.ErrorIs(t, err, ErrRefreshTokenNotFound)
}
