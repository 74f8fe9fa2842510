package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type cachedUser struct {
	ID   uint   `json:"id"`
	Name string `json:"name"`
}

func newTestClient(t *testing.T) (*Client, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	c := New(mr.Addr(), "", 0, nil)
	t.Cleanup(func() { _ = c.Close() })
	return c, mr
}

func TestJSON_RoundTrip(t *testing.T) {
	c, mr := newTestClient(t)
	ctx := context.Background()

	SetJSON(ctx, c, "user:1", cachedUser{ID: 1, Name: "Ada"}, time.Minute)

	got, ok := GetJSON[cachedUser](ctx, c, "user:1")
	require.True(t, ok)
	assert.Equal(t, cachedUser{ID: 1, Name: "Ada"}, got)
	assert.Equal(t, time.Minute, mr.TTL("user:1"))
}

func TestGetJSON_Miss(t *testing.T) {
	c, _ := newTestClient(t)

	got, ok := GetJSON[cachedUser](context.Background(), c, "user:404")

	assert.False(t, ok)
	assert.Zero(t, got)
}

func TestGetJSON_DecodeFailure(t *testing.T) {
	c, mr := newTestClient(t)
	require.NoError(t, mr.Set("user:2", "{not json"))

	got, ok := GetJSON[cachedUser](context.Background(), c, "user:2")

	assert.False(t, ok)
	assert.Zero(t, got)
}

func TestClient_FailSafe(t *testing.T) {
	ctx := context.Background()
	mr, err := miniredis.Run()
	require.NoError(t, err)
	unreachable := New(mr.Addr(), "", 0, nil)
	t.Cleanup(func() { _ = unreachable.Close() })
	mr.Close()

	clients := map[string]*Client{
		"nil client":  nil,
		"unreachable": unreachable,
	}

	for name, c := range clients {
		t.Run(name, func(t *testing.T) {
			SetJSON(ctx, c, "user:1", cachedUser{ID: 1}, time.Minute)

			_, ok := GetJSON[cachedUser](ctx, c, "user:1")
			assert.False(t, ok)

			data, err := c.GetDel(ctx, "user:1")
			assert.NoError(t, err)
			assert.Nil(t, data)
			assert.NoError(t, c.Delete(ctx, "user:1"))
		})
	}
	assert.Error(t, unreachable.Ping(ctx))
}

func TestClient_GetDel(t *testing.T) {
	c, mr := newTestClient(t)
	ctx := context.Background()
	require.NoError(t, c.Set(ctx, "k", []byte("v"), time.Minute))

	data, err := c.GetDel(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, []byte("v"), data)
	assert.False(t, mr.Exists("k"))

	data, err = c.GetDel(ctx, "k")
	require.NoError(t, err)
	assert.Nil(t, data)
}
