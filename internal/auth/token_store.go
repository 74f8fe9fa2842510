package auth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"teamboard/internal/cache"
)

const refreshTokenKeyPrefix = "refresh_token:"

// ErrRefreshTokenNotFound is returned when a refresh token is unknown or expired.
var ErrRefreshTokenNotFound = errors.New("refresh token not found")

// TokenStoreInterface defines refresh token persistence.
type TokenStoreInterface interface {
	IssueRefreshToken(ctx context.Context, userID uint, ttl time.Duration) (string, error)
	ConsumeRefreshToken(ctx context.Context, token string) (uint, error)
	RevokeRefreshToken(ctx context.Context, token string) error
}

// TokenStore keeps opaque refresh tokens in Redis. Access tokens are never stored.
type TokenStore struct {
	cache *cache.Client
}

var _ TokenStoreInterface = (*TokenStore)(nil)

// NewTokenStore creates a new token store.
func NewTokenStore(cache *cache.Client) *TokenStore {
	return &TokenStore{cache: cache}
}

type refreshRecord struct {
	UserID   uint      `json:"user_id"`
	IssuedAt time.Time `json:"issued_at"`
}

// IssueRefreshToken creates a random refresh token bound to userID.
func (s *TokenStore) IssueRefreshToken(ctx context.Context, userID uint, ttl time.Duration) (string, error) {
	token := uuid.NewString()
	payload, err := json.Marshal(refreshRecord{UserID: userID, IssuedAt: time.Now().UTC()})
	if err != nil {
		return "", fmt.Errorf("marshal refresh token: %w", err)
	}
	if err := s.cache.Set(ctx, refreshTokenKeyPrefix+token, payload, ttl); err != nil {
		return "", fmt.Errorf("store refresh token: %w", err)
	}
	return token, nil
}

// ConsumeRefreshToken returns the user bound to token and deletes it in the
// same redis command. Concurrent consumers of one token see it at most once.
func (s *TokenStore) ConsumeRefreshToken(ctx context.Context, token string) (uint, error) {
	if _, err := uuid.Parse(token); err != nil {
		return 0, ErrRefreshTokenNotFound
	}
	data, err := s.cache.GetDel(ctx, refreshTokenKeyPrefix+token)
	if err != nil || data == nil {
		return 0, ErrRefreshTokenNotFound
	}

	var rec refreshRecord
	if err := json.Unmarshal(data, &rec); err != nil {
		return 0, fmt.Errorf("unmarshal refresh token: %w", err)
	}
	if rec.UserID == 0 {
		return 0, ErrRefreshTokenNotFound
	}
	return rec.UserID, nil
}

// RevokeRefreshToken deletes token.
func (s *TokenStore) RevokeRefreshToken(ctx context.Context, token string) error {
	return s.cache.Delete(ctx, refreshTokenKeyPrefix+token)
}
