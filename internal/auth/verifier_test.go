package auth

import (
	"encoding/base64"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVerifier_Verify(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	member := Identity{UserID: 1, Email: "a@b.com", Role: RoleMember}

	codec := NewCodec(testSecret, WithClock(fixedClock(now)))
	valid, err := codec.Issue(member, time.Hour)
	require.NoError(t, err)
	expired, err := codec.Issue(member, -time.Second)
	require.NoError(t, err)
	foreign, err := NewCodec("another-secret-another-secret-xx", WithClock(fixedClock(now))).Issue(member, time.Hour)
	require.NoError(t, err)

	tests := []struct {
		name          string
		token         string
		verifyAt      time.Time
		expectedError error
	}{
		{name: "valid", token: valid, verifyAt: now.Add(30 * time.Minute)},
		{name: "valid with surrounding space", token: " " + valid + " ", verifyAt: now},
		{name: "missing", token: "", verifyAt: now, expectedError: ErrMissingToken},
		{name: "blank", token: "   ", verifyAt: now, expectedError: ErrMissingToken},
		{name: "two segments", token: "abc.def", verifyAt: now, expectedError: ErrMalformedToken},
		{name: "not base64", token: "a$.b$.c$", verifyAt: now, expectedError: ErrMalformedToken},
		{name: "wrong secret", token: foreign, verifyAt: now, expectedError: ErrSignatureMismatch},
		{name: "negative ttl", token: expired, verifyAt: now, expectedError: ErrExpiredToken},
		{name: "past expiry", token: valid, verifyAt: now.Add(2 * time.Hour), expectedError: ErrExpiredToken},
		{name: "tampered payload", token: tamper(t, valid), verifyAt: now, expectedError: ErrSignatureMismatch},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			verifier := NewVerifier(testSecret, WithClock(fixedClock(tt.verifyAt)))
			res := verifier.Verify(tt.token)
			if tt.expectedError != nil {
				assert.False(t, res.Success)
				assert.ErrorIs(t, res.Err, tt.expectedError)
				assert.Equal(t, Identity{}, res.User)
				return
			}
			assert.True(t, res.Success)
			assert.NoError(t, res.Err)
			assert.Equal(t, member, res.User)
			assert.True(t, now.Add(time.Hour).Equal(res.ExpiresAt))
		})
	}
}

func TestVerifier_RejectsForeignShapes(t *testing.T) {
	now := time.Now()
	verifier := NewVerifier(testSecret)

	sign := func(method jwt.SigningMethod, claims jwt.Claims, key interface{}) string {
		tok, err := jwt.NewWithClaims(method, claims).SignedString(key)
		require.NoError(t, err)
		return tok
	}

	t.Run("other hmac algorithm", func(t *testing.T) {
		tok := sign(jwt.SigningMethodHS512, jwt.MapClaims{
			"userId": 1, "email": "a@b.com", "role": "admin", "exp": now.Add(time.Hour).Unix(),
		}, []byte(testSecret))
		assert.ErrorIs(t, verifier.Verify(tok).Err, ErrSignatureMismatch)
	})

	t.Run("unsigned token", func(t *testing.T) {
		tok := sign(jwt.SigningMethodNone, jwt.MapClaims{
			"userId": 1, "email": "a@b.com", "role": "admin", "exp": now.Add(time.Hour).Unix(),
		}, jwt.UnsafeAllowNoneSignatureType)
		tok += "c2ln"
		assert.ErrorIs(t, verifier.Verify(tok).Err, ErrSignatureMismatch)
	})

	t.Run("legacy id claim", func(t *testing.T) {
		tok := sign(jwt.SigningMethodHS256, jwt.MapClaims{
			"id": 1, "email": "a@b.com", "role": "admin", "exp": now.Add(time.Hour).Unix(),
		}, []byte(testSecret))
		assert.ErrorIs(t, verifier.Verify(tok).Err, ErrMalformedToken)
	})

	t.Run("unknown role", func(t *testing.T) {
		tok := sign(jwt.SigningMethodHS256, jwt.MapClaims{
			"userId": 1, "email": "a@b.com", "role": "root", "exp": now.Add(time.Hour).Unix(),
		}, []byte(testSecret))
		assert.ErrorIs(t, verifier.Verify(tok).Err, ErrMalformedToken)
	})

	t.Run("string user id", func(t *testing.T) {
		tok := sign(jwt.SigningMethodHS256, jwt.MapClaims{
			"userId": "1", "email": "a@b.com", "role": "admin", "exp": now.Add(time.Hour).Unix(),
		}, []byte(testSecret))
		assert.ErrorIs(t, verifier.Verify(tok).Err, ErrMalformedToken)
	})

	t.Run("no expiry", func(t *testing.T) {
		tok := sign(jwt.SigningMethodHS256, jwt.MapClaims{
			"userId": 1, "email": "a@b.com", "role": "admin",
		}, []byte(testSecret))
		assert.ErrorIs(t, verifier.Verify(tok).Err, ErrMalformedToken)
	})
}

// tamper swaps the payload for one claiming the admin role while keeping the
// original signature.
func tamper(t *testing.T, token string) string {
	t.Helper()
	segs := strings.Split(token, ".")
	require.Len(t, segs, 3)
	payload, err := base64.RawURLEncoding.DecodeString(segs[1])
	require.NoError(t, err)
	forged := strings.Replace(string(payload), `"member"`, `"admin"`, 1)
	segs[1] = base64.RawURLEncoding.EncodeToString([]byte(forged))
	return strings.Join(segs, ".")
}
