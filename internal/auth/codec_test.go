package auth

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret-test-secret-test-secret"

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

func TestCodec_Issue(t *testing.T) {
	issuedAt := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	codec := NewCodec(testSecret, WithClock(fixedClock(issuedAt)))

	tests := []struct {
		name          string
		identity      Identity
		ttl           time.Duration
		expectedError error
	}{
		{
			name:     "valid member",
			identity: Identity{UserID: 1, Email: "a@b.com", Role: RoleMember},
			ttl:      time.Hour,
		},
		{
			name:     "negative ttl mints expired token",
			identity: Identity{UserID: 1, Email: "a@b.com", Role: RoleMember},
			ttl:      -time.Second,
		},
		{
			name:          "zero ttl",
			identity:      Identity{UserID: 1, Email: "a@b.com", Role: RoleMember},
			ttl:           0,
			expectedError: ErrInvalidTTL,
		},
		{
			name:          "missing user id",
			identity:      Identity{Email: "a@b.com", Role: RoleMember},
			ttl:           time.Hour,
			expectedError: ErrInvalidClaim,
		},
		{
			name:          "unknown role",
			identity:      Identity{UserID: 3, Email: "a@b.com", Role: "owner"},
			ttl:           time.Hour,
			expectedError: ErrInvalidClaim,
		},
		{
			name:          "bad email",
			identity:      Identity{UserID: 3, Email: "nope", Role: RoleAdmin},
			ttl:           time.Hour,
			expectedError: ErrInvalidClaim,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			token, err := codec.Issue(tt.identity, tt.ttl)
			if tt.expectedError != nil {
				assert.ErrorIs(t, err, tt.expectedError)
				assert.Empty(t, token)
				return
			}
			require.NoError(t, err)

			parts, err := Parse(token)
			require.NoError(t, err)

			var payload map[string]interface{}
			require.NoError(t, json.Unmarshal(parts.Payload, &payload))
			assert.Equal(t, float64(tt.identity.UserID), payload["userId"])
			assert.Equal(t, tt.identity.Email, payload["email"])
			assert.Equal(t, string(tt.identity.Role), payload["role"])
			assert.Equal(t, float64(issuedAt.Unix()), payload["iat"])
			assert.Equal(t, float64(issuedAt.Add(tt.ttl).Unix()), payload["exp"])
			assert.Len(t, payload, 5)

			var header map[string]interface{}
			require.NoError(t, json.Unmarshal(parts.Header, &header))
			assert.Equal(t, "HS256", header["alg"])
			assert.Len(t, parts.Signature, 32)
		})
	}
}

func TestCodec_SubSecondTTL(t *testing.T) {
	issuedAt := time.Date(2026, 3, 1, 12, 0, 0, 700*int(time.Millisecond), time.UTC)
	identity := Identity{UserID: 1, Email: "a@b.com", Role: RoleMember}

	tests := []struct {
		name    string
		ttl     time.Duration
		wantExp int64
	}{
		{"shorter than a second", 200 * time.Millisecond, issuedAt.Unix() + 1},
		{"crosses a second boundary", 1500 * time.Millisecond, issuedAt.Unix() + 3},
		{"negative stays expired", -200 * time.Millisecond, issuedAt.Unix()},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			token, err := NewCodec(testSecret, WithClock(fixedClock(issuedAt))).Issue(identity, tt.ttl)
			require.NoError(t, err)

			parts, err := Parse(token)
			require.NoError(t, err)
			var payload map[string]interface{}
			require.NoError(t, json.Unmarshal(parts.Payload, &payload))
			assert.Equal(t, float64(tt.wantExp), payload["exp"])

			res := NewVerifier(testSecret, WithClock(fixedClock(issuedAt))).Verify(token)
			if tt.ttl > 0 {
				require.True(t, res.Success, res.Err)
				assert.Equal(t, identity, res.User)
				return
			}
			assert.ErrorIs(t, res.Err, ErrExpiredToken)
		})
	}
}

func TestParse_Malformed(t *testing.T) {
	inputs := []string{
		"",
		"abc",
		"a.b",
		"a.b.c.d",
		"..",
		"eyJhbGciOiJIUzI1NiJ9..sig",
		"eyJhbGciOiJIUzI1NiJ9.e30.not*base64",
		"!!!.e30.c2ln",
	}
	for _, in := range inputs {
		t.Run(in, func(t *testing.T) {
			parts, err := Parse(in)
			assert.ErrorIs(t, err, ErrMalformedToken)
			assert.Nil(t, parts)
		})
	}
}
