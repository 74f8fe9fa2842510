package auth

import (
	"errors"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Result is the outcome of verifying one token.
type Result struct {
	Success   bool
	User      Identity
	ExpiresAt time.Time
	Err       error
}

func failed(err error) Result {
	return Result{Success: false, Err: err}
}

// Verifier validates session tokens against the server secret.
type Verifier struct {
	secret []byte
	parser *jwt.Parser
}

// NewVerifier creates a verifier for tokens signed with secret.
func NewVerifier(secret string, opts ...Option) *Verifier {
	o := buildOptions(opts)
	return &Verifier{
		secret: []byte(secret),
		parser: jwt.NewParser(
			jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
			jwt.WithExpirationRequired(),
			jwt.WithTimeFunc(o.now),
		),
	}
}

// Verify checks shape, signature and expiry of tokenString, in that order.
func (v *Verifier) Verify(tokenString string) Result {
	tokenString = strings.TrimSpace(tokenString)
	if tokenString == "" {
		return failed(ErrMissingToken)
	}
	if _, err := Parse(tokenString); err != nil {
		return failed(ErrMalformedToken)
	}

	claims := &Claims{}
	_, err := v.parser.ParseWithClaims(tokenString, claims, func(*jwt.Token) (interface{}, error) {
		return v.secret, nil
	})
	if err != nil {
		return failed(classify(err))
	}

	var expiresAt time.Time
	if claims.ExpiresAt != nil {
		expiresAt = claims.ExpiresAt.Time
	}
	return Result{Success: true, User: claims.Identity, ExpiresAt: expiresAt}
}

func classify(err error) error {
	switch {
	case errors.Is(err, jwt.ErrTokenSignatureInvalid), errors.Is(err, jwt.ErrTokenUnverifiable):
		return ErrSignatureMismatch
	case errors.Is(err, jwt.ErrTokenExpired):
		return ErrExpiredToken
	default:
		return ErrMalformedToken
	}
}
