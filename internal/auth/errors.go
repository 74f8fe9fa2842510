package auth

import "errors"

var (
	// ErrMissingToken is returned when the request carries no session token.
	ErrMissingToken = errors.New("missing token")
	// ErrMalformedToken is returned when a token is not a three segment base64url
	// string or its payload does not match the identity claim shape.
	ErrMalformedToken = errors.New("malformed token")
	// ErrSignatureMismatch is returned when the token signature was not produced
	// with the server secret.
	ErrSignatureMismatch = errors.New("token signature mismatch")
	// ErrExpiredToken is returned when the token expiry is in the past.
	ErrExpiredToken = errors.New("token expired")
	// ErrForbidden is returned when a verified identity lacks the required role.
	ErrForbidden = errors.New("forbidden")

	// ErrInvalidClaim is returned by Issue for an identity that could never verify.
	ErrInvalidClaim = errors.New("invalid identity claim")
	// ErrInvalidTTL is returned by Issue when ttl is zero.
	ErrInvalidTTL = errors.New("token ttl must not be zero")
)

// IsUnauthorized reports whether err means the caller is not authenticated.
func IsUnauthorized(err error) bool {
	return errors.Is(err, ErrMissingToken) ||
		errors.Is(err, ErrMalformedToken) ||
		errors.Is(err, ErrSignatureMismatch) ||
		errors.Is(err, ErrExpiredToken)
}

// ReasonCode returns the stable machine readable code for an auth error.
func ReasonCode(err error) string {
	switch {
	case errors.Is(err, ErrMissingToken):
		return "MISSING_TOKEN"
	case errors.Is(err, ErrMalformedToken):
		return "MALFORMED_TOKEN"
	case errors.Is(err, ErrSignatureMismatch):
		return "SIGNATURE_MISMATCH"
	case errors.Is(err, ErrExpiredToken):
		return "TOKEN_EXPIRED"
	case errors.Is(err, ErrForbidden):
		return "FORBIDDEN"
	default:
		return "UNAUTHORIZED"
	}
}
