package auth

import (
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Option configures a Codec or Verifier.
type Option func(*options)

type options struct {
	now func() time.Time
}

// WithClock overrides the wall clock used for iat/exp.
func WithClock(now func() time.Time) Option {
	return func(o *options) {
		o.now = now
	}
}

func buildOptions(opts []Option) options {
	o := options{now: time.Now}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// Parts is a token split into its decoded segments.
type Parts struct {
	Header    []byte
	Payload   []byte
	Signature []byte
}

// Codec issues HS256 session tokens.
type Codec struct {
	secret []byte
	now    func() time.Time
}

// NewCodec creates a codec signing with secret.
func NewCodec(secret string, opts ...Option) *Codec {
	o := buildOptions(opts)
	return &Codec{secret: []byte(secret), now: o.now}
}

// Issue signs identity into a token that expires ttl from now. exp has whole
// second precision, so for a positive ttl it is rounded up and the token is
// never shorter lived than ttl. A negative ttl yields a token that is already
// expired.
func (c *Codec) Issue(identity Identity, ttl time.Duration) (string, error) {
	if ttl == 0 {
		return "", ErrInvalidTTL
	}
	if err := claimValidator.Struct(identity); err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidClaim, err)
	}

	now := c.now()
	claims := &Claims{
		Identity: identity,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiry(now, ttl)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(c.secret)
}

func expiry(now time.Time, ttl time.Duration) time.Time {
	exp := now.Add(ttl)
	if ttl > 0 {
		if truncated := exp.Truncate(time.Second); truncated.Before(exp) {
			return truncated.Add(time.Second)
		}
	}
	return exp
}

var segmentDecoder = jwt.NewParser()

// Parse splits a compact token into header, payload and signature without
// checking the signature.
func Parse(token string) (*Parts, error) {
	segments := strings.Split(token, ".")
	if len(segments) != 3 {
		return nil, ErrMalformedToken
	}

	decoded := make([][]byte, 0, len(segments))
	for _, seg := range segments {
		if seg == "" {
			return nil, ErrMalformedToken
		}
		b, err := segmentDecoder.DecodeSegment(seg)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrMalformedToken, err)
		}
		decoded = append(decoded, b)
	}

	return &Parts{
		Header:    decoded[0],
		Payload:   decoded[1],
		Signature: decoded[2],
	}, nil
}
