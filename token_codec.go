package auth

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/goliatone/go-errors"
)

// SigningMethod is the only algorithm identity tokens are signed and accepted with
var SigningMethod = jwt.SigningMethodHS256

// TokenCodec turns a claim set and a shared secret into a compact signed token
// and back. It holds no secret itself, so a single codec can be shared.
type TokenCodec struct {
	clock  Clock
	leeway time.Duration
}

// CodecOption configures a TokenCodec
type CodecOption func(*TokenCodec)

// WithCodecClock sets the clock used to check nbf and exp
func WithCodecClock(clock Clock) CodecOption {
	return func(tc *TokenCodec) {
		tc.clock = normalizeClock(clock)
	}
}

// WithCodecLeeway tolerates clock skew when checking nbf and exp
func WithCodecLeeway(leeway time.Duration) CodecOption {
	return func(tc *TokenCodec) {
		if leeway > 0 {
			tc.leeway = leeway
		}
	}
}

// NewTokenCodec creates a new TokenCodec instance
func NewTokenCodec(opts ...CodecOption) *TokenCodec {
	tc := &TokenCodec{clock: SystemClock{}}
	for _, opt := range opts {
		if opt != nil {
			opt(tc)
		}
	}
	return tc
}

// Encode signs claims with secret using HS256.
func (tc *TokenCodec) Encode(claims *Claims, secret []byte) (string, error) {
	if len(secret) == 0 {
		return "", ErrEncoding
	}

	if claims == nil {
		return "", ErrEncoding
	}

	if err := claims.Validate(); err != nil {
		return "", err
	}

	token := jwt.NewWithClaims(SigningMethod, claims)

	signed, err := token.SignedString(secret)
	if err != nil {
		return "", wrapError(err, ErrEncoding, "failed to sign identity token")
	}

	return signed, nil
}

// Decode verifies the token signature and validity window and returns its
// claims.
func (tc *TokenCodec) Decode(raw string, secret []byte) (*Claims, error) {
	return tc.decode(raw, secret, true)
}

// DecodeIgnoringTime verifies structure and signature only. nbf and exp are
// not checked.
func (tc *TokenCodec) DecodeIgnoringTime(raw string, secret []byte) (*Claims, error) {
	return tc.decode(raw, secret, false)
}

func (tc *TokenCodec) decode(raw string, secret []byte, checkTime bool) (*Claims, error) {
	if len(secret) == 0 {
		return nil, ErrEncoding
	}

	parserOptions := []jwt.ParserOption{
		jwt.WithValidMethods([]string{SigningMethod.Alg()}),
		jwt.WithStrictDecoding(),
		jwt.WithTimeFunc(tc.clock.Now),
	}

	if tc.leeway > 0 {
		parserOptions = append(parserOptions, jwt.WithLeeway(tc.leeway))
	}

	if !checkTime {
		parserOptions = append(parserOptions, jwt.WithoutClaimsValidation())
	}

	token, err := jwt.ParseWithClaims(raw, &Claims{}, func(t *jwt.Token) (any, error) {
		if t.Method != SigningMethod {
			return nil, ErrInvalidSignature
		}
		return secret, nil
	}, parserOptions...)

	if err != nil {
		return nil, mapParseError(err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, ErrMalformedToken
	}

	if claims.Subject == "" || claims.NotBefore == nil || claims.IssuedAt == nil {
		return nil, ErrMalformedToken
	}

	return claims, nil
}

func mapParseError(err error) error {
	switch {
	case errors.Is(err, jwt.ErrTokenMalformed):
		return ErrMalformedToken
	case errors.Is(err, jwt.ErrTokenSignatureInvalid),
		errors.Is(err, jwt.ErrTokenUnverifiable):
		return ErrInvalidSignature
	case errors.Is(err, jwt.ErrTokenExpired):
		return ErrTokenExpired
	case errors.Is(err, jwt.ErrTokenNotValidYet):
		return ErrTokenNotYetValid
	default:
		return ErrMalformedToken
	}
}
