package auth

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Claims is the payload carried by the identity cookie.
//
// The subject identifier travels in sub, nbf and iat are always set, and exp
// is optional: a token without exp never expires at this layer and is bound to
// a browser session cookie.
type Claims struct {
	jwt.RegisteredClaims
}

// NewClaims builds the claim set for a fresh identity token. When duration is
// zero or negative no expiration is recorded.
func NewClaims(subject, issuer, audience string, now time.Time, duration time.Duration) *Claims {
	claims := &Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			Subject:   subject,
			NotBefore: jwt.NewNumericDate(now),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}

	if audience != "" {
		claims.Audience = jwt.ClaimStrings{audience}
	}

	if duration > 0 {
		claims.ExpiresAt = jwt.NewNumericDate(now.Add(duration))
	}

	return claims
}

// SubjectID returns the opaque identity identifier
func (c *Claims) SubjectID() string {
	return c.Subject
}

// AudienceValue returns the first audience entry
func (c *Claims) AudienceValue() string {
	if len(c.Audience) == 0 {
		return ""
	}
	return c.Audience[0]
}

// HasExpiry reports whether exp is present
func (c *Claims) HasExpiry() bool {
	return c.ExpiresAt != nil
}

// Expires returns the expiration time or the zero time
func (c *Claims) Expires() time.Time {
	if c.ExpiresAt != nil {
		return c.ExpiresAt.Time
	}
	return time.Time{}
}

// Duration is the session length, exp - nbf, or zero without expiry.
func (c *Claims) Duration() time.Duration {
	if c.ExpiresAt == nil || c.NotBefore == nil {
		return 0
	}
	return c.ExpiresAt.Sub(c.NotBefore.Time)
}

// Renewed returns a copy anchored at now that keeps the original session
// length: nbf = iat = now and exp = now + Duration().
func (c *Claims) Renewed(now time.Time) *Claims {
	renewed := &Claims{RegisteredClaims: c.RegisteredClaims}
	if len(c.Audience) > 0 {
		renewed.Audience = append(jwt.ClaimStrings(nil), c.Audience...)
	}

	duration := c.Duration()
	renewed.NotBefore = jwt.NewNumericDate(now)
	renewed.IssuedAt = jwt.NewNumericDate(now)
	if c.ExpiresAt != nil {
		renewed.ExpiresAt = jwt.NewNumericDate(now.Add(duration))
	}
	return renewed
}

// Validate enforces the claim set invariants: a subject, nbf <= iat and,
// when present, exp > nbf.
func (c *Claims) Validate() error {
	if c == nil || c.Subject == "" {
		return ErrInvalidClaims
	}

	if c.NotBefore == nil || c.IssuedAt == nil {
		return ErrInvalidClaims
	}

	if c.NotBefore.After(c.IssuedAt.Time) {
		return ErrInvalidClaims
	}

	if c.ExpiresAt != nil && !c.ExpiresAt.After(c.NotBefore.Time) {
		return ErrInvalidClaims
	}

	return nil
}
