package auth

import (
	"time"

	"github.com/creasty/defaults"
	validation "github.com/go-ozzo/ozzo-validation"
)

// DefaultSessionDuration is used when Options.SessionDuration is not set
const DefaultSessionDuration = 24 * time.Hour

// Config holds auth options
type Config interface {
	GetSigningKey() string
	GetIdentityCookie() CookieConfig
	GetSessionDuration() time.Duration
	GetAutoRenewCookie() bool
	GetRenewExpired() bool
	GetIssuer() string
	GetAudience() string
}

// Options is the default Config implementation. Issuer and Audience fall
// back to the request origin when empty.
type Options struct {
	SigningKey      string        `mapstructure:"signing_key" secret:"true"`
	IdentityCookie  CookieConfig  `mapstructure:"identity_cookie"`
	SessionDuration time.Duration `mapstructure:"session_duration" default:"24h"`
	AutoRenewCookie bool          `mapstructure:"auto_renew_cookie"`
	// RenewExpired lets Renew extend tokens that already passed exp as long as
	// the signature is valid.
	RenewExpired bool   `mapstructure:"renew_expired"`
	Issuer       string `mapstructure:"issuer"`
	Audience     string `mapstructure:"audience"`
}

var _ Config = Options{}

// DefaultOptions returns Options with the default cookie and session length
// and sliding renewal enabled. SigningKey still needs to be set.
func DefaultOptions() Options {
	o := Options{
		IdentityCookie:  DefaultCookieConfig(),
		AutoRenewCookie: true,
	}
	_ = defaults.Set(&o)
	return o
}

// Validate checks the options
func (o Options) Validate() error {
	err := validation.ValidateStruct(&o,
		validation.Field(&o.SigningKey, validation.Required),
		validation.Field(&o.IdentityCookie),
		validation.Field(&o.SessionDuration, validation.Min(time.Duration(0))),
	)
	if err != nil {
		return wrapError(err, ErrInvalidConfig, ErrInvalidConfig.Message)
	}
	return nil
}

// GetSigningKey returns the HMAC secret cookies are signed with
func (o Options) GetSigningKey() string {
	return o.SigningKey
}

// GetIdentityCookie returns the attributes of the identity cookie
func (o Options) GetIdentityCookie() CookieConfig {
	return o.IdentityCookie
}

// GetSessionDuration is the lifetime Login gives new cookies, zero means a
// session cookie
func (o Options) GetSessionDuration() time.Duration {
	return o.SessionDuration
}

// GetAutoRenewCookie reports whether Authenticate slides the expiry forward
func (o Options) GetAutoRenewCookie() bool {
	return o.AutoRenewCookie
}

// GetRenewExpired reports whether Renew accepts already expired tokens
func (o Options) GetRenewExpired() bool {
	return o.RenewExpired
}

// GetIssuer returns the iss claim, empty uses the request origin
func (o Options) GetIssuer() string {
	return o.Issuer
}

// GetAudience returns the aud claim, empty uses the request origin
func (o Options) GetAudience() string {
	return o.Audience
}
