package auth

import (
	"regexp"
	"time"

	"github.com/creasty/defaults"
	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/goliatone/go-errors"
)

// DefaultCookieName is the name of the identity cookie
const DefaultCookieName = "identity"

// SameSite values accepted by CookieConfig
const (
	SameSiteLax    = "Lax"
	SameSiteStrict = "Strict"
	SameSiteNone   = "None"
)

// cookie-name is an RFC 6265 token
var cookieNamePattern = regexp.MustCompile("^[!#$%&'*+\\-.^_`|~0-9A-Za-z]+$")

// Cookie is a transport neutral cookie, adapters translate it to
// net/http or fiber cookies. A zero Expires means a session cookie.
type Cookie struct {
	Name     string
	Value    string
	Path     string
	Domain   string
	Expires  time.Time
	Secure   bool
	HTTPOnly bool
	SameSite string
}

// SessionOnly reports whether the cookie lives until the browser closes
func (c *Cookie) SessionOnly() bool {
	return c.Expires.IsZero()
}

// CookieConfig holds the transport attributes of the identity cookie.
// It is fixed once a manager is built.
type CookieConfig struct {
	Name     string `mapstructure:"name" default:"identity"`
	Path     string `mapstructure:"path" default:"/"`
	Domain   string `mapstructure:"domain"`
	SameSite string `mapstructure:"same_site" default:"Lax"`
	HTTPOnly bool   `mapstructure:"http_only"`
	Secure   bool   `mapstructure:"secure"`
}

// DefaultCookieConfig returns an HTTP only, secure, Lax cookie named identity
func DefaultCookieConfig() CookieConfig {
	c := CookieConfig{
		HTTPOnly: true,
		Secure:   true,
	}
	_ = defaults.Set(&c)
	return c
}

// Validate implements validation.Validatable
func (c CookieConfig) Validate() error {
	return validation.ValidateStruct(&c,
		validation.Field(&c.Name, validation.Required, validation.Match(cookieNamePattern)),
		validation.Field(&c.SameSite,
			validation.In(SameSiteLax, SameSiteStrict, SameSiteNone),
			validation.By(func(value interface{}) error {
				if value == SameSiteNone && !c.Secure {
					return errors.New("SameSite=None requires a secure cookie", errors.CategoryValidation)
				}
				return nil
			}),
		),
	)
}

func (c CookieConfig) build(value string, expires time.Time) *Cookie {
	return &Cookie{
		Name:     c.Name,
		Value:    value,
		Path:     c.Path,
		Domain:   c.Domain,
		Expires:  expires,
		Secure:   c.Secure,
		HTTPOnly: c.HTTPOnly,
		SameSite: c.SameSite,
	}
}

func (c CookieConfig) expired() *Cookie {
	return c.build("", time.Unix(0, 0))
}
