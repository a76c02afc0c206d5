package fiberware

import (
	"context"

	"github.com/gofiber/fiber/v2"
	auth "github.com/goliatone/go-auth-cookie"
)

// Authenticator is the part of auth.CookieSessionManager the middleware needs
type Authenticator interface {
	Authenticate(t auth.Transport) (*auth.CookieLogin, error)
}

type Config struct {
	// Filter skips the middleware when it returns true
	Filter func(*fiber.Ctx) bool
	// Authenticator is required
	Authenticator Authenticator
	// ContextKey is the Locals key the identity is stored under
	ContextKey string
	// ClaimsKey is the Locals key the decoded claims are stored under
	ClaimsKey string
	// ErrorHandler handles configuration and identity store errors. Token
	// rejections never reach it.
	ErrorHandler fiber.ErrorHandler
	// SuccessHandler runs after a request was logged in from its cookie
	SuccessHandler fiber.Handler
}

// New returns a middleware that logs requests in from the identity cookie.
// Requests without a valid cookie continue unauthenticated.
func New(config ...Config) fiber.Handler {
	cfg := GetDefaultConfig(config...)

	return func(c *fiber.Ctx) error {
		if cfg.Filter != nil && cfg.Filter(c) {
			return c.Next()
		}

		login, err := cfg.Authenticator.Authenticate(NewTransport(c))
		if err != nil {
			return cfg.ErrorHandler(c, err)
		}

		if login == nil {
			return c.Next()
		}

		c.Locals(cfg.ContextKey, login.Identity)
		c.Locals(cfg.ClaimsKey, login.Claims)

		return cfg.SuccessHandler(c)
	}
}

func GetDefaultConfig(config ...Config) (cfg Config) {
	if len(config) > 0 {
		cfg = config[0]
	}

	if cfg.Authenticator == nil {
		panic("AUTH: cookie middleware configuration: Authenticator is required.")
	}

	if cfg.ContextKey == "" {
		cfg.ContextKey = "identity"
	}

	if cfg.ClaimsKey == "" {
		cfg.ClaimsKey = "identity_claims"
	}

	if cfg.SuccessHandler == nil {
		cfg.SuccessHandler = func(c *fiber.Ctx) error {
			return c.Next()
		}
	}

	if cfg.ErrorHandler == nil {
		cfg.ErrorHandler = func(c *fiber.Ctx, err error) error {
			return c.Status(fiber.StatusInternalServerError).SendString("authentication unavailable")
		}
	}

	return cfg
}

// Identity returns the identity attached to the request context
func Identity(c *fiber.Ctx) (auth.Identity, bool) {
	return auth.IdentityFromContext(c.UserContext())
}

// transport adapts a fiber context to auth.Transport
type transport struct {
	c *fiber.Ctx
}

// NewTransport wraps c
func NewTransport(c *fiber.Ctx) auth.Transport {
	return &transport{c: c}
}

func (t *transport) Context() context.Context {
	return t.c.UserContext()
}

func (t *transport) SetContext(ctx context.Context) {
	t.c.SetUserContext(ctx)
}

func (t *transport) Cookie(name string) (string, bool) {
	v := t.c.Cookies(name)
	return v, v != ""
}

func (t *transport) SetCookie(cookie *auth.Cookie) {
	if cookie == nil {
		return
	}
	t.c.Cookie(&fiber.Cookie{
		Name:        cookie.Name,
		Value:       cookie.Value,
		Path:        cookie.Path,
		Domain:      cookie.Domain,
		Expires:     cookie.Expires,
		Secure:      cookie.Secure,
		HTTPOnly:    cookie.HTTPOnly,
		SameSite:    cookie.SameSite,
		SessionOnly: cookie.SessionOnly(),
	})
}

func (t *transport) ClientIP() string {
	return t.c.IP()
}

func (t *transport) Origin() string {
	return t.c.BaseURL()
}
