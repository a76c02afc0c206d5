package routerware

import (
	"context"
	"strings"

	auth "github.com/goliatone/go-auth-cookie"
	"github.com/goliatone/go-router"
)

// Authenticator is the part of auth.CookieSessionManager the middleware needs
type Authenticator interface {
	Authenticate(t auth.Transport) (*auth.CookieLogin, error)
}

type Config struct {
	// Filter skips the middleware when it returns true
	Filter func(router.Context) bool
	// Authenticator is required
	Authenticator Authenticator
	// ContextKey is the Locals key the identity is stored under
	ContextKey string
	// ClaimsKey is the Locals key the decoded claims are stored under
	ClaimsKey string
	// ErrorHandler handles identity store and configuration errors. Rejected
	// or missing cookies never reach it.
	ErrorHandler func(router.Context, error) error
}

// New returns a router middleware that logs requests in from the identity
// cookie. Requests without a valid cookie reach next unauthenticated.
func New(config ...Config) router.MiddlewareFunc {
	cfg := GetDefaultConfig(config...)

	return func(next router.HandlerFunc) router.HandlerFunc {
		return func(ctx router.Context) error {
			if cfg.Filter != nil && cfg.Filter(ctx) {
				return next(ctx)
			}

			login, err := cfg.Authenticator.Authenticate(NewTransport(ctx))
			if err != nil {
				return cfg.ErrorHandler(ctx, err)
			}

			if login != nil {
				ctx.Locals(cfg.ContextKey, login.Identity)
				ctx.Locals(cfg.ClaimsKey, login.Claims)
			}

			return next(ctx)
		}
	}
}

func GetDefaultConfig(config ...Config) (cfg Config) {
	if len(config) > 0 {
		cfg = config[0]
	}

	if cfg.Authenticator == nil {
		panic("AUTH: router cookie middleware configuration: Authenticator is required.")
	}

	if cfg.ContextKey == "" {
		cfg.ContextKey = "identity"
	}

	if cfg.ClaimsKey == "" {
		cfg.ClaimsKey = "identity_claims"
	}

	if cfg.ErrorHandler == nil {
		cfg.ErrorHandler = func(ctx router.Context, err error) error {
			return ctx.Status(500).SendString("authentication unavailable")
		}
	}

	return cfg
}

// Identity returns the identity attached to the request context
func Identity(ctx router.Context) (auth.Identity, bool) {
	return auth.IdentityFromContext(ctx.Context())
}

// transport adapts a router context to auth.Transport
type transport struct {
	ctx router.Context
}

// NewTransport wraps ctx
func NewTransport(ctx router.Context) auth.Transport {
	return &transport{ctx: ctx}
}

func (t *transport) Context() context.Context {
	return t.ctx.Context()
}

func (t *transport) SetContext(ctx context.Context) {
	t.ctx.SetContext(ctx)
}

func (t *transport) Cookie(name string) (string, bool) {
	v := t.ctx.Cookies(name)
	return v, v != ""
}

// SetCookie passes a zero Expires through for session cookies
func (t *transport) SetCookie(cookie *auth.Cookie) {
	if cookie == nil {
		return
	}
	t.ctx.Cookie(&router.Cookie{
		Name:     cookie.Name,
		Value:    cookie.Value,
		Path:     cookie.Path,
		Domain:   cookie.Domain,
		Expires:  cookie.Expires,
		Secure:   cookie.Secure,
		HTTPOnly: cookie.HTTPOnly,
		SameSite: cookie.SameSite,
	})
}

func (t *transport) ClientIP() string {
	return t.ctx.IP()
}

// Origin is built from the Host header, https when a proxy says so
func (t *transport) Origin() string {
	host := t.ctx.Header("Host")
	if host == "" {
		return ""
	}

	scheme := "http"
	if strings.EqualFold(t.ctx.Header("X-Forwarded-Proto"), "https") {
		scheme = "https"
	}
	return scheme + "://" + host
}
