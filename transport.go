package auth

import (
	"context"
	"net"
	"net/http"
	"strings"
)

// Transport is the request/response pair a manager operates on. Adapters
// exist for go-router (middleware/routerware), fiber (middleware/fiberware)
// and net/http (HTTPTransport).
type Transport interface {
	Context() context.Context
	SetContext(ctx context.Context)
	// Cookie returns the value of the named request cookie
	Cookie(name string) (string, bool)
	// SetCookie appends a cookie to the response
	SetCookie(cookie *Cookie)
	ClientIP() string
	// Origin is scheme://host of the request
	Origin() string
}

// HTTPTransport adapts net/http to Transport
type HTTPTransport struct {
	w http.ResponseWriter
	r *http.Request
}

var _ Transport = (*HTTPTransport)(nil)

// NewHTTPTransport wraps w and r
func NewHTTPTransport(w http.ResponseWriter, r *http.Request) *HTTPTransport {
	return &HTTPTransport{w: w, r: r}
}

// Request returns the request carrying the latest context
func (t *HTTPTransport) Request() *http.Request {
	return t.r
}

func (t *HTTPTransport) Context() context.Context {
	return t.r.Context()
}

func (t *HTTPTransport) SetContext(ctx context.Context) {
	t.r = t.r.WithContext(ctx)
}

func (t *HTTPTransport) Cookie(name string) (string, bool) {
	c, err := t.r.Cookie(name)
	if err != nil || c.Value == "" {
		return "", false
	}
	return c.Value, true
}

func (t *HTTPTransport) SetCookie(cookie *Cookie) {
	if cookie == nil {
		return
	}

	hc := &http.Cookie{
		Name:     cookie.Name,
		Value:    cookie.Value,
		Path:     cookie.Path,
		Domain:   cookie.Domain,
		Secure:   cookie.Secure,
		HttpOnly: cookie.HTTPOnly,
		SameSite: httpSameSite(cookie.SameSite),
	}

	if !cookie.SessionOnly() {
		hc.Expires = cookie.Expires.UTC()
	}

	http.SetCookie(t.w, hc)
}

func (t *HTTPTransport) ClientIP() string {
	host, _, err := net.SplitHostPort(t.r.RemoteAddr)
	if err != nil {
		return t.r.RemoteAddr
	}
	return host
}

func (t *HTTPTransport) Origin() string {
	scheme := "http"
	if t.r.TLS != nil {
		scheme = "https"
	}
	return scheme + "://" + t.r.Host
}

func httpSameSite(v string) http.SameSite {
	switch strings.ToLower(v) {
	case "lax":
		return http.SameSiteLaxMode
	case "strict":
		return http.SameSiteStrictMode
	case "none":
		return http.SameSiteNoneMode
	default:
		return http.SameSiteDefaultMode
	}
}
