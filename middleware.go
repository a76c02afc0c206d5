package auth

import (
	"net/http"

	"github.com/goliatone/go-errors"
)

// HTTPErrorHandler renders an error raised while authenticating a request
type HTTPErrorHandler func(w http.ResponseWriter, r *http.Request, err error)

// Middleware logs requests in from the identity cookie before calling next.
// Requests without a valid cookie pass through unauthenticated; only
// configuration and identity store errors reach ErrorHandler.
func (m *CookieSessionManager) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t := NewHTTPTransport(w, r)

		if _, err := m.Authenticate(t); err != nil {
			handler := m.ErrorHandler
			if handler == nil {
				handler = m.defaultErrorHandler
			}
			handler(w, t.Request(), err)
			return
		}

		next.ServeHTTP(w, t.Request())
	})
}

// IdentityFromRequest returns the identity attached by Middleware
func IdentityFromRequest(r *http.Request) (Identity, bool) {
	return IdentityFromContext(r.Context())
}

func (m *CookieSessionManager) defaultErrorHandler(w http.ResponseWriter, r *http.Request, err error) {
	var richErr *errors.Error
	if !errors.As(err, &richErr) {
		richErr = errors.Wrap(err, errors.CategoryInternal, "An unexpected server error occurred").
			WithCode(errors.CodeInternal)
	}

	m.logger.Error(
		"cookie authentication error",
		"error", richErr.Message,
		"category", richErr.Category,
		"text_code", richErr.TextCode,
		"path", r.URL.Path,
	)

	code := richErr.Code
	if code == 0 {
		code = http.StatusInternalServerError
	}
	http.Error(w, http.StatusText(code), code)
}
