package auth

import (
	"context"
	"fmt"
	"strings"
	"time"
)

// Logger is the logging surface used across the package. Arguments after msg
// are key/value pairs, which means *slog.Logger satisfies it.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

// Identity holds the attributes of an identity
type Identity interface {
	ID() string
}

// IdentityStore ensure we have a store to retrieve auth identity.
// Stores return ErrIdentityNotFound, or a nil Identity, when no subject exists.
type IdentityStore interface {
	FindIdentity(ctx context.Context, subjectID string) (Identity, error)
}

// IdentityStoreFunc adapts a function to the IdentityStore interface.
type IdentityStoreFunc func(ctx context.Context, subjectID string) (Identity, error)

// FindIdentity implements IdentityStore.
func (f IdentityStoreFunc) FindIdentity(ctx context.Context, subjectID string) (Identity, error) {
	if f == nil {
		return nil, ErrIdentityNotFound
	}
	return f(ctx, subjectID)
}

// AuthSessionManager manages the identity cookie lifecycle for a request
type AuthSessionManager interface {
	Issue(t Transport, identity Identity, duration time.Duration) error
	AuthenticateFromCookie(t Transport) (*CookieLogin, error)
	Renew(t Transport) error
	CurrentIdentity(t Transport) (Identity, bool)
}

// CookieLogin is the outcome of a successful login by cookie. Duration is
// exp - nbf of the presented token, zero for session cookies.
type CookieLogin struct {
	Identity Identity
	Claims   *Claims
	Duration time.Duration
	State    AuthState
}

type defLogger struct{}

func (d defLogger) Error(msg string, args ...any) {
	fmt.Print("[ERR] AUTH " + line(msg, args))
}

func (d defLogger) Warn(msg string, args ...any) {
	fmt.Print("[WRN] AUTH " + line(msg, args))
}

func (d defLogger) Info(msg string, args ...any) {
	fmt.Print("[INF] AUTH " + line(msg, args))
}

func (d defLogger) Debug(msg string, args ...any) {
	fmt.Print("[DBG] AUTH " + line(msg, args))
}

func line(msg string, args []any) string {
	var sb strings.Builder
	sb.WriteString(msg)
	for i := 0; i < len(args); i += 2 {
		if i+1 < len(args) {
			fmt.Fprintf(&sb, " %v=%v", args[i], args[i+1])
		} else {
			fmt.Fprintf(&sb, " %v", args[i])
		}
	}
	sb.WriteString("\n")
	return sb.String()
}

func normalizeLogger(l Logger) Logger {
	if l == nil {
		return defLogger{}
	}
	return l
}
