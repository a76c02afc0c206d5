package auth_test

import (
	"context"
	"sync"

	auth "github.com/goliatone/go-auth-cookie"
	"github.com/stretchr/testify/mock"
)

// MockIdentityStore implements auth.IdentityStore
type MockIdentityStore struct {
	mock.Mock
}

func (m *MockIdentityStore) FindIdentity(ctx context.Context, subjectID string) (auth.Identity, error) {
	args := m.Called(ctx, subjectID)
	identity, _ := args.Get(0).(auth.Identity)
	return identity, args.Error(1)
}

// TestIdentity is a value identity
type TestIdentity struct {
	id string
}

func (i TestIdentity) ID() string {
	return i.id
}

// PointerIdentity is used to build typed nil identities
type PointerIdentity struct {
	id string
}

func (i *PointerIdentity) ID() string {
	return i.id
}

type logEntry struct {
	level string
	msg   string
	args  []any
}

// capturingLogger implements auth.Logger
type capturingLogger struct {
	mu      sync.Mutex
	entries []logEntry
}

func (l *capturingLogger) record(level, msg string, args []any) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.entries = append(l.entries, logEntry{level: level, msg: msg, args: args})
}

func (l *capturingLogger) Debug(msg string, args ...any) { l.record("debug", msg, args) }
func (l *capturingLogger) Info(msg string, args ...any)  { l.record("info", msg, args) }
func (l *capturingLogger) Warn(msg string, args ...any)  { l.record("warn", msg, args) }
func (l *capturingLogger) Error(msg string, args ...any) { l.record("error", msg, args) }

func (l *capturingLogger) find(level, msg string) (logEntry, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	for _, e := range l.entries {
		if e.level == level && e.msg == msg {
			return e, true
		}
	}
	return logEntry{}, false
}

type capturingSink struct {
	events []auth.ActivityEvent
}

func (c *capturingSink) Record(ctx context.Context, evt auth.ActivityEvent) error {
	c.events = append(c.events, evt)
	return nil
}

func (c *capturingSink) types() []auth.ActivityEventType {
	out := make([]auth.ActivityEventType, 0, len(c.events))
	for _, e := range c.events {
		out = append(out, e.EventType)
	}
	return out
}

// fakeTransport implements auth.Transport in memory
type fakeTransport struct {
	ctx     context.Context
	cookies map[string]string
	set     []*auth.Cookie
	ip      string
	origin  string
}

func newFakeTransport() *fakeTransport {
	return &fakeTransport{
		ctx:     context.Background(),
		cookies: map[string]string{},
		ip:      "203.0.113.7",
		origin:  "https://app.example.com",
	}
}

func (t *fakeTransport) Context() context.Context       { return t.ctx }
func (t *fakeTransport) SetContext(ctx context.Context) { t.ctx = ctx }
func (t *fakeTransport) ClientIP() string               { return t.ip }
func (t *fakeTransport) Origin() string                 { return t.origin }

func (t *fakeTransport) Cookie(name string) (string, bool) {
	v, ok := t.cookies[name]
	return v, ok && v != ""
}

func (t *fakeTransport) SetCookie(cookie *auth.Cookie) {
	t.set = append(t.set, cookie)
}

func (t *fakeTransport) lastCookie() *auth.Cookie {
	if len(t.set) == 0 {
		return nil
	}
	return t.set[len(t.set)-1]
}

// next returns a transport for a follow up request carrying the cookies set
// on this one
func (t *fakeTransport) next() *fakeTransport {
	n := newFakeTransport()
	n.ip, n.origin = t.ip, t.origin
	for k, v := range t.cookies {
		n.cookies[k] = v
	}
	for _, c := range t.set {
		n.cookies[c.Name] = c.Value
	}
	return n
}
