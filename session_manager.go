package auth

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// AuthState is the position of a request in the cookie login flow
type AuthState string

const (
	AuthStateUnauthenticated AuthState = "unauthenticated"
	AuthStateAuthenticating  AuthState = "authenticating"
	AuthStateAuthenticated   AuthState = "authenticated"
	AuthStateRenewed         AuthState = "renewed"
)

// CookieSessionManager issues, validates and renews the identity cookie.
// It keeps no per request state and is safe for concurrent use once built.
type CookieSessionManager struct {
	cfg             Config
	secret          []byte
	cookie          CookieConfig
	sessionDuration time.Duration
	autoRenew       bool
	renewExpired    bool
	leeway          time.Duration
	codec           *TokenCodec
	resolver        *IdentityResolver
	clock           Clock
	logger          Logger
	activitySink    ActivitySink
	// ErrorHandler renders errors that escape Middleware, by default a 500.
	ErrorHandler HTTPErrorHandler
}

var _ AuthSessionManager = (*CookieSessionManager)(nil)

// NewSessionManager validates cfg and returns a manager resolving identities
// through store.
func NewSessionManager(cfg Config, store IdentityStore) (*CookieSessionManager, error) {
	if cfg == nil {
		return nil, ErrInvalidConfig
	}

	if v, ok := cfg.(interface{ Validate() error }); ok {
		if err := v.Validate(); err != nil {
			return nil, err
		}
	}

	if cfg.GetSigningKey() == "" {
		return nil, ErrEncoding
	}

	sessionDuration := cfg.GetSessionDuration()
	if sessionDuration < 0 {
		sessionDuration = 0
	}

	m := &CookieSessionManager{
		cfg:             cfg,
		secret:          []byte(cfg.GetSigningKey()),
		cookie:          cfg.GetIdentityCookie(),
		sessionDuration: sessionDuration,
		autoRenew:       cfg.GetAutoRenewCookie(),
		renewExpired:    cfg.GetRenewExpired(),
		clock:           SystemClock{},
		logger:          defLogger{},
		activitySink:    discardSink{},
		resolver:        NewIdentityResolver(store),
	}
	m.codec = NewTokenCodec(WithCodecClock(m.clock))
	m.ErrorHandler = m.defaultErrorHandler

	return m, nil
}

// WithLogger sets the logger for the manager and its resolver
func (m *CookieSessionManager) WithLogger(logger Logger) *CookieSessionManager {
	m.logger = normalizeLogger(logger)
	m.resolver.WithLogger(m.logger)
	return m
}

// WithClock replaces the clock used for issuance, validation and renewal
func (m *CookieSessionManager) WithClock(clock Clock) *CookieSessionManager {
	m.clock = normalizeClock(clock)
	m.codec = NewTokenCodec(WithCodecClock(m.clock), WithCodecLeeway(m.leeway))
	return m
}

// WithLeeway tolerates clock skew on nbf and exp
func (m *CookieSessionManager) WithLeeway(leeway time.Duration) *CookieSessionManager {
	m.leeway = leeway
	m.codec = NewTokenCodec(WithCodecClock(m.clock), WithCodecLeeway(m.leeway))
	return m
}

// WithActivitySink configures an ActivitySink for emitting cookie events.
func (m *CookieSessionManager) WithActivitySink(sink ActivitySink) *CookieSessionManager {
	m.activitySink = normalizeActivitySink(sink)
	return m
}

// CookieName returns the configured identity cookie name
func (m *CookieSessionManager) CookieName() string {
	return m.cookie.Name
}

// SessionDuration returns the configured default session length
func (m *CookieSessionManager) SessionDuration() time.Duration {
	return m.sessionDuration
}

// Codec returns the token codec used by the manager
func (m *CookieSessionManager) Codec() *TokenCodec {
	return m.codec
}

// Issue signs a token for identity and sets the identity cookie. A duration
// of zero produces a token without exp carried in a session cookie.
func (m *CookieSessionManager) Issue(t Transport, identity Identity, duration time.Duration) error {
	if identity == nil || isNilValue(identity) || identity.ID() == "" {
		m.logger.Error("issue called with an invalid identity")
		return ErrInvalidIdentity
	}

	now := m.clock.Now()
	claims := NewClaims(identity.ID(), m.issuer(t), m.audience(t), now, duration)
	claims.ID = uuid.NewString()

	token, err := m.codec.Encode(claims, m.secret)
	if err != nil {
		m.logger.Error("identity cookie encode failed", "subject", claims.Subject, "error", err)
		return err
	}

	t.SetCookie(m.cookie.build(token, claims.Expires()))

	m.emit(t, ActivityEventCookieIssued, claims.Subject, map[string]any{
		"token_id": claims.ID,
		"duration": duration.String(),
	})

	return nil
}

// Login issues a cookie with the configured session duration and attaches
// identity to the request context.
func (m *CookieSessionManager) Login(t Transport, identity Identity) error {
	if err := m.Issue(t, identity, m.sessionDuration); err != nil {
		return err
	}
	t.SetContext(WithIdentity(t.Context(), identity))
	return nil
}

// AuthenticateFromCookie logs the request in from the identity cookie.
//
// A missing cookie, a rejected token or an unknown subject all return a nil
// login and a nil error: the request simply stays unauthenticated. Only
// configuration and identity store failures are returned.
func (m *CookieSessionManager) AuthenticateFromCookie(t Transport) (*CookieLogin, error) {
	raw, ok := t.Cookie(m.cookie.Name)
	if !ok {
		return nil, nil
	}

	m.logger.Debug("identity cookie found", "state", AuthStateAuthenticating)

	claims, err := m.codec.Decode(raw, m.secret)
	if err != nil {
		if IsAbsorbedError(err) {
			m.logger.Debug("identity cookie rejected", "state", AuthStateUnauthenticated, "error", err)
			return nil, nil
		}
		m.logger.Error("identity cookie decode failed", "error", err)
		return nil, err
	}

	ctx := t.Context()
	identity, err := m.resolver.Resolve(ctx, claims.Subject)
	if err != nil {
		return nil, err
	}

	if identity == nil {
		m.logger.Debug("identity cookie subject not found", "subject", claims.Subject)
		return nil, nil
	}

	login := &CookieLogin{
		Identity: identity,
		Claims:   claims,
		Duration: claims.Duration(),
		State:    AuthStateAuthenticated,
	}

	t.SetContext(WithIdentity(WithClaims(ctx, claims), identity))

	ip := t.ClientIP()
	m.logger.Info("identity logged in via cookie", "subject", claims.Subject, "ip", ip)
	m.emit(t, ActivityEventCookieLogin, claims.Subject, map[string]any{
		"token_id": claims.ID,
		"duration": login.Duration.String(),
	})

	return login, nil
}

// Authenticate runs AuthenticateFromCookie and, when sliding renewal is
// enabled, renews the cookie of an expiring session.
func (m *CookieSessionManager) Authenticate(t Transport) (*CookieLogin, error) {
	login, err := m.AuthenticateFromCookie(t)
	if err != nil || login == nil {
		return login, err
	}

	if !m.autoRenew || login.Duration <= 0 {
		return login, nil
	}

	renewed, err := m.renew(t)
	if err != nil {
		return nil, err
	}

	if renewed != nil {
		login.Claims = renewed
		login.State = AuthStateRenewed
		t.SetContext(WithClaims(t.Context(), renewed))
	}

	return login, nil
}

// Renew re-signs the identity cookie so it expires one full session length
// from now. Absent or rejected cookies and tokens without exp are left alone.
func (m *CookieSessionManager) Renew(t Transport) error {
	_, err := m.renew(t)
	return err
}

func (m *CookieSessionManager) renew(t Transport) (*Claims, error) {
	raw, ok := t.Cookie(m.cookie.Name)
	if !ok {
		return nil, nil
	}

	var claims *Claims
	var err error
	if m.renewExpired {
		claims, err = m.codec.DecodeIgnoringTime(raw, m.secret)
	} else {
		claims, err = m.codec.Decode(raw, m.secret)
	}

	if err != nil {
		if IsAbsorbedError(err) {
			m.logger.Debug("identity cookie not renewed", "error", err)
			return nil, nil
		}
		return nil, err
	}

	if !claims.HasExpiry() || claims.Duration() <= 0 {
		return nil, nil
	}

	renewed := claims.Renewed(m.clock.Now())

	token, err := m.codec.Encode(renewed, m.secret)
	if err != nil {
		m.logger.Error("identity cookie renewal encode failed", "subject", renewed.Subject, "error", err)
		return nil, err
	}

	t.SetCookie(m.cookie.build(token, renewed.Expires()))

	m.emit(t, ActivityEventCookieRenewed, renewed.Subject, map[string]any{
		"token_id": renewed.ID,
		"expires":  renewed.Expires().Unix(),
	})

	return renewed, nil
}

// CurrentIdentity returns the identity attached to the request by a
// successful cookie login.
func (m *CookieSessionManager) CurrentIdentity(t Transport) (Identity, bool) {
	return IdentityFromContext(t.Context())
}

// Logout expires the identity cookie and detaches the identity from the
// request context.
func (m *CookieSessionManager) Logout(t Transport) {
	userID := ""
	if identity, ok := m.CurrentIdentity(t); ok {
		userID = identity.ID()
	}

	t.SetCookie(m.cookie.expired())

	ctx := WithIdentity(t.Context(), nil)
	t.SetContext(WithClaims(ctx, nil))

	m.emit(t, ActivityEventLogout, userID, nil)
}

func (m *CookieSessionManager) issuer(t Transport) string {
	if iss := m.cfg.GetIssuer(); iss != "" {
		return iss
	}
	return t.Origin()
}

func (m *CookieSessionManager) audience(t Transport) string {
	if aud := m.cfg.GetAudience(); aud != "" {
		return aud
	}
	return t.Origin()
}

func (m *CookieSessionManager) emit(t Transport, eventType ActivityEventType, userID string, metadata map[string]any) {
	ctx := t.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	if metadata == nil {
		metadata = map[string]any{}
	}

	event := ActivityEvent{
		EventType:  eventType,
		UserID:     userID,
		IP:         t.ClientIP(),
		Metadata:   metadata,
		OccurredAt: m.clock.Now(),
	}

	if err := m.activitySink.Record(ctx, event); err != nil {
		m.logger.Warn("activity sink record error", "event", eventType, "error", err)
	}
}
