package auth

import (
	"context"
	stderrors "errors"
	"time"

	"github.com/goliatone/go-errors"
)

// ActivityEventType names an identity cookie lifecycle step
type ActivityEventType string

const (
	ActivityEventCookieIssued  ActivityEventType = "auth.cookie.issued"
	ActivityEventCookieLogin   ActivityEventType = "auth.cookie.login"
	ActivityEventCookieRenewed ActivityEventType = "auth.cookie.renewed"
	ActivityEventLogout        ActivityEventType = "auth.logout"
)

// ActivityEvent is emitted by CookieSessionManager after a cookie was
// written or accepted. Metadata carries token_id plus duration or expires.
type ActivityEvent struct {
	EventType  ActivityEventType
	UserID     string
	IP         string
	Metadata   map[string]any
	OccurredAt time.Time
}

// ActivitySink receives cookie events. Errors are logged by the manager and
// never fail the request.
type ActivitySink interface {
	Record(ctx context.Context, event ActivityEvent) error
}

// ActivitySinkFunc lets a plain function act as an ActivitySink
type ActivitySinkFunc func(ctx context.Context, event ActivityEvent) error

func (f ActivitySinkFunc) Record(ctx context.Context, event ActivityEvent) error {
	if f == nil {
		return nil
	}
	return f(ctx, event)
}

// MultiActivitySink fans events out to every sink. Failures are joined into
// one internal error carrying TextCodeActivitySink.
func MultiActivitySink(sinks ...ActivitySink) ActivitySink {
	out := make([]ActivitySink, 0, len(sinks))
	for _, s := range sinks {
		if s != nil {
			out = append(out, s)
		}
	}
	return multiSink(out)
}

type multiSink []ActivitySink

func (m multiSink) Record(ctx context.Context, event ActivityEvent) error {
	var errs []error
	for _, s := range m {
		if err := s.Record(ctx, event); err != nil {
			errs = append(errs, err)
		}
	}
	if len(errs) == 0 {
		return nil
	}

	return errors.Wrap(stderrors.Join(errs...), errors.CategoryInternal, "activity sink failed").
		WithCode(errors.CodeInternal).
		WithTextCode(TextCodeActivitySink)
}

type discardSink struct{}

func (discardSink) Record(context.Context, ActivityEvent) error { return nil }

func normalizeActivitySink(s ActivitySink) ActivitySink {
	if s == nil {
		return discardSink{}
	}
	return s
}
