package auth

import (
	"context"
	"reflect"
)

// IdentityResolver maps a validated subject id to an Identity through an
// IdentityStore. Identities are never cached.
type IdentityResolver struct {
	store  IdentityStore
	logger Logger
}

// NewIdentityResolver returns a resolver backed by store
func NewIdentityResolver(store IdentityStore) *IdentityResolver {
	return &IdentityResolver{
		store:  store,
		logger: defLogger{},
	}
}

// WithLogger sets the resolver logger
func (r *IdentityResolver) WithLogger(logger Logger) *IdentityResolver {
	r.logger = normalizeLogger(logger)
	return r
}

// Resolve returns the identity for subjectID.
//
// A nil Identity with a nil error means the subject does not exist. A store
// answering with an identity for a different id, a case folded one for
// instance, is treated the same way. Stores that return a nil value or an
// identity without an id produce ErrInvalidIdentity, which callers must not
// swallow.
func (r *IdentityResolver) Resolve(ctx context.Context, subjectID string) (Identity, error) {
	if r.store == nil {
		r.logger.Error("identity resolver has no store configured")
		return nil, ErrInvalidIdentity
	}

	identity, err := r.store.FindIdentity(ctx, subjectID)
	if err != nil {
		if IsIdentityNotFoundError(err) {
			return nil, nil
		}
		r.logger.Error("identity lookup failed", "subject", subjectID, "error", err)
		return nil, wrapLookupError(err)
	}

	if identity == nil {
		return nil, nil
	}

	if isNilValue(identity) {
		r.logger.Error("identity store returned a nil identity value", "subject", subjectID, "type", reflect.TypeOf(identity).String())
		return nil, ErrInvalidIdentity
	}

	id := identity.ID()
	if id == "" {
		r.logger.Error("identity store returned an identity without an id", "subject", subjectID)
		return nil, ErrInvalidIdentity
	}

	if id != subjectID {
		r.logger.Warn("identity store returned an identity for another id", "subject", subjectID, "id", id)
		return nil, nil
	}

	return identity, nil
}

func isNilValue(identity Identity) bool {
	rv := reflect.ValueOf(identity)
	switch rv.Kind() {
	case reflect.Ptr, reflect.Interface, reflect.Map, reflect.Slice, reflect.Func, reflect.Chan:
		return rv.IsNil()
	}
	return false
}
