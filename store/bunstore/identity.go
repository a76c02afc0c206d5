package bunstore

import (
	"time"

	auth "github.com/goliatone/go-auth-cookie"
	"github.com/google/uuid"
)

// UserIdentity is the identity attached to requests logged in from the
// identity cookie. It is a copy of the row without the password hash, so
// handlers can render it as is.
type UserIdentity struct {
	id          uuid.UUID
	username    string
	memberSince time.Time
}

var _ auth.Identity = UserIdentity{}

// NewIdentityFromUser snapshots user, nil users have no identity
func NewIdentityFromUser(user *User) auth.Identity {
	if user == nil {
		return nil
	}
	return UserIdentity{
		id:          user.ID,
		username:    user.Username,
		memberSince: user.CreatedAt,
	}
}

// ID is the cookie subject. A user that was never stored has none, which
// the session manager refuses to issue a cookie for.
func (u UserIdentity) ID() string {
	if u.id == uuid.Nil {
		return ""
	}
	return u.id.String()
}

func (u UserIdentity) UUID() uuid.UUID {
	return u.id
}

func (u UserIdentity) Username() string {
	return u.username
}

// MemberSince is the registration time of the user
func (u UserIdentity) MemberSince() time.Time {
	return u.memberSince
}
