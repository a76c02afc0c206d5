package bunstore_test

import (
	"context"
	"strings"
	"testing"
	"time"

	auth "github.com/goliatone/go-auth-cookie"
	"github.com/goliatone/go-auth-cookie/store/bunstore"
	"github.com/goliatone/go-repository-bun"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/uptrace/bun"
	"golang.org/x/crypto/bcrypt"
)

func newUsers(t *testing.T) *bunstore.Users {
	t.Helper()
	users, _ := newStore(t)
	return users
}

func newStore(t *testing.T) (*bunstore.Users, *bun.DB) {
	t.Helper()

	db, err := bunstore.Open("file::memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	users := bunstore.NewUsers(db)
	users.HashCost = bcrypt.MinCost
	require.NoError(t, users.CreateSchema(context.Background()))
	return users, db
}

func TestUsers_Register(t *testing.T) {
	ctx := context.Background()
	users := newUsers(t)

	user, err := users.Register(ctx, "ada", "ada@example.com", "correct horse")
	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, user.ID)
	assert.NotEqual(t, "correct horse", user.PasswordHash)

	found, err := users.GetByUsername(ctx, "ada")
	require.NoError(t, err)
	assert.Equal(t, user.ID, found.ID)
	assert.Equal(t, "ada@example.com", found.Email)

	byID, err := users.GetByID(ctx, user.ID.String())
	require.NoError(t, err)
	assert.Equal(t, "ada", byID.Username)

	_, err = users.GetByUsername(ctx, "nobody")
	assert.True(t, repository.IsRecordNotFound(err))

	t.Run("duplicate username", func(t *testing.T) {
		_, err := users.Register(ctx, "ada", "", "another")
		assert.Error(t, err)
	})

	t.Run("missing username", func(t *testing.T) {
		_, err := users.Register(ctx, "", "", "secret")
		assert.Error(t, err)
	})

	t.Run("empty password", func(t *testing.T) {
		_, err := users.Register(ctx, "grace", "", "")
		assert.Error(t, err)
	})
}

func TestUsers_FindIdentity(t *testing.T) {
	ctx := context.Background()
	users, db := newStore(t)

	user, err := users.Register(ctx, "ada", "ada@example.com", "correct horse")
	require.NoError(t, err)

	identity, err := users.FindIdentity(ctx, user.ID.String())
	require.NoError(t, err)
	assert.Equal(t, user.ID.String(), identity.ID())

	ui, ok := identity.(bunstore.UserIdentity)
	require.True(t, ok)
	assert.Equal(t, "ada", ui.Username())
	assert.Equal(t, user.ID, ui.UUID())
	assert.False(t, ui.MemberSince().IsZero())

	t.Run("unknown id", func(t *testing.T) {
		_, err := users.FindIdentity(ctx, uuid.NewString())
		assert.True(t, auth.IsIdentityNotFoundError(err))
	})

	t.Run("not a uuid", func(t *testing.T) {
		_, err := users.FindIdentity(ctx, "42")
		assert.ErrorIs(t, err, auth.ErrIdentityNotFound)
	})

	t.Run("non canonical uuid", func(t *testing.T) {
		_, err := users.FindIdentity(ctx, strings.ToUpper(user.ID.String()))
		assert.ErrorIs(t, err, auth.ErrIdentityNotFound)

		_, err = users.FindIdentity(ctx, "urn:uuid:"+user.ID.String())
		assert.ErrorIs(t, err, auth.ErrIdentityNotFound)
	})

	t.Run("soft deleted user", func(t *testing.T) {
		gone, err := users.Register(ctx, "grace", "", "correct horse")
		require.NoError(t, err)

		_, err = db.NewDelete().Model(gone).WherePK().Exec(ctx)
		require.NoError(t, err)

		_, err = users.FindIdentity(ctx, gone.ID.String())
		assert.ErrorIs(t, err, auth.ErrIdentityNotFound)
	})

	t.Run("resolves through the identity resolver", func(t *testing.T) {
		resolved, err := auth.NewIdentityResolver(users).Resolve(ctx, user.ID.String())
		require.NoError(t, err)
		assert.Equal(t, user.ID.String(), resolved.ID())

		missing, err := auth.NewIdentityResolver(users).Resolve(ctx, uuid.NewString())
		assert.NoError(t, err)
		assert.Nil(t, missing)
	})
}

func TestUsers_VerifyIdentity(t *testing.T) {
	ctx := context.Background()
	users := newUsers(t)

	user, err := users.Register(ctx, "ada", "", "correct horse")
	require.NoError(t, err)

	identity, err := users.VerifyIdentity(ctx, "ada", "correct horse")
	require.NoError(t, err)
	assert.Equal(t, user.ID.String(), identity.ID())

	_, err = users.VerifyIdentity(ctx, "ada", "wrong")
	assert.ErrorIs(t, err, bunstore.ErrMismatchedHashAndPassword)

	_, err = users.VerifyIdentity(ctx, "nobody", "correct horse")
	assert.ErrorIs(t, err, bunstore.ErrMismatchedHashAndPassword)
}

func TestHashPassword(t *testing.T) {
	hash, err := bunstore.HashPassword("secret", bcrypt.MinCost)
	require.NoError(t, err)

	assert.NoError(t, bunstore.ComparePasswordAndHash("secret", hash))
	assert.ErrorIs(t, bunstore.ComparePasswordAndHash("nope", hash), bunstore.ErrMismatchedHashAndPassword)

	_, err = bunstore.HashPassword("", bcrypt.MinCost)
	assert.ErrorIs(t, err, bunstore.ErrNoEmptyString)

	cost, err := bcrypt.Cost([]byte(mustHash(t, "secret", 0)))
	require.NoError(t, err)
	assert.Equal(t, bcrypt.DefaultCost, cost)
}

func mustHash(t *testing.T, password string, cost int) string {
	t.Helper()
	hash, err := bunstore.HashPassword(password, cost)
	require.NoError(t, err)
	return hash
}

func TestNewIdentityFromUser(t *testing.T) {
	assert.Nil(t, bunstore.NewIdentityFromUser(nil))

	assert.Empty(t, bunstore.UserIdentity{}.ID())
	assert.Empty(t, bunstore.UserIdentity{}.Username())

	since := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	user := &bunstore.User{
		ID:           uuid.New(),
		Username:     "ada",
		PasswordHash: "hash",
		CreatedAt:    since,
	}
	identity := bunstore.NewIdentityFromUser(user).(bunstore.UserIdentity)

	user.Username = "changed"
	assert.Equal(t, "ada", identity.Username())
	assert.Equal(t, user.ID.String(), identity.ID())
	assert.Equal(t, since, identity.MemberSince())
}
