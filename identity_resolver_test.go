package auth_test

import (
	"context"
	"fmt"
	"testing"

	auth "github.com/goliatone/go-auth-cookie"
	goerrors "github.com/goliatone/go-errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIdentityResolver_Resolve(t *testing.T) {
	ctx := context.Background()

	t.Run("found", func(t *testing.T) {
		store := new(MockIdentityStore)
		store.On("FindIdentity", ctx, "42").Return(TestIdentity{id: "42"}, nil)

		identity, err := auth.NewIdentityResolver(store).Resolve(ctx, "42")

		require.NoError(t, err)
		assert.Equal(t, "42", identity.ID())
		store.AssertExpectations(t)
	})

	t.Run("pointer identity", func(t *testing.T) {
		store := new(MockIdentityStore)
		store.On("FindIdentity", ctx, "42").Return(&PointerIdentity{id: "42"}, nil)

		identity, err := auth.NewIdentityResolver(store).Resolve(ctx, "42")

		require.NoError(t, err)
		assert.Equal(t, "42", identity.ID())
	})

	notFound := map[string]error{
		"sentinel": auth.ErrIdentityNotFound,
		"text code": goerrors.New("user missing", goerrors.CategoryNotFound).
			WithTextCode(auth.TextCodeIdentityNotFound),
		"nil error": nil,
	}
	for name, storeErr := range notFound {
		t.Run("not found via "+name, func(t *testing.T) {
			store := new(MockIdentityStore)
			store.On("FindIdentity", ctx, "42").Return(nil, storeErr)

			identity, err := auth.NewIdentityResolver(store).Resolve(ctx, "42")

			assert.NoError(t, err)
			assert.Nil(t, identity)
		})
	}

	invalid := map[string]auth.Identity{
		"typed nil": (*PointerIdentity)(nil),
		"empty id":  TestIdentity{},
	}
	for name, returned := range invalid {
		t.Run("invalid identity "+name, func(t *testing.T) {
			store := new(MockIdentityStore)
			store.On("FindIdentity", ctx, "42").Return(returned, nil)
			logger := &capturingLogger{}

			identity, err := auth.NewIdentityResolver(store).WithLogger(logger).Resolve(ctx, "42")

			assert.ErrorIs(t, err, auth.ErrInvalidIdentity)
			assert.Nil(t, identity)
			assert.False(t, auth.IsAbsorbedError(err))
			assert.NotEmpty(t, logger.entries)
		})
	}

	t.Run("identity for another id is not found", func(t *testing.T) {
		store := new(MockIdentityStore)
		store.On("FindIdentity", ctx, "Ada").Return(TestIdentity{id: "ada"}, nil)
		logger := &capturingLogger{}

		identity, err := auth.NewIdentityResolver(store).WithLogger(logger).Resolve(ctx, "Ada")

		assert.NoError(t, err)
		assert.Nil(t, identity)

		entry, ok := logger.find("warn", "identity store returned an identity for another id")
		require.True(t, ok)
		assert.Contains(t, entry.args, "ada")
	})

	t.Run("store failure is wrapped", func(t *testing.T) {
		store := new(MockIdentityStore)
		cause := fmt.Errorf("connection reset")
		store.On("FindIdentity", ctx, "42").Return(nil, cause)

		identity, err := auth.NewIdentityResolver(store).WithLogger(&capturingLogger{}).Resolve(ctx, "42")

		require.Error(t, err)
		assert.Nil(t, identity)

		var richErr *goerrors.Error
		require.True(t, goerrors.As(err, &richErr))
		assert.Equal(t, auth.TextCodeIdentityLookup, richErr.TextCode)
	})

	t.Run("missing store", func(t *testing.T) {
		_, err := auth.NewIdentityResolver(nil).WithLogger(&capturingLogger{}).Resolve(ctx, "42")
		assert.ErrorIs(t, err, auth.ErrInvalidIdentity)
	})

	t.Run("store func adapter", func(t *testing.T) {
		store := auth.IdentityStoreFunc(func(_ context.Context, id string) (auth.Identity, error) {
			return TestIdentity{id: id}, nil
		})

		identity, err := auth.NewIdentityResolver(store).Resolve(ctx, "abc")

		require.NoError(t, err)
		assert.Equal(t, "abc", identity.ID())
	})

	t.Run("store is queried every time", func(t *testing.T) {
		store := new(MockIdentityStore)
		store.On("FindIdentity", ctx, "42").Return(TestIdentity{id: "42"}, nil).Twice()
		resolver := auth.NewIdentityResolver(store)

		_, _ = resolver.Resolve(ctx, "42")
		_, _ = resolver.Resolve(ctx, "42")

		store.AssertNumberOfCalls(t, "FindIdentity", 2)
	})
}

