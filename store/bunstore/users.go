package bunstore

import (
	"context"
	"database/sql"
	"strings"

	auth "github.com/goliatone/go-auth-cookie"
	"github.com/goliatone/go-errors"
	"github.com/goliatone/go-repository-bun"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"github.com/uptrace/bun/driver/sqliteshim"
)

// Open connects to a sqlite database. Use "file::memory:?cache=shared" for
// an in memory database.
func Open(dsn string) (*bun.DB, error) {
	sqldb, err := sql.Open(sqliteshim.ShimName, dsn)
	if err != nil {
		return nil, errors.Wrap(err, errors.CategoryInternal, "failed to open sqlite database")
	}

	if strings.Contains(dsn, ":memory:") {
		sqldb.SetMaxOpenConns(1)
	}

	return bun.NewDB(sqldb, sqlitedialect.New()), nil
}

// Users is a bun backed identity store
type Users struct {
	repository.Repository[*User]
	db *bun.DB
	// HashCost is the bcrypt cost, zero uses bcrypt.DefaultCost
	HashCost int
}

var _ auth.IdentityStore = (*Users)(nil)

// NewUsers returns a store over db
func NewUsers(db *bun.DB) *Users {
	repo := repository.NewRepository[*User](db, repository.ModelHandlers[*User]{
		NewRecord: func() *User { return &User{} },
		GetID: func(u *User) uuid.UUID {
			if u == nil {
				return uuid.Nil
			}
			return u.ID
		},
		SetID: func(u *User, id uuid.UUID) {
			if u != nil {
				u.ID = id
			}
		},
	})

	return &Users{
		Repository: repo,
		db:         db,
	}
}

// CreateSchema creates the users table if missing
func (u *Users) CreateSchema(ctx context.Context) error {
	_, err := u.db.NewCreateTable().
		Model((*User)(nil)).
		IfNotExists().
		Exec(ctx)
	if err != nil {
		return errors.Wrap(err, errors.CategoryInternal, "failed to create users table")
	}
	return nil
}

// Register stores a new user with a hashed password
func (u *Users) Register(ctx context.Context, username, email, password string) (*User, error) {
	if username == "" {
		return nil, errors.New("username is required", errors.CategoryBadInput).
			WithCode(errors.CodeBadRequest)
	}

	hash, err := HashPassword(password, u.HashCost)
	if err != nil {
		return nil, errors.Wrap(err, errors.CategoryBadInput, "failed to hash password").
			WithCode(errors.CodeBadRequest)
	}

	user, err := u.Create(ctx, &User{
		ID:           uuid.New(),
		Username:     username,
		Email:        email,
		PasswordHash: hash,
	})
	if err != nil {
		return nil, errors.Wrap(err, errors.CategoryConflict, "failed to register user").
			WithCode(errors.CodeConflict)
	}

	return user, nil
}

// GetByUsername returns the user with username, or a record not found error
func (u *Users) GetByUsername(ctx context.Context, username string) (*User, error) {
	user := new(User)
	err := u.db.NewSelect().
		Model(user).
		Where("?TableAlias.username = ?", username).
		Limit(1).
		Scan(ctx)
	if err != nil {
		if repository.IsRecordNotFound(err) {
			return nil, repository.NewRecordNotFound().
				WithMetadata(map[string]any{
					"username": username,
				})
		}
		return nil, errors.Wrap(err, errors.CategoryInternal, "failed to get user by username")
	}
	return user, nil
}

// FindIdentity implements auth.IdentityStore. Cookies are only issued for
// canonical UUID strings, any other subject can not exist.
func (u *Users) FindIdentity(ctx context.Context, subjectID string) (auth.Identity, error) {
	id, err := uuid.Parse(subjectID)
	if err != nil || id.String() != subjectID {
		return nil, auth.ErrIdentityNotFound
	}

	user, err := u.GetByID(ctx, id.String())
	if err != nil {
		if repository.IsRecordNotFound(err) {
			return nil, auth.ErrIdentityNotFound
		}
		return nil, errors.Wrap(err, errors.CategoryInternal, "failed to get user by id")
	}

	return NewIdentityFromUser(user), nil
}

// VerifyIdentity will find the user, compare to the password, and return identity
func (u *Users) VerifyIdentity(ctx context.Context, username, password string) (auth.Identity, error) {
	user, err := u.GetByUsername(ctx, username)
	if err != nil {
		if repository.IsRecordNotFound(err) {
			return nil, ErrMismatchedHashAndPassword
		}
		return nil, err
	}

	if err := ComparePasswordAndHash(password, user.PasswordHash); err != nil {
		return nil, err
	}

	return NewIdentityFromUser(user), nil
}
