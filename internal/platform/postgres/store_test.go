package postgres

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lorepath/insight-api/internal/domain"
	"github.com/lorepath/insight-api/internal/store"
)

// fakeDB is a stub DBTX that records ExecContext calls and returns a
// canned result or error.
type fakeDB struct {
	execArgs []any
	execErr  error
	result   sql.Result
}

func (f *fakeDB) ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error) {
	f.execArgs = args
	if f.execErr != nil {
		return nil, f.execErr
	}
	return f.result, nil
}

func (f *fakeDB) QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error) {
	return nil, errors.New("not implemented")
}

func (f *fakeDB) QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row {
	return nil
}

type fakeResult struct {
	rows int64
	err  error
}

func (r fakeResult) LastInsertId() (int64, error) { return 0, nil }
func (r fakeResult) RowsAffected() (int64, error) { return r.rows, r.err }

func uniqueViolation() error {
	return &pgconn.PgError{Code: "23505", ConstraintName: "users_email_key"}
}

func validExperience() *domain.Experience {
	return &domain.Experience{
		ID:        "exp-001",
		Timestamp: "2024-03-01T10:00:00Z",
		Learner:   domain.Learner{ID: "learner-1"},
		Context: domain.Context{
			Location: domain.Location{
				Name: "Lisbon",
				Coordinates: &domain.Coordinates{
					Latitude:  38.72,
					Longitude: -9.14,
				},
			},
		},
		Data: domain.ExperienceData{
			Type:        "workshop",
			Description: "intro to graph analytics",
			Domains:     []string{"math", "cs"},
		},
	}
}

func TestExperienceStoreCreate(t *testing.T) {
	t.Parallel()

	t.Run("inserts all columns", func(t *testing.T) {
		t.Parallel()
		db := &fakeDB{result: fakeResult{rows: 1}}
		s := NewPostgresExperienceStore(db, nil)

		err := s.Create(context.Background(), validExperience())
		require.NoError(t, err)
		require.Len(t, db.execArgs, 9)
		assert.Equal(t, "exp-001", db.execArgs[0])
		assert.Equal(t, sql.NullFloat64{Float64: 38.72, Valid: true}, db.execArgs[4])
		assert.JSONEq(t, `["math","cs"]`, string(db.execArgs[8].([]byte)))
	})

	t.Run("nil coordinates store as NULL", func(t *testing.T) {
		t.Parallel()
		db := &fakeDB{result: fakeResult{rows: 1}}
		s := NewPostgresExperienceStore(db, nil)

		exp := validExperience()
		exp.Context.Location.Coordinates = nil
		require.NoError(t, s.Create(context.Background(), exp))
		assert.Equal(t, sql.NullFloat64{}, db.execArgs[4])
		assert.Equal(t, sql.NullFloat64{}, db.execArgs[5])
	})

	t.Run("nil domains store as NULL", func(t *testing.T) {
		t.Parallel()
		db := &fakeDB{result: fakeResult{rows: 1}}
		s := NewPostgresExperienceStore(db, nil)

		exp := validExperience()
		exp.Data.Domains = nil
		require.NoError(t, s.Create(context.Background(), exp))
		assert.Nil(t, db.execArgs[8])
	})

	t.Run("empty ID rejected", func(t *testing.T) {
		t.Parallel()
		s := NewPostgresExperienceStore(&fakeDB{}, nil)

		exp := validExperience()
		exp.ID = ""
		err := s.Create(context.Background(), exp)
		assert.ErrorIs(t, err, store.ErrInvalidEntity)
	})

	t.Run("duplicate ID maps to ErrExperienceExists", func(t *testing.T) {
		t.Parallel()
		db := &fakeDB{execErr: uniqueViolation()}
		s := NewPostgresExperienceStore(db, nil)

		err := s.Create(context.Background(), validExperience())
		assert.ErrorIs(t, err, store.ErrExperienceExists)
	})
}

func TestUserStoreCreate(t *testing.T) {
	t.Parallel()

	t.Run("hashes password before insert", func(t *testing.T) {
		t.Parallel()
		db := &fakeDB{result: fakeResult{rows: 1}}
		s := NewPostgresUserStore(db, 4, nil)

		user, err := domain.NewUser("ada@example.com", "correct horse battery")
		require.NoError(t, err)

		require.NoError(t, s.Create(context.Background(), user))
		assert.Empty(t, user.Password)
		assert.NotEmpty(t, user.HashedPassword)
		assert.NotContains(t, user.HashedPassword, "correct horse")
		assert.Equal(t, user.HashedPassword, db.execArgs[2])
	})

	t.Run("invalid user rejected without touching the database", func(t *testing.T) {
		t.Parallel()
		db := &fakeDB{}
		s := NewPostgresUserStore(db, 4, nil)

		user := &domain.User{Email: "not-an-email"}
		err := s.Create(context.Background(), user)
		assert.Error(t, err)
		assert.Nil(t, db.execArgs)
	})

	t.Run("duplicate email maps to ErrEmailExists", func(t *testing.T) {
		t.Parallel()
		db := &fakeDB{execErr: uniqueViolation()}
		s := NewPostgresUserStore(db, 4, nil)

		user, err := domain.NewUser("ada@example.com", "correct horse battery")
		require.NoError(t, err)
		assert.ErrorIs(t, s.Create(context.Background(), user), store.ErrEmailExists)
	})
}

func TestMapErrorCodes(t *testing.T) {
	t.Parallel()

	assert.ErrorIs(t, MapError(uniqueViolation()), store.ErrDuplicate)
	assert.ErrorIs(t, MapError(&pgconn.PgError{Code: "23503"}), store.ErrInvalidEntity)
	assert.ErrorIs(t, MapError(&pgconn.PgError{Code: "23514"}), store.ErrInvalidEntity)
	assert.ErrorIs(t, MapError(sql.ErrNoRows), store.ErrNotFound)
	assert.NoError(t, MapError(nil))
}

func TestIsNotFoundError(t *testing.T) {
	t.Parallel()

	assert.True(t, IsNotFoundError(sql.ErrNoRows))
	assert.True(t, IsNotFoundError(store.ErrUserNotFound))
	assert.False(t, IsNotFoundError(errors.New("boom")))
	assert.False(t, IsNotFoundError(nil))
}

func TestCheckRowsAffected(t *testing.T) {
	t.Parallel()

	assert.NoError(t, CheckRowsAffected(fakeResult{rows: 1}, "experience"))
	assert.Error(t, CheckRowsAffected(fakeResult{rows: 0}, "experience"))
	assert.Error(t, CheckRowsAffected(fakeResult{err: errors.New("driver")}, "experience"))
}
