package sqlite_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/aussiebroadwan/accounts/internal/accounts/domain"
	"github.com/aussiebroadwan/accounts/internal/accounts/store"
	"github.com/aussiebroadwan/accounts/internal/accounts/store/drivers/sqlite"
	"github.com/aussiebroadwan/accounts/pkg/idx"
	"github.com/stretchr/testify/require"
)

func newStore(t *testing.T) *sqlite.Store {
	t.Helper()

	s, err := sqlite.NewStore(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })

	require.NoError(t, s.ApplyMigrations())
	return s
}

func testUser(username, mobile string) domain.User {
	return domain.User{
		ID:           idx.New().String(),
		Username:     username,
		PasswordHash: "$2a$08$not-a-real-hash-but-non-empty",
		Name:         "Ann",
		Role:         "admin",
		MobileNumber: mobile,
		CreatedAt:    time.Now().UTC().Truncate(time.Millisecond),
	}
}

func ptr[T any](v T) *T { return &v }

func TestApplyMigrationsIsIdempotent(t *testing.T) {
	s := newStore(t)
	require.NoError(t, s.ApplyMigrations())
	require.NoError(t, s.Ping(context.Background()))
}

func TestCreateAndGetUser(t *testing.T) {
	ctx := context.Background()
	s := newStore(t)

	u := testUser("ann1", "555-0100")
	require.NoError(t, s.Users().CreateUser(ctx, u))

	got, err := s.Users().GetUserByUsername(ctx, "ann1")
	require.NoError(t, err)
	require.Equal(t, u.ID, got.ID)
	require.Equal(t, u.PasswordHash, got.PasswordHash)
	require.Equal(t, "555-0100", got.MobileNumber)
	require.True(t, u.CreatedAt.Equal(got.CreatedAt))
	require.True(t, got.CreatedAt.Equal(got.UpdatedAt))

	exists, err := store.Exists(ctx, s.Users(), "ann1")
	require.NoError(t, err)
	require.True(t, exists)
}

func TestGetUserNotFound(t *testing.T) {
	s := newStore(t)

	_, err := s.Users().GetUserByUsername(context.Background(), "ghost")
	require.ErrorIs(t, err, store.ErrNotFound)

	exists, err := store.Exists(context.Background(), s.Users(), "ghost")
	require.NoError(t, err)
	require.False(t, exists)
}

func TestCreateUserDuplicateUsername(t *testing.T) {
	ctx := context.Background()
	s := newStore(t)

	require.NoError(t, s.Users().CreateUser(ctx, testUser("ann1", "555-0100")))

	// Same username with a different mobile is still a duplicate
	err := s.Users().CreateUser(ctx, testUser("ann1", "555-0199"))
	require.ErrorIs(t, err, store.ErrAlreadyExists)
}

func TestCreateUserConcurrentSameUsername(t *testing.T) {
	ctx := context.Background()
	s := newStore(t)

	const racers = 8
	errs := make([]error, racers)

	var wg sync.WaitGroup
	for i := range racers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			errs[i] = s.Users().CreateUser(ctx, testUser("race", "555-0100"))
		}()
	}
	wg.Wait()

	var created int
	for _, err := range errs {
		if err == nil {
			created++
			continue
		}
		require.ErrorIs(t, err, store.ErrAlreadyExists)
	}
	require.Equal(t, 1, created)
}

func TestCreateUserRejectsInvalidRecords(t *testing.T) {
	ctx := context.Background()
	s := newStore(t)

	u := testUser("ann1", "555-0100")
	u.PasswordHash = ""
	require.ErrorIs(t, s.Users().CreateUser(ctx, u), store.ErrInvalidRecord)

	u = testUser("", "555-0100")
	require.ErrorIs(t, s.Users().CreateUser(ctx, u), store.ErrInvalidRecord)
}

func TestUpdateUserByCompositeKey(t *testing.T) {
	ctx := context.Background()
	s := newStore(t)

	u := testUser("ann1", "555-0100")
	require.NoError(t, s.Users().CreateUser(ctx, u))

	updated, err := s.Users().UpdateUser(ctx, "ann1", "555-0100", domain.UserPatch{
		Name: ptr("Ann B"),
		Role: ptr("editor"),
	})
	require.NoError(t, err)
	require.Equal(t, "Ann B", updated.Name)
	require.Equal(t, "editor", updated.Role)
	require.Equal(t, u.PasswordHash, updated.PasswordHash, "untouched fields are preserved")
	require.False(t, updated.UpdatedAt.Before(updated.CreatedAt))

	got, err := s.Users().GetUserByUsername(ctx, "ann1")
	require.NoError(t, err)
	require.Equal(t, updated, got)
}

func TestUpdateUserPasswordHash(t *testing.T) {
	ctx := context.Background()
	s := newStore(t)

	require.NoError(t, s.Users().CreateUser(ctx, testUser("ann1", "555-0100")))

	updated, err := s.Users().UpdateUser(ctx, "ann1", "555-0100", domain.UserPatch{
		PasswordHash: ptr("$2a$08$another-hash"),
	})
	require.NoError(t, err)
	require.Equal(t, "$2a$08$another-hash", updated.PasswordHash)
	require.Equal(t, "Ann", updated.Name)

	_, err = s.Users().UpdateUser(ctx, "ann1", "555-0100", domain.UserPatch{PasswordHash: ptr("")})
	require.ErrorIs(t, err, store.ErrInvalidRecord)
}

func TestUpdateUserKeyMismatch(t *testing.T) {
	ctx := context.Background()
	s := newStore(t)

	require.NoError(t, s.Users().CreateUser(ctx, testUser("ann1", "555-0100")))

	t.Run("wrong mobile", func(t *testing.T) {
		_, err := s.Users().UpdateUser(ctx, "ann1", "555-0199", domain.UserPatch{Name: ptr("x")})
		require.ErrorIs(t, err, store.ErrNotFound)
	})

	t.Run("unknown user", func(t *testing.T) {
		_, err := s.Users().UpdateUser(ctx, "ghost", "555-0100", domain.UserPatch{Name: ptr("x")})
		require.ErrorIs(t, err, store.ErrNotFound)
	})

	got, err := s.Users().GetUserByUsername(ctx, "ann1")
	require.NoError(t, err)
	require.Equal(t, "Ann", got.Name, "no write happens on key mismatch")
}

func TestUpdateUserEmptyPatchReadsRecord(t *testing.T) {
	ctx := context.Background()
	s := newStore(t)

	u := testUser("ann1", "555-0100")
	require.NoError(t, s.Users().CreateUser(ctx, u))

	got, err := s.Users().UpdateUser(ctx, "ann1", "555-0100", domain.UserPatch{})
	require.NoError(t, err)
	require.Equal(t, u.ID, got.ID)

	_, err = s.Users().UpdateUser(ctx, "ann1", "nope", domain.UserPatch{})
	require.ErrorIs(t, err, store.ErrNotFound)
}

func TestClosedStoreSurfacesDistinctError(t *testing.T) {
	s, err := sqlite.NewStore(":memory:")
	require.NoError(t, err)
	require.NoError(t, s.ApplyMigrations())
	require.NoError(t, s.Close())

	_, err = s.Users().GetUserByUsername(context.Background(), "ann1")
	require.Error(t, err)
	require.NotErrorIs(t, err, store.ErrNotFound)
}
