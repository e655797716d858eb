package session

import (
	"context"
	"fintrack/database"
	"fintrack/models"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestStore(t *testing.T) (*Store, func()) {
	t.Helper()

	tmpDir, err := os.MkdirTemp("", "fintrack-session-test-*")
	require.NoError(t, err)

	db, err := database.New(filepath.Join(tmpDir, "test.db"))
	require.NoError(t, err)
	require.NoError(t, db.Migrate())

	repo := database.NewRepository(db)
	require.NoError(t, repo.CreateUser(context.Background(), &models.User{ID: "user-1", IsGuest: true}))

	store := NewStore(db.DB)
	cleanup := func() {
		store.Stop()
		db.Close()
		os.RemoveAll(tmpDir)
	}
	return store, cleanup
}

func TestSessionLifecycle(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()
	ctx := context.Background()

	guest, err := store.Create(ctx, "user-1", "", "", time.Time{})
	require.NoError(t, err)
	assert.False(t, guest.HasToken())

	t.Run("Get returns stored session", func(t *testing.T) {
		got, err := store.Get(ctx, guest.ID)
		require.NoError(t, err)
		require.NotNil(t, got)
		assert.Equal(t, "user-1", got.UserID)
		assert.True(t, got.TokenExpiry.IsZero())
	})

	t.Run("Unknown session is nil", func(t *testing.T) {
		got, err := store.Get(ctx, "missing")
		require.NoError(t, err)
		assert.Nil(t, got)
	})

	t.Run("Attach token and look up by user", func(t *testing.T) {
		expiry := time.Now().Add(time.Hour)
		require.NoError(t, store.AttachToken(ctx, guest.ID, "access", "refresh", expiry))

		got, err := store.GetByUserID(ctx, "user-1")
		require.NoError(t, err)
		require.NotNil(t, got)
		assert.Equal(t, "access", got.AccessToken)
		assert.Equal(t, "refresh", got.RefreshToken)
	})

	t.Run("Update user token keeps refresh token when empty", func(t *testing.T) {
		require.NoError(t, store.UpdateUserToken(ctx, "user-1", "access-2", "", time.Now().Add(time.Hour)))

		got, err := store.Get(ctx, guest.ID)
		require.NoError(t, err)
		assert.Equal(t, "access-2", got.AccessToken)
		assert.Equal(t, "refresh", got.RefreshToken)
	})

	t.Run("Delete", func(t *testing.T) {
		require.NoError(t, store.Delete(ctx, guest.ID))

		got, err := store.Get(ctx, guest.ID)
		require.NoError(t, err)
		assert.Nil(t, got)
	})
}

func TestCleanupExpired(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()
	ctx := context.Background()

	sess, err := store.Create(ctx, "user-1", "", "", time.Time{})
	require.NoError(t, err)

	_, err = store.db.ExecContext(ctx, `UPDATE sessions SET expires_at = ? WHERE id = ?`,
		time.Now().Add(-time.Minute), sess.ID)
	require.NoError(t, err)

	got, err := store.Get(ctx, sess.ID)
	require.NoError(t, err)
	assert.Nil(t, got, "expired session must not be returned")

	n, err := store.CleanupExpired(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
}
