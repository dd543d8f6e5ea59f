package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"apistarter/internal/database"
	"apistarter/internal/domain"
)

func setupSessionTest(t *testing.T) (*gorm.DB, *SessionRepository, int64) {
	t.Helper()

	db, err := database.Connect(":memory:")
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(&domain.User{}, &domain.Role{}, &domain.Session{}))

	user := &domain.User{Email: "ledger@test.com", PasswordHash: "x", IsActive: true}
	require.NoError(t, db.Create(user).Error)

	return db, NewSessionRepository(db), user.ID
}

func TestSessionRepository_RotatePreservesRowAndExpiry(t *testing.T) {
	db, repo, userID := setupSessionTest(t)
	ctx := context.Background()

	expiry := time.Now().UTC().Add(7 * 24 * time.Hour).Truncate(time.Second)
	session := &domain.Session{UserID: userID, TokenHash: "hash-a", ExpiresAt: expiry}
	require.NoError(t, repo.Create(ctx, session))

	require.NoError(t, repo.Rotate(ctx, db, session.ID, "hash-b"))

	_, err := repo.GetByHash(ctx, "hash-a")
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)

	rotated, err := repo.GetByHash(ctx, "hash-b")
	require.NoError(t, err)
	assert.Equal(t, session.ID, rotated.ID)
	assert.WithinDuration(t, expiry, rotated.ExpiresAt, time.Second)
	assert.False(t, rotated.IsRevoked())
}

func TestSessionRepository_RevokeIsTerminal(t *testing.T) {
	_, repo, userID := setupSessionTest(t)
	ctx := context.Background()

	session := &domain.Session{
		UserID:    userID,
		TokenHash: "hash-r",
		ExpiresAt: time.Now().UTC().Add(time.Hour),
	}
	require.NoError(t, repo.Create(ctx, session))
	require.NoError(t, repo.Revoke(ctx, session.ID))

	got, err := repo.GetByHash(ctx, "hash-r")
	require.NoError(t, err)
	assert.True(t, got.IsRevoked())
	assert.False(t, got.IsUsable(time.Now().UTC()))

	// Revoking again keeps the original timestamp
	first := *got.RevokedAt
	require.NoError(t, repo.Revoke(ctx, session.ID))
	again, err := repo.GetByHash(ctx, "hash-r")
	require.NoError(t, err)
	assert.WithinDuration(t, first, *again.RevokedAt, time.Second)
}

func TestSessionRepository_SweepDeletesExpiredAndRevoked(t *testing.T) {
	db, repo, userID := setupSessionTest(t)
	ctx := context.Background()
	now := time.Now().UTC()

	expired := &domain.Session{UserID: userID, TokenHash: "hash-expired", ExpiresAt: now.Add(-time.Hour)}
	live := &domain.Session{UserID: userID, TokenHash: "hash-live", ExpiresAt: now.Add(time.Hour)}
	revoked := &domain.Session{UserID: userID, TokenHash: "hash-revoked", ExpiresAt: now.Add(time.Hour)}
	for _, s := range []*domain.Session{expired, live, revoked} {
		require.NoError(t, repo.Create(ctx, s))
	}
	require.NoError(t, repo.Revoke(ctx, revoked.ID))

	deleted, err := repo.Sweep(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), deleted)

	var remaining int64
	require.NoError(t, db.Model(&domain.Session{}).Count(&remaining).Error)
	assert.Equal(t, int64(1), remaining)

	_, err = repo.GetByHash(ctx, "hash-live")
	assert.NoError(t, err)
}

func TestSessionRepository_RevokeAllForUser(t *testing.T) {
	db, repo, userID := setupSessionTest(t)
	ctx := context.Background()
	now := time.Now().UTC()

	for _, hash := range []string{"h1", "h2", "h3"} {
		require.NoError(t, repo.Create(ctx, &domain.Session{
			UserID:    userID,
			TokenHash: hash,
			ExpiresAt: now.Add(time.Hour),
		}))
	}

	require.NoError(t, repo.RevokeAllForUser(ctx, db, userID))

	count, err := repo.CountActiveForUser(ctx, userID)
	require.NoError(t, err)
	assert.Equal(t, int64(0), count)
}
