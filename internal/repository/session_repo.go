package repository

import (
	"context"
	"time"

	"apistarter/internal/domain"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// SessionRepository is the durable ledger of issued refresh tokens.
// It only ever sees token hashes; hashing the raw value is the caller's job.
type SessionRepository struct {
	db *gorm.DB
}

func NewSessionRepository(db *gorm.DB) *SessionRepository {
	return &SessionRepository{db: db}
}

func (r *SessionRepository) Create(ctx context.Context, s *domain.Session) error {
	return r.db.WithContext(ctx).Create(s).Error
}

func (r *SessionRepository) GetByHash(ctx context.Context, hash string) (*domain.Session, error) {
	var s domain.Session
	err := r.db.WithContext(ctx).
		Preload("User").Preload("User.Roles").
		Where("token_hash = ?", hash).
		First(&s).Error
	if err != nil {
		return nil, err
	}
	return &s, nil
}

// GetByHashForUpdate locks the session row within tx so a concurrent
// refresh on the same token serializes instead of double-rotating.
// The locking clause is a no-op on sqlite, where the file lock already
// serializes writers.
func (r *SessionRepository) GetByHashForUpdate(ctx context.Context, tx *gorm.DB, hash string) (*domain.Session, error) {
	var s domain.Session
	err := tx.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("token_hash = ?", hash).
		First(&s).Error
	if err != nil {
		return nil, err
	}
	return &s, nil
}

// Rotate swaps the stored token hash in place. Row identity and expiry
// survive; only the hash and updated_at change.
func (r *SessionRepository) Rotate(ctx context.Context, tx *gorm.DB, sessionID int64, newHash string) error {
	return tx.WithContext(ctx).Model(&domain.Session{}).
		Where("id = ?", sessionID).
		Updates(map[string]any{
			"token_hash": newHash,
			"updated_at": time.Now().UTC(),
		}).Error
}

func (r *SessionRepository) Revoke(ctx context.Context, sessionID int64) error {
	now := time.Now().UTC()
	return r.db.WithContext(ctx).Model(&domain.Session{}).
		Where("id = ? AND revoked_at IS NULL", sessionID).
		Update("revoked_at", now).Error
}

func (r *SessionRepository) RevokeAllForUser(ctx context.Context, tx *gorm.DB, userID int64) error {
	now := time.Now().UTC()
	return tx.WithContext(ctx).Model(&domain.Session{}).
		Where("user_id = ? AND revoked_at IS NULL", userID).
		Update("revoked_at", now).Error
}

// CountActiveForUser reports live sessions for a user; tests and the
// admin module use it.
func (r *SessionRepository) CountActiveForUser(ctx context.Context, userID int64) (int64, error) {
	now := time.Now().UTC()
	var count int64
	err := r.db.WithContext(ctx).Model(&domain.Session{}).
		Where("user_id = ? AND revoked_at IS NULL AND expires_at > ?", userID, now).
		Count(&count).Error
	return count, err
}

// Sweep deletes every expired or revoked session and reports how many
// rows went. Best-effort batch delete, intended for a cron-driven binary.
func (r *SessionRepository) Sweep(ctx context.Context) (int64, error) {
	now := time.Now().UTC()
	tx := r.db.WithContext(ctx).
		Where("expires_at < ? OR revoked_at IS NOT NULL", now).
		Delete(&domain.Session{})
	return tx.RowsAffected, tx.Error
}
