package repository

import (
	"context"
	"time"

	"apistarter/internal/domain"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

// AuditRepository appends audit rows. It talks raw SQL through sqlx over
// the same *sql.DB gorm uses; the table itself is migrated with the rest
// of the schema.
type AuditRepository struct {
	db *sqlx.DB
}

func NewAuditRepository(db *sqlx.DB) *AuditRepository {
	return &AuditRepository{db: db}
}

func (r *AuditRepository) Create(ctx context.Context, e *domain.AuditEntry) error {
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	if e.CreatedAt.IsZero() {
		e.CreatedAt = time.Now().UTC()
	}

	query := r.db.Rebind(`
		INSERT INTO audit_entries (id, user_id, action, detail, ip, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`)
	_, err := r.db.ExecContext(ctx, query,
		e.ID, e.UserID, e.Action, e.Detail, e.IP, e.CreatedAt,
	)
	return err
}

// ListByUser returns a user's audit trail, newest first.
func (r *AuditRepository) ListByUser(ctx context.Context, userID int64, limit int) ([]domain.AuditEntry, error) {
	query := r.db.Rebind(`
		SELECT id, user_id, action, detail, ip, created_at
		FROM audit_entries
		WHERE user_id = ?
		ORDER BY created_at DESC
		LIMIT ?
	`)
	var entries []domain.AuditEntry
	err := r.db.SelectContext(ctx, &entries, query, userID, limit)
	return entries, err
}
