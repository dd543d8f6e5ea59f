package admin

import (
	"context"
	"errors"
	"fmt"
	"log"

	"apistarter/internal/domain"
	"apistarter/internal/pkg/apierror"

	"gorm.io/gorm"
)

// UserRepository — the slice of the user store the admin module needs.
type UserRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.User, error)
	SetActive(ctx context.Context, id int64, active bool) error
	List(ctx context.Context, offset, limit int) ([]domain.User, int64, error)
	DB() *gorm.DB
}

// SessionLedger — revocation plus the per-user activity count shown in
// the user listing.
type SessionLedger interface {
	RevokeAllForUser(ctx context.Context, tx *gorm.DB, userID int64) error
	CountActiveForUser(ctx context.Context, userID int64) (int64, error)
}

type AuditWriter interface {
	Create(ctx context.Context, e *domain.AuditEntry) error
}

type Service struct {
	users    UserRepository
	sessions SessionLedger
	audit    AuditWriter
}

func NewService(users UserRepository, sessions SessionLedger, audit AuditWriter) *Service {
	return &Service{users: users, sessions: sessions, audit: audit}
}

// UserSummary is a user row plus how many live sessions they hold.
type UserSummary struct {
	domain.User
	ActiveSessions int64 `json:"active_sessions"`
}

func (s *Service) ListUsers(ctx context.Context, page, limit int) ([]UserSummary, int64, error) {
	if page <= 0 {
		page = 1
	}
	if limit <= 0 || limit > 100 {
		limit = 20
	}

	users, total, err := s.users.List(ctx, (page-1)*limit, limit)
	if err != nil {
		return nil, 0, apierror.Internal(err)
	}

	summaries := make([]UserSummary, 0, len(users))
	for _, u := range users {
		active, err := s.sessions.CountActiveForUser(ctx, u.ID)
		if err != nil {
			return nil, 0, apierror.Internal(err)
		}
		summaries = append(summaries, UserSummary{User: u, ActiveSessions: active})
	}
	return summaries, total, nil
}

// DeactivateUser flips the active flag and revokes every session the
// user holds; a deactivated account must not keep a working refresh
// token.
func (s *Service) DeactivateUser(ctx context.Context, userID int64, actorID int64, ip string) error {
	if _, err := s.getUser(ctx, userID); err != nil {
		return err
	}

	err := s.users.DB().WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&domain.User{}).Where("id = ?", userID).
			Update("is_active", false).Error; err != nil {
			return err
		}
		return s.sessions.RevokeAllForUser(ctx, tx, userID)
	})
	if err != nil {
		return apierror.Internal(err)
	}

	s.writeAudit(ctx, userID, domain.AuditDeactivate, actorID, ip)
	return nil
}

func (s *Service) ActivateUser(ctx context.Context, userID int64, actorID int64, ip string) error {
	if _, err := s.getUser(ctx, userID); err != nil {
		return err
	}

	if err := s.users.SetActive(ctx, userID, true); err != nil {
		return apierror.Internal(err)
	}

	s.writeAudit(ctx, userID, domain.AuditActivate, actorID, ip)
	return nil
}

func (s *Service) getUser(ctx context.Context, id int64) (*domain.User, error) {
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apierror.NotFound("User not found")
		}
		return nil, apierror.Internal(err)
	}
	return user, nil
}

func (s *Service) writeAudit(ctx context.Context, subjectID int64, action string, actorID int64, ip string) {
	if s.audit == nil {
		return
	}
	entry := &domain.AuditEntry{
		UserID: &subjectID,
		Action: action,
		Detail: fmt.Sprintf("by admin %d", actorID),
		IP:     ip,
	}
	if err := s.audit.Create(ctx, entry); err != nil {
		log.Printf("audit_write_failed action=%s error=%v", action, err)
	}
}
