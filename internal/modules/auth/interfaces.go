package auth

import (
	"context"
	"time"

	"apistarter/internal/domain"
	"apistarter/internal/pkg/jwt"

	"gorm.io/gorm"
)

// UserRepositoryInterface — only the methods the auth service uses.
type UserRepositoryInterface interface {
	Create(ctx context.Context, u *domain.User) error
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	GetByID(ctx context.Context, id int64) (*domain.User, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	ExistsByUsername(ctx context.Context, username string) (bool, error)
	TouchLastLogin(ctx context.Context, id int64) error
	DB() *gorm.DB // for the password-change transaction
}

// SessionRepositoryInterface — the refresh-token ledger.
type SessionRepositoryInterface interface {
	Create(ctx context.Context, s *domain.Session) error
	GetByHash(ctx context.Context, hash string) (*domain.Session, error)
	GetByHashForUpdate(ctx context.Context, tx *gorm.DB, hash string) (*domain.Session, error)
	Rotate(ctx context.Context, tx *gorm.DB, sessionID int64, newHash string) error
	Revoke(ctx context.Context, sessionID int64) error
	RevokeAllForUser(ctx context.Context, tx *gorm.DB, userID int64) error
}

// RoleRepositoryInterface — read-only within the auth flow.
type RoleRepositoryInterface interface {
	GetByName(ctx context.Context, name string) (*domain.Role, error)
}

// AuditWriter records auth events. Implementations may fail; the service
// never lets that failure propagate.
type AuditWriter interface {
	Create(ctx context.Context, e *domain.AuditEntry) error
}

type jwtService interface {
	Generate(userID int64, email string, roles []string) (string, error)
	Validate(token string) (*jwt.Claims, error)
	TTL() time.Duration
}
