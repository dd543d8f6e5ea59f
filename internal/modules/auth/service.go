package auth

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"log"
	"strings"
	"time"

	"apistarter/internal/domain"
	"apistarter/internal/pkg/apierror"
	pkgjwt "apistarter/internal/pkg/jwt"
	"apistarter/internal/pkg/validator"

	"github.com/jackc/pgx/v5/pgconn"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const pgUniqueViolation = "23505"

// Service contains all business logic for authentication. Sessions are
// a small state machine: active → rotated (same row, new token value) →
// revoked, with no way back from revoked.
type Service struct {
	users         UserRepositoryInterface
	sessions      SessionRepositoryInterface
	roles         RoleRepositoryInterface
	audit         AuditWriter
	jwt           jwtService
	bcryptCost    int
	refreshPepper string
	refreshTTL    time.Duration
	rememberMeTTL time.Duration
}

func NewService(
	users UserRepositoryInterface,
	sessions SessionRepositoryInterface,
	roles RoleRepositoryInterface,
	audit AuditWriter,
	jwt jwtService,
	bcryptCost int,
	refreshPepper string,
	refreshTTL time.Duration,
	rememberMeTTL time.Duration,
) *Service {
	return &Service{
		users:         users,
		sessions:      sessions,
		roles:         roles,
		audit:         audit,
		jwt:           jwt,
		bcryptCost:    bcryptCost,
		refreshPepper: refreshPepper,
		refreshTTL:    refreshTTL,
		rememberMeTTL: rememberMeTTL,
	}
}

// Register creates a user, assigns the default role, and opens a first
// session. Duplicate email or username is a Conflict, including the race
// window the pre-checks cannot cover (unique-violation translation).
func (s *Service) Register(ctx context.Context, req RegisterRequest, ip string) (*domain.User, *TokenPair, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))

	exists, err := s.users.ExistsByEmail(ctx, email)
	if err != nil {
		return nil, nil, apierror.Internal(err)
	}
	if exists {
		return nil, nil, apierror.Conflict("Email is already registered")
	}

	username := strings.TrimSpace(req.Username)
	if username != "" {
		taken, err := s.users.ExistsByUsername(ctx, username)
		if err != nil {
			return nil, nil, apierror.Internal(err)
		}
		if taken {
			return nil, nil, apierror.Conflict("Username is already taken")
		}
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), s.bcryptCost)
	if err != nil {
		return nil, nil, apierror.Internal(err)
	}

	user := &domain.User{
		Email:        email,
		PasswordHash: string(hash),
		Name:         strings.TrimSpace(req.Name),
		IsActive:     true,
	}
	if username != "" {
		user.Username = &username
	}
	// Handlers validate the request body, but the service can also be
	// called directly (seeders, admin tooling), so check the entity too.
	if problems := validator.Validate(user); problems != nil {
		return nil, nil, apierror.Validation("Invalid user data", problems)
	}
	if role, err := s.roles.GetByName(ctx, domain.RoleUser); err == nil {
		user.Roles = []domain.Role{*role}
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil, apierror.Internal(err)
	}

	if err := s.users.Create(ctx, user); err != nil {
		if isUniqueViolation(err) {
			return nil, nil, apierror.Conflict("Email or username is already taken")
		}
		return nil, nil, apierror.Internal(err)
	}

	pair, err := s.issueSession(ctx, user, false)
	if err != nil {
		return nil, nil, err
	}

	s.writeAudit(ctx, &user.ID, domain.AuditRegister, "account created", ip)
	return user, pair, nil
}

// Login verifies credentials. Unknown email and wrong password produce
// the same error so callers cannot enumerate accounts; an inactive
// account is reported distinctly.
func (s *Service) Login(ctx context.Context, req LoginRequest, ip string) (*domain.User, *TokenPair, error) {
	user, err := s.users.GetByEmail(ctx, strings.ToLower(strings.TrimSpace(req.Email)))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, apierror.Unauthorized("Invalid email or password")
		}
		return nil, nil, apierror.Internal(err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return nil, nil, apierror.Unauthorized("Invalid email or password")
	}

	if !user.IsActive {
		return nil, nil, apierror.Unauthorized("Account is deactivated")
	}

	if err := s.users.TouchLastLogin(ctx, user.ID); err != nil {
		return nil, nil, apierror.Internal(err)
	}
	now := time.Now().UTC()
	user.LastLoginAt = &now

	pair, err := s.issueSession(ctx, user, req.RememberMe)
	if err != nil {
		return nil, nil, err
	}

	s.writeAudit(ctx, &user.ID, domain.AuditLogin, "login", ip)
	return user, pair, nil
}

// Refresh exchanges a refresh token for a fresh pair, rotating the stored
// token value in place. The session row is locked for the duration so a
// concurrent refresh with the same token loses cleanly instead of
// double-rotating.
func (s *Service) Refresh(ctx context.Context, refreshRaw string) (*domain.User, *TokenPair, error) {
	now := time.Now().UTC()
	hash := s.hashToken(refreshRaw)

	var user *domain.User
	var pair *TokenPair

	err := s.users.DB().WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		session, err := s.sessions.GetByHashForUpdate(ctx, tx, hash)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apierror.Unauthorized("Invalid refresh token")
			}
			return apierror.Internal(err)
		}

		if !session.IsUsable(now) {
			return apierror.Unauthorized("Invalid refresh token")
		}

		var owner domain.User
		if err := tx.Preload("Roles").First(&owner, session.UserID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apierror.Unauthorized("Invalid refresh token")
			}
			return apierror.Internal(err)
		}
		if !owner.IsActive {
			return apierror.Unauthorized("Account is deactivated")
		}

		accessToken, err := s.jwt.Generate(owner.ID, owner.Email, owner.RoleNames())
		if err != nil {
			return apierror.Internal(err)
		}
		newRaw, newHash, err := s.generateRefreshToken()
		if err != nil {
			return apierror.Internal(err)
		}

		if err := s.sessions.Rotate(ctx, tx, session.ID, newHash); err != nil {
			return apierror.Internal(err)
		}

		user = &owner
		pair = &TokenPair{
			AccessToken:  accessToken,
			RefreshToken: newRaw,
			ExpiresIn:    int64(s.jwt.TTL().Seconds()),
		}
		return nil
	})
	if err != nil {
		return nil, nil, err
	}
	return user, pair, nil
}

// Logout revokes the session holding the given refresh token. Unknown or
// garbage tokens succeed silently; logout is idempotent.
func (s *Service) Logout(ctx context.Context, refreshRaw, ip string) error {
	if strings.TrimSpace(refreshRaw) == "" {
		return nil
	}

	session, err := s.sessions.GetByHash(ctx, s.hashToken(refreshRaw))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		return apierror.Internal(err)
	}

	if err := s.sessions.Revoke(ctx, session.ID); err != nil {
		return apierror.Internal(err)
	}

	s.writeAudit(ctx, &session.UserID, domain.AuditLogout, "logout", ip)
	return nil
}

// ChangePassword swaps the hash and revokes every session for the user
// as one transaction. A half-applied state (new password but old
// sessions alive, or the reverse) must not be observable.
func (s *Service) ChangePassword(ctx context.Context, userID int64, req ChangePasswordRequest, ip string) error {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apierror.NotFound("User not found")
		}
		return apierror.Internal(err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.CurrentPassword)); err != nil {
		return apierror.Unauthorized("Current password is incorrect")
	}

	newHash, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), s.bcryptCost)
	if err != nil {
		return apierror.Internal(err)
	}

	err = s.users.DB().WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&domain.User{}).Where("id = ?", userID).
			Update("password_hash", string(newHash)).Error; err != nil {
			return err
		}
		return s.sessions.RevokeAllForUser(ctx, tx, userID)
	})
	if err != nil {
		return apierror.Internal(err)
	}

	s.writeAudit(ctx, &userID, domain.AuditPasswordChange, "password changed, all sessions revoked", ip)
	return nil
}

// VerifyToken validates an access token and resolves its identity.
// Expiry is reported distinctly from a malformed or mis-signed token.
func (s *Service) VerifyToken(ctx context.Context, accessToken string) (*domain.User, error) {
	claims, err := s.jwt.Validate(accessToken)
	if err != nil {
		if errors.Is(err, pkgjwt.ErrExpired) {
			return nil, apierror.TokenExpired()
		}
		return nil, apierror.Unauthorized("Invalid token")
	}

	user, err := s.users.GetByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apierror.Unauthorized("User not found")
		}
		return nil, apierror.Internal(err)
	}
	if !user.IsActive {
		return nil, apierror.Unauthorized("User not found")
	}
	return user, nil
}

// issueSession mints a token pair and records the refresh side in the
// ledger. Remember-me stretches the session window from the default
// seven days to thirty.
func (s *Service) issueSession(ctx context.Context, user *domain.User, rememberMe bool) (*TokenPair, error) {
	accessToken, err := s.jwt.Generate(user.ID, user.Email, user.RoleNames())
	if err != nil {
		return nil, apierror.Internal(err)
	}

	raw, hash, err := s.generateRefreshToken()
	if err != nil {
		return nil, apierror.Internal(err)
	}

	ttl := s.refreshTTL
	if rememberMe {
		ttl = s.rememberMeTTL
	}
	session := &domain.Session{
		UserID:    user.ID,
		TokenHash: hash,
		ExpiresAt: time.Now().UTC().Add(ttl),
	}
	if err := s.sessions.Create(ctx, session); err != nil {
		return nil, apierror.Internal(err)
	}

	return &TokenPair{
		AccessToken:  accessToken,
		RefreshToken: raw,
		ExpiresIn:    int64(s.jwt.TTL().Seconds()),
	}, nil
}

// writeAudit is fire-and-forget: a failed audit insert is logged and
// swallowed, never surfaced to the caller.
func (s *Service) writeAudit(ctx context.Context, userID *int64, action, detail, ip string) {
	if s.audit == nil {
		return
	}
	entry := &domain.AuditEntry{
		UserID: userID,
		Action: action,
		Detail: detail,
		IP:     ip,
	}
	if err := s.audit.Create(ctx, entry); err != nil {
		log.Printf("audit_write_failed action=%s error=%v", action, err)
	}
}

// generateRefreshToken returns 256 bits of crypto/rand entropy as hex,
// plus the peppered hash the ledger stores.
func (s *Service) generateRefreshToken() (raw string, hash string, err error) {
	buf := make([]byte, 32)
	if _, err = rand.Read(buf); err != nil {
		return "", "", err
	}
	raw = hex.EncodeToString(buf)
	return raw, s.hashToken(raw), nil
}

func (s *Service) hashToken(raw string) string {
	sum := sha256.Sum256([]byte(raw + s.refreshPepper))
	return hex.EncodeToString(sum[:])
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
		return true
	}
	// sqlite driver reports the same condition as a plain string
	return strings.Contains(err.Error(), "UNIQUE constraint failed")
}
