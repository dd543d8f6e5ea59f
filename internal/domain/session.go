package domain

import "time"

// Session binds a refresh token to a user and its validity window.
//
// Security notes:
// - We never store the raw refresh token, only SHA-256(raw+pepper) in TokenHash.
// - Rotation swaps TokenHash in place; the row identity and expiry survive.
// - Revocation sets RevokedAt; rows are deleted later by the sweep, not here.
type Session struct {
	ID int64 `json:"id" gorm:"primaryKey"`

	UserID int64 `json:"user_id" gorm:"index;not null"`
	User   User  `json:"-" gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`

	TokenHash string `json:"-" gorm:"size:64;uniqueIndex;not null"`

	ExpiresAt time.Time  `json:"expires_at" gorm:"index;not null"`
	RevokedAt *time.Time `json:"revoked_at,omitempty" gorm:"index"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (s *Session) IsExpired(now time.Time) bool {
	return now.After(s.ExpiresAt)
}

func (s *Session) IsRevoked() bool {
	return s.RevokedAt != nil
}

// IsUsable reports whether the session can still be exchanged for a new
// token pair.
func (s *Session) IsUsable(now time.Time) bool {
	return !s.IsRevoked() && !s.IsExpired(now)
}
