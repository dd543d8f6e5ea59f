package domain

import "time"

const (
	RoleAdmin = "admin"
	RoleUser  = "user"
)

// Role is a named permission bundle. The auth flow only reads roles to
// populate token claims; management of the set itself is out of band
// (seeded, or edited by an operator).
type Role struct {
	ID          int64          `json:"id" gorm:"primaryKey"`
	Name        string         `json:"name" gorm:"uniqueIndex;not null"`
	DisplayName string         `json:"display_name"`
	Permissions map[string]any `json:"permissions,omitempty" gorm:"serializer:json"`
	IsSystem    bool           `json:"is_system" gorm:"default:false"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
}
