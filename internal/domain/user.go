package domain

import "time"

type User struct {
	ID           int64      `json:"id" gorm:"primaryKey"`
	Email        string     `json:"email" gorm:"uniqueIndex;not null" validate:"required,email"`
	Username     *string    `json:"username,omitempty" gorm:"uniqueIndex"`
	PasswordHash string     `json:"-" gorm:"not null"`
	Name         string     `json:"name"`
	IsActive     bool       `json:"is_active" gorm:"default:true"`
	LastLoginAt  *time.Time `json:"last_login_at,omitempty"`
	Roles        []Role     `json:"roles,omitempty" gorm:"many2many:user_roles"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

// RoleNames returns the names of the user's roles, in assignment order.
// This is what goes into access-token claims.
func (u *User) RoleNames() []string {
	names := make([]string, 0, len(u.Roles))
	for _, r := range u.Roles {
		names = append(names, r.Name)
	}
	return names
}

// HasAnyRole reports whether the user holds at least one of the required
// role names. An empty required set matches nothing.
func (u *User) HasAnyRole(required ...string) bool {
	for _, r := range u.Roles {
		for _, want := range required {
			if r.Name == want {
				return true
			}
		}
	}
	return false
}
