package domain

import "time"

const (
	AuditRegister       = "auth.register"
	AuditLogin          = "auth.login"
	AuditLogout         = "auth.logout"
	AuditPasswordChange = "auth.password_change"
	AuditDeactivate     = "admin.user_deactivate"
	AuditActivate       = "admin.user_activate"
)

// AuditEntry is an append-only record of an auth-relevant event.
// Writes are best-effort: a failed insert is logged and swallowed,
// it never fails the operation that produced it.
type AuditEntry struct {
	ID        string    `json:"id" db:"id" gorm:"primaryKey;size:36"`
	UserID    *int64    `json:"user_id,omitempty" db:"user_id" gorm:"index"`
	Action    string    `json:"action" db:"action" gorm:"index;not null"`
	Detail    string    `json:"detail,omitempty" db:"detail"`
	IP        string    `json:"ip,omitempty" db:"ip"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

func (AuditEntry) TableName() string { return "audit_entries" }
