package domain

import "time"

// Note is the sample CRUD resource the template ships with. Public notes
// are visible to anonymous callers; private ones only to their owner.
type Note struct {
	ID       int64  `json:"id" gorm:"primaryKey"`
	OwnerID  int64  `json:"owner_id" gorm:"index;not null"`
	Owner    User   `json:"-" gorm:"foreignKey:OwnerID;constraint:OnDelete:CASCADE"`
	Title    string `json:"title" gorm:"not null"`
	Body     string `json:"body"`
	IsPublic bool   `json:"is_public" gorm:"default:false;index"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
