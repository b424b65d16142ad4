package models

import (
	"time"

	"gorm.io/gorm"
)

// Transaction is an immutable record of a completed sale. Rows are only ever
// created, never updated.
type Transaction struct {
	gorm.Model
	Total  int64 `gorm:"not null" json:"total"`
	UserID uint  `gorm:"not null;index" json:"user_id"`
	User   User  `json:"user"`
}

// PasswordResetToken is a single-use, time-limited token bound to one user.
// Once UsedAt is set or ExpiresAt has passed the token is permanently invalid.
type PasswordResetToken struct {
	gorm.Model
	Token     string     `gorm:"uniqueIndex;size:128;not null" json:"-"`
	UserID    uint       `gorm:"not null;index" json:"user_id"`
	ExpiresAt time.Time  `gorm:"not null" json:"expires_at"`
	UsedAt    *time.Time `json:"used_at"`
}

// Usable reports whether the token can still be redeemed at the given time.
func (t *PasswordResetToken) Usable(now time.Time) bool {
	return t.UsedAt == nil && now.Before(t.ExpiresAt)
}
