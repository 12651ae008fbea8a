package models

import "time"

// At most one live reset code per email; saving a new one replaces the old.
type ResetCode struct {
	Email     string    `gorm:"primaryKey;size:255" json:"email"`
	Code      string    `gorm:"not null" json:"code"`
	ExpiresAt time.Time `json:"expires_at"`
}
