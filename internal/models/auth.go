package models

import (
	"time"

	"garrison/internal/access"
)

type User struct {
	Model
	Name     string      `gorm:"not null" json:"name"`
	Email    string      `gorm:"uniqueIndex;not null" json:"email"`
	Password string      `gorm:"not null" json:"-"`
	Role     access.Role `gorm:"not null" json:"role"`
	BaseID   string      `gorm:"type:uuid;default:NULL" json:"base_id,omitempty"`
	Base     *Base       `json:"base,omitempty"`
}

// AuthSession records an issued bearer token. The auth middleware requires a
// live row for the presented token, so logout and token invalidation take
// effect immediately.
type AuthSession struct {
	Model
	UserID    string    `gorm:"type:uuid;not null;index" json:"userId"`
	User      *User     `json:"user,omitempty"`
	Token     string    `gorm:"not null;index" json:"token"`
	IPAddress string    `json:"ipAddress"`
	UserAgent string    `json:"userAgent"`
	ExpiresAt time.Time `json:"expiresAt"`
}
