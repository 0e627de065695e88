package models

import (
	"time"

	"gorm.io/gorm"
)

// User represents a user account in the system
type User struct {
	gorm.Model

	// Authentication fields
	Email        string `gorm:"uniqueIndex;not null" json:"email"`
	PasswordHash string `gorm:"not null" json:"-"`

	// Profile information
	Name *string `json:"name,omitempty"`

	// Password reset
	ResetToken          *string    `gorm:"index" json:"-"`
	ResetTokenExpiresAt *time.Time `json:"-"`

	// Account status
	IsActive     bool `gorm:"default:true" json:"is_active"`
	TokenVersion int  `gorm:"default:1" json:"-"`

	// Relations
	Workspaces    []Workspace            `gorm:"foreignKey:OwnerID" json:"workspaces,omitempty"`
	Memberships   []Membership           `gorm:"foreignKey:UserID" json:"memberships,omitempty"`
	Documents     []Document             `gorm:"foreignKey:OwnerID" json:"documents,omitempty"`
	Collaborating []DocumentCollaborator `gorm:"foreignKey:UserID" json:"-"`
}

// RefreshToken stores issued refresh tokens so they can be revoked
type RefreshToken struct {
	gorm.Model
	UserID    uint      `gorm:"not null;index" json:"user_id"`
	Token     string    `gorm:"uniqueIndex;not null" json:"-"`
	UserAgent string    `json:"user_agent"`
	IPAddress string    `json:"ip_address"`
	ExpiresAt time.Time `gorm:"not null" json:"expires_at"`
	IsRevoked bool      `gorm:"default:false" json:"is_revoked"`

	// Relations
	User User `json:"-"`
}
