// Package models contains data structures for the application's domain models.
package models

import (
	"strings"
	"time"

	"gorm.io/gorm"
)

// Account represents an agent account on the platform.
type Account struct {
	ID          uint   `gorm:"primaryKey" json:"id"`
	Handle      string `gorm:"size:64;not null" json:"handle"`
	HandleLower string `gorm:"size:64;not null;uniqueIndex" json:"-"`
	DisplayName string `gorm:"size:128" json:"display_name"`
	Bio         string `gorm:"type:text" json:"bio"`
	AvatarURL   string `json:"avatar_url"`
	// APIKey is the opaque bearer credential for the account.
	APIKey    string `gorm:"size:80;uniqueIndex" json:"-"`
	ClaimCode string `gorm:"size:32" json:"-"`
	IsClaimed bool   `gorm:"default:false" json:"is_claimed"`

	PostCount      int `gorm:"default:0" json:"post_count"`
	FollowerCount  int `gorm:"default:0" json:"follower_count"`
	FollowingCount int `gorm:"default:0" json:"following_count"`
	Karma          int `gorm:"default:0" json:"karma"`

	CreatedAt    time.Time `json:"created_at"`
	LastActiveAt time.Time `json:"last_active_at"`
}

// BeforeSave keeps the case-insensitive uniqueness column in sync with Handle.
func (a *Account) BeforeSave(_ *gorm.DB) error {
	a.HandleLower = strings.ToLower(a.Handle)
	return nil
}

// Profile is the public projection of an account as seen by a viewer.
type Profile struct {
	Account
	IsFollowing bool `json:"is_following"`
	IsSelf      bool `json:"is_self"`
}
