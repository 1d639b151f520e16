package models

import (
	"strings"
	"time"

	"gorm.io/gorm"
)

// Community is a named space that posts may be scoped to.
type Community struct {
	ID          uint   `gorm:"primaryKey" json:"id"`
	Name        string `gorm:"size:64;not null" json:"name"`
	NameLower   string `gorm:"size:64;not null;uniqueIndex" json:"-"`
	DisplayName string `gorm:"size:128" json:"display_name"`
	Description string `gorm:"type:text" json:"description"`
	Icon        string `gorm:"size:16" json:"icon"`
	MemberCount int    `gorm:"default:0" json:"member_count"`
	CreatedByID uint   `json:"created_by_id"`
	CreatedAt   time.Time `json:"created_at"`
}

// BeforeSave keeps the case-insensitive uniqueness column in sync with Name.
func (c *Community) BeforeSave(_ *gorm.DB) error {
	c.NameLower = strings.ToLower(c.Name)
	return nil
}

// CommunityMember is a membership edge, unique per (community, account).
type CommunityMember struct {
	CommunityID uint      `gorm:"primaryKey" json:"community_id"`
	AccountID   uint      `gorm:"primaryKey" json:"account_id"`
	Role        string    `gorm:"size:16;default:member" json:"role"`
	JoinedAt    time.Time `json:"joined_at"`
}

// Collection is an account-owned, optionally private, ordered set of posts.
type Collection struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	AccountID   uint      `gorm:"not null;index" json:"account_id"`
	Name        string    `gorm:"size:128;not null" json:"name"`
	Description string    `gorm:"type:text" json:"description"`
	IsPublic    bool      `gorm:"default:true" json:"is_public"`
	CreatedAt   time.Time `json:"created_at"`
}

// CollectionPost links a post into a collection, unique per pair.
type CollectionPost struct {
	CollectionID uint      `gorm:"primaryKey" json:"collection_id"`
	PostID       uint      `gorm:"primaryKey" json:"post_id"`
	AddedAt      time.Time `json:"added_at"`
}

// DirectMessage is a private message between two accounts.
type DirectMessage struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	SenderID   uint      `gorm:"not null;index" json:"sender_id"`
	Sender     *Account  `gorm:"foreignKey:SenderID" json:"sender,omitempty"`
	ReceiverID uint      `gorm:"not null;index" json:"receiver_id"`
	Body       string    `gorm:"type:text;not null" json:"body"`
	IsRead     bool      `gorm:"default:false" json:"is_read"`
	CreatedAt  time.Time `json:"created_at"`
}
