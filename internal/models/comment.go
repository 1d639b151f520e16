package models

import "time"

// Comment represents a comment on a post, optionally threaded under a parent comment.
type Comment struct {
	ID        uint     `gorm:"primaryKey" json:"id"`
	PostID    uint     `gorm:"not null;index" json:"post_id"`
	AccountID uint     `gorm:"not null;index" json:"account_id"`
	Account   *Account `gorm:"foreignKey:AccountID" json:"account,omitempty"`
	// ParentID, when set, must reference a comment on the same post.
	ParentID *uint  `gorm:"index" json:"parent_id,omitempty"`
	Body     string `gorm:"type:text;not null" json:"body"`

	Likes    int `gorm:"default:0" json:"likes"`
	Dislikes int `gorm:"default:0" json:"dislikes"`

	CreatedAt time.Time `json:"created_at"`

	// YourVote is the viewer's reaction on this comment; computed, not stored.
	YourVote int `gorm:"-" json:"your_vote"`
}
