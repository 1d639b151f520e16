package models

import "time"

// Hashtag is a normalized (lowercase) tag with a usage counter.
type Hashtag struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	Tag        string    `gorm:"size:64;not null;uniqueIndex" json:"tag"`
	PostCount  int       `gorm:"default:0" json:"post_count"`
	LastUsedAt time.Time `json:"last_used_at"`
	CreatedAt  time.Time `json:"created_at"`
}

// PostHashtag links a post to a hashtag, unique per pair.
type PostHashtag struct {
	PostID    uint `gorm:"primaryKey" json:"post_id"`
	HashtagID uint `gorm:"primaryKey" json:"hashtag_id"`
}

// Mention is a directed record of one account mentioning another in a post or comment.
type Mention struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	PostID      *uint     `gorm:"index" json:"post_id,omitempty"`
	CommentID   *uint     `gorm:"index" json:"comment_id,omitempty"`
	MentionedID uint      `gorm:"not null;index" json:"mentioned_id"`
	MentionerID uint      `gorm:"not null" json:"mentioner_id"`
	CreatedAt   time.Time `json:"created_at"`
}
