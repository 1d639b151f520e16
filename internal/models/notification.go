package models

import "time"

// Notification types.
const (
	NotificationLike    = "like"
	NotificationComment = "comment"
	NotificationFollow  = "follow"
	NotificationMention = "mention"
	NotificationRepost  = "repost"
	NotificationDM      = "dm"
)

// Notification is an unread-by-default record produced by a graph mutator.
// The payload is typed per notification kind: actor plus the related post,
// comment and text snippet where applicable.
type Notification struct {
	ID          uint     `gorm:"primaryKey" json:"id"`
	RecipientID uint     `gorm:"not null;index" json:"recipient_id"`
	Type        string   `gorm:"size:16;not null;index" json:"type"`
	ActorID     uint     `gorm:"not null" json:"actor_id"`
	Actor       *Account `gorm:"foreignKey:ActorID" json:"actor,omitempty"`
	PostID      *uint    `json:"post_id,omitempty"`
	CommentID   *uint    `json:"comment_id,omitempty"`
	Snippet     string   `gorm:"size:280" json:"snippet,omitempty"`

	IsRead    bool      `gorm:"default:false;index" json:"is_read"`
	CreatedAt time.Time `gorm:"index" json:"created_at"`
}
