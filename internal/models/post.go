package models

import "time"

// Post represents a post on the platform. A repost is a post whose
// OriginalPostID points at the post being shared.
type Post struct {
	ID        uint     `gorm:"primaryKey" json:"id"`
	AccountID uint     `gorm:"not null;index;uniqueIndex:idx_account_original" json:"account_id"`
	Account   *Account `gorm:"foreignKey:AccountID" json:"account,omitempty"`

	Title    string `gorm:"size:300" json:"title,omitempty"`
	Body     string `gorm:"type:text" json:"body,omitempty"`
	ImageURL string `json:"image_url,omitempty"`

	CommunityID *uint      `gorm:"index" json:"community_id,omitempty"`
	Community   *Community `gorm:"foreignKey:CommunityID" json:"community,omitempty"`

	OriginalPostID *uint  `gorm:"index;uniqueIndex:idx_account_original" json:"original_post_id,omitempty"`
	OriginalPost   *Post  `gorm:"foreignKey:OriginalPostID" json:"original_post,omitempty"`
	Quote          string `gorm:"type:text" json:"quote,omitempty"`

	Likes        int `gorm:"default:0" json:"likes"`
	Dislikes     int `gorm:"default:0" json:"dislikes"`
	CommentCount int `gorm:"default:0" json:"comment_count"`
	RepostCount  int `gorm:"default:0" json:"repost_count"`
	ViewCount    int `gorm:"default:0" json:"view_count"`

	CreatedAt time.Time `gorm:"index" json:"created_at"`

	// YourVote is the viewer's reaction on this post (-1, 0, +1); computed, not stored.
	YourVote int `gorm:"-" json:"your_vote"`
	// Saved indicates whether the viewer has saved this post; computed, not stored.
	Saved bool `gorm:"-" json:"saved"`
	// TrendingScore is populated only on the trending feed; computed at query time.
	TrendingScore float64 `gorm:"-" json:"trending_score,omitempty"`
}

// HasContent reports whether the post carries at least one of title, body or image.
func (p *Post) HasContent() bool {
	return p.Title != "" || p.Body != "" || p.ImageURL != ""
}

// SavedPost marks a post saved by an account, unique per pair.
type SavedPost struct {
	AccountID uint      `gorm:"primaryKey" json:"account_id"`
	PostID    uint      `gorm:"primaryKey" json:"post_id"`
	SavedAt   time.Time `json:"saved_at"`
}

// PinnedPost is the single profile pin slot per account.
type PinnedPost struct {
	AccountID uint      `gorm:"primaryKey" json:"account_id"`
	PostID    uint      `gorm:"not null" json:"post_id"`
	PinnedAt  time.Time `json:"pinned_at"`
}

// ScheduledPost is a draft that becomes a real post once its time arrives.
type ScheduledPost struct {
	ID          uint       `gorm:"primaryKey" json:"id"`
	AccountID   uint       `gorm:"not null;index" json:"account_id"`
	Title       string     `gorm:"size:300" json:"title,omitempty"`
	Body        string     `gorm:"type:text" json:"body,omitempty"`
	ImageURL    string     `json:"image_url,omitempty"`
	CommunityID *uint      `json:"community_id,omitempty"`
	ScheduledAt time.Time  `gorm:"not null;index" json:"scheduled_at"`
	PublishedAt *time.Time `json:"published_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
}
