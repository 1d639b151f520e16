package models

import "time"

// Story is ephemeral content that becomes invisible to all reads once
// now >= ExpiresAt, regardless of when the row is physically purged.
type Story struct {
	ID        uint     `gorm:"primaryKey" json:"id"`
	AccountID uint     `gorm:"not null;index" json:"account_id"`
	Account   *Account `gorm:"foreignKey:AccountID" json:"account,omitempty"`
	Body      string   `gorm:"type:text" json:"body,omitempty"`
	ImageURL  string   `json:"image_url,omitempty"`

	ViewCount int       `gorm:"default:0" json:"view_count"`
	CreatedAt time.Time `json:"created_at"`
	ExpiresAt time.Time `gorm:"not null;index" json:"expires_at"`

	// Viewed indicates whether the current viewer has seen this story; computed.
	Viewed bool `gorm:"-" json:"viewed"`
}

// Expired reports whether the story is past its TTL at the given instant.
func (s *Story) Expired(now time.Time) bool {
	return !now.Before(s.ExpiresAt)
}

// StoryView records a unique view of a story by a viewer.
type StoryView struct {
	StoryID  uint      `gorm:"primaryKey" json:"story_id"`
	ViewerID uint      `gorm:"primaryKey" json:"viewer_id"`
	ViewedAt time.Time `json:"viewed_at"`
}
