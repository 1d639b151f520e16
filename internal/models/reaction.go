package models

import "time"

// Reaction target types.
const (
	TargetPost    = "post"
	TargetComment = "comment"
)

// Reaction values.
const (
	VoteLike    = 1
	VoteDislike = -1
)

// Reaction is a signed vote by an account on a post or comment.
// At most one row exists per (account, target type, target id).
type Reaction struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	AccountID  uint      `gorm:"not null;uniqueIndex:idx_reaction_target" json:"account_id"`
	TargetType string    `gorm:"size:16;not null;uniqueIndex:idx_reaction_target" json:"target_type"`
	TargetID   uint      `gorm:"not null;uniqueIndex:idx_reaction_target" json:"target_id"`
	Value      int       `gorm:"not null" json:"value"`
	CreatedAt  time.Time `json:"created_at"`
}

// Follow is a directed follower edge, unique per pair. Self-follows are rejected
// before this row is ever written.
type Follow struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	FollowerID uint      `gorm:"not null;index;uniqueIndex:idx_follower_followee" json:"follower_id"`
	FolloweeID uint      `gorm:"not null;index;uniqueIndex:idx_follower_followee" json:"followee_id"`
	CreatedAt  time.Time `json:"created_at"`
}
