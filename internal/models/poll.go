package models

import "time"

// Poll option count bounds.
const (
	PollMinOptions = 2
	PollMaxOptions = 10
)

// Poll is a question with an ordered list of options. Single-choice polls
// reject any second vote by the same account.
type Poll struct {
	ID         uint       `gorm:"primaryKey" json:"id"`
	AccountID  uint       `gorm:"not null;index" json:"account_id"`
	Account    *Account   `gorm:"foreignKey:AccountID" json:"account,omitempty"`
	Question   string     `gorm:"type:text;not null" json:"question"`
	IsMultiple bool       `gorm:"default:false" json:"is_multiple"`
	EndsAt     *time.Time `json:"ends_at,omitempty"`
	CreatedAt  time.Time  `json:"created_at"`

	Options []PollOption `gorm:"foreignKey:PollID" json:"options,omitempty"`
}

// PollOption is a single poll choice at a fixed position.
type PollOption struct {
	ID       uint   `gorm:"primaryKey" json:"id"`
	PollID   uint   `gorm:"not null;index;uniqueIndex:idx_poll_position" json:"poll_id"`
	Position int    `gorm:"not null;uniqueIndex:idx_poll_position" json:"position"`
	Label    string `gorm:"size:280;not null" json:"label"`
}

// PollVote records one vote, unique per (poll, account, option index).
type PollVote struct {
	PollID      uint      `gorm:"primaryKey" json:"poll_id"`
	AccountID   uint      `gorm:"primaryKey" json:"account_id"`
	OptionIndex int       `gorm:"primaryKey" json:"option_index"`
	CreatedAt   time.Time `json:"created_at"`
}

// PollResult is the tallied projection of a poll for a given viewer.
type PollResult struct {
	Poll       *Poll         `json:"poll"`
	Counts     []OptionCount `json:"counts"`
	TotalVotes int           `json:"total_votes"`
	YourVotes  []int         `json:"your_votes"`
}

// OptionCount is the vote tally for one option.
type OptionCount struct {
	OptionIndex int    `json:"option_index"`
	Label       string `json:"label"`
	Count       int    `json:"count"`
}
