package repository

import (
	"context"
	"time"

	"moltgram/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// PollRepository defines the interface for poll data operations.
type PollRepository interface {
	// Create persists the poll and its options in one transaction.
	Create(ctx context.Context, poll *models.Poll) error
	GetByID(ctx context.Context, id uint) (*models.Poll, error)
	// Vote validates the option index and the poll's choice mode before
	// recording the vote. Closed polls reject votes with Expired; a repeat
	// vote on the same option, or a second vote on a single-choice poll,
	// is a Conflict.
	Vote(ctx context.Context, pollID, accountID uint, optionIndex int, now time.Time) error
	// Results tallies per-option counts and the viewer's own votes.
	Results(ctx context.Context, pollID, viewerID uint) (*models.PollResult, error)
	ListByAccount(ctx context.Context, accountID uint, limit, offset int) ([]*models.Poll, error)
}

type pollRepository struct {
	db *gorm.DB
}

// NewPollRepository creates a new poll repository.
func NewPollRepository(db *gorm.DB) PollRepository {
	return &pollRepository{db: db}
}

func (r *pollRepository) Create(ctx context.Context, poll *models.Poll) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if poll.CreatedAt.IsZero() {
			poll.CreatedAt = time.Now()
		}
		return tx.Create(poll).Error
	})
}

func (r *pollRepository) GetByID(ctx context.Context, id uint) (*models.Poll, error) {
	var poll models.Poll
	err := r.db.WithContext(ctx).
		Preload("Account").
		Preload("Options", func(db *gorm.DB) *gorm.DB { return db.Order("position ASC") }).
		First(&poll, id).Error
	if err != nil {
		return nil, translateNotFound(err, "poll", id)
	}
	return &poll, nil
}

func (r *pollRepository) Vote(ctx context.Context, pollID, accountID uint, optionIndex int, now time.Time) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var poll models.Poll
		if err := tx.First(&poll, pollID).Error; err != nil {
			return translateNotFound(err, "poll", pollID)
		}

		var optionCount int64
		if err := tx.Model(&models.PollOption{}).Where("poll_id = ?", pollID).
			Count(&optionCount).Error; err != nil {
			return err
		}
		if optionIndex < 0 || int64(optionIndex) >= optionCount {
			return models.NewInvalidArgumentError("option index out of range")
		}

		if poll.EndsAt != nil && !now.Before(*poll.EndsAt) {
			return models.NewExpiredError("poll is closed")
		}

		if !poll.IsMultiple {
			var prior int64
			if err := tx.Model(&models.PollVote{}).
				Where("poll_id = ? AND account_id = ?", pollID, accountID).
				Count(&prior).Error; err != nil {
				return err
			}
			if prior > 0 {
				return models.NewConflictError("already voted in this poll")
			}
		}

		res := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&models.PollVote{
			PollID:      pollID,
			AccountID:   accountID,
			OptionIndex: optionIndex,
			CreatedAt:   now,
		})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return models.NewConflictError("already voted for this option")
		}
		return nil
	})
}

func (r *pollRepository) Results(ctx context.Context, pollID, viewerID uint) (*models.PollResult, error) {
	poll, err := r.GetByID(ctx, pollID)
	if err != nil {
		return nil, err
	}

	var votes []models.PollVote
	if err := r.db.WithContext(ctx).
		Where("poll_id = ?", pollID).
		Find(&votes).Error; err != nil {
		return nil, err
	}

	counts := make([]models.OptionCount, len(poll.Options))
	for i, opt := range poll.Options {
		counts[i] = models.OptionCount{OptionIndex: opt.Position, Label: opt.Label}
	}
	result := &models.PollResult{Poll: poll, Counts: counts, YourVotes: []int{}}
	for _, v := range votes {
		if v.OptionIndex >= 0 && v.OptionIndex < len(counts) {
			counts[v.OptionIndex].Count++
			result.TotalVotes++
		}
		if v.AccountID == viewerID {
			result.YourVotes = append(result.YourVotes, v.OptionIndex)
		}
	}
	return result, nil
}

func (r *pollRepository) ListByAccount(ctx context.Context, accountID uint, limit, offset int) ([]*models.Poll, error) {
	var polls []*models.Poll
	err := r.db.WithContext(ctx).
		Preload("Options", func(db *gorm.DB) *gorm.DB { return db.Order("position ASC") }).
		Where("account_id = ?", accountID).
		Order("created_at DESC").
		Limit(limit).Offset(offset).
		Find(&polls).Error
	return polls, err
}
