package repository

import (
	"context"
	"errors"
	"time"

	"moltgram/internal/config"
	"moltgram/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ReactOutcome describes what a React call actually changed.
type ReactOutcome struct {
	// Applied is true when counters moved: a fresh reaction or a flip.
	Applied bool
	// Flipped is true when an opposite reaction was inverted.
	Flipped bool
}

// ReactionRepository defines the interface for like/dislike operations on
// posts and comments.
type ReactionRepository interface {
	// React records a signed reaction. Repeats of the same direction are
	// idempotent no-ops; opposite directions flip the row and adjust both
	// counters in the same transaction.
	React(ctx context.Context, accountID uint, targetType string, targetID uint, value int) (ReactOutcome, []*models.Notification, error)
	// Unreact removes the reaction row if present and decrements its counter.
	Unreact(ctx context.Context, accountID uint, targetType string, targetID uint) (removed bool, err error)
	// VotesFor returns the account's reaction values for the given targets.
	VotesFor(ctx context.Context, accountID uint, targetType string, targetIDs []uint) (map[uint]int, error)
}

type reactionRepository struct {
	db     *gorm.DB
	tuning config.Tuning
}

// NewReactionRepository creates a new reaction repository.
func NewReactionRepository(db *gorm.DB, tuning config.Tuning) ReactionRepository {
	return &reactionRepository{db: db, tuning: tuning}
}

// counterColumn maps a reaction value to the counter it feeds.
func counterColumn(value int) string {
	if value == models.VoteDislike {
		return "dislikes"
	}
	return "likes"
}

func (r *reactionRepository) React(ctx context.Context, accountID uint, targetType string, targetID uint, value int) (ReactOutcome, []*models.Notification, error) {
	var outcome ReactOutcome
	var ns []*models.Notification

	if value != models.VoteLike && value != models.VoteDislike {
		return outcome, nil, models.NewInvalidArgumentError("reaction value must be like or dislike")
	}

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		ownerID, postID, commentID, err := resolveTarget(tx, targetType, targetID)
		if err != nil {
			return err
		}

		res := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&models.Reaction{
			AccountID:  accountID,
			TargetType: targetType,
			TargetID:   targetID,
			Value:      value,
			CreatedAt:  time.Now(),
		})
		if res.Error != nil {
			return res.Error
		}

		if res.RowsAffected == 1 {
			// Fresh reaction: one counter moves, owner may be notified.
			outcome.Applied = true
			if err := tx.Table(targetTable(targetType)).Where("id = ?", targetID).
				UpdateColumn(counterColumn(value), increment(counterColumn(value))).Error; err != nil {
				return err
			}
			if value == models.VoteLike && ownerID != accountID {
				if targetType == models.TargetPost && r.tuning.KarmaLikeReceived != 0 {
					if err := tx.Model(&models.Account{}).Where("id = ?", ownerID).
						UpdateColumn("karma", gorm.Expr("karma + ?", r.tuning.KarmaLikeReceived)).Error; err != nil {
						return err
					}
				}
				n := &models.Notification{
					RecipientID: ownerID,
					Type:        models.NotificationLike,
					ActorID:     accountID,
					PostID:      postID,
					CommentID:   commentID,
					CreatedAt:   time.Now(),
				}
				if err := notify(tx, n); err != nil {
					return err
				}
				ns = append(ns, n)
			}
			return nil
		}

		// A row already exists: same direction is a no-op, opposite flips.
		var existing models.Reaction
		if err := tx.Where("account_id = ? AND target_type = ? AND target_id = ?",
			accountID, targetType, targetID).First(&existing).Error; err != nil {
			return err
		}
		if existing.Value == value {
			return nil
		}

		flip := tx.Model(&models.Reaction{}).
			Where("id = ? AND value = ?", existing.ID, existing.Value).
			UpdateColumn("value", value)
		if flip.Error != nil {
			return flip.Error
		}
		if flip.RowsAffected == 0 {
			// Lost a race against an identical flip; final state already matches.
			return nil
		}

		outcome.Applied = true
		outcome.Flipped = true
		return tx.Table(targetTable(targetType)).Where("id = ?", targetID).
			Updates(map[string]interface{}{
				counterColumn(value):          increment(counterColumn(value)),
				counterColumn(existing.Value): clampedDecrement(counterColumn(existing.Value)),
			}).Error
	})
	if err != nil {
		return ReactOutcome{}, nil, err
	}
	return outcome, ns, nil
}

func (r *reactionRepository) Unreact(ctx context.Context, accountID uint, targetType string, targetID uint) (bool, error) {
	var removed bool
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing models.Reaction
		err := tx.Where("account_id = ? AND target_type = ? AND target_id = ?",
			accountID, targetType, targetID).First(&existing).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil
			}
			return err
		}

		res := tx.Delete(&models.Reaction{}, existing.ID)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return nil
		}
		removed = true
		return tx.Table(targetTable(targetType)).Where("id = ?", targetID).
			UpdateColumn(counterColumn(existing.Value), clampedDecrement(counterColumn(existing.Value))).Error
	})
	return removed, err
}

func (r *reactionRepository) VotesFor(ctx context.Context, accountID uint, targetType string, targetIDs []uint) (map[uint]int, error) {
	votes := make(map[uint]int, len(targetIDs))
	if accountID == 0 || len(targetIDs) == 0 {
		return votes, nil
	}
	var rows []models.Reaction
	err := r.db.WithContext(ctx).
		Where("account_id = ? AND target_type = ? AND target_id IN ?", accountID, targetType, targetIDs).
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	for _, row := range rows {
		votes[row.TargetID] = row.Value
	}
	return votes, nil
}

// targetTable maps a reaction target type to its table.
func targetTable(targetType string) string {
	if targetType == models.TargetComment {
		return "comments"
	}
	return "posts"
}

// resolveTarget verifies the reaction target exists and returns its owner and
// related ids for notification fan-out.
func resolveTarget(tx *gorm.DB, targetType string, targetID uint) (ownerID uint, postID, commentID *uint, err error) {
	switch targetType {
	case models.TargetPost:
		var post models.Post
		if err := tx.First(&post, targetID).Error; err != nil {
			return 0, nil, nil, translateNotFound(err, "post", targetID)
		}
		return post.AccountID, &post.ID, nil, nil
	case models.TargetComment:
		var comment models.Comment
		if err := tx.First(&comment, targetID).Error; err != nil {
			return 0, nil, nil, translateNotFound(err, "comment", targetID)
		}
		return comment.AccountID, &comment.PostID, &comment.ID, nil
	default:
		return 0, nil, nil, models.NewInvalidArgumentError("unknown reaction target type")
	}
}
