package repository

import (
	"context"
	"time"

	"moltgram/internal/config"
	"moltgram/internal/models"

	"gorm.io/gorm"
)

// CommentRepository defines the interface for comment data operations.
type CommentRepository interface {
	// Create inserts the comment, bumps the post's comment counter, applies the
	// author's karma delta and fans out comment and mention notifications.
	Create(ctx context.Context, comment *models.Comment, mentionHandles []string) ([]*models.Notification, error)
	GetByID(ctx context.Context, id uint) (*models.Comment, error)
	ListByPost(ctx context.Context, postID uint, limit, offset int) ([]*models.Comment, error)
	Delete(ctx context.Context, id uint) error
}

type commentRepository struct {
	db     *gorm.DB
	tuning config.Tuning
}

// NewCommentRepository creates a new comment repository.
func NewCommentRepository(db *gorm.DB, tuning config.Tuning) CommentRepository {
	return &commentRepository{db: db, tuning: tuning}
}

func (r *commentRepository) Create(ctx context.Context, comment *models.Comment, mentionHandles []string) ([]*models.Notification, error) {
	var ns []*models.Notification

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var post models.Post
		if err := tx.First(&post, comment.PostID).Error; err != nil {
			return translateNotFound(err, "post", comment.PostID)
		}

		if comment.ParentID != nil {
			var parent models.Comment
			if err := tx.First(&parent, *comment.ParentID).Error; err != nil {
				return translateNotFound(err, "comment", *comment.ParentID)
			}
			// A parent under another post is treated as absent, not malformed.
			if parent.PostID != comment.PostID {
				return models.NewNotFoundError("parent comment", *comment.ParentID)
			}
		}

		now := time.Now()
		if comment.CreatedAt.IsZero() {
			comment.CreatedAt = now
		}
		if err := tx.Create(comment).Error; err != nil {
			return err
		}

		if err := tx.Model(&models.Post{}).Where("id = ?", post.ID).
			UpdateColumn("comment_count", increment("comment_count")).Error; err != nil {
			return err
		}
		if err := tx.Model(&models.Account{}).Where("id = ?", comment.AccountID).
			Updates(map[string]interface{}{
				"karma":          gorm.Expr("karma + ?", r.tuning.KarmaComment),
				"last_active_at": now,
			}).Error; err != nil {
			return err
		}

		snippet := truncate(comment.Body, 280)

		// The post owner gets a single comment notification; a mention of the
		// owner in the same comment must not double up.
		exclude := map[uint]bool{}
		if post.AccountID != comment.AccountID {
			n := &models.Notification{
				RecipientID: post.AccountID,
				Type:        models.NotificationComment,
				ActorID:     comment.AccountID,
				PostID:      &post.ID,
				CommentID:   &comment.ID,
				Snippet:     snippet,
				CreatedAt:   now,
			}
			if err := notify(tx, n); err != nil {
				return err
			}
			ns = append(ns, n)
			exclude[post.AccountID] = true
		}

		mentionNS, err := recordMentions(tx, comment.AccountID, &post.ID, &comment.ID, mentionHandles, snippet, exclude)
		if err != nil {
			return err
		}
		ns = append(ns, mentionNS...)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return ns, nil
}

func (r *commentRepository) GetByID(ctx context.Context, id uint) (*models.Comment, error) {
	var comment models.Comment
	err := r.db.WithContext(ctx).Preload("Account").First(&comment, id).Error
	if err != nil {
		return nil, translateNotFound(err, "comment", id)
	}
	return &comment, nil
}

func (r *commentRepository) ListByPost(ctx context.Context, postID uint, limit, offset int) ([]*models.Comment, error) {
	var comments []*models.Comment
	err := r.db.WithContext(ctx).
		Preload("Account").
		Where("post_id = ?", postID).
		Order("created_at ASC").
		Limit(limit).Offset(offset).
		Find(&comments).Error
	return comments, err
}

func (r *commentRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var comment models.Comment
		if err := tx.First(&comment, id).Error; err != nil {
			return translateNotFound(err, "comment", id)
		}

		if err := tx.Where("target_type = ? AND target_id = ?", models.TargetComment, id).
			Delete(&models.Reaction{}).Error; err != nil {
			return err
		}
		if err := tx.Where("comment_id = ?", id).Delete(&models.Mention{}).Error; err != nil {
			return err
		}
		// Replies survive but detach from the removed parent.
		if err := tx.Model(&models.Comment{}).Where("parent_id = ?", id).
			UpdateColumn("parent_id", nil).Error; err != nil {
			return err
		}
		if err := tx.Model(&models.Post{}).Where("id = ?", comment.PostID).
			UpdateColumn("comment_count", clampedDecrement("comment_count")).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Comment{}, id).Error
	})
}
