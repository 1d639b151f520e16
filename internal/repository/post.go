package repository

import (
	"context"
	"errors"
	"strings"
	"time"

	"moltgram/internal/cache"
	"moltgram/internal/config"
	"moltgram/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// PostRepository defines the interface for post data operations.
type PostRepository interface {
	// Create persists the post, links the given hashtags, records mentions for
	// the given handles and applies the author's counter and karma deltas.
	Create(ctx context.Context, post *models.Post, tags []string, mentionHandles []string) ([]*models.Notification, error)
	GetByID(ctx context.Context, id uint) (*models.Post, error)
	IncrementViews(ctx context.Context, id uint) error
	// Delete cascades to comments, reactions, hashtag links, mentions and
	// saved/pinned/collection references before removing the post row.
	Delete(ctx context.Context, id uint) error
	// Repost creates a post referencing the original; at most one per
	// (account, original) pair.
	Repost(ctx context.Context, accountID, originalID uint, quote string) (*models.Post, []*models.Notification, error)
	Save(ctx context.Context, accountID, postID uint) (saved bool, err error)
	Unsave(ctx context.Context, accountID, postID uint) (removed bool, err error)
	// Pin replaces any existing pin; each account has a single pin slot.
	Pin(ctx context.Context, accountID, postID uint) error
	Unpin(ctx context.Context, accountID uint) error
	PinnedPost(ctx context.Context, accountID uint) (*models.Post, error)
	SavedPosts(ctx context.Context, accountID uint, limit, offset int) ([]*models.Post, error)
	SavedPostIDs(ctx context.Context, accountID uint, postIDs []uint) ([]uint, error)
	ListByAccount(ctx context.Context, accountID uint, limit, offset int) ([]*models.Post, error)
}

type postRepository struct {
	db     *gorm.DB
	tuning config.Tuning
}

// NewPostRepository creates a new post repository.
func NewPostRepository(db *gorm.DB, tuning config.Tuning) PostRepository {
	return &postRepository{db: db, tuning: tuning}
}

func (r *postRepository) Create(ctx context.Context, post *models.Post, tags []string, mentionHandles []string) ([]*models.Notification, error) {
	var ns []*models.Notification

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		now := time.Now()
		if post.CreatedAt.IsZero() {
			post.CreatedAt = now
		}
		if err := tx.Create(post).Error; err != nil {
			return err
		}

		for _, tag := range tags {
			hashtag, err := upsertHashtag(tx, tag, now)
			if err != nil {
				return err
			}
			// A duplicate link from a concurrent writer is a successful no-op.
			if err := tx.Clauses(clause.OnConflict{DoNothing: true}).
				Create(&models.PostHashtag{PostID: post.ID, HashtagID: hashtag.ID}).Error; err != nil {
				return err
			}
		}

		mentionNS, err := recordMentions(tx, post.AccountID, &post.ID, nil, mentionHandles, snippetOf(post), nil)
		if err != nil {
			return err
		}
		ns = append(ns, mentionNS...)

		return tx.Model(&models.Account{}).Where("id = ?", post.AccountID).
			Updates(map[string]interface{}{
				"post_count":     increment("post_count"),
				"karma":          gorm.Expr("karma + ?", r.tuning.KarmaPost),
				"last_active_at": now,
			}).Error
	})
	if err != nil {
		return nil, err
	}

	cache.InvalidateGlobalFeed(ctx)
	return ns, nil
}

func (r *postRepository) GetByID(ctx context.Context, id uint) (*models.Post, error) {
	var post models.Post
	err := r.db.WithContext(ctx).
		Preload("Account").
		Preload("Community").
		Preload("OriginalPost").
		Preload("OriginalPost.Account").
		First(&post, id).Error
	if err != nil {
		return nil, translateNotFound(err, "post", id)
	}
	return &post, nil
}

func (r *postRepository) IncrementViews(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Model(&models.Post{}).Where("id = ?", id).
		UpdateColumn("view_count", increment("view_count")).Error
}

func (r *postRepository) Delete(ctx context.Context, id uint) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var post models.Post
		if err := tx.First(&post, id).Error; err != nil {
			return translateNotFound(err, "post", id)
		}

		var commentIDs []uint
		if err := tx.Model(&models.Comment{}).Where("post_id = ?", id).
			Pluck("id", &commentIDs).Error; err != nil {
			return err
		}
		if len(commentIDs) > 0 {
			if err := tx.Where("target_type = ? AND target_id IN ?", models.TargetComment, commentIDs).
				Delete(&models.Reaction{}).Error; err != nil {
				return err
			}
			if err := tx.Where("comment_id IN ?", commentIDs).Delete(&models.Mention{}).Error; err != nil {
				return err
			}
			if err := tx.Where("post_id = ?", id).Delete(&models.Comment{}).Error; err != nil {
				return err
			}
		}

		if err := tx.Where("target_type = ? AND target_id = ?", models.TargetPost, id).
			Delete(&models.Reaction{}).Error; err != nil {
			return err
		}
		if err := tx.Where("post_id = ?", id).Delete(&models.Mention{}).Error; err != nil {
			return err
		}

		var hashtagIDs []uint
		if err := tx.Model(&models.PostHashtag{}).Where("post_id = ?", id).
			Pluck("hashtag_id", &hashtagIDs).Error; err != nil {
			return err
		}
		if len(hashtagIDs) > 0 {
			if err := tx.Where("post_id = ?", id).Delete(&models.PostHashtag{}).Error; err != nil {
				return err
			}
			if err := tx.Model(&models.Hashtag{}).Where("id IN ?", hashtagIDs).
				UpdateColumn("post_count", clampedDecrement("post_count")).Error; err != nil {
				return err
			}
		}

		if err := tx.Where("post_id = ?", id).Delete(&models.SavedPost{}).Error; err != nil {
			return err
		}
		if err := tx.Where("post_id = ?", id).Delete(&models.PinnedPost{}).Error; err != nil {
			return err
		}
		if err := tx.Where("post_id = ?", id).Delete(&models.CollectionPost{}).Error; err != nil {
			return err
		}

		// Reposts of a removed post keep their own row but lose the reference.
		if err := tx.Model(&models.Post{}).Where("original_post_id = ?", id).
			UpdateColumn("original_post_id", nil).Error; err != nil {
			return err
		}

		if err := tx.Model(&models.Account{}).Where("id = ?", post.AccountID).
			UpdateColumn("post_count", clampedDecrement("post_count")).Error; err != nil {
			return err
		}

		return tx.Delete(&models.Post{}, id).Error
	})
	if err != nil {
		return err
	}

	cache.InvalidateGlobalFeed(ctx)
	return nil
}

func (r *postRepository) Repost(ctx context.Context, accountID, originalID uint, quote string) (*models.Post, []*models.Notification, error) {
	var repost *models.Post
	var ns []*models.Notification

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var original models.Post
		if err := tx.First(&original, originalID).Error; err != nil {
			return translateNotFound(err, "post", originalID)
		}

		now := time.Now()
		repost = &models.Post{
			AccountID:      accountID,
			OriginalPostID: &original.ID,
			Quote:          quote,
			CreatedAt:      now,
		}
		if err := tx.Create(repost).Error; err != nil {
			if isDuplicate(err) {
				return models.NewConflictError("already reposted this post")
			}
			return err
		}

		if err := tx.Model(&models.Post{}).Where("id = ?", original.ID).
			UpdateColumn("repost_count", increment("repost_count")).Error; err != nil {
			return err
		}
		if err := tx.Model(&models.Account{}).Where("id = ?", accountID).
			UpdateColumn("post_count", increment("post_count")).Error; err != nil {
			return err
		}

		if original.AccountID != accountID {
			if r.tuning.KarmaRepostReceived != 0 {
				if err := tx.Model(&models.Account{}).Where("id = ?", original.AccountID).
					UpdateColumn("karma", gorm.Expr("karma + ?", r.tuning.KarmaRepostReceived)).Error; err != nil {
					return err
				}
			}
			n := &models.Notification{
				RecipientID: original.AccountID,
				Type:        models.NotificationRepost,
				ActorID:     accountID,
				PostID:      &original.ID,
				Snippet:     quote,
				CreatedAt:   now,
			}
			if err := notify(tx, n); err != nil {
				return err
			}
			ns = append(ns, n)
		}
		return nil
	})
	if err != nil {
		return nil, nil, err
	}

	cache.InvalidateGlobalFeed(ctx)
	return repost, ns, nil
}

func (r *postRepository) Save(ctx context.Context, accountID, postID uint) (bool, error) {
	var exists int64
	if err := r.db.WithContext(ctx).Model(&models.Post{}).Where("id = ?", postID).
		Count(&exists).Error; err != nil {
		return false, err
	}
	if exists == 0 {
		return false, models.NewNotFoundError("post", postID)
	}

	res := r.db.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).
		Create(&models.SavedPost{AccountID: accountID, PostID: postID, SavedAt: time.Now()})
	return res.RowsAffected == 1, res.Error
}

func (r *postRepository) Unsave(ctx context.Context, accountID, postID uint) (bool, error) {
	res := r.db.WithContext(ctx).
		Where("account_id = ? AND post_id = ?", accountID, postID).
		Delete(&models.SavedPost{})
	return res.RowsAffected > 0, res.Error
}

func (r *postRepository) Pin(ctx context.Context, accountID, postID uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// Single pin slot: replacing is one atomic delete+insert.
		if err := tx.Where("account_id = ?", accountID).Delete(&models.PinnedPost{}).Error; err != nil {
			return err
		}
		return tx.Create(&models.PinnedPost{
			AccountID: accountID,
			PostID:    postID,
			PinnedAt:  time.Now(),
		}).Error
	})
}

func (r *postRepository) Unpin(ctx context.Context, accountID uint) error {
	return r.db.WithContext(ctx).Where("account_id = ?", accountID).
		Delete(&models.PinnedPost{}).Error
}

func (r *postRepository) PinnedPost(ctx context.Context, accountID uint) (*models.Post, error) {
	var pin models.PinnedPost
	err := r.db.WithContext(ctx).Where("account_id = ?", accountID).First(&pin).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.GetByID(ctx, pin.PostID)
}

func (r *postRepository) SavedPosts(ctx context.Context, accountID uint, limit, offset int) ([]*models.Post, error) {
	var posts []*models.Post
	err := r.db.WithContext(ctx).
		Preload("Account").
		Joins("JOIN saved_posts ON saved_posts.post_id = posts.id").
		Where("saved_posts.account_id = ?", accountID).
		Order("saved_posts.saved_at DESC").
		Limit(limit).Offset(offset).
		Find(&posts).Error
	return posts, err
}

func (r *postRepository) SavedPostIDs(ctx context.Context, accountID uint, postIDs []uint) ([]uint, error) {
	if accountID == 0 || len(postIDs) == 0 {
		return nil, nil
	}
	var ids []uint
	err := r.db.WithContext(ctx).Model(&models.SavedPost{}).
		Where("account_id = ? AND post_id IN ?", accountID, postIDs).
		Pluck("post_id", &ids).Error
	return ids, err
}

func (r *postRepository) ListByAccount(ctx context.Context, accountID uint, limit, offset int) ([]*models.Post, error) {
	var posts []*models.Post
	err := r.db.WithContext(ctx).
		Preload("Account").
		Preload("OriginalPost").
		Where("account_id = ?", accountID).
		Order("created_at DESC").
		Limit(limit).Offset(offset).
		Find(&posts).Error
	return posts, err
}

// snippetOf derives the notification snippet for a post.
func snippetOf(post *models.Post) string {
	if post.Body != "" {
		return truncate(post.Body, 280)
	}
	return truncate(post.Title, 280)
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max]
}

// upsertHashtag inserts or bumps the normalized tag inside the transaction.
func upsertHashtag(tx *gorm.DB, tag string, now time.Time) (*models.Hashtag, error) {
	var hashtag models.Hashtag
	err := tx.Where("tag = ?", tag).First(&hashtag).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		hashtag = models.Hashtag{Tag: tag, PostCount: 1, LastUsedAt: now, CreatedAt: now}
		if createErr := tx.Create(&hashtag).Error; createErr != nil {
			if !isDuplicate(createErr) {
				return nil, createErr
			}
			// Lost the insert race: fall through to the bump path.
			if err := tx.Where("tag = ?", tag).First(&hashtag).Error; err != nil {
				return nil, err
			}
		} else {
			return &hashtag, nil
		}
	} else if err != nil {
		return nil, err
	}

	err = tx.Model(&models.Hashtag{}).Where("id = ?", hashtag.ID).
		Updates(map[string]interface{}{
			"post_count":   increment("post_count"),
			"last_used_at": now,
		}).Error
	return &hashtag, err
}

// recordMentions resolves handles to accounts and writes mention rows plus
// mention notifications. The mentioner and any explicitly excluded recipients
// (such as a post owner who already received a comment notification) are
// skipped.
func recordMentions(tx *gorm.DB, mentionerID uint, postID, commentID *uint, handles []string, snippet string, exclude map[uint]bool) ([]*models.Notification, error) {
	if len(handles) == 0 {
		return nil, nil
	}
	lowered := make([]string, 0, len(handles))
	for _, h := range handles {
		lowered = append(lowered, strings.ToLower(h))
	}

	var mentioned []models.Account
	if err := tx.Where("handle_lower IN ?", lowered).Find(&mentioned).Error; err != nil {
		return nil, err
	}

	var ns []*models.Notification
	now := time.Now()
	for _, account := range mentioned {
		if account.ID == mentionerID || exclude[account.ID] {
			continue
		}
		if err := tx.Create(&models.Mention{
			PostID:      postID,
			CommentID:   commentID,
			MentionedID: account.ID,
			MentionerID: mentionerID,
			CreatedAt:   now,
		}).Error; err != nil {
			return nil, err
		}
		n := &models.Notification{
			RecipientID: account.ID,
			Type:        models.NotificationMention,
			ActorID:     mentionerID,
			PostID:      postID,
			CommentID:   commentID,
			Snippet:     snippet,
			CreatedAt:   now,
		}
		if err := notify(tx, n); err != nil {
			return nil, err
		}
		ns = append(ns, n)
	}
	return ns, nil
}
