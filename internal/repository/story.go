package repository

import (
	"context"
	"time"

	"moltgram/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// StoryRepository defines the interface for ephemeral story operations.
// Reads treat expired stories as gone even before the purge runs.
type StoryRepository interface {
	Create(ctx context.Context, story *models.Story) error
	// Get returns the story only while it is live; an expired story is NotFound.
	Get(ctx context.Context, id uint, now time.Time) (*models.Story, error)
	// View records the viewer once per story and bumps the view counter only
	// on the first sighting.
	View(ctx context.Context, storyID, viewerID uint, now time.Time) (firstView bool, err error)
	// FeedFor lists live stories from accounts the viewer follows, plus the
	// viewer's own, newest first.
	FeedFor(ctx context.Context, viewerID uint, now time.Time, limit int) ([]*models.Story, error)
	ListByAccount(ctx context.Context, accountID uint, now time.Time) ([]*models.Story, error)
	Viewers(ctx context.Context, storyID uint, limit int) ([]*models.Account, error)
	ViewedIDs(ctx context.Context, viewerID uint, storyIDs []uint) ([]uint, error)
	Delete(ctx context.Context, id uint) error
	// PurgeExpired deletes stories past their expiry and their view rows.
	PurgeExpired(ctx context.Context, now time.Time) (int64, error)
}

type storyRepository struct {
	db *gorm.DB
}

// NewStoryRepository creates a new story repository.
func NewStoryRepository(db *gorm.DB) StoryRepository {
	return &storyRepository{db: db}
}

func (r *storyRepository) Create(ctx context.Context, story *models.Story) error {
	return r.db.WithContext(ctx).Create(story).Error
}

func (r *storyRepository) Get(ctx context.Context, id uint, now time.Time) (*models.Story, error) {
	var story models.Story
	err := r.db.WithContext(ctx).Preload("Account").First(&story, id).Error
	if err != nil {
		return nil, translateNotFound(err, "story", id)
	}
	if story.Expired(now) {
		return nil, models.NewNotFoundError("story", id)
	}
	return &story, nil
}

func (r *storyRepository) View(ctx context.Context, storyID, viewerID uint, now time.Time) (bool, error) {
	var firstView bool
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var story models.Story
		if err := tx.First(&story, storyID).Error; err != nil {
			return translateNotFound(err, "story", storyID)
		}
		if story.Expired(now) {
			return models.NewNotFoundError("story", storyID)
		}

		res := tx.Clauses(clause.OnConflict{DoNothing: true}).
			Create(&models.StoryView{StoryID: storyID, ViewerID: viewerID, ViewedAt: now})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return nil
		}
		firstView = true
		return tx.Model(&models.Story{}).Where("id = ?", storyID).
			UpdateColumn("view_count", increment("view_count")).Error
	})
	return firstView, err
}

func (r *storyRepository) FeedFor(ctx context.Context, viewerID uint, now time.Time, limit int) ([]*models.Story, error) {
	var stories []*models.Story
	err := r.db.WithContext(ctx).
		Preload("Account").
		Where("expires_at > ?", now).
		Where("account_id = ? OR account_id IN (?)", viewerID,
			r.db.Model(&models.Follow{}).Select("followee_id").Where("follower_id = ?", viewerID)).
		Order("created_at DESC").
		Limit(limit).
		Find(&stories).Error
	return stories, err
}

func (r *storyRepository) ListByAccount(ctx context.Context, accountID uint, now time.Time) ([]*models.Story, error) {
	var stories []*models.Story
	err := r.db.WithContext(ctx).
		Where("account_id = ? AND expires_at > ?", accountID, now).
		Order("created_at DESC").
		Find(&stories).Error
	return stories, err
}

func (r *storyRepository) Viewers(ctx context.Context, storyID uint, limit int) ([]*models.Account, error) {
	var accounts []*models.Account
	err := r.db.WithContext(ctx).
		Joins("JOIN story_views ON story_views.viewer_id = accounts.id").
		Where("story_views.story_id = ?", storyID).
		Order("story_views.viewed_at DESC").
		Limit(limit).
		Find(&accounts).Error
	return accounts, err
}

func (r *storyRepository) ViewedIDs(ctx context.Context, viewerID uint, storyIDs []uint) ([]uint, error) {
	if viewerID == 0 || len(storyIDs) == 0 {
		return nil, nil
	}
	var ids []uint
	err := r.db.WithContext(ctx).Model(&models.StoryView{}).
		Where("viewer_id = ? AND story_id IN ?", viewerID, storyIDs).
		Pluck("story_id", &ids).Error
	return ids, err
}

func (r *storyRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("story_id = ?", id).Delete(&models.StoryView{}).Error; err != nil {
			return err
		}
		res := tx.Delete(&models.Story{}, id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return models.NewNotFoundError("story", id)
		}
		return nil
	})
}

func (r *storyRepository) PurgeExpired(ctx context.Context, now time.Time) (int64, error) {
	var purged int64
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var expiredIDs []uint
		if err := tx.Model(&models.Story{}).Where("expires_at <= ?", now).
			Pluck("id", &expiredIDs).Error; err != nil {
			return err
		}
		if len(expiredIDs) == 0 {
			return nil
		}
		if err := tx.Where("story_id IN ?", expiredIDs).Delete(&models.StoryView{}).Error; err != nil {
			return err
		}
		res := tx.Where("id IN ?", expiredIDs).Delete(&models.Story{})
		purged = res.RowsAffected
		return res.Error
	})
	return purged, err
}
