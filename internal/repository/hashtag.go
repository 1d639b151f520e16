package repository

import (
	"context"
	"time"

	"moltgram/internal/models"

	"gorm.io/gorm"
)

// HashtagRepository defines the interface for hashtag lookups.
type HashtagRepository interface {
	GetByTag(ctx context.Context, tag string) (*models.Hashtag, error)
	// Top lists hashtags used within the window, most used first.
	Top(ctx context.Context, since time.Time, limit int) ([]*models.Hashtag, error)
}

type hashtagRepository struct {
	db *gorm.DB
}

// NewHashtagRepository creates a new hashtag repository.
func NewHashtagRepository(db *gorm.DB) HashtagRepository {
	return &hashtagRepository{db: db}
}

func (r *hashtagRepository) GetByTag(ctx context.Context, tag string) (*models.Hashtag, error) {
	var hashtag models.Hashtag
	err := r.db.WithContext(ctx).Where("tag = ?", tag).First(&hashtag).Error
	if err != nil {
		return nil, translateNotFound(err, "hashtag", tag)
	}
	return &hashtag, nil
}

func (r *hashtagRepository) Top(ctx context.Context, since time.Time, limit int) ([]*models.Hashtag, error) {
	var hashtags []*models.Hashtag
	err := r.db.WithContext(ctx).
		Where("last_used_at > ?", since).
		Order("post_count DESC, last_used_at DESC").
		Limit(limit).
		Find(&hashtags).Error
	return hashtags, err
}
