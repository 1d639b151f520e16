package repository

import (
	"context"
	"time"

	"moltgram/internal/models"

	"gorm.io/gorm"
)

// FeedRepository defines the interface for feed queries. Listings return
// posts with the author preloaded; ranking for trending happens above this
// layer.
type FeedRepository interface {
	Global(ctx context.Context, limit, offset int) ([]*models.Post, error)
	// Following lists posts authored by the accounts the viewer follows,
	// together with the viewer's own posts.
	Following(ctx context.Context, viewerID uint, limit, offset int) ([]*models.Post, error)
	// Explore lists posts from accounts the viewer does not follow and did
	// not write, most liked first.
	Explore(ctx context.Context, viewerID uint, limit, offset int) ([]*models.Post, error)
	ByHashtag(ctx context.Context, tag string, limit, offset int) ([]*models.Post, error)
	ByCommunity(ctx context.Context, communityID uint, limit, offset int) ([]*models.Post, error)
	// TrendingCandidates returns every post created after the cutoff. The
	// window is small enough to score and rank in memory.
	TrendingCandidates(ctx context.Context, cutoff time.Time) ([]*models.Post, error)
}

type feedRepository struct {
	db *gorm.DB
}

// NewFeedRepository creates a new feed repository.
func NewFeedRepository(db *gorm.DB) FeedRepository {
	return &feedRepository{db: db}
}

func (r *feedRepository) Global(ctx context.Context, limit, offset int) ([]*models.Post, error) {
	var posts []*models.Post
	err := r.db.WithContext(ctx).
		Preload("Account").
		Preload("OriginalPost").
		Preload("OriginalPost.Account").
		Order("created_at DESC").
		Limit(limit).Offset(offset).
		Find(&posts).Error
	return posts, err
}

func (r *feedRepository) Following(ctx context.Context, viewerID uint, limit, offset int) ([]*models.Post, error) {
	var posts []*models.Post
	err := r.db.WithContext(ctx).
		Preload("Account").
		Preload("OriginalPost").
		Preload("OriginalPost.Account").
		Where("account_id IN (?) OR account_id = ?",
			r.db.Model(&models.Follow{}).Select("followee_id").Where("follower_id = ?", viewerID),
			viewerID).
		Order("created_at DESC").
		Limit(limit).Offset(offset).
		Find(&posts).Error
	return posts, err
}

func (r *feedRepository) Explore(ctx context.Context, viewerID uint, limit, offset int) ([]*models.Post, error) {
	var posts []*models.Post
	err := r.db.WithContext(ctx).
		Preload("Account").
		Where("account_id != ?", viewerID).
		Where("account_id NOT IN (?)",
			r.db.Model(&models.Follow{}).Select("followee_id").Where("follower_id = ?", viewerID)).
		Order("likes DESC, created_at DESC").
		Limit(limit).Offset(offset).
		Find(&posts).Error
	return posts, err
}

func (r *feedRepository) ByHashtag(ctx context.Context, tag string, limit, offset int) ([]*models.Post, error) {
	var posts []*models.Post
	err := r.db.WithContext(ctx).
		Preload("Account").
		Joins("JOIN post_hashtags ON post_hashtags.post_id = posts.id").
		Joins("JOIN hashtags ON hashtags.id = post_hashtags.hashtag_id").
		Where("hashtags.tag = ?", tag).
		Order("posts.created_at DESC").
		Limit(limit).Offset(offset).
		Find(&posts).Error
	return posts, err
}

func (r *feedRepository) ByCommunity(ctx context.Context, communityID uint, limit, offset int) ([]*models.Post, error) {
	var posts []*models.Post
	err := r.db.WithContext(ctx).
		Preload("Account").
		Where("community_id = ?", communityID).
		Order("created_at DESC").
		Limit(limit).Offset(offset).
		Find(&posts).Error
	return posts, err
}

func (r *feedRepository) TrendingCandidates(ctx context.Context, cutoff time.Time) ([]*models.Post, error) {
	var posts []*models.Post
	err := r.db.WithContext(ctx).
		Preload("Account").
		Where("created_at > ?", cutoff).
		Find(&posts).Error
	return posts, err
}
