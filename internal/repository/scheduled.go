package repository

import (
	"context"
	"time"

	"moltgram/internal/models"

	"gorm.io/gorm"
)

// ScheduledPostRepository defines the interface for scheduled post drafts.
type ScheduledPostRepository interface {
	Create(ctx context.Context, sp *models.ScheduledPost) error
	GetByID(ctx context.Context, id uint) (*models.ScheduledPost, error)
	ListByAccount(ctx context.Context, accountID uint) ([]*models.ScheduledPost, error)
	Delete(ctx context.Context, id uint) error
	// Due returns unpublished drafts whose scheduled time has arrived.
	Due(ctx context.Context, now time.Time, limit int) ([]*models.ScheduledPost, error)
	// MarkPublished stamps the draft; reports false if another publisher won.
	MarkPublished(ctx context.Context, id uint, at time.Time) (bool, error)
}

type scheduledPostRepository struct {
	db *gorm.DB
}

// NewScheduledPostRepository creates a new scheduled post repository.
func NewScheduledPostRepository(db *gorm.DB) ScheduledPostRepository {
	return &scheduledPostRepository{db: db}
}

func (r *scheduledPostRepository) Create(ctx context.Context, sp *models.ScheduledPost) error {
	if sp.CreatedAt.IsZero() {
		sp.CreatedAt = time.Now()
	}
	return r.db.WithContext(ctx).Create(sp).Error
}

func (r *scheduledPostRepository) GetByID(ctx context.Context, id uint) (*models.ScheduledPost, error) {
	var sp models.ScheduledPost
	err := r.db.WithContext(ctx).First(&sp, id).Error
	if err != nil {
		return nil, translateNotFound(err, "scheduled post", id)
	}
	return &sp, nil
}

func (r *scheduledPostRepository) ListByAccount(ctx context.Context, accountID uint) ([]*models.ScheduledPost, error) {
	var sps []*models.ScheduledPost
	err := r.db.WithContext(ctx).
		Where("account_id = ? AND published_at IS NULL", accountID).
		Order("scheduled_at ASC").
		Find(&sps).Error
	return sps, err
}

func (r *scheduledPostRepository) Delete(ctx context.Context, id uint) error {
	res := r.db.WithContext(ctx).Delete(&models.ScheduledPost{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return models.NewNotFoundError("scheduled post", id)
	}
	return nil
}

func (r *scheduledPostRepository) Due(ctx context.Context, now time.Time, limit int) ([]*models.ScheduledPost, error) {
	var sps []*models.ScheduledPost
	err := r.db.WithContext(ctx).
		Where("published_at IS NULL AND scheduled_at <= ?", now).
		Order("scheduled_at ASC").
		Limit(limit).
		Find(&sps).Error
	return sps, err
}

func (r *scheduledPostRepository) MarkPublished(ctx context.Context, id uint, at time.Time) (bool, error) {
	res := r.db.WithContext(ctx).Model(&models.ScheduledPost{}).
		Where("id = ? AND published_at IS NULL", id).
		UpdateColumn("published_at", at)
	return res.RowsAffected > 0, res.Error
}
