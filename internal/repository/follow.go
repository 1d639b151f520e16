package repository

import (
	"context"
	"time"

	"moltgram/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// FollowRepository defines the interface for follow-edge operations.
type FollowRepository interface {
	// Follow inserts the edge and adjusts both counters atomically. A repeat
	// call is a no-op with created=false.
	Follow(ctx context.Context, followerID, followeeID uint) (created bool, ns []*models.Notification, err error)
	// Unfollow removes the edge if present and decrements both counters.
	Unfollow(ctx context.Context, followerID, followeeID uint) (removed bool, err error)
	IsFollowing(ctx context.Context, followerID, followeeID uint) (bool, error)
	FollowingIDs(ctx context.Context, followerID uint) ([]uint, error)
	Followers(ctx context.Context, accountID uint) ([]*models.Account, error)
	Following(ctx context.Context, accountID uint) ([]*models.Account, error)
}

type followRepository struct {
	db *gorm.DB
}

// NewFollowRepository creates a new follow repository.
func NewFollowRepository(db *gorm.DB) FollowRepository {
	return &followRepository{db: db}
}

func (r *followRepository) Follow(ctx context.Context, followerID, followeeID uint) (bool, []*models.Notification, error) {
	var created bool
	var ns []*models.Notification

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&models.Follow{
			FollowerID: followerID,
			FolloweeID: followeeID,
			CreatedAt:  time.Now(),
		})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			// Edge already exists: idempotent success, nothing to mutate.
			return nil
		}
		created = true

		if err := tx.Model(&models.Account{}).Where("id = ?", followerID).
			UpdateColumn("following_count", increment("following_count")).Error; err != nil {
			return err
		}
		if err := tx.Model(&models.Account{}).Where("id = ?", followeeID).
			UpdateColumn("follower_count", increment("follower_count")).Error; err != nil {
			return err
		}

		n := &models.Notification{
			RecipientID: followeeID,
			Type:        models.NotificationFollow,
			ActorID:     followerID,
			CreatedAt:   time.Now(),
		}
		if err := notify(tx, n); err != nil {
			return err
		}
		ns = append(ns, n)
		return nil
	})
	if err != nil {
		return false, nil, err
	}
	return created, ns, nil
}

func (r *followRepository) Unfollow(ctx context.Context, followerID, followeeID uint) (bool, error) {
	var removed bool
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Where("follower_id = ? AND followee_id = ?", followerID, followeeID).
			Delete(&models.Follow{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return nil
		}
		removed = true

		if err := tx.Model(&models.Account{}).Where("id = ?", followerID).
			UpdateColumn("following_count", clampedDecrement("following_count")).Error; err != nil {
			return err
		}
		return tx.Model(&models.Account{}).Where("id = ?", followeeID).
			UpdateColumn("follower_count", clampedDecrement("follower_count")).Error
	})
	return removed, err
}

func (r *followRepository) IsFollowing(ctx context.Context, followerID, followeeID uint) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Follow{}).
		Where("follower_id = ? AND followee_id = ?", followerID, followeeID).
		Count(&count).Error
	return count > 0, err
}

func (r *followRepository) FollowingIDs(ctx context.Context, followerID uint) ([]uint, error) {
	var ids []uint
	err := r.db.WithContext(ctx).Model(&models.Follow{}).
		Where("follower_id = ?", followerID).
		Pluck("followee_id", &ids).Error
	return ids, err
}

func (r *followRepository) Followers(ctx context.Context, accountID uint) ([]*models.Account, error) {
	var accounts []*models.Account
	err := r.db.WithContext(ctx).
		Joins("JOIN follows ON follows.follower_id = accounts.id").
		Where("follows.followee_id = ?", accountID).
		Order("follows.created_at DESC").
		Find(&accounts).Error
	return accounts, err
}

func (r *followRepository) Following(ctx context.Context, accountID uint) ([]*models.Account, error) {
	var accounts []*models.Account
	err := r.db.WithContext(ctx).
		Joins("JOIN follows ON follows.followee_id = accounts.id").
		Where("follows.follower_id = ?", accountID).
		Order("follows.created_at DESC").
		Find(&accounts).Error
	return accounts, err
}
