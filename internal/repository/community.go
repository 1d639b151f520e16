package repository

import (
	"context"
	"strings"
	"time"

	"moltgram/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// CommunityRepository defines the interface for community data operations.
type CommunityRepository interface {
	// Create inserts the community and enrolls the creator as owner.
	Create(ctx context.Context, community *models.Community) error
	GetByName(ctx context.Context, name string) (*models.Community, error)
	GetByID(ctx context.Context, id uint) (*models.Community, error)
	List(ctx context.Context, limit, offset int) ([]*models.Community, error)
	Join(ctx context.Context, communityID, accountID uint) (joined bool, err error)
	Leave(ctx context.Context, communityID, accountID uint) (left bool, err error)
	IsMember(ctx context.Context, communityID, accountID uint) (bool, error)
	Members(ctx context.Context, communityID uint, limit, offset int) ([]*models.Account, error)
}

type communityRepository struct {
	db *gorm.DB
}

// NewCommunityRepository creates a new community repository.
func NewCommunityRepository(db *gorm.DB) CommunityRepository {
	return &communityRepository{db: db}
}

func (r *communityRepository) Create(ctx context.Context, community *models.Community) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		now := time.Now()
		community.CreatedAt = now
		community.MemberCount = 1
		if err := tx.Create(community).Error; err != nil {
			if isDuplicate(err) {
				return models.NewConflictError("community name is already taken")
			}
			return err
		}
		return tx.Create(&models.CommunityMember{
			CommunityID: community.ID,
			AccountID:   community.CreatedByID,
			Role:        "owner",
			JoinedAt:    now,
		}).Error
	})
}

func (r *communityRepository) GetByName(ctx context.Context, name string) (*models.Community, error) {
	var community models.Community
	err := r.db.WithContext(ctx).
		Where("name_lower = ?", strings.ToLower(name)).
		First(&community).Error
	if err != nil {
		return nil, translateNotFound(err, "community", name)
	}
	return &community, nil
}

func (r *communityRepository) GetByID(ctx context.Context, id uint) (*models.Community, error) {
	var community models.Community
	err := r.db.WithContext(ctx).First(&community, id).Error
	if err != nil {
		return nil, translateNotFound(err, "community", id)
	}
	return &community, nil
}

func (r *communityRepository) List(ctx context.Context, limit, offset int) ([]*models.Community, error) {
	var communities []*models.Community
	err := r.db.WithContext(ctx).
		Order("member_count DESC").
		Limit(limit).Offset(offset).
		Find(&communities).Error
	return communities, err
}

func (r *communityRepository) Join(ctx context.Context, communityID, accountID uint) (bool, error) {
	var joined bool
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var exists int64
		if err := tx.Model(&models.Community{}).Where("id = ?", communityID).
			Count(&exists).Error; err != nil {
			return err
		}
		if exists == 0 {
			return models.NewNotFoundError("community", communityID)
		}

		res := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&models.CommunityMember{
			CommunityID: communityID,
			AccountID:   accountID,
			Role:        "member",
			JoinedAt:    time.Now(),
		})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return nil
		}
		joined = true
		return tx.Model(&models.Community{}).Where("id = ?", communityID).
			UpdateColumn("member_count", increment("member_count")).Error
	})
	return joined, err
}

func (r *communityRepository) Leave(ctx context.Context, communityID, accountID uint) (bool, error) {
	var left bool
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Where("community_id = ? AND account_id = ?", communityID, accountID).
			Delete(&models.CommunityMember{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return nil
		}
		left = true
		return tx.Model(&models.Community{}).Where("id = ?", communityID).
			UpdateColumn("member_count", clampedDecrement("member_count")).Error
	})
	return left, err
}

func (r *communityRepository) IsMember(ctx context.Context, communityID, accountID uint) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.CommunityMember{}).
		Where("community_id = ? AND account_id = ?", communityID, accountID).
		Count(&count).Error
	return count > 0, err
}

func (r *communityRepository) Members(ctx context.Context, communityID uint, limit, offset int) ([]*models.Account, error) {
	var accounts []*models.Account
	err := r.db.WithContext(ctx).
		Joins("JOIN community_members ON community_members.account_id = accounts.id").
		Where("community_members.community_id = ?", communityID).
		Order("community_members.joined_at ASC").
		Limit(limit).Offset(offset).
		Find(&accounts).Error
	return accounts, err
}
