package repository

import (
	"context"
	"time"

	"moltgram/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// CollectionRepository defines the interface for collection data operations.
// Ownership checks live in the service layer; this layer only touches rows.
type CollectionRepository interface {
	Create(ctx context.Context, collection *models.Collection) error
	GetByID(ctx context.Context, id uint) (*models.Collection, error)
	ListByAccount(ctx context.Context, accountID uint, includePrivate bool) ([]*models.Collection, error)
	Delete(ctx context.Context, id uint) error
	AddPost(ctx context.Context, collectionID, postID uint) (added bool, err error)
	RemovePost(ctx context.Context, collectionID, postID uint) (removed bool, err error)
	Posts(ctx context.Context, collectionID uint, limit, offset int) ([]*models.Post, error)
}

type collectionRepository struct {
	db *gorm.DB
}

// NewCollectionRepository creates a new collection repository.
func NewCollectionRepository(db *gorm.DB) CollectionRepository {
	return &collectionRepository{db: db}
}

func (r *collectionRepository) Create(ctx context.Context, collection *models.Collection) error {
	if collection.CreatedAt.IsZero() {
		collection.CreatedAt = time.Now()
	}
	return r.db.WithContext(ctx).Create(collection).Error
}

func (r *collectionRepository) GetByID(ctx context.Context, id uint) (*models.Collection, error) {
	var collection models.Collection
	err := r.db.WithContext(ctx).First(&collection, id).Error
	if err != nil {
		return nil, translateNotFound(err, "collection", id)
	}
	return &collection, nil
}

func (r *collectionRepository) ListByAccount(ctx context.Context, accountID uint, includePrivate bool) ([]*models.Collection, error) {
	q := r.db.WithContext(ctx).Where("account_id = ?", accountID)
	if !includePrivate {
		q = q.Where("is_public = ?", true)
	}
	var collections []*models.Collection
	err := q.Order("created_at DESC").Find(&collections).Error
	return collections, err
}

func (r *collectionRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("collection_id = ?", id).Delete(&models.CollectionPost{}).Error; err != nil {
			return err
		}
		res := tx.Delete(&models.Collection{}, id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return models.NewNotFoundError("collection", id)
		}
		return nil
	})
}

func (r *collectionRepository) AddPost(ctx context.Context, collectionID, postID uint) (bool, error) {
	var exists int64
	if err := r.db.WithContext(ctx).Model(&models.Post{}).Where("id = ?", postID).
		Count(&exists).Error; err != nil {
		return false, err
	}
	if exists == 0 {
		return false, models.NewNotFoundError("post", postID)
	}

	res := r.db.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).
		Create(&models.CollectionPost{CollectionID: collectionID, PostID: postID, AddedAt: time.Now()})
	return res.RowsAffected == 1, res.Error
}

func (r *collectionRepository) RemovePost(ctx context.Context, collectionID, postID uint) (bool, error) {
	res := r.db.WithContext(ctx).
		Where("collection_id = ? AND post_id = ?", collectionID, postID).
		Delete(&models.CollectionPost{})
	return res.RowsAffected > 0, res.Error
}

func (r *collectionRepository) Posts(ctx context.Context, collectionID uint, limit, offset int) ([]*models.Post, error) {
	var posts []*models.Post
	err := r.db.WithContext(ctx).
		Preload("Account").
		Joins("JOIN collection_posts ON collection_posts.post_id = posts.id").
		Where("collection_posts.collection_id = ?", collectionID).
		Order("collection_posts.added_at DESC").
		Limit(limit).Offset(offset).
		Find(&posts).Error
	return posts, err
}
