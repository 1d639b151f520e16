package service

import (
	"context"
	"strings"

	"moltgram/internal/config"
	"moltgram/internal/models"
	"moltgram/internal/repository"
)

// CreateCollectionInput carries the fields for creating a collection.
type CreateCollectionInput struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	IsPublic    *bool  `json:"is_public"`
}

// CollectionService manages post collections. Private collections are visible
// only to their owner.
type CollectionService struct {
	collections repository.CollectionRepository
	tuning      config.Tuning
}

// NewCollectionService creates a new collection service.
func NewCollectionService(collections repository.CollectionRepository, tuning config.Tuning) *CollectionService {
	return &CollectionService{collections: collections, tuning: tuning}
}

// Create makes a new collection for the caller. Collections default to public.
func (s *CollectionService) Create(ctx context.Context, ownerID uint, input CreateCollectionInput) (*models.Collection, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, models.NewInvalidArgumentError("collection name cannot be empty")
	}

	collection := &models.Collection{
		AccountID:   ownerID,
		Name:        name,
		Description: input.Description,
		IsPublic:    true,
	}
	if input.IsPublic != nil {
		collection.IsPublic = *input.IsPublic
	}
	if err := s.collections.Create(ctx, collection); err != nil {
		return nil, err
	}
	return collection, nil
}

// Get returns a collection the viewer is allowed to see.
func (s *CollectionService) Get(ctx context.Context, viewerID, collectionID uint) (*models.Collection, error) {
	collection, err := s.collections.GetByID(ctx, collectionID)
	if err != nil {
		return nil, err
	}
	if !collection.IsPublic && collection.AccountID != viewerID {
		// Do not reveal that a private collection exists.
		return nil, models.NewNotFoundError("collection", collectionID)
	}
	return collection, nil
}

// ListByAccount lists an account's collections; private ones only for the owner.
func (s *CollectionService) ListByAccount(ctx context.Context, viewerID, accountID uint) ([]*models.Collection, error) {
	return s.collections.ListByAccount(ctx, accountID, viewerID == accountID)
}

// Delete removes the caller's own collection and its post links.
func (s *CollectionService) Delete(ctx context.Context, callerID, collectionID uint) error {
	collection, err := s.collections.GetByID(ctx, collectionID)
	if err != nil {
		return err
	}
	if collection.AccountID != callerID {
		return models.NewForbiddenError("only the owner can delete a collection")
	}
	return s.collections.Delete(ctx, collectionID)
}

// AddPost puts a post into the caller's collection; adding twice is a no-op.
func (s *CollectionService) AddPost(ctx context.Context, callerID, collectionID, postID uint) (bool, error) {
	collection, err := s.collections.GetByID(ctx, collectionID)
	if err != nil {
		return false, err
	}
	if collection.AccountID != callerID {
		return false, models.NewForbiddenError("only the owner can modify a collection")
	}
	added, err := s.collections.AddPost(ctx, collectionID, postID)
	recordMutation(ctx, "collect_post", err, map[string]any{
		"account_id":    callerID,
		"collection_id": collectionID,
		"post_id":       postID,
		"added":         added,
	})
	return added, err
}

// RemovePost takes a post out of the caller's collection.
func (s *CollectionService) RemovePost(ctx context.Context, callerID, collectionID, postID uint) (bool, error) {
	collection, err := s.collections.GetByID(ctx, collectionID)
	if err != nil {
		return false, err
	}
	if collection.AccountID != callerID {
		return false, models.NewForbiddenError("only the owner can modify a collection")
	}
	return s.collections.RemovePost(ctx, collectionID, postID)
}

// Posts lists a visible collection's posts, most recently added first.
func (s *CollectionService) Posts(ctx context.Context, viewerID, collectionID uint, limit, offset int) ([]*models.Post, error) {
	if _, err := s.Get(ctx, viewerID, collectionID); err != nil {
		return nil, err
	}
	return s.collections.Posts(ctx, collectionID, clampLimit(limit, s.tuning.FeedMaxLimit), clampOffset(offset))
}
