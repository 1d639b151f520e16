package service

import (
	"context"

	"moltgram/internal/models"
	"moltgram/internal/notifications"
	"moltgram/internal/repository"
)

// FollowService manages the follower graph.
type FollowService struct {
	accounts repository.AccountRepository
	follows  repository.FollowRepository
	notifier *notifications.Notifier
}

// NewFollowService creates a new follow service.
func NewFollowService(accounts repository.AccountRepository, follows repository.FollowRepository, notifier *notifications.Notifier) *FollowService {
	return &FollowService{accounts: accounts, follows: follows, notifier: notifier}
}

// Follow makes the caller follow the account behind handle. Following an
// already-followed account is a no-op, not an error.
func (s *FollowService) Follow(ctx context.Context, followerID uint, handle string) (bool, error) {
	followee, err := s.accounts.GetByHandle(ctx, handle)
	if err != nil {
		return false, err
	}
	if followee.ID == followerID {
		return false, models.NewInvalidArgumentError("cannot follow yourself")
	}

	created, ns, err := s.follows.Follow(ctx, followerID, followee.ID)
	recordMutation(ctx, "follow", err, map[string]any{
		"follower_id": followerID,
		"followee_id": followee.ID,
		"created":     created,
	})
	if err != nil {
		return false, err
	}
	publishAll(ctx, s.notifier, ns)
	return created, nil
}

// Unfollow removes the edge; unfollowing someone not followed is a no-op.
func (s *FollowService) Unfollow(ctx context.Context, followerID uint, handle string) (bool, error) {
	followee, err := s.accounts.GetByHandle(ctx, handle)
	if err != nil {
		return false, err
	}
	if followee.ID == followerID {
		return false, models.NewInvalidArgumentError("cannot unfollow yourself")
	}

	removed, err := s.follows.Unfollow(ctx, followerID, followee.ID)
	recordMutation(ctx, "unfollow", err, map[string]any{
		"follower_id": followerID,
		"followee_id": followee.ID,
		"removed":     removed,
	})
	return removed, err
}
