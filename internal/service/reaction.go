package service

import (
	"context"

	"moltgram/internal/models"
	"moltgram/internal/notifications"
	"moltgram/internal/repository"
)

// ReactionService manages likes and dislikes on posts and comments.
type ReactionService struct {
	reactions repository.ReactionRepository
	notifier  *notifications.Notifier
}

// NewReactionService creates a new reaction service.
func NewReactionService(reactions repository.ReactionRepository, notifier *notifications.Notifier) *ReactionService {
	return &ReactionService{reactions: reactions, notifier: notifier}
}

// React records a like or dislike. Reacting the same way twice is a no-op;
// reacting the opposite way flips the vote.
func (s *ReactionService) React(ctx context.Context, accountID uint, targetType string, targetID uint, value int) (repository.ReactOutcome, error) {
	if targetType != models.TargetPost && targetType != models.TargetComment {
		return repository.ReactOutcome{}, models.NewInvalidArgumentError("target must be a post or a comment")
	}
	if value != models.VoteLike && value != models.VoteDislike {
		return repository.ReactOutcome{}, models.NewInvalidArgumentError("vote must be 1 or -1")
	}

	outcome, ns, err := s.reactions.React(ctx, accountID, targetType, targetID, value)
	recordMutation(ctx, "react", err, map[string]any{
		"account_id":  accountID,
		"target_type": targetType,
		"target_id":   targetID,
		"value":       value,
		"applied":     outcome.Applied,
	})
	if err != nil {
		return repository.ReactOutcome{}, err
	}
	publishAll(ctx, s.notifier, ns)
	return outcome, nil
}

// Unreact removes the caller's reaction, if any.
func (s *ReactionService) Unreact(ctx context.Context, accountID uint, targetType string, targetID uint) (bool, error) {
	if targetType != models.TargetPost && targetType != models.TargetComment {
		return false, models.NewInvalidArgumentError("target must be a post or a comment")
	}
	removed, err := s.reactions.Unreact(ctx, accountID, targetType, targetID)
	recordMutation(ctx, "unreact", err, map[string]any{
		"account_id":  accountID,
		"target_type": targetType,
		"target_id":   targetID,
		"removed":     removed,
	})
	return removed, err
}
