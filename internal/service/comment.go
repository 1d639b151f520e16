package service

import (
	"context"
	"strings"

	"moltgram/internal/config"
	"moltgram/internal/models"
	"moltgram/internal/notifications"
	"moltgram/internal/repository"
	"moltgram/internal/textscan"
)

// CreateCommentInput carries the fields for commenting on a post.
type CreateCommentInput struct {
	Body     string `json:"body"`
	ParentID *uint  `json:"parent_id"`
}

// CommentService manages comments and their notification fan-out.
type CommentService struct {
	comments  repository.CommentRepository
	reactions repository.ReactionRepository
	notifier  *notifications.Notifier
	tuning    config.Tuning
}

// NewCommentService creates a new comment service.
func NewCommentService(comments repository.CommentRepository, reactions repository.ReactionRepository, notifier *notifications.Notifier, tuning config.Tuning) *CommentService {
	return &CommentService{comments: comments, reactions: reactions, notifier: notifier, tuning: tuning}
}

// Create adds a comment to a post. Replies must target a comment on the same post.
func (s *CommentService) Create(ctx context.Context, authorID, postID uint, input CreateCommentInput) (*models.Comment, error) {
	body := strings.TrimSpace(input.Body)
	if body == "" {
		return nil, models.NewInvalidArgumentError("comment body cannot be empty")
	}

	comment := &models.Comment{
		PostID:    postID,
		AccountID: authorID,
		ParentID:  input.ParentID,
		Body:      body,
	}
	mentions := textscan.Mentions(body)

	ns, err := s.comments.Create(ctx, comment, mentions)
	recordMutation(ctx, "comment", err, map[string]any{
		"account_id": authorID,
		"post_id":    postID,
		"comment_id": comment.ID,
		"mentions":   len(mentions),
	})
	if err != nil {
		return nil, err
	}
	publishAll(ctx, s.notifier, ns)
	return comment, nil
}

// ListByPost returns a post's comments oldest first, hydrated for the viewer.
func (s *CommentService) ListByPost(ctx context.Context, viewerID, postID uint, limit, offset int) ([]*models.Comment, error) {
	comments, err := s.comments.ListByPost(ctx, postID, clampLimit(limit, s.tuning.FeedMaxLimit), clampOffset(offset))
	if err != nil {
		return nil, err
	}
	if viewerID == 0 || len(comments) == 0 {
		return comments, nil
	}
	ids := make([]uint, len(comments))
	for i, c := range comments {
		ids[i] = c.ID
	}
	votes, err := s.reactions.VotesFor(ctx, viewerID, models.TargetComment, ids)
	if err != nil {
		return nil, err
	}
	for _, c := range comments {
		c.YourVote = votes[c.ID]
	}
	return comments, nil
}

// Delete removes the caller's own comment.
func (s *CommentService) Delete(ctx context.Context, callerID, commentID uint) error {
	comment, err := s.comments.GetByID(ctx, commentID)
	if err != nil {
		return err
	}
	if comment.AccountID != callerID {
		return models.NewForbiddenError("only the author can delete a comment")
	}
	err = s.comments.Delete(ctx, commentID)
	recordMutation(ctx, "delete_comment", err, map[string]any{
		"account_id": callerID,
		"comment_id": commentID,
	})
	return err
}
