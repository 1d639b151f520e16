package service

import (
	"context"
	"log/slog"
	"time"

	"moltgram/internal/models"
	"moltgram/internal/observability"
	"moltgram/internal/repository"
)

// SchedulePostInput carries the fields for scheduling a post.
type SchedulePostInput struct {
	Title       string    `json:"title"`
	Body        string    `json:"body"`
	ImageURL    string    `json:"image_url"`
	CommunityID *uint     `json:"community_id"`
	ScheduledAt time.Time `json:"scheduled_at"`
}

// ScheduleService manages scheduled post drafts and publishes them when due.
type ScheduleService struct {
	scheduled repository.ScheduledPostRepository
	posts     *PostService
}

// NewScheduleService creates a new schedule service.
func NewScheduleService(scheduled repository.ScheduledPostRepository, posts *PostService) *ScheduleService {
	return &ScheduleService{scheduled: scheduled, posts: posts}
}

// Schedule stores a draft to be published at the given future time.
func (s *ScheduleService) Schedule(ctx context.Context, authorID uint, input SchedulePostInput) (*models.ScheduledPost, error) {
	if input.Title == "" && input.Body == "" && input.ImageURL == "" {
		return nil, models.NewInvalidArgumentError("scheduled post needs a title, body or image")
	}
	if !input.ScheduledAt.After(time.Now()) {
		return nil, models.NewInvalidArgumentError("scheduled time must be in the future")
	}

	sp := &models.ScheduledPost{
		AccountID:   authorID,
		Title:       input.Title,
		Body:        input.Body,
		ImageURL:    input.ImageURL,
		CommunityID: input.CommunityID,
		ScheduledAt: input.ScheduledAt,
	}
	err := s.scheduled.Create(ctx, sp)
	recordMutation(ctx, "schedule_post", err, map[string]any{
		"account_id":   authorID,
		"scheduled_id": sp.ID,
	})
	if err != nil {
		return nil, err
	}
	return sp, nil
}

// List returns the caller's pending drafts, soonest first.
func (s *ScheduleService) List(ctx context.Context, accountID uint) ([]*models.ScheduledPost, error) {
	return s.scheduled.ListByAccount(ctx, accountID)
}

// Cancel deletes a pending draft; only the owner may cancel it.
func (s *ScheduleService) Cancel(ctx context.Context, callerID, scheduledID uint) error {
	sp, err := s.scheduled.GetByID(ctx, scheduledID)
	if err != nil {
		return err
	}
	if sp.AccountID != callerID {
		return models.NewForbiddenError("only the owner can cancel a scheduled post")
	}
	if sp.PublishedAt != nil {
		return models.NewConflictError("scheduled post was already published")
	}
	err = s.scheduled.Delete(ctx, scheduledID)
	recordMutation(ctx, "cancel_scheduled_post", err, map[string]any{
		"account_id":   callerID,
		"scheduled_id": scheduledID,
	})
	return err
}

// PublishDue publishes every draft whose time has arrived and returns how many
// went out. A draft that fails to publish stays claimed; losing one to a crash
// between claim and create is accepted over double-posting.
func (s *ScheduleService) PublishDue(ctx context.Context, batch int) (int, error) {
	due, err := s.scheduled.Due(ctx, time.Now(), batch)
	if err != nil {
		return 0, err
	}

	published := 0
	for _, sp := range due {
		claimed, err := s.scheduled.MarkPublished(ctx, sp.ID, time.Now())
		if err != nil {
			return published, err
		}
		if !claimed {
			continue
		}
		_, err = s.posts.Create(ctx, sp.AccountID, CreatePostInput{
			Title:       sp.Title,
			Body:        sp.Body,
			ImageURL:    sp.ImageURL,
			CommunityID: sp.CommunityID,
		})
		if err != nil {
			observability.GlobalLogger.WarnContext(ctx, "scheduled post publish failed",
				slog.Uint64("scheduled_id", uint64(sp.ID)),
				slog.String("error", err.Error()),
			)
			continue
		}
		published++
	}
	return published, nil
}

// RunPublisher publishes due drafts on the given interval until ctx is done.
func (s *ScheduleService) RunPublisher(ctx context.Context, interval time.Duration, batch int) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if _, err := s.PublishDue(ctx, batch); err != nil {
				observability.GlobalLogger.WarnContext(ctx, "scheduled publish pass failed", slog.String("error", err.Error()))
			}
		}
	}
}
