package service

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"moltgram/internal/config"
	"moltgram/internal/models"
	"moltgram/internal/observability"
	"moltgram/internal/repository"
)

// CreateStoryInput carries the fields for posting a story.
type CreateStoryInput struct {
	Body     string `json:"body"`
	ImageURL string `json:"image_url"`
}

// StoryService manages ephemeral stories. Expiry is enforced on every read,
// independent of the background purge.
type StoryService struct {
	stories repository.StoryRepository
	tuning  config.Tuning
}

// NewStoryService creates a new story service.
func NewStoryService(stories repository.StoryRepository, tuning config.Tuning) *StoryService {
	return &StoryService{stories: stories, tuning: tuning}
}

// Create posts a story that expires after the configured TTL.
func (s *StoryService) Create(ctx context.Context, authorID uint, input CreateStoryInput) (*models.Story, error) {
	body := strings.TrimSpace(input.Body)
	if body == "" && input.ImageURL == "" {
		return nil, models.NewInvalidArgumentError("story needs a body or image")
	}

	now := time.Now()
	story := &models.Story{
		AccountID: authorID,
		Body:      body,
		ImageURL:  input.ImageURL,
		CreatedAt: now,
		ExpiresAt: now.Add(s.tuning.StoryTTL()),
	}
	err := s.stories.Create(ctx, story)
	recordMutation(ctx, "create_story", err, map[string]any{
		"account_id": authorID,
		"story_id":   story.ID,
	})
	return story, err
}

// Get returns a live story; an expired one is indistinguishable from a missing one.
func (s *StoryService) Get(ctx context.Context, viewerID, storyID uint) (*models.Story, error) {
	story, err := s.stories.Get(ctx, storyID, time.Now())
	if err != nil {
		return nil, err
	}
	if viewerID != 0 {
		viewed, err := s.stories.ViewedIDs(ctx, viewerID, []uint{story.ID})
		if err != nil {
			return nil, err
		}
		story.Viewed = len(viewed) > 0
	}
	return story, nil
}

// View records the viewer on a live story; repeat views do not inflate the counter.
func (s *StoryService) View(ctx context.Context, viewerID, storyID uint) (bool, error) {
	first, err := s.stories.View(ctx, storyID, viewerID, time.Now())
	recordMutation(ctx, "view_story", err, map[string]any{
		"account_id": viewerID,
		"story_id":   storyID,
		"first_view": first,
	})
	return first, err
}

// Feed lists live stories from the viewer and the accounts they follow.
func (s *StoryService) Feed(ctx context.Context, viewerID uint, limit int) ([]*models.Story, error) {
	now := time.Now()
	stories, err := s.stories.FeedFor(ctx, viewerID, now, clampLimit(limit, s.tuning.FeedMaxLimit))
	if err != nil {
		return nil, err
	}
	if len(stories) == 0 {
		return stories, nil
	}
	ids := make([]uint, len(stories))
	for i, st := range stories {
		ids[i] = st.ID
	}
	viewedIDs, err := s.stories.ViewedIDs(ctx, viewerID, ids)
	if err != nil {
		return nil, err
	}
	viewedSet := make(map[uint]bool, len(viewedIDs))
	for _, id := range viewedIDs {
		viewedSet[id] = true
	}
	for _, st := range stories {
		st.Viewed = viewedSet[st.ID]
	}
	return stories, nil
}

// Viewers lists who has seen the caller's own story.
func (s *StoryService) Viewers(ctx context.Context, callerID, storyID uint) ([]*models.Account, error) {
	story, err := s.stories.Get(ctx, storyID, time.Now())
	if err != nil {
		return nil, err
	}
	if story.AccountID != callerID {
		return nil, models.NewForbiddenError("only the author can see story viewers")
	}
	return s.stories.Viewers(ctx, storyID, s.tuning.FeedMaxLimit)
}

// Delete removes the caller's own story before its natural expiry.
func (s *StoryService) Delete(ctx context.Context, callerID, storyID uint) error {
	story, err := s.stories.Get(ctx, storyID, time.Now())
	if err != nil {
		return err
	}
	if story.AccountID != callerID {
		return models.NewForbiddenError("only the author can delete a story")
	}
	err = s.stories.Delete(ctx, storyID)
	recordMutation(ctx, "delete_story", err, map[string]any{
		"account_id": callerID,
		"story_id":   storyID,
	})
	return err
}

// PurgeExpired physically removes expired stories. Reads already hide them;
// this just reclaims the rows.
func (s *StoryService) PurgeExpired(ctx context.Context) (int64, error) {
	return s.stories.PurgeExpired(ctx, time.Now())
}

// RunPurger purges expired stories on the given interval until ctx is done.
func (s *StoryService) RunPurger(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			purged, err := s.PurgeExpired(ctx)
			if err != nil {
				observability.GlobalLogger.WarnContext(ctx, "story purge failed", slog.String("error", err.Error()))
				continue
			}
			if purged > 0 {
				observability.GlobalLogger.InfoContext(ctx, "purged expired stories", slog.Int64("count", purged))
			}
		}
	}
}
