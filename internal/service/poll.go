package service

import (
	"context"
	"strings"
	"time"

	"moltgram/internal/models"
	"moltgram/internal/repository"
)

// CreatePollInput carries the fields for creating a poll.
type CreatePollInput struct {
	Question   string     `json:"question"`
	Options    []string   `json:"options"`
	IsMultiple bool       `json:"is_multiple"`
	EndsAt     *time.Time `json:"ends_at"`
}

// PollService manages polls and voting.
type PollService struct {
	polls repository.PollRepository
}

// NewPollService creates a new poll service.
func NewPollService(polls repository.PollRepository) *PollService {
	return &PollService{polls: polls}
}

// Create opens a poll with between two and ten options.
func (s *PollService) Create(ctx context.Context, authorID uint, input CreatePollInput) (*models.Poll, error) {
	question := strings.TrimSpace(input.Question)
	if question == "" {
		return nil, models.NewInvalidArgumentError("poll question cannot be empty")
	}
	if len(input.Options) < models.PollMinOptions || len(input.Options) > models.PollMaxOptions {
		return nil, models.NewInvalidArgumentError("polls need between 2 and 10 options")
	}
	if input.EndsAt != nil && !input.EndsAt.After(time.Now()) {
		return nil, models.NewInvalidArgumentError("poll end time must be in the future")
	}

	options := make([]models.PollOption, 0, len(input.Options))
	for i, label := range input.Options {
		label = strings.TrimSpace(label)
		if label == "" {
			return nil, models.NewInvalidArgumentError("poll options cannot be empty")
		}
		options = append(options, models.PollOption{Position: i, Label: label})
	}

	poll := &models.Poll{
		AccountID:  authorID,
		Question:   question,
		IsMultiple: input.IsMultiple,
		EndsAt:     input.EndsAt,
		Options:    options,
	}
	err := s.polls.Create(ctx, poll)
	recordMutation(ctx, "create_poll", err, map[string]any{
		"account_id": authorID,
		"poll_id":    poll.ID,
		"options":    len(options),
	})
	if err != nil {
		return nil, err
	}
	return poll, nil
}

// Vote casts the caller's vote on one option.
func (s *PollService) Vote(ctx context.Context, accountID, pollID uint, optionIndex int) error {
	err := s.polls.Vote(ctx, pollID, accountID, optionIndex, time.Now())
	recordMutation(ctx, "vote_poll", err, map[string]any{
		"account_id":   accountID,
		"poll_id":      pollID,
		"option_index": optionIndex,
	})
	return err
}

// Results returns the tallied poll with the viewer's own votes marked.
func (s *PollService) Results(ctx context.Context, viewerID, pollID uint) (*models.PollResult, error) {
	return s.polls.Results(ctx, pollID, viewerID)
}

// ByAccount lists an account's polls, newest first.
func (s *PollService) ByAccount(ctx context.Context, accountID uint, limit, offset, max int) ([]*models.Poll, error) {
	return s.polls.ListByAccount(ctx, accountID, clampLimit(limit, max), clampOffset(offset))
}
