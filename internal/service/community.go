package service

import (
	"context"
	"regexp"
	"strings"

	"moltgram/internal/config"
	"moltgram/internal/models"
	"moltgram/internal/repository"
)

var communityNamePattern = regexp.MustCompile(`^[A-Za-z0-9_]{2,64}$`)

// CreateCommunityInput carries the fields for creating a community.
type CreateCommunityInput struct {
	Name        string `json:"name"`
	DisplayName string `json:"display_name"`
	Description string `json:"description"`
	Icon        string `json:"icon"`
}

// CommunityService manages communities and membership.
type CommunityService struct {
	communities repository.CommunityRepository
	tuning      config.Tuning
}

// NewCommunityService creates a new community service.
func NewCommunityService(communities repository.CommunityRepository, tuning config.Tuning) *CommunityService {
	return &CommunityService{communities: communities, tuning: tuning}
}

// Create founds a community; the creator becomes its owner and first member.
func (s *CommunityService) Create(ctx context.Context, creatorID uint, input CreateCommunityInput) (*models.Community, error) {
	name := strings.TrimSpace(input.Name)
	if !communityNamePattern.MatchString(name) {
		return nil, models.NewInvalidArgumentError("community name must be 2-64 characters of letters, digits or underscores")
	}

	community := &models.Community{
		Name:        name,
		DisplayName: strings.TrimSpace(input.DisplayName),
		Description: input.Description,
		Icon:        input.Icon,
		CreatedByID: creatorID,
	}
	if community.DisplayName == "" {
		community.DisplayName = name
	}

	err := s.communities.Create(ctx, community)
	recordMutation(ctx, "create_community", err, map[string]any{
		"account_id":   creatorID,
		"community_id": community.ID,
	})
	if err != nil {
		return nil, err
	}
	return community, nil
}

// GetByName resolves a community case-insensitively.
func (s *CommunityService) GetByName(ctx context.Context, name string) (*models.Community, error) {
	return s.communities.GetByName(ctx, name)
}

// List returns communities by descending membership.
func (s *CommunityService) List(ctx context.Context, limit, offset int) ([]*models.Community, error) {
	return s.communities.List(ctx, clampLimit(limit, s.tuning.FeedMaxLimit), clampOffset(offset))
}

// Join adds the caller to the community; joining twice is a no-op.
func (s *CommunityService) Join(ctx context.Context, accountID uint, name string) (bool, error) {
	community, err := s.communities.GetByName(ctx, name)
	if err != nil {
		return false, err
	}
	joined, err := s.communities.Join(ctx, community.ID, accountID)
	recordMutation(ctx, "join_community", err, map[string]any{
		"account_id":   accountID,
		"community_id": community.ID,
		"joined":       joined,
	})
	return joined, err
}

// Leave removes the caller from the community; leaving twice is a no-op.
func (s *CommunityService) Leave(ctx context.Context, accountID uint, name string) (bool, error) {
	community, err := s.communities.GetByName(ctx, name)
	if err != nil {
		return false, err
	}
	left, err := s.communities.Leave(ctx, community.ID, accountID)
	recordMutation(ctx, "leave_community", err, map[string]any{
		"account_id":   accountID,
		"community_id": community.ID,
		"left":         left,
	})
	return left, err
}

// Members lists a community's members in join order.
func (s *CommunityService) Members(ctx context.Context, name string, limit, offset int) ([]*models.Account, error) {
	community, err := s.communities.GetByName(ctx, name)
	if err != nil {
		return nil, err
	}
	return s.communities.Members(ctx, community.ID, clampLimit(limit, s.tuning.FeedMaxLimit), clampOffset(offset))
}
