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

// CreatePostInput carries the fields for composing a post.
type CreatePostInput struct {
	Title       string `json:"title"`
	Body        string `json:"body"`
	ImageURL    string `json:"image_url"`
	CommunityID *uint  `json:"community_id"`
}

// PostService manages the post lifecycle, hashtag extraction and mention fan-out.
type PostService struct {
	posts       repository.PostRepository
	reactions   repository.ReactionRepository
	communities repository.CommunityRepository
	notifier    *notifications.Notifier
	tuning      config.Tuning
}

// NewPostService creates a new post service.
func NewPostService(posts repository.PostRepository, reactions repository.ReactionRepository, communities repository.CommunityRepository, notifier *notifications.Notifier, tuning config.Tuning) *PostService {
	return &PostService{
		posts:       posts,
		reactions:   reactions,
		communities: communities,
		notifier:    notifier,
		tuning:      tuning,
	}
}

// Create publishes a post for the author. Hashtags and mentions are derived
// from the title and body; posting into a community requires membership.
func (s *PostService) Create(ctx context.Context, authorID uint, input CreatePostInput) (*models.Post, error) {
	post := &models.Post{
		AccountID:   authorID,
		Title:       strings.TrimSpace(input.Title),
		Body:        input.Body,
		ImageURL:    input.ImageURL,
		CommunityID: input.CommunityID,
	}
	if !post.HasContent() {
		return nil, models.NewInvalidArgumentError("post needs a title, body or image")
	}

	if post.CommunityID != nil {
		member, err := s.communities.IsMember(ctx, *post.CommunityID, authorID)
		if err != nil {
			return nil, err
		}
		if !member {
			return nil, models.NewForbiddenError("must join the community before posting to it")
		}
	}

	text := post.Title + " " + post.Body
	tags := textscan.Hashtags(text)
	mentions := textscan.Mentions(text)

	ns, err := s.posts.Create(ctx, post, tags, mentions)
	recordMutation(ctx, "create_post", err, map[string]any{
		"account_id": authorID,
		"post_id":    post.ID,
		"hashtags":   len(tags),
		"mentions":   len(mentions),
	})
	if err != nil {
		return nil, err
	}
	publishAll(ctx, s.notifier, ns)
	return post, nil
}

// Get returns a post hydrated for the viewer and counts the view.
func (s *PostService) Get(ctx context.Context, viewerID, postID uint) (*models.Post, error) {
	post, err := s.posts.GetByID(ctx, postID)
	if err != nil {
		return nil, err
	}
	if err := s.posts.IncrementViews(ctx, postID); err != nil {
		return nil, err
	}
	post.ViewCount++
	if err := s.hydrate(ctx, viewerID, []*models.Post{post}); err != nil {
		return nil, err
	}
	return post, nil
}

// Delete removes the author's own post and everything hanging off it.
func (s *PostService) Delete(ctx context.Context, callerID, postID uint) error {
	post, err := s.posts.GetByID(ctx, postID)
	if err != nil {
		return err
	}
	if post.AccountID != callerID {
		return models.NewForbiddenError("only the author can delete a post")
	}
	err = s.posts.Delete(ctx, postID)
	recordMutation(ctx, "delete_post", err, map[string]any{
		"account_id": callerID,
		"post_id":    postID,
	})
	return err
}

// Repost shares an existing post, optionally with a quote. Reposting the same
// original twice is a conflict.
func (s *PostService) Repost(ctx context.Context, accountID, originalID uint, quote string) (*models.Post, error) {
	repost, ns, err := s.posts.Repost(ctx, accountID, originalID, strings.TrimSpace(quote))
	recordMutation(ctx, "repost", err, map[string]any{
		"account_id":  accountID,
		"original_id": originalID,
	})
	if err != nil {
		return nil, err
	}
	publishAll(ctx, s.notifier, ns)
	return repost, nil
}

// Save bookmarks a post for the caller; saving twice is a no-op.
func (s *PostService) Save(ctx context.Context, accountID, postID uint) (bool, error) {
	saved, err := s.posts.Save(ctx, accountID, postID)
	recordMutation(ctx, "save_post", err, map[string]any{
		"account_id": accountID,
		"post_id":    postID,
		"saved":      saved,
	})
	return saved, err
}

// Unsave drops the bookmark, if present.
func (s *PostService) Unsave(ctx context.Context, accountID, postID uint) (bool, error) {
	removed, err := s.posts.Unsave(ctx, accountID, postID)
	recordMutation(ctx, "unsave_post", err, map[string]any{
		"account_id": accountID,
		"post_id":    postID,
		"removed":    removed,
	})
	return removed, err
}

// Pin sets the caller's single profile pin to their own post.
func (s *PostService) Pin(ctx context.Context, accountID, postID uint) error {
	post, err := s.posts.GetByID(ctx, postID)
	if err != nil {
		return err
	}
	if post.AccountID != accountID {
		return models.NewForbiddenError("can only pin your own post")
	}
	err = s.posts.Pin(ctx, accountID, postID)
	recordMutation(ctx, "pin_post", err, map[string]any{
		"account_id": accountID,
		"post_id":    postID,
	})
	return err
}

// Unpin clears the caller's profile pin.
func (s *PostService) Unpin(ctx context.Context, accountID uint) error {
	return s.posts.Unpin(ctx, accountID)
}

// Saved lists the caller's bookmarked posts.
func (s *PostService) Saved(ctx context.Context, accountID uint, limit, offset int) ([]*models.Post, error) {
	posts, err := s.posts.SavedPosts(ctx, accountID, clampLimit(limit, s.tuning.FeedMaxLimit), clampOffset(offset))
	if err != nil {
		return nil, err
	}
	for _, p := range posts {
		p.Saved = true
	}
	return posts, s.hydrateVotes(ctx, accountID, posts)
}

// ByAccount lists an account's posts, the pinned one first when present.
func (s *PostService) ByAccount(ctx context.Context, viewerID, accountID uint, limit, offset int) ([]*models.Post, error) {
	posts, err := s.posts.ListByAccount(ctx, accountID, clampLimit(limit, s.tuning.FeedMaxLimit), clampOffset(offset))
	if err != nil {
		return nil, err
	}
	if offset == 0 {
		pinned, err := s.posts.PinnedPost(ctx, accountID)
		if err != nil {
			return nil, err
		}
		if pinned != nil {
			reordered := []*models.Post{pinned}
			for _, p := range posts {
				if p.ID != pinned.ID {
					reordered = append(reordered, p)
				}
			}
			posts = reordered
		}
	}
	if err := s.hydrate(ctx, viewerID, posts); err != nil {
		return nil, err
	}
	return posts, nil
}

// hydrate fills the viewer-specific computed fields on each post.
func (s *PostService) hydrate(ctx context.Context, viewerID uint, posts []*models.Post) error {
	if err := s.hydrateVotes(ctx, viewerID, posts); err != nil {
		return err
	}
	if viewerID == 0 || len(posts) == 0 {
		return nil
	}
	ids := make([]uint, len(posts))
	for i, p := range posts {
		ids[i] = p.ID
	}
	savedIDs, err := s.posts.SavedPostIDs(ctx, viewerID, ids)
	if err != nil {
		return err
	}
	savedSet := make(map[uint]bool, len(savedIDs))
	for _, id := range savedIDs {
		savedSet[id] = true
	}
	for _, p := range posts {
		p.Saved = savedSet[p.ID]
	}
	return nil
}

func (s *PostService) hydrateVotes(ctx context.Context, viewerID uint, posts []*models.Post) error {
	if viewerID == 0 || len(posts) == 0 {
		return nil
	}
	ids := make([]uint, len(posts))
	for i, p := range posts {
		ids[i] = p.ID
	}
	votes, err := s.reactions.VotesFor(ctx, viewerID, models.TargetPost, ids)
	if err != nil {
		return err
	}
	for _, p := range posts {
		p.YourVote = votes[p.ID]
	}
	return nil
}
