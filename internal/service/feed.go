package service

import (
	"context"
	"sort"
	"strings"
	"time"

	"moltgram/internal/cache"
	"moltgram/internal/config"
	"moltgram/internal/models"
	"moltgram/internal/observability"
	"moltgram/internal/repository"

	"go.opentelemetry.io/otel/attribute"
)

// FeedService composes the read-side feeds. Trending is ranked in memory over
// a trailing window; the anonymous global feed's first page is cached.
type FeedService struct {
	feeds     repository.FeedRepository
	posts     repository.PostRepository
	reactions repository.ReactionRepository
	hashtags  repository.HashtagRepository
	tuning    config.Tuning
}

// NewFeedService creates a new feed service.
func NewFeedService(feeds repository.FeedRepository, posts repository.PostRepository, reactions repository.ReactionRepository, hashtags repository.HashtagRepository, tuning config.Tuning) *FeedService {
	return &FeedService{feeds: feeds, posts: posts, reactions: reactions, hashtags: hashtags, tuning: tuning}
}

// Global returns the newest posts across the whole platform.
func (s *FeedService) Global(ctx context.Context, viewerID uint, limit, offset int) ([]*models.Post, error) {
	observability.FeedRequests.WithLabelValues("global").Inc()
	limit = clampLimit(limit, s.tuning.FeedMaxLimit)
	offset = clampOffset(offset)

	// Only the anonymous first page is cached; authenticated reads carry
	// viewer-specific fields.
	if viewerID == 0 && offset == 0 {
		var posts []*models.Post
		err := cache.Aside(ctx, cache.GlobalFeedKey(limit), &posts, cache.GlobalFeedTTL, func() error {
			var fetchErr error
			posts, fetchErr = s.feeds.Global(ctx, limit, 0)
			return fetchErr
		})
		return posts, err
	}

	posts, err := s.feeds.Global(ctx, limit, offset)
	if err != nil {
		return nil, err
	}
	return posts, s.hydrate(ctx, viewerID, posts)
}

// Following returns posts from accounts the viewer follows, plus the
// viewer's own.
func (s *FeedService) Following(ctx context.Context, viewerID uint, limit, offset int) ([]*models.Post, error) {
	observability.FeedRequests.WithLabelValues("following").Inc()
	posts, err := s.feeds.Following(ctx, viewerID, clampLimit(limit, s.tuning.FeedMaxLimit), clampOffset(offset))
	if err != nil {
		return nil, err
	}
	return posts, s.hydrate(ctx, viewerID, posts)
}

// Explore returns posts from accounts the viewer neither follows nor is.
func (s *FeedService) Explore(ctx context.Context, viewerID uint, limit, offset int) ([]*models.Post, error) {
	observability.FeedRequests.WithLabelValues("explore").Inc()
	posts, err := s.feeds.Explore(ctx, viewerID, clampLimit(limit, s.tuning.FeedMaxLimit), clampOffset(offset))
	if err != nil {
		return nil, err
	}
	return posts, s.hydrate(ctx, viewerID, posts)
}

// Trending ranks the trailing window by engagement score and returns one page.
// Pagination applies after ranking, so page boundaries are stable within a
// scoring pass.
func (s *FeedService) Trending(ctx context.Context, viewerID uint, limit, offset int) ([]*models.Post, error) {
	ctx, span := observability.Tracer().Start(ctx, "feed.trending")
	defer span.End()
	observability.FeedRequests.WithLabelValues("trending").Inc()

	now := time.Now()
	candidates, err := s.feeds.TrendingCandidates(ctx, now.Add(-s.tuning.TrendingWindow()))
	if err != nil {
		return nil, err
	}
	span.SetAttributes(attribute.Int("candidates", len(candidates)))

	for _, p := range candidates {
		p.TrendingScore = s.Score(p, now)
	}
	sort.SliceStable(candidates, func(i, j int) bool {
		if candidates[i].TrendingScore != candidates[j].TrendingScore {
			return candidates[i].TrendingScore > candidates[j].TrendingScore
		}
		return candidates[i].CreatedAt.After(candidates[j].CreatedAt)
	})

	limit = clampLimit(limit, s.tuning.FeedMaxLimit)
	offset = clampOffset(offset)
	if offset >= len(candidates) {
		return nil, nil
	}
	end := offset + limit
	if end > len(candidates) {
		end = len(candidates)
	}
	page := candidates[offset:end]
	return page, s.hydrate(ctx, viewerID, page)
}

// Score computes a post's trending score at the given instant. Engagement is
// weighted, then damped by age in hours with a one-hour floor so fresh posts
// are not divided toward infinity.
func (s *FeedService) Score(p *models.Post, now time.Time) float64 {
	engagement := float64(p.Likes)*s.tuning.TrendingLikeWeight +
		float64(p.CommentCount)*s.tuning.TrendingCommentWeight +
		float64(p.RepostCount)*s.tuning.TrendingRepostWeight +
		float64(p.ViewCount)*s.tuning.TrendingViewWeight

	ageHours := now.Sub(p.CreatedAt).Hours()
	if ageHours < 1 {
		ageHours = 1
	}
	return engagement / ageHours
}

// ByHashtag returns the posts carrying the given tag, newest first. The tag is
// normalized the same way extraction normalizes it.
func (s *FeedService) ByHashtag(ctx context.Context, viewerID uint, tag string, limit, offset int) ([]*models.Post, error) {
	observability.FeedRequests.WithLabelValues("hashtag").Inc()
	tag = strings.ToLower(strings.TrimPrefix(strings.TrimSpace(tag), "#"))
	if tag == "" {
		return nil, models.NewInvalidArgumentError("hashtag cannot be empty")
	}
	posts, err := s.feeds.ByHashtag(ctx, tag, clampLimit(limit, s.tuning.FeedMaxLimit), clampOffset(offset))
	if err != nil {
		return nil, err
	}
	return posts, s.hydrate(ctx, viewerID, posts)
}

// ByCommunity returns a community's posts, newest first.
func (s *FeedService) ByCommunity(ctx context.Context, viewerID, communityID uint, limit, offset int) ([]*models.Post, error) {
	observability.FeedRequests.WithLabelValues("community").Inc()
	posts, err := s.feeds.ByCommunity(ctx, communityID, clampLimit(limit, s.tuning.FeedMaxLimit), clampOffset(offset))
	if err != nil {
		return nil, err
	}
	return posts, s.hydrate(ctx, viewerID, posts)
}

// TrendingHashtags returns the most used tags inside the trending window.
func (s *FeedService) TrendingHashtags(ctx context.Context, limit int) ([]*models.Hashtag, error) {
	observability.FeedRequests.WithLabelValues("trending_hashtags").Inc()
	return s.hashtags.Top(ctx, time.Now().Add(-s.tuning.TrendingWindow()), clampLimit(limit, s.tuning.FeedMaxLimit))
}

func (s *FeedService) hydrate(ctx context.Context, viewerID uint, posts []*models.Post) error {
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
	votes, err := s.reactions.VotesFor(ctx, viewerID, models.TargetPost, ids)
	if err != nil {
		return err
	}
	for _, p := range posts {
		p.Saved = savedSet[p.ID]
		p.YourVote = votes[p.ID]
	}
	return nil
}
