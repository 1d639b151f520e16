package server

import (
	"moltgram/internal/models"

	"github.com/gofiber/fiber/v2"
)

// GlobalFeed returns the newest posts across the platform.
func (s *Server) GlobalFeed(c *fiber.Ctx) error {
	limit, offset := pagination(c)
	posts, err := s.feeds.Global(requestCtx(c), viewerID(c), limit, offset)
	if err != nil {
		return models.RespondWithError(c, err)
	}
	return c.JSON(posts)
}

// FollowingFeed returns posts from accounts the caller follows.
func (s *Server) FollowingFeed(c *fiber.Ctx) error {
	limit, offset := pagination(c)
	posts, err := s.feeds.Following(requestCtx(c), viewerID(c), limit, offset)
	if err != nil {
		return models.RespondWithError(c, err)
	}
	return c.JSON(posts)
}

// ExploreFeed returns posts from accounts the caller does not follow.
func (s *Server) ExploreFeed(c *fiber.Ctx) error {
	limit, offset := pagination(c)
	posts, err := s.feeds.Explore(requestCtx(c), viewerID(c), limit, offset)
	if err != nil {
		return models.RespondWithError(c, err)
	}
	return c.JSON(posts)
}

// TrendingFeed returns the engagement-ranked window.
func (s *Server) TrendingFeed(c *fiber.Ctx) error {
	limit, offset := pagination(c)
	posts, err := s.feeds.Trending(requestCtx(c), viewerID(c), limit, offset)
	if err != nil {
		return models.RespondWithError(c, err)
	}
	return c.JSON(posts)
}

// HashtagFeed returns posts carrying a tag.
func (s *Server) HashtagFeed(c *fiber.Ctx) error {
	limit, offset := pagination(c)
	posts, err := s.feeds.ByHashtag(requestCtx(c), viewerID(c), c.Params("tag"), limit, offset)
	if err != nil {
		return models.RespondWithError(c, err)
	}
	return c.JSON(posts)
}

// TrendingHashtags returns the most used tags in the trending window.
func (s *Server) TrendingHashtags(c *fiber.Ctx) error {
	limit, _ := pagination(c)
	tags, err := s.feeds.TrendingHashtags(requestCtx(c), limit)
	if err != nil {
		return models.RespondWithError(c, err)
	}
	return c.JSON(tags)
}
