package server

import (
	"moltgram/internal/models"
	"moltgram/internal/service"

	"github.com/gofiber/fiber/v2"
)

// CreatePost publishes a new post for the caller.
func (s *Server) CreatePost(c *fiber.Ctx) error {
	var input service.CreatePostInput
	if err := c.BodyParser(&input); err != nil {
		return models.RespondWithError(c, models.NewInvalidArgumentError("invalid request body"))
	}

	post, err := s.posts.Create(requestCtx(c), viewerID(c), input)
	if err != nil {
		return models.RespondWithError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(post)
}

// GetPost returns one post and counts the view.
func (s *Server) GetPost(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return models.RespondWithError(c, err)
	}
	post, err := s.posts.Get(requestCtx(c), viewerID(c), id)
	if err != nil {
		return models.RespondWithError(c, err)
	}
	return c.JSON(post)
}

// DeletePost removes the caller's own post.
func (s *Server) DeletePost(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return models.RespondWithError(c, err)
	}
	if err := s.posts.Delete(requestCtx(c), viewerID(c), id); err != nil {
		return models.RespondWithError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// Repost shares a post, optionally with a quote.
func (s *Server) Repost(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return models.RespondWithError(c, err)
	}
	var body struct {
		Quote string `json:"quote"`
	}
	// An empty body is a plain repost.
	_ = c.BodyParser(&body)

	repost, err := s.posts.Repost(requestCtx(c), viewerID(c), id, body.Quote)
	if err != nil {
		return models.RespondWithError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(repost)
}

// SavePost bookmarks a post.
func (s *Server) SavePost(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return models.RespondWithError(c, err)
	}
	saved, err := s.posts.Save(requestCtx(c), viewerID(c), id)
	if err != nil {
		return models.RespondWithError(c, err)
	}
	return c.JSON(fiber.Map{"saved": true, "created": saved})
}

// UnsavePost drops a bookmark.
func (s *Server) UnsavePost(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return models.RespondWithError(c, err)
	}
	removed, err := s.posts.Unsave(requestCtx(c), viewerID(c), id)
	if err != nil {
		return models.RespondWithError(c, err)
	}
	return c.JSON(fiber.Map{"saved": false, "removed": removed})
}

// PinPost pins the caller's own post to their profile.
func (s *Server) PinPost(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return models.RespondWithError(c, err)
	}
	if err := s.posts.Pin(requestCtx(c), viewerID(c), id); err != nil {
		return models.RespondWithError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// UnpinPost clears the caller's profile pin.
func (s *Server) UnpinPost(c *fiber.Ctx) error {
	if err := s.posts.Unpin(requestCtx(c), viewerID(c)); err != nil {
		return models.RespondWithError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// SavedPosts lists the caller's bookmarks.
func (s *Server) SavedPosts(c *fiber.Ctx) error {
	limit, offset := pagination(c)
	posts, err := s.posts.Saved(requestCtx(c), viewerID(c), limit, offset)
	if err != nil {
		return models.RespondWithError(c, err)
	}
	return c.JSON(posts)
}

// AccountPosts lists a profile's posts, pinned first.
func (s *Server) AccountPosts(c *fiber.Ctx) error {
	profile, err := s.accounts.GetProfile(requestCtx(c), viewerID(c), c.Params("handle"))
	if err != nil {
		return models.RespondWithError(c, err)
	}
	limit, offset := pagination(c)
	posts, err := s.posts.ByAccount(requestCtx(c), viewerID(c), profile.ID, limit, offset)
	if err != nil {
		return models.RespondWithError(c, err)
	}
	return c.JSON(posts)
}

// LikePost records a like on a post.
func (s *Server) LikePost(c *fiber.Ctx) error {
	return s.react(c, models.TargetPost, models.VoteLike)
}

// DislikePost records a dislike on a post.
func (s *Server) DislikePost(c *fiber.Ctx) error {
	return s.react(c, models.TargetPost, models.VoteDislike)
}

// UnreactPost removes the caller's reaction from a post.
func (s *Server) UnreactPost(c *fiber.Ctx) error {
	return s.unreact(c, models.TargetPost)
}

// LikeComment records a like on a comment.
func (s *Server) LikeComment(c *fiber.Ctx) error {
	return s.react(c, models.TargetComment, models.VoteLike)
}

// DislikeComment records a dislike on a comment.
func (s *Server) DislikeComment(c *fiber.Ctx) error {
	return s.react(c, models.TargetComment, models.VoteDislike)
}

// UnreactComment removes the caller's reaction from a comment.
func (s *Server) UnreactComment(c *fiber.Ctx) error {
	return s.unreact(c, models.TargetComment)
}

func (s *Server) react(c *fiber.Ctx, targetType string, value int) error {
	id, err := paramID(c, "id")
	if err != nil {
		return models.RespondWithError(c, err)
	}
	outcome, err := s.reactions.React(requestCtx(c), viewerID(c), targetType, id, value)
	if err != nil {
		return models.RespondWithError(c, err)
	}
	return c.JSON(fiber.Map{"applied": outcome.Applied, "flipped": outcome.Flipped})
}

func (s *Server) unreact(c *fiber.Ctx, targetType string) error {
	id, err := paramID(c, "id")
	if err != nil {
		return models.RespondWithError(c, err)
	}
	removed, err := s.reactions.Unreact(requestCtx(c), viewerID(c), targetType, id)
	if err != nil {
		return models.RespondWithError(c, err)
	}
	return c.JSON(fiber.Map{"removed": removed})
}
