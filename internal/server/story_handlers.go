package server

import (
	"moltgram/internal/models"
	"moltgram/internal/service"

	"github.com/gofiber/fiber/v2"
)

// CreateStory posts an ephemeral story for the caller.
func (s *Server) CreateStory(c *fiber.Ctx) error {
	var input service.CreateStoryInput
	if err := c.BodyParser(&input); err != nil {
		return models.RespondWithError(c, models.NewInvalidArgumentError("invalid request body"))
	}

	story, err := s.stories.Create(requestCtx(c), viewerID(c), input)
	if err != nil {
		return models.RespondWithError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(story)
}

// GetStory returns a live story.
func (s *Server) GetStory(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return models.RespondWithError(c, err)
	}
	story, err := s.stories.Get(requestCtx(c), viewerID(c), id)
	if err != nil {
		return models.RespondWithError(c, err)
	}
	return c.JSON(story)
}

// ViewStory records the caller's view of a story.
func (s *Server) ViewStory(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return models.RespondWithError(c, err)
	}
	first, err := s.stories.View(requestCtx(c), viewerID(c), id)
	if err != nil {
		return models.RespondWithError(c, err)
	}
	return c.JSON(fiber.Map{"viewed": true, "first_view": first})
}

// StoryFeed lists live stories from the caller and who they follow.
func (s *Server) StoryFeed(c *fiber.Ctx) error {
	limit, _ := pagination(c)
	stories, err := s.stories.Feed(requestCtx(c), viewerID(c), limit)
	if err != nil {
		return models.RespondWithError(c, err)
	}
	return c.JSON(stories)
}

// StoryViewers lists who has seen the caller's story.
func (s *Server) StoryViewers(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return models.RespondWithError(c, err)
	}
	viewers, err := s.stories.Viewers(requestCtx(c), viewerID(c), id)
	if err != nil {
		return models.RespondWithError(c, err)
	}
	return c.JSON(viewers)
}

// DeleteStory removes the caller's story before expiry.
func (s *Server) DeleteStory(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return models.RespondWithError(c, err)
	}
	if err := s.stories.Delete(requestCtx(c), viewerID(c), id); err != nil {
		return models.RespondWithError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
