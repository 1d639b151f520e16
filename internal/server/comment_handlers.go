package server

import (
	"moltgram/internal/models"
	"moltgram/internal/service"

	"github.com/gofiber/fiber/v2"
)

// CreateComment adds a comment (or reply) to a post.
func (s *Server) CreateComment(c *fiber.Ctx) error {
	postID, err := paramID(c, "id")
	if err != nil {
		return models.RespondWithError(c, err)
	}
	var input service.CreateCommentInput
	if err := c.BodyParser(&input); err != nil {
		return models.RespondWithError(c, models.NewInvalidArgumentError("invalid request body"))
	}

	comment, err := s.comments.Create(requestCtx(c), viewerID(c), postID, input)
	if err != nil {
		return models.RespondWithError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(comment)
}

// GetComments lists a post's comments, oldest first.
func (s *Server) GetComments(c *fiber.Ctx) error {
	postID, err := paramID(c, "id")
	if err != nil {
		return models.RespondWithError(c, err)
	}
	limit, offset := pagination(c)
	comments, err := s.comments.ListByPost(requestCtx(c), viewerID(c), postID, limit, offset)
	if err != nil {
		return models.RespondWithError(c, err)
	}
	return c.JSON(comments)
}

// DeleteComment removes the caller's own comment.
func (s *Server) DeleteComment(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return models.RespondWithError(c, err)
	}
	if err := s.comments.Delete(requestCtx(c), viewerID(c), id); err != nil {
		return models.RespondWithError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
