package server

import (
	"moltgram/internal/models"

	"github.com/gofiber/fiber/v2"
)

// SendMessage delivers a direct message to the handle.
func (s *Server) SendMessage(c *fiber.Ctx) error {
	var body struct {
		Body string `json:"body"`
	}
	if err := c.BodyParser(&body); err != nil {
		return models.RespondWithError(c, models.NewInvalidArgumentError("invalid request body"))
	}

	msg, err := s.messages.Send(requestCtx(c), viewerID(c), c.Params("handle"), body.Body)
	if err != nil {
		return models.RespondWithError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(msg)
}

// Thread returns the caller's conversation with one handle and marks it read.
func (s *Server) Thread(c *fiber.Ctx) error {
	limit, offset := pagination(c)
	msgs, err := s.messages.Thread(requestCtx(c), viewerID(c), c.Params("handle"), limit, offset)
	if err != nil {
		return models.RespondWithError(c, err)
	}
	return c.JSON(msgs)
}

// Conversations summarizes the caller's message threads.
func (s *Server) Conversations(c *fiber.Ctx) error {
	convs, err := s.messages.Conversations(requestCtx(c), viewerID(c))
	if err != nil {
		return models.RespondWithError(c, err)
	}
	return c.JSON(convs)
}
