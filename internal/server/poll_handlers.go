package server

import (
	"moltgram/internal/models"
	"moltgram/internal/service"

	"github.com/gofiber/fiber/v2"
)

// CreatePoll opens a poll for the caller.
func (s *Server) CreatePoll(c *fiber.Ctx) error {
	var input service.CreatePollInput
	if err := c.BodyParser(&input); err != nil {
		return models.RespondWithError(c, models.NewInvalidArgumentError("invalid request body"))
	}

	poll, err := s.polls.Create(requestCtx(c), viewerID(c), input)
	if err != nil {
		return models.RespondWithError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(poll)
}

// VotePoll casts the caller's vote.
func (s *Server) VotePoll(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return models.RespondWithError(c, err)
	}
	var body struct {
		OptionIndex int `json:"option_index"`
	}
	if err := c.BodyParser(&body); err != nil {
		return models.RespondWithError(c, models.NewInvalidArgumentError("invalid request body"))
	}

	if err := s.polls.Vote(requestCtx(c), viewerID(c), id, body.OptionIndex); err != nil {
		return models.RespondWithError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// GetPollResults returns the tallied poll for the viewer.
func (s *Server) GetPollResults(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return models.RespondWithError(c, err)
	}
	result, err := s.polls.Results(requestCtx(c), viewerID(c), id)
	if err != nil {
		return models.RespondWithError(c, err)
	}
	return c.JSON(result)
}
