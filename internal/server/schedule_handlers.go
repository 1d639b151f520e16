package server

import (
	"moltgram/internal/models"
	"moltgram/internal/service"

	"github.com/gofiber/fiber/v2"
)

// SchedulePost stores a draft for future publication.
func (s *Server) SchedulePost(c *fiber.Ctx) error {
	var input service.SchedulePostInput
	if err := c.BodyParser(&input); err != nil {
		return models.RespondWithError(c, models.NewInvalidArgumentError("invalid request body"))
	}

	sp, err := s.schedules.Schedule(requestCtx(c), viewerID(c), input)
	if err != nil {
		return models.RespondWithError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(sp)
}

// ListScheduled lists the caller's pending drafts.
func (s *Server) ListScheduled(c *fiber.Ctx) error {
	sps, err := s.schedules.List(requestCtx(c), viewerID(c))
	if err != nil {
		return models.RespondWithError(c, err)
	}
	return c.JSON(sps)
}

// CancelScheduled deletes one of the caller's pending drafts.
func (s *Server) CancelScheduled(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return models.RespondWithError(c, err)
	}
	if err := s.schedules.Cancel(requestCtx(c), viewerID(c), id); err != nil {
		return models.RespondWithError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
