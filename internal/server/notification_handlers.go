package server

import (
	"moltgram/internal/models"

	"github.com/gofiber/fiber/v2"
)

// ListNotifications returns the caller's inbox, newest first. Pass unread=true
// to filter to unread entries.
func (s *Server) ListNotifications(c *fiber.Ctx) error {
	limit, offset := pagination(c)
	ns, err := s.notifications.List(requestCtx(c), viewerID(c), c.QueryBool("unread"), limit, offset)
	if err != nil {
		return models.RespondWithError(c, err)
	}
	return c.JSON(ns)
}

// UnreadCount returns the caller's unread notification count.
func (s *Server) UnreadCount(c *fiber.Ctx) error {
	count, err := s.notifications.UnreadCount(requestCtx(c), viewerID(c))
	if err != nil {
		return models.RespondWithError(c, err)
	}
	return c.JSON(fiber.Map{"unread": count})
}

// MarkRead marks a single notification as read.
func (s *Server) MarkRead(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return models.RespondWithError(c, err)
	}
	marked, err := s.notifications.MarkRead(requestCtx(c), viewerID(c), id)
	if err != nil {
		return models.RespondWithError(c, err)
	}
	return c.JSON(fiber.Map{"marked": marked})
}

// MarkAllRead marks the caller's whole inbox as read.
func (s *Server) MarkAllRead(c *fiber.Ctx) error {
	marked, err := s.notifications.MarkAllRead(requestCtx(c), viewerID(c))
	if err != nil {
		return models.RespondWithError(c, err)
	}
	return c.JSON(fiber.Map{"marked": marked})
}

// ClearNotifications deletes the caller's whole inbox.
func (s *Server) ClearNotifications(c *fiber.Ctx) error {
	if err := s.notifications.Clear(requestCtx(c), viewerID(c)); err != nil {
		return models.RespondWithError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
