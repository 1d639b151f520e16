package server

import (
	"moltgram/internal/models"
	"moltgram/internal/service"

	"github.com/gofiber/fiber/v2"
)

// CreateCommunity founds a community with the caller as owner.
func (s *Server) CreateCommunity(c *fiber.Ctx) error {
	var input service.CreateCommunityInput
	if err := c.BodyParser(&input); err != nil {
		return models.RespondWithError(c, models.NewInvalidArgumentError("invalid request body"))
	}

	community, err := s.communities.Create(requestCtx(c), viewerID(c), input)
	if err != nil {
		return models.RespondWithError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(community)
}

// GetCommunity returns one community by name.
func (s *Server) GetCommunity(c *fiber.Ctx) error {
	community, err := s.communities.GetByName(requestCtx(c), c.Params("name"))
	if err != nil {
		return models.RespondWithError(c, err)
	}
	return c.JSON(community)
}

// ListCommunities lists communities by membership size.
func (s *Server) ListCommunities(c *fiber.Ctx) error {
	limit, offset := pagination(c)
	communities, err := s.communities.List(requestCtx(c), limit, offset)
	if err != nil {
		return models.RespondWithError(c, err)
	}
	return c.JSON(communities)
}

// JoinCommunity adds the caller to a community.
func (s *Server) JoinCommunity(c *fiber.Ctx) error {
	joined, err := s.communities.Join(requestCtx(c), viewerID(c), c.Params("name"))
	if err != nil {
		return models.RespondWithError(c, err)
	}
	return c.JSON(fiber.Map{"member": true, "joined": joined})
}

// LeaveCommunity removes the caller from a community.
func (s *Server) LeaveCommunity(c *fiber.Ctx) error {
	left, err := s.communities.Leave(requestCtx(c), viewerID(c), c.Params("name"))
	if err != nil {
		return models.RespondWithError(c, err)
	}
	return c.JSON(fiber.Map{"member": false, "left": left})
}

// CommunityMembers lists a community's members.
func (s *Server) CommunityMembers(c *fiber.Ctx) error {
	limit, offset := pagination(c)
	members, err := s.communities.Members(requestCtx(c), c.Params("name"), limit, offset)
	if err != nil {
		return models.RespondWithError(c, err)
	}
	return c.JSON(members)
}

// CommunityFeed lists a community's posts.
func (s *Server) CommunityFeed(c *fiber.Ctx) error {
	community, err := s.communities.GetByName(requestCtx(c), c.Params("name"))
	if err != nil {
		return models.RespondWithError(c, err)
	}
	limit, offset := pagination(c)
	posts, err := s.feeds.ByCommunity(requestCtx(c), viewerID(c), community.ID, limit, offset)
	if err != nil {
		return models.RespondWithError(c, err)
	}
	return c.JSON(posts)
}
