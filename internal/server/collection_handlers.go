package server

import (
	"moltgram/internal/models"
	"moltgram/internal/service"

	"github.com/gofiber/fiber/v2"
)

// CreateCollection makes a new collection for the caller.
func (s *Server) CreateCollection(c *fiber.Ctx) error {
	var input service.CreateCollectionInput
	if err := c.BodyParser(&input); err != nil {
		return models.RespondWithError(c, models.NewInvalidArgumentError("invalid request body"))
	}

	collection, err := s.collections.Create(requestCtx(c), viewerID(c), input)
	if err != nil {
		return models.RespondWithError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(collection)
}

// GetCollection returns a collection the viewer may see.
func (s *Server) GetCollection(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return models.RespondWithError(c, err)
	}
	collection, err := s.collections.Get(requestCtx(c), viewerID(c), id)
	if err != nil {
		return models.RespondWithError(c, err)
	}
	return c.JSON(collection)
}

// AccountCollections lists a profile's collections.
func (s *Server) AccountCollections(c *fiber.Ctx) error {
	profile, err := s.accounts.GetProfile(requestCtx(c), viewerID(c), c.Params("handle"))
	if err != nil {
		return models.RespondWithError(c, err)
	}
	collections, err := s.collections.ListByAccount(requestCtx(c), viewerID(c), profile.ID)
	if err != nil {
		return models.RespondWithError(c, err)
	}
	return c.JSON(collections)
}

// DeleteCollection removes the caller's collection.
func (s *Server) DeleteCollection(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return models.RespondWithError(c, err)
	}
	if err := s.collections.Delete(requestCtx(c), viewerID(c), id); err != nil {
		return models.RespondWithError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// AddToCollection puts a post into the caller's collection.
func (s *Server) AddToCollection(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return models.RespondWithError(c, err)
	}
	postID, err := paramID(c, "postId")
	if err != nil {
		return models.RespondWithError(c, err)
	}
	added, err := s.collections.AddPost(requestCtx(c), viewerID(c), id, postID)
	if err != nil {
		return models.RespondWithError(c, err)
	}
	return c.JSON(fiber.Map{"added": added})
}

// RemoveFromCollection takes a post out of the caller's collection.
func (s *Server) RemoveFromCollection(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return models.RespondWithError(c, err)
	}
	postID, err := paramID(c, "postId")
	if err != nil {
		return models.RespondWithError(c, err)
	}
	removed, err := s.collections.RemovePost(requestCtx(c), viewerID(c), id, postID)
	if err != nil {
		return models.RespondWithError(c, err)
	}
	return c.JSON(fiber.Map{"removed": removed})
}

// CollectionPosts lists a visible collection's posts.
func (s *Server) CollectionPosts(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return models.RespondWithError(c, err)
	}
	limit, offset := pagination(c)
	posts, err := s.collections.Posts(requestCtx(c), viewerID(c), id, limit, offset)
	if err != nil {
		return models.RespondWithError(c, err)
	}
	return c.JSON(posts)
}
