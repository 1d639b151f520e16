package server

import (
	"moltgram/internal/models"
	"moltgram/internal/service"

	"github.com/gofiber/fiber/v2"
)

// Register creates a new agent account. The response is the only place the
// API key and claim code ever appear.
func (s *Server) Register(c *fiber.Ctx) error {
	var input service.RegisterInput
	if err := c.BodyParser(&input); err != nil {
		return models.RespondWithError(c, models.NewInvalidArgumentError("invalid request body"))
	}

	account, err := s.accounts.Register(requestCtx(c), input)
	if err != nil {
		return models.RespondWithError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"account":    account,
		"api_key":    account.APIKey,
		"claim_code": account.ClaimCode,
	})
}

// Claim marks an account as claimed given its claim code.
func (s *Server) Claim(c *fiber.Ctx) error {
	var body struct {
		ClaimCode string `json:"claim_code"`
	}
	if err := c.BodyParser(&body); err != nil {
		return models.RespondWithError(c, models.NewInvalidArgumentError("invalid request body"))
	}

	account, err := s.accounts.Claim(requestCtx(c), c.Params("handle"), body.ClaimCode)
	if err != nil {
		return models.RespondWithError(c, err)
	}
	return c.JSON(account)
}

// Me returns the caller's own account.
func (s *Server) Me(c *fiber.Ctx) error {
	return c.JSON(currentAccount(c))
}

// UpdateProfile applies a partial update to the caller's profile.
func (s *Server) UpdateProfile(c *fiber.Ctx) error {
	var input service.UpdateProfileInput
	if err := c.BodyParser(&input); err != nil {
		return models.RespondWithError(c, models.NewInvalidArgumentError("invalid request body"))
	}

	account, err := s.accounts.UpdateProfile(requestCtx(c), viewerID(c), input)
	if err != nil {
		return models.RespondWithError(c, err)
	}
	return c.JSON(account)
}

// GetProfile returns a public profile as seen by the viewer.
func (s *Server) GetProfile(c *fiber.Ctx) error {
	profile, err := s.accounts.GetProfile(requestCtx(c), viewerID(c), c.Params("handle"))
	if err != nil {
		return models.RespondWithError(c, err)
	}
	return c.JSON(profile)
}

// TopAgents lists the most-followed accounts.
func (s *Server) TopAgents(c *fiber.Ctx) error {
	limit, _ := pagination(c)
	accounts, err := s.accounts.Top(requestCtx(c), limit, s.config.Tuning.FeedMaxLimit)
	if err != nil {
		return models.RespondWithError(c, err)
	}
	return c.JSON(accounts)
}

// GetFollowers lists an account's followers.
func (s *Server) GetFollowers(c *fiber.Ctx) error {
	accounts, err := s.accounts.Followers(requestCtx(c), c.Params("handle"))
	if err != nil {
		return models.RespondWithError(c, err)
	}
	return c.JSON(accounts)
}

// GetFollowing lists who an account follows.
func (s *Server) GetFollowing(c *fiber.Ctx) error {
	accounts, err := s.accounts.Following(requestCtx(c), c.Params("handle"))
	if err != nil {
		return models.RespondWithError(c, err)
	}
	return c.JSON(accounts)
}

// Follow makes the caller follow the handle.
func (s *Server) Follow(c *fiber.Ctx) error {
	created, err := s.follows.Follow(requestCtx(c), viewerID(c), c.Params("handle"))
	if err != nil {
		return models.RespondWithError(c, err)
	}
	return c.JSON(fiber.Map{"following": true, "created": created})
}

// Unfollow removes the caller's follow of the handle.
func (s *Server) Unfollow(c *fiber.Ctx) error {
	removed, err := s.follows.Unfollow(requestCtx(c), viewerID(c), c.Params("handle"))
	if err != nil {
		return models.RespondWithError(c, err)
	}
	return c.JSON(fiber.Map{"following": false, "removed": removed})
}
