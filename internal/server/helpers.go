package server

import (
	"context"
	"strconv"

	"moltgram/internal/models"
	"moltgram/internal/observability"

	"github.com/gofiber/fiber/v2"
)

// currentAccount returns the authenticated account, or nil for anonymous requests.
func currentAccount(c *fiber.Ctx) *models.Account {
	account, _ := c.Locals(accountLocal).(*models.Account)
	return account
}

// viewerID returns the authenticated account's id, or zero for anonymous requests.
func viewerID(c *fiber.Ctx) uint {
	if account := currentAccount(c); account != nil {
		return account.ID
	}
	return 0
}

// requestCtx carries the request correlation id into the service layer.
func requestCtx(c *fiber.Ctx) context.Context {
	return observability.WithCorrelationID(c.Context(), requestID(c))
}

// paramID parses a positive integer path parameter.
func paramID(c *fiber.Ctx, name string) (uint, error) {
	raw := c.Params(name)
	id, err := strconv.ParseUint(raw, 10, 32)
	if err != nil || id == 0 {
		return 0, models.NewInvalidArgumentError("invalid " + name)
	}
	return uint(id), nil
}

// pagination reads limit and offset query parameters; clamping happens in the
// service layer.
func pagination(c *fiber.Ctx) (limit, offset int) {
	return c.QueryInt("limit"), c.QueryInt("offset")
}
