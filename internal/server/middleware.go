package server

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"moltgram/internal/models"
	"moltgram/internal/observability"

	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
)

const accountLocal = "account"

// AuthRequired authenticates the Bearer API key and stores the account in the
// request locals. Requests without a valid key are rejected.
func (s *Server) AuthRequired() fiber.Handler {
	return func(c *fiber.Ctx) error {
		account, err := s.authenticate(c)
		if err != nil {
			return models.RespondWithError(c, err)
		}
		c.Locals(accountLocal, account)
		return c.Next()
	}
}

// OptionalAuth resolves the API key when one is presented but lets anonymous
// requests through. Reads use it to hydrate viewer-specific fields.
func (s *Server) OptionalAuth() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if bearerToken(c) != "" {
			account, err := s.authenticate(c)
			if err != nil {
				return models.RespondWithError(c, err)
			}
			c.Locals(accountLocal, account)
		}
		return c.Next()
	}
}

func (s *Server) authenticate(c *fiber.Ctx) (*models.Account, error) {
	ctx := observability.WithCorrelationID(c.Context(), requestID(c))
	return s.accounts.Authenticate(ctx, bearerToken(c))
}

func bearerToken(c *fiber.Ctx) string {
	header := c.Get("Authorization")
	if header == "" {
		return ""
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}

func requestID(c *fiber.Ctx) string {
	if rid, ok := c.Locals("requestid").(string); ok {
		return rid
	}
	return ""
}

// StructuredLogger returns a Fiber middleware for logging requests using slog.
func StructuredLogger() fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()

		status := c.Response().StatusCode()
		fields := []any{
			slog.Int("status", status),
			slog.String("method", c.Method()),
			slog.String("path", c.Path()),
			slog.String("ip", c.IP()),
			slog.Duration("latency", time.Since(start)),
		}
		if account, ok := c.Locals(accountLocal).(*models.Account); ok {
			fields = append(fields, slog.Uint64("account_id", uint64(account.ID)))
		}
		if rid := requestID(c); rid != "" {
			fields = append(fields, slog.String("request_id", rid))
		}

		if err != nil {
			fields = append(fields, slog.String("error", err.Error()))
			observability.GlobalLogger.Error("request failed", fields...)
		} else if status >= 500 {
			observability.GlobalLogger.Error("request errored", fields...)
		} else {
			observability.GlobalLogger.Info("request processed", fields...)
		}
		return err
	}
}

// RateLimit returns a per-route limiter keyed by client IP using Redis INCR.
// It fails open: without Redis, or on Redis errors, requests pass.
func RateLimit(rdb *redis.Client, limit int, window time.Duration, resource string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		allowed, err := checkRateLimit(c.Context(), rdb, resource, c.IP(), limit, window)
		if err != nil {
			observability.GlobalLogger.Warn("rate limit check failed",
				slog.String("resource", resource),
				slog.String("error", err.Error()),
			)
		}
		if !allowed {
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{
				"error": "Too many requests, please try again later.",
			})
		}
		return c.Next()
	}
}

func checkRateLimit(ctx context.Context, rdb *redis.Client, resource, id string, limit int, window time.Duration) (bool, error) {
	if rdb == nil {
		return true, nil
	}

	key := fmt.Sprintf("rl:%s:%s", resource, id)
	cnt, err := rdb.Incr(ctx, key).Result()
	if err != nil {
		return true, err
	}
	if cnt == 1 {
		rdb.Expire(ctx, key, window)
	}
	return cnt <= int64(limit), nil
}
