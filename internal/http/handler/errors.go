package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	apperrors "github.com/sifan077/shortlink/internal/errors"
	"go.uber.org/zap"
)

const retryAfterSeconds = "1"

// writeError maps service errors onto HTTP responses. Only validation
// messages reach the client; everything else is logged.
func writeError(c *fiber.Ctx, logger *zap.Logger, err error) error {
	if v := apperrors.GetValidationError(err); v != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": v.Message,
			"field": v.Field,
		})
	}

	switch {
	case errors.Is(err, apperrors.ErrUnauthenticated):
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "authentication required",
		})
	case errors.Is(err, apperrors.ErrLinkNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "short link not found",
		})
	case errors.Is(err, apperrors.ErrStorageTimeout):
		logger.Warn("storage timeout", zap.Error(err), zap.String("path", c.Path()))
		c.Set(fiber.HeaderRetryAfter, retryAfterSeconds)
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
			"error": "service temporarily unavailable",
		})
	case errors.Is(err, apperrors.ErrExhaustedRetries):
		logger.Error("short code space exhausted", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "could not allocate a short code",
		})
	default:
		logger.Error("request failed", zap.Error(err), zap.String("path", c.Path()))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "internal server error",
		})
	}
}
