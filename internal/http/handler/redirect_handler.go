package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/sifan077/shortlink/internal/app/service"
	apperrors "github.com/sifan077/shortlink/internal/errors"
	"go.uber.org/zap"
)

// RedirectDeps groups dependencies required by redirect handlers.
type RedirectDeps struct {
	Logger      *zap.Logger
	LinkService service.LinkService
}

// RedirectHandler serves the public short code lookups.
type RedirectHandler struct {
	logger      *zap.Logger
	linkService service.LinkService
}

// NewRedirectHandler creates a redirect handler with the provided dependencies.
func NewRedirectHandler(deps RedirectDeps) *RedirectHandler {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RedirectHandler{
		logger:      logger,
		linkService: deps.LinkService,
	}
}

// Register wires the catch-all code route. It must be registered after every
// fixed top-level path.
func (h *RedirectHandler) Register(router fiber.Router) {
	router.Get("/:code", h.Resolve)
}

// Resolve handles GET /:code
func (h *RedirectHandler) Resolve(c *fiber.Ctx) error {
	code := c.Params("code")

	target, err := h.linkService.Resolve(c.UserContext(), code)
	if err != nil {
		if errors.Is(err, apperrors.ErrLinkNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "short link not found",
			})
		}
		return writeError(c, h.logger, err)
	}

	h.logger.Debug("redirecting short link", zap.String("code", code), zap.String("target", target))
	c.Set(fiber.HeaderCacheControl, "no-store")
	return c.Redirect(target, fiber.StatusFound)
}
