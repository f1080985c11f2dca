package handler

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/sifan077/shortlink/internal/app/model"
	"github.com/sifan077/shortlink/internal/app/service"
	apperrors "github.com/sifan077/shortlink/internal/errors"
	"github.com/sifan077/shortlink/internal/http/middleware"
	"github.com/sifan077/shortlink/internal/http/view"
	"go.uber.org/zap"
)

// APIDeps groups dependencies required by API handlers.
type APIDeps struct {
	Logger      *zap.Logger
	LinkService service.LinkService
	BaseURL     string
}

// APIHandler implements the owner-scoped link API.
type APIHandler struct {
	logger      *zap.Logger
	linkService service.LinkService
	baseURL     string
}

// NewAPIHandler creates an API handler with the provided dependencies.
func NewAPIHandler(deps APIDeps) *APIHandler {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &APIHandler{
		logger:      logger,
		linkService: deps.LinkService,
		baseURL:     deps.BaseURL,
	}
}

// Register wires API routes behind requireOwner.
func (h *APIHandler) Register(router fiber.Router, requireOwner fiber.Handler) {
	api := router.Group("/api", requireOwner)
	{
		links := api.Group("/links")
		{
			links.Post("/", h.CreateLink)
			links.Get("/", h.ListLinks)
		}
	}
}

// CreateLinkRequest represents the request body for creating a link.
type CreateLinkRequest struct {
	URL string `json:"url"`
}

// LinkResponse is the public shape of a stored link.
type LinkResponse struct {
	ID        uint64    `json:"id"`
	ShortCode string    `json:"short_code"`
	ShortURL  string    `json:"short_url"`
	URL       string    `json:"url"`
	CreatedAt time.Time `json:"created_at"`
}

func (h *APIHandler) toResponse(link model.Link) LinkResponse {
	return LinkResponse{
		ID:        link.ID,
		ShortCode: link.ShortCode,
		ShortURL:  view.ShortURL(h.baseURL, link.ShortCode),
		URL:       link.TargetURL,
		CreatedAt: link.CreatedAt,
	}
}

// CreateLink handles POST /api/links
func (h *APIHandler) CreateLink(c *fiber.Ctx) error {
	var req CreateLinkRequest
	if err := c.BodyParser(&req); err != nil {
		return writeError(c, h.logger, apperrors.NewValidationError("", "invalid request body"))
	}

	owner := middleware.OwnerID(c)
	if owner == "" {
		return writeError(c, h.logger, apperrors.ErrUnauthenticated)
	}

	link, err := h.linkService.CreateLink(c.UserContext(), owner, req.URL)
	if err != nil {
		return writeError(c, h.logger, err)
	}

	h.logger.Info("link created",
		zap.String("code", link.ShortCode),
		zap.String("owner_id", owner),
	)
	return c.Status(fiber.StatusCreated).JSON(h.toResponse(*link))
}

// ListLinks handles GET /api/links
func (h *APIHandler) ListLinks(c *fiber.Ctx) error {
	owner := middleware.OwnerID(c)
	if owner == "" {
		return writeError(c, h.logger, apperrors.ErrUnauthenticated)
	}

	links, err := h.linkService.ListForOwner(c.UserContext(), owner)
	if err != nil {
		return writeError(c, h.logger, err)
	}

	response := make([]LinkResponse, len(links))
	for i, link := range links {
		response[i] = h.toResponse(link)
	}

	return c.JSON(fiber.Map{
		"links": response,
		"count": len(response),
	})
}
