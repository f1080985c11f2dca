package handler

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/sifan077/shortlink/internal/app/service"
	"github.com/sifan077/shortlink/internal/http/middleware"
	"github.com/sifan077/shortlink/internal/http/view"
	"go.uber.org/zap"
)

// PageDeps groups dependencies required by the HTML pages.
type PageDeps struct {
	Logger      *zap.Logger
	LinkService service.LinkService
	BaseURL     string
	SignInURL   string
	// Location formats creation times; UTC when nil.
	Location *time.Location
}

// PageHandler renders the landing page and the owner dashboard.
type PageHandler struct {
	logger      *zap.Logger
	linkService service.LinkService
	baseURL     string
	signInURL   string
	location    *time.Location
}

func NewPageHandler(deps PageDeps) *PageHandler {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PageHandler{
		logger:      logger,
		linkService: deps.LinkService,
		baseURL:     deps.BaseURL,
		signInURL:   deps.SignInURL,
		location:    deps.Location,
	}
}

func (h *PageHandler) Register(router fiber.Router, requireOwner fiber.Handler) {
	router.Get("/", h.Landing)
	router.Get("/dashboard", requireOwner, h.Dashboard)
}

// Landing handles GET /
func (h *PageHandler) Landing(c *fiber.Ctx) error {
	html, err := view.RenderLandingPage(view.LandingPageData{
		DashboardURL: "/dashboard",
		SignInURL:    h.signInURL,
	})
	if err != nil {
		h.logger.Error("failed to render landing page", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).SendString("internal server error")
	}
	return c.Type("html", "utf-8").SendString(html)
}

// Dashboard handles GET /dashboard
func (h *PageHandler) Dashboard(c *fiber.Ctx) error {
	owner := middleware.OwnerID(c)
	if owner == "" {
		return c.Redirect(h.signInURL, fiber.StatusFound)
	}

	links, err := h.linkService.ListForOwner(c.UserContext(), owner)
	if err != nil {
		return writeError(c, h.logger, err)
	}

	html, err := view.RenderDashboardPage(view.NewDashboardPageData(h.baseURL, links, h.location))
	if err != nil {
		h.logger.Error("failed to render dashboard", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).SendString("internal server error")
	}

	c.Set(fiber.HeaderCacheControl, "no-store")
	return c.Type("html", "utf-8").SendString(html)
}
