package handler

import (
	"context"
	"sort"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const defaultCheckTimeout = 2 * time.Second

// Check probes one dependency.
type Check func(ctx context.Context) error

// HealthDeps groups dependencies required by the health handlers.
type HealthDeps struct {
	Logger  *zap.Logger
	Checks  map[string]Check
	Timeout time.Duration
}

// HealthHandler serves liveness and readiness probes.
type HealthHandler struct {
	logger  *zap.Logger
	checks  map[string]Check
	timeout time.Duration
	now     func() time.Time
}

func NewHealthHandler(deps HealthDeps) *HealthHandler {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	timeout := deps.Timeout
	if timeout <= 0 {
		timeout = defaultCheckTimeout
	}
	return &HealthHandler{
		logger:  logger,
		checks:  deps.Checks,
		timeout: timeout,
		now:     time.Now,
	}
}

func (h *HealthHandler) Register(router fiber.Router) {
	router.Get("/health", h.Health)
	router.Get("/ready", h.Ready)
}

// Health is a liveness probe; it touches no dependency.
func (h *HealthHandler) Health(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"service": "shortlink",
		"status":  "ok",
		"time":    h.now().UTC().Format(time.RFC3339),
	})
}

// Ready runs every check concurrently and reports 503 if any fails.
func (h *HealthHandler) Ready(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.UserContext(), h.timeout)
	defer cancel()

	names := make([]string, 0, len(h.checks))
	for name := range h.checks {
		names = append(names, name)
	}
	sort.Strings(names)

	// Checks report through results instead of the group error so one
	// failure neither cancels nor hides the others.
	results := make([]string, len(names))
	var g errgroup.Group
	for i, name := range names {
		g.Go(func() error {
			if err := h.checks[name](ctx); err != nil {
				h.logger.Warn("readiness check failed", zap.String("check", name), zap.Error(err))
				results[i] = "down"
				return nil
			}
			results[i] = "up"
			return nil
		})
	}
	_ = g.Wait()

	status := fiber.StatusOK
	checks := make(fiber.Map, len(names))
	for i, name := range names {
		checks[name] = results[i]
		if results[i] != "up" {
			status = fiber.StatusServiceUnavailable
		}
	}

	state := "ready"
	if status != fiber.StatusOK {
		state = "unavailable"
	}
	return c.Status(status).JSON(fiber.Map{
		"status": state,
		"checks": checks,
	})
}
