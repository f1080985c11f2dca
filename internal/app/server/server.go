package server

import (
	"context"
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/sifan077/shortlink/internal/app/service"
	"github.com/sifan077/shortlink/internal/http/auth"
	inthttp "github.com/sifan077/shortlink/internal/http/handler"
	"github.com/sifan077/shortlink/internal/http/middleware"
	"go.uber.org/zap"
)

// Dependencies bundles what the HTTP server needs to serve requests.
type Dependencies struct {
	Logger      *zap.Logger
	LinkService service.LinkService
	Identity    auth.IdentitySupplier
	// Checks back the readiness probe, keyed by dependency name.
	Checks map[string]inthttp.Check

	BaseURL        string
	CookieName     string
	SignInURL      string
	AllowedOrigins []string
}

// Server wraps the Fiber application and its dependencies.
type Server struct {
	app  *fiber.App
	deps Dependencies
}

// New creates a new HTTP server instance with every route registered.
func New(deps Dependencies) *Server {
	if deps.Logger == nil {
		deps.Logger = zap.NewNop()
	}

	app := fiber.New(fiber.Config{
		AppName:               "shortlink",
		DisableStartupMessage: true,
		ReadTimeout:           10 * time.Second,
		WriteTimeout:          10 * time.Second,
		IdleTimeout:           60 * time.Second,
		BodyLimit:             64 * 1024,
		ErrorHandler:          errorHandler(deps.Logger),
	})

	s := &Server{
		app:  app,
		deps: deps,
	}

	s.registerMiddleware()
	s.registerRoutes()
	return s
}

// App exposes the underlying Fiber app, mainly for tests.
func (s *Server) App() *fiber.App {
	return s.app
}

// Listen starts the Fiber server on the given address.
func (s *Server) Listen(addr string) error {
	return s.app.Listen(addr)
}

// Shutdown gracefully stops the Fiber server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.app.ShutdownWithContext(ctx)
}

func (s *Server) registerMiddleware() {
	s.app.Use(middleware.Recovery(s.deps.Logger))
	s.app.Use(middleware.RequestID())
	s.app.Use(middleware.Logger(s.deps.Logger, "/health", "/ready"))
	s.app.Use("/api", middleware.CORS(s.deps.AllowedOrigins...))
}

// registerRoutes wires fixed paths first; the short code catch-all goes last.
func (s *Server) registerRoutes() {
	requireOwner := middleware.RequireOwner(middleware.AuthConfig{
		Identity:   s.deps.Identity,
		CookieName: s.deps.CookieName,
		SignInURL:  s.deps.SignInURL,
		Logger:     s.deps.Logger,
	})

	inthttp.NewHealthHandler(inthttp.HealthDeps{
		Logger: s.deps.Logger,
		Checks: s.deps.Checks,
	}).Register(s.app)

	inthttp.NewPageHandler(inthttp.PageDeps{
		Logger:      s.deps.Logger,
		LinkService: s.deps.LinkService,
		BaseURL:     s.deps.BaseURL,
		SignInURL:   s.deps.SignInURL,
	}).Register(s.app, requireOwner)

	inthttp.NewAPIHandler(inthttp.APIDeps{
		Logger:      s.deps.Logger,
		LinkService: s.deps.LinkService,
		BaseURL:     s.deps.BaseURL,
	}).Register(s.app, requireOwner)

	inthttp.NewRedirectHandler(inthttp.RedirectDeps{
		Logger:      s.deps.Logger,
		LinkService: s.deps.LinkService,
	}).Register(s.app)
}

func errorHandler(logger *zap.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		code := fiber.StatusInternalServerError
		message := "internal server error"

		var fe *fiber.Error
		if errors.As(err, &fe) {
			code = fe.Code
			message = fe.Message
		} else {
			logger.Error("unhandled error", zap.Error(err), zap.String("path", c.Path()))
		}

		return c.Status(code).JSON(fiber.Map{
			"error": message,
		})
	}
}
