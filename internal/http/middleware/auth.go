package middleware

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"
	apperrors "github.com/sifan077/shortlink/internal/errors"
	"github.com/sifan077/shortlink/internal/http/auth"
	"go.uber.org/zap"
)

const OwnerIDKey = "owner_id"

// AuthConfig configures RequireOwner.
type AuthConfig struct {
	Identity   auth.IdentitySupplier
	CookieName string
	// SignInURL is where browser requests without a session are sent.
	SignInURL string
	Logger    *zap.Logger
}

// RequireOwner resolves the caller's identity from a bearer token or the
// session cookie and stores the owner id in c.Locals. API callers without a
// valid session get 401; browsers are redirected to sign in.
func RequireOwner(cfg AuthConfig) fiber.Handler {
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	signIn := cfg.SignInURL
	if signIn == "" {
		signIn = "/"
	}

	return func(c *fiber.Ctx) error {
		token := bearerToken(c.Get(fiber.HeaderAuthorization))
		if token == "" && cfg.CookieName != "" {
			token = c.Cookies(cfg.CookieName)
		}

		owner, err := cfg.Identity.Identify(c.UserContext(), token)
		if err != nil {
			if !errors.Is(err, apperrors.ErrUnauthenticated) {
				logger.Error("identity lookup failed", zap.Error(err))
			}
			if isAPIRequest(c) {
				return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
					"error": "authentication required",
				})
			}
			return c.Redirect(signIn, fiber.StatusFound)
		}

		c.Locals(OwnerIDKey, owner)
		return c.Next()
	}
}

// OwnerID returns the owner stored by RequireOwner, or "".
func OwnerID(c *fiber.Ctx) string {
	owner, _ := c.Locals(OwnerIDKey).(string)
	return owner
}

func bearerToken(header string) string {
	const prefix = "bearer "
	if len(header) <= len(prefix) || !strings.EqualFold(header[:len(prefix)], prefix) {
		return ""
	}
	return strings.TrimSpace(header[len(prefix):])
}

func isAPIRequest(c *fiber.Ctx) bool {
	return strings.HasPrefix(c.Path(), "/api/") || c.Path() == "/api"
}
