package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"
)

// CORS allows the given origins to call the JSON API. Credentials ride in the
// Authorization header, so a wildcard origin is acceptable.
func CORS(allowedOrigins ...string) fiber.Handler {
	allowAll := len(allowedOrigins) == 0
	allowed := make(map[string]struct{}, len(allowedOrigins))
	for _, o := range allowedOrigins {
		if o == "*" {
			allowAll = true
		}
		allowed[strings.TrimRight(o, "/")] = struct{}{}
	}

	return func(c *fiber.Ctx) error {
		origin := c.Get(fiber.HeaderOrigin)
		switch {
		case allowAll:
			c.Set(fiber.HeaderAccessControlAllowOrigin, "*")
		case origin != "":
			if _, ok := allowed[origin]; ok {
				c.Set(fiber.HeaderAccessControlAllowOrigin, origin)
			}
			c.Vary(fiber.HeaderOrigin)
		}

		c.Set(fiber.HeaderAccessControlAllowMethods, "GET, POST, OPTIONS")
		c.Set(fiber.HeaderAccessControlAllowHeaders, "Origin, Content-Type, Accept, Authorization, "+RequestIDHeader)
		c.Set(fiber.HeaderAccessControlExposeHeaders, RequestIDHeader+", Retry-After")
		c.Set(fiber.HeaderAccessControlMaxAge, "86400")

		if c.Method() == fiber.MethodOptions {
			return c.SendStatus(fiber.StatusNoContent)
		}

		return c.Next()
	}
}
