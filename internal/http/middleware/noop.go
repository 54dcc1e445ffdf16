package middleware

import "github.com/gofiber/fiber/v2"

// Noop passes the request straight through. It anchors the middleware
// wiring in tests and serves as the template for new middleware.
func Noop() fiber.Handler {
	return func(c *fiber.Ctx) error {
		return c.Next()
	}
}
