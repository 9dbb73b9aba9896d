package middleware

import (
	"encoding/json"

	"github.com/gofiber/fiber/v2"
)

// ReservedChecker is the part of the registry the middleware needs.
type ReservedChecker interface {
	IsReserved(name string) bool
	SuggestAlternatives(name string, count int) []string
}

// RejectReserved refuses JSON requests whose field holds a reserved name.
// Bodies that are not JSON objects, or lack the field, pass through.
func RejectReserved(reg ReservedChecker, field string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		body := c.Body()
		if len(body) == 0 {
			return c.Next()
		}
		var payload map[string]any
		if err := json.Unmarshal(body, &payload); err != nil {
			return c.Next()
		}
		name, ok := payload[field].(string)
		if !ok || !reg.IsReserved(name) {
			return c.Next()
		}
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error":       "That username is reserved",
			"field":       field,
			"suggestions": reg.SuggestAlternatives(name, 3),
		})
	}
}
