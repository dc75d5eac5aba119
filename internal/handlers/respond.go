package handlers

import (
	"log"

	"github.com/gofiber/fiber/v2"

	"quickbite/internal/apperrors"
)

// respond writes the uniform success envelope with extra payload fields.
func respond(c *fiber.Ctx, status int, message string, payload fiber.Map) error {
	body := fiber.Map{"success": true}
	if message != "" {
		body["message"] = message
	}
	for k, v := range payload {
		body[k] = v
	}
	return c.Status(status).JSON(body)
}

// fail maps a domain error to its HTTP status and renders the failure
// envelope. Unclassified errors are logged and masked with a generic
// message so internals never leak to clients.
func fail(c *fiber.Ctx, err error) error {
	status := apperrors.StatusOf(err)
	message := err.Error()
	if status == fiber.StatusInternalServerError {
		log.Printf("Internal error on %s %s: %v", c.Method(), c.Path(), err)
		message = "internal server error"
	}
	return c.Status(status).JSON(fiber.Map{
		"success": false,
		"message": message,
	})
}

// pagination is the envelope block for paginated listings.
func pagination(total int64, limit, offset, count int) fiber.Map {
	return fiber.Map{
		"total":  total,
		"limit":  limit,
		"offset": offset,
		"count":  count,
	}
}
