package handlers

import (
	"github.com/gofiber/fiber/v2"
)

// Health untuk pengecekan kesiapan service.
func (h *Handler) Health(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"status": "ok"})
}
