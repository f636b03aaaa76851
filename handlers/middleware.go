package handlers

import (
	"arenabot/models"
	"github.com/gofiber/fiber/v2"
)

// RequireUser resolves the caller's identity from the X-User-ID header.
// Ban, revocation and verification expiry are all enforced here, so every
// authenticated route sees a fresh, valid user.
func (h *Handler) RequireUser(c *fiber.Ctx) error {
	uid := c.Get("X-User-ID")
	if uid == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Not logged in",
		})
	}

	user, err := h.sessions.Resolve(c.Context(), uid)
	if err != nil {
		return respondError(c, err)
	}

	c.Locals("user", user)
	return c.Next()
}

// currentUser returns the user RequireUser stored on the request
func currentUser(c *fiber.Ctx) *models.User {
	return c.Locals("user").(*models.User)
}
