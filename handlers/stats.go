package handlers

import (
	"time"

	"github.com/gofiber/fiber/v2"
)

// Leaderboard returns the winnings ranking
func (h *Handler) Leaderboard(c *fiber.Ctx) error {
	entries, err := h.stats.Leaderboard(c.Context(), c.QueryInt("limit"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"leaderboard": entries})
}

// Notifications returns broadcasts newer than ?since= (RFC 3339).
// The read marker lives on the client.
func (h *Handler) Notifications(c *fiber.Ctx) error {
	var since time.Time
	if s := c.Query("since"); s != "" {
		parsed, err := time.Parse(time.RFC3339, s)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid since timestamp"})
		}
		since = parsed
	}

	notifications, err := h.stats.Notifications(c.Context(), since, c.QueryInt("limit"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"notifications": notifications})
}

// Settings returns the platform settings shown to clients
func (h *Handler) Settings(c *fiber.Ctx) error {
	settings, err := h.stats.PublicSettings(c.Context())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"settings": settings})
}
