package handlers

import (
	"arenabot/models"
	"github.com/gofiber/fiber/v2"
)

// ListTournaments returns tournaments, optionally filtered by ?status=
func (h *Handler) ListTournaments(c *fiber.Ctx) error {
	var status *models.TournamentStatus
	if s := c.Query("status"); s != "" {
		v := models.TournamentStatus(s)
		status = &v
	}

	tournaments, err := h.tournaments.List(c.Context(), status)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"tournaments": tournaments})
}

// GetTournament returns one tournament with its participants. Room
// credentials are only included for participants and staff.
func (h *Handler) GetTournament(c *fiber.Ctx) error {
	detail, err := h.tournaments.Get(c.Context(), currentUser(c).UID, c.Params("key"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{
		"tournament":   detail.Tournament,
		"participants": detail.Participants,
		"joined":       detail.Joined,
	})
}

// JoinTournament pays the entry fee and seats the caller
func (h *Handler) JoinTournament(c *fiber.Ctx) error {
	if err := h.wallet.JoinTournament(c.Context(), currentUser(c).UID, c.Params("key")); err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Joined successfully"})
}
