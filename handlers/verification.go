package handlers

import (
	"arenabot/models"
	"github.com/gofiber/fiber/v2"
)

// VerificationPlans returns the purchasable plan catalog
func (h *Handler) VerificationPlans(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"plans": models.VerificationPlans()})
}

type verificationPlanRequest struct {
	PlanID int `json:"plan_id"`
}

// RequestVerification returns the WhatsApp deep link the caller opens to
// confirm a plan payment with the operator
func (h *Handler) RequestVerification(c *fiber.Ctx) error {
	var req verificationPlanRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	receipt, err := h.wallet.RequestVerification(c.Context(), currentUser(c).UID, req.PlanID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{
		"plan":          receipt.Plan,
		"whatsapp_link": receipt.WhatsAppLink,
	})
}
