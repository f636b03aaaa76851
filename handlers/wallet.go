package handlers

import (
	"github.com/gofiber/fiber/v2"
)

type withdrawRequest struct {
	Amount         int64  `json:"amount"`
	PaymentDetails string `json:"payment_details"`
}

// Withdraw debits the caller's wallet and returns the WhatsApp deep link
// they use to complete the payout with the operator.
func (h *Handler) Withdraw(c *fiber.Ctx) error {
	var req withdrawRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	receipt, err := h.wallet.Withdraw(c.Context(), currentUser(c).UID, req.Amount, req.PaymentDetails)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{
		"gross":         receipt.Gross,
		"fee":           receipt.Fee,
		"net":           receipt.Net,
		"whatsapp_link": receipt.WhatsAppLink,
	})
}

// DepositInfo returns the manual-deposit details shown on the add-money
// screen, including the payment confirmation deep link
func (h *Handler) DepositInfo(c *fiber.Ctx) error {
	info, err := h.wallet.DepositInfo(c.Context(), currentUser(c).UID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{
		"admin_upi":     info.AdminUPI,
		"qr_code_url":   info.QRCodeURL,
		"instruction":   info.Instruction,
		"whatsapp_link": info.WhatsAppLink,
	})
}

// History returns the caller's ledger, newest first
func (h *Handler) History(c *fiber.Ctx) error {
	transactions, err := h.wallet.History(c.Context(), currentUser(c).UID, c.QueryInt("limit"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"transactions": transactions})
}

// AuditWallet replays the caller's ledger against their stored balance
func (h *Handler) AuditWallet(c *fiber.Ctx) error {
	audit, err := h.wallet.AuditUser(c.Context(), currentUser(c).UID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{
		"recorded_balance": audit.RecordedBalance,
		"computed_balance": audit.ComputedBalance,
		"drift":            audit.Drift(),
		"entries":          audit.Entries,
	})
}
