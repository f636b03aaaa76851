package handlers

import (
	"github.com/gofiber/fiber/v2"
)

type sendMessageRequest struct {
	Text string `json:"text"`
}

// SendMessage sends a message to the user in the path
func (h *Handler) SendMessage(c *fiber.Ctx) error {
	var req sendMessageRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	msg, err := h.chat.Send(c.Context(), currentUser(c).UID, c.Params("uid"), req.Text)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"message": msg})
}

// ListMessages returns the conversation with the user in the path
func (h *Handler) ListMessages(c *fiber.Ctx) error {
	messages, err := h.chat.List(c.Context(), currentUser(c).UID, c.Params("uid"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"messages": messages})
}

// DeleteMessage hides one message from the caller only
func (h *Handler) DeleteMessage(c *fiber.Ctx) error {
	msgID, err := c.ParamsInt("id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid message id"})
	}

	if err := h.chat.DeleteForMe(c.Context(), currentUser(c).UID, c.Params("uid"), int64(msgID)); err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Deleted"})
}

// BlockUser adds the user in the path to the caller's block list
func (h *Handler) BlockUser(c *fiber.Ctx) error {
	if err := h.chat.Block(c.Context(), currentUser(c).UID, c.Params("uid")); err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Blocked"})
}

// UnblockUser removes the user in the path from the caller's block list
func (h *Handler) UnblockUser(c *fiber.Ctx) error {
	if err := h.chat.Unblock(c.Context(), currentUser(c).UID, c.Params("uid")); err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Unblocked"})
}

type reportRequest struct {
	ReportedUID string `json:"reported_uid"`
	Reason      string `json:"reason"`
}

// FileReport files a complaint against another user
func (h *Handler) FileReport(c *fiber.Ctx) error {
	var req reportRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	if err := h.chat.Report(c.Context(), currentUser(c).UID, req.ReportedUID, req.Reason); err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"message": "Report submitted"})
}
