package handlers

import (
	"arenabot/models"
	"arenabot/service"
	"github.com/gofiber/fiber/v2"
)

// AdminListUsers returns every account
func (h *Handler) AdminListUsers(c *fiber.Ctx) error {
	users, err := h.admin.ListUsers(c.Context(), currentUser(c).UID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"users": users})
}

// AdminSearchUsers finds accounts by uid, email or username (?q=)
func (h *Handler) AdminSearchUsers(c *fiber.Ctx) error {
	users, err := h.admin.SearchUsers(c.Context(), currentUser(c).UID, c.Query("q"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"users": users})
}

type balanceRequest struct {
	Amount   int64  `json:"amount"`
	Action   string `json:"action"` // "add" or "cut"
	Winnings bool   `json:"winnings"`
}

// AdminAdjustBalance adds or cuts a user's balance. Additions run the
// first-deposit referral path.
func (h *Handler) AdminAdjustBalance(c *fiber.Ctx) error {
	var req balanceRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	actor := currentUser(c).UID
	target := c.Params("uid")

	var err error
	switch req.Action {
	case "add":
		err = h.admin.AddBalance(c.Context(), actor, target, req.Amount, req.Winnings)
	case "cut":
		err = h.admin.CutBalance(c.Context(), actor, target, req.Amount)
	default:
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Unknown action"})
	}
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Balance updated"})
}

type verificationRequest struct {
	Tier models.VerificationTier `json:"tier"`
	Days int                     `json:"days"`
}

// AdminGrantVerification hands out a badge manually
func (h *Handler) AdminGrantVerification(c *fiber.Ctx) error {
	var req verificationRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	err := h.admin.GrantVerification(c.Context(), currentUser(c).UID, c.Params("uid"), req.Tier, req.Days)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Verification granted"})
}

// AdminRevokeVerification clears a user's badge
func (h *Handler) AdminRevokeVerification(c *fiber.Ctx) error {
	if err := h.admin.RevokeVerification(c.Context(), currentUser(c).UID, c.Params("uid")); err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Verification revoked"})
}

type banRequest struct {
	Banned bool `json:"banned"`
}

// AdminSetBanned bans or unbans an account
func (h *Handler) AdminSetBanned(c *fiber.Ctx) error {
	var req banRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	if err := h.admin.SetBanned(c.Context(), currentUser(c).UID, c.Params("uid"), req.Banned); err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Ban state updated"})
}

type roleRequest struct {
	Role models.UserRole `json:"role"`
}

// AdminSetRole promotes or demotes staff (owner only)
func (h *Handler) AdminSetRole(c *fiber.Ctx) error {
	var req roleRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	if err := h.admin.SetRole(c.Context(), currentUser(c).UID, c.Params("uid"), req.Role); err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Role updated"})
}

// AdminAuditUser replays any user's ledger against their stored balance
func (h *Handler) AdminAuditUser(c *fiber.Ctx) error {
	if !currentUser(c).IsAdmin() {
		return respondError(c, service.ErrUnauthorized)
	}

	audit, err := h.wallet.AuditUser(c.Context(), c.Params("uid"))
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

// AdminListReports returns filed reports (?status=)
func (h *Handler) AdminListReports(c *fiber.Ctx) error {
	var status *models.ReportStatus
	if s := c.Query("status"); s != "" {
		v := models.ReportStatus(s)
		status = &v
	}

	reports, err := h.admin.ListReports(c.Context(), currentUser(c).UID, status)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"reports": reports})
}

// AdminResolveReport marks a report handled
func (h *Handler) AdminResolveReport(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid report id"})
	}

	if err := h.admin.ResolveReport(c.Context(), currentUser(c).UID, int64(id)); err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Report resolved"})
}

// AdminUpdateSettings rewrites the platform settings
func (h *Handler) AdminUpdateSettings(c *fiber.Ctx) error {
	var settings models.Settings
	if err := c.BodyParser(&settings); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	if err := h.admin.UpdateSettings(c.Context(), currentUser(c).UID, &settings); err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"settings": settings})
}

type broadcastRequest struct {
	Title   string `json:"title"`
	Message string `json:"message"`
}

// AdminBroadcast publishes an announcement to all users
func (h *Handler) AdminBroadcast(c *fiber.Ctx) error {
	var req broadcastRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	if err := h.admin.Broadcast(c.Context(), currentUser(c).UID, req.Title, req.Message); err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"message": "Notification sent"})
}

// AdminStats returns the platform money figures
func (h *Handler) AdminStats(c *fiber.Ctx) error {
	stats, err := h.admin.Stats(c.Context(), currentUser(c).UID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{
		"total_users":         stats.TotalUsers,
		"total_deposits":      stats.TotalDeposits,
		"total_commission":    stats.TotalCommission,
		"pending_withdrawals": stats.PendingWithdrawals,
	})
}

// AdminCreateTournament schedules a new match
func (h *Handler) AdminCreateTournament(c *fiber.Ctx) error {
	var t models.Tournament
	if err := c.BodyParser(&t); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	if err := h.tournaments.Create(c.Context(), currentUser(c).UID, &t); err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"tournament": t})
}

// AdminUpdateTournament rewrites a match's editable fields
func (h *Handler) AdminUpdateTournament(c *fiber.Ctx) error {
	var t models.Tournament
	if err := c.BodyParser(&t); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}
	t.Key = c.Params("key")

	if err := h.tournaments.Update(c.Context(), currentUser(c).UID, &t); err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"tournament": t})
}

// AdminDeleteTournament removes a match outright
func (h *Handler) AdminDeleteTournament(c *fiber.Ctx) error {
	if err := h.tournaments.Delete(c.Context(), currentUser(c).UID, c.Params("key")); err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Tournament deleted"})
}

type roomRequest struct {
	RoomID   string `json:"room_id"`
	RoomPass string `json:"room_pass"`
}

// AdminSetRoom publishes the room credentials for a live match
func (h *Handler) AdminSetRoom(c *fiber.Ctx) error {
	var req roomRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	if err := h.tournaments.SetRoom(c.Context(), currentUser(c).UID, c.Params("key"), req.RoomID, req.RoomPass); err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Room updated"})
}

// AdminCompleteTournament marks a finished match
func (h *Handler) AdminCompleteTournament(c *fiber.Ctx) error {
	if err := h.tournaments.Complete(c.Context(), currentUser(c).UID, c.Params("key")); err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Tournament completed"})
}

// AdminCancelTournament calls off a match and refunds every entry
func (h *Handler) AdminCancelTournament(c *fiber.Ctx) error {
	if err := h.tournaments.Cancel(c.Context(), currentUser(c).UID, c.Params("key")); err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Tournament cancelled"})
}

// AdminUploadMedia stores an image and returns its public URL
func (h *Handler) AdminUploadMedia(c *fiber.Ctx) error {
	if !currentUser(c).IsAdmin() {
		return respondError(c, service.ErrUnauthorized)
	}
	if h.media == nil {
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"error": "Media storage is not configured"})
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "File is required"})
	}

	file, err := fileHeader.Open()
	if err != nil {
		return respondError(c, err)
	}
	defer file.Close()

	folder := c.FormValue("folder", "uploads")
	url, err := h.media.Upload(c.Context(), folder, fileHeader.Filename,
		fileHeader.Header.Get("Content-Type"), file)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"url": url})
}
