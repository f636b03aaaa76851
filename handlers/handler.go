package handlers

import (
	"arenabot/media"
	"arenabot/service"
	"github.com/gofiber/fiber/v2"
)

// Handler bundles the services behind the HTTP surface
type Handler struct {
	sessions    service.SessionService
	auth        service.AuthService
	wallet      service.WalletService
	admin       service.AdminService
	tournaments service.TournamentService
	chat        service.ChatService
	stats       service.StatsService
	media       *media.Store
}

// New creates a new handler. media may be nil when no storage is configured;
// the upload route then responds 503.
func New(
	sessions service.SessionService,
	auth service.AuthService,
	wallet service.WalletService,
	admin service.AdminService,
	tournaments service.TournamentService,
	chat service.ChatService,
	stats service.StatsService,
	mediaStore *media.Store,
) *Handler {
	return &Handler{
		sessions:    sessions,
		auth:        auth,
		wallet:      wallet,
		admin:       admin,
		tournaments: tournaments,
		chat:        chat,
		stats:       stats,
		media:       mediaStore,
	}
}

// Register mounts all routes on the app
func (h *Handler) Register(app *fiber.App) {
	api := app.Group("/api")

	auth := api.Group("/auth")
	auth.Post("/login", h.Login)
	auth.Post("/signup", h.Signup)

	api.Get("/session", h.RequireUser, h.Session)
	api.Put("/profile", h.RequireUser, h.UpdateProfile)

	api.Get("/tournaments", h.ListTournaments)
	api.Get("/tournaments/:key", h.RequireUser, h.GetTournament)
	api.Post("/tournaments/:key/join", h.RequireUser, h.JoinTournament)

	wallet := api.Group("/wallet", h.RequireUser)
	wallet.Post("/withdraw", h.Withdraw)
	wallet.Get("/deposit", h.DepositInfo)
	wallet.Get("/history", h.History)
	wallet.Get("/audit", h.AuditWallet)

	api.Get("/verification/plans", h.VerificationPlans)
	api.Post("/verification/request", h.RequireUser, h.RequestVerification)

	chat := api.Group("/chat", h.RequireUser)
	chat.Get("/:uid", h.ListMessages)
	chat.Post("/:uid", h.SendMessage)
	chat.Delete("/:uid/messages/:id", h.DeleteMessage)
	chat.Post("/:uid/block", h.BlockUser)
	chat.Delete("/:uid/block", h.UnblockUser)

	api.Post("/reports", h.RequireUser, h.FileReport)
	api.Get("/leaderboard", h.Leaderboard)
	api.Get("/notifications", h.Notifications)
	api.Get("/settings", h.Settings)

	admin := api.Group("/admin", h.RequireUser)
	admin.Get("/users", h.AdminListUsers)
	admin.Get("/users/search", h.AdminSearchUsers)
	admin.Post("/users/:uid/balance", h.AdminAdjustBalance)
	admin.Post("/users/:uid/verification", h.AdminGrantVerification)
	admin.Delete("/users/:uid/verification", h.AdminRevokeVerification)
	admin.Post("/users/:uid/ban", h.AdminSetBanned)
	admin.Post("/users/:uid/role", h.AdminSetRole)
	admin.Get("/users/:uid/audit", h.AdminAuditUser)
	admin.Get("/reports", h.AdminListReports)
	admin.Post("/reports/:id/resolve", h.AdminResolveReport)
	admin.Put("/settings", h.AdminUpdateSettings)
	admin.Post("/notifications", h.AdminBroadcast)
	admin.Get("/stats", h.AdminStats)
	admin.Post("/tournaments", h.AdminCreateTournament)
	admin.Put("/tournaments/:key", h.AdminUpdateTournament)
	admin.Delete("/tournaments/:key", h.AdminDeleteTournament)
	admin.Post("/tournaments/:key/room", h.AdminSetRoom)
	admin.Post("/tournaments/:key/complete", h.AdminCompleteTournament)
	admin.Post("/tournaments/:key/cancel", h.AdminCancelTournament)
	admin.Post("/media", h.AdminUploadMedia)
}
