package service

import (
	"context"
	"time"

	"arenabot/events"
	"arenabot/models"
)

// UserRepository defines persistence operations for user accounts
type UserRepository interface {
	// GetByUID retrieves a user by uid. Returns (nil, nil) when absent.
	GetByUID(ctx context.Context, uid string) (*models.User, error)

	// GetByUIDForUpdate retrieves a user and locks the row until the
	// enclosing transaction ends
	GetByUIDForUpdate(ctx context.Context, uid string) (*models.User, error)

	// GetByEmail retrieves a user by email. Returns (nil, nil) when absent.
	GetByEmail(ctx context.Context, email string) (*models.User, error)

	// Create inserts a new user record
	Create(ctx context.Context, user *models.User) error

	// UpdateProfile updates the self-editable profile fields
	UpdateProfile(ctx context.Context, user *models.User) error

	// AdjustBalance applies a signed delta; may drive the balance negative
	AdjustBalance(ctx context.Context, uid string, delta int64) error

	// DeductBalance deducts, failing on insufficient funds
	DeductBalance(ctx context.Context, uid string, amount int64) error

	// SetVerification stores the verification variant; nil clears it
	SetVerification(ctx context.Context, uid string, v *models.Verification) error

	// ClearExpiredVerifications clears every lapsed badge
	ClearExpiredVerifications(ctx context.Context, now time.Time) (int64, error)

	// SetHasDeposited marks the lifetime first-deposit gate
	SetHasDeposited(ctx context.Context, uid string) error

	// SetValidReferralCount persists the referrer's qualifying referral count
	SetValidReferralCount(ctx context.Context, uid string, count int) error

	// AddTotalWinnings bumps the lifetime winnings counter
	AddTotalWinnings(ctx context.Context, uid string, amount int64) error

	// SetBanned flips the ban flag
	SetBanned(ctx context.Context, uid string, banned bool) error

	// SetRole changes a user's role
	SetRole(ctx context.Context, uid string, role models.UserRole) error

	// TouchLastActive records that the user's session was just resolved
	TouchLastActive(ctx context.Context, uid string) error

	// Block adds an entry to the caller's block list
	Block(ctx context.Context, uid, blockedUID string) error

	// Unblock removes an entry from the caller's block list
	Unblock(ctx context.Context, uid, blockedUID string) error

	// GetAll returns all users, newest first
	GetAll(ctx context.Context) ([]*models.User, error)

	// Search returns users whose uid, email or username matches the query
	Search(ctx context.Context, q string) ([]*models.User, error)
}

// TournamentRepository defines persistence operations for tournaments
type TournamentRepository interface {
	// GetByKey retrieves a tournament. Returns (nil, nil) when absent.
	GetByKey(ctx context.Context, key string) (*models.Tournament, error)

	// GetByKeyForUpdate retrieves a tournament and locks the row
	GetByKeyForUpdate(ctx context.Context, key string) (*models.Tournament, error)

	// List returns tournaments, optionally filtered by status
	List(ctx context.Context, status *models.TournamentStatus) ([]*models.Tournament, error)

	// Create inserts a new tournament
	Create(ctx context.Context, t *models.Tournament) error

	// Update rewrites the admin-editable fields
	Update(ctx context.Context, t *models.Tournament) error

	// Delete removes a tournament and its participant rows
	Delete(ctx context.Context, key string) error

	// SetStatus transitions the lifecycle state
	SetStatus(ctx context.Context, key string, status models.TournamentStatus) error

	// SetRoom publishes the room credentials for a live match
	SetRoom(ctx context.Context, key, roomID, roomPass string) error

	// AddParticipant inserts a participant row and returns the new slot count
	AddParticipant(ctx context.Context, key, uid string) (int, error)

	// HasParticipant reports whether the user already joined
	HasParticipant(ctx context.Context, key, uid string) (bool, error)

	// ListParticipants returns the uids of everyone who joined
	ListParticipants(ctx context.Context, key string) ([]string, error)
}

// TransactionRepository defines persistence operations for the ledger.
// The ledger is append-only.
type TransactionRepository interface {
	// Append inserts a new ledger entry
	Append(ctx context.Context, t *models.Transaction) error

	// GetByUser returns a user's ledger entries, newest first
	GetByUser(ctx context.Context, userID string, limit int) ([]*models.Transaction, error)

	// SumByUserAndType totals a user's successful entries of one kind
	SumByUserAndType(ctx context.Context, userID string, txType models.TransactionType) (int64, error)

	// SumByType totals all successful entries of one kind across users
	SumByType(ctx context.Context, txType models.TransactionType) (int64, error)

	// SumByTypeAndStatus totals all entries of one kind in one state
	SumByTypeAndStatus(ctx context.Context, txType models.TransactionType, status models.TransactionStatus) (int64, error)

	// CountByUser returns the number of ledger entries a user owns
	CountByUser(ctx context.Context, userID string) (int64, error)

	// GetAllByUser returns every ledger entry a user owns, oldest first
	GetAllByUser(ctx context.Context, userID string) ([]*models.Transaction, error)
}

// ChatRepository defines persistence operations for pairwise chat
type ChatRepository interface {
	// Append stores a new message in a conversation
	Append(ctx context.Context, msg *models.ChatMessage) error

	// ListVisible returns a conversation's messages the viewer has not deleted
	ListVisible(ctx context.Context, pairID, viewerUID string) ([]*models.ChatMessage, error)

	// MarkDeletedFor hides one message from one user
	MarkDeletedFor(ctx context.Context, pairID string, msgID int64, uid string) error
}

// NotificationRepository defines persistence operations for broadcasts
type NotificationRepository interface {
	// Create inserts a broadcast notification
	Create(ctx context.Context, n *models.Notification) error

	// ListSince returns notifications newer than the given time, newest first
	ListSince(ctx context.Context, since time.Time, limit int) ([]*models.Notification, error)
}

// ReportRepository defines persistence operations for user reports
type ReportRepository interface {
	// Create files a new report
	Create(ctx context.Context, report *models.Report) error

	// List returns reports, optionally filtered by status
	List(ctx context.Context, status *models.ReportStatus) ([]*models.Report, error)

	// Resolve marks a report handled
	Resolve(ctx context.Context, id int64) error
}

// SettingsRepository defines persistence operations for platform settings
type SettingsRepository interface {
	// Get returns the settings, falling back to defaults when never saved
	Get(ctx context.Context) (*models.Settings, error)

	// Update upserts the single settings row
	Update(ctx context.Context, s *models.Settings) error
}

// OutboxRepository defines persistence operations for pending external messages
type OutboxRepository interface {
	// Enqueue stores a pending external message
	Enqueue(ctx context.Context, msg *models.OutboxMessage) error

	// Pending returns unsent messages below the attempt limit, oldest first
	Pending(ctx context.Context, maxAttempts, limit int) ([]*models.OutboxMessage, error)

	// MarkSent records a successful delivery
	MarkSent(ctx context.Context, id int64) error

	// MarkFailed records a failed delivery attempt for later retry
	MarkFailed(ctx context.Context, id int64, deliveryErr string) error
}

// EventPublisher collects events during a unit of work for publication
// after commit
type EventPublisher interface {
	Publish(event events.Event)
}

// UnitOfWork represents a database transaction boundary. All repositories
// obtained from one unit of work share the same transaction, and events
// published through its bus are emitted only after a successful commit.
type UnitOfWork interface {
	// Begin starts a new transaction
	Begin(ctx context.Context) error

	// Commit commits the transaction and flushes pending events
	Commit() error

	// Rollback rolls back the transaction and discards pending events
	Rollback() error

	// UserRepository returns the user repository for this unit of work
	UserRepository() UserRepository

	// TournamentRepository returns the tournament repository for this unit of work
	TournamentRepository() TournamentRepository

	// TransactionRepository returns the ledger repository for this unit of work
	TransactionRepository() TransactionRepository

	// ChatRepository returns the chat repository for this unit of work
	ChatRepository() ChatRepository

	// NotificationRepository returns the notification repository for this unit of work
	NotificationRepository() NotificationRepository

	// ReportRepository returns the report repository for this unit of work
	ReportRepository() ReportRepository

	// SettingsRepository returns the settings repository for this unit of work
	SettingsRepository() SettingsRepository

	// OutboxRepository returns the outbox repository for this unit of work
	OutboxRepository() OutboxRepository

	// EventBus returns the transactional event bus for this unit of work
	EventBus() EventPublisher
}

// UnitOfWorkFactory creates new units of work
type UnitOfWorkFactory interface {
	Create() UnitOfWork
}

// SessionService resolves authenticated identities into fresh user records
type SessionService interface {
	// Resolve loads the user for a session, applying the revocation, ban
	// and verification-expiry rules
	Resolve(ctx context.Context, uid string) (*models.User, error)

	// UpdateProfile updates the caller's own profile fields
	UpdateProfile(ctx context.Context, user *models.User) error
}

// AuthService handles login and signup
type AuthService interface {
	// Login authenticates by email. Master credentials short-circuit to the
	// synthesized owner profile.
	Login(ctx context.Context, email, password string) (*models.User, error)

	// Signup registers a new account, optionally crediting a referrer uid
	Signup(ctx context.Context, email, username, password, referralCode string) (*models.User, error)
}

// RewardService owns balance credits and the referral reward ledger
type RewardService interface {
	// CreditDeposit adds funds to a user and, on their first non-winnings
	// deposit, rewards the referrer. Runs in one transaction.
	CreditDeposit(ctx context.Context, uid string, amount int64, winnings bool) error

	// CutBalance removes funds from a user; the balance may go negative
	CutBalance(ctx context.Context, uid string, amount int64) error
}

// WithdrawalReceipt summarizes an accepted withdrawal request
type WithdrawalReceipt struct {
	Gross        int64
	Fee          int64
	Net          int64
	WhatsAppLink string
}

// LedgerAudit is the result of recomputing a user's balance from the ledger
type LedgerAudit struct {
	UserID          string
	RecordedBalance int64
	ComputedBalance int64
	Entries         int
}

// Drift is the recorded balance minus what the ledger accounts for.
// Zero means the wallet and the ledger agree.
func (a *LedgerAudit) Drift() int64 {
	return a.RecordedBalance - a.ComputedBalance
}

// VerificationReceipt carries the plan a user picked and the WhatsApp
// deep link that completes the purchase with the operator
type VerificationReceipt struct {
	Plan         models.VerificationPlan
	WhatsAppLink string
}

// DepositInfo is everything the client shows on the add-money screen
type DepositInfo struct {
	AdminUPI     string
	QRCodeURL    string
	Instruction  string
	WhatsAppLink string
}

// WalletService owns the user-initiated money flows
type WalletService interface {
	// JoinTournament pays the entry fee and seats the user, atomically
	JoinTournament(ctx context.Context, uid, tournamentKey string) error

	// Withdraw debits the gross amount and records the payable net
	Withdraw(ctx context.Context, uid string, amount int64, paymentDetails string) (*WithdrawalReceipt, error)

	// RequestVerification returns the deep link that confirms a plan payment
	RequestVerification(ctx context.Context, uid string, planID int) (*VerificationReceipt, error)

	// DepositInfo returns the manual-deposit details and confirmation link
	DepositInfo(ctx context.Context, uid string) (*DepositInfo, error)

	// AuditUser recomputes a user's balance from the ledger
	AuditUser(ctx context.Context, uid string) (*LedgerAudit, error)

	// History returns the user's ledger entries, newest first
	History(ctx context.Context, uid string, limit int) ([]*models.Transaction, error)
}

// PlatformStats aggregates platform-level money figures for the admin console
type PlatformStats struct {
	TotalUsers         int
	TotalDeposits      int64
	TotalCommission    int64
	PendingWithdrawals int64
}

// AdminService exposes the role-gated admin console operations. Every
// method checks the actor's role server-side.
type AdminService interface {
	AddBalance(ctx context.Context, actorUID, targetUID string, amount int64, winnings bool) error
	CutBalance(ctx context.Context, actorUID, targetUID string, amount int64) error
	GrantVerification(ctx context.Context, actorUID, targetUID string, tier models.VerificationTier, days int) error
	RevokeVerification(ctx context.Context, actorUID, targetUID string) error
	SetBanned(ctx context.Context, actorUID, targetUID string, banned bool) error
	SetRole(ctx context.Context, actorUID, targetUID string, role models.UserRole) error
	ListUsers(ctx context.Context, actorUID string) ([]*models.User, error)
	SearchUsers(ctx context.Context, actorUID, query string) ([]*models.User, error)
	ListReports(ctx context.Context, actorUID string, status *models.ReportStatus) ([]*models.Report, error)
	ResolveReport(ctx context.Context, actorUID string, reportID int64) error
	UpdateSettings(ctx context.Context, actorUID string, s *models.Settings) error
	Broadcast(ctx context.Context, actorUID, title, message string) error
	Stats(ctx context.Context, actorUID string) (*PlatformStats, error)
}

// TournamentDetail is a tournament with its participant list. Room
// credentials are blanked unless the viewer joined or is an admin.
type TournamentDetail struct {
	*models.Tournament
	Participants []string
	Joined       bool
}

// TournamentService owns the match lifecycle
type TournamentService interface {
	List(ctx context.Context, status *models.TournamentStatus) ([]*models.Tournament, error)
	Get(ctx context.Context, viewerUID, key string) (*TournamentDetail, error)
	Create(ctx context.Context, actorUID string, t *models.Tournament) error
	Update(ctx context.Context, actorUID string, t *models.Tournament) error
	Delete(ctx context.Context, actorUID, key string) error
	SetRoom(ctx context.Context, actorUID, key, roomID, roomPass string) error
	Complete(ctx context.Context, actorUID, key string) error

	// Cancel refunds every participant's entry fee in one transaction
	Cancel(ctx context.Context, actorUID, key string) error
}

// ChatService owns pairwise messaging, blocking and reporting
type ChatService interface {
	Send(ctx context.Context, senderUID, recipientUID, text string) (*models.ChatMessage, error)
	List(ctx context.Context, viewerUID, otherUID string) ([]*models.ChatMessage, error)
	DeleteForMe(ctx context.Context, viewerUID, otherUID string, msgID int64) error
	Block(ctx context.Context, uid, targetUID string) error
	Unblock(ctx context.Context, uid, targetUID string) error
	Report(ctx context.Context, reporterUID, reportedUID, reason string) error
}

// LeaderboardEntry is one ranked row
type LeaderboardEntry struct {
	Rank         int
	UID          string
	Username     string
	AvatarURL    string
	Verification *models.Verification
	Score        int64
}

// StatsService serves the read-mostly public surfaces
type StatsService interface {
	// Leaderboard ranks users by winnings, highest first
	Leaderboard(ctx context.Context, limit int) ([]*LeaderboardEntry, error)

	// Notifications returns broadcasts newer than since, newest first
	Notifications(ctx context.Context, since time.Time, limit int) ([]*models.Notification, error)

	// PublicSettings returns the platform settings shown to clients
	PublicSettings(ctx context.Context) (*models.Settings, error)
}
