package repository

import (
	"context"
	"fmt"
	"time"

	"arenabot/database"
	"arenabot/models"
	"github.com/jackc/pgx/v5"
)

// UserRepository implements the service.UserRepository interface
type UserRepository struct {
	q queryable
}

// NewUserRepository creates a new user repository
func NewUserRepository(db *database.DB) *UserRepository {
	return &UserRepository{q: db.Pool}
}

// newUserRepositoryWithTx creates a new user repository with a transaction
func newUserRepositoryWithTx(tx queryable) *UserRepository {
	return &UserRepository{q: tx}
}

const userColumns = `
	u.uid, u.email, u.username, u.role, u.balance, u.game_uid, u.banned,
	u.verification_tier, u.verification_expiry, u.total_winnings,
	u.referred_by, u.valid_referral_count, u.has_deposited,
	u.avatar_url, u.bio, u.gender, u.instagram_link, u.facebook_link,
	u.last_active, u.created_at,
	(SELECT COALESCE(array_agg(b.blocked_uid), '{}')
	 FROM blocked_users b WHERE b.uid = u.uid) AS blocked_users
`

func scanUser(row pgx.Row) (*models.User, error) {
	var user models.User
	var tier *string
	var expiry *time.Time

	err := row.Scan(
		&user.UID,
		&user.Email,
		&user.Username,
		&user.Role,
		&user.Balance,
		&user.GameUID,
		&user.Banned,
		&tier,
		&expiry,
		&user.TotalWinnings,
		&user.ReferredBy,
		&user.ValidReferralCount,
		&user.HasDeposited,
		&user.AvatarURL,
		&user.Bio,
		&user.Gender,
		&user.InstagramLink,
		&user.FacebookLink,
		&user.LastActive,
		&user.CreatedAt,
		&user.BlockedUsers,
	)
	if err != nil {
		return nil, err
	}

	if tier != nil && expiry != nil {
		user.Verification = &models.Verification{
			Tier:   models.VerificationTier(*tier),
			Expiry: *expiry,
		}
	}

	return &user, nil
}

// GetByUID retrieves a user by uid. Returns (nil, nil) when absent.
func (r *UserRepository) GetByUID(ctx context.Context, uid string) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users u WHERE u.uid = $1`

	user, err := scanUser(r.q.QueryRow(ctx, query, uid))
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user %s: %w", uid, err)
	}
	return user, nil
}

// GetByUIDForUpdate retrieves a user by uid and locks the row for the
// duration of the transaction. Balance and referral mutations go through
// this to serialize concurrent writers on the same account.
func (r *UserRepository) GetByUIDForUpdate(ctx context.Context, uid string) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users u WHERE u.uid = $1 FOR UPDATE OF u`

	user, err := scanUser(r.q.QueryRow(ctx, query, uid))
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to lock user %s: %w", uid, err)
	}
	return user, nil
}

// GetByEmail retrieves a user by email via the unique index.
// Returns (nil, nil) when absent.
func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users u WHERE u.email = $1`

	user, err := scanUser(r.q.QueryRow(ctx, query, email))
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user by email: %w", err)
	}
	return user, nil
}

// Create inserts a new user record
func (r *UserRepository) Create(ctx context.Context, user *models.User) error {
	query := `
		INSERT INTO users (uid, email, username, role, balance, referred_by)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING last_active, created_at
	`

	err := r.q.QueryRow(ctx, query,
		user.UID,
		user.Email,
		user.Username,
		user.Role,
		user.Balance,
		user.ReferredBy,
	).Scan(&user.LastActive, &user.CreatedAt)

	if err != nil {
		return fmt.Errorf("failed to create user %s: %w", user.UID, err)
	}
	return nil
}

// UpdateProfile updates the self-editable profile fields
func (r *UserRepository) UpdateProfile(ctx context.Context, user *models.User) error {
	query := `
		UPDATE users
		SET username = $1, game_uid = $2, avatar_url = $3, bio = $4,
		    gender = $5, instagram_link = $6, facebook_link = $7
		WHERE uid = $8
	`

	result, err := r.q.Exec(ctx, query,
		user.Username, user.GameUID, user.AvatarURL, user.Bio,
		user.Gender, user.InstagramLink, user.FacebookLink, user.UID,
	)
	if err != nil {
		return fmt.Errorf("failed to update profile for user %s: %w", user.UID, err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("user %s not found", user.UID)
	}
	return nil
}

// AdjustBalance applies a signed delta to a user's balance. Admin cuts may
// drive the balance negative; callers that must not do so use DeductBalance.
func (r *UserRepository) AdjustBalance(ctx context.Context, uid string, delta int64) error {
	query := `UPDATE users SET balance = balance + $1 WHERE uid = $2`

	result, err := r.q.Exec(ctx, query, delta, uid)
	if err != nil {
		return fmt.Errorf("failed to adjust balance for user %s: %w", uid, err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("user %s not found", uid)
	}
	return nil
}

// DeductBalance deducts from a user's balance, failing on insufficient funds
func (r *UserRepository) DeductBalance(ctx context.Context, uid string, amount int64) error {
	if amount <= 0 {
		return fmt.Errorf("amount must be positive")
	}

	query := `UPDATE users SET balance = balance - $1 WHERE uid = $2 AND balance >= $1`

	result, err := r.q.Exec(ctx, query, amount, uid)
	if err != nil {
		return fmt.Errorf("failed to deduct balance for user %s: %w", uid, err)
	}
	if result.RowsAffected() == 0 {
		user, err := r.GetByUID(ctx, uid)
		if err != nil {
			return fmt.Errorf("failed to check user: %w", err)
		}
		if user == nil {
			return fmt.Errorf("user %s not found", uid)
		}
		return fmt.Errorf("insufficient balance: have %d, need %d", user.Balance, amount)
	}
	return nil
}

// SetVerification stores the verification variant; nil clears it
func (r *UserRepository) SetVerification(ctx context.Context, uid string, v *models.Verification) error {
	var tier *string
	var expiry *time.Time
	if v != nil {
		t := string(v.Tier)
		tier, expiry = &t, &v.Expiry
	}

	query := `UPDATE users SET verification_tier = $1, verification_expiry = $2 WHERE uid = $3`

	result, err := r.q.Exec(ctx, query, tier, expiry, uid)
	if err != nil {
		return fmt.Errorf("failed to set verification for user %s: %w", uid, err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("user %s not found", uid)
	}
	return nil
}

// ClearExpiredVerifications clears every lapsed badge and returns how many
// rows were affected. Used by the sweep worker.
func (r *UserRepository) ClearExpiredVerifications(ctx context.Context, now time.Time) (int64, error) {
	query := `
		UPDATE users
		SET verification_tier = NULL, verification_expiry = NULL
		WHERE verification_expiry IS NOT NULL AND verification_expiry <= $1
	`

	result, err := r.q.Exec(ctx, query, now)
	if err != nil {
		return 0, fmt.Errorf("failed to clear expired verifications: %w", err)
	}
	return result.RowsAffected(), nil
}

// SetHasDeposited marks the lifetime first-deposit gate
func (r *UserRepository) SetHasDeposited(ctx context.Context, uid string) error {
	query := `UPDATE users SET has_deposited = TRUE WHERE uid = $1`

	result, err := r.q.Exec(ctx, query, uid)
	if err != nil {
		return fmt.Errorf("failed to mark first deposit for user %s: %w", uid, err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("user %s not found", uid)
	}
	return nil
}

// SetValidReferralCount persists the referrer's qualifying referral count
func (r *UserRepository) SetValidReferralCount(ctx context.Context, uid string, count int) error {
	query := `UPDATE users SET valid_referral_count = $1 WHERE uid = $2`

	result, err := r.q.Exec(ctx, query, count, uid)
	if err != nil {
		return fmt.Errorf("failed to set referral count for user %s: %w", uid, err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("user %s not found", uid)
	}
	return nil
}

// AddTotalWinnings bumps the lifetime winnings counter
func (r *UserRepository) AddTotalWinnings(ctx context.Context, uid string, amount int64) error {
	query := `UPDATE users SET total_winnings = total_winnings + $1 WHERE uid = $2`

	result, err := r.q.Exec(ctx, query, amount, uid)
	if err != nil {
		return fmt.Errorf("failed to add winnings for user %s: %w", uid, err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("user %s not found", uid)
	}
	return nil
}

// SetBanned flips the ban flag
func (r *UserRepository) SetBanned(ctx context.Context, uid string, banned bool) error {
	query := `UPDATE users SET banned = $1 WHERE uid = $2`

	result, err := r.q.Exec(ctx, query, banned, uid)
	if err != nil {
		return fmt.Errorf("failed to set ban flag for user %s: %w", uid, err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("user %s not found", uid)
	}
	return nil
}

// SetRole changes a user's role
func (r *UserRepository) SetRole(ctx context.Context, uid string, role models.UserRole) error {
	query := `UPDATE users SET role = $1 WHERE uid = $2`

	result, err := r.q.Exec(ctx, query, role, uid)
	if err != nil {
		return fmt.Errorf("failed to set role for user %s: %w", uid, err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("user %s not found", uid)
	}
	return nil
}

// TouchLastActive records that the user's session was just resolved
func (r *UserRepository) TouchLastActive(ctx context.Context, uid string) error {
	query := `UPDATE users SET last_active = NOW() WHERE uid = $1`

	if _, err := r.q.Exec(ctx, query, uid); err != nil {
		return fmt.Errorf("failed to touch last active for user %s: %w", uid, err)
	}
	return nil
}

// Block adds an entry to the caller's block list; blocking twice is a no-op
func (r *UserRepository) Block(ctx context.Context, uid, blockedUID string) error {
	query := `
		INSERT INTO blocked_users (uid, blocked_uid)
		VALUES ($1, $2)
		ON CONFLICT DO NOTHING
	`

	if _, err := r.q.Exec(ctx, query, uid, blockedUID); err != nil {
		return fmt.Errorf("failed to block user %s for %s: %w", blockedUID, uid, err)
	}
	return nil
}

// Unblock removes an entry from the caller's block list
func (r *UserRepository) Unblock(ctx context.Context, uid, blockedUID string) error {
	query := `DELETE FROM blocked_users WHERE uid = $1 AND blocked_uid = $2`

	if _, err := r.q.Exec(ctx, query, uid, blockedUID); err != nil {
		return fmt.Errorf("failed to unblock user %s for %s: %w", blockedUID, uid, err)
	}
	return nil
}

// GetAll returns all users, newest first
func (r *UserRepository) GetAll(ctx context.Context) ([]*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users u ORDER BY u.created_at DESC`

	rows, err := r.q.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to get all users: %w", err)
	}
	defer rows.Close()

	var users []*models.User
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan user: %w", err)
		}
		users = append(users, user)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate users: %w", err)
	}
	return users, nil
}

// Search returns users whose uid, email or username matches the query
func (r *UserRepository) Search(ctx context.Context, q string) ([]*models.User, error) {
	query := `
		SELECT ` + userColumns + `
		FROM users u
		WHERE u.uid = $1 OR u.email ILIKE $2 OR u.username ILIKE $2
		ORDER BY u.created_at DESC
		LIMIT 50
	`

	rows, err := r.q.Query(ctx, query, q, "%"+q+"%")
	if err != nil {
		return nil, fmt.Errorf("failed to search users: %w", err)
	}
	defer rows.Close()

	var users []*models.User
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan user: %w", err)
		}
		users = append(users, user)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate users: %w", err)
	}
	return users, nil
}
