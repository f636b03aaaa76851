package models

import (
	"time"
)

// UserRole represents the authorization level of an account
type UserRole string

const (
	RoleUser     UserRole = "USER"
	RoleAdmin    UserRole = "ADMIN"     // master owner
	RoleSubAdmin UserRole = "SUB_ADMIN" // staff admin
)

// VerificationTier is the badge level attached to an active verification
type VerificationTier string

const (
	TierBlue VerificationTier = "BLUE" // standard
	TierGold VerificationTier = "GOLD" // premium
)

// Verification is the active badge state of a user. A nil *Verification
// means the user is not verified; there is no separate pending state.
type Verification struct {
	Tier   VerificationTier `json:"tier"`
	Expiry time.Time        `json:"expiry"`
}

// Expired reports whether the verification has lapsed at the given time
func (v *Verification) Expired(now time.Time) bool {
	return !v.Expiry.After(now)
}

// User represents a platform account with a wallet balance.
// Balance and TotalWinnings are stored in paise.
type User struct {
	UID      string   `db:"uid" json:"uid"`
	Email    string   `db:"email" json:"email"`
	Username string   `db:"username" json:"username"`
	Role     UserRole `db:"role" json:"role"`
	Balance  int64    `db:"balance" json:"balance"`
	GameUID  string   `db:"game_uid" json:"game_uid"`
	Banned   bool     `db:"banned" json:"banned"`

	// Mapped from the nullable verification_tier/verification_expiry columns
	Verification *Verification `db:"-" json:"verification,omitempty"`

	TotalWinnings int64 `db:"total_winnings" json:"total_winnings"`

	// Referral fields. ReferredBy is set once at signup and never changes;
	// ValidReferralCount counts referred users whose first deposit has been
	// credited.
	ReferredBy         *string `db:"referred_by" json:"referred_by,omitempty"`
	ValidReferralCount int     `db:"valid_referral_count" json:"valid_referral_count"`
	HasDeposited       bool    `db:"has_deposited" json:"has_deposited"`

	AvatarURL     string `db:"avatar_url" json:"avatar_url"`
	Bio           string `db:"bio" json:"bio"`
	Gender        string `db:"gender" json:"gender"`
	InstagramLink string `db:"instagram_link" json:"instagram_link"`
	FacebookLink  string `db:"facebook_link" json:"facebook_link"`

	// Loaded from the blocked_users table
	BlockedUsers []string `db:"-" json:"blocked_users"`

	LastActive time.Time `db:"last_active" json:"last_active"`
	CreatedAt  time.Time `db:"created_at" json:"created_at"`
}

// IsAdmin reports whether the user may use the admin console
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin || u.Role == RoleSubAdmin
}

// HasBlocked reports whether the user has blocked the given uid
func (u *User) HasBlocked(uid string) bool {
	for _, b := range u.BlockedUsers {
		if b == uid {
			return true
		}
	}
	return false
}
