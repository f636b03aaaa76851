package service

import "errors"

// Sentinel errors for user-facing conditions. Handlers map these to HTTP
// statuses and client messages; everything else is treated as internal.
var (
	ErrUserNotFound        = errors.New("user not found")
	ErrSessionRevoked      = errors.New("session revoked")
	ErrBanned              = errors.New("account banned")
	ErrEmailTaken          = errors.New("email already registered")
	ErrMasterSignup        = errors.New("cannot sign up with the master email")
	ErrInvalidPassword     = errors.New("invalid password")
	ErrUnauthorized        = errors.New("unauthorized")
	ErrMasterImmutable     = errors.New("master account cannot be modified")
	ErrInsufficientBalance = errors.New("insufficient balance")
	ErrBelowMinWithdraw    = errors.New("amount below minimum withdrawal")
	ErrInvalidAmount       = errors.New("amount must be positive")
	ErrGameUIDRequired     = errors.New("game uid not set")
	ErrUnknownPlan         = errors.New("unknown verification plan")
	ErrTournamentNotFound  = errors.New("tournament not found")
	ErrTournamentClosed    = errors.New("tournament not open")
	ErrTournamentFull      = errors.New("tournament full")
	ErrAlreadyJoined       = errors.New("already joined")
	ErrBlocked             = errors.New("conversation blocked")
	ErrEmptyMessage        = errors.New("message text required")
)
