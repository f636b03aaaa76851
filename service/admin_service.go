package service

import (
	"context"
	"fmt"
	"time"

	"arenabot/events"
	"arenabot/models"
	log "github.com/sirupsen/logrus"
)

// requireAdmin verifies the actor may use admin operations. With
// masterOnly set, only the owner account passes.
func requireAdmin(ctx context.Context, uowFactory UnitOfWorkFactory, master MasterCredentials, actorUID string, masterOnly bool) error {
	if actorUID == master.UID {
		return nil
	}

	uow := uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	actor, err := uow.UserRepository().GetByUID(ctx, actorUID)
	if err != nil {
		return fmt.Errorf("failed to load actor %s: %w", actorUID, err)
	}
	if actor == nil || actor.Banned {
		return ErrUnauthorized
	}
	if masterOnly {
		if actor.Email != master.Email {
			return ErrUnauthorized
		}
		return nil
	}
	if !actor.IsAdmin() {
		return ErrUnauthorized
	}
	return nil
}

type adminService struct {
	uowFactory UnitOfWorkFactory
	rewards    RewardService
	master     MasterCredentials
}

// NewAdminService creates a new admin service. Balance changes route
// through the reward service so admin credits trigger the same referral
// reward path as any other deposit.
func NewAdminService(uowFactory UnitOfWorkFactory, rewards RewardService, master MasterCredentials) AdminService {
	return &adminService{
		uowFactory: uowFactory,
		rewards:    rewards,
		master:     master,
	}
}

func (s *adminService) authorize(ctx context.Context, actorUID string, masterOnly bool) error {
	return requireAdmin(ctx, s.uowFactory, s.master, actorUID, masterOnly)
}

// guardMaster rejects operations that would mutate the owner account
func (s *adminService) guardMaster(target *models.User) error {
	if target.UID == s.master.UID || target.Email == s.master.Email {
		return ErrMasterImmutable
	}
	return nil
}

// AddBalance credits a user's wallet
func (s *adminService) AddBalance(ctx context.Context, actorUID, targetUID string, amount int64, winnings bool) error {
	if err := s.authorize(ctx, actorUID, false); err != nil {
		return err
	}
	return s.rewards.CreditDeposit(ctx, targetUID, amount, winnings)
}

// CutBalance debits a user's wallet, possibly below zero
func (s *adminService) CutBalance(ctx context.Context, actorUID, targetUID string, amount int64) error {
	if err := s.authorize(ctx, actorUID, false); err != nil {
		return err
	}
	return s.rewards.CutBalance(ctx, targetUID, amount)
}

// GrantVerification hands out a badge manually, independent of referrals
func (s *adminService) GrantVerification(ctx context.Context, actorUID, targetUID string, tier models.VerificationTier, days int) error {
	if err := s.authorize(ctx, actorUID, false); err != nil {
		return err
	}
	if days <= 0 {
		return fmt.Errorf("verification days must be positive")
	}
	if tier != models.TierBlue && tier != models.TierGold {
		return fmt.Errorf("unknown verification tier %q", tier)
	}

	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	target, err := uow.UserRepository().GetByUIDForUpdate(ctx, targetUID)
	if err != nil {
		return err
	}
	if target == nil {
		return ErrUserNotFound
	}

	v := &models.Verification{
		Tier:   tier,
		Expiry: time.Now().AddDate(0, 0, days),
	}
	if err := uow.UserRepository().SetVerification(ctx, targetUID, v); err != nil {
		return err
	}

	uow.EventBus().Publish(events.VerificationGrantedEvent{
		UserID:        targetUID,
		Tier:          tier,
		ReferralCount: target.ValidReferralCount,
	})

	if err := uow.Commit(); err != nil {
		return err
	}

	log.WithFields(log.Fields{
		"actor":  actorUID,
		"target": targetUID,
		"tier":   tier,
		"days":   days,
	}).Info("Verification granted manually")

	return nil
}

// RevokeVerification clears a user's badge
func (s *adminService) RevokeVerification(ctx context.Context, actorUID, targetUID string) error {
	if err := s.authorize(ctx, actorUID, false); err != nil {
		return err
	}

	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	target, err := uow.UserRepository().GetByUID(ctx, targetUID)
	if err != nil {
		return err
	}
	if target == nil {
		return ErrUserNotFound
	}

	if err := uow.UserRepository().SetVerification(ctx, targetUID, nil); err != nil {
		return err
	}

	uow.EventBus().Publish(events.VerificationExpiredEvent{UserID: targetUID})

	return uow.Commit()
}

// SetBanned bans or unbans an account. Sessions of a banned user are
// rejected on their next resolve.
func (s *adminService) SetBanned(ctx context.Context, actorUID, targetUID string, banned bool) error {
	if err := s.authorize(ctx, actorUID, false); err != nil {
		return err
	}

	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	target, err := uow.UserRepository().GetByUID(ctx, targetUID)
	if err != nil {
		return err
	}
	if target == nil {
		return ErrUserNotFound
	}
	if err := s.guardMaster(target); err != nil {
		return err
	}

	if err := uow.UserRepository().SetBanned(ctx, targetUID, banned); err != nil {
		return err
	}

	if banned {
		uow.EventBus().Publish(events.UserBannedEvent{UserID: targetUID})
	}

	if err := uow.Commit(); err != nil {
		return err
	}

	log.WithFields(log.Fields{
		"actor":  actorUID,
		"target": targetUID,
		"banned": banned,
	}).Info("Ban flag changed")

	return nil
}

// SetRole promotes or demotes staff. Only the owner may change roles, and
// only between USER and SUB_ADMIN.
func (s *adminService) SetRole(ctx context.Context, actorUID, targetUID string, role models.UserRole) error {
	if err := s.authorize(ctx, actorUID, true); err != nil {
		return err
	}
	if role != models.RoleUser && role != models.RoleSubAdmin {
		return fmt.Errorf("role %q cannot be assigned", role)
	}

	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	target, err := uow.UserRepository().GetByUID(ctx, targetUID)
	if err != nil {
		return err
	}
	if target == nil {
		return ErrUserNotFound
	}
	if err := s.guardMaster(target); err != nil {
		return err
	}

	if err := uow.UserRepository().SetRole(ctx, targetUID, role); err != nil {
		return err
	}
	return uow.Commit()
}

// ListUsers returns every account, newest first
func (s *adminService) ListUsers(ctx context.Context, actorUID string) ([]*models.User, error) {
	if err := s.authorize(ctx, actorUID, false); err != nil {
		return nil, err
	}

	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	return uow.UserRepository().GetAll(ctx)
}

// SearchUsers finds accounts by uid, email or username
func (s *adminService) SearchUsers(ctx context.Context, actorUID, query string) ([]*models.User, error) {
	if err := s.authorize(ctx, actorUID, false); err != nil {
		return nil, err
	}

	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	return uow.UserRepository().Search(ctx, query)
}

// ListReports returns filed reports, optionally filtered by status
func (s *adminService) ListReports(ctx context.Context, actorUID string, status *models.ReportStatus) ([]*models.Report, error) {
	if err := s.authorize(ctx, actorUID, false); err != nil {
		return nil, err
	}

	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	return uow.ReportRepository().List(ctx, status)
}

// ResolveReport marks a report handled
func (s *adminService) ResolveReport(ctx context.Context, actorUID string, reportID int64) error {
	if err := s.authorize(ctx, actorUID, false); err != nil {
		return err
	}

	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	if err := uow.ReportRepository().Resolve(ctx, reportID); err != nil {
		return err
	}
	return uow.Commit()
}

// UpdateSettings rewrites the platform settings row
func (s *adminService) UpdateSettings(ctx context.Context, actorUID string, settings *models.Settings) error {
	if err := s.authorize(ctx, actorUID, false); err != nil {
		return err
	}

	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	if err := uow.SettingsRepository().Update(ctx, settings); err != nil {
		return err
	}
	return uow.Commit()
}

// Broadcast publishes an announcement to all users
func (s *adminService) Broadcast(ctx context.Context, actorUID, title, message string) error {
	if err := s.authorize(ctx, actorUID, false); err != nil {
		return err
	}
	if title == "" || message == "" {
		return fmt.Errorf("title and message are required")
	}

	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	n := &models.Notification{Title: title, Message: message}
	if err := uow.NotificationRepository().Create(ctx, n); err != nil {
		return err
	}
	return uow.Commit()
}

// Stats aggregates the platform money figures for the admin dashboard
func (s *adminService) Stats(ctx context.Context, actorUID string) (*PlatformStats, error) {
	if err := s.authorize(ctx, actorUID, false); err != nil {
		return nil, err
	}

	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	users, err := uow.UserRepository().GetAll(ctx)
	if err != nil {
		return nil, err
	}

	ledger := uow.TransactionRepository()

	deposits, err := ledger.SumByType(ctx, models.TransactionTypeDeposit)
	if err != nil {
		return nil, err
	}
	commission, err := ledger.SumByType(ctx, models.TransactionTypeCommission)
	if err != nil {
		return nil, err
	}
	pending, err := ledger.SumByTypeAndStatus(ctx,
		models.TransactionTypeWithdraw, models.TransactionPending)
	if err != nil {
		return nil, err
	}

	return &PlatformStats{
		TotalUsers:         len(users),
		TotalDeposits:      deposits,
		TotalCommission:    commission,
		PendingWithdrawals: pending,
	}, nil
}
