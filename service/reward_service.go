package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"arenabot/events"
	"arenabot/models"
	log "github.com/sirupsen/logrus"
)

const (
	blueExtensionDays = 30
	goldDurationDays  = 365
)

type rewardService struct {
	uowFactory UnitOfWorkFactory
}

// NewRewardService creates a new reward service
func NewRewardService(uowFactory UnitOfWorkFactory) RewardService {
	return &rewardService{
		uowFactory: uowFactory,
	}
}

// CreditDeposit adds funds to a user's wallet and appends the matching
// ledger entry. On the user's first non-winnings deposit the lifetime gate
// is set and the referrer, if any, is rewarded. Everything happens in one
// transaction with both user rows locked, so a crash or a concurrent
// credit cannot split the balance from the reward.
func (s *rewardService) CreditDeposit(ctx context.Context, uid string, amount int64, winnings bool) error {
	if amount <= 0 {
		return ErrInvalidAmount
	}

	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	users := uow.UserRepository()

	user, err := users.GetByUIDForUpdate(ctx, uid)
	if err != nil {
		return fmt.Errorf("failed to lock user %s: %w", uid, err)
	}
	if user == nil {
		return ErrUserNotFound
	}

	if err := users.AdjustBalance(ctx, uid, amount); err != nil {
		return err
	}

	entry := &models.Transaction{
		UserID:      uid,
		Type:        models.TransactionTypeDeposit,
		Amount:      amount,
		Status:      models.TransactionSuccess,
		Description: "Deposit credited",
	}
	if winnings {
		entry.Type = models.TransactionTypeWinnings
		entry.Description = "Tournament winnings"
	}
	if err := uow.TransactionRepository().Append(ctx, entry); err != nil {
		return err
	}

	if winnings {
		if err := users.AddTotalWinnings(ctx, uid, amount); err != nil {
			return err
		}
	}

	uow.EventBus().Publish(events.BalanceChangeEvent{
		UserID:          uid,
		OldBalance:      user.Balance,
		NewBalance:      user.Balance + amount,
		TransactionType: entry.Type,
		ChangeAmount:    amount,
	})

	// Winnings never count as a deposit; the gate fires once per lifetime
	if !winnings && !user.HasDeposited {
		if err := users.SetHasDeposited(ctx, uid); err != nil {
			return err
		}

		deposit := models.FirstDepositPayload{
			UID:      uid,
			Username: user.Username,
			Amount:   amount,
		}
		if user.ReferredBy != nil {
			deposit.ReferrerUID = *user.ReferredBy
		}
		payload, err := json.Marshal(deposit)
		if err != nil {
			return fmt.Errorf("failed to encode first deposit payload: %w", err)
		}
		err = uow.OutboxRepository().Enqueue(ctx, &models.OutboxMessage{
			Kind:    models.OutboxFirstDeposit,
			Payload: payload,
		})
		if err != nil {
			return err
		}

		if user.ReferredBy != nil {
			if err := s.rewardReferrer(ctx, uow, *user.ReferredBy, uid); err != nil {
				return err
			}
		}
	}

	return uow.Commit()
}

// rewardReferrer applies the referral reward inside the caller's unit of
// work. A missing referrer record skips the reward but does not fail the
// deposit.
func (s *rewardService) rewardReferrer(ctx context.Context, uow UnitOfWork, referrerUID, depositorUID string) error {
	users := uow.UserRepository()

	referrer, err := users.GetByUIDForUpdate(ctx, referrerUID)
	if err != nil {
		return fmt.Errorf("failed to lock referrer %s: %w", referrerUID, err)
	}
	if referrer == nil {
		log.WithFields(log.Fields{
			"referrer":  referrerUID,
			"depositor": depositorUID,
		}).Warn("Referrer record missing, reward skipped")
		return nil
	}

	settings, err := uow.SettingsRepository().Get(ctx)
	if err != nil {
		return err
	}
	target := settings.ReferralTarget

	count := referrer.ValidReferralCount + 1
	if err := users.SetValidReferralCount(ctx, referrerUID, count); err != nil {
		return err
	}

	now := time.Now()

	switch {
	case count == target:
		// The premium badge runs a flat year from now, replacing whatever
		// standard time was accumulated
		v := &models.Verification{
			Tier:   models.TierGold,
			Expiry: now.AddDate(0, 0, goldDurationDays),
		}
		if err := users.SetVerification(ctx, referrerUID, v); err != nil {
			return err
		}

		notification := &models.Notification{
			Title: "Gold Verified! 🏆",
			Message: fmt.Sprintf("%s reached %d referrals and earned the GOLD badge for a full year!",
				referrer.Username, target),
		}
		if err := uow.NotificationRepository().Create(ctx, notification); err != nil {
			return err
		}

		uow.EventBus().Publish(events.VerificationGrantedEvent{
			UserID:        referrerUID,
			Tier:          models.TierGold,
			ReferralCount: count,
		})

	case count < target:
		// Each referral stacks 30 days onto the remaining badge time, or
		// onto now when the badge is absent or lapsed
		base := now
		if referrer.Verification != nil && referrer.Verification.Expiry.After(now) {
			base = referrer.Verification.Expiry
		}
		v := &models.Verification{
			Tier:   models.TierBlue,
			Expiry: base.AddDate(0, 0, blueExtensionDays),
		}
		if err := users.SetVerification(ctx, referrerUID, v); err != nil {
			return err
		}

		notification := &models.Notification{
			Title: "Referral Verified ✅",
			Message: fmt.Sprintf("%s earned 30 days of BLUE verification (%d/%d referrals).",
				referrer.Username, count, target),
		}
		if err := uow.NotificationRepository().Create(ctx, notification); err != nil {
			return err
		}

		uow.EventBus().Publish(events.VerificationGrantedEvent{
			UserID:        referrerUID,
			Tier:          models.TierBlue,
			ReferralCount: count,
		})

	default:
		// Past the target the count keeps climbing but the badge is
		// already at its ceiling
		log.WithFields(log.Fields{
			"referrer": referrerUID,
			"count":    count,
		}).Info("Referral counted past target, badge unchanged")
	}

	return nil
}

// CutBalance removes funds from a user. The balance is allowed to go
// negative; cuts are an operator correction, not a purchase.
func (s *rewardService) CutBalance(ctx context.Context, uid string, amount int64) error {
	if amount <= 0 {
		return ErrInvalidAmount
	}

	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	users := uow.UserRepository()

	user, err := users.GetByUIDForUpdate(ctx, uid)
	if err != nil {
		return fmt.Errorf("failed to lock user %s: %w", uid, err)
	}
	if user == nil {
		return ErrUserNotFound
	}

	if err := users.AdjustBalance(ctx, uid, -amount); err != nil {
		return err
	}

	entry := &models.Transaction{
		UserID:      uid,
		Type:        models.TransactionTypeAdminAdjustment,
		Amount:      -amount,
		Status:      models.TransactionSuccess,
		Description: "Balance cut by admin",
	}
	if err := uow.TransactionRepository().Append(ctx, entry); err != nil {
		return err
	}

	uow.EventBus().Publish(events.BalanceChangeEvent{
		UserID:          uid,
		OldBalance:      user.Balance,
		NewBalance:      user.Balance - amount,
		TransactionType: entry.Type,
		ChangeAmount:    -amount,
	})

	return uow.Commit()
}
