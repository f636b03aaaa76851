package service

import (
	"context"
	"encoding/json"
	"fmt"

	"arenabot/events"
	"arenabot/models"
	"arenabot/notifier"
	log "github.com/sirupsen/logrus"
)

// withdrawalFeePercent is the platform cut on every withdrawal
const withdrawalFeePercent = 5

type walletService struct {
	uowFactory UnitOfWorkFactory
}

// NewWalletService creates a new wallet service
func NewWalletService(uowFactory UnitOfWorkFactory) WalletService {
	return &walletService{
		uowFactory: uowFactory,
	}
}

// JoinTournament pays the entry fee and seats the user. The balance
// deduction, the participant row, the slot counter and the ledger entry
// all commit together or not at all.
func (s *walletService) JoinTournament(ctx context.Context, uid, tournamentKey string) error {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	user, err := uow.UserRepository().GetByUIDForUpdate(ctx, uid)
	if err != nil {
		return fmt.Errorf("failed to lock user %s: %w", uid, err)
	}
	if user == nil {
		return ErrUserNotFound
	}
	if user.GameUID == "" {
		return ErrGameUIDRequired
	}

	tournaments := uow.TournamentRepository()

	t, err := tournaments.GetByKeyForUpdate(ctx, tournamentKey)
	if err != nil {
		return fmt.Errorf("failed to lock tournament %s: %w", tournamentKey, err)
	}
	if t == nil {
		return ErrTournamentNotFound
	}
	if t.Status != models.TournamentOpen {
		return ErrTournamentClosed
	}
	if t.IsFull() {
		return ErrTournamentFull
	}

	joined, err := tournaments.HasParticipant(ctx, tournamentKey, uid)
	if err != nil {
		return err
	}
	if joined {
		return ErrAlreadyJoined
	}

	if user.Balance < t.EntryFee {
		return ErrInsufficientBalance
	}
	if t.EntryFee > 0 {
		if err := uow.UserRepository().DeductBalance(ctx, uid, t.EntryFee); err != nil {
			return err
		}
	}

	filled, err := tournaments.AddParticipant(ctx, tournamentKey, uid)
	if err != nil {
		return err
	}
	if filled >= t.MaxSlots {
		if err := tournaments.SetStatus(ctx, tournamentKey, models.TournamentFull); err != nil {
			return err
		}
	}

	entry := &models.Transaction{
		UserID:      uid,
		Type:        models.TransactionTypeJoinFee,
		Amount:      -t.EntryFee,
		Status:      models.TransactionSuccess,
		Description: fmt.Sprintf("Entry fee for %s", t.Title),
	}
	if err := uow.TransactionRepository().Append(ctx, entry); err != nil {
		return err
	}

	uow.EventBus().Publish(events.TournamentJoinedEvent{
		UserID:        uid,
		TournamentKey: tournamentKey,
		EntryFee:      t.EntryFee,
	})

	if err := uow.Commit(); err != nil {
		return err
	}

	log.WithFields(log.Fields{
		"uid":        uid,
		"tournament": tournamentKey,
		"fee":        t.EntryFee,
		"filled":     filled,
	}).Info("User joined tournament")

	return nil
}

// withdrawalFee is the platform cut on a gross amount, rounded half up
func withdrawalFee(gross int64) int64 {
	return (gross*withdrawalFeePercent + 50) / 100
}

// Withdraw debits the gross amount up front and records the payable net.
// The payout itself is settled manually by the operator, who is notified
// through the outbox; the user gets a WhatsApp deep link to follow up.
func (s *walletService) Withdraw(ctx context.Context, uid string, amount int64, paymentDetails string) (*WithdrawalReceipt, error) {
	if amount <= 0 {
		return nil, ErrInvalidAmount
	}

	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	settings, err := uow.SettingsRepository().Get(ctx)
	if err != nil {
		return nil, err
	}
	if amount < settings.MinWithdraw {
		return nil, ErrBelowMinWithdraw
	}

	user, err := uow.UserRepository().GetByUIDForUpdate(ctx, uid)
	if err != nil {
		return nil, fmt.Errorf("failed to lock user %s: %w", uid, err)
	}
	if user == nil {
		return nil, ErrUserNotFound
	}
	if user.Balance < amount {
		return nil, ErrInsufficientBalance
	}

	fee := withdrawalFee(amount)
	net := amount - fee

	if err := uow.UserRepository().DeductBalance(ctx, uid, amount); err != nil {
		return nil, err
	}

	ledger := uow.TransactionRepository()

	withdrawal := &models.Transaction{
		UserID:      uid,
		Type:        models.TransactionTypeWithdraw,
		Amount:      amount,
		NetAmount:   &net,
		Status:      models.TransactionPending,
		Description: fmt.Sprintf("Withdrawal to %s", paymentDetails),
	}
	if err := ledger.Append(ctx, withdrawal); err != nil {
		return nil, err
	}

	commission := &models.Transaction{
		UserID:      models.PlatformUserID,
		Type:        models.TransactionTypeCommission,
		Amount:      fee,
		Status:      models.TransactionSuccess,
		Description: fmt.Sprintf("Withdrawal commission from %s", uid),
	}
	if err := ledger.Append(ctx, commission); err != nil {
		return nil, err
	}

	payload, err := json.Marshal(models.WithdrawalPayload{
		UID:            uid,
		Username:       user.Username,
		Gross:          amount,
		Fee:            fee,
		Net:            net,
		PaymentDetails: paymentDetails,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to encode withdrawal payload: %w", err)
	}
	err = uow.OutboxRepository().Enqueue(ctx, &models.OutboxMessage{
		Kind:    models.OutboxWithdrawalRequest,
		Payload: payload,
	})
	if err != nil {
		return nil, err
	}

	uow.EventBus().Publish(events.WithdrawalRequestedEvent{
		UserID: uid,
		Gross:  amount,
		Fee:    fee,
		Net:    net,
	})

	if err := uow.Commit(); err != nil {
		return nil, err
	}

	log.WithFields(log.Fields{
		"uid":   uid,
		"gross": amount,
		"fee":   fee,
		"net":   net,
	}).Info("Withdrawal requested")

	return &WithdrawalReceipt{
		Gross: amount,
		Fee:   fee,
		Net:   net,
		WhatsAppLink: notifier.WithdrawalLink(
			settings.AdminWhatsapp, user.Username, uid, amount, fee, net, paymentDetails),
	}, nil
}

// RequestVerification hands back the WhatsApp deep link a user opens
// after paying for a verification plan. Nothing is written; the operator
// checks the payment and grants the badge from the admin console.
func (s *walletService) RequestVerification(ctx context.Context, uid string, planID int) (*VerificationReceipt, error) {
	plan := models.VerificationPlanByID(planID)
	if plan == nil {
		return nil, ErrUnknownPlan
	}

	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	user, err := uow.UserRepository().GetByUID(ctx, uid)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}

	settings, err := uow.SettingsRepository().Get(ctx)
	if err != nil {
		return nil, err
	}

	return &VerificationReceipt{
		Plan: *plan,
		WhatsAppLink: notifier.VerificationLink(
			settings.AdminWhatsapp, user.Username, uid, plan.Name, plan.Price, string(plan.Tier)),
	}, nil
}

// DepositInfo returns the manual-deposit details for the add-money screen
// and the deep link the user opens after paying the platform UPI.
func (s *walletService) DepositInfo(ctx context.Context, uid string) (*DepositInfo, error) {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	settings, err := uow.SettingsRepository().Get(ctx)
	if err != nil {
		return nil, err
	}

	return &DepositInfo{
		AdminUPI:     settings.AdminUPI,
		QRCodeURL:    settings.QRCodeURL,
		Instruction:  settings.DepositInstruction,
		WhatsAppLink: notifier.DepositLink(settings.AdminWhatsapp, settings.AdminUPI, uid),
	}, nil
}

// AuditUser replays a user's ledger and compares the result with the
// stored balance. Accounts that predate atomic joins can carry drift from
// half-applied writes; this surfaces it.
func (s *walletService) AuditUser(ctx context.Context, uid string) (*LedgerAudit, error) {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	user, err := uow.UserRepository().GetByUID(ctx, uid)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}

	entries, err := uow.TransactionRepository().GetAllByUser(ctx, uid)
	if err != nil {
		return nil, err
	}

	var computed int64
	for _, entry := range entries {
		if entry.Status == models.TransactionFailed {
			continue
		}
		computed += entry.BalanceDelta()
	}

	audit := &LedgerAudit{
		UserID:          uid,
		RecordedBalance: user.Balance,
		ComputedBalance: computed,
		Entries:         len(entries),
	}

	if audit.Drift() != 0 {
		log.WithFields(log.Fields{
			"uid":      uid,
			"recorded": audit.RecordedBalance,
			"computed": audit.ComputedBalance,
			"drift":    audit.Drift(),
		}).Warn("Ledger drift detected")
	}

	return audit, nil
}

// History returns the user's ledger entries, newest first
func (s *walletService) History(ctx context.Context, uid string, limit int) ([]*models.Transaction, error) {
	if limit <= 0 {
		limit = 50
	}

	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	return uow.TransactionRepository().GetByUser(ctx, uid, limit)
}
