package service

import (
	"context"
	"testing"
	"time"

	"arenabot/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newRewardMocks() (*MockUnitOfWork, *MockUserRepository, *MockTransactionRepository, *MockSettingsRepository, *MockNotificationRepository, *MockOutboxRepository, RewardService) {
	mockUoW := new(MockUnitOfWork)
	mockFactory := new(MockUnitOfWorkFactory)
	mockUsers := new(MockUserRepository)
	mockTransactions := new(MockTransactionRepository)
	mockSettings := new(MockSettingsRepository)
	mockNotifications := new(MockNotificationRepository)
	mockOutbox := new(MockOutboxRepository)

	mockUoW.SetRepositories(mockUsers, nil, mockTransactions)
	mockUoW.SetSettingsRepository(mockSettings)
	mockUoW.SetNotificationRepository(mockNotifications)
	mockUoW.SetOutboxRepository(mockOutbox)
	mockFactory.On("Create").Return(mockUoW)

	return mockUoW, mockUsers, mockTransactions, mockSettings, mockNotifications, mockOutbox, NewRewardService(mockFactory)
}

func TestRewardService_CreditDeposit_FirstDepositGate(t *testing.T) {
	ctx := context.Background()

	t.Run("first deposit sets the gate and rewards the referrer", func(t *testing.T) {
		mockUoW, mockUsers, mockTransactions, mockSettings, mockNotifications, mockOutbox, svc := newRewardMocks()

		referrerUID := "referrer-1"
		depositor := &models.User{
			UID:        "depositor-1",
			Username:   "depositor",
			Balance:    0,
			ReferredBy: &referrerUID,
		}
		referrer := &models.User{
			UID:                referrerUID,
			Username:           "referrer",
			ValidReferralCount: 2,
		}

		mockUoW.On("Begin", ctx).Return(nil)
		mockUoW.On("Commit").Return(nil)
		mockUoW.On("Rollback").Return(nil)

		mockUsers.On("GetByUIDForUpdate", ctx, "depositor-1").Return(depositor, nil)
		mockUsers.On("AdjustBalance", ctx, "depositor-1", int64(10000)).Return(nil)
		mockUsers.On("SetHasDeposited", ctx, "depositor-1").Return(nil)
		mockUsers.On("GetByUIDForUpdate", ctx, referrerUID).Return(referrer, nil)
		mockUsers.On("SetValidReferralCount", ctx, referrerUID, 3).Return(nil)
		mockUsers.On("SetVerification", ctx, referrerUID, mock.Anything).Return(nil)

		mockTransactions.On("Append", ctx, mock.MatchedBy(func(tx *models.Transaction) bool {
			return tx.Type == models.TransactionTypeDeposit && tx.Amount == 10000
		})).Return(nil)
		mockSettings.On("Get", ctx).Return(models.DefaultSettings(), nil)
		mockNotifications.On("Create", ctx, mock.Anything).Return(nil)
		mockOutbox.On("Enqueue", ctx, mock.MatchedBy(func(msg *models.OutboxMessage) bool {
			return msg.Kind == models.OutboxFirstDeposit
		})).Return(nil)

		err := svc.CreditDeposit(ctx, "depositor-1", 10000, false)
		require.NoError(t, err)

		mockUsers.AssertExpectations(t)
		mockOutbox.AssertExpectations(t)
		mockUoW.AssertExpectations(t)
	})

	t.Run("second deposit does not fire the gate again", func(t *testing.T) {
		mockUoW, mockUsers, mockTransactions, _, _, mockOutbox, svc := newRewardMocks()

		referrerUID := "referrer-1"
		depositor := &models.User{
			UID:          "depositor-1",
			Username:     "depositor",
			Balance:      10000,
			ReferredBy:   &referrerUID,
			HasDeposited: true,
		}

		mockUoW.On("Begin", ctx).Return(nil)
		mockUoW.On("Commit").Return(nil)
		mockUoW.On("Rollback").Return(nil)

		mockUsers.On("GetByUIDForUpdate", ctx, "depositor-1").Return(depositor, nil)
		mockUsers.On("AdjustBalance", ctx, "depositor-1", int64(5000)).Return(nil)
		mockTransactions.On("Append", ctx, mock.Anything).Return(nil)

		err := svc.CreditDeposit(ctx, "depositor-1", 5000, false)
		require.NoError(t, err)

		mockUsers.AssertNotCalled(t, "SetHasDeposited", ctx, "depositor-1")
		mockUsers.AssertNotCalled(t, "SetValidReferralCount", ctx, referrerUID, mock.Anything)
		mockOutbox.AssertNotCalled(t, "Enqueue", ctx, mock.Anything)
	})

	t.Run("winnings never count as a deposit", func(t *testing.T) {
		mockUoW, mockUsers, mockTransactions, _, _, mockOutbox, svc := newRewardMocks()

		depositor := &models.User{UID: "winner-1", Username: "winner"}

		mockUoW.On("Begin", ctx).Return(nil)
		mockUoW.On("Commit").Return(nil)
		mockUoW.On("Rollback").Return(nil)

		mockUsers.On("GetByUIDForUpdate", ctx, "winner-1").Return(depositor, nil)
		mockUsers.On("AdjustBalance", ctx, "winner-1", int64(20000)).Return(nil)
		mockUsers.On("AddTotalWinnings", ctx, "winner-1", int64(20000)).Return(nil)
		mockTransactions.On("Append", ctx, mock.MatchedBy(func(tx *models.Transaction) bool {
			return tx.Type == models.TransactionTypeWinnings
		})).Return(nil)

		err := svc.CreditDeposit(ctx, "winner-1", 20000, true)
		require.NoError(t, err)

		mockUsers.AssertNotCalled(t, "SetHasDeposited", ctx, "winner-1")
		mockOutbox.AssertNotCalled(t, "Enqueue", ctx, mock.Anything)
	})

	t.Run("unknown user", func(t *testing.T) {
		mockUoW, mockUsers, _, _, _, _, svc := newRewardMocks()

		mockUoW.On("Begin", ctx).Return(nil)
		mockUoW.On("Rollback").Return(nil)
		mockUsers.On("GetByUIDForUpdate", ctx, "missing").Return(nil, nil)

		err := svc.CreditDeposit(ctx, "missing", 1000, false)
		assert.ErrorIs(t, err, ErrUserNotFound)
		mockUoW.AssertNotCalled(t, "Commit")
	})
}

func TestRewardService_ReferralBadges(t *testing.T) {
	ctx := context.Background()

	// creditFirstDeposit runs a first deposit for a fresh depositor referred
	// by the given referrer and returns the verification written, if any.
	creditFirstDeposit := func(t *testing.T, referrer *models.User) (*models.Verification, *MockUserRepository, *MockNotificationRepository) {
		mockUoW, mockUsers, mockTransactions, mockSettings, mockNotifications, mockOutbox, svc := newRewardMocks()

		depositor := &models.User{
			UID:        "depositor-1",
			Username:   "depositor",
			ReferredBy: &referrer.UID,
		}

		mockUoW.On("Begin", ctx).Return(nil)
		mockUoW.On("Commit").Return(nil)
		mockUoW.On("Rollback").Return(nil)

		mockUsers.On("GetByUIDForUpdate", ctx, "depositor-1").Return(depositor, nil)
		mockUsers.On("AdjustBalance", ctx, "depositor-1", int64(10000)).Return(nil)
		mockUsers.On("SetHasDeposited", ctx, "depositor-1").Return(nil)
		mockUsers.On("GetByUIDForUpdate", ctx, referrer.UID).Return(referrer, nil)
		mockUsers.On("SetValidReferralCount", ctx, referrer.UID, referrer.ValidReferralCount+1).Return(nil)

		var written *models.Verification
		mockUsers.On("SetVerification", ctx, referrer.UID, mock.Anything).Run(func(args mock.Arguments) {
			written = args.Get(2).(*models.Verification)
		}).Return(nil).Maybe()

		mockTransactions.On("Append", ctx, mock.Anything).Return(nil)
		mockSettings.On("Get", ctx).Return(models.DefaultSettings(), nil)
		mockNotifications.On("Create", ctx, mock.Anything).Return(nil).Maybe()
		mockOutbox.On("Enqueue", ctx, mock.Anything).Return(nil)

		require.NoError(t, svc.CreditDeposit(ctx, "depositor-1", 10000, false))
		return written, mockUsers, mockNotifications
	}

	t.Run("standard badge starts from now when absent", func(t *testing.T) {
		referrer := &models.User{UID: "ref-1", Username: "referrer"}

		v, _, _ := creditFirstDeposit(t, referrer)
		require.NotNil(t, v)
		assert.Equal(t, models.TierBlue, v.Tier)
		assert.WithinDuration(t, time.Now().AddDate(0, 0, 30), v.Expiry, 5*time.Second)
	})

	t.Run("standard badge stacks onto remaining time", func(t *testing.T) {
		remaining := time.Now().Add(10 * 24 * time.Hour)
		referrer := &models.User{
			UID:                "ref-1",
			Username:           "referrer",
			ValidReferralCount: 1,
			Verification:       &models.Verification{Tier: models.TierBlue, Expiry: remaining},
		}

		v, _, _ := creditFirstDeposit(t, referrer)
		require.NotNil(t, v)
		assert.Equal(t, models.TierBlue, v.Tier)
		assert.WithinDuration(t, remaining.AddDate(0, 0, 30), v.Expiry, 5*time.Second)
	})

	t.Run("standard badge restarts from now when lapsed", func(t *testing.T) {
		referrer := &models.User{
			UID:                "ref-1",
			Username:           "referrer",
			ValidReferralCount: 4,
			Verification:       &models.Verification{Tier: models.TierBlue, Expiry: time.Now().Add(-time.Hour)},
		}

		v, _, _ := creditFirstDeposit(t, referrer)
		require.NotNil(t, v)
		assert.Equal(t, models.TierBlue, v.Tier)
		assert.WithinDuration(t, time.Now().AddDate(0, 0, 30), v.Expiry, 5*time.Second)
	})

	t.Run("tenth referral grants the premium badge for a flat year", func(t *testing.T) {
		// Accumulated standard time is discarded on upgrade
		referrer := &models.User{
			UID:                "ref-1",
			Username:           "referrer",
			ValidReferralCount: 9,
			Verification:       &models.Verification{Tier: models.TierBlue, Expiry: time.Now().Add(200 * 24 * time.Hour)},
		}

		v, _, mockNotifications := creditFirstDeposit(t, referrer)
		require.NotNil(t, v)
		assert.Equal(t, models.TierGold, v.Tier)
		assert.WithinDuration(t, time.Now().AddDate(0, 0, 365), v.Expiry, 5*time.Second)
		mockNotifications.AssertCalled(t, "Create", ctx, mock.MatchedBy(func(n *models.Notification) bool {
			return n.Title == "Gold Verified! 🏆"
		}))
	})

	t.Run("past the target only the count moves", func(t *testing.T) {
		referrer := &models.User{
			UID:                "ref-1",
			Username:           "referrer",
			ValidReferralCount: 10,
			Verification:       &models.Verification{Tier: models.TierGold, Expiry: time.Now().Add(300 * 24 * time.Hour)},
		}

		v, mockUsers, _ := creditFirstDeposit(t, referrer)
		assert.Nil(t, v)
		mockUsers.AssertCalled(t, "SetValidReferralCount", ctx, "ref-1", 11)
	})

	t.Run("missing referrer skips the reward but keeps the deposit", func(t *testing.T) {
		mockUoW, mockUsers, mockTransactions, _, _, mockOutbox, svc := newRewardMocks()

		referrerUID := "ghost-referrer"
		depositor := &models.User{
			UID:        "depositor-1",
			Username:   "depositor",
			ReferredBy: &referrerUID,
		}

		mockUoW.On("Begin", ctx).Return(nil)
		mockUoW.On("Commit").Return(nil)
		mockUoW.On("Rollback").Return(nil)

		mockUsers.On("GetByUIDForUpdate", ctx, "depositor-1").Return(depositor, nil)
		mockUsers.On("AdjustBalance", ctx, "depositor-1", int64(10000)).Return(nil)
		mockUsers.On("SetHasDeposited", ctx, "depositor-1").Return(nil)
		mockUsers.On("GetByUIDForUpdate", ctx, referrerUID).Return(nil, nil)
		mockTransactions.On("Append", ctx, mock.Anything).Return(nil)
		mockOutbox.On("Enqueue", ctx, mock.Anything).Return(nil)

		err := svc.CreditDeposit(ctx, "depositor-1", 10000, false)
		require.NoError(t, err)

		mockUsers.AssertNotCalled(t, "SetVerification", ctx, referrerUID, mock.Anything)
		mockUoW.AssertCalled(t, "Commit")
	})
}

func TestRewardService_CutBalance(t *testing.T) {
	ctx := context.Background()

	t.Run("cut appends a negative adjustment", func(t *testing.T) {
		mockUoW, mockUsers, mockTransactions, _, _, _, svc := newRewardMocks()

		user := &models.User{UID: "user-1", Username: "user", Balance: 3000}

		mockUoW.On("Begin", ctx).Return(nil)
		mockUoW.On("Commit").Return(nil)
		mockUoW.On("Rollback").Return(nil)

		mockUsers.On("GetByUIDForUpdate", ctx, "user-1").Return(user, nil)
		mockUsers.On("AdjustBalance", ctx, "user-1", int64(-5000)).Return(nil)
		mockTransactions.On("Append", ctx, mock.MatchedBy(func(tx *models.Transaction) bool {
			return tx.Type == models.TransactionTypeAdminAdjustment && tx.Amount == -5000
		})).Return(nil)

		// The balance may go negative; cuts are corrections
		err := svc.CutBalance(ctx, "user-1", 5000)
		require.NoError(t, err)
		mockUsers.AssertExpectations(t)
	})

	t.Run("rejects non-positive amounts", func(t *testing.T) {
		_, _, _, _, _, _, svc := newRewardMocks()

		assert.ErrorIs(t, svc.CutBalance(ctx, "user-1", 0), ErrInvalidAmount)
		assert.ErrorIs(t, svc.CutBalance(ctx, "user-1", -100), ErrInvalidAmount)
	})
}
