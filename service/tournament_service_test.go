package service

import (
	"context"
	"testing"

	"arenabot/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newTournamentMocks() (*MockUnitOfWork, *MockUserRepository, *MockTournamentRepository, *MockTransactionRepository, TournamentService) {
	mockUoW := new(MockUnitOfWork)
	mockFactory := new(MockUnitOfWorkFactory)
	mockUsers := new(MockUserRepository)
	mockTournaments := new(MockTournamentRepository)
	mockTransactions := new(MockTransactionRepository)

	mockUoW.SetRepositories(mockUsers, mockTournaments, mockTransactions)
	mockFactory.On("Create").Return(mockUoW)

	return mockUoW, mockUsers, mockTournaments, mockTransactions, NewTournamentService(mockFactory, testMaster)
}

func TestTournamentService_Get_RoomCredentials(t *testing.T) {
	ctx := context.Background()

	live := func() *models.Tournament {
		return &models.Tournament{
			Key:      "match-1",
			Title:    "Evening Scrims",
			Status:   models.TournamentFull,
			RoomID:   "52881",
			RoomPass: "s3cret",
		}
	}

	t.Run("outsiders never see room credentials", func(t *testing.T) {
		mockUoW, mockUsers, mockTournaments, _, svc := newTournamentMocks()

		mockUoW.On("Begin", ctx).Return(nil)
		mockUoW.On("Rollback").Return(nil)
		mockTournaments.On("GetByKey", ctx, "match-1").Return(live(), nil)
		mockTournaments.On("ListParticipants", ctx, "match-1").Return([]string{"someone-else"}, nil)
		mockUsers.On("GetByUID", ctx, "outsider").Return(&models.User{UID: "outsider", Role: models.RoleUser}, nil)

		detail, err := svc.Get(ctx, "outsider", "match-1")
		require.NoError(t, err)
		assert.False(t, detail.Joined)
		assert.Empty(t, detail.Tournament.RoomID)
		assert.Empty(t, detail.Tournament.RoomPass)
	})

	t.Run("participants see room credentials", func(t *testing.T) {
		mockUoW, _, mockTournaments, _, svc := newTournamentMocks()

		mockUoW.On("Begin", ctx).Return(nil)
		mockUoW.On("Rollback").Return(nil)
		mockTournaments.On("GetByKey", ctx, "match-1").Return(live(), nil)
		mockTournaments.On("ListParticipants", ctx, "match-1").Return([]string{"player-1"}, nil)

		detail, err := svc.Get(ctx, "player-1", "match-1")
		require.NoError(t, err)
		assert.True(t, detail.Joined)
		assert.Equal(t, "52881", detail.Tournament.RoomID)
		assert.Equal(t, "s3cret", detail.Tournament.RoomPass)
	})

	t.Run("staff see room credentials without joining", func(t *testing.T) {
		mockUoW, mockUsers, mockTournaments, _, svc := newTournamentMocks()

		mockUoW.On("Begin", ctx).Return(nil)
		mockUoW.On("Rollback").Return(nil)
		mockTournaments.On("GetByKey", ctx, "match-1").Return(live(), nil)
		mockTournaments.On("ListParticipants", ctx, "match-1").Return([]string{"player-1"}, nil)
		mockUsers.On("GetByUID", ctx, "staff-uid").Return(&models.User{UID: "staff-uid", Role: models.RoleSubAdmin}, nil)

		detail, err := svc.Get(ctx, "staff-uid", "match-1")
		require.NoError(t, err)
		assert.Equal(t, "52881", detail.Tournament.RoomID)
	})
}

func TestTournamentService_Cancel(t *testing.T) {
	ctx := context.Background()

	t.Run("cancel refunds every participant", func(t *testing.T) {
		mockUoW, mockUsers, mockTournaments, mockTransactions, svc := newTournamentMocks()

		tournament := &models.Tournament{
			Key:      "match-1",
			Title:    "Evening Scrims",
			EntryFee: 2000,
			Status:   models.TournamentOpen,
		}

		mockUoW.On("Begin", ctx).Return(nil)
		mockUoW.On("Commit").Return(nil)
		mockUoW.On("Rollback").Return(nil)
		mockTournaments.On("GetByKeyForUpdate", ctx, "match-1").Return(tournament, nil)
		mockTournaments.On("ListParticipants", ctx, "match-1").Return([]string{"p1", "p2"}, nil)
		mockUsers.On("AdjustBalance", ctx, "p1", int64(2000)).Return(nil)
		mockUsers.On("AdjustBalance", ctx, "p2", int64(2000)).Return(nil)
		mockTransactions.On("Append", ctx, mock.MatchedBy(func(tx *models.Transaction) bool {
			return tx.Type == models.TransactionTypeRefund && tx.Amount == 2000
		})).Return(nil).Twice()
		mockTournaments.On("SetStatus", ctx, "match-1", models.TournamentCancelled).Return(nil)

		require.NoError(t, svc.Cancel(ctx, testMaster.UID, "match-1"))
		mockUsers.AssertExpectations(t)
		mockTransactions.AssertExpectations(t)
	})

	t.Run("completed matches cannot be cancelled", func(t *testing.T) {
		mockUoW, _, mockTournaments, _, svc := newTournamentMocks()

		tournament := &models.Tournament{Key: "match-1", Status: models.TournamentCompleted}

		mockUoW.On("Begin", ctx).Return(nil)
		mockUoW.On("Rollback").Return(nil)
		mockTournaments.On("GetByKeyForUpdate", ctx, "match-1").Return(tournament, nil)

		err := svc.Cancel(ctx, testMaster.UID, "match-1")
		assert.ErrorIs(t, err, ErrTournamentClosed)
		mockUoW.AssertNotCalled(t, "Commit")
	})
}

func TestTournamentService_Create(t *testing.T) {
	ctx := context.Background()

	t.Run("key and status are assigned", func(t *testing.T) {
		mockUoW, _, mockTournaments, _, svc := newTournamentMocks()

		mockUoW.On("Begin", ctx).Return(nil)
		mockUoW.On("Commit").Return(nil)
		mockUoW.On("Rollback").Return(nil)
		mockTournaments.On("Create", ctx, mock.MatchedBy(func(in *models.Tournament) bool {
			return in.Key != "" && in.Status == models.TournamentOpen && in.FilledSlots == 0
		})).Return(nil)

		in := &models.Tournament{Title: "Evening Scrims", MaxSlots: 48, EntryFee: 2000}
		require.NoError(t, svc.Create(ctx, testMaster.UID, in))
		assert.NotEmpty(t, in.Key)
	})

	t.Run("validation", func(t *testing.T) {
		_, _, _, _, svc := newTournamentMocks()

		assert.Error(t, svc.Create(ctx, testMaster.UID, &models.Tournament{MaxSlots: 48}))
		assert.Error(t, svc.Create(ctx, testMaster.UID, &models.Tournament{Title: "x", MaxSlots: 0}))
		assert.Error(t, svc.Create(ctx, testMaster.UID, &models.Tournament{Title: "x", MaxSlots: 10, EntryFee: -1}))
	})
}
