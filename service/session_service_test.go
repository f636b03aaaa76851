package service

import (
	"context"
	"testing"
	"time"

	"arenabot/events"
	"arenabot/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var testMaster = MasterCredentials{
	Email:    "owner@example.com",
	Password: "super-secret",
	UID:      "master-uid",
}

func newSessionMocks() (*MockUnitOfWork, *MockUserRepository, SessionService) {
	mockUoW := new(MockUnitOfWork)
	mockFactory := new(MockUnitOfWorkFactory)
	mockUsers := new(MockUserRepository)

	mockUoW.SetRepositories(mockUsers, nil, nil)
	mockFactory.On("Create").Return(mockUoW)

	return mockUoW, mockUsers, NewSessionService(mockFactory, testMaster)
}

func TestSessionService_Resolve(t *testing.T) {
	ctx := context.Background()

	t.Run("master uid never touches the database", func(t *testing.T) {
		mockUoW, _, svc := newSessionMocks()

		user, err := svc.Resolve(ctx, "master-uid")
		require.NoError(t, err)
		assert.Equal(t, models.RoleAdmin, user.Role)
		assert.Equal(t, "owner@example.com", user.Email)
		mockUoW.AssertNotCalled(t, "Begin", ctx)
	})

	t.Run("missing record revokes the session", func(t *testing.T) {
		mockUoW, mockUsers, svc := newSessionMocks()

		mockUoW.On("Begin", ctx).Return(nil)
		mockUoW.On("Rollback").Return(nil)
		mockUsers.On("GetByUID", ctx, "gone-uid").Return(nil, nil)

		_, err := svc.Resolve(ctx, "gone-uid")
		assert.ErrorIs(t, err, ErrSessionRevoked)
	})

	t.Run("banned account is rejected", func(t *testing.T) {
		mockUoW, mockUsers, svc := newSessionMocks()

		mockUoW.On("Begin", ctx).Return(nil)
		mockUoW.On("Rollback").Return(nil)
		mockUsers.On("GetByUID", ctx, "banned-uid").Return(&models.User{UID: "banned-uid", Banned: true}, nil)

		_, err := svc.Resolve(ctx, "banned-uid")
		assert.ErrorIs(t, err, ErrBanned)
	})

	t.Run("master email is promoted on load", func(t *testing.T) {
		mockUoW, mockUsers, svc := newSessionMocks()

		stored := &models.User{UID: "owner-db-uid", Email: "owner@example.com", Role: models.RoleUser}

		mockUoW.On("Begin", ctx).Return(nil)
		mockUoW.On("Commit").Return(nil)
		mockUoW.On("Rollback").Return(nil)
		mockUsers.On("GetByUID", ctx, "owner-db-uid").Return(stored, nil)
		mockUsers.On("SetRole", ctx, "owner-db-uid", models.RoleAdmin).Return(nil)
		mockUsers.On("TouchLastActive", ctx, "owner-db-uid").Return(nil)

		user, err := svc.Resolve(ctx, "owner-db-uid")
		require.NoError(t, err)
		assert.Equal(t, models.RoleAdmin, user.Role)
		mockUsers.AssertExpectations(t)
	})

	t.Run("lapsed badge is cleared on resolve", func(t *testing.T) {
		mockUoW, mockUsers, svc := newSessionMocks()
		captured := &CapturedEvents{}
		mockUoW.SetEventPublisher(captured)

		stored := &models.User{
			UID:          "user-1",
			Email:        "player@example.com",
			Role:         models.RoleUser,
			Verification: &models.Verification{Tier: models.TierBlue, Expiry: time.Now().Add(-time.Minute)},
		}

		mockUoW.On("Begin", ctx).Return(nil)
		mockUoW.On("Commit").Return(nil)
		mockUoW.On("Rollback").Return(nil)
		mockUsers.On("GetByUID", ctx, "user-1").Return(stored, nil)
		mockUsers.On("SetVerification", ctx, "user-1", (*models.Verification)(nil)).Return(nil)
		mockUsers.On("TouchLastActive", ctx, "user-1").Return(nil)

		user, err := svc.Resolve(ctx, "user-1")
		require.NoError(t, err)
		assert.Nil(t, user.Verification)

		require.Len(t, captured.Events, 1)
		expired, ok := captured.Events[0].(events.VerificationExpiredEvent)
		require.True(t, ok)
		assert.Equal(t, "user-1", expired.UserID)
	})

	t.Run("active badge is left alone", func(t *testing.T) {
		mockUoW, mockUsers, svc := newSessionMocks()

		stored := &models.User{
			UID:          "user-1",
			Email:        "player@example.com",
			Role:         models.RoleUser,
			Verification: &models.Verification{Tier: models.TierGold, Expiry: time.Now().Add(time.Hour)},
		}

		mockUoW.On("Begin", ctx).Return(nil)
		mockUoW.On("Commit").Return(nil)
		mockUoW.On("Rollback").Return(nil)
		mockUsers.On("GetByUID", ctx, "user-1").Return(stored, nil)
		mockUsers.On("TouchLastActive", ctx, "user-1").Return(nil)

		user, err := svc.Resolve(ctx, "user-1")
		require.NoError(t, err)
		require.NotNil(t, user.Verification)
		assert.Equal(t, models.TierGold, user.Verification.Tier)
		mockUsers.AssertNotCalled(t, "SetVerification", ctx, "user-1", mock.Anything)
	})
}
