package service

import (
	"context"
	"testing"

	"arenabot/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newAuthMocks() (*MockUnitOfWork, *MockUserRepository, AuthService) {
	mockUoW := new(MockUnitOfWork)
	mockFactory := new(MockUnitOfWorkFactory)
	mockUsers := new(MockUserRepository)

	mockUoW.SetRepositories(mockUsers, nil, nil)
	mockFactory.On("Create").Return(mockUoW)

	return mockUoW, mockUsers, NewAuthService(mockFactory, testMaster)
}

func TestAuthService_Login(t *testing.T) {
	ctx := context.Background()

	t.Run("master login with the right password", func(t *testing.T) {
		mockUoW, _, svc := newAuthMocks()

		user, err := svc.Login(ctx, "Owner@Example.com", "super-secret")
		require.NoError(t, err)
		assert.Equal(t, "master-uid", user.UID)
		assert.Equal(t, models.RoleAdmin, user.Role)
		mockUoW.AssertNotCalled(t, "Begin", ctx)
	})

	t.Run("master login with the wrong password", func(t *testing.T) {
		_, _, svc := newAuthMocks()

		_, err := svc.Login(ctx, "owner@example.com", "guess")
		assert.ErrorIs(t, err, ErrInvalidPassword)
	})

	t.Run("regular login by verified email", func(t *testing.T) {
		mockUoW, mockUsers, svc := newAuthMocks()

		stored := &models.User{UID: "user-1", Email: "player@example.com"}

		mockUoW.On("Begin", ctx).Return(nil)
		mockUoW.On("Commit").Return(nil)
		mockUoW.On("Rollback").Return(nil)
		mockUsers.On("GetByEmail", ctx, "player@example.com").Return(stored, nil)
		mockUsers.On("TouchLastActive", ctx, "user-1").Return(nil)

		user, err := svc.Login(ctx, "  Player@Example.com ", "")
		require.NoError(t, err)
		assert.Equal(t, "user-1", user.UID)
	})

	t.Run("unknown email", func(t *testing.T) {
		mockUoW, mockUsers, svc := newAuthMocks()

		mockUoW.On("Begin", ctx).Return(nil)
		mockUoW.On("Rollback").Return(nil)
		mockUsers.On("GetByEmail", ctx, "nobody@example.com").Return(nil, nil)

		_, err := svc.Login(ctx, "nobody@example.com", "")
		assert.ErrorIs(t, err, ErrUserNotFound)
	})

	t.Run("banned account", func(t *testing.T) {
		mockUoW, mockUsers, svc := newAuthMocks()

		mockUoW.On("Begin", ctx).Return(nil)
		mockUoW.On("Rollback").Return(nil)
		mockUsers.On("GetByEmail", ctx, "banned@example.com").Return(&models.User{UID: "user-1", Banned: true}, nil)

		_, err := svc.Login(ctx, "banned@example.com", "")
		assert.ErrorIs(t, err, ErrBanned)
	})
}

func TestAuthService_Signup(t *testing.T) {
	ctx := context.Background()

	t.Run("successful signup with a referral code", func(t *testing.T) {
		mockUoW, mockUsers, svc := newAuthMocks()

		referrer := &models.User{UID: "ref-1", Username: "referrer"}

		mockUoW.On("Begin", ctx).Return(nil)
		mockUoW.On("Commit").Return(nil)
		mockUoW.On("Rollback").Return(nil)
		mockUsers.On("GetByEmail", ctx, "new@example.com").Return(nil, nil)
		mockUsers.On("GetByUID", ctx, "ref-1").Return(referrer, nil)
		mockUsers.On("Create", ctx, mock.MatchedBy(func(u *models.User) bool {
			return u.Email == "new@example.com" &&
				u.Role == models.RoleUser &&
				u.ReferredBy != nil && *u.ReferredBy == "ref-1"
		})).Return(nil)

		user, err := svc.Signup(ctx, "New@Example.com", "newbie", "", "ref-1")
		require.NoError(t, err)
		assert.NotEmpty(t, user.UID)
		mockUsers.AssertExpectations(t)
	})

	t.Run("unknown referral code is dropped, not fatal", func(t *testing.T) {
		mockUoW, mockUsers, svc := newAuthMocks()

		mockUoW.On("Begin", ctx).Return(nil)
		mockUoW.On("Commit").Return(nil)
		mockUoW.On("Rollback").Return(nil)
		mockUsers.On("GetByEmail", ctx, "new@example.com").Return(nil, nil)
		mockUsers.On("GetByUID", ctx, "bogus-code").Return(nil, nil)
		mockUsers.On("Create", ctx, mock.MatchedBy(func(u *models.User) bool {
			return u.ReferredBy == nil
		})).Return(nil)

		user, err := svc.Signup(ctx, "new@example.com", "newbie", "", "bogus-code")
		require.NoError(t, err)
		assert.Nil(t, user.ReferredBy)
	})

	t.Run("duplicate email", func(t *testing.T) {
		mockUoW, mockUsers, svc := newAuthMocks()

		mockUoW.On("Begin", ctx).Return(nil)
		mockUoW.On("Rollback").Return(nil)
		mockUsers.On("GetByEmail", ctx, "taken@example.com").Return(&models.User{UID: "user-1"}, nil)

		_, err := svc.Signup(ctx, "taken@example.com", "dupe", "", "")
		assert.ErrorIs(t, err, ErrEmailTaken)
		mockUoW.AssertNotCalled(t, "Commit")
	})

	t.Run("master email cannot be registered", func(t *testing.T) {
		mockUoW, _, svc := newAuthMocks()

		_, err := svc.Signup(ctx, "owner@example.com", "impostor", "", "")
		assert.ErrorIs(t, err, ErrMasterSignup)
		mockUoW.AssertNotCalled(t, "Begin", ctx)
	})
}
