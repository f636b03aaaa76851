package repository

import (
	"context"
	"testing"
	"time"

	"arenabot/models"
	"arenabot/repository/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserRepository_GetByUID(t *testing.T) {
	t.Parallel()
	testDB := testutil.SetupTestDatabase(t)

	repo := NewUserRepository(testDB.DB)
	ctx := context.Background()

	t.Run("user not found", func(t *testing.T) {
		user, err := repo.GetByUID(ctx, "missing-uid")
		require.NoError(t, err)
		assert.Nil(t, user)
	})

	t.Run("user found", func(t *testing.T) {
		testUser := testutil.CreateTestUser("uid-1", "testuser")
		require.NoError(t, repo.Create(ctx, testUser))

		user, err := repo.GetByUID(ctx, "uid-1")
		require.NoError(t, err)
		require.NotNil(t, user)

		assert.Equal(t, testUser.Email, user.Email)
		assert.Equal(t, testUser.Username, user.Username)
		assert.Equal(t, testUser.Balance, user.Balance)
		assert.Equal(t, models.RoleUser, user.Role)
		assert.Nil(t, user.Verification)
		assert.Empty(t, user.BlockedUsers)
		assert.False(t, user.CreatedAt.IsZero())
	})

	t.Run("referred user round trip", func(t *testing.T) {
		referrer := testutil.CreateTestUser("uid-ref", "referrer")
		require.NoError(t, repo.Create(ctx, referrer))

		referred := testutil.CreateTestReferredUser("uid-2", "referred", "uid-ref")
		require.NoError(t, repo.Create(ctx, referred))

		user, err := repo.GetByUID(ctx, "uid-2")
		require.NoError(t, err)
		require.NotNil(t, user)
		require.NotNil(t, user.ReferredBy)
		assert.Equal(t, "uid-ref", *user.ReferredBy)
		assert.False(t, user.HasDeposited)
		assert.Zero(t, user.ValidReferralCount)
	})
}

func TestUserRepository_GetByEmail(t *testing.T) {
	t.Parallel()
	testDB := testutil.SetupTestDatabase(t)

	repo := NewUserRepository(testDB.DB)
	ctx := context.Background()

	t.Run("email not found", func(t *testing.T) {
		user, err := repo.GetByEmail(ctx, "nobody@example.com")
		require.NoError(t, err)
		assert.Nil(t, user)
	})

	t.Run("email found", func(t *testing.T) {
		testUser := testutil.CreateTestUser("uid-email", "mailuser")
		require.NoError(t, repo.Create(ctx, testUser))

		user, err := repo.GetByEmail(ctx, "mailuser@example.com")
		require.NoError(t, err)
		require.NotNil(t, user)
		assert.Equal(t, "uid-email", user.UID)
	})

	t.Run("duplicate email rejected", func(t *testing.T) {
		first := testutil.CreateTestUser("uid-dup-1", "dupuser")
		require.NoError(t, repo.Create(ctx, first))

		second := testutil.CreateTestUser("uid-dup-2", "otheruser")
		second.Email = first.Email
		assert.Error(t, repo.Create(ctx, second))
	})
}

func TestUserRepository_DeductBalance(t *testing.T) {
	t.Parallel()
	testDB := testutil.SetupTestDatabase(t)

	repo := NewUserRepository(testDB.DB)
	ctx := context.Background()

	t.Run("successful deduction", func(t *testing.T) {
		testUser := testutil.CreateTestUserWithBalance("uid-pay", "payer", 5000)
		require.NoError(t, repo.Create(ctx, testUser))

		require.NoError(t, repo.DeductBalance(ctx, "uid-pay", 2000))

		user, err := repo.GetByUID(ctx, "uid-pay")
		require.NoError(t, err)
		assert.Equal(t, int64(3000), user.Balance)
	})

	t.Run("insufficient balance", func(t *testing.T) {
		testUser := testutil.CreateTestUserWithBalance("uid-poor", "pooruser", 1000)
		require.NoError(t, repo.Create(ctx, testUser))

		err := repo.DeductBalance(ctx, "uid-poor", 2000)
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "insufficient balance")

		// Balance untouched
		user, err := repo.GetByUID(ctx, "uid-poor")
		require.NoError(t, err)
		assert.Equal(t, int64(1000), user.Balance)
	})

	t.Run("user not found", func(t *testing.T) {
		err := repo.DeductBalance(ctx, "missing-uid", 100)
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "not found")
	})
}

func TestUserRepository_SetVerification(t *testing.T) {
	t.Parallel()
	testDB := testutil.SetupTestDatabase(t)

	repo := NewUserRepository(testDB.DB)
	ctx := context.Background()

	t.Run("grant and read back", func(t *testing.T) {
		testUser := testutil.CreateTestUser("uid-v", "verified")
		require.NoError(t, repo.Create(ctx, testUser))

		expiry := time.Now().Add(30 * 24 * time.Hour).UTC().Truncate(time.Millisecond)
		err := repo.SetVerification(ctx, "uid-v", &models.Verification{
			Tier:   models.TierBlue,
			Expiry: expiry,
		})
		require.NoError(t, err)

		user, err := repo.GetByUID(ctx, "uid-v")
		require.NoError(t, err)
		require.NotNil(t, user.Verification)
		assert.Equal(t, models.TierBlue, user.Verification.Tier)
		assert.WithinDuration(t, expiry, user.Verification.Expiry, time.Second)
	})

	t.Run("nil clears the badge", func(t *testing.T) {
		testUser := testutil.CreateTestUser("uid-v2", "revoked")
		require.NoError(t, repo.Create(ctx, testUser))

		err := repo.SetVerification(ctx, "uid-v2", &models.Verification{
			Tier:   models.TierGold,
			Expiry: time.Now().Add(time.Hour),
		})
		require.NoError(t, err)

		require.NoError(t, repo.SetVerification(ctx, "uid-v2", nil))

		user, err := repo.GetByUID(ctx, "uid-v2")
		require.NoError(t, err)
		assert.Nil(t, user.Verification)
	})
}

func TestUserRepository_ClearExpiredVerifications(t *testing.T) {
	t.Parallel()
	testDB := testutil.SetupTestDatabase(t)

	repo := NewUserRepository(testDB.DB)
	ctx := context.Background()

	now := time.Now()

	expired := testutil.CreateTestUser("uid-expired", "lapsed")
	require.NoError(t, repo.Create(ctx, expired))
	require.NoError(t, repo.SetVerification(ctx, "uid-expired", &models.Verification{
		Tier:   models.TierBlue,
		Expiry: now.Add(-time.Hour),
	}))

	active := testutil.CreateTestUser("uid-active", "active")
	require.NoError(t, repo.Create(ctx, active))
	require.NoError(t, repo.SetVerification(ctx, "uid-active", &models.Verification{
		Tier:   models.TierGold,
		Expiry: now.Add(time.Hour),
	}))

	cleared, err := repo.ClearExpiredVerifications(ctx, now)
	require.NoError(t, err)
	assert.Equal(t, int64(1), cleared)

	user, err := repo.GetByUID(ctx, "uid-expired")
	require.NoError(t, err)
	assert.Nil(t, user.Verification)

	user, err = repo.GetByUID(ctx, "uid-active")
	require.NoError(t, err)
	require.NotNil(t, user.Verification)
	assert.Equal(t, models.TierGold, user.Verification.Tier)
}

func TestUserRepository_BlockUnblock(t *testing.T) {
	t.Parallel()
	testDB := testutil.SetupTestDatabase(t)

	repo := NewUserRepository(testDB.DB)
	ctx := context.Background()

	blocker := testutil.CreateTestUser("uid-blocker", "blocker")
	require.NoError(t, repo.Create(ctx, blocker))
	blocked := testutil.CreateTestUser("uid-blocked", "blocked")
	require.NoError(t, repo.Create(ctx, blocked))

	require.NoError(t, repo.Block(ctx, "uid-blocker", "uid-blocked"))
	// Blocking twice is a no-op
	require.NoError(t, repo.Block(ctx, "uid-blocker", "uid-blocked"))

	user, err := repo.GetByUID(ctx, "uid-blocker")
	require.NoError(t, err)
	assert.Equal(t, []string{"uid-blocked"}, user.BlockedUsers)
	assert.True(t, user.HasBlocked("uid-blocked"))

	require.NoError(t, repo.Unblock(ctx, "uid-blocker", "uid-blocked"))

	user, err = repo.GetByUID(ctx, "uid-blocker")
	require.NoError(t, err)
	assert.Empty(t, user.BlockedUsers)
}

func TestUserRepository_ReferralCounters(t *testing.T) {
	t.Parallel()
	testDB := testutil.SetupTestDatabase(t)

	repo := NewUserRepository(testDB.DB)
	ctx := context.Background()

	testUser := testutil.CreateTestUser("uid-counters", "counters")
	require.NoError(t, repo.Create(ctx, testUser))

	require.NoError(t, repo.SetHasDeposited(ctx, "uid-counters"))
	require.NoError(t, repo.SetValidReferralCount(ctx, "uid-counters", 7))
	require.NoError(t, repo.AddTotalWinnings(ctx, "uid-counters", 12500))

	user, err := repo.GetByUID(ctx, "uid-counters")
	require.NoError(t, err)
	assert.True(t, user.HasDeposited)
	assert.Equal(t, 7, user.ValidReferralCount)
	assert.Equal(t, int64(12500), user.TotalWinnings)
}
