package testutil

import (
	"time"

	"arenabot/models"
)

// CreateTestUser creates a test user with default values
func CreateTestUser(uid, username string) *models.User {
	return &models.User{
		UID:      uid,
		Email:    username + "@example.com",
		Username: username,
		Role:     models.RoleUser,
		Balance:  100000,
	}
}

// CreateTestUserWithBalance creates a test user with a specific balance
func CreateTestUserWithBalance(uid, username string, balance int64) *models.User {
	user := CreateTestUser(uid, username)
	user.Balance = balance
	return user
}

// CreateTestReferredUser creates a test user referred by the given uid
func CreateTestReferredUser(uid, username, referrerUID string) *models.User {
	user := CreateTestUser(uid, username)
	user.ReferredBy = &referrerUID
	return user
}

// CreateTestTournament creates an open test tournament
func CreateTestTournament(key string) *models.Tournament {
	return &models.Tournament{
		Key:       key,
		Title:     "Test Scrims",
		Map:       "Bermuda",
		Mode:      models.ModeSolo,
		EntryFee:  2000,
		PrizePool: 50000,
		PerKill:   500,
		StartsAt:  time.Now().Add(2 * time.Hour),
		MaxSlots:  48,
		Status:    models.TournamentOpen,
	}
}

// CreateTestTransaction creates a successful ledger entry
func CreateTestTransaction(userID string, txType models.TransactionType, amount int64) *models.Transaction {
	return &models.Transaction{
		UserID:      userID,
		Type:        txType,
		Amount:      amount,
		Status:      models.TransactionSuccess,
		Description: "test entry",
	}
}
