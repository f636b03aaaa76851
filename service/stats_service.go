package service

import (
	"context"
	"fmt"
	"sort"
	"time"

	"arenabot/models"
)

type statsService struct {
	uowFactory UnitOfWorkFactory
}

// NewStatsService creates a new stats service
func NewStatsService(uowFactory UnitOfWorkFactory) StatsService {
	return &statsService{
		uowFactory: uowFactory,
	}
}

// Leaderboard ranks users by lifetime winnings, highest first. Accounts
// whose winnings counter was never bumped fall back to the sum of their
// winnings ledger rows. Only positive scores are listed.
func (s *statsService) Leaderboard(ctx context.Context, limit int) ([]*LeaderboardEntry, error) {
	if limit <= 0 {
		limit = 50
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

	var entries []*LeaderboardEntry
	for _, user := range users {
		score := user.TotalWinnings
		if score == 0 {
			score, err = uow.TransactionRepository().SumByUserAndType(
				ctx, user.UID, models.TransactionTypeWinnings)
			if err != nil {
				return nil, err
			}
		}
		if score <= 0 {
			continue
		}
		entries = append(entries, &LeaderboardEntry{
			UID:          user.UID,
			Username:     user.Username,
			AvatarURL:    user.AvatarURL,
			Verification: user.Verification,
			Score:        score,
		})
	}

	sort.Slice(entries, func(i, j int) bool {
		return entries[i].Score > entries[j].Score
	})
	if len(entries) > limit {
		entries = entries[:limit]
	}
	for i, entry := range entries {
		entry.Rank = i + 1
	}

	return entries, nil
}

// Notifications returns broadcasts newer than since, newest first
func (s *statsService) Notifications(ctx context.Context, since time.Time, limit int) ([]*models.Notification, error) {
	if limit <= 0 {
		limit = 50
	}

	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	return uow.NotificationRepository().ListSince(ctx, since, limit)
}

// PublicSettings returns the platform settings shown to clients
func (s *statsService) PublicSettings(ctx context.Context) (*models.Settings, error) {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	return uow.SettingsRepository().Get(ctx)
}
