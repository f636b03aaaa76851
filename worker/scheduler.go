package worker

import (
	"context"
	"fmt"
	"time"

	"arenabot/service"
	"github.com/robfig/cron/v3"
	log "github.com/sirupsen/logrus"
)

// Scheduler runs the background jobs: the outbox drain and the
// verification expiry sweep. The sweep covers users whose badge lapsed
// but who never loaded a session afterwards.
type Scheduler struct {
	cron       *cron.Cron
	dispatcher *Dispatcher
	users      service.UserRepository
}

// NewScheduler creates a new scheduler
func NewScheduler(dispatcher *Dispatcher, users service.UserRepository) *Scheduler {
	return &Scheduler{
		cron:       cron.New(),
		dispatcher: dispatcher,
		users:      users,
	}
}

// Start registers the jobs and starts the cron loop
func (s *Scheduler) Start() error {
	if _, err := s.cron.AddFunc("* * * * *", func() {
		s.dispatcher.Drain(context.Background())
	}); err != nil {
		return fmt.Errorf("failed to schedule outbox drain: %w", err)
	}

	if _, err := s.cron.AddFunc("*/10 * * * *", func() {
		s.SweepExpiredVerifications(context.Background())
	}); err != nil {
		return fmt.Errorf("failed to schedule verification sweep: %w", err)
	}

	s.cron.Start()
	log.Info("Background scheduler started")
	return nil
}

// Stop halts the cron loop and waits for running jobs to finish
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	log.Info("Background scheduler stopped")
}

// SweepExpiredVerifications clears every lapsed badge in one statement
func (s *Scheduler) SweepExpiredVerifications(ctx context.Context) {
	cleared, err := s.users.ClearExpiredVerifications(ctx, time.Now())
	if err != nil {
		log.WithError(err).Error("Verification sweep failed")
		return
	}
	if cleared > 0 {
		log.WithField("cleared", cleared).Info("Cleared expired verifications")
	}
}
