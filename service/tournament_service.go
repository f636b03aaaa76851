package service

import (
	"context"
	"fmt"

	"arenabot/models"
	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
)

type tournamentService struct {
	uowFactory UnitOfWorkFactory
	master     MasterCredentials
}

// NewTournamentService creates a new tournament service
func NewTournamentService(uowFactory UnitOfWorkFactory, master MasterCredentials) TournamentService {
	return &tournamentService{
		uowFactory: uowFactory,
		master:     master,
	}
}

func (s *tournamentService) authorize(ctx context.Context, actorUID string) error {
	return requireAdmin(ctx, s.uowFactory, s.master, actorUID, false)
}

// List returns tournaments, soonest first
func (s *tournamentService) List(ctx context.Context, status *models.TournamentStatus) ([]*models.Tournament, error) {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	return uow.TournamentRepository().List(ctx, status)
}

// Get returns a tournament with its participant list. Room credentials are
// blanked unless the viewer joined or is staff.
func (s *tournamentService) Get(ctx context.Context, viewerUID, key string) (*TournamentDetail, error) {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	t, err := uow.TournamentRepository().GetByKey(ctx, key)
	if err != nil {
		return nil, err
	}
	if t == nil {
		return nil, ErrTournamentNotFound
	}

	participants, err := uow.TournamentRepository().ListParticipants(ctx, key)
	if err != nil {
		return nil, err
	}

	joined := false
	for _, uid := range participants {
		if uid == viewerUID {
			joined = true
			break
		}
	}

	privileged := joined || viewerUID == s.master.UID
	if !privileged && viewerUID != "" {
		viewer, err := uow.UserRepository().GetByUID(ctx, viewerUID)
		if err != nil {
			return nil, err
		}
		privileged = viewer != nil && viewer.IsAdmin()
	}
	if !privileged {
		hidden := *t
		hidden.RoomID = ""
		hidden.RoomPass = ""
		t = &hidden
	}

	return &TournamentDetail{
		Tournament:   t,
		Participants: participants,
		Joined:       joined,
	}, nil
}

// Create schedules a new tournament
func (s *tournamentService) Create(ctx context.Context, actorUID string, t *models.Tournament) error {
	if err := s.authorize(ctx, actorUID); err != nil {
		return err
	}
	if t.Title == "" {
		return fmt.Errorf("title is required")
	}
	if t.MaxSlots <= 0 {
		return fmt.Errorf("max slots must be positive")
	}
	if t.EntryFee < 0 || t.PrizePool < 0 || t.PerKill < 0 {
		return fmt.Errorf("money fields cannot be negative")
	}

	if t.Key == "" {
		t.Key = uuid.NewString()
	}
	t.Status = models.TournamentOpen
	t.FilledSlots = 0

	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	if err := uow.TournamentRepository().Create(ctx, t); err != nil {
		return err
	}
	if err := uow.Commit(); err != nil {
		return err
	}

	log.WithFields(log.Fields{
		"key":   t.Key,
		"title": t.Title,
		"fee":   t.EntryFee,
	}).Info("Tournament created")

	return nil
}

// Update rewrites a tournament's admin-editable fields
func (s *tournamentService) Update(ctx context.Context, actorUID string, t *models.Tournament) error {
	if err := s.authorize(ctx, actorUID); err != nil {
		return err
	}

	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	if err := uow.TournamentRepository().Update(ctx, t); err != nil {
		return err
	}
	return uow.Commit()
}

// Delete removes a tournament outright. Cancelled money is not refunded
// here; use Cancel for matches that already sold entries.
func (s *tournamentService) Delete(ctx context.Context, actorUID, key string) error {
	if err := s.authorize(ctx, actorUID); err != nil {
		return err
	}

	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	if err := uow.TournamentRepository().Delete(ctx, key); err != nil {
		return err
	}
	return uow.Commit()
}

// SetRoom publishes the room credentials for a live match
func (s *tournamentService) SetRoom(ctx context.Context, actorUID, key, roomID, roomPass string) error {
	if err := s.authorize(ctx, actorUID); err != nil {
		return err
	}

	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	if err := uow.TournamentRepository().SetRoom(ctx, key, roomID, roomPass); err != nil {
		return err
	}
	return uow.Commit()
}

// Complete marks a finished match
func (s *tournamentService) Complete(ctx context.Context, actorUID, key string) error {
	if err := s.authorize(ctx, actorUID); err != nil {
		return err
	}

	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	if err := uow.TournamentRepository().SetStatus(ctx, key, models.TournamentCompleted); err != nil {
		return err
	}
	return uow.Commit()
}

// Cancel calls off a match and refunds every participant's entry fee in
// the same transaction as the status change.
func (s *tournamentService) Cancel(ctx context.Context, actorUID, key string) error {
	if err := s.authorize(ctx, actorUID); err != nil {
		return err
	}

	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	tournaments := uow.TournamentRepository()

	t, err := tournaments.GetByKeyForUpdate(ctx, key)
	if err != nil {
		return err
	}
	if t == nil {
		return ErrTournamentNotFound
	}
	if t.Status == models.TournamentCompleted || t.Status == models.TournamentCancelled {
		return ErrTournamentClosed
	}

	participants, err := tournaments.ListParticipants(ctx, key)
	if err != nil {
		return err
	}

	if t.EntryFee > 0 {
		for _, uid := range participants {
			if err := uow.UserRepository().AdjustBalance(ctx, uid, t.EntryFee); err != nil {
				return err
			}
			entry := &models.Transaction{
				UserID:      uid,
				Type:        models.TransactionTypeRefund,
				Amount:      t.EntryFee,
				Status:      models.TransactionSuccess,
				Description: fmt.Sprintf("Refund for cancelled %s", t.Title),
			}
			if err := uow.TransactionRepository().Append(ctx, entry); err != nil {
				return err
			}
		}
	}

	if err := tournaments.SetStatus(ctx, key, models.TournamentCancelled); err != nil {
		return err
	}

	if err := uow.Commit(); err != nil {
		return err
	}

	log.WithFields(log.Fields{
		"key":      key,
		"refunded": len(participants),
		"fee":      t.EntryFee,
	}).Info("Tournament cancelled")

	return nil
}
