package service

import (
	"context"
	"fmt"
	"time"

	"arenabot/events"
	"arenabot/models"
	log "github.com/sirupsen/logrus"
)

type sessionService struct {
	uowFactory UnitOfWorkFactory
	master     MasterCredentials
}

// NewSessionService creates a new session service
func NewSessionService(uowFactory UnitOfWorkFactory, master MasterCredentials) SessionService {
	return &sessionService{
		uowFactory: uowFactory,
		master:     master,
	}
}

// Resolve loads the user behind a session. A missing record means the
// account was deleted out from under the session and the session is
// revoked. An expired verification badge is cleared here, so a user whose
// badge lapsed sees the change on their next load.
func (s *sessionService) Resolve(ctx context.Context, uid string) (*models.User, error) {
	if uid == s.master.UID {
		return s.master.Profile(), nil
	}

	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	user, err := uow.UserRepository().GetByUID(ctx, uid)
	if err != nil {
		return nil, fmt.Errorf("failed to load user %s: %w", uid, err)
	}
	if user == nil {
		return nil, ErrSessionRevoked
	}
	if user.Banned {
		return nil, ErrBanned
	}

	// The owner is promoted on every load in case the role was tampered with
	if user.Email == s.master.Email && user.Role != models.RoleAdmin {
		if err := uow.UserRepository().SetRole(ctx, user.UID, models.RoleAdmin); err != nil {
			return nil, err
		}
		user.Role = models.RoleAdmin
	}

	if user.Verification != nil && user.Verification.Expired(time.Now()) {
		if err := uow.UserRepository().SetVerification(ctx, user.UID, nil); err != nil {
			return nil, err
		}
		user.Verification = nil
		uow.EventBus().Publish(events.VerificationExpiredEvent{UserID: user.UID})

		log.WithField("uid", user.UID).Info("Cleared expired verification on session resolve")
	}

	if err := uow.UserRepository().TouchLastActive(ctx, user.UID); err != nil {
		return nil, err
	}
	if err := uow.Commit(); err != nil {
		return nil, err
	}

	return user, nil
}

// UpdateProfile updates the caller's own profile fields
func (s *sessionService) UpdateProfile(ctx context.Context, user *models.User) error {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	if err := uow.UserRepository().UpdateProfile(ctx, user); err != nil {
		return err
	}
	return uow.Commit()
}
