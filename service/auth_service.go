package service

import (
	"context"
	"fmt"
	"strings"

	"arenabot/events"
	"arenabot/models"
	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
)

// MasterCredentials identifies the owner account. It lives in configuration
// rather than the users table, so it can never be banned or demoted through
// the API.
type MasterCredentials struct {
	Email    string
	Password string
	UID      string
}

// Profile synthesizes the owner's user record
func (m MasterCredentials) Profile() *models.User {
	return &models.User{
		UID:      m.UID,
		Email:    m.Email,
		Username: "Admin",
		Role:     models.RoleAdmin,
	}
}

type authService struct {
	uowFactory UnitOfWorkFactory
	master     MasterCredentials
}

// NewAuthService creates a new auth service
func NewAuthService(uowFactory UnitOfWorkFactory, master MasterCredentials) AuthService {
	return &authService{
		uowFactory: uowFactory,
		master:     master,
	}
}

// Login authenticates by email. The master email short-circuits to the
// synthesized owner profile and is the only account with a password checked
// here; regular accounts are authenticated upstream by the identity
// provider, which hands us a verified email.
func (s *authService) Login(ctx context.Context, email, password string) (*models.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	if email == strings.ToLower(s.master.Email) {
		if password != s.master.Password {
			return nil, ErrInvalidPassword
		}
		log.WithField("uid", s.master.UID).Info("Master login")
		return s.master.Profile(), nil
	}

	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	user, err := uow.UserRepository().GetByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("failed to look up user: %w", err)
	}
	if user == nil {
		return nil, ErrUserNotFound
	}
	if user.Banned {
		return nil, ErrBanned
	}

	if err := uow.UserRepository().TouchLastActive(ctx, user.UID); err != nil {
		return nil, err
	}
	if err := uow.Commit(); err != nil {
		return nil, err
	}

	return user, nil
}

// Signup registers a new account. The referral code is the referrer's uid;
// an unknown code is dropped with a warning rather than failing the signup.
func (s *authService) Signup(ctx context.Context, email, username, password, referralCode string) (*models.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	username = strings.TrimSpace(username)

	if email == "" || username == "" {
		return nil, fmt.Errorf("email and username are required")
	}
	if email == strings.ToLower(s.master.Email) {
		return nil, ErrMasterSignup
	}

	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	existing, err := uow.UserRepository().GetByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("failed to check email: %w", err)
	}
	if existing != nil {
		return nil, ErrEmailTaken
	}

	var referredBy *string
	if code := strings.TrimSpace(referralCode); code != "" {
		referrer, err := uow.UserRepository().GetByUID(ctx, code)
		if err != nil {
			return nil, fmt.Errorf("failed to check referral code: %w", err)
		}
		if referrer == nil {
			log.WithFields(log.Fields{
				"email": email,
				"code":  code,
			}).Warn("Unknown referral code dropped at signup")
		} else {
			referredBy = &referrer.UID
		}
	}

	user := &models.User{
		UID:        uuid.NewString(),
		Email:      email,
		Username:   username,
		Role:       models.RoleUser,
		ReferredBy: referredBy,
	}

	if err := uow.UserRepository().Create(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	event := events.UserCreatedEvent{
		UserID:   user.UID,
		Email:    user.Email,
		Username: user.Username,
	}
	if referredBy != nil {
		event.ReferredBy = *referredBy
	}
	uow.EventBus().Publish(event)

	if err := uow.Commit(); err != nil {
		return nil, err
	}

	log.WithFields(log.Fields{
		"uid":      user.UID,
		"referred": referredBy != nil,
	}).Info("User signed up")

	return user, nil
}
