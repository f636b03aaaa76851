package handlers

import (
	"errors"

	"arenabot/service"
	"github.com/gofiber/fiber/v2"
	log "github.com/sirupsen/logrus"
)

type errorMapping struct {
	status  int
	message string
}

// Client message texts are stable; the mobile client matches on them
var errorMappings = map[error]errorMapping{
	service.ErrUserNotFound:        {fiber.StatusNotFound, "User not found"},
	service.ErrSessionRevoked:      {fiber.StatusUnauthorized, "Session expired. Please log in again."},
	service.ErrBanned:              {fiber.StatusForbidden, "Your account has been banned."},
	service.ErrInvalidPassword:     {fiber.StatusUnauthorized, "Invalid credentials"},
	service.ErrEmailTaken:          {fiber.StatusConflict, "This email is already registered."},
	service.ErrMasterSignup:        {fiber.StatusBadRequest, "This email cannot be used."},
	service.ErrUnauthorized:        {fiber.StatusForbidden, "You are not allowed to do that."},
	service.ErrMasterImmutable:     {fiber.StatusForbidden, "This account cannot be modified."},
	service.ErrInsufficientBalance: {fiber.StatusBadRequest, "Insufficient balance"},
	service.ErrBelowMinWithdraw:    {fiber.StatusBadRequest, "Amount is below the minimum withdrawal."},
	service.ErrInvalidAmount:       {fiber.StatusBadRequest, "Enter a valid amount."},
	service.ErrGameUIDRequired:     {fiber.StatusBadRequest, "Please set your game UID in your profile first."},
	service.ErrUnknownPlan:         {fiber.StatusBadRequest, "Unknown verification plan."},
	service.ErrTournamentNotFound:  {fiber.StatusNotFound, "Tournament not found"},
	service.ErrTournamentClosed:    {fiber.StatusBadRequest, "This tournament is not open."},
	service.ErrTournamentFull:      {fiber.StatusBadRequest, "Tournament is full."},
	service.ErrAlreadyJoined:       {fiber.StatusBadRequest, "You have already joined this tournament."},
	service.ErrBlocked:             {fiber.StatusForbidden, "You cannot message this user."},
	service.ErrEmptyMessage:        {fiber.StatusBadRequest, "Message cannot be empty."},
}

// respondError maps service sentinels to client responses. Anything
// unmapped is an internal failure and deliberately opaque.
func respondError(c *fiber.Ctx, err error) error {
	for sentinel, mapping := range errorMappings {
		if errors.Is(err, sentinel) {
			return c.Status(mapping.status).JSON(fiber.Map{"error": mapping.message})
		}
	}

	log.WithError(err).WithFields(log.Fields{
		"method": c.Method(),
		"path":   c.Path(),
	}).Error("Request failed")

	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
		"error": "Connection Error",
	})
}
