package worker

import (
	"context"
	"encoding/json"
	"fmt"

	"arenabot/models"
	"arenabot/notifier"
	"arenabot/service"
	log "github.com/sirupsen/logrus"
)

const (
	// maxAttempts is how many deliveries are tried before a row is parked
	maxAttempts = 5

	// batchSize bounds one drain pass
	batchSize = 20
)

// Dispatcher drains the outbox to the operator notifier. Rows that fail
// keep their error and are retried on the next pass until maxAttempts.
type Dispatcher struct {
	outbox service.OutboxRepository
	sender notifier.Sender
}

// NewDispatcher creates a new outbox dispatcher
func NewDispatcher(outbox service.OutboxRepository, sender notifier.Sender) *Dispatcher {
	return &Dispatcher{
		outbox: outbox,
		sender: sender,
	}
}

// Drain delivers one batch of pending messages
func (d *Dispatcher) Drain(ctx context.Context) {
	pending, err := d.outbox.Pending(ctx, maxAttempts, batchSize)
	if err != nil {
		log.WithError(err).Error("Failed to load pending outbox messages")
		return
	}

	for _, msg := range pending {
		text, err := formatMessage(msg)
		if err != nil {
			// Malformed payloads never become deliverable; park them
			log.WithError(err).WithField("id", msg.ID).Error("Undeliverable outbox message")
			if markErr := d.outbox.MarkFailed(ctx, msg.ID, err.Error()); markErr != nil {
				log.WithError(markErr).WithField("id", msg.ID).Error("Failed to record outbox failure")
			}
			continue
		}

		if err := d.sender.Send(ctx, text); err != nil {
			log.WithError(err).WithFields(log.Fields{
				"id":       msg.ID,
				"attempts": msg.Attempts + 1,
			}).Warn("Outbox delivery failed")
			if markErr := d.outbox.MarkFailed(ctx, msg.ID, err.Error()); markErr != nil {
				log.WithError(markErr).WithField("id", msg.ID).Error("Failed to record outbox failure")
			}
			continue
		}

		if err := d.outbox.MarkSent(ctx, msg.ID); err != nil {
			log.WithError(err).WithField("id", msg.ID).Error("Failed to mark outbox message sent")
		}
	}
}

func formatMessage(msg *models.OutboxMessage) (string, error) {
	switch msg.Kind {
	case models.OutboxWithdrawalRequest:
		var p models.WithdrawalPayload
		if err := json.Unmarshal(msg.Payload, &p); err != nil {
			return "", fmt.Errorf("failed to decode withdrawal payload: %w", err)
		}
		return fmt.Sprintf(
			"💸 Withdrawal request\nUser: %s (%s)\nAmount: ₹%s\nFee: ₹%s\nPayable: ₹%s\nPay to: %s",
			p.Username, p.UID,
			notifier.Rupees(p.Gross), notifier.Rupees(p.Fee), notifier.Rupees(p.Net),
			p.PaymentDetails,
		), nil

	case models.OutboxFirstDeposit:
		var p models.FirstDepositPayload
		if err := json.Unmarshal(msg.Payload, &p); err != nil {
			return "", fmt.Errorf("failed to decode first deposit payload: %w", err)
		}
		text := fmt.Sprintf("🎉 First deposit\nUser: %s (%s)\nAmount: ₹%s",
			p.Username, p.UID, notifier.Rupees(p.Amount))
		if p.ReferrerUID != "" {
			text += fmt.Sprintf("\nReferred by: %s", p.ReferrerUID)
		}
		return text, nil

	default:
		return "", fmt.Errorf("unknown outbox kind %q", msg.Kind)
	}
}
