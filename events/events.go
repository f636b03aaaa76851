package events

import (
	"context"
	"sync"

	"arenabot/models"
	log "github.com/sirupsen/logrus"
)

// EventType represents different types of events in the system
type EventType string

const (
	EventTypeBalanceChange        EventType = "balance_change"
	EventTypeUserCreated          EventType = "user_created"
	EventTypeVerificationGranted  EventType = "verification_granted"
	EventTypeVerificationExpired  EventType = "verification_expired"
	EventTypeTournamentJoined     EventType = "tournament_joined"
	EventTypeWithdrawalRequested  EventType = "withdrawal_requested"
	EventTypeUserBanned           EventType = "user_banned"
)

// Event is the base interface for all events
type Event interface {
	Type() EventType
}

// BalanceChangeEvent represents a balance change that occurred
type BalanceChangeEvent struct {
	UserID          string
	OldBalance      int64
	NewBalance      int64
	TransactionType models.TransactionType
	ChangeAmount    int64
}

func (e BalanceChangeEvent) Type() EventType {
	return EventTypeBalanceChange
}

// UserCreatedEvent represents a new signup
type UserCreatedEvent struct {
	UserID     string
	Email      string
	Username   string
	ReferredBy string
}

func (e UserCreatedEvent) Type() EventType {
	return EventTypeUserCreated
}

// VerificationGrantedEvent fires when a user gains or extends a badge
type VerificationGrantedEvent struct {
	UserID        string
	Tier          models.VerificationTier
	ReferralCount int
}

func (e VerificationGrantedEvent) Type() EventType {
	return EventTypeVerificationGranted
}

// VerificationExpiredEvent fires when a lapsed badge is cleared
type VerificationExpiredEvent struct {
	UserID string
}

func (e VerificationExpiredEvent) Type() EventType {
	return EventTypeVerificationExpired
}

// TournamentJoinedEvent represents a paid tournament entry
type TournamentJoinedEvent struct {
	UserID        string
	TournamentKey string
	EntryFee      int64
}

func (e TournamentJoinedEvent) Type() EventType {
	return EventTypeTournamentJoined
}

// WithdrawalRequestedEvent represents a pending manual payout
type WithdrawalRequestedEvent struct {
	UserID string
	Gross  int64
	Fee    int64
	Net    int64
}

func (e WithdrawalRequestedEvent) Type() EventType {
	return EventTypeWithdrawalRequested
}

// UserBannedEvent fires when an admin bans an account
type UserBannedEvent struct {
	UserID string
}

func (e UserBannedEvent) Type() EventType {
	return EventTypeUserBanned
}

// Handler is a function that handles events
type Handler func(ctx context.Context, event Event)

// Bus manages event subscriptions and dispatching
type Bus struct {
	mu       sync.RWMutex
	handlers map[EventType][]Handler
}

// NewBus creates a new event bus
func NewBus() *Bus {
	return &Bus{
		handlers: make(map[EventType][]Handler),
	}
}

// Subscribe adds a handler for a specific event type
func (b *Bus) Subscribe(eventType EventType, handler Handler) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.handlers[eventType] = append(b.handlers[eventType], handler)

	log.WithFields(log.Fields{
		"eventType":    eventType,
		"handlerCount": len(b.handlers[eventType]),
	}).Debug("Subscribed handler to event type")
}

// Emit publishes an event to all registered handlers
func (b *Bus) Emit(ctx context.Context, event Event) {
	b.mu.RLock()
	handlers := make([]Handler, len(b.handlers[event.Type()]))
	copy(handlers, b.handlers[event.Type()])
	b.mu.RUnlock()

	// Call handlers asynchronously to avoid blocking the emitter
	for i, handler := range handlers {
		go func(h Handler, handlerIndex int) {
			defer func() {
				if r := recover(); r != nil {
					log.WithFields(log.Fields{
						"eventType":    event.Type(),
						"handlerIndex": handlerIndex,
						"panic":        r,
					}).Error("Event handler panicked")
				}
			}()
			h(ctx, event)
		}(handler, i)
	}
}

// TransactionalBus holds pending events coupled to a unit of work and
// flushes them to the underlying bus only after the transaction commits.
type TransactionalBus struct {
	real    *Bus
	pending []Event
}

func NewTransactionalBus(real *Bus) *TransactionalBus {
	return &TransactionalBus{real: real}
}

func (b *TransactionalBus) Publish(e Event) {
	b.pending = append(b.pending, e)
}

// Flush is called after a successful DB commit. Events are emitted on a
// background context because they outlive the transaction's context.
func (b *TransactionalBus) Flush(ctx context.Context) {
	eventCtx := context.Background()
	for _, ev := range b.pending {
		b.real.Emit(eventCtx, ev)
	}
	b.pending = nil
}

// Discard drops pending events after a rollback
func (b *TransactionalBus) Discard() {
	b.pending = nil
}
