package repository

import (
	"context"
	"fmt"

	"arenabot/database"
	"arenabot/events"
	"arenabot/service"
	"github.com/jackc/pgx/v5"
)

// unitOfWork implements the UnitOfWork interface
type unitOfWork struct {
	db               *database.DB
	tx               pgx.Tx
	ctx              context.Context
	transactionalBus *events.TransactionalBus
	userRepo         service.UserRepository
	tournamentRepo   service.TournamentRepository
	transactionRepo  service.TransactionRepository
	chatRepo         service.ChatRepository
	notificationRepo service.NotificationRepository
	reportRepo       service.ReportRepository
	settingsRepo     service.SettingsRepository
	outboxRepo       service.OutboxRepository
}

// NewUnitOfWorkFactory creates a new UnitOfWork factory
func NewUnitOfWorkFactory(db *database.DB, eventBus *events.Bus) service.UnitOfWorkFactory {
	return &unitOfWorkFactory{
		db:       db,
		eventBus: eventBus,
	}
}

type unitOfWorkFactory struct {
	db       *database.DB
	eventBus *events.Bus
}

func (f *unitOfWorkFactory) Create() service.UnitOfWork {
	return &unitOfWork{
		db:               f.db,
		transactionalBus: events.NewTransactionalBus(f.eventBus),
	}
}

// Begin starts a new transaction
func (u *unitOfWork) Begin(ctx context.Context) error {
	if u.tx != nil {
		return fmt.Errorf("transaction already started")
	}

	tx, err := u.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	u.tx = tx
	u.ctx = ctx

	// Create repositories with the transaction
	u.userRepo = newUserRepositoryWithTx(tx)
	u.tournamentRepo = newTournamentRepositoryWithTx(tx)
	u.transactionRepo = newTransactionRepositoryWithTx(tx)
	u.chatRepo = newChatRepositoryWithTx(tx)
	u.notificationRepo = newNotificationRepositoryWithTx(tx)
	u.reportRepo = newReportRepositoryWithTx(tx)
	u.settingsRepo = newSettingsRepositoryWithTx(tx)
	u.outboxRepo = newOutboxRepositoryWithTx(tx)

	return nil
}

// Commit commits the transaction
func (u *unitOfWork) Commit() error {
	if u.tx == nil {
		return fmt.Errorf("no transaction to commit")
	}

	err := u.tx.Commit(u.ctx)
	if err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	u.tx = nil

	// Flush pending events after successful commit
	if u.transactionalBus != nil {
		u.transactionalBus.Flush(u.ctx)
	}

	return nil
}

// Rollback rolls back the transaction
func (u *unitOfWork) Rollback() error {
	if u.tx == nil {
		return nil // Nothing to rollback
	}

	err := u.tx.Rollback(u.ctx)
	if err != nil && err != pgx.ErrTxClosed {
		return fmt.Errorf("failed to rollback transaction: %w", err)
	}

	u.tx = nil

	// Discard pending events on rollback
	if u.transactionalBus != nil {
		u.transactionalBus.Discard()
	}

	return nil
}

// UserRepository returns the user repository for this unit of work
func (u *unitOfWork) UserRepository() service.UserRepository {
	if u.userRepo == nil {
		panic("unit of work not started - call Begin() first")
	}
	return u.userRepo
}

// TournamentRepository returns the tournament repository for this unit of work
func (u *unitOfWork) TournamentRepository() service.TournamentRepository {
	if u.tournamentRepo == nil {
		panic("unit of work not started - call Begin() first")
	}
	return u.tournamentRepo
}

// TransactionRepository returns the ledger repository for this unit of work
func (u *unitOfWork) TransactionRepository() service.TransactionRepository {
	if u.transactionRepo == nil {
		panic("unit of work not started - call Begin() first")
	}
	return u.transactionRepo
}

// ChatRepository returns the chat repository for this unit of work
func (u *unitOfWork) ChatRepository() service.ChatRepository {
	if u.chatRepo == nil {
		panic("unit of work not started - call Begin() first")
	}
	return u.chatRepo
}

// NotificationRepository returns the notification repository for this unit of work
func (u *unitOfWork) NotificationRepository() service.NotificationRepository {
	if u.notificationRepo == nil {
		panic("unit of work not started - call Begin() first")
	}
	return u.notificationRepo
}

// ReportRepository returns the report repository for this unit of work
func (u *unitOfWork) ReportRepository() service.ReportRepository {
	if u.reportRepo == nil {
		panic("unit of work not started - call Begin() first")
	}
	return u.reportRepo
}

// SettingsRepository returns the settings repository for this unit of work
func (u *unitOfWork) SettingsRepository() service.SettingsRepository {
	if u.settingsRepo == nil {
		panic("unit of work not started - call Begin() first")
	}
	return u.settingsRepo
}

// OutboxRepository returns the outbox repository for this unit of work
func (u *unitOfWork) OutboxRepository() service.OutboxRepository {
	if u.outboxRepo == nil {
		panic("unit of work not started - call Begin() first")
	}
	return u.outboxRepo
}

// EventBus returns the transactional event bus for this unit of work
func (u *unitOfWork) EventBus() service.EventPublisher {
	if u.transactionalBus == nil {
		panic("unit of work not started - call Begin() first")
	}
	return u.transactionalBus
}
