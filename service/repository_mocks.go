package service

import (
	"context"
	"time"

	"arenabot/events"
	"arenabot/models"

	"github.com/stretchr/testify/mock"
)

// MockUserRepository is a mock implementation of UserRepository
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) GetByUID(ctx context.Context, uid string) (*models.User, error) {
	args := m.Called(ctx, uid)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) GetByUIDForUpdate(ctx context.Context, uid string) (*models.User, error) {
	args := m.Called(ctx, uid)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) Create(ctx context.Context, user *models.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) UpdateProfile(ctx context.Context, user *models.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) AdjustBalance(ctx context.Context, uid string, delta int64) error {
	args := m.Called(ctx, uid, delta)
	return args.Error(0)
}

func (m *MockUserRepository) DeductBalance(ctx context.Context, uid string, amount int64) error {
	args := m.Called(ctx, uid, amount)
	return args.Error(0)
}

func (m *MockUserRepository) SetVerification(ctx context.Context, uid string, v *models.Verification) error {
	args := m.Called(ctx, uid, v)
	return args.Error(0)
}

func (m *MockUserRepository) ClearExpiredVerifications(ctx context.Context, now time.Time) (int64, error) {
	args := m.Called(ctx, now)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockUserRepository) SetHasDeposited(ctx context.Context, uid string) error {
	args := m.Called(ctx, uid)
	return args.Error(0)
}

func (m *MockUserRepository) SetValidReferralCount(ctx context.Context, uid string, count int) error {
	args := m.Called(ctx, uid, count)
	return args.Error(0)
}

func (m *MockUserRepository) AddTotalWinnings(ctx context.Context, uid string, amount int64) error {
	args := m.Called(ctx, uid, amount)
	return args.Error(0)
}

func (m *MockUserRepository) SetBanned(ctx context.Context, uid string, banned bool) error {
	args := m.Called(ctx, uid, banned)
	return args.Error(0)
}

func (m *MockUserRepository) SetRole(ctx context.Context, uid string, role models.UserRole) error {
	args := m.Called(ctx, uid, role)
	return args.Error(0)
}

func (m *MockUserRepository) TouchLastActive(ctx context.Context, uid string) error {
	args := m.Called(ctx, uid)
	return args.Error(0)
}

func (m *MockUserRepository) Block(ctx context.Context, uid, blockedUID string) error {
	args := m.Called(ctx, uid, blockedUID)
	return args.Error(0)
}

func (m *MockUserRepository) Unblock(ctx context.Context, uid, blockedUID string) error {
	args := m.Called(ctx, uid, blockedUID)
	return args.Error(0)
}

func (m *MockUserRepository) GetAll(ctx context.Context) ([]*models.User, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.User), args.Error(1)
}

func (m *MockUserRepository) Search(ctx context.Context, q string) ([]*models.User, error) {
	args := m.Called(ctx, q)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.User), args.Error(1)
}

// MockTournamentRepository is a mock implementation of TournamentRepository
type MockTournamentRepository struct {
	mock.Mock
}

func (m *MockTournamentRepository) GetByKey(ctx context.Context, key string) (*models.Tournament, error) {
	args := m.Called(ctx, key)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Tournament), args.Error(1)
}

func (m *MockTournamentRepository) GetByKeyForUpdate(ctx context.Context, key string) (*models.Tournament, error) {
	args := m.Called(ctx, key)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Tournament), args.Error(1)
}

func (m *MockTournamentRepository) List(ctx context.Context, status *models.TournamentStatus) ([]*models.Tournament, error) {
	args := m.Called(ctx, status)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Tournament), args.Error(1)
}

func (m *MockTournamentRepository) Create(ctx context.Context, t *models.Tournament) error {
	args := m.Called(ctx, t)
	return args.Error(0)
}

func (m *MockTournamentRepository) Update(ctx context.Context, t *models.Tournament) error {
	args := m.Called(ctx, t)
	return args.Error(0)
}

func (m *MockTournamentRepository) Delete(ctx context.Context, key string) error {
	args := m.Called(ctx, key)
	return args.Error(0)
}

func (m *MockTournamentRepository) SetStatus(ctx context.Context, key string, status models.TournamentStatus) error {
	args := m.Called(ctx, key, status)
	return args.Error(0)
}

func (m *MockTournamentRepository) SetRoom(ctx context.Context, key, roomID, roomPass string) error {
	args := m.Called(ctx, key, roomID, roomPass)
	return args.Error(0)
}

func (m *MockTournamentRepository) AddParticipant(ctx context.Context, key, uid string) (int, error) {
	args := m.Called(ctx, key, uid)
	return args.Int(0), args.Error(1)
}

func (m *MockTournamentRepository) HasParticipant(ctx context.Context, key, uid string) (bool, error) {
	args := m.Called(ctx, key, uid)
	return args.Bool(0), args.Error(1)
}

func (m *MockTournamentRepository) ListParticipants(ctx context.Context, key string) ([]string, error) {
	args := m.Called(ctx, key)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

// MockTransactionRepository is a mock implementation of TransactionRepository
type MockTransactionRepository struct {
	mock.Mock
}

func (m *MockTransactionRepository) Append(ctx context.Context, t *models.Transaction) error {
	args := m.Called(ctx, t)
	return args.Error(0)
}

func (m *MockTransactionRepository) GetByUser(ctx context.Context, userID string, limit int) ([]*models.Transaction, error) {
	args := m.Called(ctx, userID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Transaction), args.Error(1)
}

func (m *MockTransactionRepository) SumByUserAndType(ctx context.Context, userID string, txType models.TransactionType) (int64, error) {
	args := m.Called(ctx, userID, txType)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockTransactionRepository) SumByType(ctx context.Context, txType models.TransactionType) (int64, error) {
	args := m.Called(ctx, txType)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockTransactionRepository) SumByTypeAndStatus(ctx context.Context, txType models.TransactionType, status models.TransactionStatus) (int64, error) {
	args := m.Called(ctx, txType, status)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockTransactionRepository) CountByUser(ctx context.Context, userID string) (int64, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockTransactionRepository) GetAllByUser(ctx context.Context, userID string) ([]*models.Transaction, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Transaction), args.Error(1)
}

// MockChatRepository is a mock implementation of ChatRepository
type MockChatRepository struct {
	mock.Mock
}

func (m *MockChatRepository) Append(ctx context.Context, msg *models.ChatMessage) error {
	args := m.Called(ctx, msg)
	return args.Error(0)
}

func (m *MockChatRepository) ListVisible(ctx context.Context, pairID, viewerUID string) ([]*models.ChatMessage, error) {
	args := m.Called(ctx, pairID, viewerUID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.ChatMessage), args.Error(1)
}

func (m *MockChatRepository) MarkDeletedFor(ctx context.Context, pairID string, msgID int64, uid string) error {
	args := m.Called(ctx, pairID, msgID, uid)
	return args.Error(0)
}

// MockNotificationRepository is a mock implementation of NotificationRepository
type MockNotificationRepository struct {
	mock.Mock
}

func (m *MockNotificationRepository) Create(ctx context.Context, n *models.Notification) error {
	args := m.Called(ctx, n)
	return args.Error(0)
}

func (m *MockNotificationRepository) ListSince(ctx context.Context, since time.Time, limit int) ([]*models.Notification, error) {
	args := m.Called(ctx, since, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Notification), args.Error(1)
}

// MockReportRepository is a mock implementation of ReportRepository
type MockReportRepository struct {
	mock.Mock
}

func (m *MockReportRepository) Create(ctx context.Context, report *models.Report) error {
	args := m.Called(ctx, report)
	return args.Error(0)
}

func (m *MockReportRepository) List(ctx context.Context, status *models.ReportStatus) ([]*models.Report, error) {
	args := m.Called(ctx, status)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Report), args.Error(1)
}

func (m *MockReportRepository) Resolve(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// MockSettingsRepository is a mock implementation of SettingsRepository
type MockSettingsRepository struct {
	mock.Mock
}

func (m *MockSettingsRepository) Get(ctx context.Context) (*models.Settings, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Settings), args.Error(1)
}

func (m *MockSettingsRepository) Update(ctx context.Context, s *models.Settings) error {
	args := m.Called(ctx, s)
	return args.Error(0)
}

// MockOutboxRepository is a mock implementation of OutboxRepository
type MockOutboxRepository struct {
	mock.Mock
}

func (m *MockOutboxRepository) Enqueue(ctx context.Context, msg *models.OutboxMessage) error {
	args := m.Called(ctx, msg)
	return args.Error(0)
}

func (m *MockOutboxRepository) Pending(ctx context.Context, maxAttempts, limit int) ([]*models.OutboxMessage, error) {
	args := m.Called(ctx, maxAttempts, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.OutboxMessage), args.Error(1)
}

func (m *MockOutboxRepository) MarkSent(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockOutboxRepository) MarkFailed(ctx context.Context, id int64, deliveryErr string) error {
	args := m.Called(ctx, id, deliveryErr)
	return args.Error(0)
}

// MockEventPublisher is a mock implementation of EventPublisher
type MockEventPublisher struct {
	mock.Mock
}

func (m *MockEventPublisher) Publish(event events.Event) {
	m.Called(event)
}

// CapturedEvents is an EventPublisher that simply records what was
// published. The default bus on a MockUnitOfWork, so tests that do not
// assert on events still work.
type CapturedEvents struct {
	Events []events.Event
}

func (c *CapturedEvents) Publish(event events.Event) {
	c.Events = append(c.Events, event)
}

// MockUnitOfWork is a mock implementation of UnitOfWork. Begin, Commit and
// Rollback are regular testify expectations; the repository getters hand
// back whatever was injected through the setters.
type MockUnitOfWork struct {
	mock.Mock
	userRepo         UserRepository
	tournamentRepo   TournamentRepository
	transactionRepo  TransactionRepository
	chatRepo         ChatRepository
	notificationRepo NotificationRepository
	reportRepo       ReportRepository
	settingsRepo     SettingsRepository
	outboxRepo       OutboxRepository
	eventBus         EventPublisher
}

// SetRepositories injects the three most commonly mocked repositories
func (m *MockUnitOfWork) SetRepositories(users UserRepository, tournaments TournamentRepository, transactions TransactionRepository) {
	m.userRepo = users
	m.tournamentRepo = tournaments
	m.transactionRepo = transactions
}

func (m *MockUnitOfWork) SetChatRepository(repo ChatRepository) { m.chatRepo = repo }

func (m *MockUnitOfWork) SetNotificationRepository(repo NotificationRepository) {
	m.notificationRepo = repo
}

func (m *MockUnitOfWork) SetReportRepository(repo ReportRepository) { m.reportRepo = repo }

func (m *MockUnitOfWork) SetSettingsRepository(repo SettingsRepository) { m.settingsRepo = repo }

func (m *MockUnitOfWork) SetOutboxRepository(repo OutboxRepository) { m.outboxRepo = repo }

func (m *MockUnitOfWork) SetEventPublisher(bus EventPublisher) { m.eventBus = bus }

func (m *MockUnitOfWork) Begin(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockUnitOfWork) Commit() error {
	args := m.Called()
	return args.Error(0)
}

func (m *MockUnitOfWork) Rollback() error {
	args := m.Called()
	return args.Error(0)
}

func (m *MockUnitOfWork) UserRepository() UserRepository {
	return m.userRepo
}

func (m *MockUnitOfWork) TournamentRepository() TournamentRepository {
	return m.tournamentRepo
}

func (m *MockUnitOfWork) TransactionRepository() TransactionRepository {
	return m.transactionRepo
}

func (m *MockUnitOfWork) ChatRepository() ChatRepository {
	return m.chatRepo
}

func (m *MockUnitOfWork) NotificationRepository() NotificationRepository {
	return m.notificationRepo
}

func (m *MockUnitOfWork) ReportRepository() ReportRepository {
	return m.reportRepo
}

func (m *MockUnitOfWork) SettingsRepository() SettingsRepository {
	return m.settingsRepo
}

func (m *MockUnitOfWork) OutboxRepository() OutboxRepository {
	return m.outboxRepo
}

func (m *MockUnitOfWork) EventBus() EventPublisher {
	if m.eventBus == nil {
		m.eventBus = &CapturedEvents{}
	}
	return m.eventBus
}

// MockUnitOfWorkFactory is a mock implementation of UnitOfWorkFactory
type MockUnitOfWorkFactory struct {
	mock.Mock
}

func (m *MockUnitOfWorkFactory) Create() UnitOfWork {
	args := m.Called()
	return args.Get(0).(UnitOfWork)
}
