package worker

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"arenabot/models"
	"arenabot/service"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type stubSender struct {
	sent []string
	err  error
}

func (s *stubSender) Send(ctx context.Context, text string) error {
	if s.err != nil {
		return s.err
	}
	s.sent = append(s.sent, text)
	return nil
}

func withdrawalMessage(t *testing.T, id int64) *models.OutboxMessage {
	payload, err := json.Marshal(models.WithdrawalPayload{
		UID:            "user-1",
		Username:       "player",
		Gross:          10000,
		Fee:            500,
		Net:            9500,
		PaymentDetails: "UPI player@upi",
	})
	require.NoError(t, err)
	return &models.OutboxMessage{ID: id, Kind: models.OutboxWithdrawalRequest, Payload: payload}
}

func TestDispatcher_Drain(t *testing.T) {
	ctx := context.Background()

	t.Run("delivered messages are marked sent", func(t *testing.T) {
		mockOutbox := new(service.MockOutboxRepository)
		sender := &stubSender{}
		d := NewDispatcher(mockOutbox, sender)

		msg := withdrawalMessage(t, 1)
		mockOutbox.On("Pending", ctx, maxAttempts, batchSize).Return([]*models.OutboxMessage{msg}, nil)
		mockOutbox.On("MarkSent", ctx, int64(1)).Return(nil)

		d.Drain(ctx)

		require.Len(t, sender.sent, 1)
		assert.Contains(t, sender.sent[0], "💸 Withdrawal request")
		assert.Contains(t, sender.sent[0], "₹100.00")
		assert.Contains(t, sender.sent[0], "₹95.00")
		mockOutbox.AssertExpectations(t)
	})

	t.Run("delivery failure records the error for retry", func(t *testing.T) {
		mockOutbox := new(service.MockOutboxRepository)
		sender := &stubSender{err: errors.New("telegram unreachable")}
		d := NewDispatcher(mockOutbox, sender)

		msg := withdrawalMessage(t, 2)
		mockOutbox.On("Pending", ctx, maxAttempts, batchSize).Return([]*models.OutboxMessage{msg}, nil)
		mockOutbox.On("MarkFailed", ctx, int64(2), "telegram unreachable").Return(nil)

		d.Drain(ctx)

		mockOutbox.AssertNotCalled(t, "MarkSent", ctx, mock.Anything)
		mockOutbox.AssertExpectations(t)
	})

	t.Run("malformed payload is parked, the batch continues", func(t *testing.T) {
		mockOutbox := new(service.MockOutboxRepository)
		sender := &stubSender{}
		d := NewDispatcher(mockOutbox, sender)

		bad := &models.OutboxMessage{ID: 3, Kind: models.OutboxWithdrawalRequest, Payload: []byte("{broken")}
		good := withdrawalMessage(t, 4)
		mockOutbox.On("Pending", ctx, maxAttempts, batchSize).Return([]*models.OutboxMessage{bad, good}, nil)
		mockOutbox.On("MarkFailed", ctx, int64(3), mock.Anything).Return(nil)
		mockOutbox.On("MarkSent", ctx, int64(4)).Return(nil)

		d.Drain(ctx)

		assert.Len(t, sender.sent, 1)
		mockOutbox.AssertExpectations(t)
	})

	t.Run("first deposit message names the referrer", func(t *testing.T) {
		mockOutbox := new(service.MockOutboxRepository)
		sender := &stubSender{}
		d := NewDispatcher(mockOutbox, sender)

		payload, err := json.Marshal(models.FirstDepositPayload{
			UID:         "user-1",
			Username:    "player",
			Amount:      10000,
			ReferrerUID: "ref-1",
		})
		require.NoError(t, err)
		msg := &models.OutboxMessage{ID: 5, Kind: models.OutboxFirstDeposit, Payload: payload}

		mockOutbox.On("Pending", ctx, maxAttempts, batchSize).Return([]*models.OutboxMessage{msg}, nil)
		mockOutbox.On("MarkSent", ctx, int64(5)).Return(nil)

		d.Drain(ctx)

		require.Len(t, sender.sent, 1)
		assert.Contains(t, sender.sent[0], "🎉 First deposit")
		assert.Contains(t, sender.sent[0], "Referred by: ref-1")
	})
}
