package models

import (
	"time"
)

// OutboxKind identifies the external message a pending outbox row carries
type OutboxKind string

const (
	OutboxWithdrawalRequest OutboxKind = "withdrawal_request"
	OutboxFirstDeposit      OutboxKind = "first_deposit"
)

// OutboxMessage is a pending operator notification. Rows are written inside
// the same transaction as the business change they describe and drained by
// the dispatcher, so a crash between commit and delivery loses nothing.
type OutboxMessage struct {
	ID        int64      `db:"id"`
	Kind      OutboxKind `db:"kind"`
	Payload   []byte     `db:"payload"`
	Attempts  int        `db:"attempts"`
	LastError string     `db:"last_error"`
	CreatedAt time.Time  `db:"created_at"`
	SentAt    *time.Time `db:"sent_at"`
}

// WithdrawalPayload is the payload of a withdrawal_request outbox row
type WithdrawalPayload struct {
	UID            string `json:"uid"`
	Username       string `json:"username"`
	Gross          int64  `json:"gross"`
	Fee            int64  `json:"fee"`
	Net            int64  `json:"net"`
	PaymentDetails string `json:"payment_details"`
}

// FirstDepositPayload is the payload of a first_deposit outbox row
type FirstDepositPayload struct {
	UID         string `json:"uid"`
	Username    string `json:"username"`
	Amount      int64  `json:"amount"`
	ReferrerUID string `json:"referrer_uid,omitempty"`
}
