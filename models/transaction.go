package models

import (
	"time"
)

// TransactionType represents the kind of ledger entry
type TransactionType string

const (
	TransactionTypeDeposit         TransactionType = "DEPOSIT"
	TransactionTypeWithdraw        TransactionType = "WITHDRAW"
	TransactionTypeJoinFee         TransactionType = "JOIN_FEE"
	TransactionTypeWinnings        TransactionType = "WINNINGS"
	TransactionTypeRefund          TransactionType = "REFUND"
	TransactionTypeAdminAdjustment TransactionType = "ADMIN_ADJUSTMENT"
	TransactionTypeCommission      TransactionType = "COMMISSION"
)

// TransactionStatus is the settlement state of a ledger entry
type TransactionStatus string

const (
	TransactionPending TransactionStatus = "PENDING"
	TransactionSuccess TransactionStatus = "SUCCESS"
	TransactionFailed  TransactionStatus = "FAILED"
)

// PlatformUserID is the sentinel owner of platform-level ledger entries
// such as withdrawal commissions.
const PlatformUserID = "ADMIN"

// Transaction is an append-only ledger entry. Amount is in paise and
// signed: debits (join fees, admin cuts) are negative, credits positive,
// except WITHDRAW which records the positive gross amount with the payable
// net in NetAmount. No entry is ever edited after insertion.
type Transaction struct {
	ID          int64             `db:"id" json:"id"`
	UserID      string            `db:"user_id" json:"user_id"`
	Type        TransactionType   `db:"type" json:"type"`
	Amount      int64             `db:"amount" json:"amount"`
	NetAmount   *int64            `db:"net_amount" json:"net_amount,omitempty"`
	Status      TransactionStatus `db:"status" json:"status"`
	Description string            `db:"description" json:"description"`
	CreatedAt   time.Time         `db:"created_at" json:"created_at"`
}

// BalanceDelta is the signed effect of the entry on the owner's balance.
// Used by the ledger audit to recompute balances.
func (t *Transaction) BalanceDelta() int64 {
	if t.Type == TransactionTypeWithdraw {
		return -t.Amount
	}
	return t.Amount
}
