package repository

import (
	"context"
	"fmt"

	"arenabot/database"
	"arenabot/models"
)

// TransactionRepository implements the service.TransactionRepository
// interface. The ledger is append-only; there is no update method.
type TransactionRepository struct {
	q queryable
}

// NewTransactionRepository creates a new transaction repository
func NewTransactionRepository(db *database.DB) *TransactionRepository {
	return &TransactionRepository{q: db.Pool}
}

// newTransactionRepositoryWithTx creates a new transaction repository with a transaction
func newTransactionRepositoryWithTx(tx queryable) *TransactionRepository {
	return &TransactionRepository{q: tx}
}

// Append inserts a new ledger entry
func (r *TransactionRepository) Append(ctx context.Context, t *models.Transaction) error {
	query := `
		INSERT INTO transactions (user_id, type, amount, net_amount, status, description)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at
	`

	err := r.q.QueryRow(ctx, query,
		t.UserID, t.Type, t.Amount, t.NetAmount, t.Status, t.Description,
	).Scan(&t.ID, &t.CreatedAt)

	if err != nil {
		return fmt.Errorf("failed to append transaction for user %s: %w", t.UserID, err)
	}
	return nil
}

// GetByUser returns a user's ledger entries, newest first
func (r *TransactionRepository) GetByUser(ctx context.Context, userID string, limit int) ([]*models.Transaction, error) {
	query := `
		SELECT id, user_id, type, amount, net_amount, status, description, created_at
		FROM transactions
		WHERE user_id = $1
		ORDER BY created_at DESC
		LIMIT $2
	`

	rows, err := r.q.Query(ctx, query, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to get transactions for user %s: %w", userID, err)
	}
	defer rows.Close()

	var txns []*models.Transaction
	for rows.Next() {
		var t models.Transaction
		err := rows.Scan(&t.ID, &t.UserID, &t.Type, &t.Amount, &t.NetAmount,
			&t.Status, &t.Description, &t.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("failed to scan transaction: %w", err)
		}
		txns = append(txns, &t)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate transactions: %w", err)
	}
	return txns, nil
}

// SumByUserAndType totals a user's entries of one kind. Leaderboard scoring
// falls back to this when the lifetime winnings counter was never bumped.
func (r *TransactionRepository) SumByUserAndType(ctx context.Context, userID string, txType models.TransactionType) (int64, error) {
	query := `
		SELECT COALESCE(SUM(amount), 0)
		FROM transactions
		WHERE user_id = $1 AND type = $2 AND status = 'SUCCESS'
	`

	var total int64
	if err := r.q.QueryRow(ctx, query, userID, txType).Scan(&total); err != nil {
		return 0, fmt.Errorf("failed to sum transactions for user %s: %w", userID, err)
	}
	return total, nil
}

// SumByType totals all entries of one kind across users (platform stats)
func (r *TransactionRepository) SumByType(ctx context.Context, txType models.TransactionType) (int64, error) {
	query := `
		SELECT COALESCE(SUM(amount), 0)
		FROM transactions
		WHERE type = $1 AND status = 'SUCCESS'
	`

	var total int64
	if err := r.q.QueryRow(ctx, query, txType).Scan(&total); err != nil {
		return 0, fmt.Errorf("failed to sum transactions of type %s: %w", txType, err)
	}
	return total, nil
}

// SumByTypeAndStatus totals all entries of one kind in one state. The
// admin dashboard uses this for the pending withdrawal figure.
func (r *TransactionRepository) SumByTypeAndStatus(ctx context.Context, txType models.TransactionType, status models.TransactionStatus) (int64, error) {
	query := `
		SELECT COALESCE(SUM(amount), 0)
		FROM transactions
		WHERE type = $1 AND status = $2
	`

	var total int64
	if err := r.q.QueryRow(ctx, query, txType, status).Scan(&total); err != nil {
		return 0, fmt.Errorf("failed to sum %s transactions with status %s: %w", txType, status, err)
	}
	return total, nil
}

// CountByUser returns the number of ledger entries a user owns
func (r *TransactionRepository) CountByUser(ctx context.Context, userID string) (int64, error) {
	var count int64
	err := r.q.QueryRow(ctx,
		`SELECT COUNT(*) FROM transactions WHERE user_id = $1`, userID,
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count transactions for user %s: %w", userID, err)
	}
	return count, nil
}

// GetAllByUser returns every ledger entry a user owns, oldest first.
// The ledger audit replays these to recompute the balance.
func (r *TransactionRepository) GetAllByUser(ctx context.Context, userID string) ([]*models.Transaction, error) {
	query := `
		SELECT id, user_id, type, amount, net_amount, status, description, created_at
		FROM transactions
		WHERE user_id = $1
		ORDER BY created_at ASC
	`

	rows, err := r.q.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get transactions for user %s: %w", userID, err)
	}
	defer rows.Close()

	var txns []*models.Transaction
	for rows.Next() {
		var t models.Transaction
		err := rows.Scan(&t.ID, &t.UserID, &t.Type, &t.Amount, &t.NetAmount,
			&t.Status, &t.Description, &t.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("failed to scan transaction: %w", err)
		}
		txns = append(txns, &t)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate transactions: %w", err)
	}
	return txns, nil
}
